package cli

import (
	"context"
	"errors"
	"fmt"
	"io"
	"log"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"trivia-service/internal/app"
	"trivia-service/internal/auth"
	"trivia-service/internal/config"
	"trivia-service/internal/generator"
	"trivia-service/internal/infra/memory"
	"trivia-service/internal/infra/postgres"
	"trivia-service/internal/infra/rabbitmq"
	redisstore "trivia-service/internal/infra/redis"
	transport "trivia-service/internal/transport/http"

	"github.com/jackc/pgx/v4/pgxpool"
	"github.com/redis/go-redis/v9"
	"github.com/spf13/cobra"
)

// NewStartCmd builds the CLI subcommand to start the server.
func NewStartCmd(configPath, port *string) *cobra.Command {
	return &cobra.Command{
		Use:   "start",
		Short: "Start the trivia server",
		RunE: func(cmd *cobra.Command, args []string) error {
			return runServer(cmd.Context(), *configPath, *port)
		},
	}
}

func runServer(ctx context.Context, configPath, portFlag string) error {
	cfg, err := config.Load(configPath)
	if err != nil {
		return err
	}

	if cfg.Postgres.URL != "" {
		if err := runMigrationsWithConfig(ctx, cfg); err != nil {
			return err
		}
	}

	finalPort := portFlag
	if finalPort == "" {
		finalPort = cfg.Server.Port
	}
	if finalPort == "" {
		finalPort = "8080"
	}

	var redisClient *redis.Client
	if cfg.Redis.Addr != "" {
		redisClient = redis.NewClient(&redis.Options{
			Addr:     cfg.Redis.Addr,
			Password: cfg.Redis.Password,
			DB:       cfg.Redis.DB,
		})
		defer redisClient.Close()
	}

	var pool *pgxpool.Pool
	if cfg.Postgres.URL != "" {
		pool, err = pgxpool.Connect(ctx, cfg.Postgres.URL)
		if err != nil {
			return err
		}
		defer pool.Close()
	}

	events, closeEvents, err := newEventPublisher(cfg)
	if err != nil {
		return err
	}
	defer closeEvents.Close()

	shareTTL := config.TTLDuration(cfg.Share.CacheTTL, 10*time.Minute)
	var shareRepo app.ShareRepository
	switch {
	case pool != nil && redisClient != nil:
		shareRepo = redisstore.NewShareCache(redisClient, postgres.NewShareRepository(pool), shareTTL)
	case pool != nil:
		shareRepo = memory.NewShareCache(postgres.NewShareRepository(pool), shareTTL)
	default:
		log.Printf("postgres not configured, shared links are kept in memory")
		shareRepo = memory.NewShareStore()
	}

	gameTTL := config.TTLDuration(cfg.Session.TTL, config.TTLDuration(cfg.Redis.TTL, 2*time.Hour))
	var games app.GameRepository = memory.NewGameStore(gameTTL)
	var revocations auth.RevocationStore = memory.NewRevocationStore()
	if redisClient != nil {
		games = redisstore.NewGameStore(redisClient, gameTTL)
		revocations = redisstore.NewRevocationStore(redisClient)
	}

	var profileRepo app.ProfileRepository = memory.NewProfileStore()
	var accounts auth.AccountRepository = memory.NewAccountStore()
	if pool != nil {
		profileRepo = postgres.NewProfileRepository(pool)
		accounts = postgres.NewAccountRepository(pool)
	}

	gen, err := generator.NewGemini(ctx, generator.Config{
		APIKey:      cfg.Generator.APIKey,
		Model:       cfg.Generator.Model,
		Temperature: cfg.Generator.Temperature,
		Timeout:     config.TTLDuration(cfg.Generator.Timeout, 30*time.Second),
	})
	if err != nil {
		return err
	}

	tokens, err := auth.NewTokenIssuer(cfg.Auth.JWTSecret, cfg.Auth.Issuer, config.TTLDuration(cfg.Auth.TokenTTL, 24*time.Hour))
	if err != nil {
		return err
	}
	var google *auth.GoogleProvider
	if cfg.Auth.Google.ClientID != "" {
		google = auth.NewGoogleProvider(auth.GoogleConfig{
			ClientID:     cfg.Auth.Google.ClientID,
			ClientSecret: cfg.Auth.Google.ClientSecret,
			RedirectURL:  cfg.Auth.Google.RedirectURL,
			Scopes:       cfg.Auth.Google.Scopes,
		})
	}

	shares := app.NewShareService(shareRepo, events)
	profiles := app.NewProfileService(profileRepo)
	handler := transport.NewRouter(transport.Services{
		Games:    app.NewGameService(games, shares, gen, events),
		Shares:   shares,
		Profiles: profiles,
		Auth:     auth.NewService(accounts, tokens, revocations, profiles, google),
	}, transport.Options{
		AllowedOrigins: cfg.Server.AllowedOrigins,
		Preview: transport.PreviewConfig{
			PublicURL: cfg.Server.PublicURL,
			AppURL:    cfg.Server.AppURL,
			Image:     cfg.Server.PreviewImage,
		},
	})

	server := &http.Server{
		Addr:         ":" + finalPort,
		Handler:      handler,
		ReadTimeout:  15 * time.Second,
		WriteTimeout: 60 * time.Second,
	}

	go func() {
		log.Printf("starting trivia service on :%s", finalPort)
		if err := server.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			log.Printf("failed to start server: %v", err)
		}
	}()

	stop := make(chan os.Signal, 1)
	signal.Notify(stop, syscall.SIGINT, syscall.SIGTERM)

	select {
	case <-stop:
		log.Println("shutting down server...")
	case <-ctx.Done():
		log.Println("context canceled, shutting down server...")
	}

	shutdownCtx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()
	return server.Shutdown(shutdownCtx)
}

type nopCloser struct{}

func (nopCloser) Close() error { return nil }

// newEventPublisher connects to RabbitMQ when configured and logs events otherwise.
func newEventPublisher(cfg config.Config) (app.EventPublisher, io.Closer, error) {
	if cfg.RabbitMQ.URL == "" {
		log.Printf("rabbitmq not configured, events are logged")
		return app.LogPublisher{}, nopCloser{}, nil
	}
	publisher, err := rabbitmq.NewPublisher(cfg.RabbitMQ.URL, cfg.RabbitMQ.Exchange)
	if err != nil {
		return nil, nil, fmt.Errorf("event publisher: %w", err)
	}
	return publisher, publisher, nil
}
