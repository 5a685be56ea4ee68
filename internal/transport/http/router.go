package http

import (
	"net/http"

	"trivia-service/internal/app"
	"trivia-service/internal/auth"
	"trivia-service/internal/metrics"
)

// Services are the use cases the router exposes.
type Services struct {
	Games    *app.GameService
	Shares   *app.ShareService
	Profiles *app.ProfileService
	Auth     *auth.Service
}

// Options tune the outer surface of the API.
type Options struct {
	AllowedOrigins []string
	Preview        PreviewConfig
}

// NewRouter registers every route and wraps them with CORS and request logging.
func NewRouter(svc Services, opts Options) http.Handler {
	mux := http.NewServeMux()
	protect := func(h http.HandlerFunc) http.HandlerFunc { return requireAuth(svc.Auth, h) }

	shares := NewShareHandler(svc.Shares)
	previews := NewPreviewHandler(svc.Shares, opts.Preview)
	games := NewGameHandler(svc.Games)
	profiles := NewProfileHandler(svc.Profiles)
	authn := NewAuthHandler(svc.Auth, opts.Preview.AppURL)
	ws := NewWSHandler(svc.Games, opts.AllowedOrigins)

	mux.HandleFunc("GET /healthz", func(w http.ResponseWriter, r *http.Request) {
		w.Write([]byte("ok"))
	})
	mux.Handle("GET /metrics", metrics.Handler())

	mux.HandleFunc("POST /api/auth/signup", authn.Signup)
	mux.HandleFunc("POST /api/auth/login", authn.Login)
	mux.HandleFunc("POST /api/auth/logout", protect(authn.Logout))
	mux.HandleFunc("GET /api/auth/session", protect(authn.Session))
	mux.HandleFunc("GET /api/auth/google", authn.GoogleLogin)
	mux.HandleFunc("GET /api/auth/google/callback", authn.GoogleCallback)

	mux.HandleFunc("GET /api/profile", protect(profiles.Get))
	mux.HandleFunc("PUT /api/profile", protect(profiles.Update))

	mux.HandleFunc("POST /api/quizzes/share", protect(shares.ShareQuiz))
	mux.HandleFunc("GET /api/quizzes/{id}", shares.GetQuiz)
	mux.HandleFunc("POST /api/quizzes/{id}/play", protect(games.StartShared))
	mux.HandleFunc("POST /api/results/share", protect(shares.ShareResult))
	mux.HandleFunc("GET /api/results/{id}", shares.GetResult)
	mux.HandleFunc("GET /share/{id}", previews.Quiz)
	mux.HandleFunc("GET /share-result/{id}", previews.Result)

	mux.HandleFunc("POST /api/games", protect(games.Create))
	mux.HandleFunc("DELETE /api/generations", protect(games.CancelGeneration))
	mux.HandleFunc("GET /api/games/{id}", protect(games.Get))
	mux.HandleFunc("DELETE /api/games/{id}", protect(games.Discard))
	mux.HandleFunc("POST /api/games/{id}/answer", protect(games.Answer))
	mux.HandleFunc("POST /api/games/{id}/next", protect(games.Next))
	mux.HandleFunc("POST /api/games/{id}/share", protect(games.ShareQuiz))
	mux.HandleFunc("POST /api/games/{id}/share-result", protect(games.ShareResult))

	mux.HandleFunc("GET /ws", protect(ws.ServeWS))

	return withLogging(withCORS(opts.AllowedOrigins, mux))
}
