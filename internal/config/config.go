package config

import (
	"log"
	"os"
	"time"

	"github.com/joho/godotenv"
	"gopkg.in/yaml.v3"
)

type Config struct {
	Server struct {
		Port string `yaml:"port"`
		// PublicURL is the externally visible base of this service, used in preview tags.
		PublicURL string `yaml:"publicURL"`
		// AppURL is the web client that preview pages redirect to.
		AppURL         string   `yaml:"appURL"`
		PreviewImage   string   `yaml:"previewImage"`
		AllowedOrigins []string `yaml:"allowedOrigins"`
	} `yaml:"server"`
	Redis struct {
		Addr     string `yaml:"addr"`
		Password string `yaml:"password"`
		DB       int    `yaml:"db"`
		TTL      string `yaml:"ttl"`
	} `yaml:"redis"`
	Postgres struct {
		URL string `yaml:"url"`
	} `yaml:"postgres"`
	Share struct {
		CacheTTL string `yaml:"cacheTTL"`
	} `yaml:"share"`
	Session struct {
		TTL string `yaml:"ttl"`
	} `yaml:"session"`
	Auth struct {
		JWTSecret string `yaml:"jwtSecret"`
		TokenTTL  string `yaml:"tokenTTL"`
		Issuer    string `yaml:"issuer"`
		Google    struct {
			ClientID     string   `yaml:"clientID"`
			ClientSecret string   `yaml:"clientSecret"`
			RedirectURL  string   `yaml:"redirectURL"`
			Scopes       []string `yaml:"scopes"`
		} `yaml:"google"`
	} `yaml:"auth"`
	Generator struct {
		APIKey      string  `yaml:"apiKey"`
		Model       string  `yaml:"model"`
		Temperature float32 `yaml:"temperature"`
		Timeout     string  `yaml:"timeout"`
	} `yaml:"generator"`
	RabbitMQ struct {
		URL      string `yaml:"url"`
		Exchange string `yaml:"exchange"`
	} `yaml:"rabbitmq"`
}

// Load reads YAML config from path, then applies environment overrides. A .env file in
// the working directory is loaded first when present.
func Load(path string) (Config, error) {
	if err := godotenv.Load(); err != nil && !os.IsNotExist(err) {
		log.Printf("could not load .env: %v", err)
	}

	cfg := Config{}
	data, err := os.ReadFile(path)
	if err != nil {
		return cfg, err
	}
	if err := yaml.Unmarshal(data, &cfg); err != nil {
		return cfg, err
	}
	cfg.applyEnv()
	return cfg, nil
}

func (c *Config) applyEnv() {
	overrides := map[string]*string{
		"JWT_SECRET":           &c.Auth.JWTSecret,
		"GEMINI_API_KEY":       &c.Generator.APIKey,
		"GOOGLE_CLIENT_ID":     &c.Auth.Google.ClientID,
		"GOOGLE_CLIENT_SECRET": &c.Auth.Google.ClientSecret,
		"DATABASE_URL":         &c.Postgres.URL,
		"REDIS_ADDR":           &c.Redis.Addr,
		"RABBITMQ_URL":         &c.RabbitMQ.URL,
	}
	for key, field := range overrides {
		if v := os.Getenv(key); v != "" {
			*field = v
		}
	}
}

// TTLDuration parses a duration string or returns the fallback if empty.
func TTLDuration(raw string, fallback time.Duration) time.Duration {
	if raw == "" {
		return fallback
	}
	if d, err := time.ParseDuration(raw); err == nil {
		return d
	}
	return fallback
}
