package config

import (
	"os"
	"time"

	"authkit/internal/logger"
	"authkit/internal/utils"
)

type Config struct {
	AppPort string

	// SessionBackend selects the cookie wire encoding:
	// "cookie" signs the session into the cookie itself,
	// "redis" keeps values server-side behind an opaque ID.
	SessionBackend string
	SessionSecret  string
	SessionTTL     time.Duration

	// AuthBackend selects the provider binding: "token" (external
	// identity provider) or "credentials" (bcrypt in Postgres).
	AuthBackend string

	// IdentityProvider names the identity client the token binding
	// uses: "toolkit" or "oidc-password".
	IdentityProvider string

	ToolkitBaseURL string
	ToolkitAPIKey  string

	OIDCIssuer       string
	OIDCClientID     string
	OIDCClientSecret string

	RedisAddr     string
	RedisPassword string

	DatabaseDSN string
}

func Load() Config {

	cfg := Config{

		AppPort: getenv("APP_PORT", "8080"),

		SessionBackend: getenv("SESSION_BACKEND", "cookie"),
		SessionSecret:  os.Getenv("SESSION_SECRET"),
		SessionTTL:     getenvDuration("SESSION_TTL", 24*time.Hour),

		AuthBackend:      getenv("AUTH_BACKEND", "token"),
		IdentityProvider: getenv("IDENTITY_PROVIDER", "toolkit"),

		ToolkitBaseURL: os.Getenv("TOOLKIT_BASE_URL"),
		ToolkitAPIKey:  os.Getenv("TOOLKIT_API_KEY"),

		OIDCIssuer:       os.Getenv("OIDC_ISSUER"),
		OIDCClientID:     os.Getenv("OIDC_CLIENT_ID"),
		OIDCClientSecret: os.Getenv("OIDC_CLIENT_SECRET"),

		RedisAddr:     os.Getenv("REDIS_ADDR"),
		RedisPassword: os.Getenv("REDIS_PASSWORD"),

		DatabaseDSN: os.Getenv("DATABASE_DSN"),
	}

	if cfg.SessionSecret == "" {
		// Sessions from a generated secret do not survive restarts.
		cfg.SessionSecret = utils.RandomString(32)
		logger.Warn("SESSION_SECRET not set, generated an ephemeral one", nil)
	}

	return cfg

}

func getenv(key, fallback string) string {
	if v := os.Getenv(key); v != "" {
		return v
	}
	return fallback
}

func getenvDuration(key string, fallback time.Duration) time.Duration {
	v := os.Getenv(key)
	if v == "" {
		return fallback
	}
	d, err := time.ParseDuration(v)
	if err != nil {
		logger.Warn("invalid duration in environment", map[string]any{
			"key":   key,
			"value": v,
		})
		return fallback
	}
	return d
}
