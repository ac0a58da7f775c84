package app

import (
	"os"
	"strconv"
	"strings"
	"time"

	"github.com/pantrylabs/pantry/pkg/jwtx"
)

type Config struct {
	Issuer     string        // Required: issuer claim for tokens
	Secret     string        // Optional: signing secret; takes precedence over SecretFile
	SecretFile string        // Optional: path to the signing secret file (default: ./secret.key)
	AccessTTL  time.Duration // Optional: access token lifetime (default: 30m)
	RefreshTTL time.Duration // Optional: refresh token lifetime (default: 24h)

	PublicPaths []string // Optional: path prefixes the authn middleware skips

	CookieName   string // Optional: refresh cookie name (default: refresh_token)
	CookiePath   string // Optional: refresh cookie path (default: /)
	CookieSecure bool   // Optional: set the Secure flag on the refresh cookie

	DatabaseFile         string        // Optional: path to SQLite database file (default: ./auth.db)
	PepperFile           string        // Optional: path to the password pepper file (default: ./pepper)
	Env                  string        // Environment (dev, staging, prod) (default: dev)
	LogLevel             string        // Log level (debug, info, warn, error) (default: info)
	LogFormat            string        // Log format (json, text) (default: json)
	Port                 int           // HTTP server port (default: 8080)
	ShutdownGracePeriod  time.Duration // Graceful shutdown timeout (default: 10s)
	HousekeepingInterval time.Duration // Housekeeping interval (default: 1h)
}

// defaultPublicPaths are the endpoints that must be reachable without a
// token: the session entry points and the operational probes.
var defaultPublicPaths = []string{
	"/login", "/signup", "/reissue", "/logout",
	"/livez", "/readyz", "/swagger",
}

func LoadConfig() Config {
	cfg := Config{
		Issuer:       os.Getenv("AUTH_ISSUER"),
		Secret:       os.Getenv("AUTH_SECRET"),
		SecretFile:   getEnvOrDefault("AUTH_SECRET_FILE", "secret.key"),
		AccessTTL:    getEnvDurationOrDefault("AUTH_ACCESS_TTL", jwtx.DefaultAccessTokenTTL),
		RefreshTTL:   getEnvDurationOrDefault("AUTH_REFRESH_TTL", jwtx.DefaultRefreshTokenTTL),
		PublicPaths:  defaultPublicPaths,
		CookieName:   getEnvOrDefault("AUTH_COOKIE_NAME", "refresh"),
		CookiePath:   getEnvOrDefault("AUTH_COOKIE_PATH", "/"),
		CookieSecure: getEnvOrDefault("AUTH_COOKIE_SECURE", "false") == "true",
		DatabaseFile: getEnvOrDefault("AUTH_DATABASE_FILE", "auth.db"),
		PepperFile:   getEnvOrDefault("AUTH_PEPPER_FILE", "pepper"),

		Env:                  getEnvOrDefault("ENV", "dev"),
		LogLevel:             getEnvOrDefault("LOG_LEVEL", "info"),
		LogFormat:            getEnvOrDefault("LOG_FORMAT", "json"),
		Port:                 getEnvIntOrDefault("PORT", 8080),
		ShutdownGracePeriod:  getEnvDurationOrDefault("SHUTDOWN_GRACE_PERIOD", 10*time.Second),
		HousekeepingInterval: getEnvDurationOrDefault("HOUSEKEEPING_INTERVAL", 1*time.Hour),
	}

	// Comma-separated override for the excluded prefixes.
	if paths := os.Getenv("AUTH_PUBLIC_PATHS"); paths != "" {
		cfg.PublicPaths = nil
		for _, p := range strings.Split(paths, ",") {
			if p = strings.TrimSpace(p); p != "" {
				cfg.PublicPaths = append(cfg.PublicPaths, p)
			}
		}
	}

	if cfg.Issuer == "" {
		cfg.Issuer = "pantry-auth"
	}

	return cfg
}

func getEnvOrDefault(key, defaultValue string) string {
	if value := os.Getenv(key); value != "" {
		return value
	}
	return defaultValue
}

func getEnvIntOrDefault(key string, defaultValue int) int {
	value := os.Getenv(key)
	if value == "" {
		return defaultValue
	}

	if intValue, err := strconv.Atoi(value); err == nil {
		return intValue
	}

	return defaultValue
}

func getEnvDurationOrDefault(key string, defaultValue time.Duration) time.Duration {
	value := os.Getenv(key)
	if value == "" {
		return defaultValue
	}

	// Try parsing as duration (e.g., "1h", "30m", "90s")
	if duration, err := time.ParseDuration(value); err == nil {
		return duration
	}

	// Try parsing as integer minutes (for backwards compatibility)
	if minutes, err := strconv.Atoi(value); err == nil {
		return time.Duration(minutes) * time.Minute
	}

	return defaultValue
}
