package app

import (
	"errors"
	"fmt"
	"os"
	"strconv"
	"time"

	"github.com/meishilabs/meishi/pkg/tokenx"
)

// ErrConfiguration marks startup configuration problems. The process must
// not come up with missing or unusable secrets.
var ErrConfiguration = errors.New("configuration error")

type Config struct {
	AccessSecret  string // Required: HMAC secret for access tokens
	RefreshSecret string // Required: HMAC secret for refresh tokens, must differ from AccessSecret

	AccessTTL  time.Duration // Optional: access token lifetime (default: 1h)
	RefreshTTL time.Duration // Optional: refresh token lifetime (default: 7d)

	DatabaseFile string // Optional: path to SQLite database file (default: ./meishi.db)
	PepperFile   string // Optional: path to pepper file for password hashing (default: ./pepper)
	CookieDomain string // Optional: Domain attribute for session cookies (default: host-only)

	Env                 string        // Environment (dev, staging, prod) (default: dev)
	LogLevel            string        // Log level (debug, info, warn, error) (default: info)
	LogFormat           string        // Log format (json, text) (default: json)
	Port                int           // HTTP server port (default: 8080)
	ShutdownGracePeriod time.Duration // Graceful shutdown timeout (default: 10s)
}

func LoadConfig() Config {
	return Config{
		AccessSecret:        os.Getenv("MEISHI_ACCESS_SECRET"),
		RefreshSecret:       os.Getenv("MEISHI_REFRESH_SECRET"),
		AccessTTL:           getEnvDurationOrDefault("MEISHI_ACCESS_TTL", tokenx.DefaultAccessTokenTTL),
		RefreshTTL:          getEnvDurationOrDefault("MEISHI_REFRESH_TTL", tokenx.DefaultRefreshTokenTTL),
		DatabaseFile:        getEnvOrDefault("MEISHI_DATABASE_FILE", "meishi.db"),
		PepperFile:          getEnvOrDefault("MEISHI_PEPPER_FILE", "pepper"),
		CookieDomain:        os.Getenv("MEISHI_COOKIE_DOMAIN"),
		Env:                 getEnvOrDefault("ENV", "dev"),
		LogLevel:            getEnvOrDefault("LOG_LEVEL", "info"),
		LogFormat:           getEnvOrDefault("LOG_FORMAT", "json"),
		Port:                getEnvIntOrDefault("PORT", 8080),
		ShutdownGracePeriod: getEnvDurationOrDefault("SHUTDOWN_GRACE_PERIOD", 10*time.Second),
	}
}

// Validate rejects configurations the service must not start with.
func (c Config) Validate() error {
	if c.AccessSecret == "" {
		return fmt.Errorf("%w: MEISHI_ACCESS_SECRET is required", ErrConfiguration)
	}
	if c.RefreshSecret == "" {
		return fmt.Errorf("%w: MEISHI_REFRESH_SECRET is required", ErrConfiguration)
	}
	if c.AccessSecret == c.RefreshSecret {
		return fmt.Errorf("%w: access and refresh secrets must differ", ErrConfiguration)
	}
	if len(c.AccessSecret) < 32 || len(c.RefreshSecret) < 32 {
		return fmt.Errorf("%w: token secrets must be at least 32 bytes", ErrConfiguration)
	}
	if c.AccessTTL <= 0 || c.RefreshTTL <= 0 {
		return fmt.Errorf("%w: token TTLs must be positive", ErrConfiguration)
	}
	return nil
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

	if duration, err := time.ParseDuration(value); err == nil {
		return duration
	}

	// Bare integers are read as seconds
	if secs, err := strconv.Atoi(value); err == nil {
		return time.Duration(secs) * time.Second
	}

	return defaultValue
}
