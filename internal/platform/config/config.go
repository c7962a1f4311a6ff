// Package config loads typed process configuration from the environment.
package config

import (
	"errors"
	"fmt"
	"io/fs"
	"log/slog"
	"os"
	"strconv"
	"strings"
	"time"

	"github.com/joho/godotenv"
)

const (
	StorageMemory   = "memory"
	StoragePostgres = "postgres"

	AuthModeAuthServer = "authserver"
	AuthModeJWT        = "jwt"
	AuthModeDev        = "dev"
)

type Config struct {
	Port      string
	Env       string
	LogFormat string
	LogLevel  string
	Version   string

	StorageBackend string
	DatabaseURL    string
	DBMaxConns     int32

	AuthMode       string
	AuthServerURL  string
	AuthTimeout    time.Duration
	DevSubject     string
	JWT            JWTConfig
	RateLimitRPS   float64
	RateLimitBurst int

	CORSAllowedOrigins []string
	ShutdownTimeout    time.Duration
}

// SlogLevel maps LogLevel to an slog.Level, defaulting to info.
func (c Config) SlogLevel() slog.Level {
	switch strings.ToLower(c.LogLevel) {
	case "debug":
		return slog.LevelDebug
	case "warn", "warning":
		return slog.LevelWarn
	case "error":
		return slog.LevelError
	default:
		return slog.LevelInfo
	}
}

func (c Config) IsProduction() bool {
	return strings.EqualFold(c.Env, "production")
}

// LoadDotEnv seeds the environment from the given files (".env" when none are
// named). Variables already set win; missing files are ignored.
func LoadDotEnv(files ...string) error {
	if len(files) == 0 {
		files = []string{".env"}
	}
	for _, f := range files {
		if err := godotenv.Load(f); err != nil && !errors.Is(err, fs.ErrNotExist) {
			return fmt.Errorf("load %s: %w", f, err)
		}
	}
	return nil
}

// LoadFromEnv reads and validates the configuration.
func LoadFromEnv() (Config, error) {
	cfg := Config{
		Port:               getenv("PORT", "3333"),
		Env:                getenv("ENV", "development"),
		LogFormat:          getenv("LOG_FORMAT", "text"),
		LogLevel:           getenv("LOG_LEVEL", "info"),
		Version:            getenv("APP_VERSION", "1.0.0"),
		StorageBackend:     strings.ToLower(getenv("STORAGE_BACKEND", StorageMemory)),
		DatabaseURL:        getenv("DATABASE_URL", ""),
		AuthMode:           strings.ToLower(getenv("AUTH_MODE", AuthModeDev)),
		AuthServerURL:      strings.TrimRight(getenv("AUTH_SERVER_URL", ""), "/"),
		DevSubject:         getenv("DEV_SUBJECT", "dev-owner"),
		CORSAllowedOrigins: splitList(getenv("CORS_ALLOWED_ORIGINS", "http://localhost:3000")),
	}

	var err error
	if cfg.AuthTimeout, err = getenvDuration("AUTH_TIMEOUT", 5*time.Second); err != nil {
		return Config{}, err
	}
	if cfg.ShutdownTimeout, err = getenvDuration("SHUTDOWN_TIMEOUT", 10*time.Second); err != nil {
		return Config{}, err
	}
	maxConns, err := getenvInt("DB_MAX_CONNS", 10)
	if err != nil {
		return Config{}, err
	}
	cfg.DBMaxConns = int32(maxConns)
	if cfg.RateLimitBurst, err = getenvInt("AUTH_RATE_LIMIT_BURST", 20); err != nil {
		return Config{}, err
	}
	if v := getenv("AUTH_RATE_LIMIT_RPS", ""); v != "" {
		f, perr := strconv.ParseFloat(v, 64)
		if perr != nil || f <= 0 {
			return Config{}, fmt.Errorf("AUTH_RATE_LIMIT_RPS must be a positive number (e.g. 5)")
		}
		cfg.RateLimitRPS = f
	} else {
		cfg.RateLimitRPS = 5
	}

	switch cfg.StorageBackend {
	case StorageMemory:
	case StoragePostgres:
		if cfg.DatabaseURL == "" {
			return Config{}, fmt.Errorf("DATABASE_URL is required when STORAGE_BACKEND=postgres")
		}
	default:
		return Config{}, fmt.Errorf("STORAGE_BACKEND must be %q or %q, got %q", StorageMemory, StoragePostgres, cfg.StorageBackend)
	}

	switch cfg.AuthMode {
	case AuthModeAuthServer:
		if cfg.AuthServerURL == "" {
			return Config{}, fmt.Errorf("AUTH_SERVER_URL is required when AUTH_MODE=authserver")
		}
	case AuthModeJWT:
		if cfg.JWT, err = LoadJWTConfigFromEnv(); err != nil {
			return Config{}, err
		}
	case AuthModeDev:
		if cfg.IsProduction() {
			return Config{}, fmt.Errorf("AUTH_MODE=dev is not allowed when ENV=production")
		}
	default:
		return Config{}, fmt.Errorf("AUTH_MODE must be one of authserver, jwt, dev; got %q", cfg.AuthMode)
	}

	return cfg, nil
}

func getenv(k, def string) string {
	if v := strings.TrimSpace(os.Getenv(k)); v != "" {
		return v
	}
	return def
}

func getenvDuration(k string, def time.Duration) (time.Duration, error) {
	v := getenv(k, "")
	if v == "" {
		return def, nil
	}
	d, err := time.ParseDuration(v)
	if err != nil {
		return 0, fmt.Errorf("%s must be a duration (e.g. %s): %w", k, def, err)
	}
	return d, nil
}

func getenvInt(k string, def int) (int, error) {
	v := getenv(k, "")
	if v == "" {
		return def, nil
	}
	n, err := strconv.Atoi(v)
	if err != nil || n <= 0 {
		return 0, fmt.Errorf("%s must be a positive integer", k)
	}
	return n, nil
}

func splitList(v string) []string {
	var out []string
	for _, s := range strings.Split(v, ",") {
		if s = strings.TrimSpace(s); s != "" {
			out = append(out, s)
		}
	}
	return out
}
