package config

import (
	"errors"
	"fmt"
	"log/slog"
	"net"
	"net/url"
	"os"
	"strconv"
	"strings"
	"time"

	"github.com/jaekwang-park/plantcare-api/internal/model"
)

var validEnvs = map[string]bool{
	"local": true,
	"alpha": true,
	"beta":  true,
	"prod":  true,
}

type Config struct {
	ServerPort  string
	AppEnv      string
	AuthDevMode bool
	LogLevel    string
	DB          DBConfig
	Cognito     CognitoConfig
	Catalog     CatalogConfig
	// PickerMode is how the app shows the notification time picker.
	PickerMode model.PickerDisplayMode

	// parse errors collected by Load, reported by Validate
	errs []error
}

func (c Config) ParseLogLevel() slog.Level {
	switch strings.ToLower(c.LogLevel) {
	case "debug":
		return slog.LevelDebug
	case "warn":
		return slog.LevelWarn
	case "error":
		return slog.LevelError
	default:
		return slog.LevelInfo
	}
}

func (c Config) Validate() error {
	if len(c.errs) > 0 {
		return errors.Join(c.errs...)
	}
	if _, err := strconv.Atoi(c.ServerPort); err != nil {
		return fmt.Errorf("invalid SERVER_PORT %q: %w", c.ServerPort, err)
	}
	if !validEnvs[c.AppEnv] {
		return fmt.Errorf("invalid APP_ENV %q: must be one of local, alpha, beta, prod", c.AppEnv)
	}
	if c.AuthDevMode && c.AppEnv != "local" {
		return fmt.Errorf("AUTH_DEV_MODE must not be enabled in %s environment", c.AppEnv)
	}
	if !c.AuthDevMode {
		if c.Cognito.UserPoolID == "" {
			return fmt.Errorf("COGNITO_USER_POOL_ID is required when AUTH_DEV_MODE is disabled")
		}
		if c.Cognito.AppClientID == "" {
			return fmt.Errorf("COGNITO_APP_CLIENT_ID is required when AUTH_DEV_MODE is disabled")
		}
	}
	if !c.PickerMode.IsValid() {
		return fmt.Errorf("invalid PICKER_DISPLAY_MODE %q: must be always or on_toggle", c.PickerMode)
	}
	return c.Catalog.validate()
}

type DBConfig struct {
	Host     string
	Port     string
	User     string
	Password string
	Name     string
	SSLMode  string
}

func (d DBConfig) DSN() string {
	u := &url.URL{
		Scheme:   "postgres",
		User:     url.UserPassword(d.User, d.Password),
		Host:     net.JoinHostPort(d.Host, d.Port),
		Path:     d.Name,
		RawQuery: fmt.Sprintf("sslmode=%s", url.QueryEscape(d.SSLMode)),
	}
	return u.String()
}

type CognitoConfig struct {
	Region          string
	UserPoolID      string
	AppClientID     string
	AppClientSecret string
}

// CatalogConfig points at the remote plant catalog and sizes the caches in
// front of it.
type CatalogConfig struct {
	BaseURL       string
	PageSize      int
	Timeout       time.Duration
	RetryCount    int
	RatePerSecond float64
	CacheSize     int
	CacheTTL      time.Duration // 0 disables the page cache
	SessionTTL    time.Duration
	MaxSessions   int
}

func (c CatalogConfig) validate() error {
	u, err := url.Parse(c.BaseURL)
	if err != nil || (u.Scheme != "http" && u.Scheme != "https") || u.Host == "" {
		return fmt.Errorf("invalid CATALOG_BASE_URL %q: must be an absolute http(s) URL", c.BaseURL)
	}
	switch {
	case c.PageSize <= 0:
		return fmt.Errorf("CATALOG_PAGE_SIZE must be positive, got %d", c.PageSize)
	case c.Timeout <= 0:
		return fmt.Errorf("CATALOG_TIMEOUT must be positive, got %s", c.Timeout)
	case c.RetryCount < 0:
		return fmt.Errorf("CATALOG_RETRY_COUNT must not be negative, got %d", c.RetryCount)
	case c.RatePerSecond < 0:
		return fmt.Errorf("CATALOG_RATE_PER_SEC must not be negative, got %g", c.RatePerSecond)
	case c.CacheTTL < 0:
		return fmt.Errorf("CATALOG_CACHE_TTL must not be negative, got %s", c.CacheTTL)
	case c.SessionTTL <= 0:
		return fmt.Errorf("CATALOG_SESSION_TTL must be positive, got %s", c.SessionTTL)
	case c.MaxSessions <= 0:
		return fmt.Errorf("CATALOG_MAX_SESSIONS must be positive, got %d", c.MaxSessions)
	}
	return nil
}

func Load() Config {
	var l loader
	cfg := Config{
		ServerPort:  envOrDefault("SERVER_PORT", "8080"),
		AppEnv:      envOrDefault("APP_ENV", "local"),
		AuthDevMode: strings.EqualFold(envOrDefault("AUTH_DEV_MODE", "false"), "true"),
		LogLevel:    envOrDefault("LOG_LEVEL", "info"),
		DB: DBConfig{
			Host:     envOrDefault("DB_HOST", "localhost"),
			Port:     envOrDefault("DB_PORT", "5432"),
			User:     envOrDefault("DB_USER", "plantcare"),
			Password: envOrDefault("DB_PASSWORD", "plantcare"),
			Name:     envOrDefault("DB_NAME", "plantcare"),
			SSLMode:  envOrDefault("DB_SSLMODE", "disable"),
		},
		Cognito: CognitoConfig{
			Region:          envOrDefault("COGNITO_REGION", "sa-east-1"),
			UserPoolID:      os.Getenv("COGNITO_USER_POOL_ID"),
			AppClientID:     os.Getenv("COGNITO_APP_CLIENT_ID"),
			AppClientSecret: os.Getenv("COGNITO_APP_CLIENT_SECRET"),
		},
		Catalog: CatalogConfig{
			BaseURL:       envOrDefault("CATALOG_BASE_URL", "http://localhost:3333"),
			PageSize:      l.int("CATALOG_PAGE_SIZE", 8),
			Timeout:       l.duration("CATALOG_TIMEOUT", 5*time.Second),
			RetryCount:    l.int("CATALOG_RETRY_COUNT", 2),
			RatePerSecond: l.float("CATALOG_RATE_PER_SEC", 10),
			CacheSize:     l.int("CATALOG_CACHE_SIZE", 64),
			CacheTTL:      l.duration("CATALOG_CACHE_TTL", time.Minute),
			SessionTTL:    l.duration("CATALOG_SESSION_TTL", 30*time.Minute),
			MaxSessions:   l.int("CATALOG_MAX_SESSIONS", 10000),
		},
		PickerMode: model.PickerDisplayMode(envOrDefault("PICKER_DISPLAY_MODE",
			string(model.PickerModeForPlatform(strings.ToLower(os.Getenv("CLIENT_PLATFORM")))))),
	}
	cfg.errs = l.errs
	return cfg
}

func envOrDefault(key, defaultVal string) string {
	if v := os.Getenv(key); v != "" {
		return v
	}
	return defaultVal
}

// loader parses typed variables and keeps the first error per key.
type loader struct {
	errs []error
}

func (l *loader) int(key string, def int) int {
	v := os.Getenv(key)
	if v == "" {
		return def
	}
	n, err := strconv.Atoi(v)
	if err != nil {
		l.errs = append(l.errs, fmt.Errorf("invalid %s %q: %w", key, v, err))
		return def
	}
	return n
}

func (l *loader) float(key string, def float64) float64 {
	v := os.Getenv(key)
	if v == "" {
		return def
	}
	f, err := strconv.ParseFloat(v, 64)
	if err != nil {
		l.errs = append(l.errs, fmt.Errorf("invalid %s %q: %w", key, v, err))
		return def
	}
	return f
}

func (l *loader) duration(key string, def time.Duration) time.Duration {
	v := os.Getenv(key)
	if v == "" {
		return def
	}
	d, err := time.ParseDuration(v)
	if err != nil {
		l.errs = append(l.errs, fmt.Errorf("invalid %s %q: %w", key, v, err))
		return def
	}
	return d
}
