package config

import (
	"fmt"
	"os"
	"strconv"
	"strings"
	"time"
)

const (
	defaultAccessTTL     = "24h"
	defaultRefreshTTL    = "168h"
	defaultAdminTTL      = "8h"
	defaultBcryptCost    = "12"
	defaultPort          = "8080"
	defaultUploadDir     = "./uploads"
	defaultUploadBaseURL = "/static/uploads"

	defaultJWTSecret      = "change-me-jwt-secret"
	defaultRefreshSecret  = "change-me-refresh-secret"
	defaultAdminJWTSecret = "change-me-admin-jwt-secret"
)

type Config struct {
	AppEnv      string
	Port        string
	DatabaseURL string

	JWTSecret        string
	JWTRefreshSecret string
	AdminJWTSecret   string
	AccessTTL        time.Duration
	RefreshTTL       time.Duration
	AdminTTL         time.Duration

	BcryptCost int

	UploadDir     string
	UploadBaseURL string
}

func Load() (*Config, error) {
	cfg := &Config{}

	appEnv := strings.TrimSpace(os.Getenv("APP_ENV"))
	if appEnv == "" {
		appEnv = "dev"
	}
	cfg.AppEnv = strings.ToLower(appEnv)

	cfg.Port = getEnv("PORT", defaultPort)
	cfg.DatabaseURL = strings.TrimSpace(os.Getenv("DATABASE_URL"))
	if cfg.DatabaseURL == "" {
		return nil, fmt.Errorf("DATABASE_URL is empty")
	}

	cfg.JWTSecret = strings.TrimSpace(getEnv("JWT_SECRET", defaultJWTSecret))
	cfg.JWTRefreshSecret = strings.TrimSpace(getEnv("JWT_REFRESH_SECRET", defaultRefreshSecret))
	cfg.AdminJWTSecret = strings.TrimSpace(getEnv("ADMIN_JWT_SECRET", defaultAdminJWTSecret))

	var err error
	cfg.AccessTTL, err = parseDurationEnv("JWT_ACCESS_TTL", defaultAccessTTL)
	if err != nil {
		return nil, err
	}
	cfg.RefreshTTL, err = parseDurationEnv("JWT_REFRESH_TTL", defaultRefreshTTL)
	if err != nil {
		return nil, err
	}
	cfg.AdminTTL, err = parseDurationEnv("ADMIN_JWT_TTL", defaultAdminTTL)
	if err != nil {
		return nil, err
	}

	cost, err := strconv.Atoi(getEnv("BCRYPT_COST", defaultBcryptCost))
	if err != nil || cost < 4 || cost > 31 {
		return nil, fmt.Errorf("invalid BCRYPT_COST value %q", getEnv("BCRYPT_COST", defaultBcryptCost))
	}
	cfg.BcryptCost = cost

	cfg.UploadDir = getEnv("UPLOAD_DIR", defaultUploadDir)
	cfg.UploadBaseURL = getEnv("UPLOAD_BASE_URL", defaultUploadBaseURL)

	if err := validate(cfg); err != nil {
		return nil, err
	}

	return cfg, nil
}

func validate(cfg *Config) error {
	if cfg.AccessTTL <= 0 {
		return fmt.Errorf("JWT_ACCESS_TTL must be > 0")
	}
	if cfg.RefreshTTL <= 0 {
		return fmt.Errorf("JWT_REFRESH_TTL must be > 0")
	}
	if cfg.AdminTTL <= 0 {
		return fmt.Errorf("ADMIN_JWT_TTL must be > 0")
	}

	if isProdLike(cfg.AppEnv) {
		if isEmptyOrDefault(cfg.JWTSecret, defaultJWTSecret) {
			return fmt.Errorf("in prod/release JWT_SECRET must be set and not default")
		}
		if isEmptyOrDefault(cfg.JWTRefreshSecret, defaultRefreshSecret) {
			return fmt.Errorf("in prod/release JWT_REFRESH_SECRET must be set and not default")
		}
		if isEmptyOrDefault(cfg.AdminJWTSecret, defaultAdminJWTSecret) {
			return fmt.Errorf("in prod/release ADMIN_JWT_SECRET must be set and not default")
		}
	}

	return nil
}

func isProdLike(env string) bool {
	env = strings.ToLower(strings.TrimSpace(env))
	return env == "prod" || env == "production" || env == "release"
}

func isEmptyOrDefault(v, def string) bool {
	trimmed := strings.TrimSpace(v)
	return trimmed == "" || trimmed == def
}

func parseDurationEnv(name, fallback string) (time.Duration, error) {
	value := strings.TrimSpace(getEnv(name, fallback))
	d, err := time.ParseDuration(value)
	if err != nil {
		return 0, fmt.Errorf("invalid %s value %q: %w", name, value, err)
	}
	return d, nil
}

func getEnv(name, fallback string) string {
	if v := os.Getenv(name); v != "" {
		return v
	}
	return fallback
}
