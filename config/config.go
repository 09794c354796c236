package config

import (
	"errors"
	"fmt"
	"io/fs"
	"os"
	"strings"
	"time"

	"github.com/joho/godotenv"
	"gopkg.in/yaml.v3"

	"volleyball-scoretracker/utils"
)

const (
	DriverPostgres = "postgres"
	DriverMemory   = "memory"
)

// Config holds everything main needs to wire the service.
type Config struct {
	HTTPAddr string        `yaml:"http_addr"`
	LogLevel string        `yaml:"log_level"`
	Storage  StorageConfig `yaml:"storage"`
	Auth     AuthConfig    `yaml:"auth"`
	Guest    GuestConfig   `yaml:"guest"`
	CORS     CORSConfig    `yaml:"cors"`
	R2       R2Config      `yaml:"r2"`
}

// StorageConfig selects the store. DatabaseURL is only read for postgres.
type StorageConfig struct {
	Driver      string `yaml:"driver"`
	DatabaseURL string `yaml:"database_url"`
}

// AuthConfig holds JWT settings.
type AuthConfig struct {
	JWTSecret string        `yaml:"jwt_secret"`
	TokenTTL  time.Duration `yaml:"token_ttl"`
}

// GuestConfig holds guest session lifetimes.
type GuestConfig struct {
	SessionTTL      time.Duration `yaml:"session_ttl"`
	CleanupInterval time.Duration `yaml:"cleanup_interval"`
}

type CORSConfig struct {
	AllowedOrigins string `yaml:"allowed_origins"`
}

// R2Config holds scoresheet bucket settings. Archiving is off unless the
// bucket and credentials are all set.
type R2Config struct {
	AccountID       string `yaml:"account_id"`
	AccessKeyID     string `yaml:"access_key_id"`
	AccessKeySecret string `yaml:"access_key_secret"`
	Bucket          string `yaml:"bucket"`
	Endpoint        string `yaml:"endpoint"`
}

// Uploader converts the section into the uploader's settings.
func (c R2Config) Uploader() utils.R2Config {
	return utils.R2Config{
		AccountID:       c.AccountID,
		AccessKeyID:     c.AccessKeyID,
		AccessKeySecret: c.AccessKeySecret,
		Bucket:          c.Bucket,
		Endpoint:        c.Endpoint,
	}
}

func defaults() Config {
	return Config{
		HTTPAddr: ":8080",
		LogLevel: "info",
		Storage:  StorageConfig{Driver: DriverPostgres},
		Auth:     AuthConfig{TokenTTL: 24 * time.Hour},
		Guest: GuestConfig{
			SessionTTL:      24 * time.Hour,
			CleanupInterval: time.Hour,
		},
		CORS: CORSConfig{AllowedOrigins: "http://localhost:3000"},
	}
}

// Load reads .env (if present), then filename (if present), then applies
// environment overrides and validates the result.
func Load(filename string) (*Config, error) {
	if err := godotenv.Load(); err != nil && !errors.Is(err, fs.ErrNotExist) {
		return nil, fmt.Errorf("failed to load .env: %w", err)
	}

	cfg := defaults()
	if filename != "" {
		data, err := os.ReadFile(filename)
		switch {
		case errors.Is(err, fs.ErrNotExist):
		case err != nil:
			return nil, fmt.Errorf("failed to read config file %s: %w", filename, err)
		default:
			if err := yaml.Unmarshal(data, &cfg); err != nil {
				return nil, fmt.Errorf("failed to unmarshal config: %w", err)
			}
		}
	}

	if err := applyEnv(&cfg); err != nil {
		return nil, err
	}
	if err := cfg.validate(); err != nil {
		return nil, err
	}
	return &cfg, nil
}

func applyEnv(cfg *Config) error {
	setString(&cfg.HTTPAddr, "HTTP_ADDR")
	setString(&cfg.LogLevel, "LOG_LEVEL")
	setString(&cfg.Storage.Driver, "STORAGE_DRIVER")
	setString(&cfg.Storage.DatabaseURL, "DATABASE_URL")
	setString(&cfg.Auth.JWTSecret, "JWT_SECRET")
	setString(&cfg.CORS.AllowedOrigins, "ALLOWED_ORIGINS")
	setString(&cfg.R2.AccountID, "R2_ACCOUNT_ID")
	setString(&cfg.R2.AccessKeyID, "R2_ACCESS_KEY_ID")
	setString(&cfg.R2.AccessKeySecret, "R2_ACCESS_KEY_SECRET")
	setString(&cfg.R2.Bucket, "R2_BUCKET_NAME")
	setString(&cfg.R2.Endpoint, "R2_ENDPOINT")

	for key, dst := range map[string]*time.Duration{
		"JWT_TTL":           &cfg.Auth.TokenTTL,
		"GUEST_SESSION_TTL": &cfg.Guest.SessionTTL,
		"CLEANUP_INTERVAL":  &cfg.Guest.CleanupInterval,
	} {
		if err := setDuration(dst, key); err != nil {
			return err
		}
	}
	return nil
}

func setString(dst *string, key string) {
	if v := strings.TrimSpace(os.Getenv(key)); v != "" {
		*dst = v
	}
}

func setDuration(dst *time.Duration, key string) error {
	v := strings.TrimSpace(os.Getenv(key))
	if v == "" {
		return nil
	}
	d, err := time.ParseDuration(v)
	if err != nil {
		return fmt.Errorf("invalid %s value %q: %w", key, v, err)
	}
	*dst = d
	return nil
}

func (c *Config) validate() error {
	switch c.Storage.Driver {
	case DriverPostgres:
		if c.Storage.DatabaseURL == "" {
			return errors.New("DATABASE_URL is required for the postgres driver")
		}
	case DriverMemory:
	default:
		return fmt.Errorf("unknown STORAGE_DRIVER %q", c.Storage.Driver)
	}
	if c.Auth.JWTSecret == "" {
		return errors.New("JWT_SECRET is required")
	}
	for name, d := range map[string]time.Duration{
		"JWT_TTL":           c.Auth.TokenTTL,
		"GUEST_SESSION_TTL": c.Guest.SessionTTL,
		"CLEANUP_INTERVAL":  c.Guest.CleanupInterval,
	} {
		if d <= 0 {
			return fmt.Errorf("%s must be positive", name)
		}
	}
	return nil
}
