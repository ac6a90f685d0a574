package config

import (
	"errors"
	"fmt"
	"os"
	"strconv"
	"strings"
	"time"

	"autoshop-backend/logger"
	"autoshop-backend/utils"

	"github.com/shopspring/decimal"
	"gopkg.in/yaml.v3"
)

type Config struct {
	Server    ServerConfig    `yaml:"server"`
	Database  DatabaseConfig  `yaml:"database"`
	Auth      AuthConfig      `yaml:"auth"`
	Documents DocumentsConfig `yaml:"documents"`
	Log       LogConfig       `yaml:"log"`
	Digest    DigestConfig    `yaml:"digest"`
}

type ServerConfig struct {
	Port          string        `yaml:"port"`
	CORSOrigins   []string      `yaml:"cors_origins"`
	SlowRequest   time.Duration `yaml:"slow_request"`
	ShutdownGrace time.Duration `yaml:"shutdown_grace"`
}

type DatabaseConfig struct {
	URL             string        `yaml:"url"`
	MaxIdleConns    int           `yaml:"max_idle_conns"`
	MaxOpenConns    int           `yaml:"max_open_conns"`
	ConnMaxLifetime time.Duration `yaml:"conn_max_lifetime"`
	SlowQuery       time.Duration `yaml:"slow_query"`
}

type AuthConfig struct {
	JWTSecret   string `yaml:"jwt_secret"`
	ExpiryHours int    `yaml:"expiry_hours"`
}

type DocumentsConfig struct {
	TaxRate           string `yaml:"tax_rate"` // decimal fraction, "0.10" = 10%
	NumberMaxAttempts int    `yaml:"number_max_attempts"`
	InsertRetries     int    `yaml:"insert_retries"`
	Timezone          string `yaml:"timezone"`
}

type LogConfig struct {
	Level  string `yaml:"level"`
	Format string `yaml:"format"`
	Output string `yaml:"output"`
}

type DigestConfig struct {
	Enabled          bool   `yaml:"enabled"`
	Schedule         string `yaml:"schedule"`
	To               string `yaml:"to"`
	TwilioAccountSID string `yaml:"twilio_account_sid"`
	TwilioAuthToken  string `yaml:"twilio_auth_token"`
	TwilioFrom       string `yaml:"twilio_from"`
}

// DefaultConfig returns sensible defaults
func DefaultConfig() *Config {
	return &Config{
		Server: ServerConfig{
			Port:          "8080",
			CORSOrigins:   []string{"http://localhost:3000", "http://localhost:5173"},
			SlowRequest:   200 * time.Millisecond,
			ShutdownGrace: 10 * time.Second,
		},
		Database: DatabaseConfig{
			MaxIdleConns:    10,
			MaxOpenConns:    50,
			ConnMaxLifetime: 5 * time.Minute,
			SlowQuery:       200 * time.Millisecond,
		},
		Auth: AuthConfig{ExpiryHours: 24},
		Documents: DocumentsConfig{
			TaxRate:           "0.10",
			NumberMaxAttempts: 1000,
			InsertRetries:     3,
			Timezone:          "Local",
		},
		Log: LogConfig{Level: "info", Format: "console", Output: "stdout"},
		Digest: DigestConfig{
			Schedule: "0 18 * * *",
		},
	}
}

// Load layers defaults, the YAML file at path (skipped when empty or missing)
// and environment variables, in that order.
func Load(path string) (*Config, error) {
	cfg := DefaultConfig()

	if path != "" {
		data, err := os.ReadFile(path)
		switch {
		case errors.Is(err, os.ErrNotExist):
		case err != nil:
			return nil, fmt.Errorf("read config %s: %w", path, err)
		default:
			if err := yaml.Unmarshal(data, cfg); err != nil {
				return nil, fmt.Errorf("parse config %s: %w", path, err)
			}
		}
	}

	if err := cfg.applyEnv(os.LookupEnv); err != nil {
		return nil, err
	}
	return cfg, nil
}

func (c *Config) applyEnv(lookup func(string) (string, bool)) error {
	str := func(key string, dst *string) {
		if v, ok := lookup(key); ok && v != "" {
			*dst = v
		}
	}
	var errs []error
	num := func(key string, dst *int) {
		if v, ok := lookup(key); ok && v != "" {
			n, err := strconv.Atoi(v)
			if err != nil {
				errs = append(errs, fmt.Errorf("%s: %w", key, err))
				return
			}
			*dst = n
		}
	}
	flag := func(key string, dst *bool) {
		if v, ok := lookup(key); ok && v != "" {
			b, err := strconv.ParseBool(v)
			if err != nil {
				errs = append(errs, fmt.Errorf("%s: %w", key, err))
				return
			}
			*dst = b
		}
	}

	str("PORT", &c.Server.Port)
	if v, ok := lookup("CORS_ORIGINS"); ok && v != "" {
		c.Server.CORSOrigins = splitList(v)
	}
	str("DB_URL", &c.Database.URL)
	str("JWT_SECRET", &c.Auth.JWTSecret)
	num("JWT_EXPIRY_HOURS", &c.Auth.ExpiryHours)
	str("TAX_RATE", &c.Documents.TaxRate)
	num("NUMBER_MAX_ATTEMPTS", &c.Documents.NumberMaxAttempts)
	num("NUMBER_INSERT_RETRIES", &c.Documents.InsertRetries)
	str("TIMEZONE", &c.Documents.Timezone)
	str("LOG_LEVEL", &c.Log.Level)
	str("LOG_FORMAT", &c.Log.Format)
	str("LOG_OUTPUT", &c.Log.Output)
	flag("DIGEST_ENABLED", &c.Digest.Enabled)
	str("DIGEST_SCHEDULE", &c.Digest.Schedule)
	str("DIGEST_TO", &c.Digest.To)
	str("TWILIO_ACCOUNT_SID", &c.Digest.TwilioAccountSID)
	str("TWILIO_AUTH_TOKEN", &c.Digest.TwilioAuthToken)
	str("TWILIO_PHONE_NUMBER", &c.Digest.TwilioFrom)

	return errors.Join(errs...)
}

// Validate checks what the HTTP server needs to start.
func (c *Config) Validate() error {
	var errs []error
	if c.Database.URL == "" {
		errs = append(errs, errors.New("DB_URL is required"))
	}
	if c.Auth.JWTSecret == "" {
		errs = append(errs, errors.New("JWT_SECRET is required (autoshop gen-secret prints one)"))
	}
	if len(c.Server.CORSOrigins) == 0 {
		errs = append(errs, errors.New("CORS_ORIGINS must list at least one origin"))
	}
	for _, origin := range c.Server.CORSOrigins {
		if origin != "*" && !strings.HasPrefix(origin, "http://") && !strings.HasPrefix(origin, "https://") {
			errs = append(errs, fmt.Errorf("CORS origin %q must start with http:// or https://", origin))
		}
	}
	if c.Auth.ExpiryHours <= 0 {
		errs = append(errs, errors.New("JWT_EXPIRY_HOURS must be positive"))
	}
	if _, err := c.TaxRate(); err != nil {
		errs = append(errs, err)
	}
	if _, err := c.Location(); err != nil {
		errs = append(errs, err)
	}
	if c.Digest.Enabled {
		if !utils.ValidatePhone(c.Digest.To) {
			errs = append(errs, fmt.Errorf("DIGEST_TO %q is not a valid phone number", c.Digest.To))
		}
		if c.Digest.TwilioAccountSID == "" || c.Digest.TwilioAuthToken == "" || c.Digest.TwilioFrom == "" {
			errs = append(errs, errors.New("digest needs TWILIO_ACCOUNT_SID, TWILIO_AUTH_TOKEN and TWILIO_PHONE_NUMBER"))
		}
	}
	return errors.Join(errs...)
}

func (c *Config) TaxRate() (decimal.Decimal, error) {
	rate, err := decimal.NewFromString(strings.TrimSpace(c.Documents.TaxRate))
	if err != nil {
		return decimal.Zero, fmt.Errorf("TAX_RATE %q: %w", c.Documents.TaxRate, err)
	}
	if rate.IsNegative() || rate.GreaterThan(decimal.NewFromInt(1)) {
		return decimal.Zero, fmt.Errorf("TAX_RATE %q must be between 0 and 1", c.Documents.TaxRate)
	}
	return rate, nil
}

func (c *Config) Location() (*time.Location, error) {
	if c.Documents.Timezone == "" {
		return time.Local, nil
	}
	loc, err := time.LoadLocation(c.Documents.Timezone)
	if err != nil {
		return nil, fmt.Errorf("TIMEZONE %q: %w", c.Documents.Timezone, err)
	}
	return loc, nil
}

func (c *Config) TokenTTL() time.Duration {
	return time.Duration(c.Auth.ExpiryHours) * time.Hour
}

func (c *Config) GetLoggerConfig() logger.LogConfig {
	lc := logger.DefaultConfig()
	if c.Log.Level != "" {
		lc.Level = c.Log.Level
	}
	if c.Log.Format != "" {
		lc.Format = c.Log.Format
	}
	if c.Log.Output != "" {
		lc.Output = c.Log.Output
	}
	return lc
}

func splitList(v string) []string {
	var out []string
	for _, part := range strings.Split(v, ",") {
		if part = strings.TrimSpace(part); part != "" {
			out = append(out, part)
		}
	}
	return out
}
