package config

import (
	"fmt"
	"strings"
	"time"

	"github.com/spf13/viper"
)

// Config holds all runtime configuration for the API server and the
// background reconciler. Values are read from the environment with
// sensible development defaults; production refuses to start without
// the secrets it needs.
type Config struct {
	JWTSecret string
	Port      string

	DBHost     string
	DBPort     string
	DBUser     string
	DBPassword string
	DBName     string
	DBSSLMode  string

	RedisURL string

	AllowedOrigins string
	Env            string

	// ReconcileInterval controls how often the member-count reconciler
	// runs. Zero disables the background loop; the admin endpoint and
	// the reconcile command still work.
	ReconcileInterval time.Duration

	TracingEnabled  bool
	TracingExporter string
	OTLPEndpoint    string
	TracingSampler  float64
}

func LoadConfig() (*Config, error) {
	v := viper.New()
	v.AutomaticEnv()

	v.SetDefault("PORT", "8460")
	v.SetDefault("DB_HOST", "localhost")
	v.SetDefault("DB_PORT", "5432")
	v.SetDefault("DB_USER", "postgres")
	v.SetDefault("DB_PASSWORD", "postgres")
	v.SetDefault("DB_NAME", "bourse")
	v.SetDefault("DB_SSLMODE", "disable")
	v.SetDefault("REDIS_URL", "redis://localhost:6379/0")
	v.SetDefault("ALLOWED_ORIGINS", "http://localhost:3000")
	v.SetDefault("ENV", "development")
	v.SetDefault("RECONCILE_INTERVAL", "0")
	v.SetDefault("TRACING_ENABLED", false)
	v.SetDefault("TRACING_EXPORTER", "stdout")
	v.SetDefault("OTLP_ENDPOINT", "localhost:4318")
	v.SetDefault("TRACING_SAMPLER", 1.0)

	cfg := &Config{
		JWTSecret:         v.GetString("JWT_SECRET"),
		Port:              v.GetString("PORT"),
		DBHost:            v.GetString("DB_HOST"),
		DBPort:            v.GetString("DB_PORT"),
		DBUser:            v.GetString("DB_USER"),
		DBPassword:        v.GetString("DB_PASSWORD"),
		DBName:            v.GetString("DB_NAME"),
		DBSSLMode:         v.GetString("DB_SSLMODE"),
		RedisURL:          v.GetString("REDIS_URL"),
		AllowedOrigins:    v.GetString("ALLOWED_ORIGINS"),
		Env:               v.GetString("ENV"),
		ReconcileInterval: v.GetDuration("RECONCILE_INTERVAL"),
		TracingEnabled:    v.GetBool("TRACING_ENABLED"),
		TracingExporter:   v.GetString("TRACING_EXPORTER"),
		OTLPEndpoint:      v.GetString("OTLP_ENDPOINT"),
		TracingSampler:    v.GetFloat64("TRACING_SAMPLER"),
	}

	if cfg.Env == "development" && cfg.JWTSecret == "" {
		cfg.JWTSecret = "dev-secret-do-not-use-in-production"
	}

	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	return cfg, nil
}

func (c *Config) Validate() error {
	var problems []string

	if c.Env == "production" {
		if c.JWTSecret == "" {
			problems = append(problems, "JWT_SECRET must be set in production")
		}
		if c.DBPassword == "postgres" {
			problems = append(problems, "DB_PASSWORD must not use the default value in production")
		}
		if c.DBSSLMode == "disable" {
			problems = append(problems, "DB_SSLMODE must not be 'disable' in production")
		}
	}

	if c.Port == "" {
		problems = append(problems, "PORT must not be empty")
	}
	if c.ReconcileInterval < 0 {
		problems = append(problems, "RECONCILE_INTERVAL must not be negative")
	}
	if c.TracingSampler < 0 || c.TracingSampler > 1 {
		problems = append(problems, "TRACING_SAMPLER must be between 0 and 1")
	}

	if len(problems) > 0 {
		return fmt.Errorf("invalid configuration: %s", strings.Join(problems, "; "))
	}
	return nil
}

// DSN builds the postgres connection string for gorm.
func (c *Config) DSN() string {
	return fmt.Sprintf("host=%s user=%s password=%s dbname=%s port=%s sslmode=%s",
		c.DBHost, c.DBUser, c.DBPassword, c.DBName, c.DBPort, c.DBSSLMode)
}
