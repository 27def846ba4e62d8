package config

import (
	"fmt"
	"log"
	"os"
	"strconv"
	"strings"
	"time"

	"github.com/joho/godotenv"
)

const devSessionSecret = "randomstringrandomstringsecretstring"

// Config holds all configuration for the application
type Config struct {
	Env         string
	FrontendURL string

	Server   ServerConfig
	Database DatabaseConfig
	Session  SessionConfig
	CORS     CORSConfig
	KV       KVConfig
	Mail     MailConfig
	GraphQL  GraphQLConfig
}

// ServerConfig holds server-related configuration
type ServerConfig struct {
	Port            string
	ReadTimeout     time.Duration
	WriteTimeout    time.Duration
	IdleTimeout     time.Duration
	ShutdownTimeout time.Duration
}

// DatabaseConfig holds database-related configuration
type DatabaseConfig struct {
	Driver      string
	URL         string
	LogSQL      bool
	MaxConns    int
	MaxLifetime time.Duration
}

type SessionConfig struct {
	Secret     string
	CookieName string
	MaxAge     time.Duration
}

type CORSConfig struct {
	Origin string
}

// KVConfig points at the badger directory. An empty Dir keeps everything in memory.
type KVConfig struct {
	Dir string
}

type MailConfig struct {
	Host     string
	Port     string
	Username string
	Password string
	From     string
}

type GraphQLConfig struct {
	MaxDepth       int
	MaxParallelism int
	LoaderWait     time.Duration
}

// Load loads configuration from environment variables
func Load() (*Config, error) {
	if err := godotenv.Load(); err != nil {
		log.Println("No .env file found, finding env vars from system")
	}

	corsOrigin := getEnv("CORS_ORIGIN", "http://localhost:3000")
	config := &Config{
		Env:         getEnv("APP_ENV", "development"),
		FrontendURL: strings.TrimRight(getEnv("FRONTEND_URL", corsOrigin), "/"),
		Server: ServerConfig{
			Port:            getEnv("PORT", "4000"),
			ReadTimeout:     getDurationEnv("SERVER_READ_TIMEOUT", 5*time.Second),
			WriteTimeout:    getDurationEnv("SERVER_WRITE_TIMEOUT", 10*time.Second),
			IdleTimeout:     getDurationEnv("SERVER_IDLE_TIMEOUT", 120*time.Second),
			ShutdownTimeout: getDurationEnv("SERVER_SHUTDOWN_TIMEOUT", 5*time.Second),
		},
		Database: DatabaseConfig{
			Driver:      getEnv("DB_DRIVER", "postgres"),
			URL:         getEnv("DB_URL", "host=localhost user=postgres password=postgres dbname=lireddit port=5432 sslmode=disable"),
			LogSQL:      getBoolEnv("DB_LOG_SQL", false),
			MaxConns:    getIntEnv("DB_MAX_CONNS", 10),
			MaxLifetime: getDurationEnv("DB_MAX_LIFETIME", time.Hour),
		},
		Session: SessionConfig{
			Secret:     getEnv("SESSION_SECRET", ""),
			CookieName: getEnv("SESSION_COOKIE", "qid"),
			MaxAge:     getDurationEnv("SESSION_MAX_AGE", 2*365*24*time.Hour),
		},
		CORS: CORSConfig{
			Origin: corsOrigin,
		},
		KV: KVConfig{
			Dir: os.Getenv("KV_DIR"),
		},
		Mail: MailConfig{
			Host:     getEnv("SMTP_HOST", ""),
			Port:     getEnv("SMTP_PORT", ""),
			Username: getEnv("SMTP_USER", ""),
			Password: getEnv("SMTP_PASS", ""),
			From:     getEnv("SMTP_FROM", ""),
		},
		GraphQL: GraphQLConfig{
			MaxDepth:       getIntEnv("GRAPHQL_MAX_DEPTH", 10),
			MaxParallelism: getIntEnv("GRAPHQL_MAX_PARALLELISM", 10),
			LoaderWait:     getDurationEnv("LOADER_WAIT", 2*time.Millisecond),
		},
	}
	if _, set := os.LookupEnv("KV_DIR"); !set {
		config.KV.Dir = "./data/kv"
	}

	if err := config.Validate(); err != nil {
		return nil, fmt.Errorf("configuration validation failed: %w", err)
	}

	return config, nil
}

// Validate validates the configuration and fills development fallbacks
func (c *Config) Validate() error {
	switch c.Database.Driver {
	case "postgres", "mysql":
	default:
		return fmt.Errorf("DB_DRIVER must be postgres or mysql, got %q", c.Database.Driver)
	}

	if c.Session.Secret == "" {
		if c.IsProduction() {
			return fmt.Errorf("SESSION_SECRET is required in production")
		}
		log.Println("Warning: SESSION_SECRET not set, using development secret")
		c.Session.Secret = devSessionSecret
	}

	if c.Session.MaxAge <= 0 {
		return fmt.Errorf("SESSION_MAX_AGE must be positive")
	}

	if c.GraphQL.MaxParallelism < 1 {
		c.GraphQL.MaxParallelism = 1
	}

	return nil
}

func (c *Config) IsProduction() bool {
	return c.Env == "production"
}

// IsMailConfigured checks if the SMTP relay is fully configured
func (c *Config) IsMailConfigured() bool {
	m := c.Mail
	return m.Host != "" && m.Port != "" && m.Username != "" && m.Password != "" && m.From != ""
}

// Helper functions for environment variable parsing

func getEnv(key, defaultValue string) string {
	if value := os.Getenv(key); value != "" {
		return value
	}
	return defaultValue
}

func getIntEnv(key string, defaultValue int) int {
	if value := os.Getenv(key); value != "" {
		if intValue, err := strconv.Atoi(value); err == nil {
			return intValue
		}
	}
	return defaultValue
}

func getBoolEnv(key string, defaultValue bool) bool {
	if value := os.Getenv(key); value != "" {
		if boolValue, err := strconv.ParseBool(value); err == nil {
			return boolValue
		}
	}
	return defaultValue
}

func getDurationEnv(key string, defaultValue time.Duration) time.Duration {
	if value := os.Getenv(key); value != "" {
		if duration, err := time.ParseDuration(value); err == nil {
			return duration
		}
	}
	return defaultValue
}
