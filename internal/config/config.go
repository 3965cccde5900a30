package config

import (
	"errors"
	"fmt"
	"os"
	"strconv"
	"strings"
	"time"
)

// Config holds all application configuration
type Config struct {
	Server   ServerConfig
	Database DatabaseConfig
	JWT      JWTConfig
	Mail     MailConfig
	CEP      CEPConfig
	Drafting DraftingConfig
}

// ServerConfig holds HTTP server settings
type ServerConfig struct {
	Port           string
	Env            string
	ReadTimeout    time.Duration
	WriteTimeout   time.Duration
	AllowedOrigins []string
}

// DatabaseConfig holds SurrealDB connection settings
type DatabaseConfig struct {
	Host      string
	Port      string
	Namespace string
	Database  string
	User      string
	Password  string
}

// JWTConfig holds JWT signing settings
type JWTConfig struct {
	PrivateKeyPath string
	PublicKeyPath  string
	ExpirationMins int
	Issuer         string
}

// MailConfig holds SMTP settings for enrollment notifications
type MailConfig struct {
	Enabled  bool
	Host     string
	Port     string
	From     string
	User     string
	Password string
	Buffer   int
}

// Addr returns the host:port SMTP dial address.
func (m MailConfig) Addr() string {
	return m.Host + ":" + m.Port
}

// CEPConfig holds postal-code lookup settings
type CEPConfig struct {
	ViaCEPURL    string
	BrasilAPIURL string
	Timeout      time.Duration
}

// DraftingConfig holds the AI response-drafting settings. When the
// endpoint is empty only the template drafter runs.
type DraftingConfig struct {
	Endpoint string
	APIKey   string
	Timeout  time.Duration
}

// Load reads configuration from environment variables with sensible defaults
func Load() (*Config, error) {
	return &Config{
		Server: ServerConfig{
			Port:           getEnv("SERVER_PORT", "8080"),
			Env:            getEnv("SERVER_ENV", "development"),
			ReadTimeout:    getDurationEnv("SERVER_READ_TIMEOUT", 15*time.Second),
			WriteTimeout:   getDurationEnv("SERVER_WRITE_TIMEOUT", 15*time.Second),
			AllowedOrigins: getSliceEnv("CORS_ALLOWED_ORIGINS", []string{"http://localhost:3000"}),
		},
		Database: DatabaseConfig{
			Host:      getEnv("DB_HOST", "localhost"),
			Port:      getEnv("DB_PORT", "8000"),
			Namespace: getEnv("DB_NAMESPACE", "recanto"),
			Database:  getEnv("DB_DATABASE", "main"),
			User:      getEnv("DB_USER", "root"),
			Password:  getEnv("DB_PASSWORD", "root"),
		},
		JWT: JWTConfig{
			PrivateKeyPath: getEnv("JWT_PRIVATE_KEY_PATH", "./keys/private.pem"),
			PublicKeyPath:  getEnv("JWT_PUBLIC_KEY_PATH", "./keys/public.pem"),
			ExpirationMins: getIntEnv("JWT_EXPIRATION_MINS", 15),
			Issuer:         getEnv("JWT_ISSUER", "recanto-api"),
		},
		Mail: MailConfig{
			Enabled:  getBoolEnv("MAIL_ENABLED", false),
			Host:     getEnv("MAIL_HOST", "localhost"),
			Port:     getEnv("MAIL_PORT", "587"),
			From:     getEnv("MAIL_FROM", "no-reply@recantodasgarcas.org.br"),
			User:     getEnv("MAIL_USER", ""),
			Password: getEnv("MAIL_PASSWORD", ""),
			Buffer:   getIntEnv("MAIL_BUFFER", 64),
		},
		CEP: CEPConfig{
			ViaCEPURL:    getEnv("CEP_VIACEP_URL", "https://viacep.com.br/ws"),
			BrasilAPIURL: getEnv("CEP_BRASILAPI_URL", "https://brasilapi.com.br/api/cep/v1"),
			Timeout:      getDurationEnv("CEP_TIMEOUT", 5*time.Second),
		},
		Drafting: DraftingConfig{
			Endpoint: getEnv("DRAFT_ENDPOINT", ""),
			APIKey:   getEnv("DRAFT_API_KEY", ""),
			Timeout:  getDurationEnv("DRAFT_TIMEOUT", 15*time.Second),
		},
	}, nil
}

// IsDevelopment returns true if running in development mode
func (c *Config) IsDevelopment() bool {
	return c.Server.Env == "development"
}

// IsProduction returns true if running in production mode
func (c *Config) IsProduction() bool {
	return c.Server.Env == "production"
}

// Validate checks that all required configuration values are present and valid.
// It returns an error describing all validation failures, or nil if valid.
func (c *Config) Validate() error {
	var errs []error

	// Server validation
	if c.Server.Port == "" {
		errs = append(errs, errors.New("SERVER_PORT is required"))
	}
	if c.Server.Env != "development" && c.Server.Env != "production" && c.Server.Env != "test" {
		errs = append(errs, fmt.Errorf("SERVER_ENV must be 'development', 'production', or 'test', got '%s'", c.Server.Env))
	}
	if len(c.Server.AllowedOrigins) == 0 {
		errs = append(errs, errors.New("CORS_ALLOWED_ORIGINS must have at least one origin"))
	}

	// Database validation
	if c.Database.Host == "" {
		errs = append(errs, errors.New("DB_HOST is required"))
	}
	if c.Database.Port == "" {
		errs = append(errs, errors.New("DB_PORT is required"))
	}
	if c.Database.Namespace == "" {
		errs = append(errs, errors.New("DB_NAMESPACE is required"))
	}
	if c.Database.Database == "" {
		errs = append(errs, errors.New("DB_DATABASE is required"))
	}

	// JWT validation - critical for production
	if c.IsProduction() {
		if c.JWT.PrivateKeyPath == "" {
			errs = append(errs, errors.New("JWT_PRIVATE_KEY_PATH is required in production"))
		}
		if c.JWT.PublicKeyPath == "" {
			errs = append(errs, errors.New("JWT_PUBLIC_KEY_PATH is required in production"))
		}
	}
	if c.JWT.ExpirationMins <= 0 {
		errs = append(errs, errors.New("JWT_EXPIRATION_MINS must be positive"))
	}

	// Mail validation
	if c.Mail.Enabled {
		if c.Mail.Host == "" {
			errs = append(errs, errors.New("MAIL_HOST is required when MAIL_ENABLED is true"))
		}
		if c.Mail.From == "" {
			errs = append(errs, errors.New("MAIL_FROM is required when MAIL_ENABLED is true"))
		}
	}
	if c.Mail.Buffer <= 0 {
		errs = append(errs, errors.New("MAIL_BUFFER must be positive"))
	}

	// CEP validation
	if c.CEP.ViaCEPURL == "" {
		errs = append(errs, errors.New("CEP_VIACEP_URL is required"))
	}
	if c.CEP.Timeout <= 0 {
		errs = append(errs, errors.New("CEP_TIMEOUT must be positive"))
	}

	// Drafting validation - endpoint without key is almost always a mistake
	if c.Drafting.Endpoint != "" && c.Drafting.APIKey == "" {
		errs = append(errs, errors.New("DRAFT_API_KEY is required when DRAFT_ENDPOINT is set"))
	}

	if len(errs) > 0 {
		return errors.Join(errs...)
	}
	return nil
}

// Helper functions for reading environment variables

func getEnv(key, defaultValue string) string {
	if value := os.Getenv(key); value != "" {
		return value
	}
	return defaultValue
}

func getIntEnv(key string, defaultValue int) int {
	if value := os.Getenv(key); value != "" {
		if i, err := strconv.Atoi(value); err == nil {
			return i
		}
	}
	return defaultValue
}

func getDurationEnv(key string, defaultValue time.Duration) time.Duration {
	if value := os.Getenv(key); value != "" {
		if d, err := time.ParseDuration(value); err == nil {
			return d
		}
	}
	return defaultValue
}

func getSliceEnv(key string, defaultValue []string) []string {
	if value := os.Getenv(key); value != "" {
		return strings.Split(value, ",")
	}
	return defaultValue
}

func getBoolEnv(key string, defaultValue bool) bool {
	if value := os.Getenv(key); value != "" {
		if b, err := strconv.ParseBool(value); err == nil {
			return b
		}
	}
	return defaultValue
}
