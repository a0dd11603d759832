package config

import (
	"fmt"
	"os"
	"strconv"
	"time"

	"github.com/joho/godotenv"
)

type Config struct {
	Development bool
	// API configuration
	APIPort int
	// Postgres configuration
	PostgresUser     string
	PostgresPassword string
	PostgresHost     string
	PostgresPort     int
	PostgresDB       string
	// Payment gateway configuration
	PaystackSecretKey string
	PaystackBaseURL   string
	GatewayTimeout    time.Duration

	// Site configuration
	SiteURL string

	// Access token configuration
	AccessTokenSecret   string
	AccessTokenTTLHours int

	// Identity service configuration
	AuthAdminURL string
	AuthAdminKey string

	// Admin API configuration
	AdminAPIKey string

	// SMTP configuration
	SMTPHost     string
	SMTPPort     int
	SMTPUser     string
	SMTPPassword string
	SMTPSender   string

	// Operator alert configuration
	TelegramBotToken  string
	TelegramOpsChatID string
}

// GuideURL returns the gated-content URL users are granted access to.
func (c *Config) GuideURL() string {
	return c.SiteURL + "/guide"
}

// LoadConfig loads the configuration from environment variables
func LoadConfig() (*Config, error) {
	// Load .env file if it exists
	_ = godotenv.Load()

	cfg := &Config{
		Development:      getEnvAsBool("DEVELOPMENT", false),
		PostgresUser:     getEnv("POSTGRES_USER", "postgres"),
		PostgresPassword: getEnv("POSTGRES_PASSWORD", "password"),
		PostgresHost:     getEnv("POSTGRES_HOST", "localhost"),
		PostgresPort:     getEnvAsInt("POSTGRES_PORT", 5432),
		PostgresDB:       getEnv("POSTGRES_DB", "paygate"),

		PaystackSecretKey: getEnv("PAYSTACK_SECRET_KEY", ""),
		PaystackBaseURL:   getEnv("PAYSTACK_BASE_URL", "https://api.paystack.co"),
		GatewayTimeout:    time.Duration(getEnvAsInt("GATEWAY_TIMEOUT_SECONDS", 15)) * time.Second,

		SiteURL: getEnv("SITE_URL", ""),

		AccessTokenSecret:   getEnv("ACCESS_TOKEN_SECRET", ""),
		AccessTokenTTLHours: getEnvAsInt("ACCESS_TOKEN_TTL_HOURS", 72),

		AuthAdminURL: getEnv("AUTH_ADMIN_URL", ""),
		AuthAdminKey: getEnv("AUTH_ADMIN_KEY", ""),

		AdminAPIKey: getEnv("ADMIN_API_KEY", ""),

		SMTPHost:     getEnv("SMTP_HOST", "smtp.example.com"),
		SMTPPort:     getEnvAsInt("SMTP_PORT", 587),
		SMTPUser:     getEnv("SMTP_USER", ""),
		SMTPPassword: getEnv("SMTP_PASSWORD", ""),
		SMTPSender:   getEnv("SMTP_SENDER", ""),

		TelegramBotToken:  getEnv("TELEGRAM_BOT_TOKEN", ""),
		TelegramOpsChatID: getEnv("TELEGRAM_OPS_CHAT_ID", ""),

		APIPort: getEnvAsInt("API_PORT", 6533),
	}

	// Validate configuration
	if err := cfg.Validate(); err != nil {
		return nil, err
	}

	return cfg, nil
}

// Validate checks that all required configuration fields are properly set
func (c *Config) Validate() error {
	if c.PaystackSecretKey == "" {
		return fmt.Errorf("PAYSTACK_SECRET_KEY is required")
	}

	if c.SiteURL == "" {
		return fmt.Errorf("SITE_URL is required")
	}

	if c.AccessTokenSecret == "" {
		return fmt.Errorf("ACCESS_TOKEN_SECRET is required")
	}

	if c.PostgresDB == "" {
		return fmt.Errorf("POSTGRES_DB is required")
	}

	if c.PostgresHost == "" {
		return fmt.Errorf("POSTGRES_HOST is required")
	}

	return nil
}

// Helper functions to read environment variables
func getEnv(key string, defaultValue string) string {
	if value, exists := os.LookupEnv(key); exists {
		return value
	}
	return defaultValue
}

func getEnvAsInt(name string, defaultValue int) int {
	if valueStr, exists := os.LookupEnv(name); exists {
		if value, err := strconv.Atoi(valueStr); err == nil {
			return value
		}
	}
	return defaultValue
}

func getEnvAsBool(name string, defaultValue bool) bool {
	if valueStr, exists := os.LookupEnv(name); exists {
		if value, err := strconv.ParseBool(valueStr); err == nil {
			return value
		}
	}
	return defaultValue
}
