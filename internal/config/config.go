package config

import (
	"os"
	"strconv"
	"time"
)

// Config holds application configuration
type Config struct {
	// Remote collaborator database
	DatabaseType string
	DatabaseURL  string
	DatabasePath string

	// On-device durable key-value store
	LocalStorePath string

	MigrationsPath  string
	SessionDuration time.Duration

	// Auth
	JWTSigningKey       string
	RequireConfirmation bool

	// OAuth providers
	GoogleClientID       string
	GoogleClientSecret   string
	FacebookClientID     string
	FacebookClientSecret string
	OAuthRedirectURL     string

	// Reminder emails
	AWSRegion    string
	SESFromEmail string
	SESFromName  string

	Debug bool
}

// Load reads configuration from environment variables with sensible defaults
func Load() *Config {
	return &Config{
		DatabaseType:         getEnv("DB_TYPE", "sqlite"),
		DatabaseURL:          getEnv("DB_URL", ""),
		DatabasePath:         getEnv("DB_PATH", "./brightsteps.db"),
		LocalStorePath:       getEnv("LOCAL_STORE_PATH", "./brightsteps_local.db"),
		MigrationsPath:       getEnv("MIGRATIONS_PATH", "./migrations"),
		SessionDuration:      getDuration("SESSION_DURATION", 30*24*time.Hour),
		JWTSigningKey:        getEnv("JWT_SIGNING_KEY", ""),
		RequireConfirmation:  getBool("REQUIRE_EMAIL_CONFIRMATION", false),
		GoogleClientID:       getEnv("GOOGLE_CLIENT_ID", ""),
		GoogleClientSecret:   getEnv("GOOGLE_CLIENT_SECRET", ""),
		FacebookClientID:     getEnv("FACEBOOK_CLIENT_ID", ""),
		FacebookClientSecret: getEnv("FACEBOOK_CLIENT_SECRET", ""),
		OAuthRedirectURL:     getEnv("OAUTH_REDIRECT_URL", ""),
		AWSRegion:            getEnv("AWS_REGION", "us-east-1"),
		SESFromEmail:         getEnv("SES_FROM_EMAIL", ""),
		SESFromName:          getEnv("SES_FROM_NAME", "BrightSteps"),
		Debug:                getBool("DEBUG", false),
	}
}

// getEnv reads an environment variable or returns a default value
func getEnv(key, defaultValue string) string {
	if value := os.Getenv(key); value != "" {
		return value
	}
	return defaultValue
}

// getBool reads a boolean environment variable or returns a default value
func getBool(key string, defaultValue bool) bool {
	value := os.Getenv(key)
	if value == "" {
		return defaultValue
	}
	parsed, err := strconv.ParseBool(value)
	if err != nil {
		return defaultValue
	}
	return parsed
}

// getDuration reads a duration environment variable or returns a default value
func getDuration(key string, defaultValue time.Duration) time.Duration {
	value := os.Getenv(key)
	if value == "" {
		return defaultValue
	}
	parsed, err := time.ParseDuration(value)
	if err != nil {
		return defaultValue
	}
	return parsed
}
