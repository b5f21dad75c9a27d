package config

import (
	"fmt"
	"os"
	"strconv"
	"strings"
	"time"
	_ "time/tzdata"

	"github.com/go-playground/validator/v10"
	"github.com/joho/godotenv"
)

const (
	OrderSourceAPI   = "api"
	OrderSourceMongo = "mongo"
)

// Config holds everything the dashboard service reads from the environment
type Config struct {
	Port           string        `validate:"required,numeric"`
	RequestTimeout time.Duration `validate:"gt=0"`

	// Order source selection
	OrderSource     string        `validate:"oneof=api mongo"`
	OrderAPIBaseURL string        `validate:"required,url"`
	OrderAPITimeout time.Duration `validate:"gt=0"`

	// MongoDB, used when OrderSource is mongo
	MongoURI        string        `validate:"required_if=OrderSource mongo"`
	MongoDatabase   string        `validate:"required_if=OrderSource mongo"`
	MongoUsername   string
	MongoPassword   string
	MongoCollection string        `validate:"required"`
	MongoTimeout    time.Duration `validate:"gt=0"`

	// Optional shared secret for verifying admin tokens
	JWTSecret string

	// Calendar used for dashboard buckets
	ReportTimezone string `validate:"required,timezone"`

	LogLevel  string `validate:"oneof=trace debug info warn warning error fatal panic"`
	LogFormat string `validate:"oneof=text json"`
}

// Load reads a .env file when present, then the environment
func Load() *Config {
	_ = godotenv.Load()

	return &Config{
		Port:           getEnv("PORT", "8080"),
		RequestTimeout: getEnvDuration("REQUEST_TIMEOUT", 30*time.Second),

		OrderSource:     strings.ToLower(getEnv("ORDER_SOURCE", OrderSourceAPI)),
		OrderAPIBaseURL: strings.TrimRight(getEnv("ORDER_API_BASE_URL", "http://localhost:8000"), "/"),
		OrderAPITimeout: getEnvDuration("ORDER_API_TIMEOUT", 15*time.Second),

		MongoURI:        getEnv("MONGO_URI", ""),
		MongoDatabase:   getEnv("MONGO_DATABASE", ""),
		MongoUsername:   getEnv("MONGO_USERNAME", ""),
		MongoPassword:   getEnv("MONGO_PASSWORD", ""),
		MongoCollection: getEnv("MONGO_ORDERS_COLLECTION", "orders"),
		MongoTimeout:    getEnvDuration("MONGO_TIMEOUT", 30*time.Second),

		JWTSecret: getEnv("JWT_SECRET", ""),

		ReportTimezone: getEnv("REPORT_TIMEZONE", "Asia/Kolkata"),

		LogLevel:  strings.ToLower(getEnv("LOG_LEVEL", "info")),
		LogFormat: strings.ToLower(getEnv("LOG_FORMAT", "text")),
	}
}

// Validate checks the configuration and reports every invalid field at once
func (c *Config) Validate() error {
	err := validator.New().Struct(c)
	if err == nil {
		return nil
	}

	validationErrors, ok := err.(validator.ValidationErrors)
	if !ok {
		return fmt.Errorf("configuration validation failed: %w", err)
	}

	messages := make([]string, 0, len(validationErrors))
	for _, fe := range validationErrors {
		messages = append(messages, fmt.Sprintf("%s failed %q", fe.Field(), fe.Tag()))
	}
	return fmt.Errorf("configuration validation failed: %s", strings.Join(messages, "; "))
}

// Location resolves ReportTimezone
func (c *Config) Location() (*time.Location, error) {
	loc, err := time.LoadLocation(c.ReportTimezone)
	if err != nil {
		return nil, fmt.Errorf("invalid REPORT_TIMEZONE %q: %w", c.ReportTimezone, err)
	}
	return loc, nil
}

func getEnv(key, defaultValue string) string {
	if value := os.Getenv(key); value != "" {
		return value
	}
	return defaultValue
}

func getEnvDuration(key string, defaultValue time.Duration) time.Duration {
	value := os.Getenv(key)
	if value == "" {
		return defaultValue
	}
	if d, err := time.ParseDuration(value); err == nil {
		return d
	}
	// bare numbers are seconds
	if seconds, err := strconv.Atoi(value); err == nil {
		return time.Duration(seconds) * time.Second
	}
	return defaultValue
}
