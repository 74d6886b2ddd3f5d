package config

import (
	"fmt"
	"os"
	"strconv"
	"time"

	"github.com/joho/godotenv"
)

// Config holds application configuration
type Config struct {
	// Storage
	StorageEnabled bool
	DatabaseURL    string

	// Insight benchmarks
	ConversionBenchmark float64 // percent
	AOVBenchmark        float64 // dollars

	// Rankings
	TopProductLimit int
	TopSourceLimit  int

	// Watch mode
	WatchInterval     time.Duration
	MetricsListenAddr string

	// Output
	OutputFormat string // text, json
	LogLevel     string
	Verbose      bool
}

// NewConfig loads .env if present and builds a configuration from the
// environment with defaults.
func NewConfig() *Config {
	// Missing .env is the normal case outside local development.
	_ = godotenv.Load()

	return &Config{
		StorageEnabled:      getEnvBool("STORAGE_ENABLED", false),
		DatabaseURL:         getEnv("DATABASE_URL", "host=localhost port=5432 user=insight password=devpassword dbname=insightengine sslmode=disable"),
		ConversionBenchmark: getEnvFloat("CONVERSION_BENCHMARK", 3.5),
		AOVBenchmark:        getEnvFloat("AOV_BENCHMARK", 75.0),
		TopProductLimit:     getEnvInt("TOP_PRODUCT_LIMIT", 10),
		TopSourceLimit:      getEnvInt("TOP_SOURCE_LIMIT", 6),
		WatchInterval:       getEnvDuration("WATCH_INTERVAL", 5*time.Minute),
		MetricsListenAddr:   getEnv("METRICS_LISTEN_ADDR", ":9090"),
		OutputFormat:        getEnv("OUTPUT_FORMAT", "text"),
		LogLevel:            getEnv("LOG_LEVEL", "info"),
		Verbose:             false,
	}
}

func getEnv(key, defaultValue string) string {
	if value := os.Getenv(key); value != "" {
		return value
	}
	return defaultValue
}

func getEnvBool(key string, defaultValue bool) bool {
	if value := os.Getenv(key); value != "" {
		return value == "true" || value == "1"
	}
	return defaultValue
}

func getEnvInt(key string, defaultValue int) int {
	if value := os.Getenv(key); value != "" {
		if n, err := strconv.Atoi(value); err == nil {
			return n
		}
	}
	return defaultValue
}

func getEnvFloat(key string, defaultValue float64) float64 {
	if value := os.Getenv(key); value != "" {
		if f, err := strconv.ParseFloat(value, 64); err == nil {
			return f
		}
	}
	return defaultValue
}

func getEnvDuration(key string, defaultValue time.Duration) time.Duration {
	if value := os.Getenv(key); value != "" {
		if d, err := time.ParseDuration(value); err == nil {
			return d
		}
	}
	return defaultValue
}

// Validate checks if configuration is valid
func (c *Config) Validate() error {
	if c.StorageEnabled && c.DatabaseURL == "" {
		return fmt.Errorf("DATABASE_URL must be set when storage is enabled")
	}
	if c.ConversionBenchmark <= 0 {
		return fmt.Errorf("conversion benchmark must be positive")
	}
	if c.AOVBenchmark <= 0 {
		return fmt.Errorf("average order value benchmark must be positive")
	}
	if c.TopProductLimit < 1 || c.TopSourceLimit < 1 {
		return fmt.Errorf("ranking limits must be at least 1")
	}
	if c.WatchInterval < time.Second {
		return fmt.Errorf("watch interval must be at least 1s")
	}
	if c.OutputFormat != "text" && c.OutputFormat != "json" {
		return fmt.Errorf("unsupported output format: %s", c.OutputFormat)
	}
	return nil
}
