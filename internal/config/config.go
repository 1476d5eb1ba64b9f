package config

import (
	"fmt"
	"os"
	"strconv"

	"github.com/joho/godotenv"
)

// Report modes.
const (
	ModeSummary  = "summary"
	ModeLowStock = "lowstock"
)

type Config struct {
	// WooCommerce API
	WCAPIURL         string
	WCConsumerKey    string
	WCConsumerSecret string

	// Webhook
	WebhookURL string

	// Pipeline behavior
	Debug             bool
	LookbackDays      int
	MaxPages          int
	ReportMode        string
	PendingPolicy     string
	TotalOrdersPolicy string

	// Worker
	WorkerIntervalMinutes int

	// Environment
	LogLevel string
}

func Load() (*Config, error) {
	// Load .env file
	godotenv.Load()

	cfg := &Config{
		WCAPIURL:         getEnv("WC_API_URL", ""),
		WCConsumerKey:    getEnv("WC_CONSUMER_KEY", ""),
		WCConsumerSecret: getEnv("WC_CONSUMER_SECRET", ""),

		WebhookURL: getEnv("WEBHOOK_URL", ""),

		Debug:             getEnvAsBool("DEBUG", false),
		LookbackDays:      getEnvAsInt("LOOKBACK_DAYS", 0),
		MaxPages:          getEnvAsInt("WC_MAX_PAGES", 100),
		ReportMode:        getEnv("REPORT_MODE", ModeSummary),
		PendingPolicy:     getEnv("PENDING_POLICY", "processing"),
		TotalOrdersPolicy: getEnv("TOTAL_ORDERS_POLICY", "exclude_cancelled"),

		WorkerIntervalMinutes: getEnvAsInt("WORKER_INTERVAL_MINUTES", 15),

		LogLevel: getEnv("LOG_LEVEL", "info"),
	}

	if err := cfg.validate(); err != nil {
		return nil, err
	}
	return cfg, nil
}

func (c *Config) validate() error {
	if c.WCAPIURL == "" {
		return fmt.Errorf("WC_API_URL is required")
	}
	if c.WCConsumerKey == "" || c.WCConsumerSecret == "" {
		return fmt.Errorf("WC_CONSUMER_KEY and WC_CONSUMER_SECRET are required")
	}
	if c.WebhookURL == "" && !c.Debug {
		return fmt.Errorf("WEBHOOK_URL is required unless DEBUG is set")
	}
	if c.ReportMode != ModeSummary && c.ReportMode != ModeLowStock {
		return fmt.Errorf("REPORT_MODE must be %q or %q, got %q", ModeSummary, ModeLowStock, c.ReportMode)
	}
	return nil
}

func getEnv(key, defaultValue string) string {
	if value := os.Getenv(key); value != "" {
		return value
	}
	return defaultValue
}

func getEnvAsInt(key string, defaultValue int) int {
	if value := os.Getenv(key); value != "" {
		if intValue, err := strconv.Atoi(value); err == nil {
			return intValue
		}
	}
	return defaultValue
}

func getEnvAsBool(key string, defaultValue bool) bool {
	if value := os.Getenv(key); value != "" {
		if boolValue, err := strconv.ParseBool(value); err == nil {
			return boolValue
		}
	}
	return defaultValue
}
