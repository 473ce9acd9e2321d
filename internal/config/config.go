package config

import (
	"fmt"
	"os"
	"strconv"

	"github.com/joho/godotenv"
)

// Config holds process-level application configuration. Scoring thresholds
// live in the YAML files loaded by LoadPortfolio and LoadSignals, not here.
type Config struct {
	DatabasePath       string
	PortfolioPath      string
	SignalsPath        string
	ReportsDir         string
	MarketDataBaseURL  string
	DisclosuresBaseURL string
	EvalSchedule       string // cron expression for the daily evaluation
	LogLevel           string
	Port               int
	DevMode            bool
}

// Load reads configuration from environment variables
func Load() (*Config, error) {
	// Load .env file if it exists
	_ = godotenv.Load()

	cfg := &Config{
		Port:               getEnvAsInt("PORT", 8090),
		DevMode:            getEnvAsBool("DEV_MODE", false),
		DatabasePath:       getEnv("DATABASE_PATH", "./data/sentinel.db"),
		PortfolioPath:      getEnv("PORTFOLIO_CONFIG", "./config/portfolio.yaml"),
		SignalsPath:        getEnv("SIGNALS_CONFIG", "./config/signals.yaml"),
		ReportsDir:         getEnv("REPORTS_DIR", "./reports/daily"),
		MarketDataBaseURL:  getEnv("MARKET_DATA_URL", "https://query1.finance.yahoo.com"),
		DisclosuresBaseURL: getEnv("DISCLOSURES_URL", "https://api.quiverquant.com"),
		EvalSchedule:       getEnv("EVAL_SCHEDULE", "0 0 18 * * MON-FRI"),
		LogLevel:           getEnv("LOG_LEVEL", "info"),
	}

	if err := cfg.Validate(); err != nil {
		return nil, err
	}

	return cfg, nil
}

// Validate checks if required configuration is present
func (c *Config) Validate() error {
	if c.DatabasePath == "" {
		return fmt.Errorf("DATABASE_PATH is required")
	}
	if c.PortfolioPath == "" {
		return fmt.Errorf("PORTFOLIO_CONFIG is required")
	}
	if c.SignalsPath == "" {
		return fmt.Errorf("SIGNALS_CONFIG is required")
	}
	return nil
}

// Helper functions
func getEnv(key, defaultValue string) string {
	if value := os.Getenv(key); value != "" {
		return value
	}
	return defaultValue
}

func getEnvAsInt(key string, defaultValue int) int {
	if value := os.Getenv(key); value != "" {
		if intVal, err := strconv.Atoi(value); err == nil {
			return intVal
		}
	}
	return defaultValue
}

func getEnvAsBool(key string, defaultValue bool) bool {
	if value := os.Getenv(key); value != "" {
		if boolVal, err := strconv.ParseBool(value); err == nil {
			return boolVal
		}
	}
	return defaultValue
}
