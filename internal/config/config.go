package config

import (
	"fmt"
	"os"
	"strconv"
	"strings"
	"time"

	"github.com/joho/godotenv"

	"github.com/dukerupert/smartfood/internal/recipe"
	"github.com/dukerupert/smartfood/internal/report"
)

type Config struct {
	// HTTP server
	Port       string
	CORSOrigin string

	// Database
	DBPath string

	// Logging
	LogLevel  string
	LogFormat string

	// Auth
	JWTSecret string
	TokenTTL  time.Duration

	// Report and matcher policy
	WastePerItem       int64
	SavingsRate        float64
	ReportMonths       int
	CookableMaxMissing int
	MatchMode          string
}

// Load reads SMARTFOOD_* variables, after loading a .env file from the
// working directory if one exists.
func Load() *Config {
	_ = godotenv.Load()

	return &Config{
		Port:       getEnv("SMARTFOOD_PORT", "8080"),
		CORSOrigin: getEnv("SMARTFOOD_CORS_ORIGIN", ""),

		DBPath: getEnv("SMARTFOOD_DB_PATH", "smartfood.db"),

		LogLevel:  getEnv("SMARTFOOD_LOG_LEVEL", "info"),
		LogFormat: getEnv("SMARTFOOD_LOG_FORMAT", "text"),

		JWTSecret: getEnv("SMARTFOOD_JWT_SECRET", ""),
		TokenTTL:  getEnvDuration("SMARTFOOD_TOKEN_TTL", 24*time.Hour),

		WastePerItem:       getEnvInt64("SMARTFOOD_WASTE_PER_ITEM", report.DefaultConfig.WastePerItem),
		SavingsRate:        getEnvFloat("SMARTFOOD_SAVINGS_RATE", report.DefaultConfig.SavingsRate),
		ReportMonths:       getEnvInt("SMARTFOOD_REPORT_MONTHS", report.DefaultConfig.Months),
		CookableMaxMissing: getEnvInt("SMARTFOOD_COOKABLE_MAX_MISSING", recipe.DefaultMatcher.Threshold),
		MatchMode:          getEnv("SMARTFOOD_MATCH_MODE", string(recipe.ModeExact)),
	}
}

// Validate returns one error listing every problem found.
func (c *Config) Validate() error {
	var errs []string

	if port, err := strconv.Atoi(c.Port); err != nil {
		errs = append(errs, fmt.Sprintf("invalid port '%s': must be a number", c.Port))
	} else if port < 1 || port > 65535 {
		errs = append(errs, fmt.Sprintf("invalid port %d: must be between 1 and 65535", port))
	}

	if c.DBPath == "" {
		errs = append(errs, "database path cannot be empty")
	}

	switch strings.ToLower(c.LogFormat) {
	case "text", "json", "tint":
	default:
		errs = append(errs, fmt.Sprintf("invalid log format '%s': must be text, json or tint", c.LogFormat))
	}

	if len(c.JWTSecret) < 32 {
		errs = append(errs, "SMARTFOOD_JWT_SECRET must be at least 32 characters")
	}
	if c.TokenTTL < time.Minute {
		errs = append(errs, fmt.Sprintf("invalid token ttl %v: must be at least 1 minute", c.TokenTTL))
	}

	if c.WastePerItem < 0 {
		errs = append(errs, fmt.Sprintf("invalid waste per item %d: must not be negative", c.WastePerItem))
	}
	if c.SavingsRate < 0 || c.SavingsRate > 1 {
		errs = append(errs, fmt.Sprintf("invalid savings rate %v: must be between 0 and 1", c.SavingsRate))
	}
	if c.ReportMonths < 1 || c.ReportMonths > 24 {
		errs = append(errs, fmt.Sprintf("invalid report months %d: must be between 1 and 24", c.ReportMonths))
	}
	if c.CookableMaxMissing < 0 {
		errs = append(errs, fmt.Sprintf("invalid cookable max missing %d: must not be negative", c.CookableMaxMissing))
	}
	if _, err := recipe.ParseMode(c.MatchMode); err != nil {
		errs = append(errs, err.Error())
	}

	if len(errs) > 0 {
		return fmt.Errorf("configuration validation failed:\n- %s", strings.Join(errs, "\n- "))
	}
	return nil
}

func (c *Config) Report() report.Config {
	return report.Config{WastePerItem: c.WastePerItem, SavingsRate: c.SavingsRate, Months: c.ReportMonths}
}

// Matcher assumes Validate has passed.
func (c *Config) Matcher() recipe.Matcher {
	mode, _ := recipe.ParseMode(c.MatchMode)
	return recipe.Matcher{Threshold: c.CookableMaxMissing, Mode: mode}
}

func getEnv(key, defaultValue string) string {
	if value := os.Getenv(key); value != "" {
		return value
	}
	return defaultValue
}

func getEnvInt(key string, defaultValue int) int {
	if value := os.Getenv(key); value != "" {
		if i, err := strconv.Atoi(value); err == nil {
			return i
		}
	}
	return defaultValue
}

func getEnvInt64(key string, defaultValue int64) int64 {
	if value := os.Getenv(key); value != "" {
		if i, err := strconv.ParseInt(value, 10, 64); err == nil {
			return i
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
