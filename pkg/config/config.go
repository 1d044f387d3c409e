// Package config provides configuration management for the invoice assistant.
// It loads configuration from environment variables and .env files.
package config

import (
	"fmt"
	"os"
	"strconv"

	"github.com/joho/godotenv"
	"github.com/shopspring/decimal"
)

// Config represents the application configuration.
type Config struct {
	Timesheet TimesheetConfig
	Billing   BillingConfig
	Telegram  TelegramConfig
	Debug     bool
}

// TimesheetConfig represents timesheet source configuration.
type TimesheetConfig struct {
	Root       string // directory holding timesheet and invoice files
	SheetName  string // worksheet override; empty defers to the layout file
	LayoutPath string // column mapping YAML (optional)
	DBPath     string // history database path (optional)
}

// BillingConfig represents invoice computation configuration.
type BillingConfig struct {
	DefaultRate *decimal.Decimal // applied when a row omits the rate
	Currency    string
	Precision   int32 // fractional digits for currency rounding
}

// TelegramConfig represents Telegram bot delivery configuration.
type TelegramConfig struct {
	BotToken string
	ChatID   string
	APIURL   string
}

// Load loads configuration from environment variables.
// It automatically loads .env file from the current directory if available.
// You can optionally specify a custom .env file path.
func Load(envPath ...string) (*Config, error) {
	if len(envPath) > 0 && envPath[0] != "" {
		if err := godotenv.Load(envPath[0]); err != nil {
			return nil, fmt.Errorf("failed to load .env file: %w", err)
		}
	} else {
		// Try to load .env from current directory (ignore error if not found)
		_ = godotenv.Load()
	}

	defaultRate, err := parseDecimalEnv("DEFAULT_HOURLY_RATE")
	if err != nil {
		return nil, err
	}

	precision, err := parseInt32Env("CURRENCY_PRECISION", 2)
	if err != nil {
		return nil, err
	}

	config := &Config{
		Timesheet: TimesheetConfig{
			Root:       getEnvOrDefault("TIMESHEET_ROOT", "./timesheets"),
			SheetName:  os.Getenv("SOURCE_SHEET_NAME"),
			LayoutPath: os.Getenv("TIMESHEET_LAYOUT_PATH"),
			DBPath:     os.Getenv("INVOICE_DB_PATH"),
		},
		Billing: BillingConfig{
			DefaultRate: defaultRate,
			Currency:    getEnvOrDefault("CURRENCY", "USD"),
			Precision:   precision,
		},
		Telegram: TelegramConfig{
			BotToken: os.Getenv("TELEGRAM_BOT_TOKEN"),
			ChatID:   os.Getenv("TELEGRAM_CHAT_ID"),
			APIURL:   getEnvOrDefault("TELEGRAM_API_URL", "https://api.telegram.org"),
		},
		Debug: os.Getenv("DEBUG") == "true",
	}

	return config, nil
}

// Validate validates the configuration.
// It checks if all required fields are set.
func (c *Config) Validate(required ...[]string) error {
	var missing []string

	for _, path := range required {
		if len(path) < 2 {
			continue
		}

		var value string
		switch path[0] {
		case "timesheet":
			switch path[1] {
			case "root":
				value = c.Timesheet.Root
			case "sheetName":
				value = c.Timesheet.SheetName
			case "layoutPath":
				value = c.Timesheet.LayoutPath
			case "dbPath":
				value = c.Timesheet.DBPath
			}
		case "billing":
			switch path[1] {
			case "defaultRate":
				if c.Billing.DefaultRate != nil {
					value = "set"
				}
			case "currency":
				value = c.Billing.Currency
			}
		case "telegram":
			switch path[1] {
			case "botToken":
				value = c.Telegram.BotToken
			case "chatId":
				value = c.Telegram.ChatID
			case "apiUrl":
				value = c.Telegram.APIURL
			}
		}

		if value == "" {
			missing = append(missing, joinPath(path))
		}
	}

	if len(missing) > 0 {
		return fmt.Errorf("missing required configuration: %v\nPlease check your .env file or environment variables", missing)
	}

	return nil
}

// getEnvOrDefault returns the value of the environment variable or a default value if not set.
func getEnvOrDefault(key, defaultValue string) string {
	if value := os.Getenv(key); value != "" {
		return value
	}
	return defaultValue
}

// parseInt32Env parses an int32 from an environment variable.
// Returns defaultValue if the environment variable is not set.
func parseInt32Env(key string, defaultValue int32) (int32, error) {
	value := os.Getenv(key)
	if value == "" {
		return defaultValue, nil
	}

	parsed, err := strconv.ParseInt(value, 10, 32)
	if err != nil {
		return 0, fmt.Errorf("invalid integer value for %s: %s", key, value)
	}

	return int32(parsed), nil
}

// parseDecimalEnv parses an optional decimal from an environment variable.
// Returns nil if the environment variable is not set.
func parseDecimalEnv(key string) (*decimal.Decimal, error) {
	value := os.Getenv(key)
	if value == "" {
		return nil, nil
	}

	parsed, err := decimal.NewFromString(value)
	if err != nil {
		return nil, fmt.Errorf("invalid decimal value for %s: %s", key, value)
	}

	return &parsed, nil
}

// joinPath joins a path slice into a dot-separated string.
func joinPath(path []string) string {
	result := ""
	for i, p := range path {
		if i > 0 {
			result += "."
		}
		result += p
	}
	return result
}
