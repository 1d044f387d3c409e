package config

import (
	"strings"
	"testing"
)

func TestLoadDefaults(t *testing.T) {
	// Make sure ambient variables don't leak into the test
	for _, key := range []string{
		"TIMESHEET_ROOT", "SOURCE_SHEET_NAME", "DEFAULT_HOURLY_RATE",
		"CURRENCY", "CURRENCY_PRECISION", "TELEGRAM_API_URL",
	} {
		t.Setenv(key, "")
	}

	cfg, err := Load()
	if err != nil {
		t.Fatalf("Load() returned error: %v", err)
	}

	if cfg.Timesheet.Root != "./timesheets" {
		t.Errorf("Timesheet.Root = %q, expected ./timesheets", cfg.Timesheet.Root)
	}
	if cfg.Timesheet.SheetName != "" {
		t.Errorf("Timesheet.SheetName = %q, expected empty (defers to the layout file)", cfg.Timesheet.SheetName)
	}
	if cfg.Billing.DefaultRate != nil {
		t.Errorf("Billing.DefaultRate = %v, expected nil", cfg.Billing.DefaultRate)
	}
	if cfg.Billing.Currency != "USD" {
		t.Errorf("Billing.Currency = %q, expected USD", cfg.Billing.Currency)
	}
	if cfg.Billing.Precision != 2 {
		t.Errorf("Billing.Precision = %d, expected 2", cfg.Billing.Precision)
	}
	if cfg.Telegram.APIURL != "https://api.telegram.org" {
		t.Errorf("Telegram.APIURL = %q, expected default", cfg.Telegram.APIURL)
	}
}

func TestLoadFromEnv(t *testing.T) {
	t.Setenv("TIMESHEET_ROOT", "/data/ts")
	t.Setenv("SOURCE_SHEET_NAME", "Worklog")
	t.Setenv("DEFAULT_HOURLY_RATE", "45.50")
	t.Setenv("CURRENCY", "EUR")
	t.Setenv("CURRENCY_PRECISION", "0")
	t.Setenv("TELEGRAM_BOT_TOKEN", "token")
	t.Setenv("TELEGRAM_CHAT_ID", "123")
	t.Setenv("DEBUG", "true")

	cfg, err := Load()
	if err != nil {
		t.Fatalf("Load() returned error: %v", err)
	}

	if cfg.Timesheet.Root != "/data/ts" {
		t.Errorf("Timesheet.Root = %q, expected /data/ts", cfg.Timesheet.Root)
	}
	if cfg.Timesheet.SheetName != "Worklog" {
		t.Errorf("Timesheet.SheetName = %q, expected Worklog", cfg.Timesheet.SheetName)
	}
	if cfg.Billing.DefaultRate == nil || cfg.Billing.DefaultRate.String() != "45.5" {
		t.Errorf("Billing.DefaultRate = %v, expected 45.5", cfg.Billing.DefaultRate)
	}
	if cfg.Billing.Precision != 0 {
		t.Errorf("Billing.Precision = %d, expected 0", cfg.Billing.Precision)
	}
	if cfg.Telegram.BotToken != "token" || cfg.Telegram.ChatID != "123" {
		t.Errorf("unexpected Telegram config: %+v", cfg.Telegram)
	}
	if !cfg.Debug {
		t.Error("Debug = false, expected true")
	}
}

func TestLoadInvalidValues(t *testing.T) {
	tests := []struct {
		name  string
		key   string
		value string
	}{
		{"bad rate", "DEFAULT_HOURLY_RATE", "forty-five"},
		{"bad precision", "CURRENCY_PRECISION", "two"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			t.Setenv("DEFAULT_HOURLY_RATE", "")
			t.Setenv("CURRENCY_PRECISION", "")
			t.Setenv(tt.key, tt.value)

			if _, err := Load(); err == nil {
				t.Errorf("Load() succeeded with %s=%q, expected error", tt.key, tt.value)
			}
		})
	}
}

func TestValidate(t *testing.T) {
	cfg := &Config{}
	cfg.Timesheet.Root = "/data/ts"

	if err := cfg.Validate([]string{"timesheet", "root"}); err != nil {
		t.Errorf("Validate() returned error for a set field: %v", err)
	}

	err := cfg.Validate(
		[]string{"telegram", "botToken"},
		[]string{"telegram", "chatId"},
	)
	if err == nil {
		t.Fatal("Validate() succeeded with missing Telegram settings")
	}
	if !strings.Contains(err.Error(), "telegram.botToken") {
		t.Errorf("Validate() error %q does not name the missing field", err)
	}
}
