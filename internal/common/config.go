package common

import (
	"os"
	"strconv"
	"time"
)

// Config holds all application configuration
type Config struct {
	Store  StoreConfig
	Parser ParserConfig
	Google GoogleConfig
	Inbox  InboxConfig
}

// StoreConfig holds receipt-store configuration. DSN may be a SQLite
// file path (or ":memory:") or a postgres:// URL.
type StoreConfig struct {
	DSN         string
	DialTimeout time.Duration
}

// ParserConfig holds extraction-engine configuration.
type ParserConfig struct {
	MinConfidence   float64 // records below this are discarded, default 0.3
	DefaultCurrency string
}

// GoogleConfig holds credentials and targets for the Gmail and Sheets clients.
type GoogleConfig struct {
	CredentialsFile  string
	TokenFile        string
	SpreadsheetID    string
	SpreadsheetTitle string
}

// IMAPConfig holds the plain-IMAP alternative to the Gmail API source.
// Host may be empty for well-known providers.
type IMAPConfig struct {
	Address  string
	Password string
	Host     string
	Port     int
	Mailbox  string
}

// InboxConfig holds email-fetch configuration.
type InboxConfig struct {
	Query       string
	MaxMessages int
	IMAP        IMAPConfig
}

// LoadConfig loads configuration from environment variables
func LoadConfig() *Config {
	return &Config{
		Store: StoreConfig{
			DSN:         getEnv("RECEIPTS_DB_DSN", "receipts.db"),
			DialTimeout: getEnvAsDuration("RECEIPTS_DB_DIAL_TIMEOUT", 3*time.Second),
		},
		Parser: ParserConfig{
			MinConfidence:   getEnvAsFloat64("RECEIPTS_MIN_CONFIDENCE", 0.3),
			DefaultCurrency: getEnv("RECEIPTS_DEFAULT_CURRENCY", "USD"),
		},
		Google: GoogleConfig{
			CredentialsFile:  getEnv("GOOGLE_CREDENTIALS_FILE", "credentials.json"),
			TokenFile:        getEnv("GOOGLE_TOKEN_FILE", "token.json"),
			SpreadsheetID:    getEnv("SHEETS_SPREADSHEET_ID", ""),
			SpreadsheetTitle: getEnv("SHEETS_SPREADSHEET_TITLE", "Receipt Tracker"),
		},
		Inbox: InboxConfig{
			Query:       getEnv("GMAIL_QUERY", "subject:receipt OR subject:order confirmation"),
			MaxMessages: getEnvAsInt("GMAIL_MAX_MESSAGES", 100),
			IMAP: IMAPConfig{
				Address:  getEnv("IMAP_ADDRESS", ""),
				Password: getEnv("IMAP_PASSWORD", ""),
				Host:     getEnv("IMAP_HOST", ""),
				Port:     getEnvAsInt("IMAP_PORT", 993),
				Mailbox:  getEnv("IMAP_MAILBOX", "INBOX"),
			},
		},
	}
}

// Helper functions for environment variable parsing
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

func getEnvAsFloat64(key string, defaultValue float64) float64 {
	if value := os.Getenv(key); value != "" {
		if floatVal, err := strconv.ParseFloat(value, 64); err == nil {
			return floatVal
		}
	}
	return defaultValue
}

func getEnvAsDuration(key string, defaultValue time.Duration) time.Duration {
	if value := os.Getenv(key); value != "" {
		if duration, err := time.ParseDuration(value); err == nil {
			return duration
		}
	}
	return defaultValue
}

// Validate validates the loaded configuration
func (c *Config) Validate() error {
	if c.Store.DSN == "" {
		return NewAppError("CONFIG_ERROR", "RECEIPTS_DB_DSN is required", ErrInvalidInput)
	}
	if c.Parser.MinConfidence < 0 || c.Parser.MinConfidence > 1 {
		return NewAppError("CONFIG_ERROR", "RECEIPTS_MIN_CONFIDENCE must be in [0,1]", ErrInvalidInput)
	}
	if len(c.Parser.DefaultCurrency) != 3 {
		return NewAppError("CONFIG_ERROR", "RECEIPTS_DEFAULT_CURRENCY must be a 3-letter code", ErrInvalidInput)
	}
	return nil
}
