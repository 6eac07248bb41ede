package models

import "time"

// Config represents the application configuration
type Config struct {
	Environment string
	Database    DatabaseConfig
	Ledger      LedgerConfig
	Auth        AuthConfig
}

func (c *Config) IsProduction() bool {
	return c.Environment == "production"
}

// DatabaseConfig holds database connection settings
type DatabaseConfig struct {
	Path            string
	MaxOpenConns    int
	MaxIdleConns    int
	ConnMaxLifetime time.Duration
	ConnMaxIdleTime time.Duration
	PingTimeout     time.Duration
	BusyTimeout     time.Duration
	// MaxTxRetries bounds how often a unit of work is replayed after a
	// concurrent modification.
	MaxTxRetries int
}

// LedgerConfig holds balance engine settings
type LedgerConfig struct {
	// UpdateAdjustsWallet applies a transaction edit's net delta to the wallet
	// as well as the bank account. When false only the account moves.
	UpdateAdjustsWallet  bool
	DefaultWalletBalance string
	CategoriesFile       string
}

// AuthConfig holds credential and reset-password settings
type AuthConfig struct {
	ResetTokenTTL      time.Duration
	ResetAttemptWindow time.Duration
	MaxResetAttempts   int
	ResetTokenBytes    int
	ResetURL           string
	EmailFrom          string
}

func DefaultLedgerConfig() LedgerConfig {
	return LedgerConfig{
		UpdateAdjustsWallet:  true,
		DefaultWalletBalance: "0,00",
		CategoriesFile:       "categories.yaml",
	}
}

func DefaultAuthConfig() AuthConfig {
	return AuthConfig{
		ResetTokenTTL:      30 * time.Minute,
		ResetAttemptWindow: time.Hour,
		MaxResetAttempts:   3,
		ResetTokenBytes:    32,
		ResetURL:           "http://localhost:3000/reset-password",
		EmailFrom:          "onboarding@resend.dev",
	}
}

// CategorySeed is a category created for every new user
type CategorySeed struct {
	Name      string `yaml:"name"`
	ColorCode string `yaml:"color_code"`
}
