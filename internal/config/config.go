/**
 * Copyright 2025-present Coinbase Global, Inc.
 *
 * Licensed under the Apache License, Version 2.0 (the "License");
 * you may not use this file except in compliance with the License.
 * You may obtain a copy of the License at
 *
 *  http://www.apache.org/licenses/LICENSE-2.0
 *
 * Unless required by applicable law or agreed to in writing, software
 * distributed under the License is distributed on an "AS IS" BASIS,
 * WITHOUT WARRANTIES OR CONDITIONS OF ANY KIND, either express or implied.
 * See the License for the specific language governing permissions and
 * limitations under the License.
 */

package config

import (
	"fmt"
	"os"
	"strconv"
	"time"

	"wallet-ledger-go/internal/models"
)

func Load() (*models.Config, error) {
	connMaxLifetime, err := getEnvDuration("DB_CONN_MAX_LIFETIME", 5*time.Minute)
	if err != nil {
		return nil, err
	}

	connMaxIdleTime, err := getEnvDuration("DB_CONN_MAX_IDLE_TIME", 30*time.Second)
	if err != nil {
		return nil, err
	}

	pingTimeout, err := getEnvDuration("DB_PING_TIMEOUT", 5*time.Second)
	if err != nil {
		return nil, err
	}

	busyTimeout, err := getEnvDuration("DB_BUSY_TIMEOUT", 5*time.Second)
	if err != nil {
		return nil, err
	}

	resetTokenTTL, err := getEnvDuration("RESET_TOKEN_TTL", 30*time.Minute)
	if err != nil {
		return nil, err
	}

	resetAttemptWindow, err := getEnvDuration("RESET_ATTEMPT_WINDOW", time.Hour)
	if err != nil {
		return nil, err
	}

	ledger := models.DefaultLedgerConfig()
	auth := models.DefaultAuthConfig()

	return &models.Config{
		Environment: getEnvString("APP_ENV", "development"),
		Database: models.DatabaseConfig{
			Path:            getEnvString("DATABASE_PATH", "ledger.db"),
			MaxOpenConns:    getEnvInt("DB_MAX_OPEN_CONNS", 25),
			MaxIdleConns:    getEnvInt("DB_MAX_IDLE_CONNS", 5),
			ConnMaxLifetime: connMaxLifetime,
			ConnMaxIdleTime: connMaxIdleTime,
			PingTimeout:     pingTimeout,
			BusyTimeout:     busyTimeout,
			MaxTxRetries:    getEnvInt("DB_MAX_TX_RETRIES", 3),
		},
		Ledger: models.LedgerConfig{
			UpdateAdjustsWallet:  getEnvBool("LEDGER_UPDATE_ADJUSTS_WALLET", ledger.UpdateAdjustsWallet),
			DefaultWalletBalance: getEnvString("LEDGER_DEFAULT_WALLET_BALANCE", ledger.DefaultWalletBalance),
			CategoriesFile:       getEnvString("CATEGORIES_FILE", ledger.CategoriesFile),
		},
		Auth: models.AuthConfig{
			ResetTokenTTL:      resetTokenTTL,
			ResetAttemptWindow: resetAttemptWindow,
			MaxResetAttempts:   getEnvInt("RESET_MAX_ATTEMPTS", auth.MaxResetAttempts),
			ResetTokenBytes:    auth.ResetTokenBytes,
			ResetURL:           getEnvString("RESET_URL", auth.ResetURL),
			EmailFrom:          getEnvString("EMAIL_FROM", auth.EmailFrom),
		},
	}, nil
}

func getEnvString(key, defaultValue string) string {
	if value := os.Getenv(key); value != "" {
		return value
	}
	return defaultValue
}

func getEnvDuration(key string, defaultValue time.Duration) (time.Duration, error) {
	if value := os.Getenv(key); value != "" {
		duration, err := time.ParseDuration(value)
		if err != nil {
			return 0, fmt.Errorf("invalid duration for %s: %q (%w)", key, value, err)
		}
		return duration, nil
	}
	return defaultValue, nil
}

func getEnvInt(key string, defaultValue int) int {
	if value := os.Getenv(key); value != "" {
		if intValue, err := strconv.Atoi(value); err == nil {
			return intValue
		}
	}
	return defaultValue
}

func getEnvBool(key string, defaultValue bool) bool {
	if value := os.Getenv(key); value != "" {
		if boolValue, err := strconv.ParseBool(value); err == nil {
			return boolValue
		}
	}
	return defaultValue
}
