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

package main

import (
	"context"
	"flag"
	"fmt"

	"wallet-ledger-go/internal/common"
	"wallet-ledger-go/internal/config"
	"wallet-ledger-go/internal/models"

	"go.uber.org/zap"
)

type balanceStats struct {
	totalUsers     int
	totalAccounts  int
	disabled       int
	inconsistent   int
	failedToReport int
}

func printAccount(account models.BankAccountView, check *models.AccountReconciliation, isLast bool) {
	status := "active"
	if account.Disabled {
		status = "disabled"
	}

	line := fmt.Sprintf("%s %-12s %-20s: %18s (%s, id: %s)",
		common.BoxPrefix(isLast),
		account.BankName,
		account.AccountName,
		account.CurrentBalance,
		status,
		common.ShortId(account.Id))
	if check != nil {
		line += fmt.Sprintf(" %s expected %s", common.StatusMark(check.Consistent), check.Expected)
	}
	fmt.Println(line)
}

func printUser(user common.UserInfo, overview models.AccountsOverview, report *models.Reconciliation) {
	fmt.Printf("\n┌─ User: %s (%s)\n", user.Name, user.Email)
	fmt.Printf("│  ID: %s\n", user.Id)
	fmt.Printf("│  Wallet: %s (initial %s)\n", overview.Wallet.CurrentBalance, overview.Wallet.InitialBalance)
	if report != nil {
		fmt.Printf("│  Reconciled: %s expected %s\n", common.StatusMark(report.Consistent), report.Expected)
	}
	common.PrintBoxSeparator(78)

	checks := make(map[string]*models.AccountReconciliation)
	if report != nil {
		for i := range report.Accounts {
			checks[report.Accounts[i].AccountId] = &report.Accounts[i]
		}
	}
	for i, account := range overview.Accounts {
		printAccount(account, checks[account.Id], i == len(overview.Accounts)-1)
	}
}

func main() {
	ctx := context.Background()

	logger, loggerCleanup := common.InitializeLogger()
	defer loggerCleanup()

	emailFlag := flag.String("email", "", "Filter by specific user email (optional)")
	reconcileFlag := flag.Bool("reconcile", false, "Check every balance against the transaction history")
	flag.Parse()

	logger.Info("Starting balance report", zap.Bool("reconcile", *reconcileFlag))

	cfg, err := config.Load()
	if err != nil {
		logger.Fatal("Failed to load config", zap.Error(err))
	}

	logger.Info("Connecting to database", zap.String("path", cfg.Database.Path))
	services, err := common.InitializeServices(ctx, cfg)
	if err != nil {
		logger.Fatal("Failed to initialize services", zap.Error(err))
	}
	defer services.Close()

	users, err := common.LookupUsers(ctx, services.DbService, *emailFlag)
	if err != nil {
		logger.Fatal("Failed to look up users", zap.Error(err))
	}

	common.PrintHeader("WALLET BALANCE REPORT", common.WideWidth)

	stats := balanceStats{}
	for _, user := range users {
		stats.totalUsers++

		overview, err := services.Ledger.GetAccounts(ctx, user.Id)
		if err != nil {
			stats.failedToReport++
			logger.Error("Failed to load accounts", zap.String("user_id", user.Id), zap.Error(err))
			continue
		}

		var report *models.Reconciliation
		if *reconcileFlag {
			// A mismatch still returns the full report.
			result, err := services.Ledger.ReconcileWallet(ctx, user.Id)
			if err != nil {
				stats.inconsistent++
			}
			if result.WalletId != "" {
				report = &result
			}
		}

		printUser(user, overview, report)

		stats.totalAccounts += len(overview.Accounts)
		for _, account := range overview.Accounts {
			if account.Disabled {
				stats.disabled++
			}
		}
	}

	summary := fmt.Sprintf("SUMMARY: %d users, %d bank accounts (%d disabled)",
		stats.totalUsers, stats.totalAccounts, stats.disabled)
	if *reconcileFlag {
		summary += fmt.Sprintf(", %d wallets out of balance", stats.inconsistent)
	}
	common.PrintFooter(summary, common.WideWidth)

	logger.Info("Balance report completed",
		zap.Int("users", stats.totalUsers),
		zap.Int("bank_accounts", stats.totalAccounts),
		zap.Int("inconsistent_wallets", stats.inconsistent),
		zap.Int("failed", stats.failedToReport))
}
