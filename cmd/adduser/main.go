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
	"strings"

	"wallet-ledger-go/internal/api"
	"wallet-ledger-go/internal/apperrors"
	"wallet-ledger-go/internal/common"
	"wallet-ledger-go/internal/config"

	"go.uber.org/zap"
)

type accountFlags []string

func (a *accountFlags) String() string {
	return fmt.Sprint(*a)
}

// Set takes "Bank:Account:1.234,56".
func (a *accountFlags) Set(value string) error {
	*a = append(*a, value)
	return nil
}

func parseAccount(value string) (bankName, accountName, amount string, err error) {
	parts := strings.SplitN(value, ":", 3)
	if len(parts) != 3 {
		return "", "", "", fmt.Errorf("account %q must look like Bank:Account:1.234,56", value)
	}
	return parts[0], parts[1], parts[2], nil
}

func main() {
	ctx := context.Background()

	_, loggerCleanup := common.InitializeLogger()
	defer loggerCleanup()

	nameFlag := flag.String("name", "", "User's full name (required)")
	emailFlag := flag.String("email", "", "User's email address (required)")
	passwordFlag := flag.String("password", "", "Initial password, at least 6 characters (required)")
	balanceFlag := flag.String("balance", "", "Initial wallet balance, e.g. 1.234,56 (optional)")
	var accounts accountFlags
	flag.Var(&accounts, "account", "Bank account to open, as Bank:Account:1.234,56 (repeatable)")
	flag.Parse()

	if *nameFlag == "" || *emailFlag == "" || *passwordFlag == "" {
		zap.L().Fatal("Flags --name, --email and --password are required")
	}

	cfg, err := config.Load()
	if err != nil {
		zap.L().Fatal("Failed to load config", zap.Error(err))
	}

	services, err := common.InitializeServices(ctx, cfg)
	if err != nil {
		zap.L().Fatal("Failed to initialize services", zap.Error(err))
	}
	defer services.Close()

	user, err := services.Auth.CreateUser(ctx, api.CreateUserRequest{
		Name:           *nameFlag,
		Email:          *emailFlag,
		Password:       *passwordFlag,
		InitialBalance: *balanceFlag,
	})
	if err != nil {
		zap.L().Fatal("Failed to create user",
			zap.String("reason", apperrors.MessageOf(err)),
			zap.Error(err))
	}

	common.PrintHeader("USER CREATED", common.DefaultWidth)
	fmt.Printf("ID:     %s\n", user.Id)
	fmt.Printf("Name:   %s\n", user.Name)
	fmt.Printf("Email:  %s\n", user.Email)
	fmt.Printf("Wallet: %s\n", user.Wallet.CurrentBalance)
	common.PrintSeparator("=", common.DefaultWidth)

	if len(accounts) == 0 {
		return
	}

	failed := 0
	for _, value := range accounts {
		bankName, accountName, amount, err := parseAccount(value)
		if err != nil {
			failed++
			fmt.Printf("%s %s\n", common.StatusMark(false), err)
			continue
		}

		account, err := services.Ledger.RegisterBankAccount(ctx, api.RegisterBankAccountRequest{
			UserId:      user.Id,
			BankName:    bankName,
			AccountName: accountName,
			Amount:      amount,
		})
		if err != nil {
			failed++
			fmt.Printf("%s %s/%s: %s\n", common.StatusMark(false), bankName, accountName, apperrors.MessageOf(err))
			continue
		}
		fmt.Printf("%s %s/%s: %s\n", common.StatusMark(true), account.BankName, account.AccountName, account.CurrentBalance)
	}

	if failed > 0 {
		zap.L().Warn("User created but some bank accounts failed",
			zap.String("user_id", user.Id),
			zap.Int("failed", failed))
		return
	}
	zap.L().Info("User and bank accounts created",
		zap.String("user_id", user.Id),
		zap.Int("accounts", len(accounts)))
}
