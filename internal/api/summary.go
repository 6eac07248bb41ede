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

package api

import (
	"context"

	"wallet-ledger-go/internal/apperrors"
	"wallet-ledger-go/internal/models"
	"wallet-ledger-go/internal/money"
	"wallet-ledger-go/internal/store"

	"go.uber.org/zap"
	"golang.org/x/sync/errgroup"
)

// GetUserSummary returns the month's income and outcome totals, the wallet
// balance, every account, and the latest transactions of the month.
func (s *LedgerService) GetUserSummary(ctx context.Context, req UserSummaryRequest) (models.UserSummary, error) {
	const op = "LedgerService.GetUserSummary"

	if err := validateRequest(op, req); err != nil {
		return models.UserSummary{}, err
	}
	start, end := monthWindow(req.Year, req.Month)

	repos := s.store.Repositories()
	wallet, err := repos.Wallets.FindByUserId(ctx, req.UserId)
	if err != nil {
		return models.UserSummary{}, fail(op, missing(err, func(err error) *apperrors.Error {
			return apperrors.NewInternal(op, MsgWalletNotFound, err)
		}), zap.String("user_id", req.UserId))
	}

	var (
		accounts     []*models.BankAccount
		totals       store.PeriodTotals
		transactions []*models.Transaction
	)
	g, gctx := errgroup.WithContext(ctx)
	g.Go(func() error {
		var err error
		accounts, err = repos.BankAccounts.FindManyByWalletId(gctx, wallet.Id)
		return err
	})
	g.Go(func() error {
		var err error
		totals, err = repos.Transactions.TotalsByUserBetween(gctx, req.UserId, start, end)
		return err
	})
	g.Go(func() error {
		var err error
		transactions, err = repos.Transactions.FindManyByUserBetween(gctx, req.UserId, start, end, latestTransactionsInSummary)
		return err
	})
	if err := g.Wait(); err != nil {
		return models.UserSummary{}, fail(op, err, zap.String("user_id", req.UserId))
	}

	disabled := make(map[string]bool, len(accounts))
	summary := models.UserSummary{
		Month:              req.Month,
		Year:               req.Year,
		TotalIncome:        money.New(totals.IncomeCents).Display(),
		TotalOutcome:       money.New(totals.OutcomeCents).Display(),
		Balance:            wallet.CurrentBalance().Display(),
		Wallet:             models.NewWalletView(wallet),
		Accounts:           make([]models.BankAccountView, len(accounts)),
		LatestTransactions: make([]models.TransactionRecord, len(transactions)),
	}
	for i, account := range accounts {
		disabled[account.Id] = account.IsDisabled()
		summary.Accounts[i] = models.NewBankAccountView(account)
	}
	for i, transaction := range transactions {
		record := models.NewTransactionRecord(transaction)
		record.IsFromDisabledAccount = disabled[transaction.BankAccountId]
		summary.LatestTransactions[i] = record
	}

	return summary, nil
}
