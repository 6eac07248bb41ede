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
	"errors"
	"fmt"
	"math"
	"time"

	"wallet-ledger-go/internal/apperrors"
	"wallet-ledger-go/internal/models"
	"wallet-ledger-go/internal/store"

	"go.uber.org/zap"
)

// Caller-facing messages.
const (
	MsgWalletMissing         = "This user does not have an associated wallet."
	MsgWalletNotFound        = "Wallet not found. Please, contact support."
	MsgUserOrAccountNotFound = "The user or the bank account were not found. Please contact support."
	MsgAccountNotFound       = "This bank account was not found. Please, contact the support."
	MsgAccountDisabled       = "This bank account was disabled."
	MsgDisabledAccountTx     = "You can't register a transaction in a disabled bank account."
	MsgDisablePermission     = "You don't have permission to disable this account."
	MsgUpdatePermission      = "You don't have permission to update this account."
	MsgAccountDisabledOK     = "The bank account was successfully disabled."
	MsgTransactionNotOwned   = "Transaction does not belong to user"
	MsgTransactionDeleted    = "The transaction was successfully deleted."
	MsgUserNotFound          = "User not found."
	MsgCategoryNotFound      = "Category not found."
	MsgCategoryPermission    = "You don't have permission to update this category."
	MsgBalanceMismatch       = "Balance mismatch detected. Please, contact support."
)

const (
	defaultPage                 = 1
	defaultPageLimit            = 20
	maxPageLimit                = 100
	latestTransactionsInSummary = 20

	// maxPage keeps page*limit and the SQL offset inside int32.
	maxPage = math.MaxInt32 / maxPageLimit
)

// LedgerService keeps wallet and bank account balances in agreement with
// the transaction history. Every mutation runs as one unit of work.
type LedgerService struct {
	store store.LedgerStore
	cfg   models.LedgerConfig
	now   func() time.Time
}

func NewLedgerService(s store.LedgerStore, cfg models.LedgerConfig) *LedgerService {
	return &LedgerService{
		store: s,
		cfg:   cfg,
		now:   time.Now,
	}
}

func (s *LedgerService) HealthCheck(ctx context.Context) error {
	if err := s.store.Ping(ctx); err != nil {
		return fmt.Errorf("database health check failed: %w", err)
	}
	return nil
}

// fail converts err into an *apperrors.Error and logs anything unexpected.
func fail(op string, err error, fields ...zap.Field) error {
	wrapped := apperrors.WrapInternal(op, err)
	if apperrors.KindOf(wrapped) == apperrors.Internal {
		zap.L().Error("Operation failed", append(fields, zap.String("op", op), zap.Error(err))...)
	} else {
		zap.L().Debug("Operation rejected", append(fields, zap.String("op", op), zap.Error(err))...)
	}
	return wrapped
}

// missing maps store.ErrNotFound to an application error built by build,
// leaving other errors untouched.
func missing(err error, build func(error) *apperrors.Error) error {
	if errors.Is(err, store.ErrNotFound) {
		return build(err)
	}
	return err
}

func normalizePage(page, limit int) (int, int) {
	if page <= 0 {
		page = defaultPage
	}
	if limit <= 0 {
		limit = defaultPageLimit
	}
	if limit > maxPageLimit {
		limit = maxPageLimit
	}
	if page > maxPage {
		page = maxPage
	}
	return page, limit
}

// monthWindow returns [first day of month, first day of next month) in UTC.
func monthWindow(year, month int) (time.Time, time.Time) {
	start := time.Date(year, time.Month(month), 1, 0, 0, 0, 0, time.UTC)
	return start, start.AddDate(0, 1, 0)
}
