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

// RegisterBankAccount opens an account with an initial balance and credits
// that balance to the owner's wallet.
func (s *LedgerService) RegisterBankAccount(ctx context.Context, req RegisterBankAccountRequest) (models.BankAccountView, error) {
	const op = "LedgerService.RegisterBankAccount"

	if err := validateRequest(op, req); err != nil {
		return models.BankAccountView{}, err
	}
	amount, err := money.Parse(req.Amount)
	if err != nil {
		return models.BankAccountView{}, err
	}

	var account *models.BankAccount
	err = s.store.RunInTx(ctx, func(ctx context.Context, repos store.Repositories) error {
		wallet, err := repos.Wallets.FindByUserId(ctx, req.UserId)
		if err != nil {
			return missing(err, func(err error) *apperrors.Error {
				return apperrors.NewInternal(op, MsgWalletMissing, err)
			})
		}

		now := s.now()
		account = models.NewBankAccount(wallet.Id, req.BankName, req.AccountName, amount, now)
		wallet.IncreaseBalance(amount.Cents(), now)

		if err := repos.BankAccounts.Save(ctx, account); err != nil {
			return err
		}
		return repos.Wallets.Save(ctx, wallet)
	})
	if err != nil {
		return models.BankAccountView{}, fail(op, err, zap.String("user_id", req.UserId))
	}

	zap.L().Info("Bank account registered",
		zap.String("user_id", req.UserId),
		zap.String("bank_account_id", account.Id),
		zap.Int64("initial_balance_cents", amount.Cents()))

	return models.NewBankAccountView(account), nil
}

// UpdateBankAccount renames an active account. Blank names are ignored.
func (s *LedgerService) UpdateBankAccount(ctx context.Context, req UpdateBankAccountRequest) (models.BankAccountView, error) {
	const op = "LedgerService.UpdateBankAccount"

	if err := validateRequest(op, req); err != nil {
		return models.BankAccountView{}, err
	}

	var account *models.BankAccount
	err := s.store.RunInTx(ctx, func(ctx context.Context, repos store.Repositories) error {
		var err error
		account, err = s.loadOwnedAccount(ctx, repos, op, req.UserId, req.BankAccountId, MsgUpdatePermission)
		if err != nil {
			return err
		}

		if err := account.Rename(req.BankName, req.AccountName, s.now()); err != nil {
			return apperrors.Wrap(apperrors.Unauthorized, op, MsgAccountDisabled, err)
		}
		return repos.BankAccounts.Save(ctx, account)
	})
	if err != nil {
		return models.BankAccountView{}, fail(op, err, zap.String("bank_account_id", req.BankAccountId))
	}

	return models.NewBankAccountView(account), nil
}

// DisableBankAccount freezes an account. Its balance stays where it is and
// keeps counting towards the wallet.
func (s *LedgerService) DisableBankAccount(ctx context.Context, userId, bankAccountId string) (models.MessageResult, error) {
	const op = "LedgerService.DisableBankAccount"

	err := s.store.RunInTx(ctx, func(ctx context.Context, repos store.Repositories) error {
		account, err := s.loadOwnedAccount(ctx, repos, op, userId, bankAccountId, MsgDisablePermission)
		if err != nil {
			return err
		}

		account.Disable(s.now())
		return repos.BankAccounts.Save(ctx, account)
	})
	if err != nil {
		return models.MessageResult{}, fail(op, err,
			zap.String("user_id", userId),
			zap.String("bank_account_id", bankAccountId))
	}

	zap.L().Info("Bank account disabled",
		zap.String("user_id", userId),
		zap.String("bank_account_id", bankAccountId))

	return models.MessageResult{Message: MsgAccountDisabledOK}, nil
}

// loadOwnedAccount loads the user and account and checks that the account
// sits in the user's wallet.
func (s *LedgerService) loadOwnedAccount(ctx context.Context, repos store.Repositories, op, userId, bankAccountId, deniedMsg string) (*models.BankAccount, error) {
	var (
		user    *models.User
		account *models.BankAccount
	)

	g, gctx := errgroup.WithContext(ctx)
	g.Go(func() error {
		var err error
		user, err = repos.Users.FindById(gctx, userId)
		return err
	})
	g.Go(func() error {
		var err error
		account, err = repos.BankAccounts.FindById(gctx, bankAccountId)
		return err
	})
	if err := g.Wait(); err != nil {
		return nil, missing(err, func(err error) *apperrors.Error {
			return apperrors.NewInternal(op, MsgUserOrAccountNotFound, err)
		})
	}

	belongs, err := repos.BankAccounts.BelongsToUser(ctx, account.Id, user.Id)
	if err != nil {
		return nil, err
	}
	if !belongs {
		return nil, apperrors.NewUnauthorized(op, deniedMsg)
	}
	return account, nil
}

// GetAccounts returns the user's wallet together with every account it holds.
func (s *LedgerService) GetAccounts(ctx context.Context, userId string) (models.AccountsOverview, error) {
	const op = "LedgerService.GetAccounts"

	repos := s.store.Repositories()

	var wallet *models.Wallet
	g, gctx := errgroup.WithContext(ctx)
	g.Go(func() error {
		_, err := repos.Users.FindById(gctx, userId)
		return missing(err, func(err error) *apperrors.Error {
			return apperrors.Wrap(apperrors.NotFound, op, MsgUserNotFound, err)
		})
	})
	g.Go(func() error {
		var err error
		wallet, err = repos.Wallets.FindByUserId(gctx, userId)
		return missing(err, func(err error) *apperrors.Error {
			return apperrors.Wrap(apperrors.NotFound, op, MsgWalletNotFound, err)
		})
	})
	if err := g.Wait(); err != nil {
		return models.AccountsOverview{}, fail(op, err, zap.String("user_id", userId))
	}

	accounts, err := repos.BankAccounts.FindManyByWalletId(ctx, wallet.Id)
	if err != nil {
		return models.AccountsOverview{}, fail(op, err, zap.String("user_id", userId))
	}

	overview := models.AccountsOverview{
		Wallet:   models.NewWalletView(wallet),
		Accounts: make([]models.BankAccountView, len(accounts)),
	}
	for i, account := range accounts {
		overview.Accounts[i] = models.NewBankAccountView(account)
	}
	return overview, nil
}
