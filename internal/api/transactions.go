package api

import (
	"context"
	"errors"

	"wallet-ledger-go/internal/apperrors"
	"wallet-ledger-go/internal/models"
	"wallet-ledger-go/internal/money"
	"wallet-ledger-go/internal/store"

	"go.uber.org/zap"
	"golang.org/x/sync/errgroup"
)

// CreateTransaction records an income or outcome on an active account and
// applies its effect to both the account and the wallet.
func (s *LedgerService) CreateTransaction(ctx context.Context, req CreateTransactionRequest) (models.TransactionRecord, error) {
	const op = "LedgerService.CreateTransaction"

	if err := validateRequest(op, req); err != nil {
		return models.TransactionRecord{}, err
	}
	amount, err := money.Parse(req.Amount)
	if err != nil {
		return models.TransactionRecord{}, err
	}

	var transaction *models.Transaction
	err = s.store.RunInTx(ctx, func(ctx context.Context, repos store.Repositories) error {
		var (
			wallet   *models.Wallet
			category *models.Category
			account  *models.BankAccount
		)

		g, gctx := errgroup.WithContext(ctx)
		g.Go(func() error {
			var err error
			wallet, err = repos.Wallets.FindByUserId(gctx, req.UserId)
			return err
		})
		g.Go(func() error {
			var err error
			category, err = repos.Categories.FindById(gctx, req.CategoryId)
			return err
		})
		g.Go(func() error {
			var err error
			account, err = repos.BankAccounts.FindByIdAndUser(gctx, req.BankAccountId, req.UserId)
			return err
		})
		if err := g.Wait(); err != nil {
			return missing(err, func(err error) *apperrors.Error {
				return apperrors.NewInternal(op, apperrors.MsgResourceNotFound, err)
			})
		}
		if category.UserId != req.UserId {
			return apperrors.NewInternal(op, apperrors.MsgResourceNotFound, store.ErrNotFound)
		}
		if account.IsDisabled() {
			return apperrors.NewUnauthorized(op, MsgDisabledAccountTx)
		}

		now := s.now()
		transaction = models.NewTransaction(account.Id, amount, req.Type, req.Description, *category, now)
		effect := transaction.Effect()

		if err := account.ApplyEffect(effect, now); err != nil {
			return apperrors.Wrap(apperrors.Unauthorized, op, MsgDisabledAccountTx, err)
		}
		wallet.ApplyEffect(effect, now)

		if err := repos.Transactions.Save(ctx, transaction); err != nil {
			return err
		}
		if err := repos.BankAccounts.Save(ctx, account); err != nil {
			return err
		}
		return repos.Wallets.Save(ctx, wallet)
	})
	if err != nil {
		return models.TransactionRecord{}, fail(op, err,
			zap.String("user_id", req.UserId),
			zap.String("bank_account_id", req.BankAccountId))
	}

	zap.L().Info("Transaction created",
		zap.String("transaction_id", transaction.Id),
		zap.String("bank_account_id", transaction.BankAccountId),
		zap.String("type", string(transaction.Type)),
		zap.Int64("amount_cents", transaction.Amount.Cents()))

	return models.NewTransactionRecord(transaction), nil
}

// UpdateTransaction edits a transaction. When the amount or type changes, the
// old effect is reversed and the new one applied, both computed from the
// transaction as loaded at the start of the unit.
func (s *LedgerService) UpdateTransaction(ctx context.Context, req UpdateTransactionRequest) (models.TransactionRecord, error) {
	const op = "LedgerService.UpdateTransaction"

	if err := validateRequest(op, req); err != nil {
		return models.TransactionRecord{}, err
	}

	var newAmount *money.Money
	if req.Amount != nil {
		amount, err := money.Parse(*req.Amount)
		if err != nil {
			return models.TransactionRecord{}, err
		}
		newAmount = &amount
	}

	var transaction *models.Transaction
	err := s.store.RunInTx(ctx, func(ctx context.Context, repos store.Repositories) error {
		var user *models.User

		g, gctx := errgroup.WithContext(ctx)
		g.Go(func() error {
			var err error
			user, err = repos.Users.FindById(gctx, req.UserId)
			return err
		})
		g.Go(func() error {
			var err error
			transaction, err = repos.Transactions.FindById(gctx, req.TransactionId)
			return err
		})
		if err := g.Wait(); err != nil {
			return missing(err, func(err error) *apperrors.Error {
				return apperrors.NewInternal(op, apperrors.MsgResourceNotFound, err)
			})
		}

		belongs, err := repos.Transactions.BelongsToUser(ctx, transaction.Id, user.Id)
		if err != nil {
			return err
		}
		if !belongs {
			return apperrors.NewUnauthorized(op, MsgTransactionNotOwned)
		}

		oldEffect := transaction.Effect()
		amount := transaction.Amount
		if newAmount != nil {
			amount = *newAmount
		}
		txType := transaction.Type
		if req.Type != nil {
			txType = *req.Type
		}
		description := transaction.Description
		if req.Description != nil {
			description = *req.Description
		}

		category, err := s.resolveCategory(ctx, repos, transaction.Category, user.Id, req.CategoryId)
		if err != nil {
			return err
		}

		now := s.now()
		if req.Amount != nil || req.Type != nil {
			delta := txType.Effect(amount) - oldEffect
			if err := s.moveBalances(ctx, repos, op, transaction.BankAccountId, user.Id, delta); err != nil {
				return err
			}
		}

		transaction.Revise(amount, txType, description, category, now)
		return repos.Transactions.Save(ctx, transaction)
	})
	if err != nil {
		return models.TransactionRecord{}, fail(op, err,
			zap.String("user_id", req.UserId),
			zap.String("transaction_id", req.TransactionId))
	}

	return models.NewTransactionRecord(transaction), nil
}

// resolveCategory returns the requested category, or current when none was
// asked for or the requested one cannot be used.
func (s *LedgerService) resolveCategory(ctx context.Context, repos store.Repositories, current models.Category, userId string, categoryId *string) (models.Category, error) {
	if categoryId == nil || *categoryId == "" || *categoryId == current.Id {
		return current, nil
	}

	category, err := repos.Categories.FindById(ctx, *categoryId)
	if errors.Is(err, store.ErrNotFound) {
		zap.L().Debug("Requested category not found, keeping current", zap.String("category_id", *categoryId))
		return current, nil
	}
	if err != nil {
		return models.Category{}, err
	}
	if category.UserId != userId {
		zap.L().Warn("Requested category belongs to another user, keeping current",
			zap.String("category_id", *categoryId),
			zap.String("user_id", userId))
		return current, nil
	}
	return *category, nil
}

// moveBalances applies delta to the account and, when configured, the wallet.
func (s *LedgerService) moveBalances(ctx context.Context, repos store.Repositories, op, bankAccountId, userId string, delta int64) error {
	account, err := repos.BankAccounts.FindById(ctx, bankAccountId)
	if err != nil {
		return missing(err, func(err error) *apperrors.Error {
			return apperrors.NewInternal(op, MsgAccountNotFound, err)
		})
	}
	if account.IsDisabled() {
		return apperrors.NewUnauthorized(op, MsgAccountDisabled)
	}

	now := s.now()
	if err := account.ApplyEffect(delta, now); err != nil {
		return apperrors.Wrap(apperrors.Unauthorized, op, MsgAccountDisabled, err)
	}
	if err := repos.BankAccounts.Save(ctx, account); err != nil {
		return err
	}

	if !s.cfg.UpdateAdjustsWallet {
		if delta != 0 {
			zap.L().Warn("Transaction edit left wallet balance unchanged",
				zap.String("bank_account_id", bankAccountId),
				zap.Int64("delta_cents", delta))
		}
		return nil
	}

	wallet, err := repos.Wallets.FindByUserId(ctx, userId)
	if err != nil {
		return missing(err, func(err error) *apperrors.Error {
			return apperrors.NewInternal(op, MsgWalletNotFound, err)
		})
	}
	wallet.ApplyEffect(delta, now)
	return repos.Wallets.Save(ctx, wallet)
}

// DeleteTransaction removes a transaction and reverses its effect on the
// account and the wallet.
func (s *LedgerService) DeleteTransaction(ctx context.Context, userId, transactionId string) (models.MessageResult, error) {
	const op = "LedgerService.DeleteTransaction"

	err := s.store.RunInTx(ctx, func(ctx context.Context, repos store.Repositories) error {
		transaction, err := repos.Transactions.FindByIdAndUser(ctx, transactionId, userId)
		if err != nil {
			return missing(err, func(err error) *apperrors.Error {
				return apperrors.Wrap(apperrors.Unauthorized, op, MsgTransactionNotOwned, err)
			})
		}

		var (
			account *models.BankAccount
			wallet  *models.Wallet
		)
		g, gctx := errgroup.WithContext(ctx)
		g.Go(func() error {
			var err error
			account, err = repos.BankAccounts.FindById(gctx, transaction.BankAccountId)
			return err
		})
		g.Go(func() error {
			var err error
			wallet, err = repos.Wallets.FindByUserId(gctx, userId)
			return err
		})
		if err := g.Wait(); err != nil {
			return missing(err, func(err error) *apperrors.Error {
				return apperrors.NewInternal(op, apperrors.MsgResourceNotFound, err)
			})
		}

		now := s.now()
		if err := account.ApplyEffect(-transaction.Effect(), now); err != nil {
			return apperrors.Wrap(apperrors.Unauthorized, op, MsgAccountDisabled, err)
		}
		wallet.ApplyEffect(-transaction.Effect(), now)

		if err := repos.Transactions.Delete(ctx, transaction.Id); err != nil {
			return err
		}
		if err := repos.BankAccounts.Save(ctx, account); err != nil {
			return err
		}
		return repos.Wallets.Save(ctx, wallet)
	})
	if err != nil {
		return models.MessageResult{}, fail(op, err,
			zap.String("user_id", userId),
			zap.String("transaction_id", transactionId))
	}

	zap.L().Info("Transaction deleted",
		zap.String("user_id", userId),
		zap.String("transaction_id", transactionId))

	return models.MessageResult{Message: MsgTransactionDeleted}, nil
}

// AccountTransactions lists one page of an account's transactions for a
// calendar month, newest first.
func (s *LedgerService) AccountTransactions(ctx context.Context, req AccountTransactionsRequest) (models.AccountTransactionsPage, error) {
	const op = "LedgerService.AccountTransactions"

	if err := validateRequest(op, req); err != nil {
		return models.AccountTransactionsPage{}, err
	}
	page, limit := normalizePage(req.Page, req.Limit)
	start, end := monthWindow(req.Year, req.Month)

	repos := s.store.Repositories()
	account, err := repos.BankAccounts.FindByIdAndUser(ctx, req.BankAccountId, req.UserId)
	if err != nil {
		return models.AccountTransactionsPage{}, fail(op, missing(err, func(err error) *apperrors.Error {
			return apperrors.NewInternal(op, MsgAccountNotFound, err)
		}), zap.String("bank_account_id", req.BankAccountId))
	}

	transactions, total, err := repos.Transactions.FindManyByAccount(ctx, store.AccountTransactionsParams{
		BankAccountId: account.Id,
		Page:          page,
		Limit:         limit,
		Start:         start,
		End:           end,
	})
	if err != nil {
		return models.AccountTransactionsPage{}, fail(op, err, zap.String("bank_account_id", req.BankAccountId))
	}

	result := models.AccountTransactionsPage{
		Account:      models.NewBankAccountView(account),
		Transactions: make([]models.TransactionRecord, len(transactions)),
		Pagination: models.Pagination{
			Page:          page,
			Limit:         limit,
			Total:         total,
			HasMoreAfter:  page*limit < total,
			HasMoreBefore: page > 1,
		},
	}
	for i, transaction := range transactions {
		result.Transactions[i] = models.NewTransactionRecord(transaction)
	}
	return result, nil
}
