package database

import (
	"context"
	"database/sql"
	"errors"
	"fmt"

	"wallet-ledger-go/internal/models"
	"wallet-ledger-go/internal/money"
	"wallet-ledger-go/internal/store"

	"go.uber.org/zap"
)

type walletRepository struct {
	c *conn
}

func (r *walletRepository) FindByUserId(ctx context.Context, userId string) (*models.Wallet, error) {
	r.c.mu.Lock()
	defer r.c.mu.Unlock()

	var (
		entity           models.Entity
		walletUserId     string
		initial, current int64
		version          int64
	)
	err := r.c.q.QueryRowContext(ctx, queryGetWalletByUserId, userId).Scan(
		&entity.Id, &walletUserId, &initial, &current, &version, &entity.CreatedAt, &entity.UpdatedAt)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, fmt.Errorf("wallet for user %s: %w", userId, store.ErrNotFound)
	}
	if err != nil {
		zap.L().Error("Failed to get wallet", zap.String("user_id", userId), zap.Error(err))
		return nil, fmt.Errorf("failed to get wallet: %w", err)
	}

	return models.RestoreWallet(entity, walletUserId, money.New(initial), money.New(current), version), nil
}

// Save inserts a wallet that was never persisted, otherwise writes its
// current balance guarded by the version it was loaded with.
func (r *walletRepository) Save(ctx context.Context, wallet *models.Wallet) error {
	r.c.mu.Lock()
	defer r.c.mu.Unlock()

	if wallet.Version == 0 {
		_, err := r.c.q.ExecContext(ctx, queryInsertWallet,
			wallet.Id, wallet.UserId, wallet.InitialBalance().Cents(), wallet.CurrentBalance().Cents(),
			utc(wallet.CreatedAt), utc(wallet.UpdatedAt))
		if err != nil {
			return fmt.Errorf("failed to insert wallet: %w", err)
		}
		wallet.Version = 1
		return nil
	}

	result, err := r.c.q.ExecContext(ctx, queryUpdateWalletBalance,
		wallet.CurrentBalance().Cents(), utc(wallet.UpdatedAt), wallet.Id, wallet.Version)
	if err != nil {
		return fmt.Errorf("failed to update wallet balance: %w", err)
	}
	if err := checkVersionedUpdate(result, "wallet balance"); err != nil {
		return err
	}
	wallet.Version++

	zap.L().Debug("Wallet balance saved",
		zap.String("wallet_id", wallet.Id),
		zap.Int64("balance_cents", wallet.CurrentBalance().Cents()),
		zap.Int64("version", wallet.Version))
	return nil
}

type bankAccountRepository struct {
	c *conn
}

func scanBankAccount(row interface{ Scan(...any) error }) (*models.BankAccount, error) {
	var (
		entity                models.Entity
		walletId              string
		bankName, accountName string
		initial, current      int64
		version               int64
		deletedAt             sql.NullTime
	)
	err := row.Scan(&entity.Id, &walletId, &bankName, &accountName, &initial, &current,
		&version, &entity.CreatedAt, &entity.UpdatedAt, &deletedAt)
	if err != nil {
		return nil, err
	}
	return models.RestoreBankAccount(entity, walletId, bankName, accountName,
		money.New(initial), money.New(current), version, timePtr(deletedAt)), nil
}

func (r *bankAccountRepository) findOne(ctx context.Context, query string, args ...any) (*models.BankAccount, error) {
	r.c.mu.Lock()
	defer r.c.mu.Unlock()

	account, err := scanBankAccount(r.c.q.QueryRowContext(ctx, query, args...))
	if errors.Is(err, sql.ErrNoRows) {
		return nil, fmt.Errorf("bank account %v: %w", args[0], store.ErrNotFound)
	}
	if err != nil {
		return nil, fmt.Errorf("failed to get bank account: %w", err)
	}
	return account, nil
}

func (r *bankAccountRepository) FindById(ctx context.Context, id string) (*models.BankAccount, error) {
	return r.findOne(ctx, queryGetBankAccountById, id)
}

func (r *bankAccountRepository) FindByIdAndUser(ctx context.Context, id, userId string) (*models.BankAccount, error) {
	return r.findOne(ctx, queryGetBankAccountByIdAndUser, id, userId)
}

func (r *bankAccountRepository) FindManyByWalletId(ctx context.Context, walletId string) ([]*models.BankAccount, error) {
	r.c.mu.Lock()
	defer r.c.mu.Unlock()

	rows, err := r.c.q.QueryContext(ctx, queryGetBankAccountsByWalletId, walletId)
	if err != nil {
		zap.L().Error("Failed to get bank accounts", zap.String("wallet_id", walletId), zap.Error(err))
		return nil, fmt.Errorf("failed to get bank accounts: %w", err)
	}
	defer closeRows(rows)

	var accounts []*models.BankAccount
	for rows.Next() {
		account, err := scanBankAccount(rows)
		if err != nil {
			return nil, fmt.Errorf("failed to scan bank account: %w", err)
		}
		accounts = append(accounts, account)
	}

	// Check for errors during iteration
	if err := rows.Err(); err != nil {
		zap.L().Error("Error during bank account row iteration", zap.Error(err))
		return nil, fmt.Errorf("error iterating bank account rows: %w", err)
	}

	return accounts, nil
}

func (r *bankAccountRepository) BelongsToUser(ctx context.Context, id, userId string) (bool, error) {
	r.c.mu.Lock()
	defer r.c.mu.Unlock()

	var exists bool
	if err := r.c.q.QueryRowContext(ctx, queryBankAccountBelongsToUser, id, userId).Scan(&exists); err != nil {
		return false, fmt.Errorf("failed to check bank account ownership: %w", err)
	}
	return exists, nil
}

func (r *bankAccountRepository) Save(ctx context.Context, account *models.BankAccount) error {
	r.c.mu.Lock()
	defer r.c.mu.Unlock()

	if account.Version == 0 {
		_, err := r.c.q.ExecContext(ctx, queryInsertBankAccount,
			account.Id, account.WalletId, account.BankName, account.AccountName,
			account.InitialBalance().Cents(), account.CurrentBalance().Cents(),
			utc(account.CreatedAt), utc(account.UpdatedAt), nullableTime(account.DeletedAt))
		if err != nil {
			return fmt.Errorf("failed to insert bank account: %w", err)
		}
		account.Version = 1
		return nil
	}

	result, err := r.c.q.ExecContext(ctx, queryUpdateBankAccount,
		account.BankName, account.AccountName, account.CurrentBalance().Cents(), nullableTime(account.DeletedAt),
		utc(account.UpdatedAt), account.Id, account.Version)
	if err != nil {
		return fmt.Errorf("failed to update bank account: %w", err)
	}
	if err := checkVersionedUpdate(result, "bank account"); err != nil {
		return err
	}
	account.Version++

	zap.L().Debug("Bank account saved",
		zap.String("bank_account_id", account.Id),
		zap.Int64("balance_cents", account.CurrentBalance().Cents()),
		zap.Int64("version", account.Version))
	return nil
}
