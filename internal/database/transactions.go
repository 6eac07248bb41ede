package database

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"time"

	"wallet-ledger-go/internal/models"
	"wallet-ledger-go/internal/money"
	"wallet-ledger-go/internal/store"

	"go.uber.org/zap"
)

type transactionRepository struct {
	c *conn
}

func scanTransaction(row interface{ Scan(...any) error }) (*models.Transaction, error) {
	var (
		tx                models.Transaction
		amount            int64
		txType            string
		txDeletedAt       sql.NullTime
		categoryDeletedAt sql.NullTime
	)
	err := row.Scan(&tx.Id, &tx.BankAccountId, &amount, &txType, &tx.Description,
		&tx.CreatedAt, &tx.UpdatedAt, &txDeletedAt,
		&tx.Category.Id, &tx.Category.UserId, &tx.Category.Name, &tx.Category.ColorCode,
		&tx.Category.CreatedAt, &tx.Category.UpdatedAt, &categoryDeletedAt)
	if err != nil {
		return nil, err
	}

	tx.Amount = money.New(amount)
	tx.Type = models.TransactionType(txType)
	tx.DeletedAt = timePtr(txDeletedAt)
	tx.Category.DeletedAt = timePtr(categoryDeletedAt)
	return &tx, nil
}

func (r *transactionRepository) findOne(ctx context.Context, query string, args ...any) (*models.Transaction, error) {
	r.c.mu.Lock()
	defer r.c.mu.Unlock()

	tx, err := scanTransaction(r.c.q.QueryRowContext(ctx, query, args...))
	if errors.Is(err, sql.ErrNoRows) {
		return nil, fmt.Errorf("transaction %v: %w", args[0], store.ErrNotFound)
	}
	if err != nil {
		return nil, fmt.Errorf("failed to get transaction: %w", err)
	}
	return tx, nil
}

func (r *transactionRepository) FindById(ctx context.Context, id string) (*models.Transaction, error) {
	return r.findOne(ctx, queryGetTransactionById, id)
}

func (r *transactionRepository) FindByIdAndUser(ctx context.Context, id, userId string) (*models.Transaction, error) {
	return r.findOne(ctx, queryGetTransactionByIdAndUser, id, userId)
}

func (r *transactionRepository) BelongsToUser(ctx context.Context, id, userId string) (bool, error) {
	r.c.mu.Lock()
	defer r.c.mu.Unlock()

	var exists bool
	if err := r.c.q.QueryRowContext(ctx, queryTransactionBelongsToUser, id, userId).Scan(&exists); err != nil {
		return false, fmt.Errorf("failed to check transaction ownership: %w", err)
	}
	return exists, nil
}

func (r *transactionRepository) queryMany(ctx context.Context, query string, args ...any) ([]*models.Transaction, error) {
	rows, err := r.c.q.QueryContext(ctx, query, args...)
	if err != nil {
		return nil, fmt.Errorf("failed to get transactions: %w", err)
	}
	defer closeRows(rows)

	transactions := []*models.Transaction{}
	for rows.Next() {
		tx, err := scanTransaction(rows)
		if err != nil {
			return nil, fmt.Errorf("failed to scan transaction: %w", err)
		}
		transactions = append(transactions, tx)
	}

	// Check for errors during iteration
	if err := rows.Err(); err != nil {
		zap.L().Error("Error during transaction row iteration", zap.Error(err))
		return nil, fmt.Errorf("error iterating transaction rows: %w", err)
	}

	return transactions, nil
}

// FindManyByAccount returns one page of the account's transactions, newest
// first, plus the number of transactions in the same window.
func (r *transactionRepository) FindManyByAccount(ctx context.Context, params store.AccountTransactionsParams) ([]*models.Transaction, int, error) {
	r.c.mu.Lock()
	defer r.c.mu.Unlock()

	zap.L().Debug("Getting account transactions",
		zap.String("bank_account_id", params.BankAccountId),
		zap.Int("page", params.Page),
		zap.Int("limit", params.Limit))

	start, end := utc(params.Start), utc(params.End)
	offset := (params.Page - 1) * params.Limit

	transactions, err := r.queryMany(ctx, queryGetTransactionsByAccount,
		params.BankAccountId, start, end, params.Limit, offset)
	if err != nil {
		return nil, 0, err
	}

	var total int
	err = r.c.q.QueryRowContext(ctx, queryCountTransactionsByAccount, params.BankAccountId, start, end).Scan(&total)
	if err != nil {
		return nil, 0, fmt.Errorf("failed to count transactions: %w", err)
	}

	return transactions, total, nil
}

func (r *transactionRepository) FindManyByUserBetween(ctx context.Context, userId string, start, end time.Time, limit int) ([]*models.Transaction, error) {
	r.c.mu.Lock()
	defer r.c.mu.Unlock()

	return r.queryMany(ctx, queryGetTransactionsByUserBetween, userId, utc(start), utc(end), limit)
}

func (r *transactionRepository) TotalsByUserBetween(ctx context.Context, userId string, start, end time.Time) (store.PeriodTotals, error) {
	r.c.mu.Lock()
	defer r.c.mu.Unlock()

	var totals store.PeriodTotals
	err := r.c.q.QueryRowContext(ctx, queryTotalsByUserBetween, userId, utc(start), utc(end)).
		Scan(&totals.IncomeCents, &totals.OutcomeCents)
	if err != nil {
		return store.PeriodTotals{}, fmt.Errorf("failed to total transactions: %w", err)
	}
	return totals, nil
}

func (r *transactionRepository) SumEffectByAccount(ctx context.Context, bankAccountId string) (int64, error) {
	r.c.mu.Lock()
	defer r.c.mu.Unlock()

	var sum int64
	if err := r.c.q.QueryRowContext(ctx, querySumEffectByAccount, bankAccountId).Scan(&sum); err != nil {
		return 0, fmt.Errorf("failed to calculate balance from transactions: %w", err)
	}
	return sum, nil
}

func (r *transactionRepository) Save(ctx context.Context, tx *models.Transaction) error {
	r.c.mu.Lock()
	defer r.c.mu.Unlock()

	_, err := r.c.q.ExecContext(ctx, queryUpsertTransaction,
		tx.Id, tx.BankAccountId, tx.Category.Id, tx.Amount.Cents(), string(tx.Type), tx.Description,
		utc(tx.CreatedAt), utc(tx.UpdatedAt), nullableTime(tx.DeletedAt))
	if err != nil {
		return fmt.Errorf("failed to save transaction: %w", err)
	}

	zap.L().Debug("Transaction saved",
		zap.String("transaction_id", tx.Id),
		zap.String("bank_account_id", tx.BankAccountId),
		zap.String("type", string(tx.Type)),
		zap.Int64("amount_cents", tx.Amount.Cents()))
	return nil
}

func (r *transactionRepository) Delete(ctx context.Context, id string) error {
	r.c.mu.Lock()
	defer r.c.mu.Unlock()

	result, err := r.c.q.ExecContext(ctx, queryDeleteTransaction, id)
	if err != nil {
		return fmt.Errorf("failed to delete transaction: %w", err)
	}

	rowsAffected, err := result.RowsAffected()
	if err != nil {
		return fmt.Errorf("failed to check rows affected: %w", err)
	}
	if rowsAffected == 0 {
		return fmt.Errorf("transaction %s: %w", id, store.ErrNotFound)
	}
	return nil
}
