package database

import (
	"context"
	"database/sql"
	"fmt"
	"sync"
	"time"

	"wallet-ledger-go/internal/store"

	"go.uber.org/zap"
)

// queryer is satisfied by both *sql.DB and *sql.Tx.
type queryer interface {
	ExecContext(ctx context.Context, query string, args ...any) (sql.Result, error)
	QueryContext(ctx context.Context, query string, args ...any) (*sql.Rows, error)
	QueryRowContext(ctx context.Context, query string, args ...any) *sql.Row
}

type noopLocker struct{}

func (noopLocker) Lock()   {}
func (noopLocker) Unlock() {}

// conn is the handle every repository runs its statements through.
type conn struct {
	q  queryer
	mu sync.Locker
}

func newRepositories(c *conn) store.Repositories {
	return store.Repositories{
		Users:        &userRepository{c: c},
		Wallets:      &walletRepository{c: c},
		BankAccounts: &bankAccountRepository{c: c},
		Transactions: &transactionRepository{c: c},
		Categories:   &categoryRepository{c: c},
		ResetTokens:  &resetTokenRepository{c: c},
	}
}

func closeRows(rows *sql.Rows) {
	if err := rows.Close(); err != nil {
		zap.L().Warn("Failed to close rows", zap.Error(err))
	}
}

func utc(t time.Time) time.Time {
	return t.UTC()
}

func nullableTime(t *time.Time) any {
	if t == nil {
		return nil
	}
	return t.UTC()
}

func timePtr(t sql.NullTime) *time.Time {
	if !t.Valid {
		return nil
	}
	v := t.Time.UTC()
	return &v
}

// checkVersionedUpdate turns a zero-row optimistic update into ErrConcurrentModification.
func checkVersionedUpdate(result sql.Result, what string) error {
	rowsAffected, err := result.RowsAffected()
	if err != nil {
		return fmt.Errorf("failed to check rows affected for %s: %w", what, err)
	}
	if rowsAffected == 0 {
		return fmt.Errorf("%s update failed - %w", what, store.ErrConcurrentModification)
	}
	return nil
}
