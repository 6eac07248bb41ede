package store

import (
	"context"
	"errors"
	"time"

	"wallet-ledger-go/internal/models"
)

// Sentinel errors shared across all backend implementations.
var (
	ErrNotFound               = errors.New("record not found")
	ErrConcurrentModification = errors.New("concurrent modification detected")
	ErrDuplicateEmail         = errors.New("email already registered")
)

type UserRepository interface {
	FindById(ctx context.Context, id string) (*models.User, error)
	FindByEmail(ctx context.Context, email string) (*models.User, error)
	FindAll(ctx context.Context) ([]models.User, error)
	Save(ctx context.Context, user *models.User) error
	UpdatePassword(ctx context.Context, user *models.User) error
}

type WalletRepository interface {
	FindByUserId(ctx context.Context, userId string) (*models.Wallet, error)
	// Save inserts a new wallet or updates an existing one guarded by its version.
	Save(ctx context.Context, wallet *models.Wallet) error
}

type BankAccountRepository interface {
	FindById(ctx context.Context, id string) (*models.BankAccount, error)
	FindByIdAndUser(ctx context.Context, id, userId string) (*models.BankAccount, error)
	FindManyByWalletId(ctx context.Context, walletId string) ([]*models.BankAccount, error)
	BelongsToUser(ctx context.Context, id, userId string) (bool, error)
	Save(ctx context.Context, account *models.BankAccount) error
}

// AccountTransactionsParams selects one page of an account's history within [Start, End).
type AccountTransactionsParams struct {
	BankAccountId string
	Page          int
	Limit         int
	Start         time.Time
	End           time.Time
}

// PeriodTotals holds income and outcome sums in cents.
type PeriodTotals struct {
	IncomeCents  int64
	OutcomeCents int64
}

type TransactionRepository interface {
	FindById(ctx context.Context, id string) (*models.Transaction, error)
	FindByIdAndUser(ctx context.Context, id, userId string) (*models.Transaction, error)
	BelongsToUser(ctx context.Context, id, userId string) (bool, error)
	FindManyByAccount(ctx context.Context, params AccountTransactionsParams) ([]*models.Transaction, int, error)
	FindManyByUserBetween(ctx context.Context, userId string, start, end time.Time, limit int) ([]*models.Transaction, error)
	TotalsByUserBetween(ctx context.Context, userId string, start, end time.Time) (PeriodTotals, error)
	// SumEffectByAccount returns the signed sum of all transactions on the account.
	SumEffectByAccount(ctx context.Context, bankAccountId string) (int64, error)
	Save(ctx context.Context, transaction *models.Transaction) error
	Delete(ctx context.Context, id string) error
}

type CategoryRepository interface {
	FindById(ctx context.Context, id string) (*models.Category, error)
	FindManyByUserId(ctx context.Context, userId string) ([]*models.Category, error)
	Save(ctx context.Context, category *models.Category) error
}

type ResetTokenRepository interface {
	// CountRecentAttempts counts non-invalidated tokens created at or after since.
	CountRecentAttempts(ctx context.Context, userId string, since time.Time) (int, error)
	FindByTokenHash(ctx context.Context, tokenHash string) (*models.ResetToken, error)
	Save(ctx context.Context, token *models.ResetToken) error
	// InvalidateActiveTokens stamps every unexpired, non-invalidated token of the user.
	InvalidateActiveTokens(ctx context.Context, userId string, now time.Time) (int64, error)
}

// Repositories groups the repositories bound to one unit of work.
type Repositories struct {
	Users        UserRepository
	Wallets      WalletRepository
	BankAccounts BankAccountRepository
	Transactions TransactionRepository
	Categories   CategoryRepository
	ResetTokens  ResetTokenRepository
}

// LedgerStore defines the contract that every backend must satisfy.
type LedgerStore interface {
	// Repositories returns repositories that run each call on its own.
	Repositories() Repositories

	// RunInTx runs fn with repositories bound to a single transaction.
	// Any error returned by fn rolls back every write made through them.
	RunInTx(ctx context.Context, fn func(ctx context.Context, repos Repositories) error) error

	Ping(ctx context.Context) error
	Close()
}
