package api

import (
	"context"
	"path/filepath"
	"strings"
	"sync"
	"testing"
	"time"

	"wallet-ledger-go/internal/apperrors"
	"wallet-ledger-go/internal/database"
	"wallet-ledger-go/internal/email"
	"wallet-ledger-go/internal/models"

	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"
)

// MockSender implements email.Sender
type MockSender struct {
	mock.Mock
}

func (m *MockSender) SendEmail(ctx context.Context, msg email.Message) error {
	args := m.Called(ctx, msg)
	return args.Error(0)
}

type testClock struct {
	mu  sync.Mutex
	now time.Time
}

func newTestClock() *testClock {
	return &testClock{now: time.Date(2025, time.June, 15, 12, 0, 0, 0, time.UTC)}
}

func (c *testClock) Now() time.Time {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.now
}

func (c *testClock) Advance(d time.Duration) {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.now = c.now.Add(d)
}

var testCategories = []models.CategorySeed{
	{Name: "Food", ColorCode: "#FF0000"},
	{Name: "Salary", ColorCode: "#00FF00"},
}

type testEnv struct {
	db     *database.Service
	ledger *LedgerService
	auth   *AuthService
	sender *MockSender
	clock  *testClock
}

func newTestEnv(t *testing.T, adjustWallet bool) *testEnv {
	t.Helper()

	db, err := database.NewService(context.Background(), models.DatabaseConfig{
		Path:            filepath.Join(t.TempDir(), "api_test.db"),
		MaxOpenConns:    4,
		MaxIdleConns:    2,
		ConnMaxLifetime: time.Minute,
		ConnMaxIdleTime: 30 * time.Second,
		PingTimeout:     5 * time.Second,
		BusyTimeout:     10 * time.Second,
		MaxTxRetries:    5,
	})
	require.NoError(t, err)
	t.Cleanup(db.Close)

	ledgerCfg := models.DefaultLedgerConfig()
	ledgerCfg.UpdateAdjustsWallet = adjustWallet

	clock := newTestClock()
	sender := &MockSender{}

	ledger := NewLedgerService(db, ledgerCfg)
	ledger.now = clock.Now
	auth := NewAuthService(db, sender, models.DefaultAuthConfig(), ledgerCfg, testCategories)
	auth.now = clock.Now

	return &testEnv{db: db, ledger: ledger, auth: auth, sender: sender, clock: clock}
}

type testUser struct {
	id       string
	email    string
	foodId   string
	salaryId string
}

func (e *testEnv) createUser(t *testing.T, address string) testUser {
	t.Helper()
	ctx := context.Background()

	user, err := e.auth.CreateUser(ctx, CreateUserRequest{Name: "Test User", Email: address, Password: "secret123"})
	require.NoError(t, err)

	categories, err := e.ledger.ListCategories(ctx, user.Id)
	require.NoError(t, err)
	require.Len(t, categories, len(testCategories))

	u := testUser{id: user.Id, email: user.Email}
	for _, category := range categories {
		switch category.Name {
		case "Food":
			u.foodId = category.Id
		case "Salary":
			u.salaryId = category.Id
		}
	}
	return u
}

func (e *testEnv) registerAccount(t *testing.T, userId, amount string) string {
	t.Helper()

	account, err := e.ledger.RegisterBankAccount(context.Background(), RegisterBankAccountRequest{
		UserId:      userId,
		BankName:    "Banco",
		AccountName: "Conta Corrente",
		Amount:      amount,
	})
	require.NoError(t, err)
	return account.Id
}

func (e *testEnv) createTransaction(t *testing.T, user testUser, accountId, amount string, txType models.TransactionType) string {
	t.Helper()

	record, err := e.ledger.CreateTransaction(context.Background(), CreateTransactionRequest{
		UserId:        user.id,
		BankAccountId: accountId,
		CategoryId:    user.foodId,
		Amount:        amount,
		Type:          txType,
		Description:   "test",
	})
	require.NoError(t, err)
	return record.Id
}

func (e *testEnv) walletCents(t *testing.T, userId string) int64 {
	t.Helper()

	wallet, err := e.db.Repositories().Wallets.FindByUserId(context.Background(), userId)
	require.NoError(t, err)
	return wallet.CurrentBalance().Cents()
}

func (e *testEnv) accountCents(t *testing.T, accountId string) int64 {
	t.Helper()

	account, err := e.db.Repositories().BankAccounts.FindById(context.Background(), accountId)
	require.NoError(t, err)
	return account.CurrentBalance().Cents()
}

// requireWalletAgreement checks wallet.current == wallet.initial + Σ account.current.
func (e *testEnv) requireWalletAgreement(t *testing.T, userId string) {
	t.Helper()
	ctx := context.Background()
	repos := e.db.Repositories()

	wallet, err := repos.Wallets.FindByUserId(ctx, userId)
	require.NoError(t, err)
	accounts, err := repos.BankAccounts.FindManyByWalletId(ctx, wallet.Id)
	require.NoError(t, err)

	expected := wallet.InitialBalance().Cents()
	for _, account := range accounts {
		expected += account.CurrentBalance().Cents()
	}
	require.Equal(t, expected, wallet.CurrentBalance().Cents(), "wallet must equal its initial balance plus every account balance")
}

func requireKind(t *testing.T, err error, kind apperrors.Kind, message string) {
	t.Helper()

	require.Error(t, err)
	require.Equal(t, kind, apperrors.KindOf(err), "unexpected kind for %v", err)
	if message != "" {
		require.Equal(t, message, apperrors.MessageOf(err))
	}
}

// tokenFromBody pulls the raw reset token out of a rendered reset email.
func tokenFromBody(t *testing.T, body string) string {
	t.Helper()

	idx := strings.Index(body, "token=")
	require.GreaterOrEqual(t, idx, 0, "reset email must carry a token")
	token := body[idx+len("token="):]
	if end := strings.IndexAny(token, " \n&"); end >= 0 {
		token = token[:end]
	}
	return token
}
