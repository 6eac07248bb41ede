package api

import (
	"context"
	"errors"
	"fmt"
	"math"
	"sync"
	"testing"
	"time"

	"wallet-ledger-go/internal/apperrors"
	"wallet-ledger-go/internal/database"
	"wallet-ledger-go/internal/models"
	"wallet-ledger-go/internal/money"
	"wallet-ledger-go/internal/store"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func strPtr(s string) *string { return &s }

func typePtr(t models.TransactionType) *models.TransactionType { return &t }

func TestLedger_RegisterCreateDeleteScenario(t *testing.T) {
	env := newTestEnv(t, true)
	ctx := context.Background()
	user := env.createUser(t, "ana@example.com")

	require.Equal(t, int64(0), env.walletCents(t, user.id))

	account, err := env.ledger.RegisterBankAccount(ctx, RegisterBankAccountRequest{
		UserId:      user.id,
		BankName:    "Nubank",
		AccountName: "Conta",
		Amount:      "100,00",
	})
	require.NoError(t, err)
	assert.Equal(t, "R$ 100,00", account.InitialBalance)
	assert.Equal(t, "R$ 100,00", account.CurrentBalance)
	assert.Equal(t, int64(10000), env.walletCents(t, user.id))

	env.createTransaction(t, user, account.Id, "50,00", models.TransactionTypeIncome)
	assert.Equal(t, int64(15000), env.accountCents(t, account.Id))
	assert.Equal(t, int64(15000), env.walletCents(t, user.id))

	outcomeId := env.createTransaction(t, user, account.Id, "30,00", models.TransactionTypeOutcome)
	assert.Equal(t, int64(12000), env.accountCents(t, account.Id))
	assert.Equal(t, int64(12000), env.walletCents(t, user.id))

	result, err := env.ledger.DeleteTransaction(ctx, user.id, outcomeId)
	require.NoError(t, err)
	assert.Equal(t, MsgTransactionDeleted, result.Message)

	overview, err := env.ledger.GetAccounts(ctx, user.id)
	require.NoError(t, err)
	assert.Equal(t, "R$ 150,00", overview.Wallet.CurrentBalance)
	require.Len(t, overview.Accounts, 1)
	assert.Equal(t, "R$ 150,00", overview.Accounts[0].CurrentBalance)

	env.requireWalletAgreement(t, user.id)
}

func TestRegisterBankAccount_InvalidAmountChangesNothing(t *testing.T) {
	env := newTestEnv(t, true)
	ctx := context.Background()
	user := env.createUser(t, "ana@example.com")

	_, err := env.ledger.RegisterBankAccount(ctx, RegisterBankAccountRequest{
		UserId:      user.id,
		BankName:    "Banco",
		AccountName: "Conta",
		Amount:      "10000",
	})
	requireKind(t, err, apperrors.InvalidFormat, "")

	overview, err := env.ledger.GetAccounts(ctx, user.id)
	require.NoError(t, err)
	assert.Empty(t, overview.Accounts)
	assert.Equal(t, "R$ 0,00", overview.Wallet.CurrentBalance)
}

func TestRegisterBankAccount_Rejections(t *testing.T) {
	env := newTestEnv(t, true)
	ctx := context.Background()

	_, err := env.ledger.RegisterBankAccount(ctx, RegisterBankAccountRequest{
		UserId:      "missing-user",
		BankName:    "Banco",
		AccountName: "Conta",
		Amount:      "1,00",
	})
	requireKind(t, err, apperrors.Internal, MsgWalletMissing)

	_, err = env.ledger.RegisterBankAccount(ctx, RegisterBankAccountRequest{
		UserId: "missing-user",
		Amount: "1,00",
	})
	requireKind(t, err, apperrors.Validation, "")
}

func TestUpdateTransaction_CompensatesBalances(t *testing.T) {
	const (
		opening   = int64(100000)
		oldAmount = "100,00"
		newAmount = "40,00"
	)

	income, outcome := models.TransactionTypeIncome, models.TransactionTypeOutcome
	combos := []struct {
		from, to models.TransactionType
		delta    int64
	}{
		{from: income, to: income, delta: 4000 - 10000},
		{from: income, to: outcome, delta: -4000 - 10000},
		{from: outcome, to: income, delta: 4000 + 10000},
		{from: outcome, to: outcome, delta: -4000 + 10000},
	}

	for _, adjust := range []bool{true, false} {
		for _, c := range combos {
			name := fmt.Sprintf("%s_to_%s_adjust_%t", c.from, c.to, adjust)
			t.Run(name, func(t *testing.T) {
				env := newTestEnv(t, adjust)
				ctx := context.Background()
				user := env.createUser(t, "ana@example.com")
				accountId := env.registerAccount(t, user.id, "1.000,00")

				txId := env.createTransaction(t, user, accountId, oldAmount, c.from)
				afterCreate := opening + c.from.Effect(money.MustParse(oldAmount))
				require.Equal(t, afterCreate, env.accountCents(t, accountId))
				require.Equal(t, afterCreate, env.walletCents(t, user.id))

				record, err := env.ledger.UpdateTransaction(ctx, UpdateTransactionRequest{
					UserId:        user.id,
					TransactionId: txId,
					Amount:        strPtr(newAmount),
					Type:          typePtr(c.to),
				})
				require.NoError(t, err)
				assert.Equal(t, c.to, record.Type)
				assert.Equal(t, "R$ 40,00", record.Amount)

				assert.Equal(t, afterCreate+c.delta, env.accountCents(t, accountId))
				if adjust {
					assert.Equal(t, afterCreate+c.delta, env.walletCents(t, user.id))
					env.requireWalletAgreement(t, user.id)
				} else {
					assert.Equal(t, afterCreate, env.walletCents(t, user.id), "wallet must not move when edits only adjust the account")
				}
			})
		}
	}
}

func TestUpdateTransaction_AmountOnlyAndTypeOnly(t *testing.T) {
	env := newTestEnv(t, true)
	ctx := context.Background()
	user := env.createUser(t, "ana@example.com")
	accountId := env.registerAccount(t, user.id, "100,00")
	txId := env.createTransaction(t, user, accountId, "50,00", models.TransactionTypeIncome)

	_, err := env.ledger.UpdateTransaction(ctx, UpdateTransactionRequest{
		UserId:        user.id,
		TransactionId: txId,
		Amount:        strPtr("20,00"),
	})
	require.NoError(t, err)
	assert.Equal(t, int64(12000), env.accountCents(t, accountId))

	record, err := env.ledger.UpdateTransaction(ctx, UpdateTransactionRequest{
		UserId:        user.id,
		TransactionId: txId,
		Type:          typePtr(models.TransactionTypeOutcome),
	})
	require.NoError(t, err)
	assert.Equal(t, models.TransactionTypeOutcome, record.Type)
	assert.Equal(t, "R$ 20,00", record.Amount)
	assert.Equal(t, int64(8000), env.accountCents(t, accountId))
	assert.Equal(t, int64(8000), env.walletCents(t, user.id))
	env.requireWalletAgreement(t, user.id)
}

func TestUpdateTransaction_MetadataLeavesBalances(t *testing.T) {
	env := newTestEnv(t, true)
	ctx := context.Background()
	user := env.createUser(t, "ana@example.com")
	other := env.createUser(t, "bia@example.com")
	accountId := env.registerAccount(t, user.id, "100,00")
	txId := env.createTransaction(t, user, accountId, "50,00", models.TransactionTypeIncome)

	record, err := env.ledger.UpdateTransaction(ctx, UpdateTransactionRequest{
		UserId:        user.id,
		TransactionId: txId,
		Description:   strPtr("Monthly pay"),
		CategoryId:    strPtr(user.salaryId),
	})
	require.NoError(t, err)
	assert.Equal(t, "Monthly pay", record.Description)
	assert.Equal(t, user.salaryId, record.Category.Id)
	assert.Equal(t, int64(15000), env.accountCents(t, accountId))
	assert.Equal(t, int64(15000), env.walletCents(t, user.id))

	// unknown and foreign categories keep the current one
	for _, categoryId := range []string{"no-such-category", other.foodId} {
		record, err = env.ledger.UpdateTransaction(ctx, UpdateTransactionRequest{
			UserId:        user.id,
			TransactionId: txId,
			CategoryId:    strPtr(categoryId),
		})
		require.NoError(t, err)
		assert.Equal(t, user.salaryId, record.Category.Id)
	}
}

func TestUpdateTransaction_Rejections(t *testing.T) {
	env := newTestEnv(t, true)
	ctx := context.Background()
	user := env.createUser(t, "ana@example.com")
	other := env.createUser(t, "bia@example.com")
	accountId := env.registerAccount(t, user.id, "100,00")
	txId := env.createTransaction(t, user, accountId, "50,00", models.TransactionTypeIncome)

	_, err := env.ledger.UpdateTransaction(ctx, UpdateTransactionRequest{
		UserId:        other.id,
		TransactionId: txId,
		Amount:        strPtr("1,00"),
	})
	requireKind(t, err, apperrors.Unauthorized, MsgTransactionNotOwned)

	_, err = env.ledger.UpdateTransaction(ctx, UpdateTransactionRequest{
		UserId:        user.id,
		TransactionId: "missing",
		Amount:        strPtr("1,00"),
	})
	requireKind(t, err, apperrors.Internal, apperrors.MsgResourceNotFound)

	_, err = env.ledger.UpdateTransaction(ctx, UpdateTransactionRequest{
		UserId:        user.id,
		TransactionId: txId,
		Amount:        strPtr("1.00"),
	})
	requireKind(t, err, apperrors.InvalidFormat, "")

	_, err = env.ledger.DisableBankAccount(ctx, user.id, accountId)
	require.NoError(t, err)

	_, err = env.ledger.UpdateTransaction(ctx, UpdateTransactionRequest{
		UserId:        user.id,
		TransactionId: txId,
		Amount:        strPtr("10,00"),
	})
	requireKind(t, err, apperrors.Unauthorized, MsgAccountDisabled)

	// description edits on a disabled account do not touch balances
	_, err = env.ledger.UpdateTransaction(ctx, UpdateTransactionRequest{
		UserId:        user.id,
		TransactionId: txId,
		Description:   strPtr("renamed"),
	})
	require.NoError(t, err)

	assert.Equal(t, int64(15000), env.accountCents(t, accountId))
	assert.Equal(t, int64(15000), env.walletCents(t, user.id))
}

func TestCreateTransaction_Rejections(t *testing.T) {
	env := newTestEnv(t, true)
	ctx := context.Background()
	user := env.createUser(t, "ana@example.com")
	other := env.createUser(t, "bia@example.com")
	accountId := env.registerAccount(t, user.id, "100,00")

	base := CreateTransactionRequest{
		UserId:        user.id,
		BankAccountId: accountId,
		CategoryId:    user.foodId,
		Amount:        "10,00",
		Type:          models.TransactionTypeOutcome,
	}

	req := base
	req.UserId = other.id
	req.CategoryId = other.foodId
	_, err := env.ledger.CreateTransaction(ctx, req)
	requireKind(t, err, apperrors.Internal, apperrors.MsgResourceNotFound)

	req = base
	req.CategoryId = other.foodId
	_, err = env.ledger.CreateTransaction(ctx, req)
	requireKind(t, err, apperrors.Internal, apperrors.MsgResourceNotFound)

	req = base
	req.Type = "transfer"
	_, err = env.ledger.CreateTransaction(ctx, req)
	requireKind(t, err, apperrors.Validation, "")

	req = base
	req.Amount = "10"
	_, err = env.ledger.CreateTransaction(ctx, req)
	requireKind(t, err, apperrors.InvalidFormat, "")

	_, err = env.ledger.DisableBankAccount(ctx, user.id, accountId)
	require.NoError(t, err)
	_, err = env.ledger.CreateTransaction(ctx, base)
	requireKind(t, err, apperrors.Unauthorized, MsgDisabledAccountTx)

	assert.Equal(t, int64(10000), env.accountCents(t, accountId))
	assert.Equal(t, int64(10000), env.walletCents(t, user.id))
	assert.Equal(t, int64(0), env.walletCents(t, other.id))
}

func TestCreateTransaction_AllowsNegativeBalance(t *testing.T) {
	env := newTestEnv(t, true)
	ctx := context.Background()
	user := env.createUser(t, "ana@example.com")
	accountId := env.registerAccount(t, user.id, "10,00")

	env.createTransaction(t, user, accountId, "25,00", models.TransactionTypeOutcome)

	overview, err := env.ledger.GetAccounts(ctx, user.id)
	require.NoError(t, err)
	require.Len(t, overview.Accounts, 1)
	assert.Equal(t, "-R$ 15,00", overview.Accounts[0].CurrentBalance)
	assert.Equal(t, "-R$ 15,00", overview.Wallet.CurrentBalance)
}

func TestCreateThenDelete_RestoresBalances(t *testing.T) {
	env := newTestEnv(t, true)
	ctx := context.Background()
	user := env.createUser(t, "ana@example.com")
	accountId := env.registerAccount(t, user.id, "1.234,56")

	cases := []struct {
		amount string
		txType models.TransactionType
	}{
		{"0,01", models.TransactionTypeIncome},
		{"999,99", models.TransactionTypeOutcome},
		{"12.345,67", models.TransactionTypeIncome},
		{"2.000,00", models.TransactionTypeOutcome},
	}
	for _, c := range cases {
		beforeAccount := env.accountCents(t, accountId)
		beforeWallet := env.walletCents(t, user.id)

		txId := env.createTransaction(t, user, accountId, c.amount, c.txType)
		_, err := env.ledger.DeleteTransaction(ctx, user.id, txId)
		require.NoError(t, err)

		assert.Equal(t, beforeAccount, env.accountCents(t, accountId), c.amount)
		assert.Equal(t, beforeWallet, env.walletCents(t, user.id), c.amount)
	}
	env.requireWalletAgreement(t, user.id)
}

func TestDeleteTransaction_Rejections(t *testing.T) {
	env := newTestEnv(t, true)
	ctx := context.Background()
	user := env.createUser(t, "ana@example.com")
	other := env.createUser(t, "bia@example.com")
	accountId := env.registerAccount(t, user.id, "100,00")
	txId := env.createTransaction(t, user, accountId, "30,00", models.TransactionTypeOutcome)

	_, err := env.ledger.DeleteTransaction(ctx, other.id, txId)
	requireKind(t, err, apperrors.Unauthorized, MsgTransactionNotOwned)

	_, err = env.ledger.DisableBankAccount(ctx, user.id, accountId)
	require.NoError(t, err)
	_, err = env.ledger.DeleteTransaction(ctx, user.id, txId)
	requireKind(t, err, apperrors.Unauthorized, MsgAccountDisabled)

	assert.Equal(t, int64(7000), env.accountCents(t, accountId))
	assert.Equal(t, int64(7000), env.walletCents(t, user.id))

	_, err = env.db.Repositories().Transactions.FindById(ctx, txId)
	require.NoError(t, err, "rejected delete must keep the transaction")
}

func TestDisableBankAccount(t *testing.T) {
	env := newTestEnv(t, true)
	ctx := context.Background()
	user := env.createUser(t, "ana@example.com")
	other := env.createUser(t, "bia@example.com")
	accountId := env.registerAccount(t, user.id, "100,00")

	_, err := env.ledger.DisableBankAccount(ctx, other.id, accountId)
	requireKind(t, err, apperrors.Unauthorized, MsgDisablePermission)

	_, err = env.ledger.DisableBankAccount(ctx, user.id, "missing")
	requireKind(t, err, apperrors.Internal, MsgUserOrAccountNotFound)

	result, err := env.ledger.DisableBankAccount(ctx, user.id, accountId)
	require.NoError(t, err)
	assert.Equal(t, MsgAccountDisabledOK, result.Message)

	overview, err := env.ledger.GetAccounts(ctx, user.id)
	require.NoError(t, err)
	require.Len(t, overview.Accounts, 1)
	assert.True(t, overview.Accounts[0].Disabled)
	assert.Equal(t, "R$ 100,00", overview.Accounts[0].CurrentBalance)
	assert.Equal(t, "R$ 100,00", overview.Wallet.CurrentBalance)

	_, err = env.ledger.UpdateBankAccount(ctx, UpdateBankAccountRequest{
		UserId:        user.id,
		BankAccountId: accountId,
		BankName:      strPtr("Other"),
	})
	requireKind(t, err, apperrors.Unauthorized, MsgAccountDisabled)
}

func TestUpdateBankAccount_Rename(t *testing.T) {
	env := newTestEnv(t, true)
	ctx := context.Background()
	user := env.createUser(t, "ana@example.com")
	other := env.createUser(t, "bia@example.com")
	accountId := env.registerAccount(t, user.id, "100,00")

	view, err := env.ledger.UpdateBankAccount(ctx, UpdateBankAccountRequest{
		UserId:        user.id,
		BankAccountId: accountId,
		BankName:      strPtr("  Itaú  "),
		AccountName:   strPtr(" "),
	})
	require.NoError(t, err)
	assert.Equal(t, "Itaú", view.BankName)
	assert.Equal(t, "Conta Corrente", view.AccountName)
	assert.Equal(t, "R$ 100,00", view.CurrentBalance)

	_, err = env.ledger.UpdateBankAccount(ctx, UpdateBankAccountRequest{
		UserId:        other.id,
		BankAccountId: accountId,
		BankName:      strPtr("Mine"),
	})
	requireKind(t, err, apperrors.Unauthorized, MsgUpdatePermission)
}

func TestAccountTransactions_Pagination(t *testing.T) {
	env := newTestEnv(t, true)
	ctx := context.Background()
	user := env.createUser(t, "ana@example.com")
	other := env.createUser(t, "bia@example.com")
	accountId := env.registerAccount(t, user.id, "100,00")

	for i := 0; i < 5; i++ {
		env.clock.Advance(time.Minute)
		env.createTransaction(t, user, accountId, "1,00", models.TransactionTypeIncome)
	}
	env.clock.Advance(30 * 24 * time.Hour)
	env.createTransaction(t, user, accountId, "1,00", models.TransactionTypeIncome)

	req := AccountTransactionsRequest{
		UserId:        user.id,
		BankAccountId: accountId,
		Page:          1,
		Limit:         2,
		Month:         6,
		Year:          2025,
	}
	page, err := env.ledger.AccountTransactions(ctx, req)
	require.NoError(t, err)
	assert.Len(t, page.Transactions, 2)
	assert.Equal(t, models.Pagination{Page: 1, Limit: 2, Total: 5, HasMoreAfter: true, HasMoreBefore: false}, page.Pagination)
	assert.True(t, !page.Transactions[0].CreatedAt.Before(page.Transactions[1].CreatedAt), "newest first")

	req.Page = 3
	page, err = env.ledger.AccountTransactions(ctx, req)
	require.NoError(t, err)
	assert.Len(t, page.Transactions, 1)
	assert.False(t, page.Pagination.HasMoreAfter)
	assert.True(t, page.Pagination.HasMoreBefore)

	req.Page, req.Limit = 0, 0
	page, err = env.ledger.AccountTransactions(ctx, req)
	require.NoError(t, err)
	assert.Equal(t, defaultPage, page.Pagination.Page)
	assert.Equal(t, defaultPageLimit, page.Pagination.Limit)
	assert.Len(t, page.Transactions, 5)

	req.Limit = 1000
	page, err = env.ledger.AccountTransactions(ctx, req)
	require.NoError(t, err)
	assert.Equal(t, maxPageLimit, page.Pagination.Limit)

	req.Month = 7
	page, err = env.ledger.AccountTransactions(ctx, req)
	require.NoError(t, err)
	assert.Equal(t, 1, page.Pagination.Total)

	req.Page, req.Limit = math.MaxInt64/10+7, maxPageLimit
	page, err = env.ledger.AccountTransactions(ctx, req)
	require.NoError(t, err)
	assert.Empty(t, page.Transactions)
	assert.Equal(t, maxPage, page.Pagination.Page)
	assert.False(t, page.Pagination.HasMoreAfter)
	assert.True(t, page.Pagination.HasMoreBefore)
	req.Page, req.Limit = 1, 2

	req.UserId = other.id
	_, err = env.ledger.AccountTransactions(ctx, req)
	requireKind(t, err, apperrors.Internal, MsgAccountNotFound)

	req.UserId, req.Month = user.id, 13
	_, err = env.ledger.AccountTransactions(ctx, req)
	requireKind(t, err, apperrors.Validation, "")
}

func TestNormalizePage(t *testing.T) {
	cases := []struct {
		page, limit         int
		wantPage, wantLimit int
	}{
		{0, 0, defaultPage, defaultPageLimit},
		{-3, -1, defaultPage, defaultPageLimit},
		{4, 500, 4, maxPageLimit},
		{math.MaxInt, maxPageLimit, maxPage, maxPageLimit},
	}
	for _, c := range cases {
		page, limit := normalizePage(c.page, c.limit)
		assert.Equal(t, c.wantPage, page, "page for %d", c.page)
		assert.Equal(t, c.wantLimit, limit, "limit for %d", c.limit)
		assert.LessOrEqual(t, page*limit, math.MaxInt32)
	}
}

func TestGetUserSummary(t *testing.T) {
	env := newTestEnv(t, true)
	ctx := context.Background()
	user := env.createUser(t, "ana@example.com")
	checking := env.registerAccount(t, user.id, "1.000,00")
	savings := env.registerAccount(t, user.id, "500,00")

	env.createTransaction(t, user, checking, "3.000,00", models.TransactionTypeIncome)
	env.createTransaction(t, user, checking, "250,50", models.TransactionTypeOutcome)
	env.createTransaction(t, user, savings, "49,50", models.TransactionTypeOutcome)

	_, err := env.ledger.DisableBankAccount(ctx, user.id, savings)
	require.NoError(t, err)

	env.clock.Advance(30 * 24 * time.Hour)
	env.createTransaction(t, user, checking, "1,00", models.TransactionTypeIncome)

	summary, err := env.ledger.GetUserSummary(ctx, UserSummaryRequest{UserId: user.id, Month: 6, Year: 2025})
	require.NoError(t, err)
	assert.Equal(t, "R$ 3.000,00", summary.TotalIncome)
	assert.Equal(t, "R$ 300,00", summary.TotalOutcome)
	assert.Equal(t, "R$ 4.201,00", summary.Balance)
	assert.Len(t, summary.Accounts, 2)
	require.Len(t, summary.LatestTransactions, 3)

	for _, record := range summary.LatestTransactions {
		assert.Equal(t, record.BankAccountId == savings, record.IsFromDisabledAccount)
	}

	_, err = env.ledger.GetUserSummary(ctx, UserSummaryRequest{UserId: "missing", Month: 6, Year: 2025})
	requireKind(t, err, apperrors.Internal, MsgWalletNotFound)
}

func TestReconcileWallet(t *testing.T) {
	t.Run("consistent", func(t *testing.T) {
		env := newTestEnv(t, true)
		ctx := context.Background()
		user := env.createUser(t, "ana@example.com")
		accountId := env.registerAccount(t, user.id, "100,00")
		txId := env.createTransaction(t, user, accountId, "50,00", models.TransactionTypeIncome)
		_, err := env.ledger.UpdateTransaction(ctx, UpdateTransactionRequest{
			UserId:        user.id,
			TransactionId: txId,
			Amount:        strPtr("70,00"),
			Type:          typePtr(models.TransactionTypeOutcome),
		})
		require.NoError(t, err)

		report, err := env.ledger.ReconcileWallet(ctx, user.id)
		require.NoError(t, err)
		assert.True(t, report.Consistent)
		assert.Equal(t, "R$ 30,00", report.Actual)
		require.Len(t, report.Accounts, 1)
		assert.True(t, report.Accounts[0].Consistent)
	})

	t.Run("wallet left behind by an edit", func(t *testing.T) {
		env := newTestEnv(t, false)
		ctx := context.Background()
		user := env.createUser(t, "ana@example.com")
		accountId := env.registerAccount(t, user.id, "100,00")
		txId := env.createTransaction(t, user, accountId, "50,00", models.TransactionTypeIncome)
		_, err := env.ledger.UpdateTransaction(ctx, UpdateTransactionRequest{
			UserId:        user.id,
			TransactionId: txId,
			Amount:        strPtr("20,00"),
		})
		require.NoError(t, err)

		report, err := env.ledger.ReconcileWallet(ctx, user.id)
		requireKind(t, err, apperrors.Internal, MsgBalanceMismatch)
		assert.False(t, report.Consistent)
		assert.Equal(t, "R$ 150,00", report.Actual)
		assert.Equal(t, "R$ 120,00", report.Expected)
		require.Len(t, report.Accounts, 1)
		assert.True(t, report.Accounts[0].Consistent)
	})
}

func TestCategories(t *testing.T) {
	env := newTestEnv(t, true)
	ctx := context.Background()
	user := env.createUser(t, "ana@example.com")
	other := env.createUser(t, "bia@example.com")

	created, err := env.ledger.CreateCategory(ctx, CreateCategoryRequest{UserId: user.id, Name: " Rent ", ColorCode: "#0000FF"})
	require.NoError(t, err)
	assert.Equal(t, "Rent", created.Name)

	_, err = env.ledger.CreateCategory(ctx, CreateCategoryRequest{UserId: user.id, Name: "Bad", ColorCode: "blue"})
	requireKind(t, err, apperrors.Validation, "")

	_, err = env.ledger.CreateCategory(ctx, CreateCategoryRequest{UserId: "missing", Name: "Rent", ColorCode: "#0000FF"})
	requireKind(t, err, apperrors.Internal, MsgUserNotFound)

	renamed, err := env.ledger.UpdateCategory(ctx, UpdateCategoryRequest{UserId: user.id, CategoryId: created.Id, Name: "Housing"})
	require.NoError(t, err)
	assert.Equal(t, "Housing", renamed.Name)
	assert.Equal(t, "#0000FF", renamed.ColorCode)

	_, err = env.ledger.UpdateCategory(ctx, UpdateCategoryRequest{UserId: other.id, CategoryId: created.Id, Name: "Stolen"})
	requireKind(t, err, apperrors.Unauthorized, MsgCategoryPermission)

	_, err = env.ledger.UpdateCategory(ctx, UpdateCategoryRequest{UserId: user.id, CategoryId: "missing", Name: "X"})
	requireKind(t, err, apperrors.NotFound, MsgCategoryNotFound)

	categories, err := env.ledger.ListCategories(ctx, user.id)
	require.NoError(t, err)
	assert.Len(t, categories, len(testCategories)+1)
}

func TestDeletedCategory_RejectedForNewTransactions(t *testing.T) {
	env := newTestEnv(t, true)
	ctx := context.Background()
	user := env.createUser(t, "ana@example.com")
	accountId := env.registerAccount(t, user.id, "100,00")
	txId := env.createTransaction(t, user, accountId, "10,00", models.TransactionTypeOutcome)

	repos := env.db.Repositories()
	salary, err := repos.Categories.FindById(ctx, user.salaryId)
	require.NoError(t, err)
	deletedAt := env.clock.Now()
	salary.DeletedAt = &deletedAt
	require.NoError(t, repos.Categories.Save(ctx, salary))

	_, err = env.ledger.CreateTransaction(ctx, CreateTransactionRequest{
		UserId:        user.id,
		BankAccountId: accountId,
		CategoryId:    user.salaryId,
		Amount:        "5,00",
		Type:          models.TransactionTypeIncome,
	})
	requireKind(t, err, apperrors.Internal, apperrors.MsgResourceNotFound)
	assert.Equal(t, int64(9000), env.accountCents(t, accountId))

	updated, err := env.ledger.UpdateTransaction(ctx, UpdateTransactionRequest{
		UserId:        user.id,
		TransactionId: txId,
		CategoryId:    strPtr(user.salaryId),
	})
	require.NoError(t, err)
	assert.Equal(t, user.foodId, updated.Category.Id)

	_, err = env.ledger.UpdateCategory(ctx, UpdateCategoryRequest{UserId: user.id, CategoryId: user.salaryId, Name: "Back"})
	requireKind(t, err, apperrors.NotFound, MsgCategoryNotFound)

	categories, err := env.ledger.ListCategories(ctx, user.id)
	require.NoError(t, err)
	assert.Len(t, categories, len(testCategories)-1)
	env.requireWalletAgreement(t, user.id)
}

func TestCreateTransaction_ConcurrentWrites(t *testing.T) {
	env := newTestEnv(t, true)
	ctx := context.Background()
	user := env.createUser(t, "ana@example.com")
	first := env.registerAccount(t, user.id, "100,00")
	second := env.registerAccount(t, user.id, "100,00")

	const writers = 8
	var wg sync.WaitGroup
	errs := make(chan error, writers)
	for i := 0; i < writers; i++ {
		accountId := first
		if i%2 == 1 {
			accountId = second
		}
		wg.Add(1)
		go func(accountId string) {
			defer wg.Done()
			_, err := env.ledger.CreateTransaction(ctx, CreateTransactionRequest{
				UserId:        user.id,
				BankAccountId: accountId,
				CategoryId:    user.foodId,
				Amount:        "1,00",
				Type:          models.TransactionTypeIncome,
			})
			errs <- err
		}(accountId)
	}
	wg.Wait()
	close(errs)

	for err := range errs {
		require.NoError(t, err)
	}

	assert.Equal(t, int64(10400), env.accountCents(t, first))
	assert.Equal(t, int64(10400), env.accountCents(t, second))
	assert.Equal(t, int64(20800), env.walletCents(t, user.id))
	env.requireWalletAgreement(t, user.id)
}

type failingWallets struct {
	store.WalletRepository
}

func (failingWallets) Save(context.Context, *models.Wallet) error {
	return errors.New("disk full")
}

// failingWalletStore makes every wallet write inside a unit of work fail.
type failingWalletStore struct {
	*database.Service
}

func (s failingWalletStore) RunInTx(ctx context.Context, fn func(ctx context.Context, repos store.Repositories) error) error {
	return s.Service.RunInTx(ctx, func(ctx context.Context, repos store.Repositories) error {
		repos.Wallets = failingWallets{repos.Wallets}
		return fn(ctx, repos)
	})
}

func TestCreateTransaction_RollsBackOnWalletFailure(t *testing.T) {
	env := newTestEnv(t, true)
	ctx := context.Background()
	user := env.createUser(t, "ana@example.com")
	accountId := env.registerAccount(t, user.id, "100,00")

	broken := NewLedgerService(failingWalletStore{env.db}, models.DefaultLedgerConfig())
	broken.now = env.clock.Now

	_, err := broken.CreateTransaction(ctx, CreateTransactionRequest{
		UserId:        user.id,
		BankAccountId: accountId,
		CategoryId:    user.foodId,
		Amount:        "50,00",
		Type:          models.TransactionTypeIncome,
	})
	requireKind(t, err, apperrors.Internal, "")

	assert.Equal(t, int64(10000), env.accountCents(t, accountId))
	assert.Equal(t, int64(10000), env.walletCents(t, user.id))

	page, err := env.ledger.AccountTransactions(ctx, AccountTransactionsRequest{
		UserId:        user.id,
		BankAccountId: accountId,
		Month:         6,
		Year:          2025,
	})
	require.NoError(t, err)
	assert.Zero(t, page.Pagination.Total)
}

func TestHealthCheck(t *testing.T) {
	env := newTestEnv(t, true)
	require.NoError(t, env.ledger.HealthCheck(context.Background()))
}
