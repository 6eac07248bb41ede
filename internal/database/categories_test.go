package database

import (
	"context"
	"errors"
	"testing"
	"time"

	"wallet-ledger-go/internal/models"
	"wallet-ledger-go/internal/money"
	"wallet-ledger-go/internal/store"
)

func TestCategoryFindById_SkipsDeleted(t *testing.T) {
	service, cleanup := setupTestDb(t)
	defer cleanup()

	ctx := context.Background()
	f := seedFixture(t, service, "categories@example.com", "50,00")
	repos := service.Repositories()

	now := time.Now()
	tx := models.NewTransaction(f.account.Id, money.MustParse("5,00"), models.TransactionTypeOutcome, "lunch", *f.category, now)
	if err := repos.Transactions.Save(ctx, tx); err != nil {
		t.Fatalf("Failed to save transaction: %v", err)
	}

	deletedAt := now.Add(time.Minute)
	f.category.DeletedAt = &deletedAt
	if err := repos.Categories.Save(ctx, f.category); err != nil {
		t.Fatalf("Failed to soft delete category: %v", err)
	}

	if _, err := repos.Categories.FindById(ctx, f.category.Id); !errors.Is(err, store.ErrNotFound) {
		t.Errorf("Expected ErrNotFound for a deleted category, got %v", err)
	}

	listed, err := repos.Categories.FindManyByUserId(ctx, f.user.Id)
	if err != nil {
		t.Fatalf("FindManyByUserId failed: %v", err)
	}
	if len(listed) != 0 {
		t.Errorf("Expected no live categories, got %d", len(listed))
	}

	found, err := repos.Transactions.FindById(ctx, tx.Id)
	if err != nil {
		t.Fatalf("FindById on transaction failed: %v", err)
	}
	if found.Category.Id != f.category.Id || found.Category.Name != "Food" {
		t.Errorf("Expected history to keep category Food, got %+v", found.Category)
	}
}
