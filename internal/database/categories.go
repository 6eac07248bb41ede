package database

import (
	"context"
	"database/sql"
	"errors"
	"fmt"

	"wallet-ledger-go/internal/models"
	"wallet-ledger-go/internal/store"

	"go.uber.org/zap"
)

type categoryRepository struct {
	c *conn
}

func scanCategory(row interface{ Scan(...any) error }) (*models.Category, error) {
	var (
		category  models.Category
		deletedAt sql.NullTime
	)
	err := row.Scan(&category.Id, &category.UserId, &category.Name, &category.ColorCode,
		&category.CreatedAt, &category.UpdatedAt, &deletedAt)
	if err != nil {
		return nil, err
	}
	category.DeletedAt = timePtr(deletedAt)
	return &category, nil
}

func (r *categoryRepository) FindById(ctx context.Context, id string) (*models.Category, error) {
	r.c.mu.Lock()
	defer r.c.mu.Unlock()

	category, err := scanCategory(r.c.q.QueryRowContext(ctx, queryGetCategoryById, id))
	if errors.Is(err, sql.ErrNoRows) {
		return nil, fmt.Errorf("category %s: %w", id, store.ErrNotFound)
	}
	if err != nil {
		return nil, fmt.Errorf("failed to get category: %w", err)
	}
	return category, nil
}

func (r *categoryRepository) FindManyByUserId(ctx context.Context, userId string) ([]*models.Category, error) {
	r.c.mu.Lock()
	defer r.c.mu.Unlock()

	rows, err := r.c.q.QueryContext(ctx, queryGetCategoriesByUserId, userId)
	if err != nil {
		zap.L().Error("Failed to get categories", zap.String("user_id", userId), zap.Error(err))
		return nil, fmt.Errorf("failed to get categories: %w", err)
	}
	defer closeRows(rows)

	categories := []*models.Category{}
	for rows.Next() {
		category, err := scanCategory(rows)
		if err != nil {
			return nil, fmt.Errorf("failed to scan category: %w", err)
		}
		categories = append(categories, category)
	}

	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("error iterating category rows: %w", err)
	}
	return categories, nil
}

func (r *categoryRepository) Save(ctx context.Context, category *models.Category) error {
	r.c.mu.Lock()
	defer r.c.mu.Unlock()

	_, err := r.c.q.ExecContext(ctx, queryUpsertCategory,
		category.Id, category.UserId, category.Name, category.ColorCode,
		utc(category.CreatedAt), utc(category.UpdatedAt), nullableTime(category.DeletedAt))
	if err != nil {
		return fmt.Errorf("failed to save category: %w", err)
	}
	return nil
}
