package database

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"time"

	"wallet-ledger-go/internal/models"
	"wallet-ledger-go/internal/store"

	"go.uber.org/zap"
)

type resetTokenRepository struct {
	c *conn
}

func (r *resetTokenRepository) CountRecentAttempts(ctx context.Context, userId string, since time.Time) (int, error) {
	r.c.mu.Lock()
	defer r.c.mu.Unlock()

	var count int
	if err := r.c.q.QueryRowContext(ctx, queryCountRecentResetAttempts, userId, utc(since)).Scan(&count); err != nil {
		return 0, fmt.Errorf("failed to count reset attempts: %w", err)
	}
	return count, nil
}

func (r *resetTokenRepository) FindByTokenHash(ctx context.Context, tokenHash string) (*models.ResetToken, error) {
	r.c.mu.Lock()
	defer r.c.mu.Unlock()

	var (
		token         models.ResetToken
		usedAt        sql.NullTime
		invalidatedAt sql.NullTime
	)
	err := r.c.q.QueryRowContext(ctx, queryGetResetTokenByHash, tokenHash).Scan(
		&token.Id, &token.UserId, &token.TokenHash, &token.CreatedAt, &token.UpdatedAt,
		&token.ExpiresAt, &usedAt, &invalidatedAt)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, fmt.Errorf("reset token: %w", store.ErrNotFound)
	}
	if err != nil {
		return nil, fmt.Errorf("failed to get reset token: %w", err)
	}

	token.UsedAt = timePtr(usedAt)
	token.InvalidatedAt = timePtr(invalidatedAt)
	return &token, nil
}

func (r *resetTokenRepository) Save(ctx context.Context, token *models.ResetToken) error {
	r.c.mu.Lock()
	defer r.c.mu.Unlock()

	_, err := r.c.q.ExecContext(ctx, queryUpsertResetToken,
		token.Id, token.UserId, token.TokenHash, utc(token.CreatedAt), utc(token.UpdatedAt),
		utc(token.ExpiresAt), nullableTime(token.UsedAt), nullableTime(token.InvalidatedAt))
	if err != nil {
		return fmt.Errorf("failed to save reset token: %w", err)
	}
	return nil
}

func (r *resetTokenRepository) InvalidateActiveTokens(ctx context.Context, userId string, now time.Time) (int64, error) {
	r.c.mu.Lock()
	defer r.c.mu.Unlock()

	now = utc(now)
	result, err := r.c.q.ExecContext(ctx, queryInvalidateActiveResetTokens, now, now, userId, now)
	if err != nil {
		return 0, fmt.Errorf("failed to invalidate reset tokens: %w", err)
	}

	invalidated, err := result.RowsAffected()
	if err != nil {
		return 0, fmt.Errorf("failed to check rows affected: %w", err)
	}

	zap.L().Info("Invalidated active reset tokens",
		zap.String("user_id", userId),
		zap.Int64("count", invalidated))
	return invalidated, nil
}
