/**
 * Copyright 2025-present Coinbase Global, Inc.
 *
 * Licensed under the Apache License, Version 2.0 (the "License");
 * you may not use this file except in compliance with the License.
 * You may obtain a copy of the License at
 *
 *  http://www.apache.org/licenses/LICENSE-2.0
 *
 * Unless required by applicable law or agreed to in writing, software
 * distributed under the License is distributed on an "AS IS" BASIS,
 * WITHOUT WARRANTIES OR CONDITIONS OF ANY KIND, either express or implied.
 * See the License for the specific language governing permissions and
 * limitations under the License.
 */

package database

import (
	"context"
	"database/sql"
	"errors"
	"fmt"

	"wallet-ledger-go/internal/models"
	"wallet-ledger-go/internal/store"

	"github.com/mattn/go-sqlite3"
	"go.uber.org/zap"
)

type userRepository struct {
	c *conn
}

func scanUser(row interface{ Scan(...any) error }) (*models.User, error) {
	var user models.User
	err := row.Scan(&user.Id, &user.Name, &user.Email, &user.PasswordHash, &user.Salt, &user.CreatedAt, &user.UpdatedAt)
	if err != nil {
		return nil, err
	}
	return &user, nil
}

func (r *userRepository) FindAll(ctx context.Context) ([]models.User, error) {
	r.c.mu.Lock()
	defer r.c.mu.Unlock()

	zap.L().Debug("Querying users")

	rows, err := r.c.q.QueryContext(ctx, queryGetAllUsers)
	if err != nil {
		zap.L().Error("Failed to query users", zap.Error(err))
		return nil, fmt.Errorf("unable to query users: %w", err)
	}
	defer closeRows(rows)

	var users []models.User
	for rows.Next() {
		user, err := scanUser(rows)
		if err != nil {
			zap.L().Error("Failed to scan user row", zap.Error(err))
			return nil, fmt.Errorf("unable to scan user row: %w", err)
		}
		users = append(users, *user)
	}

	// Check for errors during iteration
	if err := rows.Err(); err != nil {
		zap.L().Error("Error during user row iteration", zap.Error(err))
		return nil, fmt.Errorf("error iterating user rows: %w", err)
	}

	zap.L().Debug("Retrieved users", zap.Int("count", len(users)))
	return users, nil
}

func (r *userRepository) FindById(ctx context.Context, id string) (*models.User, error) {
	r.c.mu.Lock()
	defer r.c.mu.Unlock()

	user, err := scanUser(r.c.q.QueryRowContext(ctx, queryGetUserById, id))
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, fmt.Errorf("user %s: %w", id, store.ErrNotFound)
		}
		zap.L().Error("Failed to query user by ID", zap.String("user_id", id), zap.Error(err))
		return nil, fmt.Errorf("unable to query user by ID: %w", err)
	}
	return user, nil
}

func (r *userRepository) FindByEmail(ctx context.Context, email string) (*models.User, error) {
	r.c.mu.Lock()
	defer r.c.mu.Unlock()

	user, err := scanUser(r.c.q.QueryRowContext(ctx, queryGetUserByEmail, email))
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, fmt.Errorf("user %s: %w", email, store.ErrNotFound)
		}
		zap.L().Error("Failed to query user by email", zap.String("email", email), zap.Error(err))
		return nil, fmt.Errorf("unable to query user by email: %w", err)
	}
	return user, nil
}

func (r *userRepository) Save(ctx context.Context, user *models.User) error {
	r.c.mu.Lock()
	defer r.c.mu.Unlock()

	_, err := r.c.q.ExecContext(ctx, queryInsertUser,
		user.Id, user.Name, user.Email, user.PasswordHash, user.Salt, utc(user.CreatedAt), utc(user.UpdatedAt))
	if err != nil {
		if isUniqueViolation(err) {
			return fmt.Errorf("user with email %s: %w", user.Email, store.ErrDuplicateEmail)
		}
		zap.L().Error("Failed to insert user", zap.String("email", user.Email), zap.Error(err))
		return fmt.Errorf("unable to insert user: %w", err)
	}

	zap.L().Info("User created", zap.String("id", user.Id), zap.String("email", user.Email))
	return nil
}

func (r *userRepository) UpdatePassword(ctx context.Context, user *models.User) error {
	r.c.mu.Lock()
	defer r.c.mu.Unlock()

	result, err := r.c.q.ExecContext(ctx, queryUpdateUserPassword, user.PasswordHash, user.Salt, utc(user.UpdatedAt), user.Id)
	if err != nil {
		return fmt.Errorf("unable to update password: %w", err)
	}

	rowsAffected, err := result.RowsAffected()
	if err != nil {
		return fmt.Errorf("unable to get rows affected: %w", err)
	}
	if rowsAffected == 0 {
		return fmt.Errorf("user %s: %w", user.Id, store.ErrNotFound)
	}
	return nil
}

func isUniqueViolation(err error) bool {
	var sqliteErr sqlite3.Error
	return errors.As(err, &sqliteErr) && sqliteErr.ExtendedCode == sqlite3.ErrConstraintUnique
}
