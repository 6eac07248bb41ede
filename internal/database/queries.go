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

const (
	// User queries
	queryGetAllUsers = `
		SELECT id, name, email, password_hash, salt, created_at, updated_at
		FROM users
		ORDER BY created_at`

	queryInsertUser = `
		INSERT INTO users (id, name, email, password_hash, salt, created_at, updated_at)
		VALUES (?, ?, ?, ?, ?, ?, ?)`

	queryGetUserById = `
		SELECT id, name, email, password_hash, salt, created_at, updated_at
		FROM users
		WHERE id = ?`

	queryGetUserByEmail = `
		SELECT id, name, email, password_hash, salt, created_at, updated_at
		FROM users
		WHERE email = ?`

	queryUpdateUserPassword = `
		UPDATE users
		SET password_hash = ?, salt = ?, updated_at = ?
		WHERE id = ?`

	// Wallet queries
	queryGetWalletByUserId = `
		SELECT id, user_id, initial_balance, current_balance, version, created_at, updated_at
		FROM wallets
		WHERE user_id = ?`

	queryInsertWallet = `
		INSERT INTO wallets (id, user_id, initial_balance, current_balance, version, created_at, updated_at)
		VALUES (?, ?, ?, ?, 1, ?, ?)`

	queryUpdateWalletBalance = `
		UPDATE wallets
		SET current_balance = ?, version = version + 1, updated_at = ?
		WHERE id = ? AND version = ?`

	// Bank account queries
	bankAccountColumns = `
		b.id, b.wallet_id, b.bank_name, b.account_name, b.initial_balance, b.current_balance,
		b.version, b.created_at, b.updated_at, b.deleted_at`

	queryGetBankAccountById = `
		SELECT` + bankAccountColumns + `
		FROM bank_accounts b
		WHERE b.id = ?`

	queryGetBankAccountByIdAndUser = `
		SELECT` + bankAccountColumns + `
		FROM bank_accounts b
		JOIN wallets w ON w.id = b.wallet_id
		WHERE b.id = ? AND w.user_id = ?`

	queryGetBankAccountsByWalletId = `
		SELECT` + bankAccountColumns + `
		FROM bank_accounts b
		WHERE b.wallet_id = ?
		ORDER BY b.created_at, b.id`

	queryBankAccountBelongsToUser = `
		SELECT EXISTS (
			SELECT 1
			FROM bank_accounts b
			JOIN wallets w ON w.id = b.wallet_id
			WHERE b.id = ? AND w.user_id = ?
		)`

	queryInsertBankAccount = `
		INSERT INTO bank_accounts (
			id, wallet_id, bank_name, account_name, initial_balance, current_balance,
			version, created_at, updated_at, deleted_at
		) VALUES (?, ?, ?, ?, ?, ?, 1, ?, ?, ?)`

	queryUpdateBankAccount = `
		UPDATE bank_accounts
		SET bank_name = ?, account_name = ?, current_balance = ?, deleted_at = ?,
		    version = version + 1, updated_at = ?
		WHERE id = ? AND version = ?`

	// Category queries
	queryGetCategoryById = `
		SELECT id, user_id, name, color_code, created_at, updated_at, deleted_at
		FROM categories
		WHERE id = ? AND deleted_at IS NULL`

	queryGetCategoriesByUserId = `
		SELECT id, user_id, name, color_code, created_at, updated_at, deleted_at
		FROM categories
		WHERE user_id = ? AND deleted_at IS NULL
		ORDER BY name`

	queryUpsertCategory = `
		INSERT INTO categories (id, user_id, name, color_code, created_at, updated_at, deleted_at)
		VALUES (?, ?, ?, ?, ?, ?, ?)
		ON CONFLICT(id) DO UPDATE SET
			name = excluded.name,
			color_code = excluded.color_code,
			updated_at = excluded.updated_at,
			deleted_at = excluded.deleted_at`

	// Transaction queries
	transactionColumns = `
		t.id, t.bank_account_id, t.amount, t.type, t.description,
		t.created_at, t.updated_at, t.deleted_at,
		c.id, c.user_id, c.name, c.color_code, c.created_at, c.updated_at, c.deleted_at`

	queryGetTransactionById = `
		SELECT` + transactionColumns + `
		FROM transactions t
		JOIN categories c ON c.id = t.category_id
		WHERE t.id = ?`

	queryGetTransactionByIdAndUser = `
		SELECT` + transactionColumns + `
		FROM transactions t
		JOIN categories c ON c.id = t.category_id
		JOIN bank_accounts b ON b.id = t.bank_account_id
		JOIN wallets w ON w.id = b.wallet_id
		WHERE t.id = ? AND w.user_id = ?`

	queryTransactionBelongsToUser = `
		SELECT EXISTS (
			SELECT 1
			FROM transactions t
			JOIN bank_accounts b ON b.id = t.bank_account_id
			JOIN wallets w ON w.id = b.wallet_id
			WHERE t.id = ? AND w.user_id = ?
		)`

	queryGetTransactionsByAccount = `
		SELECT` + transactionColumns + `
		FROM transactions t
		JOIN categories c ON c.id = t.category_id
		WHERE t.bank_account_id = ? AND t.created_at >= ? AND t.created_at < ?
		ORDER BY t.created_at DESC, t.id DESC
		LIMIT ? OFFSET ?`

	queryCountTransactionsByAccount = `
		SELECT COUNT(*)
		FROM transactions t
		WHERE t.bank_account_id = ? AND t.created_at >= ? AND t.created_at < ?`

	queryGetTransactionsByUserBetween = `
		SELECT` + transactionColumns + `
		FROM transactions t
		JOIN categories c ON c.id = t.category_id
		JOIN bank_accounts b ON b.id = t.bank_account_id
		JOIN wallets w ON w.id = b.wallet_id
		WHERE w.user_id = ? AND t.created_at >= ? AND t.created_at < ?
		ORDER BY t.created_at DESC, t.id DESC
		LIMIT ?`

	queryTotalsByUserBetween = `
		SELECT
			COALESCE(SUM(CASE WHEN t.type = 'income' THEN t.amount ELSE 0 END), 0),
			COALESCE(SUM(CASE WHEN t.type = 'outcome' THEN t.amount ELSE 0 END), 0)
		FROM transactions t
		JOIN bank_accounts b ON b.id = t.bank_account_id
		JOIN wallets w ON w.id = b.wallet_id
		WHERE w.user_id = ? AND t.created_at >= ? AND t.created_at < ?`

	querySumEffectByAccount = `
		SELECT COALESCE(SUM(CASE WHEN type = 'income' THEN amount ELSE -amount END), 0)
		FROM transactions
		WHERE bank_account_id = ?`

	queryUpsertTransaction = `
		INSERT INTO transactions (
			id, bank_account_id, category_id, amount, type, description, created_at, updated_at, deleted_at
		) VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?)
		ON CONFLICT(id) DO UPDATE SET
			category_id = excluded.category_id,
			amount = excluded.amount,
			type = excluded.type,
			description = excluded.description,
			updated_at = excluded.updated_at,
			deleted_at = excluded.deleted_at`

	queryDeleteTransaction = `
		DELETE FROM transactions WHERE id = ?`

	// Reset token queries
	queryCountRecentResetAttempts = `
		SELECT COUNT(*)
		FROM reset_password_tokens
		WHERE user_id = ? AND invalidated_at IS NULL AND created_at >= ?`

	queryGetResetTokenByHash = `
		SELECT id, user_id, token_hash, created_at, updated_at, expires_at, used_at, invalidated_at
		FROM reset_password_tokens
		WHERE token_hash = ?`

	queryUpsertResetToken = `
		INSERT INTO reset_password_tokens (
			id, user_id, token_hash, created_at, updated_at, expires_at, used_at, invalidated_at
		) VALUES (?, ?, ?, ?, ?, ?, ?, ?)
		ON CONFLICT(id) DO UPDATE SET
			updated_at = excluded.updated_at,
			used_at = excluded.used_at,
			invalidated_at = excluded.invalidated_at`

	queryInvalidateActiveResetTokens = `
		UPDATE reset_password_tokens
		SET invalidated_at = ?, updated_at = ?
		WHERE user_id = ? AND invalidated_at IS NULL AND expires_at > ?`
)
