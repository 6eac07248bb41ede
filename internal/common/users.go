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

package common

import (
	"context"
	"fmt"
	"strings"

	"wallet-ledger-go/internal/store"

	"go.uber.org/zap"
)

// UserInfo represents simplified user information for command-line utilities
type UserInfo struct {
	Id    string
	Name  string
	Email string
}

// LookupUsers returns the user with emailFilter, or every user when the
// filter is empty.
func LookupUsers(ctx context.Context, ledgerStore store.LedgerStore, emailFilter string) ([]UserInfo, error) {
	users := ledgerStore.Repositories().Users

	if emailFilter != "" {
		address := strings.ToLower(strings.TrimSpace(emailFilter))
		zap.L().Info("Looking up user by email", zap.String("email", address))
		user, err := users.FindByEmail(ctx, address)
		if err != nil {
			return nil, fmt.Errorf("user not found: %w", err)
		}
		return []UserInfo{{Id: user.Id, Name: user.Name, Email: user.Email}}, nil
	}

	all, err := users.FindAll(ctx)
	if err != nil {
		return nil, fmt.Errorf("failed to get users: %w", err)
	}

	infos := make([]UserInfo, len(all))
	for i, u := range all {
		infos[i] = UserInfo{Id: u.Id, Name: u.Name, Email: u.Email}
	}

	zap.L().Info("Retrieved users", zap.Int("count", len(infos)))
	return infos, nil
}
