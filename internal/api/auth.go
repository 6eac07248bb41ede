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

package api

import (
	"context"
	"errors"
	"strings"
	"time"

	"wallet-ledger-go/internal/apperrors"
	"wallet-ledger-go/internal/email"
	"wallet-ledger-go/internal/models"
	"wallet-ledger-go/internal/money"
	"wallet-ledger-go/internal/security"
	"wallet-ledger-go/internal/store"

	"go.uber.org/zap"
)

const (
	MsgEmailSent          = "Email sent successfully"
	MsgPasswordUpdated    = "Password updated successfully."
	MsgTooManyAttempts    = "Too many attempts. Please try again later."
	MsgInvalidLink        = "Invalid link. Please make a new reset request."
	MsgLinkUsed           = "This link has already been used. Request a new one if necessary."
	MsgLinkExpired        = "This link has expired. Request a new reset link."
	MsgInvalidCredentials = "Invalid credentials. Please check your email and password."
	MsgEmailTaken         = "User with this email already exists"
)

// AuthService registers users, checks credentials and runs the
// reset-password token lifecycle.
type AuthService struct {
	store      store.LedgerStore
	sender     email.Sender
	cfg        models.AuthConfig
	ledger     models.LedgerConfig
	categories []models.CategorySeed
	now        func() time.Time
}

func NewAuthService(s store.LedgerStore, sender email.Sender, cfg models.AuthConfig, ledger models.LedgerConfig, categories []models.CategorySeed) *AuthService {
	return &AuthService{
		store:      s,
		sender:     sender,
		cfg:        cfg,
		ledger:     ledger,
		categories: categories,
		now:        time.Now,
	}
}

func normalizeEmail(address string) string {
	return strings.ToLower(strings.TrimSpace(address))
}

// CreateUser stores a user with a wallet and the default categories.
func (s *AuthService) CreateUser(ctx context.Context, req CreateUserRequest) (models.UserView, error) {
	const op = "AuthService.CreateUser"

	req.Email = normalizeEmail(req.Email)
	if err := validateRequest(op, req); err != nil {
		return models.UserView{}, err
	}
	if err := validatePassword(op, req.Password); err != nil {
		return models.UserView{}, err
	}

	balance := req.InitialBalance
	if balance == "" {
		balance = s.ledger.DefaultWalletBalance
	}
	initial, err := money.Parse(balance)
	if err != nil {
		return models.UserView{}, err
	}

	salt, err := security.NewSalt()
	if err != nil {
		return models.UserView{}, fail(op, err)
	}
	passwordHash, err := security.HashPassword(req.Password, salt)
	if err != nil {
		return models.UserView{}, fail(op, err)
	}

	var (
		user   *models.User
		wallet *models.Wallet
	)
	err = s.store.RunInTx(ctx, func(ctx context.Context, repos store.Repositories) error {
		now := s.now()
		user = models.NewUser(req.Name, req.Email, passwordHash, salt, now)
		if err := repos.Users.Save(ctx, user); err != nil {
			if errors.Is(err, store.ErrDuplicateEmail) {
				return apperrors.Wrap(apperrors.Conflict, op, MsgEmailTaken, err)
			}
			return err
		}

		wallet = models.NewWallet(user.Id, initial, now)
		if err := repos.Wallets.Save(ctx, wallet); err != nil {
			return err
		}

		for _, seed := range s.categories {
			if err := repos.Categories.Save(ctx, models.NewCategory(user.Id, seed.Name, seed.ColorCode, now)); err != nil {
				return err
			}
		}
		return nil
	})
	if err != nil {
		return models.UserView{}, fail(op, err, zap.String("email", req.Email))
	}

	zap.L().Info("User registered",
		zap.String("user_id", user.Id),
		zap.String("email", user.Email),
		zap.Int("categories", len(s.categories)))

	return models.UserView{
		Id:     user.Id,
		Name:   user.Name,
		Email:  user.Email,
		Wallet: models.NewWalletView(wallet),
	}, nil
}

// Authenticate checks an email and password pair.
func (s *AuthService) Authenticate(ctx context.Context, req AuthenticateRequest) (models.UserView, error) {
	const op = "AuthService.Authenticate"

	req.Email = normalizeEmail(req.Email)
	if err := validateRequest(op, req); err != nil {
		return models.UserView{}, err
	}

	repos := s.store.Repositories()
	user, err := repos.Users.FindByEmail(ctx, req.Email)
	if err != nil {
		return models.UserView{}, fail(op, missing(err, func(err error) *apperrors.Error {
			return apperrors.Wrap(apperrors.Unauthorized, op, MsgInvalidCredentials, err)
		}))
	}
	if !security.CheckPassword(req.Password, user.Salt, user.PasswordHash) {
		return models.UserView{}, apperrors.NewUnauthorized(op, MsgInvalidCredentials)
	}

	wallet, err := repos.Wallets.FindByUserId(ctx, user.Id)
	if err != nil {
		return models.UserView{}, fail(op, missing(err, func(err error) *apperrors.Error {
			return apperrors.NewInternal(op, MsgWalletNotFound, err)
		}), zap.String("user_id", user.Id))
	}

	return models.UserView{
		Id:     user.Id,
		Name:   user.Name,
		Email:  user.Email,
		Wallet: models.NewWalletView(wallet),
	}, nil
}

// RequestReset issues a reset token and mails it to the user. Unknown
// addresses get the same answer as known ones.
func (s *AuthService) RequestReset(ctx context.Context, address string) (models.MessageResult, error) {
	const op = "AuthService.RequestReset"

	address = normalizeEmail(address)
	if err := validate.Var(address, "required,email"); err != nil {
		return models.MessageResult{}, apperrors.Wrap(apperrors.Validation, op, MsgInvalidRequest+": email: Invalid email format", err)
	}

	user, err := s.store.Repositories().Users.FindByEmail(ctx, address)
	if errors.Is(err, store.ErrNotFound) {
		zap.L().Info("Password reset requested for unknown email")
		return models.MessageResult{Message: MsgEmailSent}, nil
	}
	if err != nil {
		return models.MessageResult{}, fail(op, err)
	}

	token, err := security.RandomHex(s.cfg.ResetTokenBytes)
	if err != nil {
		return models.MessageResult{}, fail(op, err, zap.String("user_id", user.Id))
	}
	body, err := email.ResetPasswordBody(user.Name, s.cfg.ResetURL, token, int(s.cfg.ResetTokenTTL.Minutes()))
	if err != nil {
		return models.MessageResult{}, fail(op, err, zap.String("user_id", user.Id))
	}

	// The token is committed before the email goes out so no write lock is
	// held during delivery. A failed send invalidates it again.
	var record *models.ResetToken
	err = s.store.RunInTx(ctx, func(ctx context.Context, repos store.Repositories) error {
		now := s.now()
		attempts, err := repos.ResetTokens.CountRecentAttempts(ctx, user.Id, now.Add(-s.cfg.ResetAttemptWindow))
		if err != nil {
			return err
		}
		if attempts >= s.cfg.MaxResetAttempts {
			return apperrors.New(apperrors.TooManyAttempts, op, MsgTooManyAttempts)
		}

		record = models.NewResetToken(user.Id, security.HashToken(token), s.cfg.ResetTokenTTL, now)
		return repos.ResetTokens.Save(ctx, record)
	})
	if err != nil {
		return models.MessageResult{}, fail(op, err, zap.String("user_id", user.Id))
	}

	sendErr := s.sender.SendEmail(ctx, email.Message{
		From:    s.cfg.EmailFrom,
		To:      user.Email,
		Subject: email.ResetPasswordSubject,
		Body:    body,
	})
	if sendErr != nil {
		s.discardResetToken(ctx, record)
		return models.MessageResult{}, fail(op, sendErr, zap.String("user_id", user.Id))
	}

	zap.L().Info("Password reset email sent", zap.String("user_id", user.Id))
	return models.MessageResult{Message: MsgEmailSent}, nil
}

// discardResetToken invalidates a token whose email never went out. It runs
// even when ctx is already cancelled, since that is a common send failure.
func (s *AuthService) discardResetToken(ctx context.Context, record *models.ResetToken) {
	ctx = context.WithoutCancel(ctx)
	err := s.store.RunInTx(ctx, func(ctx context.Context, repos store.Repositories) error {
		record.Invalidate(s.now())
		return repos.ResetTokens.Save(ctx, record)
	})
	if err != nil {
		zap.L().Error("Failed to invalidate undelivered reset token",
			zap.String("user_id", record.UserId),
			zap.String("token_id", record.Id),
			zap.Error(err))
	}
}

// ConsumeReset sets a new password using a reset token. The credential
// change, the token and every sibling token are updated in one unit.
func (s *AuthService) ConsumeReset(ctx context.Context, rawToken, newPassword string) (models.MessageResult, error) {
	const op = "AuthService.ConsumeReset"

	if err := validatePassword(op, newPassword); err != nil {
		return models.MessageResult{}, err
	}

	salt, err := security.NewSalt()
	if err != nil {
		return models.MessageResult{}, fail(op, err)
	}
	passwordHash, err := security.HashPassword(newPassword, salt)
	if err != nil {
		return models.MessageResult{}, fail(op, err)
	}
	tokenHash := security.HashToken(rawToken)

	var userId string
	err = s.store.RunInTx(ctx, func(ctx context.Context, repos store.Repositories) error {
		record, err := repos.ResetTokens.FindByTokenHash(ctx, tokenHash)
		if err != nil {
			return missing(err, func(err error) *apperrors.Error {
				return apperrors.Wrap(apperrors.BadRequest, op, MsgInvalidLink, err)
			})
		}

		now := s.now()
		if err := tokenError(op, record.Validate(now)); err != nil {
			return err
		}

		user, err := repos.Users.FindById(ctx, record.UserId)
		if err != nil {
			return missing(err, func(err error) *apperrors.Error {
				return apperrors.NewInternal(op, MsgUserNotFound, err)
			})
		}
		userId = user.Id

		user.ChangePassword(passwordHash, salt, now)
		if err := repos.Users.UpdatePassword(ctx, user); err != nil {
			return err
		}

		record.Consume(now)
		if err := repos.ResetTokens.Save(ctx, record); err != nil {
			return err
		}

		_, err = repos.ResetTokens.InvalidateActiveTokens(ctx, user.Id, now)
		return err
	})
	if err != nil {
		return models.MessageResult{}, fail(op, err)
	}

	zap.L().Info("Password updated via reset token", zap.String("user_id", userId))
	return models.MessageResult{Message: MsgPasswordUpdated}, nil
}

func tokenError(op string, err error) error {
	switch {
	case err == nil:
		return nil
	case errors.Is(err, models.ErrResetTokenUsed):
		return apperrors.Wrap(apperrors.BadRequest, op, MsgLinkUsed, err)
	case errors.Is(err, models.ErrResetTokenExpired):
		return apperrors.Wrap(apperrors.BadRequest, op, MsgLinkExpired, err)
	default:
		return apperrors.Wrap(apperrors.BadRequest, op, MsgInvalidLink, err)
	}
}
