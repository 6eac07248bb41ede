package models

import (
	"errors"
	"time"
)

type ResetTokenStatus string

const (
	ResetTokenActive      ResetTokenStatus = "active"
	ResetTokenUsed        ResetTokenStatus = "used"
	ResetTokenInvalidated ResetTokenStatus = "invalidated"
	ResetTokenExpired     ResetTokenStatus = "expired"
)

var (
	ErrResetTokenInvalid = errors.New("reset token invalid")
	ErrResetTokenUsed    = errors.New("reset token already used")
	ErrResetTokenExpired = errors.New("reset token expired")
)

// ResetToken stores only the SHA-256 hash of the token mailed to the user.
type ResetToken struct {
	Entity
	UserId        string
	TokenHash     string
	ExpiresAt     time.Time
	UsedAt        *time.Time
	InvalidatedAt *time.Time
}

func NewResetToken(userId, tokenHash string, ttl time.Duration, now time.Time) *ResetToken {
	entity := NewEntity(now)
	return &ResetToken{
		Entity:    entity,
		UserId:    userId,
		TokenHash: tokenHash,
		ExpiresAt: entity.CreatedAt.Add(ttl),
	}
}

// Status is computed at now; expiry is never stored as a transition.
// A consumed token carries both UsedAt and InvalidatedAt and reports Used.
func (r *ResetToken) Status(now time.Time) ResetTokenStatus {
	switch {
	case r.UsedAt != nil:
		return ResetTokenUsed
	case r.InvalidatedAt != nil:
		return ResetTokenInvalidated
	case now.After(r.ExpiresAt):
		return ResetTokenExpired
	default:
		return ResetTokenActive
	}
}

// Validate checks the token is consumable at now.
func (r *ResetToken) Validate(now time.Time) error {
	switch r.Status(now) {
	case ResetTokenUsed:
		return ErrResetTokenUsed
	case ResetTokenInvalidated:
		return ErrResetTokenInvalid
	case ResetTokenExpired:
		return ErrResetTokenExpired
	}
	return nil
}

// Consume marks the token used and invalidated in one step.
func (r *ResetToken) Consume(now time.Time) {
	ts := now.UTC()
	r.UsedAt = &ts
	r.InvalidatedAt = &ts
	r.touch(now)
}

// Invalidate retires the token without using it. An earlier invalidation
// timestamp is kept.
func (r *ResetToken) Invalidate(now time.Time) {
	if r.InvalidatedAt != nil {
		return
	}
	ts := now.UTC()
	r.InvalidatedAt = &ts
	r.touch(now)
}
