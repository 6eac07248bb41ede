package models

import (
	"time"

	"github.com/google/uuid"
)

// Entity carries the identity and audit timestamps shared by every aggregate.
type Entity struct {
	Id        string
	CreatedAt time.Time
	UpdatedAt time.Time
}

func NewEntity(now time.Time) Entity {
	now = now.UTC()
	return Entity{
		Id:        uuid.New().String(),
		CreatedAt: now,
		UpdatedAt: now,
	}
}

func (e *Entity) touch(now time.Time) {
	e.UpdatedAt = now.UTC()
}
