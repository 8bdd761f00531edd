package shared

import (
	"time"

	"github.com/google/uuid"
)

// BaseEntity carries the identity and timestamps every aggregate in this
// service embeds. Manufacturers and manufacturing jobs both build on it.
type BaseEntity struct {
	ID        uuid.UUID
	CreatedAt time.Time
	UpdatedAt time.Time
}

// NewBaseEntity mints a fresh identity with both timestamps set to now.
func NewBaseEntity() BaseEntity {
	now := time.Now()
	return BaseEntity{
		ID:        uuid.New(),
		CreatedAt: now,
		UpdatedAt: now,
	}
}

// Touch bumps the update timestamp. Entity methods call it after mutating
// state so UpdatedAt always reflects the last domain-level change.
func (e *BaseEntity) Touch() {
	e.UpdatedAt = time.Now()
}
