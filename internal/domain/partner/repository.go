package partner

import (
	"context"

	"github.com/google/uuid"
	"github.com/merchops/backend/internal/domain/shared"
)

// ManufacturerRepository defines the interface for manufacturer persistence
type ManufacturerRepository interface {
	// FindByID finds a manufacturer by ID
	FindByID(ctx context.Context, id uuid.UUID) (*Manufacturer, error)

	// FindByCode finds a manufacturer by its unique code
	FindByCode(ctx context.Context, code string) (*Manufacturer, error)

	// FindAll finds all manufacturers with filtering
	FindAll(ctx context.Context, filter shared.Filter) ([]Manufacturer, error)

	// FindEligible returns every manufacturer that is active and accepting
	// new orders. This is the candidate pool the routing matcher works from.
	FindEligible(ctx context.Context) ([]Manufacturer, error)

	// Save creates or updates a manufacturer
	Save(ctx context.Context, m *Manufacturer) error

	// Delete removes a manufacturer
	Delete(ctx context.Context, id uuid.UUID) error

	// Count counts manufacturers matching the filter
	Count(ctx context.Context, filter shared.Filter) (int64, error)

	// ExistsByCode checks whether a manufacturer code is already taken
	ExistsByCode(ctx context.Context, code string) (bool, error)
}
