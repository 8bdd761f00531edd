package routing

import (
	"context"

	"github.com/google/uuid"
	"github.com/merchops/backend/internal/domain/shared"
)

// StatusCounts aggregates job counts used by the routing stats endpoint
type StatusCounts struct {
	Total    int64
	ByStatus map[RoutingStatus]int64
	Split    int64
}

// JobRepository defines the interface for manufacturing job persistence
type JobRepository interface {
	// FindByID finds a job with its line items
	FindByID(ctx context.Context, id uuid.UUID) (*ManufacturingJob, error)

	// FindByIDForUpdate finds a job with its line items while holding a row
	// lock on the job, serializing concurrent routing operations on it. Must
	// be called inside a transaction.
	FindByIDForUpdate(ctx context.Context, id uuid.UUID) (*ManufacturingJob, error)

	// FindByStatus finds jobs in the given routing status with their items
	FindByStatus(ctx context.Context, status RoutingStatus, filter shared.Filter) ([]ManufacturingJob, error)

	// Save creates or updates a job and its line items
	Save(ctx context.Context, job *ManufacturingJob) error

	// CountByStatus returns job totals per routing status plus the number of
	// split orders (jobs whose items span more than one manufacturer)
	CountByStatus(ctx context.Context) (*StatusCounts, error)
}

// HistoryRepository defines the interface for the append-only audit trail
type HistoryRepository interface {
	// Insert appends an audit record. Entries are never updated or deleted.
	Insert(ctx context.Context, entry *RoutingHistoryEntry) error

	// FindLatestByJob returns the most recent entry for a job
	FindLatestByJob(ctx context.Context, jobID uuid.UUID) (*RoutingHistoryEntry, error)

	// Search returns entries most recent first, optionally filtered by a
	// case-insensitive substring of the order number or manufacturer name
	Search(ctx context.Context, query string, filter shared.Filter) ([]RoutingHistoryEntry, error)

	// CountSearch counts the entries a Search with the same query would match
	CountSearch(ctx context.Context, query string) (int64, error)
}
