package routing

import (
	"time"

	"github.com/google/uuid"
)

// RoutingHistoryEntry is an append-only audit record of one routing attempt.
// Entries are never mutated or deleted. The order number and manufacturer
// name are denormalized so the history list can be searched without joins.
type RoutingHistoryEntry struct {
	ID               uuid.UUID
	JobID            uuid.UUID
	OrderID          uuid.UUID
	OrderNumber      string
	ManufacturerID   *uuid.UUID
	ManufacturerName string
	RoutedBy         RoutingStatus
	Reason           string
	CreatedAt        time.Time
}

// NewHistoryEntry builds an audit record for the job's current routing state.
// manufacturerName may be empty when the job is pending.
func NewHistoryEntry(job *ManufacturingJob, manufacturerName string) *RoutingHistoryEntry {
	return &RoutingHistoryEntry{
		ID:               uuid.New(),
		JobID:            job.ID,
		OrderID:          job.OrderID,
		OrderNumber:      job.OrderNumber,
		ManufacturerID:   job.ManufacturerID,
		ManufacturerName: manufacturerName,
		RoutedBy:         job.Status,
		Reason:           job.Reason,
		CreatedAt:        time.Now(),
	}
}

// Matches reports whether the job's current routing fields agree with this
// entry. A disagreement on the latest entry is a consistency violation.
func (e *RoutingHistoryEntry) Matches(job *ManufacturingJob) bool {
	if e.RoutedBy != job.Status {
		return false
	}
	if (e.ManufacturerID == nil) != (job.ManufacturerID == nil) {
		return false
	}
	if e.ManufacturerID != nil && *e.ManufacturerID != *job.ManufacturerID {
		return false
	}
	return true
}
