package routing

import (
	"strings"
	"time"

	"github.com/google/uuid"
	"github.com/merchops/backend/internal/domain/shared"
	"github.com/shopspring/decimal"
)

// RoutingStatus classifies how a job got (or failed to get) its manufacturer
type RoutingStatus string

const (
	// RoutingStatusAuto means every line item matched without relaxation
	RoutingStatusAuto RoutingStatus = "auto"
	// RoutingStatusFallback means every line item matched but at least one
	// needed the relaxed (any eligible vendor) candidate set
	RoutingStatusFallback RoutingStatus = "fallback"
	// RoutingStatusManual means an administrator assigned the manufacturer
	RoutingStatusManual RoutingStatus = "manual"
	// RoutingStatusPending means at least one line item has no manufacturer
	RoutingStatusPending RoutingStatus = "pending"
)

// IsValid checks if the status is a valid RoutingStatus
func (s RoutingStatus) IsValid() bool {
	switch s {
	case RoutingStatusAuto, RoutingStatusFallback, RoutingStatusManual, RoutingStatusPending:
		return true
	}
	return false
}

// String returns the string representation of RoutingStatus
func (s RoutingStatus) String() string {
	return string(s)
}

// CanTransitionTo checks if the status can transition to the target status.
// Manual assignment is always allowed; a routed job never regresses to pending.
func (s RoutingStatus) CanTransitionTo(target RoutingStatus) bool {
	switch s {
	case RoutingStatusPending:
		// Re-route may resolve the job or leave it pending (audited no-op).
		return true
	case RoutingStatusAuto, RoutingStatusFallback:
		return target == RoutingStatusManual
	case RoutingStatusManual:
		// Idempotent re-assignment only.
		return target == RoutingStatusManual
	}
	return false
}

// JobLineItem is one product/quantity within a manufacturing job. Each line
// item is independently assignable, so siblings may end up at different
// manufacturers (a split order).
type JobLineItem struct {
	ID          uuid.UUID
	JobID       uuid.UUID
	ProductID   uuid.UUID
	ProductName string
	ProductCode string
	// Capabilities are the decoration techniques the product requires.
	// An empty set means any manufacturer can produce the item.
	Capabilities   []string
	Quantity       int
	UnitPrice      decimal.Decimal
	ManufacturerID *uuid.UUID
	RoutedTier     MatchTier
	CreatedAt      time.Time
	UpdatedAt      time.Time
}

// Unmatched reports whether the line item has no manufacturer assignment
func (i *JobLineItem) Unmatched() bool {
	return i.ManufacturerID == nil
}

// Assign sets the line item's manufacturer and the tier that produced it
func (i *JobLineItem) Assign(manufacturerID uuid.UUID, tier MatchTier) {
	id := manufacturerID
	i.ManufacturerID = &id
	i.RoutedTier = tier
	i.UpdatedAt = time.Now()
}

// ClearAssignment removes the line item's manufacturer assignment
func (i *JobLineItem) ClearAssignment() {
	i.ManufacturerID = nil
	i.RoutedTier = MatchTierUnmatched
	i.UpdatedAt = time.Now()
}

// ManufacturingJob is one production run derived from an order. It owns its
// line items; routing mutates the job and appends to the audit trail.
type ManufacturingJob struct {
	shared.BaseEntity
	OrderID     uuid.UUID
	OrderNumber string
	// Status and ManufacturerID must always agree with the job's most recent
	// RoutingHistoryEntry. ManufacturerID is nil exactly when Status is pending.
	Status         RoutingStatus
	Reason         string
	ManufacturerID *uuid.UUID
	Items          []JobLineItem
}

// NewManufacturingJob creates an unrouted job for the given order
func NewManufacturingJob(orderID uuid.UUID, orderNumber string) (*ManufacturingJob, error) {
	if orderID == uuid.Nil {
		return nil, shared.NewDomainError("INVALID_ORDER", "Order ID cannot be empty")
	}
	if strings.TrimSpace(orderNumber) == "" {
		return nil, shared.NewDomainError("INVALID_ORDER_NUMBER", "Order number cannot be empty")
	}
	return &ManufacturingJob{
		BaseEntity:  shared.NewBaseEntity(),
		OrderID:     orderID,
		OrderNumber: orderNumber,
		Status:      RoutingStatusPending,
		Items:       []JobLineItem{},
	}, nil
}

// AddItem appends a line item to the job
func (j *ManufacturingJob) AddItem(productID uuid.UUID, productName, productCode string, capabilities []string, quantity int, unitPrice decimal.Decimal) (*JobLineItem, error) {
	if productID == uuid.Nil {
		return nil, shared.NewDomainError("INVALID_PRODUCT", "Product ID cannot be empty")
	}
	if strings.TrimSpace(productName) == "" {
		return nil, shared.NewDomainError("INVALID_PRODUCT_NAME", "Product name cannot be empty")
	}
	if quantity < 1 {
		return nil, shared.NewDomainError("INVALID_QUANTITY", "Quantity must be positive")
	}
	if unitPrice.IsNegative() {
		return nil, shared.NewDomainError("INVALID_PRICE", "Unit price cannot be negative")
	}

	now := time.Now()
	item := JobLineItem{
		ID:           uuid.New(),
		JobID:        j.ID,
		ProductID:    productID,
		ProductName:  productName,
		ProductCode:  productCode,
		Capabilities: capabilities,
		Quantity:     quantity,
		UnitPrice:    unitPrice,
		RoutedTier:   MatchTierUnmatched,
		CreatedAt:    now,
		UpdatedAt:    now,
	}
	j.Items = append(j.Items, item)
	j.Touch()
	return &j.Items[len(j.Items)-1], nil
}

// UnmatchedItems returns the line items without a manufacturer assignment
func (j *ManufacturingJob) UnmatchedItems() []JobLineItem {
	var unmatched []JobLineItem
	for _, item := range j.Items {
		if item.Unmatched() {
			unmatched = append(unmatched, item)
		}
	}
	return unmatched
}

// DistinctManufacturers returns the distinct manufacturer IDs assigned across
// the job's line items
func (j *ManufacturingJob) DistinctManufacturers() []uuid.UUID {
	seen := make(map[uuid.UUID]bool)
	var ids []uuid.UUID
	for _, item := range j.Items {
		if item.ManufacturerID != nil && !seen[*item.ManufacturerID] {
			seen[*item.ManufacturerID] = true
			ids = append(ids, *item.ManufacturerID)
		}
	}
	return ids
}

// IsSplit reports whether the job's line items are spread across more than
// one manufacturer
func (j *ManufacturingJob) IsSplit() bool {
	return len(j.DistinctManufacturers()) > 1
}

// SetOutcome records a routing outcome on the job. The manufacturer reference
// must be nil exactly when the status is pending.
func (j *ManufacturingJob) SetOutcome(status RoutingStatus, manufacturerID *uuid.UUID, reason string) error {
	if !status.IsValid() {
		return shared.NewDomainError("INVALID_STATUS", "Unknown routing status")
	}
	if !j.Status.CanTransitionTo(status) {
		return shared.NewDomainError("INVALID_STATE", "Routing status cannot transition from "+j.Status.String()+" to "+status.String())
	}
	if (manufacturerID == nil) != (status == RoutingStatusPending) {
		return shared.NewDomainError("INVALID_STATE", "Manufacturer reference must be set exactly when the job is routed")
	}
	j.Status = status
	j.ManufacturerID = manufacturerID
	j.Reason = reason
	j.Touch()
	return nil
}

// AssignAll points every line item at the given manufacturer and marks the
// job manually routed. Manual override is allowed from any state.
func (j *ManufacturingJob) AssignAll(manufacturerID uuid.UUID, reason string) error {
	if strings.TrimSpace(reason) == "" {
		return shared.NewDomainError("INVALID_INPUT", "Manual assignment requires a reason")
	}
	for idx := range j.Items {
		j.Items[idx].Assign(manufacturerID, MatchTierManual)
	}
	return j.SetOutcome(RoutingStatusManual, &manufacturerID, reason)
}
