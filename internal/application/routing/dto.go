package routing

import (
	"time"

	"github.com/google/uuid"
	"github.com/merchops/backend/internal/domain/routing"
	"github.com/shopspring/decimal"
)

// CreateJobItem is one line item in a job creation request
type CreateJobItem struct {
	ProductID    uuid.UUID
	ProductName  string
	ProductCode  string
	Capabilities []string
	Quantity     int
	UnitPrice    decimal.Decimal
}

// CreateJobRequest creates a manufacturing job from an order and routes it
type CreateJobRequest struct {
	OrderID     uuid.UUID
	OrderNumber string
	Items       []CreateJobItem
}

// AssignRequest is a manual manufacturer assignment by an administrator
type AssignRequest struct {
	JobID          uuid.UUID
	ManufacturerID uuid.UUID
	Reason         string
	// Override allows assigning to a manufacturer that is inactive or not
	// accepting new orders.
	Override bool
}

// LineItemResponse is the API representation of a job line item
type LineItemResponse struct {
	ID             uuid.UUID       `json:"id"`
	ProductID      uuid.UUID       `json:"product_id"`
	ProductName    string          `json:"product_name"`
	ProductCode    string          `json:"product_code"`
	Capabilities   []string        `json:"capabilities"`
	Quantity       int             `json:"quantity"`
	UnitPrice      decimal.Decimal `json:"unit_price"`
	ManufacturerID *uuid.UUID      `json:"manufacturer_id"`
	RoutedTier     string          `json:"routed_tier"`
}

// JobResponse is the API representation of a manufacturing job
type JobResponse struct {
	ID             uuid.UUID          `json:"id"`
	OrderID        uuid.UUID          `json:"order_id"`
	OrderNumber    string             `json:"order_number"`
	Status         string             `json:"status"`
	Reason         string             `json:"reason"`
	ManufacturerID *uuid.UUID         `json:"manufacturer_id"`
	Split          bool               `json:"split"`
	Items          []LineItemResponse `json:"items"`
	CreatedAt      time.Time          `json:"created_at"`
	UpdatedAt      time.Time          `json:"updated_at"`
}

// PendingJobResponse is a pending job with only its unmatched line items
type PendingJobResponse struct {
	ID             uuid.UUID          `json:"id"`
	OrderID        uuid.UUID          `json:"order_id"`
	OrderNumber    string             `json:"order_number"`
	Reason         string             `json:"reason"`
	UnmatchedItems []LineItemResponse `json:"unmatched_items"`
	CreatedAt      time.Time          `json:"created_at"`
}

// HistoryEntryResponse is the API representation of an audit record
type HistoryEntryResponse struct {
	ID               uuid.UUID  `json:"id"`
	JobID            uuid.UUID  `json:"job_id"`
	OrderID          uuid.UUID  `json:"order_id"`
	OrderNumber      string     `json:"order_number"`
	ManufacturerID   *uuid.UUID `json:"manufacturer_id"`
	ManufacturerName string     `json:"manufacturer_name"`
	RoutedBy         string     `json:"routed_by"`
	Reason           string     `json:"reason"`
	CreatedAt        time.Time  `json:"created_at"`
}

// StatsResponse aggregates routing counts over the current job table
type StatsResponse struct {
	TotalJobs   int64 `json:"total_jobs"`
	Auto        int64 `json:"auto"`
	Fallback    int64 `json:"fallback"`
	Manual      int64 `json:"manual"`
	Pending     int64 `json:"pending"`
	SplitOrders int64 `json:"split_orders"`
}

func toLineItemResponse(item routing.JobLineItem) LineItemResponse {
	return LineItemResponse{
		ID:             item.ID,
		ProductID:      item.ProductID,
		ProductName:    item.ProductName,
		ProductCode:    item.ProductCode,
		Capabilities:   item.Capabilities,
		Quantity:       item.Quantity,
		UnitPrice:      item.UnitPrice,
		ManufacturerID: item.ManufacturerID,
		RoutedTier:     string(item.RoutedTier),
	}
}

func toJobResponse(job *routing.ManufacturingJob) *JobResponse {
	items := make([]LineItemResponse, len(job.Items))
	for i, item := range job.Items {
		items[i] = toLineItemResponse(item)
	}
	return &JobResponse{
		ID:             job.ID,
		OrderID:        job.OrderID,
		OrderNumber:    job.OrderNumber,
		Status:         job.Status.String(),
		Reason:         job.Reason,
		ManufacturerID: job.ManufacturerID,
		Split:          job.IsSplit(),
		Items:          items,
		CreatedAt:      job.CreatedAt,
		UpdatedAt:      job.UpdatedAt,
	}
}

func toPendingJobResponse(job *routing.ManufacturingJob) PendingJobResponse {
	unmatched := job.UnmatchedItems()
	items := make([]LineItemResponse, len(unmatched))
	for i, item := range unmatched {
		items[i] = toLineItemResponse(item)
	}
	return PendingJobResponse{
		ID:             job.ID,
		OrderID:        job.OrderID,
		OrderNumber:    job.OrderNumber,
		Reason:         job.Reason,
		UnmatchedItems: items,
		CreatedAt:      job.CreatedAt,
	}
}

func toHistoryEntryResponse(entry routing.RoutingHistoryEntry) HistoryEntryResponse {
	return HistoryEntryResponse{
		ID:               entry.ID,
		JobID:            entry.JobID,
		OrderID:          entry.OrderID,
		OrderNumber:      entry.OrderNumber,
		ManufacturerID:   entry.ManufacturerID,
		ManufacturerName: entry.ManufacturerName,
		RoutedBy:         entry.RoutedBy.String(),
		Reason:           entry.Reason,
		CreatedAt:        entry.CreatedAt,
	}
}
