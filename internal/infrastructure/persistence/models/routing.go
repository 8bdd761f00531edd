package models

import (
	"time"

	"github.com/google/uuid"
	"github.com/merchops/backend/internal/domain/routing"
	"github.com/shopspring/decimal"
)

// ManufacturingJobModel is the persistence model for the ManufacturingJob aggregate.
type ManufacturingJobModel struct {
	BaseModel
	OrderID        uuid.UUID             `gorm:"type:uuid;not null;index"`
	OrderNumber    string                `gorm:"type:varchar(50);not null;index"`
	Status         routing.RoutingStatus `gorm:"type:varchar(20);not null;default:'pending';index"`
	Reason         string                `gorm:"type:text"`
	ManufacturerID *uuid.UUID            `gorm:"type:uuid;index"`
	Items          []JobLineItemModel    `gorm:"foreignKey:JobID;constraint:OnDelete:CASCADE"`
}

// TableName returns the table name for GORM
func (ManufacturingJobModel) TableName() string {
	return "manufacturing_jobs"
}

// ToDomain converts the persistence model to a domain ManufacturingJob aggregate.
func (m *ManufacturingJobModel) ToDomain() *routing.ManufacturingJob {
	items := make([]routing.JobLineItem, len(m.Items))
	for i := range m.Items {
		items[i] = *m.Items[i].ToDomain()
	}
	return &routing.ManufacturingJob{
		BaseEntity:     m.BaseModel.ToDomain(),
		OrderID:        m.OrderID,
		OrderNumber:    m.OrderNumber,
		Status:         m.Status,
		Reason:         m.Reason,
		ManufacturerID: m.ManufacturerID,
		Items:          items,
	}
}

// FromDomain populates the persistence model from a domain ManufacturingJob aggregate.
func (m *ManufacturingJobModel) FromDomain(j *routing.ManufacturingJob) {
	m.FromDomainBaseEntity(j.BaseEntity)
	m.OrderID = j.OrderID
	m.OrderNumber = j.OrderNumber
	m.Status = j.Status
	m.Reason = j.Reason
	m.ManufacturerID = j.ManufacturerID
	m.Items = make([]JobLineItemModel, len(j.Items))
	for i := range j.Items {
		m.Items[i].FromDomain(&j.Items[i])
	}
}

// ManufacturingJobModelFromDomain creates a new persistence model from a domain ManufacturingJob.
func ManufacturingJobModelFromDomain(j *routing.ManufacturingJob) *ManufacturingJobModel {
	m := &ManufacturingJobModel{}
	m.FromDomain(j)
	return m
}

// JobLineItemModel is the persistence model for one line item of a manufacturing job.
type JobLineItemModel struct {
	ID             uuid.UUID         `gorm:"type:uuid;primary_key"`
	JobID          uuid.UUID         `gorm:"type:uuid;not null;index"`
	ProductID      uuid.UUID         `gorm:"type:uuid;not null"`
	ProductName    string            `gorm:"type:varchar(200);not null"`
	ProductCode    string            `gorm:"type:varchar(50)"`
	Capabilities   []string          `gorm:"type:jsonb;serializer:json"`
	Quantity       int               `gorm:"not null"`
	UnitPrice      decimal.Decimal   `gorm:"type:decimal(18,4);not null;default:0"`
	ManufacturerID *uuid.UUID        `gorm:"type:uuid;index"`
	RoutedTier     routing.MatchTier `gorm:"type:varchar(20);not null;default:'unmatched'"`
	CreatedAt      time.Time         `gorm:"not null"`
	UpdatedAt      time.Time         `gorm:"not null"`
}

// TableName returns the table name for GORM
func (JobLineItemModel) TableName() string {
	return "job_line_items"
}

// ToDomain converts the persistence model to a domain JobLineItem.
func (m *JobLineItemModel) ToDomain() *routing.JobLineItem {
	return &routing.JobLineItem{
		ID:             m.ID,
		JobID:          m.JobID,
		ProductID:      m.ProductID,
		ProductName:    m.ProductName,
		ProductCode:    m.ProductCode,
		Capabilities:   m.Capabilities,
		Quantity:       m.Quantity,
		UnitPrice:      m.UnitPrice,
		ManufacturerID: m.ManufacturerID,
		RoutedTier:     m.RoutedTier,
		CreatedAt:      m.CreatedAt,
		UpdatedAt:      m.UpdatedAt,
	}
}

// FromDomain populates the persistence model from a domain JobLineItem.
func (m *JobLineItemModel) FromDomain(i *routing.JobLineItem) {
	m.ID = i.ID
	m.JobID = i.JobID
	m.ProductID = i.ProductID
	m.ProductName = i.ProductName
	m.ProductCode = i.ProductCode
	m.Capabilities = i.Capabilities
	m.Quantity = i.Quantity
	m.UnitPrice = i.UnitPrice
	m.ManufacturerID = i.ManufacturerID
	m.RoutedTier = i.RoutedTier
	m.CreatedAt = i.CreatedAt
	m.UpdatedAt = i.UpdatedAt
}

// RoutingHistoryEntryModel is the persistence model for the append-only audit trail.
// Rows are only ever inserted; there is no update path.
type RoutingHistoryEntryModel struct {
	ID               uuid.UUID             `gorm:"type:uuid;primary_key"`
	JobID            uuid.UUID             `gorm:"type:uuid;not null;index:idx_history_job_time,priority:1"`
	OrderID          uuid.UUID             `gorm:"type:uuid;not null;index"`
	OrderNumber      string                `gorm:"type:varchar(50);not null;index"`
	ManufacturerID   *uuid.UUID            `gorm:"type:uuid"`
	ManufacturerName string                `gorm:"type:varchar(200);index"`
	RoutedBy         routing.RoutingStatus `gorm:"type:varchar(20);not null"`
	Reason           string                `gorm:"type:text"`
	CreatedAt        time.Time             `gorm:"not null;index:idx_history_job_time,priority:2"`
}

// TableName returns the table name for GORM
func (RoutingHistoryEntryModel) TableName() string {
	return "routing_history"
}

// ToDomain converts the persistence model to a domain RoutingHistoryEntry.
func (m *RoutingHistoryEntryModel) ToDomain() *routing.RoutingHistoryEntry {
	return &routing.RoutingHistoryEntry{
		ID:               m.ID,
		JobID:            m.JobID,
		OrderID:          m.OrderID,
		OrderNumber:      m.OrderNumber,
		ManufacturerID:   m.ManufacturerID,
		ManufacturerName: m.ManufacturerName,
		RoutedBy:         m.RoutedBy,
		Reason:           m.Reason,
		CreatedAt:        m.CreatedAt,
	}
}

// FromDomain populates the persistence model from a domain RoutingHistoryEntry.
func (m *RoutingHistoryEntryModel) FromDomain(e *routing.RoutingHistoryEntry) {
	m.ID = e.ID
	m.JobID = e.JobID
	m.OrderID = e.OrderID
	m.OrderNumber = e.OrderNumber
	m.ManufacturerID = e.ManufacturerID
	m.ManufacturerName = e.ManufacturerName
	m.RoutedBy = e.RoutedBy
	m.Reason = e.Reason
	m.CreatedAt = e.CreatedAt
}

// RoutingHistoryEntryModelFromDomain creates a new persistence model from a domain RoutingHistoryEntry.
func RoutingHistoryEntryModelFromDomain(e *routing.RoutingHistoryEntry) *RoutingHistoryEntryModel {
	m := &RoutingHistoryEntryModel{}
	m.FromDomain(e)
	return m
}
