package models

import (
	"github.com/merchops/backend/internal/domain/partner"
	"github.com/shopspring/decimal"
)

// ManufacturerModel is the persistence model for the Manufacturer domain entity.
type ManufacturerModel struct {
	BaseModel
	Code               string          `gorm:"type:varchar(50);not null;uniqueIndex:idx_manufacturer_code"`
	Name               string          `gorm:"type:varchar(200);not null;index"`
	Active             bool            `gorm:"not null;default:true;index:idx_manufacturer_eligible,priority:1"`
	AcceptingNewOrders bool            `gorm:"not null;default:true;index:idx_manufacturer_eligible,priority:2"`
	Country            string          `gorm:"type:varchar(100)"`
	Capabilities       []string        `gorm:"type:jsonb;serializer:json"`
	MinOrderQty        int             `gorm:"not null;default:1"`
	LeadTimeDays       int             `gorm:"not null;default:0"`
	ContactName        string          `gorm:"type:varchar(100)"`
	ContactEmail       string          `gorm:"type:varchar(200)"`
	UnitCostBaseline   decimal.Decimal `gorm:"type:decimal(18,4);not null;default:0"`
	Notes              string          `gorm:"type:text"`
}

// TableName returns the table name for GORM
func (ManufacturerModel) TableName() string {
	return "manufacturers"
}

// ToDomain converts the persistence model to a domain Manufacturer entity.
func (m *ManufacturerModel) ToDomain() *partner.Manufacturer {
	return &partner.Manufacturer{
		BaseEntity:         m.BaseModel.ToDomain(),
		Code:               m.Code,
		Name:               m.Name,
		Active:             m.Active,
		AcceptingNewOrders: m.AcceptingNewOrders,
		Country:            m.Country,
		Capabilities:       m.Capabilities,
		MinOrderQty:        m.MinOrderQty,
		LeadTimeDays:       m.LeadTimeDays,
		ContactName:        m.ContactName,
		ContactEmail:       m.ContactEmail,
		UnitCostBaseline:   m.UnitCostBaseline,
		Notes:              m.Notes,
	}
}

// FromDomain populates the persistence model from a domain Manufacturer entity.
func (m *ManufacturerModel) FromDomain(d *partner.Manufacturer) {
	m.FromDomainBaseEntity(d.BaseEntity)
	m.Code = d.Code
	m.Name = d.Name
	m.Active = d.Active
	m.AcceptingNewOrders = d.AcceptingNewOrders
	m.Country = d.Country
	m.Capabilities = d.Capabilities
	m.MinOrderQty = d.MinOrderQty
	m.LeadTimeDays = d.LeadTimeDays
	m.ContactName = d.ContactName
	m.ContactEmail = d.ContactEmail
	m.UnitCostBaseline = d.UnitCostBaseline
	m.Notes = d.Notes
}

// ManufacturerModelFromDomain creates a new persistence model from a domain Manufacturer entity.
func ManufacturerModelFromDomain(d *partner.Manufacturer) *ManufacturerModel {
	m := &ManufacturerModel{}
	m.FromDomain(d)
	return m
}
