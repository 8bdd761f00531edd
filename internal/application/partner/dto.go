package partner

import (
	"time"

	"github.com/google/uuid"
	"github.com/merchops/backend/internal/domain/partner"
	"github.com/shopspring/decimal"
)

// CreateManufacturerRequest creates a new manufacturer
type CreateManufacturerRequest struct {
	Code             string
	Name             string
	Country          string
	Capabilities     []string
	MinOrderQty      *int
	LeadTimeDays     *int
	ContactName      string
	ContactEmail     string
	UnitCostBaseline *decimal.Decimal
	Notes            string
}

// UpdateManufacturerRequest updates an existing manufacturer. Nil fields are
// left unchanged.
type UpdateManufacturerRequest struct {
	Name             *string
	Country          *string
	Capabilities     []string
	MinOrderQty      *int
	LeadTimeDays     *int
	ContactName      *string
	ContactEmail     *string
	UnitCostBaseline *decimal.Decimal
	Notes            *string
}

// ManufacturerResponse is the API representation of a manufacturer
type ManufacturerResponse struct {
	ID                 uuid.UUID       `json:"id"`
	Code               string          `json:"code"`
	Name               string          `json:"name"`
	Active             bool            `json:"active"`
	AcceptingNewOrders bool            `json:"accepting_new_orders"`
	Country            string          `json:"country"`
	Capabilities       []string        `json:"capabilities"`
	MinOrderQty        int             `json:"min_order_qty"`
	LeadTimeDays       int             `json:"lead_time_days"`
	ContactName        string          `json:"contact_name"`
	ContactEmail       string          `json:"contact_email"`
	UnitCostBaseline   decimal.Decimal `json:"unit_cost_baseline"`
	Notes              string          `json:"notes"`
	CreatedAt          time.Time       `json:"created_at"`
	UpdatedAt          time.Time       `json:"updated_at"`
}

func toManufacturerResponse(m *partner.Manufacturer) *ManufacturerResponse {
	return &ManufacturerResponse{
		ID:                 m.ID,
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
		CreatedAt:          m.CreatedAt,
		UpdatedAt:          m.UpdatedAt,
	}
}
