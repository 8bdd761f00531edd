package partner

import (
	"strings"

	"github.com/merchops/backend/internal/domain/shared"
	"github.com/shopspring/decimal"
)

// Manufacturer represents a production vendor that jobs can be routed to.
// Routing treats manufacturers as read-only; only administrators mutate them.
type Manufacturer struct {
	shared.BaseEntity
	Code               string
	Name               string
	Active             bool
	AcceptingNewOrders bool
	Country            string
	// Capabilities are the decoration/print techniques the vendor supports,
	// e.g. "screen-print", "embroidery", "DTF".
	Capabilities     []string
	MinOrderQty      int
	LeadTimeDays     int
	ContactName      string
	ContactEmail     string
	UnitCostBaseline decimal.Decimal
	Notes            string
}

// NewManufacturer creates a new manufacturer with the given identity fields
func NewManufacturer(code, name, country string) (*Manufacturer, error) {
	if strings.TrimSpace(code) == "" {
		return nil, shared.NewDomainError("INVALID_CODE", "Manufacturer code cannot be empty")
	}
	if strings.TrimSpace(name) == "" {
		return nil, shared.NewDomainError("INVALID_NAME", "Manufacturer name cannot be empty")
	}

	return &Manufacturer{
		BaseEntity:         shared.NewBaseEntity(),
		Code:               code,
		Name:               name,
		Active:             true,
		AcceptingNewOrders: true,
		Country:            country,
		Capabilities:       []string{},
		MinOrderQty:        1,
		LeadTimeDays:       0,
		UnitCostBaseline:   decimal.Zero,
	}, nil
}

// Eligible reports whether the manufacturer may receive new assignments.
func (m *Manufacturer) Eligible() bool {
	return m.Active && m.AcceptingNewOrders
}

// Supports reports whether the manufacturer's capability set covers every
// required tag. Tags are compared case-insensitively.
func (m *Manufacturer) Supports(required []string) bool {
	for _, tag := range required {
		found := false
		for _, cap := range m.Capabilities {
			if strings.EqualFold(cap, tag) {
				found = true
				break
			}
		}
		if !found {
			return false
		}
	}
	return true
}

// Update updates the manufacturer's display fields
func (m *Manufacturer) Update(name, country string) error {
	if strings.TrimSpace(name) == "" {
		return shared.NewDomainError("INVALID_NAME", "Manufacturer name cannot be empty")
	}
	m.Name = name
	m.Country = country
	m.Touch()
	return nil
}

// SetCapabilities replaces the capability tag set
func (m *Manufacturer) SetCapabilities(tags []string) error {
	cleaned := make([]string, 0, len(tags))
	for _, tag := range tags {
		tag = strings.TrimSpace(tag)
		if tag == "" {
			return shared.NewDomainError("INVALID_CAPABILITY", "Capability tag cannot be empty")
		}
		cleaned = append(cleaned, tag)
	}
	m.Capabilities = cleaned
	m.Touch()
	return nil
}

// SetOrderTerms sets the minimum order quantity and lead time
func (m *Manufacturer) SetOrderTerms(minOrderQty, leadTimeDays int) error {
	if minOrderQty < 1 {
		return shared.NewDomainError("INVALID_MOQ", "Minimum order quantity must be at least 1")
	}
	if leadTimeDays < 0 {
		return shared.NewDomainError("INVALID_LEAD_TIME", "Lead time cannot be negative")
	}
	m.MinOrderQty = minOrderQty
	m.LeadTimeDays = leadTimeDays
	m.Touch()
	return nil
}

// SetContact sets the manufacturer's contact details
func (m *Manufacturer) SetContact(name, email string) {
	m.ContactName = name
	m.ContactEmail = email
	m.Touch()
}

// SetUnitCostBaseline sets the reference unit cost used in reporting
func (m *Manufacturer) SetUnitCostBaseline(cost decimal.Decimal) error {
	if cost.IsNegative() {
		return shared.NewDomainError("INVALID_COST", "Unit cost baseline cannot be negative")
	}
	m.UnitCostBaseline = cost
	m.Touch()
	return nil
}

// Activate marks the manufacturer as active
func (m *Manufacturer) Activate() {
	m.Active = true
	m.Touch()
}

// Deactivate marks the manufacturer as inactive. An inactive manufacturer is
// never selected by routing but keeps its historical assignments.
func (m *Manufacturer) Deactivate() {
	m.Active = false
	m.Touch()
}

// SetAcceptingNewOrders toggles whether the vendor takes new assignments
func (m *Manufacturer) SetAcceptingNewOrders(accepting bool) {
	m.AcceptingNewOrders = accepting
	m.Touch()
}
