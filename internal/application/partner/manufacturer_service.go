package partner

import (
	"context"

	"github.com/google/uuid"
	"github.com/merchops/backend/internal/domain/partner"
	"github.com/merchops/backend/internal/domain/shared"
)

// ManufacturerService handles manufacturer registry operations. The registry
// is maintained by administrators; routing only ever reads from it.
type ManufacturerService struct {
	manufacturerRepo partner.ManufacturerRepository
}

// NewManufacturerService creates a new ManufacturerService
func NewManufacturerService(manufacturerRepo partner.ManufacturerRepository) *ManufacturerService {
	return &ManufacturerService{
		manufacturerRepo: manufacturerRepo,
	}
}

// Create creates a new manufacturer
func (s *ManufacturerService) Create(ctx context.Context, req CreateManufacturerRequest) (*ManufacturerResponse, error) {
	exists, err := s.manufacturerRepo.ExistsByCode(ctx, req.Code)
	if err != nil {
		return nil, err
	}
	if exists {
		return nil, shared.NewDomainError("ALREADY_EXISTS", "Manufacturer with this code already exists")
	}

	m, err := partner.NewManufacturer(req.Code, req.Name, req.Country)
	if err != nil {
		return nil, err
	}

	if len(req.Capabilities) > 0 {
		if err := m.SetCapabilities(req.Capabilities); err != nil {
			return nil, err
		}
	}

	minOrderQty := m.MinOrderQty
	leadTimeDays := m.LeadTimeDays
	if req.MinOrderQty != nil {
		minOrderQty = *req.MinOrderQty
	}
	if req.LeadTimeDays != nil {
		leadTimeDays = *req.LeadTimeDays
	}
	if err := m.SetOrderTerms(minOrderQty, leadTimeDays); err != nil {
		return nil, err
	}

	if req.ContactName != "" || req.ContactEmail != "" {
		m.SetContact(req.ContactName, req.ContactEmail)
	}
	if req.UnitCostBaseline != nil {
		if err := m.SetUnitCostBaseline(*req.UnitCostBaseline); err != nil {
			return nil, err
		}
	}
	m.Notes = req.Notes

	if err := s.manufacturerRepo.Save(ctx, m); err != nil {
		return nil, err
	}
	return toManufacturerResponse(m), nil
}

// Get returns a manufacturer by ID
func (s *ManufacturerService) Get(ctx context.Context, id uuid.UUID) (*ManufacturerResponse, error) {
	m, err := s.manufacturerRepo.FindByID(ctx, id)
	if err != nil {
		return nil, err
	}
	return toManufacturerResponse(m), nil
}

// List returns manufacturers matching the filter, with the total count
func (s *ManufacturerService) List(ctx context.Context, filter shared.Filter) (*shared.Paginated[ManufacturerResponse], error) {
	manufacturers, err := s.manufacturerRepo.FindAll(ctx, filter)
	if err != nil {
		return nil, err
	}
	total, err := s.manufacturerRepo.Count(ctx, filter)
	if err != nil {
		return nil, err
	}

	items := make([]ManufacturerResponse, len(manufacturers))
	for i := range manufacturers {
		items[i] = *toManufacturerResponse(&manufacturers[i])
	}
	result := shared.NewPaginated(items, total, filter.Page, filter.PageSize)
	return &result, nil
}

// Update updates a manufacturer's mutable fields
func (s *ManufacturerService) Update(ctx context.Context, id uuid.UUID, req UpdateManufacturerRequest) (*ManufacturerResponse, error) {
	m, err := s.manufacturerRepo.FindByID(ctx, id)
	if err != nil {
		return nil, err
	}

	name := m.Name
	country := m.Country
	if req.Name != nil {
		name = *req.Name
	}
	if req.Country != nil {
		country = *req.Country
	}
	if err := m.Update(name, country); err != nil {
		return nil, err
	}

	if req.Capabilities != nil {
		if err := m.SetCapabilities(req.Capabilities); err != nil {
			return nil, err
		}
	}
	if req.MinOrderQty != nil || req.LeadTimeDays != nil {
		minOrderQty := m.MinOrderQty
		leadTimeDays := m.LeadTimeDays
		if req.MinOrderQty != nil {
			minOrderQty = *req.MinOrderQty
		}
		if req.LeadTimeDays != nil {
			leadTimeDays = *req.LeadTimeDays
		}
		if err := m.SetOrderTerms(minOrderQty, leadTimeDays); err != nil {
			return nil, err
		}
	}
	if req.ContactName != nil || req.ContactEmail != nil {
		contactName := m.ContactName
		contactEmail := m.ContactEmail
		if req.ContactName != nil {
			contactName = *req.ContactName
		}
		if req.ContactEmail != nil {
			contactEmail = *req.ContactEmail
		}
		m.SetContact(contactName, contactEmail)
	}
	if req.UnitCostBaseline != nil {
		if err := m.SetUnitCostBaseline(*req.UnitCostBaseline); err != nil {
			return nil, err
		}
	}
	if req.Notes != nil {
		m.Notes = *req.Notes
		m.Touch()
	}

	if err := s.manufacturerRepo.Save(ctx, m); err != nil {
		return nil, err
	}
	return toManufacturerResponse(m), nil
}

// SetActive toggles whether the manufacturer is active
func (s *ManufacturerService) SetActive(ctx context.Context, id uuid.UUID, active bool) (*ManufacturerResponse, error) {
	m, err := s.manufacturerRepo.FindByID(ctx, id)
	if err != nil {
		return nil, err
	}
	if active {
		m.Activate()
	} else {
		m.Deactivate()
	}
	if err := s.manufacturerRepo.Save(ctx, m); err != nil {
		return nil, err
	}
	return toManufacturerResponse(m), nil
}

// SetAcceptingNewOrders toggles whether the manufacturer takes new assignments
func (s *ManufacturerService) SetAcceptingNewOrders(ctx context.Context, id uuid.UUID, accepting bool) (*ManufacturerResponse, error) {
	m, err := s.manufacturerRepo.FindByID(ctx, id)
	if err != nil {
		return nil, err
	}
	m.SetAcceptingNewOrders(accepting)
	if err := s.manufacturerRepo.Save(ctx, m); err != nil {
		return nil, err
	}
	return toManufacturerResponse(m), nil
}

// Delete removes a manufacturer from the registry. Historical routing records
// keep their denormalized manufacturer name.
func (s *ManufacturerService) Delete(ctx context.Context, id uuid.UUID) error {
	if _, err := s.manufacturerRepo.FindByID(ctx, id); err != nil {
		return err
	}
	return s.manufacturerRepo.Delete(ctx, id)
}
