package handler

import (
	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
	partnerapp "github.com/merchops/backend/internal/application/partner"
	"github.com/merchops/backend/internal/interfaces/http/dto"
)

// ManufacturerHandler handles manufacturer registry API endpoints
type ManufacturerHandler struct {
	BaseHandler
	manufacturerService *partnerapp.ManufacturerService
}

// NewManufacturerHandler creates a new ManufacturerHandler
func NewManufacturerHandler(manufacturerService *partnerapp.ManufacturerService) *ManufacturerHandler {
	return &ManufacturerHandler{
		manufacturerService: manufacturerService,
	}
}

// RegisterRoutes registers the manufacturer registry routes
func (h *ManufacturerHandler) RegisterRoutes(rg *gin.RouterGroup) {
	manufacturers := rg.Group("/partner/manufacturers")
	{
		manufacturers.POST("", h.Create)
		manufacturers.GET("", h.List)
		manufacturers.GET("/:id", h.GetByID)
		manufacturers.PUT("/:id", h.Update)
		manufacturers.DELETE("/:id", h.Delete)
		manufacturers.POST("/:id/activate", h.Activate)
		manufacturers.POST("/:id/deactivate", h.Deactivate)
		manufacturers.POST("/:id/accepting", h.SetAccepting)
	}
}

// CreateManufacturerRequest represents a request to register a manufacturer
type CreateManufacturerRequest struct {
	Code             string   `json:"code" binding:"required,min=1,max=50"`
	Name             string   `json:"name" binding:"required,min=1,max=200"`
	Country          string   `json:"country" binding:"max=100"`
	Capabilities     []string `json:"capabilities"`
	MinOrderQty      *int     `json:"min_order_qty" binding:"omitempty,min=1"`
	LeadTimeDays     *int     `json:"lead_time_days" binding:"omitempty,min=0"`
	ContactName      string   `json:"contact_name" binding:"max=100"`
	ContactEmail     string   `json:"contact_email" binding:"omitempty,email,max=200"`
	UnitCostBaseline *float64 `json:"unit_cost_baseline" binding:"omitempty,gte=0"`
	Notes            string   `json:"notes"`
}

// UpdateManufacturerRequest represents a request to update a manufacturer.
// Omitted fields are left unchanged.
type UpdateManufacturerRequest struct {
	Name             *string  `json:"name" binding:"omitempty,min=1,max=200"`
	Country          *string  `json:"country" binding:"omitempty,max=100"`
	Capabilities     []string `json:"capabilities"`
	MinOrderQty      *int     `json:"min_order_qty" binding:"omitempty,min=1"`
	LeadTimeDays     *int     `json:"lead_time_days" binding:"omitempty,min=0"`
	ContactName      *string  `json:"contact_name" binding:"omitempty,max=100"`
	ContactEmail     *string  `json:"contact_email" binding:"omitempty,email,max=200"`
	UnitCostBaseline *float64 `json:"unit_cost_baseline" binding:"omitempty,gte=0"`
	Notes            *string  `json:"notes"`
}

// SetAcceptingRequest toggles whether a manufacturer takes new assignments
type SetAcceptingRequest struct {
	Accepting *bool `json:"accepting" binding:"required"`
}

// ManufacturerListRequest represents the manufacturer list query parameters
type ManufacturerListRequest struct {
	dto.ListRequest
	Active    *bool  `form:"active"`
	Accepting *bool  `form:"accepting"`
	Country   string `form:"country"`
}

// Create registers a new manufacturer
func (h *ManufacturerHandler) Create(c *gin.Context) {
	var req CreateManufacturerRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		h.BadRequest(c, err.Error())
		return
	}

	appReq := partnerapp.CreateManufacturerRequest{
		Code:         req.Code,
		Name:         req.Name,
		Country:      req.Country,
		Capabilities: req.Capabilities,
		MinOrderQty:  req.MinOrderQty,
		LeadTimeDays: req.LeadTimeDays,
		ContactName:  req.ContactName,
		ContactEmail: req.ContactEmail,
		Notes:        req.Notes,
	}
	if req.UnitCostBaseline != nil {
		appReq.UnitCostBaseline = toDecimalPtr(*req.UnitCostBaseline)
	}

	m, err := h.manufacturerService.Create(c.Request.Context(), appReq)
	if err != nil {
		h.HandleDomainError(c, err)
		return
	}

	h.Created(c, m)
}

// GetByID retrieves a manufacturer by its ID
func (h *ManufacturerHandler) GetByID(c *gin.Context) {
	id, err := uuid.Parse(c.Param("id"))
	if err != nil {
		h.BadRequest(c, "Invalid manufacturer ID format")
		return
	}

	m, err := h.manufacturerService.Get(c.Request.Context(), id)
	if err != nil {
		h.HandleDomainError(c, err)
		return
	}

	h.Success(c, m)
}

// List retrieves a paginated list of manufacturers with optional filtering
func (h *ManufacturerHandler) List(c *gin.Context) {
	var req ManufacturerListRequest
	if err := c.ShouldBindQuery(&req); err != nil {
		h.BadRequest(c, err.Error())
		return
	}

	filter := req.ToFilter()
	if req.Active != nil || req.Accepting != nil || req.Country != "" {
		filter.Filters = make(map[string]any)
		if req.Active != nil {
			filter.Filters["active"] = *req.Active
		}
		if req.Accepting != nil {
			filter.Filters["accepting_new_orders"] = *req.Accepting
		}
		if req.Country != "" {
			filter.Filters["country"] = req.Country
		}
	}

	result, err := h.manufacturerService.List(c.Request.Context(), filter)
	if err != nil {
		h.HandleDomainError(c, err)
		return
	}

	h.SuccessWithMeta(c, result.Items, result.Total, filter.Page, filter.PageSize)
}

// Update updates a manufacturer's mutable fields
func (h *ManufacturerHandler) Update(c *gin.Context) {
	id, err := uuid.Parse(c.Param("id"))
	if err != nil {
		h.BadRequest(c, "Invalid manufacturer ID format")
		return
	}

	var req UpdateManufacturerRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		h.BadRequest(c, err.Error())
		return
	}

	appReq := partnerapp.UpdateManufacturerRequest{
		Name:         req.Name,
		Country:      req.Country,
		Capabilities: req.Capabilities,
		MinOrderQty:  req.MinOrderQty,
		LeadTimeDays: req.LeadTimeDays,
		ContactName:  req.ContactName,
		ContactEmail: req.ContactEmail,
		Notes:        req.Notes,
	}
	if req.UnitCostBaseline != nil {
		appReq.UnitCostBaseline = toDecimalPtr(*req.UnitCostBaseline)
	}

	m, err := h.manufacturerService.Update(c.Request.Context(), id, appReq)
	if err != nil {
		h.HandleDomainError(c, err)
		return
	}

	h.Success(c, m)
}

// Delete removes a manufacturer from the registry
func (h *ManufacturerHandler) Delete(c *gin.Context) {
	id, err := uuid.Parse(c.Param("id"))
	if err != nil {
		h.BadRequest(c, "Invalid manufacturer ID format")
		return
	}

	if err := h.manufacturerService.Delete(c.Request.Context(), id); err != nil {
		h.HandleDomainError(c, err)
		return
	}

	h.NoContent(c)
}

// Activate marks a manufacturer active
func (h *ManufacturerHandler) Activate(c *gin.Context) {
	h.setActive(c, true)
}

// Deactivate marks a manufacturer inactive. Inactive manufacturers never
// receive new assignments through routing.
func (h *ManufacturerHandler) Deactivate(c *gin.Context) {
	h.setActive(c, false)
}

func (h *ManufacturerHandler) setActive(c *gin.Context, active bool) {
	id, err := uuid.Parse(c.Param("id"))
	if err != nil {
		h.BadRequest(c, "Invalid manufacturer ID format")
		return
	}

	m, err := h.manufacturerService.SetActive(c.Request.Context(), id, active)
	if err != nil {
		h.HandleDomainError(c, err)
		return
	}

	h.Success(c, m)
}

// SetAccepting toggles whether a manufacturer takes new assignments
func (h *ManufacturerHandler) SetAccepting(c *gin.Context) {
	id, err := uuid.Parse(c.Param("id"))
	if err != nil {
		h.BadRequest(c, "Invalid manufacturer ID format")
		return
	}

	var req SetAcceptingRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		h.BadRequest(c, err.Error())
		return
	}

	m, err := h.manufacturerService.SetAcceptingNewOrders(c.Request.Context(), id, *req.Accepting)
	if err != nil {
		h.HandleDomainError(c, err)
		return
	}

	h.Success(c, m)
}
