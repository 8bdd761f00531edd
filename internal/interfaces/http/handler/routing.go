package handler

import (
	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
	routingapp "github.com/merchops/backend/internal/application/routing"
	"github.com/merchops/backend/internal/interfaces/http/dto"
)

// RoutingHandler handles routing API endpoints: job intake plus the admin
// gateway (pending queue, audit trail, stats, manual assignment, re-route)
type RoutingHandler struct {
	BaseHandler
	routingService *routingapp.RoutingService
	adminService   *routingapp.AdminService
}

// NewRoutingHandler creates a new RoutingHandler
func NewRoutingHandler(routingService *routingapp.RoutingService, adminService *routingapp.AdminService) *RoutingHandler {
	return &RoutingHandler{
		routingService: routingService,
		adminService:   adminService,
	}
}

// RegisterRoutes registers the routing routes
func (h *RoutingHandler) RegisterRoutes(rg *gin.RouterGroup) {
	routing := rg.Group("/routing")
	{
		routing.POST("/jobs", h.CreateJob)
		routing.GET("/jobs/:id", h.GetJob)
		routing.GET("/pending", h.ListPending)
		routing.GET("/history", h.ListHistory)
		routing.GET("/stats", h.GetStats)
		routing.POST("/assign", h.Assign)
		routing.POST("/reroute", h.Reroute)
	}
}

// CreateJobItemRequest is one line item of a job creation request
type CreateJobItemRequest struct {
	ProductID    string   `json:"product_id" binding:"required,uuid"`
	ProductName  string   `json:"product_name" binding:"required,min=1,max=200"`
	ProductCode  string   `json:"product_code" binding:"max=50"`
	Capabilities []string `json:"capabilities"`
	Quantity     int      `json:"quantity" binding:"required,min=1"`
	UnitPrice    float64  `json:"unit_price" binding:"gte=0"`
}

// CreateJobRequest represents a request to create and route a manufacturing job
type CreateJobRequest struct {
	OrderID     string                 `json:"order_id" binding:"required,uuid"`
	OrderNumber string                 `json:"order_number" binding:"required,min=1,max=50"`
	Items       []CreateJobItemRequest `json:"items" binding:"required,min=1,dive"`
}

// AssignRequest represents a manual assignment by an administrator
type AssignRequest struct {
	JobID          string `json:"job_id" binding:"required,uuid"`
	ManufacturerID string `json:"manufacturer_id" binding:"required,uuid"`
	Reason         string `json:"reason" binding:"required,min=1,max=500"`
	Override       bool   `json:"override"`
}

// RerouteRequest represents a request to re-run routing for a pending job
type RerouteRequest struct {
	JobID string `json:"job_id" binding:"required,uuid"`
}

// CreateJob creates a manufacturing job from an order and routes it immediately
func (h *RoutingHandler) CreateJob(c *gin.Context) {
	var req CreateJobRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		h.BadRequest(c, err.Error())
		return
	}

	orderID, err := uuid.Parse(req.OrderID)
	if err != nil {
		h.BadRequest(c, "Invalid order ID format")
		return
	}

	appReq := routingapp.CreateJobRequest{
		OrderID:     orderID,
		OrderNumber: req.OrderNumber,
		Items:       make([]routingapp.CreateJobItem, len(req.Items)),
	}
	for i, item := range req.Items {
		productID, err := uuid.Parse(item.ProductID)
		if err != nil {
			h.BadRequest(c, "Invalid product ID format")
			return
		}
		appReq.Items[i] = routingapp.CreateJobItem{
			ProductID:    productID,
			ProductName:  item.ProductName,
			ProductCode:  item.ProductCode,
			Capabilities: item.Capabilities,
			Quantity:     item.Quantity,
			UnitPrice:    toDecimal(item.UnitPrice),
		}
	}

	job, err := h.routingService.CreateJob(c.Request.Context(), appReq)
	if err != nil {
		h.HandleDomainError(c, err)
		return
	}

	h.Created(c, job)
}

// GetJob retrieves a job with all its line items
func (h *RoutingHandler) GetJob(c *gin.Context) {
	id, err := uuid.Parse(c.Param("id"))
	if err != nil {
		h.BadRequest(c, "Invalid job ID format")
		return
	}

	job, err := h.adminService.GetJob(c.Request.Context(), id)
	if err != nil {
		h.HandleDomainError(c, err)
		return
	}

	h.Success(c, job)
}

// ListPending retrieves jobs awaiting manual attention with their unmatched
// line items and the reason routing could not place them
func (h *RoutingHandler) ListPending(c *gin.Context) {
	var req dto.ListRequest
	if err := c.ShouldBindQuery(&req); err != nil {
		h.BadRequest(c, err.Error())
		return
	}

	pending, err := h.adminService.ListPending(c.Request.Context(), req.ToFilter())
	if err != nil {
		h.HandleDomainError(c, err)
		return
	}

	h.Success(c, pending)
}

// ListHistory retrieves audit entries most recent first, optionally filtered
// by a substring of the order number or manufacturer name
func (h *RoutingHandler) ListHistory(c *gin.Context) {
	var req dto.ListRequest
	if err := c.ShouldBindQuery(&req); err != nil {
		h.BadRequest(c, err.Error())
		return
	}

	filter := req.ToFilter()
	result, err := h.adminService.ListHistory(c.Request.Context(), req.Search, filter)
	if err != nil {
		h.HandleDomainError(c, err)
		return
	}

	h.SuccessWithMeta(c, result.Items, result.Total, filter.Page, filter.PageSize)
}

// GetStats aggregates routing counts over the current job table
func (h *RoutingHandler) GetStats(c *gin.Context) {
	stats, err := h.adminService.GetStats(c.Request.Context())
	if err != nil {
		h.HandleDomainError(c, err)
		return
	}

	h.Success(c, stats)
}

// Assign manually assigns every line item of a job to the given manufacturer
func (h *RoutingHandler) Assign(c *gin.Context) {
	var req AssignRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		h.BadRequest(c, err.Error())
		return
	}

	jobID, err := uuid.Parse(req.JobID)
	if err != nil {
		h.BadRequest(c, "Invalid job ID format")
		return
	}
	manufacturerID, err := uuid.Parse(req.ManufacturerID)
	if err != nil {
		h.BadRequest(c, "Invalid manufacturer ID format")
		return
	}

	job, err := h.adminService.Assign(c.Request.Context(), routingapp.AssignRequest{
		JobID:          jobID,
		ManufacturerID: manufacturerID,
		Reason:         req.Reason,
		Override:       req.Override,
	})
	if err != nil {
		h.HandleDomainError(c, err)
		return
	}

	h.Success(c, job)
}

// Reroute re-runs routing for a pending job
func (h *RoutingHandler) Reroute(c *gin.Context) {
	var req RerouteRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		h.BadRequest(c, err.Error())
		return
	}

	jobID, err := uuid.Parse(req.JobID)
	if err != nil {
		h.BadRequest(c, "Invalid job ID format")
		return
	}

	job, err := h.adminService.Reroute(c.Request.Context(), jobID)
	if err != nil {
		h.HandleDomainError(c, err)
		return
	}

	h.Success(c, job)
}
