package handler

import (
	"github.com/gin-gonic/gin"
	"github.com/google/uuid"

	collectionapp "github.com/cobranza/backend/internal/application/collection"
	"github.com/cobranza/backend/internal/domain/collection"
	"github.com/cobranza/backend/internal/interfaces/http/dto"
)

// ManagementHandler handles collection management API endpoints
type ManagementHandler struct {
	BaseHandler
	managementService *collectionapp.ManagementService
}

// NewManagementHandler creates a new ManagementHandler
func NewManagementHandler(managementService *collectionapp.ManagementService) *ManagementHandler {
	return &ManagementHandler{managementService: managementService}
}

// RegisterRoutes mounts the management routes on a router group
func (h *ManagementHandler) RegisterRoutes(rg *gin.RouterGroup) {
	rg.POST("/managements", h.Register)
	rg.GET("/managements", h.List)
	rg.GET("/managements/:id", h.GetByID)
	rg.GET("/customers/:customer_id/managements", h.ListByCustomer)
}

// Register records a new collection management
func (h *ManagementHandler) Register(c *gin.Context) {
	tenantID, err := getTenantID(c)
	if err != nil {
		h.Unauthorized(c, "Tenant identification required")
		return
	}

	var req collectionapp.RegisterManagementRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		h.BadRequest(c, err.Error())
		return
	}

	management, err := h.managementService.RegisterManagement(c.Request.Context(), tenantID, req)
	if err != nil {
		h.HandleDomainError(c, err)
		return
	}

	h.Created(c, management)
}

// GetByID returns a management by ID
func (h *ManagementHandler) GetByID(c *gin.Context) {
	tenantID, err := getTenantID(c)
	if err != nil {
		h.Unauthorized(c, "Tenant identification required")
		return
	}

	managementID, err := uuid.Parse(c.Param("id"))
	if err != nil {
		h.BadRequest(c, "Invalid management ID format")
		return
	}

	management, err := h.managementService.GetManagement(c.Request.Context(), tenantID, managementID)
	if err != nil {
		h.HandleDomainError(c, err)
		return
	}

	h.Success(c, management)
}

// managementListQuery carries management-specific list filters
type managementListQuery struct {
	dto.ListRequest
	CustomerID   string `form:"customer_id"`
	PortfolioID  string `form:"portfolio_id"`
	CampaignID   string `form:"campaign_id"`
	Typification string `form:"typification"`
	RegisteredBy string `form:"registered_by"`
	From         string `form:"from"`
	To           string `form:"to"`
}

// List returns a tenant's managements with pagination
func (h *ManagementHandler) List(c *gin.Context) {
	tenantID, err := getTenantID(c)
	if err != nil {
		h.Unauthorized(c, "Tenant identification required")
		return
	}

	var query managementListQuery
	if err := c.ShouldBindQuery(&query); err != nil {
		h.BadRequest(c, err.Error())
		return
	}
	query.Normalize()

	filter, err := buildManagementFilter(c, query)
	if err != nil {
		h.BadRequest(c, err.Error())
		return
	}

	page, err := h.managementService.List(c.Request.Context(), tenantID, filter)
	if err != nil {
		h.HandleDomainError(c, err)
		return
	}

	h.SuccessWithMeta(c, page.Items, page.Total, page.Page, page.PageSize)
}

// ListByCustomer returns a customer's managements
func (h *ManagementHandler) ListByCustomer(c *gin.Context) {
	tenantID, err := getTenantID(c)
	if err != nil {
		h.Unauthorized(c, "Tenant identification required")
		return
	}

	customerID := c.Param("customer_id")
	if customerID == "" {
		h.BadRequest(c, "Customer ID is required")
		return
	}

	var query managementListQuery
	if err := c.ShouldBindQuery(&query); err != nil {
		h.BadRequest(c, err.Error())
		return
	}
	query.Normalize()

	filter, err := buildManagementFilter(c, query)
	if err != nil {
		h.BadRequest(c, err.Error())
		return
	}

	managements, err := h.managementService.ListByCustomer(c.Request.Context(), tenantID, customerID, filter)
	if err != nil {
		h.HandleDomainError(c, err)
		return
	}

	h.Success(c, managements)
}

// buildManagementFilter converts list query parameters to a domain filter
func buildManagementFilter(c *gin.Context, query managementListQuery) (collection.ManagementFilter, error) {
	filter := collection.ManagementFilter{Filter: toSharedFilter(query.ListRequest)}
	if filter.OrderBy == "created_at" && query.OrderBy == "" {
		filter.OrderBy = "managed_at"
	}

	if query.CustomerID != "" {
		filter.CustomerID = &query.CustomerID
	}
	if query.PortfolioID != "" {
		id, err := uuid.Parse(query.PortfolioID)
		if err != nil {
			return filter, err
		}
		filter.PortfolioID = &id
	}
	if query.CampaignID != "" {
		id, err := uuid.Parse(query.CampaignID)
		if err != nil {
			return filter, err
		}
		filter.CampaignID = &id
	}
	if query.Typification != "" {
		code := collection.TypificationCode(query.Typification)
		filter.TypificationCode = &code
	}
	if query.RegisteredBy != "" {
		filter.RegisteredBy = &query.RegisteredBy
	}
	if from, ok := parseTimeQuery(c, "from"); ok {
		filter.From = from
	}
	if to, ok := parseTimeQuery(c, "to"); ok {
		filter.To = to
	}

	return filter, nil
}
