package handler

import (
	"time"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"

	paymentapp "github.com/cobranza/backend/internal/application/payment"
	"github.com/cobranza/backend/internal/domain/payment"
	"github.com/cobranza/backend/internal/domain/shared"
	"github.com/cobranza/backend/internal/interfaces/http/dto"
)

// ScheduleHandler handles payment schedule API endpoints
type ScheduleHandler struct {
	BaseHandler
	scheduleService *paymentapp.ScheduleService
}

// NewScheduleHandler creates a new ScheduleHandler
func NewScheduleHandler(scheduleService *paymentapp.ScheduleService) *ScheduleHandler {
	return &ScheduleHandler{scheduleService: scheduleService}
}

// RegisterRoutes mounts the schedule routes on a router group
func (h *ScheduleHandler) RegisterRoutes(rg *gin.RouterGroup) {
	rg.POST("/schedules", h.Create)
	rg.POST("/schedules/negotiated", h.CreateNegotiated)
	rg.GET("/schedules", h.List)
	rg.GET("/schedules/:id", h.GetByID)
	rg.GET("/schedules/:id/history", h.GetHistory)
	rg.POST("/schedules/:id/installments/pay", h.RecordInstallmentPayment)
	rg.POST("/schedules/:id/cancel", h.Cancel)
	rg.GET("/installments/:id/history", h.GetInstallmentHistory)
	rg.GET("/customers/:customer_id/schedules", h.ListByCustomer)
	rg.GET("/managements/:management_id/schedules", h.ListByManagement)
}

// Create creates an evenly split payment schedule
func (h *ScheduleHandler) Create(c *gin.Context) {
	tenantID, err := getTenantID(c)
	if err != nil {
		h.Unauthorized(c, "Tenant identification required")
		return
	}

	var req paymentapp.CreateScheduleRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		h.BadRequest(c, err.Error())
		return
	}

	schedule, err := h.scheduleService.CreateSchedule(c.Request.Context(), tenantID, req)
	if err != nil {
		h.HandleDomainError(c, err)
		return
	}

	h.Created(c, schedule)
}

// CreateNegotiated creates a schedule from explicit installment items
func (h *ScheduleHandler) CreateNegotiated(c *gin.Context) {
	tenantID, err := getTenantID(c)
	if err != nil {
		h.Unauthorized(c, "Tenant identification required")
		return
	}

	var req paymentapp.CreateScheduleWithInstallmentsRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		h.BadRequest(c, err.Error())
		return
	}

	schedule, err := h.scheduleService.CreateScheduleWithInstallments(c.Request.Context(), tenantID, req)
	if err != nil {
		h.HandleDomainError(c, err)
		return
	}

	h.Created(c, schedule)
}

// GetByID returns a schedule with its installments
func (h *ScheduleHandler) GetByID(c *gin.Context) {
	tenantID, err := getTenantID(c)
	if err != nil {
		h.Unauthorized(c, "Tenant identification required")
		return
	}

	scheduleID, err := uuid.Parse(c.Param("id"))
	if err != nil {
		h.BadRequest(c, "Invalid schedule ID format")
		return
	}

	schedule, err := h.scheduleService.GetSchedule(c.Request.Context(), tenantID, scheduleID)
	if err != nil {
		h.HandleDomainError(c, err)
		return
	}

	h.Success(c, schedule)
}

// scheduleListQuery carries schedule-specific list filters
type scheduleListQuery struct {
	dto.ListRequest
	CustomerID   string `form:"customer_id"`
	ManagementID string `form:"management_id"`
	Active       *bool  `form:"active"`
	StartFrom    string `form:"start_from"`
	StartTo      string `form:"start_to"`
}

// List returns a tenant's schedules with pagination
func (h *ScheduleHandler) List(c *gin.Context) {
	tenantID, err := getTenantID(c)
	if err != nil {
		h.Unauthorized(c, "Tenant identification required")
		return
	}

	var query scheduleListQuery
	if err := c.ShouldBindQuery(&query); err != nil {
		h.BadRequest(c, err.Error())
		return
	}
	query.Normalize()

	filter, err := buildScheduleFilter(query)
	if err != nil {
		h.BadRequest(c, err.Error())
		return
	}

	page, err := h.scheduleService.List(c.Request.Context(), tenantID, filter)
	if err != nil {
		h.HandleDomainError(c, err)
		return
	}

	h.SuccessWithMeta(c, page.Items, page.Total, page.Page, page.PageSize)
}

// ListByCustomer returns a customer's schedules
func (h *ScheduleHandler) ListByCustomer(c *gin.Context) {
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

	var query scheduleListQuery
	if err := c.ShouldBindQuery(&query); err != nil {
		h.BadRequest(c, err.Error())
		return
	}
	query.Normalize()

	filter, err := buildScheduleFilter(query)
	if err != nil {
		h.BadRequest(c, err.Error())
		return
	}

	schedules, err := h.scheduleService.ListByCustomer(c.Request.Context(), tenantID, customerID, filter)
	if err != nil {
		h.HandleDomainError(c, err)
		return
	}

	h.Success(c, schedules)
}

// ListByManagement returns the schedules originating from a management
func (h *ScheduleHandler) ListByManagement(c *gin.Context) {
	tenantID, err := getTenantID(c)
	if err != nil {
		h.Unauthorized(c, "Tenant identification required")
		return
	}

	managementID, err := uuid.Parse(c.Param("management_id"))
	if err != nil {
		h.BadRequest(c, "Invalid management ID format")
		return
	}

	schedules, err := h.scheduleService.ListByManagement(c.Request.Context(), tenantID, managementID)
	if err != nil {
		h.HandleDomainError(c, err)
		return
	}

	h.Success(c, schedules)
}

// RecordInstallmentPayment marks one installment of a schedule as paid
func (h *ScheduleHandler) RecordInstallmentPayment(c *gin.Context) {
	tenantID, err := getTenantID(c)
	if err != nil {
		h.Unauthorized(c, "Tenant identification required")
		return
	}

	scheduleID, err := uuid.Parse(c.Param("id"))
	if err != nil {
		h.BadRequest(c, "Invalid schedule ID format")
		return
	}

	var req paymentapp.RecordInstallmentPaymentRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		h.BadRequest(c, err.Error())
		return
	}

	schedule, err := h.scheduleService.RecordInstallmentPayment(c.Request.Context(), tenantID, scheduleID, req)
	if err != nil {
		h.HandleDomainError(c, err)
		return
	}

	h.Success(c, schedule)
}

// Cancel deactivates a schedule and cancels its unpaid installments
func (h *ScheduleHandler) Cancel(c *gin.Context) {
	tenantID, err := getTenantID(c)
	if err != nil {
		h.Unauthorized(c, "Tenant identification required")
		return
	}

	scheduleID, err := uuid.Parse(c.Param("id"))
	if err != nil {
		h.BadRequest(c, "Invalid schedule ID format")
		return
	}

	var req paymentapp.CancelScheduleRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		h.BadRequest(c, err.Error())
		return
	}

	schedule, err := h.scheduleService.CancelSchedule(c.Request.Context(), tenantID, scheduleID, req)
	if err != nil {
		h.HandleDomainError(c, err)
		return
	}

	h.Success(c, schedule)
}

// GetHistory returns the audit trail of a schedule's installments
func (h *ScheduleHandler) GetHistory(c *gin.Context) {
	tenantID, err := getTenantID(c)
	if err != nil {
		h.Unauthorized(c, "Tenant identification required")
		return
	}

	scheduleID, err := uuid.Parse(c.Param("id"))
	if err != nil {
		h.BadRequest(c, "Invalid schedule ID format")
		return
	}

	var filter payment.HistoryFilter
	filter.Filter = shared.DefaultFilter()
	if status := c.Query("status"); status != "" {
		s := payment.HistoryStatus(status)
		filter.Status = &s
	}
	if from, ok := parseTimeQuery(c, "from"); ok {
		filter.From = from
	}
	if to, ok := parseTimeQuery(c, "to"); ok {
		filter.To = to
	}

	entries, err := h.scheduleService.GetScheduleHistory(c.Request.Context(), tenantID, scheduleID, filter)
	if err != nil {
		h.HandleDomainError(c, err)
		return
	}

	h.Success(c, entries)
}

// GetInstallmentHistory returns the audit trail of one installment
func (h *ScheduleHandler) GetInstallmentHistory(c *gin.Context) {
	tenantID, err := getTenantID(c)
	if err != nil {
		h.Unauthorized(c, "Tenant identification required")
		return
	}

	installmentID, err := uuid.Parse(c.Param("id"))
	if err != nil {
		h.BadRequest(c, "Invalid installment ID format")
		return
	}

	entries, err := h.scheduleService.GetInstallmentHistory(c.Request.Context(), tenantID, installmentID)
	if err != nil {
		h.HandleDomainError(c, err)
		return
	}

	h.Success(c, entries)
}

// buildScheduleFilter converts list query parameters to a domain filter
func buildScheduleFilter(query scheduleListQuery) (payment.ScheduleFilter, error) {
	filter := payment.ScheduleFilter{Filter: toSharedFilter(query.ListRequest)}

	if query.CustomerID != "" {
		filter.CustomerID = &query.CustomerID
	}
	if query.ManagementID != "" {
		id, err := uuid.Parse(query.ManagementID)
		if err != nil {
			return filter, err
		}
		filter.ManagementID = &id
	}
	filter.Active = query.Active
	if query.StartFrom != "" {
		t, err := time.Parse(time.RFC3339, query.StartFrom)
		if err != nil {
			return filter, err
		}
		filter.StartFrom = &t
	}
	if query.StartTo != "" {
		t, err := time.Parse(time.RFC3339, query.StartTo)
		if err != nil {
			return filter, err
		}
		filter.StartTo = &t
	}

	return filter, nil
}

// toSharedFilter converts common list parameters into a shared filter
func toSharedFilter(req dto.ListRequest) shared.Filter {
	filter := shared.DefaultFilter()
	filter.Page = req.Page
	filter.PageSize = req.PageSize
	if req.OrderBy != "" {
		filter.OrderBy = req.OrderBy
	}
	if req.OrderDir != "" {
		filter.OrderDir = req.OrderDir
	}
	filter.Search = req.Search
	return filter
}

// parseTimeQuery parses an RFC3339 query parameter, ignoring absent values
func parseTimeQuery(c *gin.Context, name string) (*time.Time, bool) {
	value := c.Query(name)
	if value == "" {
		return nil, false
	}
	t, err := time.Parse(time.RFC3339, value)
	if err != nil {
		return nil, false
	}
	return &t, true
}
