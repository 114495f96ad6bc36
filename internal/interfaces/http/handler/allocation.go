package handler

import (
	"github.com/gin-gonic/gin"

	paymentapp "github.com/cobranza/backend/internal/application/payment"
)

// AllocationHandler exposes manual payment allocation. The engine normally
// runs off the event bus; this endpoint lets back-office staff re-apply an
// amount when a management was registered without one.
type AllocationHandler struct {
	BaseHandler
	engine *paymentapp.AllocationEngine
}

// NewAllocationHandler creates a new AllocationHandler
func NewAllocationHandler(engine *paymentapp.AllocationEngine) *AllocationHandler {
	return &AllocationHandler{engine: engine}
}

// RegisterRoutes mounts the allocation routes on a router group
func (h *AllocationHandler) RegisterRoutes(rg *gin.RouterGroup) {
	rg.POST("/allocations/apply", h.Apply)
}

// Apply runs an allocation for one customer and returns the report
func (h *AllocationHandler) Apply(c *gin.Context) {
	tenantID, err := getTenantID(c)
	if err != nil {
		h.Unauthorized(c, "Tenant identification required")
		return
	}

	var req paymentapp.ApplyPaymentRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		h.BadRequest(c, err.Error())
		return
	}
	req.TenantID = tenantID

	report, err := h.engine.Apply(c.Request.Context(), req)
	if err != nil {
		h.HandleDomainError(c, err)
		return
	}

	h.Success(c, report)
}
