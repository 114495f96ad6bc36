package collection

import (
	"time"

	"github.com/cobranza/backend/internal/domain/shared"
	"github.com/google/uuid"
	"github.com/shopspring/decimal"
)

// ManagementRegisteredEvent is raised when a collection interaction is recorded
type ManagementRegisteredEvent struct {
	shared.BaseDomainEvent
	ManagementID     uuid.UUID        `json:"management_id"`
	CustomerID       string           `json:"customer_id"`
	PortfolioID      uuid.UUID        `json:"portfolio_id"`
	TypificationCode TypificationCode `json:"typification_code"`
	ManagedAt        time.Time        `json:"managed_at"`
	RegisteredBy     string           `json:"registered_by"`
}

// EventType returns the event type name
func (e *ManagementRegisteredEvent) EventType() string {
	return "ManagementRegistered"
}

// NewManagementRegisteredEvent creates a new ManagementRegisteredEvent
func NewManagementRegisteredEvent(m *Management) *ManagementRegisteredEvent {
	return &ManagementRegisteredEvent{
		BaseDomainEvent:  shared.NewBaseDomainEvent("ManagementRegistered", "Management", m.ID, m.TenantID),
		ManagementID:     m.ID,
		CustomerID:       m.CustomerID,
		PortfolioID:      m.PortfolioID,
		TypificationCode: m.TypificationCode,
		ManagedAt:        m.ManagedAt,
		RegisteredBy:     m.RegisteredBy,
	}
}

// PaymentRecordedOnManagementEvent is raised when a management's typification
// qualifies as a payment outcome with a positive reported amount. The
// allocation engine subscribes to this event to apply the amount against the
// customer's active schedules.
type PaymentRecordedOnManagementEvent struct {
	shared.BaseDomainEvent
	ManagementID uuid.UUID       `json:"management_id"`
	CustomerID   string          `json:"customer_id"`
	Amount       decimal.Decimal `json:"amount"`
	RegisteredBy string          `json:"registered_by"`
}

// EventType returns the event type name
func (e *PaymentRecordedOnManagementEvent) EventType() string {
	return "PaymentRecordedOnManagement"
}

// NewPaymentRecordedOnManagementEvent creates a new PaymentRecordedOnManagementEvent
func NewPaymentRecordedOnManagementEvent(m *Management, amount decimal.Decimal) *PaymentRecordedOnManagementEvent {
	return &PaymentRecordedOnManagementEvent{
		BaseDomainEvent: shared.NewBaseDomainEvent("PaymentRecordedOnManagement", "Management", m.ID, m.TenantID),
		ManagementID:    m.ID,
		CustomerID:      m.CustomerID,
		Amount:          amount,
		RegisteredBy:    m.RegisteredBy,
	}
}
