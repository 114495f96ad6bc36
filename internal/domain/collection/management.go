package collection

import (
	"strings"
	"time"

	"github.com/cobranza/backend/internal/domain/shared"
	"github.com/google/uuid"
	"github.com/shopspring/decimal"
)

// Management is the aggregate root for a recorded collection interaction: a
// call, visit, or message with its outcome typification. A management whose
// typification qualifies as a payment outcome is the trigger point for
// applying the reported amount against the customer's schedules; that trigger
// is modelled as an explicit domain event rather than a direct call into the
// payment aggregate.
type Management struct {
	shared.TenantAggregateRoot
	CustomerID       string           `json:"customer_id"` // Opaque key shared with payment records
	PortfolioID      uuid.UUID        `json:"portfolio_id"`
	CampaignID       *uuid.UUID       `json:"campaign_id,omitempty"`
	TypificationCode TypificationCode `json:"typification_code"`
	Observation      string           `json:"observation,omitempty"`
	ContactPhone     string           `json:"contact_phone,omitempty"`
	PaymentAmount    *decimal.Decimal `json:"payment_amount,omitempty"` // Reported by the customer, if any
	ManagedAt        time.Time        `json:"managed_at"`
	RegisteredBy     string           `json:"registered_by"`
}

// NewManagement records a collection interaction
func NewManagement(
	tenantID uuid.UUID,
	customerID string,
	portfolioID uuid.UUID,
	campaignID *uuid.UUID,
	typification TypificationCode,
	observation string,
	contactPhone string,
	paymentAmount *decimal.Decimal,
	managedAt time.Time,
	registeredBy string,
) (*Management, error) {
	if customerID == "" {
		return nil, shared.NewDomainError("INVALID_CUSTOMER", "Customer ID cannot be empty")
	}
	if portfolioID == uuid.Nil {
		return nil, shared.NewDomainError("INVALID_PORTFOLIO", "Portfolio ID cannot be empty")
	}
	if strings.TrimSpace(string(typification)) == "" {
		return nil, shared.NewDomainError("INVALID_TYPIFICATION", "Typification code cannot be empty")
	}
	if paymentAmount != nil && paymentAmount.LessThanOrEqual(decimal.Zero) {
		return nil, shared.NewDomainError("INVALID_AMOUNT", "Reported payment amount must be positive")
	}
	if registeredBy == "" {
		return nil, shared.NewDomainError("INVALID_ACTOR", "Registering actor is required")
	}

	m := &Management{
		TenantAggregateRoot: shared.NewTenantAggregateRootWithCreator(tenantID, registeredBy),
		CustomerID:          customerID,
		PortfolioID:         portfolioID,
		CampaignID:          campaignID,
		TypificationCode:    typification,
		Observation:         observation,
		ContactPhone:        contactPhone,
		PaymentAmount:       paymentAmount,
		ManagedAt:           managedAt,
		RegisteredBy:        registeredBy,
	}

	m.AddDomainEvent(NewManagementRegisteredEvent(m))

	return m, nil
}

// EvaluatePaymentTrigger raises PaymentRecordedOnManagement when the
// management's typification qualifies as a payment outcome and a positive
// amount was reported. Returns true when the event was raised. Whether a code
// qualifies is external policy, injected here so the trigger point stays
// testable in isolation.
func (m *Management) EvaluatePaymentTrigger(policy TypificationPolicy) bool {
	if m.PaymentAmount == nil || !m.PaymentAmount.IsPositive() {
		return false
	}
	if !policy.AppliesPaymentToSchedule(m.TypificationCode) {
		return false
	}
	m.AddDomainEvent(NewPaymentRecordedOnManagementEvent(m, *m.PaymentAmount))
	return true
}

// HasReportedPayment returns true if a payment amount was reported on this management.
func (m *Management) HasReportedPayment() bool {
	return m.PaymentAmount != nil && m.PaymentAmount.IsPositive()
}
