package payment

import (
	"time"

	"github.com/cobranza/backend/internal/domain/shared"
	"github.com/google/uuid"
	"github.com/shopspring/decimal"
)

// HistoryStatus is the status recorded on an installment history entry.
// OVERDUE exists only in the history for audit and reporting; it is never
// mirrored onto the installment itself.
type HistoryStatus string

const (
	HistoryStatusPending   HistoryStatus = "PENDING"
	HistoryStatusCompleted HistoryStatus = "COMPLETED"
	HistoryStatusOverdue   HistoryStatus = "OVERDUE"
	HistoryStatusCancelled HistoryStatus = "CANCELLED"
)

// IsValid checks if the status is a valid HistoryStatus
func (s HistoryStatus) IsValid() bool {
	switch s {
	case HistoryStatusPending, HistoryStatusCompleted, HistoryStatusOverdue, HistoryStatusCancelled:
		return true
	}
	return false
}

// String returns the string representation of HistoryStatus
func (s HistoryStatus) String() string {
	return string(s)
}

// InstallmentStatusHistory is an immutable audit record appended whenever an
// installment's status changes. Entries reference their installment but are
// not owned by it: once written, a history row survives independently and is
// never mutated or deleted. The live status on the Installment remains the
// source of truth for business logic.
type InstallmentStatusHistory struct {
	shared.BaseEntity
	TenantID      uuid.UUID        `json:"tenant_id"`
	ScheduleID    uuid.UUID        `json:"schedule_id"`
	InstallmentID uuid.UUID        `json:"installment_id"`
	ManagementID  uuid.UUID        `json:"management_id"`
	Status        HistoryStatus    `json:"status"`
	ChangedAt     time.Time        `json:"changed_at"`
	PaymentDate   *time.Time       `json:"payment_date,omitempty"`
	AmountPaid    *decimal.Decimal `json:"amount_paid,omitempty"`
	Observation   string           `json:"observation,omitempty"`
	RegisteredBy  string           `json:"registered_by"`
}

func newHistory(tenantID, scheduleID, installmentID, managementID uuid.UUID, status HistoryStatus, registeredBy string) *InstallmentStatusHistory {
	return &InstallmentStatusHistory{
		BaseEntity:    shared.NewBaseEntity(),
		TenantID:      tenantID,
		ScheduleID:    scheduleID,
		InstallmentID: installmentID,
		ManagementID:  managementID,
		Status:        status,
		ChangedAt:     time.Now(),
		RegisteredBy:  registeredBy,
	}
}

// RecordInitial creates the PENDING entry written once per installment at
// schedule-creation time. No payment fields are set.
func RecordInitial(tenantID, scheduleID, installmentID, managementID uuid.UUID, registeredBy string) *InstallmentStatusHistory {
	return newHistory(tenantID, scheduleID, installmentID, managementID, HistoryStatusPending, registeredBy)
}

// RecordPayment creates a COMPLETED entry for a paid installment
func RecordPayment(
	tenantID, scheduleID, installmentID, managementID uuid.UUID,
	paymentDate time.Time,
	amountPaid decimal.Decimal,
	observation string,
	registeredBy string,
) *InstallmentStatusHistory {
	h := newHistory(tenantID, scheduleID, installmentID, managementID, HistoryStatusCompleted, registeredBy)
	h.PaymentDate = &paymentDate
	h.AmountPaid = &amountPaid
	h.Observation = observation
	return h
}

// RecordOverdue creates an OVERDUE entry for audit and reporting purposes
func RecordOverdue(tenantID, scheduleID, installmentID, managementID uuid.UUID, observation, registeredBy string) *InstallmentStatusHistory {
	h := newHistory(tenantID, scheduleID, installmentID, managementID, HistoryStatusOverdue, registeredBy)
	h.Observation = observation
	return h
}

// RecordCancellation creates a CANCELLED entry for a cancelled installment
func RecordCancellation(tenantID, scheduleID, installmentID, managementID uuid.UUID, observation, registeredBy string) *InstallmentStatusHistory {
	h := newHistory(tenantID, scheduleID, installmentID, managementID, HistoryStatusCancelled, registeredBy)
	h.Observation = observation
	return h
}
