package payment

import (
	"time"

	"github.com/cobranza/backend/internal/domain/shared"
	"github.com/google/uuid"
	"github.com/shopspring/decimal"
)

// PaymentScheduleCreatedEvent is raised when a new payment schedule is created
type PaymentScheduleCreatedEvent struct {
	shared.BaseDomainEvent
	ScheduleID       uuid.UUID       `json:"schedule_id"`
	CustomerID       string          `json:"customer_id"`
	ManagementID     uuid.UUID       `json:"management_id"`
	ScheduleType     ScheduleType    `json:"schedule_type"`
	TotalAmount      decimal.Decimal `json:"total_amount"`
	InstallmentCount int             `json:"installment_count"`
	StartDate        time.Time       `json:"start_date"`
}

// EventType returns the event type name
func (e *PaymentScheduleCreatedEvent) EventType() string {
	return "PaymentScheduleCreated"
}

// NewPaymentScheduleCreatedEvent creates a new PaymentScheduleCreatedEvent
func NewPaymentScheduleCreatedEvent(ps *PaymentSchedule) *PaymentScheduleCreatedEvent {
	return &PaymentScheduleCreatedEvent{
		BaseDomainEvent:  shared.NewBaseDomainEvent("PaymentScheduleCreated", "PaymentSchedule", ps.ID, ps.TenantID),
		ScheduleID:       ps.ID,
		CustomerID:       ps.CustomerID,
		ManagementID:     ps.ManagementID,
		ScheduleType:     ps.ScheduleType,
		TotalAmount:      ps.TotalAmount,
		InstallmentCount: ps.InstallmentCount,
		StartDate:        ps.StartDate,
	}
}

// InstallmentPaidEvent is raised when an installment transitions to COMPLETED
type InstallmentPaidEvent struct {
	shared.BaseDomainEvent
	ScheduleID    uuid.UUID       `json:"schedule_id"`
	InstallmentID uuid.UUID       `json:"installment_id"`
	CustomerID    string          `json:"customer_id"`
	Sequence      int             `json:"sequence"`
	Amount        decimal.Decimal `json:"amount"`
	PaidDate      time.Time       `json:"paid_date"`
}

// EventType returns the event type name
func (e *InstallmentPaidEvent) EventType() string {
	return "InstallmentPaid"
}

// NewInstallmentPaidEvent creates a new InstallmentPaidEvent
func NewInstallmentPaidEvent(ps *PaymentSchedule, inst *Installment) *InstallmentPaidEvent {
	paidDate := time.Now()
	if inst.PaidDate != nil {
		paidDate = *inst.PaidDate
	}
	return &InstallmentPaidEvent{
		BaseDomainEvent: shared.NewBaseDomainEvent("InstallmentPaid", "PaymentSchedule", ps.ID, ps.TenantID),
		ScheduleID:      ps.ID,
		InstallmentID:   inst.ID,
		CustomerID:      ps.CustomerID,
		Sequence:        inst.Sequence,
		Amount:          inst.Amount,
		PaidDate:        paidDate,
	}
}

// PaymentScheduleCompletedEvent is raised when the last installment of a schedule is paid
type PaymentScheduleCompletedEvent struct {
	shared.BaseDomainEvent
	ScheduleID  uuid.UUID       `json:"schedule_id"`
	CustomerID  string          `json:"customer_id"`
	TotalAmount decimal.Decimal `json:"total_amount"`
}

// EventType returns the event type name
func (e *PaymentScheduleCompletedEvent) EventType() string {
	return "PaymentScheduleCompleted"
}

// NewPaymentScheduleCompletedEvent creates a new PaymentScheduleCompletedEvent
func NewPaymentScheduleCompletedEvent(ps *PaymentSchedule) *PaymentScheduleCompletedEvent {
	return &PaymentScheduleCompletedEvent{
		BaseDomainEvent: shared.NewBaseDomainEvent("PaymentScheduleCompleted", "PaymentSchedule", ps.ID, ps.TenantID),
		ScheduleID:      ps.ID,
		CustomerID:      ps.CustomerID,
		TotalAmount:     ps.TotalAmount,
	}
}

// PaymentScheduleCancelledEvent is raised when a schedule is cancelled
type PaymentScheduleCancelledEvent struct {
	shared.BaseDomainEvent
	ScheduleID uuid.UUID `json:"schedule_id"`
	CustomerID string    `json:"customer_id"`
}

// EventType returns the event type name
func (e *PaymentScheduleCancelledEvent) EventType() string {
	return "PaymentScheduleCancelled"
}

// NewPaymentScheduleCancelledEvent creates a new PaymentScheduleCancelledEvent
func NewPaymentScheduleCancelledEvent(ps *PaymentSchedule) *PaymentScheduleCancelledEvent {
	return &PaymentScheduleCancelledEvent{
		BaseDomainEvent: shared.NewBaseDomainEvent("PaymentScheduleCancelled", "PaymentSchedule", ps.ID, ps.TenantID),
		ScheduleID:      ps.ID,
		CustomerID:      ps.CustomerID,
	}
}
