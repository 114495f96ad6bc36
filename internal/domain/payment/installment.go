package payment

import (
	"fmt"
	"time"

	"github.com/cobranza/backend/internal/domain/shared"
	"github.com/google/uuid"
	"github.com/shopspring/decimal"
)

// InstallmentStatus represents the lifecycle status of an installment
type InstallmentStatus string

const (
	InstallmentStatusPending   InstallmentStatus = "PENDING"   // Awaiting payment
	InstallmentStatusCompleted InstallmentStatus = "COMPLETED" // Fully paid
	InstallmentStatusCancelled InstallmentStatus = "CANCELLED" // Cancelled with its schedule
)

// IsValid checks if the status is a valid InstallmentStatus
func (s InstallmentStatus) IsValid() bool {
	switch s {
	case InstallmentStatusPending, InstallmentStatusCompleted, InstallmentStatusCancelled:
		return true
	}
	return false
}

// String returns the string representation of InstallmentStatus
func (s InstallmentStatus) String() string {
	return string(s)
}

// IsTerminal returns true if the installment is in a terminal state
func (s InstallmentStatus) IsTerminal() bool {
	return s == InstallmentStatusCompleted || s == InstallmentStatusCancelled
}

// Installment is a single dated obligation within a PaymentSchedule.
// It has no existence or identity outside its owning schedule: it is created
// in bulk when the schedule is created and is never deleted independently.
type Installment struct {
	ID       uuid.UUID         `json:"id"`
	Sequence int               `json:"sequence"` // 1-based, unique within the schedule
	Amount   decimal.Decimal   `json:"amount"`
	DueDate  time.Time         `json:"due_date"`
	PaidDate *time.Time        `json:"paid_date,omitempty"`
	Status   InstallmentStatus `json:"status"`
}

// newInstallment creates a pending installment. Only the owning schedule
// constructs installments.
func newInstallment(sequence int, amount decimal.Decimal, dueDate time.Time) Installment {
	return Installment{
		ID:       uuid.New(),
		Sequence: sequence,
		Amount:   amount,
		DueDate:  dueDate,
		Status:   InstallmentStatusPending,
	}
}

// MarkPaid transitions the installment to COMPLETED and stamps the paid date.
// PaidDate is set if and only if the installment is COMPLETED.
func (i *Installment) MarkPaid(date time.Time) error {
	if i.Status.IsTerminal() {
		return shared.NewDomainError("INVALID_STATE",
			fmt.Sprintf("Cannot pay installment %d in %s status", i.Sequence, i.Status))
	}
	i.Status = InstallmentStatusCompleted
	i.PaidDate = &date
	return nil
}

// Cancel transitions the installment to CANCELLED. No paid date is set.
func (i *Installment) Cancel() error {
	if i.Status.IsTerminal() {
		return shared.NewDomainError("INVALID_STATE",
			fmt.Sprintf("Cannot cancel installment %d in %s status", i.Sequence, i.Status))
	}
	i.Status = InstallmentStatusCancelled
	return nil
}

// IsPending returns true if the installment still awaits payment
func (i *Installment) IsPending() bool {
	return i.Status == InstallmentStatusPending
}

// IsPaid returns true if the installment has been paid
func (i *Installment) IsPaid() bool {
	return i.Status == InstallmentStatusCompleted
}

// IsOverdue is a derived predicate: pending and past due at the given instant.
// Overdue is never stored as a status on the installment itself.
func (i *Installment) IsOverdue(now time.Time) bool {
	return i.Status == InstallmentStatusPending && i.DueDate.Before(now)
}
