package payment

import (
	"fmt"
	"sort"
	"time"

	"github.com/cobranza/backend/internal/domain/shared"
	"github.com/cobranza/backend/internal/domain/shared/valueobject"
	"github.com/google/uuid"
	"github.com/shopspring/decimal"
)

// ScheduleType indicates how the schedule's installments were determined
type ScheduleType string

const (
	ScheduleTypeEvenSplit  ScheduleType = "EVEN_SPLIT" // Total divided evenly across installments
	ScheduleTypeNegotiated ScheduleType = "NEGOTIATED" // Per-installment amounts supplied by the negotiator
)

// IsValid checks if the schedule type is valid
func (t ScheduleType) IsValid() bool {
	return t == ScheduleTypeEvenSplit || t == ScheduleTypeNegotiated
}

// String returns the string representation of ScheduleType
func (t ScheduleType) String() string {
	return string(t)
}

// InstallmentInput carries caller-supplied installment data for negotiated schedules
type InstallmentInput struct {
	Sequence int
	Amount   decimal.Decimal
	DueDate  time.Time
}

// PaymentSchedule is the aggregate root for a negotiated decomposition of a
// debt amount into dated installments. Installments are exclusively owned by
// the schedule; cancelling the schedule cascades to every non-terminal
// installment. Schedules are never physically deleted.
type PaymentSchedule struct {
	shared.TenantAggregateRoot
	CustomerID       string          `json:"customer_id"` // Opaque key shared with collection management records
	ManagementID     uuid.UUID       `json:"management_id"`
	ScheduleType     ScheduleType    `json:"schedule_type"`
	TotalAmount      decimal.Decimal `json:"total_amount"`
	InstallmentCount int             `json:"installment_count"`
	StartDate        time.Time       `json:"start_date"`
	Active           bool            `json:"active"`
	Installments     []Installment   `json:"installments"`
}

// NewPaymentSchedule creates a schedule with count installments due monthly
// from startDate, each amounting to totalAmount/count rounded half-up to two
// decimals. The rounding remainder is an accepted approximation and is not
// redistributed across installments.
func NewPaymentSchedule(
	tenantID uuid.UUID,
	customerID string,
	managementID uuid.UUID,
	totalAmount decimal.Decimal,
	count int,
	startDate time.Time,
) (*PaymentSchedule, error) {
	if customerID == "" {
		return nil, shared.NewDomainError("INVALID_CUSTOMER", "Customer ID cannot be empty")
	}
	if managementID == uuid.Nil {
		return nil, shared.NewDomainError("INVALID_MANAGEMENT", "Management ID cannot be empty")
	}
	if totalAmount.LessThanOrEqual(decimal.Zero) {
		return nil, shared.NewDomainError("INVALID_AMOUNT", "Total amount must be positive")
	}
	if count < 1 {
		return nil, shared.NewDomainError("INVALID_COUNT", "Installment count must be at least 1")
	}

	part, err := valueobject.NewMoneyPEN(totalAmount).SplitBy(count)
	if err != nil {
		return nil, shared.NewDomainError("INVALID_COUNT", err.Error())
	}
	installments := make([]Installment, 0, count)
	for i := 1; i <= count; i++ {
		dueDate := startDate.AddDate(0, i-1, 0)
		installments = append(installments, newInstallment(i, part.Amount(), dueDate))
	}

	ps := &PaymentSchedule{
		TenantAggregateRoot: shared.NewTenantAggregateRoot(tenantID),
		CustomerID:          customerID,
		ManagementID:        managementID,
		ScheduleType:        ScheduleTypeEvenSplit,
		TotalAmount:         totalAmount,
		InstallmentCount:    count,
		StartDate:           startDate,
		Active:              true,
		Installments:        installments,
	}

	ps.AddDomainEvent(NewPaymentScheduleCreatedEvent(ps))

	return ps, nil
}

// NewPaymentScheduleWithInstallments creates a schedule from caller-supplied
// per-installment data, taken verbatim. The stored total amount is the sum of
// the supplied amounts, recomputed here rather than trusted from the caller's
// negotiated figure.
func NewPaymentScheduleWithInstallments(
	tenantID uuid.UUID,
	customerID string,
	managementID uuid.UUID,
	scheduleType ScheduleType,
	items []InstallmentInput,
) (*PaymentSchedule, error) {
	if customerID == "" {
		return nil, shared.NewDomainError("INVALID_CUSTOMER", "Customer ID cannot be empty")
	}
	if managementID == uuid.Nil {
		return nil, shared.NewDomainError("INVALID_MANAGEMENT", "Management ID cannot be empty")
	}
	if !scheduleType.IsValid() {
		return nil, shared.NewDomainError("INVALID_SCHEDULE_TYPE", "Schedule type is not valid")
	}
	if len(items) == 0 {
		return nil, shared.NewDomainError("EMPTY_INSTALLMENTS", "Installment list cannot be empty")
	}

	total := decimal.Zero
	installments := make([]Installment, 0, len(items))
	seen := make(map[int]bool, len(items))
	for _, item := range items {
		if item.Sequence < 1 {
			return nil, shared.NewDomainError("INVALID_SEQUENCE",
				fmt.Sprintf("Installment sequence %d must be positive", item.Sequence))
		}
		if seen[item.Sequence] {
			return nil, shared.NewDomainError("DUPLICATE_SEQUENCE",
				fmt.Sprintf("Installment sequence %d appears more than once", item.Sequence))
		}
		if item.Amount.LessThanOrEqual(decimal.Zero) {
			return nil, shared.NewDomainError("INVALID_AMOUNT",
				fmt.Sprintf("Installment %d amount must be positive", item.Sequence))
		}
		seen[item.Sequence] = true
		total = total.Add(item.Amount)
		installments = append(installments, newInstallment(item.Sequence, item.Amount, item.DueDate))
	}

	sort.Slice(installments, func(a, b int) bool {
		return installments[a].Sequence < installments[b].Sequence
	})

	ps := &PaymentSchedule{
		TenantAggregateRoot: shared.NewTenantAggregateRoot(tenantID),
		CustomerID:          customerID,
		ManagementID:        managementID,
		ScheduleType:        scheduleType,
		TotalAmount:         total,
		InstallmentCount:    len(installments),
		StartDate:           installments[0].DueDate,
		Active:              true,
		Installments:        installments,
	}

	ps.AddDomainEvent(NewPaymentScheduleCreatedEvent(ps))

	return ps, nil
}

// InstallmentBySequence returns the installment with the given sequence number
func (ps *PaymentSchedule) InstallmentBySequence(sequence int) (*Installment, error) {
	for i := range ps.Installments {
		if ps.Installments[i].Sequence == sequence {
			return &ps.Installments[i], nil
		}
	}
	return nil, shared.NewDomainError("INSTALLMENT_NOT_FOUND",
		fmt.Sprintf("Schedule has no installment with sequence %d", sequence))
}

// PendingInstallments returns the pending installments ordered by due date
// ascending. This ordering determines which installments are consumed first
// during allocation and must stay deterministic.
func (ps *PaymentSchedule) PendingInstallments() []*Installment {
	pending := make([]*Installment, 0, len(ps.Installments))
	for i := range ps.Installments {
		if ps.Installments[i].IsPending() {
			pending = append(pending, &ps.Installments[i])
		}
	}
	sort.SliceStable(pending, func(a, b int) bool {
		if pending[a].DueDate.Equal(pending[b].DueDate) {
			return pending[a].Sequence < pending[b].Sequence
		}
		return pending[a].DueDate.Before(pending[b].DueDate)
	})
	return pending
}

// MarkInstallmentPaid marks the installment with the given sequence as paid.
// When the last pending installment completes, a schedule-completed event is
// raised.
func (ps *PaymentSchedule) MarkInstallmentPaid(sequence int, date time.Time) (*Installment, error) {
	if !ps.Active {
		return nil, shared.NewDomainError("INVALID_STATE", "Cannot record payment on an inactive schedule")
	}
	inst, err := ps.InstallmentBySequence(sequence)
	if err != nil {
		return nil, err
	}
	if err := inst.MarkPaid(date); err != nil {
		return nil, err
	}

	ps.AddDomainEvent(NewInstallmentPaidEvent(ps, inst))
	if ps.IsFullyPaid() {
		ps.AddDomainEvent(NewPaymentScheduleCompletedEvent(ps))
	}

	ps.UpdatedAt = time.Now()
	ps.IncrementVersion()

	return inst, nil
}

// Cancel deactivates the schedule and cancels every non-terminal installment.
// Calling Cancel on an already cancelled schedule is a no-op.
func (ps *PaymentSchedule) Cancel() {
	if !ps.Active {
		return
	}
	for i := range ps.Installments {
		if !ps.Installments[i].Status.IsTerminal() {
			ps.Installments[i].Status = InstallmentStatusCancelled
		}
	}
	ps.Active = false
	ps.UpdatedAt = time.Now()
	ps.IncrementVersion()

	ps.AddDomainEvent(NewPaymentScheduleCancelledEvent(ps))
}

// PaidAmount returns the sum of COMPLETED installment amounts
func (ps *PaymentSchedule) PaidAmount() decimal.Decimal {
	paid := decimal.Zero
	for i := range ps.Installments {
		if ps.Installments[i].IsPaid() {
			paid = paid.Add(ps.Installments[i].Amount)
		}
	}
	return paid
}

// PendingAmount returns total amount minus paid amount
func (ps *PaymentSchedule) PendingAmount() decimal.Decimal {
	return ps.TotalAmount.Sub(ps.PaidAmount())
}

// PaidCount returns the number of COMPLETED installments
func (ps *PaymentSchedule) PaidCount() int {
	count := 0
	for i := range ps.Installments {
		if ps.Installments[i].IsPaid() {
			count++
		}
	}
	return count
}

// PendingCount returns the number of PENDING installments
func (ps *PaymentSchedule) PendingCount() int {
	count := 0
	for i := range ps.Installments {
		if ps.Installments[i].IsPending() {
			count++
		}
	}
	return count
}

// IsFullyPaid returns true when every installment is COMPLETED
func (ps *PaymentSchedule) IsFullyPaid() bool {
	return ps.PaidCount() == ps.InstallmentCount
}

// OverdueInstallments returns pending installments past due at the given instant
func (ps *PaymentSchedule) OverdueInstallments(now time.Time) []*Installment {
	overdue := make([]*Installment, 0)
	for i := range ps.Installments {
		if ps.Installments[i].IsOverdue(now) {
			overdue = append(overdue, &ps.Installments[i])
		}
	}
	return overdue
}
