package payment

import (
	"fmt"
	"strings"
	"time"

	"github.com/cobranza/backend/internal/domain/shared"
	"github.com/google/uuid"
	"github.com/shopspring/decimal"
)

// PaymentStatus represents the lifecycle status of a standalone payment
type PaymentStatus string

const (
	PaymentStatusPending   PaymentStatus = "PENDING"
	PaymentStatusCompleted PaymentStatus = "COMPLETED"
	PaymentStatusCancelled PaymentStatus = "CANCELLED"
)

// IsValid checks if the status is a valid PaymentStatus
func (s PaymentStatus) IsValid() bool {
	switch s {
	case PaymentStatusPending, PaymentStatusCompleted, PaymentStatusCancelled:
		return true
	}
	return false
}

// String returns the string representation of PaymentStatus
func (s PaymentStatus) String() string {
	return string(s)
}

// IsTerminal returns true if the payment is in a terminal state
func (s PaymentStatus) IsTerminal() bool {
	return s == PaymentStatusCompleted || s == PaymentStatusCancelled
}

// PaymentMethod represents how a payment was received
type PaymentMethod string

const (
	PaymentMethodCash         PaymentMethod = "CASH"
	PaymentMethodBankTransfer PaymentMethod = "BANK_TRANSFER"
	PaymentMethodCard         PaymentMethod = "CARD"
	PaymentMethodAgent        PaymentMethod = "AGENT" // Collected in the field by an agent
)

// IsValid checks if the payment method is valid
func (m PaymentMethod) IsValid() bool {
	switch m {
	case PaymentMethodCash, PaymentMethodBankTransfer, PaymentMethodCard, PaymentMethodAgent:
		return true
	}
	return false
}

// Payment is a standalone record of money received from a customer. It is not
// tied to any schedule; allocation against installments happens separately
// through the allocation engine. Invariant: TransactionID is present iff the
// payment is COMPLETED.
type Payment struct {
	shared.TenantAggregateRoot
	CustomerID    string          `json:"customer_id"`
	ManagementID  uuid.UUID       `json:"management_id"`
	Amount        decimal.Decimal `json:"amount"`
	PaymentDate   time.Time       `json:"payment_date"`
	Method        PaymentMethod   `json:"method"`
	Status        PaymentStatus   `json:"status"`
	TransactionID string          `json:"transaction_id,omitempty"`
	VoucherNumber string          `json:"voucher_number,omitempty"`
	BankName      string          `json:"bank_name,omitempty"`
	Notes         string          `json:"notes,omitempty"`
	ConfirmedAt   *time.Time      `json:"confirmed_at,omitempty"`
	CancelledAt   *time.Time      `json:"cancelled_at,omitempty"`
}

// NewPayment creates a PENDING payment
func NewPayment(
	tenantID uuid.UUID,
	customerID string,
	managementID uuid.UUID,
	amount decimal.Decimal,
	paymentDate time.Time,
	method PaymentMethod,
) (*Payment, error) {
	if customerID == "" {
		return nil, shared.NewDomainError("INVALID_CUSTOMER", "Customer ID cannot be empty")
	}
	if managementID == uuid.Nil {
		return nil, shared.NewDomainError("INVALID_MANAGEMENT", "Management ID cannot be empty")
	}
	if amount.LessThanOrEqual(decimal.Zero) {
		return nil, shared.NewDomainError("INVALID_AMOUNT", "Payment amount must be positive")
	}
	if !method.IsValid() {
		return nil, shared.NewDomainError("INVALID_METHOD", "Payment method is not valid")
	}

	p := &Payment{
		TenantAggregateRoot: shared.NewTenantAggregateRoot(tenantID),
		CustomerID:          customerID,
		ManagementID:        managementID,
		Amount:              amount,
		PaymentDate:         paymentDate,
		Method:              method,
		Status:              PaymentStatusPending,
	}

	p.AddDomainEvent(NewPaymentCreatedEvent(p))

	return p, nil
}

// Confirm marks the payment COMPLETED, storing the settlement transaction id.
// Confirming an already confirmed payment is a state conflict.
func (p *Payment) Confirm(transactionID string) error {
	if p.Status == PaymentStatusCompleted {
		return shared.NewDomainError("ALREADY_CONFIRMED", "Payment has already been confirmed")
	}
	if p.Status == PaymentStatusCancelled {
		return shared.NewDomainError("INVALID_STATE", "Cannot confirm a cancelled payment")
	}
	if strings.TrimSpace(transactionID) == "" {
		return shared.NewDomainError("INVALID_TRANSACTION", "Transaction ID is required to confirm a payment")
	}

	now := time.Now()
	p.Status = PaymentStatusCompleted
	p.TransactionID = transactionID
	p.ConfirmedAt = &now
	p.UpdatedAt = now
	p.IncrementVersion()

	p.AddDomainEvent(NewPaymentConfirmedEvent(p))

	return nil
}

// Cancel marks the payment CANCELLED. A confirmed payment cannot be cancelled;
// settled money needs a compensating entry, not a status flip. Cancelling an
// already cancelled payment is a no-op.
func (p *Payment) Cancel() error {
	if p.Status == PaymentStatusCancelled {
		return nil
	}
	if p.Status == PaymentStatusCompleted {
		return shared.NewDomainError("INVALID_STATE",
			fmt.Sprintf("Cannot cancel payment in %s status", p.Status))
	}

	now := time.Now()
	p.Status = PaymentStatusCancelled
	p.CancelledAt = &now
	p.UpdatedAt = now
	p.IncrementVersion()

	p.AddDomainEvent(NewPaymentCancelledEvent(p))

	return nil
}

// SetVoucherDetails attaches voucher/bank metadata without a status change
func (p *Payment) SetVoucherDetails(voucherNumber, bankName string) {
	p.VoucherNumber = voucherNumber
	p.BankName = bankName
	p.UpdatedAt = time.Now()
	p.IncrementVersion()
}

// AddNotes appends free-text notes without a status change
func (p *Payment) AddNotes(notes string) {
	if notes == "" {
		return
	}
	if p.Notes != "" {
		p.Notes += "\n"
	}
	p.Notes += notes
	p.UpdatedAt = time.Now()
	p.IncrementVersion()
}

// IsConfirmed returns true if the payment is COMPLETED
func (p *Payment) IsConfirmed() bool {
	return p.Status == PaymentStatusCompleted
}
