package payment

import (
	"time"

	"github.com/cobranza/backend/internal/domain/payment"
	"github.com/google/uuid"
	"github.com/shopspring/decimal"
)

// InstallmentResponse represents an installment in API responses
type InstallmentResponse struct {
	ID       uuid.UUID                 `json:"id"`
	Sequence int                       `json:"sequence"`
	Amount   decimal.Decimal           `json:"amount"`
	DueDate  time.Time                 `json:"due_date"`
	PaidDate *time.Time                `json:"paid_date,omitempty"`
	Status   payment.InstallmentStatus `json:"status"`
	Overdue  bool                      `json:"overdue"`
}

// ScheduleResponse represents a payment schedule in API responses
type ScheduleResponse struct {
	ID               uuid.UUID             `json:"id"`
	TenantID         uuid.UUID             `json:"tenant_id"`
	CustomerID       string                `json:"customer_id"`
	ManagementID     uuid.UUID             `json:"management_id"`
	ScheduleType     payment.ScheduleType  `json:"schedule_type"`
	TotalAmount      decimal.Decimal       `json:"total_amount"`
	PaidAmount       decimal.Decimal       `json:"paid_amount"`
	PendingAmount    decimal.Decimal       `json:"pending_amount"`
	InstallmentCount int                   `json:"installment_count"`
	PaidCount        int                   `json:"paid_count"`
	StartDate        time.Time             `json:"start_date"`
	Active           bool                  `json:"active"`
	FullyPaid        bool                  `json:"fully_paid"`
	Installments     []InstallmentResponse `json:"installments,omitempty"`
	CreatedAt        time.Time             `json:"created_at"`
	UpdatedAt        time.Time             `json:"updated_at"`
	Version          int                   `json:"version"`
}

// ToInstallmentResponse converts an installment to its response representation
func ToInstallmentResponse(inst *payment.Installment, now time.Time) InstallmentResponse {
	return InstallmentResponse{
		ID:       inst.ID,
		Sequence: inst.Sequence,
		Amount:   inst.Amount,
		DueDate:  inst.DueDate,
		PaidDate: inst.PaidDate,
		Status:   inst.Status,
		Overdue:  inst.IsOverdue(now),
	}
}

// ToScheduleResponse converts a schedule aggregate to its response representation
func ToScheduleResponse(ps *payment.PaymentSchedule) ScheduleResponse {
	now := time.Now()
	installments := make([]InstallmentResponse, 0, len(ps.Installments))
	for i := range ps.Installments {
		installments = append(installments, ToInstallmentResponse(&ps.Installments[i], now))
	}
	return ScheduleResponse{
		ID:               ps.ID,
		TenantID:         ps.TenantID,
		CustomerID:       ps.CustomerID,
		ManagementID:     ps.ManagementID,
		ScheduleType:     ps.ScheduleType,
		TotalAmount:      ps.TotalAmount,
		PaidAmount:       ps.PaidAmount(),
		PendingAmount:    ps.PendingAmount(),
		InstallmentCount: ps.InstallmentCount,
		PaidCount:        ps.PaidCount(),
		StartDate:        ps.StartDate,
		Active:           ps.Active,
		FullyPaid:        ps.IsFullyPaid(),
		Installments:     installments,
		CreatedAt:        ps.CreatedAt,
		UpdatedAt:        ps.UpdatedAt,
		Version:          ps.Version,
	}
}

// HistoryEntryResponse represents a status history entry in API responses
type HistoryEntryResponse struct {
	ID            uuid.UUID             `json:"id"`
	ScheduleID    uuid.UUID             `json:"schedule_id"`
	InstallmentID uuid.UUID             `json:"installment_id"`
	ManagementID  uuid.UUID             `json:"management_id"`
	Status        payment.HistoryStatus `json:"status"`
	ChangedAt     time.Time             `json:"changed_at"`
	PaymentDate   *time.Time            `json:"payment_date,omitempty"`
	AmountPaid    *decimal.Decimal      `json:"amount_paid,omitempty"`
	Observation   string                `json:"observation,omitempty"`
	RegisteredBy  string                `json:"registered_by"`
}

// ToHistoryEntryResponse converts a history entry to its response representation
func ToHistoryEntryResponse(h *payment.InstallmentStatusHistory) HistoryEntryResponse {
	return HistoryEntryResponse{
		ID:            h.ID,
		ScheduleID:    h.ScheduleID,
		InstallmentID: h.InstallmentID,
		ManagementID:  h.ManagementID,
		Status:        h.Status,
		ChangedAt:     h.ChangedAt,
		PaymentDate:   h.PaymentDate,
		AmountPaid:    h.AmountPaid,
		Observation:   h.Observation,
		RegisteredBy:  h.RegisteredBy,
	}
}

// PaymentResponse represents a payment in API responses
type PaymentResponse struct {
	ID            uuid.UUID             `json:"id"`
	TenantID      uuid.UUID             `json:"tenant_id"`
	CustomerID    string                `json:"customer_id"`
	ManagementID  uuid.UUID             `json:"management_id"`
	Amount        decimal.Decimal       `json:"amount"`
	PaymentDate   time.Time             `json:"payment_date"`
	Method        payment.PaymentMethod `json:"method"`
	Status        payment.PaymentStatus `json:"status"`
	TransactionID string                `json:"transaction_id,omitempty"`
	VoucherNumber string                `json:"voucher_number,omitempty"`
	BankName      string                `json:"bank_name,omitempty"`
	Notes         string                `json:"notes,omitempty"`
	ConfirmedAt   *time.Time            `json:"confirmed_at,omitempty"`
	CancelledAt   *time.Time            `json:"cancelled_at,omitempty"`
	CreatedAt     time.Time             `json:"created_at"`
	UpdatedAt     time.Time             `json:"updated_at"`
	Version       int                   `json:"version"`
}

// ToPaymentResponse converts a payment aggregate to its response representation
func ToPaymentResponse(p *payment.Payment) PaymentResponse {
	return PaymentResponse{
		ID:            p.ID,
		TenantID:      p.TenantID,
		CustomerID:    p.CustomerID,
		ManagementID:  p.ManagementID,
		Amount:        p.Amount,
		PaymentDate:   p.PaymentDate,
		Method:        p.Method,
		Status:        p.Status,
		TransactionID: p.TransactionID,
		VoucherNumber: p.VoucherNumber,
		BankName:      p.BankName,
		Notes:         p.Notes,
		ConfirmedAt:   p.ConfirmedAt,
		CancelledAt:   p.CancelledAt,
		CreatedAt:     p.CreatedAt,
		UpdatedAt:     p.UpdatedAt,
		Version:       p.Version,
	}
}
