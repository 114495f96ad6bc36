package models

import (
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"

	"github.com/cobranza/backend/internal/domain/payment"
	"github.com/cobranza/backend/internal/domain/shared"
)

// PaymentScheduleModel is the persistence model for the PaymentSchedule aggregate.
// Installments are stored in their own table and loaded with the schedule.
type PaymentScheduleModel struct {
	TenantAggregateModel
	CustomerID       string                 `gorm:"type:varchar(50);not null;index:idx_schedule_tenant_customer,priority:2"`
	ManagementID     uuid.UUID              `gorm:"type:uuid;not null;index"`
	ScheduleType     payment.ScheduleType   `gorm:"type:varchar(20);not null"`
	TotalAmount      decimal.Decimal        `gorm:"type:decimal(18,2);not null"`
	InstallmentCount int                    `gorm:"not null"`
	StartDate        time.Time              `gorm:"not null;index"`
	Active           bool                   `gorm:"not null;index"`
	Installments     []InstallmentModel     `gorm:"foreignKey:ScheduleID;references:ID"`
}

// TableName returns the table name for GORM
func (PaymentScheduleModel) TableName() string {
	return "payment_schedules"
}

// ToDomain converts the persistence model to a domain PaymentSchedule aggregate.
func (m *PaymentScheduleModel) ToDomain() *payment.PaymentSchedule {
	installments := make([]payment.Installment, len(m.Installments))
	for i, inst := range m.Installments {
		installments[i] = inst.ToDomain()
	}

	ps := &payment.PaymentSchedule{
		CustomerID:       m.CustomerID,
		ManagementID:     m.ManagementID,
		ScheduleType:     m.ScheduleType,
		TotalAmount:      m.TotalAmount,
		InstallmentCount: m.InstallmentCount,
		StartDate:        m.StartDate,
		Active:           m.Active,
		Installments:     installments,
	}
	m.PopulateTenantAggregateRoot(&ps.TenantAggregateRoot)
	return ps
}

// FromDomain populates the persistence model from a domain PaymentSchedule aggregate.
func (m *PaymentScheduleModel) FromDomain(ps *payment.PaymentSchedule) {
	m.FromDomainTenantAggregateRoot(ps.TenantAggregateRoot)
	m.CustomerID = ps.CustomerID
	m.ManagementID = ps.ManagementID
	m.ScheduleType = ps.ScheduleType
	m.TotalAmount = ps.TotalAmount
	m.InstallmentCount = ps.InstallmentCount
	m.StartDate = ps.StartDate
	m.Active = ps.Active

	m.Installments = make([]InstallmentModel, len(ps.Installments))
	for i, inst := range ps.Installments {
		m.Installments[i] = InstallmentModelFromDomain(ps.ID, &inst)
	}
}

// PaymentScheduleModelFromDomain creates a new persistence model from a domain aggregate.
func PaymentScheduleModelFromDomain(ps *payment.PaymentSchedule) *PaymentScheduleModel {
	m := &PaymentScheduleModel{}
	m.FromDomain(ps)
	return m
}

// InstallmentModel is the persistence model for installment rows. Installments
// have no life of their own: they are created and updated through their schedule.
type InstallmentModel struct {
	ID         uuid.UUID                 `gorm:"type:uuid;primary_key"`
	ScheduleID uuid.UUID                 `gorm:"type:uuid;not null;uniqueIndex:idx_installment_schedule_seq,priority:1"`
	Sequence   int                       `gorm:"not null;uniqueIndex:idx_installment_schedule_seq,priority:2"`
	Amount     decimal.Decimal           `gorm:"type:decimal(18,2);not null"`
	DueDate    time.Time                 `gorm:"not null;index"`
	PaidDate   *time.Time
	Status     payment.InstallmentStatus `gorm:"type:varchar(20);not null"`
}

// TableName returns the table name for GORM
func (InstallmentModel) TableName() string {
	return "installments"
}

// ToDomain converts the persistence model to a domain Installment.
func (m *InstallmentModel) ToDomain() payment.Installment {
	return payment.Installment{
		ID:       m.ID,
		Sequence: m.Sequence,
		Amount:   m.Amount,
		DueDate:  m.DueDate,
		PaidDate: m.PaidDate,
		Status:   m.Status,
	}
}

// InstallmentModelFromDomain creates a persistence model from a domain Installment.
func InstallmentModelFromDomain(scheduleID uuid.UUID, inst *payment.Installment) InstallmentModel {
	return InstallmentModel{
		ID:         inst.ID,
		ScheduleID: scheduleID,
		Sequence:   inst.Sequence,
		Amount:     inst.Amount,
		DueDate:    inst.DueDate,
		PaidDate:   inst.PaidDate,
		Status:     inst.Status,
	}
}

// InstallmentStatusHistoryModel is the persistence model for the append-only
// audit trail of installment status transitions. Rows are never updated.
type InstallmentStatusHistoryModel struct {
	BaseModel
	TenantID      uuid.UUID             `gorm:"type:uuid;not null;index"`
	ScheduleID    uuid.UUID             `gorm:"type:uuid;not null;index"`
	InstallmentID uuid.UUID             `gorm:"type:uuid;not null;index"`
	ManagementID  uuid.UUID             `gorm:"type:uuid;not null;index"`
	Status        payment.HistoryStatus `gorm:"type:varchar(20);not null"`
	ChangedAt     time.Time             `gorm:"not null;index"`
	PaymentDate   *time.Time
	AmountPaid    *decimal.Decimal      `gorm:"type:decimal(18,2)"`
	Observation   string                `gorm:"type:text"`
	RegisteredBy  string                `gorm:"type:varchar(100);not null"`
}

// TableName returns the table name for GORM
func (InstallmentStatusHistoryModel) TableName() string {
	return "installment_status_histories"
}

// ToDomain converts the persistence model to a domain history entry.
func (m *InstallmentStatusHistoryModel) ToDomain() *payment.InstallmentStatusHistory {
	return &payment.InstallmentStatusHistory{
		BaseEntity: shared.BaseEntity{
			ID:        m.ID,
			CreatedAt: m.CreatedAt,
			UpdatedAt: m.UpdatedAt,
		},
		TenantID:      m.TenantID,
		ScheduleID:    m.ScheduleID,
		InstallmentID: m.InstallmentID,
		ManagementID:  m.ManagementID,
		Status:        m.Status,
		ChangedAt:     m.ChangedAt,
		PaymentDate:   m.PaymentDate,
		AmountPaid:    m.AmountPaid,
		Observation:   m.Observation,
		RegisteredBy:  m.RegisteredBy,
	}
}

// HistoryModelFromDomain creates a persistence model from a domain history entry.
func HistoryModelFromDomain(h *payment.InstallmentStatusHistory) *InstallmentStatusHistoryModel {
	m := &InstallmentStatusHistoryModel{
		TenantID:      h.TenantID,
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
	m.FromDomainBaseEntity(h.BaseEntity)
	return m
}

// PaymentModel is the persistence model for standalone Payment records.
type PaymentModel struct {
	TenantAggregateModel
	CustomerID    string                `gorm:"type:varchar(50);not null;index:idx_payment_tenant_customer,priority:2"`
	ManagementID  uuid.UUID             `gorm:"type:uuid;not null;index"`
	Amount        decimal.Decimal       `gorm:"type:decimal(18,2);not null"`
	PaymentDate   time.Time             `gorm:"not null;index"`
	Method        payment.PaymentMethod `gorm:"type:varchar(20);not null"`
	Status        payment.PaymentStatus `gorm:"type:varchar(20);not null;index"`
	TransactionID string                `gorm:"type:varchar(100)"`
	VoucherNumber string                `gorm:"type:varchar(100)"`
	BankName      string                `gorm:"type:varchar(100)"`
	Notes         string                `gorm:"type:text"`
	ConfirmedAt   *time.Time
	CancelledAt   *time.Time
}

// TableName returns the table name for GORM
func (PaymentModel) TableName() string {
	return "payments"
}

// ToDomain converts the persistence model to a domain Payment aggregate.
func (m *PaymentModel) ToDomain() *payment.Payment {
	p := &payment.Payment{
		CustomerID:    m.CustomerID,
		ManagementID:  m.ManagementID,
		Amount:        m.Amount,
		PaymentDate:   m.PaymentDate,
		Method:        m.Method,
		Status:        m.Status,
		TransactionID: m.TransactionID,
		VoucherNumber: m.VoucherNumber,
		BankName:      m.BankName,
		Notes:         m.Notes,
		ConfirmedAt:   m.ConfirmedAt,
		CancelledAt:   m.CancelledAt,
	}
	m.PopulateTenantAggregateRoot(&p.TenantAggregateRoot)
	return p
}

// FromDomain populates the persistence model from a domain Payment aggregate.
func (m *PaymentModel) FromDomain(p *payment.Payment) {
	m.FromDomainTenantAggregateRoot(p.TenantAggregateRoot)
	m.CustomerID = p.CustomerID
	m.ManagementID = p.ManagementID
	m.Amount = p.Amount
	m.PaymentDate = p.PaymentDate
	m.Method = p.Method
	m.Status = p.Status
	m.TransactionID = p.TransactionID
	m.VoucherNumber = p.VoucherNumber
	m.BankName = p.BankName
	m.Notes = p.Notes
	m.ConfirmedAt = p.ConfirmedAt
	m.CancelledAt = p.CancelledAt
}

// PaymentModelFromDomain creates a new persistence model from a domain Payment.
func PaymentModelFromDomain(p *payment.Payment) *PaymentModel {
	m := &PaymentModel{}
	m.FromDomain(p)
	return m
}
