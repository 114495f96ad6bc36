package payment

import (
	"context"
	"time"

	"github.com/cobranza/backend/internal/domain/shared"
	"github.com/google/uuid"
)

// ScheduleFilter defines filtering options for payment schedule queries
type ScheduleFilter struct {
	shared.Filter
	CustomerID   *string    // Filter by customer
	ManagementID *uuid.UUID // Filter by originating management
	Active       *bool      // Filter by active flag
	StartFrom    *time.Time // Filter by start date range start
	StartTo      *time.Time // Filter by start date range end
}

// PaymentScheduleRepository defines persistence for payment schedules.
// Implementations load and save the whole aggregate including installments.
type PaymentScheduleRepository interface {
	// FindByID finds a schedule by ID
	FindByID(ctx context.Context, id uuid.UUID) (*PaymentSchedule, error)

	// FindByIDForTenant finds a schedule by ID for a specific tenant
	FindByIDForTenant(ctx context.Context, tenantID, id uuid.UUID) (*PaymentSchedule, error)

	// FindByManagement finds schedules originating from a management
	FindByManagement(ctx context.Context, tenantID, managementID uuid.UUID) ([]PaymentSchedule, error)

	// FindByCustomer finds schedules for a customer with filtering
	FindByCustomer(ctx context.Context, tenantID uuid.UUID, customerID string, filter ScheduleFilter) ([]PaymentSchedule, error)

	// FindActiveByCustomer finds a customer's active schedules ordered by
	// start date ascending. The ordering is part of the allocation contract.
	FindActiveByCustomer(ctx context.Context, tenantID uuid.UUID, customerID string) ([]PaymentSchedule, error)

	// FindAllForTenant finds schedules for a tenant with filtering
	FindAllForTenant(ctx context.Context, tenantID uuid.UUID, filter ScheduleFilter) ([]PaymentSchedule, error)

	// Save creates or updates a schedule with its installments
	Save(ctx context.Context, schedule *PaymentSchedule) error

	// SaveWithLock saves with optimistic locking (version check)
	SaveWithLock(ctx context.Context, schedule *PaymentSchedule) error

	// CountForTenant counts schedules for a tenant with optional filters
	CountForTenant(ctx context.Context, tenantID uuid.UUID, filter ScheduleFilter) (int64, error)
}

// HistoryFilter defines filtering options for status history queries
type HistoryFilter struct {
	shared.Filter
	Status *HistoryStatus
	From   *time.Time
	To     *time.Time
}

// InstallmentStatusHistoryRepository persists the append-only audit trail.
// There is no update or delete; rows are only ever appended and read.
type InstallmentStatusHistoryRepository interface {
	// Append persists a new history entry
	Append(ctx context.Context, entry *InstallmentStatusHistory) error

	// AppendAll persists a batch of history entries
	AppendAll(ctx context.Context, entries []*InstallmentStatusHistory) error

	// FindByInstallment returns entries for an installment, oldest first
	FindByInstallment(ctx context.Context, tenantID, installmentID uuid.UUID) ([]InstallmentStatusHistory, error)

	// FindBySchedule returns entries for every installment of a schedule
	FindBySchedule(ctx context.Context, tenantID, scheduleID uuid.UUID, filter HistoryFilter) ([]InstallmentStatusHistory, error)

	// FindByManagement returns entries recorded under a management
	FindByManagement(ctx context.Context, tenantID, managementID uuid.UUID) ([]InstallmentStatusHistory, error)
}

// PaymentFilter defines filtering options for payment queries
type PaymentFilter struct {
	shared.Filter
	CustomerID   *string
	ManagementID *uuid.UUID
	Status       *PaymentStatus
	Method       *PaymentMethod
	From         *time.Time
	To           *time.Time
}

// PaymentRepository defines persistence for standalone payments
type PaymentRepository interface {
	// FindByID finds a payment by ID
	FindByID(ctx context.Context, id uuid.UUID) (*Payment, error)

	// FindByIDForTenant finds a payment by ID for a specific tenant
	FindByIDForTenant(ctx context.Context, tenantID, id uuid.UUID) (*Payment, error)

	// FindByCustomer finds payments for a customer with filtering
	FindByCustomer(ctx context.Context, tenantID uuid.UUID, customerID string, filter PaymentFilter) ([]Payment, error)

	// FindAllForTenant finds payments for a tenant with filtering
	FindAllForTenant(ctx context.Context, tenantID uuid.UUID, filter PaymentFilter) ([]Payment, error)

	// Save creates or updates a payment
	Save(ctx context.Context, payment *Payment) error

	// SaveWithLock saves with optimistic locking (version check)
	SaveWithLock(ctx context.Context, payment *Payment) error

	// CountForTenant counts payments for a tenant with optional filters
	CountForTenant(ctx context.Context, tenantID uuid.UUID, filter PaymentFilter) (int64, error)
}
