package payment

import (
	"context"
	"fmt"
	"time"

	"github.com/cobranza/backend/internal/domain/payment"
	"github.com/cobranza/backend/internal/domain/shared"
	"github.com/google/uuid"
	"github.com/shopspring/decimal"
	"go.uber.org/zap"
)

// ScheduleService handles payment schedule lifecycle operations
type ScheduleService struct {
	scheduleRepo   payment.PaymentScheduleRepository
	historyRepo    payment.InstallmentStatusHistoryRepository
	eventPublisher shared.EventPublisher
	logger         *zap.Logger
}

// NewScheduleService creates a new ScheduleService
func NewScheduleService(
	scheduleRepo payment.PaymentScheduleRepository,
	historyRepo payment.InstallmentStatusHistoryRepository,
	logger *zap.Logger,
) *ScheduleService {
	return &ScheduleService{
		scheduleRepo: scheduleRepo,
		historyRepo:  historyRepo,
		logger:       logger,
	}
}

// SetEventPublisher sets the event publisher for cross-context integration
func (s *ScheduleService) SetEventPublisher(publisher shared.EventPublisher) {
	s.eventPublisher = publisher
}

// CreateScheduleRequest carries input for an evenly split schedule
type CreateScheduleRequest struct {
	CustomerID   string          `json:"customer_id" binding:"required"`
	ManagementID uuid.UUID       `json:"management_id" binding:"required"`
	TotalAmount  decimal.Decimal `json:"total_amount" binding:"required"`
	Installments int             `json:"installments" binding:"required"`
	StartDate    time.Time       `json:"start_date" binding:"required"`
	RegisteredBy string          `json:"registered_by"`
}

// CreateSchedule creates an evenly split schedule and its initial audit entries
func (s *ScheduleService) CreateSchedule(ctx context.Context, tenantID uuid.UUID, req CreateScheduleRequest) (*ScheduleResponse, error) {
	schedule, err := payment.NewPaymentSchedule(
		tenantID,
		req.CustomerID,
		req.ManagementID,
		req.TotalAmount,
		req.Installments,
		req.StartDate,
	)
	if err != nil {
		return nil, err
	}

	if err := s.scheduleRepo.Save(ctx, schedule); err != nil {
		return nil, fmt.Errorf("failed to save schedule: %w", err)
	}

	s.appendInitialHistory(ctx, schedule, req.RegisteredBy)
	s.publishEvents(ctx, schedule)

	s.logger.Info("payment schedule created",
		zap.String("schedule_id", schedule.ID.String()),
		zap.String("customer_id", schedule.CustomerID),
		zap.String("management_id", schedule.ManagementID.String()),
		zap.String("total_amount", schedule.TotalAmount.String()),
		zap.Int("installments", schedule.InstallmentCount),
	)

	response := ToScheduleResponse(schedule)
	return &response, nil
}

// InstallmentItemRequest carries one negotiated installment
type InstallmentItemRequest struct {
	Sequence int             `json:"sequence" binding:"required"`
	Amount   decimal.Decimal `json:"amount" binding:"required"`
	DueDate  time.Time       `json:"due_date" binding:"required"`
}

// CreateScheduleWithInstallmentsRequest carries input for a negotiated schedule
type CreateScheduleWithInstallmentsRequest struct {
	CustomerID   string                   `json:"customer_id" binding:"required"`
	ManagementID uuid.UUID                `json:"management_id" binding:"required"`
	ScheduleType payment.ScheduleType     `json:"schedule_type"`
	Items        []InstallmentItemRequest `json:"items" binding:"required"`
	RegisteredBy string                   `json:"registered_by"`
}

// CreateScheduleWithInstallments creates a schedule from explicit installment data
func (s *ScheduleService) CreateScheduleWithInstallments(ctx context.Context, tenantID uuid.UUID, req CreateScheduleWithInstallmentsRequest) (*ScheduleResponse, error) {
	scheduleType := req.ScheduleType
	if scheduleType == "" {
		scheduleType = payment.ScheduleTypeNegotiated
	}

	items := make([]payment.InstallmentInput, 0, len(req.Items))
	for _, item := range req.Items {
		items = append(items, payment.InstallmentInput{
			Sequence: item.Sequence,
			Amount:   item.Amount,
			DueDate:  item.DueDate,
		})
	}

	schedule, err := payment.NewPaymentScheduleWithInstallments(
		tenantID,
		req.CustomerID,
		req.ManagementID,
		scheduleType,
		items,
	)
	if err != nil {
		return nil, err
	}

	if err := s.scheduleRepo.Save(ctx, schedule); err != nil {
		return nil, fmt.Errorf("failed to save schedule: %w", err)
	}

	s.appendInitialHistory(ctx, schedule, req.RegisteredBy)
	s.publishEvents(ctx, schedule)

	s.logger.Info("negotiated payment schedule created",
		zap.String("schedule_id", schedule.ID.String()),
		zap.String("customer_id", schedule.CustomerID),
		zap.String("total_amount", schedule.TotalAmount.String()),
		zap.Int("installments", schedule.InstallmentCount),
	)

	response := ToScheduleResponse(schedule)
	return &response, nil
}

// RecordInstallmentPaymentRequest carries input for a manual installment payment
type RecordInstallmentPaymentRequest struct {
	Sequence     int        `json:"sequence" binding:"required"`
	PaymentDate  *time.Time `json:"payment_date"`
	Observation  string     `json:"observation"`
	RegisteredBy string     `json:"registered_by"`
}

// RecordInstallmentPayment marks a single installment paid and appends the
// COMPLETED audit entry
func (s *ScheduleService) RecordInstallmentPayment(ctx context.Context, tenantID, scheduleID uuid.UUID, req RecordInstallmentPaymentRequest) (*ScheduleResponse, error) {
	schedule, err := s.scheduleRepo.FindByIDForTenant(ctx, tenantID, scheduleID)
	if err != nil {
		return nil, err
	}

	paymentDate := time.Now()
	if req.PaymentDate != nil {
		paymentDate = *req.PaymentDate
	}

	inst, err := schedule.MarkInstallmentPaid(req.Sequence, paymentDate)
	if err != nil {
		return nil, err
	}

	if err := s.scheduleRepo.SaveWithLock(ctx, schedule); err != nil {
		return nil, err
	}

	registeredBy := req.RegisteredBy
	if registeredBy == "" {
		registeredBy = "system"
	}
	entry := payment.RecordPayment(
		tenantID, schedule.ID, inst.ID, schedule.ManagementID,
		paymentDate, inst.Amount, req.Observation, registeredBy,
	)
	if err := s.historyRepo.Append(ctx, entry); err != nil {
		// The installment state is already committed; an audit gap is
		// preferable to rolling back a recorded payment.
		s.logger.Warn("failed to append installment payment history",
			zap.String("schedule_id", schedule.ID.String()),
			zap.String("installment_id", inst.ID.String()),
			zap.Error(err),
		)
	}

	s.publishEvents(ctx, schedule)

	s.logger.Info("installment payment recorded",
		zap.String("schedule_id", schedule.ID.String()),
		zap.Int("sequence", inst.Sequence),
		zap.String("amount", inst.Amount.String()),
		zap.Bool("fully_paid", schedule.IsFullyPaid()),
	)

	response := ToScheduleResponse(schedule)
	return &response, nil
}

// CancelScheduleRequest carries input for a schedule cancellation
type CancelScheduleRequest struct {
	Observation  string `json:"observation"`
	RegisteredBy string `json:"registered_by"`
}

// CancelSchedule deactivates a schedule and appends CANCELLED audit entries
// for every installment that was cancelled. Cancelling an already cancelled
// schedule succeeds without effect.
func (s *ScheduleService) CancelSchedule(ctx context.Context, tenantID, scheduleID uuid.UUID, req CancelScheduleRequest) (*ScheduleResponse, error) {
	schedule, err := s.scheduleRepo.FindByIDForTenant(ctx, tenantID, scheduleID)
	if err != nil {
		return nil, err
	}

	wasActive := schedule.Active
	schedule.Cancel()

	if wasActive {
		if err := s.scheduleRepo.SaveWithLock(ctx, schedule); err != nil {
			return nil, err
		}

		registeredBy := req.RegisteredBy
		if registeredBy == "" {
			registeredBy = "system"
		}
		entries := make([]*payment.InstallmentStatusHistory, 0, len(schedule.Installments))
		for i := range schedule.Installments {
			inst := &schedule.Installments[i]
			if inst.Status == payment.InstallmentStatusCancelled {
				entries = append(entries, payment.RecordCancellation(
					tenantID, schedule.ID, inst.ID, schedule.ManagementID,
					req.Observation, registeredBy,
				))
			}
		}
		if len(entries) > 0 {
			if err := s.historyRepo.AppendAll(ctx, entries); err != nil {
				s.logger.Warn("failed to append cancellation history",
					zap.String("schedule_id", schedule.ID.String()),
					zap.Error(err),
				)
			}
		}

		s.publishEvents(ctx, schedule)

		s.logger.Info("payment schedule cancelled",
			zap.String("schedule_id", schedule.ID.String()),
			zap.String("customer_id", schedule.CustomerID),
		)
	}

	response := ToScheduleResponse(schedule)
	return &response, nil
}

// GetSchedule returns a schedule by ID
func (s *ScheduleService) GetSchedule(ctx context.Context, tenantID, scheduleID uuid.UUID) (*ScheduleResponse, error) {
	schedule, err := s.scheduleRepo.FindByIDForTenant(ctx, tenantID, scheduleID)
	if err != nil {
		return nil, err
	}
	response := ToScheduleResponse(schedule)
	return &response, nil
}

// ListByCustomer returns a customer's schedules
func (s *ScheduleService) ListByCustomer(ctx context.Context, tenantID uuid.UUID, customerID string, filter payment.ScheduleFilter) ([]ScheduleResponse, error) {
	schedules, err := s.scheduleRepo.FindByCustomer(ctx, tenantID, customerID, filter)
	if err != nil {
		return nil, err
	}
	responses := make([]ScheduleResponse, 0, len(schedules))
	for i := range schedules {
		responses = append(responses, ToScheduleResponse(&schedules[i]))
	}
	return responses, nil
}

// ListByManagement returns the schedules originating from a management
func (s *ScheduleService) ListByManagement(ctx context.Context, tenantID, managementID uuid.UUID) ([]ScheduleResponse, error) {
	schedules, err := s.scheduleRepo.FindByManagement(ctx, tenantID, managementID)
	if err != nil {
		return nil, err
	}
	responses := make([]ScheduleResponse, 0, len(schedules))
	for i := range schedules {
		responses = append(responses, ToScheduleResponse(&schedules[i]))
	}
	return responses, nil
}

// List returns a tenant's schedules with pagination
func (s *ScheduleService) List(ctx context.Context, tenantID uuid.UUID, filter payment.ScheduleFilter) (*shared.Paginated[ScheduleResponse], error) {
	schedules, err := s.scheduleRepo.FindAllForTenant(ctx, tenantID, filter)
	if err != nil {
		return nil, err
	}
	total, err := s.scheduleRepo.CountForTenant(ctx, tenantID, filter)
	if err != nil {
		return nil, err
	}
	responses := make([]ScheduleResponse, 0, len(schedules))
	for i := range schedules {
		responses = append(responses, ToScheduleResponse(&schedules[i]))
	}
	page := shared.NewPaginated(responses, total, filter.Page, filter.PageSize)
	return &page, nil
}

// GetInstallmentHistory returns the audit trail of one installment, oldest first
func (s *ScheduleService) GetInstallmentHistory(ctx context.Context, tenantID, installmentID uuid.UUID) ([]HistoryEntryResponse, error) {
	entries, err := s.historyRepo.FindByInstallment(ctx, tenantID, installmentID)
	if err != nil {
		return nil, err
	}
	responses := make([]HistoryEntryResponse, 0, len(entries))
	for i := range entries {
		responses = append(responses, ToHistoryEntryResponse(&entries[i]))
	}
	return responses, nil
}

// GetScheduleHistory returns the audit trail of every installment of a schedule
func (s *ScheduleService) GetScheduleHistory(ctx context.Context, tenantID, scheduleID uuid.UUID, filter payment.HistoryFilter) ([]HistoryEntryResponse, error) {
	entries, err := s.historyRepo.FindBySchedule(ctx, tenantID, scheduleID, filter)
	if err != nil {
		return nil, err
	}
	responses := make([]HistoryEntryResponse, 0, len(entries))
	for i := range entries {
		responses = append(responses, ToHistoryEntryResponse(&entries[i]))
	}
	return responses, nil
}

// appendInitialHistory writes one PENDING audit row per installment. Best
// effort: a failure leaves the schedule committed and is only logged.
func (s *ScheduleService) appendInitialHistory(ctx context.Context, schedule *payment.PaymentSchedule, registeredBy string) {
	if registeredBy == "" {
		registeredBy = "system"
	}
	entries := make([]*payment.InstallmentStatusHistory, 0, len(schedule.Installments))
	for i := range schedule.Installments {
		entries = append(entries, payment.RecordInitial(
			schedule.TenantID, schedule.ID, schedule.Installments[i].ID,
			schedule.ManagementID, registeredBy,
		))
	}
	if err := s.historyRepo.AppendAll(ctx, entries); err != nil {
		s.logger.Warn("failed to append initial installment history",
			zap.String("schedule_id", schedule.ID.String()),
			zap.Error(err),
		)
	}
}

func (s *ScheduleService) publishEvents(ctx context.Context, schedule *payment.PaymentSchedule) {
	if s.eventPublisher == nil {
		return
	}
	for _, event := range schedule.GetDomainEvents() {
		if err := s.eventPublisher.Publish(ctx, event); err != nil {
			s.logger.Warn("failed to publish schedule event",
				zap.String("event_type", event.EventType()),
				zap.String("schedule_id", schedule.ID.String()),
				zap.Error(err),
			)
		}
	}
	schedule.ClearDomainEvents()
}
