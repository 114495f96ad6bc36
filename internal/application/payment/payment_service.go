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

// PaymentService handles standalone payment records
type PaymentService struct {
	paymentRepo    payment.PaymentRepository
	eventPublisher shared.EventPublisher
	logger         *zap.Logger
}

// NewPaymentService creates a new PaymentService
func NewPaymentService(paymentRepo payment.PaymentRepository, logger *zap.Logger) *PaymentService {
	return &PaymentService{
		paymentRepo: paymentRepo,
		logger:      logger,
	}
}

// SetEventPublisher sets the event publisher for cross-context integration
func (s *PaymentService) SetEventPublisher(publisher shared.EventPublisher) {
	s.eventPublisher = publisher
}

// CreatePaymentRequest carries input for a new payment record
type CreatePaymentRequest struct {
	CustomerID   string                `json:"customer_id" binding:"required"`
	ManagementID uuid.UUID             `json:"management_id" binding:"required"`
	Amount       decimal.Decimal       `json:"amount" binding:"required"`
	PaymentDate  time.Time             `json:"payment_date" binding:"required"`
	Method       payment.PaymentMethod `json:"method" binding:"required"`
	Notes        string                `json:"notes"`
	RegisteredBy string                `json:"registered_by"`
}

// Create records a new payment in PENDING status
func (s *PaymentService) Create(ctx context.Context, tenantID uuid.UUID, req CreatePaymentRequest) (*PaymentResponse, error) {
	p, err := payment.NewPayment(
		tenantID,
		req.CustomerID,
		req.ManagementID,
		req.Amount,
		req.PaymentDate,
		req.Method,
	)
	if err != nil {
		return nil, err
	}
	if req.RegisteredBy != "" {
		p.CreatedBy = req.RegisteredBy
	}
	if req.Notes != "" {
		p.AddNotes(req.Notes)
	}

	if err := s.paymentRepo.Save(ctx, p); err != nil {
		return nil, fmt.Errorf("failed to save payment: %w", err)
	}

	s.publishEvents(ctx, p)

	s.logger.Info("payment created",
		zap.String("payment_id", p.ID.String()),
		zap.String("customer_id", p.CustomerID),
		zap.String("amount", p.Amount.String()),
		zap.String("method", string(p.Method)),
	)

	response := ToPaymentResponse(p)
	return &response, nil
}

// ConfirmPaymentRequest carries input for a payment confirmation
type ConfirmPaymentRequest struct {
	TransactionID string `json:"transaction_id" binding:"required"`
}

// Confirm transitions a payment to COMPLETED
func (s *PaymentService) Confirm(ctx context.Context, tenantID, paymentID uuid.UUID, req ConfirmPaymentRequest) (*PaymentResponse, error) {
	p, err := s.paymentRepo.FindByIDForTenant(ctx, tenantID, paymentID)
	if err != nil {
		return nil, err
	}

	if err := p.Confirm(req.TransactionID); err != nil {
		return nil, err
	}

	if err := s.paymentRepo.SaveWithLock(ctx, p); err != nil {
		return nil, err
	}

	s.publishEvents(ctx, p)

	s.logger.Info("payment confirmed",
		zap.String("payment_id", p.ID.String()),
		zap.String("transaction_id", p.TransactionID),
	)

	response := ToPaymentResponse(p)
	return &response, nil
}

// Cancel transitions a payment to CANCELLED. Confirmed payments cannot be
// cancelled; repeating a cancel succeeds without effect.
func (s *PaymentService) Cancel(ctx context.Context, tenantID, paymentID uuid.UUID) (*PaymentResponse, error) {
	p, err := s.paymentRepo.FindByIDForTenant(ctx, tenantID, paymentID)
	if err != nil {
		return nil, err
	}

	wasCancelled := p.Status == payment.PaymentStatusCancelled
	if err := p.Cancel(); err != nil {
		return nil, err
	}

	if !wasCancelled {
		if err := s.paymentRepo.SaveWithLock(ctx, p); err != nil {
			return nil, err
		}
		s.publishEvents(ctx, p)
		s.logger.Info("payment cancelled", zap.String("payment_id", p.ID.String()))
	}

	response := ToPaymentResponse(p)
	return &response, nil
}

// VoucherDetailsRequest carries voucher metadata for a payment
type VoucherDetailsRequest struct {
	VoucherNumber string `json:"voucher_number" binding:"required"`
	BankName      string `json:"bank_name"`
}

// SetVoucherDetails attaches voucher metadata to a payment
func (s *PaymentService) SetVoucherDetails(ctx context.Context, tenantID, paymentID uuid.UUID, req VoucherDetailsRequest) (*PaymentResponse, error) {
	p, err := s.paymentRepo.FindByIDForTenant(ctx, tenantID, paymentID)
	if err != nil {
		return nil, err
	}

	p.SetVoucherDetails(req.VoucherNumber, req.BankName)

	if err := s.paymentRepo.SaveWithLock(ctx, p); err != nil {
		return nil, err
	}

	response := ToPaymentResponse(p)
	return &response, nil
}

// AddNotesRequest carries an operator note for a payment
type AddNotesRequest struct {
	Notes string `json:"notes" binding:"required"`
}

// AddNotes appends a note to a payment
func (s *PaymentService) AddNotes(ctx context.Context, tenantID, paymentID uuid.UUID, req AddNotesRequest) (*PaymentResponse, error) {
	p, err := s.paymentRepo.FindByIDForTenant(ctx, tenantID, paymentID)
	if err != nil {
		return nil, err
	}

	p.AddNotes(req.Notes)

	if err := s.paymentRepo.SaveWithLock(ctx, p); err != nil {
		return nil, err
	}

	response := ToPaymentResponse(p)
	return &response, nil
}

// Get returns a payment by ID
func (s *PaymentService) Get(ctx context.Context, tenantID, paymentID uuid.UUID) (*PaymentResponse, error) {
	p, err := s.paymentRepo.FindByIDForTenant(ctx, tenantID, paymentID)
	if err != nil {
		return nil, err
	}
	response := ToPaymentResponse(p)
	return &response, nil
}

// ListByCustomer returns a customer's payments
func (s *PaymentService) ListByCustomer(ctx context.Context, tenantID uuid.UUID, customerID string, filter payment.PaymentFilter) ([]PaymentResponse, error) {
	payments, err := s.paymentRepo.FindByCustomer(ctx, tenantID, customerID, filter)
	if err != nil {
		return nil, err
	}
	responses := make([]PaymentResponse, 0, len(payments))
	for i := range payments {
		responses = append(responses, ToPaymentResponse(&payments[i]))
	}
	return responses, nil
}

// List returns a tenant's payments with pagination
func (s *PaymentService) List(ctx context.Context, tenantID uuid.UUID, filter payment.PaymentFilter) (*shared.Paginated[PaymentResponse], error) {
	payments, err := s.paymentRepo.FindAllForTenant(ctx, tenantID, filter)
	if err != nil {
		return nil, err
	}
	total, err := s.paymentRepo.CountForTenant(ctx, tenantID, filter)
	if err != nil {
		return nil, err
	}
	responses := make([]PaymentResponse, 0, len(payments))
	for i := range payments {
		responses = append(responses, ToPaymentResponse(&payments[i]))
	}
	page := shared.NewPaginated(responses, total, filter.Page, filter.PageSize)
	return &page, nil
}

func (s *PaymentService) publishEvents(ctx context.Context, p *payment.Payment) {
	if s.eventPublisher == nil {
		return
	}
	for _, event := range p.GetDomainEvents() {
		if err := s.eventPublisher.Publish(ctx, event); err != nil {
			s.logger.Warn("failed to publish payment event",
				zap.String("event_type", event.EventType()),
				zap.String("payment_id", p.ID.String()),
				zap.Error(err),
			)
		}
	}
	p.ClearDomainEvents()
}
