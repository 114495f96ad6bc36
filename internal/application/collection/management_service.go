package collection

import (
	"context"
	"fmt"
	"time"

	"github.com/cobranza/backend/internal/domain/collection"
	"github.com/cobranza/backend/internal/domain/shared"
	"github.com/google/uuid"
	"github.com/shopspring/decimal"
	"go.uber.org/zap"
)

// ManagementService handles registration and querying of collection managements
type ManagementService struct {
	managementRepo collection.ManagementRepository
	policyProvider collection.TypificationPolicyProvider
	portfolios     collection.PortfolioLookup
	campaigns      collection.CampaignLookup
	eventPublisher shared.EventPublisher
	logger         *zap.Logger
}

// NewManagementService creates a new ManagementService
func NewManagementService(
	managementRepo collection.ManagementRepository,
	policyProvider collection.TypificationPolicyProvider,
	portfolios collection.PortfolioLookup,
	campaigns collection.CampaignLookup,
	logger *zap.Logger,
) *ManagementService {
	return &ManagementService{
		managementRepo: managementRepo,
		policyProvider: policyProvider,
		portfolios:     portfolios,
		campaigns:      campaigns,
		logger:         logger,
	}
}

// SetEventPublisher sets the event publisher for cross-context integration
func (s *ManagementService) SetEventPublisher(publisher shared.EventPublisher) {
	s.eventPublisher = publisher
}

// RegisterManagementRequest carries input for a new management record
type RegisterManagementRequest struct {
	CustomerID       string                      `json:"customer_id" binding:"required"`
	PortfolioID      uuid.UUID                   `json:"portfolio_id" binding:"required"`
	CampaignID       *uuid.UUID                  `json:"campaign_id"`
	TypificationCode collection.TypificationCode `json:"typification_code" binding:"required"`
	Observation      string                      `json:"observation"`
	ContactPhone     string                      `json:"contact_phone"`
	PaymentAmount    *decimal.Decimal            `json:"payment_amount"`
	ManagedAt        *time.Time                  `json:"managed_at"`
	RegisteredBy     string                      `json:"registered_by" binding:"required"`
}

// ManagementResponse represents a management in API responses
type ManagementResponse struct {
	ID               uuid.UUID                   `json:"id"`
	TenantID         uuid.UUID                   `json:"tenant_id"`
	CustomerID       string                      `json:"customer_id"`
	PortfolioID      uuid.UUID                   `json:"portfolio_id"`
	CampaignID       *uuid.UUID                  `json:"campaign_id,omitempty"`
	TypificationCode collection.TypificationCode `json:"typification_code"`
	Observation      string                      `json:"observation,omitempty"`
	ContactPhone     string                      `json:"contact_phone,omitempty"`
	PaymentAmount    *decimal.Decimal            `json:"payment_amount,omitempty"`
	PaymentTriggered bool                        `json:"payment_triggered"`
	ManagedAt        time.Time                   `json:"managed_at"`
	RegisteredBy     string                      `json:"registered_by"`
	CreatedAt        time.Time                   `json:"created_at"`
}

func toManagementResponse(m *collection.Management, paymentTriggered bool) ManagementResponse {
	return ManagementResponse{
		ID:               m.ID,
		TenantID:         m.TenantID,
		CustomerID:       m.CustomerID,
		PortfolioID:      m.PortfolioID,
		CampaignID:       m.CampaignID,
		TypificationCode: m.TypificationCode,
		Observation:      m.Observation,
		ContactPhone:     m.ContactPhone,
		PaymentAmount:    m.PaymentAmount,
		PaymentTriggered: paymentTriggered,
		ManagedAt:        m.ManagedAt,
		RegisteredBy:     m.RegisteredBy,
		CreatedAt:        m.CreatedAt,
	}
}

// RegisterManagement records a collection interaction. When the typification
// qualifies as a payment outcome with a reported amount, the resulting domain
// event feeds the allocation engine through the bus.
func (s *ManagementService) RegisterManagement(ctx context.Context, tenantID uuid.UUID, req RegisterManagementRequest) (*ManagementResponse, error) {
	exists, err := s.portfolios.PortfolioExists(ctx, tenantID, req.PortfolioID)
	if err != nil {
		return nil, fmt.Errorf("failed to check portfolio: %w", err)
	}
	if !exists {
		return nil, shared.NewDomainError("PORTFOLIO_NOT_FOUND",
			fmt.Sprintf("Portfolio %s not found", req.PortfolioID))
	}
	if req.CampaignID != nil {
		exists, err := s.campaigns.CampaignExists(ctx, tenantID, *req.CampaignID)
		if err != nil {
			return nil, fmt.Errorf("failed to check campaign: %w", err)
		}
		if !exists {
			return nil, shared.NewDomainError("CAMPAIGN_NOT_FOUND",
				fmt.Sprintf("Campaign %s not found", *req.CampaignID))
		}
	}

	managedAt := time.Now()
	if req.ManagedAt != nil {
		managedAt = *req.ManagedAt
	}

	management, err := collection.NewManagement(
		tenantID,
		req.CustomerID,
		req.PortfolioID,
		req.CampaignID,
		req.TypificationCode,
		req.Observation,
		req.ContactPhone,
		req.PaymentAmount,
		managedAt,
		req.RegisteredBy,
	)
	if err != nil {
		return nil, err
	}

	policy, err := s.policyProvider.PolicyFor(ctx, tenantID, req.PortfolioID)
	if err != nil {
		return nil, fmt.Errorf("failed to resolve typification policy: %w", err)
	}
	triggered := management.EvaluatePaymentTrigger(policy)

	if err := s.managementRepo.Save(ctx, management); err != nil {
		return nil, fmt.Errorf("failed to save management: %w", err)
	}

	s.publishEvents(ctx, management)

	s.logger.Info("management registered",
		zap.String("management_id", management.ID.String()),
		zap.String("customer_id", management.CustomerID),
		zap.String("typification", string(management.TypificationCode)),
		zap.Bool("payment_triggered", triggered),
		zap.String("registered_by", management.RegisteredBy),
	)

	response := toManagementResponse(management, triggered)
	return &response, nil
}

// GetManagement returns a management by ID
func (s *ManagementService) GetManagement(ctx context.Context, tenantID, managementID uuid.UUID) (*ManagementResponse, error) {
	m, err := s.managementRepo.FindByIDForTenant(ctx, tenantID, managementID)
	if err != nil {
		return nil, err
	}
	response := toManagementResponse(m, false)
	return &response, nil
}

// ListByCustomer returns a customer's managements, newest first
func (s *ManagementService) ListByCustomer(ctx context.Context, tenantID uuid.UUID, customerID string, filter collection.ManagementFilter) ([]ManagementResponse, error) {
	managements, err := s.managementRepo.FindByCustomer(ctx, tenantID, customerID, filter)
	if err != nil {
		return nil, err
	}
	responses := make([]ManagementResponse, 0, len(managements))
	for i := range managements {
		responses = append(responses, toManagementResponse(&managements[i], false))
	}
	return responses, nil
}

// List returns a tenant's managements with pagination
func (s *ManagementService) List(ctx context.Context, tenantID uuid.UUID, filter collection.ManagementFilter) (*shared.Paginated[ManagementResponse], error) {
	managements, err := s.managementRepo.FindAllForTenant(ctx, tenantID, filter)
	if err != nil {
		return nil, err
	}
	total, err := s.managementRepo.CountForTenant(ctx, tenantID, filter)
	if err != nil {
		return nil, err
	}
	responses := make([]ManagementResponse, 0, len(managements))
	for i := range managements {
		responses = append(responses, toManagementResponse(&managements[i], false))
	}
	page := shared.NewPaginated(responses, total, filter.Page, filter.PageSize)
	return &page, nil
}

func (s *ManagementService) publishEvents(ctx context.Context, m *collection.Management) {
	if s.eventPublisher == nil {
		return
	}
	for _, event := range m.GetDomainEvents() {
		if err := s.eventPublisher.Publish(ctx, event); err != nil {
			s.logger.Warn("failed to publish management event",
				zap.String("event_type", event.EventType()),
				zap.String("management_id", m.ID.String()),
				zap.Error(err),
			)
		}
	}
	m.ClearDomainEvents()
}
