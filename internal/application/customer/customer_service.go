package customer

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/cobranza/backend/internal/domain/customer"
	"github.com/cobranza/backend/internal/domain/shared"
	"github.com/google/uuid"
	"go.uber.org/zap"
)

// CustomerService handles customer records
type CustomerService struct {
	customerRepo customer.CustomerRepository
	logger       *zap.Logger
}

// NewCustomerService creates a new CustomerService
func NewCustomerService(customerRepo customer.CustomerRepository, logger *zap.Logger) *CustomerService {
	return &CustomerService{
		customerRepo: customerRepo,
		logger:       logger,
	}
}

// CreateCustomerRequest carries input for a new customer
type CreateCustomerRequest struct {
	CustomerCode   string                `json:"customer_code" binding:"required"`
	Name           string                `json:"name" binding:"required"`
	DocumentType   customer.DocumentType `json:"document_type" binding:"required"`
	DocumentNumber string                `json:"document_number" binding:"required"`
	Phone          string                `json:"phone"`
	Email          string                `json:"email"`
	Address        string                `json:"address"`
	CreatedBy      string                `json:"created_by"`
}

// UpdateCustomerRequest carries mutable customer fields
type UpdateCustomerRequest struct {
	Name    *string `json:"name"`
	Phone   *string `json:"phone"`
	Email   *string `json:"email"`
	Address *string `json:"address"`
}

// CustomerResponse represents a customer in API responses
type CustomerResponse struct {
	ID             uuid.UUID             `json:"id"`
	TenantID       uuid.UUID             `json:"tenant_id"`
	CustomerCode   string                `json:"customer_code"`
	Name           string                `json:"name"`
	DocumentType   customer.DocumentType `json:"document_type"`
	DocumentNumber string                `json:"document_number"`
	Phone          string                `json:"phone,omitempty"`
	Email          string                `json:"email,omitempty"`
	Address        string                `json:"address,omitempty"`
	Active         bool                  `json:"active"`
	CreatedAt      time.Time             `json:"created_at"`
	UpdatedAt      time.Time             `json:"updated_at"`
}

func toCustomerResponse(c *customer.Customer) CustomerResponse {
	return CustomerResponse{
		ID:             c.ID,
		TenantID:       c.TenantID,
		CustomerCode:   c.CustomerCode,
		Name:           c.Name,
		DocumentType:   c.DocumentType,
		DocumentNumber: c.DocumentNumber,
		Phone:          c.Phone,
		Email:          c.Email,
		Address:        c.Address,
		Active:         c.Active,
		CreatedAt:      c.CreatedAt,
		UpdatedAt:      c.UpdatedAt,
	}
}

// Create registers a customer. The external code must be unique per tenant.
func (s *CustomerService) Create(ctx context.Context, tenantID uuid.UUID, req CreateCustomerRequest) (*CustomerResponse, error) {
	existing, err := s.customerRepo.FindByCode(ctx, tenantID, req.CustomerCode)
	if err != nil && !errors.Is(err, shared.ErrNotFound) {
		return nil, fmt.Errorf("failed to check customer code: %w", err)
	}
	if existing != nil {
		return nil, shared.NewDomainError("CUSTOMER_CODE_TAKEN",
			fmt.Sprintf("Customer code %s already exists", req.CustomerCode))
	}

	c, err := customer.NewCustomer(tenantID, req.CustomerCode, req.Name, req.DocumentType, req.DocumentNumber, req.CreatedBy)
	if err != nil {
		return nil, err
	}
	c.UpdateContactInfo(req.Phone, req.Email, req.Address)

	if err := s.customerRepo.Save(ctx, c); err != nil {
		return nil, fmt.Errorf("failed to save customer: %w", err)
	}

	s.logger.Info("customer created",
		zap.String("customer_id", c.ID.String()),
		zap.String("customer_code", c.CustomerCode),
	)

	response := toCustomerResponse(c)
	return &response, nil
}

// Update modifies a customer's mutable fields
func (s *CustomerService) Update(ctx context.Context, tenantID, customerID uuid.UUID, req UpdateCustomerRequest) (*CustomerResponse, error) {
	c, err := s.customerRepo.FindByIDForTenant(ctx, tenantID, customerID)
	if err != nil {
		return nil, err
	}

	if req.Name != nil {
		if err := c.Rename(*req.Name); err != nil {
			return nil, err
		}
	}
	phone, email, address := c.Phone, c.Email, c.Address
	if req.Phone != nil {
		phone = *req.Phone
	}
	if req.Email != nil {
		email = *req.Email
	}
	if req.Address != nil {
		address = *req.Address
	}
	c.UpdateContactInfo(phone, email, address)

	c.IncrementVersion()
	if err := s.customerRepo.SaveWithLock(ctx, c); err != nil {
		return nil, err
	}

	response := toCustomerResponse(c)
	return &response, nil
}

// Deactivate marks a customer inactive
func (s *CustomerService) Deactivate(ctx context.Context, tenantID, customerID uuid.UUID) (*CustomerResponse, error) {
	c, err := s.customerRepo.FindByIDForTenant(ctx, tenantID, customerID)
	if err != nil {
		return nil, err
	}
	c.Deactivate()
	c.IncrementVersion()
	if err := s.customerRepo.SaveWithLock(ctx, c); err != nil {
		return nil, err
	}
	s.logger.Info("customer deactivated", zap.String("customer_id", c.ID.String()))
	response := toCustomerResponse(c)
	return &response, nil
}

// Activate marks a customer active
func (s *CustomerService) Activate(ctx context.Context, tenantID, customerID uuid.UUID) (*CustomerResponse, error) {
	c, err := s.customerRepo.FindByIDForTenant(ctx, tenantID, customerID)
	if err != nil {
		return nil, err
	}
	c.Activate()
	c.IncrementVersion()
	if err := s.customerRepo.SaveWithLock(ctx, c); err != nil {
		return nil, err
	}
	response := toCustomerResponse(c)
	return &response, nil
}

// Get returns a customer by ID
func (s *CustomerService) Get(ctx context.Context, tenantID, customerID uuid.UUID) (*CustomerResponse, error) {
	c, err := s.customerRepo.FindByIDForTenant(ctx, tenantID, customerID)
	if err != nil {
		return nil, err
	}
	response := toCustomerResponse(c)
	return &response, nil
}

// GetByCode returns a customer by its external code
func (s *CustomerService) GetByCode(ctx context.Context, tenantID uuid.UUID, customerCode string) (*CustomerResponse, error) {
	c, err := s.customerRepo.FindByCode(ctx, tenantID, customerCode)
	if err != nil {
		return nil, err
	}
	response := toCustomerResponse(c)
	return &response, nil
}

// List returns a tenant's customers with pagination
func (s *CustomerService) List(ctx context.Context, tenantID uuid.UUID, filter customer.CustomerFilter) (*shared.Paginated[CustomerResponse], error) {
	customers, err := s.customerRepo.FindAllForTenant(ctx, tenantID, filter)
	if err != nil {
		return nil, err
	}
	total, err := s.customerRepo.CountForTenant(ctx, tenantID, filter)
	if err != nil {
		return nil, err
	}
	responses := make([]CustomerResponse, 0, len(customers))
	for i := range customers {
		responses = append(responses, toCustomerResponse(&customers[i]))
	}
	page := shared.NewPaginated(responses, total, filter.Page, filter.PageSize)
	return &page, nil
}
