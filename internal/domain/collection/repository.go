package collection

import (
	"context"
	"time"

	"github.com/cobranza/backend/internal/domain/shared"
	"github.com/google/uuid"
)

// ManagementFilter defines filtering options for management queries
type ManagementFilter struct {
	shared.Filter
	CustomerID       *string
	PortfolioID      *uuid.UUID
	CampaignID       *uuid.UUID
	TypificationCode *TypificationCode
	From             *time.Time
	To               *time.Time
	RegisteredBy     *string
}

// ManagementRepository defines persistence for managements
type ManagementRepository interface {
	// FindByID finds a management by ID
	FindByID(ctx context.Context, id uuid.UUID) (*Management, error)

	// FindByIDForTenant finds a management by ID for a specific tenant
	FindByIDForTenant(ctx context.Context, tenantID, id uuid.UUID) (*Management, error)

	// FindByCustomer finds managements for a customer, newest first
	FindByCustomer(ctx context.Context, tenantID uuid.UUID, customerID string, filter ManagementFilter) ([]Management, error)

	// FindAllForTenant finds managements for a tenant with filtering
	FindAllForTenant(ctx context.Context, tenantID uuid.UUID, filter ManagementFilter) ([]Management, error)

	// Save creates or updates a management
	Save(ctx context.Context, management *Management) error

	// CountForTenant counts managements for a tenant with optional filters
	CountForTenant(ctx context.Context, tenantID uuid.UUID, filter ManagementFilter) (int64, error)
}

// PortfolioLookup verifies that a portfolio exists for a tenant. Portfolios
// are owned by an upstream assignment system; only existence matters here.
type PortfolioLookup interface {
	PortfolioExists(ctx context.Context, tenantID, portfolioID uuid.UUID) (bool, error)
}

// CampaignLookup verifies that a campaign exists for a tenant.
type CampaignLookup interface {
	CampaignExists(ctx context.Context, tenantID, campaignID uuid.UUID) (bool, error)
}

// TypificationPolicyProvider resolves the payment-outcome policy for a
// tenant's portfolio. Implementations typically cache the resolved policy.
type TypificationPolicyProvider interface {
	PolicyFor(ctx context.Context, tenantID, portfolioID uuid.UUID) (TypificationPolicy, error)
}
