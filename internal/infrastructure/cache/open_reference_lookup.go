package cache

import (
	"context"

	"github.com/google/uuid"

	"github.com/cobranza/backend/internal/domain/collection"
)

// OpenReferenceLookup accepts every portfolio and campaign reference.
// Portfolio and campaign assignment is owned by the upstream system that
// feeds this back office, so deployments without a direct integration run
// with open lookups and rely on upstream validation.
type OpenReferenceLookup struct{}

// NewOpenReferenceLookup creates an always-accepting reference lookup
func NewOpenReferenceLookup() *OpenReferenceLookup {
	return &OpenReferenceLookup{}
}

// PortfolioExists implements collection.PortfolioLookup
func (l *OpenReferenceLookup) PortfolioExists(ctx context.Context, tenantID, portfolioID uuid.UUID) (bool, error) {
	return true, nil
}

// CampaignExists implements collection.CampaignLookup
func (l *OpenReferenceLookup) CampaignExists(ctx context.Context, tenantID, campaignID uuid.UUID) (bool, error) {
	return true, nil
}

var (
	_ collection.PortfolioLookup = (*OpenReferenceLookup)(nil)
	_ collection.CampaignLookup  = (*OpenReferenceLookup)(nil)
)
