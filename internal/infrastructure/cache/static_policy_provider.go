package cache

import (
	"context"

	"github.com/google/uuid"

	"github.com/cobranza/backend/internal/domain/collection"
)

// StaticPolicyProvider resolves every portfolio to the same fixed policy.
// It backs deployments where the qualifying typification codes come from
// configuration rather than per-portfolio records.
type StaticPolicyProvider struct {
	policy *collection.FixedTypificationPolicy
}

// NewStaticPolicyProvider builds a provider from the given typification codes.
// With no codes it falls back to the standard payment typifications.
func NewStaticPolicyProvider(codes ...collection.TypificationCode) *StaticPolicyProvider {
	if len(codes) == 0 {
		return &StaticPolicyProvider{policy: collection.NewDefaultTypificationPolicy()}
	}
	return &StaticPolicyProvider{policy: collection.NewFixedTypificationPolicy(codes...)}
}

// PolicyFor returns the configured policy for any tenant and portfolio
func (p *StaticPolicyProvider) PolicyFor(ctx context.Context, tenantID, portfolioID uuid.UUID) (collection.TypificationPolicy, error) {
	return p.policy, nil
}

var _ collection.TypificationPolicyProvider = (*StaticPolicyProvider)(nil)
