package cache

import (
	"context"
	"sync"
	"sync/atomic"
	"time"

	"github.com/google/uuid"
	"go.uber.org/zap"

	"github.com/cobranza/backend/internal/domain/collection"
)

const defaultPolicyTTL = 5 * time.Minute

// policyEntry wraps a cached policy with its expiration time
type policyEntry struct {
	policy    collection.TypificationPolicy
	expiresAt time.Time
}

func (e *policyEntry) isExpired() bool {
	return time.Now().After(e.expiresAt)
}

// TypificationPolicyCache caches resolved typification policies per
// tenant and portfolio in front of a slower provider. Entries expire
// after a TTL and can be invalidated explicitly when a portfolio's
// policy configuration changes.
type TypificationPolicyCache struct {
	source  collection.TypificationPolicyProvider
	entries sync.Map // map[string]*policyEntry
	ttl     time.Duration
	logger  *zap.Logger

	// Stats for monitoring
	hits   int64
	misses int64
}

// TypificationPolicyCacheOption is a functional option for configuring the cache
type TypificationPolicyCacheOption func(*TypificationPolicyCache)

// WithPolicyTTL sets how long a resolved policy stays cached
func WithPolicyTTL(ttl time.Duration) TypificationPolicyCacheOption {
	return func(c *TypificationPolicyCache) {
		c.ttl = ttl
	}
}

// WithPolicyCacheLogger sets the logger for the cache
func WithPolicyCacheLogger(logger *zap.Logger) TypificationPolicyCacheOption {
	return func(c *TypificationPolicyCache) {
		c.logger = logger
	}
}

// NewTypificationPolicyCache creates a caching provider in front of source
func NewTypificationPolicyCache(source collection.TypificationPolicyProvider, opts ...TypificationPolicyCacheOption) *TypificationPolicyCache {
	cache := &TypificationPolicyCache{
		source: source,
		ttl:    defaultPolicyTTL,
		logger: zap.NewNop(),
	}

	for _, opt := range opts {
		opt(cache)
	}

	return cache
}

func policyCacheKey(tenantID, portfolioID uuid.UUID) string {
	return tenantID.String() + ":" + portfolioID.String()
}

// PolicyFor returns the cached policy for the portfolio, resolving and
// caching it on a miss
func (c *TypificationPolicyCache) PolicyFor(ctx context.Context, tenantID, portfolioID uuid.UUID) (collection.TypificationPolicy, error) {
	key := policyCacheKey(tenantID, portfolioID)

	if value, ok := c.entries.Load(key); ok {
		entry := value.(*policyEntry)
		if !entry.isExpired() {
			atomic.AddInt64(&c.hits, 1)
			return entry.policy, nil
		}
		c.entries.Delete(key)
	}

	atomic.AddInt64(&c.misses, 1)
	c.logger.Debug("policy cache miss",
		zap.String("tenant_id", tenantID.String()),
		zap.String("portfolio_id", portfolioID.String()),
	)

	policy, err := c.source.PolicyFor(ctx, tenantID, portfolioID)
	if err != nil {
		return nil, err
	}

	c.entries.Store(key, &policyEntry{
		policy:    policy,
		expiresAt: time.Now().Add(c.ttl),
	})

	return policy, nil
}

// Invalidate drops the cached policy for a single portfolio
func (c *TypificationPolicyCache) Invalidate(tenantID, portfolioID uuid.UUID) {
	c.entries.Delete(policyCacheKey(tenantID, portfolioID))
	c.logger.Debug("policy cache invalidated",
		zap.String("tenant_id", tenantID.String()),
		zap.String("portfolio_id", portfolioID.String()),
	)
}

// InvalidateTenant drops every cached policy belonging to a tenant
func (c *TypificationPolicyCache) InvalidateTenant(tenantID uuid.UUID) {
	prefix := tenantID.String() + ":"
	c.entries.Range(func(key, _ any) bool {
		if k, ok := key.(string); ok && len(k) >= len(prefix) && k[:len(prefix)] == prefix {
			c.entries.Delete(key)
		}
		return true
	})
}

// Stats returns hit and miss counters
func (c *TypificationPolicyCache) Stats() (hits, misses int64) {
	return atomic.LoadInt64(&c.hits), atomic.LoadInt64(&c.misses)
}

var _ collection.TypificationPolicyProvider = (*TypificationPolicyCache)(nil)
