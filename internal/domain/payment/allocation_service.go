package payment

import (
	"github.com/cobranza/backend/internal/domain/shared"
	"github.com/shopspring/decimal"
)

// AllocationService is the domain service that plans payment allocation across
// a customer's active schedules. Planning is pure calculation; loading the
// schedules, applying the plan, and persisting mutations belong to the
// application layer.
type AllocationService struct {
	defaultStrategy AllocationStrategyType
}

// AllocationServiceOption is a functional option for configuring AllocationService
type AllocationServiceOption func(*AllocationService)

// WithDefaultStrategy sets the default allocation strategy type
func WithDefaultStrategy(t AllocationStrategyType) AllocationServiceOption {
	return func(s *AllocationService) {
		if t.IsValid() {
			s.defaultStrategy = t
		}
	}
}

// NewAllocationService creates a new allocation service
func NewAllocationService(opts ...AllocationServiceOption) *AllocationService {
	s := &AllocationService{
		defaultStrategy: AllocationStrategyDueDateFIFO,
	}
	for _, opt := range opts {
		opt(s)
	}
	return s
}

// DefaultStrategy returns the configured default strategy type
func (s *AllocationService) DefaultStrategy() AllocationStrategyType {
	return s.defaultStrategy
}

// Plan computes the allocation of amount across the given schedules using the
// default strategy. Schedules that are inactive are skipped; an empty schedule
// list yields a plan with the full amount as remainder, not an error.
func (s *AllocationService) Plan(schedules []*PaymentSchedule, amount decimal.Decimal) (*AllocationPlan, error) {
	return s.PlanWithStrategy(schedules, amount, s.defaultStrategy)
}

// PlanWithStrategy computes the allocation using an explicit strategy type
func (s *AllocationService) PlanWithStrategy(
	schedules []*PaymentSchedule,
	amount decimal.Decimal,
	strategyType AllocationStrategyType,
) (*AllocationPlan, error) {
	if !strategyType.IsValid() {
		return nil, shared.NewDomainError("INVALID_STRATEGY", "Allocation strategy type is not valid")
	}
	strategy, err := AllocationStrategyFor(strategyType)
	if err != nil {
		return nil, err
	}
	return strategy.Plan(schedules, amount)
}
