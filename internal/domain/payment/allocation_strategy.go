package payment

import (
	"fmt"
	"sort"
	"sync"

	"github.com/cobranza/backend/internal/domain/shared"
	"github.com/google/uuid"
	"github.com/shopspring/decimal"
)

// AllocationStrategyType identifies an allocation strategy. Strategies are
// looked up in a static registry populated at init; implementations are
// statically known, never loaded dynamically.
type AllocationStrategyType string

const (
	// AllocationStrategyDueDateFIFO walks schedules oldest start date first
	// and, within a schedule, pending installments earliest due date first.
	AllocationStrategyDueDateFIFO AllocationStrategyType = "DUE_DATE_FIFO"
)

// IsValid checks if the strategy type is valid
func (t AllocationStrategyType) IsValid() bool {
	return t == AllocationStrategyDueDateFIFO
}

// String returns the string representation of AllocationStrategyType
func (t AllocationStrategyType) String() string {
	return string(t)
}

// AllocationStep is one whole-installment consumption in an allocation plan
type AllocationStep struct {
	ScheduleID    uuid.UUID       `json:"schedule_id"`
	InstallmentID uuid.UUID       `json:"installment_id"`
	Sequence      int             `json:"sequence"`
	Amount        decimal.Decimal `json:"amount"`
}

// AllocationPlan is the deterministic outcome of planning a payment against a
// customer's schedules. A remainder is a normal, reported outcome, never an
// error: partial settlement of a single installment is unsupported, and the
// run stops at the first shortfall rather than rolling the remainder over.
type AllocationPlan struct {
	Steps            []AllocationStep `json:"steps"`
	TotalApplied     decimal.Decimal  `json:"total_applied"`
	Remainder        decimal.Decimal  `json:"remainder"`
	InstallmentsPaid int              `json:"installments_paid"`
	SchedulesTouched int              `json:"schedules_touched"`
}

// AllocationStrategy plans how a payment amount is consumed by a customer's
// schedules. Implementations must be pure: planning mutates nothing.
type AllocationStrategy interface {
	StrategyType() AllocationStrategyType
	Plan(schedules []*PaymentSchedule, amount decimal.Decimal) (*AllocationPlan, error)
}

var (
	strategyMu       sync.RWMutex
	strategyRegistry = make(map[AllocationStrategyType]AllocationStrategy)
)

// RegisterAllocationStrategy adds a strategy to the registry. Registering a
// duplicate type panics; registration happens once at startup.
func RegisterAllocationStrategy(s AllocationStrategy) {
	strategyMu.Lock()
	defer strategyMu.Unlock()
	if _, exists := strategyRegistry[s.StrategyType()]; exists {
		panic(fmt.Sprintf("allocation strategy %s registered twice", s.StrategyType()))
	}
	strategyRegistry[s.StrategyType()] = s
}

// AllocationStrategyFor resolves a strategy from the registry
func AllocationStrategyFor(t AllocationStrategyType) (AllocationStrategy, error) {
	strategyMu.RLock()
	defer strategyMu.RUnlock()
	s, ok := strategyRegistry[t]
	if !ok {
		return nil, shared.NewDomainError("INVALID_STRATEGY",
			fmt.Sprintf("No allocation strategy registered for %s", t))
	}
	return s, nil
}

func init() {
	RegisterAllocationStrategy(&dueDateFIFOStrategy{})
}

// dueDateFIFOStrategy consumes whole installments in deterministic order:
// schedules by start date ascending, installments by due date ascending.
// The first installment the remaining amount cannot fully cover ends the run;
// the unconsumed remainder is surfaced in the plan.
type dueDateFIFOStrategy struct{}

// StrategyType returns the strategy type
func (s *dueDateFIFOStrategy) StrategyType() AllocationStrategyType {
	return AllocationStrategyDueDateFIFO
}

// Plan computes the allocation without mutating any schedule
func (s *dueDateFIFOStrategy) Plan(schedules []*PaymentSchedule, amount decimal.Decimal) (*AllocationPlan, error) {
	if amount.LessThanOrEqual(decimal.Zero) {
		return nil, shared.NewDomainError("INVALID_AMOUNT", "Allocation amount must be positive")
	}

	ordered := make([]*PaymentSchedule, 0, len(schedules))
	for _, ps := range schedules {
		if ps != nil && ps.Active {
			ordered = append(ordered, ps)
		}
	}
	sort.SliceStable(ordered, func(a, b int) bool {
		if ordered[a].StartDate.Equal(ordered[b].StartDate) {
			return ordered[a].CreatedAt.Before(ordered[b].CreatedAt)
		}
		return ordered[a].StartDate.Before(ordered[b].StartDate)
	})

	plan := &AllocationPlan{
		Steps:     make([]AllocationStep, 0),
		Remainder: amount,
	}

	remaining := amount
	for _, ps := range ordered {
		if remaining.LessThanOrEqual(decimal.Zero) {
			break
		}
		touched := false
		for _, inst := range ps.PendingInstallments() {
			if remaining.LessThan(inst.Amount) {
				// Shortfall: the installment stays pending and the remainder
				// is surfaced, not rolled over to other installments.
				plan.TotalApplied = amount.Sub(remaining)
				plan.Remainder = remaining
				if touched {
					plan.SchedulesTouched++
				}
				return plan, nil
			}
			remaining = remaining.Sub(inst.Amount)
			plan.Steps = append(plan.Steps, AllocationStep{
				ScheduleID:    ps.ID,
				InstallmentID: inst.ID,
				Sequence:      inst.Sequence,
				Amount:        inst.Amount,
			})
			plan.InstallmentsPaid++
			touched = true
			if remaining.IsZero() {
				break
			}
		}
		if touched {
			plan.SchedulesTouched++
		}
	}

	plan.TotalApplied = amount.Sub(remaining)
	plan.Remainder = remaining
	return plan, nil
}
