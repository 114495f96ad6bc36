package payment

import (
	"context"
	"fmt"
	"sync"
	"time"

	"github.com/cobranza/backend/internal/domain/collection"
	"github.com/cobranza/backend/internal/domain/payment"
	"github.com/cobranza/backend/internal/domain/shared"
	"github.com/google/uuid"
	"github.com/shopspring/decimal"
	"go.uber.org/zap"
)

// allocationActor is the actor recorded on audit rows written by the engine
const allocationActor = "allocation-engine"

// customerLocks serializes allocation runs per customer. Lock granularity is
// tenant+customer so two tenants reusing the same external code never contend.
type customerLocks struct {
	mu    sync.Mutex
	locks map[string]*sync.Mutex
}

func newCustomerLocks() *customerLocks {
	return &customerLocks{locks: make(map[string]*sync.Mutex)}
}

func (c *customerLocks) lock(tenantID uuid.UUID, customerID string) *sync.Mutex {
	key := tenantID.String() + "/" + customerID
	c.mu.Lock()
	m, ok := c.locks[key]
	if !ok {
		m = &sync.Mutex{}
		c.locks[key] = m
	}
	c.mu.Unlock()
	m.Lock()
	return m
}

// ApplyPaymentRequest carries input for an allocation run
type ApplyPaymentRequest struct {
	TenantID     uuid.UUID                      `json:"tenant_id"`
	CustomerID   string                         `json:"customer_id" binding:"required"`
	ManagementID uuid.UUID                      `json:"management_id" binding:"required"`
	Amount       decimal.Decimal                `json:"amount" binding:"required"`
	Strategy     payment.AllocationStrategyType `json:"strategy"`
}

// AllocationReport summarizes the outcome of an allocation run. AuditDegraded
// is set when the installments were paid but some audit rows failed to write;
// the monetary outcome is still committed in that case.
type AllocationReport struct {
	InstallmentsPaid int             `json:"installments_paid"`
	AmountApplied    decimal.Decimal `json:"amount_applied"`
	Remainder        decimal.Decimal `json:"remainder"`
	SchedulesTouched []uuid.UUID     `json:"schedules_touched"`
	AuditDegraded    bool            `json:"audit_degraded"`
}

// AllocationEngine applies a reported payment amount across a customer's
// active schedules. It subscribes to PaymentRecordedOnManagement so a
// qualifying management triggers a run without the collection context calling
// into the payment context directly.
type AllocationEngine struct {
	scheduleRepo payment.PaymentScheduleRepository
	historyRepo  payment.InstallmentStatusHistoryRepository
	allocator    *payment.AllocationService
	locks        *customerLocks
	logger       *zap.Logger
}

// NewAllocationEngine creates a new AllocationEngine
func NewAllocationEngine(
	scheduleRepo payment.PaymentScheduleRepository,
	historyRepo payment.InstallmentStatusHistoryRepository,
	allocator *payment.AllocationService,
	logger *zap.Logger,
) *AllocationEngine {
	return &AllocationEngine{
		scheduleRepo: scheduleRepo,
		historyRepo:  historyRepo,
		allocator:    allocator,
		locks:        newCustomerLocks(),
		logger:       logger,
	}
}

// Apply runs a payment allocation for one customer. Runs for the same
// customer are serialized; schedules are persisted one by one, so a failure
// partway leaves earlier schedules committed and returns the error.
func (e *AllocationEngine) Apply(ctx context.Context, req ApplyPaymentRequest) (*AllocationReport, error) {
	if req.CustomerID == "" {
		return nil, shared.NewDomainError("INVALID_CUSTOMER", "Customer ID cannot be empty")
	}
	if req.Amount.LessThanOrEqual(decimal.Zero) {
		return nil, shared.NewDomainError("INVALID_AMOUNT", "Allocation amount must be positive")
	}

	lock := e.locks.lock(req.TenantID, req.CustomerID)
	defer lock.Unlock()

	schedules, err := e.scheduleRepo.FindActiveByCustomer(ctx, req.TenantID, req.CustomerID)
	if err != nil {
		return nil, fmt.Errorf("failed to load active schedules: %w", err)
	}

	if len(schedules) == 0 {
		e.logger.Info("no active schedules for customer, nothing to allocate",
			zap.String("customer_id", req.CustomerID),
			zap.String("amount", req.Amount.String()),
		)
		return &AllocationReport{
			AmountApplied:    decimal.Zero,
			Remainder:        req.Amount,
			SchedulesTouched: []uuid.UUID{},
		}, nil
	}

	scheduleRefs := make([]*payment.PaymentSchedule, 0, len(schedules))
	for i := range schedules {
		scheduleRefs = append(scheduleRefs, &schedules[i])
	}

	var plan *payment.AllocationPlan
	if req.Strategy == "" {
		plan, err = e.allocator.Plan(scheduleRefs, req.Amount)
	} else {
		plan, err = e.allocator.PlanWithStrategy(scheduleRefs, req.Amount, req.Strategy)
	}
	if err != nil {
		return nil, err
	}

	byID := make(map[uuid.UUID]*payment.PaymentSchedule, len(scheduleRefs))
	for _, ps := range scheduleRefs {
		byID[ps.ID] = ps
	}

	runDate := time.Now()
	report := &AllocationReport{
		AmountApplied:    plan.TotalApplied,
		Remainder:        plan.Remainder,
		SchedulesTouched: []uuid.UUID{},
	}
	entries := make([]*payment.InstallmentStatusHistory, 0, len(plan.Steps))
	touched := make(map[uuid.UUID]bool)

	for _, step := range plan.Steps {
		ps := byID[step.ScheduleID]
		inst, err := ps.MarkInstallmentPaid(step.Sequence, runDate)
		if err != nil {
			return nil, fmt.Errorf("failed to mark installment %d on schedule %s: %w",
				step.Sequence, step.ScheduleID, err)
		}
		report.InstallmentsPaid++
		if !touched[ps.ID] {
			touched[ps.ID] = true
			report.SchedulesTouched = append(report.SchedulesTouched, ps.ID)
		}
		entries = append(entries, payment.RecordPayment(
			req.TenantID, ps.ID, inst.ID, req.ManagementID,
			runDate, inst.Amount,
			fmt.Sprintf("auto-applied from management %s", req.ManagementID),
			allocationActor,
		))
	}

	// Each schedule commits independently. A version conflict here means a
	// concurrent mutation slipped past the customer lock (e.g. a direct
	// cancellation); the caller retries.
	for _, id := range report.SchedulesTouched {
		ps := byID[id]
		if err := e.scheduleRepo.SaveWithLock(ctx, ps); err != nil {
			e.logger.Error("failed to persist schedule during allocation",
				zap.String("schedule_id", id.String()),
				zap.String("customer_id", req.CustomerID),
				zap.Error(err),
			)
			return nil, fmt.Errorf("failed to persist schedule %s: %w", id, err)
		}
		ps.ClearDomainEvents()
	}

	if len(entries) > 0 {
		if err := e.historyRepo.AppendAll(ctx, entries); err != nil {
			report.AuditDegraded = true
			e.logger.Warn("allocation committed but audit trail write failed",
				zap.String("customer_id", req.CustomerID),
				zap.String("management_id", req.ManagementID.String()),
				zap.Int("entries", len(entries)),
				zap.Error(err),
			)
		}
	}

	e.logger.Info("payment allocation applied",
		zap.String("customer_id", req.CustomerID),
		zap.String("management_id", req.ManagementID.String()),
		zap.String("amount", req.Amount.String()),
		zap.String("applied", report.AmountApplied.String()),
		zap.String("remainder", report.Remainder.String()),
		zap.Int("installments_paid", report.InstallmentsPaid),
		zap.Int("schedules_touched", len(report.SchedulesTouched)),
		zap.Bool("audit_degraded", report.AuditDegraded),
	)

	return report, nil
}

// EventTypes returns the event types this handler is interested in
func (e *AllocationEngine) EventTypes() []string {
	return []string{"PaymentRecordedOnManagement"}
}

// Handle consumes PaymentRecordedOnManagement and runs an allocation
func (e *AllocationEngine) Handle(ctx context.Context, event shared.DomainEvent) error {
	recorded, ok := event.(*collection.PaymentRecordedOnManagementEvent)
	if !ok {
		e.logger.Error("unexpected event type",
			zap.String("expected", "PaymentRecordedOnManagement"),
			zap.String("actual", event.EventType()),
		)
		return fmt.Errorf("unexpected event type: expected PaymentRecordedOnManagement, got %s", event.EventType())
	}

	_, err := e.Apply(ctx, ApplyPaymentRequest{
		TenantID:     recorded.TenantID(),
		CustomerID:   recorded.CustomerID,
		ManagementID: recorded.ManagementID,
		Amount:       recorded.Amount,
	})
	return err
}

// Ensure AllocationEngine implements shared.EventHandler
var _ shared.EventHandler = (*AllocationEngine)(nil)
