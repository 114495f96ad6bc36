package payment

import (
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// Test helpers

func createTestSchedule(t *testing.T, total float64, count int, startDate time.Time) *PaymentSchedule {
	t.Helper()
	ps, err := NewPaymentSchedule(
		uuid.New(),
		"CUST-001",
		uuid.New(),
		decimal.NewFromFloat(total),
		count,
		startDate,
	)
	require.NoError(t, err)
	return ps
}

func TestNewPaymentSchedule(t *testing.T) {
	startDate := time.Date(2025, 1, 1, 0, 0, 0, 0, time.UTC)

	t.Run("generates evenly divided installments", func(t *testing.T) {
		ps := createTestSchedule(t, 450.00, 3, startDate)

		assert.Equal(t, ScheduleTypeEvenSplit, ps.ScheduleType)
		assert.True(t, ps.Active)
		assert.Equal(t, 3, ps.InstallmentCount)
		require.Len(t, ps.Installments, 3)

		for i, inst := range ps.Installments {
			assert.Equal(t, i+1, inst.Sequence)
			assert.Equal(t, "150.00", inst.Amount.StringFixed(2))
			assert.Equal(t, startDate.AddDate(0, i, 0), inst.DueDate)
			assert.Equal(t, InstallmentStatusPending, inst.Status)
			assert.Nil(t, inst.PaidDate)
		}
	})

	t.Run("sequence numbers are 1..count with no gaps", func(t *testing.T) {
		ps := createTestSchedule(t, 1000.00, 7, startDate)
		for i, inst := range ps.Installments {
			assert.Equal(t, i+1, inst.Sequence)
		}
	})

	t.Run("rounds half up without redistributing the remainder", func(t *testing.T) {
		// 100 / 3 = 33.333... -> each installment 33.33, sum 99.99
		ps := createTestSchedule(t, 100.00, 3, startDate)

		sum := decimal.Zero
		for _, inst := range ps.Installments {
			assert.Equal(t, "33.33", inst.Amount.StringFixed(2))
			sum = sum.Add(inst.Amount)
		}
		assert.Equal(t, "99.99", sum.StringFixed(2))
		assert.Equal(t, "100.00", ps.TotalAmount.StringFixed(2))
	})

	t.Run("raises created event", func(t *testing.T) {
		ps := createTestSchedule(t, 300.00, 2, startDate)
		events := ps.GetDomainEvents()
		require.Len(t, events, 1)
		assert.Equal(t, "PaymentScheduleCreated", events[0].EventType())
	})

	t.Run("validation", func(t *testing.T) {
		tenantID := uuid.New()
		mgmtID := uuid.New()

		_, err := NewPaymentSchedule(tenantID, "", mgmtID, decimal.NewFromInt(100), 2, startDate)
		assert.Error(t, err, "empty customer")

		_, err = NewPaymentSchedule(tenantID, "CUST-001", uuid.Nil, decimal.NewFromInt(100), 2, startDate)
		assert.Error(t, err, "nil management")

		_, err = NewPaymentSchedule(tenantID, "CUST-001", mgmtID, decimal.Zero, 2, startDate)
		assert.Error(t, err, "zero amount")

		_, err = NewPaymentSchedule(tenantID, "CUST-001", mgmtID, decimal.NewFromInt(-5), 2, startDate)
		assert.Error(t, err, "negative amount")

		_, err = NewPaymentSchedule(tenantID, "CUST-001", mgmtID, decimal.NewFromInt(100), 0, startDate)
		assert.Error(t, err, "zero count")
	})
}

func TestNewPaymentScheduleWithInstallments(t *testing.T) {
	startDate := time.Date(2025, 3, 1, 0, 0, 0, 0, time.UTC)

	items := []InstallmentInput{
		{Sequence: 1, Amount: decimal.NewFromFloat(200.00), DueDate: startDate},
		{Sequence: 2, Amount: decimal.NewFromFloat(150.50), DueDate: startDate.AddDate(0, 1, 0)},
		{Sequence: 3, Amount: decimal.NewFromFloat(99.50), DueDate: startDate.AddDate(0, 2, 0)},
	}

	t.Run("takes supplied installments verbatim", func(t *testing.T) {
		ps, err := NewPaymentScheduleWithInstallments(
			uuid.New(), "CUST-002", uuid.New(), ScheduleTypeNegotiated, items)
		require.NoError(t, err)

		require.Len(t, ps.Installments, 3)
		assert.Equal(t, "200.00", ps.Installments[0].Amount.StringFixed(2))
		assert.Equal(t, "150.50", ps.Installments[1].Amount.StringFixed(2))
		assert.Equal(t, "99.50", ps.Installments[2].Amount.StringFixed(2))
		assert.Equal(t, startDate, ps.StartDate)
	})

	t.Run("stored total is the recomputed sum, not the caller's figure", func(t *testing.T) {
		ps, err := NewPaymentScheduleWithInstallments(
			uuid.New(), "CUST-002", uuid.New(), ScheduleTypeNegotiated, items)
		require.NoError(t, err)

		assert.Equal(t, "450.00", ps.TotalAmount.StringFixed(2))
	})

	t.Run("rejects empty installment list", func(t *testing.T) {
		_, err := NewPaymentScheduleWithInstallments(
			uuid.New(), "CUST-002", uuid.New(), ScheduleTypeNegotiated, nil)
		assert.Error(t, err)
	})

	t.Run("rejects duplicate sequence", func(t *testing.T) {
		dup := []InstallmentInput{
			{Sequence: 1, Amount: decimal.NewFromInt(100), DueDate: startDate},
			{Sequence: 1, Amount: decimal.NewFromInt(100), DueDate: startDate.AddDate(0, 1, 0)},
		}
		_, err := NewPaymentScheduleWithInstallments(
			uuid.New(), "CUST-002", uuid.New(), ScheduleTypeNegotiated, dup)
		assert.Error(t, err)
	})

	t.Run("rejects non-positive installment amount", func(t *testing.T) {
		bad := []InstallmentInput{
			{Sequence: 1, Amount: decimal.Zero, DueDate: startDate},
		}
		_, err := NewPaymentScheduleWithInstallments(
			uuid.New(), "CUST-002", uuid.New(), ScheduleTypeNegotiated, bad)
		assert.Error(t, err)
	})
}

func TestPaymentSchedule_MarkInstallmentPaid(t *testing.T) {
	startDate := time.Date(2025, 1, 1, 0, 0, 0, 0, time.UTC)

	t.Run("marks the targeted installment paid", func(t *testing.T) {
		ps := createTestSchedule(t, 300.00, 3, startDate)
		paidDate := time.Date(2025, 1, 5, 0, 0, 0, 0, time.UTC)

		inst, err := ps.MarkInstallmentPaid(2, paidDate)
		require.NoError(t, err)

		assert.Equal(t, InstallmentStatusCompleted, inst.Status)
		require.NotNil(t, inst.PaidDate)
		assert.Equal(t, paidDate, *inst.PaidDate)
		assert.Equal(t, 1, ps.PaidCount())
		assert.Equal(t, 2, ps.PendingCount())
	})

	t.Run("raises completed event when last installment is paid", func(t *testing.T) {
		ps := createTestSchedule(t, 200.00, 2, startDate)
		ps.ClearDomainEvents()

		_, err := ps.MarkInstallmentPaid(1, time.Now())
		require.NoError(t, err)
		_, err = ps.MarkInstallmentPaid(2, time.Now())
		require.NoError(t, err)

		assert.True(t, ps.IsFullyPaid())
		types := make([]string, 0)
		for _, e := range ps.GetDomainEvents() {
			types = append(types, e.EventType())
		}
		assert.Contains(t, types, "PaymentScheduleCompleted")
	})

	t.Run("rejects unknown sequence", func(t *testing.T) {
		ps := createTestSchedule(t, 300.00, 3, startDate)
		_, err := ps.MarkInstallmentPaid(9, time.Now())
		assert.Error(t, err)
	})

	t.Run("rejects payment on inactive schedule", func(t *testing.T) {
		ps := createTestSchedule(t, 300.00, 3, startDate)
		ps.Cancel()
		_, err := ps.MarkInstallmentPaid(1, time.Now())
		assert.Error(t, err)
	})
}

func TestPaymentSchedule_Cancel(t *testing.T) {
	startDate := time.Date(2025, 1, 1, 0, 0, 0, 0, time.UTC)

	t.Run("deactivates and cancels non-terminal installments", func(t *testing.T) {
		ps := createTestSchedule(t, 300.00, 3, startDate)
		_, err := ps.MarkInstallmentPaid(1, time.Now())
		require.NoError(t, err)

		ps.Cancel()

		assert.False(t, ps.Active)
		assert.Equal(t, InstallmentStatusCompleted, ps.Installments[0].Status)
		assert.Equal(t, InstallmentStatusCancelled, ps.Installments[1].Status)
		assert.Equal(t, InstallmentStatusCancelled, ps.Installments[2].Status)
	})

	t.Run("cancel is idempotent", func(t *testing.T) {
		ps := createTestSchedule(t, 300.00, 3, startDate)
		ps.Cancel()
		versionAfterFirst := ps.Version
		statusesAfterFirst := []InstallmentStatus{
			ps.Installments[0].Status, ps.Installments[1].Status, ps.Installments[2].Status,
		}

		ps.Cancel()

		assert.False(t, ps.Active)
		assert.Equal(t, versionAfterFirst, ps.Version)
		for i, st := range statusesAfterFirst {
			assert.Equal(t, st, ps.Installments[i].Status)
		}
	})
}

func TestPaymentSchedule_DerivedAmounts(t *testing.T) {
	startDate := time.Date(2025, 1, 1, 0, 0, 0, 0, time.UTC)
	ps := createTestSchedule(t, 450.00, 3, startDate)

	assert.Equal(t, "0.00", ps.PaidAmount().StringFixed(2))
	assert.Equal(t, "450.00", ps.PendingAmount().StringFixed(2))
	assert.False(t, ps.IsFullyPaid())

	_, err := ps.MarkInstallmentPaid(1, time.Now())
	require.NoError(t, err)

	assert.Equal(t, "150.00", ps.PaidAmount().StringFixed(2))
	assert.Equal(t, "300.00", ps.PendingAmount().StringFixed(2))
	assert.Equal(t, 1, ps.PaidCount())
	assert.Equal(t, 2, ps.PendingCount())
}

func TestPaymentSchedule_PendingInstallments(t *testing.T) {
	startDate := time.Date(2025, 5, 1, 0, 0, 0, 0, time.UTC)

	t.Run("ordered by due date ascending", func(t *testing.T) {
		// Supplied out of order on purpose
		items := []InstallmentInput{
			{Sequence: 3, Amount: decimal.NewFromInt(100), DueDate: startDate.AddDate(0, 2, 0)},
			{Sequence: 1, Amount: decimal.NewFromInt(100), DueDate: startDate},
			{Sequence: 2, Amount: decimal.NewFromInt(100), DueDate: startDate.AddDate(0, 1, 0)},
		}
		ps, err := NewPaymentScheduleWithInstallments(
			uuid.New(), "CUST-003", uuid.New(), ScheduleTypeNegotiated, items)
		require.NoError(t, err)

		pending := ps.PendingInstallments()
		require.Len(t, pending, 3)
		assert.Equal(t, 1, pending[0].Sequence)
		assert.Equal(t, 2, pending[1].Sequence)
		assert.Equal(t, 3, pending[2].Sequence)
	})

	t.Run("excludes paid installments", func(t *testing.T) {
		ps := createTestSchedule(t, 300.00, 3, startDate)
		_, err := ps.MarkInstallmentPaid(1, time.Now())
		require.NoError(t, err)

		pending := ps.PendingInstallments()
		require.Len(t, pending, 2)
		assert.Equal(t, 2, pending[0].Sequence)
		assert.Equal(t, 3, pending[1].Sequence)
	})
}

func TestPaymentSchedule_OverdueInstallments(t *testing.T) {
	startDate := time.Date(2025, 1, 1, 0, 0, 0, 0, time.UTC)
	ps := createTestSchedule(t, 300.00, 3, startDate)

	// After the second due date but before the third
	now := time.Date(2025, 2, 15, 0, 0, 0, 0, time.UTC)
	overdue := ps.OverdueInstallments(now)
	require.Len(t, overdue, 2)
	assert.Equal(t, 1, overdue[0].Sequence)
	assert.Equal(t, 2, overdue[1].Sequence)
}
