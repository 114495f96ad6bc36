package persistence

import (
	"context"
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/cobranza/backend/internal/domain/payment"
)

func TestGormHistoryRepository_Append(t *testing.T) {
	db := setupTestDB(t)
	repo := NewGormHistoryRepository(db)
	ctx := context.Background()

	tenantID := uuid.New()
	scheduleID := uuid.New()
	installmentID := uuid.New()
	managementID := uuid.New()

	t.Run("appends and reads back a single entry", func(t *testing.T) {
		entry := payment.RecordInitial(tenantID, scheduleID, installmentID, managementID, "asesor-1")
		require.NoError(t, repo.Append(ctx, entry))

		entries, err := repo.FindByInstallment(ctx, tenantID, installmentID)
		require.NoError(t, err)
		require.Len(t, entries, 1)
		assert.Equal(t, payment.HistoryStatusPending, entries[0].Status)
		assert.Equal(t, "asesor-1", entries[0].RegisteredBy)
	})

	t.Run("appends a batch in order", func(t *testing.T) {
		batchInstallment := uuid.New()
		paidAt := time.Date(2026, 4, 10, 0, 0, 0, 0, time.UTC)
		amount := decimal.NewFromInt(100)

		entries := []*payment.InstallmentStatusHistory{
			payment.RecordInitial(tenantID, scheduleID, batchInstallment, managementID, "asesor-2"),
			payment.RecordPayment(tenantID, scheduleID, batchInstallment, managementID, paidAt, amount, "", "asesor-2"),
		}
		require.NoError(t, repo.AppendAll(ctx, entries))

		found, err := repo.FindByInstallment(ctx, tenantID, batchInstallment)
		require.NoError(t, err)
		require.Len(t, found, 2)
		assert.Equal(t, payment.HistoryStatusPending, found[0].Status)
		assert.Equal(t, payment.HistoryStatusCompleted, found[1].Status)
		require.NotNil(t, found[1].AmountPaid)
		assert.True(t, found[1].AmountPaid.Equal(amount))
	})

	t.Run("empty batch is a no-op", func(t *testing.T) {
		assert.NoError(t, repo.AppendAll(ctx, nil))
	})
}

func TestGormHistoryRepository_Queries(t *testing.T) {
	db := setupTestDB(t)
	repo := NewGormHistoryRepository(db)
	ctx := context.Background()

	tenantID := uuid.New()
	scheduleID := uuid.New()
	managementID := uuid.New()
	firstInstallment := uuid.New()
	secondInstallment := uuid.New()

	require.NoError(t, repo.AppendAll(ctx, []*payment.InstallmentStatusHistory{
		payment.RecordInitial(tenantID, scheduleID, firstInstallment, managementID, "system"),
		payment.RecordInitial(tenantID, scheduleID, secondInstallment, managementID, "system"),
		payment.RecordCancellation(tenantID, scheduleID, secondInstallment, managementID, "agreement dropped", "asesor-3"),
	}))

	t.Run("finds entries for the whole schedule", func(t *testing.T) {
		entries, err := repo.FindBySchedule(ctx, tenantID, scheduleID, payment.HistoryFilter{})
		require.NoError(t, err)
		assert.Len(t, entries, 3)
	})

	t.Run("filters schedule entries by status", func(t *testing.T) {
		status := payment.HistoryStatusCancelled
		entries, err := repo.FindBySchedule(ctx, tenantID, scheduleID, payment.HistoryFilter{Status: &status})
		require.NoError(t, err)
		require.Len(t, entries, 1)
		assert.Equal(t, "agreement dropped", entries[0].Observation)
	})

	t.Run("finds entries by management", func(t *testing.T) {
		entries, err := repo.FindByManagement(ctx, tenantID, managementID)
		require.NoError(t, err)
		assert.Len(t, entries, 3)
	})

	t.Run("scopes queries to tenant", func(t *testing.T) {
		entries, err := repo.FindBySchedule(ctx, uuid.New(), scheduleID, payment.HistoryFilter{})
		require.NoError(t, err)
		assert.Empty(t, entries)
	})
}
