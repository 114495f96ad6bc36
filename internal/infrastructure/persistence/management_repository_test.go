package persistence

import (
	"context"
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/cobranza/backend/internal/domain/collection"
	"github.com/cobranza/backend/internal/domain/shared"
)

func newTestManagement(t *testing.T, tenantID uuid.UUID, customerID string, code collection.TypificationCode, amount *decimal.Decimal) *collection.Management {
	t.Helper()
	m, err := collection.NewManagement(
		tenantID, customerID, uuid.New(), nil,
		code, "spoke with debtor", "999888777",
		amount, time.Date(2026, 6, 3, 10, 0, 0, 0, time.UTC), "asesor-5",
	)
	require.NoError(t, err)
	return m
}

func TestGormManagementRepository_SaveAndFind(t *testing.T) {
	db := setupTestDB(t)
	repo := NewGormManagementRepository(db)
	ctx := context.Background()

	t.Run("round-trips a management", func(t *testing.T) {
		tenantID := uuid.New()
		amount := decimal.NewFromInt(150)
		m := newTestManagement(t, tenantID, "CUST-200", collection.TypificationPartialPayment, &amount)
		require.NoError(t, repo.Save(ctx, m))

		found, err := repo.FindByIDForTenant(ctx, tenantID, m.ID)
		require.NoError(t, err)
		assert.Equal(t, "CUST-200", found.CustomerID)
		assert.Equal(t, collection.TypificationPartialPayment, found.TypificationCode)
		assert.Equal(t, "asesor-5", found.RegisteredBy)
		require.NotNil(t, found.PaymentAmount)
		assert.True(t, found.PaymentAmount.Equal(amount))
	})

	t.Run("returns not found for missing management", func(t *testing.T) {
		_, err := repo.FindByID(ctx, uuid.New())
		assert.ErrorIs(t, err, shared.ErrNotFound)
	})
}

func TestGormManagementRepository_Queries(t *testing.T) {
	db := setupTestDB(t)
	repo := NewGormManagementRepository(db)
	ctx := context.Background()
	tenantID := uuid.New()

	commitment := newTestManagement(t, tenantID, "CUST-210", collection.TypificationPaymentCommitment, nil)
	amount := decimal.NewFromInt(90)
	paid := newTestManagement(t, tenantID, "CUST-210", collection.TypificationFullPayment, &amount)
	other := newTestManagement(t, tenantID, "CUST-211", collection.TypificationPaymentCommitment, nil)

	for _, m := range []*collection.Management{commitment, paid, other} {
		require.NoError(t, repo.Save(ctx, m))
	}

	t.Run("finds by customer", func(t *testing.T) {
		managements, err := repo.FindByCustomer(ctx, tenantID, "CUST-210", collection.ManagementFilter{Filter: shared.DefaultFilter()})
		require.NoError(t, err)
		assert.Len(t, managements, 2)
	})

	t.Run("filters by typification", func(t *testing.T) {
		code := collection.TypificationFullPayment
		filter := collection.ManagementFilter{Filter: shared.DefaultFilter(), TypificationCode: &code}

		managements, err := repo.FindAllForTenant(ctx, tenantID, filter)
		require.NoError(t, err)
		require.Len(t, managements, 1)
		assert.Equal(t, paid.ID, managements[0].ID)
	})

	t.Run("counts for tenant", func(t *testing.T) {
		count, err := repo.CountForTenant(ctx, tenantID, collection.ManagementFilter{})
		require.NoError(t, err)
		assert.Equal(t, int64(3), count)
	})

	t.Run("scopes to tenant", func(t *testing.T) {
		managements, err := repo.FindAllForTenant(ctx, uuid.New(), collection.ManagementFilter{Filter: shared.DefaultFilter()})
		require.NoError(t, err)
		assert.Empty(t, managements)
	})
}
