package payment

import (
	"context"
	"testing"
	"time"

	"github.com/cobranza/backend/internal/domain/payment"
	"github.com/cobranza/backend/internal/domain/shared"
	"github.com/google/uuid"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"
)

// MockPaymentRepository is a mock implementation of PaymentRepository
type MockPaymentRepository struct {
	mock.Mock
}

func (m *MockPaymentRepository) FindByID(ctx context.Context, id uuid.UUID) (*payment.Payment, error) {
	args := m.Called(ctx, id)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*payment.Payment), args.Error(1)
}

func (m *MockPaymentRepository) FindByIDForTenant(ctx context.Context, tenantID, id uuid.UUID) (*payment.Payment, error) {
	args := m.Called(ctx, tenantID, id)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*payment.Payment), args.Error(1)
}

func (m *MockPaymentRepository) FindByCustomer(ctx context.Context, tenantID uuid.UUID, customerID string, filter payment.PaymentFilter) ([]payment.Payment, error) {
	args := m.Called(ctx, tenantID, customerID, filter)
	return args.Get(0).([]payment.Payment), args.Error(1)
}

func (m *MockPaymentRepository) FindAllForTenant(ctx context.Context, tenantID uuid.UUID, filter payment.PaymentFilter) ([]payment.Payment, error) {
	args := m.Called(ctx, tenantID, filter)
	return args.Get(0).([]payment.Payment), args.Error(1)
}

func (m *MockPaymentRepository) Save(ctx context.Context, p *payment.Payment) error {
	args := m.Called(ctx, p)
	return args.Error(0)
}

func (m *MockPaymentRepository) SaveWithLock(ctx context.Context, p *payment.Payment) error {
	args := m.Called(ctx, p)
	return args.Error(0)
}

func (m *MockPaymentRepository) CountForTenant(ctx context.Context, tenantID uuid.UUID, filter payment.PaymentFilter) (int64, error) {
	args := m.Called(ctx, tenantID, filter)
	return args.Get(0).(int64), args.Error(1)
}

func newPendingPayment(t *testing.T, tenantID uuid.UUID) *payment.Payment {
	t.Helper()
	p, err := payment.NewPayment(tenantID, "CUST-001", uuid.New(),
		decimal.RequireFromString("120.00"), time.Now(), payment.PaymentMethodBankTransfer)
	require.NoError(t, err)
	p.ClearDomainEvents()
	return p
}

func TestPaymentService_Create(t *testing.T) {
	tenantID := uuid.New()

	t.Run("creates pending payment", func(t *testing.T) {
		repo := new(MockPaymentRepository)
		repo.On("Save", mock.Anything, mock.Anything).Return(nil)

		service := NewPaymentService(repo, zap.NewNop())
		resp, err := service.Create(context.Background(), tenantID, CreatePaymentRequest{
			CustomerID:   "CUST-001",
			ManagementID: uuid.New(),
			Amount:       decimal.RequireFromString("120.00"),
			PaymentDate:  time.Now(),
			Method:       payment.PaymentMethodCash,
			Notes:        "paid at branch office",
			RegisteredBy: "agent-8",
		})

		require.NoError(t, err)
		assert.Equal(t, payment.PaymentStatusPending, resp.Status)
		assert.Contains(t, resp.Notes, "paid at branch office")
	})

	t.Run("rejects invalid method", func(t *testing.T) {
		repo := new(MockPaymentRepository)

		service := NewPaymentService(repo, zap.NewNop())
		_, err := service.Create(context.Background(), tenantID, CreatePaymentRequest{
			CustomerID:   "CUST-001",
			ManagementID: uuid.New(),
			Amount:       decimal.RequireFromString("120.00"),
			PaymentDate:  time.Now(),
			Method:       "CHECK",
		})

		require.Error(t, err)
		repo.AssertNotCalled(t, "Save", mock.Anything, mock.Anything)
	})
}

func TestPaymentService_ConfirmAndCancel(t *testing.T) {
	tenantID := uuid.New()

	t.Run("confirms pending payment", func(t *testing.T) {
		repo := new(MockPaymentRepository)
		p := newPendingPayment(t, tenantID)
		repo.On("FindByIDForTenant", mock.Anything, tenantID, p.ID).Return(p, nil)
		repo.On("SaveWithLock", mock.Anything, p).Return(nil)

		service := NewPaymentService(repo, zap.NewNop())
		resp, err := service.Confirm(context.Background(), tenantID, p.ID, ConfirmPaymentRequest{
			TransactionID: "OP-900122",
		})

		require.NoError(t, err)
		assert.Equal(t, payment.PaymentStatusCompleted, resp.Status)
		assert.Equal(t, "OP-900122", resp.TransactionID)
		assert.NotNil(t, resp.ConfirmedAt)
	})

	t.Run("cancel after confirm is rejected", func(t *testing.T) {
		repo := new(MockPaymentRepository)
		p := newPendingPayment(t, tenantID)
		require.NoError(t, p.Confirm("OP-900123"))
		p.ClearDomainEvents()
		repo.On("FindByIDForTenant", mock.Anything, tenantID, p.ID).Return(p, nil)

		service := NewPaymentService(repo, zap.NewNop())
		_, err := service.Cancel(context.Background(), tenantID, p.ID)

		require.Error(t, err)
		var domainErr *shared.DomainError
		require.ErrorAs(t, err, &domainErr)
		assert.Equal(t, "INVALID_STATE", domainErr.Code)
		repo.AssertNotCalled(t, "SaveWithLock", mock.Anything, mock.Anything)
	})

	t.Run("repeated cancel succeeds without second save", func(t *testing.T) {
		repo := new(MockPaymentRepository)
		p := newPendingPayment(t, tenantID)
		require.NoError(t, p.Cancel())
		p.ClearDomainEvents()
		repo.On("FindByIDForTenant", mock.Anything, tenantID, p.ID).Return(p, nil)

		service := NewPaymentService(repo, zap.NewNop())
		resp, err := service.Cancel(context.Background(), tenantID, p.ID)

		require.NoError(t, err)
		assert.Equal(t, payment.PaymentStatusCancelled, resp.Status)
		repo.AssertNotCalled(t, "SaveWithLock", mock.Anything, mock.Anything)
	})
}

func TestPaymentService_Metadata(t *testing.T) {
	tenantID := uuid.New()

	t.Run("attaches voucher details", func(t *testing.T) {
		repo := new(MockPaymentRepository)
		p := newPendingPayment(t, tenantID)
		repo.On("FindByIDForTenant", mock.Anything, tenantID, p.ID).Return(p, nil)
		repo.On("SaveWithLock", mock.Anything, p).Return(nil)

		service := NewPaymentService(repo, zap.NewNop())
		resp, err := service.SetVoucherDetails(context.Background(), tenantID, p.ID, VoucherDetailsRequest{
			VoucherNumber: "V-0099812",
			BankName:      "BCP",
		})

		require.NoError(t, err)
		assert.Equal(t, "V-0099812", resp.VoucherNumber)
		assert.Equal(t, "BCP", resp.BankName)
	})

	t.Run("appends notes", func(t *testing.T) {
		repo := new(MockPaymentRepository)
		p := newPendingPayment(t, tenantID)
		repo.On("FindByIDForTenant", mock.Anything, tenantID, p.ID).Return(p, nil)
		repo.On("SaveWithLock", mock.Anything, p).Return(nil)

		service := NewPaymentService(repo, zap.NewNop())
		resp, err := service.AddNotes(context.Background(), tenantID, p.ID, AddNotesRequest{
			Notes: "voucher photo pending",
		})

		require.NoError(t, err)
		assert.Contains(t, resp.Notes, "voucher photo pending")
	})
}

func TestPaymentService_List(t *testing.T) {
	tenantID := uuid.New()

	t.Run("paginates tenant payments", func(t *testing.T) {
		repo := new(MockPaymentRepository)
		p := newPendingPayment(t, tenantID)
		repo.On("FindAllForTenant", mock.Anything, tenantID, mock.Anything).
			Return([]payment.Payment{*p}, nil)
		repo.On("CountForTenant", mock.Anything, tenantID, mock.Anything).
			Return(int64(1), nil)

		service := NewPaymentService(repo, zap.NewNop())
		filter := payment.PaymentFilter{Filter: shared.DefaultFilter()}
		page, err := service.List(context.Background(), tenantID, filter)

		require.NoError(t, err)
		assert.Equal(t, int64(1), page.Total)
		require.Len(t, page.Items, 1)
		assert.Equal(t, "CUST-001", page.Items[0].CustomerID)
	})
}
