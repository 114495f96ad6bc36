package persistence

import (
	"context"

	"github.com/google/uuid"
	"gorm.io/gorm"

	"github.com/cobranza/backend/internal/domain/payment"
	"github.com/cobranza/backend/internal/infrastructure/persistence/models"
)

// GormHistoryRepository implements InstallmentStatusHistoryRepository using
// GORM. The table is append-only: this repository never updates or deletes.
type GormHistoryRepository struct {
	db *gorm.DB
}

// NewGormHistoryRepository creates a new GormHistoryRepository
func NewGormHistoryRepository(db *gorm.DB) *GormHistoryRepository {
	return &GormHistoryRepository{db: db}
}

// Append persists a new history entry
func (r *GormHistoryRepository) Append(ctx context.Context, entry *payment.InstallmentStatusHistory) error {
	model := models.HistoryModelFromDomain(entry)
	return r.db.WithContext(ctx).Create(model).Error
}

// AppendAll persists a batch of history entries in one transaction
func (r *GormHistoryRepository) AppendAll(ctx context.Context, entries []*payment.InstallmentStatusHistory) error {
	if len(entries) == 0 {
		return nil
	}
	historyModels := make([]*models.InstallmentStatusHistoryModel, len(entries))
	for i, entry := range entries {
		historyModels[i] = models.HistoryModelFromDomain(entry)
	}
	return r.db.WithContext(ctx).Create(&historyModels).Error
}

// FindByInstallment returns entries for an installment, oldest first
func (r *GormHistoryRepository) FindByInstallment(ctx context.Context, tenantID, installmentID uuid.UUID) ([]payment.InstallmentStatusHistory, error) {
	var historyModels []models.InstallmentStatusHistoryModel
	if err := r.db.WithContext(ctx).
		Where("tenant_id = ? AND installment_id = ?", tenantID, installmentID).
		Order("changed_at ASC, created_at ASC").
		Find(&historyModels).Error; err != nil {
		return nil, err
	}
	return toDomainHistories(historyModels), nil
}

// FindBySchedule returns entries for every installment of a schedule
func (r *GormHistoryRepository) FindBySchedule(ctx context.Context, tenantID, scheduleID uuid.UUID, filter payment.HistoryFilter) ([]payment.InstallmentStatusHistory, error) {
	query := r.db.WithContext(ctx).
		Where("tenant_id = ? AND schedule_id = ?", tenantID, scheduleID)

	if filter.Status != nil {
		query = query.Where("status = ?", *filter.Status)
	}
	if filter.From != nil {
		query = query.Where("changed_at >= ?", *filter.From)
	}
	if filter.To != nil {
		query = query.Where("changed_at <= ?", *filter.To)
	}
	if filter.Page > 0 && filter.PageSize > 0 {
		query = query.Offset((filter.Page - 1) * filter.PageSize).Limit(filter.PageSize)
	}

	var historyModels []models.InstallmentStatusHistoryModel
	if err := query.Order("changed_at ASC, created_at ASC").Find(&historyModels).Error; err != nil {
		return nil, err
	}
	return toDomainHistories(historyModels), nil
}

// FindByManagement returns entries recorded under a management
func (r *GormHistoryRepository) FindByManagement(ctx context.Context, tenantID, managementID uuid.UUID) ([]payment.InstallmentStatusHistory, error) {
	var historyModels []models.InstallmentStatusHistoryModel
	if err := r.db.WithContext(ctx).
		Where("tenant_id = ? AND management_id = ?", tenantID, managementID).
		Order("changed_at ASC, created_at ASC").
		Find(&historyModels).Error; err != nil {
		return nil, err
	}
	return toDomainHistories(historyModels), nil
}

func toDomainHistories(historyModels []models.InstallmentStatusHistoryModel) []payment.InstallmentStatusHistory {
	entries := make([]payment.InstallmentStatusHistory, len(historyModels))
	for i, model := range historyModels {
		entries[i] = *model.ToDomain()
	}
	return entries
}
