package persistence

import (
	"context"
	"errors"

	"github.com/google/uuid"
	"gorm.io/gorm"

	"github.com/cobranza/backend/internal/domain/payment"
	"github.com/cobranza/backend/internal/domain/shared"
	"github.com/cobranza/backend/internal/infrastructure/persistence/models"
)

// GormScheduleRepository implements PaymentScheduleRepository using GORM.
// The aggregate is always loaded and saved whole: schedule row plus its
// installment rows.
type GormScheduleRepository struct {
	db *gorm.DB
}

// NewGormScheduleRepository creates a new GormScheduleRepository
func NewGormScheduleRepository(db *gorm.DB) *GormScheduleRepository {
	return &GormScheduleRepository{db: db}
}

// FindByID finds a schedule by its ID
func (r *GormScheduleRepository) FindByID(ctx context.Context, id uuid.UUID) (*payment.PaymentSchedule, error) {
	var model models.PaymentScheduleModel
	if err := r.db.WithContext(ctx).
		Preload("Installments", installmentOrder).
		First(&model, "id = ?", id).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, shared.ErrNotFound
		}
		return nil, err
	}
	return model.ToDomain(), nil
}

// FindByIDForTenant finds a schedule by ID within a tenant
func (r *GormScheduleRepository) FindByIDForTenant(ctx context.Context, tenantID, id uuid.UUID) (*payment.PaymentSchedule, error) {
	var model models.PaymentScheduleModel
	if err := r.db.WithContext(ctx).
		Preload("Installments", installmentOrder).
		Where("tenant_id = ? AND id = ?", tenantID, id).
		First(&model).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, shared.ErrNotFound
		}
		return nil, err
	}
	return model.ToDomain(), nil
}

// FindByManagement finds schedules originating from a management
func (r *GormScheduleRepository) FindByManagement(ctx context.Context, tenantID, managementID uuid.UUID) ([]payment.PaymentSchedule, error) {
	var scheduleModels []models.PaymentScheduleModel
	if err := r.db.WithContext(ctx).
		Preload("Installments", installmentOrder).
		Where("tenant_id = ? AND management_id = ?", tenantID, managementID).
		Order("created_at ASC").
		Find(&scheduleModels).Error; err != nil {
		return nil, err
	}
	return toDomainSchedules(scheduleModels), nil
}

// FindByCustomer finds schedules for a customer with filtering
func (r *GormScheduleRepository) FindByCustomer(ctx context.Context, tenantID uuid.UUID, customerID string, filter payment.ScheduleFilter) ([]payment.PaymentSchedule, error) {
	var scheduleModels []models.PaymentScheduleModel
	query := r.applyFilter(
		r.db.WithContext(ctx).Model(&models.PaymentScheduleModel{}).
			Where("tenant_id = ? AND customer_id = ?", tenantID, customerID),
		filter,
	)

	if err := query.Preload("Installments", installmentOrder).Find(&scheduleModels).Error; err != nil {
		return nil, err
	}
	return toDomainSchedules(scheduleModels), nil
}

// FindActiveByCustomer finds a customer's active schedules ordered by start
// date ascending with creation time as the tie break. The allocation engine
// depends on this ordering.
func (r *GormScheduleRepository) FindActiveByCustomer(ctx context.Context, tenantID uuid.UUID, customerID string) ([]payment.PaymentSchedule, error) {
	var scheduleModels []models.PaymentScheduleModel
	if err := r.db.WithContext(ctx).
		Preload("Installments", installmentOrder).
		Where("tenant_id = ? AND customer_id = ? AND active = ?", tenantID, customerID, true).
		Order("start_date ASC, created_at ASC").
		Find(&scheduleModels).Error; err != nil {
		return nil, err
	}
	return toDomainSchedules(scheduleModels), nil
}

// FindAllForTenant finds schedules for a tenant with filtering
func (r *GormScheduleRepository) FindAllForTenant(ctx context.Context, tenantID uuid.UUID, filter payment.ScheduleFilter) ([]payment.PaymentSchedule, error) {
	var scheduleModels []models.PaymentScheduleModel
	query := r.applyFilter(
		r.db.WithContext(ctx).Model(&models.PaymentScheduleModel{}).Where("tenant_id = ?", tenantID),
		filter,
	)

	if err := query.Preload("Installments", installmentOrder).Find(&scheduleModels).Error; err != nil {
		return nil, err
	}
	return toDomainSchedules(scheduleModels), nil
}

// Save creates or updates a schedule together with its installments
func (r *GormScheduleRepository) Save(ctx context.Context, schedule *payment.PaymentSchedule) error {
	model := models.PaymentScheduleModelFromDomain(schedule)
	return r.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		if err := tx.Omit("Installments").Save(model).Error; err != nil {
			return err
		}
		if len(model.Installments) == 0 {
			return nil
		}
		return tx.Save(&model.Installments).Error
	})
}

// SaveWithLock saves a schedule with optimistic locking. The version check
// guards the schedule row; installment rows ride along in the same
// transaction once the check has passed.
func (r *GormScheduleRepository) SaveWithLock(ctx context.Context, schedule *payment.PaymentSchedule) error {
	model := models.PaymentScheduleModelFromDomain(schedule)
	return r.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		result := tx.Model(&models.PaymentScheduleModel{}).
			Where("id = ? AND version = ?", schedule.ID, schedule.Version-1).
			Select("version", "active", "updated_at").
			Updates(map[string]interface{}{
				"version":    model.Version,
				"active":     model.Active,
				"updated_at": model.UpdatedAt,
			})
		if result.Error != nil {
			return result.Error
		}
		if result.RowsAffected == 0 {
			return shared.ErrConcurrencyConflict
		}
		if len(model.Installments) == 0 {
			return nil
		}
		return tx.Save(&model.Installments).Error
	})
}

// CountForTenant counts schedules for a tenant with optional filters
func (r *GormScheduleRepository) CountForTenant(ctx context.Context, tenantID uuid.UUID, filter payment.ScheduleFilter) (int64, error) {
	var count int64
	query := r.applyFilterWithoutPagination(
		r.db.WithContext(ctx).Model(&models.PaymentScheduleModel{}).Where("tenant_id = ?", tenantID),
		filter,
	)

	if err := query.Count(&count).Error; err != nil {
		return 0, err
	}
	return count, nil
}

func (r *GormScheduleRepository) applyFilter(query *gorm.DB, filter payment.ScheduleFilter) *gorm.DB {
	query = r.applyFilterWithoutPagination(query, filter)

	if filter.Page > 0 && filter.PageSize > 0 {
		offset := (filter.Page - 1) * filter.PageSize
		query = query.Offset(offset).Limit(filter.PageSize)
	}

	orderBy := ValidateSortField(filter.OrderBy, ScheduleSortFields, "created_at")
	query = query.Order(orderBy + " " + ValidateSortOrder(filter.OrderDir))

	return query
}

func (r *GormScheduleRepository) applyFilterWithoutPagination(query *gorm.DB, filter payment.ScheduleFilter) *gorm.DB {
	if filter.CustomerID != nil {
		query = query.Where("customer_id = ?", *filter.CustomerID)
	}
	if filter.ManagementID != nil {
		query = query.Where("management_id = ?", *filter.ManagementID)
	}
	if filter.Active != nil {
		query = query.Where("active = ?", *filter.Active)
	}
	if filter.StartFrom != nil {
		query = query.Where("start_date >= ?", *filter.StartFrom)
	}
	if filter.StartTo != nil {
		query = query.Where("start_date <= ?", *filter.StartTo)
	}
	return query
}

// installmentOrder preloads installments in due date order with sequence as
// the tie break, matching the allocation contract.
func installmentOrder(db *gorm.DB) *gorm.DB {
	return db.Order("due_date ASC, sequence ASC")
}

func toDomainSchedules(scheduleModels []models.PaymentScheduleModel) []payment.PaymentSchedule {
	schedules := make([]payment.PaymentSchedule, len(scheduleModels))
	for i, model := range scheduleModels {
		schedules[i] = *model.ToDomain()
	}
	return schedules
}
