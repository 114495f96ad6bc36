package persistence

import (
	"context"
	"errors"

	"github.com/google/uuid"
	"gorm.io/gorm"

	"github.com/cobranza/backend/internal/domain/collection"
	"github.com/cobranza/backend/internal/domain/shared"
	"github.com/cobranza/backend/internal/infrastructure/persistence/models"
)

// GormManagementRepository implements ManagementRepository using GORM
type GormManagementRepository struct {
	db *gorm.DB
}

// NewGormManagementRepository creates a new GormManagementRepository
func NewGormManagementRepository(db *gorm.DB) *GormManagementRepository {
	return &GormManagementRepository{db: db}
}

// FindByID finds a management by its ID
func (r *GormManagementRepository) FindByID(ctx context.Context, id uuid.UUID) (*collection.Management, error) {
	var model models.ManagementModel
	if err := r.db.WithContext(ctx).First(&model, "id = ?", id).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, shared.ErrNotFound
		}
		return nil, err
	}
	return model.ToDomain(), nil
}

// FindByIDForTenant finds a management by ID within a tenant
func (r *GormManagementRepository) FindByIDForTenant(ctx context.Context, tenantID, id uuid.UUID) (*collection.Management, error) {
	var model models.ManagementModel
	if err := r.db.WithContext(ctx).
		Where("tenant_id = ? AND id = ?", tenantID, id).
		First(&model).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, shared.ErrNotFound
		}
		return nil, err
	}
	return model.ToDomain(), nil
}

// FindByCustomer finds managements for a customer, newest first
func (r *GormManagementRepository) FindByCustomer(ctx context.Context, tenantID uuid.UUID, customerID string, filter collection.ManagementFilter) ([]collection.Management, error) {
	var managementModels []models.ManagementModel
	query := r.applyFilter(
		r.db.WithContext(ctx).Model(&models.ManagementModel{}).
			Where("tenant_id = ? AND customer_id = ?", tenantID, customerID),
		filter,
	)

	if err := query.Find(&managementModels).Error; err != nil {
		return nil, err
	}
	return toDomainManagements(managementModels), nil
}

// FindAllForTenant finds managements for a tenant with filtering
func (r *GormManagementRepository) FindAllForTenant(ctx context.Context, tenantID uuid.UUID, filter collection.ManagementFilter) ([]collection.Management, error) {
	var managementModels []models.ManagementModel
	query := r.applyFilter(
		r.db.WithContext(ctx).Model(&models.ManagementModel{}).Where("tenant_id = ?", tenantID),
		filter,
	)

	if err := query.Find(&managementModels).Error; err != nil {
		return nil, err
	}
	return toDomainManagements(managementModels), nil
}

// Save creates or updates a management
func (r *GormManagementRepository) Save(ctx context.Context, management *collection.Management) error {
	model := models.ManagementModelFromDomain(management)
	return r.db.WithContext(ctx).Save(model).Error
}

// CountForTenant counts managements for a tenant with optional filters
func (r *GormManagementRepository) CountForTenant(ctx context.Context, tenantID uuid.UUID, filter collection.ManagementFilter) (int64, error) {
	var count int64
	query := r.applyFilterWithoutPagination(
		r.db.WithContext(ctx).Model(&models.ManagementModel{}).Where("tenant_id = ?", tenantID),
		filter,
	)

	if err := query.Count(&count).Error; err != nil {
		return 0, err
	}
	return count, nil
}

func (r *GormManagementRepository) applyFilter(query *gorm.DB, filter collection.ManagementFilter) *gorm.DB {
	query = r.applyFilterWithoutPagination(query, filter)

	if filter.Page > 0 && filter.PageSize > 0 {
		offset := (filter.Page - 1) * filter.PageSize
		query = query.Offset(offset).Limit(filter.PageSize)
	}

	orderBy := ValidateSortField(filter.OrderBy, ManagementSortFields, "managed_at")
	query = query.Order(orderBy + " " + ValidateSortOrder(filter.OrderDir))

	return query
}

func (r *GormManagementRepository) applyFilterWithoutPagination(query *gorm.DB, filter collection.ManagementFilter) *gorm.DB {
	if filter.CustomerID != nil {
		query = query.Where("customer_id = ?", *filter.CustomerID)
	}
	if filter.PortfolioID != nil {
		query = query.Where("portfolio_id = ?", *filter.PortfolioID)
	}
	if filter.CampaignID != nil {
		query = query.Where("campaign_id = ?", *filter.CampaignID)
	}
	if filter.TypificationCode != nil {
		query = query.Where("typification_code = ?", *filter.TypificationCode)
	}
	if filter.From != nil {
		query = query.Where("managed_at >= ?", *filter.From)
	}
	if filter.To != nil {
		query = query.Where("managed_at <= ?", *filter.To)
	}
	if filter.RegisteredBy != nil {
		query = query.Where("registered_by = ?", *filter.RegisteredBy)
	}
	return query
}

func toDomainManagements(managementModels []models.ManagementModel) []collection.Management {
	managements := make([]collection.Management, len(managementModels))
	for i, model := range managementModels {
		managements[i] = *model.ToDomain()
	}
	return managements
}
