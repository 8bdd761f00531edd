package persistence

import (
	"context"
	"errors"
	"strings"

	"github.com/google/uuid"
	"github.com/merchops/backend/internal/domain/partner"
	"github.com/merchops/backend/internal/domain/shared"
	"github.com/merchops/backend/internal/infrastructure/persistence/models"
	"gorm.io/gorm"
)

// GormManufacturerRepository implements ManufacturerRepository using GORM
type GormManufacturerRepository struct {
	db *gorm.DB
}

// NewGormManufacturerRepository creates a new GormManufacturerRepository
func NewGormManufacturerRepository(db *gorm.DB) *GormManufacturerRepository {
	return &GormManufacturerRepository{db: db}
}

// FindByID finds a manufacturer by its ID
func (r *GormManufacturerRepository) FindByID(ctx context.Context, id uuid.UUID) (*partner.Manufacturer, error) {
	var model models.ManufacturerModel
	if err := r.db.WithContext(ctx).First(&model, "id = ?", id).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, shared.ErrNotFound
		}
		return nil, err
	}
	return model.ToDomain(), nil
}

// FindByCode finds a manufacturer by its code
func (r *GormManufacturerRepository) FindByCode(ctx context.Context, code string) (*partner.Manufacturer, error) {
	var model models.ManufacturerModel
	if err := r.db.WithContext(ctx).First(&model, "code = ?", code).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, shared.ErrNotFound
		}
		return nil, err
	}
	return model.ToDomain(), nil
}

// FindAll finds all manufacturers matching the filter
func (r *GormManufacturerRepository) FindAll(ctx context.Context, filter shared.Filter) ([]partner.Manufacturer, error) {
	var rows []models.ManufacturerModel
	query := r.applyFilter(r.db.WithContext(ctx).Model(&models.ManufacturerModel{}), filter)

	if err := query.Find(&rows).Error; err != nil {
		return nil, err
	}
	return toDomainManufacturers(rows), nil
}

// FindEligible finds manufacturers that are active and accepting new orders
func (r *GormManufacturerRepository) FindEligible(ctx context.Context) ([]partner.Manufacturer, error) {
	var rows []models.ManufacturerModel
	if err := r.db.WithContext(ctx).
		Where("active = ? AND accepting_new_orders = ?", true, true).
		Order("code ASC").
		Find(&rows).Error; err != nil {
		return nil, err
	}
	return toDomainManufacturers(rows), nil
}

// Save creates or updates a manufacturer
func (r *GormManufacturerRepository) Save(ctx context.Context, manufacturer *partner.Manufacturer) error {
	model := models.ManufacturerModelFromDomain(manufacturer)
	return r.db.WithContext(ctx).Save(model).Error
}

// Delete deletes a manufacturer
func (r *GormManufacturerRepository) Delete(ctx context.Context, id uuid.UUID) error {
	result := r.db.WithContext(ctx).Delete(&models.ManufacturerModel{}, "id = ?", id)
	if result.Error != nil {
		return result.Error
	}
	if result.RowsAffected == 0 {
		return shared.ErrNotFound
	}
	return nil
}

// Count counts manufacturers matching the filter
func (r *GormManufacturerRepository) Count(ctx context.Context, filter shared.Filter) (int64, error) {
	var count int64
	query := r.applyFilterWithoutPagination(r.db.WithContext(ctx).Model(&models.ManufacturerModel{}), filter)

	if err := query.Count(&count).Error; err != nil {
		return 0, err
	}
	return count, nil
}

// ExistsByCode checks if a manufacturer with the given code exists
func (r *GormManufacturerRepository) ExistsByCode(ctx context.Context, code string) (bool, error) {
	var count int64
	if err := r.db.WithContext(ctx).
		Model(&models.ManufacturerModel{}).
		Where("code = ?", code).
		Count(&count).Error; err != nil {
		return false, err
	}
	return count > 0, nil
}

// applyFilter applies filter options to the query
func (r *GormManufacturerRepository) applyFilter(query *gorm.DB, filter shared.Filter) *gorm.DB {
	query = r.applyFilterWithoutPagination(query, filter)

	if filter.Page > 0 && filter.PageSize > 0 {
		query = query.Offset(filter.Offset()).Limit(filter.PageSize)
	}

	orderBy := ValidateSortField(filter.OrderBy, ManufacturerSortFields, "code")
	orderDir := "ASC"
	if strings.ToLower(filter.OrderDir) == "desc" {
		orderDir = "DESC"
	}
	return query.Order(orderBy + " " + orderDir)
}

// applyFilterWithoutPagination applies filter options without pagination
func (r *GormManufacturerRepository) applyFilterWithoutPagination(query *gorm.DB, filter shared.Filter) *gorm.DB {
	if filter.Search != "" {
		searchPattern := "%" + filter.Search + "%"
		query = query.Where("name ILIKE ? OR code ILIKE ? OR country ILIKE ?",
			searchPattern, searchPattern, searchPattern)
	}

	for key, value := range filter.Filters {
		switch key {
		case "active":
			query = query.Where("active = ?", value)
		case "accepting_new_orders":
			query = query.Where("accepting_new_orders = ?", value)
		case "country":
			query = query.Where("country = ?", value)
		}
	}

	return query
}

func toDomainManufacturers(rows []models.ManufacturerModel) []partner.Manufacturer {
	manufacturers := make([]partner.Manufacturer, len(rows))
	for i := range rows {
		manufacturers[i] = *rows[i].ToDomain()
	}
	return manufacturers
}

// Ensure GormManufacturerRepository implements ManufacturerRepository
var _ partner.ManufacturerRepository = (*GormManufacturerRepository)(nil)
