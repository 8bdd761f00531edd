package persistence

import (
	"context"
	"errors"
	"strings"

	"github.com/google/uuid"
	"github.com/merchops/backend/internal/domain/routing"
	"github.com/merchops/backend/internal/domain/shared"
	"github.com/merchops/backend/internal/infrastructure/persistence/models"
	"gorm.io/gorm"
	"gorm.io/gorm/clause"
)

// GormJobRepository implements JobRepository using GORM
type GormJobRepository struct {
	db *gorm.DB
}

// NewGormJobRepository creates a new GormJobRepository
func NewGormJobRepository(db *gorm.DB) *GormJobRepository {
	return &GormJobRepository{db: db}
}

// FindByID finds a job with its line items
func (r *GormJobRepository) FindByID(ctx context.Context, id uuid.UUID) (*routing.ManufacturingJob, error) {
	var model models.ManufacturingJobModel
	if err := r.db.WithContext(ctx).
		Preload("Items").
		First(&model, "id = ?", id).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, shared.ErrNotFound
		}
		return nil, err
	}
	return model.ToDomain(), nil
}

// FindByIDForUpdate finds a job with its line items while holding a row lock
// on the job row. Concurrent routing operations on the same job serialize on
// this lock. Must run inside a transaction.
func (r *GormJobRepository) FindByIDForUpdate(ctx context.Context, id uuid.UUID) (*routing.ManufacturingJob, error) {
	var model models.ManufacturingJobModel
	if err := r.db.WithContext(ctx).
		Clauses(clause.Locking{Strength: "UPDATE"}).
		First(&model, "id = ?", id).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, shared.ErrNotFound
		}
		return nil, err
	}
	// Items are loaded separately; FOR UPDATE cannot be combined with Preload.
	if err := r.db.WithContext(ctx).
		Where("job_id = ?", id).
		Order("created_at ASC").
		Find(&model.Items).Error; err != nil {
		return nil, err
	}
	return model.ToDomain(), nil
}

// FindByStatus finds jobs in the given routing status with their items
func (r *GormJobRepository) FindByStatus(ctx context.Context, status routing.RoutingStatus, filter shared.Filter) ([]routing.ManufacturingJob, error) {
	var rows []models.ManufacturingJobModel
	query := r.db.WithContext(ctx).
		Model(&models.ManufacturingJobModel{}).
		Preload("Items").
		Where("status = ?", status)

	if filter.Page > 0 && filter.PageSize > 0 {
		query = query.Offset(filter.Offset()).Limit(filter.PageSize)
	}

	orderBy := ValidateSortField(filter.OrderBy, JobSortFields, "created_at")
	orderDir := "ASC"
	if strings.ToLower(filter.OrderDir) == "desc" || filter.OrderBy == "" {
		orderDir = "DESC"
	}

	if err := query.Order(orderBy + " " + orderDir).Find(&rows).Error; err != nil {
		return nil, err
	}

	jobs := make([]routing.ManufacturingJob, len(rows))
	for i := range rows {
		jobs[i] = *rows[i].ToDomain()
	}
	return jobs, nil
}

// Save creates or updates a job and its line items
func (r *GormJobRepository) Save(ctx context.Context, job *routing.ManufacturingJob) error {
	model := models.ManufacturingJobModelFromDomain(job)
	return r.db.WithContext(ctx).
		Session(&gorm.Session{FullSaveAssociations: true}).
		Save(model).Error
}

// CountByStatus returns job totals per routing status plus the number of
// split orders (jobs whose items span more than one manufacturer)
func (r *GormJobRepository) CountByStatus(ctx context.Context) (*routing.StatusCounts, error) {
	counts := &routing.StatusCounts{
		ByStatus: make(map[routing.RoutingStatus]int64),
	}

	type statusRow struct {
		Status routing.RoutingStatus
		Count  int64
	}
	var rows []statusRow
	if err := r.db.WithContext(ctx).
		Model(&models.ManufacturingJobModel{}).
		Select("status, COUNT(*) AS count").
		Group("status").
		Scan(&rows).Error; err != nil {
		return nil, err
	}
	for _, row := range rows {
		counts.ByStatus[row.Status] = row.Count
		counts.Total += row.Count
	}

	if err := r.db.WithContext(ctx).Raw(`
		SELECT COUNT(*) FROM (
			SELECT job_id FROM job_line_items
			WHERE manufacturer_id IS NOT NULL
			GROUP BY job_id
			HAVING COUNT(DISTINCT manufacturer_id) > 1
		) AS split_jobs`).Scan(&counts.Split).Error; err != nil {
		return nil, err
	}

	return counts, nil
}

// Ensure GormJobRepository implements JobRepository
var _ routing.JobRepository = (*GormJobRepository)(nil)
