package persistence

import (
	"context"
	"errors"

	"github.com/google/uuid"
	"github.com/merchops/backend/internal/domain/routing"
	"github.com/merchops/backend/internal/domain/shared"
	"github.com/merchops/backend/internal/infrastructure/persistence/models"
	"gorm.io/gorm"
)

// GormHistoryRepository implements HistoryRepository using GORM. The table is
// append-only; this repository exposes no update or delete path.
type GormHistoryRepository struct {
	db *gorm.DB
}

// NewGormHistoryRepository creates a new GormHistoryRepository
func NewGormHistoryRepository(db *gorm.DB) *GormHistoryRepository {
	return &GormHistoryRepository{db: db}
}

// Insert appends an audit record
func (r *GormHistoryRepository) Insert(ctx context.Context, entry *routing.RoutingHistoryEntry) error {
	model := models.RoutingHistoryEntryModelFromDomain(entry)
	return r.db.WithContext(ctx).Create(model).Error
}

// FindLatestByJob returns the most recent entry for a job
func (r *GormHistoryRepository) FindLatestByJob(ctx context.Context, jobID uuid.UUID) (*routing.RoutingHistoryEntry, error) {
	var model models.RoutingHistoryEntryModel
	if err := r.db.WithContext(ctx).
		Where("job_id = ?", jobID).
		Order("created_at DESC").
		First(&model).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, shared.ErrNotFound
		}
		return nil, err
	}
	return model.ToDomain(), nil
}

// Search returns entries most recent first, optionally filtered by a
// case-insensitive substring of the order number or manufacturer name
func (r *GormHistoryRepository) Search(ctx context.Context, query string, filter shared.Filter) ([]routing.RoutingHistoryEntry, error) {
	var rows []models.RoutingHistoryEntryModel
	q := r.applySearch(r.db.WithContext(ctx).Model(&models.RoutingHistoryEntryModel{}), query)

	if filter.Page > 0 && filter.PageSize > 0 {
		q = q.Offset(filter.Offset()).Limit(filter.PageSize)
	}

	if err := q.Order("created_at DESC").Find(&rows).Error; err != nil {
		return nil, err
	}

	entries := make([]routing.RoutingHistoryEntry, len(rows))
	for i := range rows {
		entries[i] = *rows[i].ToDomain()
	}
	return entries, nil
}

// CountSearch counts the entries a Search with the same query would match
func (r *GormHistoryRepository) CountSearch(ctx context.Context, query string) (int64, error) {
	var count int64
	q := r.applySearch(r.db.WithContext(ctx).Model(&models.RoutingHistoryEntryModel{}), query)
	if err := q.Count(&count).Error; err != nil {
		return 0, err
	}
	return count, nil
}

func (r *GormHistoryRepository) applySearch(q *gorm.DB, query string) *gorm.DB {
	if query == "" {
		return q
	}
	pattern := "%" + query + "%"
	return q.Where("order_number ILIKE ? OR manufacturer_name ILIKE ?", pattern, pattern)
}

// Ensure GormHistoryRepository implements HistoryRepository
var _ routing.HistoryRepository = (*GormHistoryRepository)(nil)
