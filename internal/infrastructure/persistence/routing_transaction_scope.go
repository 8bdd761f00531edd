package persistence

import (
	"context"

	approuting "github.com/merchops/backend/internal/application/routing"
	"github.com/merchops/backend/internal/domain/partner"
	"github.com/merchops/backend/internal/domain/routing"
	"gorm.io/gorm"
)

// GormTransactionScope implements TransactionScope using GORM transactions.
// The job update and its audit entry commit or roll back together.
type GormTransactionScope struct {
	db *gorm.DB
}

// NewGormTransactionScope creates a new GormTransactionScope.
func NewGormTransactionScope(db *gorm.DB) *GormTransactionScope {
	return &GormTransactionScope{db: db}
}

// Execute runs the given function within a database transaction.
// If the function returns an error, the transaction is rolled back.
func (s *GormTransactionScope) Execute(ctx context.Context, fn func(repos approuting.TransactionalRepositories) error) error {
	return s.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		repos := &gormTransactionalRepositories{tx: tx}
		return fn(repos)
	})
}

// gormTransactionalRepositories provides access to all repositories within a transaction.
type gormTransactionalRepositories struct {
	tx *gorm.DB
}

// JobRepo returns the job repository scoped to the current transaction.
func (r *gormTransactionalRepositories) JobRepo() routing.JobRepository {
	return NewGormJobRepository(r.tx)
}

// HistoryRepo returns the history repository scoped to the current transaction.
func (r *gormTransactionalRepositories) HistoryRepo() routing.HistoryRepository {
	return NewGormHistoryRepository(r.tx)
}

// ManufacturerRepo returns the manufacturer repository scoped to the current transaction.
func (r *gormTransactionalRepositories) ManufacturerRepo() partner.ManufacturerRepository {
	return NewGormManufacturerRepository(r.tx)
}

// Ensure GormTransactionScope implements TransactionScope
var _ approuting.TransactionScope = (*GormTransactionScope)(nil)

// Ensure gormTransactionalRepositories implements TransactionalRepositories
var _ approuting.TransactionalRepositories = (*gormTransactionalRepositories)(nil)
