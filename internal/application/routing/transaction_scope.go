package routing

import (
	"context"

	"github.com/merchops/backend/internal/domain/partner"
	"github.com/merchops/backend/internal/domain/routing"
)

// TransactionalRepositories provides access to the repositories participating
// in a routing transaction. All repositories returned by one instance share
// the same unit of work.
type TransactionalRepositories interface {
	JobRepo() routing.JobRepository
	HistoryRepo() routing.HistoryRepository
	ManufacturerRepo() partner.ManufacturerRepository
}

// TransactionScope executes a function atomically. The job update and its
// audit entry must commit together; partial application must never be
// observable, including after a crash mid-operation.
type TransactionScope interface {
	Execute(ctx context.Context, fn func(repos TransactionalRepositories) error) error
}

// NoOpTransactionScope runs the function against fixed repositories without a
// real transaction. Useful in tests.
type NoOpTransactionScope struct {
	jobRepo          routing.JobRepository
	historyRepo      routing.HistoryRepository
	manufacturerRepo partner.ManufacturerRepository
}

// NewNoOpTransactionScope creates a NoOpTransactionScope with the given repositories
func NewNoOpTransactionScope(jobRepo routing.JobRepository, historyRepo routing.HistoryRepository, manufacturerRepo partner.ManufacturerRepository) *NoOpTransactionScope {
	return &NoOpTransactionScope{
		jobRepo:          jobRepo,
		historyRepo:      historyRepo,
		manufacturerRepo: manufacturerRepo,
	}
}

// Execute runs fn directly against the configured repositories
func (s *NoOpTransactionScope) Execute(ctx context.Context, fn func(repos TransactionalRepositories) error) error {
	return fn(s)
}

// JobRepo returns the job repository
func (s *NoOpTransactionScope) JobRepo() routing.JobRepository { return s.jobRepo }

// HistoryRepo returns the history repository
func (s *NoOpTransactionScope) HistoryRepo() routing.HistoryRepository { return s.historyRepo }

// ManufacturerRepo returns the manufacturer repository
func (s *NoOpTransactionScope) ManufacturerRepo() partner.ManufacturerRepository {
	return s.manufacturerRepo
}

// Ensure NoOpTransactionScope implements both interfaces
var (
	_ TransactionScope          = (*NoOpTransactionScope)(nil)
	_ TransactionalRepositories = (*NoOpTransactionScope)(nil)
)
