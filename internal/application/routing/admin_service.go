package routing

import (
	"context"
	"errors"
	"strings"
	"time"

	"github.com/google/uuid"
	"github.com/merchops/backend/internal/domain/routing"
	"github.com/merchops/backend/internal/domain/shared"
	"go.uber.org/zap"
)

// defaultRetryBackoff is the pause before the single retry of a transient
// store failure.
const defaultRetryBackoff = 100 * time.Millisecond

// AdminService is the routing admin gateway: read and re-run operations over
// the audit trail and the pending queue. Callers are assumed to be authorized
// by the transport layer.
type AdminService struct {
	jobRepo      routing.JobRepository
	historyRepo  routing.HistoryRepository
	scope        TransactionScope
	router       *RoutingService
	logger       *zap.Logger
	retryBackoff time.Duration
}

// NewAdminService creates a new AdminService
func NewAdminService(jobRepo routing.JobRepository, historyRepo routing.HistoryRepository, scope TransactionScope, router *RoutingService, logger *zap.Logger) *AdminService {
	return &AdminService{
		jobRepo:      jobRepo,
		historyRepo:  historyRepo,
		scope:        scope,
		router:       router,
		logger:       logger.Named("routing-admin"),
		retryBackoff: defaultRetryBackoff,
	}
}

// SetRetryBackoff overrides the pause before the single retry of a transient
// store failure. Zero or negative values are ignored.
func (s *AdminService) SetRetryBackoff(d time.Duration) {
	if d > 0 {
		s.retryBackoff = d
	}
}

// GetJob returns a job with all its line items
func (s *AdminService) GetJob(ctx context.Context, jobID uuid.UUID) (*JobResponse, error) {
	job, err := s.jobRepo.FindByID(ctx, jobID)
	if err != nil {
		return nil, err
	}
	return toJobResponse(job), nil
}

// ListPending returns all jobs awaiting manual attention, each with its
// unmatched line items and the reason routing could not place them
func (s *AdminService) ListPending(ctx context.Context, filter shared.Filter) ([]PendingJobResponse, error) {
	jobs, err := s.jobRepo.FindByStatus(ctx, routing.RoutingStatusPending, filter)
	if err != nil {
		return nil, err
	}
	pending := make([]PendingJobResponse, len(jobs))
	for i := range jobs {
		pending[i] = toPendingJobResponse(&jobs[i])
	}
	return pending, nil
}

// ListHistory returns audit entries most recent first, optionally filtered by
// a case-insensitive substring of the order number or manufacturer name
func (s *AdminService) ListHistory(ctx context.Context, query string, filter shared.Filter) (*shared.Paginated[HistoryEntryResponse], error) {
	query = strings.TrimSpace(query)
	entries, err := s.historyRepo.Search(ctx, query, filter)
	if err != nil {
		return nil, err
	}
	total, err := s.historyRepo.CountSearch(ctx, query)
	if err != nil {
		return nil, err
	}

	items := make([]HistoryEntryResponse, len(entries))
	for i, entry := range entries {
		items[i] = toHistoryEntryResponse(entry)
	}
	result := shared.NewPaginated(items, total, filter.Page, filter.PageSize)
	return &result, nil
}

// GetStats aggregates routing counts over the current job table
func (s *AdminService) GetStats(ctx context.Context) (*StatsResponse, error) {
	counts, err := s.jobRepo.CountByStatus(ctx)
	if err != nil {
		return nil, err
	}
	return &StatsResponse{
		TotalJobs:   counts.Total,
		Auto:        counts.ByStatus[routing.RoutingStatusAuto],
		Fallback:    counts.ByStatus[routing.RoutingStatusFallback],
		Manual:      counts.ByStatus[routing.RoutingStatusManual],
		Pending:     counts.ByStatus[routing.RoutingStatusPending],
		SplitOrders: counts.Split,
	}, nil
}

// Assign is the manual override: it points every line item of the job at the
// given manufacturer, marks the job manually routed, and appends an audit
// entry with the administrator's reason. Assigning to an ineligible
// manufacturer requires the explicit override flag.
func (s *AdminService) Assign(ctx context.Context, req AssignRequest) (*JobResponse, error) {
	if strings.TrimSpace(req.Reason) == "" {
		return nil, shared.NewDomainError("INVALID_INPUT", "Manual assignment requires a reason")
	}
	if req.ManufacturerID == uuid.Nil {
		return nil, shared.NewDomainError("INVALID_INPUT", "Manufacturer ID cannot be empty")
	}

	var result *JobResponse
	err := s.withRetry(ctx, func() error {
		return s.scope.Execute(ctx, func(repos TransactionalRepositories) error {
			job, err := repos.JobRepo().FindByIDForUpdate(ctx, req.JobID)
			if err != nil {
				return err
			}
			mfr, err := repos.ManufacturerRepo().FindByID(ctx, req.ManufacturerID)
			if err != nil {
				return err
			}
			if !mfr.Eligible() && !req.Override {
				return shared.NewDomainError("INVALID_STATE", "Manufacturer "+mfr.Name+" is not accepting assignments; set override to force")
			}
			if err := s.router.checkConsistency(ctx, repos, job); err != nil {
				return err
			}

			if err := job.AssignAll(mfr.ID, req.Reason); err != nil {
				return err
			}
			if err := repos.JobRepo().Save(ctx, job); err != nil {
				return err
			}
			entry := routing.NewHistoryEntry(job, mfr.Name)
			if err := repos.HistoryRepo().Insert(ctx, entry); err != nil {
				return err
			}
			result = toJobResponse(job)
			return nil
		})
	})
	if err != nil {
		return nil, err
	}

	s.logger.Info("job manually assigned",
		zap.String("job_id", req.JobID.String()),
		zap.String("manufacturer_id", req.ManufacturerID.String()),
		zap.Bool("override", req.Override),
	)
	return result, nil
}

// Reroute re-runs routing for a pending job
func (s *AdminService) Reroute(ctx context.Context, jobID uuid.UUID) (*JobResponse, error) {
	var result *JobResponse
	err := s.withRetry(ctx, func() error {
		res, err := s.router.Reroute(ctx, jobID)
		if err != nil {
			return err
		}
		result = res
		return nil
	})
	if err != nil {
		return nil, err
	}
	return result, nil
}

// withRetry runs fn, retrying once after a short backoff when it fails with
// anything other than a domain error. Precondition violations (not found,
// invalid state, consistency) are never retried.
func (s *AdminService) withRetry(ctx context.Context, fn func() error) error {
	err := fn()
	if err == nil {
		return nil
	}
	var domainErr *shared.DomainError
	if errors.As(err, &domainErr) {
		return err
	}

	s.logger.Warn("transient routing failure, retrying once", zap.Error(err))
	select {
	case <-ctx.Done():
		return ctx.Err()
	case <-time.After(s.retryBackoff):
	}
	return fn()
}
