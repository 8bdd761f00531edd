package routing

import (
	"bytes"
	"context"
	"fmt"

	"github.com/google/uuid"
	"github.com/merchops/backend/internal/domain/partner"
	"github.com/merchops/backend/internal/domain/routing"
	"github.com/merchops/backend/internal/domain/shared"
	"go.uber.org/zap"
)

// RoutingService orchestrates order-to-manufacturer routing. It invokes the
// matcher per line item, aggregates the per-job outcome, and persists the job
// together with exactly one audit entry per routing attempt.
type RoutingService struct {
	scope  TransactionScope
	logger *zap.Logger
}

// NewRoutingService creates a new RoutingService
func NewRoutingService(scope TransactionScope, logger *zap.Logger) *RoutingService {
	return &RoutingService{
		scope:  scope,
		logger: logger.Named("routing"),
	}
}

// CreateJob creates a manufacturing job from an order and routes it
// immediately. The job, its line items, and the first audit entry commit in
// one transaction.
func (s *RoutingService) CreateJob(ctx context.Context, req CreateJobRequest) (*JobResponse, error) {
	if len(req.Items) == 0 {
		return nil, shared.NewDomainError("INVALID_INPUT", "A manufacturing job needs at least one line item")
	}

	job, err := routing.NewManufacturingJob(req.OrderID, req.OrderNumber)
	if err != nil {
		return nil, err
	}
	for _, item := range req.Items {
		if _, err := job.AddItem(item.ProductID, item.ProductName, item.ProductCode, item.Capabilities, item.Quantity, item.UnitPrice); err != nil {
			return nil, err
		}
	}

	err = s.scope.Execute(ctx, func(repos TransactionalRepositories) error {
		pool, err := repos.ManufacturerRepo().FindEligible(ctx)
		if err != nil {
			return err
		}

		if err := routeJob(job, pool); err != nil {
			return err
		}

		if err := repos.JobRepo().Save(ctx, job); err != nil {
			return err
		}
		entry := routing.NewHistoryEntry(job, manufacturerName(pool, job.ManufacturerID))
		return repos.HistoryRepo().Insert(ctx, entry)
	})
	if err != nil {
		return nil, err
	}

	s.logger.Info("job routed",
		zap.String("job_id", job.ID.String()),
		zap.String("order_number", job.OrderNumber),
		zap.String("status", job.Status.String()),
		zap.Bool("split", job.IsSplit()),
	)
	return toJobResponse(job), nil
}

// Reroute re-reads the manufacturer pool and re-runs routing for a pending
// job. The new outcome commits only when at least one previously-unmatched
// line item now matches; otherwise the job is untouched and a "no change"
// audit entry is appended. Jobs that are not pending are rejected.
func (s *RoutingService) Reroute(ctx context.Context, jobID uuid.UUID) (*JobResponse, error) {
	var result *JobResponse

	err := s.scope.Execute(ctx, func(repos TransactionalRepositories) error {
		job, err := repos.JobRepo().FindByIDForUpdate(ctx, jobID)
		if err != nil {
			return err
		}
		if job.Status != routing.RoutingStatusPending {
			return shared.NewDomainError("INVALID_STATE", "Only pending jobs can be re-routed")
		}
		if err := s.checkConsistency(ctx, repos, job); err != nil {
			return err
		}

		pool, err := repos.ManufacturerRepo().FindEligible(ctx)
		if err != nil {
			return err
		}

		results := matchItems(job, pool)
		progressed := false
		for i := range job.Items {
			if job.Items[i].Unmatched() && results[i].Manufacturer != nil {
				progressed = true
				break
			}
		}

		if !progressed {
			entry := routing.NewHistoryEntry(job, "")
			entry.Reason = noChangeReason(results)
			result = toJobResponse(job)
			return repos.HistoryRepo().Insert(ctx, entry)
		}

		if err := applyResults(job, results); err != nil {
			return err
		}
		if err := repos.JobRepo().Save(ctx, job); err != nil {
			return err
		}
		entry := routing.NewHistoryEntry(job, manufacturerName(pool, job.ManufacturerID))
		if err := repos.HistoryRepo().Insert(ctx, entry); err != nil {
			return err
		}
		result = toJobResponse(job)
		return nil
	})
	if err != nil {
		return nil, err
	}

	s.logger.Info("job re-routed",
		zap.String("job_id", jobID.String()),
		zap.String("status", result.Status),
	)
	return result, nil
}

// checkConsistency verifies that the job's routing fields agree with its
// latest audit entry. A mismatch is a data-repair signal: it is logged loudly
// and the operation fails without retry.
func (s *RoutingService) checkConsistency(ctx context.Context, repos TransactionalRepositories, job *routing.ManufacturingJob) error {
	latest, err := repos.HistoryRepo().FindLatestByJob(ctx, job.ID)
	if err != nil {
		return err
	}
	if latest == nil || !latest.Matches(job) {
		s.logger.Error("job routing state disagrees with audit trail",
			zap.String("job_id", job.ID.String()),
			zap.String("job_status", job.Status.String()),
		)
		return shared.ErrConsistency
	}
	return nil
}

// routeJob matches every line item and records the aggregated outcome on the
// job. Used for the initial routing pass at job creation.
func routeJob(job *routing.ManufacturingJob, pool []partner.Manufacturer) error {
	return applyResults(job, matchItems(job, pool))
}

// matchItems runs the matcher for each line item without mutating the job.
// The returned slice is index-aligned with job.Items.
func matchItems(job *routing.ManufacturingJob, pool []partner.Manufacturer) []routing.MatchResult {
	results := make([]routing.MatchResult, len(job.Items))
	for i, item := range job.Items {
		results[i] = routing.Match(routing.Requirements{
			Capabilities: item.Capabilities,
			Quantity:     item.Quantity,
		}, pool)
	}
	return results
}

// applyResults writes per-item assignments and the aggregated job outcome
func applyResults(job *routing.ManufacturingJob, results []routing.MatchResult) error {
	matched := 0
	fallbacks := 0
	firstMiss := ""
	for i := range job.Items {
		res := results[i]
		if res.Manufacturer == nil {
			job.Items[i].ClearAssignment()
			if firstMiss == "" {
				firstMiss = res.Reason
			}
			continue
		}
		job.Items[i].Assign(res.Manufacturer.ID, res.Tier)
		matched++
		if res.Tier == routing.MatchTierFallback {
			fallbacks++
		}
	}

	total := len(job.Items)
	if matched < total {
		reason := fmt.Sprintf("%s; %d of %d line items routed", firstMiss, matched, total)
		return job.SetOutcome(routing.RoutingStatusPending, nil, reason)
	}

	status := routing.RoutingStatusAuto
	reason := fmt.Sprintf("all %d line items routed automatically", total)
	if fallbacks > 0 {
		status = routing.RoutingStatusFallback
		reason = fmt.Sprintf("all %d line items routed, %d via fallback", total, fallbacks)
	}
	if job.IsSplit() {
		reason += fmt.Sprintf("; split across %d manufacturers", len(job.DistinctManufacturers()))
	}

	dominant := dominantManufacturer(job)
	return job.SetOutcome(status, &dominant, reason)
}

// dominantManufacturer picks the manufacturer covering the most line items;
// ties go to the lowest ID for determinism. Only meaningful once every item
// is assigned.
func dominantManufacturer(job *routing.ManufacturingJob) uuid.UUID {
	counts := make(map[uuid.UUID]int)
	for _, item := range job.Items {
		if item.ManufacturerID != nil {
			counts[*item.ManufacturerID]++
		}
	}

	var best uuid.UUID
	bestCount := -1
	for id, count := range counts {
		if count > bestCount || (count == bestCount && bytes.Compare(id[:], best[:]) < 0) {
			best = id
			bestCount = count
		}
	}
	return best
}

// manufacturerName resolves a manufacturer's display name from the pool used
// for the routing pass. Empty when the job is pending.
func manufacturerName(pool []partner.Manufacturer, id *uuid.UUID) string {
	if id == nil {
		return ""
	}
	for i := range pool {
		if pool[i].ID == *id {
			return pool[i].Name
		}
	}
	return ""
}

// noChangeReason summarizes why a re-route left the job pending
func noChangeReason(results []routing.MatchResult) string {
	for _, res := range results {
		if res.Manufacturer == nil {
			return "no change, still pending: " + res.Reason
		}
	}
	return "no change, still pending"
}
