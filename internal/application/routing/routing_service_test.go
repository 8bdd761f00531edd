package routing

import (
	"context"
	"testing"

	"github.com/google/uuid"
	"github.com/merchops/backend/internal/domain/partner"
	"github.com/merchops/backend/internal/domain/routing"
	"github.com/merchops/backend/internal/domain/shared"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"
)

// =============================================================================
// Mock Repositories
// =============================================================================

// MockJobRepository is a mock implementation of routing.JobRepository
type MockJobRepository struct {
	mock.Mock
}

func (m *MockJobRepository) FindByID(ctx context.Context, id uuid.UUID) (*routing.ManufacturingJob, error) {
	args := m.Called(ctx, id)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*routing.ManufacturingJob), args.Error(1)
}

func (m *MockJobRepository) FindByIDForUpdate(ctx context.Context, id uuid.UUID) (*routing.ManufacturingJob, error) {
	args := m.Called(ctx, id)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*routing.ManufacturingJob), args.Error(1)
}

func (m *MockJobRepository) FindByStatus(ctx context.Context, status routing.RoutingStatus, filter shared.Filter) ([]routing.ManufacturingJob, error) {
	args := m.Called(ctx, status, filter)
	return args.Get(0).([]routing.ManufacturingJob), args.Error(1)
}

func (m *MockJobRepository) Save(ctx context.Context, job *routing.ManufacturingJob) error {
	args := m.Called(ctx, job)
	return args.Error(0)
}

func (m *MockJobRepository) CountByStatus(ctx context.Context) (*routing.StatusCounts, error) {
	args := m.Called(ctx)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*routing.StatusCounts), args.Error(1)
}

// MockHistoryRepository is a mock implementation of routing.HistoryRepository
type MockHistoryRepository struct {
	mock.Mock
}

func (m *MockHistoryRepository) Insert(ctx context.Context, entry *routing.RoutingHistoryEntry) error {
	args := m.Called(ctx, entry)
	return args.Error(0)
}

func (m *MockHistoryRepository) FindLatestByJob(ctx context.Context, jobID uuid.UUID) (*routing.RoutingHistoryEntry, error) {
	args := m.Called(ctx, jobID)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*routing.RoutingHistoryEntry), args.Error(1)
}

func (m *MockHistoryRepository) Search(ctx context.Context, query string, filter shared.Filter) ([]routing.RoutingHistoryEntry, error) {
	args := m.Called(ctx, query, filter)
	return args.Get(0).([]routing.RoutingHistoryEntry), args.Error(1)
}

func (m *MockHistoryRepository) CountSearch(ctx context.Context, query string) (int64, error) {
	args := m.Called(ctx, query)
	return args.Get(0).(int64), args.Error(1)
}

// MockManufacturerRepository is a mock implementation of partner.ManufacturerRepository
type MockManufacturerRepository struct {
	mock.Mock
}

func (m *MockManufacturerRepository) FindByID(ctx context.Context, id uuid.UUID) (*partner.Manufacturer, error) {
	args := m.Called(ctx, id)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*partner.Manufacturer), args.Error(1)
}

func (m *MockManufacturerRepository) FindByCode(ctx context.Context, code string) (*partner.Manufacturer, error) {
	args := m.Called(ctx, code)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*partner.Manufacturer), args.Error(1)
}

func (m *MockManufacturerRepository) FindAll(ctx context.Context, filter shared.Filter) ([]partner.Manufacturer, error) {
	args := m.Called(ctx, filter)
	return args.Get(0).([]partner.Manufacturer), args.Error(1)
}

func (m *MockManufacturerRepository) FindEligible(ctx context.Context) ([]partner.Manufacturer, error) {
	args := m.Called(ctx)
	return args.Get(0).([]partner.Manufacturer), args.Error(1)
}

func (m *MockManufacturerRepository) Save(ctx context.Context, manufacturer *partner.Manufacturer) error {
	args := m.Called(ctx, manufacturer)
	return args.Error(0)
}

func (m *MockManufacturerRepository) Delete(ctx context.Context, id uuid.UUID) error {
	args := m.Called(ctx, id)
	return args.Error(0)
}

func (m *MockManufacturerRepository) Count(ctx context.Context, filter shared.Filter) (int64, error) {
	args := m.Called(ctx, filter)
	return args.Get(0).(int64), args.Error(1)
}

func (m *MockManufacturerRepository) ExistsByCode(ctx context.Context, code string) (bool, error) {
	args := m.Called(ctx, code)
	return args.Bool(0), args.Error(1)
}

// =============================================================================
// Test helpers
// =============================================================================

type testRepos struct {
	jobs          *MockJobRepository
	history       *MockHistoryRepository
	manufacturers *MockManufacturerRepository
}

func newTestRouter(t *testing.T) (*RoutingService, testRepos) {
	repos := testRepos{
		jobs:          new(MockJobRepository),
		history:       new(MockHistoryRepository),
		manufacturers: new(MockManufacturerRepository),
	}
	scope := NewNoOpTransactionScope(repos.jobs, repos.history, repos.manufacturers)
	return NewRoutingService(scope, zap.NewNop()), repos
}

func poolManufacturer(t *testing.T, name string, capabilities []string, moq, leadDays int) partner.Manufacturer {
	m, err := partner.NewManufacturer("MFR-"+name, name, "US")
	require.NoError(t, err)
	require.NoError(t, m.SetCapabilities(capabilities))
	require.NoError(t, m.SetOrderTerms(moq, leadDays))
	return *m
}

func jobRequest(items ...CreateJobItem) CreateJobRequest {
	return CreateJobRequest{
		OrderID:     uuid.New(),
		OrderNumber: "ORD-2026-0042",
		Items:       items,
	}
}

func jobItem(name string, capabilities []string, quantity int) CreateJobItem {
	return CreateJobItem{
		ProductID:    uuid.New(),
		ProductName:  name,
		ProductCode:  "SKU-" + name,
		Capabilities: capabilities,
		Quantity:     quantity,
		UnitPrice:    decimal.NewFromFloat(9.99),
	}
}

// =============================================================================
// CreateJob
// =============================================================================

func TestRoutingService_CreateJob_Auto(t *testing.T) {
	svc, repos := newTestRouter(t)
	m1 := poolManufacturer(t, "M1", []string{"screen-print"}, 10, 5)
	m2 := poolManufacturer(t, "M2", []string{"embroidery"}, 5, 3)

	repos.manufacturers.On("FindEligible", mock.Anything).Return([]partner.Manufacturer{m1, m2}, nil)
	repos.jobs.On("Save", mock.Anything, mock.Anything).Return(nil)
	repos.history.On("Insert", mock.Anything, mock.Anything).Return(nil)

	resp, err := svc.CreateJob(context.Background(), jobRequest(jobItem("Tee", []string{"screen-print"}, 20)))

	require.NoError(t, err)
	assert.Equal(t, "auto", resp.Status)
	require.NotNil(t, resp.ManufacturerID)
	assert.Equal(t, m1.ID, *resp.ManufacturerID)
	assert.False(t, resp.Split)

	repos.history.AssertNumberOfCalls(t, "Insert", 1)
	entry := repos.history.Calls[0].Arguments.Get(1).(*routing.RoutingHistoryEntry)
	assert.Equal(t, routing.RoutingStatusAuto, entry.RoutedBy)
	assert.Equal(t, "M1", entry.ManufacturerName)
	assert.Equal(t, "ORD-2026-0042", entry.OrderNumber)
}

func TestRoutingService_CreateJob_Fallback(t *testing.T) {
	svc, repos := newTestRouter(t)
	m1 := poolManufacturer(t, "M1", []string{"screen-print"}, 10, 5)
	m2 := poolManufacturer(t, "M2", []string{"embroidery"}, 5, 3)

	repos.manufacturers.On("FindEligible", mock.Anything).Return([]partner.Manufacturer{m1, m2}, nil)
	repos.jobs.On("Save", mock.Anything, mock.Anything).Return(nil)
	repos.history.On("Insert", mock.Anything, mock.Anything).Return(nil)

	resp, err := svc.CreateJob(context.Background(), jobRequest(jobItem("Tee", []string{"DTF"}, 20)))

	require.NoError(t, err)
	assert.Equal(t, "fallback", resp.Status)
	require.NotNil(t, resp.ManufacturerID)
	// M2 wins the relaxed candidate set on lead time.
	assert.Equal(t, m2.ID, *resp.ManufacturerID)
	assert.Contains(t, resp.Reason, "fallback")
}

func TestRoutingService_CreateJob_PendingWhenNobodyEligible(t *testing.T) {
	svc, repos := newTestRouter(t)

	repos.manufacturers.On("FindEligible", mock.Anything).Return([]partner.Manufacturer{}, nil)
	repos.jobs.On("Save", mock.Anything, mock.Anything).Return(nil)
	repos.history.On("Insert", mock.Anything, mock.Anything).Return(nil)

	resp, err := svc.CreateJob(context.Background(), jobRequest(jobItem("Tee", []string{"screen-print"}, 20)))

	require.NoError(t, err)
	assert.Equal(t, "pending", resp.Status)
	assert.Nil(t, resp.ManufacturerID)

	entry := repos.history.Calls[0].Arguments.Get(1).(*routing.RoutingHistoryEntry)
	assert.Equal(t, routing.RoutingStatusPending, entry.RoutedBy)
	assert.Nil(t, entry.ManufacturerID)
	assert.Empty(t, entry.ManufacturerName)
}

func TestRoutingService_CreateJob_SplitOrder(t *testing.T) {
	svc, repos := newTestRouter(t)
	printer := poolManufacturer(t, "Printer", []string{"screen-print"}, 1, 5)
	embroiderer := poolManufacturer(t, "Embroiderer", []string{"embroidery"}, 1, 3)

	repos.manufacturers.On("FindEligible", mock.Anything).Return([]partner.Manufacturer{printer, embroiderer}, nil)
	repos.jobs.On("Save", mock.Anything, mock.Anything).Return(nil)
	repos.history.On("Insert", mock.Anything, mock.Anything).Return(nil)

	resp, err := svc.CreateJob(context.Background(), jobRequest(
		jobItem("TeeFront", []string{"screen-print"}, 30),
		jobItem("TeeBack", []string{"screen-print"}, 30),
		jobItem("Cap", []string{"embroidery"}, 12),
	))

	require.NoError(t, err)
	assert.Equal(t, "auto", resp.Status)
	assert.True(t, resp.Split)
	// Dominant manufacturer covers two of three items.
	require.NotNil(t, resp.ManufacturerID)
	assert.Equal(t, printer.ID, *resp.ManufacturerID)
	assert.Contains(t, resp.Reason, "split across 2 manufacturers")
}

func TestRoutingService_CreateJob_Validation(t *testing.T) {
	svc, _ := newTestRouter(t)

	t.Run("rejects empty item list", func(t *testing.T) {
		_, err := svc.CreateJob(context.Background(), jobRequest())
		require.Error(t, err)
		var domainErr *shared.DomainError
		require.ErrorAs(t, err, &domainErr)
		assert.Equal(t, "INVALID_INPUT", domainErr.Code)
	})

	t.Run("rejects invalid quantity", func(t *testing.T) {
		_, err := svc.CreateJob(context.Background(), jobRequest(jobItem("Tee", nil, 0)))
		assert.Error(t, err)
	})
}

func TestRoutingService_CreateJob_DeterministicAcrossRuns(t *testing.T) {
	m1 := poolManufacturer(t, "M1", []string{"screen-print"}, 10, 5)
	m2 := poolManufacturer(t, "M2", []string{"screen-print"}, 10, 5)
	pool := []partner.Manufacturer{m1, m2}
	req := jobRequest(jobItem("Tee", []string{"screen-print"}, 20))

	var firstPick uuid.UUID
	for i := 0; i < 10; i++ {
		svc, repos := newTestRouter(t)
		repos.manufacturers.On("FindEligible", mock.Anything).Return(pool, nil)
		repos.jobs.On("Save", mock.Anything, mock.Anything).Return(nil)
		repos.history.On("Insert", mock.Anything, mock.Anything).Return(nil)

		resp, err := svc.CreateJob(context.Background(), req)
		require.NoError(t, err)
		require.NotNil(t, resp.ManufacturerID)
		if i == 0 {
			firstPick = *resp.ManufacturerID
			continue
		}
		assert.Equal(t, firstPick, *resp.ManufacturerID)
	}
}

// =============================================================================
// Reroute
// =============================================================================

func pendingJob(t *testing.T) *routing.ManufacturingJob {
	job, err := routing.NewManufacturingJob(uuid.New(), "ORD-2026-0100")
	require.NoError(t, err)
	_, err = job.AddItem(uuid.New(), "Hoodie", "SKU-H", []string{"embroidery"}, 24, decimal.NewFromInt(20))
	require.NoError(t, err)
	require.NoError(t, job.SetOutcome(routing.RoutingStatusPending, nil, "no active manufacturer is accepting new orders; 0 of 1 line items routed"))
	return job
}

func TestRoutingService_Reroute_ResolvesPendingJob(t *testing.T) {
	svc, repos := newTestRouter(t)
	job := pendingJob(t)
	m1 := poolManufacturer(t, "M1", []string{"embroidery"}, 5, 3)

	repos.jobs.On("FindByIDForUpdate", mock.Anything, job.ID).Return(job, nil)
	repos.history.On("FindLatestByJob", mock.Anything, job.ID).Return(routing.NewHistoryEntry(job, ""), nil)
	repos.manufacturers.On("FindEligible", mock.Anything).Return([]partner.Manufacturer{m1}, nil)
	repos.jobs.On("Save", mock.Anything, job).Return(nil)
	repos.history.On("Insert", mock.Anything, mock.Anything).Return(nil)

	resp, err := svc.Reroute(context.Background(), job.ID)

	require.NoError(t, err)
	assert.Equal(t, "auto", resp.Status)
	require.NotNil(t, resp.ManufacturerID)
	assert.Equal(t, m1.ID, *resp.ManufacturerID)
	repos.jobs.AssertCalled(t, "Save", mock.Anything, job)
	repos.history.AssertNumberOfCalls(t, "Insert", 1)
}

func TestRoutingService_Reroute_NoChangeIsAuditedNoOp(t *testing.T) {
	svc, repos := newTestRouter(t)
	job := pendingJob(t)

	repos.jobs.On("FindByIDForUpdate", mock.Anything, job.ID).Return(job, nil)
	repos.history.On("FindLatestByJob", mock.Anything, job.ID).Return(routing.NewHistoryEntry(job, ""), nil)
	repos.manufacturers.On("FindEligible", mock.Anything).Return([]partner.Manufacturer{}, nil)
	repos.history.On("Insert", mock.Anything, mock.Anything).Return(nil)

	resp, err := svc.Reroute(context.Background(), job.ID)

	require.NoError(t, err)
	assert.Equal(t, "pending", resp.Status)
	// The job row is untouched, but the attempt is still audited.
	repos.jobs.AssertNotCalled(t, "Save", mock.Anything, mock.Anything)
	repos.history.AssertNumberOfCalls(t, "Insert", 1)
	entry := findInsertCall(repos.history).Arguments.Get(1).(*routing.RoutingHistoryEntry)
	assert.Equal(t, routing.RoutingStatusPending, entry.RoutedBy)
	assert.Contains(t, entry.Reason, "no change, still pending")
}

func TestRoutingService_Reroute_RejectsNonPendingJob(t *testing.T) {
	svc, repos := newTestRouter(t)
	job := pendingJob(t)
	mfrID := uuid.New()
	job.Items[0].Assign(mfrID, routing.MatchTierAuto)
	require.NoError(t, job.SetOutcome(routing.RoutingStatusAuto, &mfrID, "routed"))

	repos.jobs.On("FindByIDForUpdate", mock.Anything, job.ID).Return(job, nil)

	_, err := svc.Reroute(context.Background(), job.ID)

	require.Error(t, err)
	var domainErr *shared.DomainError
	require.ErrorAs(t, err, &domainErr)
	assert.Equal(t, "INVALID_STATE", domainErr.Code)
	repos.history.AssertNotCalled(t, "Insert", mock.Anything, mock.Anything)
}

func TestRoutingService_Reroute_JobNotFound(t *testing.T) {
	svc, repos := newTestRouter(t)
	jobID := uuid.New()
	repos.jobs.On("FindByIDForUpdate", mock.Anything, jobID).Return(nil, shared.ErrNotFound)

	_, err := svc.Reroute(context.Background(), jobID)

	assert.ErrorIs(t, err, shared.ErrNotFound)
}

func TestRoutingService_Reroute_DetectsAuditMismatch(t *testing.T) {
	svc, repos := newTestRouter(t)
	job := pendingJob(t)

	// Latest entry claims the job was already routed.
	stale := pendingJob(t)
	staleID := uuid.New()
	stale.Items[0].Assign(staleID, routing.MatchTierAuto)
	require.NoError(t, stale.SetOutcome(routing.RoutingStatusAuto, &staleID, "routed"))
	mismatched := routing.NewHistoryEntry(stale, "Other")
	mismatched.JobID = job.ID

	repos.jobs.On("FindByIDForUpdate", mock.Anything, job.ID).Return(job, nil)
	repos.history.On("FindLatestByJob", mock.Anything, job.ID).Return(mismatched, nil)

	_, err := svc.Reroute(context.Background(), job.ID)

	assert.ErrorIs(t, err, shared.ErrConsistency)
	repos.jobs.AssertNotCalled(t, "Save", mock.Anything, mock.Anything)
}

func findInsertCall(m *MockHistoryRepository) mock.Call {
	for _, call := range m.Calls {
		if call.Method == "Insert" {
			return call
		}
	}
	return mock.Call{}
}
