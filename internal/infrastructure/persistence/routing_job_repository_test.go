package persistence

import (
	"context"
	"testing"
	"time"

	"github.com/DATA-DOG/go-sqlmock"
	"github.com/google/uuid"
	"github.com/merchops/backend/internal/domain/routing"
	"github.com/merchops/backend/internal/domain/shared"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func jobRows(id uuid.UUID) *sqlmock.Rows {
	return sqlmock.NewRows([]string{
		"id", "order_id", "order_number", "status", "reason", "manufacturer_id",
		"created_at", "updated_at",
	}).AddRow(id, uuid.New(), "ORD-1001", "pending", "awaiting manual assignment", nil,
		time.Now(), time.Now())
}

func lineItemRows(jobID uuid.UUID) *sqlmock.Rows {
	return sqlmock.NewRows([]string{
		"id", "job_id", "product_id", "product_name", "product_code",
		"capabilities", "quantity", "unit_price", "manufacturer_id", "routed_tier",
	}).AddRow(uuid.New(), jobID, uuid.New(), "Team Hoodie", "HOOD-01",
		[]byte(`["embroidery"]`), 25, decimal.NewFromInt(18), nil, "unmatched")
}

func TestGormJobRepository_FindByID(t *testing.T) {
	gormDB, mock, mockDB := newMockDB(t)
	defer mockDB.Close()
	repo := NewGormJobRepository(gormDB)

	jobID := uuid.New()
	mock.ExpectQuery(`SELECT \* FROM "manufacturing_jobs" WHERE id = \$1 ORDER BY .* LIMIT .*`).
		WithArgs(jobID, 1).
		WillReturnRows(jobRows(jobID))
	mock.ExpectQuery(`SELECT \* FROM "job_line_items" WHERE "job_line_items"\."job_id" = \$1`).
		WithArgs(jobID).
		WillReturnRows(lineItemRows(jobID))

	job, err := repo.FindByID(context.Background(), jobID)

	require.NoError(t, err)
	assert.Equal(t, jobID, job.ID)
	assert.Equal(t, routing.RoutingStatusPending, job.Status)
	require.Len(t, job.Items, 1)
	assert.True(t, job.Items[0].Unmatched())
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestGormJobRepository_FindByIDForUpdate(t *testing.T) {
	t.Run("locks the job row", func(t *testing.T) {
		gormDB, mock, mockDB := newMockDB(t)
		defer mockDB.Close()
		repo := NewGormJobRepository(gormDB)

		jobID := uuid.New()
		mock.ExpectQuery(`SELECT \* FROM "manufacturing_jobs" WHERE id = \$1 ORDER BY .* LIMIT .* FOR UPDATE`).
			WithArgs(jobID, 1).
			WillReturnRows(jobRows(jobID))
		mock.ExpectQuery(`SELECT \* FROM "job_line_items" WHERE job_id = \$1 ORDER BY created_at ASC`).
			WithArgs(jobID).
			WillReturnRows(lineItemRows(jobID))

		job, err := repo.FindByIDForUpdate(context.Background(), jobID)

		require.NoError(t, err)
		assert.Equal(t, jobID, job.ID)
		require.Len(t, job.Items, 1)
		assert.NoError(t, mock.ExpectationsWereMet())
	})

	t.Run("maps missing job to ErrNotFound", func(t *testing.T) {
		gormDB, mock, mockDB := newMockDB(t)
		defer mockDB.Close()
		repo := NewGormJobRepository(gormDB)

		jobID := uuid.New()
		mock.ExpectQuery(`SELECT \* FROM "manufacturing_jobs" WHERE id = \$1 ORDER BY .* LIMIT .* FOR UPDATE`).
			WithArgs(jobID, 1).
			WillReturnRows(sqlmock.NewRows([]string{"id"}))

		_, err := repo.FindByIDForUpdate(context.Background(), jobID)
		assert.ErrorIs(t, err, shared.ErrNotFound)
	})
}

func TestGormJobRepository_FindByStatus(t *testing.T) {
	gormDB, mock, mockDB := newMockDB(t)
	defer mockDB.Close()
	repo := NewGormJobRepository(gormDB)

	jobID := uuid.New()
	mock.ExpectQuery(`SELECT \* FROM "manufacturing_jobs" WHERE status = \$1 ORDER BY created_at DESC LIMIT .*`).
		WithArgs("pending", 20).
		WillReturnRows(jobRows(jobID))
	mock.ExpectQuery(`SELECT \* FROM "job_line_items" WHERE "job_line_items"\."job_id" = \$1`).
		WithArgs(jobID).
		WillReturnRows(lineItemRows(jobID))

	jobs, err := repo.FindByStatus(context.Background(), routing.RoutingStatusPending, shared.DefaultFilter())

	require.NoError(t, err)
	require.Len(t, jobs, 1)
	assert.Equal(t, routing.RoutingStatusPending, jobs[0].Status)
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestGormJobRepository_CountByStatus(t *testing.T) {
	gormDB, mock, mockDB := newMockDB(t)
	defer mockDB.Close()
	repo := NewGormJobRepository(gormDB)

	mock.ExpectQuery(`SELECT status, COUNT\(\*\) AS count FROM "manufacturing_jobs" GROUP BY .?status.?`).
		WillReturnRows(sqlmock.NewRows([]string{"status", "count"}).
			AddRow("auto", 5).
			AddRow("pending", 2).
			AddRow("manual", 1))
	mock.ExpectQuery(`SELECT COUNT\(\*\) FROM \(`).
		WillReturnRows(sqlmock.NewRows([]string{"count"}).AddRow(1))

	counts, err := repo.CountByStatus(context.Background())

	require.NoError(t, err)
	assert.Equal(t, int64(8), counts.Total)
	assert.Equal(t, int64(5), counts.ByStatus[routing.RoutingStatusAuto])
	assert.Equal(t, int64(2), counts.ByStatus[routing.RoutingStatusPending])
	assert.Equal(t, int64(1), counts.Split)
	assert.NoError(t, mock.ExpectationsWereMet())
}
