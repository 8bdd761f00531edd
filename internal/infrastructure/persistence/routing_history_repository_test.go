package persistence

import (
	"context"
	"testing"
	"time"

	"github.com/DATA-DOG/go-sqlmock"
	"github.com/google/uuid"
	"github.com/merchops/backend/internal/domain/routing"
	"github.com/merchops/backend/internal/domain/shared"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func historyRows(jobID uuid.UUID) *sqlmock.Rows {
	return sqlmock.NewRows([]string{
		"id", "job_id", "order_id", "order_number", "manufacturer_id",
		"manufacturer_name", "routed_by", "reason", "created_at",
	}).AddRow(uuid.New(), jobID, uuid.New(), "ORD-1001", nil,
		"", "pending", "no eligible manufacturers", time.Now())
}

func TestGormHistoryRepository_Insert(t *testing.T) {
	gormDB, mock, mockDB := newMockDB(t)
	defer mockDB.Close()
	repo := NewGormHistoryRepository(gormDB)

	entry := &routing.RoutingHistoryEntry{
		ID:          uuid.New(),
		JobID:       uuid.New(),
		OrderID:     uuid.New(),
		OrderNumber: "ORD-1001",
		RoutedBy:    routing.RoutingStatusPending,
		Reason:      "no eligible manufacturers",
		CreatedAt:   time.Now(),
	}

	mock.ExpectExec(`INSERT INTO "routing_history"`).
		WillReturnResult(sqlmock.NewResult(0, 1))

	require.NoError(t, repo.Insert(context.Background(), entry))
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestGormHistoryRepository_FindLatestByJob(t *testing.T) {
	t.Run("returns most recent entry", func(t *testing.T) {
		gormDB, mock, mockDB := newMockDB(t)
		defer mockDB.Close()
		repo := NewGormHistoryRepository(gormDB)

		jobID := uuid.New()
		mock.ExpectQuery(`SELECT \* FROM "routing_history" WHERE job_id = \$1 ORDER BY created_at DESC,.* LIMIT .*`).
			WithArgs(jobID, 1).
			WillReturnRows(historyRows(jobID))

		entry, err := repo.FindLatestByJob(context.Background(), jobID)

		require.NoError(t, err)
		assert.Equal(t, jobID, entry.JobID)
		assert.Equal(t, routing.RoutingStatusPending, entry.RoutedBy)
		assert.NoError(t, mock.ExpectationsWereMet())
	})

	t.Run("maps missing entry to ErrNotFound", func(t *testing.T) {
		gormDB, mock, mockDB := newMockDB(t)
		defer mockDB.Close()
		repo := NewGormHistoryRepository(gormDB)

		jobID := uuid.New()
		mock.ExpectQuery(`SELECT \* FROM "routing_history" WHERE job_id = \$1 ORDER BY created_at DESC,.* LIMIT .*`).
			WithArgs(jobID, 1).
			WillReturnRows(sqlmock.NewRows([]string{"id"}))

		_, err := repo.FindLatestByJob(context.Background(), jobID)
		assert.ErrorIs(t, err, shared.ErrNotFound)
	})
}

func TestGormHistoryRepository_Search(t *testing.T) {
	t.Run("filters by substring across order number and manufacturer name", func(t *testing.T) {
		gormDB, mock, mockDB := newMockDB(t)
		defer mockDB.Close()
		repo := NewGormHistoryRepository(gormDB)

		mock.ExpectQuery(`SELECT \* FROM "routing_history" WHERE order_number ILIKE \$1 OR manufacturer_name ILIKE \$2 ORDER BY created_at DESC LIMIT .*`).
			WithArgs("%ORD-10%", "%ORD-10%", 20).
			WillReturnRows(historyRows(uuid.New()))

		entries, err := repo.Search(context.Background(), "ORD-10", shared.DefaultFilter())

		require.NoError(t, err)
		assert.Len(t, entries, 1)
		assert.NoError(t, mock.ExpectationsWereMet())
	})

	t.Run("empty query lists everything", func(t *testing.T) {
		gormDB, mock, mockDB := newMockDB(t)
		defer mockDB.Close()
		repo := NewGormHistoryRepository(gormDB)

		mock.ExpectQuery(`SELECT \* FROM "routing_history" ORDER BY created_at DESC LIMIT .*`).
			WithArgs(20).
			WillReturnRows(historyRows(uuid.New()))

		entries, err := repo.Search(context.Background(), "", shared.DefaultFilter())

		require.NoError(t, err)
		assert.Len(t, entries, 1)
		assert.NoError(t, mock.ExpectationsWereMet())
	})
}

func TestGormHistoryRepository_CountSearch(t *testing.T) {
	gormDB, mock, mockDB := newMockDB(t)
	defer mockDB.Close()
	repo := NewGormHistoryRepository(gormDB)

	mock.ExpectQuery(`SELECT count\(\*\) FROM "routing_history" WHERE order_number ILIKE \$1 OR manufacturer_name ILIKE \$2`).
		WithArgs("%acme%", "%acme%").
		WillReturnRows(sqlmock.NewRows([]string{"count"}).AddRow(3))

	count, err := repo.CountSearch(context.Background(), "acme")

	require.NoError(t, err)
	assert.Equal(t, int64(3), count)
	assert.NoError(t, mock.ExpectationsWereMet())
}
