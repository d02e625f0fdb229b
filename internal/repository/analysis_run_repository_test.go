package repository

import (
	"context"
	"encoding/json"
	"regexp"
	"testing"
	"time"

	sqlmock "github.com/DATA-DOG/go-sqlmock"
	"github.com/jmoiron/sqlx"
	"github.com/stretchr/testify/require"

	"github.com/nakul-26/timetable-precheck-api/internal/models"
)

func newAnalysisRunRepoMock(t *testing.T) (*sqlx.DB, sqlmock.Sqlmock, func()) {
	db, mock, err := sqlmock.New(sqlmock.QueryMatcherOption(sqlmock.QueryMatcherRegexp))
	require.NoError(t, err)
	return sqlx.NewDb(db, "sqlmock"), mock, func() { db.Close() }
}

func TestAnalysisRunRepositoryInsertAndGet(t *testing.T) {
	db, mock, cleanup := newAnalysisRunRepoMock(t)
	defer cleanup()

	repo := NewAnalysisRunRepository(db)
	mock.ExpectExec(regexp.QuoteMeta("INSERT INTO feasibility_runs")).
		WithArgs(sqlmock.AnyArg(), sqlmock.AnyArg(), true, 0, 2, 3, 5, sqlmock.AnyArg()).
		WillReturnResult(sqlmock.NewResult(1, 1))

	run := &models.AnalysisRun{
		OK:            true,
		Warnings:      2,
		TotalClasses:  3,
		TotalTeachers: 5,
		Report:        json.RawMessage(`{"ok":true}`),
	}
	require.NoError(t, repo.Insert(context.Background(), run))
	require.NotEmpty(t, run.ID)
	require.False(t, run.RequestedAt.IsZero())

	rows := sqlmock.NewRows([]string{"id", "requested_at", "ok", "errors", "warnings", "total_classes", "total_teachers", "report"}).
		AddRow(run.ID, time.Now(), true, 0, 2, 3, 5, []byte(`{"ok":true}`))
	mock.ExpectQuery(regexp.QuoteMeta("SELECT id, requested_at, ok, errors, warnings, total_classes, total_teachers, report FROM feasibility_runs WHERE id = $1")).
		WithArgs(run.ID).
		WillReturnRows(rows)

	fetched, err := repo.GetByID(context.Background(), run.ID)
	require.NoError(t, err)
	require.Equal(t, run.ID, fetched.ID)
	require.True(t, fetched.OK)
	require.NoError(t, mock.ExpectationsWereMet())
}

func TestAnalysisRunRepositoryList(t *testing.T) {
	db, mock, cleanup := newAnalysisRunRepoMock(t)
	defer cleanup()
	repo := NewAnalysisRunRepository(db)

	rows := sqlmock.NewRows([]string{"id", "requested_at", "ok", "errors", "warnings", "total_classes", "total_teachers", "report"}).
		AddRow("run-1", time.Now(), false, 2, 1, 4, 6, []byte(`{}`)).
		AddRow("run-2", time.Now().Add(-time.Hour), true, 0, 0, 4, 6, []byte(`{}`))
	mock.ExpectQuery(regexp.QuoteMeta("FROM feasibility_runs ORDER BY requested_at DESC LIMIT $1")).
		WithArgs(20).
		WillReturnRows(rows)

	runs, err := repo.List(context.Background(), 0)
	require.NoError(t, err)
	require.Len(t, runs, 2)
	require.Equal(t, "run-1", runs[0].ID)
	require.NoError(t, mock.ExpectationsWereMet())
}
