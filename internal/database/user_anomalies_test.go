package database

import (
	"regexp"
	"testing"
	"time"

	"github.com/DATA-DOG/go-sqlmock"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/tankscope/telemetry-service/internal/models"
)

func newMockDB(t *testing.T) (*DB, sqlmock.Sqlmock) {
	t.Helper()
	conn, mock, err := sqlmock.New()
	require.NoError(t, err)
	t.Cleanup(func() { conn.Close() })
	return NewFromConn(conn), mock
}

var reportColumns = []string{"id", "tank_id", "timestamp", "level", "notes", "status", "created_at"}

// ---------------------------------------------------------------------------
// CreateReport
// ---------------------------------------------------------------------------

func TestCreateReport_ForcesPendingStatus(t *testing.T) {
	db, mock := newMockDB(t)

	now := time.Now().UTC()
	mock.ExpectQuery(regexp.QuoteMeta("INSERT INTO user_anomalies")).
		WithArgs("tank1", sqlmock.AnyArg(), 42.0, "looks off", models.StatusPending, sqlmock.AnyArg()).
		WillReturnRows(sqlmock.NewRows([]string{"id", "created_at"}).AddRow(7, now))

	rep := &models.UserAnomalyReport{
		TankID:    "tank1",
		Timestamp: now,
		Level:     42.0,
		Notes:     "looks off",
		Status:    models.StatusConfirmed, // caller-supplied status is ignored
	}
	err := db.CreateReport(rep)
	require.NoError(t, err)

	assert.Equal(t, 7, rep.ID)
	assert.Equal(t, models.StatusPending, rep.Status)
	assert.NoError(t, mock.ExpectationsWereMet())
}

// ---------------------------------------------------------------------------
// TransitionReport
// ---------------------------------------------------------------------------

func TestTransitionReport_Success(t *testing.T) {
	db, mock := newMockDB(t)

	now := time.Now().UTC()
	mock.ExpectQuery(regexp.QuoteMeta("UPDATE user_anomalies")).
		WithArgs(1, models.StatusConfirmed).
		WillReturnRows(sqlmock.NewRows(reportColumns).
			AddRow(1, "tank1", now, 42.0, "looks off", models.StatusConfirmed, now))

	rep, err := db.TransitionReport(1, models.StatusConfirmed)
	require.NoError(t, err)

	assert.Equal(t, 1, rep.ID)
	assert.Equal(t, models.StatusConfirmed, rep.Status)
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestTransitionReport_NotFound(t *testing.T) {
	db, mock := newMockDB(t)

	mock.ExpectQuery(regexp.QuoteMeta("UPDATE user_anomalies")).
		WithArgs(99, models.StatusRejected).
		WillReturnRows(sqlmock.NewRows(reportColumns)) // no rows
	mock.ExpectQuery(regexp.QuoteMeta("SELECT EXISTS")).
		WithArgs(99).
		WillReturnRows(sqlmock.NewRows([]string{"exists"}).AddRow(false))

	_, err := db.TransitionReport(99, models.StatusRejected)
	assert.ErrorIs(t, err, ErrNotFound)
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestTransitionReport_AlreadyDecided(t *testing.T) {
	db, mock := newMockDB(t)

	mock.ExpectQuery(regexp.QuoteMeta("UPDATE user_anomalies")).
		WithArgs(1, models.StatusRejected).
		WillReturnRows(sqlmock.NewRows(reportColumns)) // CAS update matched nothing
	mock.ExpectQuery(regexp.QuoteMeta("SELECT EXISTS")).
		WithArgs(1).
		WillReturnRows(sqlmock.NewRows([]string{"exists"}).AddRow(true))

	_, err := db.TransitionReport(1, models.StatusRejected)
	assert.ErrorIs(t, err, ErrInvalidTransition)
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestTransitionReport_InvalidTarget(t *testing.T) {
	db, _ := newMockDB(t)

	// pending is not a valid transition target, rejected before touching SQL
	_, err := db.TransitionReport(1, models.StatusPending)
	assert.ErrorIs(t, err, ErrInvalidTransition)

	_, err = db.TransitionReport(1, "bogus")
	assert.ErrorIs(t, err, ErrInvalidTransition)
}

// ---------------------------------------------------------------------------
// ListReports
// ---------------------------------------------------------------------------

func TestListReports_NoFilters(t *testing.T) {
	db, mock := newMockDB(t)

	now := time.Now().UTC()
	mock.ExpectQuery(regexp.QuoteMeta("FROM user_anomalies")).
		WillReturnRows(sqlmock.NewRows(reportColumns).
			AddRow(1, "tank1", now, 42.0, "first", models.StatusPending, now).
			AddRow(2, "tank2", now, 10.0, nil, models.StatusConfirmed, now))

	reports, err := db.ListReports("", "")
	require.NoError(t, err)

	require.Len(t, reports, 2)
	assert.Equal(t, "first", reports[0].Notes)
	assert.Equal(t, "", reports[1].Notes) // NULL notes scan to empty string
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestListReports_WithFilters(t *testing.T) {
	db, mock := newMockDB(t)

	mock.ExpectQuery(regexp.QuoteMeta("FROM user_anomalies")).
		WithArgs("tank1", models.StatusPending).
		WillReturnRows(sqlmock.NewRows(reportColumns))

	reports, err := db.ListReports("tank1", models.StatusPending)
	require.NoError(t, err)
	assert.Empty(t, reports)
	assert.NoError(t, mock.ExpectationsWereMet())
}

// ---------------------------------------------------------------------------
// Feedback tallies
// ---------------------------------------------------------------------------

func TestCountReportsByStatus(t *testing.T) {
	db, mock := newMockDB(t)

	mock.ExpectQuery(regexp.QuoteMeta("FROM user_anomalies")).
		WillReturnRows(sqlmock.NewRows([]string{"confirmed", "rejected", "pending"}).AddRow(3, 1, 2))

	confirmed, rejected, pending, err := db.CountReportsByStatus()
	require.NoError(t, err)

	assert.Equal(t, 3, confirmed)
	assert.Equal(t, 1, rejected)
	assert.Equal(t, 2, pending)
}

func TestCountNormalMarks(t *testing.T) {
	db, mock := newMockDB(t)

	mock.ExpectQuery(regexp.QuoteMeta("FROM normal_marks")).
		WithArgs(false).
		WillReturnRows(sqlmock.NewRows([]string{"count"}).AddRow(5))

	count, err := db.CountNormalMarks(false)
	require.NoError(t, err)
	assert.Equal(t, 5, count)
}
