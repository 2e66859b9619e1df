package database

import (
	"database/sql"
	"fmt"
	"time"

	"github.com/tankscope/telemetry-service/internal/models"
)

// CreateReport inserts a new user anomaly report with status pending.
func (db *DB) CreateReport(rep *models.UserAnomalyReport) error {
	query := `
		INSERT INTO user_anomalies (tank_id, timestamp, level, notes, status, created_at)
		VALUES ($1, $2, $3, $4, $5, $6)
		RETURNING id, created_at
	`
	now := time.Now().UTC()
	rep.Status = models.StatusPending
	err := db.conn.QueryRow(query,
		rep.TankID, rep.Timestamp, rep.Level, rep.Notes, rep.Status, now,
	).Scan(&rep.ID, &rep.CreatedAt)

	if err != nil {
		return fmt.Errorf("failed to create user anomaly report: %w", err)
	}
	return nil
}

// ListReports returns reports with optional tank and status filters, in
// submission order so the client can render them without pagination.
func (db *DB) ListReports(tankID, status string) ([]*models.UserAnomalyReport, error) {
	query := `
		SELECT id, tank_id, timestamp, level, notes, status, created_at
		FROM user_anomalies
		WHERE 1=1
	`
	args := []interface{}{}
	argIdx := 1

	if tankID != "" {
		query += fmt.Sprintf(" AND tank_id = $%d", argIdx)
		args = append(args, tankID)
		argIdx++
	}

	if status != "" {
		query += fmt.Sprintf(" AND status = $%d", argIdx)
		args = append(args, status)
		argIdx++
	}

	query += " ORDER BY id ASC"

	rows, err := db.conn.Query(query, args...)
	if err != nil {
		return nil, fmt.Errorf("failed to list user anomaly reports: %w", err)
	}
	defer rows.Close()

	reports := []*models.UserAnomalyReport{}
	for rows.Next() {
		var rep models.UserAnomalyReport
		var notes sql.NullString
		err := rows.Scan(
			&rep.ID, &rep.TankID, &rep.Timestamp, &rep.Level,
			&notes, &rep.Status, &rep.CreatedAt,
		)
		if err != nil {
			return nil, fmt.Errorf("failed to scan user anomaly report: %w", err)
		}
		if notes.Valid {
			rep.Notes = notes.String
		}
		reports = append(reports, &rep)
	}
	return reports, rows.Err()
}

// TransitionReport moves a report from pending to confirmed or rejected.
// The status check is part of the UPDATE so two concurrent transitions
// cannot both succeed.
func (db *DB) TransitionReport(id int, newStatus string) (*models.UserAnomalyReport, error) {
	if newStatus != models.StatusConfirmed && newStatus != models.StatusRejected {
		return nil, fmt.Errorf("cannot transition to %q: %w", newStatus, ErrInvalidTransition)
	}

	query := `
		UPDATE user_anomalies
		SET status = $2
		WHERE id = $1 AND status = 'pending'
		RETURNING id, tank_id, timestamp, level, notes, status, created_at
	`
	var rep models.UserAnomalyReport
	var notes sql.NullString
	err := db.conn.QueryRow(query, id, newStatus).Scan(
		&rep.ID, &rep.TankID, &rep.Timestamp, &rep.Level,
		&notes, &rep.Status, &rep.CreatedAt,
	)

	if err == sql.ErrNoRows {
		// Distinguish a missing report from one already decided.
		var exists bool
		if checkErr := db.conn.QueryRow(
			`SELECT EXISTS(SELECT 1 FROM user_anomalies WHERE id = $1)`, id,
		).Scan(&exists); checkErr != nil {
			return nil, fmt.Errorf("failed to check report %d: %w", id, checkErr)
		}
		if !exists {
			return nil, fmt.Errorf("report %d: %w", id, ErrNotFound)
		}
		return nil, fmt.Errorf("report %d: %w", id, ErrInvalidTransition)
	}
	if err != nil {
		return nil, fmt.Errorf("failed to transition report %d: %w", id, err)
	}

	if notes.Valid {
		rep.Notes = notes.String
	}
	return &rep, nil
}

// CountReportsByStatus returns report tallies for feedback aggregation.
func (db *DB) CountReportsByStatus() (confirmed, rejected, pending int, err error) {
	query := `
		SELECT
			COUNT(*) FILTER (WHERE status = 'confirmed') AS confirmed,
			COUNT(*) FILTER (WHERE status = 'rejected') AS rejected,
			COUNT(*) FILTER (WHERE status = 'pending') AS pending
		FROM user_anomalies
	`
	if err := db.conn.QueryRow(query).Scan(&confirmed, &rejected, &pending); err != nil {
		return 0, 0, 0, fmt.Errorf("failed to count reports by status: %w", err)
	}
	return confirmed, rejected, pending, nil
}

// CreateNormalMark records a user review of a detector-flagged reading.
func (db *DB) CreateNormalMark(m *models.NormalMark) error {
	query := `
		INSERT INTO normal_marks (tank_id, timestamp, level, is_normal, notes, created_at)
		VALUES ($1, $2, $3, $4, $5, $6)
		RETURNING id, created_at
	`
	now := time.Now().UTC()
	err := db.conn.QueryRow(query,
		m.TankID, m.Timestamp, m.Level, m.IsNormal, m.Notes, now,
	).Scan(&m.ID, &m.CreatedAt)

	if err != nil {
		return fmt.Errorf("failed to create normal mark: %w", err)
	}
	return nil
}

// CountNormalMarks counts review annotations by verdict.
func (db *DB) CountNormalMarks(isNormal bool) (int, error) {
	var count int
	err := db.conn.QueryRow(
		`SELECT COUNT(*) FROM normal_marks WHERE is_normal = $1`, isNormal,
	).Scan(&count)
	if err != nil {
		return 0, fmt.Errorf("failed to count normal marks: %w", err)
	}
	return count, nil
}
