package database

import (
	"database/sql"
	"fmt"
	"time"

	"github.com/tankscope/telemetry-service/internal/models"
)

// CreateIntegration inserts a new integration connection.
func (db *DB) CreateIntegration(c *models.IntegrationConnection) error {
	query := `
		INSERT INTO integrations (user_id, kind, name, enabled, settings, created_at, updated_at)
		VALUES ($1, $2, $3, $4, $5, $6, $7)
		RETURNING id
	`
	now := time.Now().UTC()
	err := db.conn.QueryRow(query,
		c.UserID, c.Kind, c.Name, c.Enabled, []byte(c.Settings), now, now,
	).Scan(&c.ID)
	if err != nil {
		return fmt.Errorf("failed to create integration: %w", err)
	}
	c.CreatedAt = now
	c.UpdatedAt = now
	return nil
}

// GetIntegration retrieves an integration connection by id.
func (db *DB) GetIntegration(id int) (*models.IntegrationConnection, error) {
	query := `
		SELECT id, user_id, kind, name, enabled, settings, created_at, updated_at
		FROM integrations
		WHERE id = $1
	`
	var c models.IntegrationConnection
	var settings []byte
	err := db.conn.QueryRow(query, id).Scan(
		&c.ID, &c.UserID, &c.Kind, &c.Name, &c.Enabled, &settings, &c.CreatedAt, &c.UpdatedAt,
	)

	if err == sql.ErrNoRows {
		return nil, fmt.Errorf("integration %d: %w", id, ErrNotFound)
	}
	if err != nil {
		return nil, fmt.Errorf("failed to get integration %d: %w", id, err)
	}

	c.Settings = settings
	return &c, nil
}

// ListIntegrations returns a user's integration connections.
func (db *DB) ListIntegrations(userID string) ([]*models.IntegrationConnection, error) {
	query := `
		SELECT id, user_id, kind, name, enabled, settings, created_at, updated_at
		FROM integrations
		WHERE user_id = $1
		ORDER BY id ASC
	`
	rows, err := db.conn.Query(query, userID)
	if err != nil {
		return nil, fmt.Errorf("failed to list integrations: %w", err)
	}
	defer rows.Close()

	connections := []*models.IntegrationConnection{}
	for rows.Next() {
		var c models.IntegrationConnection
		var settings []byte
		err := rows.Scan(
			&c.ID, &c.UserID, &c.Kind, &c.Name, &c.Enabled, &settings, &c.CreatedAt, &c.UpdatedAt,
		)
		if err != nil {
			return nil, fmt.Errorf("failed to scan integration: %w", err)
		}
		c.Settings = settings
		connections = append(connections, &c)
	}
	return connections, rows.Err()
}

// UpdateIntegration updates name, enabled flag and settings.
func (db *DB) UpdateIntegration(c *models.IntegrationConnection) error {
	query := `
		UPDATE integrations
		SET name = $2, enabled = $3, settings = $4, updated_at = $5
		WHERE id = $1
	`
	c.UpdatedAt = time.Now().UTC()
	result, err := db.conn.Exec(query, c.ID, c.Name, c.Enabled, []byte(c.Settings), c.UpdatedAt)
	if err != nil {
		return fmt.Errorf("failed to update integration %d: %w", c.ID, err)
	}

	rowsAffected, _ := result.RowsAffected()
	if rowsAffected == 0 {
		return fmt.Errorf("integration %d: %w", c.ID, ErrNotFound)
	}
	return nil
}

// DeleteIntegration removes an integration connection.
func (db *DB) DeleteIntegration(id int) error {
	result, err := db.conn.Exec(`DELETE FROM integrations WHERE id = $1`, id)
	if err != nil {
		return fmt.Errorf("failed to delete integration %d: %w", id, err)
	}

	rowsAffected, _ := result.RowsAffected()
	if rowsAffected == 0 {
		return fmt.Errorf("integration %d: %w", id, ErrNotFound)
	}
	return nil
}
