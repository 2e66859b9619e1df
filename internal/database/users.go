package database

import (
	"database/sql"
	"fmt"
	"time"

	"github.com/tankscope/telemetry-service/internal/models"
)

// CreateUser inserts a new user account.
func (db *DB) CreateUser(u *models.User) error {
	query := `
		INSERT INTO users (
			username, email, full_name, company, password_hash, salt,
			is_active, is_admin, subscription_tier, subscription_expires, created_at
		) VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10, $11)
	`
	now := time.Now().UTC()
	_, err := db.conn.Exec(query,
		u.Username, u.Email, u.FullName, u.Company, u.PasswordHash, u.Salt,
		u.IsActive, u.IsAdmin, u.SubscriptionTier, u.SubscriptionExpires, now,
	)
	if err != nil {
		return fmt.Errorf("failed to create user %s: %w", u.Username, err)
	}
	u.CreatedAt = now
	return nil
}

// GetUser retrieves a user by username.
func (db *DB) GetUser(username string) (*models.User, error) {
	return db.getUserWhere("username = $1", username)
}

// GetUserByEmail retrieves a user by email.
func (db *DB) GetUserByEmail(email string) (*models.User, error) {
	return db.getUserWhere("email = $1", email)
}

func (db *DB) getUserWhere(where string, arg interface{}) (*models.User, error) {
	query := `
		SELECT username, email, full_name, company, password_hash, salt,
		       is_active, is_admin, subscription_tier, subscription_expires, created_at
		FROM users
		WHERE ` + where

	var u models.User
	var fullName, company sql.NullString
	var expires sql.NullTime

	err := db.conn.QueryRow(query, arg).Scan(
		&u.Username, &u.Email, &fullName, &company, &u.PasswordHash, &u.Salt,
		&u.IsActive, &u.IsAdmin, &u.SubscriptionTier, &expires, &u.CreatedAt,
	)

	if err == sql.ErrNoRows {
		return nil, fmt.Errorf("user: %w", ErrNotFound)
	}
	if err != nil {
		return nil, fmt.Errorf("failed to get user: %w", err)
	}

	if fullName.Valid {
		u.FullName = fullName.String
	}
	if company.Valid {
		u.Company = company.String
	}
	if expires.Valid {
		u.SubscriptionExpires = &expires.Time
	}
	return &u, nil
}

// UpdateSubscription changes a user's subscription tier.
func (db *DB) UpdateSubscription(username, tier string, expires *time.Time) error {
	query := `UPDATE users SET subscription_tier = $2, subscription_expires = $3 WHERE username = $1`
	result, err := db.conn.Exec(query, username, tier, expires)
	if err != nil {
		return fmt.Errorf("failed to update subscription for %s: %w", username, err)
	}

	rowsAffected, _ := result.RowsAffected()
	if rowsAffected == 0 {
		return fmt.Errorf("user %s: %w", username, ErrNotFound)
	}
	return nil
}

// SeedAdminUser creates the default admin account if no users exist.
func (db *DB) SeedAdminUser(passwordHash, salt string) error {
	var count int
	if err := db.conn.QueryRow(`SELECT COUNT(*) FROM users`).Scan(&count); err != nil {
		return fmt.Errorf("failed to count users: %w", err)
	}
	if count > 0 {
		return nil
	}

	admin := &models.User{
		Username:         "admin",
		Email:            "admin@example.com",
		FullName:         "Admin User",
		PasswordHash:     passwordHash,
		Salt:             salt,
		IsActive:         true,
		IsAdmin:          true,
		SubscriptionTier: models.TierPremium,
	}
	return db.CreateUser(admin)
}
