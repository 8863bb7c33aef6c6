package database

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"time"

	"truckrental/internal/models"
)

const userSelect = `SELECT id, username, email, phone, password_hash, role, created_at, updated_at FROM users`

func scanUser(row rowScanner) (*models.User, error) {
	var u models.User
	if err := row.Scan(&u.ID, &u.Username, &u.Email, &u.Phone, &u.PasswordHash, &u.Role, &u.CreatedAt, &u.UpdatedAt); err != nil {
		return nil, err
	}
	return &u, nil
}

func (db *DB) CreateUser(ctx context.Context, user *models.User) error {
	query := `INSERT INTO users (id, username, email, phone, password_hash, role, created_at, updated_at)
              VALUES (?, ?, ?, ?, ?, ?, ?, ?)`

	now := time.Now().UTC()
	user.CreatedAt = now
	user.UpdatedAt = now

	err := db.withRetry(ctx, "create_user", func() error {
		_, err := db.ExecContext(ctx, query,
			user.ID, user.Username, user.Email, user.Phone, user.PasswordHash, user.Role, now, now,
		)
		return err
	})
	if err != nil {
		if isUniqueViolation(err) {
			return ErrDuplicate
		}
		return fmt.Errorf("failed to create user: %w", err)
	}
	return nil
}

func (db *DB) getUser(ctx context.Context, where string, arg any) (*models.User, error) {
	u, err := scanUser(db.QueryRowContext(ctx, userSelect+` WHERE `+where, arg))
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, ErrNotFound
		}
		return nil, fmt.Errorf("failed to get user: %w", err)
	}
	return u, nil
}

func (db *DB) GetUserByID(ctx context.Context, id string) (*models.User, error) {
	return db.getUser(ctx, "id = ?", id)
}

// GetUserByEmail matches case-insensitively.
func (db *DB) GetUserByEmail(ctx context.Context, email string) (*models.User, error) {
	return db.getUser(ctx, "email = ?", email)
}

func (db *DB) ListUsers(ctx context.Context) ([]*models.User, error) {
	rows, err := db.QueryContext(ctx, userSelect+` ORDER BY created_at, rowid`)
	if err != nil {
		return nil, fmt.Errorf("failed to query users: %w", err)
	}
	defer rows.Close()

	users := make([]*models.User, 0)
	for rows.Next() {
		u, err := scanUser(rows)
		if err != nil {
			return nil, fmt.Errorf("failed to scan user: %w", err)
		}
		users = append(users, u)
	}
	return users, rows.Err()
}

func (db *DB) UpdateUser(ctx context.Context, user *models.User) error {
	query := `UPDATE users
              SET username = ?, email = ?, phone = ?, password_hash = ?, role = ?, updated_at = ?
              WHERE id = ?`

	user.UpdatedAt = time.Now().UTC()

	var rows int64
	err := db.withRetry(ctx, "update_user", func() error {
		result, err := db.ExecContext(ctx, query,
			user.Username, user.Email, user.Phone, user.PasswordHash, user.Role, user.UpdatedAt, user.ID,
		)
		if err != nil {
			return err
		}
		rows, err = result.RowsAffected()
		return err
	})
	if err != nil {
		if isUniqueViolation(err) {
			return ErrDuplicate
		}
		return fmt.Errorf("failed to update user: %w", err)
	}
	if rows == 0 {
		return ErrNotFound
	}
	return nil
}

func (db *DB) DeleteUser(ctx context.Context, id string) error {
	var rows int64
	err := db.withRetry(ctx, "delete_user", func() error {
		result, err := db.ExecContext(ctx, `DELETE FROM users WHERE id = ?`, id)
		if err != nil {
			return err
		}
		rows, err = result.RowsAffected()
		return err
	})
	if err != nil {
		return fmt.Errorf("failed to delete user: %w", err)
	}
	if rows == 0 {
		return ErrNotFound
	}
	return nil
}
