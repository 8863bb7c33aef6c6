package database

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"time"

	"truckrental/internal/models"
)

const driverSelect = `SELECT id, name, age, address, email, phone, vehicle_number, available_days, created_at, updated_at FROM drivers`

func scanDriver(row rowScanner) (*models.Driver, error) {
	var (
		d    models.Driver
		days string
	)
	if err := row.Scan(&d.ID, &d.Name, &d.Age, &d.Address, &d.Email, &d.Phone, &d.VehicleNumber, &days, &d.CreatedAt, &d.UpdatedAt); err != nil {
		return nil, err
	}
	d.AvailableDays = models.SplitDays(days)
	return &d, nil
}

func (db *DB) CreateDriver(ctx context.Context, driver *models.Driver) error {
	query := `INSERT INTO drivers (id, name, age, address, email, phone, vehicle_number, available_days, created_at, updated_at)
              VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?, ?)`

	now := time.Now().UTC()
	driver.CreatedAt = now
	driver.UpdatedAt = now

	err := db.withRetry(ctx, "create_driver", func() error {
		_, err := db.ExecContext(ctx, query,
			driver.ID, driver.Name, driver.Age, driver.Address, driver.Email, driver.Phone,
			driver.VehicleNumber, models.JoinDays(driver.AvailableDays), now, now,
		)
		return err
	})
	if err != nil {
		if isUniqueViolation(err) {
			return ErrDuplicate
		}
		return fmt.Errorf("failed to create driver: %w", err)
	}
	return nil
}

func (db *DB) GetDriver(ctx context.Context, id string) (*models.Driver, error) {
	d, err := scanDriver(db.QueryRowContext(ctx, driverSelect+` WHERE id = ?`, id))
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, ErrNotFound
		}
		return nil, fmt.Errorf("failed to get driver: %w", err)
	}
	return d, nil
}

func (db *DB) ListDrivers(ctx context.Context) ([]*models.Driver, error) {
	rows, err := db.QueryContext(ctx, driverSelect+` ORDER BY created_at, rowid`)
	if err != nil {
		return nil, fmt.Errorf("failed to query drivers: %w", err)
	}
	defer rows.Close()

	drivers := make([]*models.Driver, 0)
	for rows.Next() {
		d, err := scanDriver(rows)
		if err != nil {
			return nil, fmt.Errorf("failed to scan driver: %w", err)
		}
		drivers = append(drivers, d)
	}
	return drivers, rows.Err()
}

// UpdateDriver replaces every mutable field of the driver.
func (db *DB) UpdateDriver(ctx context.Context, driver *models.Driver) error {
	query := `UPDATE drivers
              SET name = ?, age = ?, address = ?, email = ?, phone = ?, vehicle_number = ?, available_days = ?, updated_at = ?
              WHERE id = ?`

	driver.UpdatedAt = time.Now().UTC()

	var rows int64
	err := db.withRetry(ctx, "update_driver", func() error {
		result, err := db.ExecContext(ctx, query,
			driver.Name, driver.Age, driver.Address, driver.Email, driver.Phone, driver.VehicleNumber,
			models.JoinDays(driver.AvailableDays), driver.UpdatedAt, driver.ID,
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
		return fmt.Errorf("failed to update driver: %w", err)
	}
	if rows == 0 {
		return ErrNotFound
	}
	return nil
}

func (db *DB) DeleteDriver(ctx context.Context, id string) error {
	var rows int64
	err := db.withRetry(ctx, "delete_driver", func() error {
		result, err := db.ExecContext(ctx, `DELETE FROM drivers WHERE id = ?`, id)
		if err != nil {
			return err
		}
		rows, err = result.RowsAffected()
		return err
	})
	if err != nil {
		return fmt.Errorf("failed to delete driver: %w", err)
	}
	if rows == 0 {
		return ErrNotFound
	}
	return nil
}

func (db *DB) CountDrivers(ctx context.Context) (int, error) {
	var count int
	if err := db.QueryRowContext(ctx, `SELECT COUNT(*) FROM drivers`).Scan(&count); err != nil {
		return 0, fmt.Errorf("failed to count drivers: %w", err)
	}
	return count, nil
}
