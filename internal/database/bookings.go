package database

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"strings"
	"time"

	"truckrental/internal/models"
)

const bookingSelect = `SELECT b.id, b.user_id, b.pickup_location, b.drop_location, b.date, b.status,
            b.assigned_driver_id, b.created_at, b.updated_at, b.version,
            d.id, d.name, d.email, d.phone, d.available_days
        FROM bookings b
        LEFT JOIN drivers d ON d.id = b.assigned_driver_id`

type rowScanner interface {
	Scan(dest ...any) error
}

func scanBooking(row rowScanner) (*models.Booking, error) {
	var (
		b        models.Booking
		date     string
		driverID sql.NullString
		dID      sql.NullString
		dName    sql.NullString
		dEmail   sql.NullString
		dPhone   sql.NullString
		dDays    sql.NullString
	)

	err := row.Scan(
		&b.ID, &b.UserID, &b.PickupLocation, &b.DropLocation, &date, &b.Status,
		&driverID, &b.CreatedAt, &b.UpdatedAt, &b.Version,
		&dID, &dName, &dEmail, &dPhone, &dDays,
	)
	if err != nil {
		return nil, err
	}

	b.Date, err = time.Parse(models.DateLayout, date)
	if err != nil {
		return nil, fmt.Errorf("invalid stored date %q: %w", date, err)
	}

	b.AssignedDriverID = driverID.String
	// dangling references resolve to null
	if dID.Valid {
		b.AssignedDriver = &models.DriverSummary{
			ID:            dID.String,
			Name:          dName.String,
			Email:         dEmail.String,
			Phone:         dPhone.String,
			AvailableDays: models.SplitDays(dDays.String),
		}
	}
	return &b, nil
}

func nullable(s string) sql.NullString {
	return sql.NullString{String: s, Valid: s != ""}
}

func (db *DB) CreateBooking(ctx context.Context, booking *models.Booking) error {
	query := `INSERT INTO bookings (
				id, user_id, pickup_location, drop_location, date, status,
				assigned_driver_id, created_at, updated_at, version
			) VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?, ?)`

	if booking.CreatedAt.IsZero() {
		booking.CreatedAt = time.Now().UTC()
	}
	if booking.UpdatedAt.IsZero() {
		booking.UpdatedAt = booking.CreatedAt
	}
	booking.Version = 1

	err := db.withRetry(ctx, "create_booking", func() error {
		_, err := db.ExecContext(ctx, query,
			booking.ID,
			booking.UserID,
			booking.PickupLocation,
			booking.DropLocation,
			booking.DateString(),
			booking.Status,
			nullable(booking.AssignedDriverID),
			booking.CreatedAt.UTC(),
			booking.UpdatedAt.UTC(),
			booking.Version,
		)
		return err
	})
	if err != nil {
		if isUniqueViolation(err) {
			return ErrDuplicate
		}
		return fmt.Errorf("failed to create booking: %w", err)
	}
	return nil
}

func (db *DB) GetBooking(ctx context.Context, id string) (*models.Booking, error) {
	row := db.QueryRowContext(ctx, bookingSelect+` WHERE b.id = ?`, id)
	booking, err := scanBooking(row)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, ErrNotFound
		}
		return nil, fmt.Errorf("failed to get booking: %w", err)
	}
	return booking, nil
}

// ListBookings returns bookings matching filter, newest first.
func (db *DB) ListBookings(ctx context.Context, filter models.BookingFilter) ([]*models.Booking, error) {
	var (
		conds []string
		args  []any
	)
	if filter.Status != "" {
		conds = append(conds, "b.status = ?")
		args = append(args, filter.Status)
	}
	if filter.Date != nil {
		conds = append(conds, "b.date = ?")
		args = append(args, filter.Date.Format(models.DateLayout))
	}
	if filter.UserID != "" {
		conds = append(conds, "b.user_id = ?")
		args = append(args, filter.UserID)
	}

	query := bookingSelect
	if len(conds) > 0 {
		query += " WHERE " + strings.Join(conds, " AND ")
	}
	query += " ORDER BY b.created_at DESC, b.rowid DESC"

	return db.queryBookings(ctx, query, args...)
}

// GetDriverAssignments returns accepted bookings held by the driver on date.
func (db *DB) GetDriverAssignments(ctx context.Context, driverID string, date time.Time) ([]*models.Booking, error) {
	query := bookingSelect + ` WHERE b.assigned_driver_id = ? AND b.date = ? AND b.status = ? ORDER BY b.created_at`
	return db.queryBookings(ctx, query, driverID, date.Format(models.DateLayout), models.StatusAccepted)
}

func (db *DB) queryBookings(ctx context.Context, query string, args ...any) ([]*models.Booking, error) {
	rows, err := db.QueryContext(ctx, query, args...)
	if err != nil {
		return nil, fmt.Errorf("failed to query bookings: %w", err)
	}
	defer rows.Close()

	bookings := make([]*models.Booking, 0)
	for rows.Next() {
		b, err := scanBooking(rows)
		if err != nil {
			return nil, fmt.Errorf("failed to scan booking: %w", err)
		}
		bookings = append(bookings, b)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("failed to iterate bookings: %w", err)
	}
	return bookings, nil
}

// UpdateBookingWithVersion writes every mutable field of booking if the stored row still
// has fromVersion and fromStatus. Otherwise it returns ErrConcurrentModification.
func (db *DB) UpdateBookingWithVersion(ctx context.Context, booking *models.Booking, fromVersion int64, fromStatus string) error {
	query := `UPDATE bookings
        SET pickup_location = ?, drop_location = ?, date = ?, status = ?, assigned_driver_id = ?,
            updated_at = ?, version = version + 1
        WHERE id = ? AND version = ? AND status = ?`

	if booking.UpdatedAt.IsZero() {
		booking.UpdatedAt = time.Now().UTC()
	}

	var rows int64
	err := db.withRetry(ctx, "update_booking", func() error {
		result, err := db.ExecContext(ctx, query,
			booking.PickupLocation,
			booking.DropLocation,
			booking.DateString(),
			booking.Status,
			nullable(booking.AssignedDriverID),
			booking.UpdatedAt.UTC(),
			booking.ID,
			fromVersion,
			fromStatus,
		)
		if err != nil {
			return err
		}
		rows, err = result.RowsAffected()
		return err
	})
	if err != nil {
		return fmt.Errorf("failed to update booking: %w", err)
	}
	if rows == 0 {
		return ErrConcurrentModification
	}

	booking.Version = fromVersion + 1
	return nil
}

func (db *DB) DeleteBooking(ctx context.Context, id string) error {
	var rows int64
	err := db.withRetry(ctx, "delete_booking", func() error {
		result, err := db.ExecContext(ctx, `DELETE FROM bookings WHERE id = ?`, id)
		if err != nil {
			return err
		}
		rows, err = result.RowsAffected()
		return err
	})
	if err != nil {
		return fmt.Errorf("failed to delete booking: %w", err)
	}
	if rows == 0 {
		return ErrNotFound
	}
	return nil
}
