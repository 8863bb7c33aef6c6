// Package dispatch holds the booking state machine. Functions here are pure:
// they take the current booking by value and return the next state or an error,
// leaving persistence to the caller.
package dispatch

import (
	"strings"
	"time"

	"truckrental/internal/domain"
	"truckrental/internal/models"
)

const (
	OpCreate       = "create"
	OpUpdate       = "update"
	OpDelete       = "delete"
	OpAccept       = "accept"
	OpReject       = "reject"
	OpAssignDriver = "assign_driver"
)

var transitions = map[string][]string{
	models.StatusPending:  {models.StatusAccepted, models.StatusRejected},
	models.StatusAccepted: {},
	models.StatusRejected: {},
}

// CanTransition reports whether a booking may move from one status to another.
func CanTransition(from, to string) bool {
	for _, s := range transitions[from] {
		if s == to {
			return true
		}
	}
	return false
}

// ParseDate accepts YYYY-MM-DD or an RFC3339 timestamp. A timestamp keeps the calendar
// day of its own offset, stored as midnight UTC.
func ParseDate(raw string) (time.Time, error) {
	raw = strings.TrimSpace(raw)
	if raw == "" {
		return time.Time{}, domain.ValidationError{Field: "date", Msg: "date is required"}
	}
	if d, err := time.Parse(models.DateLayout, raw); err == nil {
		return d, nil
	}
	ts, err := time.Parse(time.RFC3339, raw)
	if err != nil {
		return time.Time{}, domain.ValidationError{Field: "date", Msg: "invalid date; expected YYYY-MM-DD", Err: err}
	}
	return time.Date(ts.Year(), ts.Month(), ts.Day(), 0, 0, 0, 0, time.UTC), nil
}

func requireText(field, value string) (string, error) {
	value = strings.TrimSpace(value)
	if value == "" {
		return "", domain.ValidationError{Field: field, Msg: field + " is required"}
	}
	return value, nil
}

// Create validates a booking request and returns a pending booking without an id.
func Create(in models.BookingInput) (models.Booking, error) {
	pickup, err := requireText("pickupLocation", in.PickupLocation)
	if err != nil {
		return models.Booking{}, err
	}
	drop, err := requireText("dropLocation", in.DropLocation)
	if err != nil {
		return models.Booking{}, err
	}
	date, err := ParseDate(in.Date)
	if err != nil {
		return models.Booking{}, err
	}

	return models.Booking{
		PickupLocation: pickup,
		DropLocation:   drop,
		Date:           date,
		Status:         models.StatusPending,
	}, nil
}

// Update applies the allowed fields of patch to a pending booking.
func Update(b models.Booking, patch models.BookingPatch) (models.Booking, error) {
	if b.Status != models.StatusPending {
		return b, domain.InvalidStateError{Op: OpUpdate, Status: b.Status, Msg: "Only pending bookings can be updated"}
	}

	next := b
	if patch.PickupLocation != nil {
		v, err := requireText("pickupLocation", *patch.PickupLocation)
		if err != nil {
			return b, err
		}
		next.PickupLocation = v
	}
	if patch.DropLocation != nil {
		v, err := requireText("dropLocation", *patch.DropLocation)
		if err != nil {
			return b, err
		}
		next.DropLocation = v
	}
	if patch.Date != nil {
		d, err := ParseDate(*patch.Date)
		if err != nil {
			return b, err
		}
		next.Date = d
	}
	return next, nil
}

func Accept(b models.Booking) (models.Booking, error) {
	if !CanTransition(b.Status, models.StatusAccepted) {
		return b, domain.InvalidStateError{Op: OpAccept, Status: b.Status, Msg: "Only pending bookings can be accepted"}
	}
	next := b
	next.Status = models.StatusAccepted
	return next, nil
}

func Reject(b models.Booking) (models.Booking, error) {
	if !CanTransition(b.Status, models.StatusRejected) {
		return b, domain.InvalidStateError{Op: OpReject, Status: b.Status, Msg: "Only pending bookings can be rejected"}
	}
	next := b
	next.Status = models.StatusRejected
	return next, nil
}

// CanAssign checks the booking side of a driver assignment.
func CanAssign(b models.Booking) error {
	if b.Status != models.StatusAccepted {
		return domain.InvalidStateError{
			Op:     OpAssignDriver,
			Status: b.Status,
			Msg:    "Driver can only be assigned to accepted bookings",
		}
	}
	return nil
}

// AssignDriver sets the driver of an accepted booking. Reassignment replaces the previous driver.
func AssignDriver(b models.Booking, d models.Driver) (models.Booking, error) {
	if err := CanAssign(b); err != nil {
		return b, err
	}
	next := b
	next.AssignedDriverID = d.ID
	next.AssignedDriver = d.Summary()
	return next, nil
}

// CheckInvariants verifies a booking is in a state the machine can produce.
func CheckInvariants(b models.Booking) error {
	if _, ok := transitions[b.Status]; !ok {
		return domain.ValidationError{Field: "status", Msg: "unknown status " + b.Status}
	}
	if (b.AssignedDriverID != "" || b.AssignedDriver != nil) && b.Status != models.StatusAccepted {
		return domain.InvalidStateError{Op: OpAssignDriver, Status: b.Status, Msg: "assigned driver on a booking that is not accepted"}
	}
	return nil
}
