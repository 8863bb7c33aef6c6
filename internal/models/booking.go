package models

import "time"

// Booking is a truck rental request moving through pending -> accepted|rejected.
type Booking struct {
	ID               string         `json:"id"`
	UserID           string         `json:"userId,omitempty"`
	PickupLocation   string         `json:"pickupLocation"`
	DropLocation     string         `json:"dropLocation"`
	Date             time.Time      `json:"date"`
	Status           string         `json:"status"`
	AssignedDriverID string         `json:"-"`
	AssignedDriver   *DriverSummary `json:"assignedDriver"`
	CreatedAt        time.Time      `json:"createdAt"`
	UpdatedAt        time.Time      `json:"updatedAt"`
	Version          int64          `json:"version"`
}

// DateString returns the booking date in DateLayout.
func (b *Booking) DateString() string {
	return b.Date.Format(DateLayout)
}

// DriverName returns the resolved driver name or an empty string.
func (b *Booking) DriverName() string {
	if b.AssignedDriver == nil {
		return ""
	}
	return b.AssignedDriver.Name
}

// BookingInput carries the raw fields of a new booking request.
type BookingInput struct {
	PickupLocation string `json:"pickupLocation"`
	DropLocation   string `json:"dropLocation"`
	Date           string `json:"date"`
}

// BookingPatch holds the editable fields of a pending booking. Nil means untouched.
type BookingPatch struct {
	PickupLocation *string `json:"pickupLocation"`
	DropLocation   *string `json:"dropLocation"`
	Date           *string `json:"date"`
}

type BookingFilter struct {
	Status string
	Date   *time.Time
	UserID string
}
