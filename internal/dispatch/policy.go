package dispatch

import (
	"truckrental/internal/domain"
	"truckrental/internal/models"
)

// Policy holds optional assignment rules. The zero value allows every assignment.
type Policy struct {
	PreventDoubleBooking bool
	EnforceAvailableDays bool
}

// CheckAssignment validates a driver for a booking. assigned are the accepted
// bookings the driver already holds on the booking date.
func (p Policy) CheckAssignment(b models.Booking, d models.Driver, assigned []*models.Booking) error {
	if p.EnforceAvailableDays && !d.AvailableOn(b.Date) {
		return domain.ConflictError{
			Resource: "driver",
			Msg:      d.Name + " is not available on " + b.Date.Weekday().String(),
		}
	}
	if !p.PreventDoubleBooking {
		return nil
	}
	for _, other := range assigned {
		if other.ID == b.ID || other.Status != models.StatusAccepted {
			continue
		}
		return domain.ConflictError{
			Resource: "driver",
			Msg:      d.Name + " is already assigned on " + b.DateString(),
		}
	}
	return nil
}
