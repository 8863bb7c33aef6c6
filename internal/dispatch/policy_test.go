package dispatch

import (
	"testing"

	"truckrental/internal/domain"
	"truckrental/internal/models"

	"github.com/stretchr/testify/assert"
)

func TestPolicyCheckAssignment(t *testing.T) {
	b := newPending(t)
	b.Status = models.StatusAccepted
	d := testDriver()
	busy := []*models.Booking{{ID: "b2", Status: models.StatusAccepted, AssignedDriverID: d.ID}}

	t.Run("ZeroValueAllowsAll", func(t *testing.T) {
		saturday := b
		saturday.Date = b.Date.AddDate(0, 0, 1)
		assert.NoError(t, Policy{}.CheckAssignment(saturday, d, busy))
	})

	t.Run("DoubleBooking", func(t *testing.T) {
		p := Policy{PreventDoubleBooking: true}
		err := p.CheckAssignment(b, d, busy)
		assert.True(t, domain.IsConflict(err))
	})

	t.Run("SameBookingIgnored", func(t *testing.T) {
		p := Policy{PreventDoubleBooking: true}
		self := []*models.Booking{{ID: b.ID, Status: models.StatusAccepted}}
		assert.NoError(t, p.CheckAssignment(b, d, self))
	})

	t.Run("AvailableDays", func(t *testing.T) {
		p := Policy{EnforceAvailableDays: true}
		assert.NoError(t, p.CheckAssignment(b, d, nil))

		saturday := b
		saturday.Date = b.Date.AddDate(0, 0, 1)
		err := p.CheckAssignment(saturday, d, nil)
		assert.True(t, domain.IsConflict(err))
		assert.Contains(t, err.Error(), "Saturday")
	})
}
