package models

import (
	"encoding/json"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestNormalizeWeekdays(t *testing.T) {
	t.Run("Canonical", func(t *testing.T) {
		days, bad, ok := NormalizeWeekdays([]string{"sunday", " MONDAY ", "Friday", "monday"})
		assert.True(t, ok)
		assert.Empty(t, bad)
		assert.Equal(t, []string{"Monday", "Friday", "Sunday"}, days)
	})

	t.Run("Invalid", func(t *testing.T) {
		days, bad, ok := NormalizeWeekdays([]string{"Monday", "Funday"})
		assert.False(t, ok)
		assert.Nil(t, days)
		assert.Equal(t, "Funday", bad)
	})

	t.Run("Blank", func(t *testing.T) {
		days, bad, ok := NormalizeWeekdays([]string{"Monday", ""})
		assert.False(t, ok)
		assert.Nil(t, days)
		assert.Empty(t, bad)
	})

	t.Run("Single", func(t *testing.T) {
		day, ok := NormalizeWeekday("saturday")
		assert.True(t, ok)
		assert.Equal(t, "Saturday", day)

		_, ok = NormalizeWeekday("")
		assert.False(t, ok)
	})
}

func TestDriverHelpers(t *testing.T) {
	d := &Driver{
		ID:            "d1",
		Name:          "Kamal",
		Email:         "kamal@example.com",
		Phone:         "0771234567",
		AvailableDays: []string{"Monday", "Friday"},
	}

	t.Run("Summary", func(t *testing.T) {
		s := d.Summary()
		assert.Equal(t, "d1", s.ID)
		assert.Equal(t, "Kamal", s.Name)
		s.AvailableDays[0] = "Sunday"
		assert.Equal(t, "Monday", d.AvailableDays[0])
	})

	t.Run("AvailableOn", func(t *testing.T) {
		friday := time.Date(2025, 1, 10, 0, 0, 0, 0, time.UTC)
		assert.True(t, d.AvailableOn(friday))
		assert.False(t, d.AvailableOn(friday.AddDate(0, 0, 1)))
	})

	t.Run("Days", func(t *testing.T) {
		assert.Equal(t, "Monday,Friday", JoinDays(d.AvailableDays))
		assert.Equal(t, []string{"Monday", "Friday"}, SplitDays("Monday, Friday"))
		assert.Equal(t, []string{}, SplitDays(""))
	})
}

func TestBookingJSON(t *testing.T) {
	b := Booking{
		ID:               "b1",
		PickupLocation:   "Colombo",
		DropLocation:     "Kandy",
		Date:             time.Date(2025, 1, 10, 0, 0, 0, 0, time.UTC),
		Status:           StatusPending,
		AssignedDriverID: "d1",
	}

	raw, err := json.Marshal(b)
	require.NoError(t, err)

	var out map[string]any
	require.NoError(t, json.Unmarshal(raw, &out))
	assert.Equal(t, "Colombo", out["pickupLocation"])
	assert.Equal(t, "Kandy", out["dropLocation"])
	assert.Nil(t, out["assignedDriver"])
	assert.NotContains(t, out, "AssignedDriverID")
	assert.Equal(t, "2025-01-10", b.DateString())
	assert.Empty(t, b.DriverName())
}

func TestUserPasswordHidden(t *testing.T) {
	u := User{ID: "u1", Email: "a@b.c", PasswordHash: "secret", Role: RoleAdmin}
	raw, err := json.Marshal(u)
	require.NoError(t, err)
	assert.NotContains(t, string(raw), "secret")
	assert.True(t, u.IsAdmin())
}

func TestActor(t *testing.T) {
	assert.True(t, Actor{}.Anonymous())
	assert.Equal(t, "anonymous", Actor{}.Label())
	assert.Equal(t, "admin", Actor{UserID: "1", Role: RoleAdmin}.Label())
	assert.Equal(t, "user", Actor{UserID: "2", Role: RoleUser}.Label())
}
