package database

import (
	"context"
	"testing"

	"truckrental/internal/models"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestDriverCRUD(t *testing.T) {
	db := setupTestDB(t)
	ctx := context.Background()

	d := insertTestDriver(t, db, "kamal@example.com")
	insertTestDriver(t, db, "nimal@example.com")

	t.Run("Get", func(t *testing.T) {
		found, err := db.GetDriver(ctx, d.ID)
		require.NoError(t, err)
		assert.Equal(t, d.Name, found.Name)
		assert.Equal(t, 35, found.Age)
		assert.Equal(t, []string{"Monday", "Friday"}, found.AvailableDays)
		assert.False(t, found.CreatedAt.IsZero())
	})

	t.Run("ListInsertionOrder", func(t *testing.T) {
		list, err := db.ListDrivers(ctx)
		require.NoError(t, err)
		require.Len(t, list, 2)
		assert.Equal(t, d.ID, list[0].ID)

		count, err := db.CountDrivers(ctx)
		require.NoError(t, err)
		assert.Equal(t, 2, count)
	})

	t.Run("DuplicateEmail", func(t *testing.T) {
		dup := &models.Driver{ID: uuid.NewString(), Name: "x", Age: 30, Address: "a", Email: "KAMAL@example.com", Phone: "1", VehicleNumber: "v", AvailableDays: []string{"Monday"}}
		assert.ErrorIs(t, db.CreateDriver(ctx, dup), ErrDuplicate)
	})

	t.Run("Update", func(t *testing.T) {
		d.Phone = "0110000000"
		d.AvailableDays = []string{"Sunday"}
		require.NoError(t, db.UpdateDriver(ctx, d))

		found, err := db.GetDriver(ctx, d.ID)
		require.NoError(t, err)
		assert.Equal(t, "0110000000", found.Phone)
		assert.Equal(t, []string{"Sunday"}, found.AvailableDays)
	})

	t.Run("UpdateDuplicateEmail", func(t *testing.T) {
		clash := *d
		clash.Email = "nimal@example.com"
		assert.ErrorIs(t, db.UpdateDriver(ctx, &clash), ErrDuplicate)
	})

	t.Run("Missing", func(t *testing.T) {
		_, err := db.GetDriver(ctx, "missing")
		assert.ErrorIs(t, err, ErrNotFound)
		assert.ErrorIs(t, db.UpdateDriver(ctx, &models.Driver{ID: "missing"}), ErrNotFound)
		assert.ErrorIs(t, db.DeleteDriver(ctx, "missing"), ErrNotFound)
	})

	t.Run("Delete", func(t *testing.T) {
		require.NoError(t, db.DeleteDriver(ctx, d.ID))
		_, err := db.GetDriver(ctx, d.ID)
		assert.ErrorIs(t, err, ErrNotFound)
	})
}
