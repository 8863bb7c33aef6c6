package database

import (
	"context"
	"testing"

	"truckrental/internal/models"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestUserCRUD(t *testing.T) {
	db := setupTestDB(t)
	ctx := context.Background()

	user := &models.User{
		ID:           uuid.NewString(),
		Username:     "testuser",
		Email:        "test@example.com",
		Phone:        "0771234567",
		PasswordHash: "hash",
		Role:         models.RoleUser,
	}

	// Create
	require.NoError(t, db.CreateUser(ctx, user))

	// Get by email, case-insensitive
	found, err := db.GetUserByEmail(ctx, "TEST@example.com")
	require.NoError(t, err)
	assert.Equal(t, user.ID, found.ID)
	assert.Equal(t, "hash", found.PasswordHash)

	// Duplicate email
	dup := *user
	dup.ID = uuid.NewString()
	assert.ErrorIs(t, db.CreateUser(ctx, &dup), ErrDuplicate)

	// Update
	found.Role = models.RoleAdmin
	found.Phone = "0110000000"
	require.NoError(t, db.UpdateUser(ctx, found))

	found, err = db.GetUserByID(ctx, user.ID)
	require.NoError(t, err)
	assert.Equal(t, models.RoleAdmin, found.Role)
	assert.Equal(t, "0110000000", found.Phone)

	// List
	users, err := db.ListUsers(ctx)
	require.NoError(t, err)
	assert.Len(t, users, 1)

	// Delete
	require.NoError(t, db.DeleteUser(ctx, user.ID))
	_, err = db.GetUserByID(ctx, user.ID)
	assert.ErrorIs(t, err, ErrNotFound)
	assert.ErrorIs(t, db.DeleteUser(ctx, user.ID), ErrNotFound)
	assert.ErrorIs(t, db.UpdateUser(ctx, found), ErrNotFound)
}
