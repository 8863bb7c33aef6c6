package service

import (
	"context"
	"io"
	"time"

	"truckrental/internal/models"

	"github.com/rs/zerolog"
	"github.com/stretchr/testify/mock"
)

type mockBookingRepo struct {
	mock.Mock
}

func (m *mockBookingRepo) CreateBooking(ctx context.Context, b *models.Booking) error {
	return m.Called(ctx, b).Error(0)
}
func (m *mockBookingRepo) GetBooking(ctx context.Context, id string) (*models.Booking, error) {
	args := m.Called(ctx, id)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*models.Booking), args.Error(1)
}
func (m *mockBookingRepo) ListBookings(ctx context.Context, f models.BookingFilter) ([]*models.Booking, error) {
	args := m.Called(ctx, f)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]*models.Booking), args.Error(1)
}
func (m *mockBookingRepo) UpdateBookingWithVersion(ctx context.Context, b *models.Booking, v int64, s string) error {
	return m.Called(ctx, b, v, s).Error(0)
}
func (m *mockBookingRepo) DeleteBooking(ctx context.Context, id string) error {
	return m.Called(ctx, id).Error(0)
}
func (m *mockBookingRepo) GetDriverAssignments(ctx context.Context, id string, d time.Time) ([]*models.Booking, error) {
	args := m.Called(ctx, id, d)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]*models.Booking), args.Error(1)
}

type mockDriverRepo struct {
	mock.Mock
}

func (m *mockDriverRepo) CreateDriver(ctx context.Context, d *models.Driver) error {
	return m.Called(ctx, d).Error(0)
}
func (m *mockDriverRepo) GetDriver(ctx context.Context, id string) (*models.Driver, error) {
	args := m.Called(ctx, id)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*models.Driver), args.Error(1)
}
func (m *mockDriverRepo) ListDrivers(ctx context.Context) ([]*models.Driver, error) {
	args := m.Called(ctx)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]*models.Driver), args.Error(1)
}
func (m *mockDriverRepo) UpdateDriver(ctx context.Context, d *models.Driver) error {
	return m.Called(ctx, d).Error(0)
}
func (m *mockDriverRepo) DeleteDriver(ctx context.Context, id string) error {
	return m.Called(ctx, id).Error(0)
}
func (m *mockDriverRepo) CountDrivers(ctx context.Context) (int, error) {
	args := m.Called(ctx)
	return args.Int(0), args.Error(1)
}

type mockUserRepo struct {
	mock.Mock
}

func (m *mockUserRepo) CreateUser(ctx context.Context, u *models.User) error {
	return m.Called(ctx, u).Error(0)
}
func (m *mockUserRepo) GetUserByID(ctx context.Context, id string) (*models.User, error) {
	args := m.Called(ctx, id)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*models.User), args.Error(1)
}
func (m *mockUserRepo) GetUserByEmail(ctx context.Context, email string) (*models.User, error) {
	args := m.Called(ctx, email)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*models.User), args.Error(1)
}
func (m *mockUserRepo) ListUsers(ctx context.Context) ([]*models.User, error) {
	args := m.Called(ctx)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]*models.User), args.Error(1)
}
func (m *mockUserRepo) UpdateUser(ctx context.Context, u *models.User) error {
	return m.Called(ctx, u).Error(0)
}
func (m *mockUserRepo) DeleteUser(ctx context.Context, id string) error {
	return m.Called(ctx, id).Error(0)
}

type mockLimiter struct {
	mock.Mock
}

func (m *mockLimiter) Allow(ctx context.Context, key string, limit int, window time.Duration) (bool, error) {
	args := m.Called(ctx, key, limit, window)
	return args.Bool(0), args.Error(1)
}
func (m *mockLimiter) Reset(ctx context.Context, key string) error {
	return m.Called(ctx, key).Error(0)
}

type mockEventBus struct {
	mock.Mock
}

func (m *mockEventBus) PublishJSON(et string, p interface{}) error { return m.Called(et, p).Error(0) }

func testLogger() *zerolog.Logger {
	logger := zerolog.New(io.Discard)
	return &logger
}

// bumpVersion mimics the repository's successful conditional write.
func bumpVersion(args mock.Arguments) {
	b := args.Get(1).(*models.Booking)
	b.Version = args.Get(2).(int64) + 1
}
