package domain

import (
	"context"
	"time"

	"truckrental/internal/models"
)

type BookingRepository interface {
	CreateBooking(ctx context.Context, booking *models.Booking) error
	GetBooking(ctx context.Context, id string) (*models.Booking, error)
	ListBookings(ctx context.Context, filter models.BookingFilter) ([]*models.Booking, error)
	UpdateBookingWithVersion(ctx context.Context, booking *models.Booking, fromVersion int64, fromStatus string) error
	DeleteBooking(ctx context.Context, id string) error
	GetDriverAssignments(ctx context.Context, driverID string, date time.Time) ([]*models.Booking, error)
}

type DriverRepository interface {
	CreateDriver(ctx context.Context, driver *models.Driver) error
	GetDriver(ctx context.Context, id string) (*models.Driver, error)
	ListDrivers(ctx context.Context) ([]*models.Driver, error)
	UpdateDriver(ctx context.Context, driver *models.Driver) error
	DeleteDriver(ctx context.Context, id string) error
	CountDrivers(ctx context.Context) (int, error)
}

type UserRepository interface {
	CreateUser(ctx context.Context, user *models.User) error
	GetUserByID(ctx context.Context, id string) (*models.User, error)
	GetUserByEmail(ctx context.Context, email string) (*models.User, error)
	ListUsers(ctx context.Context) ([]*models.User, error)
	UpdateUser(ctx context.Context, user *models.User) error
	DeleteUser(ctx context.Context, id string) error
}

// AttemptLimiter counts attempts per key inside a fixed window.
type AttemptLimiter interface {
	Allow(ctx context.Context, key string, limit int, window time.Duration) (bool, error)
	Reset(ctx context.Context, key string) error
}

type EventPublisher interface {
	PublishJSON(eventType string, payload interface{}) error
}

type BookingService interface {
	CreateBooking(ctx context.Context, actor models.Actor, in models.BookingInput) (*models.Booking, error)
	GetBooking(ctx context.Context, id string) (*models.Booking, error)
	ListBookings(ctx context.Context, filter models.BookingFilter) ([]*models.Booking, error)
	ListWithDriver(ctx context.Context) ([]*models.Booking, error)
	UpdateBooking(ctx context.Context, actor models.Actor, id string, patch models.BookingPatch) (*models.Booking, error)
	DeleteBooking(ctx context.Context, actor models.Actor, id string) error
	AcceptBooking(ctx context.Context, actor models.Actor, id string) (*models.Booking, error)
	RejectBooking(ctx context.Context, actor models.Actor, id string) (*models.Booking, error)
	AssignDriver(ctx context.Context, actor models.Actor, id, driverID string) (*models.Booking, error)
}

type DriverService interface {
	CreateDriver(ctx context.Context, in models.DriverInput) (*models.Driver, error)
	GetDriver(ctx context.Context, id string) (*models.Driver, error)
	ListDrivers(ctx context.Context) ([]*models.Driver, error)
	UpdateDriver(ctx context.Context, id string, in models.DriverInput) (*models.Driver, error)
	DeleteDriver(ctx context.Context, id string) error
}

type UserService interface {
	SignUp(ctx context.Context, in models.SignUpInput) (*models.User, error)
	SignIn(ctx context.Context, email, password string) (string, *models.User, error)
	GetUser(ctx context.Context, id string) (*models.User, error)
	ListUsers(ctx context.Context) ([]*models.User, error)
	UpdateUser(ctx context.Context, id string, patch models.UserPatch, allowRole bool) (*models.User, error)
	DeleteUser(ctx context.Context, id string) error
}

type ReportService interface {
	BookingsPDF(ctx context.Context, filter models.BookingFilter) ([]byte, string, error)
	BookingsXLSX(ctx context.Context, filter models.BookingFilter) ([]byte, string, error)
	DriversPDF(ctx context.Context) ([]byte, string, error)
	UsersPDF(ctx context.Context) ([]byte, string, error)
}
