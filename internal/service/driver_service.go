package service

import (
	"context"
	"fmt"
	"net/mail"
	"strings"

	"truckrental/internal/domain"
	"truckrental/internal/models"

	"github.com/google/uuid"
	"github.com/rs/zerolog"
)

const resourceDriver = "Driver"

type DriverService struct {
	repo   domain.DriverRepository
	logger *zerolog.Logger
}

func NewDriverService(repo domain.DriverRepository, logger *zerolog.Logger) *DriverService {
	return &DriverService{
		repo:   repo,
		logger: logger,
	}
}

func (s *DriverService) CreateDriver(ctx context.Context, in models.DriverInput) (*models.Driver, error) {
	in, err := normalizeDriver(in)
	if err != nil {
		return nil, err
	}

	driver := &models.Driver{ID: uuid.NewString()}
	applyDriverInput(driver, in)

	if err := s.repo.CreateDriver(ctx, driver); err != nil {
		return nil, storageErr(err, resourceDriver)
	}

	s.logger.Info().Str("driver_id", driver.ID).Str("email", driver.Email).Msg("driver created")
	return driver, nil
}

func (s *DriverService) GetDriver(ctx context.Context, id string) (*models.Driver, error) {
	driver, err := s.repo.GetDriver(ctx, id)
	if err != nil {
		return nil, storageErr(err, resourceDriver)
	}
	return driver, nil
}

func (s *DriverService) ListDrivers(ctx context.Context) ([]*models.Driver, error) {
	return s.repo.ListDrivers(ctx)
}

// UpdateDriver replaces every mutable field with in.
func (s *DriverService) UpdateDriver(ctx context.Context, id string, in models.DriverInput) (*models.Driver, error) {
	in, err := normalizeDriver(in)
	if err != nil {
		return nil, err
	}

	driver, err := s.repo.GetDriver(ctx, id)
	if err != nil {
		return nil, storageErr(err, resourceDriver)
	}
	applyDriverInput(driver, in)

	if err := s.repo.UpdateDriver(ctx, driver); err != nil {
		return nil, storageErr(err, resourceDriver)
	}

	s.logger.Info().Str("driver_id", driver.ID).Msg("driver updated")
	return driver, nil
}

// DeleteDriver does not touch bookings that reference the driver.
func (s *DriverService) DeleteDriver(ctx context.Context, id string) error {
	if err := s.repo.DeleteDriver(ctx, id); err != nil {
		return storageErr(err, resourceDriver)
	}
	s.logger.Info().Str("driver_id", id).Msg("driver deleted")
	return nil
}

// SeedDrivers creates drivers only when none exist yet. It returns how many were created.
func (s *DriverService) SeedDrivers(ctx context.Context, seed []models.DriverInput) (int, error) {
	count, err := s.repo.CountDrivers(ctx)
	if err != nil {
		return 0, err
	}
	if count > 0 {
		return 0, nil
	}

	created := 0
	for _, in := range seed {
		if _, err := s.CreateDriver(ctx, in); err != nil {
			return created, err
		}
		created++
	}
	return created, nil
}

func applyDriverInput(d *models.Driver, in models.DriverInput) {
	d.Name = in.Name
	d.Age = in.Age
	d.Address = in.Address
	d.Email = in.Email
	d.Phone = in.Phone
	d.VehicleNumber = in.VehicleNumber
	d.AvailableDays = in.AvailableDays
}

func normalizeDriver(in models.DriverInput) (models.DriverInput, error) {
	fields := []struct {
		name  string
		value *string
	}{
		{"name", &in.Name},
		{"address", &in.Address},
		{"email", &in.Email},
		{"phone", &in.Phone},
		{"vehicleNumber", &in.VehicleNumber},
	}
	for _, f := range fields {
		*f.value = strings.TrimSpace(*f.value)
		if *f.value == "" {
			return in, domain.ValidationError{Field: f.name, Msg: f.name + " is required"}
		}
	}

	if in.Age <= 0 {
		return in, domain.ValidationError{Field: "age", Msg: "age must be a positive number"}
	}

	email, err := normalizeEmail(in.Email)
	if err != nil {
		return in, err
	}
	in.Email = email

	if len(in.AvailableDays) == 0 {
		return in, domain.ValidationError{Field: "availableDays", Msg: "at least one available day is required"}
	}
	days, bad, ok := models.NormalizeWeekdays(in.AvailableDays)
	if !ok {
		return in, domain.ValidationError{Field: "availableDays", Msg: fmt.Sprintf("unknown weekday %q", bad)}
	}
	if len(days) == 0 {
		return in, domain.ValidationError{Field: "availableDays", Msg: "at least one available day is required"}
	}
	in.AvailableDays = days

	return in, nil
}

func normalizeEmail(raw string) (string, error) {
	email := strings.ToLower(strings.TrimSpace(raw))
	addr, err := mail.ParseAddress(email)
	if err != nil || addr.Address != email {
		return "", domain.ValidationError{Field: "email", Msg: "invalid email address", Err: err}
	}
	return email, nil
}
