package service

import (
	"context"
	"errors"
	"time"

	"truckrental/internal/database"
	"truckrental/internal/dispatch"
	"truckrental/internal/domain"
	"truckrental/internal/events"
	"truckrental/internal/metrics"
	"truckrental/internal/models"

	"github.com/google/uuid"
	"github.com/rs/zerolog"
)

const resourceBooking = "Booking"

type BookingService struct {
	repo     domain.BookingRepository
	drivers  domain.DriverRepository
	eventBus domain.EventPublisher
	policy   dispatch.Policy
	logger   *zerolog.Logger
	now      func() time.Time
}

func NewBookingService(
	repo domain.BookingRepository,
	drivers domain.DriverRepository,
	eventBus domain.EventPublisher,
	policy dispatch.Policy,
	logger *zerolog.Logger,
) *BookingService {
	return &BookingService{
		repo:     repo,
		drivers:  drivers,
		eventBus: eventBus,
		policy:   policy,
		logger:   logger,
		now:      time.Now,
	}
}

func (s *BookingService) CreateBooking(ctx context.Context, actor models.Actor, in models.BookingInput) (*models.Booking, error) {
	booking, err := dispatch.Create(in)
	if err != nil {
		s.record(dispatch.OpCreate, err)
		return nil, err
	}

	now := s.now().UTC()
	booking.ID = uuid.NewString()
	booking.UserID = actor.UserID
	booking.CreatedAt = now
	booking.UpdatedAt = now

	if err := s.repo.CreateBooking(ctx, &booking); err != nil {
		s.record(dispatch.OpCreate, err)
		return nil, err
	}

	s.publishEvent(events.EventBookingCreated, booking, actor)
	s.record(dispatch.OpCreate, nil)
	s.logger.Info().Str("booking_id", booking.ID).Str("user_id", booking.UserID).Str("date", booking.DateString()).Msg("booking created")
	return &booking, nil
}

func (s *BookingService) GetBooking(ctx context.Context, id string) (*models.Booking, error) {
	booking, err := s.repo.GetBooking(ctx, id)
	if err != nil {
		return nil, storageErr(err, resourceBooking)
	}
	return booking, nil
}

// ListBookings returns bookings newest first.
func (s *BookingService) ListBookings(ctx context.Context, filter models.BookingFilter) ([]*models.Booking, error) {
	return s.repo.ListBookings(ctx, filter)
}

// ListWithDriver returns every booking with its assigned driver resolved.
func (s *BookingService) ListWithDriver(ctx context.Context) ([]*models.Booking, error) {
	return s.repo.ListBookings(ctx, models.BookingFilter{})
}

func (s *BookingService) UpdateBooking(ctx context.Context, actor models.Actor, id string, patch models.BookingPatch) (*models.Booking, error) {
	return s.transition(ctx, actor, dispatch.OpUpdate, events.EventBookingUpdated, id, func(b models.Booking) (models.Booking, error) {
		return dispatch.Update(b, patch)
	})
}

func (s *BookingService) AcceptBooking(ctx context.Context, actor models.Actor, id string) (*models.Booking, error) {
	return s.transition(ctx, actor, dispatch.OpAccept, events.EventBookingAccepted, id, dispatch.Accept)
}

func (s *BookingService) RejectBooking(ctx context.Context, actor models.Actor, id string) (*models.Booking, error) {
	return s.transition(ctx, actor, dispatch.OpReject, events.EventBookingRejected, id, dispatch.Reject)
}

func (s *BookingService) AssignDriver(ctx context.Context, actor models.Actor, id, driverID string) (*models.Booking, error) {
	const op = dispatch.OpAssignDriver

	current, err := s.load(ctx, id)
	if err != nil {
		s.record(op, err)
		return nil, err
	}
	if err := dispatch.CanAssign(*current); err != nil {
		s.record(op, err)
		return nil, err
	}

	driver, err := s.drivers.GetDriver(ctx, driverID)
	if err != nil {
		err = storageErr(err, resourceDriver)
		s.record(op, err)
		return nil, err
	}

	var assigned []*models.Booking
	if s.policy.PreventDoubleBooking {
		assigned, err = s.repo.GetDriverAssignments(ctx, driver.ID, current.Date)
		if err != nil {
			s.record(op, err)
			return nil, err
		}
	}
	if err := s.policy.CheckAssignment(*current, *driver, assigned); err != nil {
		s.record(op, err)
		return nil, err
	}

	apply := func(b models.Booking) (models.Booking, error) {
		return dispatch.AssignDriver(b, *driver)
	}
	next, err := apply(*current)
	if err != nil {
		s.record(op, err)
		return nil, err
	}
	return s.commit(ctx, actor, op, events.EventBookingDriverAssigned, current, next, apply)
}

// DeleteBooking removes the booking regardless of its status.
func (s *BookingService) DeleteBooking(ctx context.Context, actor models.Actor, id string) error {
	current, err := s.load(ctx, id)
	if err != nil {
		s.record(dispatch.OpDelete, err)
		return err
	}

	if err := s.repo.DeleteBooking(ctx, id); err != nil {
		err = storageErr(err, resourceBooking)
		s.record(dispatch.OpDelete, err)
		return err
	}

	s.publishEvent(events.EventBookingDeleted, *current, actor)
	s.record(dispatch.OpDelete, nil)
	s.logger.Info().Str("booking_id", id).Str("changed_by", actor.Label()).Msg("booking deleted")
	return nil
}

type applyFunc func(models.Booking) (models.Booking, error)

func (s *BookingService) transition(ctx context.Context, actor models.Actor, op, eventType, id string, apply applyFunc) (*models.Booking, error) {
	current, err := s.load(ctx, id)
	if err != nil {
		s.record(op, err)
		return nil, err
	}

	next, err := apply(*current)
	if err != nil {
		s.record(op, err)
		return nil, err
	}
	return s.commit(ctx, actor, op, eventType, current, next, apply)
}

// commit persists next only if the stored booking still matches current's version and status.
func (s *BookingService) commit(
	ctx context.Context,
	actor models.Actor,
	op, eventType string,
	current *models.Booking,
	next models.Booking,
	apply applyFunc,
) (*models.Booking, error) {
	next.UpdatedAt = s.now().UTC()

	if err := dispatch.CheckInvariants(next); err != nil {
		s.logger.Error().Err(err).Str("booking_id", next.ID).Str("op", op).Msg("refusing to store inconsistent booking")
		s.record(op, err)
		return nil, err
	}

	if err := s.repo.UpdateBookingWithVersion(ctx, &next, current.Version, current.Status); err != nil {
		if errors.Is(err, database.ErrConcurrentModification) {
			err = s.resolveConflict(ctx, op, current.ID, apply)
		}
		s.record(op, err)
		return nil, err
	}

	s.publishEvent(eventType, next, actor)
	s.record(op, nil)
	s.logger.Info().
		Str("booking_id", next.ID).
		Str("op", op).
		Str("from", current.Status).
		Str("to", next.Status).
		Str("changed_by", actor.Label()).
		Msg("booking updated")
	return &next, nil
}

// resolveConflict explains a conditional write that matched no row.
func (s *BookingService) resolveConflict(ctx context.Context, op, id string, apply applyFunc) error {
	fresh, err := s.repo.GetBooking(ctx, id)
	if err != nil {
		return storageErr(err, resourceBooking)
	}
	if _, err := apply(*fresh); err != nil && domain.IsInvalidState(err) {
		return err
	}
	return domain.InvalidStateError{
		Op:     op,
		Status: fresh.Status,
		Msg:    "Booking was modified by another request",
	}
}

func (s *BookingService) load(ctx context.Context, id string) (*models.Booking, error) {
	b, err := s.repo.GetBooking(ctx, id)
	if err != nil {
		return nil, storageErr(err, resourceBooking)
	}
	return b, nil
}

func (s *BookingService) record(op string, err error) {
	metrics.IncTransition(op, resultLabel(err))
	if err != nil && resultLabel(err) == "error" {
		s.logger.Error().Err(err).Str("op", op).Msg("booking operation failed")
	}
}

func (s *BookingService) publishEvent(eventType string, booking models.Booking, actor models.Actor) {
	if s.eventBus == nil {
		return
	}

	payload := events.BookingEventPayload{
		BookingID:   booking.ID,
		UserID:      booking.UserID,
		Status:      booking.Status,
		Date:        booking.DateString(),
		DriverID:    booking.AssignedDriverID,
		Version:     booking.Version,
		ChangedBy:   actor.Label(),
		ChangedByID: actor.UserID,
		OccurredAt:  s.now().UTC(),
	}

	if err := s.eventBus.PublishJSON(eventType, payload); err != nil {
		s.logger.Error().Err(err).Str("event_type", eventType).Str("booking_id", booking.ID).Msg("publish event error")
	}
}
