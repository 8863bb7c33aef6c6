package api

import (
	"net/http"
	"strings"

	"truckrental/internal/dispatch"
	"truckrental/internal/domain"
	"truckrental/internal/models"
)

type assignDriverRequest struct {
	DriverID string `json:"driverId"`
}

func bookingFilterFromQuery(r *http.Request) (models.BookingFilter, error) {
	q := r.URL.Query()
	filter := models.BookingFilter{
		Status: strings.TrimSpace(q.Get("status")),
		UserID: strings.TrimSpace(q.Get("userId")),
	}

	switch filter.Status {
	case "", models.StatusPending, models.StatusAccepted, models.StatusRejected:
	default:
		return filter, domain.ValidationError{Field: "status", Msg: "unknown status " + filter.Status}
	}

	if raw := strings.TrimSpace(q.Get("date")); raw != "" {
		d, err := dispatch.ParseDate(raw)
		if err != nil {
			return filter, err
		}
		filter.Date = &d
	}
	return filter, nil
}

func (s *HTTPServer) handleCreateBooking(w http.ResponseWriter, r *http.Request) {
	var in models.BookingInput
	if err := decodeJSON(w, r, &in); err != nil {
		respondDomainError(w, r, s.logger, err)
		return
	}

	booking, err := s.svc.Bookings.CreateBooking(r.Context(), actorFrom(r.Context()), in)
	if err != nil {
		respondDomainError(w, r, s.logger, err)
		return
	}
	writeJSON(w, http.StatusCreated, booking)
}

func (s *HTTPServer) handleListBookings(w http.ResponseWriter, r *http.Request) {
	filter, err := bookingFilterFromQuery(r)
	if err != nil {
		respondDomainError(w, r, s.logger, err)
		return
	}

	bookings, err := s.svc.Bookings.ListBookings(r.Context(), filter)
	if err != nil {
		respondDomainError(w, r, s.logger, err)
		return
	}
	writeJSON(w, http.StatusOK, nonNil(bookings))
}

func (s *HTTPServer) handleListWithDriver(w http.ResponseWriter, r *http.Request) {
	bookings, err := s.svc.Bookings.ListWithDriver(r.Context())
	if err != nil {
		respondDomainError(w, r, s.logger, err)
		return
	}
	writeJSON(w, http.StatusOK, nonNil(bookings))
}

func (s *HTTPServer) handleGetBooking(w http.ResponseWriter, r *http.Request) {
	booking, err := s.svc.Bookings.GetBooking(r.Context(), r.PathValue("id"))
	if err != nil {
		respondDomainError(w, r, s.logger, err)
		return
	}
	writeJSON(w, http.StatusOK, booking)
}

func (s *HTTPServer) handleUpdateBooking(w http.ResponseWriter, r *http.Request) {
	id := r.PathValue("id")
	actor := actorFrom(r.Context())

	var patch models.BookingPatch
	if err := decodeJSON(w, r, &patch); err != nil {
		respondDomainError(w, r, s.logger, err)
		return
	}

	if err := s.checkOwner(r, actor, id, false); err != nil {
		respondDomainError(w, r, s.logger, err)
		return
	}

	booking, err := s.svc.Bookings.UpdateBooking(r.Context(), actor, id, patch)
	if err != nil {
		respondDomainError(w, r, s.logger, err)
		return
	}
	writeJSON(w, http.StatusOK, booking)
}

func (s *HTTPServer) handleDeleteBooking(w http.ResponseWriter, r *http.Request) {
	id := r.PathValue("id")
	actor := actorFrom(r.Context())

	if err := s.checkOwner(r, actor, id, true); err != nil {
		respondDomainError(w, r, s.logger, err)
		return
	}

	if err := s.svc.Bookings.DeleteBooking(r.Context(), actor, id); err != nil {
		respondDomainError(w, r, s.logger, err)
		return
	}
	writeMessage(w, "Booking deleted")
}

// handleRejectDelete serves the legacy DELETE .../reject route, which removes the booking.
func (s *HTTPServer) handleRejectDelete(w http.ResponseWriter, r *http.Request) {
	if err := s.svc.Bookings.DeleteBooking(r.Context(), actorFrom(r.Context()), r.PathValue("id")); err != nil {
		respondDomainError(w, r, s.logger, err)
		return
	}
	writeMessage(w, "Booking deleted")
}

func (s *HTTPServer) handleAcceptBooking(w http.ResponseWriter, r *http.Request) {
	booking, err := s.svc.Bookings.AcceptBooking(r.Context(), actorFrom(r.Context()), r.PathValue("id"))
	if err != nil {
		respondDomainError(w, r, s.logger, err)
		return
	}
	writeJSON(w, http.StatusOK, booking)
}

func (s *HTTPServer) handleRejectBooking(w http.ResponseWriter, r *http.Request) {
	booking, err := s.svc.Bookings.RejectBooking(r.Context(), actorFrom(r.Context()), r.PathValue("id"))
	if err != nil {
		respondDomainError(w, r, s.logger, err)
		return
	}
	writeJSON(w, http.StatusOK, booking)
}

func (s *HTTPServer) handleAssignDriver(w http.ResponseWriter, r *http.Request) {
	var req assignDriverRequest
	if err := decodeJSON(w, r, &req); err != nil {
		respondDomainError(w, r, s.logger, err)
		return
	}
	if strings.TrimSpace(req.DriverID) == "" {
		respondDomainError(w, r, s.logger, domain.ValidationError{Field: "driverId", Msg: "driverId is required"})
		return
	}

	booking, err := s.svc.Bookings.AssignDriver(r.Context(), actorFrom(r.Context()), r.PathValue("id"), strings.TrimSpace(req.DriverID))
	if err != nil {
		respondDomainError(w, r, s.logger, err)
		return
	}
	writeJSON(w, http.StatusOK, booking)
}

// checkOwner restricts authenticated non-admin callers to their own bookings.
// pendingOnly additionally requires the booking to still be pending.
func (s *HTTPServer) checkOwner(r *http.Request, actor models.Actor, id string, pendingOnly bool) error {
	if actor.Anonymous() || actor.IsAdmin() {
		return nil
	}

	booking, err := s.svc.Bookings.GetBooking(r.Context(), id)
	if err != nil {
		return err
	}
	if booking.UserID != actor.UserID {
		return domain.ForbiddenError{Msg: "Not authorized to modify this booking"}
	}
	if pendingOnly && booking.Status != models.StatusPending {
		return domain.ForbiddenError{Msg: "Only pending bookings can be cancelled"}
	}
	return nil
}

func nonNil[T any](items []T) []T {
	if items == nil {
		return []T{}
	}
	return items
}
