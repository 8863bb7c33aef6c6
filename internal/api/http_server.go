package api

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"net/http"
	"time"

	"truckrental/internal/auth"
	"truckrental/internal/config"
	"truckrental/internal/domain"
	"truckrental/internal/logging"

	"github.com/rs/zerolog"
)

const maxBodyBytes = 1 << 20

// Pinger reports whether storage is reachable.
type Pinger interface {
	PingContext(ctx context.Context) error
}

// Services are the dependencies served over HTTP.
type Services struct {
	Bookings domain.BookingService
	Drivers  domain.DriverService
	Users    domain.UserService
	Reports  domain.ReportService
	Health   Pinger
}

// HTTPServer exposes the booking, driver, user and report REST API.
type HTTPServer struct {
	cfg     config.APIConfig
	svc     Services
	tokens  *auth.TokenIssuer
	mux     *http.ServeMux
	server  *http.Server
	limiter *rateLimiter
	logger  *zerolog.Logger
}

func NewHTTPServer(cfg config.APIConfig, svc Services, tokens *auth.TokenIssuer, logger *zerolog.Logger) *HTTPServer {
	srv := &HTTPServer{
		cfg:     cfg,
		svc:     svc,
		tokens:  tokens,
		mux:     http.NewServeMux(),
		limiter: newRateLimiter(cfg.RateLimit),
		logger:  logging.Component(logger, "http"),
	}
	srv.routes()

	srv.server = &http.Server{
		Addr:              fmt.Sprintf(":%d", cfg.HTTP.Port),
		Handler:           srv.Handler(),
		ReadHeaderTimeout: 5 * time.Second,
		WriteTimeout:      30 * time.Second,
	}

	return srv
}

// Handler returns the mux wrapped in the middleware chain.
func (s *HTTPServer) Handler() http.Handler {
	var h http.Handler = s.mux
	h = s.authenticate(h)
	h = s.rateLimit(h)
	h = s.cors(h)
	h = s.accessLog(h)
	h = s.recoverPanic(h)
	h = requestID(h)
	return h
}

func (s *HTTPServer) routes() {
	bookingAdmin := s.adminWhenEnforced
	driverAdmin := s.adminWhenEnforced

	s.mux.HandleFunc("GET /healthz", s.handleHealthz)

	s.mux.HandleFunc("POST /api/bookings", s.handleCreateBooking)
	s.mux.HandleFunc("GET /api/bookings", s.handleListBookings)
	s.mux.HandleFunc("GET /api/bookings/with-driver/all", s.handleListWithDriver)
	s.mux.HandleFunc("GET /api/bookings/{id}", s.handleGetBooking)
	s.mux.HandleFunc("PUT /api/bookings/{id}", s.handleUpdateBooking)
	s.mux.HandleFunc("DELETE /api/bookings/{id}", s.handleDeleteBooking)
	s.mux.HandleFunc("PATCH /api/bookings/{id}/accept", bookingAdmin(s.handleAcceptBooking))
	s.mux.HandleFunc("PATCH /api/bookings/{id}/reject", bookingAdmin(s.handleRejectBooking))
	s.mux.HandleFunc("DELETE /api/bookings/{id}/reject", bookingAdmin(s.handleRejectDelete))
	s.mux.HandleFunc("PUT /api/bookings/{id}/assign-driver", bookingAdmin(s.handleAssignDriver))

	s.mux.HandleFunc("POST /api/drivers", driverAdmin(s.handleCreateDriver))
	s.mux.HandleFunc("GET /api/drivers", s.handleListDrivers)
	s.mux.HandleFunc("GET /api/drivers/{id}", s.handleGetDriver)
	s.mux.HandleFunc("PUT /api/drivers/{id}", driverAdmin(s.handleUpdateDriver))
	s.mux.HandleFunc("DELETE /api/drivers/{id}", driverAdmin(s.handleDeleteDriver))

	s.mux.HandleFunc("POST /api/users/signup", s.handleSignUp)
	s.mux.HandleFunc("POST /api/users/signin", s.handleSignIn)
	s.mux.HandleFunc("GET /api/users/profile", s.requireAuth(s.handleGetProfile))
	s.mux.HandleFunc("PUT /api/users/profile", s.requireAuth(s.handleUpdateProfile))
	s.mux.HandleFunc("DELETE /api/users/profile", s.requireAuth(s.handleDeleteProfile))
	s.mux.HandleFunc("GET /api/users", s.requireAdmin(s.handleListUsers))
	s.mux.HandleFunc("GET /api/users/{id}", s.requireAdmin(s.handleGetUser))
	s.mux.HandleFunc("PUT /api/users/{id}", s.requireAdmin(s.handleUpdateUser))
	s.mux.HandleFunc("DELETE /api/users/{id}", s.requireAdmin(s.handleDeleteUser))

	s.mux.HandleFunc("GET /api/reports/bookings.pdf", s.requireAdmin(s.handleBookingsPDF))
	s.mux.HandleFunc("GET /api/reports/bookings.xlsx", s.requireAdmin(s.handleBookingsXLSX))
	s.mux.HandleFunc("GET /api/reports/drivers.pdf", s.requireAdmin(s.handleDriversPDF))
	s.mux.HandleFunc("GET /api/reports/users.pdf", s.requireAdmin(s.handleUsersPDF))
}

func (s *HTTPServer) Start() error {
	if s.server == nil {
		return fmt.Errorf("http server is not initialized")
	}
	s.logger.Info().Str("addr", s.server.Addr).Msg("HTTP API listening")
	if err := s.server.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
		return err
	}
	return nil
}

func (s *HTTPServer) Shutdown(ctx context.Context) error {
	if s.server == nil {
		return nil
	}
	return s.server.Shutdown(ctx)
}

func (s *HTTPServer) handleHealthz(w http.ResponseWriter, r *http.Request) {
	if s.svc.Health != nil {
		ctx, cancel := context.WithTimeout(r.Context(), 2*time.Second)
		defer cancel()
		if err := s.svc.Health.PingContext(ctx); err != nil {
			s.logger.Error().Err(err).Msg("health check failed")
			writeJSON(w, http.StatusServiceUnavailable, map[string]string{"status": "unavailable"})
			return
		}
	}
	writeJSON(w, http.StatusOK, map[string]string{"status": "ok"})
}

func writeJSON(w http.ResponseWriter, statusCode int, payload any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(statusCode)
	_ = json.NewEncoder(w).Encode(payload)
}

func writeMessage(w http.ResponseWriter, message string) {
	writeJSON(w, http.StatusOK, map[string]string{"message": message})
}

func writeFile(w http.ResponseWriter, contentType, filename string, data []byte) {
	w.Header().Set("Content-Type", contentType)
	w.Header().Set("Content-Disposition", fmt.Sprintf("attachment; filename=%q", filename))
	w.WriteHeader(http.StatusOK)
	_, _ = w.Write(data)
}

func decodeJSON(w http.ResponseWriter, r *http.Request, dst any) error {
	r.Body = http.MaxBytesReader(w, r.Body, maxBodyBytes)
	if err := json.NewDecoder(r.Body).Decode(dst); err != nil {
		if errors.Is(err, io.EOF) {
			return domain.ValidationError{Msg: "request body is required"}
		}
		return domain.ValidationError{Msg: "invalid JSON body", Err: err}
	}
	return nil
}

type statusRecorder struct {
	http.ResponseWriter
	status int
}

func (r *statusRecorder) WriteHeader(status int) {
	r.status = status
	r.ResponseWriter.WriteHeader(status)
}
