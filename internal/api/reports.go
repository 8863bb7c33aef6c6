package api

import (
	"net/http"
)

const (
	contentTypePDF  = "application/pdf"
	contentTypeXLSX = "application/vnd.openxmlformats-officedocument.spreadsheetml.sheet"
)

func (s *HTTPServer) handleBookingsPDF(w http.ResponseWriter, r *http.Request) {
	filter, err := bookingFilterFromQuery(r)
	if err != nil {
		respondDomainError(w, r, s.logger, err)
		return
	}

	data, name, err := s.svc.Reports.BookingsPDF(r.Context(), filter)
	if err != nil {
		respondDomainError(w, r, s.logger, err)
		return
	}
	writeFile(w, contentTypePDF, name, data)
}

func (s *HTTPServer) handleBookingsXLSX(w http.ResponseWriter, r *http.Request) {
	filter, err := bookingFilterFromQuery(r)
	if err != nil {
		respondDomainError(w, r, s.logger, err)
		return
	}

	data, name, err := s.svc.Reports.BookingsXLSX(r.Context(), filter)
	if err != nil {
		respondDomainError(w, r, s.logger, err)
		return
	}
	writeFile(w, contentTypeXLSX, name, data)
}

func (s *HTTPServer) handleDriversPDF(w http.ResponseWriter, r *http.Request) {
	data, name, err := s.svc.Reports.DriversPDF(r.Context())
	if err != nil {
		respondDomainError(w, r, s.logger, err)
		return
	}
	writeFile(w, contentTypePDF, name, data)
}

func (s *HTTPServer) handleUsersPDF(w http.ResponseWriter, r *http.Request) {
	data, name, err := s.svc.Reports.UsersPDF(r.Context())
	if err != nil {
		respondDomainError(w, r, s.logger, err)
		return
	}
	writeFile(w, contentTypePDF, name, data)
}
