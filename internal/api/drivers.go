package api

import (
	"net/http"

	"truckrental/internal/models"
)

func (s *HTTPServer) handleCreateDriver(w http.ResponseWriter, r *http.Request) {
	var in models.DriverInput
	if err := decodeJSON(w, r, &in); err != nil {
		respondDomainError(w, r, s.logger, err)
		return
	}

	driver, err := s.svc.Drivers.CreateDriver(r.Context(), in)
	if err != nil {
		respondDomainError(w, r, s.logger, err)
		return
	}
	writeJSON(w, http.StatusCreated, driver)
}

func (s *HTTPServer) handleListDrivers(w http.ResponseWriter, r *http.Request) {
	drivers, err := s.svc.Drivers.ListDrivers(r.Context())
	if err != nil {
		respondDomainError(w, r, s.logger, err)
		return
	}
	writeJSON(w, http.StatusOK, nonNil(drivers))
}

func (s *HTTPServer) handleGetDriver(w http.ResponseWriter, r *http.Request) {
	driver, err := s.svc.Drivers.GetDriver(r.Context(), r.PathValue("id"))
	if err != nil {
		respondDomainError(w, r, s.logger, err)
		return
	}
	writeJSON(w, http.StatusOK, driver)
}

func (s *HTTPServer) handleUpdateDriver(w http.ResponseWriter, r *http.Request) {
	var in models.DriverInput
	if err := decodeJSON(w, r, &in); err != nil {
		respondDomainError(w, r, s.logger, err)
		return
	}

	driver, err := s.svc.Drivers.UpdateDriver(r.Context(), r.PathValue("id"), in)
	if err != nil {
		respondDomainError(w, r, s.logger, err)
		return
	}
	writeJSON(w, http.StatusOK, driver)
}

func (s *HTTPServer) handleDeleteDriver(w http.ResponseWriter, r *http.Request) {
	if err := s.svc.Drivers.DeleteDriver(r.Context(), r.PathValue("id")); err != nil {
		respondDomainError(w, r, s.logger, err)
		return
	}
	writeMessage(w, "Driver deleted successfully")
}
