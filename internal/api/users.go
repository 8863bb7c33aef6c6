package api

import (
	"net/http"

	"truckrental/internal/models"
)

type signInRequest struct {
	Email    string `json:"email"`
	Password string `json:"password"`
}

type signInResponse struct {
	Token string `json:"token"`
	Role  string `json:"role"`
}

func (s *HTTPServer) handleSignUp(w http.ResponseWriter, r *http.Request) {
	var in models.SignUpInput
	if err := decodeJSON(w, r, &in); err != nil {
		respondDomainError(w, r, s.logger, err)
		return
	}

	user, err := s.svc.Users.SignUp(r.Context(), in)
	if err != nil {
		respondDomainError(w, r, s.logger, err)
		return
	}
	writeJSON(w, http.StatusCreated, map[string]any{
		"message": "User created successfully",
		"user":    user,
	})
}

func (s *HTTPServer) handleSignIn(w http.ResponseWriter, r *http.Request) {
	var req signInRequest
	if err := decodeJSON(w, r, &req); err != nil {
		respondDomainError(w, r, s.logger, err)
		return
	}

	token, user, err := s.svc.Users.SignIn(r.Context(), req.Email, req.Password)
	if err != nil {
		respondDomainError(w, r, s.logger, err)
		return
	}
	writeJSON(w, http.StatusOK, signInResponse{Token: token, Role: user.Role})
}

func (s *HTTPServer) handleGetProfile(w http.ResponseWriter, r *http.Request) {
	s.getUser(w, r, actorFrom(r.Context()).UserID)
}

func (s *HTTPServer) handleUpdateProfile(w http.ResponseWriter, r *http.Request) {
	s.updateUser(w, r, actorFrom(r.Context()).UserID, false)
}

func (s *HTTPServer) handleDeleteProfile(w http.ResponseWriter, r *http.Request) {
	s.deleteUser(w, r, actorFrom(r.Context()).UserID)
}

func (s *HTTPServer) handleListUsers(w http.ResponseWriter, r *http.Request) {
	users, err := s.svc.Users.ListUsers(r.Context())
	if err != nil {
		respondDomainError(w, r, s.logger, err)
		return
	}
	writeJSON(w, http.StatusOK, nonNil(users))
}

func (s *HTTPServer) handleGetUser(w http.ResponseWriter, r *http.Request) {
	s.getUser(w, r, r.PathValue("id"))
}

func (s *HTTPServer) handleUpdateUser(w http.ResponseWriter, r *http.Request) {
	s.updateUser(w, r, r.PathValue("id"), true)
}

func (s *HTTPServer) handleDeleteUser(w http.ResponseWriter, r *http.Request) {
	s.deleteUser(w, r, r.PathValue("id"))
}

func (s *HTTPServer) getUser(w http.ResponseWriter, r *http.Request, id string) {
	user, err := s.svc.Users.GetUser(r.Context(), id)
	if err != nil {
		respondDomainError(w, r, s.logger, err)
		return
	}
	writeJSON(w, http.StatusOK, user)
}

func (s *HTTPServer) updateUser(w http.ResponseWriter, r *http.Request, id string, allowRole bool) {
	var patch models.UserPatch
	if err := decodeJSON(w, r, &patch); err != nil {
		respondDomainError(w, r, s.logger, err)
		return
	}

	user, err := s.svc.Users.UpdateUser(r.Context(), id, patch, allowRole)
	if err != nil {
		respondDomainError(w, r, s.logger, err)
		return
	}
	writeJSON(w, http.StatusOK, user)
}

func (s *HTTPServer) deleteUser(w http.ResponseWriter, r *http.Request, id string) {
	if err := s.svc.Users.DeleteUser(r.Context(), id); err != nil {
		respondDomainError(w, r, s.logger, err)
		return
	}
	writeMessage(w, "User deleted successfully")
}
