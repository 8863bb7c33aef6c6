package api

import (
	"context"
	"net/http"
	"strings"

	"truckrental/internal/domain"
	"truckrental/internal/models"
)

// authenticate resolves a bearer token into an actor. Requests without a token
// pass through as anonymous; a token that fails verification is rejected.
func (s *HTTPServer) authenticate(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		header := strings.TrimSpace(r.Header.Get("Authorization"))
		if header == "" {
			next.ServeHTTP(w, r)
			return
		}

		raw, ok := strings.CutPrefix(header, "Bearer ")
		if !ok || strings.TrimSpace(raw) == "" || s.tokens == nil {
			writeError(w, r, http.StatusUnauthorized, "unauthorized", "Not authorized, token failed")
			return
		}

		claims, err := s.tokens.Parse(strings.TrimSpace(raw))
		if err != nil {
			writeError(w, r, http.StatusUnauthorized, "unauthorized", "Not authorized, token failed")
			return
		}

		actor := models.Actor{UserID: claims.UserID, Role: claims.Role}
		if s.svc.Users != nil {
			user, err := s.svc.Users.GetUser(r.Context(), claims.UserID)
			if err != nil {
				if domain.IsNotFound(err) {
					writeError(w, r, http.StatusUnauthorized, "unauthorized", "Not authorized")
					return
				}
				respondDomainError(w, r, s.logger, err)
				return
			}
			actor.Role = user.Role
		}

		next.ServeHTTP(w, r.WithContext(context.WithValue(r.Context(), ctxKeyActor, actor)))
	})
}

func actorFrom(ctx context.Context) models.Actor {
	actor, _ := ctx.Value(ctxKeyActor).(models.Actor)
	return actor
}

func (s *HTTPServer) requireAuth(next http.HandlerFunc) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		if actorFrom(r.Context()).Anonymous() {
			writeError(w, r, http.StatusUnauthorized, "unauthorized", "Not authorized, no token")
			return
		}
		next(w, r)
	}
}

func (s *HTTPServer) requireAdmin(next http.HandlerFunc) http.HandlerFunc {
	return s.requireAuth(func(w http.ResponseWriter, r *http.Request) {
		if !actorFrom(r.Context()).IsAdmin() {
			writeError(w, r, http.StatusForbidden, "forbidden", "Admin access only")
			return
		}
		next(w, r)
	})
}

// adminWhenEnforced guards booking and driver admin routes only while api.auth.enforce is on.
func (s *HTTPServer) adminWhenEnforced(next http.HandlerFunc) http.HandlerFunc {
	if !s.cfg.Auth.Enforced() {
		return next
	}
	return s.requireAdmin(next)
}
