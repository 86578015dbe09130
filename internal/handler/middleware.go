package handler

import (
	"net/http"
	"strings"

	"github.com/xenking/pos-backend/internal/apperr"
	"github.com/xenking/pos-backend/internal/domain/auth"
	"github.com/xenking/pos-backend/internal/domain/cashier"
)

// authenticate resolves the bearer token to a session and stores it in the
// request context.
func (h *Handler) authenticate(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		header := r.Header.Get("Authorization")
		if !strings.HasPrefix(header, "Bearer ") {
			respondError(w, r, apperr.Unauthorized("No token provided"))
			return
		}

		session, err := h.auth.Authenticate(r.Context(), strings.TrimPrefix(header, "Bearer "))
		if err != nil {
			respondError(w, r, err)
			return
		}

		next.ServeHTTP(w, r.WithContext(auth.WithSession(r.Context(), session)))
	})
}

// requireRole gates a route on the authenticated session's role. It must run
// after authenticate.
func requireRole(roles ...cashier.Role) func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			session := auth.SessionFromContext(r.Context())
			if session == nil {
				respondError(w, r, apperr.Unauthorized("No token provided"))
				return
			}
			for _, role := range roles {
				if session.Role == role {
					next.ServeHTTP(w, r)
					return
				}
			}
			respondError(w, r, apperr.Forbidden("Insufficient permissions"))
		})
	}
}
