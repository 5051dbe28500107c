package middleware

import (
	"net/http"

	"github.com/DurgarajC07/hrms-saas/internal/domain/user"
	"github.com/DurgarajC07/hrms-saas/internal/handler/http/response"
	"github.com/go-chi/jwtauth/v5"
)

// RequireHR gates the adjustment and approval endpoints.
func RequireHR(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		role, err := roleFromContext(r)
		if err != nil || !role.CanAdjust() {
			response.HandleError(w, user.ErrHRAccessRequired)
			return
		}

		next.ServeHTTP(w, r)
	})
}

// RequireTeamViewer gates reads over other employees' attendance.
func RequireTeamViewer(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		role, err := roleFromContext(r)
		if err != nil || !role.CanViewTeam() {
			response.HandleError(w, user.ErrViewerAccessRequired)
			return
		}

		next.ServeHTTP(w, r)
	})
}

func roleFromContext(r *http.Request) (user.Role, error) {
	_, claims, err := jwtauth.FromContext(r.Context())
	if err != nil {
		return "", user.ErrInvalidToken
	}

	roleStr, ok := claims["role"].(string)
	if !ok {
		return "", user.ErrInvalidToken
	}

	return user.Role(roleStr), nil
}
