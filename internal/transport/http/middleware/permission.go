package middleware

import (
	"net/http"

	"github.com/storely/auth-service/internal/application/auth"
	"github.com/storely/auth-service/internal/domain"
	"github.com/storely/auth-service/internal/logger"
	"github.com/storely/auth-service/internal/transport/http/response"
)

// RequirePermission gates a route on a permission claim. Fail closed:
// no identity, or no matching claim, means 403. Must sit behind
// Authenticate.
func RequirePermission(required string) func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			id, ok := IdentityFrom(r.Context())
			if !ok {
				response.Error(w, r, domain.ErrTokenMissing())
				return
			}

			if !auth.HasPermission(id.Permissions, required) {
				logger.WithCtx(r.Context()).Warn().
					Str("user_id", id.UserID).
					Str("required", required).
					Msg("permission denied")
				response.Error(w, r, domain.ErrPermissionDenied(required))
				return
			}

			next.ServeHTTP(w, r)
		})
	}
}
