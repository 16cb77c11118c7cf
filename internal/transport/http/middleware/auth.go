package middleware

import (
	"net/http"
	"strings"

	"github.com/storely/auth-service/internal/application/auth"
	"github.com/storely/auth-service/internal/domain"
	"github.com/storely/auth-service/internal/transport/http/response"
)

// Authenticate verifies the Bearer token and stores the caller identity
// in the request context. Requests without a valid token never reach
// the protected handlers.
func Authenticate(issuer auth.TokenIssuer) func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			raw, err := bearerToken(r)
			if err != nil {
				response.Error(w, r, err)
				return
			}

			claims, err := issuer.VerifyAccessToken(raw)
			if err != nil {
				response.Error(w, r, err)
				return
			}

			ctx := WithIdentity(r.Context(), Identity{
				UserID:      claims.UserID,
				Permissions: claims.Permissions,
			})
			next.ServeHTTP(w, r.WithContext(ctx))
		})
	}
}

func bearerToken(r *http.Request) (string, error) {
	h := r.Header.Get("Authorization")
	if h == "" {
		return "", domain.ErrTokenMissing()
	}
	const prefix = "Bearer "
	if !strings.HasPrefix(h, prefix) {
		return "", domain.ErrTokenInvalid()
	}
	token := strings.TrimSpace(h[len(prefix):])
	if token == "" {
		return "", domain.ErrTokenMissing()
	}
	return token, nil
}
