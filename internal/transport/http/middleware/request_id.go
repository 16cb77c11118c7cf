package middleware

import (
	"net/http"

	"github.com/google/uuid"

	appCtx "github.com/storely/auth-service/internal/pkg/context"
)

const requestIDHeader = "X-Request-Id"

// RequestID assigns every request an id, honoring one supplied by an
// upstream proxy, and echoes it in the response.
func RequestID(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		id := r.Header.Get(requestIDHeader)
		if id == "" {
			id = uuid.NewString()
		}
		w.Header().Set(requestIDHeader, id)
		next.ServeHTTP(w, r.WithContext(appCtx.WithRequestID(r.Context(), id)))
	})
}
