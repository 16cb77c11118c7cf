package middleware

import (
	"fmt"
	"net"
	"net/http"
	"strconv"
	"time"

	"github.com/storely/auth-service/internal/domain"
	"github.com/storely/auth-service/internal/infrastructure/redis"
	"github.com/storely/auth-service/internal/logger"
	"github.com/storely/auth-service/internal/transport/http/response"
)

// RateLimit caps requests per client IP over a fixed window. Infrastructure
// trouble fails open; brute-force defense belongs to the lockout policy,
// the limiter only blunts volume.
func RateLimit(limiter *redis.FixedWindowLimiter, scope string, limit int, window time.Duration) func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			key := fmt.Sprintf("rl:%s:%s", scope, clientIP(r))

			d, err := limiter.AllowFixedWindow(r.Context(), key, limit, window)
			if err != nil {
				logger.WithCtx(r.Context()).Warn().Err(err).Str("scope", scope).Msg("rate limiter unavailable")
				next.ServeHTTP(w, r)
				return
			}

			w.Header().Set("X-RateLimit-Limit", strconv.Itoa(d.Limit))
			w.Header().Set("X-RateLimit-Remaining", strconv.Itoa(d.Remaining))

			if !d.Allowed {
				w.Header().Set("Retry-After", strconv.Itoa(int(d.RetryAfter.Seconds()+1)))
				response.Error(w, r, domain.ErrRateLimited(scope))
				return
			}

			next.ServeHTTP(w, r)
		})
	}
}

func clientIP(r *http.Request) string {
	if fwd := r.Header.Get("X-Forwarded-For"); fwd != "" {
		return fwd
	}
	host, _, err := net.SplitHostPort(r.RemoteAddr)
	if err != nil {
		return r.RemoteAddr
	}
	return host
}
