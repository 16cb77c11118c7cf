package response

import (
	"errors"
	"net/http"

	appCtx "github.com/storely/auth-service/internal/pkg/context"

	"github.com/storely/auth-service/internal/domain"
)

type ErrorBody struct {
	Code      string            `json:"code"`
	Message   string            `json:"message"`
	Meta      map[string]string `json:"meta,omitempty"`
	RequestID string            `json:"request_id,omitempty"`
}

type errorEnvelope struct {
	Error ErrorBody `json:"error"`
}

// Error maps a domain error onto an HTTP status and JSON body. Unknown
// error types become an opaque 500.
func Error(w http.ResponseWriter, r *http.Request, err error) {
	var derr *domain.Error
	if !errors.As(err, &derr) {
		derr = domain.ErrInternal(err)
	}

	body := ErrorBody{
		Code:      derr.Code,
		Message:   derr.Message,
		Meta:      derr.Meta,
		RequestID: appCtx.GetRequestID(r.Context()),
	}

	writeJSON(w, statusFromKind(derr.Kind), errorEnvelope{Error: body})
}

// ValidationError reports per-field validation failures as a 400.
func ValidationError(w http.ResponseWriter, r *http.Request, fields map[string]string) {
	body := ErrorBody{
		Code:      "validation_failed",
		Message:   "request payload is invalid",
		Meta:      fields,
		RequestID: appCtx.GetRequestID(r.Context()),
	}
	writeJSON(w, http.StatusBadRequest, errorEnvelope{Error: body})
}

func statusFromKind(kind domain.ErrKind) int {
	switch kind {
	case domain.KindValidation:
		return http.StatusBadRequest
	case domain.KindAuth:
		return http.StatusUnauthorized
	case domain.KindForbidden:
		return http.StatusForbidden
	case domain.KindNotFound:
		return http.StatusNotFound
	case domain.KindConflict:
		return http.StatusConflict
	case domain.KindRateLimited:
		return http.StatusTooManyRequests
	case domain.KindInfrastructure:
		return http.StatusServiceUnavailable
	default:
		return http.StatusInternalServerError
	}
}
