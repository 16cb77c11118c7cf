package response

import (
	"encoding/json"
	"net/http"

	"github.com/storely/auth-service/internal/domain"
)

const maxBodyBytes = 1 << 20 // 1 MiB

// DecodeJSON reads the request body into dst, rejecting unknown fields
// and oversized payloads.
func DecodeJSON(w http.ResponseWriter, r *http.Request, dst any) error {
	r.Body = http.MaxBytesReader(w, r.Body, maxBodyBytes)

	dec := json.NewDecoder(r.Body)
	dec.DisallowUnknownFields()

	if err := dec.Decode(dst); err != nil {
		return &domain.Error{
			Kind:    domain.KindValidation,
			Code:    "malformed_body",
			Message: "request body is not valid JSON",
			Cause:   err,
		}
	}
	return nil
}
