package handlers

import (
	"net/http"

	"github.com/go-chi/chi/v5"

	"github.com/storely/auth-service/internal/application/auth"
	"github.com/storely/auth-service/internal/domain"
	"github.com/storely/auth-service/internal/transport/http/dto"
	"github.com/storely/auth-service/internal/transport/http/middleware"
	"github.com/storely/auth-service/internal/transport/http/response"
)

// UsersHandler serves the authenticated user endpoints, both
// self-service and admin.
type UsersHandler struct {
	svc *auth.Service
}

func NewUsersHandler(svc *auth.Service) *UsersHandler {
	return &UsersHandler{svc: svc}
}

func callerID(r *http.Request) (string, error) {
	id, ok := middleware.IdentityFrom(r.Context())
	if !ok || id.UserID == "" {
		return "", domain.ErrTokenMissing()
	}
	return id.UserID, nil
}

func (h *UsersHandler) Me(w http.ResponseWriter, r *http.Request) {
	uid, err := callerID(r)
	if err != nil {
		response.Error(w, r, err)
		return
	}

	u, err := h.svc.GetUserByID(r.Context(), uid)
	if err != nil {
		response.Error(w, r, err)
		return
	}
	response.OK(w, dto.NewUserView(u))
}

func (h *UsersHandler) ChangePassword(w http.ResponseWriter, r *http.Request) {
	uid, err := callerID(r)
	if err != nil {
		response.Error(w, r, err)
		return
	}

	var req dto.ChangePasswordRequest
	if err := response.DecodeJSON(w, r, &req); err != nil {
		response.Error(w, r, err)
		return
	}
	if fields := dto.Validate(req); fields != nil {
		response.ValidationError(w, r, fields)
		return
	}

	if err := h.svc.ChangePassword(r.Context(), uid, req.CurrentPassword, req.NewPassword); err != nil {
		response.Error(w, r, err)
		return
	}
	response.NoContent(w)
}

func (h *UsersHandler) ChangeUsername(w http.ResponseWriter, r *http.Request) {
	uid, err := callerID(r)
	if err != nil {
		response.Error(w, r, err)
		return
	}

	var req dto.ChangeUsernameRequest
	if err := response.DecodeJSON(w, r, &req); err != nil {
		response.Error(w, r, err)
		return
	}
	if fields := dto.Validate(req); fields != nil {
		response.ValidationError(w, r, fields)
		return
	}

	if err := h.svc.ChangeUsername(r.Context(), uid, req.Password, req.NewUsername); err != nil {
		response.Error(w, r, err)
		return
	}
	response.NoContent(w)
}

func (h *UsersHandler) ChangeEmail(w http.ResponseWriter, r *http.Request) {
	uid, err := callerID(r)
	if err != nil {
		response.Error(w, r, err)
		return
	}

	var req dto.ChangeEmailRequest
	if err := response.DecodeJSON(w, r, &req); err != nil {
		response.Error(w, r, err)
		return
	}
	if fields := dto.Validate(req); fields != nil {
		response.ValidationError(w, r, fields)
		return
	}

	if err := h.svc.ChangeEmail(r.Context(), uid, req.Password, req.NewEmail); err != nil {
		response.Error(w, r, err)
		return
	}
	response.NoContent(w)
}

func (h *UsersHandler) DeleteMe(w http.ResponseWriter, r *http.Request) {
	uid, err := callerID(r)
	if err != nil {
		response.Error(w, r, err)
		return
	}

	var req dto.DeleteMeRequest
	if err := response.DecodeJSON(w, r, &req); err != nil {
		response.Error(w, r, err)
		return
	}
	if fields := dto.Validate(req); fields != nil {
		response.ValidationError(w, r, fields)
		return
	}

	if err := h.svc.SelfDeactivate(r.Context(), uid, req.Password); err != nil {
		response.Error(w, r, err)
		return
	}
	response.NoContent(w)
}

// --- admin ---

func (h *UsersHandler) List(w http.ResponseWriter, r *http.Request) {
	users, err := h.svc.ListUsers(r.Context())
	if err != nil {
		response.Error(w, r, err)
		return
	}
	response.OK(w, dto.NewUserViews(users))
}

func (h *UsersHandler) GetByID(w http.ResponseWriter, r *http.Request) {
	id := chi.URLParam(r, "id")

	u, err := h.svc.GetUserByID(r.Context(), id)
	if err != nil {
		response.Error(w, r, err)
		return
	}
	response.OK(w, dto.NewUserView(u))
}

func (h *UsersHandler) Promote(w http.ResponseWriter, r *http.Request) {
	id := chi.URLParam(r, "id")

	if err := h.svc.PromoteToAdmin(r.Context(), id); err != nil {
		response.Error(w, r, err)
		return
	}
	response.NoContent(w)
}

func (h *UsersHandler) Demote(w http.ResponseWriter, r *http.Request) {
	uid, err := callerID(r)
	if err != nil {
		response.Error(w, r, err)
		return
	}
	id := chi.URLParam(r, "id")

	if err := h.svc.DemoteToUser(r.Context(), uid, id); err != nil {
		response.Error(w, r, err)
		return
	}
	response.NoContent(w)
}
