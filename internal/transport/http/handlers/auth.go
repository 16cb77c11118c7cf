package handlers

import (
	"net/http"

	"github.com/storely/auth-service/internal/application/auth"
	"github.com/storely/auth-service/internal/logger"
	"github.com/storely/auth-service/internal/transport/http/dto"
	"github.com/storely/auth-service/internal/transport/http/response"
)

// AuthHandler serves the unauthenticated endpoints: login, refresh,
// register.
type AuthHandler struct {
	svc *auth.Service
}

func NewAuthHandler(svc *auth.Service) *AuthHandler {
	return &AuthHandler{svc: svc}
}

func tokensView(t auth.AuthTokens) dto.TokensView {
	return dto.TokensView{
		AccessToken:  t.AccessToken,
		RefreshToken: t.RefreshToken,
		TokenType:    t.TokenType,
		ExpiresIn:    t.ExpiresIn,
	}
}

func (h *AuthHandler) Login(w http.ResponseWriter, r *http.Request) {
	var req dto.LoginRequest
	if err := response.DecodeJSON(w, r, &req); err != nil {
		response.Error(w, r, err)
		return
	}
	if fields := dto.Validate(req); fields != nil {
		response.ValidationError(w, r, fields)
		return
	}

	res, err := h.svc.Login(r.Context(), req.Identifier, req.Password)
	if err != nil {
		response.Error(w, r, err)
		return
	}

	response.OK(w, dto.LoginData{
		User:   dto.NewUserView(res.User),
		Tokens: tokensView(res.Tokens),
	})
}

func (h *AuthHandler) Refresh(w http.ResponseWriter, r *http.Request) {
	var req dto.RefreshRequest
	if err := response.DecodeJSON(w, r, &req); err != nil {
		response.Error(w, r, err)
		return
	}
	if fields := dto.Validate(req); fields != nil {
		response.ValidationError(w, r, fields)
		return
	}

	tokens, _, err := h.svc.Refresh(r.Context(), req.AccessToken, req.RefreshToken)
	if err != nil {
		response.Error(w, r, err)
		return
	}

	response.OK(w, dto.RefreshData{Tokens: tokensView(tokens)})
}

func (h *AuthHandler) Register(w http.ResponseWriter, r *http.Request) {
	var req dto.RegisterRequest
	if err := response.DecodeJSON(w, r, &req); err != nil {
		response.Error(w, r, err)
		return
	}
	if fields := dto.Validate(req); fields != nil {
		response.ValidationError(w, r, fields)
		return
	}

	res, err := h.svc.Register(r.Context(), auth.RegisterInput{
		Username: req.Username,
		Email:    req.Email,
		Password: req.Password,
		Name:     req.Name,
		Surname:  req.Surname,
	})
	if err != nil {
		response.Error(w, r, err)
		return
	}

	logger.WithCtx(r.Context()).Info().Str("user_id", res.User.ID).Msg("user registered")
	response.Created(w, dto.NewUserView(res.User))
}
