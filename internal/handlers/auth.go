package handlers

import (
	"context"
	"errors"
	"net/http"

	"github.com/marquinacarlos/portablogio-backend/internal/apperr"
	"github.com/marquinacarlos/portablogio-backend/internal/logging"
	"github.com/marquinacarlos/portablogio-backend/internal/metrics"
	"github.com/marquinacarlos/portablogio-backend/internal/models"
	"github.com/marquinacarlos/portablogio-backend/internal/validation"
)

// Authenticator checks credentials and creates accounts.
type Authenticator interface {
	Login(ctx context.Context, email, password string) (string, error)
	Register(ctx context.Context, username, email, password string) (*models.User, error)
}

type AuthHandler struct {
	auth Authenticator
}

func NewAuthHandler(auth Authenticator) *AuthHandler {
	return &AuthHandler{auth: auth}
}

type LoginRequest struct {
	Email    string `json:"email" validate:"required"`
	Password string `json:"password" validate:"required"`
}

type LoginResponse struct {
	Message string `json:"message"`
	Token   string `json:"token"`
}

type RegisterRequest struct {
	Username string `json:"username" validate:"required,max=50"`
	Email    string `json:"email" validate:"required,email,max=255"`
	Password string `json:"password" validate:"required,min=8"`
}

// Login exchanges an email and password for a bearer token.
func (h *AuthHandler) Login(w http.ResponseWriter, r *http.Request) {
	var req LoginRequest
	if err := decodeJSON(w, r, &req); err != nil {
		respondErr(w, r, err)
		return
	}
	if err := validation.Struct(req); err != nil {
		respondErr(w, r, apperr.Validation(err.Error()))
		return
	}

	token, err := h.auth.Login(r.Context(), req.Email, req.Password)
	if err != nil {
		outcome := "error"
		switch {
		case errors.Is(err, apperr.ErrNotFound):
			outcome = "unknown_user"
		case errors.Is(err, apperr.ErrInvalidCredential):
			outcome = "bad_password"
		}
		metrics.LoginAttemptsTotal.WithLabelValues(outcome).Inc()
		logging.Ctx(r.Context()).Warn().Str("outcome", outcome).Msg("login failed")
		respondErr(w, r, err)
		return
	}

	metrics.LoginAttemptsTotal.WithLabelValues("success").Inc()
	respondJSON(w, http.StatusOK, LoginResponse{Message: "welcome", Token: token})
}

// Register creates a user account. It is only routed when registration is
// enabled in the configuration.
func (h *AuthHandler) Register(w http.ResponseWriter, r *http.Request) {
	var req RegisterRequest
	if err := decodeJSON(w, r, &req); err != nil {
		respondErr(w, r, err)
		return
	}
	if err := validation.Struct(req); err != nil {
		respondErr(w, r, apperr.Validation(err.Error()))
		return
	}

	user, err := h.auth.Register(r.Context(), req.Username, req.Email, req.Password)
	if err != nil {
		respondErr(w, r, err)
		return
	}
	logging.Ctx(r.Context()).Info().Int64("user_id", user.ID).Msg("user registered")
	respondJSON(w, http.StatusCreated, dataResponse{Message: "user registered", Data: user})
}
