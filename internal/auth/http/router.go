package http

import (
	"context"
	"errors"
	"net/http"
	"time"

	"github.com/myflix/backend/internal/auth/service"
	commonerrors "github.com/myflix/backend/internal/common/errors"
	commonhttp "github.com/myflix/backend/internal/common/http"
	"github.com/myflix/backend/internal/common/logger"
	userhttp "github.com/myflix/backend/internal/user/http"
)

type loginRequest struct {
	Username string `json:"username" validate:"required,alphanum,min=5"`
	Password string `json:"password" validate:"required"`
}

type loginResponse struct {
	User  userhttp.UserResponse `json:"user"`
	Token string                `json:"token"`
}

type Handler struct {
	local    service.Authenticator
	issuer   *service.TokenIssuer
	validate *commonhttp.Validator
	timeout  time.Duration
	log      *logger.Logger
}

func NewHandler(
	local service.Authenticator,
	issuer *service.TokenIssuer,
	timeout time.Duration,
	log *logger.Logger,
) http.Handler {
	h := &Handler{
		local:    local,
		issuer:   issuer,
		validate: commonhttp.NewValidator(),
		timeout:  timeout,
		log:      log,
	}
	mux := http.NewServeMux()
	mux.HandleFunc("/api/login", h.login)
	return mux
}

func (h *Handler) login(w http.ResponseWriter, r *http.Request) {
	if r.Method != http.MethodPost {
		commonhttp.WriteError(w, http.StatusMethodNotAllowed, "method not allowed")
		return
	}

	var req loginRequest
	if err := commonhttp.DecodeJSON(r, &req); err != nil {
		h.log.Warnf("login failed: invalid json: %v", err)
		commonhttp.WriteError(w, http.StatusBadRequest, "invalid json")
		return
	}

	if errs := h.validate.Struct(req); len(errs) > 0 {
		commonhttp.WriteValidationErrors(w, errs)
		return
	}

	ctx, cancel := context.WithTimeout(r.Context(), h.timeout)
	defer cancel()

	user, err := h.local.Authenticate(ctx, service.Credentials{
		Username: req.Username,
		Password: req.Password,
	})
	if err != nil {
		h.writeLoginError(w, r, err)
		return
	}

	token, err := h.issuer.Issue(user)
	if err != nil {
		h.log.WithFields(r.Context(), logger.Fields{
			"username": user.Username,
			"action":   "login_token_issue_failed",
		}).Errorf("login failed: token issue error: %v", err)
		commonhttp.WriteError(w, http.StatusInternalServerError, "internal server error")
		return
	}

	commonhttp.WriteJSON(w, http.StatusOK, loginResponse{
		User:  userhttp.NewUserResponse(user),
		Token: token,
	})
}

// writeLoginError collapses every credential failure into one uniform
// rejection; only a store outage is surfaced differently.
func (h *Handler) writeLoginError(w http.ResponseWriter, r *http.Request, err error) {
	if errors.Is(err, commonerrors.ErrStoreUnavailable) {
		commonhttp.WriteError(w, http.StatusServiceUnavailable, "service temporarily unavailable")
		return
	}
	if de, ok := commonerrors.AsDomainError(err); ok {
		h.log.WithFields(r.Context(), logger.Fields{
			"code":   de.Code(),
			"action": "login_rejected",
		}).Warn("login rejected")
	}
	commonhttp.WriteError(w, http.StatusBadRequest, "invalid username or password")
}
