package http

import (
	"context"
	"errors"
	"net/http"
	"strings"
	"time"

	"github.com/myflix/backend/internal/auth/gate"
	"github.com/myflix/backend/internal/common/clock"
	commoncrypto "github.com/myflix/backend/internal/common/crypto"
	commonhttp "github.com/myflix/backend/internal/common/http"
	"github.com/myflix/backend/internal/common/logger"
	"github.com/myflix/backend/internal/user/domain"
	userrepo "github.com/myflix/backend/internal/user/repository"
)

const dateLayout = "2006-01-02"

type createUserRequest struct {
	Username string `json:"username" validate:"required,alphanum,min=5,max=32"`
	Password string `json:"password" validate:"required,max=72"`
	Email    string `json:"email" validate:"required,email"`
	Birthday string `json:"birthday" validate:"omitempty,datetime=2006-01-02"`
}

type updateUserRequest struct {
	Username string `json:"username" validate:"omitempty,alphanum,min=5,max=32"`
	Password string `json:"password" validate:"omitempty,max=72"`
	Email    string `json:"email" validate:"omitempty,email"`
	Birthday string `json:"birthday" validate:"omitempty,datetime=2006-01-02"`
}

type Handler struct {
	users    userrepo.Repository
	hasher   commoncrypto.PasswordHasher
	ids      commoncrypto.IDGenerator
	clock    clock.Clock
	validate *commonhttp.Validator
	timeout  time.Duration
	log      *logger.Logger
}

// NewHandler wires the user routes. Registration is the one public endpoint;
// everything else sits behind the gate, and mutating routes additionally
// require the authenticated identity to match the path's username.
func NewHandler(
	users userrepo.Repository,
	hasher commoncrypto.PasswordHasher,
	ids commoncrypto.IDGenerator,
	clk clock.Clock,
	g *gate.Gate,
	timeout time.Duration,
	log *logger.Logger,
) http.Handler {
	h := &Handler{
		users:    users,
		hasher:   hasher,
		ids:      ids,
		clock:    clk,
		validate: commonhttp.NewValidator(),
		timeout:  timeout,
		log:      log,
	}

	protectedList := g.Middleware(http.HandlerFunc(h.list))
	protectedItem := g.Middleware(http.HandlerFunc(h.item))

	mux := http.NewServeMux()
	mux.HandleFunc("/api/users", func(w http.ResponseWriter, r *http.Request) {
		switch r.Method {
		case http.MethodPost:
			h.register(w, r)
		case http.MethodGet:
			protectedList.ServeHTTP(w, r)
		default:
			commonhttp.WriteError(w, http.StatusMethodNotAllowed, "method not allowed")
		}
	})
	mux.Handle("/api/users/", protectedItem)
	return mux
}

func (h *Handler) register(w http.ResponseWriter, r *http.Request) {
	var req createUserRequest
	if err := commonhttp.DecodeJSON(r, &req); err != nil {
		h.log.Warnf("register failed: invalid json: %v", err)
		commonhttp.WriteError(w, http.StatusBadRequest, "invalid json")
		return
	}

	if errs := h.validate.Struct(req); len(errs) > 0 {
		commonhttp.WriteValidationErrors(w, errs)
		return
	}

	hash, err := h.hasher.Hash(req.Password)
	if err != nil {
		h.log.Errorf("register failed: password hash error: %v", err)
		commonhttp.WriteError(w, http.StatusInternalServerError, "internal server error")
		return
	}

	id, err := h.ids.NewID()
	if err != nil {
		h.log.Errorf("register failed: id generation error: %v", err)
		commonhttp.WriteError(w, http.StatusInternalServerError, "internal server error")
		return
	}

	user := domain.User{
		ID:           domain.ID(id),
		Username:     req.Username,
		Email:        req.Email,
		Birthday:     parseDate(req.Birthday),
		PasswordHash: hash,
		CreatedAt:    h.clock.Now(),
	}

	ctx, cancel := h.requestContext(r)
	defer cancel()

	if err := h.users.Create(ctx, user); err != nil {
		h.writeStoreError(w, r, err)
		return
	}

	h.log.WithFields(r.Context(), logger.Fields{
		"username": user.Username,
		"user_id":  string(user.ID),
		"action":   "register_success",
	}).Info("user registered")

	commonhttp.WriteJSON(w, http.StatusCreated, NewUserResponse(user))
}

func (h *Handler) list(w http.ResponseWriter, r *http.Request) {
	ctx, cancel := h.requestContext(r)
	defer cancel()

	users, err := h.users.List(ctx)
	if err != nil {
		h.writeStoreError(w, r, err)
		return
	}

	out := make([]UserResponse, 0, len(users))
	for _, u := range users {
		out = append(out, NewUserResponse(u))
	}
	commonhttp.WriteJSON(w, http.StatusOK, out)
}

func (h *Handler) item(w http.ResponseWriter, r *http.Request) {
	rest := strings.Trim(strings.TrimPrefix(r.URL.Path, "/api/users/"), "/")
	parts := strings.Split(rest, "/")

	switch {
	case len(parts) == 1 && parts[0] != "":
		h.user(w, r, parts[0])
	case len(parts) == 3 && parts[1] == "movies" && parts[2] != "":
		h.favorite(w, r, parts[0], parts[2])
	default:
		commonhttp.WriteError(w, http.StatusNotFound, "not found")
	}
}

func (h *Handler) user(w http.ResponseWriter, r *http.Request, username string) {
	switch r.Method {
	case http.MethodGet:
		h.get(w, r, username)
	case http.MethodPut:
		h.update(w, r, username)
	case http.MethodDelete:
		h.delete(w, r, username)
	default:
		commonhttp.WriteError(w, http.StatusMethodNotAllowed, "method not allowed")
	}
}

func (h *Handler) favorite(w http.ResponseWriter, r *http.Request, username, movieID string) {
	if !h.requireSelf(w, r, username) {
		return
	}

	ctx, cancel := h.requestContext(r)
	defer cancel()

	user, err := h.users.FindByUsername(ctx, username)
	if err != nil {
		h.writeStoreError(w, r, err)
		return
	}

	switch r.Method {
	case http.MethodPost:
		err = h.users.AddFavorite(ctx, user.ID, movieID)
	case http.MethodDelete:
		err = h.users.RemoveFavorite(ctx, user.ID, movieID)
	default:
		commonhttp.WriteError(w, http.StatusMethodNotAllowed, "method not allowed")
		return
	}
	if err != nil {
		h.writeStoreError(w, r, err)
		return
	}

	updated, err := h.users.FindByID(ctx, user.ID)
	if err != nil {
		h.writeStoreError(w, r, err)
		return
	}
	commonhttp.WriteJSON(w, http.StatusOK, NewUserResponse(updated))
}

func (h *Handler) get(w http.ResponseWriter, r *http.Request, username string) {
	ctx, cancel := h.requestContext(r)
	defer cancel()

	user, err := h.users.FindByUsername(ctx, username)
	if err != nil {
		h.writeStoreError(w, r, err)
		return
	}
	commonhttp.WriteJSON(w, http.StatusOK, NewUserResponse(user))
}

func (h *Handler) update(w http.ResponseWriter, r *http.Request, username string) {
	if !h.requireSelf(w, r, username) {
		return
	}

	var req updateUserRequest
	if err := commonhttp.DecodeJSON(r, &req); err != nil {
		h.log.Warnf("update failed: invalid json: %v", err)
		commonhttp.WriteError(w, http.StatusBadRequest, "invalid json")
		return
	}

	if errs := h.validate.Struct(req); len(errs) > 0 {
		commonhttp.WriteValidationErrors(w, errs)
		return
	}

	ctx, cancel := h.requestContext(r)
	defer cancel()

	user, err := h.users.FindByUsername(ctx, username)
	if err != nil {
		h.writeStoreError(w, r, err)
		return
	}

	if req.Username != "" {
		user.Username = req.Username
	}
	if req.Email != "" {
		user.Email = req.Email
	}
	if req.Birthday != "" {
		user.Birthday = parseDate(req.Birthday)
	}
	if req.Password != "" {
		hash, err := h.hasher.Hash(req.Password)
		if err != nil {
			h.log.Errorf("update failed: password hash error: %v", err)
			commonhttp.WriteError(w, http.StatusInternalServerError, "internal server error")
			return
		}
		user.PasswordHash = hash
	}

	if err := h.users.Update(ctx, user); err != nil {
		h.writeStoreError(w, r, err)
		return
	}

	commonhttp.WriteJSON(w, http.StatusOK, NewUserResponse(user))
}

func (h *Handler) delete(w http.ResponseWriter, r *http.Request, username string) {
	if !h.requireSelf(w, r, username) {
		return
	}

	ctx, cancel := h.requestContext(r)
	defer cancel()

	user, err := h.users.FindByUsername(ctx, username)
	if err != nil {
		h.writeStoreError(w, r, err)
		return
	}

	if err := h.users.Delete(ctx, user.ID); err != nil {
		h.writeStoreError(w, r, err)
		return
	}

	h.log.WithFields(r.Context(), logger.Fields{
		"username": username,
		"action":   "user_deleted",
	}).Info("user deleted")

	w.WriteHeader(http.StatusNoContent)
}

// requireSelf rejects requests whose authenticated identity does not match
// the username in the path.
func (h *Handler) requireSelf(w http.ResponseWriter, r *http.Request, username string) bool {
	identity, ok := gate.IdentityFromContext(r.Context())
	if !ok || identity.Username != username {
		commonhttp.WriteError(w, http.StatusForbidden, "permission denied")
		return false
	}
	return true
}

func (h *Handler) writeStoreError(w http.ResponseWriter, r *http.Request, err error) {
	switch {
	case errors.Is(err, userrepo.ErrUserNotFound):
		commonhttp.WriteError(w, http.StatusNotFound, "user not found")
	case errors.Is(err, userrepo.ErrUsernameAlreadyExists):
		commonhttp.WriteError(w, http.StatusConflict, "username already exists")
	default:
		h.log.WithFields(r.Context(), logger.Fields{
			"action": "store_error",
		}).Errorf("store operation failed: %v", err)
		commonhttp.WriteError(w, http.StatusServiceUnavailable, "service temporarily unavailable")
	}
}

func (h *Handler) requestContext(r *http.Request) (context.Context, context.CancelFunc) {
	return context.WithTimeout(r.Context(), h.timeout)
}

func parseDate(value string) *time.Time {
	if value == "" {
		return nil
	}
	t, err := time.Parse(dateLayout, value)
	if err != nil {
		return nil
	}
	return &t
}
