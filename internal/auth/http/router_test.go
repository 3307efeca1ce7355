package http_test

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	authhttp "github.com/myflix/backend/internal/auth/http"
	"github.com/myflix/backend/internal/auth/service"
	"github.com/myflix/backend/internal/common/clock"
	commoncrypto "github.com/myflix/backend/internal/common/crypto"
	"github.com/myflix/backend/internal/common/logger"
	userdomain "github.com/myflix/backend/internal/user/domain"
	userrepo "github.com/myflix/backend/internal/user/repository"
)

const testSecret = "test-secret-key-must-be-at-least-32-bytes-long"

type stubUserRepo struct {
	userrepo.Repository
	findByUsernameFunc func(ctx context.Context, username string) (userdomain.User, error)
}

func (s *stubUserRepo) FindByUsername(ctx context.Context, username string) (userdomain.User, error) {
	if s.findByUsernameFunc != nil {
		return s.findByUsernameFunc(ctx, username)
	}
	return userdomain.User{}, userrepo.ErrUserNotFound
}

type stubHasher struct{}

func (stubHasher) Hash(password string) (string, error) { return "hashed:" + password, nil }
func (stubHasher) Verify(password, hash string) bool    { return hash == "hashed:"+password }

func newLoginHandler(t *testing.T, repo userrepo.Repository) http.Handler {
	t.Helper()
	clk := clock.NewMockClock(time.Date(2024, 1, 1, 12, 0, 0, 0, time.UTC))
	local := service.NewLocalAuthenticator(repo, stubHasher{}, logger.NewNop())
	issuer := service.NewTokenIssuer(testSecret, commoncrypto.NewUUIDGenerator(), 7*24*time.Hour, clk)
	return authhttp.NewHandler(local, issuer, 5*time.Second, logger.NewNop())
}

func postLogin(handler http.Handler, body string) *httptest.ResponseRecorder {
	req := httptest.NewRequest(http.MethodPost, "/api/login", strings.NewReader(body))
	req.Header.Set("Content-Type", "application/json")
	rec := httptest.NewRecorder()
	handler.ServeHTTP(rec, req)
	return rec
}

func TestLogin_Success(t *testing.T) {
	repo := &stubUserRepo{findByUsernameFunc: func(ctx context.Context, username string) (userdomain.User, error) {
		return userdomain.User{
			ID:           "user-123",
			Username:     "jsmith98",
			Email:        "jsmith@example.com",
			PasswordHash: "hashed:password123",
		}, nil
	}}
	handler := newLoginHandler(t, repo)

	rec := postLogin(handler, `{"username":"jsmith98","password":"password123"}`)

	if rec.Code != http.StatusOK {
		t.Fatalf("expected status 200, got %d: %s", rec.Code, rec.Body.String())
	}

	var resp struct {
		User  map[string]any `json:"user"`
		Token string         `json:"token"`
	}
	if err := json.Unmarshal(rec.Body.Bytes(), &resp); err != nil {
		t.Fatalf("failed to decode response: %v", err)
	}
	if resp.Token == "" {
		t.Error("expected token in response")
	}
	if resp.User["username"] != "jsmith98" {
		t.Errorf("expected username jsmith98 in response, got %v", resp.User["username"])
	}
	if _, ok := resp.User["password"]; ok {
		t.Error("response must not contain a password field")
	}
	if strings.Contains(rec.Body.String(), "password123") {
		t.Error("response must not echo the password")
	}
}

func TestLogin_UniformRejection(t *testing.T) {
	known := &stubUserRepo{findByUsernameFunc: func(ctx context.Context, username string) (userdomain.User, error) {
		return userdomain.User{
			ID:           "user-123",
			Username:     "jsmith98",
			PasswordHash: "hashed:password123",
		}, nil
	}}
	unknown := &stubUserRepo{}

	wrongPassword := postLogin(newLoginHandler(t, known), `{"username":"jsmith98","password":"wrongpass"}`)
	noSuchUser := postLogin(newLoginHandler(t, unknown), `{"username":"nobody99","password":"password123"}`)

	if wrongPassword.Code != http.StatusBadRequest {
		t.Fatalf("expected status 400 for wrong password, got %d", wrongPassword.Code)
	}
	if noSuchUser.Code != http.StatusBadRequest {
		t.Fatalf("expected status 400 for unknown user, got %d", noSuchUser.Code)
	}

	// A client must not be able to tell the two failures apart.
	if wrongPassword.Body.String() != noSuchUser.Body.String() {
		t.Errorf("expected identical rejection bodies, got %q and %q",
			wrongPassword.Body.String(), noSuchUser.Body.String())
	}

	var body map[string]string
	if err := json.Unmarshal(wrongPassword.Body.Bytes(), &body); err != nil {
		t.Fatalf("failed to decode response: %v", err)
	}
	if body["message"] != "invalid username or password" {
		t.Errorf("expected generic rejection message, got %q", body["message"])
	}
}

func TestLogin_ValidationErrors(t *testing.T) {
	handler := newLoginHandler(t, &stubUserRepo{})

	rec := postLogin(handler, `{"username":"ab","password":""}`)

	if rec.Code != http.StatusUnprocessableEntity {
		t.Fatalf("expected status 422, got %d", rec.Code)
	}

	var resp struct {
		Errors []struct {
			Field         string `json:"field"`
			Message       string `json:"message"`
			RejectedValue any    `json:"rejectedValue"`
		} `json:"errors"`
	}
	if err := json.Unmarshal(rec.Body.Bytes(), &resp); err != nil {
		t.Fatalf("failed to decode response: %v", err)
	}
	if len(resp.Errors) != 2 {
		t.Fatalf("expected 2 field errors, got %d", len(resp.Errors))
	}
	for _, fe := range resp.Errors {
		if fe.Field != "username" && fe.Field != "password" {
			t.Errorf("unexpected field in errors: %q", fe.Field)
		}
	}
}

func TestLogin_InvalidJSON(t *testing.T) {
	handler := newLoginHandler(t, &stubUserRepo{})

	rec := postLogin(handler, `{"username":`)

	if rec.Code != http.StatusBadRequest {
		t.Fatalf("expected status 400, got %d", rec.Code)
	}
}

func TestLogin_MethodNotAllowed(t *testing.T) {
	handler := newLoginHandler(t, &stubUserRepo{})

	req := httptest.NewRequest(http.MethodGet, "/api/login", nil)
	rec := httptest.NewRecorder()
	handler.ServeHTTP(rec, req)

	if rec.Code != http.StatusMethodNotAllowed {
		t.Fatalf("expected status 405, got %d", rec.Code)
	}
}

func TestLogin_StoreUnavailable(t *testing.T) {
	repo := &stubUserRepo{findByUsernameFunc: func(ctx context.Context, username string) (userdomain.User, error) {
		return userdomain.User{}, context.DeadlineExceeded
	}}
	handler := newLoginHandler(t, repo)

	rec := postLogin(handler, `{"username":"jsmith98","password":"password123"}`)

	if rec.Code != http.StatusServiceUnavailable {
		t.Fatalf("expected status 503, got %d", rec.Code)
	}
	if strings.Contains(rec.Body.String(), "connection") {
		t.Error("response must not leak store internals")
	}
}
