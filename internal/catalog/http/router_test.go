package http_test

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/myflix/backend/internal/auth/gate"
	"github.com/myflix/backend/internal/auth/service"
	"github.com/myflix/backend/internal/catalog/domain"
	cataloghttp "github.com/myflix/backend/internal/catalog/http"
	catalogrepo "github.com/myflix/backend/internal/catalog/repository"
	"github.com/myflix/backend/internal/common/clock"
	commoncrypto "github.com/myflix/backend/internal/common/crypto"
	"github.com/myflix/backend/internal/common/logger"
	userdomain "github.com/myflix/backend/internal/user/domain"
	userrepo "github.com/myflix/backend/internal/user/repository"
)

const testSecret = "test-secret-key-must-be-at-least-32-bytes-long"

type mockCatalogRepo struct {
	listFunc         func(ctx context.Context) ([]domain.Movie, error)
	findByTitleFunc  func(ctx context.Context, title string) (domain.Movie, error)
	findGenreFunc    func(ctx context.Context, name string) (domain.Genre, error)
	findDirectorFunc func(ctx context.Context, name string) (domain.Director, error)
}

func (m *mockCatalogRepo) List(ctx context.Context) ([]domain.Movie, error) {
	if m.listFunc != nil {
		return m.listFunc(ctx)
	}
	return nil, nil
}

func (m *mockCatalogRepo) FindByTitle(ctx context.Context, title string) (domain.Movie, error) {
	if m.findByTitleFunc != nil {
		return m.findByTitleFunc(ctx, title)
	}
	return domain.Movie{}, catalogrepo.ErrMovieNotFound
}

func (m *mockCatalogRepo) FindGenre(ctx context.Context, name string) (domain.Genre, error) {
	if m.findGenreFunc != nil {
		return m.findGenreFunc(ctx, name)
	}
	return domain.Genre{}, catalogrepo.ErrGenreNotFound
}

func (m *mockCatalogRepo) FindDirector(ctx context.Context, name string) (domain.Director, error) {
	if m.findDirectorFunc != nil {
		return m.findDirectorFunc(ctx, name)
	}
	return domain.Director{}, catalogrepo.ErrDirectorNotFound
}

type stubUserRepo struct {
	userrepo.Repository
}

func (stubUserRepo) FindByID(ctx context.Context, id userdomain.ID) (userdomain.User, error) {
	return userdomain.User{ID: id, Username: "jsmith98"}, nil
}

func newCatalogHandler(t *testing.T, repo catalogrepo.Repository) (http.Handler, string) {
	t.Helper()
	clk := clock.NewMockClock(time.Date(2024, 1, 1, 12, 0, 0, 0, time.UTC))
	tokens := service.NewTokenAuthenticator(stubUserRepo{}, testSecret, clk, logger.NewNop())
	g := gate.New(tokens, logger.NewNop())

	handler := cataloghttp.NewHandler(repo, g, 5*time.Second, logger.NewNop())

	issuer := service.NewTokenIssuer(testSecret, commoncrypto.NewUUIDGenerator(), 7*24*time.Hour, clk)
	token, err := issuer.Issue(userdomain.User{ID: "user-123", Username: "jsmith98"})
	if err != nil {
		t.Fatalf("failed to issue token: %v", err)
	}
	return handler, "Bearer " + token
}

func TestCatalog_RequiresToken(t *testing.T) {
	repo := &mockCatalogRepo{listFunc: func(ctx context.Context) ([]domain.Movie, error) {
		t.Error("expected repo not to be queried without a token")
		return nil, nil
	}}
	handler, _ := newCatalogHandler(t, repo)

	req := httptest.NewRequest(http.MethodGet, "/api/movies", nil)
	rec := httptest.NewRecorder()
	handler.ServeHTTP(rec, req)

	if rec.Code != http.StatusUnauthorized {
		t.Fatalf("expected status 401, got %d", rec.Code)
	}
}

func TestCatalog_ListMovies(t *testing.T) {
	repo := &mockCatalogRepo{listFunc: func(ctx context.Context) ([]domain.Movie, error) {
		return []domain.Movie{
			{
				ID:       "movie-1",
				Title:    "Inception",
				Genre:    domain.Genre{Name: "Thriller", Description: "Suspense driven"},
				Director: domain.Director{Name: "Christopher Nolan"},
				Actors:   []string{"Leonardo DiCaprio"},
			},
			{ID: "movie-2", Title: "Alien"},
		}, nil
	}}
	handler, auth := newCatalogHandler(t, repo)

	req := httptest.NewRequest(http.MethodGet, "/api/movies", nil)
	req.Header.Set("Authorization", auth)
	rec := httptest.NewRecorder()
	handler.ServeHTTP(rec, req)

	if rec.Code != http.StatusOK {
		t.Fatalf("expected status 200, got %d: %s", rec.Code, rec.Body.String())
	}

	var movies []map[string]any
	if err := json.Unmarshal(rec.Body.Bytes(), &movies); err != nil {
		t.Fatalf("failed to decode response: %v", err)
	}
	if len(movies) != 2 {
		t.Fatalf("expected 2 movies, got %d", len(movies))
	}
	if movies[0]["title"] != "Inception" {
		t.Errorf("expected first movie Inception, got %v", movies[0]["title"])
	}
}

func TestCatalog_MovieByTitle(t *testing.T) {
	repo := &mockCatalogRepo{findByTitleFunc: func(ctx context.Context, title string) (domain.Movie, error) {
		if title != "Inception" {
			t.Errorf("expected lookup for Inception, got %q", title)
		}
		return domain.Movie{ID: "movie-1", Title: "Inception"}, nil
	}}
	handler, auth := newCatalogHandler(t, repo)

	req := httptest.NewRequest(http.MethodGet, "/api/movies/Inception", nil)
	req.Header.Set("Authorization", auth)
	rec := httptest.NewRecorder()
	handler.ServeHTTP(rec, req)

	if rec.Code != http.StatusOK {
		t.Fatalf("expected status 200, got %d: %s", rec.Code, rec.Body.String())
	}
}

func TestCatalog_MovieNotFound(t *testing.T) {
	handler, auth := newCatalogHandler(t, &mockCatalogRepo{})

	req := httptest.NewRequest(http.MethodGet, "/api/movies/Unknown", nil)
	req.Header.Set("Authorization", auth)
	rec := httptest.NewRecorder()
	handler.ServeHTTP(rec, req)

	if rec.Code != http.StatusNotFound {
		t.Fatalf("expected status 404, got %d", rec.Code)
	}
}

func TestCatalog_GenreByName(t *testing.T) {
	repo := &mockCatalogRepo{findGenreFunc: func(ctx context.Context, name string) (domain.Genre, error) {
		return domain.Genre{Name: name, Description: "Suspense driven"}, nil
	}}
	handler, auth := newCatalogHandler(t, repo)

	req := httptest.NewRequest(http.MethodGet, "/api/genres/Thriller", nil)
	req.Header.Set("Authorization", auth)
	rec := httptest.NewRecorder()
	handler.ServeHTTP(rec, req)

	if rec.Code != http.StatusOK {
		t.Fatalf("expected status 200, got %d: %s", rec.Code, rec.Body.String())
	}

	var genre map[string]string
	if err := json.Unmarshal(rec.Body.Bytes(), &genre); err != nil {
		t.Fatalf("failed to decode response: %v", err)
	}
	if genre["name"] != "Thriller" {
		t.Errorf("expected genre Thriller, got %q", genre["name"])
	}
}

func TestCatalog_DirectorByName(t *testing.T) {
	repo := &mockCatalogRepo{findDirectorFunc: func(ctx context.Context, name string) (domain.Director, error) {
		return domain.Director{Name: name, Bio: "British-American film director"}, nil
	}}
	handler, auth := newCatalogHandler(t, repo)

	req := httptest.NewRequest(http.MethodGet, "/api/directors/Christopher%20Nolan", nil)
	req.Header.Set("Authorization", auth)
	rec := httptest.NewRecorder()
	handler.ServeHTTP(rec, req)

	if rec.Code != http.StatusOK {
		t.Fatalf("expected status 200, got %d: %s", rec.Code, rec.Body.String())
	}
}

func TestCatalog_MethodNotAllowed(t *testing.T) {
	handler, auth := newCatalogHandler(t, &mockCatalogRepo{})

	req := httptest.NewRequest(http.MethodPost, "/api/movies", nil)
	req.Header.Set("Authorization", auth)
	rec := httptest.NewRecorder()
	handler.ServeHTTP(rec, req)

	if rec.Code != http.StatusMethodNotAllowed {
		t.Fatalf("expected status 405, got %d", rec.Code)
	}
}
