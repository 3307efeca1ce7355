package http

import (
	"context"
	"errors"
	"net/http"
	"strings"
	"time"

	"github.com/myflix/backend/internal/auth/gate"
	"github.com/myflix/backend/internal/catalog/domain"
	catalogrepo "github.com/myflix/backend/internal/catalog/repository"
	commonhttp "github.com/myflix/backend/internal/common/http"
	"github.com/myflix/backend/internal/common/logger"
)

type genreResponse struct {
	Name        string `json:"name"`
	Description string `json:"description"`
}

type directorResponse struct {
	Name string `json:"name"`
	Bio  string `json:"bio"`
}

type movieResponse struct {
	ID          string           `json:"id"`
	Title       string           `json:"title"`
	Description string           `json:"description"`
	Genre       genreResponse    `json:"genre"`
	Director    directorResponse `json:"director"`
	Actors      []string         `json:"actors"`
	ImagePath   string           `json:"image_path,omitempty"`
	Featured    bool             `json:"featured"`
}

func newMovieResponse(m domain.Movie) movieResponse {
	actors := m.Actors
	if actors == nil {
		actors = []string{}
	}
	return movieResponse{
		ID:          m.ID,
		Title:       m.Title,
		Description: m.Description,
		Genre:       genreResponse{Name: m.Genre.Name, Description: m.Genre.Description},
		Director:    directorResponse{Name: m.Director.Name, Bio: m.Director.Bio},
		Actors:      actors,
		ImagePath:   m.ImagePath,
		Featured:    m.Featured,
	}
}

type Handler struct {
	movies  catalogrepo.Repository
	timeout time.Duration
	log     *logger.Logger
}

// NewHandler wires the catalog read routes. Every route sits behind the gate;
// an unauthenticated request never reaches the store.
func NewHandler(
	movies catalogrepo.Repository,
	g *gate.Gate,
	timeout time.Duration,
	log *logger.Logger,
) http.Handler {
	h := &Handler{movies: movies, timeout: timeout, log: log}

	mux := http.NewServeMux()
	mux.HandleFunc("/api/movies", h.list)
	mux.HandleFunc("/api/movies/", h.byTitle)
	mux.HandleFunc("/api/genres/", h.genre)
	mux.HandleFunc("/api/directors/", h.director)
	return g.Middleware(mux)
}

func (h *Handler) list(w http.ResponseWriter, r *http.Request) {
	if r.Method != http.MethodGet {
		commonhttp.WriteError(w, http.StatusMethodNotAllowed, "method not allowed")
		return
	}

	ctx, cancel := h.requestContext(r)
	defer cancel()

	movies, err := h.movies.List(ctx)
	if err != nil {
		h.writeStoreError(w, r, err)
		return
	}

	out := make([]movieResponse, 0, len(movies))
	for _, m := range movies {
		out = append(out, newMovieResponse(m))
	}
	commonhttp.WriteJSON(w, http.StatusOK, out)
}

func (h *Handler) byTitle(w http.ResponseWriter, r *http.Request) {
	title, ok := h.pathParam(w, r, "/api/movies/")
	if !ok {
		return
	}

	ctx, cancel := h.requestContext(r)
	defer cancel()

	movie, err := h.movies.FindByTitle(ctx, title)
	if err != nil {
		h.writeStoreError(w, r, err)
		return
	}
	commonhttp.WriteJSON(w, http.StatusOK, newMovieResponse(movie))
}

func (h *Handler) genre(w http.ResponseWriter, r *http.Request) {
	name, ok := h.pathParam(w, r, "/api/genres/")
	if !ok {
		return
	}

	ctx, cancel := h.requestContext(r)
	defer cancel()

	genre, err := h.movies.FindGenre(ctx, name)
	if err != nil {
		h.writeStoreError(w, r, err)
		return
	}
	commonhttp.WriteJSON(w, http.StatusOK, genreResponse{Name: genre.Name, Description: genre.Description})
}

func (h *Handler) director(w http.ResponseWriter, r *http.Request) {
	name, ok := h.pathParam(w, r, "/api/directors/")
	if !ok {
		return
	}

	ctx, cancel := h.requestContext(r)
	defer cancel()

	director, err := h.movies.FindDirector(ctx, name)
	if err != nil {
		h.writeStoreError(w, r, err)
		return
	}
	commonhttp.WriteJSON(w, http.StatusOK, directorResponse{Name: director.Name, Bio: director.Bio})
}

func (h *Handler) pathParam(w http.ResponseWriter, r *http.Request, prefix string) (string, bool) {
	if r.Method != http.MethodGet {
		commonhttp.WriteError(w, http.StatusMethodNotAllowed, "method not allowed")
		return "", false
	}

	value := strings.Trim(strings.TrimPrefix(r.URL.Path, prefix), "/")
	if value == "" || strings.Contains(value, "/") {
		commonhttp.WriteError(w, http.StatusNotFound, "not found")
		return "", false
	}
	return value, true
}

func (h *Handler) writeStoreError(w http.ResponseWriter, r *http.Request, err error) {
	switch {
	case errors.Is(err, catalogrepo.ErrMovieNotFound):
		commonhttp.WriteError(w, http.StatusNotFound, "movie not found")
	case errors.Is(err, catalogrepo.ErrGenreNotFound):
		commonhttp.WriteError(w, http.StatusNotFound, "genre not found")
	case errors.Is(err, catalogrepo.ErrDirectorNotFound):
		commonhttp.WriteError(w, http.StatusNotFound, "director not found")
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
