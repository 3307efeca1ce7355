package httpmetrics

import "strings"

// NormalizePath collapses path parameters so metric label cardinality stays
// bounded.
func NormalizePath(path string) string {
	switch path {
	case "/", "/health", "/metrics", "/api/login", "/api/movies", "/api/users":
		return path
	}

	switch {
	case strings.HasPrefix(path, "/api/movies/"):
		return "/api/movies/:title"
	case strings.HasPrefix(path, "/api/genres/"):
		return "/api/genres/:name"
	case strings.HasPrefix(path, "/api/directors/"):
		return "/api/directors/:name"
	case strings.HasPrefix(path, "/api/users/"):
		if strings.Contains(path, "/movies/") {
			return "/api/users/:username/movies/:movieId"
		}
		return "/api/users/:username"
	default:
		return "other"
	}
}
