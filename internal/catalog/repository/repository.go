package repository

import (
	"context"
	"errors"
	"fmt"

	pgx "github.com/jackc/pgx/v4"
	"github.com/jackc/pgx/v4/pgxpool"

	"github.com/myflix/backend/internal/catalog/domain"
)

var (
	ErrMovieNotFound    = errors.New("movie not found")
	ErrGenreNotFound    = errors.New("genre not found")
	ErrDirectorNotFound = errors.New("director not found")
)

type Repository interface {
	List(ctx context.Context) ([]domain.Movie, error)
	FindByTitle(ctx context.Context, title string) (domain.Movie, error)
	FindGenre(ctx context.Context, name string) (domain.Genre, error)
	FindDirector(ctx context.Context, name string) (domain.Director, error)
}

type PgRepository struct {
	pool *pgxpool.Pool
}

func NewPgRepository(pool *pgxpool.Pool) *PgRepository {
	return &PgRepository{pool: pool}
}

const movieColumns = `id, title, description, genre_name, genre_description,
	director_name, director_bio, actors, image_path, featured`

func (r *PgRepository) List(ctx context.Context) ([]domain.Movie, error) {
	rows, err := r.pool.Query(
		ctx,
		`SELECT `+movieColumns+` FROM movies ORDER BY title ASC`,
	)
	if err != nil {
		return nil, fmt.Errorf("failed to list movies: %w", err)
	}
	defer rows.Close()

	var movies []domain.Movie
	for rows.Next() {
		movie, err := scanMovie(rows)
		if err != nil {
			return nil, err
		}
		movies = append(movies, movie)
	}

	if rows.Err() != nil {
		return nil, fmt.Errorf("rows iteration error: %w", rows.Err())
	}

	return movies, nil
}

func (r *PgRepository) FindByTitle(ctx context.Context, title string) (domain.Movie, error) {
	row := r.pool.QueryRow(
		ctx,
		`SELECT `+movieColumns+` FROM movies WHERE title = $1`,
		title,
	)

	movie, err := scanMovie(row)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return domain.Movie{}, ErrMovieNotFound
		}
		return domain.Movie{}, err
	}

	return movie, nil
}

func (r *PgRepository) FindGenre(ctx context.Context, name string) (domain.Genre, error) {
	row := r.pool.QueryRow(
		ctx,
		`SELECT genre_name, genre_description FROM movies WHERE genre_name = $1 LIMIT 1`,
		name,
	)

	var genre domain.Genre
	if err := row.Scan(&genre.Name, &genre.Description); err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return domain.Genre{}, ErrGenreNotFound
		}
		return domain.Genre{}, fmt.Errorf("failed to find genre: %w", err)
	}

	return genre, nil
}

func (r *PgRepository) FindDirector(ctx context.Context, name string) (domain.Director, error) {
	row := r.pool.QueryRow(
		ctx,
		`SELECT director_name, director_bio FROM movies WHERE director_name = $1 LIMIT 1`,
		name,
	)

	var director domain.Director
	if err := row.Scan(&director.Name, &director.Bio); err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return domain.Director{}, ErrDirectorNotFound
		}
		return domain.Director{}, fmt.Errorf("failed to find director: %w", err)
	}

	return director, nil
}

func scanMovie(row pgx.Row) (domain.Movie, error) {
	var m domain.Movie
	err := row.Scan(
		&m.ID,
		&m.Title,
		&m.Description,
		&m.Genre.Name,
		&m.Genre.Description,
		&m.Director.Name,
		&m.Director.Bio,
		&m.Actors,
		&m.ImagePath,
		&m.Featured,
	)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return domain.Movie{}, err
		}
		return domain.Movie{}, fmt.Errorf("failed to scan movie: %w", err)
	}
	return m, nil
}
