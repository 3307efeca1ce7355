package repository

import (
	"context"
	"errors"
	"fmt"

	"github.com/jackc/pgconn"
	pgx "github.com/jackc/pgx/v4"
	"github.com/jackc/pgx/v4/pgxpool"

	"github.com/myflix/backend/internal/user/domain"
)

var (
	ErrUserNotFound          = errors.New("user not found")
	ErrUsernameAlreadyExists = errors.New("username already exists")
)

type Repository interface {
	Create(ctx context.Context, user domain.User) error
	FindByUsername(ctx context.Context, username string) (domain.User, error)
	FindByID(ctx context.Context, id domain.ID) (domain.User, error)
	List(ctx context.Context) ([]domain.User, error)
	Update(ctx context.Context, user domain.User) error
	Delete(ctx context.Context, id domain.ID) error
	AddFavorite(ctx context.Context, id domain.ID, movieID string) error
	RemoveFavorite(ctx context.Context, id domain.ID, movieID string) error
}

type PgRepository struct {
	pool *pgxpool.Pool
}

func NewPgRepository(pool *pgxpool.Pool) *PgRepository {
	return &PgRepository{pool: pool}
}

func (r *PgRepository) Create(ctx context.Context, user domain.User) error {
	_, err := r.pool.Exec(
		ctx,
		`INSERT INTO users (id, username, email, birthday, password_hash, created_at)
		 VALUES ($1, $2, $3, $4, $5, $6)`,
		string(user.ID),
		user.Username,
		user.Email,
		user.Birthday,
		user.PasswordHash,
		user.CreatedAt,
	)
	if err != nil {
		var pgErr *pgconn.PgError
		if errors.As(err, &pgErr) && pgErr.Code == "23505" {
			return ErrUsernameAlreadyExists
		}
		return fmt.Errorf("failed to create user: %w", err)
	}
	return nil
}

func (r *PgRepository) FindByUsername(ctx context.Context, username string) (domain.User, error) {
	return r.findOne(
		ctx,
		`SELECT id, username, email, birthday, password_hash, created_at
		 FROM users WHERE username = $1`,
		username,
	)
}

func (r *PgRepository) FindByID(ctx context.Context, id domain.ID) (domain.User, error) {
	return r.findOne(
		ctx,
		`SELECT id, username, email, birthday, password_hash, created_at
		 FROM users WHERE id = $1`,
		string(id),
	)
}

func (r *PgRepository) findOne(ctx context.Context, query string, arg any) (domain.User, error) {
	row := r.pool.QueryRow(ctx, query, arg)

	var user domain.User
	err := row.Scan(&user.ID, &user.Username, &user.Email, &user.Birthday, &user.PasswordHash, &user.CreatedAt)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return domain.User{}, ErrUserNotFound
		}
		return domain.User{}, fmt.Errorf("failed to find user: %w", err)
	}

	favorites, err := r.favorites(ctx, user.ID)
	if err != nil {
		return domain.User{}, err
	}
	user.Favorites = favorites

	return user, nil
}

func (r *PgRepository) favorites(ctx context.Context, id domain.ID) ([]string, error) {
	rows, err := r.pool.Query(
		ctx,
		`SELECT movie_id FROM user_favorites WHERE user_id = $1 ORDER BY added_at ASC`,
		string(id),
	)
	if err != nil {
		return nil, fmt.Errorf("failed to load favorites: %w", err)
	}
	defer rows.Close()

	var movieIDs []string
	for rows.Next() {
		var movieID string
		if err := rows.Scan(&movieID); err != nil {
			return nil, fmt.Errorf("failed to scan favorite: %w", err)
		}
		movieIDs = append(movieIDs, movieID)
	}

	if rows.Err() != nil {
		return nil, fmt.Errorf("rows iteration error: %w", rows.Err())
	}

	return movieIDs, nil
}

func (r *PgRepository) List(ctx context.Context) ([]domain.User, error) {
	rows, err := r.pool.Query(
		ctx,
		`SELECT id, username, email, birthday, password_hash, created_at
		 FROM users ORDER BY username ASC`,
	)
	if err != nil {
		return nil, fmt.Errorf("failed to list users: %w", err)
	}
	defer rows.Close()

	var users []domain.User
	for rows.Next() {
		var u domain.User
		if err := rows.Scan(&u.ID, &u.Username, &u.Email, &u.Birthday, &u.PasswordHash, &u.CreatedAt); err != nil {
			return nil, fmt.Errorf("failed to scan user: %w", err)
		}
		users = append(users, u)
	}

	if rows.Err() != nil {
		return nil, fmt.Errorf("rows iteration error: %w", rows.Err())
	}

	return users, nil
}

func (r *PgRepository) Update(ctx context.Context, user domain.User) error {
	tag, err := r.pool.Exec(
		ctx,
		`UPDATE users SET username = $2, email = $3, birthday = $4, password_hash = $5
		 WHERE id = $1`,
		string(user.ID),
		user.Username,
		user.Email,
		user.Birthday,
		user.PasswordHash,
	)
	if err != nil {
		var pgErr *pgconn.PgError
		if errors.As(err, &pgErr) && pgErr.Code == "23505" {
			return ErrUsernameAlreadyExists
		}
		return fmt.Errorf("failed to update user: %w", err)
	}
	if tag.RowsAffected() == 0 {
		return ErrUserNotFound
	}
	return nil
}

func (r *PgRepository) Delete(ctx context.Context, id domain.ID) error {
	tag, err := r.pool.Exec(ctx, `DELETE FROM users WHERE id = $1`, string(id))
	if err != nil {
		return fmt.Errorf("failed to delete user: %w", err)
	}
	if tag.RowsAffected() == 0 {
		return ErrUserNotFound
	}
	return nil
}

func (r *PgRepository) AddFavorite(ctx context.Context, id domain.ID, movieID string) error {
	_, err := r.pool.Exec(
		ctx,
		`INSERT INTO user_favorites (user_id, movie_id, added_at)
		 VALUES ($1, $2, now())
		 ON CONFLICT (user_id, movie_id) DO NOTHING`,
		string(id),
		movieID,
	)
	if err != nil {
		return fmt.Errorf("failed to add favorite: %w", err)
	}
	return nil
}

func (r *PgRepository) RemoveFavorite(ctx context.Context, id domain.ID, movieID string) error {
	_, err := r.pool.Exec(
		ctx,
		`DELETE FROM user_favorites WHERE user_id = $1 AND movie_id = $2`,
		string(id),
		movieID,
	)
	if err != nil {
		return fmt.Errorf("failed to remove favorite: %w", err)
	}
	return nil
}
