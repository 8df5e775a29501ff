package repository

import (
	"context"
	"errors"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"

	"github.com/anandsr-dev/movs-n-rec/internal/model"
)

type UserRepo struct {
	pool *pgxpool.Pool
}

func NewUserRepo(pool *pgxpool.Pool) *UserRepo {
	return &UserRepo{pool: pool}
}

const userColumns = `id, username, password_hash, name, email, dob, gender, state, role,
	       favorite_genres, review_ids, refresh_token, created_at, updated_at`

func scanUser(row pgx.Row) (*model.User, error) {
	var u model.User
	err := row.Scan(
		&u.ID, &u.Username, &u.PasswordHash, &u.Name, &u.Email, &u.DOB,
		&u.Gender, &u.State, &u.Role, &u.FavoriteGenres, &u.ReviewIDs,
		&u.RefreshToken, &u.CreatedAt, &u.UpdatedAt,
	)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, ErrNotFound
		}
		return nil, err
	}
	return &u, nil
}

// Create inserts a new user and returns it with the generated id.
func (r *UserRepo) Create(ctx context.Context, u *model.User) (*model.User, error) {
	query := `
		INSERT INTO users (username, password_hash, name, email, dob, gender, state, role, favorite_genres)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9)
		RETURNING ` + userColumns

	return scanUser(r.pool.QueryRow(ctx, query,
		u.Username, u.PasswordHash, u.Name, u.Email, u.DOB,
		u.Gender, u.State, u.Role, u.FavoriteGenres,
	))
}

// FindByID returns a single user by id.
func (r *UserRepo) FindByID(ctx context.Context, userID string) (*model.User, error) {
	query := `SELECT ` + userColumns + ` FROM users WHERE id = $1`
	return scanUser(r.pool.QueryRow(ctx, query, userID))
}

// FindByUsername returns a single user by unique username.
func (r *UserRepo) FindByUsername(ctx context.Context, username string) (*model.User, error) {
	query := `SELECT ` + userColumns + ` FROM users WHERE username = $1`
	return scanUser(r.pool.QueryRow(ctx, query, username))
}

// UpdateRefreshToken stores the current refresh token for a user.
// An empty token logs the user out.
func (r *UserRepo) UpdateRefreshToken(ctx context.Context, userID, token string) error {
	tag, err := r.pool.Exec(ctx, `
		UPDATE users SET refresh_token = $2, updated_at = NOW() WHERE id = $1`,
		userID, token)
	if err != nil {
		return err
	}
	if tag.RowsAffected() == 0 {
		return ErrNotFound
	}
	return nil
}

// UpdateFavoriteGenres replaces a user's favorite-genre list.
func (r *UserRepo) UpdateFavoriteGenres(ctx context.Context, userID string, genres []string) (*model.User, error) {
	query := `
		UPDATE users SET favorite_genres = $2, updated_at = NOW()
		WHERE id = $1
		RETURNING ` + userColumns
	return scanUser(r.pool.QueryRow(ctx, query, userID, genres))
}

// FindSimilarByGenres returns users whose favorite-genre set intersects
// the given set, excluding the reference user. Ordering is an explicit
// policy: overlap size descending, then username for determinism.
func (r *UserRepo) FindSimilarByGenres(ctx context.Context, userID string, genres []string, skip, limit int) ([]model.User, error) {
	if len(genres) == 0 {
		return nil, nil
	}

	query := `
		SELECT ` + userColumns + `,
		       cardinality(ARRAY(SELECT unnest(favorite_genres) INTERSECT SELECT unnest($2::text[]))) AS overlap
		FROM users
		WHERE favorite_genres && $2::text[] AND id <> $1
		ORDER BY overlap DESC, username ASC
		OFFSET $3 LIMIT $4`

	rows, err := r.pool.Query(ctx, query, userID, genres, skip, limit)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var users []model.User
	for rows.Next() {
		var u model.User
		var overlap int
		err := rows.Scan(
			&u.ID, &u.Username, &u.PasswordHash, &u.Name, &u.Email, &u.DOB,
			&u.Gender, &u.State, &u.Role, &u.FavoriteGenres, &u.ReviewIDs,
			&u.RefreshToken, &u.CreatedAt, &u.UpdatedAt, &overlap,
		)
		if err != nil {
			return nil, err
		}
		users = append(users, u)
	}
	return users, rows.Err()
}

// FindByGenres returns all users interested in any of the given genres.
// Used by the movie-added notification fan-out.
func (r *UserRepo) FindByGenres(ctx context.Context, genres []string) ([]model.User, error) {
	if len(genres) == 0 {
		return nil, nil
	}

	query := `
		SELECT ` + userColumns + `
		FROM users
		WHERE favorite_genres && $1::text[]
		ORDER BY username ASC`

	rows, err := r.pool.Query(ctx, query, genres)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var users []model.User
	for rows.Next() {
		var u model.User
		err := rows.Scan(
			&u.ID, &u.Username, &u.PasswordHash, &u.Name, &u.Email, &u.DOB,
			&u.Gender, &u.State, &u.Role, &u.FavoriteGenres, &u.ReviewIDs,
			&u.RefreshToken, &u.CreatedAt, &u.UpdatedAt,
		)
		if err != nil {
			return nil, err
		}
		users = append(users, u)
	}
	return users, rows.Err()
}

// GetStats returns aggregate counts across all tables plus per-genre
// movie counts.
func (r *UserRepo) GetStats(ctx context.Context) (*model.StatsResponse, error) {
	query := `
		SELECT
			(SELECT COUNT(*) FROM movies) AS total_movies,
			(SELECT COUNT(*) FROM users) AS total_users,
			(SELECT COUNT(*) FROM reviews) AS total_reviews`

	var stats model.StatsResponse
	err := r.pool.QueryRow(ctx, query).Scan(
		&stats.TotalMovies, &stats.TotalUsers, &stats.TotalReviews,
	)
	if err != nil {
		return nil, err
	}

	genreQuery := `
		SELECT genre, COUNT(*) AS total
		FROM movies, unnest(genres) AS genre
		GROUP BY genre
		ORDER BY total DESC
		LIMIT 10`

	rows, err := r.pool.Query(ctx, genreQuery)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	stats.TopGenres = make(map[string]int)
	for rows.Next() {
		var genre string
		var count int
		if err := rows.Scan(&genre, &count); err != nil {
			return nil, err
		}
		stats.TopGenres[genre] = count
	}
	if err := rows.Err(); err != nil {
		return nil, err
	}

	return &stats, nil
}
