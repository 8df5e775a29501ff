package repository

import (
	"context"
	"errors"
	"fmt"
	"strings"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"

	"github.com/anandsr-dev/movs-n-rec/internal/model"
)

type MovieRepo struct {
	pool *pgxpool.Pool
}

func NewMovieRepo(pool *pgxpool.Pool) *MovieRepo {
	return &MovieRepo{pool: pool}
}

const movieColumns = `id, tmdb_id, title, language, genres, release_date, director,
	       cast_members, description, average_rating, review_count, created_at, updated_at`

func scanMovie(row pgx.Row) (*model.Movie, error) {
	var m model.Movie
	err := row.Scan(
		&m.ID, &m.TmdbID, &m.Title, &m.Language, &m.Genres, &m.ReleaseDate,
		&m.Director, &m.Cast, &m.Description, &m.AverageRating, &m.ReviewCount,
		&m.CreatedAt, &m.UpdatedAt,
	)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, ErrNotFound
		}
		return nil, err
	}
	return &m, nil
}

func collectMovies(rows pgx.Rows) ([]model.Movie, error) {
	defer rows.Close()

	var movies []model.Movie
	for rows.Next() {
		var m model.Movie
		err := rows.Scan(
			&m.ID, &m.TmdbID, &m.Title, &m.Language, &m.Genres, &m.ReleaseDate,
			&m.Director, &m.Cast, &m.Description, &m.AverageRating, &m.ReviewCount,
			&m.CreatedAt, &m.UpdatedAt,
		)
		if err != nil {
			return nil, err
		}
		movies = append(movies, m)
	}
	return movies, rows.Err()
}

// Create inserts a new movie and returns it with the generated id.
func (r *MovieRepo) Create(ctx context.Context, m *model.Movie) (*model.Movie, error) {
	query := `
		INSERT INTO movies (tmdb_id, title, language, genres, release_date, director, cast_members, description)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8)
		RETURNING ` + movieColumns

	return scanMovie(r.pool.QueryRow(ctx, query,
		m.TmdbID, m.Title, m.Language, m.Genres, m.ReleaseDate,
		m.Director, m.Cast, m.Description,
	))
}

// FindByID returns a single movie by id.
func (r *MovieRepo) FindByID(ctx context.Context, movieID string) (*model.Movie, error) {
	query := `SELECT ` + movieColumns + ` FROM movies WHERE id = $1`
	return scanMovie(r.pool.QueryRow(ctx, query, movieID))
}

// List returns a page of the catalog plus the total count.
func (r *MovieRepo) List(ctx context.Context, skip, limit int) ([]model.Movie, int, error) {
	query := `
		SELECT ` + movieColumns + `
		FROM movies
		ORDER BY created_at DESC, title ASC
		OFFSET $1 LIMIT $2`

	rows, err := r.pool.Query(ctx, query, skip, limit)
	if err != nil {
		return nil, 0, err
	}
	movies, err := collectMovies(rows)
	if err != nil {
		return nil, 0, err
	}

	var total int
	if err := r.pool.QueryRow(ctx, `SELECT COUNT(*) FROM movies`).Scan(&total); err != nil {
		return nil, 0, err
	}
	return movies, total, nil
}

// Update applies a partial update to catalog fields and returns the new
// row. Rating fields are not touchable here: they belong to the rating
// accumulator's atomic update path.
func (r *MovieRepo) Update(ctx context.Context, movieID string, req model.UpdateMovieRequest) (*model.Movie, error) {
	sets := []string{"updated_at = NOW()"}
	args := []any{movieID}

	add := func(column string, value any) {
		args = append(args, value)
		sets = append(sets, fmt.Sprintf("%s = $%d", column, len(args)))
	}

	if req.Title != nil {
		add("title", *req.Title)
	}
	if req.Language != nil {
		add("language", *req.Language)
	}
	if req.Genres != nil {
		add("genres", *req.Genres)
	}
	if req.Director != nil {
		add("director", *req.Director)
	}
	if req.Description != nil {
		add("description", *req.Description)
	}

	query := `
		UPDATE movies SET ` + strings.Join(sets, ", ") + `
		WHERE id = $1
		RETURNING ` + movieColumns

	return scanMovie(r.pool.QueryRow(ctx, query, args...))
}

// Delete removes a movie and its reviews.
func (r *MovieRepo) Delete(ctx context.Context, movieID string) error {
	tx, err := r.pool.Begin(ctx)
	if err != nil {
		return err
	}
	defer tx.Rollback(ctx)

	if _, err := tx.Exec(ctx, `DELETE FROM reviews WHERE movie_id = $1`, movieID); err != nil {
		return err
	}

	tag, err := tx.Exec(ctx, `DELETE FROM movies WHERE id = $1`, movieID)
	if err != nil {
		return err
	}
	if tag.RowsAffected() == 0 {
		return ErrNotFound
	}

	return tx.Commit(ctx)
}

// FindByGenres returns movies whose genre list intersects the given set
// and whose running average meets the quality floor. Ordering is an
// explicit policy: average rating descending, then title.
func (r *MovieRepo) FindByGenres(ctx context.Context, genres []string, minRating float64, skip, limit int) ([]model.Movie, error) {
	if len(genres) == 0 {
		return nil, nil
	}

	query := `
		SELECT ` + movieColumns + `
		FROM movies
		WHERE genres && $1::text[] AND average_rating >= $2
		ORDER BY average_rating DESC, title ASC
		OFFSET $3 LIMIT $4`

	rows, err := r.pool.Query(ctx, query, genres, minRating, skip, limit)
	if err != nil {
		return nil, err
	}
	return collectMovies(rows)
}

// TopRated returns the highest-rated movies at or above minRating.
func (r *MovieRepo) TopRated(ctx context.Context, minRating float64, limit int) ([]model.Movie, error) {
	query := `
		SELECT ` + movieColumns + `
		FROM movies
		WHERE average_rating >= $1
		ORDER BY average_rating DESC, title ASC
		LIMIT $2`

	rows, err := r.pool.Query(ctx, query, minRating, limit)
	if err != nil {
		return nil, err
	}
	return collectMovies(rows)
}

// MostRated returns the movies with the highest review counts.
func (r *MovieRepo) MostRated(ctx context.Context, limit int) ([]model.Movie, error) {
	query := `
		SELECT ` + movieColumns + `
		FROM movies
		WHERE review_count > 0
		ORDER BY review_count DESC, title ASC
		LIMIT $1`

	rows, err := r.pool.Query(ctx, query, limit)
	if err != nil {
		return nil, err
	}
	return collectMovies(rows)
}

// All streams the full catalog. Used by the search reindex worker.
func (r *MovieRepo) All(ctx context.Context) ([]model.Movie, error) {
	query := `SELECT ` + movieColumns + ` FROM movies ORDER BY created_at ASC`

	rows, err := r.pool.Query(ctx, query)
	if err != nil {
		return nil, err
	}
	return collectMovies(rows)
}
