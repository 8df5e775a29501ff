package repository

import (
	"context"
	"errors"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"

	"github.com/anandsr-dev/movs-n-rec/internal/model"
)

type ReviewRepo struct {
	pool *pgxpool.Pool
}

func NewReviewRepo(pool *pgxpool.Pool) *ReviewRepo {
	return &ReviewRepo{pool: pool}
}

// Submit records a review and folds its rating into the movie's running
// mean in a single transaction. The movie update is one atomic SQL
// statement: the new (average, count) pair is computed server-side from
// the current row, so concurrent submissions for the same movie cannot
// interleave a stale read into the mean.
// Returns the stored review plus the movie's new rating pair.
func (r *ReviewRepo) Submit(ctx context.Context, review *model.Review) (*model.Review, float64, int, error) {
	tx, err := r.pool.Begin(ctx)
	if err != nil {
		return nil, 0, 0, err
	}
	defer tx.Rollback(ctx)

	// Reject reviews for unknown users up front.
	var exists bool
	err = tx.QueryRow(ctx, `SELECT EXISTS (SELECT 1 FROM users WHERE id = $1)`, review.UserID).Scan(&exists)
	if err != nil {
		return nil, 0, 0, err
	}
	if !exists {
		return nil, 0, 0, ErrNotFound
	}

	// Incremental mean: (avg*count + rating) / (count + 1). No raw-rating
	// replay exists; the pair is forward-updatable only.
	var avg float64
	var count int
	err = tx.QueryRow(ctx, `
		UPDATE movies
		SET average_rating = (average_rating * review_count + $2) / (review_count + 1),
		    review_count   = review_count + 1,
		    updated_at     = NOW()
		WHERE id = $1
		RETURNING average_rating, review_count`,
		review.MovieID, review.Rating).Scan(&avg, &count)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, 0, 0, ErrNotFound
		}
		return nil, 0, 0, err
	}

	stored := *review
	err = tx.QueryRow(ctx, `
		INSERT INTO reviews (user_id, movie_id, rating, comment)
		VALUES ($1, $2, $3, $4)
		RETURNING id, created_at`,
		review.UserID, review.MovieID, review.Rating, review.Comment,
	).Scan(&stored.ID, &stored.CreatedAt)
	if err != nil {
		return nil, 0, 0, err
	}

	// Back-reference on the reviewing user's profile (append-only).
	_, err = tx.Exec(ctx, `
		UPDATE users SET review_ids = array_append(review_ids, $2), updated_at = NOW()
		WHERE id = $1`,
		review.UserID, stored.ID)
	if err != nil {
		return nil, 0, 0, err
	}

	if err := tx.Commit(ctx); err != nil {
		return nil, 0, 0, err
	}
	return &stored, avg, count, nil
}

// FindByMovie returns a page of a movie's reviews joined with reviewer
// and movie metadata, plus the total count.
func (r *ReviewRepo) FindByMovie(ctx context.Context, movieID string, skip, limit int) ([]model.Review, int, error) {
	query := `
		SELECT r.id, r.user_id, r.movie_id, r.rating, r.comment, r.created_at,
		       u.username, m.title
		FROM reviews r
		JOIN users u ON u.id = r.user_id
		JOIN movies m ON m.id = r.movie_id
		WHERE r.movie_id = $1
		ORDER BY r.created_at DESC
		OFFSET $2 LIMIT $3`

	rows, err := r.pool.Query(ctx, query, movieID, skip, limit)
	if err != nil {
		return nil, 0, err
	}
	defer rows.Close()

	var reviews []model.Review
	for rows.Next() {
		var rv model.Review
		err := rows.Scan(
			&rv.ID, &rv.UserID, &rv.MovieID, &rv.Rating, &rv.Comment,
			&rv.CreatedAt, &rv.Username, &rv.MovieTitle,
		)
		if err != nil {
			return nil, 0, err
		}
		reviews = append(reviews, rv)
	}
	if err := rows.Err(); err != nil {
		return nil, 0, err
	}

	var total int
	if err := r.pool.QueryRow(ctx, `SELECT COUNT(*) FROM reviews WHERE movie_id = $1`, movieID).Scan(&total); err != nil {
		return nil, 0, err
	}
	return reviews, total, nil
}

// FindMoviesByReviewers resolves the movies behind reviews authored by
// any of the given users at or above minRating. One movie entry is
// returned per qualifying review: duplicates across reviewers are
// preserved, not merged.
func (r *ReviewRepo) FindMoviesByReviewers(ctx context.Context, userIDs []string, minRating float64) ([]model.Movie, error) {
	if len(userIDs) == 0 {
		return nil, nil
	}

	query := `
		SELECT m.id, m.tmdb_id, m.title, m.language, m.genres, m.release_date, m.director,
		       m.cast_members, m.description, m.average_rating, m.review_count, m.created_at, m.updated_at
		FROM reviews r
		JOIN movies m ON m.id = r.movie_id
		WHERE r.user_id = ANY($1::uuid[]) AND r.rating >= $2
		ORDER BY r.rating DESC, r.created_at DESC`

	rows, err := r.pool.Query(ctx, query, userIDs, minRating)
	if err != nil {
		return nil, err
	}
	return collectMovies(rows)
}
