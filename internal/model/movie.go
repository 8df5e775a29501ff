package model

import "time"

// Movie represents a catalog entry. AverageRating and ReviewCount are
// maintained exclusively by the rating accumulator; direct writes to
// either field bypass the running-mean invariant.
type Movie struct {
	ID            string     `json:"movieId"`
	TmdbID        *int64     `json:"tmdbId,omitempty"`
	Title         string     `json:"title"`
	Language      string     `json:"language,omitempty"`
	Genres        []string   `json:"genres"`
	ReleaseDate   *time.Time `json:"releaseDate,omitempty"`
	Director      string     `json:"director,omitempty"`
	Cast          []string   `json:"cast,omitempty"`
	Description   string     `json:"description,omitempty"`
	AverageRating float64    `json:"averageRating"`
	ReviewCount   int        `json:"reviewCount"`
	CreatedAt     time.Time  `json:"-"`
	UpdatedAt     time.Time  `json:"lastUpdated"`
}

// CreateMovieRequest is the API request body for adding a movie directly.
type CreateMovieRequest struct {
	Title       string   `json:"title"`
	Language    string   `json:"language"`
	Genres      []string `json:"genres"`
	ReleaseDate string   `json:"releaseDate"`
	Director    string   `json:"director"`
	Cast        []string `json:"cast"`
	Description string   `json:"description"`
}

// UpdateMovieRequest is the API request body for a partial movie update.
// Nil fields are left untouched. Rating fields are deliberately absent:
// they only change through review submission.
type UpdateMovieRequest struct {
	Title       *string   `json:"title"`
	Language    *string   `json:"language"`
	Genres      *[]string `json:"genres"`
	Director    *string   `json:"director"`
	Description *string   `json:"description"`
}

// MovieListResponse is the paginated API response for catalog listings.
type MovieListResponse struct {
	Movies      []Movie `json:"movies"`
	Total       int     `json:"total"`
	CurrentPage int     `json:"currentPage"`
	TotalPages  int     `json:"totalPages"`
}

// MovieAddedEvent is the outbound message published when a movie enters
// the catalog. Consumers must tolerate at-least-once delivery.
type MovieAddedEvent struct {
	Title  string   `json:"title"`
	Genres []string `json:"genres"`
}
