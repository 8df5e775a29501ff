package model

import "time"

// Rating bounds enforced at review submission.
const (
	MinRating = 1.0
	MaxRating = 5.0
)

// Review represents a single user's review of a movie. Duplicate
// (user, movie) reviews are permitted; each submission feeds the
// running mean once.
type Review struct {
	ID        string    `json:"reviewId"`
	UserID    string    `json:"userId"`
	MovieID   string    `json:"movieId"`
	Rating    float64   `json:"rating"`
	Comment   string    `json:"comment,omitempty"`
	CreatedAt time.Time `json:"createdAt"`

	// Populated on joined reads.
	Username   string `json:"username,omitempty"`
	MovieTitle string `json:"movieTitle,omitempty"`
}

// AddReviewRequest is the API request body for submitting a review.
type AddReviewRequest struct {
	MovieID string  `json:"movieId"`
	Rating  float64 `json:"rating"`
	Comment string  `json:"comment"`
}

// AddReviewResponse is returned after a successful submission.
type AddReviewResponse struct {
	Review        Review  `json:"review"`
	AverageRating float64 `json:"averageRating"`
	ReviewCount   int     `json:"reviewCount"`
}

// ReviewListResponse is the paginated API response for a movie's reviews.
type ReviewListResponse struct {
	Reviews     []Review `json:"reviews"`
	CurrentPage int      `json:"currentPage"`
	TotalPages  int      `json:"totalPages"`
}
