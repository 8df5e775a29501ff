package service

import (
	"context"
	"fmt"
	"math"

	"github.com/rs/zerolog/log"

	"github.com/anandsr-dev/movs-n-rec/internal/model"
)

// reviewStore is the persistence contract the review service needs.
// Submit must fold the rating into the movie's running mean atomically
// with respect to concurrent submissions for the same movie.
type reviewStore interface {
	Submit(ctx context.Context, review *model.Review) (*model.Review, float64, int, error)
	FindByMovie(ctx context.Context, movieID string, skip, limit int) ([]model.Review, int, error)
}

// ReviewService owns review submission and the rating accumulator path.
type ReviewService struct {
	store     reviewStore
	cache     *CacheService
	pageLimit int
}

func NewReviewService(store reviewStore, cache *CacheService, pageLimit int) *ReviewService {
	return &ReviewService{store: store, cache: cache, pageLimit: pageLimit}
}

// Add records a review and updates the movie's running mean. The rating
// range is an explicit, validated boundary; the store enforces
// atomicity of the (average, count) update.
func (s *ReviewService) Add(ctx context.Context, userID string, req model.AddReviewRequest) (*model.AddReviewResponse, error) {
	if req.MovieID == "" {
		return nil, fmt.Errorf("%w: movieId is required", ErrValidation)
	}
	if !ValidRating(req.Rating) {
		return nil, fmt.Errorf("%w: rating must be between %.0f and %.0f", ErrValidation, model.MinRating, model.MaxRating)
	}

	review := &model.Review{
		UserID:  userID,
		MovieID: req.MovieID,
		Rating:  req.Rating,
		Comment: req.Comment,
	}

	stored, avg, count, err := s.store.Submit(ctx, review)
	if err != nil {
		return nil, err
	}

	// Invalidate so the next movie read sees the fresh rating pair.
	if s.cache != nil {
		if err := s.cache.InvalidateMovie(ctx, req.MovieID); err != nil {
			log.Warn().Err(err).Str("movieId", req.MovieID).Msg("cache: invalidate movie failed")
		}
	}

	return &model.AddReviewResponse{
		Review:        *stored,
		AverageRating: avg,
		ReviewCount:   count,
	}, nil
}

// ListByMovie returns one page of a movie's reviews, newest first.
func (s *ReviewService) ListByMovie(ctx context.Context, movieID string, page int) (*model.ReviewListResponse, error) {
	if page < 1 {
		page = 1
	}
	skip := (page - 1) * s.pageLimit

	reviews, total, err := s.store.FindByMovie(ctx, movieID, skip, s.pageLimit)
	if err != nil {
		return nil, err
	}
	if reviews == nil {
		reviews = []model.Review{}
	}

	return &model.ReviewListResponse{
		Reviews:     reviews,
		CurrentPage: page,
		TotalPages:  int(math.Ceil(float64(total) / float64(s.pageLimit))),
	}, nil
}
