package service

import (
	"context"

	"github.com/anandsr-dev/movs-n-rec/internal/model"
	"github.com/anandsr-dev/movs-n-rec/internal/repository"
)

const analyticsDefaultLimit = 10

// AnalyticsService serves read-only catalog leaderboards.
type AnalyticsService struct {
	movies *repository.MovieRepo
}

func NewAnalyticsService(movies *repository.MovieRepo) *AnalyticsService {
	return &AnalyticsService{movies: movies}
}

// TopRated returns the highest-rated movies at or above minRating.
func (s *AnalyticsService) TopRated(ctx context.Context, minRating float64, limit int) ([]model.Movie, error) {
	if limit <= 0 {
		limit = analyticsDefaultLimit
	}
	movies, err := s.movies.TopRated(ctx, minRating, limit)
	if err != nil {
		return nil, err
	}
	if movies == nil {
		movies = []model.Movie{}
	}
	return movies, nil
}

// MostRated returns the movies with the most reviews.
func (s *AnalyticsService) MostRated(ctx context.Context, limit int) ([]model.Movie, error) {
	if limit <= 0 {
		limit = analyticsDefaultLimit
	}
	movies, err := s.movies.MostRated(ctx, limit)
	if err != nil {
		return nil, err
	}
	if movies == nil {
		movies = []model.Movie{}
	}
	return movies, nil
}
