package service

import (
	"context"

	"golang.org/x/sync/errgroup"

	"github.com/anandsr-dev/movs-n-rec/internal/model"
)

// profileStore supplies user profiles and the taste-similarity query.
type profileStore interface {
	FindByID(ctx context.Context, userID string) (*model.User, error)
	FindSimilarByGenres(ctx context.Context, userID string, genres []string, skip, limit int) ([]model.User, error)
}

// catalogStore supplies the genre-affinity query.
type catalogStore interface {
	FindByGenres(ctx context.Context, genres []string, minRating float64, skip, limit int) ([]model.Movie, error)
}

// reviewerStore resolves movies behind similar users' qualifying reviews.
type reviewerStore interface {
	FindMoviesByReviewers(ctx context.Context, userIDs []string, minRating float64) ([]model.Movie, error)
}

// RecommendService aggregates the two recommendation strategies.
type RecommendService struct {
	users   profileStore
	movies  catalogStore
	reviews reviewerStore

	minRating float64
	limit     int
}

func NewRecommendService(users profileStore, movies catalogStore, reviews reviewerStore, minRating float64, limit int) *RecommendService {
	return &RecommendService{
		users:     users,
		movies:    movies,
		reviews:   reviews,
		minRating: minRating,
		limit:     limit,
	}
}

// ByGenres returns catalog items tagged with any of the user's favorite
// genres at or above the quality floor. An empty genre list yields an
// empty result without touching the store.
func (s *RecommendService) ByGenres(ctx context.Context, favoriteGenres []string) ([]model.Movie, error) {
	if len(favoriteGenres) == 0 {
		return nil, nil
	}
	return s.movies.FindByGenres(ctx, favoriteGenres, s.minRating, 0, s.limit)
}

// BySimilarUsers finds users sharing genre overlap with the given
// profile, then resolves the movies behind their reviews rated at or
// above the floor. One entry per qualifying review: duplicates across
// reviewers are preserved.
func (s *RecommendService) BySimilarUsers(ctx context.Context, user *model.User) ([]model.Movie, error) {
	similar, err := s.users.FindSimilarByGenres(ctx, user.ID, user.FavoriteGenres, 0, s.limit)
	if err != nil {
		return nil, err
	}
	if len(similar) == 0 {
		return nil, nil
	}

	userIDs := make([]string, len(similar))
	for i, u := range similar {
		userIDs[i] = u.ID
	}
	return s.reviews.FindMoviesByReviewers(ctx, userIDs, s.minRating)
}

// GetRecommendations loads the user profile and runs both strategies
// concurrently. The branches are read-only and independent; either
// branch failing fails the whole request. The two lists are returned
// untouched: no dedup, no merging, no cross-ranking.
func (s *RecommendService) GetRecommendations(ctx context.Context, userID string) (*model.Recommendations, error) {
	user, err := s.users.FindByID(ctx, userID)
	if err != nil {
		return nil, err
	}

	var byGenres, bySimilar []model.Movie

	g, gctx := errgroup.WithContext(ctx)
	g.Go(func() error {
		var err error
		byGenres, err = s.ByGenres(gctx, user.FavoriteGenres)
		return err
	})
	g.Go(func() error {
		var err error
		bySimilar, err = s.BySimilarUsers(gctx, user)
		return err
	})
	if err := g.Wait(); err != nil {
		return nil, err
	}

	if byGenres == nil {
		byGenres = []model.Movie{}
	}
	if bySimilar == nil {
		bySimilar = []model.Movie{}
	}
	return &model.Recommendations{
		ByGenres:       byGenres,
		BySimilarUsers: bySimilar,
	}, nil
}
