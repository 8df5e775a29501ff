package service

import (
	"context"
	"fmt"
	"math"
	"time"

	"github.com/rs/zerolog/log"

	"github.com/anandsr-dev/movs-n-rec/internal/events"
	"github.com/anandsr-dev/movs-n-rec/internal/model"
	"github.com/anandsr-dev/movs-n-rec/internal/repository"
	"github.com/anandsr-dev/movs-n-rec/internal/tmdb"
)

// MovieService owns catalog reads and writes. Every write mirrors to
// the search index fire-and-forget, and creation publishes a
// movie.added event for the notification fan-out.
type MovieService struct {
	repo      *repository.MovieRepo
	cache     *CacheService
	search    *SearchService
	bus       *events.Bus
	tmdb      tmdb.Client
	pageLimit int
}

func NewMovieService(repo *repository.MovieRepo, cache *CacheService, search *SearchService, bus *events.Bus, tmdbClient tmdb.Client, pageLimit int) *MovieService {
	return &MovieService{
		repo:      repo,
		cache:     cache,
		search:    search,
		bus:       bus,
		tmdb:      tmdbClient,
		pageLimit: pageLimit,
	}
}

// Create adds a movie from a direct payload.
func (s *MovieService) Create(ctx context.Context, req model.CreateMovieRequest) (*model.Movie, error) {
	if req.Title == "" {
		return nil, fmt.Errorf("%w: title is required", ErrValidation)
	}
	if len(req.Genres) == 0 {
		return nil, fmt.Errorf("%w: at least one genre is required", ErrValidation)
	}

	movie := &model.Movie{
		Title:       req.Title,
		Language:    req.Language,
		Genres:      req.Genres,
		Director:    req.Director,
		Cast:        req.Cast,
		Description: req.Description,
	}
	if req.ReleaseDate != "" {
		t, err := parseDate(req.ReleaseDate)
		if err != nil {
			return nil, fmt.Errorf("%w: releaseDate must be YYYY-MM-DD", ErrValidation)
		}
		movie.ReleaseDate = t
	}

	return s.store(ctx, movie)
}

// ImportFromTMDB fetches movie details from TMDB and adds them to the
// catalog.
func (s *MovieService) ImportFromTMDB(ctx context.Context, tmdbID int64) (*model.Movie, error) {
	if s.tmdb == nil {
		return nil, fmt.Errorf("%w: TMDB import is not configured", ErrValidation)
	}

	fetched, err := s.tmdb.FetchMovie(ctx, tmdbID)
	if err != nil {
		return nil, err
	}

	movie := &model.Movie{
		TmdbID:      &fetched.ID,
		Title:       fetched.Title,
		Language:    fetched.Language,
		Genres:      fetched.Genres,
		ReleaseDate: fetched.ReleaseDate,
		Director:    fetched.Director,
		Cast:        fetched.Cast,
		Description: fetched.Description,
	}
	return s.store(ctx, movie)
}

func (s *MovieService) store(ctx context.Context, movie *model.Movie) (*model.Movie, error) {
	created, err := s.repo.Create(ctx, movie)
	if err != nil {
		return nil, err
	}

	// Mirror and event are side channels: failures are logged, not
	// surfaced, because the catalog write has already committed.
	if err := s.search.IndexMovie(ctx, created); err != nil {
		log.Warn().Err(err).Str("movieId", created.ID).Msg("search: index movie failed")
	}
	if s.bus != nil {
		err := s.bus.PublishMovieAdded(model.MovieAddedEvent{
			Title:  created.Title,
			Genres: created.Genres,
		})
		if err != nil {
			log.Warn().Err(err).Str("movieId", created.ID).Msg("events: publish movie.added failed")
		}
	}
	return created, nil
}

func parseDate(s string) (*time.Time, error) {
	t, err := time.Parse("2006-01-02", s)
	if err != nil {
		return nil, err
	}
	return &t, nil
}

// Get returns a movie by id, cache-aside. The cached form is the raw
// JSON response body.
func (s *MovieService) Get(ctx context.Context, movieID string) (*model.Movie, []byte, error) {
	if s.cache != nil {
		cached, err := s.cache.GetMovie(ctx, movieID)
		if err != nil {
			log.Warn().Err(err).Str("movieId", movieID).Msg("cache: get movie failed")
		} else if cached != nil {
			return nil, cached, nil
		}
	}

	movie, err := s.repo.FindByID(ctx, movieID)
	if err != nil {
		return nil, nil, err
	}

	if s.cache != nil {
		if err := s.cache.SetMovie(ctx, movieID, movie); err != nil {
			log.Warn().Err(err).Str("movieId", movieID).Msg("cache: set movie failed")
		}
	}
	return movie, nil, nil
}

// List returns one page of the catalog.
func (s *MovieService) List(ctx context.Context, page int) (*model.MovieListResponse, error) {
	if page < 1 {
		page = 1
	}
	skip := (page - 1) * s.pageLimit

	movies, total, err := s.repo.List(ctx, skip, s.pageLimit)
	if err != nil {
		return nil, err
	}
	if movies == nil {
		movies = []model.Movie{}
	}

	return &model.MovieListResponse{
		Movies:      movies,
		Total:       total,
		CurrentPage: page,
		TotalPages:  int(math.Ceil(float64(total) / float64(s.pageLimit))),
	}, nil
}

// Update applies a partial catalog update, then refreshes cache and
// mirror.
func (s *MovieService) Update(ctx context.Context, movieID string, req model.UpdateMovieRequest) (*model.Movie, error) {
	updated, err := s.repo.Update(ctx, movieID, req)
	if err != nil {
		return nil, err
	}

	if s.cache != nil {
		if err := s.cache.InvalidateMovie(ctx, movieID); err != nil {
			log.Warn().Err(err).Str("movieId", movieID).Msg("cache: invalidate movie failed")
		}
	}
	if err := s.search.UpdateMovie(ctx, updated); err != nil {
		log.Warn().Err(err).Str("movieId", movieID).Msg("search: update movie failed")
	}
	return updated, nil
}

// Delete removes a movie, its reviews, its cache entry and its mirror
// document.
func (s *MovieService) Delete(ctx context.Context, movieID string) error {
	if err := s.repo.Delete(ctx, movieID); err != nil {
		return err
	}

	if s.cache != nil {
		if err := s.cache.InvalidateMovie(ctx, movieID); err != nil {
			log.Warn().Err(err).Str("movieId", movieID).Msg("cache: invalidate movie failed")
		}
	}
	if err := s.search.DeleteMovie(ctx, movieID); err != nil {
		log.Warn().Err(err).Str("movieId", movieID).Msg("search: delete movie failed")
	}
	return nil
}
