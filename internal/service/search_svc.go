package service

import (
	"context"
	"fmt"
	"sort"
	"strings"
	"time"

	"github.com/goccy/go-json"
	"github.com/redis/go-redis/v9"
	"github.com/rs/zerolog/log"

	"github.com/anandsr-dev/movs-n-rec/internal/model"
)

// searchDoc is the denormalized movie projection kept in the mirror.
type searchDoc struct {
	MovieID       string     `json:"movieId"`
	Title         string     `json:"title"`
	Description   string     `json:"description"`
	Director      string     `json:"director"`
	Genres        []string   `json:"genres"`
	ReleaseDate   *time.Time `json:"releaseDate,omitempty"`
	AverageRating float64    `json:"averageRating"`
}

// SearchFilters narrows a search query.
type SearchFilters struct {
	Genres    []string
	MinRating float64
}

// SearchService maintains a Redis-backed mirror of the catalog for
// text search. The mirror is a side channel: catalog writes notify it
// fire-and-forget, and a periodic reindex heals any drift.
type SearchService struct {
	rdb *redis.Client
}

func NewSearchService(rdb *redis.Client) *SearchService {
	return &SearchService{rdb: rdb}
}

// IndexMovie writes (or overwrites) a movie's document in the mirror.
func (s *SearchService) IndexMovie(ctx context.Context, m *model.Movie) error {
	if s.rdb == nil {
		return nil
	}

	doc := searchDoc{
		MovieID:       m.ID,
		Title:         m.Title,
		Description:   m.Description,
		Director:      m.Director,
		Genres:        m.Genres,
		ReleaseDate:   m.ReleaseDate,
		AverageRating: m.AverageRating,
	}
	b, err := json.Marshal(doc)
	if err != nil {
		return err
	}

	pipe := s.rdb.TxPipeline()
	pipe.Set(ctx, searchDocKey(m.ID), b, 0)
	pipe.SAdd(ctx, searchAllKey, m.ID)
	for _, g := range m.Genres {
		pipe.SAdd(ctx, searchGenreKey(g), m.ID)
	}
	_, err = pipe.Exec(ctx)
	return err
}

// UpdateMovie re-indexes a movie after a catalog update. Genre set
// membership is rebuilt by removing the id everywhere first.
func (s *SearchService) UpdateMovie(ctx context.Context, m *model.Movie) error {
	if s.rdb == nil {
		return nil
	}
	if err := s.removeFromGenreSets(ctx, m.ID); err != nil {
		return err
	}
	return s.IndexMovie(ctx, m)
}

// DeleteMovie removes a movie from the mirror.
func (s *SearchService) DeleteMovie(ctx context.Context, movieID string) error {
	if s.rdb == nil {
		return nil
	}
	if err := s.removeFromGenreSets(ctx, movieID); err != nil {
		return err
	}
	pipe := s.rdb.TxPipeline()
	pipe.Del(ctx, searchDocKey(movieID))
	pipe.SRem(ctx, searchAllKey, movieID)
	_, err := pipe.Exec(ctx)
	return err
}

// Search returns mirror documents whose title or director contains the
// query (case-insensitive), filtered by genres and minimum rating,
// ordered by rating descending. Returns empty when the mirror is
// disabled.
func (s *SearchService) Search(ctx context.Context, query string, filters SearchFilters, page, limit int) ([]model.Movie, error) {
	if s.rdb == nil {
		log.Warn().Msg("search: mirror disabled, returning empty result")
		return []model.Movie{}, nil
	}
	if page < 1 {
		page = 1
	}

	ids, err := s.candidateIDs(ctx, filters.Genres)
	if err != nil {
		return nil, err
	}
	if len(ids) == 0 {
		return []model.Movie{}, nil
	}

	keys := make([]string, len(ids))
	for i, id := range ids {
		keys[i] = searchDocKey(id)
	}
	values, err := s.rdb.MGet(ctx, keys...).Result()
	if err != nil {
		return nil, err
	}

	needle := strings.ToLower(strings.TrimSpace(query))
	var matches []searchDoc
	for _, v := range values {
		raw, ok := v.(string)
		if !ok {
			continue // doc expired or deleted between SMEMBERS and MGET
		}
		var doc searchDoc
		if err := json.Unmarshal([]byte(raw), &doc); err != nil {
			continue
		}
		if doc.AverageRating < filters.MinRating {
			continue
		}
		if needle != "" &&
			!strings.Contains(strings.ToLower(doc.Title), needle) &&
			!strings.Contains(strings.ToLower(doc.Director), needle) {
			continue
		}
		matches = append(matches, doc)
	}

	sort.Slice(matches, func(i, j int) bool {
		if matches[i].AverageRating != matches[j].AverageRating {
			return matches[i].AverageRating > matches[j].AverageRating
		}
		return matches[i].Title < matches[j].Title
	})

	start := (page - 1) * limit
	if start >= len(matches) {
		return []model.Movie{}, nil
	}
	end := start + limit
	if end > len(matches) {
		end = len(matches)
	}

	movies := make([]model.Movie, 0, end-start)
	for _, doc := range matches[start:end] {
		movies = append(movies, model.Movie{
			ID:            doc.MovieID,
			Title:         doc.Title,
			Description:   doc.Description,
			Director:      doc.Director,
			Genres:        doc.Genres,
			ReleaseDate:   doc.ReleaseDate,
			AverageRating: doc.AverageRating,
		})
	}
	return movies, nil
}

// Rebuild replaces the whole mirror with the given catalog snapshot.
// Used by the periodic reindex worker.
func (s *SearchService) Rebuild(ctx context.Context, movies []model.Movie) error {
	if s.rdb == nil {
		return nil
	}

	existing, err := s.rdb.SMembers(ctx, searchAllKey).Result()
	if err != nil {
		return err
	}
	for _, id := range existing {
		if err := s.DeleteMovie(ctx, id); err != nil {
			return err
		}
	}

	for i := range movies {
		if err := s.IndexMovie(ctx, &movies[i]); err != nil {
			return err
		}
	}
	return nil
}

func (s *SearchService) candidateIDs(ctx context.Context, genres []string) ([]string, error) {
	if len(genres) == 0 {
		return s.rdb.SMembers(ctx, searchAllKey).Result()
	}
	keys := make([]string, len(genres))
	for i, g := range genres {
		keys[i] = searchGenreKey(g)
	}
	return s.rdb.SUnion(ctx, keys...).Result()
}

func (s *SearchService) removeFromGenreSets(ctx context.Context, movieID string) error {
	iter := s.rdb.Scan(ctx, 0, searchGenrePattern, 100).Iterator()
	for iter.Next(ctx) {
		if err := s.rdb.SRem(ctx, iter.Val(), movieID).Err(); err != nil {
			return err
		}
	}
	return iter.Err()
}

const (
	searchAllKey       = "search:movies"
	searchGenrePattern = "search:genre:*"
)

func searchDocKey(movieID string) string {
	return fmt.Sprintf("search:movie:%s", movieID)
}

func searchGenreKey(genre string) string {
	return fmt.Sprintf("search:genre:%s", strings.ToLower(genre))
}
