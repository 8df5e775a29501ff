package service

import (
	"context"
	"errors"
	"testing"

	"github.com/anandsr-dev/movs-n-rec/internal/model"
	"github.com/anandsr-dev/movs-n-rec/internal/repository"
)

type fakeProfileStore struct {
	users   map[string]*model.User
	similar []model.User
	err     error
}

func (f *fakeProfileStore) FindByID(_ context.Context, userID string) (*model.User, error) {
	if f.err != nil {
		return nil, f.err
	}
	u, ok := f.users[userID]
	if !ok {
		return nil, repository.ErrNotFound
	}
	return u, nil
}

func (f *fakeProfileStore) FindSimilarByGenres(_ context.Context, userID string, genres []string, _, _ int) ([]model.User, error) {
	if f.err != nil {
		return nil, f.err
	}
	if len(genres) == 0 {
		return nil, nil
	}
	// Self-exclusion mirrors the SQL predicate.
	var out []model.User
	for _, u := range f.similar {
		if u.ID == userID {
			continue
		}
		if len(GenreOverlap(u.FavoriteGenres, genres)) > 0 {
			out = append(out, u)
		}
	}
	return out, nil
}

type fakeCatalogStore struct {
	movies []model.Movie
	err    error
}

func (f *fakeCatalogStore) FindByGenres(_ context.Context, genres []string, minRating float64, _, _ int) ([]model.Movie, error) {
	if f.err != nil {
		return nil, f.err
	}
	var out []model.Movie
	for _, m := range f.movies {
		if m.AverageRating < minRating {
			continue
		}
		if len(GenreOverlap(m.Genres, genres)) > 0 {
			out = append(out, m)
		}
	}
	return out, nil
}

type fakeReviewerStore struct {
	// byReviewer maps a user id to the movies behind their qualifying
	// reviews. One entry per review; duplicates across users stay.
	byReviewer map[string][]model.Movie
	err        error
}

func (f *fakeReviewerStore) FindMoviesByReviewers(_ context.Context, userIDs []string, _ float64) ([]model.Movie, error) {
	if f.err != nil {
		return nil, f.err
	}
	var out []model.Movie
	for _, id := range userIDs {
		out = append(out, f.byReviewer[id]...)
	}
	return out, nil
}

func newRecommendFixture() (*fakeProfileStore, *fakeCatalogStore, *fakeReviewerStore, *RecommendService) {
	users := &fakeProfileStore{
		users: map[string]*model.User{
			"alice": {ID: "alice", Username: "alice", FavoriteGenres: []string{"Action", "Drama"}},
			"noone": {ID: "noone", Username: "noone", FavoriteGenres: []string{}},
		},
		similar: []model.User{
			{ID: "alice", Username: "alice", FavoriteGenres: []string{"Action", "Drama"}},
			{ID: "bob", Username: "bob", FavoriteGenres: []string{"Action"}},
			{ID: "carol", Username: "carol", FavoriteGenres: []string{"Drama", "Horror"}},
			{ID: "dave", Username: "dave", FavoriteGenres: []string{"Romance"}},
		},
	}
	movies := &fakeCatalogStore{
		movies: []model.Movie{
			{ID: "m1", Title: "Heat", Genres: []string{"Action"}, AverageRating: 4.5},
			{ID: "m2", Title: "Low Tide", Genres: []string{"Action"}, AverageRating: 2.0},
			{ID: "m3", Title: "Garden", Genres: []string{"Romance"}, AverageRating: 4.8},
		},
	}
	reviews := &fakeReviewerStore{
		byReviewer: map[string][]model.Movie{
			"bob":   {{ID: "m1", Title: "Heat"}, {ID: "m4", Title: "Vertex"}},
			"carol": {{ID: "m1", Title: "Heat"}},
		},
	}
	svc := NewRecommendService(users, movies, reviews, 3, 50)
	return users, movies, reviews, svc
}

func TestRecommendService_ByGenres_FiltersByOverlapAndFloor(t *testing.T) {
	_, _, _, svc := newRecommendFixture()

	got, err := svc.ByGenres(context.Background(), []string{"Action", "Drama"})
	if err != nil {
		t.Fatalf("ByGenres failed: %v", err)
	}
	if len(got) != 1 || got[0].ID != "m1" {
		t.Errorf("got %v, want only m1 (m2 below floor, m3 wrong genre)", got)
	}
}

func TestRecommendService_ByGenres_EmptyProfileSkipsStore(t *testing.T) {
	_, movies, _, svc := newRecommendFixture()
	movies.err = errors.New("store must not be called")

	got, err := svc.ByGenres(context.Background(), nil)
	if err != nil {
		t.Fatalf("ByGenres failed: %v", err)
	}
	if len(got) != 0 {
		t.Errorf("empty genre list should yield no recommendations, got %v", got)
	}
}

func TestRecommendService_BySimilarUsers_PreservesDuplicates(t *testing.T) {
	users, _, _, svc := newRecommendFixture()

	got, err := svc.BySimilarUsers(context.Background(), users.users["alice"])
	if err != nil {
		t.Fatalf("BySimilarUsers failed: %v", err)
	}

	// bob and carol overlap with alice; both reviewed m1, so it appears
	// twice. dave has no overlap and contributes nothing.
	counts := make(map[string]int)
	for _, m := range got {
		counts[m.ID]++
	}
	if counts["m1"] != 2 {
		t.Errorf("m1 appeared %d times, want 2 (duplicates preserved)", counts["m1"])
	}
	if counts["m4"] != 1 {
		t.Errorf("m4 appeared %d times, want 1", counts["m4"])
	}
}

func TestRecommendService_GetRecommendations(t *testing.T) {
	_, _, _, svc := newRecommendFixture()

	recs, err := svc.GetRecommendations(context.Background(), "alice")
	if err != nil {
		t.Fatalf("GetRecommendations failed: %v", err)
	}

	if len(recs.ByGenres) != 1 || recs.ByGenres[0].ID != "m1" {
		t.Errorf("byGenres = %v, want [m1]", recs.ByGenres)
	}
	if len(recs.BySimilarUsers) != 3 {
		t.Errorf("bySimilarUsers has %d entries, want 3 (m1 x2, m4)", len(recs.BySimilarUsers))
	}
}

func TestRecommendService_GetRecommendations_EmptyProfile(t *testing.T) {
	_, _, _, svc := newRecommendFixture()

	recs, err := svc.GetRecommendations(context.Background(), "noone")
	if err != nil {
		t.Fatalf("GetRecommendations failed: %v", err)
	}
	if recs.ByGenres == nil || recs.BySimilarUsers == nil {
		t.Fatal("empty branches should be empty slices, not nil")
	}
	if len(recs.ByGenres) != 0 || len(recs.BySimilarUsers) != 0 {
		t.Errorf("user without favorite genres should get empty lists, got %+v", recs)
	}
}

func TestRecommendService_GetRecommendations_UnknownUser(t *testing.T) {
	_, _, _, svc := newRecommendFixture()

	_, err := svc.GetRecommendations(context.Background(), "ghost")
	if !errors.Is(err, repository.ErrNotFound) {
		t.Errorf("expected ErrNotFound for unknown user, got %v", err)
	}
}

func TestRecommendService_GetRecommendations_BranchFailureFailsRequest(t *testing.T) {
	_, movies, _, svc := newRecommendFixture()
	movies.err = errors.New("catalog down")

	_, err := svc.GetRecommendations(context.Background(), "alice")
	if err == nil {
		t.Fatal("expected error when one branch fails")
	}
}
