package service

import (
	"context"
	"errors"
	"testing"

	"github.com/anandsr-dev/movs-n-rec/internal/model"
)

func TestMovieService_Create_Validation(t *testing.T) {
	svc := NewMovieService(nil, nil, NewSearchService(nil), nil, nil, 50)

	tests := []struct {
		name string
		req  model.CreateMovieRequest
	}{
		{"missing title", model.CreateMovieRequest{Genres: []string{"Action"}}},
		{"missing genres", model.CreateMovieRequest{Title: "Heat"}},
		{"bad release date", model.CreateMovieRequest{Title: "Heat", Genres: []string{"Action"}, ReleaseDate: "12/15/1995"}},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := svc.Create(context.Background(), tt.req)
			if !errors.Is(err, ErrValidation) {
				t.Errorf("expected validation error, got %v", err)
			}
		})
	}
}

func TestMovieService_ImportFromTMDB_Unconfigured(t *testing.T) {
	svc := NewMovieService(nil, nil, NewSearchService(nil), nil, nil, 50)

	_, err := svc.ImportFromTMDB(context.Background(), 550)
	if !errors.Is(err, ErrValidation) {
		t.Errorf("expected validation error when TMDB is not configured, got %v", err)
	}
}

func TestSearchService_DisabledMirror(t *testing.T) {
	svc := NewSearchService(nil)

	movies, err := svc.Search(context.Background(), "heat", SearchFilters{}, 1, 20)
	if err != nil {
		t.Fatalf("disabled mirror should not error: %v", err)
	}
	if movies == nil || len(movies) != 0 {
		t.Errorf("disabled mirror should return an empty slice, got %v", movies)
	}

	// Writes against a disabled mirror are no-ops.
	if err := svc.IndexMovie(context.Background(), &model.Movie{ID: "m1"}); err != nil {
		t.Errorf("IndexMovie on disabled mirror: %v", err)
	}
	if err := svc.DeleteMovie(context.Background(), "m1"); err != nil {
		t.Errorf("DeleteMovie on disabled mirror: %v", err)
	}
}
