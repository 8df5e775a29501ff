package service

import (
	"context"
	"errors"
	"fmt"
	"math"
	"sync"
	"testing"

	"github.com/anandsr-dev/movs-n-rec/internal/model"
)

// fakeReviewStore folds ratings into a running mean under a mutex,
// matching the atomic update contract of the SQL store.
type fakeReviewStore struct {
	mu      sync.Mutex
	avg     float64
	count   int
	reviews []model.Review
	err     error
}

func (f *fakeReviewStore) Submit(_ context.Context, review *model.Review) (*model.Review, float64, int, error) {
	if f.err != nil {
		return nil, 0, 0, f.err
	}
	f.mu.Lock()
	defer f.mu.Unlock()

	f.avg = NextAverage(f.avg, f.count, review.Rating)
	f.count++

	stored := *review
	stored.ID = fmt.Sprintf("review-%d", f.count)
	f.reviews = append(f.reviews, stored)
	return &stored, f.avg, f.count, nil
}

func (f *fakeReviewStore) FindByMovie(_ context.Context, _ string, skip, limit int) ([]model.Review, int, error) {
	if f.err != nil {
		return nil, 0, f.err
	}
	f.mu.Lock()
	defer f.mu.Unlock()

	total := len(f.reviews)
	if skip >= total {
		return nil, total, nil
	}
	end := skip + limit
	if end > total {
		end = total
	}
	return f.reviews[skip:end], total, nil
}

func TestReviewService_Add_Validation(t *testing.T) {
	tests := []struct {
		name string
		req  model.AddReviewRequest
	}{
		{"missing movieId", model.AddReviewRequest{Rating: 3}},
		{"rating below min", model.AddReviewRequest{MovieID: "m1", Rating: 0.5}},
		{"rating above max", model.AddReviewRequest{MovieID: "m1", Rating: 5.5}},
		{"rating NaN", model.AddReviewRequest{MovieID: "m1", Rating: math.NaN()}},
		{"rating zero", model.AddReviewRequest{MovieID: "m1", Rating: 0}},
	}

	svc := NewReviewService(&fakeReviewStore{}, nil, 50)
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := svc.Add(context.Background(), "u1", tt.req)
			if !errors.Is(err, ErrValidation) {
				t.Errorf("expected validation error, got %v", err)
			}
		})
	}
}

func TestReviewService_Add_BoundaryRatingsAccepted(t *testing.T) {
	svc := NewReviewService(&fakeReviewStore{}, nil, 50)

	for _, rating := range []float64{1, 5} {
		resp, err := svc.Add(context.Background(), "u1", model.AddReviewRequest{MovieID: "m1", Rating: rating})
		if err != nil {
			t.Fatalf("rating %v should be accepted: %v", rating, err)
		}
		if resp.Review.Rating != rating {
			t.Errorf("stored rating = %v, want %v", resp.Review.Rating, rating)
		}
	}
}

func TestReviewService_Add_UpdatesRunningMean(t *testing.T) {
	store := &fakeReviewStore{}
	svc := NewReviewService(store, nil, 50)

	ratings := []float64{4, 2, 3}
	wantAvgs := []float64{4, 3, 3}
	for i, r := range ratings {
		resp, err := svc.Add(context.Background(), "u1", model.AddReviewRequest{MovieID: "m1", Rating: r})
		if err != nil {
			t.Fatalf("submit %d failed: %v", i+1, err)
		}
		if math.Abs(resp.AverageRating-wantAvgs[i]) > 1e-9 {
			t.Errorf("after %d reviews: average = %v, want %v", i+1, resp.AverageRating, wantAvgs[i])
		}
		if resp.ReviewCount != i+1 {
			t.Errorf("after %d reviews: count = %d, want %d", i+1, resp.ReviewCount, i+1)
		}
	}
}

func TestReviewService_Add_ConcurrentSubmissionsConverge(t *testing.T) {
	store := &fakeReviewStore{}
	svc := NewReviewService(store, nil, 50)

	const n = 100
	var wg sync.WaitGroup
	wg.Add(n)
	for i := 0; i < n; i++ {
		go func() {
			defer wg.Done()
			_, err := svc.Add(context.Background(), "u1", model.AddReviewRequest{MovieID: "m1", Rating: 5})
			if err != nil {
				t.Errorf("concurrent submit failed: %v", err)
			}
		}()
	}
	wg.Wait()

	if store.count != n {
		t.Errorf("review count = %d, want %d", store.count, n)
	}
	// Every rating was 5, so any lost update would drag the mean down.
	if math.Abs(store.avg-5) > 1e-9 {
		t.Errorf("average = %v, want 5 (lost update?)", store.avg)
	}
}

func TestReviewService_ListByMovie_Pagination(t *testing.T) {
	store := &fakeReviewStore{}
	svc := NewReviewService(store, nil, 2)

	for i := 0; i < 5; i++ {
		if _, err := svc.Add(context.Background(), "u1", model.AddReviewRequest{MovieID: "m1", Rating: 4}); err != nil {
			t.Fatalf("seed review failed: %v", err)
		}
	}

	tests := []struct {
		page        int
		wantLen     int
		wantCurrent int
	}{
		{1, 2, 1},
		{2, 2, 2},
		{3, 1, 3},
		{4, 0, 4},
		{0, 2, 1}, // clamps to first page
	}
	for _, tt := range tests {
		resp, err := svc.ListByMovie(context.Background(), "m1", tt.page)
		if err != nil {
			t.Fatalf("page %d failed: %v", tt.page, err)
		}
		if len(resp.Reviews) != tt.wantLen {
			t.Errorf("page %d: got %d reviews, want %d", tt.page, len(resp.Reviews), tt.wantLen)
		}
		if resp.CurrentPage != tt.wantCurrent {
			t.Errorf("page %d: currentPage = %d, want %d", tt.page, resp.CurrentPage, tt.wantCurrent)
		}
		if resp.TotalPages != 3 {
			t.Errorf("page %d: totalPages = %d, want 3", tt.page, resp.TotalPages)
		}
	}
}

func TestReviewService_ListByMovie_EmptyIsNotNil(t *testing.T) {
	svc := NewReviewService(&fakeReviewStore{}, nil, 50)

	resp, err := svc.ListByMovie(context.Background(), "m1", 1)
	if err != nil {
		t.Fatalf("list failed: %v", err)
	}
	if resp.Reviews == nil {
		t.Error("empty page should be an empty slice, not nil")
	}
}
