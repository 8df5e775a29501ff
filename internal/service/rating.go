package service

import (
	"math"

	"github.com/anandsr-dev/movs-n-rec/internal/model"
)

// NextAverage folds one more rating into a running mean:
//
//	next = (avg*count + rating) / (count + 1)
//
// This mirrors the atomic SQL expression the review store executes, so
// the update rule can be unit-tested without a database. The mean is
// forward-only: no rating history is kept, so a removed or edited
// review cannot be reconciled without replaying every rating.
func NextAverage(avg float64, count int, rating float64) float64 {
	return (avg*float64(count) + rating) / (float64(count) + 1)
}

// ValidRating reports whether r is a finite rating within the accepted
// 1–5 range.
func ValidRating(r float64) bool {
	if math.IsNaN(r) || math.IsInf(r, 0) {
		return false
	}
	return r >= model.MinRating && r <= model.MaxRating
}

// GenreOverlap returns the genres present in both lists, preserving the
// order of a. Duplicate labels in a contribute once.
func GenreOverlap(a, b []string) []string {
	if len(a) == 0 || len(b) == 0 {
		return nil
	}

	in := make(map[string]bool, len(b))
	for _, g := range b {
		in[g] = true
	}

	var overlap []string
	seen := make(map[string]bool, len(a))
	for _, g := range a {
		if in[g] && !seen[g] {
			overlap = append(overlap, g)
			seen[g] = true
		}
	}
	return overlap
}
