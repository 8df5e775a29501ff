package service

import (
	"context"
	"time"

	"github.com/rs/zerolog/log"

	"github.com/anandsr-dev/movs-n-rec/internal/model"
)

type catalogSnapshotter interface {
	All(ctx context.Context) ([]model.Movie, error)
}

// ReindexWorker periodically rebuilds the search mirror from the
// catalog. Catalog writes already mirror themselves fire-and-forget;
// this worker heals drift from missed notifications.
type ReindexWorker struct {
	movies   catalogSnapshotter
	search   *SearchService
	interval time.Duration

	// observe, when set, receives the duration of each successful
	// rebuild in seconds.
	observe func(seconds float64)
}

func NewReindexWorker(movies catalogSnapshotter, search *SearchService, interval time.Duration) *ReindexWorker {
	return &ReindexWorker{movies: movies, search: search, interval: interval}
}

// OnRebuild registers a callback receiving rebuild durations, used to
// feed the reindex histogram.
func (w *ReindexWorker) OnRebuild(fn func(seconds float64)) {
	w.observe = fn
}

// Start runs one rebuild immediately, then one per interval until the
// context is cancelled.
func (w *ReindexWorker) Start(ctx context.Context) {
	log.Info().Dur("interval", w.interval).Msg("reindex-worker: starting")

	w.tick(ctx)

	ticker := time.NewTicker(w.interval)
	defer ticker.Stop()

	for {
		select {
		case <-ticker.C:
			w.tick(ctx)
		case <-ctx.Done():
			log.Info().Msg("reindex-worker: stopping (context cancelled)")
			return
		}
	}
}

func (w *ReindexWorker) tick(ctx context.Context) {
	start := time.Now()

	movies, err := w.movies.All(ctx)
	if err != nil {
		log.Error().Err(err).Msg("reindex-worker: catalog snapshot failed")
		return
	}
	if err := w.search.Rebuild(ctx, movies); err != nil {
		log.Error().Err(err).Msg("reindex-worker: rebuild failed")
		return
	}

	took := time.Since(start)
	if w.observe != nil {
		w.observe(took.Seconds())
	}
	log.Info().Int("movies", len(movies)).Dur("took", took).Msg("reindex-worker: mirror rebuilt")
}
