package service

import (
	"context"

	"github.com/goccy/go-json"
	"github.com/rs/zerolog/log"

	"github.com/anandsr-dev/movs-n-rec/internal/events"
	"github.com/anandsr-dev/movs-n-rec/internal/model"
)

type genreAudienceStore interface {
	FindByGenres(ctx context.Context, genres []string) ([]model.User, error)
}

// Notifier consumes movie.added events and fans a notification out to
// every user whose favorite genres overlap the new movie's. Delivery is
// at-least-once, so the consumer is idempotent: re-notifying is a
// duplicate log line, not a state change.
type Notifier struct {
	bus   *events.Bus
	users genreAudienceStore
}

func NewNotifier(bus *events.Bus, users genreAudienceStore) *Notifier {
	return &Notifier{bus: bus, users: users}
}

// Start consumes movie.added until the context is cancelled.
func (n *Notifier) Start(ctx context.Context) error {
	messages, err := n.bus.SubscribeMovieAdded(ctx)
	if err != nil {
		return err
	}

	log.Info().Str("topic", events.TopicMovieAdded).Msg("notifier: listening")

	for msg := range messages {
		var event model.MovieAddedEvent
		if err := json.Unmarshal(msg.Payload, &event); err != nil {
			log.Error().Err(err).Str("messageId", msg.UUID).Msg("notifier: bad payload, dropping")
			msg.Ack()
			continue
		}

		n.notify(ctx, event)
		msg.Ack()
	}
	return nil
}

func (n *Notifier) notify(ctx context.Context, event model.MovieAddedEvent) {
	users, err := n.users.FindByGenres(ctx, event.Genres)
	if err != nil {
		log.Error().Err(err).Str("title", event.Title).Msg("notifier: audience lookup failed")
		return
	}

	for _, u := range users {
		// Stand-in for a real mail/push integration.
		log.Info().
			Str("title", event.Title).
			Str("userId", u.ID).
			Str("email", u.Email).
			Msg("notifier: movie added, notification sent")
	}

	log.Info().Str("title", event.Title).Int("notified", len(users)).Msg("notifier: fan-out complete")
}
