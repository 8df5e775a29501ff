package events

import (
	"context"

	"github.com/ThreeDotsLabs/watermill"
	"github.com/ThreeDotsLabs/watermill/message"
	"github.com/ThreeDotsLabs/watermill/pubsub/gochannel"
	"github.com/goccy/go-json"

	"github.com/anandsr-dev/movs-n-rec/internal/model"
)

// TopicMovieAdded carries model.MovieAddedEvent payloads. Delivery is
// at-least-once within the process; consumers must be idempotent.
const TopicMovieAdded = "movie.added"

// Bus is the in-process pub/sub channel for outbound domain events.
type Bus struct {
	pubsub *gochannel.GoChannel
}

func NewBus(logger watermill.LoggerAdapter) *Bus {
	if logger == nil {
		logger = watermill.NewStdLogger(false, false)
	}
	return &Bus{
		pubsub: gochannel.NewGoChannel(gochannel.Config{
			OutputChannelBuffer: 64,
		}, logger),
	}
}

// PublishMovieAdded emits a movie.added event. Errors are the caller's
// to log; the catalog write has already committed by the time this runs.
func (b *Bus) PublishMovieAdded(event model.MovieAddedEvent) error {
	payload, err := json.Marshal(event)
	if err != nil {
		return err
	}
	msg := message.NewMessage(watermill.NewUUID(), payload)
	return b.pubsub.Publish(TopicMovieAdded, msg)
}

// SubscribeMovieAdded returns the subscriber channel for movie.added.
func (b *Bus) SubscribeMovieAdded(ctx context.Context) (<-chan *message.Message, error) {
	return b.pubsub.Subscribe(ctx, TopicMovieAdded)
}

// Close shuts the bus down and closes all subscriber channels.
func (b *Bus) Close() error {
	return b.pubsub.Close()
}
