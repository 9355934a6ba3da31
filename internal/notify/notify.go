// Package notify is the process-wide feedback channel: any component can
// raise a transient user-visible notification without prop threading. It is
// an injectable service created once at startup, backed by an in-process
// watermill pub/sub topic.
package notify

import (
	"context"
	"encoding/json"
	"sync/atomic"
	"time"

	"github.com/ThreeDotsLabs/watermill"
	"github.com/ThreeDotsLabs/watermill/message"
	"github.com/ThreeDotsLabs/watermill/pubsub/gochannel"
	"go.uber.org/zap"
)

const topic = "notifications"

// DisplayDuration is how long a single notification stays on screen. Each
// notification runs its own timer; removal of one never affects another.
const DisplayDuration = 3500 * time.Millisecond

// Notification is one transient toast. IDs are monotonic for the lifetime
// of the process.
type Notification struct {
	ID          int64  `json:"id"`
	Title       string `json:"title"`
	Description string `json:"description,omitempty"`
}

// Service fans notifications out to every subscriber. No persistence; state
// resets on restart.
type Service struct {
	bus    *gochannel.GoChannel
	nextID atomic.Int64
	log    *zap.Logger
}

func NewService(log *zap.Logger) *Service {
	if log == nil {
		log = zap.NewNop()
	}
	return &Service{
		// Publishing blocks until the subscriber acks, which keeps rapid
		// sequential notifications in publish order. The subscriber acks
		// before handing off to its buffered channel, so the block is brief.
		bus: gochannel.NewGoChannel(gochannel.Config{
			OutputChannelBuffer:            64,
			BlockPublishUntilSubscriberAck: true,
		}, watermill.NopLogger{}),
		log: log,
	}
}

// Notify publishes a notification. Safe for rapid repeated calls; ordering
// is publish order.
func (s *Service) Notify(title, description string) {
	n := Notification{
		ID:          s.nextID.Add(1),
		Title:       title,
		Description: description,
	}
	payload, err := json.Marshal(n)
	if err != nil {
		s.log.Error("marshal notification", zap.Error(err))
		return
	}
	if err := s.bus.Publish(topic, message.NewMessage(watermill.NewUUID(), payload)); err != nil {
		s.log.Error("publish notification", zap.Error(err))
	}
}

// Subscribe returns a channel of notifications, closed when ctx is done or
// the service shuts down.
func (s *Service) Subscribe(ctx context.Context) (<-chan Notification, error) {
	msgs, err := s.bus.Subscribe(ctx, topic)
	if err != nil {
		return nil, err
	}
	out := make(chan Notification, 64)
	go func() {
		defer close(out)
		for msg := range msgs {
			var n Notification
			if err := json.Unmarshal(msg.Payload, &n); err != nil {
				s.log.Error("decode notification", zap.Error(err))
				msg.Ack()
				continue
			}
			msg.Ack()
			select {
			case out <- n:
			case <-ctx.Done():
				return
			}
		}
	}()
	return out, nil
}

func (s *Service) Close() error {
	return s.bus.Close()
}
