package realtime

import (
	"context"
	"encoding/json"

	"github.com/atinomeri/freela-sub000/internal/logger"

	"github.com/redis/go-redis/v9"
)

// Sink receives decoded events; the websocket hub implements it.
type Sink interface {
	SendToUsers(userIDs []string, payload any)
}

// Subscriber bridges the Redis channel to in-process delivery. Every
// instance of the backend runs one, so an event published by any
// instance reaches clients connected to all of them.
type Subscriber struct {
	rdb  *redis.Client
	sink Sink
}

func NewSubscriber(rdb *redis.Client, sink Sink) *Subscriber {
	return &Subscriber{rdb: rdb, sink: sink}
}

// Run blocks consuming the channel until ctx is cancelled. Malformed
// payloads are logged and skipped.
func (s *Subscriber) Run(ctx context.Context) {
	sub := s.rdb.Subscribe(ctx, Channel)
	defer sub.Close()

	ch := sub.Channel()
	for {
		select {
		case <-ctx.Done():
			return
		case msg, ok := <-ch:
			if !ok {
				return
			}
			var event Event
			if err := json.Unmarshal([]byte(msg.Payload), &event); err != nil {
				logger.Warn("dropping malformed realtime event", "error", err)
				continue
			}
			s.sink.SendToUsers(event.ToUserIDs, event)
		}
	}
}
