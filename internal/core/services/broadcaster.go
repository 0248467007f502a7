package services

import (
	"context"
	"sync"

	"github.com/google/uuid"
	"github.com/relaydeck/coordinator/internal/domain"
)

// subscriberBufferSize is the channel buffer per websocket subscriber.
const subscriberBufferSize = 64

// EventBroadcaster fans dispatch lifecycle events out to live subscribers
// (the websocket feed). Publishing never blocks: events are dropped for
// subscribers whose buffers are full. Losing a stream event has no effect on
// dispatch state.
type EventBroadcaster struct {
	mu          sync.RWMutex
	subscribers map[string]chan domain.StreamEvent
}

func NewEventBroadcaster() *EventBroadcaster {
	return &EventBroadcaster{
		subscribers: make(map[string]chan domain.StreamEvent),
	}
}

// Subscribe registers a subscriber and returns its event channel and id.
// The subscription is removed and the channel closed when ctx is cancelled.
func (b *EventBroadcaster) Subscribe(ctx context.Context) (<-chan domain.StreamEvent, string) {
	subID := uuid.New().String()
	ch := make(chan domain.StreamEvent, subscriberBufferSize)

	b.mu.Lock()
	b.subscribers[subID] = ch
	b.mu.Unlock()

	go func() {
		<-ctx.Done()
		b.Unsubscribe(subID)
	}()

	return ch, subID
}

// Publish sends an event to every subscriber, dropping it for slow ones.
func (b *EventBroadcaster) Publish(event domain.StreamEvent) {
	b.mu.RLock()
	targets := make([]chan domain.StreamEvent, 0, len(b.subscribers))
	for _, ch := range b.subscribers {
		targets = append(targets, ch)
	}
	b.mu.RUnlock()

	for _, ch := range targets {
		select {
		case ch <- event:
		default:
		}
	}
}

// Unsubscribe removes a subscription and closes its channel.
func (b *EventBroadcaster) Unsubscribe(subID string) {
	b.mu.Lock()
	defer b.mu.Unlock()

	ch, ok := b.subscribers[subID]
	if !ok {
		return
	}
	delete(b.subscribers, subID)
	close(ch)
}
