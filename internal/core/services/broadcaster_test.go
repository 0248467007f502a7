package services

import (
	"context"
	"testing"
	"time"

	"github.com/relaydeck/coordinator/internal/domain"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestBroadcasterFanOut(t *testing.T) {
	b := NewEventBroadcaster()
	ctx := context.Background()

	ch1, _ := b.Subscribe(ctx)
	ch2, _ := b.Subscribe(ctx)

	b.Publish(domain.StreamEvent{Type: domain.StreamCommandSubmitted})

	for _, ch := range []<-chan domain.StreamEvent{ch1, ch2} {
		select {
		case ev := <-ch:
			assert.Equal(t, domain.StreamCommandSubmitted, ev.Type)
		case <-time.After(time.Second):
			t.Fatal("subscriber did not receive event")
		}
	}
}

func TestBroadcasterUnsubscribeClosesChannel(t *testing.T) {
	b := NewEventBroadcaster()

	ch, subID := b.Subscribe(context.Background())
	b.Unsubscribe(subID)

	_, open := <-ch
	assert.False(t, open)

	// Unsubscribing twice is harmless.
	b.Unsubscribe(subID)
}

func TestBroadcasterContextCancelUnsubscribes(t *testing.T) {
	b := NewEventBroadcaster()

	ctx, cancel := context.WithCancel(context.Background())
	ch, _ := b.Subscribe(ctx)
	cancel()

	select {
	case _, open := <-ch:
		assert.False(t, open)
	case <-time.After(time.Second):
		t.Fatal("channel not closed after context cancel")
	}
}

func TestBroadcasterSlowSubscriberDropsEvents(t *testing.T) {
	b := NewEventBroadcaster()

	ch, _ := b.Subscribe(context.Background())

	// Overflow the buffer; Publish must never block.
	done := make(chan struct{})
	go func() {
		for i := 0; i < subscriberBufferSize+10; i++ {
			b.Publish(domain.StreamEvent{Type: domain.StreamCommandSubmitted})
		}
		close(done)
	}()

	select {
	case <-done:
	case <-time.After(2 * time.Second):
		t.Fatal("publish blocked on a slow subscriber")
	}

	require.Len(t, ch, subscriberBufferSize)
}
