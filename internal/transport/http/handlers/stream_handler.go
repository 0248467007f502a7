package handlers

import (
	"context"

	"github.com/gofiber/contrib/websocket"
	"github.com/relaydeck/coordinator/internal/core/services"
	"github.com/relaydeck/coordinator/internal/infrastructure/logger"
)

type StreamHandler struct {
	events *services.EventBroadcaster
	logger *logger.Logger
}

func NewStreamHandler(events *services.EventBroadcaster, logger *logger.Logger) *StreamHandler {
	return &StreamHandler{events: events, logger: logger}
}

// Handle serves the /ws/events websocket, pushing dispatch lifecycle events
// to the client until it disconnects. The feed is advisory; slow clients
// lose events rather than backpressuring dispatch.
func (h *StreamHandler) Handle(c *websocket.Conn) {
	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	ch, subID := h.events.Subscribe(ctx)
	h.logger.Infow("stream_subscriber_connected", "sub_id", subID)

	// Drain the read side so close frames are processed.
	go func() {
		for {
			if _, _, err := c.ReadMessage(); err != nil {
				cancel()
				return
			}
		}
	}()

	for event := range ch {
		if err := c.WriteJSON(event); err != nil {
			break
		}
	}

	h.logger.Infow("stream_subscriber_disconnected", "sub_id", subID)
	c.Close()
}
