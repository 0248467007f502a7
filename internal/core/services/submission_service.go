package services

import (
	"context"
	"time"

	"github.com/relaydeck/coordinator/internal/core/ports"
	"github.com/relaydeck/coordinator/internal/domain"
	"github.com/relaydeck/coordinator/internal/infrastructure/logger"
)

// SubmissionService is the operator-facing gateway for issuing commands.
// It deliberately performs no agent-existence check so commands can be
// pre-staged for an agent expected to connect soon.
type SubmissionService struct {
	queue    ports.CommandQueue
	timeline ports.TimelineRepository
	events   *EventBroadcaster
	log      *logger.Logger
}

type SubmissionServiceConfig struct {
	Queue    ports.CommandQueue
	Timeline ports.TimelineRepository
	Events   *EventBroadcaster
	Logger   *logger.Logger
}

func NewSubmissionService(cfg SubmissionServiceConfig) *SubmissionService {
	return &SubmissionService{
		queue:    cfg.Queue,
		timeline: cfg.Timeline,
		events:   cfg.Events,
		log:      cfg.Logger,
	}
}

// Submit queues a command for an agent and returns the stored command,
// generating an id when commandID is empty.
func (s *SubmissionService) Submit(ctx context.Context, agentID, text, commandID string) (*domain.Command, error) {
	if agentID == "" || text == "" {
		return nil, ErrInvalidSubmission
	}

	cmd := s.queue.Enqueue(domain.Command{
		ID:      commandID,
		AgentID: agentID,
		Text:    text,
	})

	s.log.Infow("command_submitted",
		"command_id", cmd.ID,
		"agent_id", cmd.AgentID,
	)

	if s.timeline != nil {
		event := &domain.TimelineEvent{
			Type:      domain.EventTypeCommandSubmitted,
			AgentID:   cmd.AgentID,
			CommandID: cmd.ID,
		}
		if err := s.timeline.Create(ctx, event); err != nil {
			s.log.Errorw("submit_timeline_record_failed", "command_id", cmd.ID, "error", err)
		}
	}
	if s.events != nil {
		cmdCopy := cmd
		s.events.Publish(domain.StreamEvent{
			Type:      domain.StreamCommandSubmitted,
			Command:   &cmdCopy,
			Timestamp: time.Now().UnixMilli(),
		})
	}

	return &cmd, nil
}
