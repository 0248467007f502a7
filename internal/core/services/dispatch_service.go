package services

import (
	"context"
	"time"

	"github.com/relaydeck/coordinator/internal/core/ports"
	"github.com/relaydeck/coordinator/internal/domain"
	"github.com/relaydeck/coordinator/internal/infrastructure/logger"
)

// DispatchService is the protocol state machine behind the dispatch endpoint.
// It is the only mutator of the command queue after submission and, together
// with the submission gateway, the only writer of the registry. Malformed
// events are rejected before any store is touched.
type DispatchService struct {
	registry ports.AgentRegistry
	queue    ports.CommandQueue
	timeline ports.TimelineRepository
	events   *EventBroadcaster
	log      *logger.Logger
}

type DispatchServiceConfig struct {
	Registry ports.AgentRegistry
	Queue    ports.CommandQueue
	// Timeline and Events are optional; both are best-effort observability.
	Timeline ports.TimelineRepository
	Events   *EventBroadcaster
	Logger   *logger.Logger
}

func NewDispatchService(cfg DispatchServiceConfig) *DispatchService {
	return &DispatchService{
		registry: cfg.Registry,
		queue:    cfg.Queue,
		timeline: cfg.Timeline,
		events:   cfg.Events,
		log:      cfg.Logger,
	}
}

// Handle processes one inbound dispatch event. The switch is exhaustive over
// domain.EventType; anything else is an invalid event.
func (s *DispatchService) Handle(ctx context.Context, ev domain.DispatchEvent) (*domain.DispatchResult, error) {
	switch ev.Type {
	case domain.EventRegister:
		return s.handleRegister(ctx, ev)
	case domain.EventHeartbeat:
		return s.handleHeartbeat(ctx, ev)
	case domain.EventResult:
		return s.handleResult(ctx, ev)
	default:
		s.log.Warnw("dispatch_unknown_event_type", "type", ev.Type)
		return nil, ErrInvalidEvent
	}
}

func (s *DispatchService) handleRegister(ctx context.Context, ev domain.DispatchEvent) (*domain.DispatchResult, error) {
	if ev.AgentID == "" || ev.Hostname == "" || ev.Platform == "" {
		s.log.Warnw("dispatch_register_missing_fields", "agent_id", ev.AgentID)
		return nil, ErrInvalidEvent
	}

	agent := s.registry.Upsert(domain.Agent{
		ID:       ev.AgentID,
		Hostname: ev.Hostname,
		Platform: ev.Platform,
	})

	s.log.Infow("dispatch_register",
		"agent_id", agent.ID,
		"hostname", agent.Hostname,
		"platform", agent.Platform,
	)

	s.record(ctx, &domain.TimelineEvent{
		Type:    domain.EventTypeAgentRegistered,
		AgentID: agent.ID,
		Detail:  agent.Hostname,
	})
	s.publish(domain.StreamEvent{
		Type:  domain.StreamAgentRegistered,
		Agent: &agent,
	})

	return &domain.DispatchResult{Success: true, Agent: &agent}, nil
}

func (s *DispatchService) handleHeartbeat(ctx context.Context, ev domain.DispatchEvent) (*domain.DispatchResult, error) {
	if ev.AgentID == "" {
		return nil, ErrInvalidEvent
	}

	// Heartbeats from ids the registry has never seen are tolerated: the
	// agent may register a moment later, and commands can be pre-staged.
	if err := s.registry.Touch(ev.AgentID); err != nil {
		s.log.Debugw("dispatch_heartbeat_unknown_agent", "agent_id", ev.AgentID)
	}

	pending := s.queue.PendingFor(ev.AgentID)
	if len(pending) > 0 {
		s.log.Infow("dispatch_heartbeat_delivering",
			"agent_id", ev.AgentID,
			"count", len(pending),
		)
	}

	return &domain.DispatchResult{Success: true, Commands: pending}, nil
}

func (s *DispatchService) handleResult(ctx context.Context, ev domain.DispatchEvent) (*domain.DispatchResult, error) {
	if ev.CommandID == "" || !ev.Status.ValidResult() {
		s.log.Warnw("dispatch_result_invalid", "command_id", ev.CommandID, "status", ev.Status)
		return nil, ErrInvalidEvent
	}

	cmd, applied := s.queue.ApplyResult(ev.CommandID, ev.Status, ev.Output)
	if !applied {
		// Late, duplicate or unknown result. Agents retry delivery, so this
		// must look like success to the caller.
		s.log.Debugw("dispatch_result_noop", "command_id", ev.CommandID)
		return &domain.DispatchResult{Success: true}, nil
	}

	s.log.Infow("dispatch_result_applied",
		"command_id", cmd.ID,
		"agent_id", cmd.AgentID,
		"status", cmd.Status,
	)

	s.record(ctx, &domain.TimelineEvent{
		Type:      domain.EventTypeCommandResolved,
		AgentID:   cmd.AgentID,
		CommandID: cmd.ID,
		Detail:    string(cmd.Status),
	})
	s.publish(domain.StreamEvent{
		Type:    domain.StreamCommandResolved,
		Command: cmd,
	})

	return &domain.DispatchResult{Success: true}, nil
}

func (s *DispatchService) record(ctx context.Context, event *domain.TimelineEvent) {
	if s.timeline == nil {
		return
	}
	if err := s.timeline.Create(ctx, event); err != nil {
		s.log.Errorw("dispatch_timeline_record_failed", "type", event.Type, "error", err)
	}
}

func (s *DispatchService) publish(event domain.StreamEvent) {
	if s.events == nil {
		return
	}
	event.Timestamp = time.Now().UnixMilli()
	s.events.Publish(event)
}
