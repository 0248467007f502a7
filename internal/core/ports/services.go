package ports

import (
	"context"

	"github.com/relaydeck/coordinator/internal/domain"
)

// AgentRegistry holds the set of known agents and their liveness timestamps.
// All methods are safe for concurrent use and return copies.
type AgentRegistry interface {
	Upsert(agent domain.Agent) domain.Agent
	Touch(id string) error
	Get(id string) (*domain.Agent, error)
	List(activeOnly bool) []domain.Agent
	Connected(agent *domain.Agent) bool
}

// CommandQueue holds every issued command, its target agent, lifecycle
// status and output. Commands are never deleted.
type CommandQueue interface {
	Enqueue(cmd domain.Command) domain.Command
	PendingFor(agentID string) []domain.Command
	ApplyResult(commandID string, status domain.CommandStatus, output string) (*domain.Command, bool)
	Get(id string) (*domain.Command, error)
	ListRecent(limit int) []domain.Command
}

// DispatchService is the protocol state machine binding registry and queue.
type DispatchService interface {
	Handle(ctx context.Context, ev domain.DispatchEvent) (*domain.DispatchResult, error)
}

// SubmissionService accepts operator commands and queues them as pending.
type SubmissionService interface {
	Submit(ctx context.Context, agentID, text, commandID string) (*domain.Command, error)
}
