package dto

import (
	"time"

	"github.com/relaydeck/coordinator/internal/domain"
)

type SubmitCommandRequest struct {
	AgentID   string `json:"agentId"`
	Command   string `json:"command"`
	CommandID string `json:"commandId,omitempty"`
}

func (r *SubmitCommandRequest) Validate() []string {
	var errors []string
	if r.AgentID == "" {
		errors = append(errors, "agentId is required")
	}
	if r.Command == "" {
		errors = append(errors, "command is required")
	}
	return errors
}

type AgentResponse struct {
	ID           string    `json:"id"`
	Hostname     string    `json:"hostname"`
	Platform     string    `json:"platform"`
	Connected    bool      `json:"connected"`
	LastSeenAt   time.Time `json:"lastSeenAt"`
	RegisteredAt time.Time `json:"registeredAt"`
}

func AgentToResponse(agent *domain.Agent, connected bool) AgentResponse {
	return AgentResponse{
		ID:           agent.ID,
		Hostname:     agent.Hostname,
		Platform:     agent.Platform,
		Connected:    connected,
		LastSeenAt:   agent.LastSeenAt,
		RegisteredAt: agent.RegisteredAt,
	}
}

type ErrorResponse struct {
	Error   string   `json:"error"`
	Details []string `json:"details,omitempty"`
}
