package domain

import "time"

// Timeline event types
const (
	EventTypeAgentRegistered  = "AGENT_REGISTERED"
	EventTypeCommandSubmitted = "COMMAND_SUBMITTED"
	EventTypeCommandResolved  = "COMMAND_RESOLVED"
)

// TimelineEvent is an audit record of a dispatch lifecycle transition. The
// timeline is observability only; losing it never affects dispatch.
type TimelineEvent struct {
	ID        uint      `gorm:"primaryKey" json:"id"`
	Type      string    `gorm:"index" json:"type"`
	AgentID   string    `gorm:"index" json:"agentId,omitempty"`
	CommandID string    `json:"commandId,omitempty"`
	Detail    string    `json:"detail,omitempty"`
	CreatedAt time.Time `json:"createdAt"`
}
