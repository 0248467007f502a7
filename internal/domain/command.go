package domain

import "time"

// CommandStatus represents the lifecycle state of a command.
type CommandStatus string

const (
	CommandStatusPending CommandStatus = "pending"
	CommandStatusSuccess CommandStatus = "success"
	CommandStatusError   CommandStatus = "error"
)

// Terminal reports whether the status admits no further transitions.
func (s CommandStatus) Terminal() bool {
	return s == CommandStatusSuccess || s == CommandStatusError
}

// ValidResult reports whether the status is acceptable in a result event.
func (s CommandStatus) ValidResult() bool {
	return s == CommandStatusSuccess || s == CommandStatusError
}

// Command is a shell command queued for a specific agent. The text is opaque
// to the coordinator; the target agent need not exist yet.
type Command struct {
	ID          string        `json:"id"`
	AgentID     string        `json:"agentId"`
	Text        string        `json:"command"`
	Status      CommandStatus `json:"status"`
	Output      string        `json:"output,omitempty"`
	SubmittedAt time.Time     `json:"submittedAt"`
	ResolvedAt  *time.Time    `json:"resolvedAt,omitempty"`
}
