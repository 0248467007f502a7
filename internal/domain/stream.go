package domain

// Stream event types pushed over the websocket feed.
const (
	StreamAgentRegistered  = "agent_registered"
	StreamCommandSubmitted = "command_submitted"
	StreamCommandResolved  = "command_resolved"
)

// StreamEvent is a live notification of a dispatch lifecycle transition,
// fanned out to websocket subscribers. Exactly one of Agent or Command is set.
type StreamEvent struct {
	Type      string   `json:"type"`
	Agent     *Agent   `json:"agent,omitempty"`
	Command   *Command `json:"command,omitempty"`
	Timestamp int64    `json:"ts"`
}
