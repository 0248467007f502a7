package domain

// EventType discriminates the inbound dispatch event kinds. Adding a kind
// means extending the switch in the dispatch service; unknown values are
// rejected before any state is touched.
type EventType string

const (
	EventRegister  EventType = "register"
	EventHeartbeat EventType = "heartbeat"
	EventResult    EventType = "result"
)

// DispatchEvent is the decoded envelope of a dispatch call. Which fields are
// required depends on Type; validation lives in the dispatch service.
type DispatchEvent struct {
	Type EventType

	// register / heartbeat
	AgentID  string
	Hostname string
	Platform string
	Uptime   uint64

	// result
	CommandID string
	Status    CommandStatus
	Output    string
}

// DispatchResult is the coordinator's answer to a dispatch event. Agent is
// set for register events, Commands for heartbeat events.
type DispatchResult struct {
	Success  bool      `json:"success"`
	Agent    *Agent    `json:"agent,omitempty"`
	Commands []Command `json:"commands,omitempty"`
}
