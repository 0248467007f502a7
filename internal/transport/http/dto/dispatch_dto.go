package dto

import "github.com/relaydeck/coordinator/internal/domain"

// DispatchRequest is the wire envelope of the dispatch endpoint. Which
// fields matter depends on the type discriminator.
type DispatchRequest struct {
	Type     string `json:"type"`
	ID       string `json:"id,omitempty"`
	Hostname string `json:"hostname,omitempty"`
	Platform string `json:"platform,omitempty"`
	Uptime   uint64 `json:"uptime,omitempty"`

	CommandID string `json:"commandId,omitempty"`
	Status    string `json:"status,omitempty"`
	Output    string `json:"output,omitempty"`
}

func (r *DispatchRequest) ToEvent() domain.DispatchEvent {
	return domain.DispatchEvent{
		Type:      domain.EventType(r.Type),
		AgentID:   r.ID,
		Hostname:  r.Hostname,
		Platform:  r.Platform,
		Uptime:    r.Uptime,
		CommandID: r.CommandID,
		Status:    domain.CommandStatus(r.Status),
		Output:    r.Output,
	}
}
