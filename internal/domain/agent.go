package domain

import "time"

// Agent represents a remote process that registered with the coordinator.
// The id is caller-supplied and globally unique; re-registration with the
// same id replaces the whole record (last write wins).
type Agent struct {
	ID           string    `json:"id"`
	Hostname     string    `json:"hostname"`
	Platform     string    `json:"platform"`
	LastSeenAt   time.Time `json:"lastSeenAt"`
	RegisteredAt time.Time `json:"registeredAt"`
}
