package services

import "time"

// DefaultLivenessWindow is the maximum silence before an agent counts as
// disconnected. It must comfortably exceed the agent heartbeat interval
// (2s by default) to tolerate transient network delay without flapping.
const DefaultLivenessWindow = 30 * time.Second

// Connected reports whether an agent last seen at lastSeenAt counts as
// connected at instant now. A non-positive window falls back to the default.
func Connected(lastSeenAt, now time.Time, window time.Duration) bool {
	if window <= 0 {
		window = DefaultLivenessWindow
	}
	return now.Sub(lastSeenAt) < window
}
