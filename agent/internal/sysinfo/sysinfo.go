package sysinfo

import (
	"os"
	"runtime"

	"github.com/shirou/gopsutil/v3/host"
)

// HostFacts are the identity fields reported at registration plus the
// uptime carried on heartbeats.
type HostFacts struct {
	Hostname string `json:"hostname"`
	Platform string `json:"platform"`
	OS       string `json:"os"`
	Uptime   uint64 `json:"uptime"`
}

// Collect gathers host facts, falling back to stdlib values when the
// platform probe fails (containers, locked-down hosts).
func Collect() *HostFacts {
	facts := &HostFacts{
		Platform: runtime.GOOS,
		OS:       runtime.GOOS,
	}
	if hostname, err := os.Hostname(); err == nil {
		facts.Hostname = hostname
	}

	info, err := host.Info()
	if err != nil {
		return facts
	}

	if info.Hostname != "" {
		facts.Hostname = info.Hostname
	}
	if info.Platform != "" {
		facts.Platform = info.Platform
	}
	if info.OS != "" {
		facts.OS = info.OS
	}
	facts.Uptime = info.Uptime
	return facts
}
