package config

import (
	"os"
	"path/filepath"
	"testing"
	"time"
)

func writeConfig(t *testing.T, content string) string {
	t.Helper()
	path := filepath.Join(t.TempDir(), "agent.yaml")
	if err := os.WriteFile(path, []byte(content), 0644); err != nil {
		t.Fatalf("failed to write config: %v", err)
	}
	return path
}

func TestLoadDefaults(t *testing.T) {
	path := writeConfig(t, "coordinator_url: http://localhost:8080\n")

	cfg, err := Load(path)
	if err != nil {
		t.Fatalf("load failed: %v", err)
	}

	if cfg.CoordinatorURL != "http://localhost:8080" {
		t.Errorf("unexpected coordinator url %q", cfg.CoordinatorURL)
	}
	if cfg.HeartbeatInterval != 2*time.Second {
		t.Errorf("expected default heartbeat interval 2s, got %v", cfg.HeartbeatInterval)
	}
	if cfg.RetryBackoff != 5*time.Second {
		t.Errorf("expected default retry backoff 5s, got %v", cfg.RetryBackoff)
	}
	if cfg.ExecTimeout != 30*time.Second {
		t.Errorf("expected default exec timeout 30s, got %v", cfg.ExecTimeout)
	}
}

func TestLoadOverrides(t *testing.T) {
	path := writeConfig(t, `coordinator_url: http://relay.internal:9090
heartbeat_interval: 10s
retry_backoff: 1s
exec_timeout: 5m
log_path: /var/log/relaydeck-agent.log
`)

	cfg, err := Load(path)
	if err != nil {
		t.Fatalf("load failed: %v", err)
	}

	if cfg.HeartbeatInterval != 10*time.Second {
		t.Errorf("expected 10s heartbeat interval, got %v", cfg.HeartbeatInterval)
	}
	if cfg.RetryBackoff != time.Second {
		t.Errorf("expected 1s retry backoff, got %v", cfg.RetryBackoff)
	}
	if cfg.ExecTimeout != 5*time.Minute {
		t.Errorf("expected 5m exec timeout, got %v", cfg.ExecTimeout)
	}
	if cfg.LogPath != "/var/log/relaydeck-agent.log" {
		t.Errorf("unexpected log path %q", cfg.LogPath)
	}
}

func TestLoadMissingCoordinatorURL(t *testing.T) {
	path := writeConfig(t, "heartbeat_interval: 10s\n")

	if _, err := Load(path); err == nil {
		t.Fatal("expected error for missing coordinator_url")
	}
}

func TestLoadMissingFile(t *testing.T) {
	if _, err := Load(filepath.Join(t.TempDir(), "nope.yaml")); err == nil {
		t.Fatal("expected error for missing file")
	}
}

func TestLoadMalformedYAML(t *testing.T) {
	path := writeConfig(t, "coordinator_url: [not: closed\n")

	if _, err := Load(path); err == nil {
		t.Fatal("expected error for malformed yaml")
	}
}
