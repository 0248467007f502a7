package handlers

import (
	"fmt"

	"github.com/gofiber/fiber/v2"
	"github.com/relaydeck/coordinator/internal/infrastructure/logger"
)

type InstallScriptHandler struct {
	publicURL string
	logger    *logger.Logger
}

func NewInstallScriptHandler(publicURL string, logger *logger.Logger) *InstallScriptHandler {
	return &InstallScriptHandler{publicURL: publicURL, logger: logger}
}

// GetInstallScript serves GET /install.sh. The script drops an agent config
// pointing back at this coordinator and starts the agent binary.
func (h *InstallScriptHandler) GetInstallScript(c *fiber.Ctx) error {
	publicURL := h.publicURL
	if publicURL == "" {
		scheme := "http"
		if c.Protocol() == "https" {
			scheme = "https"
		}
		publicURL = fmt.Sprintf("%s://%s", scheme, c.Hostname())
	}
	return c.Type("text/plain").SendString(h.generateInstallScript(publicURL))
}

func (h *InstallScriptHandler) generateInstallScript(publicURL string) string {
	return fmt.Sprintf(`#!/bin/sh
set -e

COORDINATOR_URL="%s"

echo "Installing relaydeck agent..."

sudo mkdir -p /etc/relaydeck
sudo tee /etc/relaydeck/agent.yaml > /dev/null <<EOF
coordinator_url: ${COORDINATOR_URL}
heartbeat_interval: 2s
retry_backoff: 5s
exec_timeout: 30s
log_path: /var/log/relaydeck-agent.log
EOF

AGENT_URL="${COORDINATOR_URL}/downloads/relaydeck-agent"
sudo curl -fsSL "$AGENT_URL" -o /usr/local/bin/relaydeck-agent
sudo chmod +x /usr/local/bin/relaydeck-agent

echo "Starting agent..."
sudo nohup /usr/local/bin/relaydeck-agent -config /etc/relaydeck/agent.yaml >/dev/null 2>&1 &

echo "Done."
`, publicURL)
}
