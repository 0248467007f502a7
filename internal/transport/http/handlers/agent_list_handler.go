package handlers

import (
	"github.com/gofiber/fiber/v2"
	"github.com/relaydeck/coordinator/internal/core/ports"
	"github.com/relaydeck/coordinator/internal/infrastructure/logger"
	"github.com/relaydeck/coordinator/internal/transport/http/dto"
)

type AgentListHandler struct {
	registry ports.AgentRegistry
	logger   *logger.Logger
}

func NewAgentListHandler(registry ports.AgentRegistry, logger *logger.Logger) *AgentListHandler {
	return &AgentListHandler{registry: registry, logger: logger}
}

// List serves GET /api/v1/agents. By default only agents inside the
// liveness window are returned; ?all=true includes stale ones, each tagged
// with its derived connected flag.
func (h *AgentListHandler) List(c *fiber.Ctx) error {
	all := c.Query("all") == "true"

	agents := h.registry.List(!all)
	responses := make([]dto.AgentResponse, len(agents))
	for i := range agents {
		responses[i] = dto.AgentToResponse(&agents[i], h.registry.Connected(&agents[i]))
	}

	return c.JSON(fiber.Map{"agents": responses})
}
