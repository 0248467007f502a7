package handlers

import (
	"errors"

	"github.com/gofiber/fiber/v2"
	"github.com/relaydeck/coordinator/internal/core/ports"
	"github.com/relaydeck/coordinator/internal/core/services"
	"github.com/relaydeck/coordinator/internal/domain"
	"github.com/relaydeck/coordinator/internal/infrastructure/logger"
	"github.com/relaydeck/coordinator/internal/transport/http/dto"
)

type DispatchHandler struct {
	dispatch ports.DispatchService
	logger   *logger.Logger
}

func NewDispatchHandler(dispatch ports.DispatchService, logger *logger.Logger) *DispatchHandler {
	return &DispatchHandler{dispatch: dispatch, logger: logger}
}

// Handle serves POST /api/v1/agent/dispatch. All three agent-side event
// kinds come through here; a malformed or unrecognized event gets a 400 and
// mutates nothing.
func (h *DispatchHandler) Handle(c *fiber.Ctx) error {
	var req dto.DispatchRequest
	if err := c.BodyParser(&req); err != nil {
		h.logger.Warnw("dispatch_body_parse_failed", "error", err)
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{"error": "Invalid request"})
	}

	ev := req.ToEvent()
	result, err := h.dispatch.Handle(c.Context(), ev)
	if err != nil {
		if errors.Is(err, services.ErrInvalidEvent) {
			return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{"error": "Invalid request"})
		}
		h.logger.Errorw("dispatch_failed", "type", req.Type, "error", err)
		return c.Status(fiber.StatusInternalServerError).JSON(fiber.Map{"error": err.Error()})
	}

	switch ev.Type {
	case domain.EventRegister:
		return c.JSON(fiber.Map{"success": true, "agent": result.Agent})
	case domain.EventHeartbeat:
		commands := result.Commands
		if commands == nil {
			commands = make([]domain.Command, 0)
		}
		return c.JSON(fiber.Map{"success": true, "commands": commands})
	default:
		return c.JSON(fiber.Map{"success": true})
	}
}
