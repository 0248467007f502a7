package handlers

import (
	"errors"
	"strconv"

	"github.com/gofiber/fiber/v2"
	"github.com/relaydeck/coordinator/internal/core/ports"
	"github.com/relaydeck/coordinator/internal/core/services"
	"github.com/relaydeck/coordinator/internal/infrastructure/logger"
	"github.com/relaydeck/coordinator/internal/transport/http/dto"
)

type CommandHandler struct {
	submission ports.SubmissionService
	queue      ports.CommandQueue
	logger     *logger.Logger
}

func NewCommandHandler(submission ports.SubmissionService, queue ports.CommandQueue, logger *logger.Logger) *CommandHandler {
	return &CommandHandler{submission: submission, queue: queue, logger: logger}
}

// Submit serves POST /api/v1/commands.
func (h *CommandHandler) Submit(c *fiber.Ctx) error {
	var req dto.SubmitCommandRequest
	if err := c.BodyParser(&req); err != nil {
		h.logger.Warnw("command_submit_body_parse_failed", "error", err)
		return c.Status(fiber.StatusBadRequest).JSON(dto.ErrorResponse{Error: "Invalid request body"})
	}

	if errs := req.Validate(); len(errs) > 0 {
		return c.Status(fiber.StatusBadRequest).JSON(dto.ErrorResponse{Error: "Validation failed", Details: errs})
	}

	cmd, err := h.submission.Submit(c.Context(), req.AgentID, req.Command, req.CommandID)
	if err != nil {
		if errors.Is(err, services.ErrInvalidSubmission) {
			return c.Status(fiber.StatusBadRequest).JSON(dto.ErrorResponse{Error: err.Error()})
		}
		h.logger.Errorw("command_submit_failed", "agent_id", req.AgentID, "error", err)
		return c.Status(fiber.StatusInternalServerError).JSON(dto.ErrorResponse{Error: err.Error()})
	}

	return c.JSON(fiber.Map{"success": true, "commandId": cmd.ID})
}

// List serves GET /api/v1/commands, newest first, capped.
func (h *CommandHandler) List(c *fiber.Ctx) error {
	limit := services.DefaultRecentLimit
	if raw := c.Query("limit"); raw != "" {
		if parsed, err := strconv.Atoi(raw); err == nil {
			limit = parsed
		}
	}

	return c.JSON(fiber.Map{"commands": h.queue.ListRecent(limit)})
}

// Get serves GET /api/v1/commands/:id.
func (h *CommandHandler) Get(c *fiber.Ctx) error {
	cmd, err := h.queue.Get(c.Params("id"))
	if err != nil {
		return c.Status(fiber.StatusNotFound).JSON(dto.ErrorResponse{Error: "command not found"})
	}
	return c.JSON(fiber.Map{"command": cmd})
}
