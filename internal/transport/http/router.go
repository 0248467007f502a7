package http

import (
	"github.com/gofiber/contrib/websocket"
	"github.com/gofiber/fiber/v2"
	"github.com/relaydeck/coordinator/internal/config"
	"github.com/relaydeck/coordinator/internal/core/services"
	"github.com/relaydeck/coordinator/internal/infrastructure/db"
	"github.com/relaydeck/coordinator/internal/infrastructure/logger"
	"github.com/relaydeck/coordinator/internal/transport/http/handlers"
	"gorm.io/gorm"
)

type RouterConfig struct {
	DB     *gorm.DB
	Logger *logger.Logger
	Config *config.Config
}

// SetupRoutes wires the stores, services and handlers and registers every
// route. The registry and queue are constructed here, once, and threaded
// into the handlers explicitly; there are no package-level singletons.
func SetupRoutes(app *fiber.App, cfg RouterConfig) {
	timelineRepo := db.NewTimelineRepository(cfg.DB, cfg.Logger)

	registry := services.NewRegistryService(services.RegistryServiceConfig{
		LivenessWindow: cfg.Config.Dispatch.LivenessWindow,
	})
	queue := services.NewQueueService()
	events := services.NewEventBroadcaster()

	dispatchService := services.NewDispatchService(services.DispatchServiceConfig{
		Registry: registry,
		Queue:    queue,
		Timeline: timelineRepo,
		Events:   events,
		Logger:   cfg.Logger,
	})
	submissionService := services.NewSubmissionService(services.SubmissionServiceConfig{
		Queue:    queue,
		Timeline: timelineRepo,
		Events:   events,
		Logger:   cfg.Logger,
	})

	dispatchHandler := handlers.NewDispatchHandler(dispatchService, cfg.Logger)
	commandHandler := handlers.NewCommandHandler(submissionService, queue, cfg.Logger)
	agentListHandler := handlers.NewAgentListHandler(registry, cfg.Logger)
	timelineHandler := handlers.NewTimelineHandler(timelineRepo)
	streamHandler := handlers.NewStreamHandler(events, cfg.Logger)
	installScriptHandler := handlers.NewInstallScriptHandler(cfg.Config.Server.PublicURL, cfg.Logger)

	// Agent install surface
	app.Get("/install.sh", installScriptHandler.GetInstallScript)
	app.Static("/downloads", "./bin/uploads")

	// Live event feed
	app.Use("/ws", func(c *fiber.Ctx) error {
		if websocket.IsWebSocketUpgrade(c) {
			c.Locals("allowed", true)
			return c.Next()
		}
		return c.SendStatus(fiber.StatusUpgradeRequired)
	})
	app.Get("/ws/events", websocket.New(streamHandler.Handle))

	// API v1 routes
	api := app.Group("/api/v1")

	// Agent-facing dispatch endpoint
	api.Post("/agent/dispatch", dispatchHandler.Handle)

	// Operator + presentation surface
	api.Post("/commands", commandHandler.Submit)
	api.Get("/commands", commandHandler.List)
	api.Get("/commands/:id", commandHandler.Get)
	api.Get("/agents", agentListHandler.List)
	api.Get("/timeline", timelineHandler.GetEvents)
}
