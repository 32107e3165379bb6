// Package main provides the Printy Assist API server implementation.
package main

import (
	"log/slog"
	"strconv"
	"time"

	"github.com/go-playground/validator/v10"
	"github.com/gofiber/fiber/v3"
	"github.com/gofiber/fiber/v3/middleware/cors"
	"github.com/gofiber/fiber/v3/middleware/healthcheck"
	"github.com/gofiber/fiber/v3/middleware/logger"
	"github.com/printyhq/printy-assist/pkg/dispatcher"
	"github.com/printyhq/printy-assist/pkg/eventbus"
	"github.com/printyhq/printy-assist/pkg/persistence"
	"github.com/printyhq/printy-assist/pkg/registry"
	"github.com/printyhq/printy-assist/pkg/session"
	"github.com/printyhq/printy-assist/pkg/web"
	"go.opentelemetry.io/otel/trace"
)

type API struct {
	logger      *slog.Logger
	persistence persistence.Persistence
	registry    *registry.Registry
	eventBus    eventbus.EventBus
	history     session.History
	sessionTTL  time.Duration
	validate    *validator.Validate
	tracer      trace.Tracer

	sessions *session.Manager
}

func NewAPI(
	logger *slog.Logger,
	persistence persistence.Persistence,
	registry *registry.Registry,
	eventBus eventbus.EventBus,
	history session.History,
	sessionTTL time.Duration,
) *API {
	return &API{
		logger:      logger,
		persistence: persistence,
		registry:    registry,
		eventBus:    eventBus,
		history:     history,
		sessionTTL:  sessionTTL,
		validate:    validator.New(validator.WithRequiredStructEnabled()),
	}
}

// WithTracer enables per-turn tracing on the session layer.
func (a *API) WithTracer(tracer trace.Tracer) *API {
	a.tracer = tracer

	return a
}

func (a *API) App() *fiber.App {
	disp := dispatcher.NewDispatcher(a.logger, a.registry)
	a.sessions = session.NewManager(a.logger, a.persistence, a.eventBus, disp, a.history, a.sessionTTL)

	if a.tracer != nil {
		a.sessions.WithTracer(a.tracer)
	}

	handlers := web.NewAPIHandlers(a.sessions, a.persistence, a.validate)

	app := fiber.New()
	app.Use(cors.New())
	app.Use(logger.New(logger.Config{
		DisableColors: true,
	}))

	app.Get(healthcheck.DefaultLivenessEndpoint, healthcheck.NewHealthChecker())
	app.Get(healthcheck.DefaultReadinessEndpoint, healthcheck.NewHealthChecker())

	app.Get("/", func(c fiber.Ctx) error {
		return c.SendString("Printy Assist API")
	})

	chat := app.Group("/chat/sessions")
	chat.Post("/", handlers.OpenChat)
	chat.Post("/:id/messages", handlers.SendMessage)
	chat.Get("/:id/transcript", handlers.GetTranscript)
	chat.Delete("/:id", handlers.EndChat)

	app.Get("/orders", handlers.GetOrders)
	app.Get("/orders/:id", handlers.GetOrder)
	app.Get("/tickets", handlers.GetTickets)
	app.Get("/tickets/:id", handlers.GetTicket)
	app.Get("/services", handlers.GetServices)
	app.Get("/services/:id", handlers.GetService)

	app.Get("/health", handlers.HealthCheck)

	return app
}

func (a *API) Start(port int) error {
	app := a.App()

	if err := a.sessions.StartJanitor(); err != nil {
		return err
	}

	return app.Listen(":" + strconv.Itoa(port))
}
