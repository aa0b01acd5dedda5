package handlers

import (
	"context"
	"time"

	"github.com/gofiber/fiber/v2"
	redis "github.com/redis/go-redis/v9"
	"go.uber.org/zap"

	callbacksvc "github.com/acme/sales-callback/internal/service/callback"
	"github.com/acme/sales-callback/pkg/logger"
)

// Swedish messages for the JSON surface; the widget shows them verbatim.
const (
	msgWelcome  = "Välkommen till API:et!"
	msgInternal = "Något gick fel. Försök igen senare."
)

// HandlerSet bundles all HTTP handlers.
type HandlerSet struct {
	service *callbacksvc.Service
	logger  *logger.Logger
	redis   *redis.Client // nil when redis is disabled
}

// NewHandlerSet creates a new handler bundle. redisClient may be nil.
func NewHandlerSet(service *callbacksvc.Service, lg *logger.Logger, redisClient *redis.Client) *HandlerSet {
	return &HandlerSet{service: service, logger: lg, redis: redisClient}
}

// Register wires all routes onto the fiber app.
func (h *HandlerSet) Register(app *fiber.App) {
	app.Get("/", h.welcome)
	app.Get("/healthz", h.health)
	app.Post("/callback-request", h.callbackRequest)
	app.Post("/call-status", h.callStatus)
}

// ErrorHandler provides centralized error responses. Anything that reaches
// a 5xx is logged in full and replaced with a stable generic message.
func (h *HandlerSet) ErrorHandler(ctx *fiber.Ctx, err error) error {
	code := fiber.StatusInternalServerError
	message := msgInternal

	if fiberErr, ok := err.(*fiber.Error); ok {
		code = fiberErr.Code
		message = fiberErr.Message
	}

	if code >= fiber.StatusInternalServerError {
		h.logger.Error("request failed",
			zap.String("path", ctx.Path()),
			zap.Error(err))
		message = msgInternal
	}

	return ctx.Status(code).JSON(callbackResponse{Success: false, Message: message})
}

func (h *HandlerSet) welcome(ctx *fiber.Ctx) error {
	return ctx.JSON(fiber.Map{"message": msgWelcome})
}

func (h *HandlerSet) health(ctx *fiber.Ctx) error {
	healthCtx, cancel := context.WithTimeout(ctx.Context(), 2*time.Second)
	defer cancel()

	errs := make(map[string]string)
	if h.redis != nil {
		if err := h.redis.Ping(healthCtx).Err(); err != nil {
			errs["redis"] = err.Error()
		}
	}

	status := fiber.StatusOK
	if len(errs) > 0 {
		status = fiber.StatusServiceUnavailable
	}
	return ctx.Status(status).JSON(fiber.Map{"status": "ok", "errors": errs})
}
