package handler

import (
	"context"

	"github.com/gofiber/fiber/v2"
	"github.com/rs/zerolog/log"
)

// Pinger is an interface for health check ping operations.
// Both *pgxpool.Pool and *kgo.Client satisfy it.
type Pinger interface {
	Ping(ctx context.Context) error
}

// HealthHandler handles health check requests.
type HealthHandler struct {
	pool      Pinger
	mailQueue Pinger // nil when mail jobs are only logged
}

// NewHealthHandler creates a new HealthHandler for the database and, optionally, the mail queue.
func NewHealthHandler(pool Pinger, mailQueue Pinger) *HealthHandler {
	return &HealthHandler{pool: pool, mailQueue: mailQueue}
}

// Check pings the database and the mail queue.
// Returns 200 OK with {"status": "healthy"} when every dependency is reachable,
// 503 Service Unavailable with {"status": "unhealthy", "error": "..."} otherwise.
func (h *HealthHandler) Check(c *fiber.Ctx) error {
	if err := h.pool.Ping(c.Context()); err != nil {
		log.Error().Err(err).Msg("health check failed: database unreachable")
		return c.Status(fiber.StatusServiceUnavailable).JSON(fiber.Map{
			"status": "unhealthy",
			"error":  "database connection failed",
		})
	}

	queue := "disabled"
	if h.mailQueue != nil {
		if err := h.mailQueue.Ping(c.Context()); err != nil {
			log.Error().Err(err).Msg("health check failed: mail queue unreachable")
			return c.Status(fiber.StatusServiceUnavailable).JSON(fiber.Map{
				"status": "unhealthy",
				"error":  "mail queue connection failed",
			})
		}
		queue = "up"
	}

	return c.JSON(fiber.Map{
		"status":     "healthy",
		"database":   "up",
		"mail_queue": queue,
	})
}
