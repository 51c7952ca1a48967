package handler

import (
	"errors"

	"github.com/gofiber/fiber/v3"
	"github.com/hireloop/devscout/internal/port"
)

// CollabHandler exposes collaboration graph fetches.
type CollabHandler struct {
	github port.GitHubProvider
}

// NewCollabHandler creates a new collaboration handler.
func NewCollabHandler(github port.GitHubProvider) *CollabHandler {
	return &CollabHandler{github: github}
}

// Register sets up collaboration routes.
func (h *CollabHandler) Register(router fiber.Router) {
	router.Get("/collaboration/:username", h.GetGraph)
}

// GetGraph returns a user's collaboration graph.
func (h *CollabHandler) GetGraph(c fiber.Ctx) error {
	username := c.Params("username")

	graph, err := h.github.Collaboration(c.Context(), username)
	if err != nil {
		switch {
		case errors.Is(err, port.ErrUserNotFound):
			return c.Status(fiber.StatusNotFound).JSON(fiber.Map{"error": err.Error()})
		case errors.Is(err, port.ErrRateLimited):
			return c.Status(fiber.StatusTooManyRequests).JSON(fiber.Map{"error": err.Error()})
		default:
			return c.Status(fiber.StatusBadGateway).JSON(fiber.Map{"error": err.Error()})
		}
	}

	return c.JSON(graph)
}
