package handler

import (
	"github.com/gofiber/fiber/v3"
	"github.com/hireloop/devscout/internal/service"
)

// ResearchHandler exposes multi-step web research.
type ResearchHandler struct {
	research *service.ResearchService
}

// NewResearchHandler creates a new research handler.
func NewResearchHandler(research *service.ResearchService) *ResearchHandler {
	return &ResearchHandler{research: research}
}

// Register sets up research routes.
func (h *ResearchHandler) Register(router fiber.Router) {
	router.Post("/research", h.Research)
}

// Research starts a web research run and streams progress events.
func (h *ResearchHandler) Research(c fiber.Ctx) error {
	var body struct {
		Query string `json:"query"`
	}
	if err := c.Bind().JSON(&body); err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{"error": "invalid request body"})
	}
	if body.Query == "" {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{"error": "query is required"})
	}

	stream := h.research.Research(c.Context(), body.Query)
	return streamSSE(c, stream)
}
