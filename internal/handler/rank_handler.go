package handler

import (
	"errors"

	"github.com/gofiber/fiber/v3"
	"github.com/hireloop/devscout/internal/domain"
	"github.com/hireloop/devscout/internal/port"
	"github.com/hireloop/devscout/internal/service"
)

// RankHandler exposes candidate ranking.
type RankHandler struct {
	ranking *service.RankingService
}

// NewRankHandler creates a new rank handler.
func NewRankHandler(ranking *service.RankingService) *RankHandler {
	return &RankHandler{ranking: ranking}
}

// Register sets up ranking routes.
func (h *RankHandler) Register(router fiber.Router) {
	router.Post("/candidates/rank", h.Rank)
}

// Rank scores the requested profiles against a hiring brief and returns the
// top candidates.
func (h *RankHandler) Rank(c fiber.Ctx) error {
	var body struct {
		Query     string       `json:"query"`
		Usernames []string     `json:"usernames"`
		Brief     domain.Brief `json:"brief"`
	}
	if err := c.Bind().JSON(&body); err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{"error": "invalid request body"})
	}

	result, err := h.ranking.FindCandidates(c.Context(), body.Query, body.Usernames, body.Brief)
	if err != nil {
		switch {
		case service.IsRateLimited(err):
			return c.Status(fiber.StatusTooManyRequests).JSON(fiber.Map{"error": err.Error()})
		case errors.Is(err, port.ErrNoCandidates):
			return c.Status(fiber.StatusBadGateway).JSON(fiber.Map{"error": err.Error()})
		default:
			return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{"error": err.Error()})
		}
	}

	return c.JSON(result)
}
