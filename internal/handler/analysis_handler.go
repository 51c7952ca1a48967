package handler

import (
	"github.com/gofiber/fiber/v3"
	"github.com/hireloop/devscout/internal/service"
)

// AnalysisHandler exposes sandboxed repository deep-analysis.
type AnalysisHandler struct {
	analysis *service.AnalysisService
}

// NewAnalysisHandler creates a new analysis handler.
func NewAnalysisHandler(analysis *service.AnalysisService) *AnalysisHandler {
	return &AnalysisHandler{analysis: analysis}
}

// Register sets up analysis routes.
func (h *AnalysisHandler) Register(router fiber.Router) {
	router.Post("/analysis/repo", h.AnalyzeRepo)
}

// AnalyzeRepo starts a repository analysis and streams progress events until
// the terminal complete or error event.
func (h *AnalysisHandler) AnalyzeRepo(c fiber.Ctx) error {
	var body struct {
		RepoURL string `json:"repo_url"`
	}
	if err := c.Bind().JSON(&body); err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{"error": "invalid request body"})
	}
	if body.RepoURL == "" {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{"error": "repo_url is required"})
	}

	stream := h.analysis.Analyze(c.Context(), body.RepoURL)
	return streamSSE(c, stream)
}
