package handler

import (
	"strconv"

	"github.com/gofiber/fiber/v3"
	"github.com/hireloop/devscout/internal/adapter/store"
)

const (
	defaultHistoryLimit = 20
	maxHistoryLimit     = 100
)

// HistoryHandler exposes paginated search history and the audit debug view.
type HistoryHandler struct {
	store *store.PostgresStore
}

// NewHistoryHandler creates a new history handler.
func NewHistoryHandler(pgStore *store.PostgresStore) *HistoryHandler {
	return &HistoryHandler{store: pgStore}
}

// Register sets up history routes.
func (h *HistoryHandler) Register(router fiber.Router) {
	router.Get("/history", h.ListHistory)
	router.Get("/audit", h.ListAudit)
}

// ListHistory returns search history newest first.
func (h *HistoryHandler) ListHistory(c fiber.Ctx) error {
	limit := queryInt(c, "limit", defaultHistoryLimit)
	if limit > maxHistoryLimit {
		limit = maxHistoryLimit
	}
	offset := queryInt(c, "offset", 0)

	records, total, err := h.store.ListSearches(c.Context(), limit, offset)
	if err != nil {
		return c.Status(fiber.StatusInternalServerError).JSON(fiber.Map{"error": err.Error()})
	}

	return c.JSON(fiber.Map{
		"searches": records,
		"total":    total,
		"limit":    limit,
		"offset":   offset,
	})
}

// ListAudit returns recent request audit logs.
func (h *HistoryHandler) ListAudit(c fiber.Ctx) error {
	limit := queryInt(c, "limit", 50)
	if limit > maxHistoryLimit {
		limit = maxHistoryLimit
	}

	logs, err := h.store.ListAuditLogs(c.Context(), limit)
	if err != nil {
		return c.Status(fiber.StatusInternalServerError).JSON(fiber.Map{"error": err.Error()})
	}

	return c.JSON(fiber.Map{
		"logs":  logs,
		"count": len(logs),
	})
}

func queryInt(c fiber.Ctx, key string, fallback int) int {
	if v := c.Query(key); v != "" {
		n, err := strconv.Atoi(v)
		if err == nil && n >= 0 {
			return n
		}
	}
	return fallback
}
