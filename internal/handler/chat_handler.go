package handler

import (
	"context"
	"time"

	"github.com/gofiber/fiber/v3"
	"github.com/hireloop/devscout/internal/service"
)

// chatTimeout bounds a whole chat turn, including any tool the model runs.
const chatTimeout = 6 * time.Minute

// ChatHandler exposes the LLM-orchestrated conversation.
type ChatHandler struct {
	chat *service.ChatService
}

// NewChatHandler creates a new chat handler.
func NewChatHandler(chat *service.ChatService) *ChatHandler {
	return &ChatHandler{chat: chat}
}

// Register sets up chat routes.
func (h *ChatHandler) Register(router fiber.Router) {
	router.Post("/chat", h.Chat)
}

// Chat handles one conversation turn, dispatching tool calls as needed.
func (h *ChatHandler) Chat(c fiber.Ctx) error {
	var body struct {
		Message string                `json:"message"`
		History []service.ChatMessage `json:"history"`
	}
	if err := c.Bind().JSON(&body); err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{"error": "invalid request body"})
	}
	if body.Message == "" {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{"error": "message is required"})
	}

	ctx, cancel := context.WithTimeout(c.Context(), chatTimeout)
	defer cancel()

	reply, err := h.chat.Respond(ctx, body.Message, body.History)
	if err != nil {
		return c.Status(fiber.StatusInternalServerError).JSON(fiber.Map{"error": err.Error()})
	}

	return c.JSON(reply)
}
