package handlers

import (
	"strconv"

	"github.com/gofiber/fiber/v2"
	"github.com/pr-poehali-dev/milka-messenger-project/internal/cache"
	"github.com/pr-poehali-dev/milka-messenger-project/internal/httpx"
	"github.com/pr-poehali-dev/milka-messenger-project/internal/service"
)

type MessageHandler struct {
	messageService *service.MessageService
	chatService    *service.ChatService
	summaryCache   *cache.SummaryCache
}

func NewMessageHandler(
	messageService *service.MessageService,
	chatService *service.ChatService,
	summaryCache *cache.SummaryCache,
) *MessageHandler {
	return &MessageHandler{
		messageService: messageService,
		chatService:    chatService,
		summaryCache:   summaryCache,
	}
}

// GetMessages lists a chat oldest-first. Reading marks the other parties'
// messages as read, so the requester's summaries are invalidated here.
func (h *MessageHandler) GetMessages(c *fiber.Ctx) error {
	userID, err := httpx.LocalUint(c, "userID")
	if err != nil {
		return httpx.Unauthorized(c, "unauthorized", "Unauthorized")
	}

	chatIDStr := c.Query("chat_id")
	if chatIDStr == "" {
		return httpx.BadRequest(c, "missing_chat_id", "chat_id is required")
	}
	chatID, err := strconv.ParseUint(chatIDStr, 10, 32)
	if err != nil {
		return httpx.BadRequest(c, "invalid_chat_id", "Invalid chat_id")
	}

	messages, err := h.messageService.ListChatMessages(uint(chatID), userID)
	if err != nil {
		return httpx.FromError(c, err)
	}
	h.summaryCache.Invalidate(userID)

	responses := make([]interface{}, len(messages))
	for i, msg := range messages {
		responses[i] = msg.ToResponse()
	}

	return c.JSON(fiber.Map{
		"messages": responses,
		"count":    len(messages),
	})
}

func (h *MessageHandler) SendMessage(c *fiber.Ctx) error {
	userID, err := httpx.LocalUint(c, "userID")
	if err != nil {
		return httpx.Unauthorized(c, "unauthorized", "Unauthorized")
	}

	var input service.SendMessageInput
	if err := c.BodyParser(&input); err != nil {
		return httpx.BadRequest(c, "invalid_request_body", "Invalid request body")
	}

	message, err := h.messageService.Send(userID, input)
	if err != nil {
		return httpx.FromError(c, err)
	}

	// Every member's chat list changed (last message, unread counts).
	if memberIDs, err := h.chatService.MemberIDs(message.ChatID); err == nil {
		h.summaryCache.Invalidate(memberIDs...)
	}

	return c.Status(fiber.StatusCreated).JSON(fiber.Map{
		"message":    "Message sent successfully",
		"id":         message.ID,
		"created_at": message.CreatedAt,
	})
}
