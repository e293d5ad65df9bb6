package handlers

import (
	"github.com/gofiber/fiber/v2"
	"github.com/pr-poehali-dev/milka-messenger-project/internal/cache"
	"github.com/pr-poehali-dev/milka-messenger-project/internal/httpx"
	"github.com/pr-poehali-dev/milka-messenger-project/internal/models"
	"github.com/pr-poehali-dev/milka-messenger-project/internal/service"
)

type ChatHandler struct {
	chatService  *service.ChatService
	summaryCache *cache.SummaryCache
}

func NewChatHandler(chatService *service.ChatService, summaryCache *cache.SummaryCache) *ChatHandler {
	return &ChatHandler{
		chatService:  chatService,
		summaryCache: summaryCache,
	}
}

func (h *ChatHandler) GetChats(c *fiber.Ctx) error {
	userID, err := httpx.LocalUint(c, "userID")
	if err != nil {
		return httpx.Unauthorized(c, "unauthorized", "Unauthorized")
	}

	if cached, ok := h.summaryCache.Get(userID); ok {
		return c.JSON(fiber.Map{"chats": cached})
	}

	summaries, err := h.chatService.ListForUser(userID)
	if err != nil {
		return httpx.FromError(c, err)
	}
	_ = h.summaryCache.Set(userID, summaries)

	return c.JSON(fiber.Map{"chats": summaries})
}

func (h *ChatHandler) CreateChat(c *fiber.Ctx) error {
	userID, err := httpx.LocalUint(c, "userID")
	if err != nil {
		return httpx.Unauthorized(c, "unauthorized", "Unauthorized")
	}

	var input service.CreateChatInput
	if err := c.BodyParser(&input); err != nil {
		return httpx.BadRequest(c, "invalid_request_body", "Invalid request body")
	}
	if input.Type == "" {
		input.Type = models.PrivateChat
	}

	switch input.Type {
	case models.PrivateChat:
		chatID, created, err := h.chatService.CreateOrGetPrivate(userID, input.OtherUserID)
		if err != nil {
			return httpx.FromError(c, err)
		}
		h.summaryCache.Invalidate(userID, input.OtherUserID)

		status := fiber.StatusOK
		message := "Chat already exists"
		if created {
			status = fiber.StatusCreated
			message = "Chat created successfully"
		}
		return c.Status(status).JSON(fiber.Map{
			"chat_id": chatID,
			"created": created,
			"message": message,
		})

	case models.GroupChat:
		chatID, err := h.chatService.CreateGroup(userID, input)
		if err != nil {
			return httpx.FromError(c, err)
		}
		h.summaryCache.Invalidate(append(input.MemberIDs, userID)...)

		return c.Status(fiber.StatusCreated).JSON(fiber.Map{
			"chat_id": chatID,
			"created": true,
			"message": "Chat created successfully",
		})

	default:
		return httpx.BadRequest(c, "invalid_chat_type", "Invalid chat type")
	}
}
