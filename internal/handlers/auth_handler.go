package handlers

import (
	"github.com/gofiber/fiber/v2"
	"github.com/pr-poehali-dev/milka-messenger-project/internal/cache"
	"github.com/pr-poehali-dev/milka-messenger-project/internal/httpx"
	"github.com/pr-poehali-dev/milka-messenger-project/internal/service"
)

type AuthHandler struct {
	authService *service.AuthService
	userCache   *cache.UserCache
}

func NewAuthHandler(authService *service.AuthService, userCache *cache.UserCache) *AuthHandler {
	return &AuthHandler{
		authService: authService,
		userCache:   userCache,
	}
}

func (h *AuthHandler) Register(c *fiber.Ctx) error {
	var input service.RegisterInput
	if err := c.BodyParser(&input); err != nil {
		return httpx.BadRequest(c, "invalid_request_body", "Invalid request body")
	}

	result, created, err := h.authService.Register(input)
	if err != nil {
		return httpx.FromError(c, err)
	}

	_ = h.userCache.SetUserOnline(result.User.ID)

	status := fiber.StatusOK
	message := "User already exists"
	if created {
		status = fiber.StatusCreated
		message = "User registered successfully"
	}
	return c.Status(status).JSON(fiber.Map{
		"message":       message,
		"user":          result.User,
		"session_token": result.SessionToken,
	})
}

func (h *AuthHandler) Login(c *fiber.Ctx) error {
	var input service.LoginInput
	if err := c.BodyParser(&input); err != nil {
		return httpx.BadRequest(c, "invalid_request_body", "Invalid request body")
	}

	result, err := h.authService.Login(input)
	if err != nil {
		return httpx.FromError(c, err)
	}

	_ = h.userCache.SetUserOnline(result.User.ID)

	return c.JSON(fiber.Map{
		"message":       "Login successful",
		"user":          result.User,
		"session_token": result.SessionToken,
	})
}
