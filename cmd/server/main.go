package main

import (
	"log"
	"os"
	"strconv"
	"time"

	"github.com/gofiber/fiber/v2"
	"github.com/gofiber/fiber/v2/middleware/cors"
	"github.com/gofiber/fiber/v2/middleware/limiter"
	"github.com/gofiber/fiber/v2/middleware/logger"
	"github.com/gofiber/fiber/v2/middleware/requestid"
	"github.com/joho/godotenv"
	"github.com/pr-poehali-dev/milka-messenger-project/internal/cache"
	"github.com/pr-poehali-dev/milka-messenger-project/internal/handlers"
	"github.com/pr-poehali-dev/milka-messenger-project/internal/middleware"
	"github.com/pr-poehali-dev/milka-messenger-project/internal/repository"
	"github.com/pr-poehali-dev/milka-messenger-project/internal/service"
	"github.com/pr-poehali-dev/milka-messenger-project/internal/validation"
)

func main() {
	// Load environment variables
	if err := godotenv.Load(); err != nil {
		log.Println("No .env file found, using system environment variables")
	}

	// Initialize Fiber app
	app := fiber.New(fiber.Config{
		AppName: "Milka Messenger Backend",
	})

	// Middleware
	app.Use(requestid.New())
	app.Use(logger.New())
	app.Use(cors.New(cors.Config{
		AllowOrigins: os.Getenv("ALLOWED_ORIGINS"),
		AllowHeaders: "Origin, Content-Type, Accept, X-User-Id, X-Session-Token",
		AllowMethods: "GET, POST, OPTIONS",
	}))

	// Initialize database connection
	db, err := repository.InitDB()
	if err != nil {
		log.Fatal("Failed to connect to database:", err)
	}

	// Initialize Redis cache (optional; the caches are nil-safe)
	redisAddr := os.Getenv("REDIS_ADDR")
	if redisAddr == "" {
		redisAddr = "localhost:6379"
	}
	redisPassword := os.Getenv("REDIS_PASSWORD")
	redisDB := 0
	if dbStr := os.Getenv("REDIS_DB"); dbStr != "" {
		if parsedDB, err := strconv.Atoi(dbStr); err == nil {
			redisDB = parsedDB
		}
	}

	redisCache := cache.NewRedisCache(redisAddr, redisPassword, redisDB)
	if err := redisCache.Ping(); err != nil {
		log.Printf("WARNING: Redis connection failed: %v. Running without cache.", err)
		redisCache = nil
	} else {
		log.Println("Redis cache connected successfully")
	}

	summaryCache := cache.NewSummaryCache(redisCache)
	userCache := cache.NewUserCache(redisCache)

	// Initialize repositories
	userRepo := repository.NewUserRepository(db)
	chatRepo := repository.NewChatRepository(db)
	messageRepo := repository.NewMessageRepository(db)

	// Membership enforcement on send defaults on; set
	// CHAT_MEMBERSHIP_ENFORCED=false to reproduce the legacy unchecked
	// behavior for compatibility testing.
	enforceMembership := true
	if v := os.Getenv("CHAT_MEMBERSHIP_ENFORCED"); v != "" {
		if parsed, err := strconv.ParseBool(v); err == nil {
			enforceMembership = parsed
		}
	}

	// Initialize services
	authService := service.NewAuthService(db, userRepo, chatRepo, validation.SeedContactLimit())
	chatService := service.NewChatService(chatRepo)
	messageService := service.NewMessageService(messageRepo, chatRepo, enforceMembership)

	// Initialize handlers
	authHandler := handlers.NewAuthHandler(authService, userCache)
	chatHandler := handlers.NewChatHandler(chatService, summaryCache)
	messageHandler := handlers.NewMessageHandler(messageService, chatService, summaryCache)

	// Public routes
	api := app.Group("/api", middleware.OriginAllowed())
	auth := api.Group("/auth", limiter.New(limiter.Config{
		Max:        20,
		Expiration: time.Minute,
	}))
	auth.Post("/register", authHandler.Register)
	auth.Post("/login", authHandler.Login)

	// Protected routes: identity comes from the X-User-Id header
	protected := api.Group("/", middleware.IdentityRequired())
	protected.Get("/chats", chatHandler.GetChats)
	protected.Post("/chats", chatHandler.CreateChat)
	protected.Get("/messages", messageHandler.GetMessages)
	protected.Post("/messages", messageHandler.SendMessage)

	// Health check
	app.Get("/health", func(c *fiber.Ctx) error {
		return c.JSON(fiber.Map{
			"status":  "ok",
			"message": "Milka Messenger is running",
		})
	})

	// Start server
	port := os.Getenv("PORT")
	if port == "" {
		port = "8080"
	}

	log.Printf("Server starting on port %s...", port)
	if err := app.Listen(":" + port); err != nil {
		log.Fatal("Failed to start server:", err)
	}
}
