// Package server contains HTTP and WebSocket handlers for the application's API endpoints.
package server

import (
	"context"
	"fmt"
	"log/slog"
	"time"

	"socialpulse/internal/cache"
	"socialpulse/internal/config"
	"socialpulse/internal/database"
	"socialpulse/internal/middleware"
	"socialpulse/internal/models"
	"socialpulse/internal/observability"
	"socialpulse/internal/realtime"
	"socialpulse/internal/repository"
	"socialpulse/internal/service"

	"github.com/ansrivas/fiberprometheus/v2"
	"github.com/gofiber/fiber/v2"
	"github.com/gofiber/fiber/v2/middleware/cors"
	"github.com/gofiber/fiber/v2/middleware/helmet"
	"github.com/gofiber/fiber/v2/middleware/limiter"
	"github.com/gofiber/fiber/v2/middleware/recover"
	"github.com/gofiber/fiber/v2/middleware/requestid"
	"github.com/redis/go-redis/v9"
	"gorm.io/gorm"
)

// Server holds all dependencies and provides handlers.
type Server struct {
	config         *config.Config
	db             *gorm.DB
	redis          *redis.Client
	app            *fiber.App
	promMiddleware *fiberprometheus.FiberPrometheus
	shutdownCtx    context.Context
	shutdownFn     context.CancelFunc

	userRepo         repository.UserRepository
	postRepo         repository.PostRepository
	messageRepo      repository.MessageRepository
	storyRepo        repository.StoryRepository
	notificationRepo repository.NotificationRepository
	reportRepo       repository.ReportRepository

	notifier *realtime.Notifier
	hub      *realtime.Hub

	authService         *service.AuthService
	userService         *service.UserService
	postService         *service.PostService
	messageService      *service.MessageService
	storyService        *service.StoryService
	notificationService *service.NotificationService
	moderationService   *service.ModerationService
}

// NewServer creates a new server instance with all dependencies.
func NewServer(cfg *config.Config) (*Server, error) {
	db, err := database.Connect(cfg)
	if err != nil {
		return nil, fmt.Errorf("database connection failed: %w", err)
	}

	cache.InitRedis(cfg.RedisURL)
	return NewServerWithDeps(cfg, db, cache.GetClient())
}

// NewServerWithDeps creates a Server using already-initialized dependencies.
// Tests and bootstrap layers that establish DB/Redis themselves use this.
func NewServerWithDeps(cfg *config.Config, db *gorm.DB, redisClient *redis.Client) (*Server, error) {
	middleware.InitMiddleware(cfg)

	server := &Server{
		config:           cfg,
		db:               db,
		redis:            redisClient,
		promMiddleware:   middleware.InitMetrics("socialpulse-api"),
		userRepo:         repository.NewUserRepository(db),
		postRepo:         repository.NewPostRepository(db),
		messageRepo:      repository.NewMessageRepository(db),
		storyRepo:        repository.NewStoryRepository(db),
		notificationRepo: repository.NewNotificationRepository(db),
		reportRepo:       repository.NewReportRepository(db),
	}

	server.hub = realtime.NewHub(redisClient)
	// Without Redis the notifier delivers to the local hub directly, so
	// user-scoped events still reach locally connected websocket clients.
	server.notifier = realtime.NewNotifier(redisClient)
	server.notifier.SetLocalHub(server.hub)
	server.hub.SetPresenceCallbacks(
		func(uint) { server.broadcastOnlineUsers() },
		func(uint) { server.broadcastOnlineUsers() },
	)

	server.notificationService = service.NewNotificationService(server.notificationRepo, server.notifier)
	server.authService = service.NewAuthService(server.userRepo)
	server.userService = service.NewUserService(server.userRepo, server.notificationService)
	server.postService = service.NewPostService(server.postRepo, server.userRepo, server.notificationService)
	server.messageService = service.NewMessageService(server.messageRepo, server.userRepo, server.notifier, server.notificationService)
	server.storyService = service.NewStoryService(server.storyRepo, server.userRepo, server.notifier)
	server.moderationService = service.NewModerationService(server.reportRepo, server.postRepo, server.userRepo)

	return server, nil
}

// SetupMiddleware configures middleware for the Fiber app.
func (s *Server) SetupMiddleware(app *fiber.App) {
	app.Use(recover.New())
	app.Use(requestid.New())
	app.Use(middleware.ContextMiddleware())

	if s.promMiddleware != nil {
		app.Use(middleware.MetricsMiddleware(s.promMiddleware))
	}

	app.Use(helmet.New())
	app.Use(middleware.TracingMiddleware())
	app.Use(middleware.StructuredLogger())

	// CORS runs before middlewares that can short-circuit (e.g. limiter) so
	// browser clients still receive CORS headers on error responses.
	origins := s.config.AllowedOrigins
	if origins == "" {
		origins = "http://localhost:5173,http://localhost:3000,http://127.0.0.1:5173"
	}
	app.Use(cors.New(cors.Config{
		AllowOrigins:     origins,
		AllowHeaders:     "Origin, Content-Type, Accept, Authorization, Upgrade, Connection, Sec-WebSocket-Key, Sec-WebSocket-Version",
		AllowCredentials: true,
		MaxAge:           86400,
	}))

	// Global rate limiting (100 requests per minute per IP)
	app.Use(limiter.New(limiter.Config{
		Max:        100,
		Expiration: 1 * time.Minute,
		// Never rate-limit preflight requests; CORS handles them.
		Next: func(c *fiber.Ctx) bool {
			return c.Method() == fiber.MethodOptions
		},
		KeyGenerator: func(c *fiber.Ctx) string {
			return c.IP()
		},
		LimitReached: func(c *fiber.Ctx) error {
			return c.Status(fiber.StatusTooManyRequests).JSON(fiber.Map{
				"error": "Too many requests, please try again later.",
			})
		},
	}))
}

// SetupRoutes configures all routes for the application.
func (s *Server) SetupRoutes(app *fiber.App) {
	api := app.Group("/api")

	// Health checks
	app.Get("/health/live", s.LivenessCheck)
	app.Get("/health/ready", s.ReadinessCheck)
	api.Get("/healthz", s.ReadinessCheck)

	if s.promMiddleware != nil {
		s.promMiddleware.RegisterAt(app, "/metrics")
	}

	// Auth routes
	auth := api.Group("/auth")
	auth.Post("/signup", middleware.RateLimit(s.redis, 3, 10*time.Minute, "signup"), s.Signup)
	auth.Post("/login", middleware.RateLimit(s.redis, 10, 5*time.Minute, "login"), s.Login)
	auth.Get("/me", middleware.AuthRequired, s.Me)
	auth.Put("/password", middleware.AuthRequired, s.ChangePassword)

	protected := api.Group("", middleware.AuthRequired)

	// User routes
	users := protected.Group("/users")
	users.Get("/search", s.SearchUsers)
	users.Get("/suggested", s.SuggestedUsers)
	users.Put("/profile", s.UpdateProfile)
	users.Get("/profile/id/:id", s.GetProfileByID)
	users.Get("/profile/:username", s.GetProfileByUsername)
	users.Post("/follow/:id", s.ToggleFollow)
	users.Get("/:id/followers", s.GetFollowers)
	users.Get("/:id/following", s.GetFollowing)

	// Post routes
	posts := protected.Group("/posts")
	posts.Get("/", s.GetTimeline)
	posts.Post("/", middleware.RateLimit(s.redis, 10, 5*time.Minute, "create_post"), s.CreatePost)
	posts.Get("/user/:username", s.GetUserPosts)
	posts.Post("/:id/like", s.ToggleLike)
	posts.Post("/:id/comment", middleware.RateLimit(s.redis, 15, time.Minute, "create_comment"), s.CreateComment)
	posts.Delete("/:id/comment/:commentId", s.DeleteComment)
	posts.Get("/:id", s.GetPost)
	posts.Put("/:id", s.UpdatePost)
	posts.Delete("/:id", s.DeletePost)

	// Message routes
	messages := protected.Group("/messages")
	messages.Post("/", middleware.RateLimit(s.redis, 30, time.Minute, "send_message"), s.SendMessage)
	messages.Get("/chats", s.GetChats)
	messages.Get("/unread", s.GetUnreadMessageCount)
	messages.Put("/:recipientId/read", s.MarkConversationRead)
	messages.Get("/:recipientId", s.GetConversation)

	// Story routes
	stories := protected.Group("/stories")
	stories.Post("/", s.CreateStory)
	stories.Get("/", s.GetStoryFeed)
	stories.Get("/user/:id", s.GetUserStories)
	stories.Delete("/:id", s.DeleteStory)

	// Notification routes
	notifications := protected.Group("/notifications")
	notifications.Get("/", s.GetNotifications)
	notifications.Get("/unread", s.GetUnreadNotificationCount)
	notifications.Put("/read", s.MarkAllNotificationsRead)
	notifications.Put("/:id/read", s.MarkNotificationRead)
	notifications.Delete("/clear", s.ClearNotifications)
	notifications.Delete("/:id", s.DeleteNotification)

	// Report routes
	protected.Post("/reports", middleware.RateLimit(s.redis, 10, 10*time.Minute, "create_report"), s.CreateReport)

	// Admin routes
	admin := protected.Group("/admin", s.AdminRequired())
	admin.Get("/stats", s.GetAdminStats)
	admin.Get("/users", s.GetAdminUsers)
	admin.Put("/users/:id/flags", s.UpdateUserFlags)
	admin.Delete("/users/:id", s.DeleteUser)
	admin.Get("/reports", s.GetAdminReports)
	admin.Put("/reports/:id", s.ResolveReport)
	admin.Delete("/posts/:id", s.AdminDeletePost)

	// WebSocket endpoint
	api.Get("/ws", middleware.WebSocketAuthRequired, s.WebSocketHandler())
}

// LivenessCheck handles liveness probe requests.
func (s *Server) LivenessCheck(c *fiber.Ctx) error {
	return c.Status(fiber.StatusOK).JSON(fiber.Map{
		"status": "up",
		"time":   time.Now(),
	})
}

// ReadinessCheck handles readiness probe requests.
func (s *Server) ReadinessCheck(c *fiber.Ctx) error {
	ctx, cancel := context.WithTimeout(c.Context(), 5*time.Second)
	defer cancel()

	dbStatus := "healthy"
	sqlDB, err := s.db.DB()
	if err != nil {
		dbStatus = "unhealthy"
	} else if err := sqlDB.PingContext(ctx); err != nil {
		dbStatus = "unhealthy"
	}

	redisStatus := "healthy"
	if s.redis != nil {
		if err := s.redis.Ping(ctx).Err(); err != nil {
			redisStatus = "unhealthy"
		}
	} else {
		// The API serves without Redis; realtime delivery degrades.
		redisStatus = "unavailable"
	}

	status := fiber.StatusOK
	overallStatus := "healthy"
	if dbStatus == "unhealthy" {
		status = fiber.StatusServiceUnavailable
		overallStatus = "unhealthy"
	}

	return c.Status(status).JSON(fiber.Map{
		"status": overallStatus,
		"checks": fiber.Map{
			"database": dbStatus,
			"redis":    redisStatus,
		},
		"time": time.Now(),
	})
}

// AdminRequired returns middleware that rejects non-admin users with 403.
// Must be placed after AuthRequired so that userID is available in locals.
func (s *Server) AdminRequired() fiber.Handler {
	return func(c *fiber.Ctx) error {
		userID := c.Locals("userID").(uint)

		user, err := s.userRepo.GetByID(c.Context(), userID)
		if err != nil {
			return models.RespondError(c, err)
		}
		if !user.IsAdmin {
			return models.RespondWithError(c, fiber.StatusForbidden,
				models.NewForbiddenError("Admin access required"))
		}
		return c.Next()
	}
}

// Start starts the server.
func (s *Server) Start() error {
	ctx, cancel := context.WithCancel(context.Background())
	s.shutdownCtx = ctx
	s.shutdownFn = cancel

	app := fiber.New(fiber.Config{
		AppName: "SocialPulse API",
		ErrorHandler: func(c *fiber.Ctx, err error) error {
			observability.Logger.ErrorContext(c.UserContext(), "unhandled request error",
				slog.String("path", c.Path()),
				slog.String("error", err.Error()))
			return models.RespondError(c, models.NewInternalError(err))
		},
	})
	s.app = app

	s.SetupMiddleware(app)
	s.SetupRoutes(app)

	go func() {
		if err := s.hub.StartWiring(s.shutdownCtx, s.notifier); err != nil {
			observability.Logger.Error("hub wiring failed", slog.String("error", err.Error()))
		}
	}()

	// Background reaper reclaims storage for stories that already expired.
	s.storyService.StartReaper(s.shutdownCtx, time.Hour)

	observability.Logger.Info("server starting", slog.String("port", s.config.Port))
	return app.Listen(":" + s.config.Port)
}

// Shutdown gracefully shuts down the server.
func (s *Server) Shutdown(ctx context.Context) error {
	if s.shutdownFn != nil {
		s.shutdownFn()
	}

	if s.app != nil {
		if err := s.app.ShutdownWithContext(ctx); err != nil {
			observability.Logger.Error("error shutting down HTTP server", slog.String("error", err.Error()))
		}
	}

	if s.hub != nil {
		if err := s.hub.Shutdown(ctx); err != nil {
			observability.Logger.Error("error shutting down hub", slog.String("error", err.Error()))
		}
	}

	if sqlDB, err := s.db.DB(); err == nil {
		if cerr := sqlDB.Close(); cerr != nil {
			observability.Logger.Error("error closing sql DB", slog.String("error", cerr.Error()))
		}
	}

	if s.redis != nil {
		if rerr := s.redis.Close(); rerr != nil {
			observability.Logger.Error("error closing redis", slog.String("error", rerr.Error()))
		}
	}

	observability.Logger.Info("server shutdown complete")
	return nil
}
