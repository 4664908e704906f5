// Package server contains the HTTP handlers for the WhiskAway API.
package server

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"time"

	_ "whiskaway/docs" // swagger docs
	"whiskaway/internal/cache"
	"whiskaway/internal/config"
	"whiskaway/internal/database"
	"whiskaway/internal/middleware"
	"whiskaway/internal/models"
	"whiskaway/internal/notifications"
	"whiskaway/internal/repository"
	"whiskaway/internal/service"
	"whiskaway/internal/validation"

	"github.com/ansrivas/fiberprometheus/v2"
	"github.com/go-playground/validator/v10"
	"github.com/gofiber/fiber/v2"
	"github.com/gofiber/fiber/v2/middleware/cors"
	"github.com/gofiber/fiber/v2/middleware/helmet"
	"github.com/gofiber/fiber/v2/middleware/limiter"
	"github.com/gofiber/fiber/v2/middleware/recover"
	"github.com/gofiber/fiber/v2/middleware/requestid"
	"github.com/gofiber/swagger"
	"github.com/redis/go-redis/v9"
	"go.mongodb.org/mongo-driver/mongo"
	"gorm.io/gorm"
)

// Server holds all dependencies and provides handlers
type Server struct {
	config         *config.Config
	db             *gorm.DB
	redis          *redis.Client
	mongoClient    *mongo.Client
	mongoDB        *mongo.Database
	app            *fiber.App
	promMiddleware *fiberprometheus.FiberPrometheus
	validate       *validator.Validate
	shutdownCtx    context.Context
	shutdownFn     context.CancelFunc
	notifier       *notifications.Notifier

	accountRepo repository.AccountRepository
	profileRepo repository.ProfileRepository

	accountService      *service.AccountService
	profileService      *service.ProfileService
	friendService       *service.FriendService
	recipeService       *service.RecipeService
	interactionService  *service.InteractionService
	messageService      *service.MessageService
	notificationService *service.NotificationService
	cookbookService     *service.CookbookService
}

// Option customizes a Server built by NewServerWithDeps.
type Option func(*Server)

// WithMongo stores notifications in db instead of the SQL database.
func WithMongo(db *mongo.Database) Option {
	return func(s *Server) { s.mongoDB = db }
}

// NewServer creates a new server instance with all dependencies
func NewServer(cfg *config.Config) (*Server, error) {
	db, err := database.Connect(cfg)
	if err != nil {
		return nil, fmt.Errorf("database connection failed: %w", err)
	}

	cache.InitRedis(cfg.RedisURL)

	var opts []Option
	var mongoClient *mongo.Client
	if cfg.NotificationStore == config.NotificationStoreMongo {
		client, mdb, err := database.ConnectMongo(context.Background(), cfg)
		if err != nil {
			return nil, fmt.Errorf("mongo connection failed: %w", err)
		}
		if err := repository.EnsureNotificationIndexes(context.Background(), mdb); err != nil {
			return nil, fmt.Errorf("mongo indexes: %w", err)
		}
		mongoClient = client
		opts = append(opts, WithMongo(mdb))
	}

	s, err := NewServerWithDeps(cfg, db, cache.GetClient(), opts...)
	if err != nil {
		return nil, err
	}
	s.mongoClient = mongoClient
	return s, nil
}

// NewServerWithDeps creates a Server using already-initialized dependencies.
// Use this in tests or when a bootstrap layer establishes DB/Redis itself.
func NewServerWithDeps(cfg *config.Config, db *gorm.DB, redisClient *redis.Client, opts ...Option) (*Server, error) {
	if db == nil {
		return nil, errors.New("server requires a database")
	}

	s := &Server{
		config:         cfg,
		db:             db,
		redis:          redisClient,
		promMiddleware: middleware.InitMetrics("whiskaway-api"),
		validate:       validation.New(),
	}
	for _, opt := range opts {
		opt(s)
	}

	s.accountRepo = repository.NewAccountRepository(db)
	s.profileRepo = repository.NewProfileRepository(db)
	friendRepo := repository.NewFriendRepository(db)
	recipeRepo := repository.NewRecipeRepository(db)
	likeRepo := repository.NewLikeRepository(db)
	commentRepo := repository.NewCommentRepository(db)
	messageRepo := repository.NewMessageRepository(db)
	cookbookRepo := repository.NewCookbookRepository(db)

	var notificationRepo repository.NotificationRepository
	if s.mongoDB != nil {
		notificationRepo = repository.NewMongoNotificationRepository(s.mongoDB)
	} else {
		notificationRepo = repository.NewNotificationRepository(db)
	}

	s.notificationService = service.NewNotificationService(notificationRepo, s.profileRepo)
	s.accountService = service.NewAccountService(s.accountRepo, s.notificationService)
	s.profileService = service.NewProfileService(s.profileRepo)
	s.friendService = service.NewFriendService(friendRepo, s.profileRepo, s.notificationService)
	s.recipeService = service.NewRecipeService(recipeRepo, likeRepo, commentRepo)
	s.interactionService = service.NewInteractionService(s.recipeService, likeRepo, commentRepo, s.notificationService)
	s.messageService = service.NewMessageService(messageRepo, friendRepo, s.profileRepo)
	s.cookbookService = service.NewCookbookService(cookbookRepo, s.accountRepo, s.profileRepo, s.recipeService, s.notificationService)

	s.notificationService.Subscribe(logNotificationEvent)
	if redisClient != nil {
		s.notifier = notifications.NewNotifier(redisClient)
		s.notificationService.Subscribe(s.notifier.Subscriber())
	}

	return s, nil
}

func logNotificationEvent(ctx context.Context, event models.NotificationEvent) error {
	attrs := []any{
		slog.String("kind", string(event.Kind)),
		slog.Any("to_profile_id", event.ProfileID),
	}
	if event.Notification != nil {
		attrs = append(attrs,
			slog.Any("notification_id", event.Notification.ID),
			slog.String("type", string(event.Notification.Type)),
		)
	}
	middleware.Logger.DebugContext(ctx, "notification event", attrs...)
	return nil
}

// NewApp builds the Fiber app with middleware and routes installed.
func (s *Server) NewApp() *fiber.App {
	app := fiber.New(fiber.Config{
		AppName:      "WhiskAway API",
		ErrorHandler: s.errorHandler,
	})
	s.SetupMiddleware(app)
	s.SetupRoutes(app)
	return app
}

func (s *Server) errorHandler(c *fiber.Ctx, err error) error {
	var fe *fiber.Error
	if errors.As(err, &fe) {
		return c.Status(fe.Code).JSON(models.ErrorResponse{Error: fe.Message})
	}
	middleware.Logger.ErrorContext(c.UserContext(), "unhandled error",
		slog.String("path", c.Path()),
		slog.String("error", err.Error()),
	)
	return models.RespondWithError(c, fiber.StatusInternalServerError, models.NewInternalError(err))
}

// SetupMiddleware configures middleware for the Fiber app
func (s *Server) SetupMiddleware(app *fiber.App) {
	app.Use(recover.New())
	app.Use(requestid.New())
	app.Use(middleware.TracingMiddleware())

	// Context Middleware to propagate request and trace ids
	app.Use(middleware.ContextMiddleware())

	if s.promMiddleware != nil {
		app.Use(middleware.MetricsMiddleware(s.promMiddleware))
	}

	app.Use(helmet.New())
	app.Use(middleware.StructuredLogger())

	// CORS runs before the limiter so error responses still carry CORS headers.
	origins := s.config.AllowedOrigins
	if origins == "" {
		origins = "http://localhost:5173,http://localhost:3000,http://127.0.0.1:5173"
	}
	app.Use(cors.New(cors.Config{
		AllowOrigins:     origins,
		AllowHeaders:     "Origin, Content-Type, Accept, Authorization",
		AllowCredentials: true,
		MaxAge:           86400,
	}))

	app.Use(limiter.New(limiter.Config{
		Max:        100,
		Expiration: 1 * time.Minute,
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

// SetupRoutes configures all routes for the application
func (s *Server) SetupRoutes(app *fiber.App) {
	app.Get("/health/live", s.LivenessCheck)
	app.Get("/health/ready", s.ReadinessCheck)

	if s.promMiddleware != nil {
		s.promMiddleware.RegisterAt(app, "/metrics")
	}

	api := app.Group("/api")
	api.Get("/swagger/*", swagger.HandlerDefault)

	auth := api.Group("/auth")
	auth.Post("/register", middleware.RateLimit(s.redis, 5, 10*time.Minute, "register"), s.Register)
	auth.Post("/login", middleware.RateLimit(s.redis, 10, 5*time.Minute, "login"), s.Login)

	protected := api.Group("", s.AuthRequired(), s.AccountRequired())
	protected.Post("/auth/logout", s.Logout)

	// Profiles: /me before /:id
	protected.Get("/profiles/me", s.GetMyProfile)
	protected.Put("/profiles/me", s.UpdateMyProfile)
	protected.Get("/profiles/:id", s.GetProfile)

	protected.Post("/friend-request", middleware.RateLimit(s.redis, 10, 5*time.Minute, "friend_request"), s.SendFriendRequest)
	protected.Post("/friend-request/accept", s.AcceptFriendRequest)
	protected.Post("/friend-request/deny", s.DenyFriendRequest)
	protected.Put("/friends/remove", s.RemoveFriend)
	protected.Get("/friends/status/:profileId", s.GetFriendshipStatus)
	protected.Get("/friends/:profileId", s.GetFriends)
	protected.Get("/friend-requests/:profileId/sent", s.GetSentRequests)
	protected.Get("/friend-requests/:profileId", s.GetPendingRequests)

	recipes := protected.Group("/recipes")
	recipes.Post("/", s.CreateRecipe)
	recipes.Get("/", s.ListRecipes)
	recipes.Get("/mine", s.ListMyRecipes)
	recipes.Post("/external/:externalId", s.RegisterExternalRecipe)
	// Specific /:id/:resource routes before generic /:id
	recipes.Post("/:id/like", middleware.RateLimit(s.redis, 30, time.Minute, "like"), s.ToggleLike)
	recipes.Get("/:id/likes", s.GetLikes)
	recipes.Post("/:id/comments", middleware.RateLimit(s.redis, 10, time.Minute, "comment"), s.CreateComment)
	recipes.Get("/:id/comments/count", s.CountComments)
	recipes.Get("/:id/comments", s.GetComments)
	recipes.Get("/:id", s.GetRecipe)
	recipes.Put("/:id", s.UpdateRecipe)
	recipes.Delete("/:id", s.DeleteRecipe)

	messages := protected.Group("/messages")
	messages.Get("/latest", s.GetLatestMessages)
	messages.Get("/:otherProfileId", s.GetConversation)
	messages.Post("/", middleware.RateLimit(s.redis, 30, time.Minute, "send_message"), s.SendMessage)

	notifs := protected.Group("/notifications")
	notifs.Put("/read-all", s.MarkAllNotificationsRead)
	notifs.Put("/:id/read", s.MarkNotificationRead)
	notifs.Get("/:profileId/unread-count", s.GetUnreadCount)
	notifs.Get("/:profileId", s.GetNotifications)

	protected.Post("/cookbook", s.CreateCookbook)
	protected.Get("/cookbooks/mine", s.ListMyCookbooks)
	protected.Get("/cookbooks/invites", s.ListCookbookInvites)
	cookbook := protected.Group("/cookbook/:id")
	cookbook.Get("/", s.GetCookbook)
	cookbook.Put("/", s.UpdateCookbook)
	cookbook.Delete("/", s.DeleteCookbook)
	cookbook.Post("/recipes", s.AddCookbookRecipe)
	cookbook.Delete("/recipes/:recipeId", s.RemoveCookbookRecipe)
	cookbook.Post("/share", s.ShareCookbook)
	cookbook.Post("/share/accept", s.AcceptCookbookShare)

	admin := protected.Group("/admin", s.AdminRequired())
	admin.Delete("/accounts/:id", s.DeleteAccount)
}

// LivenessCheck handles liveness probe requests
func (s *Server) LivenessCheck(c *fiber.Ctx) error {
	return c.Status(fiber.StatusOK).JSON(fiber.Map{
		"status": "up",
		"time":   time.Now(),
	})
}

// ReadinessCheck handles readiness probe requests
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

	// Redis backs caching and fan-out only, so its absence degrades but does not fail readiness.
	redisStatus := "unavailable"
	if s.redis != nil {
		redisStatus = "healthy"
		if err := s.redis.Ping(ctx).Err(); err != nil {
			redisStatus = "unhealthy"
		}
	}

	checks := fiber.Map{
		"database": dbStatus,
		"redis":    redisStatus,
	}
	healthy := dbStatus == "healthy"

	if s.mongoDB != nil {
		mongoStatus := "healthy"
		if err := s.mongoDB.Client().Ping(ctx, nil); err != nil {
			mongoStatus = "unhealthy"
			healthy = false
		}
		checks["mongo"] = mongoStatus
	}

	status := fiber.StatusOK
	overallStatus := "healthy"
	if !healthy {
		status = fiber.StatusServiceUnavailable
		overallStatus = "unhealthy"
	}

	return c.Status(status).JSON(fiber.Map{
		"status": overallStatus,
		"checks": checks,
		"time":   time.Now(),
	})
}

// AuthRequired returns the authentication middleware
func (s *Server) AuthRequired() fiber.Handler {
	return middleware.JWTAuth(s.config.JWTSecret, cache.IsRevoked)
}

// AccountRequired rejects tokens whose account no longer exists with 401 and
// stores the loaded account in locals. Must be placed after AuthRequired.
func (s *Server) AccountRequired() fiber.Handler {
	return func(c *fiber.Ctx) error {
		account, err := s.accountService.GetAccount(c.UserContext(), currentAccountID(c))
		if models.HasCode(err, models.CodeNotFound) {
			return models.RespondWithError(c, fiber.StatusUnauthorized,
				models.NewUnauthorizedError("Account no longer exists"))
		}
		if err != nil {
			return models.RespondWithAppError(c, err)
		}
		c.Locals(localAccount, account)
		return c.Next()
	}
}

// AdminRequired returns middleware that rejects non-admin accounts with 403.
// Must be placed after AccountRequired.
func (s *Server) AdminRequired() fiber.Handler {
	return func(c *fiber.Ctx) error {
		account, ok := c.Locals(localAccount).(*models.Account)
		if !ok {
			return models.RespondWithError(c, fiber.StatusUnauthorized,
				models.NewUnauthorizedError("Authentication required"))
		}
		if !account.IsAdmin {
			return models.RespondWithError(c, fiber.StatusForbidden,
				models.NewForbiddenError("Admin access required"))
		}
		return c.Next()
	}
}

// Start starts the server
func (s *Server) Start() error {
	ctx, cancel := context.WithCancel(context.Background())
	s.shutdownCtx = ctx
	s.shutdownFn = cancel

	s.app = s.NewApp()

	middleware.Logger.Info("server starting", slog.String("port", s.config.Port))
	return s.app.Listen(":" + s.config.Port)
}

// Shutdown gracefully shuts down the server
func (s *Server) Shutdown(ctx context.Context) error {
	if s.shutdownFn != nil {
		s.shutdownFn()
	}

	if s.app != nil {
		if err := s.app.ShutdownWithContext(ctx); err != nil {
			middleware.Logger.Error("error shutting down HTTP server", slog.String("error", err.Error()))
		}
	}

	if sqlDB, err := s.db.DB(); err == nil {
		if cerr := sqlDB.Close(); cerr != nil {
			middleware.Logger.Error("error closing sql DB", slog.String("error", cerr.Error()))
		}
	}

	if s.mongoClient != nil {
		if err := s.mongoClient.Disconnect(ctx); err != nil {
			middleware.Logger.Error("error closing mongo", slog.String("error", err.Error()))
		}
	}

	if s.redis != nil {
		if rerr := s.redis.Close(); rerr != nil {
			middleware.Logger.Error("error closing redis", slog.String("error", rerr.Error()))
		}
	}

	middleware.Logger.Info("server shutdown complete")
	return nil
}
