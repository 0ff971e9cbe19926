package router

import (
	"firebase.google.com/go/v4/auth"
	"github.com/labstack/echo/v4"
	eMiddleware "github.com/labstack/echo/v4/middleware"
	"github.com/rs/zerolog"
	"github.com/shahriar404/newsblog/backend/internal/ai"
	"github.com/shahriar404/newsblog/backend/internal/handlers"
	"github.com/shahriar404/newsblog/backend/internal/middleware"
	"github.com/shahriar404/newsblog/backend/internal/realtime"
	"github.com/shahriar404/newsblog/backend/internal/repositories"
	"github.com/shahriar404/newsblog/backend/pkg/config"
	"go.mongodb.org/mongo-driver/mongo"
)

// SetupMiddleware configures global Echo middleware
func SetupMiddleware(e *echo.Echo, cfg *config.Config) {
	e.Use(eMiddleware.Recover())
	e.Use(eMiddleware.CORSWithConfig(eMiddleware.CORSConfig{
		AllowOrigins:     []string{cfg.ClientOrigin},
		AllowMethods:     []string{"GET", "POST", "PUT", "DELETE", "PATCH", "OPTIONS"},
		AllowHeaders:     []string{"Content-Type", "Authorization", "X-Requested-With", "Accept"},
		AllowCredentials: true,
	}))
}

// SetupRoutes configures all application routes and injects dependencies
func SetupRoutes(
	e *echo.Echo,
	cfg *config.Config,
	mgClient *mongo.Client,
	firebaseAuthClient *auth.Client,
	aiService *ai.Service,
	log zerolog.Logger,
) {
	db := mgClient.Database(cfg.MongoDatabase)

	// --- Initialize Repositories ---
	userRepo := repositories.NewMongoUserRepository(db)
	blogRepo := repositories.NewMongoBlogRepository(db)
	notificationRepo := repositories.NewMongoNotificationRepository(db)

	// --- Realtime transport ---
	hub := realtime.NewHub(log)
	dispatcher := realtime.NewDispatcher(hub, log)
	e.GET("/ws", realtime.ServeWS(hub, dispatcher))
	log.Info().Msg("websocket transport configured")

	// Health check - always accessible
	e.GET("/health", handlers.HealthCheck)

	// --- User routes ---
	userGroup := e.Group("/api/v1/user")
	authHandler := handlers.NewAuthHandler(userRepo, firebaseAuthClient)
	authHandler.RegisterAuthRoutes(userGroup)

	protectedUser := e.Group("/api/v1/user")
	protectedUser.Use(middleware.JWTAuthMiddleware())
	userHandler := handlers.NewUserHandler(userRepo, notificationRepo, hub, log)
	userHandler.RegisterUserRoutes(protectedUser)
	notificationHandler := handlers.NewNotificationHandler(notificationRepo, userRepo, blogRepo, hub, log)
	notificationHandler.RegisterNotificationRoutes(protectedUser)
	log.Info().Msg("user routes configured")

	// --- Blog routes ---
	blogHandler := handlers.NewBlogHandler(blogRepo, userRepo)
	publicBlog := e.Group("/api/v1/blog")
	blogHandler.RegisterPublicBlogRoutes(publicBlog)
	protectedBlog := e.Group("/api/v1/blog")
	protectedBlog.Use(middleware.JWTAuthMiddleware())
	blogHandler.RegisterBlogRoutes(protectedBlog)
	log.Info().Msg("blog routes configured")

	// --- AI routes ---
	aiGroup := e.Group("/api/ai")
	aiHandler := handlers.NewAIHandler(aiService)
	aiHandler.RegisterAIRoutes(aiGroup)

	log.Info().Msg("all routes configured")
}
