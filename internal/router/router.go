package router

import (
	"log"

	"github.com/rs/zerolog"
	"github.com/scribely/backend/internal/dispatch"
	"github.com/scribely/backend/internal/events"
	"github.com/scribely/backend/internal/handlers"
	"github.com/scribely/backend/internal/middleware"
	"github.com/scribely/backend/internal/models"
	"github.com/scribely/backend/internal/repositories"
	"github.com/labstack/echo/v4"
	eMiddleware "github.com/labstack/echo/v4/middleware"
	"gorm.io/gorm"
)

// SetupMiddleware configures global Echo middleware
func SetupMiddleware(e *echo.Echo) {
	e.Use(eMiddleware.Recover())
	e.Use(eMiddleware.CORS())
	log.Println("Global middleware configured.")
}

// SetupRoutes configures all application routes, wires the repositories, and
// returns the notification dispatcher for the caller to run.
func SetupRoutes(e *echo.Echo, db *gorm.DB, bus *events.Bus, logger zerolog.Logger) *dispatch.Dispatcher {
	// AutoMigrate models
	err := db.AutoMigrate(
		&models.User{},
		&models.Post{},
		&models.Favorite{},
		&models.Notification{},
	)
	if err != nil {
		log.Fatalf("Failed to auto migrate models: %v", err)
	}
	log.Println("Auto-migrations completed for all models.")

	// Health check - always accessible
	e.GET("/health", handlers.HealthCheck)

	// --- Initialize Repositories ---
	checker := repositories.NewGormEntityChecker(db)
	favoriteRepo := repositories.NewPostgresFavoriteRepository(db, checker)
	notificationRepo := repositories.NewPostgresNotificationRepository(db)
	userRepo := repositories.NewPostgresUserRepository(db, favoriteRepo, notificationRepo)
	postRepo := repositories.NewPostgresPostRepository(db, favoriteRepo, notificationRepo)

	// --- Notification fan-out ---
	sender := dispatch.NewLogSender(logger)
	dispatcher := dispatch.NewDispatcher(favoriteRepo, notificationRepo, postRepo, userRepo, sender, logger)

	// --- Unprotected routes ---
	public := e.Group("/api/v1")
	userHandler := handlers.NewUserHandler(userRepo)
	public.POST("/users", userHandler.CreateUser)

	// --- Protected routes (require JWT authentication) ---
	api := e.Group("/api/v1")
	api.Use(middleware.JWTAuthMiddleware())
	log.Println("JWT authentication middleware applied to /api/v1 group.")

	// User routes
	api.GET("/users", userHandler.GetUsers)
	api.GET("/users/:id", userHandler.GetUser)
	api.PUT("/profile", userHandler.UpdateProfile)
	api.DELETE("/profile", userHandler.DeleteProfile)
	log.Println("User routes configured.")

	// Post routes
	postHandler := handlers.NewPostHandler(postRepo, bus)
	postHandler.RegisterPostRoutes(api)
	log.Println("Post routes configured.")

	// Favorite routes
	favoriteHandler := handlers.NewFavoriteHandler(favoriteRepo)
	favoriteHandler.RegisterFavoriteRoutes(api)
	log.Println("Favorite routes configured.")

	// Notification routes
	notificationHandler := handlers.NewNotificationHandler(notificationRepo, userRepo)
	notificationHandler.RegisterNotificationRoutes(api)
	log.Println("Notification routes configured.")

	log.Println("All routes configured.")
	return dispatcher
}
