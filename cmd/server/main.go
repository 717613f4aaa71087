package main

import (
	"context"
	"log"
	"os"
	"strconv"

	"github.com/rs/zerolog"
	"github.com/scribely/backend/internal/events"
	"github.com/scribely/backend/internal/router"
	"github.com/scribely/backend/pkg/config"
	"github.com/scribely/backend/validators"
	"github.com/labstack/echo/v4"
)

func main() {
	// Load configuration
	cfg := config.Load()

	// Initialize database connection
	db, err := config.InitDB(cfg.DatabaseURL)
	if err != nil {
		log.Fatalf("Failed to initialize database: %v", err)
	}
	defer config.CloseDB(db)

	logger := zerolog.New(os.Stderr).With().Timestamp().Str("service", "scribely").Logger()

	// Publication event bus feeding the notification dispatcher
	buffer, err := strconv.Atoi(cfg.EventBuffer)
	if err != nil {
		buffer = 64
	}
	bus := events.NewBus(buffer)
	defer bus.Close()

	// Create Echo instance
	e := echo.New()

	// Setup global middleware
	router.SetupMiddleware(e)

	// Setup routes and dependencies
	dispatcher := router.SetupRoutes(e, db, bus, logger)

	// Run the fan-out dispatcher alongside the server
	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()
	go dispatcher.Run(ctx, bus)

	// Validator
	e.Validator = validators.NewValidator()

	// Start server
	e.Logger.Fatal(e.Start(":" + cfg.Port))
}
