package main

import (
	"context"
	"io"
	"os"

	"github.com/labstack/echo/v4"
	"github.com/rs/zerolog"
	"github.com/rs/zerolog/log"
	"github.com/shahriar404/newsblog/backend/internal/ai"
	"github.com/shahriar404/newsblog/backend/internal/router"
	"github.com/shahriar404/newsblog/backend/internal/validators"
	"github.com/shahriar404/newsblog/backend/pkg/config"
	"github.com/shahriar404/newsblog/backend/pkg/firebase"

	fbauth "firebase.google.com/go/v4/auth"
)

func main() {
	// Load configuration
	cfg := config.Load()

	setupLogger(cfg.LogLevel)

	// Initialize database connection
	db, err := config.InitDB(cfg)
	if err != nil {
		log.Fatal().Err(err).Msg("failed to initialize database")
	}
	defer db.CloseDB()

	ctx := context.Background()

	// Firebase is optional; without credentials the federated login route is disabled
	var firebaseAuthClient *fbauth.Client
	if cfg.FirebaseCredentialsPath != "" {
		firebaseApp, err := firebase.InitFirebase(ctx, cfg.FirebaseCredentialsPath)
		if err != nil {
			log.Fatal().Err(err).Msg("failed to initialize Firebase")
		}
		firebaseAuthClient = firebaseApp.AuthClient
	} else {
		log.Warn().Msg("no Firebase credentials configured, federated login disabled")
	}

	// Gemini is optional; without an API key the AI assist route is disabled
	var aiService *ai.Service
	if cfg.GeminiAPIKey != "" {
		aiService, err = ai.NewService(ctx, cfg.GeminiAPIKey)
		if err != nil {
			log.Fatal().Err(err).Msg("failed to initialize Gemini client")
		}
		defer aiService.Close()
	} else {
		log.Warn().Msg("no Gemini API key configured, AI assistant disabled")
	}

	// Create Echo instance
	e := echo.New()
	e.HideBanner = true
	e.Validator = validators.NewValidator()

	// Setup global middleware
	router.SetupMiddleware(e, cfg)

	// Setup routes and dependencies
	router.SetupRoutes(e, cfg, db.Mongo, firebaseAuthClient, aiService, log.Logger)

	// Start server
	log.Info().Str("port", cfg.Port).Str("env", cfg.Env).Msg("starting server")
	if err := e.Start(":" + cfg.Port); err != nil {
		log.Fatal().Err(err).Msg("server stopped")
	}
}

func setupLogger(level string) {
	parsedLevel, err := zerolog.ParseLevel(level)
	if err != nil {
		parsedLevel = zerolog.InfoLevel
	}

	var output io.Writer = zerolog.ConsoleWriter{Out: os.Stderr}
	log.Logger = zerolog.New(output).Level(parsedLevel).With().Timestamp().Logger()
}
