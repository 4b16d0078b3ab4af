package main

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/isdelr/devconnector-be/internal/api"
	"github.com/isdelr/devconnector-be/internal/auth"
	"github.com/isdelr/devconnector-be/internal/config"
	"github.com/isdelr/devconnector-be/internal/database"
	"github.com/isdelr/devconnector-be/internal/logger"
	"github.com/isdelr/devconnector-be/internal/monitoring"
	"github.com/isdelr/devconnector-be/internal/services"
	"github.com/isdelr/devconnector-be/internal/websocket"
	"github.com/rs/zerolog/log"
)

func main() {
	// Load configuration
	cfg, err := config.Load()
	if err != nil {
		log.Fatal().Err(err).Msg("Failed to load configuration")
	}
	logger.Init(cfg.LogLevel, cfg.IsProduction())

	// Set up database
	db, err := database.New(cfg.DatabasePath)
	if err != nil {
		log.Fatal().Err(err).Msg("Failed to initialize database")
	}
	defer db.Close()

	if err := database.Migrate(db); err != nil {
		log.Fatal().Err(err).Msg("Failed to apply database migrations")
	}

	// Set up WebSocket Hub
	hub := websocket.NewHub()
	go hub.Run()

	// Set up services
	authenticator := auth.NewAuthenticator(cfg.JWTSecret)
	userService := services.NewUserService(db)
	eventService := services.NewEventService(db)
	profileService := services.NewProfileService(db, eventService)
	postService := services.NewPostService(db, userService, eventService, hub)
	githubService := services.NewGitHubService(cfg.GitHubAPIURL, cfg.GitHubClientID, cfg.GitHubClientSecret)

	// Set up and run the activity log pruner
	pruner := monitoring.NewEventPruner(eventService, cfg.EventRetention, cfg.EventPruneSchedule)
	if err := pruner.Start(); err != nil {
		log.Fatal().Err(err).Msg("Failed to start event pruner")
	}

	router := api.NewRouter(api.Dependencies{
		DB:             db,
		Authenticator:  authenticator,
		Hub:            hub,
		Users:          userService,
		Profiles:       profileService,
		Posts:          postService,
		Events:         eventService,
		GitHub:         githubService,
		AllowedOrigins: cfg.AllowedOrigins,
	})

	srv := &http.Server{
		Addr:              fmt.Sprintf(":%d", cfg.ServerPort),
		Handler:           router,
		ReadHeaderTimeout: 10 * time.Second,
	}

	// Graceful shutdown
	go func() {
		log.Info().Int("port", cfg.ServerPort).Str("env", cfg.AppEnv).Msg("Server starting")
		if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			log.Fatal().Err(err).Msg("ListenAndServe failed")
		}
	}()

	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
	<-quit
	log.Info().Msg("Shutting down server...")

	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()

	if err := srv.Shutdown(ctx); err != nil {
		log.Error().Err(err).Msg("Server forced to shutdown")
	}

	pruner.Stop()
	hub.Stop()

	log.Info().Msg("Server exiting")
}
