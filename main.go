package main

import (
	"context"
	"fmt"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/rs/zerolog/log"

	"github.com/askora/askora-auth/internal/api"
	"github.com/askora/askora-auth/internal/auth"
	"github.com/askora/askora-auth/internal/config"
	"github.com/askora/askora-auth/internal/database"
	"github.com/askora/askora-auth/internal/logger"
	"github.com/askora/askora-auth/internal/monitoring"
	"github.com/askora/askora-auth/internal/services"
	"github.com/askora/askora-auth/internal/store"
)

func main() {
	logger.Init()

	// Load configuration
	cfg, err := config.Load()
	if err != nil {
		log.Fatal().Err(err).Msg("Failed to load configuration")
	}

	// Set up database
	db, err := database.New(cfg.DatabasePath)
	if err != nil {
		log.Fatal().Err(err).Msg("Failed to initialize database")
	}
	defer db.Close()

	if err := database.Migrate(db); err != nil {
		log.Fatal().Err(err).Msg("Failed to apply database migrations")
	}

	// Set up services
	userStore := store.NewUserStore(db)
	sessionStore := store.NewSessionStore(db)
	hasher := auth.NewPasswordHasher()
	issuer := auth.NewJWTIssuer([]byte(cfg.JWTSecret))
	authService := services.NewAuthService(userStore, sessionStore, hasher, issuer)

	// Set up and run the background session sweeper (hourly)
	sweeper, err := monitoring.NewSessionSweeper(authService, "0 * * * *")
	if err != nil {
		log.Fatal().Err(err).Msg("Failed to set up session sweeper")
	}
	go sweeper.Run()

	// Set up router
	router := api.NewRouter(authService, cfg.CORSOrigin)

	// Set up server
	srv := &http.Server{
		Addr:    fmt.Sprintf(":%d", cfg.ServerPort),
		Handler: router,
	}

	// Graceful shutdown
	go func() {
		log.Info().Int("port", cfg.ServerPort).Msg("Server starting")
		if err := srv.ListenAndServe(); err != http.ErrServerClosed {
			log.Fatal().Err(err).Msg("ListenAndServe()")
		}
	}()

	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
	<-quit
	log.Info().Msg("Shutting down server...")

	sweeper.Stop()

	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()

	if err := srv.Shutdown(ctx); err != nil {
		log.Fatal().Err(err).Msg("Server forced to shutdown")
	}

	log.Info().Msg("Server exiting")
}
