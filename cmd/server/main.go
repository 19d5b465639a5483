package main

import (
	"context"
	"fmt"
	"os"

	"github.com/MKhiriev/gesture-sense/internal/config"
	"github.com/MKhiriev/gesture-sense/internal/handler"
	"github.com/MKhiriev/gesture-sense/internal/logger"
	"github.com/MKhiriev/gesture-sense/internal/server"
	"github.com/MKhiriev/gesture-sense/internal/service"
	"github.com/MKhiriev/gesture-sense/internal/store"
	"github.com/MKhiriev/gesture-sense/models"
)

var (
	buildVersion string
	buildDate    string
	buildCommit  string
)

func main() {
	buildInfo := models.NewAppBuildInfo(buildVersion, buildDate, buildCommit)
	printBuildInfo(buildInfo)

	cfg, err := config.GetStructuredConfig(os.Args[1:])
	if err != nil {
		logger.NewLogger("gesture-sense-server", "").Fatal().Err(err).Msg("error getting configs")
	}

	log := logger.NewLogger("gesture-sense-server", cfg.App.LogLevel)
	log.Debug().Str("environment", cfg.App.Environment).Str("driver", cfg.Storage.DB.Driver).Msg("received configs")

	ctx := context.Background()

	db, err := store.NewConnect(ctx, cfg.Storage.DB, log)
	if err != nil {
		log.Fatal().Err(err).Msg("error connecting to database")
	}
	defer db.Close()

	if err = db.Migrate(ctx); err != nil {
		log.Fatal().Err(err).Msg("error applying migrations")
	}

	repositories := store.NewRepositories(db, log)

	services, err := service.NewServices(repositories, cfg, buildInfo, log)
	if err != nil {
		log.Fatal().Err(err).Msg("error creating services")
	}

	if cfg.App.IsDevelopment() {
		user, seedErr := services.SeedService.EnsureDefaultUser(ctx)
		if seedErr != nil {
			log.Error().Err(seedErr).Msg("error seeding default user")
		} else {
			log.Info().Str("user_id", user.ID).Str("email", user.Email).Msg("default user ready")
		}
	}

	handlers, err := handler.NewHandlers(services, cfg, log)
	if err != nil {
		log.Fatal().Err(err).Msg("error creating handlers")
	}

	srv, err := server.NewServer(handlers, cfg.Server, log)
	if err != nil {
		log.Fatal().Err(err).Msg("error creating server")
	}

	srv.RunServer()
}

func printBuildInfo(info models.AppBuildInfo) {
	fmt.Printf("Build version: %s\n", orNA(info.BuildVersion()))
	fmt.Printf("Build date: %s\n", orNA(info.BuildDate()))
	fmt.Printf("Build commit: %s\n", orNA(info.BuildCommit()))
}

func orNA(s string) string {
	if s == "" {
		return "N/A"
	}
	return s
}
