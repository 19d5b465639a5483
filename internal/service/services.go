package service

import (
	"fmt"

	"github.com/MKhiriev/gesture-sense/internal/config"
	"github.com/MKhiriev/gesture-sense/internal/logger"
	"github.com/MKhiriev/gesture-sense/internal/store"
	"github.com/MKhiriev/gesture-sense/internal/utils"
	"github.com/MKhiriev/gesture-sense/models"
)

type Services struct {
	UserService    UserService
	SeedService    SeedService
	AppInfoService AppInfoService
	HealthService  HealthService
}

func NewServices(repositories *store.Repositories, cfg *config.StructuredConfig, buildInfo models.AppBuildInfo, logger *logger.Logger) (*Services, error) {
	userService := NewUserService(
		repositories.UserRepository,
		utils.NewPasswordHasher(cfg.App.PasswordHashCost),
		utils.NewUUIDGenerator(),
		logger,
	)

	appInfoService, err := NewAppInfoService(cfg.App, buildInfo, logger)
	if err != nil {
		return nil, fmt.Errorf("error creating app info service: %w", err)
	}

	return &Services{
		UserService:    userService,
		SeedService:    NewSeedService(userService, cfg.App, logger),
		AppInfoService: appInfoService,
		HealthService:  NewHealthService(repositories.UserRepository, logger),
	}, nil
}
