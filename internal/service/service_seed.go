package service

import (
	"context"
	"errors"
	"fmt"

	"github.com/MKhiriev/gesture-sense/internal/config"
	"github.com/MKhiriev/gesture-sense/internal/logger"
	"github.com/MKhiriev/gesture-sense/internal/store"
	"github.com/MKhiriev/gesture-sense/models"
)

// Development account created by EnsureDefaultUser.
const (
	DefaultUserEmail    = "default@example.com"
	DefaultUserPassword = "default-password"
	DefaultUserName     = "Default User"
	DefaultUserBio      = "This is a default user for development"
	DefaultUserAvatar   = "/placeholder-user.jpg"
)

type seedService struct {
	userService UserService
	environment string
	logger      *logger.Logger
}

func NewSeedService(userService UserService, cfg config.App, logger *logger.Logger) SeedService {
	return &seedService{
		userService: userService,
		environment: cfg.Environment,
		logger:      logger,
	}
}

// EnsureDefaultUser returns the development account, creating it on first
// use. Concurrent callers may race on creation; the loser re-reads the row
// written by the winner.
func (s *seedService) EnsureDefaultUser(ctx context.Context) (models.User, error) {
	log := logger.FromContext(ctx)

	if s.environment == config.EnvironmentProduction {
		log.Warn().Msg("seeding requested in production")
		return models.User{}, ErrSeedForbidden
	}

	existing, err := s.userService.GetUserByEmail(ctx, DefaultUserEmail)
	if err != nil {
		return models.User{}, fmt.Errorf("default user lookup failed: %w", err)
	}
	if existing != nil {
		return *existing, nil
	}

	created, err := s.userService.CreateUser(ctx, models.CreateUserData{
		Email:    DefaultUserEmail,
		Password: DefaultUserPassword,
		Name:     DefaultUserName,
		Bio:      DefaultUserBio,
		Avatar:   DefaultUserAvatar,
	})
	if errors.Is(err, store.ErrEmailAlreadyExists) {
		existing, err = s.userService.GetUserByEmail(ctx, DefaultUserEmail)
		if err != nil {
			return models.User{}, fmt.Errorf("default user lookup failed: %w", err)
		}
		if existing == nil {
			return models.User{}, fmt.Errorf("default user vanished after creation race: %w", store.ErrUserNotFound)
		}
		return *existing, nil
	}
	if err != nil {
		return models.User{}, fmt.Errorf("default user creation failed: %w", err)
	}

	log.Info().Str("user_id", created.ID).Msg("default user created")

	return created, nil
}
