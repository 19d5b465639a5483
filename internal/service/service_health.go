package service

import (
	"context"
	"fmt"

	"github.com/MKhiriev/gesture-sense/internal/logger"
	"github.com/MKhiriev/gesture-sense/internal/store"
)

type healthService struct {
	userRepository store.UserRepository
	logger         *logger.Logger
}

func NewHealthService(userRepository store.UserRepository, logger *logger.Logger) HealthService {
	return &healthService{userRepository: userRepository, logger: logger}
}

// Check pings the database.
func (h *healthService) Check(ctx context.Context) error {
	if err := h.userRepository.Ping(ctx); err != nil {
		logger.FromContext(ctx).Err(err).Str("func", "healthService.Check").Msg("database ping failed")
		return fmt.Errorf("database is unreachable: %w", err)
	}

	return nil
}
