package handler

import (
	"github.com/MKhiriev/gesture-sense/internal/config"
	"github.com/MKhiriev/gesture-sense/internal/handler/http"
	"github.com/MKhiriev/gesture-sense/internal/logger"
	"github.com/MKhiriev/gesture-sense/internal/service"
)

type Handlers struct {
	HTTP *http.Handler
}

func NewHandlers(services *service.Services, cfg *config.StructuredConfig, logger *logger.Logger) (*Handlers, error) {
	logger.Info().Msg("creating new handlers...")

	if cfg.Server.HTTPAddress == "" {
		return nil, errNoHandlersAreCreated
	}

	return &Handlers{
		HTTP: http.NewHandler(services, cfg.Server, cfg.App, logger),
	}, nil
}
