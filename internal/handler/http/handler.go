package http

import (
	"net/http"
	"time"

	"github.com/MKhiriev/gesture-sense/internal/config"
	"github.com/MKhiriev/gesture-sense/internal/logger"
	"github.com/MKhiriev/gesture-sense/internal/service"
	"github.com/MKhiriev/gesture-sense/internal/utils"
	"github.com/MKhiriev/gesture-sense/internal/validators"
)

type Handler struct {
	services  *service.Services
	validator validators.Validator

	// authLimiter throttles login and registration per client IP.
	authLimiter *ipRateLimiter

	// trustProxyHeaders lets X-Forwarded-For and X-Real-IP name the client.
	trustProxyHeaders bool

	requestTimeout time.Duration

	// exposeErrors puts internal error text into 500 responses. Enabled in
	// development only.
	exposeErrors bool

	logger *logger.Logger
}

func NewHandler(services *service.Services, cfg config.Server, app config.App, logger *logger.Logger) *Handler {
	logger.Info().Msg("http handler created")
	return &Handler{
		services:          services,
		validator:         validators.NewRequestValidator(),
		authLimiter:       newIPRateLimiter(cfg.AuthRateLimitRPS, cfg.AuthRateLimitBurst, defaultLimiterIdleTTL),
		trustProxyHeaders: cfg.TrustProxyHeaders,
		requestTimeout:    cfg.RequestTimeout,
		exposeErrors:      app.IsDevelopment(),
		logger:            logger,
	}
}

func (h *Handler) clientIP(r *http.Request) string {
	return utils.ClientIP(r, h.trustProxyHeaders)
}
