package adapter

import (
	"context"
	"encoding/json"
	"fmt"
	"net/url"
	"strings"

	"github.com/MKhiriev/gesture-sense/internal/config"
	"github.com/MKhiriev/gesture-sense/internal/logger"
	"github.com/MKhiriev/gesture-sense/internal/utils"
	"github.com/MKhiriev/gesture-sense/models"
	"github.com/go-resty/resty/v2"
)

type httpServerAdapter struct {
	client *utils.HTTPClient

	logger *logger.Logger
}

// NewHTTPServerAdapter builds a [ServerAdapter] over resty. The address may
// omit the scheme, in which case http is assumed.
func NewHTTPServerAdapter(cfg config.ClientAdapter, logger *logger.Logger) (ServerAdapter, error) {
	baseURL, err := normalizeBaseURL(cfg.HTTPAddress)
	if err != nil {
		return nil, fmt.Errorf("invalid adapter http address: %w", err)
	}

	return &httpServerAdapter{
		client: utils.NewHTTPClient(baseURL, cfg.RequestTimeout),
		logger: logger,
	}, nil
}

func normalizeBaseURL(raw string) (string, error) {
	raw = strings.TrimSpace(raw)
	if raw == "" {
		return "", fmt.Errorf("empty address")
	}

	if !strings.Contains(raw, "://") {
		raw = "http://" + raw
	}

	u, err := url.Parse(raw)
	if err != nil {
		return "", err
	}
	if u.Scheme == "" || u.Host == "" {
		return "", fmt.Errorf("address must include host and scheme")
	}

	return strings.TrimRight(u.String(), "/"), nil
}

func (h *httpServerAdapter) Register(ctx context.Context, req models.RegisterRequest) (models.User, error) {
	resp, err := h.client.R().
		SetContext(ctx).
		SetBody(req).
		Post("/api/users/register")
	if err != nil {
		return models.User{}, fmt.Errorf("register request: %w", err)
	}

	return decodeUser(resp, "register")
}

func (h *httpServerAdapter) Login(ctx context.Context, req models.LoginRequest) (models.User, error) {
	resp, err := h.client.R().
		SetContext(ctx).
		SetBody(req).
		Post("/api/users/login")
	if err != nil {
		return models.User{}, fmt.Errorf("login request: %w", err)
	}

	return decodeUser(resp, "login")
}

func (h *httpServerAdapter) GetUser(ctx context.Context, id string) (models.User, error) {
	resp, err := h.client.R().
		SetContext(ctx).
		SetPathParam("id", id).
		Get("/api/users/{id}")
	if err != nil {
		return models.User{}, fmt.Errorf("get user request: %w", err)
	}

	return decodeUser(resp, "get user")
}

func (h *httpServerAdapter) UpdatePreferences(ctx context.Context, id string, update models.PreferencesUpdate) (models.Preferences, error) {
	resp, err := h.client.R().
		SetContext(ctx).
		SetPathParam("id", id).
		SetBody(update).
		Patch("/api/users/{id}/preferences")
	if err != nil {
		return models.Preferences{}, fmt.Errorf("update preferences request: %w", err)
	}
	if err = mapHTTPError(resp); err != nil {
		return models.Preferences{}, err
	}

	var prefs models.Preferences
	if err = json.Unmarshal(resp.Body(), &prefs); err != nil {
		return models.Preferences{}, fmt.Errorf("decode update preferences response: %w", err)
	}

	return prefs, nil
}

func (h *httpServerAdapter) DeleteUser(ctx context.Context, id string) error {
	resp, err := h.client.R().
		SetContext(ctx).
		SetPathParam("id", id).
		Delete("/api/users/{id}")
	if err != nil {
		return fmt.Errorf("delete user request: %w", err)
	}

	return mapHTTPError(resp)
}

func (h *httpServerAdapter) Seed(ctx context.Context) (models.User, error) {
	resp, err := h.client.R().
		SetContext(ctx).
		Post("/api/dev/seed")
	if err != nil {
		return models.User{}, fmt.Errorf("seed request: %w", err)
	}

	return decodeUser(resp, "seed")
}

func (h *httpServerAdapter) Health(ctx context.Context) error {
	resp, err := h.client.R().
		SetContext(ctx).
		Get("/api/health")
	if err != nil {
		return fmt.Errorf("health request: %w", err)
	}

	return mapHTTPError(resp)
}

func (h *httpServerAdapter) Version(ctx context.Context) (string, error) {
	resp, err := h.client.R().
		SetContext(ctx).
		SetHeader("Accept", "text/plain").
		Get("/api/version")
	if err != nil {
		return "", fmt.Errorf("version request: %w", err)
	}
	if err = mapHTTPError(resp); err != nil {
		return "", err
	}

	return strings.TrimSpace(resp.String()), nil
}

func decodeUser(resp *resty.Response, op string) (models.User, error) {
	if err := mapHTTPError(resp); err != nil {
		return models.User{}, err
	}

	var user models.User
	if err := json.Unmarshal(resp.Body(), &user); err != nil {
		return models.User{}, fmt.Errorf("decode %s response: %w", op, err)
	}

	return user, nil
}
