package http

import (
	"net/http"

	"github.com/MKhiriev/gesture-sense/internal/logger"
	"github.com/MKhiriev/gesture-sense/internal/utils"
	"github.com/MKhiriev/gesture-sense/internal/validators"
	"github.com/MKhiriev/gesture-sense/models"
)

func (h *Handler) register(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()
	log := logger.FromRequest(r)

	var req models.RegisterRequest
	if !decodeJSON(w, r, &req) {
		return
	}
	req.Email = validators.NormalizeEmail(req.Email)

	if err := h.validator.Validate(ctx, req); err != nil {
		h.writeError(w, r, err, "Failed to create user")
		return
	}

	existing, err := h.services.UserService.GetUserByEmail(ctx, req.Email)
	if err != nil {
		h.writeError(w, r, err, "Failed to create user")
		return
	}
	if existing != nil {
		log.Debug().Str("email", req.Email).Msg("email already registered")
		utils.WriteError(w, msgUserAlreadyExists, http.StatusBadRequest)
		return
	}

	user, err := h.services.UserService.CreateUser(ctx, models.CreateUserData{
		Email:    req.Email,
		Password: req.Password,
		Name:     req.Name,
	})
	if err != nil {
		h.writeError(w, r, err, "Failed to create user")
		return
	}

	log.Info().Str("user_id", user.ID).Msg("user registered")
	utils.WriteJSON(w, user, http.StatusCreated)
}

func (h *Handler) login(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()
	log := logger.FromRequest(r)

	var req models.LoginRequest
	if !decodeJSON(w, r, &req) {
		return
	}
	req.Email = validators.NormalizeEmail(req.Email)

	if err := h.validator.Validate(ctx, req); err != nil {
		h.writeError(w, r, err, "Authentication failed")
		return
	}

	user, err := h.services.UserService.ValidatePassword(ctx, req.Email, req.Password)
	if err != nil {
		h.writeError(w, r, err, "Authentication failed")
		return
	}
	if user == nil {
		log.Debug().Str("email", req.Email).Msg("invalid credentials")
		utils.WriteError(w, msgInvalidCredentials, http.StatusUnauthorized)
		return
	}

	utils.WriteJSON(w, user, http.StatusOK)
}
