package http

import (
	"encoding/json"
	"io"
	"net/http"

	"github.com/go-chi/chi/v5"

	"github.com/MKhiriev/gesture-sense/internal/logger"
	"github.com/MKhiriev/gesture-sense/internal/utils"
	"github.com/MKhiriev/gesture-sense/internal/validators"
	"github.com/MKhiriev/gesture-sense/models"
)

// maxBodyBytes caps request bodies.
const maxBodyBytes = 1 << 20

func (h *Handler) getUser(w http.ResponseWriter, r *http.Request) {
	id := chi.URLParam(r, "id")

	user, err := h.services.UserService.GetUserByID(r.Context(), id)
	if err != nil {
		h.writeError(w, r, err, "Failed to fetch user")
		return
	}
	if user == nil {
		utils.WriteError(w, msgUserNotFound, http.StatusNotFound)
		return
	}

	utils.WriteJSON(w, user, http.StatusOK)
}

func (h *Handler) updateUser(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()
	log := logger.FromRequest(r)
	id := chi.URLParam(r, "id")

	body, ok := readBody(w, r)
	if !ok {
		return
	}

	update, err := validators.DecodeUserUpdate(body)
	if err != nil {
		h.writeError(w, r, err, "Failed to update user")
		return
	}

	user, err := h.services.UserService.UpdateUser(ctx, id, update)
	if err != nil {
		h.writeError(w, r, err, "Failed to update user")
		return
	}

	log.Debug().Str("user_id", id).Msg("user updated")
	utils.WriteJSON(w, user, http.StatusOK)
}

func (h *Handler) deleteUser(w http.ResponseWriter, r *http.Request) {
	id := chi.URLParam(r, "id")

	if err := h.services.UserService.DeleteUser(r.Context(), id); err != nil {
		h.writeError(w, r, err, "Failed to delete user")
		return
	}

	logger.FromRequest(r).Info().Str("user_id", id).Msg("user deleted")
	w.WriteHeader(http.StatusNoContent)
}

func (h *Handler) updateAvatar(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()
	id := chi.URLParam(r, "id")

	var req models.AvatarRequest
	if !decodeJSON(w, r, &req) {
		return
	}

	if err := h.validator.Validate(ctx, req); err != nil {
		h.writeError(w, r, err, "Failed to update avatar")
		return
	}

	user, err := h.services.UserService.UpdateUser(ctx, id, models.UserUpdate{Avatar: &req.Avatar})
	if err != nil {
		h.writeError(w, r, err, "Failed to update avatar")
		return
	}

	utils.WriteJSON(w, user, http.StatusOK)
}

func (h *Handler) changePassword(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()
	id := chi.URLParam(r, "id")

	var req models.ChangePasswordRequest
	if !decodeJSON(w, r, &req) {
		return
	}

	if err := h.validator.Validate(ctx, req); err != nil {
		h.writeError(w, r, err, "Failed to change password")
		return
	}

	if err := h.services.UserService.ChangePassword(ctx, id, req.CurrentPassword, req.NewPassword); err != nil {
		h.writeError(w, r, err, "Failed to change password")
		return
	}

	w.WriteHeader(http.StatusNoContent)
}

// readBody reads at most maxBodyBytes of the request body. On failure it
// writes a 400 response and returns false.
func readBody(w http.ResponseWriter, r *http.Request) ([]byte, bool) {
	body, err := io.ReadAll(http.MaxBytesReader(w, r.Body, maxBodyBytes))
	if err != nil {
		logger.FromRequest(r).Err(err).Msg("failed to read request body")
		utils.WriteError(w, msgInvalidJSON, http.StatusBadRequest)
		return nil, false
	}

	return body, true
}

// decodeJSON decodes the request body into dst. On failure it writes a 400
// response and returns false.
func decodeJSON(w http.ResponseWriter, r *http.Request, dst any) bool {
	if err := json.NewDecoder(http.MaxBytesReader(w, r.Body, maxBodyBytes)).Decode(dst); err != nil {
		logger.FromRequest(r).Err(err).Msg("Invalid JSON was passed")
		utils.WriteError(w, msgInvalidJSON, http.StatusBadRequest)
		return false
	}

	return true
}
