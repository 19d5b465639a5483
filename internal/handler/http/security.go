package http

import (
	"net/http"

	"github.com/go-chi/chi/v5"

	"github.com/MKhiriev/gesture-sense/internal/logger"
	"github.com/MKhiriev/gesture-sense/internal/utils"
	"github.com/MKhiriev/gesture-sense/internal/validators"
	"github.com/MKhiriev/gesture-sense/models"
)

func (h *Handler) getSecurity(w http.ResponseWriter, r *http.Request) {
	id := chi.URLParam(r, "id")

	security, err := h.services.UserService.GetUserSecurity(r.Context(), id)
	if err != nil {
		h.writeError(w, r, err, "Failed to fetch security settings")
		return
	}
	if security == nil {
		utils.WriteError(w, msgSecurityNotFound, http.StatusNotFound)
		return
	}

	utils.WriteJSON(w, security, http.StatusOK)
}

func (h *Handler) updateSecurity(w http.ResponseWriter, r *http.Request) {
	id := chi.URLParam(r, "id")

	body, ok := readBody(w, r)
	if !ok {
		return
	}

	update, err := validators.DecodeSecurityUpdate(body)
	if err != nil {
		h.writeError(w, r, err, "Failed to update security settings")
		return
	}

	security, err := h.services.UserService.UpdateUserSecurity(r.Context(), id, update)
	if err != nil {
		h.writeError(w, r, err, "Failed to update security settings")
		return
	}

	utils.WriteJSON(w, security, http.StatusOK)
}

func (h *Handler) createSession(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()
	id := chi.URLParam(r, "id")

	var req models.CreateSessionRequest
	if !decodeJSON(w, r, &req) {
		return
	}

	if err := h.validator.Validate(ctx, req); err != nil {
		h.writeError(w, r, err, "Failed to create session")
		return
	}

	session, err := h.services.UserService.CreateSession(ctx, id, req.Device, req.Browser)
	if err != nil {
		h.writeError(w, r, err, "Failed to create session")
		return
	}

	logger.FromRequest(r).Debug().Str("user_id", id).Str("session_id", session.ID).Msg("session created")
	utils.WriteJSON(w, session, http.StatusCreated)
}

func (h *Handler) revokeSession(w http.ResponseWriter, r *http.Request) {
	id := chi.URLParam(r, "id")
	sessionID := chi.URLParam(r, "sessionID")

	session, err := h.services.UserService.RevokeSession(r.Context(), id, sessionID)
	if err != nil {
		h.writeError(w, r, err, "Failed to revoke session")
		return
	}

	utils.WriteJSON(w, session, http.StatusOK)
}
