package http

import (
	"net/http"

	"github.com/go-chi/chi/v5"

	"github.com/MKhiriev/gesture-sense/internal/utils"
	"github.com/MKhiriev/gesture-sense/internal/validators"
)

func (h *Handler) getPreferences(w http.ResponseWriter, r *http.Request) {
	id := chi.URLParam(r, "id")

	prefs, err := h.services.UserService.GetUserPreferences(r.Context(), id)
	if err != nil {
		h.writeError(w, r, err, "Failed to fetch preferences")
		return
	}
	if prefs == nil {
		utils.WriteError(w, msgPreferencesNotFound, http.StatusNotFound)
		return
	}

	utils.WriteJSON(w, prefs, http.StatusOK)
}

func (h *Handler) updatePreferences(w http.ResponseWriter, r *http.Request) {
	id := chi.URLParam(r, "id")

	body, ok := readBody(w, r)
	if !ok {
		return
	}

	update, err := validators.DecodePreferencesUpdate(body)
	if err != nil {
		h.writeError(w, r, err, "Failed to update preferences")
		return
	}

	prefs, err := h.services.UserService.UpdateUserPreferences(r.Context(), id, update)
	if err != nil {
		h.writeError(w, r, err, "Failed to update preferences")
		return
	}

	utils.WriteJSON(w, prefs, http.StatusOK)
}
