package http

import (
	"net/http"

	"github.com/MKhiriev/gesture-sense/internal/utils"
)

// seed returns the development account, creating it when absent.
func (h *Handler) seed(w http.ResponseWriter, r *http.Request) {
	user, err := h.services.SeedService.EnsureDefaultUser(r.Context())
	if err != nil {
		h.writeError(w, r, err, "Failed to seed database")
		return
	}

	utils.WriteJSON(w, user, http.StatusOK)
}
