package http

import (
	"net/http"

	"github.com/MKhiriev/gesture-sense/internal/logger"
	"github.com/MKhiriev/gesture-sense/internal/utils"
	"github.com/MKhiriev/gesture-sense/models"
)

func (h *Handler) health(w http.ResponseWriter, r *http.Request) {
	if err := h.services.HealthService.Check(r.Context()); err != nil {
		logger.FromRequest(r).Err(err).Msg("health check failed")
		utils.WriteError(w, msgDatabaseUnreachable, http.StatusServiceUnavailable)
		return
	}

	utils.WriteJSON(w, models.HealthStatus{Status: "ok"}, http.StatusOK)
}
