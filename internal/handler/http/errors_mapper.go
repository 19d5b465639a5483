package http

import (
	"errors"
	"net/http"

	"github.com/MKhiriev/gesture-sense/internal/logger"
	"github.com/MKhiriev/gesture-sense/internal/service"
	"github.com/MKhiriev/gesture-sense/internal/store"
	"github.com/MKhiriev/gesture-sense/internal/utils"
	"github.com/MKhiriev/gesture-sense/internal/validators"
)

// Client-facing messages.
const (
	msgUserNotFound        = "User not found"
	msgPreferencesNotFound = "Preferences not found"
	msgSecurityNotFound    = "Security settings not found"
	msgSessionNotFound     = "Session not found"
	msgDuplicateSessionID  = "Duplicate session id"
	msgUserAlreadyExists   = "User already exists"
	msgInvalidCredentials  = "Invalid credentials"
	msgInvalidData         = "Invalid data provided"
	msgSeedForbidden       = "Not available in production"
	msgInvalidJSON         = "Invalid JSON body"
	msgTooManyRequests     = "Too many requests"
	msgDatabaseUnreachable = "Database is unreachable"
)

// errorResponse pairs a status with the message written to the client.
type errorResponse struct {
	status  int
	message string
}

// errorStatusMap maps domain errors to responses. Errors not listed here
// become 500 with the route's fallback message.
var errorStatusMap = map[error]errorResponse{
	service.ErrInvalidDataProvided: {http.StatusBadRequest, msgInvalidData},
	service.ErrInvalidCredentials:  {http.StatusUnauthorized, msgInvalidCredentials},
	service.ErrSeedForbidden:       {http.StatusForbidden, msgSeedForbidden},

	store.ErrEmailAlreadyExists:  {http.StatusBadRequest, msgUserAlreadyExists},
	store.ErrUserNotFound:        {http.StatusNotFound, msgUserNotFound},
	store.ErrPreferencesNotFound: {http.StatusNotFound, msgPreferencesNotFound},
	store.ErrSecurityNotFound:    {http.StatusNotFound, msgSecurityNotFound},
	store.ErrSessionNotFound:     {http.StatusNotFound, msgSessionNotFound},
	store.ErrDuplicateSessionID:  {http.StatusBadRequest, msgDuplicateSessionID},
}

func responseFromError(err error, fallback string) errorResponse {
	var validationErr *validators.ValidationError
	if errors.As(err, &validationErr) {
		return errorResponse{http.StatusBadRequest, validationErr.Message}
	}

	for target, resp := range errorStatusMap {
		if errors.Is(err, target) {
			return resp
		}
	}

	return errorResponse{http.StatusInternalServerError, fallback}
}

// writeError logs err and writes the mapped response. For 500 responses
// fallback is the message unless the handler exposes internal errors.
func (h *Handler) writeError(w http.ResponseWriter, r *http.Request, err error, fallback string) {
	log := logger.FromRequest(r)
	resp := responseFromError(err, fallback)

	if resp.status >= http.StatusInternalServerError {
		log.Err(err).Int("status", resp.status).Msg(fallback)
		if h.exposeErrors {
			resp.message = err.Error()
		}
	} else {
		log.Debug().Err(err).Int("status", resp.status).Msg(resp.message)
	}

	utils.WriteError(w, resp.message, resp.status)
}
