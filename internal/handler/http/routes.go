package http

import (
	"net/http"

	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"

	"github.com/MKhiriev/gesture-sense/internal/utils"
)

func (h *Handler) Init() *chi.Mux {
	router := chi.NewRouter()
	router.Use(middleware.Recoverer)
	router.Use(h.withTraceID)
	router.Use(h.withLogging)
	router.Use(withGZip)
	if h.requestTimeout > 0 {
		router.Use(middleware.Timeout(h.requestTimeout))
	}

	router.NotFound(notFound)
	router.MethodNotAllowed(methodNotAllowed)

	router.Route("/api", func(r chi.Router) {
		r.Get("/health", h.health)
		r.Get("/version", h.getServerVersion)

		r.Post("/dev/seed", h.seed)

		r.Route("/users", func(r chi.Router) {
			// credential endpoints are throttled per client IP
			r.Group(func(r chi.Router) {
				r.Use(h.withAuthRateLimit)
				r.Post("/register", h.register)
				r.Post("/login", h.login)
			})

			r.Route("/{id}", func(r chi.Router) {
				r.Get("/", h.getUser)
				r.Patch("/", h.updateUser)
				r.Delete("/", h.deleteUser)

				r.Patch("/avatar", h.updateAvatar)
				r.Patch("/password", h.changePassword)

				r.Get("/preferences", h.getPreferences)
				r.Patch("/preferences", h.updatePreferences)

				r.Get("/security", h.getSecurity)
				r.Patch("/security", h.updateSecurity)
				r.Post("/security", h.createSession)
				r.Delete("/security/sessions/{sessionID}", h.revokeSession)
			})
		})
	})

	return router
}

func notFound(w http.ResponseWriter, r *http.Request) {
	utils.WriteError(w, "Not found", http.StatusNotFound)
}

func methodNotAllowed(w http.ResponseWriter, r *http.Request) {
	utils.WriteError(w, "Method not allowed", http.StatusMethodNotAllowed)
}
