package http

import (
	"net/http"

	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"
)

func (h *Handler) Init() *chi.Mux {
	router := chi.NewRouter()
	router.Use(middleware.Recoverer)
	router.Use(h.withTraceID, withLogging, h.withMetrics)
	router.Use(securityHeaders().Handler)
	if h.requestTimeout > 0 {
		router.Use(middleware.Timeout(h.requestTimeout))
	}

	router.Get("/version", h.version)
	router.Method(http.MethodGet, "/metrics", h.metrics.handler())

	router.Route("/users", func(r chi.Router) {
		r.Use(h.resolveCredentials)

		r.Get("/", h.listUsers)
		r.Post("/", h.createUser)
		r.Post("/auth", h.issueSession)

		r.Get("/me", h.getSelf)
		r.Patch("/me", h.updateUser)
		r.Patch("/me/password", h.changePassword)

		r.Get("/{id}", h.getUser)
		r.Patch("/{id}", h.updateUser)
		r.Patch("/{id}/password", h.changePassword)
		r.Delete("/{id}", h.deleteUser)
	})

	router.MethodNotAllowed(CheckHTTPMethod(router))

	return router
}
