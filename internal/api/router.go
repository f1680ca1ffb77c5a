package api

import (
	"net/http"

	"github.com/go-chi/chi/v5"
)

// buildRouter creates the HTTP router with all routes and middleware.
func (s *Server) buildRouter() http.Handler {
	r := chi.NewRouter()

	// Global middleware
	r.Use(s.requestIDMiddleware)
	r.Use(s.loggingMiddleware)
	r.Use(s.recoveryMiddleware)
	r.Use(s.corsMiddleware)
	r.Use(s.bodySizeLimitMiddleware)

	// Reads require no auth
	r.Get("/health", s.handleHealth)
	r.Get("/json", s.handleListItems)
	r.Get("/json/{id}", s.handleGetItem)

	// Mutations and the audit trail require the shared secret
	r.Group(func(r chi.Router) {
		r.Use(s.authMiddleware)

		r.Post("/json", s.handleCreateItem)
		r.Put("/json/{id}", s.handleReplaceItem)
		r.Patch("/json/{id}", s.handleMergeItem)
		r.Delete("/json/{id}", s.handleDeleteItem)

		r.Get("/audit", s.handleListAudit)
	})

	r.NotFound(func(w http.ResponseWriter, _ *http.Request) {
		writeError(w, http.StatusNotFound)
	})
	r.MethodNotAllowed(func(w http.ResponseWriter, _ *http.Request) {
		writeError(w, http.StatusMethodNotAllowed)
	})

	return r
}

// handleHealth returns the server health status.
func (s *Server) handleHealth(w http.ResponseWriter, _ *http.Request) {
	writeJSON(w, http.StatusOK, map[string]any{
		"status":  "ok",
		"version": s.version,
		"items":   s.store.Count(),
	})
}
