// Package api provides the HTTP server for the workshop tracker.
// It exposes the party aggregate, the allocation ledger, the dropdown
// registries, and persistence as a JSON REST API.
package api

import (
	"encoding/json"
	"errors"
	"net/http"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"
	"github.com/prometheus/client_golang/prometheus/promhttp"

	"github.com/lucky0011198/AVR-GARMENT/internal/app/session"
	"github.com/lucky0011198/AVR-GARMENT/internal/domain"
)

// Server is the HTTP API server.
type Server struct {
	session        *session.Session
	metricsEnabled bool
}

// NewServer creates a new API server over a session.
func NewServer(s *session.Session) *Server {
	return &Server{session: s}
}

// EnableMetrics enables the /metrics Prometheus endpoint.
func (s *Server) EnableMetrics() { s.metricsEnabled = true }

// Handler returns the chi router with all routes mounted.
func (s *Server) Handler() http.Handler {
	r := chi.NewRouter()

	r.Use(middleware.RequestID)
	r.Use(middleware.RealIP)
	r.Use(middleware.Recoverer)
	r.Use(middleware.Timeout(30 * time.Second))
	r.Use(corsMiddleware)

	r.Get("/health", func(w http.ResponseWriter, r *http.Request) {
		writeJSON(w, http.StatusOK, map[string]string{
			"status": "ok",
		})
	})

	r.Route("/api", func(r chi.Router) {
		r.Get("/parties", s.handleListParties)
		r.Post("/parties", s.handleAddParty)

		r.Route("/parties/{party}", func(r chi.Router) {
			r.Delete("/", s.handleRemoveParty)
			r.Patch("/name", s.handleRenameParty)
			r.Post("/items", s.handleAddItem)

			r.Route("/items/{item}", func(r chi.Router) {
				r.Delete("/", s.handleRemoveItem)
				r.Patch("/", s.handleUpdateItemField)
				r.Post("/sizes", s.handleAddSize)
				r.Delete("/sizes/{spec}", s.handleRemoveSize)
				r.Get("/allocations/options", s.handleAllocationOptions)
				r.Post("/allocations", s.handleAddAllocation)
				r.Put("/allocations/{entry}", s.handleEditAllocation)
				r.Delete("/allocations/{entry}", s.handleRemoveAllocation)
			})
		})

		r.Post("/save", s.handleSave)
		r.Post("/reload", s.handleReload)
		r.Get("/users", s.handleListUsers)

		r.Get("/options/{kind}", s.handleListOptions)
		r.Post("/options/{kind}", s.handleAddOption)
		r.Delete("/options/{kind}/{value}", s.handleRemoveOption)

		r.Get("/roles/{role}/columns", s.handleRoleColumns)
	})

	if s.metricsEnabled {
		r.Handle("/metrics", promhttp.Handler())
	}

	return r
}

// ─── Helpers ────────────────────────────────────────────────────────────────

// writeJSON writes a JSON response with the given status code.
func writeJSON(w http.ResponseWriter, status int, v interface{}) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	json.NewEncoder(w).Encode(v)
}

// writeError writes a JSON error response.
func writeError(w http.ResponseWriter, status int, msg string) {
	writeJSON(w, status, map[string]interface{}{
		"error": map[string]interface{}{
			"message": msg,
			"type":    "error",
		},
	})
}

// writeDomainError maps a domain error to its HTTP status.
func writeDomainError(w http.ResponseWriter, err error) {
	switch {
	case errors.Is(err, domain.ErrDuplicateUser),
		errors.Is(err, domain.ErrDuplicateMenuID),
		errors.Is(err, domain.ErrCapacityExceeded),
		errors.Is(err, domain.ErrDuplicateSize):
		writeError(w, http.StatusConflict, err.Error())
	case errors.Is(err, domain.ErrInvalidCount),
		errors.Is(err, domain.ErrInvalidSizeSpec):
		writeError(w, http.StatusBadRequest, err.Error())
	case errors.Is(err, domain.ErrIndexNotFound),
		errors.Is(err, domain.ErrNotFound):
		writeError(w, http.StatusNotFound, err.Error())
	default:
		writeError(w, http.StatusInternalServerError, err.Error())
	}
}

// corsMiddleware adds CORS headers for local development.
func corsMiddleware(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("Access-Control-Allow-Origin", "*")
		w.Header().Set("Access-Control-Allow-Methods", "GET, POST, PUT, PATCH, DELETE, OPTIONS")
		w.Header().Set("Access-Control-Allow-Headers", "Content-Type, Authorization")
		if r.Method == "OPTIONS" {
			w.WriteHeader(http.StatusOK)
			return
		}
		next.ServeHTTP(w, r)
	})
}
