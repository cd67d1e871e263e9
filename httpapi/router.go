// Package httpapi is the thin HTTP/WebSocket front-end around
// research.Service: route registration and request/response shapes only,
// no template rendering or report formatting (that belongs to report and
// research), per spec.md §1's "external collaborator" framing for this
// surface.
package httpapi

import (
	"net/http"

	"github.com/gorilla/mux"

	"github.com/ujesh-sakariya/deepresearch-go/progress"
	"github.com/ujesh-sakariya/deepresearch-go/research"
)

// Server bundles the dependencies the HTTP surface needs.
type Server struct {
	service      *research.Service
	bus          *progress.Bus
	limiter      *ipRateLimiter
	baseSettings research.Settings
}

// NewServer builds a Server over an already-constructed Service and Bus,
// starting every research from research.DefaultSettings() unless
// WithBaseSettings overrides it.
func NewServer(service *research.Service, bus *progress.Bus) *Server {
	return &Server{
		service:      service,
		bus:          bus,
		limiter:      newIPRateLimiter(5, 10), // 5 req/s sustained, burst 10, per IP
		baseSettings: research.DefaultSettings(),
	}
}

// WithBaseSettings replaces the settings every /start request is layered
// onto, typically loaded from store.Repository.CurrentSettings().
func (s *Server) WithBaseSettings(settings research.Settings) *Server {
	s.baseSettings = settings
	return s
}

// Router builds the mux.Router exposing /research/api/*.
func (s *Server) Router() *mux.Router {
	r := mux.NewRouter()
	r.Use(s.limiter.middleware)

	api := r.PathPrefix("/research/api").Subrouter()
	api.HandleFunc("/start", s.handleStart).Methods(http.MethodPost)
	api.HandleFunc("/status/{id}", s.handleStatus).Methods(http.MethodGet)
	api.HandleFunc("/terminate/{id}", s.handleTerminate).Methods(http.MethodPost)
	api.HandleFunc("/delete/{id}", s.handleDelete).Methods(http.MethodDelete)
	api.HandleFunc("/ws", s.handleWebSocket)

	return r
}
