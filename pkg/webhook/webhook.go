// Package webhook implements the inbound n8n-style HTTP surface of
// spec.md §6: five endpoints external workflow engines call to create
// tasks, emit events, relay messages, and probe health. Routing and
// middleware are grounded on the teacher's chi-based HTTP stack
// (github.com/go-chi/chi/v5, already wired into pkg/transport's metrics
// middleware); request/response shapes and error-kind-to-status mapping
// follow spec.md §6/§7 exactly.
package webhook

import (
	"encoding/json"
	"net/http"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"

	"github.com/BradA1878/model-exchange-framework-sub007/pkg/channel"
	"github.com/BradA1878/model-exchange-framework-sub007/pkg/memstore"
	"github.com/BradA1878/model-exchange-framework-sub007/pkg/mxerrors"
	"github.com/BradA1878/model-exchange-framework-sub007/pkg/task"
)

// Server hosts the five n8n webhook endpoints (spec.md §6).
type Server struct {
	channels    *channel.ChannelRepository
	agents      *channel.AgentRepository
	tasks       *task.Service
	channelMem  *memstore.ChannelMemoryRepository
	serviceName string
	router      chi.Router
}

// NewServer wires channels/agents/tasks/channelMem into a router. Every
// dependency is explicit (no package-level globals), per spec.md §9's
// "Global state" note.
func NewServer(channels *channel.ChannelRepository, agents *channel.AgentRepository, tasks *task.Service, channelMem *memstore.ChannelMemoryRepository, serviceName string) *Server {
	s := &Server{
		channels:    channels,
		agents:      agents,
		tasks:       tasks,
		channelMem:  channelMem,
		serviceName: serviceName,
	}
	s.router = s.buildRouter()
	return s
}

// ServeHTTP lets Server satisfy http.Handler directly.
func (s *Server) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	s.router.ServeHTTP(w, r)
}

func (s *Server) buildRouter() chi.Router {
	r := chi.NewRouter()
	r.Use(middleware.Recoverer)
	r.Use(middleware.RequestID)

	r.Route("/api/webhooks/n8n", func(r chi.Router) {
		r.Post("/task", s.handleTask)
		r.Post("/task/batch", s.handleTaskBatch)
		r.Post("/event", s.handleEvent)
		r.Post("/message", s.handleMessage)
		r.Get("/health", s.handleHealth)
	})

	return r
}

type errorBody struct {
	Success bool       `json:"success"`
	Error   mxerrors.Kind `json:"error"`
	Message string     `json:"message"`
}

// writeError renders err as the JSON body spec.md §7 specifies, with the
// HTTP status mapped from its Kind.
func writeError(w http.ResponseWriter, err error) {
	kind := mxerrors.KindOf(err)
	if kind == "" {
		kind = mxerrors.InvalidRequest
	}
	writeJSON(w, mxerrors.HTTPStatus(kind), errorBody{Success: false, Error: kind, Message: err.Error()})
}

func writeJSON(w http.ResponseWriter, status int, body any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	_ = json.NewEncoder(w).Encode(body)
}

func decodeJSON(r *http.Request, dst any) error {
	if err := json.NewDecoder(r.Body).Decode(dst); err != nil {
		return mxerrors.Wrap(mxerrors.InvalidRequest, "webhook.decodeJSON", "malformed request body", err)
	}
	return nil
}

type healthResponse struct {
	Success   bool      `json:"success"`
	Status    string    `json:"status"`
	Service   string    `json:"service"`
	Timestamp time.Time `json:"timestamp"`
}

func (s *Server) handleHealth(w http.ResponseWriter, r *http.Request) {
	status := "healthy"
	if s.channels == nil || s.tasks == nil {
		status = "offline"
	}
	writeJSON(w, http.StatusOK, healthResponse{
		Success:   true,
		Status:    status,
		Service:   s.serviceName,
		Timestamp: time.Now(),
	})
}
