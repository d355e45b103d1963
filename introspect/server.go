// Package introspect exposes a read-only debug HTTP surface over a
// resolver: registered providers, cached instances, and on-demand
// resolution of a textual type key. It is auxiliary tooling — nothing in
// the resolution engine depends on it.
package introspect

import (
	"encoding/json"
	"errors"
	"fmt"
	"net/http"

	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"
	"go.uber.org/zap"

	"github.com/oklaren/go-implicit/resolver"
)

// Server serves the debug endpoints for one resolver.
type Server struct {
	res *resolver.Resolver
	log *zap.Logger
}

// New creates a Server. A nil logger is replaced by a no-op one.
func New(res *resolver.Resolver, log *zap.Logger) *Server {
	if log == nil {
		log = zap.NewNop()
	}
	return &Server{res: res, log: log}
}

// Router builds the chi router:
//
//	GET /providers        registered providers, in registration order
//	GET /constructors     distinct resolvable shapes
//	GET /cache            canonical keys of memoized instances
//	GET /resolve?key=K    resolve K and report the bound concrete key
func (s *Server) Router() http.Handler {
	r := chi.NewRouter()
	r.Use(middleware.Recoverer)
	r.Get("/providers", s.handleProviders)
	r.Get("/constructors", s.handleConstructors)
	r.Get("/cache", s.handleCache)
	r.Get("/resolve", s.handleResolve)
	return r
}

// ListenAndServe runs the debug server until the listener fails.
func (s *Server) ListenAndServe(addr string) error {
	s.log.Info("debug server listening", zap.String("addr", addr))
	return http.ListenAndServe(addr, s.Router())
}

// ── Handlers ─────────────────────────────────────────────────────────────────

func (s *Server) handleProviders(w http.ResponseWriter, _ *http.Request) {
	respond(w, http.StatusOK, envelope{"data": s.res.Providers()})
}

func (s *Server) handleConstructors(w http.ResponseWriter, _ *http.Request) {
	respond(w, http.StatusOK, envelope{"data": s.res.Constructors()})
}

func (s *Server) handleCache(w http.ResponseWriter, _ *http.Request) {
	respond(w, http.StatusOK, envelope{"data": s.res.CachedKeys()})
}

func (s *Server) handleResolve(w http.ResponseWriter, r *http.Request) {
	raw := r.URL.Query().Get("key")
	if raw == "" {
		respondError(w, http.StatusBadRequest, "missing key parameter")
		return
	}
	key, err := resolver.ParseKey(raw)
	if err != nil {
		respondError(w, http.StatusBadRequest, err.Error())
		return
	}

	inst, err := s.res.Resolve(key)
	if err != nil {
		s.log.Debug("debug resolution failed", zap.String("key", raw), zap.Error(err))
		respondError(w, statusFor(err), err.Error())
		return
	}
	respond(w, http.StatusOK, envelope{"data": map[string]string{
		"requested":  raw,
		"resolved":   inst.Key.String(),
		"capability": fmt.Sprintf("%T", inst.Value),
	}})
}

// statusFor maps the resolver's error taxonomy onto HTTP statuses.
func statusFor(err error) int {
	var (
		noInst *resolver.NoInstanceError
		amb    *resolver.AmbiguousProviderError
		cyc    *resolver.CyclicResolutionError
		depth  *resolver.ResolutionDepthExceededError
	)
	switch {
	case errors.As(err, &noInst):
		return http.StatusNotFound
	case errors.As(err, &amb):
		return http.StatusConflict
	case errors.As(err, &cyc), errors.As(err, &depth):
		return http.StatusUnprocessableEntity
	default:
		return http.StatusInternalServerError
	}
}

// ── JSON helpers ─────────────────────────────────────────────────────────────

type envelope map[string]any

func respond(w http.ResponseWriter, status int, data any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	_ = json.NewEncoder(w).Encode(data)
}

func respondError(w http.ResponseWriter, status int, message string) {
	respond(w, status, envelope{"message": message})
}
