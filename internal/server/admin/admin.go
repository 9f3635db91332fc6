// Package admin serves the operator endpoints of the notebook server:
// liveness, readiness and Prometheus metrics.
package admin

import (
	"context"
	"encoding/json"
	"net/http"
	"sync"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promhttp"

	"github.com/dmitrijs2005/gmkitchen/internal/logging"
)

// Pinger is satisfied by *pgxpool.Pool.
type Pinger interface {
	Ping(ctx context.Context) error
}

// PingFunc adapts a function to Pinger.
type PingFunc func(ctx context.Context) error

func (f PingFunc) Ping(ctx context.Context) error { return f(ctx) }

type backendStatus struct {
	Status    string `json:"status"`
	LatencyMs int64  `json:"latency_ms"`
	Error     string `json:"error,omitempty"`
}

type readyzResponse struct {
	Status   string                   `json:"status"`
	Backends map[string]backendStatus `json:"backends,omitempty"`
}

type handler struct {
	backends map[string]Pinger
	log      logging.Logger
	timeout  time.Duration
}

// NewRouter builds the admin router. gatherer backs /metrics.
func NewRouter(backends map[string]Pinger, gatherer prometheus.Gatherer, log logging.Logger) http.Handler {
	h := &handler{backends: backends, log: log, timeout: 3 * time.Second}

	r := chi.NewRouter()
	r.Use(middleware.Recoverer)

	r.Get("/livez", h.livez)
	r.Get("/readyz", h.readyz)
	r.Method(http.MethodGet, "/metrics", promhttp.HandlerFor(gatherer, promhttp.HandlerOpts{}))
	return r
}

func writeJSON(w http.ResponseWriter, code int, v any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(code)
	_ = json.NewEncoder(w).Encode(v)
}

func (h *handler) livez(w http.ResponseWriter, r *http.Request) {
	writeJSON(w, http.StatusOK, map[string]string{"status": "ok"})
}

// readyz pings every backend concurrently.
func (h *handler) readyz(w http.ResponseWriter, r *http.Request) {
	ctx, cancel := context.WithTimeout(r.Context(), h.timeout)
	defer cancel()

	var (
		mu   sync.Mutex
		wg   sync.WaitGroup
		resp = readyzResponse{Status: "ok", Backends: make(map[string]backendStatus, len(h.backends))}
	)

	for name, p := range h.backends {
		name, p := name, p
		wg.Add(1)
		go func() {
			defer wg.Done()
			start := time.Now()
			err := p.Ping(ctx)

			st := backendStatus{Status: "ok", LatencyMs: time.Since(start).Milliseconds()}
			if err != nil {
				st.Status = "error"
				st.Error = err.Error()
			}

			mu.Lock()
			resp.Backends[name] = st
			if err != nil {
				resp.Status = "unavailable"
			}
			mu.Unlock()
		}()
	}
	wg.Wait()

	if resp.Status != "ok" {
		h.log.Warn(r.Context(), "readiness check failed", "backends", resp.Backends)
		writeJSON(w, http.StatusServiceUnavailable, resp)
		return
	}
	writeJSON(w, http.StatusOK, resp)
}
