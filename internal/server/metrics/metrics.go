// Package metrics exports the notebook server's Prometheus metrics.
package metrics

import (
	"context"
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
	"google.golang.org/grpc"
	"google.golang.org/grpc/status"
)

const namespace = "gmkitchen"

// Metrics groups the collectors registered by New.
type Metrics struct {
	rpcTotal       *prometheus.CounterVec
	rpcDuration    *prometheus.HistogramVec
	rpcInFlight    prometheus.Gauge
	notebookWrites prometheus.Counter
	notebookBytes  prometheus.Histogram
	tokensPurged   prometheus.Counter
}

// New registers the collectors on reg. Passing prometheus.DefaultRegisterer
// is fine in main; tests use a fresh registry.
func New(reg prometheus.Registerer) *Metrics {
	f := promauto.With(reg)
	return &Metrics{
		rpcTotal: f.NewCounterVec(
			prometheus.CounterOpts{
				Namespace: namespace,
				Name:      "rpc_requests_total",
				Help:      "Total number of gRPC requests by method and status code.",
			},
			[]string{"method", "code"},
		),
		rpcDuration: f.NewHistogramVec(
			prometheus.HistogramOpts{
				Namespace: namespace,
				Name:      "rpc_duration_seconds",
				Help:      "gRPC request duration in seconds.",
				Buckets:   prometheus.DefBuckets,
			},
			[]string{"method"},
		),
		rpcInFlight: f.NewGauge(
			prometheus.GaugeOpts{
				Namespace: namespace,
				Name:      "rpc_in_flight",
				Help:      "Number of gRPC requests currently being processed.",
			},
		),
		notebookWrites: f.NewCounter(
			prometheus.CounterOpts{
				Namespace: namespace,
				Name:      "notebook_writes_total",
				Help:      "Number of notebooks stored.",
			},
		),
		notebookBytes: f.NewHistogram(
			prometheus.HistogramOpts{
				Namespace: namespace,
				Name:      "notebook_payload_bytes",
				Help:      "Size of stored notebook payloads.",
				Buckets:   prometheus.ExponentialBuckets(256, 4, 8),
			},
		),
		tokensPurged: f.NewCounter(
			prometheus.CounterOpts{
				Namespace: namespace,
				Name:      "refresh_tokens_purged_total",
				Help:      "Number of expired refresh tokens deleted.",
			},
		),
	}
}

// NotebookWritten records one stored notebook of the given size.
func (m *Metrics) NotebookWritten(payloadBytes int) {
	m.notebookWrites.Inc()
	m.notebookBytes.Observe(float64(payloadBytes))
}

func (m *Metrics) TokensPurged(n int64) {
	m.tokensPurged.Add(float64(n))
}

// UnaryServerInterceptor counts and times every unary call.
func (m *Metrics) UnaryServerInterceptor() grpc.UnaryServerInterceptor {
	return func(ctx context.Context, req any, info *grpc.UnaryServerInfo, handler grpc.UnaryHandler) (any, error) {
		m.rpcInFlight.Inc()
		defer m.rpcInFlight.Dec()

		start := time.Now()
		resp, err := handler(ctx, req)

		m.rpcTotal.WithLabelValues(info.FullMethod, status.Code(err).String()).Inc()
		m.rpcDuration.WithLabelValues(info.FullMethod).Observe(time.Since(start).Seconds())
		return resp, err
	}
}
