package introspect

import (
	"context"
	"log/slog"
	"net/http"

	"github.com/winpipe-go/winpipe/internal/config"
)

// Server hosts the introspection HTTP endpoints (health, metrics, live
// trace) on their own listener, entirely separate from the display
// protocol's listener.
type Server struct {
	http    *http.Server
	Metrics *Metrics
	Tracer  *Tracer
}

// New builds a Server from cfg. Callers obtain the shared Metrics and
// Tracer to hand to connserver so it can report activity into them.
func New(cfg config.IntrospectConfig, logger *slog.Logger) *Server {
	metrics := NewMetrics()
	tracer := NewTracer(logger)
	health := NewHealthHandler(metrics)
	trace := NewTraceHandler(tracer, logger)

	mux := http.NewServeMux()
	mux.Handle(cfg.HealthPath, health)
	mux.Handle("/ready", health)
	mux.Handle("/readyz", health)
	mux.Handle(cfg.MetricsPath, metrics)

	// The trace endpoint bypasses the middleware: its wrapped response
	// writers do not support the connection hijack a websocket upgrade needs.
	root := http.NewServeMux()
	root.Handle("/", CoreMiddleware(logger)(CompressionMiddleware()(mux)))
	root.Handle(cfg.TracePath, trace)

	return &Server{
		http: &http.Server{
			Addr:    cfg.Address,
			Handler: root,
		},
		Metrics: metrics,
		Tracer:  tracer,
	}
}

// ListenAndServe starts the introspection HTTP server. It blocks until
// Shutdown is called or a fatal listen error occurs.
func (s *Server) ListenAndServe() error {
	return s.http.ListenAndServe()
}

// Shutdown gracefully stops the introspection HTTP server.
func (s *Server) Shutdown(ctx context.Context) error {
	return s.http.Shutdown(ctx)
}
