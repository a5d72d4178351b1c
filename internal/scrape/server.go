package scrape

import (
	"context"
	"fmt"
	"net/http"

	"github.com/prometheus/client_golang/prometheus/promhttp"

	"renogyfleet/pkg/logger"
)

// Server mounts the registry's gatherer behind GET /metrics on its own
// port, separate from the control API, matching the reference
// implementation's standalone metrics listener.
type Server struct {
	httpServer *http.Server
	log        logger.Logger
}

// NewServer builds (but does not start) the scrape HTTP server.
func NewServer(port int, reg *Registry) *Server {
	mux := http.NewServeMux()
	mux.Handle("/metrics", promhttp.HandlerFor(reg.Gatherer(), promhttp.HandlerOpts{}))

	return &Server{
		httpServer: &http.Server{
			Addr:    fmt.Sprintf(":%d", port),
			Handler: mux,
		},
		log: logger.With(logger.String("component", "scrape_server")),
	}
}

func (s *Server) Start() {
	go func() {
		if err := s.httpServer.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			s.log.Error("scrape server stopped unexpectedly", logger.Err(err))
		}
	}()
	s.log.Info("scrape server listening", logger.String("addr", s.httpServer.Addr))
}

func (s *Server) Stop(ctx context.Context) error {
	s.log.Info("stopping scrape server")
	return s.httpServer.Shutdown(ctx)
}
