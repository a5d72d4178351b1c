package scrape

import (
	"context"

	"go.uber.org/fx"

	"renogyfleet/internal/config"
)

// Module provides the metrics registry and its scrape HTTP server to the Fx
// application.
var Module = fx.Module("scrape",
	fx.Provide(New),
	fx.Provide(ProvideServer),
	fx.Invoke(RegisterLifecycle),
)

func ProvideServer(cfg *config.Config, reg *Registry) *Server {
	return NewServer(cfg.HTTP.ScrapePort, reg)
}

func RegisterLifecycle(lc fx.Lifecycle, server *Server) {
	lc.Append(fx.Hook{
		OnStart: func(ctx context.Context) error {
			server.Start()
			return nil
		},
		OnStop: func(ctx context.Context) error {
			return server.Stop(ctx)
		},
	})
}
