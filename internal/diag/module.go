package diag

import (
	"context"

	"go.uber.org/fx"

	"renogyfleet/internal/scrape"
)

// Module provides the self-diagnostics collector, publishing onto the same
// registry the battery gauges use.
var Module = fx.Module("diag",
	fx.Provide(ProvideCollector),
	fx.Invoke(RegisterLifecycle),
)

func ProvideCollector(reg *scrape.Registry) *Collector {
	return New(reg.Raw())
}

func RegisterLifecycle(lc fx.Lifecycle, c *Collector) {
	ctx, cancel := context.WithCancel(context.Background())
	lc.Append(fx.Hook{
		OnStart: func(context.Context) error {
			go c.Run(ctx)
			return nil
		},
		OnStop: func(context.Context) error {
			cancel()
			return nil
		},
	})
}
