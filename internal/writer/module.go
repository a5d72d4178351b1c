package writer

import (
	"context"

	"go.uber.org/fx"

	"renogyfleet/internal/config"
)

// Module provides the remote writer to the Fx application. It is a no-op
// when the collector configuration disables push.
var Module = fx.Module("writer",
	fx.Provide(New),
	fx.Invoke(RegisterLifecycle),
)

func RegisterLifecycle(lc fx.Lifecycle, cfg *config.Config, w *Writer) {
	if cfg.Collector.DisablePush {
		return
	}
	ctx, cancel := context.WithCancel(context.Background())
	lc.Append(fx.Hook{
		OnStart: func(context.Context) error {
			go w.Run(ctx)
			return nil
		},
		OnStop: func(context.Context) error {
			cancel()
			return nil
		},
	})
}
