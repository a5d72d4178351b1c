package collector

import (
	"context"

	"go.uber.org/fx"

	"renogyfleet/internal/buffer"
	"renogyfleet/internal/config"
	"renogyfleet/pkg/logger"
)

// Module provides the battery fleet poller to the Fx application.
var Module = fx.Module("collector",
	fx.Provide(ProvideBuffer),
	fx.Provide(NewFleet),
	fx.Invoke(RegisterLifecycle),
)

// ProvideBuffer sizes the sample buffer from the configured poll interval
// and buffer window, so the buffer can absorb one full window's worth of
// samples per battery before a remote-sink outage starts dropping data.
func ProvideBuffer(cfg *config.Config) *buffer.Buffer {
	perBatteryCapacity := int(cfg.Collector.BufferWindowMinutes*60) / maxInt(1, int(cfg.Collector.PollInterval.Seconds()))
	capacity := perBatteryCapacity * maxInt(1, len(cfg.Batteries))

	return buffer.New(capacity, func() {
		logger.Warn("sample buffer full, evicting oldest snapshots")
	})
}

func maxInt(a, b int) int {
	if a > b {
		return a
	}
	return b
}

func RegisterLifecycle(lc fx.Lifecycle, fleet *Fleet) {
	if fleet == nil {
		return
	}
	ctx, cancel := context.WithCancel(context.Background())
	lc.Append(fx.Hook{
		OnStart: func(context.Context) error {
			go fleet.Run(ctx)
			return nil
		},
		OnStop: func(context.Context) error {
			cancel()
			return nil
		},
	})
}
