package logger

import (
	"context"

	"go.uber.org/fx"
	"go.uber.org/fx/fxevent"
	"go.uber.org/zap"
	"go.uber.org/zap/zapcore"

	"renogyfleet/internal/config"
)

// Module provides logger functionality to the Fx application
var Module = fx.Module("logger",
	fx.Invoke(InitLogger),
	fx.Invoke(RegisterLifecycle),
)

// InitLogger initializes the global logger with the application's
// configuration.
func InitLogger(cfg *config.Config) error {
	return InitializeWithConfig(Config{
		Level:  cfg.Logger.Level,
		Format: cfg.Logger.Format,
	})
}

// RegisterLifecycle flushes the global logger on shutdown.
func RegisterLifecycle(lc fx.Lifecycle) {
	lc.Append(fx.Hook{
		OnStop: func(ctx context.Context) error {
			err := Sync()
			if err != nil && (err.Error() == "sync /dev/stdout: inappropriate ioctl for device" ||
				err.Error() == "sync /dev/stderr: inappropriate ioctl for device") {
				return nil
			}
			return err
		},
	})
}

// FxLogger drives Fx's own lifecycle event log through a small dedicated
// zap.Logger, independent of the application's Logger interface so Fx
// startup/shutdown tracing survives even if application logging is
// misconfigured.
var FxLogger = fx.WithLogger(func() fxevent.Logger {
	z, _ := zap.NewProduction()
	zl := &fxevent.ZapLogger{Logger: z}
	zl.UseLogLevel(zapcore.DebugLevel)
	return zl
})
