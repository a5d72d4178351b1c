package api

import (
	"context"
	"fmt"
	"net/http"

	"github.com/gin-gonic/gin"
	"go.uber.org/fx"
	"go.uber.org/zap"

	"renogyfleet/internal/config"
)

// Module provides the HTTP control API: fleet/battery read endpoints and
// the device-control command endpoint, served on its own port separate
// from the Prometheus scrape listener.
var Module = fx.Module("api",
	fx.Provide(NewHandlers),
	fx.Provide(zap.NewProduction),
	fx.Provide(SetupRoutes),
	fx.Provide(ProvideHTTPServer),
	fx.Invoke(RegisterLifecycle),
)

// ProvideHTTPServer builds (but does not start) the control API's server.
func ProvideHTTPServer(cfg *config.Config, router *gin.Engine) *http.Server {
	return &http.Server{
		Addr:    fmt.Sprintf(":%d", cfg.HTTP.ControlPort),
		Handler: router,
	}
}

func RegisterLifecycle(lc fx.Lifecycle, server *http.Server, logger *zap.Logger) {
	lc.Append(fx.Hook{
		OnStart: func(context.Context) error {
			go func() {
				if err := server.ListenAndServe(); err != nil && err != http.ErrServerClosed {
					logger.Error("control API server stopped unexpectedly", zap.Error(err))
				}
			}()
			logger.Info("control API listening", zap.String("addr", server.Addr))
			return nil
		},
		OnStop: func(ctx context.Context) error {
			return server.Shutdown(ctx)
		},
	})
}
