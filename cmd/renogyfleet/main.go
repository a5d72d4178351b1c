package main

import (
	"go.uber.org/fx"

	"renogyfleet/internal/api"
	"renogyfleet/internal/collector"
	"renogyfleet/internal/config"
	"renogyfleet/internal/diag"
	"renogyfleet/internal/health"
	"renogyfleet/internal/queryclient"
	"renogyfleet/internal/scrape"
	"renogyfleet/internal/writer"
	"renogyfleet/pkg/logger"
)

func main() {
	app := fx.New(
		// Configuration
		config.Module,

		// Logging
		logger.Module,
		logger.FxLogger,

		// Battery fleet poller and sample buffer
		collector.Module,

		// Metrics exposition
		scrape.Module,

		// Self-process diagnostics, published on the scrape registry
		diag.Module,

		// Remote time-series push
		writer.Module,

		// Remote time-series read path
		queryclient.Module,

		// Health monitoring
		health.Module,

		// HTTP control API
		api.Module,
	)

	app.Run()
}
