package health

import (
	"fmt"

	"go.uber.org/fx"

	"renogyfleet/internal/collector"
)

// Module provides health check functionality to the Fx application
var Module = fx.Module("health",
	fx.Provide(ProvideHealthService),
)

// ProvideHealthService creates a health service with one checker per
// configured battery, reporting whether its poller's most recent attempt
// succeeded.
func ProvideHealthService(fleet *collector.Fleet) *HealthService {
	svc := NewHealthService()
	for _, p := range fleet.Pollers() {
		svc.RegisterChecker(NewServiceChecker(fmt.Sprintf("battery_%s", p.BatteryID()), p))
	}
	return svc
}
