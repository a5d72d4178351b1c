package queryclient

import "go.uber.org/fx"

// Module provides the PromQL read-path client to the Fx application.
var Module = fx.Module("queryclient",
	fx.Provide(New),
)
