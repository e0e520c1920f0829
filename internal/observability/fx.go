package observability

import (
	"go.uber.org/fx"
)

// Module provides observability configuration. Tracing and metrics providers
// are wired by the server module so both binaries share one composition.
var Module = fx.Module("observability",
	fx.Provide(LoadConfig),
)
