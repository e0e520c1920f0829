package main

import (
	"github.com/avbinvest/staffsync/internal/config"
	"github.com/avbinvest/staffsync/internal/idgen"
	"github.com/avbinvest/staffsync/internal/migration"
	"github.com/avbinvest/staffsync/internal/observability"
	"github.com/avbinvest/staffsync/internal/observability/metrics"
	"github.com/avbinvest/staffsync/internal/observability/tracing"
	orgservice "github.com/avbinvest/staffsync/internal/organization/service"
	"github.com/avbinvest/staffsync/internal/personclient"
	"github.com/avbinvest/staffsync/internal/ratelimit"
	"github.com/avbinvest/staffsync/internal/server"
	"github.com/avbinvest/staffsync/pkg/db"
	"github.com/avbinvest/staffsync/pkg/log"
	sdktrace "go.opentelemetry.io/otel/sdk/trace"
	"go.uber.org/fx"
	"go.uber.org/fx/fxevent"
	"go.uber.org/zap"
)

func main() {
	app := fx.New(
		fx.Provide(func() config.Config {
			return config.Load(config.Defaults{
				ServiceName: "organization-service",
				HTTPAddr:    ":8081",
				PeerURL:     "http://localhost:8080",
				DBName:      "staffsync_organization",
			})
		}),
		fx.Provide(config.NewTunablesHolder),
		fx.WithLogger(func(log *zap.Logger) fxevent.Logger {
			return &fxevent.ZapLogger{Logger: log}
		}),

		log.Module,
		idgen.Module,
		db.Module,
		observability.Module,
		fx.Provide(metrics.NewProvider, metrics.New),
		fx.Provide(tracing.NewProvider),
		ratelimit.Module,

		personclient.Module,
		orgservice.Module,

		fx.Provide(server.NewEngine),
		fx.Invoke(func(tp *sdktrace.TracerProvider) {}),
		fx.Invoke(migration.RunOrganizations),
		fx.Invoke(server.RegisterOrganizationRoutes),
		fx.Invoke(server.Run),
	)
	app.Run()
}
