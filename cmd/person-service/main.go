package main

import (
	"github.com/avbinvest/staffsync/internal/config"
	"github.com/avbinvest/staffsync/internal/idgen"
	"github.com/avbinvest/staffsync/internal/migration"
	"github.com/avbinvest/staffsync/internal/observability"
	"github.com/avbinvest/staffsync/internal/observability/metrics"
	"github.com/avbinvest/staffsync/internal/observability/tracing"
	"github.com/avbinvest/staffsync/internal/orgclient"
	personservice "github.com/avbinvest/staffsync/internal/person/service"
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
				ServiceName: "person-service",
				HTTPAddr:    ":8080",
				PeerURL:     "http://localhost:8081",
				DBName:      "staffsync_person",
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

		orgclient.Module,
		personservice.Module,

		fx.Provide(server.NewEngine),
		fx.Invoke(func(tp *sdktrace.TracerProvider) {}),
		fx.Invoke(migration.RunPersons),
		fx.Invoke(server.RegisterPersonRoutes),
		fx.Invoke(server.Run),
	)
	app.Run()
}
