package main

import (
	"log"

	"github.com/bwmarrin/snowflake"
	"go.uber.org/fx"
	"go.uber.org/fx/fxevent"
	"go.uber.org/zap"

	asynqmod "eventhub/pkg/asynq"
	"eventhub/pkg/config"
	"eventhub/pkg/db"
	"eventhub/pkg/health"
	"eventhub/pkg/logger"
	"eventhub/pkg/otelcol"
	"eventhub/pkg/redis"
	"eventhub/pkg/rpc"
	"eventhub/pkg/sequence"
	"eventhub/pkg/server"
	"eventhub/services/condition"
	"eventhub/services/event"
	"eventhub/services/payout"
	"eventhub/services/reward"
)

func main() {
	opts := []fx.Option{
		config.Module,
		logger.Module,
		db.Module,
		redis.Module,
		sequence.Module,
		asynqmod.Client,
		asynqmod.Server,
		otelcol.Module,
		health.Module,
		rpc.RouterModule,
		fx.Provide(
			provideSnowflakeNode,
			provideRoleLookup,
			server.RegisterEngine,
		),
		fx.Invoke(db.Otel),
		condition.Module,
		payout.Module,
		event.Module,
		reward.Module,
		reward.TaskModule,
		server.ProvideHTTPServer,
		fxLogger,
	}

	if err := fx.ValidateApp(opts...); err != nil {
		log.Fatalf("fx validation failed: %v", err)
	}

	app := fx.New(opts...)

	app.Run()
}

var fxLogger = fx.WithLogger(func(cfg *config.Config, logger *zap.Logger) fxevent.Logger {
	return fxevent.NopLogger
})

func provideSnowflakeNode() (*snowflake.Node, error) {
	return snowflake.NewNode(1)
}

func provideRoleLookup(cfg *config.Config) condition.RoleLookup {
	return condition.NewRPCRoleLookup(rpc.NewClient(cfg.AuthURL))
}
