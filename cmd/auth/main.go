package main

import (
	"log"

	"github.com/bwmarrin/snowflake"
	"go.uber.org/fx"
	"go.uber.org/fx/fxevent"
	"go.uber.org/zap"

	"eventhub/pkg/config"
	"eventhub/pkg/db"
	"eventhub/pkg/health"
	"eventhub/pkg/logger"
	"eventhub/pkg/otelcol"
	"eventhub/pkg/redis"
	"eventhub/pkg/rpc"
	"eventhub/pkg/server"
	"eventhub/services/permission"
	"eventhub/services/user"
)

func main() {
	opts := []fx.Option{
		config.Module,
		logger.Module,
		db.Module,
		redis.Module,
		otelcol.Module,
		health.Module,
		rpc.RouterModule,
		fx.Provide(
			provideSnowflakeNode,
			server.RegisterEngine,
		),
		fx.Invoke(db.Otel),
		user.Module,
		permission.Module,
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
