package main

import (
	"log"

	"go.uber.org/fx"
	"go.uber.org/fx/fxevent"
	"go.uber.org/zap"

	"eventhub/pkg/config"
	"eventhub/pkg/health"
	"eventhub/pkg/logger"
	"eventhub/pkg/otelcol"
	"eventhub/pkg/server"
	"eventhub/services/gateway"
)

func main() {
	opts := []fx.Option{
		config.Module,
		logger.Module,
		otelcol.Module,
		health.Module,
		fx.Provide(
			server.RegisterEngine,
		),
		gateway.Module,
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
