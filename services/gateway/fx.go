package gateway

import (
	"github.com/gin-gonic/gin"
	"go.uber.org/fx"
)

var Module = fx.Module("gateway",
	fx.Provide(
		NewAuthClient,
		NewEventClient,
		NewRouteEnforcer,
		NewRoutes,
	),
	fx.Invoke(mountRoutes),
)

func mountRoutes(engine *gin.Engine, routes *Routes) {
	routes.Mount(engine)
}
