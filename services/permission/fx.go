package permission

import (
	"eventhub/services/user"

	"go.uber.org/fx"
)

var Module = fx.Module("permission",
	fx.Provide(
		NewService,
		providePrincipalSource,
	),
	fx.Invoke(RegisterHandlers),
)

func providePrincipalSource(svc *user.Service) PrincipalSource {
	return svc
}
