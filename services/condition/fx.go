package condition

import (
	"go.uber.org/fx"
	"go.uber.org/zap"
)

var Module = fx.Module("condition",
	fx.Provide(ProvideRegistry),
)

type RegistryParams struct {
	fx.In

	Roles  RoleLookup
	Logger *zap.Logger
}

func ProvideRegistry(p RegistryParams) *Registry {
	return NewRegistry(map[string]Validator{
		TypeAttendanceDays:   NewAttendanceDaysValidator(),
		TypeMonsterKill:      NewMonsterKillValidator(),
		TypeInviteFriends:    NewInviteFriendsValidator(),
		TypePlayTime:         NewPlayTimeValidator(),
		TypeDefeatBossWeekly: NewDefeatBossWeeklyValidator(),
		TypeVIPOnly:          NewVIPOnlyValidator(p.Roles, p.Logger),
	})
}
