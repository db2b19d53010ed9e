package user

import (
	"eventhub/pkg/repository"

	"go.uber.org/fx"
	"gorm.io/gorm"
)

var Module = fx.Module("user",
	fx.Provide(
		repository.ProvideStore[User],
		NewRedisTokenStore,
		NewService,
	),
	fx.Invoke(
		autoMigrate,
		RegisterHandlers,
	),
)

func autoMigrate(db *gorm.DB) error {
	return db.AutoMigrate(&User{})
}
