package event

import (
	"eventhub/pkg/repository"

	"go.uber.org/fx"
	"gorm.io/gorm"
)

var Module = fx.Module("event",
	fx.Provide(
		repository.ProvideStore[Event],
		NewService,
	),
	fx.Invoke(
		autoMigrate,
		RegisterHandlers,
	),
)

func autoMigrate(db *gorm.DB) error {
	return db.AutoMigrate(&Event{})
}
