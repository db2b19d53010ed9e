package reward

import (
	"eventhub/pkg/repository"
	"eventhub/services/event"

	"github.com/hibiken/asynq"
	"go.uber.org/fx"
	"gorm.io/gorm"
)

var Module = fx.Module("reward",
	fx.Provide(
		repository.ProvideStore[Reward],
		repository.ProvideStore[RewardRequest],
		provideEventDirectory,
		provideEnqueuer,
		NewService,
	),
	fx.Invoke(
		autoMigrate,
		bindCompletionRater,
		RegisterHandlers,
	),
)

func autoMigrate(db *gorm.DB) error {
	return db.AutoMigrate(&Reward{}, &RewardRequest{})
}

func provideEventDirectory(svc *event.Service) EventDirectory {
	return svc
}

func provideEnqueuer(client *asynq.Client) Enqueuer {
	return client
}

func bindCompletionRater(events *event.Service, svc *Service) {
	events.SetCompletionRater(svc)
}
