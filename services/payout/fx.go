package payout

import (
	"eventhub/pkg/sequence"

	"go.uber.org/fx"
	"go.uber.org/zap"
)

var Module = fx.Module("payout",
	fx.Provide(ProvideRegistry),
)

type RegistryParams struct {
	fx.In

	Sequence sequence.Generator
	Logger   *zap.Logger
}

func ProvideRegistry(p RegistryParams) *Registry {
	return NewRegistry(map[string]Processor{
		TypeCashPoint:       NewCashPointProcessor(p.Sequence, p.Logger),
		TypeItem:            NewItemProcessor(),
		TypePhysicalProduct: NewPhysicalProductProcessor(),
		TypeCouponInternal:  NewCouponInternalProcessor(p.Sequence, p.Logger),
		TypeCouponExternal:  NewCouponExternalProcessor(),
		TypeLottery:         NewLotteryProcessor(),
	})
}
