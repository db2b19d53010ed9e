package payout

import (
	"context"

	"go.uber.org/zap"
)

// Reward type tags, one per payout mechanism.
const (
	TypeCashPoint       = "CASH_POINT"
	TypeItem            = "ITEM"
	TypePhysicalProduct = "PHYSICAL_PRODUCT"
	TypeCouponInternal  = "COUPON_INTERNAL"
	TypeCouponExternal  = "COUPON_EXTERNAL"
	TypeLottery         = "LOTTERY"
)

// Result is the outcome of one payout attempt. Failure is data, not an
// error: the coordinator turns Success=false into a REJECTED request.
type Result struct {
	Success     bool           `json:"success"`
	ReferenceID string         `json:"referenceId,omitempty"`
	Message     string         `json:"message,omitempty"`
	Details     map[string]any `json:"details,omitempty"`
}

// Processor performs the payout side effect for one reward type.
type Processor interface {
	Process(ctx context.Context, userID string, data map[string]any) Result
	Describe(data map[string]any) string
}

// SafeProcess shields the fulfillment path from a misbehaving processor.
// A panic degrades to a failed Result.
func SafeProcess(ctx context.Context, p Processor, userID string, data map[string]any) (result Result) {
	defer func() {
		if r := recover(); r != nil {
			zap.L().Error("reward processor panicked", zap.Any("panic", r))
			result = Result{Success: false, Message: "payout failed"}
		}
	}()
	return p.Process(ctx, userID, data)
}

func intField(data map[string]any, key string) int {
	switch v := data[key].(type) {
	case int:
		return v
	case int64:
		return int(v)
	case float64:
		return int(v)
	default:
		return 0
	}
}

func stringField(data map[string]any, key string) string {
	if v, ok := data[key].(string); ok {
		return v
	}
	return ""
}
