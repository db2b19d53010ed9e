package payout

import (
	"context"
	"errors"
	"testing"

	"eventhub/pkg/errutil"

	"github.com/stretchr/testify/require"
	"go.uber.org/zap"
)

func init() {
	zap.ReplaceGlobals(zap.NewNop())
}

type stubSequence struct {
	coupon string
	txn    string
	err    error
}

func (s *stubSequence) NextCouponCode(ctx context.Context, userID string) (string, error) {
	return s.coupon, s.err
}

func (s *stubSequence) NextTransactionCode(ctx context.Context, userID string) (string, error) {
	return s.txn, s.err
}

type panicProcessor struct{}

func (panicProcessor) Process(ctx context.Context, userID string, data map[string]any) Result {
	panic("boom")
}

func (panicProcessor) Describe(data map[string]any) string { return "" }

func TestRegistry_Get(t *testing.T) {
	registry := NewRegistry(map[string]Processor{
		TypeItem: NewItemProcessor(),
	})

	p, err := registry.Get(TypeItem)
	require.NoError(t, err)
	require.NotNil(t, p)

	_, err = registry.Get("NO_SUCH_REWARD")
	require.Error(t, err)
	require.Equal(t, errutil.StatusUnsupportedReward, errutil.StatusFrom(err))
}

func TestCashPointProcessor(t *testing.T) {
	ctx := context.Background()

	t.Run("credits points with a transaction reference", func(t *testing.T) {
		p := NewCashPointProcessor(&stubSequence{txn: "TXN-260829-001AB"}, zap.NewNop())

		result := p.Process(ctx, "user-1", map[string]any{"amount": float64(500)})
		require.True(t, result.Success)
		require.Equal(t, "TXN-260829-001AB", result.ReferenceID)
		require.Equal(t, 1000, result.Details["previousBalance"])
		require.Equal(t, 1500, result.Details["newBalance"])
		require.Equal(t, 500, result.Details["amount"])
	})

	t.Run("sequence failure rejects the payout", func(t *testing.T) {
		p := NewCashPointProcessor(&stubSequence{err: errors.New("redis down")}, zap.NewNop())

		result := p.Process(ctx, "user-1", map[string]any{"amount": float64(500)})
		require.False(t, result.Success)
		require.Equal(t, "failed to credit points", result.Message)
	})
}

func TestCouponInternalProcessor(t *testing.T) {
	ctx := context.Background()

	t.Run("issues a coupon code", func(t *testing.T) {
		p := NewCouponInternalProcessor(&stubSequence{coupon: "CPN-260829-001XY"}, zap.NewNop())

		result := p.Process(ctx, "user-1", nil)
		require.True(t, result.Success)
		require.Equal(t, "CPN-260829-001XY", result.ReferenceID)
		require.Equal(t, "CPN-260829-001XY", result.Details["couponCode"])
	})

	t.Run("sequence failure rejects the payout", func(t *testing.T) {
		p := NewCouponInternalProcessor(&stubSequence{err: errors.New("redis down")}, zap.NewNop())

		result := p.Process(ctx, "user-1", nil)
		require.False(t, result.Success)
		require.Equal(t, "failed to issue coupon", result.Message)
	})
}

func TestAcknowledgingProcessors(t *testing.T) {
	ctx := context.Background()
	data := map[string]any{"itemName": "Sword", "chances": float64(3)}

	for _, p := range []Processor{
		NewItemProcessor(),
		NewPhysicalProductProcessor(),
		NewCouponExternalProcessor(),
		NewLotteryProcessor(),
	} {
		result := p.Process(ctx, "user-1", data)
		require.True(t, result.Success)
		require.Equal(t, map[string]any(data), result.Details)
	}
}

func TestSafeProcess_PanicResolvesToFailure(t *testing.T) {
	result := SafeProcess(context.Background(), panicProcessor{}, "user-1", nil)
	require.False(t, result.Success)
	require.Equal(t, "payout failed", result.Message)
}
