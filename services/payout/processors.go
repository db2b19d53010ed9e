package payout

import (
	"context"
	"fmt"

	"eventhub/pkg/sequence"

	"go.uber.org/zap"
)

// cashPointProcessor credits points and records a transaction reference.
// The ledger integration is not wired yet; the balance figures are
// placeholders until it is.
type cashPointProcessor struct {
	seq    sequence.Generator
	logger *zap.Logger
}

func NewCashPointProcessor(seq sequence.Generator, logger *zap.Logger) Processor {
	if logger == nil {
		logger = zap.NewNop()
	}
	return &cashPointProcessor{seq: seq, logger: logger}
}

func (p *cashPointProcessor) Process(ctx context.Context, userID string, data map[string]any) Result {
	amount := intField(data, "amount")

	ref, err := p.seq.NextTransactionCode(ctx, userID)
	if err != nil {
		p.logger.Error("failed to issue transaction code", zap.String("user_id", userID), zap.Error(err))
		return Result{Success: false, Message: "failed to credit points"}
	}

	return Result{
		Success:     true,
		ReferenceID: ref,
		Message:     fmt.Sprintf("%d points credited", amount),
		Details: map[string]any{
			"previousBalance": 1000,
			"newBalance":      1000 + amount,
			"amount":          amount,
		},
	}
}

func (p *cashPointProcessor) Describe(data map[string]any) string {
	return fmt.Sprintf("%d cash points", intField(data, "amount"))
}

type itemProcessor struct{}

func NewItemProcessor() Processor {
	return &itemProcessor{}
}

func (p *itemProcessor) Process(ctx context.Context, userID string, data map[string]any) Result {
	return Result{
		Success: true,
		Message: fmt.Sprintf("item granted to user %s", userID),
		Details: data,
	}
}

func (p *itemProcessor) Describe(data map[string]any) string {
	name := stringField(data, "itemName")
	if name == "" {
		name = "unknown item"
	}
	return fmt.Sprintf("item: %s", name)
}

type physicalProductProcessor struct{}

func NewPhysicalProductProcessor() Processor {
	return &physicalProductProcessor{}
}

func (p *physicalProductProcessor) Process(ctx context.Context, userID string, data map[string]any) Result {
	return Result{
		Success: true,
		Message: fmt.Sprintf("physical product shipment queued for user %s", userID),
		Details: data,
	}
}

func (p *physicalProductProcessor) Describe(data map[string]any) string {
	name := stringField(data, "productName")
	if name == "" {
		name = "unknown product"
	}
	return fmt.Sprintf("physical product: %s", name)
}

// couponInternalProcessor mints coupon codes in-house through the
// sequence generator.
type couponInternalProcessor struct {
	seq    sequence.Generator
	logger *zap.Logger
}

func NewCouponInternalProcessor(seq sequence.Generator, logger *zap.Logger) Processor {
	if logger == nil {
		logger = zap.NewNop()
	}
	return &couponInternalProcessor{seq: seq, logger: logger}
}

func (p *couponInternalProcessor) Process(ctx context.Context, userID string, data map[string]any) Result {
	code, err := p.seq.NextCouponCode(ctx, userID)
	if err != nil {
		p.logger.Error("failed to issue coupon code", zap.String("user_id", userID), zap.Error(err))
		return Result{Success: false, Message: "failed to issue coupon"}
	}

	return Result{
		Success:     true,
		ReferenceID: code,
		Message:     fmt.Sprintf("coupon %s issued to user %s", code, userID),
		Details:     map[string]any{"couponCode": code},
	}
}

func (p *couponInternalProcessor) Describe(data map[string]any) string {
	code := stringField(data, "couponCode")
	if code == "" {
		code = "unknown coupon"
	}
	return fmt.Sprintf("internal coupon: %s", code)
}

type couponExternalProcessor struct{}

func NewCouponExternalProcessor() Processor {
	return &couponExternalProcessor{}
}

// Process acknowledges the grant; the external coupon partner callback is
// not integrated yet.
func (p *couponExternalProcessor) Process(ctx context.Context, userID string, data map[string]any) Result {
	return Result{
		Success: true,
		Message: fmt.Sprintf("external coupon granted to user %s", userID),
		Details: data,
	}
}

func (p *couponExternalProcessor) Describe(data map[string]any) string {
	code := stringField(data, "couponCode")
	if code == "" {
		code = "unknown coupon"
	}
	return fmt.Sprintf("external coupon: %s", code)
}

type lotteryProcessor struct{}

func NewLotteryProcessor() Processor {
	return &lotteryProcessor{}
}

func (p *lotteryProcessor) Process(ctx context.Context, userID string, data map[string]any) Result {
	return Result{
		Success: true,
		Message: fmt.Sprintf("lottery entries granted to user %s", userID),
		Details: data,
	}
}

func (p *lotteryProcessor) Describe(data map[string]any) string {
	return fmt.Sprintf("lottery entries: %d", intField(data, "chances"))
}
