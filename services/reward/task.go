package reward

import (
	"context"
	"encoding/json"
	"fmt"

	"github.com/hibiken/asynq"
	"go.uber.org/fx"
	"go.uber.org/zap"
)

var TaskModule = fx.Module("task.reward",
	fx.Provide(NewTask),
	fx.Invoke(registerTaskHandlers),
)

// Task hosts the asynq handlers for the reward worker. Tasks are enqueued
// with MaxRetry(0): a crash between claim creation and payout leaves the
// request PENDING, which is the contract, not a bug to retry away.
type Task struct {
	svc *Service
}

type TaskParams struct {
	fx.In

	Service *Service
}

func NewTask(p TaskParams) *Task {
	return &Task{svc: p.Service}
}

func (t *Task) HandleProcessRewardTask(ctx context.Context, task *asynq.Task) error {
	var payload ProcessRewardPayload
	if err := json.Unmarshal(task.Payload(), &payload); err != nil {
		return fmt.Errorf("invalid payload: %w", err)
	}

	zapLog := zap.L().With(
		zap.String("task_type", task.Type()),
		zap.String("request_id", payload.RequestID),
		zap.String("user_id", payload.UserID),
	)
	zapLog.Info("▶️ start reward payout task")

	if err := t.svc.ProcessRequest(ctx, payload.RequestID); err != nil {
		zapLog.Error("reward payout failed", zap.Error(err))
		return err
	}

	zapLog.Info("🎉 reward payout task finished")
	return nil
}

func registerTaskHandlers(mux *asynq.ServeMux, task *Task) {
	mux.HandleFunc(TaskProcessReward, task.HandleProcessRewardTask)
}
