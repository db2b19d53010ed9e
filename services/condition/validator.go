package condition

import (
	"context"

	"go.uber.org/zap"
)

// Condition type tags. Dispatch happens through the Registry; adding a
// type means registering a new Validator, never editing an existing one.
const (
	TypeAttendanceDays   = "ATTENDANCE_DAYS"
	TypeMonsterKill      = "MONSTER_KILL"
	TypeInviteFriends    = "INVITE_FRIENDS"
	TypePlayTime         = "PLAY_TIME"
	TypeDefeatBossWeekly = "DEFEAT_BOSS_WEEKLY"
	TypeVIPOnly          = "VIP_ONLY"
)

// Validator decides whether one user meets one condition. Validate never
// returns an error: internal failures mean "condition not met".
type Validator interface {
	Validate(ctx context.Context, userID, eventID string, data map[string]any) bool
	Describe(data map[string]any) string
}

// SafeValidate shields the evaluation path from a misbehaving validator.
// A panic degrades to false.
func SafeValidate(ctx context.Context, v Validator, userID, eventID string, data map[string]any) (met bool) {
	defer func() {
		if r := recover(); r != nil {
			zap.L().Error("condition validator panicked", zap.Any("panic", r))
			met = false
		}
	}()
	return v.Validate(ctx, userID, eventID, data)
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
