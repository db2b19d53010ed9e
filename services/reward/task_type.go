package reward

const (
	TaskProcessReward = "reward:process"
)

type ProcessRewardPayload struct {
	RequestID string `json:"request_id"`
	UserID    string `json:"user_id"`
}
