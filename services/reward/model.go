package reward

import (
	"time"

	"gorm.io/datatypes"
	"gorm.io/plugin/soft_delete"
)

// RewardRequest statuses. PROCESSING, VALIDATED and FAILED are accepted
// values with no transition into them on the claim/payout protocol;
// they exist for the administrative override path and future use.
const (
	StatusPending    = "PENDING"
	StatusValidated  = "VALIDATED"
	StatusProcessing = "PROCESSING"
	StatusCompleted  = "COMPLETED"
	StatusRejected   = "REJECTED"
	StatusFailed     = "FAILED"
)

func ValidStatus(status string) bool {
	switch status {
	case StatusPending, StatusValidated, StatusProcessing, StatusCompleted, StatusRejected, StatusFailed:
		return true
	}
	return false
}

// Reward is a payout definition attached to an event. Never mutated
// after creation.
type Reward struct {
	ID          string                `gorm:"column:id;primaryKey" json:"id"`
	EventID     string                `gorm:"column:event_id;index" json:"eventId"`
	Name        string                `gorm:"column:name" json:"name"`
	Description string                `gorm:"column:description" json:"description,omitempty"`
	Type        string                `gorm:"column:type" json:"type"`
	RewardData  datatypes.JSONMap     `gorm:"column:reward_data" json:"rewardData"`
	Quantity    int                   `gorm:"column:quantity;default:1" json:"quantity"`
	IsDeleted   soft_delete.DeletedAt `gorm:"column:is_deleted;softDelete:flag" json:"-"`
	CreatedAt   time.Time             `gorm:"column:created_at" json:"createdAt"`
	UpdatedAt   time.Time             `gorm:"column:updated_at" json:"updatedAt"`
}

func (Reward) TableName() string {
	return "rewards"
}

// RewardRequest is the durable record of one user's claim against one
// reward of one event. The composite unique index is the dedup invariant:
// at most one row per (user, event, reward), forever. Rows are reset, not
// recreated, on retry, and never deleted.
type RewardRequest struct {
	ID               string            `gorm:"column:id;primaryKey" json:"id"`
	EventID          string            `gorm:"column:event_id;uniqueIndex:idx_claim" json:"eventId"`
	RewardID         string            `gorm:"column:reward_id;uniqueIndex:idx_claim" json:"rewardId"`
	UserID           string            `gorm:"column:user_id;uniqueIndex:idx_claim" json:"userId"`
	Status           string            `gorm:"column:status;index" json:"status"`
	ValidationResult *bool             `gorm:"column:validation_result" json:"validationResult,omitempty"`
	ProcessingResult *bool             `gorm:"column:processing_result" json:"processingResult,omitempty"`
	ReferenceID      string            `gorm:"column:reference_id" json:"referenceId,omitempty"`
	ResultDetails    datatypes.JSONMap `gorm:"column:result_details" json:"resultDetails,omitempty"`
	RejectionReason  string            `gorm:"column:rejection_reason" json:"rejectionReason,omitempty"`
	ProcessedAt      *time.Time        `gorm:"column:processed_at" json:"processedAt,omitempty"`
	ProcessedBy      string            `gorm:"column:processed_by" json:"processedBy,omitempty"`
	CreatedAt        time.Time         `gorm:"column:created_at" json:"createdAt"`
	UpdatedAt        time.Time         `gorm:"column:updated_at" json:"updatedAt"`
}

func (RewardRequest) TableName() string {
	return "reward_requests"
}
