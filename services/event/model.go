package event

import (
	"time"

	"gorm.io/datatypes"
	"gorm.io/plugin/soft_delete"
)

const (
	StatusDraft     = "DRAFT"
	StatusScheduled = "SCHEDULED"
	StatusActive    = "ACTIVE"
	StatusInactive  = "INACTIVE"
	StatusEnded     = "ENDED"
)

func ValidStatus(status string) bool {
	switch status {
	case StatusDraft, StatusScheduled, StatusActive, StatusInactive, StatusEnded:
		return true
	}
	return false
}

type Event struct {
	ID            string                `gorm:"column:id;primaryKey" json:"id"`
	Title         string                `gorm:"column:title" json:"title"`
	Description   string                `gorm:"column:description" json:"description,omitempty"`
	Status        string                `gorm:"column:status;index" json:"status"`
	StartDate     time.Time             `gorm:"column:start_date" json:"startDate"`
	EndDate       time.Time             `gorm:"column:end_date" json:"endDate"`
	ConditionType string                `gorm:"column:condition_type" json:"conditionType"`
	ConditionData datatypes.JSONMap     `gorm:"column:condition_data" json:"conditionData"`
	CreatedBy     string                `gorm:"column:created_by" json:"createdBy"`
	IsDeleted     soft_delete.DeletedAt `gorm:"column:is_deleted;softDelete:flag" json:"-"`
	CreatedAt     time.Time             `gorm:"column:created_at" json:"createdAt"`
	UpdatedAt     time.Time             `gorm:"column:updated_at" json:"updatedAt"`
}

func (Event) TableName() string {
	return "events"
}

// Active reports whether the event accepts participation at the given
// instant: exactly status ACTIVE and now within [StartDate, EndDate].
func (e *Event) Active(now time.Time) bool {
	if e.Status != StatusActive {
		return false
	}
	if now.Before(e.StartDate) || now.After(e.EndDate) {
		return false
	}
	return true
}
