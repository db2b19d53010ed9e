package user

import (
	"time"

	"gorm.io/datatypes"
	"gorm.io/plugin/soft_delete"
)

// Canonical roles. A VIP-like role exists in the wild (one condition
// validator checks for it) but is deliberately not part of this set.
const (
	RoleUser     = "USER"
	RoleOperator = "OPERATOR"
	RoleAuditor  = "AUDITOR"
	RoleAdmin    = "ADMIN"
)

type User struct {
	ID           string                      `gorm:"column:id;primaryKey" json:"id"`
	Username     string                      `gorm:"column:username;uniqueIndex:idx_users_username" json:"username"`
	PasswordHash string                      `gorm:"column:password_hash" json:"-"`
	Roles        datatypes.JSONSlice[string] `gorm:"column:roles" json:"roles"`
	IsActive     bool                        `gorm:"column:is_active;default:true" json:"isActive"`
	IsDeleted    soft_delete.DeletedAt       `gorm:"column:is_deleted;softDelete:flag" json:"-"`
	CreatedAt    time.Time                   `gorm:"column:created_at" json:"createdAt"`
	UpdatedAt    time.Time                   `gorm:"column:updated_at" json:"updatedAt"`
}

func (User) TableName() string {
	return "users"
}

func (u *User) HasRole(role string) bool {
	for _, r := range u.Roles {
		if r == role {
			return true
		}
	}
	return false
}
