package condition

import (
	"context"
	"time"

	"go.uber.org/zap"
)

// vipRole is checked against the raw role strings returned by the auth
// service. VIP is not part of the canonical role set the rest of the
// platform uses; the upstream data carries it anyway, so the comparison
// stays local to this validator.
const vipRole = "VIP"

const roleLookupTimeout = 5 * time.Second

// RoleLookup reads a user's role set from the auth service.
type RoleLookup interface {
	GetUserRoles(ctx context.Context, userID string) (RolesResult, error)
}

type RolesResult struct {
	Success bool     `json:"success"`
	Roles   []string `json:"roles"`
}

type vipOnlyValidator struct {
	roles  RoleLookup
	logger *zap.Logger
}

func NewVIPOnlyValidator(roles RoleLookup, logger *zap.Logger) Validator {
	if logger == nil {
		logger = zap.NewNop()
	}
	return &vipOnlyValidator{roles: roles, logger: logger}
}

// Validate resolves to false on timeout, connection failure, or an
// unsuccessful lookup. Membership is never assumed.
func (v *vipOnlyValidator) Validate(ctx context.Context, userID, eventID string, data map[string]any) bool {
	ctx, cancel := context.WithTimeout(ctx, roleLookupTimeout)
	defer cancel()

	result, err := v.roles.GetUserRoles(ctx, userID)
	if err != nil {
		v.logger.Warn("role lookup failed", zap.String("user_id", userID), zap.Error(err))
		return false
	}

	if !result.Success {
		v.logger.Warn("role lookup unsuccessful", zap.String("user_id", userID))
		return false
	}

	for _, role := range result.Roles {
		if role == vipRole {
			return true
		}
	}
	return false
}

func (v *vipOnlyValidator) Describe(data map[string]any) string {
	return "open to VIP users only"
}
