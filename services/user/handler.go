package user

import (
	"context"
	"encoding/json"

	"eventhub/pkg/errutil"
	"eventhub/pkg/rpc"
)

const (
	CmdAuthenticate = "authenticate"
	CmdVerifyToken  = "verify-token"
	CmdGetUserRoles = "get-user-roles"
	CmdCreateUser   = "create-user"
)

type authenticatePayload struct {
	Username string `json:"username"`
	Password string `json:"password"`
}

type verifyTokenPayload struct {
	Token string `json:"token"`
}

type getUserRolesPayload struct {
	UserID string `json:"userId"`
}

// RolesResult mirrors the get-user-roles envelope consumed by the VIP
// condition validator and the permission engine.
type RolesResult struct {
	Success bool     `json:"success"`
	Roles   []string `json:"roles"`
}

func RegisterHandlers(router *rpc.Router, svc *Service) {
	router.Handle(CmdAuthenticate, func(ctx context.Context, payload json.RawMessage) (any, error) {
		var req authenticatePayload
		if err := json.Unmarshal(payload, &req); err != nil {
			return nil, errutil.BadRequest("malformed payload", err)
		}
		return svc.Authenticate(ctx, req.Username, req.Password)
	})

	router.Handle(CmdVerifyToken, func(ctx context.Context, payload json.RawMessage) (any, error) {
		var req verifyTokenPayload
		if err := json.Unmarshal(payload, &req); err != nil {
			return nil, errutil.BadRequest("malformed payload", err)
		}
		return svc.VerifyToken(ctx, req.Token)
	})

	router.Handle(CmdGetUserRoles, func(ctx context.Context, payload json.RawMessage) (any, error) {
		var req getUserRolesPayload
		if err := json.Unmarshal(payload, &req); err != nil {
			return nil, errutil.BadRequest("malformed payload", err)
		}
		roles, err := svc.GetRoles(ctx, req.UserID)
		if err != nil {
			return nil, err
		}
		return RolesResult{Success: true, Roles: roles}, nil
	})

	router.Handle(CmdCreateUser, func(ctx context.Context, payload json.RawMessage) (any, error) {
		var req CreateUserRequest
		if err := json.Unmarshal(payload, &req); err != nil {
			return nil, errutil.BadRequest("malformed payload", err)
		}
		return svc.Create(ctx, req)
	})
}
