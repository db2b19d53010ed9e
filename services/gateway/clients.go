package gateway

import (
	"context"

	"eventhub/pkg/config"
	"eventhub/pkg/rpc"
	"eventhub/services/user"
)

// AuthClient talks to the auth service over the command envelope.
type AuthClient struct {
	rpc *rpc.Client
}

func NewAuthClient(cfg *config.Config) *AuthClient {
	return &AuthClient{rpc: rpc.NewClient(cfg.AuthURL)}
}

func (c *AuthClient) VerifyToken(ctx context.Context, token string) (*user.User, error) {
	var out user.User
	if err := c.rpc.Invoke(ctx, user.CmdVerifyToken, map[string]any{"token": token}, &out); err != nil {
		return nil, err
	}
	return &out, nil
}

type permissionDecision struct {
	Allowed bool   `json:"hasPermission"`
	Reason  string `json:"message"`
}

func (c *AuthClient) ValidatePermission(ctx context.Context, userID, path, method string, roles []string) (permissionDecision, error) {
	var out permissionDecision
	err := c.rpc.Invoke(ctx, "validate-permission", map[string]any{
		"userId": userID,
		"path":   path,
		"method": method,
		"roles":  roles,
	}, &out)
	return out, err
}

func (c *AuthClient) Invoke(ctx context.Context, command string, payload any, out any) error {
	return c.rpc.Invoke(ctx, command, payload, out)
}

// EventClient talks to the event service over the command envelope.
type EventClient struct {
	rpc *rpc.Client
}

func NewEventClient(cfg *config.Config) *EventClient {
	return &EventClient{rpc: rpc.NewClient(cfg.EventURL)}
}

func (c *EventClient) Invoke(ctx context.Context, command string, payload any, out any) error {
	return c.rpc.Invoke(ctx, command, payload, out)
}
