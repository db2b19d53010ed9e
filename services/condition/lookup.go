package condition

import (
	"context"

	"eventhub/pkg/rpc"
)

type rpcRoleLookup struct {
	client *rpc.Client
}

// NewRPCRoleLookup reads role sets from the auth service over the command
// envelope.
func NewRPCRoleLookup(client *rpc.Client) RoleLookup {
	return &rpcRoleLookup{client: client}
}

func (l *rpcRoleLookup) GetUserRoles(ctx context.Context, userID string) (RolesResult, error) {
	var out RolesResult
	err := l.client.Invoke(ctx, "get-user-roles", map[string]any{"userId": userID}, &out)
	return out, err
}
