package permission

import (
	"context"
	"encoding/json"

	"eventhub/pkg/errutil"
	"eventhub/pkg/rpc"
)

const CmdValidatePermission = "validate-permission"

type validatePayload struct {
	UserID string   `json:"userId"`
	Path   string   `json:"path"`
	Method string   `json:"method"`
	Roles  []string `json:"roles"`
}

func RegisterHandlers(router *rpc.Router, svc *Service) {
	router.Handle(CmdValidatePermission, func(ctx context.Context, payload json.RawMessage) (any, error) {
		var req validatePayload
		if err := json.Unmarshal(payload, &req); err != nil {
			return nil, errutil.BadRequest("malformed payload", err)
		}
		return svc.Authorize(ctx, req.UserID, req.Path, req.Method, req.Roles), nil
	})
}
