package reward

import (
	"context"
	"encoding/json"

	"eventhub/pkg/errutil"
	"eventhub/pkg/rpc"
)

const (
	CmdCreateReward        = "create-reward"
	CmdGetRewards          = "get-rewards"
	CmdRequestReward       = "request-reward"
	CmdGetRewardRequests   = "get-reward-requests"
	CmdUpdateRequestStatus = "update-request-status"
)

type getRewardsPayload struct {
	EventID string `json:"eventId"`
}

type requestRewardPayload struct {
	EventID  string `json:"eventId"`
	RewardID string `json:"rewardId"`
	UserID   string `json:"userId"`
}

type getRequestsPayload struct {
	UserID string `json:"userId"`
	Status string `json:"status"`
}

type updateRequestStatusPayload struct {
	ID          string `json:"id"`
	Status      string `json:"status"`
	ProcessedBy string `json:"processedBy"`
}

func RegisterHandlers(router *rpc.Router, svc *Service) {
	router.Handle(CmdCreateReward, func(ctx context.Context, payload json.RawMessage) (any, error) {
		var req CreateRewardRequest
		if err := json.Unmarshal(payload, &req); err != nil {
			return nil, errutil.BadRequest("malformed payload", err)
		}
		return svc.CreateReward(ctx, req)
	})

	router.Handle(CmdGetRewards, func(ctx context.Context, payload json.RawMessage) (any, error) {
		var req getRewardsPayload
		if err := json.Unmarshal(payload, &req); err != nil {
			return nil, errutil.BadRequest("malformed payload", err)
		}
		return svc.FindRewards(ctx, req.EventID)
	})

	router.Handle(CmdRequestReward, func(ctx context.Context, payload json.RawMessage) (any, error) {
		var req requestRewardPayload
		if err := json.Unmarshal(payload, &req); err != nil {
			return nil, errutil.BadRequest("malformed payload", err)
		}
		return svc.CreateRequest(ctx, req.EventID, req.RewardID, req.UserID)
	})

	router.Handle(CmdGetRewardRequests, func(ctx context.Context, payload json.RawMessage) (any, error) {
		var req getRequestsPayload
		if len(payload) > 0 {
			if err := json.Unmarshal(payload, &req); err != nil {
				return nil, errutil.BadRequest("malformed payload", err)
			}
		}
		switch {
		case req.UserID != "":
			return svc.FindByUser(ctx, req.UserID, req.Status)
		case req.Status != "":
			return svc.FindByStatus(ctx, req.Status)
		default:
			return svc.FindAll(ctx)
		}
	})

	router.Handle(CmdUpdateRequestStatus, func(ctx context.Context, payload json.RawMessage) (any, error) {
		var req updateRequestStatusPayload
		if err := json.Unmarshal(payload, &req); err != nil {
			return nil, errutil.BadRequest("malformed payload", err)
		}
		return svc.UpdateStatus(ctx, req.ID, req.Status, req.ProcessedBy)
	})
}
