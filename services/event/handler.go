package event

import (
	"context"
	"encoding/json"

	"eventhub/pkg/errutil"
	"eventhub/pkg/rpc"
)

const (
	CmdCreateEvent            = "create-event"
	CmdGetEvent               = "get-event"
	CmdGetAllEvents           = "get-all-events"
	CmdUpdateEvent            = "update-event"
	CmdUpdateEventStatus      = "update-event-status"
	CmdDeleteEvent            = "delete-event"
	CmdValidateEventCondition = "validate-event-condition"
	CmdGetParticipatingEvents = "get-participating-events"
)

type createEventPayload struct {
	CreateEventRequest
	OperatorID string `json:"operatorId"`
}

type getEventPayload struct {
	ID string `json:"id"`
}

type getAllEventsPayload struct {
	Status string `json:"status"`
}

type updateEventPayload struct {
	ID string `json:"id"`
	UpdateEventRequest
}

type updateEventStatusPayload struct {
	ID     string `json:"id"`
	Status string `json:"status"`
}

type validateConditionPayload struct {
	UserID  string `json:"userId"`
	EventID string `json:"eventId"`
}

type participatingPayload struct {
	UserID string `json:"userId"`
}

type deleteResult struct {
	Success bool `json:"success"`
}

type conditionResult struct {
	ConditionMet bool `json:"conditionMet"`
}

func RegisterHandlers(router *rpc.Router, svc *Service) {
	router.Handle(CmdCreateEvent, func(ctx context.Context, payload json.RawMessage) (any, error) {
		var req createEventPayload
		if err := json.Unmarshal(payload, &req); err != nil {
			return nil, errutil.BadRequest("malformed payload", err)
		}
		return svc.Create(ctx, req.CreateEventRequest, req.OperatorID)
	})

	router.Handle(CmdGetEvent, func(ctx context.Context, payload json.RawMessage) (any, error) {
		var req getEventPayload
		if err := json.Unmarshal(payload, &req); err != nil {
			return nil, errutil.BadRequest("malformed payload", err)
		}
		return svc.FindByID(ctx, req.ID)
	})

	router.Handle(CmdGetAllEvents, func(ctx context.Context, payload json.RawMessage) (any, error) {
		var req getAllEventsPayload
		if len(payload) > 0 {
			if err := json.Unmarshal(payload, &req); err != nil {
				return nil, errutil.BadRequest("malformed payload", err)
			}
		}
		return svc.FindAll(ctx, req.Status)
	})

	router.Handle(CmdUpdateEvent, func(ctx context.Context, payload json.RawMessage) (any, error) {
		var req updateEventPayload
		if err := json.Unmarshal(payload, &req); err != nil {
			return nil, errutil.BadRequest("malformed payload", err)
		}
		return svc.Update(ctx, req.ID, req.UpdateEventRequest)
	})

	router.Handle(CmdUpdateEventStatus, func(ctx context.Context, payload json.RawMessage) (any, error) {
		var req updateEventStatusPayload
		if err := json.Unmarshal(payload, &req); err != nil {
			return nil, errutil.BadRequest("malformed payload", err)
		}
		return svc.UpdateStatus(ctx, req.ID, req.Status)
	})

	router.Handle(CmdDeleteEvent, func(ctx context.Context, payload json.RawMessage) (any, error) {
		var req getEventPayload
		if err := json.Unmarshal(payload, &req); err != nil {
			return nil, errutil.BadRequest("malformed payload", err)
		}
		if err := svc.Remove(ctx, req.ID); err != nil {
			return nil, err
		}
		return deleteResult{Success: true}, nil
	})

	router.Handle(CmdValidateEventCondition, func(ctx context.Context, payload json.RawMessage) (any, error) {
		var req validateConditionPayload
		if err := json.Unmarshal(payload, &req); err != nil {
			return nil, errutil.BadRequest("malformed payload", err)
		}
		met, err := svc.ValidateCondition(ctx, req.UserID, req.EventID)
		if err != nil {
			return nil, err
		}
		return conditionResult{ConditionMet: met}, nil
	})

	router.Handle(CmdGetParticipatingEvents, func(ctx context.Context, payload json.RawMessage) (any, error) {
		var req participatingPayload
		if err := json.Unmarshal(payload, &req); err != nil {
			return nil, errutil.BadRequest("malformed payload", err)
		}
		return svc.FindParticipating(ctx, req.UserID), nil
	})
}
