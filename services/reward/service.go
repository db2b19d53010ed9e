package reward

import (
	"context"
	"encoding/json"
	"errors"
	"strings"
	"time"

	"eventhub/pkg/db/option"
	"eventhub/pkg/errutil"
	"eventhub/pkg/repository"
	"eventhub/services/event"
	"eventhub/services/payout"

	"github.com/bwmarrin/snowflake"
	"github.com/hibiken/asynq"
	"go.opentelemetry.io/otel"
	"go.opentelemetry.io/otel/attribute"
	"go.uber.org/fx"
	"go.uber.org/zap"
	"gorm.io/datatypes"
	"gorm.io/gorm"
)

// Stable conflict reasons for the three duplicate-claim shapes.
const (
	reasonDuplicate        = "duplicate request"
	reasonAlreadyCompleted = "already completed"
	reasonInProgress       = "already in progress"
)

// EventDirectory is the slice of the event service the coordinator needs.
type EventDirectory interface {
	FindByID(ctx context.Context, id string) (*event.Event, error)
}

// Enqueuer hands payout work to the background worker. Satisfied by
// *asynq.Client.
type Enqueuer interface {
	Enqueue(task *asynq.Task, opts ...asynq.Option) (*asynq.TaskInfo, error)
}

// Service is the reward catalog plus the fulfillment coordinator: claim
// creation with dedup, asynchronous payout, status reads, and the
// completion-rate aggregate.
type Service struct {
	rewards  repository.Repository[Reward]
	requests repository.Repository[RewardRequest]
	events   EventDirectory
	registry *payout.Registry
	enqueuer Enqueuer
	node     *snowflake.Node
	logger   *zap.Logger
}

type ServiceParams struct {
	fx.In

	Rewards  repository.Repository[Reward]
	Requests repository.Repository[RewardRequest]
	Events   EventDirectory
	Registry *payout.Registry
	Enqueuer Enqueuer `optional:"true"`
	Node     *snowflake.Node
	Logger   *zap.Logger
}

func NewService(p ServiceParams) *Service {
	logger := p.Logger
	if logger == nil {
		logger = zap.NewNop()
	}
	return &Service{
		rewards:  p.Rewards,
		requests: p.Requests,
		events:   p.Events,
		registry: p.Registry,
		enqueuer: p.Enqueuer,
		node:     p.Node,
		logger:   logger,
	}
}

type CreateRewardRequest struct {
	EventID     string         `json:"eventId"`
	Name        string         `json:"name"`
	Description string         `json:"description"`
	Type        string         `json:"type"`
	RewardData  map[string]any `json:"rewardData"`
	Quantity    int            `json:"quantity"`
}

func (s *Service) CreateReward(ctx context.Context, req CreateRewardRequest) (*Reward, error) {
	if strings.TrimSpace(req.Name) == "" {
		return nil, errutil.BadRequest("name is required", nil)
	}

	if _, err := s.events.FindByID(ctx, req.EventID); err != nil {
		return nil, err
	}

	// Fail fast on a tag nothing can pay out.
	if _, err := s.registry.Get(req.Type); err != nil {
		return nil, err
	}

	quantity := req.Quantity
	if quantity == 0 {
		quantity = 1
	}
	if quantity < 1 {
		return nil, errutil.BadRequest("quantity must be at least 1", nil)
	}

	now := time.Now().UTC()
	record := &Reward{
		ID:          s.node.Generate().String(),
		EventID:     req.EventID,
		Name:        req.Name,
		Description: req.Description,
		Type:        req.Type,
		RewardData:  datatypes.JSONMap(req.RewardData),
		Quantity:    quantity,
		CreatedAt:   now,
		UpdatedAt:   now,
	}

	if err := s.rewards.Create(ctx, record); err != nil {
		s.logger.Error("failed to create reward", zap.Error(err))
		return nil, errutil.Internal("failed to create reward", err)
	}

	return record, nil
}

func (s *Service) FindRewards(ctx context.Context, eventID string) ([]*Reward, error) {
	if _, err := snowflake.ParseString(eventID); err != nil {
		return nil, errutil.InvalidID("malformed event id", err)
	}

	records, err := s.rewards.Find(ctx, &Reward{EventID: eventID}, newestFirst())
	if err != nil {
		s.logger.Error("failed to list rewards", zap.String("event_id", eventID), zap.Error(err))
		return nil, errutil.Internal("failed to list rewards", err)
	}

	return records, nil
}

func (s *Service) findReward(ctx context.Context, id string) (*Reward, error) {
	if _, err := snowflake.ParseString(id); err != nil {
		return nil, errutil.InvalidID("malformed reward id", err)
	}

	record, err := s.rewards.FindOne(ctx, &Reward{ID: id})
	if err != nil {
		s.logger.Error("failed to find reward", zap.String("reward_id", id), zap.Error(err))
		return nil, errutil.Internal("failed to find reward", err)
	}
	if record == nil {
		return nil, errutil.NotFound("reward not found", nil)
	}

	return record, nil
}

// CreateRequest is the claim entry point. The composite unique index is
// the only guard against the concurrent-claim race: the read below is a
// fast path for the three conflict shapes, and the insert's duplicate-key
// error is what decides the race loser.
func (s *Service) CreateRequest(ctx context.Context, eventID, rewardID, userID string) (*RewardRequest, error) {
	ctx, span := otel.Tracer("reward").Start(ctx, "reward.CreateRequest")
	defer span.End()
	span.SetAttributes(
		attribute.String("event_id", eventID),
		attribute.String("reward_id", rewardID),
		attribute.String("user_id", userID),
	)

	evt, err := s.events.FindByID(ctx, eventID)
	if err != nil {
		return nil, err
	}
	if evt.Status != event.StatusActive {
		return nil, errutil.BadRequest("event not active", nil)
	}

	rwd, err := s.findReward(ctx, rewardID)
	if err != nil {
		return nil, err
	}
	if rwd.EventID != eventID {
		return nil, errutil.BadRequest("reward does not belong to event", nil)
	}

	existing, err := s.requests.FindOne(ctx, &RewardRequest{
		EventID:  eventID,
		RewardID: rewardID,
		UserID:   userID,
	})
	if err != nil {
		s.logger.Error("failed to look up reward request", zap.Error(err))
		return nil, errutil.Internal("failed to look up reward request", err)
	}

	if existing != nil {
		switch existing.Status {
		case StatusCompleted:
			return nil, errutil.Conflict(reasonAlreadyCompleted, nil)
		case StatusRejected:
			return s.resetRequest(ctx, existing)
		default:
			return nil, errutil.Conflict(reasonInProgress, nil)
		}
	}

	now := time.Now().UTC()
	record := &RewardRequest{
		ID:        s.node.Generate().String(),
		EventID:   eventID,
		RewardID:  rewardID,
		UserID:    userID,
		Status:    StatusPending,
		CreatedAt: now,
		UpdatedAt: now,
	}

	if err := s.requests.Create(ctx, record); err != nil {
		if errors.Is(err, gorm.ErrDuplicatedKey) {
			return nil, errutil.Conflict(reasonDuplicate, err)
		}
		s.logger.Error("failed to create reward request", zap.Error(err))
		return nil, errutil.Internal("failed to create reward request", err)
	}

	s.enqueueProcessing(record)

	return record, nil
}

// resetRequest moves a REJECTED row back to PENDING in place, clearing
// the rejection fields, and re-enqueues payout.
func (s *Service) resetRequest(ctx context.Context, existing *RewardRequest) (*RewardRequest, error) {
	if err := s.requests.Update(ctx, existing.ID, map[string]any{
		"status":           StatusPending,
		"rejection_reason": "",
		"processed_at":     nil,
		"processed_by":     "",
		"updated_at":       time.Now().UTC(),
	}); err != nil {
		s.logger.Error("failed to reset reward request", zap.String("request_id", existing.ID), zap.Error(err))
		return nil, errutil.Internal("failed to reset reward request", err)
	}

	record, err := s.requests.FindOne(ctx, &RewardRequest{ID: existing.ID})
	if err != nil {
		return nil, errutil.Internal("failed to reload reward request", err)
	}

	s.enqueueProcessing(record)

	return record, nil
}

// enqueueProcessing hands the payout to the worker. Enqueue failure is
// logged and swallowed: the claim row already exists and must survive,
// even if that leaves it PENDING until someone looks.
func (s *Service) enqueueProcessing(record *RewardRequest) {
	if s.enqueuer == nil {
		return
	}

	payload, err := json.Marshal(ProcessRewardPayload{
		RequestID: record.ID,
		UserID:    record.UserID,
	})
	if err != nil {
		s.logger.Error("failed to encode payout payload", zap.String("request_id", record.ID), zap.Error(err))
		return
	}

	task := asynq.NewTask(TaskProcessReward, payload)
	if _, err := s.enqueuer.Enqueue(task, asynq.MaxRetry(0), asynq.Queue("default")); err != nil {
		s.logger.Error("failed to enqueue payout", zap.String("request_id", record.ID), zap.Error(err))
	}
}

// ProcessRequest runs the payout for one claim and stamps the outcome.
// A failed payout is a REJECTED request, not an error; errors here mean
// the claim could not be processed at all.
func (s *Service) ProcessRequest(ctx context.Context, requestID string) error {
	ctx, span := otel.Tracer("reward").Start(ctx, "reward.ProcessRequest")
	defer span.End()
	span.SetAttributes(attribute.String("request_id", requestID))

	record, err := s.requests.FindOne(ctx, &RewardRequest{ID: requestID})
	if err != nil {
		s.logger.Error("failed to load reward request", zap.String("request_id", requestID), zap.Error(err))
		return err
	}
	if record == nil {
		s.logger.Error("reward request vanished before processing", zap.String("request_id", requestID))
		return errutil.NotFound("reward request not found", nil)
	}

	rwd, err := s.rewards.FindOne(ctx, &Reward{ID: record.RewardID})
	if err != nil {
		s.logger.Error("failed to load reward for payout", zap.String("reward_id", record.RewardID), zap.Error(err))
		return err
	}
	if rwd == nil {
		s.logger.Error("reward missing for pending request", zap.String("reward_id", record.RewardID))
		return errutil.NotFound("reward not found", nil)
	}

	processor, err := s.registry.Get(rwd.Type)
	if err != nil {
		s.logger.Error("no processor registered for reward type", zap.String("reward_type", rwd.Type), zap.Error(err))
		return err
	}

	result := payout.SafeProcess(ctx, processor, record.UserID, rwd.RewardData)

	now := time.Now().UTC()
	changes := map[string]any{
		"processing_result": result.Success,
		"processed_at":      now,
		"updated_at":        now,
	}

	if result.Success {
		changes["status"] = StatusCompleted
		changes["reference_id"] = result.ReferenceID
		changes["result_details"] = datatypes.JSONMap(result.Details)
	} else {
		changes["status"] = StatusRejected
		changes["rejection_reason"] = result.Message
	}

	if err := s.requests.Update(ctx, record.ID, changes); err != nil {
		s.logger.Error("failed to record payout outcome", zap.String("request_id", record.ID), zap.Error(err))
		return err
	}

	s.logger.Info("reward request processed",
		zap.String("request_id", record.ID),
		zap.Bool("success", result.Success),
	)

	return nil
}

func (s *Service) FindByUser(ctx context.Context, userID, status string) ([]*RewardRequest, error) {
	query := &RewardRequest{UserID: userID}
	if status != "" {
		if !ValidStatus(status) {
			return nil, errutil.BadRequest("unknown status filter", nil)
		}
		query.Status = status
	}

	records, err := s.requests.Find(ctx, query, newestFirst())
	if err != nil {
		s.logger.Error("failed to list reward requests", zap.String("user_id", userID), zap.Error(err))
		return nil, errutil.Internal("failed to list reward requests", err)
	}
	return records, nil
}

func (s *Service) FindByStatus(ctx context.Context, status string) ([]*RewardRequest, error) {
	if !ValidStatus(status) {
		return nil, errutil.BadRequest("unknown status filter", nil)
	}

	records, err := s.requests.Find(ctx, &RewardRequest{Status: status}, newestFirst())
	if err != nil {
		s.logger.Error("failed to list reward requests", zap.String("status", status), zap.Error(err))
		return nil, errutil.Internal("failed to list reward requests", err)
	}
	return records, nil
}

func (s *Service) FindAll(ctx context.Context) ([]*RewardRequest, error) {
	records, err := s.requests.Find(ctx, &RewardRequest{}, newestFirst())
	if err != nil {
		s.logger.Error("failed to list reward requests", zap.Error(err))
		return nil, errutil.Internal("failed to list reward requests", err)
	}
	return records, nil
}

// UpdateStatus is the administrative override; it accepts any valid
// status, including the reserved ones.
func (s *Service) UpdateStatus(ctx context.Context, id, status, processedBy string) (*RewardRequest, error) {
	if !ValidStatus(status) {
		return nil, errutil.BadRequest("unknown status", nil)
	}
	if _, err := snowflake.ParseString(id); err != nil {
		return nil, errutil.InvalidID("malformed request id", err)
	}

	record, err := s.requests.FindOne(ctx, &RewardRequest{ID: id})
	if err != nil {
		return nil, errutil.Internal("failed to find reward request", err)
	}
	if record == nil {
		return nil, errutil.NotFound("reward request not found", nil)
	}

	now := time.Now().UTC()
	changes := map[string]any{
		"status":       status,
		"processed_at": now,
		"updated_at":   now,
	}
	if processedBy != "" {
		changes["processed_by"] = processedBy
	}

	if err := s.requests.Update(ctx, record.ID, changes); err != nil {
		s.logger.Error("failed to update reward request status", zap.String("request_id", id), zap.Error(err))
		return nil, errutil.Internal("failed to update reward request status", err)
	}

	return s.requests.FindOne(ctx, &RewardRequest{ID: id})
}

// CompletionRate is completed/total*100 for one event, 0 when the event
// has no requests.
func (s *Service) CompletionRate(ctx context.Context, eventID string) (float64, error) {
	total, err := s.requests.Count(ctx, &RewardRequest{EventID: eventID})
	if err != nil {
		return 0, err
	}
	if total == 0 {
		return 0, nil
	}

	completed, err := s.requests.Count(ctx, &RewardRequest{EventID: eventID, Status: StatusCompleted})
	if err != nil {
		return 0, err
	}

	return float64(completed) / float64(total) * 100, nil
}

func newestFirst() option.QueryOption {
	return option.WithSortBy(option.QuerySortBy{
		SortBy:  "created_at",
		OrderBy: "desc",
		Allow:   map[string]bool{"created_at": true},
	})
}
