package event

import (
	"context"
	"strings"
	"time"

	"eventhub/pkg/db/option"
	"eventhub/pkg/errutil"
	"eventhub/pkg/repository"
	"eventhub/services/condition"

	"github.com/bwmarrin/snowflake"
	"go.uber.org/fx"
	"go.uber.org/zap"
	"golang.org/x/sync/errgroup"
	"gorm.io/datatypes"
)

// CompletionRater reports how far an event's reward requests have
// progressed. Implemented by the reward coordinator.
type CompletionRater interface {
	CompletionRate(ctx context.Context, eventID string) (float64, error)
}

// Service owns event lifecycle: creation, status transitions, soft
// deletion, and condition evaluation against the validator registry.
type Service struct {
	events   repository.Repository[Event]
	registry *condition.Registry
	rater    CompletionRater
	node     *snowflake.Node
	logger   *zap.Logger
}

type ServiceParams struct {
	fx.In

	Events   repository.Repository[Event]
	Registry *condition.Registry
	Node     *snowflake.Node
	Logger   *zap.Logger
}

func NewService(p ServiceParams) *Service {
	logger := p.Logger
	if logger == nil {
		logger = zap.NewNop()
	}
	return &Service{
		events:   p.Events,
		registry: p.Registry,
		node:     p.Node,
		logger:   logger,
	}
}

// SetCompletionRater wires the reward coordinator in after construction.
// The two services reference each other, so this side is bound late.
func (s *Service) SetCompletionRater(r CompletionRater) {
	s.rater = r
}

type CreateEventRequest struct {
	Title         string         `json:"title"`
	Description   string         `json:"description"`
	StartDate     string         `json:"startDate"`
	EndDate       string         `json:"endDate"`
	ConditionType string         `json:"conditionType"`
	ConditionData map[string]any `json:"conditionData"`
}

// Create persists a new event in DRAFT, whatever status the caller had in
// mind; activation is always an explicit follow-up transition.
func (s *Service) Create(ctx context.Context, req CreateEventRequest, operatorID string) (*Event, error) {
	if strings.TrimSpace(req.Title) == "" {
		return nil, errutil.BadRequest("title is required", nil)
	}

	// Fail fast on a tag nothing can evaluate.
	if _, err := s.registry.Get(req.ConditionType); err != nil {
		return nil, err
	}

	startDate, err := parseDate(req.StartDate)
	if err != nil {
		return nil, errutil.BadRequest("malformed startDate", err)
	}
	endDate, err := parseDate(req.EndDate)
	if err != nil {
		return nil, errutil.BadRequest("malformed endDate", err)
	}

	now := time.Now().UTC()
	record := &Event{
		ID:            s.node.Generate().String(),
		Title:         req.Title,
		Description:   req.Description,
		Status:        StatusDraft,
		StartDate:     startDate,
		EndDate:       endDate,
		ConditionType: req.ConditionType,
		ConditionData: datatypes.JSONMap(req.ConditionData),
		CreatedBy:     operatorID,
		CreatedAt:     now,
		UpdatedAt:     now,
	}

	if err := s.events.Create(ctx, record); err != nil {
		s.logger.Error("failed to create event", zap.Error(err))
		return nil, errutil.Internal("failed to create event", err)
	}

	return record, nil
}

func (s *Service) FindAll(ctx context.Context, statusFilter string) ([]*Event, error) {
	query := &Event{}
	if statusFilter != "" {
		if !ValidStatus(statusFilter) {
			return nil, errutil.BadRequest("unknown status filter", nil)
		}
		query.Status = statusFilter
	}

	records, err := s.events.Find(ctx, query, option.WithSortBy(option.QuerySortBy{
		SortBy:  "created_at",
		OrderBy: "desc",
		Allow:   map[string]bool{"created_at": true},
	}))
	if err != nil {
		s.logger.Error("failed to list events", zap.Error(err))
		return nil, errutil.Internal("failed to list events", err)
	}

	return records, nil
}

func (s *Service) FindByID(ctx context.Context, id string) (*Event, error) {
	if _, err := snowflake.ParseString(id); err != nil {
		return nil, errutil.InvalidID("malformed event id", err)
	}

	record, err := s.events.FindOne(ctx, &Event{ID: id})
	if err != nil {
		s.logger.Error("failed to find event", zap.String("event_id", id), zap.Error(err))
		return nil, errutil.Internal("failed to find event", err)
	}
	if record == nil {
		return nil, errutil.NotFound("event not found", nil)
	}

	return record, nil
}

// UpdateStatus is an unconditional transition; there is no authored
// transition table between statuses.
func (s *Service) UpdateStatus(ctx context.Context, id, status string) (*Event, error) {
	if !ValidStatus(status) {
		return nil, errutil.BadRequest("unknown status", nil)
	}

	record, err := s.FindByID(ctx, id)
	if err != nil {
		return nil, err
	}

	if err := s.events.Update(ctx, record.ID, map[string]any{
		"status":     status,
		"updated_at": time.Now().UTC(),
	}); err != nil {
		s.logger.Error("failed to update event status", zap.String("event_id", id), zap.Error(err))
		return nil, errutil.Internal("failed to update event status", err)
	}

	return s.FindByID(ctx, id)
}

type UpdateEventRequest struct {
	Title         *string        `json:"title"`
	Description   *string        `json:"description"`
	StartDate     *string        `json:"startDate"`
	EndDate       *string        `json:"endDate"`
	ConditionType *string        `json:"conditionType"`
	ConditionData map[string]any `json:"conditionData"`
}

func (s *Service) Update(ctx context.Context, id string, req UpdateEventRequest) (*Event, error) {
	record, err := s.FindByID(ctx, id)
	if err != nil {
		return nil, err
	}

	changes := map[string]any{"updated_at": time.Now().UTC()}

	if req.Title != nil {
		if strings.TrimSpace(*req.Title) == "" {
			return nil, errutil.BadRequest("title must not be empty", nil)
		}
		changes["title"] = *req.Title
	}
	if req.Description != nil {
		changes["description"] = *req.Description
	}
	if req.StartDate != nil {
		startDate, err := parseDate(*req.StartDate)
		if err != nil {
			return nil, errutil.BadRequest("malformed startDate", err)
		}
		changes["start_date"] = startDate
	}
	if req.EndDate != nil {
		endDate, err := parseDate(*req.EndDate)
		if err != nil {
			return nil, errutil.BadRequest("malformed endDate", err)
		}
		changes["end_date"] = endDate
	}
	if req.ConditionType != nil && *req.ConditionType != record.ConditionType {
		if _, err := s.registry.Get(*req.ConditionType); err != nil {
			return nil, err
		}
		changes["condition_type"] = *req.ConditionType
	}
	if req.ConditionData != nil {
		changes["condition_data"] = datatypes.JSONMap(req.ConditionData)
	}

	if err := s.events.Update(ctx, record.ID, changes); err != nil {
		s.logger.Error("failed to update event", zap.String("event_id", id), zap.Error(err))
		return nil, errutil.Internal("failed to update event", err)
	}

	return s.FindByID(ctx, id)
}

func (s *Service) Remove(ctx context.Context, id string) error {
	record, err := s.FindByID(ctx, id)
	if err != nil {
		return err
	}

	if err := s.events.Delete(ctx, record.ID); err != nil {
		s.logger.Error("failed to delete event", zap.String("event_id", id), zap.Error(err))
		return errutil.Internal("failed to delete event", err)
	}

	return nil
}

// ValidateCondition evaluates whether a user currently meets an event's
// unlock condition. A non-active event always evaluates to false; an
// unresolvable condition tag is a configuration error and propagates.
func (s *Service) ValidateCondition(ctx context.Context, userID, eventID string) (bool, error) {
	record, err := s.FindByID(ctx, eventID)
	if err != nil {
		return false, err
	}

	if !record.Active(time.Now().UTC()) {
		return false, nil
	}

	validator, err := s.registry.Get(record.ConditionType)
	if err != nil {
		return false, err
	}

	return condition.SafeValidate(ctx, validator, userID, eventID, record.ConditionData), nil
}

type ParticipatingEvent struct {
	*Event
	CompletionRate float64 `json:"completionRate"`
}

// FindParticipating lists events with their completion rate, fanned out
// concurrently. Failures degrade to an empty list rather than erroring
// the whole listing.
func (s *Service) FindParticipating(ctx context.Context, userID string) []*ParticipatingEvent {
	records, err := s.FindAll(ctx, "")
	if err != nil {
		s.logger.Warn("failed to list events for participation view", zap.String("user_id", userID), zap.Error(err))
		return []*ParticipatingEvent{}
	}

	results := make([]*ParticipatingEvent, len(records))
	g, gctx := errgroup.WithContext(ctx)

	for i, record := range records {
		g.Go(func() error {
			rate := 0.0
			if s.rater != nil {
				r, err := s.rater.CompletionRate(gctx, record.ID)
				if err != nil {
					return err
				}
				rate = r
			}
			results[i] = &ParticipatingEvent{Event: record, CompletionRate: rate}
			return nil
		})
	}

	if err := g.Wait(); err != nil {
		s.logger.Warn("failed to compute completion rates", zap.String("user_id", userID), zap.Error(err))
		return []*ParticipatingEvent{}
	}

	return results
}

func parseDate(value string) (time.Time, error) {
	t, err := time.Parse(time.RFC3339, value)
	if err != nil {
		return time.Time{}, err
	}
	return t.UTC(), nil
}
