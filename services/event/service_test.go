package event

import (
	"context"
	"testing"
	"time"

	"eventhub/pkg/errutil"
	"eventhub/pkg/repository"
	"eventhub/services/condition"
	"eventhub/services/testutil"

	"github.com/bwmarrin/snowflake"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"
)

func init() {
	zap.ReplaceGlobals(zap.NewNop())
}

func newTestService(t *testing.T) *Service {
	t.Helper()

	db := testutil.NewTestDB(t, &Event{})

	node, err := snowflake.NewNode(1)
	require.NoError(t, err)

	registry := condition.NewRegistry(map[string]condition.Validator{
		condition.TypeAttendanceDays: condition.NewAttendanceDaysValidator(),
		condition.TypeInviteFriends:  condition.NewInviteFriendsValidator(),
	})

	return NewService(ServiceParams{
		Events:   repository.ProvideStore[Event](db),
		Registry: registry,
		Node:     node,
		Logger:   zap.NewNop(),
	})
}

func createReq() CreateEventRequest {
	now := time.Now().UTC()
	return CreateEventRequest{
		Title:         "Login Festival",
		Description:   "Daily login streak event",
		StartDate:     now.Add(-time.Hour).Format(time.RFC3339),
		EndDate:       now.Add(24 * time.Hour).Format(time.RFC3339),
		ConditionType: condition.TypeAttendanceDays,
		ConditionData: map[string]any{"requireDays": 7},
	}
}

func TestCreate_AlwaysStartsDraft(t *testing.T) {
	svc := newTestService(t)

	record, err := svc.Create(context.Background(), createReq(), "op-1")
	require.NoError(t, err)
	require.Equal(t, StatusDraft, record.Status)
	require.Equal(t, "op-1", record.CreatedBy)
	require.NotEmpty(t, record.ID)
}

func TestCreate_Validation(t *testing.T) {
	svc := newTestService(t)
	ctx := context.Background()

	req := createReq()
	req.Title = "  "
	_, err := svc.Create(ctx, req, "op-1")
	require.Equal(t, errutil.StatusBadRequest, errutil.StatusFrom(err))

	req = createReq()
	req.ConditionType = "NO_SUCH_CONDITION"
	_, err = svc.Create(ctx, req, "op-1")
	require.Equal(t, errutil.StatusUnsupportedCondition, errutil.StatusFrom(err))

	req = createReq()
	req.StartDate = "2026-13-01"
	_, err = svc.Create(ctx, req, "op-1")
	require.Equal(t, errutil.StatusBadRequest, errutil.StatusFrom(err))
}

func TestFindByID(t *testing.T) {
	svc := newTestService(t)
	ctx := context.Background()

	record, err := svc.Create(ctx, createReq(), "op-1")
	require.NoError(t, err)

	found, err := svc.FindByID(ctx, record.ID)
	require.NoError(t, err)
	require.Equal(t, record.ID, found.ID)

	_, err = svc.FindByID(ctx, "not-a-snowflake")
	require.Equal(t, errutil.StatusInvalidID, errutil.StatusFrom(err))

	_, err = svc.FindByID(ctx, svc.node.Generate().String())
	require.Equal(t, errutil.StatusNotFound, errutil.StatusFrom(err))
}

func TestUpdateStatus(t *testing.T) {
	svc := newTestService(t)
	ctx := context.Background()

	record, err := svc.Create(ctx, createReq(), "op-1")
	require.NoError(t, err)

	updated, err := svc.UpdateStatus(ctx, record.ID, StatusActive)
	require.NoError(t, err)
	require.Equal(t, StatusActive, updated.Status)

	_, err = svc.UpdateStatus(ctx, record.ID, "LIVE")
	require.Equal(t, errutil.StatusBadRequest, errutil.StatusFrom(err))
}

func TestUpdate_ConditionTypeMustResolve(t *testing.T) {
	svc := newTestService(t)
	ctx := context.Background()

	record, err := svc.Create(ctx, createReq(), "op-1")
	require.NoError(t, err)

	bad := "NO_SUCH_CONDITION"
	_, err = svc.Update(ctx, record.ID, UpdateEventRequest{ConditionType: &bad})
	require.Equal(t, errutil.StatusUnsupportedCondition, errutil.StatusFrom(err))

	good := condition.TypeInviteFriends
	title := "Invite Festival"
	updated, err := svc.Update(ctx, record.ID, UpdateEventRequest{ConditionType: &good, Title: &title})
	require.NoError(t, err)
	require.Equal(t, condition.TypeInviteFriends, updated.ConditionType)
	require.Equal(t, "Invite Festival", updated.Title)
}

func TestRemove_SoftDeleteHidesEvent(t *testing.T) {
	svc := newTestService(t)
	ctx := context.Background()

	record, err := svc.Create(ctx, createReq(), "op-1")
	require.NoError(t, err)

	require.NoError(t, svc.Remove(ctx, record.ID))

	_, err = svc.FindByID(ctx, record.ID)
	require.Equal(t, errutil.StatusNotFound, errutil.StatusFrom(err))

	records, err := svc.FindAll(ctx, "")
	require.NoError(t, err)
	require.Empty(t, records)
}

func TestValidateCondition(t *testing.T) {
	svc := newTestService(t)
	ctx := context.Background()

	record, err := svc.Create(ctx, createReq(), "op-1")
	require.NoError(t, err)

	// Still DRAFT: never met, but not an error.
	met, err := svc.ValidateCondition(ctx, "user135", record.ID)
	require.NoError(t, err)
	require.False(t, met)

	_, err = svc.UpdateStatus(ctx, record.ID, StatusActive)
	require.NoError(t, err)

	// Odd numeric id component meets the attendance rule.
	met, err = svc.ValidateCondition(ctx, "user135", record.ID)
	require.NoError(t, err)
	require.True(t, met)

	met, err = svc.ValidateCondition(ctx, "user246", record.ID)
	require.NoError(t, err)
	require.False(t, met)
}

func TestValidateCondition_OutsideWindow(t *testing.T) {
	svc := newTestService(t)
	ctx := context.Background()

	req := createReq()
	req.StartDate = time.Now().UTC().Add(-48 * time.Hour).Format(time.RFC3339)
	req.EndDate = time.Now().UTC().Add(-24 * time.Hour).Format(time.RFC3339)

	record, err := svc.Create(ctx, req, "op-1")
	require.NoError(t, err)

	_, err = svc.UpdateStatus(ctx, record.ID, StatusActive)
	require.NoError(t, err)

	met, err := svc.ValidateCondition(ctx, "user135", record.ID)
	require.NoError(t, err)
	require.False(t, met)
}

type stubRater struct {
	rates map[string]float64
	err   error
}

func (s *stubRater) CompletionRate(ctx context.Context, eventID string) (float64, error) {
	if s.err != nil {
		return 0, s.err
	}
	return s.rates[eventID], nil
}

func TestFindParticipating(t *testing.T) {
	svc := newTestService(t)
	ctx := context.Background()

	first, err := svc.Create(ctx, createReq(), "op-1")
	require.NoError(t, err)
	second, err := svc.Create(ctx, createReq(), "op-1")
	require.NoError(t, err)

	svc.SetCompletionRater(&stubRater{rates: map[string]float64{
		first.ID:  25,
		second.ID: 50,
	}})

	results := svc.FindParticipating(ctx, "user-1")
	require.Len(t, results, 2)

	byID := make(map[string]float64, len(results))
	for _, r := range results {
		byID[r.ID] = r.CompletionRate
	}
	require.Equal(t, 25.0, byID[first.ID])
	require.Equal(t, 50.0, byID[second.ID])
}

func TestFindParticipating_RaterFailureDegradesToEmpty(t *testing.T) {
	svc := newTestService(t)
	ctx := context.Background()

	_, err := svc.Create(ctx, createReq(), "op-1")
	require.NoError(t, err)

	svc.SetCompletionRater(&stubRater{err: errutil.Internal("broken", nil)})

	results := svc.FindParticipating(ctx, "user-1")
	require.Empty(t, results)
}
