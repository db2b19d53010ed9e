package permission

import (
	"context"
	"net/http"
	"testing"

	"eventhub/pkg/errutil"
	"eventhub/services/user"

	"github.com/stretchr/testify/require"
	"go.uber.org/zap"
	"gorm.io/datatypes"
)

func init() {
	zap.ReplaceGlobals(zap.NewNop())
}

type stubPrincipals struct {
	users map[string]*user.User
}

func (s *stubPrincipals) FindByID(ctx context.Context, id string) (*user.User, error) {
	record, ok := s.users[id]
	if !ok {
		return nil, errutil.NotFound("user not found", nil)
	}
	return record, nil
}

type panicPrincipals struct{}

func (panicPrincipals) FindByID(ctx context.Context, id string) (*user.User, error) {
	panic("boom")
}

func principal(id string, active bool, roles ...string) *user.User {
	return &user.User{
		ID:       id,
		Username: id,
		Roles:    datatypes.NewJSONSlice(roles),
		IsActive: active,
	}
}

func newTestService(principals PrincipalSource) *Service {
	return NewService(ServiceParams{Principals: principals, Logger: zap.NewNop()})
}

func TestAuthorize_UnknownOrInactiveUserDenied(t *testing.T) {
	svc := newTestService(&stubPrincipals{users: map[string]*user.User{
		"inactive": principal("inactive", false, user.RoleAdmin),
	}})
	ctx := context.Background()

	decision := svc.Authorize(ctx, "missing", "/events", http.MethodGet, nil)
	require.False(t, decision.Allowed)
	require.Equal(t, ReasonUnknownUser, decision.Reason)

	decision = svc.Authorize(ctx, "inactive", "/events", http.MethodGet, nil)
	require.False(t, decision.Allowed)
	require.Equal(t, ReasonUnknownUser, decision.Reason)
}

func TestAuthorize_OutsideEventsNamespaceAllowed(t *testing.T) {
	svc := newTestService(&stubPrincipals{users: map[string]*user.User{
		"u1": principal("u1", true, user.RoleUser),
	}})

	decision := svc.Authorize(context.Background(), "u1", "/profile", http.MethodDelete, nil)
	require.True(t, decision.Allowed)
}

func TestAuthorize_ReadsUnderEventsAlwaysAllowed(t *testing.T) {
	svc := newTestService(&stubPrincipals{users: map[string]*user.User{
		"u1": principal("u1", true, user.RoleUser),
	}})

	decision := svc.Authorize(context.Background(), "u1", "/events/123", http.MethodGet, nil)
	require.True(t, decision.Allowed)
}

func TestAuthorize_ClaimPathAllowedForAnyActiveUser(t *testing.T) {
	svc := newTestService(&stubPrincipals{users: map[string]*user.User{
		"u1": principal("u1", true, user.RoleUser),
	}})
	ctx := context.Background()

	decision := svc.Authorize(ctx, "u1", "/events/123/rewards/456/request", http.MethodPost, nil)
	require.True(t, decision.Allowed)

	// Trailing slash is tolerated.
	decision = svc.Authorize(ctx, "u1", "/events/123/rewards/456/request/", http.MethodPost, nil)
	require.True(t, decision.Allowed)

	// Anything deeper is not the claim path.
	decision = svc.Authorize(ctx, "u1", "/events/123/rewards/456/request/extra", http.MethodPost, nil)
	require.False(t, decision.Allowed)
}

func TestAuthorize_MutationsRequireAdmin(t *testing.T) {
	svc := newTestService(&stubPrincipals{users: map[string]*user.User{
		"operator": principal("operator", true, user.RoleOperator),
		"admin":    principal("admin", true, user.RoleAdmin),
		"plain":    principal("plain", true, user.RoleUser),
	}})
	ctx := context.Background()

	decision := svc.Authorize(ctx, "operator", "/events/123", http.MethodDelete, []string{user.RoleOperator})
	require.False(t, decision.Allowed)
	require.Equal(t, ReasonAdminRequired, decision.Reason)

	// Admin from the stored record.
	decision = svc.Authorize(ctx, "admin", "/events/123", http.MethodDelete, nil)
	require.True(t, decision.Allowed)

	// Admin from the claimed role set.
	decision = svc.Authorize(ctx, "plain", "/events", http.MethodPost, []string{user.RoleAdmin})
	require.True(t, decision.Allowed)
}

func TestAuthorize_PanicResolvesToDenied(t *testing.T) {
	svc := newTestService(panicPrincipals{})

	decision := svc.Authorize(context.Background(), "u1", "/events", http.MethodGet, nil)
	require.False(t, decision.Allowed)
	require.Equal(t, ReasonEvalFailed, decision.Reason)
}
