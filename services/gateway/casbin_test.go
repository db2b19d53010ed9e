package gateway

import (
	"net/http"
	"testing"

	"eventhub/pkg/config"

	"github.com/stretchr/testify/require"
)

func TestRouteEnforcer_DefaultPolicy(t *testing.T) {
	enforcer, err := NewRouteEnforcer(&config.Config{})
	require.NoError(t, err)

	cases := []struct {
		name    string
		roles   []string
		path    string
		method  string
		allowed bool
	}{
		{"admin creates users", []string{"ADMIN"}, "/users", http.MethodPost, true},
		{"operator cannot create users", []string{"OPERATOR"}, "/users", http.MethodPost, false},
		{"admin reads roles", []string{"ADMIN"}, "/users/123/roles", http.MethodGet, true},
		{"admin updates roles", []string{"ADMIN"}, "/users/123/roles", http.MethodPut, true},
		{"auditor reads roles", []string{"AUDITOR"}, "/users/123/roles", http.MethodGet, true},
		{"auditor cannot update roles", []string{"AUDITOR"}, "/users/123/roles", http.MethodPut, false},
		{"auditor lists requests", []string{"AUDITOR"}, "/requests", http.MethodGet, true},
		{"operator overrides request status", []string{"OPERATOR"}, "/requests/123/status", http.MethodPatch, true},
		{"auditor cannot override request status", []string{"AUDITOR"}, "/requests/123/status", http.MethodPatch, false},
		{"plain user denied everywhere", []string{"USER"}, "/requests", http.MethodGet, false},
		{"no roles denied", nil, "/users", http.MethodPost, false},
		{"any matching role admits", []string{"USER", "ADMIN"}, "/users", http.MethodPost, true},
	}

	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			allowed, err := enforcer.Allowed(tc.roles, tc.path, tc.method)
			require.NoError(t, err)
			require.Equal(t, tc.allowed, allowed)
		})
	}
}
