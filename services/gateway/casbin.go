package gateway

import (
	"eventhub/pkg/config"

	"github.com/casbin/casbin/v2"
	casbinmodel "github.com/casbin/casbin/v2/model"
)

// RouteEnforcer answers whether any of the caller's roles may hit a
// route. Gates everything outside the events namespace; the permission
// engine owns /events.
type RouteEnforcer interface {
	Allowed(roles []string, path, method string) (bool, error)
}

const defaultModel = `
[request_definition]
r = sub, obj, act

[policy_definition]
p = sub, obj, act

[policy_effect]
e = some(where (p.eft == allow))

[matchers]
m = r.sub == p.sub && keyMatch2(r.obj, p.obj) && regexMatch(r.act, p.act)
`

// defaultPolicy covers the administrative surface when no policy file is
// configured.
var defaultPolicy = [][]string{
	{"ADMIN", "/users", "POST"},
	{"ADMIN", "/users/:id/roles", "GET|PUT"},
	{"AUDITOR", "/users/:id/roles", "GET"},
	{"ADMIN", "/requests", "GET"},
	{"AUDITOR", "/requests", "GET"},
	{"ADMIN", "/requests/:id/status", "PATCH"},
	{"OPERATOR", "/requests/:id/status", "PATCH"},
}

type casbinEnforcer struct {
	enforcer *casbin.Enforcer
}

func NewRouteEnforcer(cfg *config.Config) (RouteEnforcer, error) {
	if cfg.AccessControl.Model != "" && cfg.AccessControl.Policy != "" {
		enforcer, err := casbin.NewEnforcer(cfg.AccessControl.Model, cfg.AccessControl.Policy)
		if err != nil {
			return nil, err
		}
		return &casbinEnforcer{enforcer: enforcer}, nil
	}

	m, err := casbinmodel.NewModelFromString(defaultModel)
	if err != nil {
		return nil, err
	}

	enforcer, err := casbin.NewEnforcer(m)
	if err != nil {
		return nil, err
	}

	for _, rule := range defaultPolicy {
		if _, err := enforcer.AddPolicy(rule[0], rule[1], rule[2]); err != nil {
			return nil, err
		}
	}

	return &casbinEnforcer{enforcer: enforcer}, nil
}

func (e *casbinEnforcer) Allowed(roles []string, path, method string) (bool, error) {
	for _, role := range roles {
		ok, err := e.enforcer.Enforce(role, path, method)
		if err != nil {
			return false, err
		}
		if ok {
			return true, nil
		}
	}
	return false, nil
}
