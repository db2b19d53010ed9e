package gateway

import (
	"context"
	"encoding/json"
	"net/http"

	"eventhub/pkg/errutil"
	"eventhub/pkg/middleware"

	"github.com/gin-gonic/gin"
)

type invoker interface {
	Invoke(ctx context.Context, command string, payload any, out any) error
}

// Routes is the public REST surface; every handler proxies to the auth or
// event service over the command envelope.
type Routes struct {
	auth     *AuthClient
	events   *EventClient
	enforcer RouteEnforcer
}

func NewRoutes(auth *AuthClient, events *EventClient, enforcer RouteEnforcer) *Routes {
	return &Routes{auth: auth, events: events, enforcer: enforcer}
}

func (r *Routes) Mount(engine *gin.Engine) {
	engine.POST("/auth/login", r.login)

	authed := engine.Group("", TokenAuth(r.auth))

	events := authed.Group("/events", PermissionCheck(r.auth))
	events.GET("", r.listEvents)
	events.POST("", r.createEvent)
	events.GET("/participating", r.participatingEvents)
	events.GET("/:id", r.getEvent)
	events.PUT("/:id", r.updateEvent)
	events.DELETE("/:id", r.deleteEvent)
	events.PATCH("/:id/status", r.updateEventStatus)
	events.GET("/:id/validate", r.validateCondition)
	events.GET("/:id/rewards", r.listRewards)
	events.POST("/:id/rewards", r.createReward)
	events.POST("/:id/rewards/:rewardId/request", r.requestReward)

	admin := authed.Group("", RequireRole(r.enforcer))
	admin.POST("/users", r.createUser)
	admin.GET("/users/:id/roles", r.getUserRoles)
	admin.GET("/requests", r.listRequests)
	admin.PATCH("/requests/:id/status", r.updateRequestStatus)
}

func (r *Routes) proxy(c *gin.Context, target invoker, command string, payload any) {
	var out json.RawMessage
	if err := target.Invoke(c.Request.Context(), command, payload, &out); err != nil {
		abortWith(c, err)
		return
	}
	c.Data(http.StatusOK, "application/json; charset=utf-8", out)
}

func (r *Routes) bindBody(c *gin.Context, out *map[string]any) bool {
	if c.Request.ContentLength == 0 {
		*out = map[string]any{}
		return true
	}
	if err := c.ShouldBindJSON(out); err != nil {
		abortWith(c, errutil.BadRequest("malformed request body", err))
		return false
	}
	return true
}

func (r *Routes) login(c *gin.Context) {
	var body map[string]any
	if !r.bindBody(c, &body) {
		return
	}
	r.proxy(c, r.auth, "authenticate", body)
}

func (r *Routes) createUser(c *gin.Context) {
	var body map[string]any
	if !r.bindBody(c, &body) {
		return
	}
	r.proxy(c, r.auth, "create-user", body)
}

func (r *Routes) getUserRoles(c *gin.Context) {
	r.proxy(c, r.auth, "get-user-roles", map[string]any{"userId": c.Param("id")})
}

func (r *Routes) listEvents(c *gin.Context) {
	r.proxy(c, r.events, "get-all-events", map[string]any{"status": c.Query("status")})
}

func (r *Routes) createEvent(c *gin.Context) {
	var body map[string]any
	if !r.bindBody(c, &body) {
		return
	}
	if principal, ok := middleware.PrincipalFrom(c.Request.Context()); ok {
		body["operatorId"] = principal.UserID
	}
	r.proxy(c, r.events, "create-event", body)
}

func (r *Routes) getEvent(c *gin.Context) {
	r.proxy(c, r.events, "get-event", map[string]any{"id": c.Param("id")})
}

func (r *Routes) updateEvent(c *gin.Context) {
	var body map[string]any
	if !r.bindBody(c, &body) {
		return
	}
	body["id"] = c.Param("id")
	r.proxy(c, r.events, "update-event", body)
}

func (r *Routes) deleteEvent(c *gin.Context) {
	r.proxy(c, r.events, "delete-event", map[string]any{"id": c.Param("id")})
}

func (r *Routes) updateEventStatus(c *gin.Context) {
	var body map[string]any
	if !r.bindBody(c, &body) {
		return
	}
	body["id"] = c.Param("id")
	r.proxy(c, r.events, "update-event-status", body)
}

func (r *Routes) validateCondition(c *gin.Context) {
	principal, _ := middleware.PrincipalFrom(c.Request.Context())
	r.proxy(c, r.events, "validate-event-condition", map[string]any{
		"userId":  principal.UserID,
		"eventId": c.Param("id"),
	})
}

func (r *Routes) participatingEvents(c *gin.Context) {
	principal, _ := middleware.PrincipalFrom(c.Request.Context())
	r.proxy(c, r.events, "get-participating-events", map[string]any{"userId": principal.UserID})
}

func (r *Routes) listRewards(c *gin.Context) {
	r.proxy(c, r.events, "get-rewards", map[string]any{"eventId": c.Param("id")})
}

func (r *Routes) createReward(c *gin.Context) {
	var body map[string]any
	if !r.bindBody(c, &body) {
		return
	}
	body["eventId"] = c.Param("id")
	r.proxy(c, r.events, "create-reward", body)
}

func (r *Routes) requestReward(c *gin.Context) {
	principal, _ := middleware.PrincipalFrom(c.Request.Context())
	r.proxy(c, r.events, "request-reward", map[string]any{
		"eventId":  c.Param("id"),
		"rewardId": c.Param("rewardId"),
		"userId":   principal.UserID,
	})
}

func (r *Routes) listRequests(c *gin.Context) {
	r.proxy(c, r.events, "get-reward-requests", map[string]any{
		"userId": c.Query("userId"),
		"status": c.Query("status"),
	})
}

func (r *Routes) updateRequestStatus(c *gin.Context) {
	var body map[string]any
	if !r.bindBody(c, &body) {
		return
	}
	body["id"] = c.Param("id")
	if principal, ok := middleware.PrincipalFrom(c.Request.Context()); ok {
		body["processedBy"] = principal.UserID
	}
	r.proxy(c, r.events, "update-request-status", body)
}
