package gateway

import (
	"errors"
	"net/http"
	"strings"

	"eventhub/pkg/errutil"
	"eventhub/pkg/middleware"

	"github.com/gin-gonic/gin"
	"go.uber.org/zap"
)

// TokenAuth verifies the bearer token against the auth service and
// attaches the principal to the request context.
func TokenAuth(auth *AuthClient) gin.HandlerFunc {
	return func(c *gin.Context) {
		token := bearerToken(c.GetHeader("Authorization"))
		if token == "" {
			abortWith(c, errutil.Unauthorized("missing bearer token", nil))
			return
		}

		record, err := auth.VerifyToken(c.Request.Context(), token)
		if err != nil {
			abortWith(c, err)
			return
		}

		principal := middleware.Principal{
			UserID:   record.ID,
			Username: record.Username,
			Roles:    record.Roles,
			IsActive: record.IsActive,
		}
		c.Request = c.Request.WithContext(middleware.WithPrincipal(c.Request.Context(), principal))
		c.Next()
	}
}

// PermissionCheck consults the permission engine for every call under the
// events namespace. On a connection-level failure of the check itself the
// gateway FAILS OPEN and lets the request through; the engine proper
// fails closed. Two deliberate, distinct policies — do not unify them
// without a product decision.
func PermissionCheck(auth *AuthClient) gin.HandlerFunc {
	return func(c *gin.Context) {
		principal, ok := middleware.PrincipalFrom(c.Request.Context())
		if !ok {
			abortWith(c, errutil.Unauthorized("missing principal", nil))
			return
		}

		decision, err := auth.ValidatePermission(
			c.Request.Context(),
			principal.UserID,
			c.Request.URL.Path,
			c.Request.Method,
			principal.Roles,
		)
		if err != nil {
			if errutil.StatusFrom(err) == errutil.StatusBadGateway {
				zap.L().Warn("permission service unreachable, allowing request through",
					zap.String("path", c.Request.URL.Path),
					zap.String("method", c.Request.Method),
					zap.Error(err),
				)
				c.Next()
				return
			}
			abortWith(c, err)
			return
		}

		if !decision.Allowed {
			abortWith(c, errutil.Forbidden(decision.Reason, nil))
			return
		}

		c.Next()
	}
}

// RequireRole gates routes outside the events namespace on the casbin
// policy.
func RequireRole(enforcer RouteEnforcer) gin.HandlerFunc {
	return func(c *gin.Context) {
		principal, ok := middleware.PrincipalFrom(c.Request.Context())
		if !ok {
			abortWith(c, errutil.Unauthorized("missing principal", nil))
			return
		}

		allowed, err := enforcer.Allowed(principal.Roles, c.Request.URL.Path, c.Request.Method)
		if err != nil {
			zap.L().Error("route policy evaluation failed", zap.Error(err))
			abortWith(c, errutil.Forbidden("access denied", nil))
			return
		}
		if !allowed {
			abortWith(c, errutil.Forbidden("access denied", nil))
			return
		}

		c.Next()
	}
}

func bearerToken(header string) string {
	const prefix = "Bearer "
	if !strings.HasPrefix(header, prefix) {
		return ""
	}
	return strings.TrimSpace(strings.TrimPrefix(header, prefix))
}

func abortWith(c *gin.Context, err error) {
	var be errutil.BaseError
	if errors.As(err, &be) {
		c.AbortWithStatusJSON(be.Code.HTTPStatus(), be.JSON())
		return
	}

	internal := errutil.BaseError{Code: errutil.StatusInternal, Message: "internal error"}
	c.AbortWithStatusJSON(http.StatusInternalServerError, internal.JSON())
}
