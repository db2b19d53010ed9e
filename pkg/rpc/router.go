package rpc

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"net/http"
	"sync"

	"eventhub/pkg/errutil"

	"github.com/gin-gonic/gin"
	"go.uber.org/fx"
	"go.uber.org/zap"
)

// HandlerFunc serves one command. The returned value is marshalled into the
// envelope's data field; a returned error is classified via errutil.
type HandlerFunc func(ctx context.Context, payload json.RawMessage) (any, error)

var RouterModule = fx.Module("rpc.router",
	fx.Provide(NewRouter),
	fx.Invoke(mountRouter),
)

// Router dispatches POST /rpc/:command to registered handlers.
type Router struct {
	mu       sync.RWMutex
	handlers map[string]HandlerFunc
}

func NewRouter() *Router {
	return &Router{handlers: make(map[string]HandlerFunc)}
}

// Handle registers a command handler. Duplicate registration is a wiring
// bug and panics during startup.
func (r *Router) Handle(command string, fn HandlerFunc) {
	r.mu.Lock()
	defer r.mu.Unlock()

	if _, ok := r.handlers[command]; ok {
		panic(fmt.Sprintf("rpc: duplicate handler for command %q", command))
	}
	r.handlers[command] = fn
}

func (r *Router) lookup(command string) (HandlerFunc, bool) {
	r.mu.RLock()
	defer r.mu.RUnlock()
	fn, ok := r.handlers[command]
	return fn, ok
}

func (r *Router) serve(c *gin.Context) {
	command := c.Param("command")

	fn, ok := r.lookup(command)
	if !ok {
		env := failureEnvelope(errutil.NotFound(fmt.Sprintf("unknown command: %s", command), nil))
		c.JSON(http.StatusNotFound, env)
		return
	}

	var payload json.RawMessage
	if c.Request.ContentLength > 0 {
		if err := c.ShouldBindJSON(&payload); err != nil {
			env := failureEnvelope(errutil.BadRequest("malformed payload", err))
			c.JSON(http.StatusBadRequest, env)
			return
		}
	}

	result, err := fn(c.Request.Context(), payload)
	if err != nil {
		env := failureEnvelope(err)
		c.JSON(env.Code.HTTPStatus(), env)
		return
	}

	env, err := successEnvelope(result)
	if err != nil {
		zap.L().Error("rpc: failed to encode result", zap.String("command", command), zap.Error(err))
		env = failureEnvelope(errutil.Internal("failed to encode result", err))
		c.JSON(http.StatusInternalServerError, env)
		return
	}

	c.JSON(http.StatusOK, env)
}

func mountRouter(engine *gin.Engine, router *Router) {
	engine.POST("/rpc/:command", router.serve)
}

func asBaseError(err error, be *errutil.BaseError) bool {
	return errors.As(err, be)
}
