package rpc

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"eventhub/pkg/errutil"

	"github.com/gin-gonic/gin"
	"github.com/stretchr/testify/require"
)

func newTestEngine(router *Router) *gin.Engine {
	gin.SetMode(gin.TestMode)
	engine := gin.New()
	mountRouter(engine, router)
	return engine
}

func post(t *testing.T, engine *gin.Engine, command, body string) (*httptest.ResponseRecorder, Envelope) {
	t.Helper()

	req := httptest.NewRequest(http.MethodPost, "/rpc/"+command, strings.NewReader(body))
	req.Header.Set("Content-Type", "application/json")

	rec := httptest.NewRecorder()
	engine.ServeHTTP(rec, req)

	var env Envelope
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &env))
	return rec, env
}

func TestRouter_Dispatch(t *testing.T) {
	router := NewRouter()
	router.Handle("echo", func(ctx context.Context, payload json.RawMessage) (any, error) {
		var in map[string]string
		if err := json.Unmarshal(payload, &in); err != nil {
			return nil, errutil.BadRequest("malformed payload", err)
		}
		return in, nil
	})

	engine := newTestEngine(router)

	rec, env := post(t, engine, "echo", `{"hello":"world"}`)
	require.Equal(t, http.StatusOK, rec.Code)
	require.True(t, env.Success)

	var out map[string]string
	require.NoError(t, json.Unmarshal(env.Data, &out))
	require.Equal(t, "world", out["hello"])
}

func TestRouter_UnknownCommand(t *testing.T) {
	engine := newTestEngine(NewRouter())

	rec, env := post(t, engine, "no-such-command", `{}`)
	require.Equal(t, http.StatusNotFound, rec.Code)
	require.False(t, env.Success)
	require.Equal(t, errutil.StatusNotFound, env.Code)
}

func TestRouter_HandlerErrorMapsToStatus(t *testing.T) {
	router := NewRouter()
	router.Handle("claim", func(ctx context.Context, payload json.RawMessage) (any, error) {
		return nil, errutil.Conflict("duplicate request", nil)
	})

	engine := newTestEngine(router)

	rec, env := post(t, engine, "claim", `{}`)
	require.Equal(t, http.StatusConflict, rec.Code)
	require.False(t, env.Success)
	require.Equal(t, errutil.StatusConflict, env.Code)
	require.Equal(t, "duplicate request", env.Message)
}

func TestRouter_MalformedPayload(t *testing.T) {
	router := NewRouter()
	router.Handle("echo", func(ctx context.Context, payload json.RawMessage) (any, error) {
		return nil, nil
	})

	engine := newTestEngine(router)

	rec, env := post(t, engine, "echo", `{not json`)
	require.Equal(t, http.StatusBadRequest, rec.Code)
	require.False(t, env.Success)
}

func TestRouter_DuplicateRegistrationPanics(t *testing.T) {
	router := NewRouter()
	router.Handle("once", func(ctx context.Context, payload json.RawMessage) (any, error) {
		return nil, nil
	})

	require.Panics(t, func() {
		router.Handle("once", func(ctx context.Context, payload json.RawMessage) (any, error) {
			return nil, nil
		})
	})
}
