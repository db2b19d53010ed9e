package rpc

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"eventhub/pkg/errutil"

	"github.com/stretchr/testify/require"
	"go.uber.org/zap"
)

func init() {
	zap.ReplaceGlobals(zap.NewNop())
}

func TestClient_Invoke_Success(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		require.Equal(t, http.MethodPost, r.Method)
		require.Equal(t, "/rpc/echo", r.URL.Path)

		var payload map[string]string
		require.NoError(t, json.NewDecoder(r.Body).Decode(&payload))

		data, _ := json.Marshal(payload)
		json.NewEncoder(w).Encode(Envelope{Success: true, Data: data})
	}))
	defer srv.Close()

	client := NewClient(srv.URL)

	var out map[string]string
	err := client.Invoke(context.Background(), "echo", map[string]string{"hello": "world"}, &out)
	require.NoError(t, err)
	require.Equal(t, "world", out["hello"])
}

func TestClient_Invoke_FailureEnvelopeCarriesCode(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusConflict)
		json.NewEncoder(w).Encode(Envelope{
			Success: false,
			Code:    errutil.StatusConflict,
			Message: "duplicate request",
		})
	}))
	defer srv.Close()

	client := NewClient(srv.URL)

	err := client.Invoke(context.Background(), "request-reward", nil, nil)
	require.Error(t, err)
	require.Equal(t, errutil.StatusConflict, errutil.StatusFrom(err))

	var be errutil.BaseError
	require.ErrorAs(t, err, &be)
	require.Equal(t, "duplicate request", be.Message)
}

func TestClient_Invoke_EmptyCodeDefaultsToBadGateway(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		json.NewEncoder(w).Encode(Envelope{Success: false, Message: "something upstream broke"})
	}))
	defer srv.Close()

	client := NewClient(srv.URL)

	err := client.Invoke(context.Background(), "anything", nil, nil)
	require.Equal(t, errutil.StatusBadGateway, errutil.StatusFrom(err))
}

func TestClient_Invoke_ConnectionRefusedIsBadGateway(t *testing.T) {
	// A server that is already gone.
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {}))
	srv.Close()

	client := NewClient(srv.URL)

	err := client.Invoke(context.Background(), "verify-token", nil, nil)
	require.Equal(t, errutil.StatusBadGateway, errutil.StatusFrom(err))
}

func TestClient_Invoke_DeadlineIsGatewayTimeout(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		time.Sleep(200 * time.Millisecond)
	}))
	defer srv.Close()

	client := NewClient(srv.URL)

	ctx, cancel := context.WithTimeout(context.Background(), 20*time.Millisecond)
	defer cancel()

	err := client.Invoke(ctx, "verify-token", nil, nil)
	require.Equal(t, errutil.StatusGatewayTimeout, errutil.StatusFrom(err))
}

func TestClient_Invoke_MalformedEnvelope(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.Write([]byte("not json"))
	}))
	defer srv.Close()

	client := NewClient(srv.URL)

	err := client.Invoke(context.Background(), "anything", nil, nil)
	require.Equal(t, errutil.StatusBadGateway, errutil.StatusFrom(err))
}
