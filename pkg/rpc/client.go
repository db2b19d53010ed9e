package rpc

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"strings"
	"time"

	"eventhub/pkg/errutil"
)

// callTimeout is the fixed budget for one internal command round trip.
const callTimeout = 5 * time.Second

// Client invokes commands on a peer service. Timeout and connection
// failures map to distinct classifier codes so callers can tell a slow
// upstream from a dead one.
type Client struct {
	base string
	http *http.Client
}

func NewClient(baseURL string) *Client {
	return &Client{
		base: strings.TrimRight(baseURL, "/"),
		http: &http.Client{Timeout: callTimeout},
	}
}

// Invoke sends a command and decodes the envelope data into out (when out
// is non-nil). A failure envelope comes back as a BaseError carrying the
// upstream classifier.
func (c *Client) Invoke(ctx context.Context, command string, payload any, out any) error {
	body, err := json.Marshal(payload)
	if err != nil {
		return errutil.Internal("failed to encode payload", err)
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, fmt.Sprintf("%s/rpc/%s", c.base, command), bytes.NewReader(body))
	if err != nil {
		return errutil.Internal("failed to build request", err)
	}
	req.Header.Set("Content-Type", "application/json")

	resp, err := c.http.Do(req)
	if err != nil {
		return classifyTransportErr(command, err)
	}
	defer resp.Body.Close()

	raw, err := io.ReadAll(resp.Body)
	if err != nil {
		return errutil.BadGateway(fmt.Sprintf("failed to read response for %s", command), err)
	}

	var env Envelope
	if err := json.Unmarshal(raw, &env); err != nil {
		return errutil.BadGateway(fmt.Sprintf("malformed envelope for %s", command), err)
	}

	if !env.Success {
		code := env.Code
		if code == "" {
			code = errutil.StatusBadGateway
		}
		return errutil.New(code, env.Message)
	}

	if out != nil && len(env.Data) > 0 {
		if err := json.Unmarshal(env.Data, out); err != nil {
			return errutil.BadGateway(fmt.Sprintf("malformed data for %s", command), err)
		}
	}

	return nil
}

func classifyTransportErr(command string, err error) error {
	if errors.Is(err, context.DeadlineExceeded) {
		return errutil.GatewayTimeout(fmt.Sprintf("command %s timed out", command), err)
	}

	var urlErr *url.Error
	if errors.As(err, &urlErr) && urlErr.Timeout() {
		return errutil.GatewayTimeout(fmt.Sprintf("command %s timed out", command), err)
	}

	return errutil.BadGateway(fmt.Sprintf("command %s unreachable", command), err)
}
