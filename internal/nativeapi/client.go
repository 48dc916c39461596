// Package nativeapi is a thin client for the HTTP API server embedded in
// the Logseq desktop app.
package nativeapi

import (
	"bytes"
	"context"
	"encoding/json"
	"io"
	"net/http"
	"strings"
	"time"

	"github.com/starford/ansuz/internal/apperr"
)

const unreachableMsg = "Cannot connect to Logseq. Make sure Logseq is running with HTTP API Server enabled."

// Client posts method invocations to the desktop app's /api endpoint.
type Client struct {
	url    string
	client *http.Client
}

func New(url string, timeout time.Duration) *Client {
	return &Client{
		url:    url,
		client: &http.Client{Timeout: timeout},
	}
}

type callRequest struct {
	Method string `json:"method"`
	Args   []any  `json:"args"`
}

// Call invokes a plugin API method and returns the decoded response value.
// A nil value means the call succeeded with an empty or null body.
func (c *Client) Call(ctx context.Context, method string, args []any, token string) (any, error) {
	payload, err := json.Marshal(callRequest{Method: method, Args: args})
	if err != nil {
		return nil, apperr.Newf(apperr.ErrUnreachable, "invalid request: %v", err)
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, c.url, bytes.NewReader(payload))
	if err != nil {
		return nil, apperr.Newf(apperr.ErrUnreachable, "invalid request: %v", err)
	}
	req.Header.Set("Content-Type", "application/json")
	req.Header.Set("Authorization", "Bearer "+token)

	resp, err := c.client.Do(req)
	if err != nil {
		return nil, apperr.New(apperr.ErrUnreachable, unreachableMsg)
	}
	defer resp.Body.Close()

	body, err := io.ReadAll(resp.Body)
	if err != nil {
		return nil, apperr.New(apperr.ErrUnreachable, unreachableMsg)
	}

	if resp.StatusCode < 200 || resp.StatusCode > 299 {
		kind := apperr.ErrRemote
		if resp.StatusCode == http.StatusUnauthorized || resp.StatusCode == http.StatusForbidden {
			kind = apperr.ErrAuth
		}
		return nil, apperr.Newf(kind, "Logseq API error: %d - %s", resp.StatusCode, strings.TrimSpace(string(body)))
	}

	trimmed := strings.TrimSpace(string(body))
	if trimmed == "" || trimmed == "null" {
		return nil, nil
	}
	var value any
	if err := json.Unmarshal([]byte(trimmed), &value); err != nil {
		// The app occasionally replies with a bare string; hand it through.
		return trimmed, nil
	}
	return value, nil
}
