// Package api implements the JSON client for the expense backend.
//
// The backend is an opaque REST service: every operation is a POST with a
// JSON body that answers with a {status, message, data} envelope, except
// the CSV export which answers with plain text. Authentication rides on a
// session token the backend issues as an HTTP-only cookie; the client
// attaches it per request and never interprets its contents.
package api

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"log/slog"
	"net/http"
	"net/url"
	"strings"
	"time"

	"tracker/internal/core"
)

// ErrUnauthorized signals that the backend rejected the session token.
// Callers tear down the local session when they see it.
var ErrUnauthorized = errors.New("backend rejected session")

// TokenCookie is the name of the backend's session cookie.
const TokenCookie = "token"

const maxResponseBytes = 8 << 20 // 8MB, export responses included

// Envelope is the uniform response shape of every JSON endpoint.
type Envelope struct {
	Status     bool             `json:"status"`
	Message    string           `json:"message"`
	Data       json.RawMessage  `json:"data"`
	Pagination *core.Pagination `json:"pagination"`
}

// DecodeData unmarshals the envelope payload into out. A missing or
// malformed payload is an error: the caller asked for data the backend
// claims to have produced, so silent zero values would only defer the
// failure into render code.
func (e Envelope) DecodeData(out any) error {
	if len(e.Data) == 0 || string(e.Data) == "null" {
		return errors.New("response envelope carries no data")
	}
	dec := json.NewDecoder(bytes.NewReader(e.Data))
	if err := dec.Decode(out); err != nil {
		return fmt.Errorf("decode response data: %w", err)
	}
	return nil
}

type Client struct {
	baseURL string
	httpc   *http.Client
}

// New builds a client for the backend at baseURL. The timeout bounds
// every request including body read.
func New(baseURL string, timeout time.Duration) *Client {
	return &Client{
		baseURL: strings.TrimRight(baseURL, "/"),
		httpc:   &http.Client{Timeout: timeout},
	}
}

// Post sends payload to path and decodes the JSON envelope. A nil
// payload sends an empty JSON object; some endpoints require a body even
// when they take no parameters.
//
// Backend-reported business failures (status:false) are NOT errors: the
// envelope comes back as-is and the caller decides. Errors are reserved
// for transport failures, malformed responses and rejected sessions.
func (c *Client) Post(ctx context.Context, token, path string, payload any) (Envelope, error) {
	resp, err := c.send(ctx, token, path, payload)
	if err != nil {
		return Envelope{}, err
	}
	defer resp.Body.Close()

	if resp.StatusCode == http.StatusUnauthorized {
		return Envelope{}, ErrUnauthorized
	}

	body, err := io.ReadAll(io.LimitReader(resp.Body, maxResponseBytes))
	if err != nil {
		return Envelope{}, fmt.Errorf("read response from %s: %w", path, err)
	}

	var env Envelope
	if err := json.Unmarshal(body, &env); err != nil {
		slog.ErrorContext(ctx, "Malformed backend response",
			"component", "gateway", "path", path, "status", resp.StatusCode, "error", err)
		return Envelope{}, fmt.Errorf("malformed response from %s: %w", path, err)
	}
	return env, nil
}

// PostForSession is Post for the login and signup endpoints: alongside
// the envelope it captures the session token the backend sets as a
// cookie. An empty token with status:true means the backend did not
// establish a session; callers treat that as a failure.
func (c *Client) PostForSession(ctx context.Context, path string, payload any) (Envelope, string, error) {
	resp, err := c.send(ctx, "", path, payload)
	if err != nil {
		return Envelope{}, "", err
	}
	defer resp.Body.Close()

	body, err := io.ReadAll(io.LimitReader(resp.Body, maxResponseBytes))
	if err != nil {
		return Envelope{}, "", fmt.Errorf("read response from %s: %w", path, err)
	}

	var env Envelope
	if err := json.Unmarshal(body, &env); err != nil {
		return Envelope{}, "", fmt.Errorf("malformed response from %s: %w", path, err)
	}

	var token string
	for _, ck := range resp.Cookies() {
		if ck.Name == TokenCookie && ck.Value != "" {
			token = ck.Value
		}
	}
	return env, token, nil
}

// PostRaw sends payload to path and returns the raw response body. Used
// for the CSV export endpoint, which does not wrap its output in an
// envelope.
func (c *Client) PostRaw(ctx context.Context, token, path string, payload any) ([]byte, error) {
	resp, err := c.send(ctx, token, path, payload)
	if err != nil {
		return nil, err
	}
	defer resp.Body.Close()

	if resp.StatusCode == http.StatusUnauthorized {
		return nil, ErrUnauthorized
	}
	if resp.StatusCode < 200 || resp.StatusCode > 299 {
		return nil, fmt.Errorf("%s: unexpected status %d", path, resp.StatusCode)
	}
	body, err := io.ReadAll(io.LimitReader(resp.Body, maxResponseBytes))
	if err != nil {
		return nil, fmt.Errorf("read response from %s: %w", path, err)
	}
	return body, nil
}

func (c *Client) send(ctx context.Context, token, path string, payload any) (*http.Response, error) {
	if payload == nil {
		payload = struct{}{}
	}
	body, err := json.Marshal(payload)
	if err != nil {
		return nil, fmt.Errorf("marshal request for %s: %w", path, err)
	}

	u, err := url.JoinPath(c.baseURL, path)
	if err != nil {
		return nil, fmt.Errorf("build url for %s: %w", path, err)
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, u, bytes.NewReader(body))
	if err != nil {
		return nil, fmt.Errorf("build request for %s: %w", path, err)
	}
	req.Header.Set("Content-Type", "application/json")
	req.Header.Set("Accept", "application/json, text/csv")
	if token != "" {
		req.AddCookie(&http.Cookie{Name: TokenCookie, Value: token})
	}

	start := time.Now()
	resp, err := c.httpc.Do(req)
	if err != nil {
		slog.ErrorContext(ctx, "Backend request failed",
			"component", "gateway", "path", path, "error", err)
		return nil, fmt.Errorf("post %s: %w", path, err)
	}
	slog.DebugContext(ctx, "Backend request completed",
		"component", "gateway", "path", path,
		"status", resp.StatusCode, "duration_ms", time.Since(start).Milliseconds())
	return resp, nil
}
