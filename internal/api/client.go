// Copyright (c) 2025-2026 89T Corporate Advisors
// SPDX-License-Identifier: GPL-3.0-or-later

// Package api is the single HTTP gateway to the external advisors REST API.
// It attaches the bearer token when one is available, normalizes every
// failure into one error shape, and surfaces 401 responses as
// ErrUnauthorized so callers can invalidate the session globally.
package api

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

	"github.com/google/uuid"
)

// Sentinel errors callers branch on. Both are wrapped into *Error values,
// so tests and handlers use errors.Is.
var (
	// ErrUnauthorized marks a 401 response. The session middleware purges
	// the persisted session and redirects to the login route when any
	// call returns it, regardless of endpoint.
	ErrUnauthorized = errors.New("unauthorized")

	// ErrNotFound marks a 404 response on a detail fetch.
	ErrNotFound = errors.New("not found")
)

// msgNoResponse is the normalized message for transport-level failures
// where the request never reached the server.
const msgNoResponse = "No response from server"

// Error is the single error shape produced by the client: the
// server-supplied message when there is one, the transport fallback
// otherwise. Status is zero for transport errors.
type Error struct {
	Message string
	Status  int
	err     error // wrapped sentinel or cause
}

func (e *Error) Error() string { return e.Message }

func (e *Error) Unwrap() error { return e.err }

// TokenSource supplies the bearer token for outbound requests. An empty
// string means the request is sent unauthenticated.
type TokenSource interface {
	Token(ctx context.Context) string
}

// TokenFunc adapts a plain function to a TokenSource.
type TokenFunc func(ctx context.Context) string

// Token implements TokenSource.
func (f TokenFunc) Token(ctx context.Context) string { return f(ctx) }

// HTTPClient matches the subset of http.Client the API client uses.
type HTTPClient interface {
	Do(*http.Request) (*http.Response, error)
}

// Client talks to the external advisors REST API.
type Client struct {
	base   *url.URL
	http   HTTPClient
	tokens TokenSource
}

// New creates a Client for the given base URL. tokens may be nil for a
// client that only performs unauthenticated calls.
func New(baseURL string, tokens TokenSource) (*Client, error) {
	if strings.TrimSpace(baseURL) == "" {
		return nil, errors.New("api: base URL is required")
	}
	parsed, err := url.Parse(strings.TrimRight(baseURL, "/"))
	if err != nil {
		return nil, fmt.Errorf("api: parse base URL: %w", err)
	}
	return &Client{
		base:   parsed,
		http:   &http.Client{Timeout: 30 * time.Second},
		tokens: tokens,
	}, nil
}

// SetHTTPClient replaces the underlying HTTP client (tests).
func (c *Client) SetHTTPClient(hc HTTPClient) {
	if hc != nil {
		c.http = hc
	}
}

// envelope is the response wrapper used by every API endpoint.
type envelope struct {
	Success bool            `json:"success"`
	Message string          `json:"message,omitempty"`
	Data    json.RawMessage `json:"data,omitempty"`
	Count   int             `json:"count,omitempty"`
}

// get performs a GET and decodes the envelope data into out.
func (c *Client) get(ctx context.Context, endpoint string, query url.Values, out any) error {
	return c.do(ctx, http.MethodGet, endpoint, query, nil, out)
}

// postJSON performs a POST with a JSON body.
func (c *Client) postJSON(ctx context.Context, endpoint string, payload, out any) error {
	return c.doJSON(ctx, http.MethodPost, endpoint, payload, out)
}

// putJSON performs a PUT with a JSON body.
func (c *Client) putJSON(ctx context.Context, endpoint string, payload, out any) error {
	return c.doJSON(ctx, http.MethodPut, endpoint, payload, out)
}

// delete performs a DELETE.
func (c *Client) delete(ctx context.Context, endpoint string) error {
	return c.do(ctx, http.MethodDelete, endpoint, nil, nil, nil)
}

func (c *Client) doJSON(ctx context.Context, method, endpoint string, payload, out any) error {
	var body io.Reader
	if payload != nil {
		buf := new(bytes.Buffer)
		if err := json.NewEncoder(buf).Encode(payload); err != nil {
			return fmt.Errorf("api: encode request body: %w", err)
		}
		body = buf
	}
	return c.do(ctx, method, endpoint, nil, body, out)
}

// do builds, sends and decodes one request. All outbound traffic funnels
// through here so token injection and error normalization happen exactly once.
func (c *Client) do(ctx context.Context, method, endpoint string, query url.Values, body io.Reader, out any) error {
	req, err := http.NewRequestWithContext(ctx, method, c.resolve(endpoint), body)
	if err != nil {
		return fmt.Errorf("api: build request: %w", err)
	}
	if query != nil {
		req.URL.RawQuery = query.Encode()
	}
	req.Header.Set("Accept", "application/json")
	req.Header.Set("X-Request-Id", uuid.NewString())
	if body != nil {
		req.Header.Set("Content-Type", "application/json")
	}
	if c.tokens != nil {
		if token := c.tokens.Token(ctx); token != "" {
			req.Header.Set("Authorization", "Bearer "+token)
		}
	}

	resp, err := c.http.Do(req)
	if err != nil {
		// Request never reached the server (or no response came back).
		return &Error{Message: msgNoResponse, err: err}
	}
	defer func() { _ = resp.Body.Close() }()

	return c.decode(resp, out)
}

// decode turns a response into either the payload or a normalized *Error.
func (c *Client) decode(resp *http.Response, out any) error {
	raw, err := io.ReadAll(io.LimitReader(resp.Body, 10<<20))
	if err != nil {
		return &Error{Message: msgNoResponse, err: err}
	}

	var env envelope
	decodeErr := json.Unmarshal(raw, &env)

	if resp.StatusCode >= 400 {
		message := "An error occurred"
		if decodeErr == nil && env.Message != "" {
			message = env.Message
		}
		apiErr := &Error{Message: message, Status: resp.StatusCode}
		switch resp.StatusCode {
		case http.StatusUnauthorized:
			apiErr.err = ErrUnauthorized
		case http.StatusNotFound:
			apiErr.err = ErrNotFound
		}
		return apiErr
	}

	if decodeErr != nil {
		return &Error{Message: "Invalid response from server", Status: resp.StatusCode, err: decodeErr}
	}
	if !env.Success {
		message := env.Message
		if message == "" {
			message = "An error occurred"
		}
		return &Error{Message: message, Status: resp.StatusCode}
	}
	if out != nil && len(env.Data) > 0 {
		if err := json.Unmarshal(env.Data, out); err != nil {
			return &Error{Message: "Invalid response from server", Status: resp.StatusCode, err: err}
		}
	}
	return nil
}

// resolve joins the base URL with an endpoint path.
func (c *Client) resolve(endpoint string) string {
	return c.base.String() + "/" + strings.TrimLeft(endpoint, "/")
}
