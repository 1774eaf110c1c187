// Package client is a typed HTTP client for the FitPro admin API.
package client

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
)

// ErrWaitTimeout is returned by WaitForVerification after its last attempt.
var ErrWaitTimeout = errors.New("verification not completed in time")

// APIError is a non-2xx response.
type APIError struct {
	Status  int
	Message string
}

func (e *APIError) Error() string {
	return fmt.Sprintf("fitpro: %d %s", e.Status, e.Message)
}

// StatusOf returns the HTTP status carried by err, or 0.
func StatusOf(err error) int {
	var apiErr *APIError
	if errors.As(err, &apiErr) {
		return apiErr.Status
	}
	return 0
}

// Client talks to one FitPro server.
type Client struct {
	baseURL string
	http    *http.Client
	token   string
}

// New returns a client for baseURL. A nil hc uses a client with a 10s timeout.
func New(baseURL string, hc *http.Client) *Client {
	if hc == nil {
		hc = &http.Client{Timeout: 10 * time.Second}
	}
	return &Client{baseURL: strings.TrimRight(baseURL, "/"), http: hc}
}

// WithToken returns a copy that sends token as a bearer credential.
func (c *Client) WithToken(token string) *Client {
	cp := *c
	cp.token = token
	return &cp
}

// Session is a successful login.
type Session struct {
	Token     string    `json:"token"`
	ExpiresAt time.Time `json:"expires_at"`
}

// Signup registers an administrator. The server mails a verification link.
func (c *Client) Signup(ctx context.Context, username, email, password string) (string, error) {
	var resp struct {
		Message string `json:"message"`
	}
	err := c.do(ctx, http.MethodPost, "/api/auth/signup", map[string]string{
		"username": username, "email": email, "password": password,
	}, &resp)
	return resp.Message, err
}

// Login exchanges credentials for a session token.
func (c *Client) Login(ctx context.Context, email, password string) (Session, error) {
	var s Session
	err := c.do(ctx, http.MethodPost, "/api/auth/login", map[string]string{
		"email": email, "password": password,
	}, &s)
	return s, err
}

// RequestReset starts a password reset; newPassword takes effect once the
// mailed link is opened.
func (c *Client) RequestReset(ctx context.Context, email, newPassword string) (string, error) {
	var resp struct {
		Message string `json:"message"`
	}
	err := c.do(ctx, http.MethodPost, "/api/auth/request-reset", map[string]string{
		"email": email, "password": newPassword,
	}, &resp)
	return resp.Message, err
}

// IsVerified reports whether the signup or reset flow for email is complete.
// An unknown email reports false.
func (c *Client) IsVerified(ctx context.Context, email string) (bool, error) {
	var resp struct {
		Verified bool `json:"verified"`
	}
	err := c.do(ctx, http.MethodGet, "/api/auth/is-verified?email="+url.QueryEscape(email), nil, &resp)
	return resp.Verified, err
}

// ChangePassword replaces the signed-in admin's password.
func (c *Client) ChangePassword(ctx context.Context, current, next string) error {
	return c.do(ctx, http.MethodPatch, "/api/auth/change-password", map[string]string{
		"current_password": current, "new_password": next,
	}, nil)
}

// WaitOptions bounds WaitForVerification.
type WaitOptions struct {
	Interval    time.Duration
	MaxAttempts int
}

// DefaultWaitOptions polls every 5s for one minute.
var DefaultWaitOptions = WaitOptions{Interval: 5 * time.Second, MaxAttempts: 12}

// WaitForVerification polls IsVerified until it reports true.
// PRE: opts.MaxAttempts > 0 (zero values fall back to DefaultWaitOptions)
// POST: nil once verified; ErrWaitTimeout after MaxAttempts negative answers;
// ctx.Err() on cancellation; the transport error if a poll fails
func (c *Client) WaitForVerification(ctx context.Context, email string, opts WaitOptions) error {
	if opts.Interval <= 0 {
		opts.Interval = DefaultWaitOptions.Interval
	}
	if opts.MaxAttempts <= 0 {
		opts.MaxAttempts = DefaultWaitOptions.MaxAttempts
	}

	ticker := time.NewTicker(opts.Interval)
	defer ticker.Stop()

	for attempt := 1; ; attempt++ {
		ok, err := c.IsVerified(ctx, email)
		if err != nil {
			return err
		}
		if ok {
			slog.Debug("client_event", "event", "verified", "attempt", attempt)
			return nil
		}
		if attempt >= opts.MaxAttempts {
			return ErrWaitTimeout
		}
		select {
		case <-ctx.Done():
			return ctx.Err()
		case <-ticker.C:
		}
	}
}

func (c *Client) do(ctx context.Context, method, path string, body, out any) error {
	var rd io.Reader
	if body != nil {
		raw, err := json.Marshal(body)
		if err != nil {
			return fmt.Errorf("encode request: %w", err)
		}
		rd = bytes.NewReader(raw)
	}

	req, err := http.NewRequestWithContext(ctx, method, c.baseURL+path, rd)
	if err != nil {
		return err
	}
	if body != nil {
		req.Header.Set("Content-Type", "application/json")
	}
	req.Header.Set("Accept", "application/json")
	if c.token != "" {
		req.Header.Set("Authorization", "Bearer "+c.token)
	}

	resp, err := c.http.Do(req)
	if err != nil {
		return fmt.Errorf("%s %s: %w", method, path, err)
	}
	defer resp.Body.Close()

	raw, err := io.ReadAll(io.LimitReader(resp.Body, 1<<20))
	if err != nil {
		return fmt.Errorf("read response: %w", err)
	}
	if resp.StatusCode < 200 || resp.StatusCode > 299 {
		return &APIError{Status: resp.StatusCode, Message: errorMessage(raw)}
	}
	if out == nil {
		return nil
	}
	if err := json.Unmarshal(raw, out); err != nil {
		return fmt.Errorf("decode response: %w", err)
	}
	return nil
}

// errorMessage pulls "error" out of a JSON body, or returns the text as is.
func errorMessage(raw []byte) string {
	var body struct {
		Error string `json:"error"`
	}
	if json.Unmarshal(raw, &body) == nil && body.Error != "" {
		return body.Error
	}
	return strings.TrimSpace(string(raw))
}
