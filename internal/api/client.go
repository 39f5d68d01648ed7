// Package api is the HTTP client for the ArcadeRank backend. The backend
// owns accounts, XP, levels and ranking; the client only logs in, registers,
// submits scores and reads the leaderboard.
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
	"sync"
	"time"

	"github.com/charmbracelet/log"
)

// DefaultTimeout bounds every request when no http.Client is supplied.
const DefaultTimeout = 10 * time.Second

// maxBody caps how much of a response is read.
const maxBody = 1 << 20

// Client talks to the backend REST API.
type Client struct {
	baseURL string
	http    *http.Client
	logger  *log.Logger

	mu    sync.RWMutex
	token string
}

// Option configures a Client.
type Option func(*Client)

// WithHTTPClient replaces the underlying http.Client.
func WithHTTPClient(hc *http.Client) Option {
	return func(c *Client) { c.http = hc }
}

// WithTimeout sets the per-request timeout of the default http.Client.
func WithTimeout(d time.Duration) Option {
	return func(c *Client) {
		if d > 0 {
			c.http = &http.Client{Timeout: d}
		}
	}
}

// WithToken starts the client with an access token.
func WithToken(token string) Option {
	return func(c *Client) { c.token = token }
}

// WithLogger sets the request logger.
func WithLogger(l *log.Logger) Option {
	return func(c *Client) { c.logger = l }
}

// New creates a client for the backend at baseURL.
func New(baseURL string, opts ...Option) *Client {
	c := &Client{
		baseURL: strings.TrimRight(baseURL, "/"),
		http:    &http.Client{Timeout: DefaultTimeout},
		logger:  log.New(io.Discard),
	}
	for _, opt := range opts {
		opt(c)
	}
	return c
}

// BaseURL returns the backend address.
func (c *Client) BaseURL() string {
	return c.baseURL
}

// SetToken replaces the bearer token used on protected routes.
// An empty token logs the client out.
func (c *Client) SetToken(token string) {
	c.mu.Lock()
	c.token = token
	c.mu.Unlock()
}

// Token returns the current bearer token.
func (c *Client) Token() string {
	c.mu.RLock()
	defer c.mu.RUnlock()
	return c.token
}

// Login exchanges credentials for an access token. A 401 becomes
// ErrInvalidCredentials. The token is not stored on the client; callers
// decide whether to keep it.
func (c *Client) Login(ctx context.Context, email, password string) (string, error) {
	var resp loginResponse
	err := c.do(ctx, http.MethodPost, "/auth/login", loginRequest{Email: email, Password: password}, &resp, false)
	if err != nil {
		var se *StatusError
		if errors.As(err, &se) && se.Code == http.StatusUnauthorized {
			return "", ErrInvalidCredentials
		}
		return "", fmt.Errorf("api: login: %w", err)
	}
	if resp.AccessToken == "" {
		return "", errors.New("api: login: response has no access_token")
	}
	return resp.AccessToken, nil
}

// Register creates an account. A 409 becomes ErrAlreadyRegistered.
func (c *Client) Register(ctx context.Context, username, email, password string) error {
	body := registerRequest{Username: username, Email: email, Password: password}
	err := c.do(ctx, http.MethodPost, "/users", body, nil, false)
	if err != nil {
		var se *StatusError
		if errors.As(err, &se) && se.Code == http.StatusConflict {
			return ErrAlreadyRegistered
		}
		return fmt.Errorf("api: register: %w", err)
	}
	return nil
}

// SubmitScore records a finished game for the logged-in user.
func (c *Client) SubmitScore(ctx context.Context, gameID string, score int) (ScoreResult, error) {
	var res ScoreResult
	if err := c.do(ctx, http.MethodPost, "/users/score", ScoreRequest{GameID: gameID, Score: score}, &res, true); err != nil {
		return ScoreResult{}, fmt.Errorf("api: submit score: %w", err)
	}
	return res, nil
}

// Leaderboard returns the global ranking, best first.
func (c *Client) Leaderboard(ctx context.Context) ([]RankEntry, error) {
	var entries []RankEntry
	if err := c.do(ctx, http.MethodGet, "/users/leaderboard", nil, &entries, false); err != nil {
		return nil, fmt.Errorf("api: leaderboard: %w", err)
	}
	return entries, nil
}

// User returns the profile (level and XP) of one user.
func (c *Client) User(ctx context.Context, id string) (Profile, error) {
	var p Profile
	if err := c.do(ctx, http.MethodGet, "/users/"+url.PathEscape(id), nil, &p, false); err != nil {
		return Profile{}, fmt.Errorf("api: user %s: %w", id, err)
	}
	return p, nil
}

// do sends one JSON request and decodes a JSON response into out.
// A nil out discards the body.
func (c *Client) do(ctx context.Context, method, path string, in, out any, auth bool) error {
	var body io.Reader
	if in != nil {
		buf, err := json.Marshal(in)
		if err != nil {
			return fmt.Errorf("encode request: %w", err)
		}
		body = bytes.NewReader(buf)
	}

	req, err := http.NewRequestWithContext(ctx, method, c.baseURL+path, body)
	if err != nil {
		return fmt.Errorf("build request: %w", err)
	}
	req.Header.Set("Accept", "application/json")
	if in != nil {
		req.Header.Set("Content-Type", "application/json")
	}
	if token := c.Token(); token != "" {
		req.Header.Set("Authorization", "Bearer "+token)
	} else if auth {
		return ErrNotLoggedIn
	}

	start := time.Now()
	resp, err := c.http.Do(req)
	if err != nil {
		c.logger.Debug("request failed", "method", method, "path", path, "error", err)
		return err
	}
	defer resp.Body.Close()

	data, err := io.ReadAll(io.LimitReader(resp.Body, maxBody))
	if err != nil {
		return fmt.Errorf("read response: %w", err)
	}
	c.logger.Debug("request", "method", method, "path", path, "status", resp.StatusCode, "took", time.Since(start))

	if resp.StatusCode < 200 || resp.StatusCode > 299 {
		return newStatusError(resp.StatusCode, data)
	}
	if out == nil || len(bytes.TrimSpace(data)) == 0 {
		return nil
	}
	if err := json.Unmarshal(data, out); err != nil {
		return fmt.Errorf("decode response: %w", err)
	}
	return nil
}
