package api

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"strings"
	"time"

	"github.com/google/uuid"
	"go.uber.org/zap"
)

// CredentialStore is the slice of the local state store the client needs:
// reading the bearer token on every request and persisting a fresh one after
// login. A missing token is not an error; the request simply goes out
// unauthenticated and the backend rejects it if it cares.
type CredentialStore interface {
	Token() (string, bool)
	SetToken(token string) error
}

// Client wraps the journaling backend's REST surface, one method per
// endpoint. All methods honor the passed context.
type Client struct {
	base  string
	creds CredentialStore
	http  *http.Client
	log   *zap.Logger
}

func NewClient(base string, creds CredentialStore, log *zap.Logger) *Client {
	if log == nil {
		log = zap.NewNop()
	}
	return &Client{
		base:  strings.TrimRight(base, "/"),
		creds: creds,
		http:  &http.Client{Timeout: 30 * time.Second},
		log:   log,
	}
}

// do runs one JSON round trip. body and out may be nil. Non-2xx responses
// become a *RequestError carrying the backend detail when available.
func (c *Client) do(ctx context.Context, method, path string, body, out any) error {
	var reader io.Reader
	if body != nil {
		payload, err := json.Marshal(body)
		if err != nil {
			return err
		}
		reader = bytes.NewReader(payload)
	}

	req, err := http.NewRequestWithContext(ctx, method, c.base+path, reader)
	if err != nil {
		return err
	}
	req.Header.Set("Accept", "application/json")
	if body != nil {
		req.Header.Set("Content-Type", "application/json")
	}
	reqID := uuid.NewString()
	req.Header.Set("X-Request-ID", reqID)
	if token, ok := c.creds.Token(); ok {
		req.Header.Set("Authorization", "Bearer "+token)
	}

	start := time.Now()
	resp, err := c.http.Do(req)
	if err != nil {
		c.log.Error("request failed",
			zap.String("method", method),
			zap.String("path", path),
			zap.String("request_id", reqID),
			zap.Error(err))
		return fmt.Errorf("%s %s: %w", method, path, err)
	}
	defer resp.Body.Close()

	data, err := io.ReadAll(resp.Body)
	if err != nil {
		return fmt.Errorf("%s %s: reading response: %w", method, path, err)
	}

	c.log.Info("request",
		zap.String("method", method),
		zap.String("path", path),
		zap.String("request_id", reqID),
		zap.Int("status", resp.StatusCode),
		zap.Duration("duration", time.Since(start)))

	if resp.StatusCode < 200 || resp.StatusCode > 299 {
		return &RequestError{Status: resp.StatusCode, Message: errorMessage(data)}
	}
	if out == nil {
		return nil
	}
	if err := json.Unmarshal(data, out); err != nil {
		return fmt.Errorf("%s %s: decoding response: %w", method, path, err)
	}
	return nil
}

// errorMessage pulls the human-readable message out of an error body. The
// backend answers with {"detail": "..."}; other shapes fall back to a
// generic message.
func errorMessage(data []byte) string {
	var shape struct {
		Detail  string `json:"detail"`
		Message string `json:"message"`
	}
	if err := json.Unmarshal(data, &shape); err == nil {
		if shape.Detail != "" {
			return shape.Detail
		}
		if shape.Message != "" {
			return shape.Message
		}
	}
	return "request failed"
}

// --- auth ---

// Login authenticates and, on success, persists the issued token as the new
// source of truth for every subsequent call.
func (c *Client) Login(ctx context.Context, email, password string) error {
	var resp LoginResponse
	if err := c.do(ctx, http.MethodPost, "/auth/login", LoginRequest{Email: email, Password: password}, &resp); err != nil {
		return err
	}
	return c.creds.SetToken(resp.AccessToken)
}

func (c *Client) Register(ctx context.Context, req RegisterRequest) (User, error) {
	var u User
	err := c.do(ctx, http.MethodPost, "/auth/register", req, &u)
	return u, err
}

// --- users ---

func (c *Client) Me(ctx context.Context) (User, error) {
	var u User
	err := c.do(ctx, http.MethodGet, "/users/me", nil, &u)
	return u, err
}

func (c *Client) UpdateMe(ctx context.Context, patch UserPatch) (User, error) {
	var u User
	err := c.do(ctx, http.MethodPatch, "/users/me", patch, &u)
	return u, err
}

// --- entries ---

// ListEntries returns all of the current user's entries. The backend does
// not guarantee ordering; callers sort as needed.
func (c *Client) ListEntries(ctx context.Context) ([]Entry, error) {
	var entries []Entry
	err := c.do(ctx, http.MethodGet, "/entries", nil, &entries)
	return entries, err
}

func (c *Client) CreateEntry(ctx context.Context, req CreateEntryRequest) (Entry, error) {
	var e Entry
	err := c.do(ctx, http.MethodPost, "/entries", req, &e)
	return e, err
}

func (c *Client) GetEntry(ctx context.Context, id int) (Entry, error) {
	var e Entry
	err := c.do(ctx, http.MethodGet, fmt.Sprintf("/entries/%d", id), nil, &e)
	return e, err
}

func (c *Client) UpdateEntry(ctx context.Context, id int, patch EntryPatch) (Entry, error) {
	var e Entry
	err := c.do(ctx, http.MethodPatch, fmt.Sprintf("/entries/%d", id), patch, &e)
	return e, err
}

func (c *Client) DeleteEntry(ctx context.Context, id int) error {
	return c.do(ctx, http.MethodDelete, fmt.Sprintf("/entries/%d", id), nil, nil)
}

// --- insights ---

// InsightByEntry fetches the insight derived for an entry. A 404 means the
// entry has not been analyzed yet; the returned error satisfies
// errors.Is(err, ErrNotFound).
func (c *Client) InsightByEntry(ctx context.Context, entryID int) (Insight, error) {
	var ins Insight
	err := c.do(ctx, http.MethodGet, fmt.Sprintf("/insights/by-entry/%d", entryID), nil, &ins)
	return ins, err
}

func (c *Client) UpdateInsightByEntry(ctx context.Context, entryID int, patch InsightPatch) (Insight, error) {
	var ins Insight
	err := c.do(ctx, http.MethodPatch, fmt.Sprintf("/insights/by-entry/%d", entryID), patch, &ins)
	return ins, err
}

// --- ai ---

func (c *Client) Prompts(ctx context.Context, goal string, kContext int) (PromptResponse, error) {
	var resp PromptResponse
	err := c.do(ctx, http.MethodPost, "/ai/prompt", PromptRequest{Goal: goal, KContext: kContext}, &resp)
	return resp, err
}

func (c *Client) AnalyzeEntry(ctx context.Context, entryID int) (AnalyzeResponse, error) {
	var resp AnalyzeResponse
	err := c.do(ctx, http.MethodPost, fmt.Sprintf("/ai/entries/%d/analyze", entryID), nil, &resp)
	return resp, err
}

func (c *Client) WeeklySummary(ctx context.Context) (WeeklySummary, error) {
	var s WeeklySummary
	err := c.do(ctx, http.MethodGet, "/ai/summary/weekly", nil, &s)
	return s, err
}
