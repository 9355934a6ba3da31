package api

import (
	"context"
	"encoding/json"
	"errors"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type memCreds struct {
	token string
}

func (m *memCreds) Token() (string, bool) { return m.token, m.token != "" }
func (m *memCreds) SetToken(t string) error {
	m.token = t
	return nil
}

func TestLoginPersistsToken(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		require.Equal(t, http.MethodPost, r.Method)
		require.Equal(t, "/auth/login", r.URL.Path)

		var req LoginRequest
		require.NoError(t, json.NewDecoder(r.Body).Decode(&req))
		assert.Equal(t, "a@b.com", req.Email)

		json.NewEncoder(w).Encode(LoginResponse{AccessToken: "tok-123"})
	}))
	defer srv.Close()

	creds := &memCreds{}
	c := NewClient(srv.URL, creds, nil)

	require.NoError(t, c.Login(context.Background(), "a@b.com", "secret"))
	assert.Equal(t, "tok-123", creds.token)
}

func TestBearerHeaderSentWhenTokenPresent(t *testing.T) {
	var gotAuth, gotReqID string
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		gotAuth = r.Header.Get("Authorization")
		gotReqID = r.Header.Get("X-Request-ID")
		json.NewEncoder(w).Encode(User{ID: 1, Username: "ana"})
	}))
	defer srv.Close()

	c := NewClient(srv.URL, &memCreds{token: "tok-9"}, nil)
	u, err := c.Me(context.Background())
	require.NoError(t, err)

	assert.Equal(t, "Bearer tok-9", gotAuth)
	assert.NotEmpty(t, gotReqID)
	assert.Equal(t, "ana", u.Username)
}

func TestNoBearerHeaderWithoutToken(t *testing.T) {
	var gotAuth string
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		gotAuth = r.Header.Get("Authorization")
		json.NewEncoder(w).Encode([]Entry{})
	}))
	defer srv.Close()

	c := NewClient(srv.URL, &memCreds{}, nil)
	_, err := c.ListEntries(context.Background())
	require.NoError(t, err)
	assert.Empty(t, gotAuth)
}

func TestErrorBodyDetailSurfaced(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusUnprocessableEntity)
		w.Write([]byte(`{"detail": "title must not be empty"}`))
	}))
	defer srv.Close()

	c := NewClient(srv.URL, &memCreds{token: "t"}, nil)
	_, err := c.CreateEntry(context.Background(), CreateEntryRequest{UserID: 1})
	require.Error(t, err)

	var reqErr *RequestError
	require.ErrorAs(t, err, &reqErr)
	assert.Equal(t, http.StatusUnprocessableEntity, reqErr.Status)
	assert.Equal(t, "title must not be empty", reqErr.Message)
}

func TestNotFoundMapsToSentinel(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusNotFound)
		w.Write([]byte(`{"detail": "not found"}`))
	}))
	defer srv.Close()

	c := NewClient(srv.URL, &memCreds{token: "t"}, nil)
	_, err := c.InsightByEntry(context.Background(), 42)
	assert.True(t, errors.Is(err, ErrNotFound))
	assert.False(t, errors.Is(err, ErrUnauthorized))
}

func TestUnauthorizedMapsToSentinel(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusUnauthorized)
		w.Write([]byte(`{"detail": "invalid token"}`))
	}))
	defer srv.Close()

	c := NewClient(srv.URL, &memCreds{token: "stale"}, nil)
	_, err := c.Me(context.Background())
	assert.True(t, errors.Is(err, ErrUnauthorized))
}

func TestMalformedErrorBodyFallsBack(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusInternalServerError)
		w.Write([]byte("boom"))
	}))
	defer srv.Close()

	c := NewClient(srv.URL, &memCreds{token: "t"}, nil)
	err := c.DeleteEntry(context.Background(), 7)

	var reqErr *RequestError
	require.ErrorAs(t, err, &reqErr)
	assert.Equal(t, "request failed", reqErr.Message)
}

func TestUpdateInsightByEntry(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		require.Equal(t, http.MethodPatch, r.Method)
		require.Equal(t, "/insights/by-entry/7", r.URL.Path)

		var patch InsightPatch
		require.NoError(t, json.NewDecoder(r.Body).Decode(&patch))
		require.NotNil(t, patch.Sentiment)
		assert.InDelta(t, 0.25, *patch.Sentiment, 1e-9)
		assert.Equal(t, []string{"sleep"}, patch.Themes)

		json.NewEncoder(w).Encode(Insight{
			ID:        3,
			EntryID:   7,
			Sentiment: *patch.Sentiment,
			Themes:    patch.Themes,
		})
	}))
	defer srv.Close()

	c := NewClient(srv.URL, &memCreds{token: "t"}, nil)
	sentiment := 0.25
	ins, err := c.UpdateInsightByEntry(context.Background(), 7, InsightPatch{
		Sentiment: &sentiment,
		Themes:    []string{"sleep"},
	})
	require.NoError(t, err)
	assert.Equal(t, 7, ins.EntryID)
	assert.InDelta(t, 0.25, ins.Sentiment, 1e-9)
	assert.Equal(t, []string{"sleep"}, ins.Themes)
}

func TestWeeklySummaryHelpers(t *testing.T) {
	s := WeeklySummary{
		WeekStart: "2026-08-24",
		Summary:   "A calm week.",
		Insights: map[string]any{
			"avg_sentiment": 0.42,
			"count":         float64(5),
			"themes":        []any{"work", "sleep", 3},
		},
	}
	assert.InDelta(t, 0.42, s.AvgSentiment(), 1e-9)
	assert.Equal(t, 5, s.EntryCount())
	assert.Equal(t, []string{"work", "sleep"}, s.Themes())

	var empty WeeklySummary
	assert.Zero(t, empty.AvgSentiment())
	assert.Zero(t, empty.EntryCount())
	assert.Nil(t, empty.Themes())
}
