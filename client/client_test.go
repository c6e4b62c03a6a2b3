package client

import (
	"context"
	"net/http"
	"net/http/httptest"
	"sync/atomic"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	pkgerrors "github.com/recallhq/recall-cli/pkg/errors"
)

func newTestClient(serverURL string, token string) *Client {
	opts := DefaultOptions()
	opts.Token = token
	opts.InitialBackoff = time.Millisecond
	opts.MaxBackoff = 2 * time.Millisecond
	return NewClient(serverURL, opts)
}

func TestFetchCategorizedMeetings_DecodesEnvelope(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, "/categories-with-meetings/", r.URL.Path)
		assert.Equal(t, "100", r.URL.Query().Get("num_meetings"))
		assert.Equal(t, "Bearer tok-1", r.Header.Get("Authorization"))

		w.Header().Set("Content-Type", "application/json")
		_, _ = w.Write([]byte(`{"data":[{"id":1,"name":"Standups","meetings":[{"id":7,"event_id":"ev-7","meeting_date":"2026-08-10","meeting_start_time":"09:00:00"}]}]}`))
	}))
	defer server.Close()

	c := newTestClient(server.URL, "tok-1")

	categories, err := c.FetchCategorizedMeetings(context.Background(), 100)

	require.NoError(t, err)
	require.Len(t, categories, 1)
	assert.Equal(t, "Standups", categories[0].Name)
	require.Len(t, categories[0].Meetings, 1)
	assert.Equal(t, "ev-7", categories[0].Meetings[0].EventID)
}

func TestFetchUncategorizedMeetings_EmptyData(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, "/uncategorized-meetings/", r.URL.Path)
		_, _ = w.Write([]byte(`{"data":[]}`))
	}))
	defer server.Close()

	c := newTestClient(server.URL, "")

	categories, err := c.FetchUncategorizedMeetings(context.Background(), 50)

	require.NoError(t, err)
	assert.Empty(t, categories)
}

func TestFetchUserRecordings_PassesUserID(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, "/user-meetings/", r.URL.Path)
		assert.Equal(t, "user-9", r.URL.Query().Get("user_id"))
		_, _ = w.Write([]byte(`{"data":[{"event_id":"ev-1","subject":"Standup","participants":"[{\"name\":\"Dana\"}]"}]}`))
	}))
	defer server.Close()

	c := newTestClient(server.URL, "")

	rows, err := c.FetchUserRecordings(context.Background(), "user-9")

	require.NoError(t, err)
	require.Len(t, rows, 1)
	assert.Equal(t, "ev-1", rows[0].EventID)
	assert.NotEmpty(t, rows[0].Participants, "dynamic fields pass through undecoded")
}

func TestGetJSON_RetriesServerErrors(t *testing.T) {
	var calls atomic.Int32
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if calls.Add(1) < 3 {
			w.WriteHeader(http.StatusBadGateway)
			return
		}
		_, _ = w.Write([]byte(`{"data":[]}`))
	}))
	defer server.Close()

	c := newTestClient(server.URL, "")

	_, err := c.FetchCategorizedMeetings(context.Background(), 10)

	require.NoError(t, err)
	assert.Equal(t, int32(3), calls.Load())
}

func TestGetJSON_ExhaustedRetriesSurfaceUnavailable(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusInternalServerError)
	}))
	defer server.Close()

	c := newTestClient(server.URL, "")

	_, err := c.FetchCategorizedMeetings(context.Background(), 10)

	assert.True(t, pkgerrors.IsUnavailable(err))
}

func TestGetJSON_UnauthorizedIsNotRetried(t *testing.T) {
	var calls atomic.Int32
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		calls.Add(1)
		w.WriteHeader(http.StatusUnauthorized)
	}))
	defer server.Close()

	c := newTestClient(server.URL, "stale-token")

	_, err := c.FetchCategorizedMeetings(context.Background(), 10)

	assert.True(t, pkgerrors.IsNotAuthenticated(err))
	assert.Equal(t, int32(1), calls.Load())
}

func TestGetJSON_MalformedBodyIsNotRetried(t *testing.T) {
	var calls atomic.Int32
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		calls.Add(1)
		_, _ = w.Write([]byte(`{"data": [`))
	}))
	defer server.Close()

	c := newTestClient(server.URL, "")

	_, err := c.FetchCategorizedMeetings(context.Background(), 10)

	assert.Error(t, err)
	assert.Equal(t, int32(1), calls.Load())
}
