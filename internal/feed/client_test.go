package feed

import (
	"context"
	"net/http"
	"net/http/httptest"
	"sync/atomic"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestClientUsesConditionalRequests(t *testing.T) {
	var hits, notModified atomic.Int32
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		hits.Add(1)
		if r.Header.Get("If-None-Match") == `"v1"` {
			notModified.Add(1)
			w.WriteHeader(http.StatusNotModified)
			return
		}
		w.Header().Set("ETag", `"v1"`)
		_, _ = w.Write([]byte("BEGIN:VCALENDAR"))
	}))
	defer srv.Close()

	c := NewClient(time.Second, nil)
	ctx := context.Background()

	body, err := c.Fetch(ctx, srv.URL)
	require.NoError(t, err)
	assert.Equal(t, "BEGIN:VCALENDAR", string(body))

	body, err = c.Fetch(ctx, srv.URL)
	require.NoError(t, err)
	assert.Equal(t, "BEGIN:VCALENDAR", string(body))
	assert.EqualValues(t, 2, hits.Load())
	assert.EqualValues(t, 1, notModified.Load())
}

func TestClientBadStatus(t *testing.T) {
	fail := atomic.Bool{}
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if fail.Load() {
			http.Error(w, "boom", http.StatusInternalServerError)
			return
		}
		_, _ = w.Write([]byte("cached"))
	}))
	defer srv.Close()

	fresh := NewClient(time.Second, nil)
	fail.Store(true)
	_, err := fresh.Fetch(context.Background(), srv.URL)
	var statusErr *StatusError
	require.ErrorAs(t, err, &statusErr)
	assert.Equal(t, http.StatusInternalServerError, statusErr.Code)

	warm := NewClient(time.Second, nil)
	fail.Store(false)
	_, err = warm.Fetch(context.Background(), srv.URL)
	require.NoError(t, err)
	fail.Store(true)
	body, err := warm.Fetch(context.Background(), srv.URL)
	require.NoError(t, err)
	assert.Equal(t, "cached", string(body))
}

func TestClientTimeout(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		select {
		case <-r.Context().Done():
		case <-time.After(2 * time.Second):
		}
	}))
	defer srv.Close()

	_, err := NewClient(50*time.Millisecond, nil).Fetch(context.Background(), srv.URL)
	assert.Error(t, err)
}

func TestNormalizeURL(t *testing.T) {
	got, err := NormalizeURL("  webcal://calendar.example.com/feed.ics?token=abc ")
	require.NoError(t, err)
	assert.Equal(t, "https://calendar.example.com/feed.ics?token=abc", got)

	_, err = NormalizeURL("")
	assert.ErrorIs(t, err, ErrEmptyURL)
	_, err = NormalizeURL("ftp://example.com/a.ics")
	assert.ErrorIs(t, err, ErrInvalidURL)
	_, err = NormalizeURL("https:///nohost")
	assert.ErrorIs(t, err, ErrInvalidURL)
}

func TestRedactURL(t *testing.T) {
	assert.Equal(t, "https://example.com/...(redacted)", RedactURL("https://example.com/private/abc.ics?token=1"))
	assert.Equal(t, "(redacted)", RedactURL("not a url"))
}
