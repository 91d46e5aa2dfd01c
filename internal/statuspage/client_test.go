package statuspage

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

const scenarioBody = `{"components":[` +
	`{"name":"GitHub Status","status":"operational"},` +
	`{"name":"API","status":"major_outage"},` +
	`{"name":"Git Operations","status":"operational"}]}`

func newTestClient(url string) *Client {
	c := NewClient(Config{URL: url, AggregateName: aggregate, Timeout: time.Second})
	c.now = func() time.Time { return time.Date(2024, 1, 1, 12, 0, 0, 0, time.UTC) }
	return c
}

func TestClient_Fetch(t *testing.T) {
	headers := make(chan http.Header, 1)
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		headers <- r.Header.Clone()
		w.Header().Set("Content-Type", "application/json")
		_, _ = w.Write([]byte(scenarioBody))
	}))
	defer srv.Close()

	snapshot, notModified, err := newTestClient(srv.URL).Fetch(context.Background())
	require.NoError(t, err)
	assert.False(t, notModified)
	assert.Equal(t, 2, snapshot.Len())
	assert.Equal(t, StatusMajorOutage, snapshot.Services["API"])
	assert.Equal(t, time.Date(2024, 1, 1, 12, 0, 0, 0, time.UTC), snapshot.FetchedAt)
	got := <-headers
	assert.Equal(t, "status-lights/1.0", got.Get("User-Agent"))
	assert.Equal(t, "application/json", got.Get("Accept"))
}

func TestClient_FetchFailures(t *testing.T) {
	tests := []struct {
		name    string
		handler http.HandlerFunc
	}{
		{
			name: "server error",
			handler: func(w http.ResponseWriter, r *http.Request) {
				w.WriteHeader(http.StatusInternalServerError)
			},
		},
		{
			name: "not found",
			handler: func(w http.ResponseWriter, r *http.Request) {
				http.NotFound(w, r)
			},
		},
		{
			name: "empty body",
			handler: func(w http.ResponseWriter, r *http.Request) {
				w.WriteHeader(http.StatusOK)
			},
		},
		{
			name: "wrong shape",
			handler: func(w http.ResponseWriter, r *http.Request) {
				_, _ = w.Write([]byte(`{"components":"none"}`))
			},
		},
		{
			name: "unsolicited not modified",
			handler: func(w http.ResponseWriter, r *http.Request) {
				w.WriteHeader(http.StatusNotModified)
			},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			srv := httptest.NewServer(tt.handler)
			defer srv.Close()

			_, _, err := newTestClient(srv.URL).Fetch(context.Background())
			require.Error(t, err)
			assert.ErrorIs(t, err, ErrFetch)
		})
	}
}

func TestClient_TransportError(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {}))
	url := srv.URL
	srv.Close()

	_, _, err := newTestClient(url).Fetch(context.Background())
	require.Error(t, err)
	assert.ErrorIs(t, err, ErrFetch)
}

func TestClient_ConditionalRequest(t *testing.T) {
	var requests atomic.Int32
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		requests.Add(1)
		if r.Header.Get("If-None-Match") == `"v1"` {
			w.WriteHeader(http.StatusNotModified)
			return
		}
		w.Header().Set("ETag", `"v1"`)
		_, _ = w.Write([]byte(scenarioBody))
	}))
	defer srv.Close()

	client := newTestClient(srv.URL)

	first, notModified, err := client.Fetch(context.Background())
	require.NoError(t, err)
	assert.False(t, notModified)

	second, notModified, err := client.Fetch(context.Background())
	require.NoError(t, err)
	assert.True(t, notModified)
	assert.True(t, first.Equal(second))
	assert.Equal(t, int32(2), requests.Load())
}

func TestClient_NoValidators(t *testing.T) {
	var conditional atomic.Int32
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if r.Header.Get("If-None-Match") != "" || r.Header.Get("If-Modified-Since") != "" {
			conditional.Add(1)
		}
		_, _ = w.Write([]byte(scenarioBody))
	}))
	defer srv.Close()

	client := newTestClient(srv.URL)
	for i := 0; i < 2; i++ {
		_, notModified, err := client.Fetch(context.Background())
		require.NoError(t, err)
		assert.False(t, notModified)
	}

	_, found := client.validators.Get(client.URL())
	assert.False(t, found)
	assert.Equal(t, int32(0), conditional.Load())
}

func TestNewClient_Defaults(t *testing.T) {
	client := NewClient(Config{})

	assert.Equal(t, "https://www.githubstatus.com/api/v2/summary.json", client.URL())
	assert.Equal(t, "GitHub Status", client.cfg.AggregateName)
	assert.Equal(t, 30*time.Second, client.httpClient.Timeout)
}
