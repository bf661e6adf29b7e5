package firms

import (
	"context"
	"io"
	"log/slog"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

const testFeed = "latitude,longitude,bright_ti4,acq_date,acq_time,satellite,confidence\n30.1,79.5,340.2,2024-04-20,0842,N,h\n"

func testClient(baseURL string) *Client {
	return NewClient(Options{
		Key:      "test-key",
		BaseURL:  baseURL,
		Source:   "VIIRS_SNPP_NRT",
		Country:  "IND",
		DayRange: 1,
		Timeout:  5 * time.Second,
	}, slog.New(slog.NewTextHandler(io.Discard, nil)))
}

func TestClient_Fetch(t *testing.T) {
	var gotPath string
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		gotPath = r.URL.Path
		w.Header().Set("Content-Type", "text/csv")
		_, _ = w.Write([]byte(testFeed))
	}))
	defer srv.Close()

	data, err := testClient(srv.URL + "/api/country/csv").Fetch(context.Background())
	require.NoError(t, err)

	assert.Equal(t, "/api/country/csv/test-key/VIIRS_SNPP_NRT/IND/1", gotPath)
	assert.Equal(t, testFeed, string(data))
}

func TestClient_Fetch_TooLarge(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, _ *http.Request) {
		_, _ = w.Write([]byte(testFeed))
	}))
	defer srv.Close()

	c := testClient(srv.URL)
	c.maxBytes = int64(len(testFeed)) - 1
	data, err := c.Fetch(context.Background())
	require.ErrorIs(t, err, ErrFeedTooLarge)
	assert.Nil(t, data)
}

func TestClient_Fetch_AtLimit(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, _ *http.Request) {
		_, _ = w.Write([]byte(testFeed))
	}))
	defer srv.Close()

	c := testClient(srv.URL)
	c.maxBytes = int64(len(testFeed))
	data, err := c.Fetch(context.Background())
	require.NoError(t, err)
	assert.Equal(t, testFeed, string(data))
}

func TestClient_Fetch_APIError(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, _ *http.Request) {
		w.WriteHeader(http.StatusBadRequest)
		_, _ = w.Write([]byte("Invalid MAP_KEY."))
	}))
	defer srv.Close()

	_, err := testClient(srv.URL).Fetch(context.Background())
	require.Error(t, err)
	assert.Contains(t, err.Error(), "400")
	assert.Contains(t, err.Error(), "Invalid MAP_KEY")
}

func TestClient_Fetch_Timeout(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, _ *http.Request) {
		time.Sleep(200 * time.Millisecond)
		w.WriteHeader(http.StatusOK)
	}))
	defer srv.Close()

	c := testClient(srv.URL)
	c.httpClient.Timeout = 50 * time.Millisecond

	_, err := c.Fetch(context.Background())
	require.Error(t, err)
}

func TestClient_Fetch_ContextCancelled(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, _ *http.Request) {
		_, _ = w.Write([]byte(testFeed))
	}))
	defer srv.Close()

	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	_, err := testClient(srv.URL).Fetch(ctx)
	require.Error(t, err)
}
