//go:build mapbox

package mapbox

import (
	"context"
	"io"
	"log/slog"
	"os"
	"testing"
	"time"

	"github.com/Shubhupadhyay23/RAKSHAK-AI/internal/observability"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// These tests hit the real Mapbox API and require a valid MAPBOX_TOKEN env var.
// Run with: go test -tags=mapbox ./internal/adapter/mapbox/ -v -count=1

func smokeClient(t *testing.T) *Client {
	t.Helper()
	token := os.Getenv("MAPBOX_TOKEN")
	if token == "" {
		t.Fatal("MAPBOX_TOKEN must be set to run smoke tests")
	}
	return NewClient(token, 10*time.Second, observability.NewMetricsForTesting(),
		slog.New(slog.NewTextHandler(io.Discard, nil)))
}

func TestSmoke_ReverseGeocode(t *testing.T) {
	c := smokeClient(t)

	// Dehradun, Uttarakhand
	place, err := c.ReverseGeocode(context.Background(), 30.3165, 78.0322)
	require.NoError(t, err)

	assert.NotEmpty(t, place.FormattedAddress)
	assert.NotEmpty(t, place.Name)
	assert.Contains(t, place.FormattedAddress, "India")
	assert.Greater(t, place.Confidence, 0.0)
}

func TestSmoke_ReverseGeocode_OpenSea(t *testing.T) {
	c := smokeClient(t)

	// Arabian Sea: Mapbox may return nothing, which must not be an error.
	_, err := c.ReverseGeocode(context.Background(), 15.0, 65.0)
	require.NoError(t, err)
}

func TestSmoke_CachedGeocoder(t *testing.T) {
	c := smokeClient(t)
	cached := NewCachedGeocoder(c, 10, observability.NewMetricsForTesting())

	p1, err := cached.ReverseGeocode(context.Background(), 28.6139, 77.2090)
	require.NoError(t, err)
	assert.NotEmpty(t, p1.FormattedAddress)

	p2, err := cached.ReverseGeocode(context.Background(), 28.6139, 77.2090)
	require.NoError(t, err)
	assert.Equal(t, p1, p2)
}
