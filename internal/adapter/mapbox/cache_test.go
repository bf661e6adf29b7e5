package mapbox

import (
	"context"
	"errors"
	"testing"

	"github.com/Shubhupadhyay23/RAKSHAK-AI/internal/domain"
	"github.com/Shubhupadhyay23/RAKSHAK-AI/internal/observability"
	"github.com/prometheus/client_golang/prometheus/testutil"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type countingGeocoder struct {
	calls int
	place domain.Place
	err   error
}

func (m *countingGeocoder) ReverseGeocode(_ context.Context, _, _ float64) (domain.Place, error) {
	m.calls++
	return m.place, m.err
}

func TestCachedGeocoder_CacheHit(t *testing.T) {
	inner := &countingGeocoder{place: domain.Place{Name: "Mussoorie", FormattedAddress: "Mussoorie, Uttarakhand"}}
	metrics := observability.NewMetricsForTesting()
	cached := NewCachedGeocoder(inner, 10, metrics)

	p1, err := cached.ReverseGeocode(context.Background(), 30.4512, 78.1503)
	require.NoError(t, err)
	assert.Equal(t, "Mussoorie", p1.Name)

	// Same coordinates after rounding to three decimals.
	p2, err := cached.ReverseGeocode(context.Background(), 30.4509, 78.1498)
	require.NoError(t, err)
	assert.Equal(t, p1, p2)

	assert.Equal(t, 1, inner.calls, "should only call inner once")
	assert.Equal(t, 1.0, testutil.ToFloat64(metrics.GeocodeCache.WithLabelValues("hit")))
	assert.Equal(t, 1.0, testutil.ToFloat64(metrics.GeocodeCache.WithLabelValues("miss")))
}

func TestCachedGeocoder_DifferentKeysMiss(t *testing.T) {
	inner := &countingGeocoder{place: domain.Place{Name: "Place", FormattedAddress: "Place, India"}}
	cached := NewCachedGeocoder(inner, 10, observability.NewMetricsForTesting())

	_, _ = cached.ReverseGeocode(context.Background(), 30.45, 78.15)
	_, _ = cached.ReverseGeocode(context.Background(), 22.90, 78.65)

	assert.Equal(t, 2, inner.calls)
}

func TestCachedGeocoder_EmptyResultNotCached(t *testing.T) {
	inner := &countingGeocoder{}
	cached := NewCachedGeocoder(inner, 10, observability.NewMetricsForTesting())

	_, _ = cached.ReverseGeocode(context.Background(), 15.0, 65.0)
	_, _ = cached.ReverseGeocode(context.Background(), 15.0, 65.0)

	assert.Equal(t, 2, inner.calls)
}

func TestCachedGeocoder_ErrorNotCached(t *testing.T) {
	inner := &countingGeocoder{err: errors.New("upstream down")}
	cached := NewCachedGeocoder(inner, 10, observability.NewMetricsForTesting())

	_, err := cached.ReverseGeocode(context.Background(), 30.45, 78.15)
	require.Error(t, err)

	inner.err = nil
	inner.place = domain.Place{FormattedAddress: "Mussoorie, Uttarakhand"}
	place, err := cached.ReverseGeocode(context.Background(), 30.45, 78.15)
	require.NoError(t, err)
	assert.Equal(t, "Mussoorie, Uttarakhand", place.FormattedAddress)
	assert.Equal(t, 2, inner.calls)
}
