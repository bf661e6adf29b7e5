package domain

import (
	"context"
	"errors"
	"io"
	"log/slog"
	"testing"

	"github.com/stretchr/testify/assert"
)

type mockGeocoder struct {
	result Place
	err    error
	calls  int
}

func (m *mockGeocoder) ReverseGeocode(_ context.Context, _, _ float64) (Place, error) {
	m.calls++
	return m.result, m.err
}

func discardLogger() *slog.Logger {
	return slog.New(slog.NewTextHandler(io.Discard, nil))
}

func testEvent() Event {
	return Event{
		ID:         "evt-1",
		Source:     SourceFIRMS,
		EventType:  EventTypeFire,
		Confidence: 0.9,
		Location:   "Uttarakhand",
		Latitude:   30.1,
		Longitude:  79.2,
		Properties: map[string]any{"frp": 12.5},
	}
}

func TestEnrichWithPlace_NilGeocoder(t *testing.T) {
	event := testEvent()

	result := EnrichWithPlace(context.Background(), event, nil, discardLogger())

	assert.Equal(t, event, result)
}

func TestEnrichWithPlace_AddsPlaceProperties(t *testing.T) {
	geo := &mockGeocoder{result: Place{
		Name:             "Chamoli",
		FormattedAddress: "Chamoli, Uttarakhand, India",
		Confidence:       0.87,
	}}
	event := testEvent()

	result := EnrichWithPlace(context.Background(), event, geo, discardLogger())

	assert.Equal(t, 1, geo.calls)
	assert.Equal(t, "Uttarakhand", result.Location, "region label must not change")
	assert.Equal(t, "Chamoli", result.Properties["place_name"])
	assert.Equal(t, "Chamoli, Uttarakhand, India", result.Properties["formatted_address"])
	assert.Equal(t, 0.87, result.Properties["geo_confidence"])
	assert.Equal(t, 12.5, result.Properties["frp"])
	assert.NotContains(t, event.Properties, "place_name", "input properties must not be mutated")
}

func TestEnrichWithPlace_Error(t *testing.T) {
	geo := &mockGeocoder{err: errors.New("API timeout")}
	event := testEvent()

	result := EnrichWithPlace(context.Background(), event, geo, discardLogger())

	assert.Equal(t, 1, geo.calls)
	assert.Equal(t, event, result)
}

func TestEnrichWithPlace_EmptyResult(t *testing.T) {
	geo := &mockGeocoder{}
	event := testEvent()

	result := EnrichWithPlace(context.Background(), event, geo, discardLogger())

	assert.NotContains(t, result.Properties, "place_name")
}
