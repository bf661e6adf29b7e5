package domain

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestResolveConfidence_Labels(t *testing.T) {
	tests := []struct {
		label string
		want  float64
	}{
		{"high", 0.90},
		{"HIGH", 0.90},
		{"High", 0.90},
		{"nominal", 0.75},
		{"NOMINAL", 0.75},
		{"NoMiNaL", 0.75},
		{"low", 0.50},
		{"LOW", 0.50},
		{" Low ", 0.50},
	}

	for _, tt := range tests {
		t.Run(tt.label, func(t *testing.T) {
			// Brightness must not influence a labelled detection.
			assert.Equal(t, tt.want, ResolveConfidence(Detection{Confidence: tt.label, Brightness: 399}))
		})
	}
}

func TestResolveConfidence_ShortLabelsUseBrightness(t *testing.T) {
	assert.InDelta(t, 0.85, ResolveConfidence(Detection{Confidence: "h", Brightness: 340}), 1e-9)
	assert.InDelta(t, 0.85, ResolveConfidence(Detection{Confidence: "N", Brightness: 340}), 1e-9)
	assert.Zero(t, ResolveConfidence(Detection{Confidence: "l"}))
}

func TestResolveConfidence_NumericUsesBrightness(t *testing.T) {
	assert.InDelta(t, 0.825, ResolveConfidence(Detection{Confidence: "80", Brightness: 330}), 1e-9)
	assert.InDelta(t, 0.75, ResolveConfidence(Detection{Confidence: "95", Brightness: 300}), 1e-9)
	assert.Zero(t, ResolveConfidence(Detection{Confidence: "100"}))
}

func TestResolveConfidence_Brightness(t *testing.T) {
	tests := []struct {
		name       string
		brightness float64
		want       float64
	}{
		{"half scale", 200, 0.5},
		{"at scale", 400, 1.0},
		{"above scale clamps", 520, 1.0},
		{"zero", 0, 0},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.InDelta(t, tt.want, ResolveConfidence(Detection{Brightness: tt.brightness}), 1e-9)
		})
	}
}

func TestResolveConfidence_UnknownLabelUsesBrightness(t *testing.T) {
	assert.InDelta(t, 0.8, ResolveConfidence(Detection{Confidence: "medium", Brightness: 320}), 1e-9)
}

func TestResolveRegion(t *testing.T) {
	tests := []struct {
		name     string
		lat, lon float64
		want     string
	}{
		{"uttarakhand", 30.0, 79.0, "Uttarakhand"},
		{"himachal", 32.0, 77.0, "Himachal Pradesh"},
		{"madhya pradesh", 22.9, 78.65, "Madhya Pradesh"},
		{"rajasthan", 26.0, 72.0, "Rajasthan"},
		{"tamil nadu box listed before kerala", 10.0, 76.5, "Tamil Nadu"},
		{"kerala west coast", 10.0, 75.5, "Kerala"},
		{"inclusive lower corner", 29.0, 78.0, "Uttarakhand"},
		{"inclusive upper corner", 30.5, 81.0, "Uttarakhand"},
		{"delhi outside every box", 28.6, 77.2, FallbackRegion},
		{"bihar outside every box", 26.15, 87.5, FallbackRegion},
		{"far away", -33.9, 151.2, FallbackRegion},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, ResolveRegion(tt.lat, tt.lon))
		})
	}
}

func TestResolveRegion_FirstMatchWins(t *testing.T) {
	table := []Region{
		{Name: "first", MinLat: 0, MaxLat: 10, MinLon: 0, MaxLon: 10},
		{Name: "second", MinLat: 5, MaxLat: 15, MinLon: 5, MaxLon: 15},
	}

	assert.Equal(t, "first", resolveRegionIn(table, 7, 7))
	assert.Equal(t, "second", resolveRegionIn(table, 12, 12))
	assert.Equal(t, FallbackRegion, resolveRegionIn(table, 20, 20))
}
