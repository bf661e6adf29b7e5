package domain

import (
	"math"
	"strings"
)

// FallbackRegion labels points outside every known region.
const FallbackRegion = "India"

// confidenceLabels maps FIRMS categorical confidence to a score.
var confidenceLabels = map[string]float64{
	"high":    0.90,
	"nominal": 0.75,
	"low":     0.50,
}

// brightnessScale is the brightness temperature (K) treated as full confidence.
const brightnessScale = 400.0

// ResolveConfidence scores a detection in [0,1]. A categorical label wins;
// any other value, numeric ones included, scores brightness/400 capped at 1.
func ResolveConfidence(d Detection) float64 {
	if v, ok := confidenceLabels[strings.ToLower(strings.TrimSpace(d.Confidence))]; ok {
		return v
	}
	return clamp01(d.Brightness / brightnessScale)
}

// Region is a named bounding box with inclusive bounds.
type Region struct {
	Name   string
	MinLat float64
	MaxLat float64
	MinLon float64
	MaxLon float64
}

// Contains reports whether the point lies inside the box, edges included.
func (r Region) Contains(lat, lon float64) bool {
	return lat >= r.MinLat && lat <= r.MaxLat && lon >= r.MinLon && lon <= r.MaxLon
}

// Regions is the ordered lookup table used by ResolveRegion. Order decides
// overlapping boxes.
var Regions = []Region{
	{Name: "Uttarakhand", MinLat: 29, MaxLat: 30.5, MinLon: 78, MaxLon: 81},
	{Name: "Himachal Pradesh", MinLat: 31, MaxLat: 33, MinLon: 75, MaxLon: 79},
	{Name: "Madhya Pradesh", MinLat: 21, MaxLat: 24, MinLon: 74, MaxLon: 82},
	{Name: "Rajasthan", MinLat: 23, MaxLat: 29, MinLon: 68, MaxLon: 76},
	{Name: "Gujarat", MinLat: 20, MaxLat: 24, MinLon: 68, MaxLon: 73},
	{Name: "Maharashtra", MinLat: 16, MaxLat: 23, MinLon: 72, MaxLon: 81},
	{Name: "Andhra Pradesh", MinLat: 13, MaxLat: 19, MinLon: 77, MaxLon: 85},
	{Name: "Karnataka", MinLat: 11, MaxLat: 18, MinLon: 74, MaxLon: 79},
	{Name: "Tamil Nadu", MinLat: 8, MaxLat: 13, MinLon: 76, MaxLon: 81},
	{Name: "Kerala", MinLat: 8, MaxLat: 12, MinLon: 74, MaxLon: 77},
}

// ResolveRegion returns the first region containing the point, or
// FallbackRegion.
func ResolveRegion(lat, lon float64) string {
	return resolveRegionIn(Regions, lat, lon)
}

func resolveRegionIn(table []Region, lat, lon float64) string {
	for _, r := range table {
		if r.Contains(lat, lon) {
			return r.Name
		}
	}
	return FallbackRegion
}

func clamp01(v float64) float64 {
	return math.Max(0, math.Min(v, 1))
}
