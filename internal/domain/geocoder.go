package domain

import "context"

// Place is a reverse-geocoding result.
type Place struct {
	Name             string
	FormattedAddress string
	Confidence       float64 // 0.0-1.0 provider relevance
}

// Geocoder resolves coordinates to a named place.
type Geocoder interface {
	ReverseGeocode(ctx context.Context, lat, lon float64) (Place, error)
}
