package domain

import (
	"context"
	"log/slog"
)

// EnrichWithPlace adds reverse-geocoded place details to the event's
// properties. The region label in Location is left alone. A nil geocoder, a
// failed lookup or an empty result leaves the event unchanged.
func EnrichWithPlace(ctx context.Context, event Event, geocoder Geocoder, logger *slog.Logger) Event {
	if geocoder == nil {
		return event
	}

	place, err := geocoder.ReverseGeocode(ctx, event.Latitude, event.Longitude)
	if err != nil {
		logger.Warn("reverse geocoding failed",
			"event_id", event.ID,
			"lat", event.Latitude,
			"lon", event.Longitude,
			"error", err,
		)
		return event
	}
	if place.FormattedAddress == "" {
		return event
	}

	props := make(map[string]any, len(event.Properties)+3)
	for k, v := range event.Properties {
		props[k] = v
	}
	props["place_name"] = place.Name
	props["formatted_address"] = place.FormattedAddress
	props["geo_confidence"] = place.Confidence
	event.Properties = props
	return event
}
