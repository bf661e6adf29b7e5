package domain

import (
	"crypto/sha256"
	"encoding/hex"
	"fmt"
	"strings"

	"github.com/google/uuid"
)

// SourceFIRMS tags events derived from the FIRMS feed.
const SourceFIRMS = "firms"

// NewFeedEvent converts a FIRMS detection into a fire event: confidence and
// region are resolved, the raw measurements are kept as properties and the
// ID is derived from the detection so re-ingestion is idempotent.
func NewFeedEvent(d Detection) Event {
	return Event{
		ID:         FeedEventID(d),
		Source:     SourceFIRMS,
		EventType:  EventTypeFire,
		Confidence: ResolveConfidence(d),
		Location:   ResolveRegion(d.Latitude, d.Longitude),
		Latitude:   d.Latitude,
		Longitude:  d.Longitude,
		Properties: map[string]any{
			"brightness":     d.Brightness,
			"bright_ti4":     d.BrightTI4,
			"bright_ti5":     d.BrightTI5,
			"satellite":      d.Satellite,
			"confidence_str": d.Confidence,
			"daynight":       d.DayNight,
			"frp":            d.FRP,
			"acq_date":       d.AcqDate,
			"acq_time":       d.AcqTime,
		},
		CreatedAt: Now(),
	}
}

// NewFeedAlert opens an alert for an ingested event. The plan is left empty
// until an operator requests one.
func NewFeedAlert(e Event) Alert {
	now := Now()
	return Alert{
		ID:        AlertID(e.ID),
		EventID:   e.ID,
		Severity:  ClassifySeverity(e.EventType, e.Confidence),
		Status:    StatusOpen,
		CreatedAt: now,
		UpdatedAt: now,
	}
}

// FeedEventID produces a deterministic ID from the detection's key fields.
// The same satellite pass over the same pixel always maps to the same ID.
func FeedEventID(d Detection) string {
	input := fmt.Sprintf("%s|%s|%s|%.4f|%.4f",
		strings.ToUpper(d.Satellite), d.AcqDate, normalizeAcqTime(d.AcqTime), d.Latitude, d.Longitude)
	hash := sha256.Sum256([]byte(input))
	return "evt_" + SourceFIRMS + "_" + hex.EncodeToString(hash[:8])
}

// AlertID derives the ID of the alert belonging to an event. An event has at
// most one alert, so the mapping is fixed.
func AlertID(eventID string) string {
	return "alrt_" + eventID
}

// NewEventID returns a random ID for events submitted through the API.
func NewEventID() string {
	return "evt_" + uuid.NewString()
}

// NewEvidenceID returns a random evidence ID.
func NewEvidenceID() string {
	return "evd_" + uuid.NewString()
}

// normalizeAcqTime zero-pads HHMM values such as "930" to "0930".
func normalizeAcqTime(s string) string {
	s = strings.TrimSpace(s)
	for len(s) > 0 && len(s) < 4 {
		s = "0" + s
	}
	return s
}
