package domain

// Confidence thresholds for ClassifySeverity. Comparisons are strict.
const (
	fireCriticalAbove  = 0.90
	fireHighAbove      = 0.75
	landWaterHighAbove = 0.80
	mediumAbove        = 0.60

	// AlertConfidenceAbove is the confidence an ingested event must exceed to
	// raise an alert.
	AlertConfidenceAbove = 0.85
)

// ClassifySeverity maps an event type and confidence to a severity tier.
// Branches are evaluated in order and the first match wins.
func ClassifySeverity(t EventType, confidence float64) Severity {
	switch {
	case t == EventTypeFire && confidence > fireCriticalAbove:
		return SeverityCritical
	case t == EventTypeFire && confidence > fireHighAbove:
		return SeverityHigh
	case (t == EventTypeDeforestation || t == EventTypeFlood) && confidence > landWaterHighAbove:
		return SeverityHigh
	case confidence > mediumAbove:
		return SeverityMedium
	default:
		return SeverityLow
	}
}

// RaisesAlert reports whether an ingested event is confident enough to open
// an alert automatically.
func RaisesAlert(e Event) bool {
	return e.Confidence > AlertConfidenceAbove
}
