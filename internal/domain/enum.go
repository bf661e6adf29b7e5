package domain

import (
	"fmt"
	"strings"
)

// EventType is the kind of environmental occurrence an Event describes.
type EventType string

const (
	EventTypeFire          EventType = "fire"
	EventTypeDeforestation EventType = "deforestation"
	EventTypePollution     EventType = "pollution"
	EventTypeFlood         EventType = "flood"
)

// EventTypes lists every supported event type in display order.
var EventTypes = []EventType{EventTypeFire, EventTypeDeforestation, EventTypePollution, EventTypeFlood}

// Valid reports whether t is one of the supported event types.
func (t EventType) Valid() bool {
	switch t {
	case EventTypeFire, EventTypeDeforestation, EventTypePollution, EventTypeFlood:
		return true
	}
	return false
}

// ParseEventType converts s into an EventType. Matching ignores case and
// surrounding whitespace.
func ParseEventType(s string) (EventType, error) {
	t := EventType(strings.ToLower(strings.TrimSpace(s)))
	if !t.Valid() {
		return "", fmt.Errorf("unknown event type %q", s)
	}
	return t, nil
}

// Severity is the four-tier urgency of an alert.
type Severity string

const (
	SeverityCritical Severity = "critical"
	SeverityHigh     Severity = "high"
	SeverityMedium   Severity = "medium"
	SeverityLow      Severity = "low"
)

func (s Severity) Valid() bool {
	switch s {
	case SeverityCritical, SeverityHigh, SeverityMedium, SeverityLow:
		return true
	}
	return false
}

// ParseSeverity converts s into a Severity, ignoring case.
func ParseSeverity(s string) (Severity, error) {
	v := Severity(strings.ToLower(strings.TrimSpace(s)))
	if !v.Valid() {
		return "", fmt.Errorf("unknown severity %q", s)
	}
	return v, nil
}

// AlertStatus tracks operator handling of an alert. Status only moves forward:
// open, then acknowledged, then resolved.
type AlertStatus string

const (
	StatusOpen         AlertStatus = "open"
	StatusAcknowledged AlertStatus = "acknowledged"
	StatusResolved     AlertStatus = "resolved"
)

func (s AlertStatus) Valid() bool {
	return s.rank() >= 0
}

func (s AlertStatus) rank() int {
	switch s {
	case StatusOpen:
		return 0
	case StatusAcknowledged:
		return 1
	case StatusResolved:
		return 2
	}
	return -1
}

// CanTransition reports whether an alert in status s may move to next.
// Staying in the same status is allowed.
func (s AlertStatus) CanTransition(next AlertStatus) bool {
	if !s.Valid() || !next.Valid() {
		return false
	}
	return next.rank() >= s.rank()
}

// ParseAlertStatus converts s into an AlertStatus, ignoring case.
func ParseAlertStatus(s string) (AlertStatus, error) {
	v := AlertStatus(strings.ToLower(strings.TrimSpace(s)))
	if !v.Valid() {
		return "", fmt.Errorf("unknown alert status %q", s)
	}
	return v, nil
}

// EvidenceType tags where a piece of evidence came from.
type EvidenceType string

const (
	EvidenceSatellite EvidenceType = "satellite"
	EvidenceSensor    EvidenceType = "sensor"
	EvidenceModel     EvidenceType = "model"
)

func (t EvidenceType) Valid() bool {
	switch t {
	case EvidenceSatellite, EvidenceSensor, EvidenceModel:
		return true
	}
	return false
}

// ParseEvidenceType converts s into an EvidenceType, ignoring case.
func ParseEvidenceType(s string) (EvidenceType, error) {
	v := EvidenceType(strings.ToLower(strings.TrimSpace(s)))
	if !v.Valid() {
		return "", fmt.Errorf("unknown evidence type %q", s)
	}
	return v, nil
}
