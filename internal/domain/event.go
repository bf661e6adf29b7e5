package domain

import (
	"errors"
	"fmt"
	"time"
)

// Detection is one row of the FIRMS fire feed. It is consumed once per
// ingestion run and never stored as-is.
type Detection struct {
	Latitude   float64
	Longitude  float64
	Brightness float64
	Scan       float64
	Track      float64
	AcqDate    string // YYYY-MM-DD
	AcqTime    string // HHMM, UTC
	Satellite  string
	Instrument string
	Confidence string // "low"/"nominal"/"high", "l"/"n"/"h", or 0-100
	Version    string
	BrightTI4  float64
	BrightTI5  float64
	FRP        float64 // fire radiative power, MW
	DayNight   string  // "D" or "N"
	Type       int
}

// Event is a normalized environmental occurrence. Events are never updated
// once stored.
type Event struct {
	ID         string         `json:"id"`
	Source     string         `json:"source"`
	EventType  EventType      `json:"event_type"`
	Confidence float64        `json:"confidence"`
	Location   string         `json:"location"`
	Latitude   float64        `json:"latitude"`
	Longitude  float64        `json:"longitude"`
	Properties map[string]any `json:"properties"`
	CreatedAt  time.Time      `json:"created_at"`
}

// Validate checks the event invariants: known type, confidence within [0,1]
// and coordinates within WGS-84 bounds.
func (e Event) Validate() error {
	var errs []error
	if e.ID == "" {
		errs = append(errs, errors.New("id is required"))
	}
	if e.Source == "" {
		errs = append(errs, errors.New("source is required"))
	}
	if !e.EventType.Valid() {
		errs = append(errs, fmt.Errorf("unknown event type %q", e.EventType))
	}
	if e.Confidence < 0 || e.Confidence > 1 {
		errs = append(errs, fmt.Errorf("confidence %v outside [0,1]", e.Confidence))
	}
	if e.Latitude < -90 || e.Latitude > 90 {
		errs = append(errs, fmt.Errorf("latitude %v outside [-90,90]", e.Latitude))
	}
	if e.Longitude < -180 || e.Longitude > 180 {
		errs = append(errs, fmt.Errorf("longitude %v outside [-180,180]", e.Longitude))
	}
	return errors.Join(errs...)
}

// Resource is one line of a plan's resource list.
type Resource struct {
	Name     string `json:"name"`
	Quantity int    `json:"quantity"`
}

// ActionPlan is structured response guidance attached to an alert.
type ActionPlan struct {
	Immediate   []string   `json:"immediate"`
	MediumTerm  []string   `json:"medium_term"`
	Resources   []Resource `json:"resources"`
	SMS         string     `json:"sms"`
	LegalNotice string     `json:"legal_notice,omitempty"`
}

// IsZero reports whether the plan carries no guidance at all.
func (p ActionPlan) IsZero() bool {
	return len(p.Immediate) == 0 && len(p.MediumTerm) == 0 && len(p.Resources) == 0 &&
		p.SMS == "" && p.LegalNotice == ""
}

// Alert is an actionable record tied to exactly one Event.
type Alert struct {
	ID               string      `json:"id"`
	EventID          string      `json:"event_id"`
	Severity         Severity    `json:"severity"`
	Status           AlertStatus `json:"status"`
	SuggestedActions ActionPlan  `json:"suggested_actions"`
	GeneratedPDFURL  string      `json:"generated_pdf_url,omitempty"`
	CreatedAt        time.Time   `json:"created_at"`
	UpdatedAt        time.Time   `json:"updated_at"`
}

// AlertDetail is an alert joined with its event and the event's evidence.
type AlertDetail struct {
	Alert
	Event     *Event     `json:"events,omitempty"`
	Evidences []Evidence `json:"evidences,omitempty"`
}

// Evidence is supporting material attached to an event. Evidence is
// append-only.
type Evidence struct {
	ID           string       `json:"id"`
	EventID      string       `json:"event_id"`
	StoragePath  string       `json:"storage_path"`
	ThumbnailURL string       `json:"thumbnail_url,omitempty"`
	Type         EvidenceType `json:"type"`
	Title        string       `json:"title"`
	AddedAt      time.Time    `json:"added_at"`
}
