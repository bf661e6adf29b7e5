package domain

import (
	"context"
	"errors"
)

var (
	// ErrNotFound is returned by stores when a referenced record is absent.
	ErrNotFound = errors.New("not found")

	// ErrInvalidTransition is returned when an alert status would move backwards.
	ErrInvalidTransition = errors.New("invalid status transition")
)

// MaxListLimit caps every list query.
const MaxListLimit = 100

// EventFilter narrows event listings. Zero fields match everything.
type EventFilter struct {
	Type     EventType
	Severity Severity // matches the severity of the event's alert
	Limit    int
}

// AlertFilter narrows alert listings. Zero fields match everything.
type AlertFilter struct {
	Severity Severity
	Status   AlertStatus
	Limit    int
}

// ClampLimit returns n bounded to (0, MaxListLimit].
func ClampLimit(n int) int {
	if n <= 0 || n > MaxListLimit {
		return MaxListLimit
	}
	return n
}

// EventStore persists events. Listings are newest first.
type EventStore interface {
	// InsertEvents writes the batch and returns the events that were newly
	// stored; events whose ID already exists are skipped.
	InsertEvents(ctx context.Context, events []Event) ([]Event, error)
	GetEvent(ctx context.Context, id string) (Event, error)
	ListEvents(ctx context.Context, filter EventFilter) ([]Event, error)
}

// AlertStore persists alerts. Alerts are never deleted.
type AlertStore interface {
	InsertAlerts(ctx context.Context, alerts []Alert) error
	GetAlert(ctx context.Context, id string) (AlertDetail, error)
	AlertForEvent(ctx context.Context, eventID string) (Alert, error)
	ListAlerts(ctx context.Context, filter AlertFilter) ([]AlertDetail, error)
	UpdateAlert(ctx context.Context, alert Alert) error
}

// EvidenceStore persists evidence attached to events.
type EvidenceStore interface {
	InsertEvidence(ctx context.Context, evidence Evidence) error
	ListEvidence(ctx context.Context, eventID string) ([]Evidence, error)
}

// Store is the full persistence port.
type Store interface {
	EventStore
	AlertStore
	EvidenceStore
	Ping(ctx context.Context) error
}

// Publisher fans newly created records out to downstream consumers.
type Publisher interface {
	PublishEvents(ctx context.Context, events []Event) error
	PublishAlerts(ctx context.Context, alerts []Alert) error
}
