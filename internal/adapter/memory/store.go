// Package memory is an in-process domain.Store. It backs the service when no
// database is configured and is seeded with a small demo dataset.
package memory

import (
	"context"
	"fmt"
	"maps"
	"sort"
	"sync"
	"time"

	"github.com/Shubhupadhyay23/RAKSHAK-AI/internal/domain"
)

type eventRow struct {
	seq   uint64
	event domain.Event
}

type alertRow struct {
	seq   uint64
	alert domain.Alert
}

// Store keeps everything in maps guarded by one RWMutex. Records are copied
// on the way in and out so callers never share state with the store.
type Store struct {
	mu       sync.RWMutex
	seq      uint64
	events   map[string]eventRow
	alerts   map[string]alertRow
	evidence map[string][]domain.Evidence // by event ID, in insertion order
}

// New returns an empty store.
func New() *Store {
	return &Store{
		events:   make(map[string]eventRow),
		alerts:   make(map[string]alertRow),
		evidence: make(map[string][]domain.Evidence),
	}
}

func (s *Store) nextSeq() uint64 {
	s.seq++
	return s.seq
}

func (s *Store) InsertEvents(_ context.Context, events []domain.Event) ([]domain.Event, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	inserted := make([]domain.Event, 0, len(events))
	for _, e := range events {
		if _, exists := s.events[e.ID]; exists {
			continue
		}
		e = copyEvent(e)
		s.events[e.ID] = eventRow{seq: s.nextSeq(), event: e}
		inserted = append(inserted, copyEvent(e))
	}
	return inserted, nil
}

func (s *Store) GetEvent(_ context.Context, id string) (domain.Event, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	row, ok := s.events[id]
	if !ok {
		return domain.Event{}, fmt.Errorf("event %s: %w", id, domain.ErrNotFound)
	}
	return copyEvent(row.event), nil
}

func (s *Store) ListEvents(_ context.Context, filter domain.EventFilter) ([]domain.Event, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	var severityOf map[string]domain.Severity
	if filter.Severity != "" {
		severityOf = make(map[string]domain.Severity, len(s.alerts))
		for _, row := range s.alerts {
			severityOf[row.alert.EventID] = row.alert.Severity
		}
	}

	rows := make([]eventRow, 0, len(s.events))
	for _, row := range s.events {
		if filter.Type != "" && row.event.EventType != filter.Type {
			continue
		}
		if severityOf != nil && severityOf[row.event.ID] != filter.Severity {
			continue
		}
		rows = append(rows, row)
	}
	sort.Slice(rows, func(i, j int) bool {
		return newer(rows[i].event.CreatedAt, rows[j].event.CreatedAt, rows[i].seq, rows[j].seq)
	})

	limit := domain.ClampLimit(filter.Limit)
	if len(rows) > limit {
		rows = rows[:limit]
	}
	out := make([]domain.Event, len(rows))
	for i, row := range rows {
		out[i] = copyEvent(row.event)
	}
	return out, nil
}

// InsertAlerts skips alerts whose ID already exists.
func (s *Store) InsertAlerts(_ context.Context, alerts []domain.Alert) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	for _, a := range alerts {
		if _, exists := s.alerts[a.ID]; exists {
			continue
		}
		s.alerts[a.ID] = alertRow{seq: s.nextSeq(), alert: copyAlert(a)}
	}
	return nil
}

func (s *Store) GetAlert(_ context.Context, id string) (domain.AlertDetail, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	row, ok := s.alerts[id]
	if !ok {
		return domain.AlertDetail{}, fmt.Errorf("alert %s: %w", id, domain.ErrNotFound)
	}
	detail := s.detailLocked(row.alert)
	detail.Evidences = append([]domain.Evidence(nil), s.evidence[row.alert.EventID]...)
	return detail, nil
}

func (s *Store) AlertForEvent(_ context.Context, eventID string) (domain.Alert, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	if row, ok := s.alerts[domain.AlertID(eventID)]; ok {
		return copyAlert(row.alert), nil
	}
	for _, row := range s.alerts {
		if row.alert.EventID == eventID {
			return copyAlert(row.alert), nil
		}
	}
	return domain.Alert{}, fmt.Errorf("alert for event %s: %w", eventID, domain.ErrNotFound)
}

func (s *Store) ListAlerts(_ context.Context, filter domain.AlertFilter) ([]domain.AlertDetail, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	rows := make([]alertRow, 0, len(s.alerts))
	for _, row := range s.alerts {
		if filter.Severity != "" && row.alert.Severity != filter.Severity {
			continue
		}
		if filter.Status != "" && row.alert.Status != filter.Status {
			continue
		}
		rows = append(rows, row)
	}
	sort.Slice(rows, func(i, j int) bool {
		return newer(rows[i].alert.CreatedAt, rows[j].alert.CreatedAt, rows[i].seq, rows[j].seq)
	})

	limit := domain.ClampLimit(filter.Limit)
	if len(rows) > limit {
		rows = rows[:limit]
	}
	out := make([]domain.AlertDetail, len(rows))
	for i, row := range rows {
		out[i] = s.detailLocked(row.alert)
	}
	return out, nil
}

func (s *Store) UpdateAlert(_ context.Context, alert domain.Alert) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	row, ok := s.alerts[alert.ID]
	if !ok {
		return fmt.Errorf("alert %s: %w", alert.ID, domain.ErrNotFound)
	}
	row.alert = copyAlert(alert)
	s.alerts[alert.ID] = row
	return nil
}

func (s *Store) InsertEvidence(_ context.Context, ev domain.Evidence) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	if _, ok := s.events[ev.EventID]; !ok {
		return fmt.Errorf("event %s: %w", ev.EventID, domain.ErrNotFound)
	}
	s.evidence[ev.EventID] = append(s.evidence[ev.EventID], ev)
	return nil
}

func (s *Store) ListEvidence(_ context.Context, eventID string) ([]domain.Evidence, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return append([]domain.Evidence(nil), s.evidence[eventID]...), nil
}

func (s *Store) Ping(context.Context) error {
	return nil
}

// CheckReadiness always succeeds.
func (s *Store) CheckReadiness(ctx context.Context) error {
	return s.Ping(ctx)
}

// detailLocked joins an alert with its event. Callers hold s.mu.
func (s *Store) detailLocked(a domain.Alert) domain.AlertDetail {
	detail := domain.AlertDetail{Alert: copyAlert(a)}
	if row, ok := s.events[a.EventID]; ok {
		e := copyEvent(row.event)
		detail.Event = &e
	}
	return detail
}

// newer orders by creation time descending, breaking ties by insertion order.
func newer(a, b time.Time, seqA, seqB uint64) bool {
	if !a.Equal(b) {
		return a.After(b)
	}
	return seqA > seqB
}

func copyEvent(e domain.Event) domain.Event {
	e.Properties = maps.Clone(e.Properties)
	if e.Properties == nil {
		e.Properties = map[string]any{}
	}
	return e
}

func copyAlert(a domain.Alert) domain.Alert {
	p := a.SuggestedActions
	p.Immediate = append([]string(nil), p.Immediate...)
	p.MediumTerm = append([]string(nil), p.MediumTerm...)
	p.Resources = append([]domain.Resource(nil), p.Resources...)
	a.SuggestedActions = p
	return a
}
