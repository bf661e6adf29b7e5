// Package storetest holds behaviour tests shared by every domain.Store
// implementation.
package storetest

import (
	"context"
	"fmt"
	"testing"
	"time"

	"github.com/Shubhupadhyay23/RAKSHAK-AI/internal/domain"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

var base = time.Date(2026, 4, 12, 6, 0, 0, 0, time.UTC)

// Event builds a valid event created at base plus offset minutes.
func Event(id string, t domain.EventType, conf float64, offset int) domain.Event {
	return domain.Event{
		ID:         id,
		Source:     "test",
		EventType:  t,
		Confidence: conf,
		Location:   "Uttarakhand",
		Latitude:   30.45,
		Longitude:  78.15,
		Properties: map[string]any{"frp": 4.5},
		CreatedAt:  base.Add(time.Duration(offset) * time.Minute),
	}
}

// Alert builds an open alert for e with the canonical severity.
func Alert(e domain.Event) domain.Alert {
	return domain.Alert{
		ID:        domain.AlertID(e.ID),
		EventID:   e.ID,
		Severity:  domain.ClassifySeverity(e.EventType, e.Confidence),
		Status:    domain.StatusOpen,
		CreatedAt: e.CreatedAt,
		UpdatedAt: e.CreatedAt,
	}
}

// Run exercises s against the domain.Store contract. newStore must return
// an empty store.
func Run(t *testing.T, newStore func(t *testing.T) domain.Store) {
	t.Run("InsertEventsSkipsExisting", func(t *testing.T) {
		s := newStore(t)
		ctx := context.Background()

		first, err := s.InsertEvents(ctx, []domain.Event{
			Event("evt_a", domain.EventTypeFire, 0.9, 0),
			Event("evt_b", domain.EventTypeFlood, 0.7, 1),
		})
		require.NoError(t, err)
		assert.Len(t, first, 2)

		second, err := s.InsertEvents(ctx, []domain.Event{
			Event("evt_b", domain.EventTypeFlood, 0.7, 1),
			Event("evt_c", domain.EventTypeFire, 0.5, 2),
		})
		require.NoError(t, err)
		require.Len(t, second, 1)
		assert.Equal(t, "evt_c", second[0].ID)
	})

	t.Run("GetEvent", func(t *testing.T) {
		s := newStore(t)
		ctx := context.Background()
		want := Event("evt_a", domain.EventTypeFire, 0.9, 0)
		_, err := s.InsertEvents(ctx, []domain.Event{want})
		require.NoError(t, err)

		got, err := s.GetEvent(ctx, "evt_a")
		require.NoError(t, err)
		assert.Equal(t, want.ID, got.ID)
		assert.Equal(t, want.EventType, got.EventType)
		assert.InDelta(t, want.Confidence, got.Confidence, 1e-9)
		assert.Equal(t, 4.5, got.Properties["frp"])
		assert.True(t, want.CreatedAt.Equal(got.CreatedAt))

		_, err = s.GetEvent(ctx, "missing")
		assert.ErrorIs(t, err, domain.ErrNotFound)
	})

	t.Run("ListEventsNewestFirstWithFilters", func(t *testing.T) {
		s := newStore(t)
		ctx := context.Background()
		fire := Event("evt_fire", domain.EventTypeFire, 0.95, 0)
		flood := Event("evt_flood", domain.EventTypeFlood, 0.85, 5)
		old := Event("evt_old", domain.EventTypeFire, 0.3, -10)
		_, err := s.InsertEvents(ctx, []domain.Event{fire, flood, old})
		require.NoError(t, err)
		require.NoError(t, s.InsertAlerts(ctx, []domain.Alert{Alert(fire), Alert(flood)}))

		all, err := s.ListEvents(ctx, domain.EventFilter{})
		require.NoError(t, err)
		assert.Equal(t, []string{"evt_flood", "evt_fire", "evt_old"}, eventIDs(all))

		fires, err := s.ListEvents(ctx, domain.EventFilter{Type: domain.EventTypeFire})
		require.NoError(t, err)
		assert.Equal(t, []string{"evt_fire", "evt_old"}, eventIDs(fires))

		critical, err := s.ListEvents(ctx, domain.EventFilter{Severity: domain.SeverityCritical})
		require.NoError(t, err)
		assert.Equal(t, []string{"evt_fire"}, eventIDs(critical))

		limited, err := s.ListEvents(ctx, domain.EventFilter{Limit: 1})
		require.NoError(t, err)
		assert.Equal(t, []string{"evt_flood"}, eventIDs(limited))
	})

	t.Run("ListEventsCapsAtMaxLimit", func(t *testing.T) {
		s := newStore(t)
		ctx := context.Background()
		batch := make([]domain.Event, domain.MaxListLimit+5)
		for i := range batch {
			batch[i] = Event(fmt.Sprintf("evt_%03d", i), domain.EventTypeFire, 0.5, i)
		}
		_, err := s.InsertEvents(ctx, batch)
		require.NoError(t, err)

		got, err := s.ListEvents(ctx, domain.EventFilter{Limit: 1000})
		require.NoError(t, err)
		assert.Len(t, got, domain.MaxListLimit)
	})

	t.Run("AlertsJoinEventAndEvidence", func(t *testing.T) {
		s := newStore(t)
		ctx := context.Background()
		e := Event("evt_a", domain.EventTypeFire, 0.95, 0)
		_, err := s.InsertEvents(ctx, []domain.Event{e})
		require.NoError(t, err)
		require.NoError(t, s.InsertAlerts(ctx, []domain.Alert{Alert(e)}))
		require.NoError(t, s.InsertEvidence(ctx, domain.Evidence{
			ID:          "evd_1",
			EventID:     "evt_a",
			StoragePath: "evidence/evt_a/1.png",
			Type:        domain.EvidenceSatellite,
			Title:       "Thermal hotspot",
			AddedAt:     base,
		}))

		detail, err := s.GetAlert(ctx, "alrt_evt_a")
		require.NoError(t, err)
		assert.Equal(t, domain.SeverityCritical, detail.Severity)
		require.NotNil(t, detail.Event)
		assert.Equal(t, "evt_a", detail.Event.ID)
		require.Len(t, detail.Evidences, 1)
		assert.Equal(t, "Thermal hotspot", detail.Evidences[0].Title)

		_, err = s.GetAlert(ctx, "missing")
		assert.ErrorIs(t, err, domain.ErrNotFound)
	})

	t.Run("InsertAlertsSkipsExisting", func(t *testing.T) {
		s := newStore(t)
		ctx := context.Background()
		e := Event("evt_a", domain.EventTypeFire, 0.95, 0)
		_, err := s.InsertEvents(ctx, []domain.Event{e})
		require.NoError(t, err)

		a := Alert(e)
		require.NoError(t, s.InsertAlerts(ctx, []domain.Alert{a}))
		a.Status = domain.StatusResolved
		require.NoError(t, s.InsertAlerts(ctx, []domain.Alert{a}))

		got, err := s.GetAlert(ctx, a.ID)
		require.NoError(t, err)
		assert.Equal(t, domain.StatusOpen, got.Status)
	})

	t.Run("AlertForEvent", func(t *testing.T) {
		s := newStore(t)
		ctx := context.Background()
		e := Event("evt_a", domain.EventTypeFire, 0.95, 0)
		_, err := s.InsertEvents(ctx, []domain.Event{e})
		require.NoError(t, err)

		_, err = s.AlertForEvent(ctx, "evt_a")
		assert.ErrorIs(t, err, domain.ErrNotFound)

		a := Alert(e)
		a.ID = "alrt_custom"
		require.NoError(t, s.InsertAlerts(ctx, []domain.Alert{a}))

		got, err := s.AlertForEvent(ctx, "evt_a")
		require.NoError(t, err)
		assert.Equal(t, "alrt_custom", got.ID)
	})

	t.Run("ListAlertsFilters", func(t *testing.T) {
		s := newStore(t)
		ctx := context.Background()
		e1 := Event("evt_1", domain.EventTypeFire, 0.95, 0)
		e2 := Event("evt_2", domain.EventTypeFire, 0.88, 1)
		_, err := s.InsertEvents(ctx, []domain.Event{e1, e2})
		require.NoError(t, err)
		a2 := Alert(e2)
		a2.Status = domain.StatusAcknowledged
		require.NoError(t, s.InsertAlerts(ctx, []domain.Alert{Alert(e1), a2}))

		all, err := s.ListAlerts(ctx, domain.AlertFilter{})
		require.NoError(t, err)
		require.Len(t, all, 2)
		assert.Equal(t, "alrt_evt_2", all[0].ID)
		require.NotNil(t, all[0].Event)
		assert.Equal(t, "evt_2", all[0].Event.ID)

		high, err := s.ListAlerts(ctx, domain.AlertFilter{Severity: domain.SeverityHigh})
		require.NoError(t, err)
		require.Len(t, high, 1)
		assert.Equal(t, "alrt_evt_2", high[0].ID)

		open, err := s.ListAlerts(ctx, domain.AlertFilter{Status: domain.StatusOpen})
		require.NoError(t, err)
		require.Len(t, open, 1)
		assert.Equal(t, "alrt_evt_1", open[0].ID)
	})

	t.Run("UpdateAlert", func(t *testing.T) {
		s := newStore(t)
		ctx := context.Background()
		e := Event("evt_a", domain.EventTypeFire, 0.95, 0)
		_, err := s.InsertEvents(ctx, []domain.Event{e})
		require.NoError(t, err)
		a := Alert(e)
		require.NoError(t, s.InsertAlerts(ctx, []domain.Alert{a}))

		a.Status = domain.StatusAcknowledged
		a.SuggestedActions = domain.FallbackPlan(domain.EventTypeFire, "Uttarakhand")
		a.GeneratedPDFURL = "https://example.test/plan.pdf"
		a.UpdatedAt = base.Add(time.Hour)
		require.NoError(t, s.UpdateAlert(ctx, a))

		got, err := s.GetAlert(ctx, a.ID)
		require.NoError(t, err)
		assert.Equal(t, domain.StatusAcknowledged, got.Status)
		assert.Equal(t, a.SuggestedActions, got.SuggestedActions)
		assert.Equal(t, "https://example.test/plan.pdf", got.GeneratedPDFURL)
		assert.True(t, a.UpdatedAt.Equal(got.UpdatedAt))

		missing := a
		missing.ID = "alrt_missing"
		assert.ErrorIs(t, s.UpdateAlert(ctx, missing), domain.ErrNotFound)
	})

	t.Run("EvidenceRequiresEvent", func(t *testing.T) {
		s := newStore(t)
		ctx := context.Background()

		err := s.InsertEvidence(ctx, domain.Evidence{ID: "evd_1", EventID: "missing", Type: domain.EvidenceSensor, AddedAt: base})
		assert.ErrorIs(t, err, domain.ErrNotFound)

		list, err := s.ListEvidence(ctx, "missing")
		require.NoError(t, err)
		assert.Empty(t, list)
	})

	t.Run("Ping", func(t *testing.T) {
		assert.NoError(t, newStore(t).Ping(context.Background()))
	})
}

func eventIDs(events []domain.Event) []string {
	ids := make([]string, len(events))
	for i, e := range events {
		ids[i] = e.ID
	}
	return ids
}
