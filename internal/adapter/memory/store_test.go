package memory

import (
	"context"
	"testing"
	"time"

	"github.com/Shubhupadhyay23/RAKSHAK-AI/internal/adapter/storetest"
	"github.com/Shubhupadhyay23/RAKSHAK-AI/internal/domain"
	"github.com/jonboulle/clockwork"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestStore(t *testing.T) {
	storetest.Run(t, func(*testing.T) domain.Store { return New() })
}

func TestStore_ReturnsCopies(t *testing.T) {
	s := New()
	ctx := context.Background()
	e := storetest.Event("evt_a", domain.EventTypeFire, 0.9, 0)
	_, err := s.InsertEvents(ctx, []domain.Event{e})
	require.NoError(t, err)

	e.Properties["frp"] = 99.0
	got, err := s.GetEvent(ctx, "evt_a")
	require.NoError(t, err)
	assert.Equal(t, 4.5, got.Properties["frp"])

	got.Properties["frp"] = 100.0
	again, err := s.GetEvent(ctx, "evt_a")
	require.NoError(t, err)
	assert.Equal(t, 4.5, again.Properties["frp"])
}

func TestStore_EqualTimestampsKeepInsertionOrder(t *testing.T) {
	s := New()
	ctx := context.Background()
	_, err := s.InsertEvents(ctx, []domain.Event{
		storetest.Event("evt_first", domain.EventTypeFire, 0.9, 0),
		storetest.Event("evt_second", domain.EventTypeFire, 0.9, 0),
	})
	require.NoError(t, err)

	list, err := s.ListEvents(ctx, domain.EventFilter{})
	require.NoError(t, err)
	require.Len(t, list, 2)
	assert.Equal(t, "evt_second", list[0].ID)
}

func TestNewDemo(t *testing.T) {
	now := time.Date(2026, 4, 12, 6, 0, 0, 0, time.UTC)
	domain.SetClock(clockwork.NewFakeClockAt(now))
	t.Cleanup(func() { domain.SetClock(clockwork.NewRealClock()) })

	s := NewDemo()
	ctx := context.Background()

	events, err := s.ListEvents(ctx, domain.EventFilter{})
	require.NoError(t, err)
	require.Len(t, events, 4)
	assert.Equal(t, "evt_demo_001", events[0].ID)
	assert.Equal(t, now.Add(-2*time.Minute), events[0].CreatedAt)
	assert.Equal(t, "evt_demo_004", events[3].ID)
	for _, e := range events {
		assert.NoError(t, e.Validate(), e.ID)
	}

	alert, err := s.GetAlert(ctx, "alrt_demo_001")
	require.NoError(t, err)
	assert.Equal(t, domain.SeverityCritical, alert.Severity)
	assert.Equal(t, domain.StatusOpen, alert.Status)
	assert.Len(t, alert.SuggestedActions.Immediate, 4)
	assert.Contains(t, alert.SuggestedActions.LegalNotice, "Disaster Management Act 2005")
	require.NotNil(t, alert.Event)
	assert.Equal(t, "Uttarakhand, Northern Ridge", alert.Event.Location)
	require.Len(t, alert.Evidences, 1)
	assert.Equal(t, domain.EvidenceSatellite, alert.Evidences[0].Type)

	critical, err := s.ListEvents(ctx, domain.EventFilter{Severity: domain.SeverityCritical})
	require.NoError(t, err)
	require.Len(t, critical, 1)
	assert.Equal(t, "evt_demo_001", critical[0].ID)
}
