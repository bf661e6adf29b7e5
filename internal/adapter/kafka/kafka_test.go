package kafka

import (
	"context"
	"encoding/json"
	"errors"
	"io"
	"log/slog"
	"testing"
	"time"

	"github.com/Shubhupadhyay23/RAKSHAK-AI/internal/domain"
	"github.com/jonboulle/clockwork"
	kafkago "github.com/segmentio/kafka-go"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type fakeWriter struct {
	msgs   []kafkago.Message
	err    error
	closed bool
}

func (f *fakeWriter) WriteMessages(_ context.Context, msgs ...kafkago.Message) error {
	if f.err != nil {
		return f.err
	}
	f.msgs = append(f.msgs, msgs...)
	return nil
}

func (f *fakeWriter) Close() error {
	f.closed = true
	return nil
}

func testWriter(fw *fakeWriter) *Writer {
	return &Writer{
		writer:      fw,
		eventsTopic: "disaster-events",
		alertsTopic: "disaster-alerts",
		logger:      slog.New(slog.NewTextHandler(io.Discard, nil)),
	}
}

func fixedClock(t *testing.T) {
	t.Helper()
	domain.SetClock(clockwork.NewFakeClockAt(time.Date(2026, 4, 12, 6, 30, 0, 0, time.UTC)))
	t.Cleanup(func() { domain.SetClock(clockwork.NewRealClock()) })
}

func headers(msg kafkago.Message) map[string]string {
	out := make(map[string]string, len(msg.Headers))
	for _, h := range msg.Headers {
		out[h.Key] = string(h.Value)
	}
	return out
}

func TestEventMessage(t *testing.T) {
	fixedClock(t)
	event := domain.Event{
		ID:         "evt_firms_0011223344556677",
		Source:     "firms",
		EventType:  domain.EventTypeFire,
		Confidence: 0.9,
		Location:   "Uttarakhand",
		Latitude:   30.45,
		Longitude:  78.15,
		Properties: map[string]any{"frp": 12.5},
	}

	msg, err := eventMessage("disaster-events", event)
	require.NoError(t, err)

	assert.Equal(t, "disaster-events", msg.Topic)
	assert.Equal(t, []byte(event.ID), msg.Key)
	assert.Equal(t, map[string]string{
		"event_type":   "fire",
		"source":       "firms",
		"published_at": "2026-04-12T06:30:00Z",
	}, headers(msg))

	var decoded domain.Event
	require.NoError(t, json.Unmarshal(msg.Value, &decoded))
	assert.Equal(t, event.ID, decoded.ID)
	assert.Equal(t, 12.5, decoded.Properties["frp"])
}

func TestAlertMessage_KeyedByEvent(t *testing.T) {
	fixedClock(t)
	alert := domain.Alert{
		ID:       "alrt_evt_1",
		EventID:  "evt_1",
		Severity: domain.SeverityCritical,
		Status:   domain.StatusOpen,
	}

	msg, err := alertMessage("disaster-alerts", alert)
	require.NoError(t, err)

	assert.Equal(t, []byte("evt_1"), msg.Key)
	assert.Equal(t, "critical", headers(msg)["severity"])
	assert.Equal(t, "open", headers(msg)["status"])
}

func TestWriter_PublishEvents(t *testing.T) {
	fw := &fakeWriter{}
	w := testWriter(fw)

	err := w.PublishEvents(context.Background(), []domain.Event{
		{ID: "evt_a", EventType: domain.EventTypeFire},
		{ID: "evt_b", EventType: domain.EventTypeFlood},
	})
	require.NoError(t, err)

	require.Len(t, fw.msgs, 2)
	assert.Equal(t, "disaster-events", fw.msgs[0].Topic)
	assert.Equal(t, []byte("evt_b"), fw.msgs[1].Key)
}

func TestWriter_PublishAlerts(t *testing.T) {
	fw := &fakeWriter{}
	w := testWriter(fw)

	require.NoError(t, w.PublishAlerts(context.Background(), []domain.Alert{{ID: "alrt_evt_a", EventID: "evt_a"}}))

	require.Len(t, fw.msgs, 1)
	assert.Equal(t, "disaster-alerts", fw.msgs[0].Topic)
}

func TestWriter_EmptyBatchIsNoop(t *testing.T) {
	fw := &fakeWriter{err: errors.New("should not be called")}
	w := testWriter(fw)

	assert.NoError(t, w.PublishEvents(context.Background(), nil))
	assert.NoError(t, w.PublishAlerts(context.Background(), nil))
}

func TestWriter_WriteError(t *testing.T) {
	fw := &fakeWriter{err: errors.New("leader not available")}
	w := testWriter(fw)

	err := w.PublishEvents(context.Background(), []domain.Event{{ID: "evt_a"}})
	require.Error(t, err)
	assert.Contains(t, err.Error(), "disaster-events")
	assert.Contains(t, err.Error(), "leader not available")
}

func TestWriter_Close(t *testing.T) {
	fw := &fakeWriter{}
	require.NoError(t, testWriter(fw).Close())
	assert.True(t, fw.closed)
}
