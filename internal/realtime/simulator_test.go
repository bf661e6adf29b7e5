package realtime

import (
	"context"
	"io"
	"log/slog"
	"math/rand/v2"
	"strings"
	"sync"
	"testing"
	"time"

	"github.com/Shubhupadhyay23/RAKSHAK-AI/internal/domain"
	"github.com/jonboulle/clockwork"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func testSimulator(fc clockwork.Clock) *Simulator {
	return NewSimulator(SimulatorOptions{
		Clock:    fc,
		Interval: 8 * time.Second,
		Rand:     rand.New(rand.NewPCG(1, 2)),
		Logger:   slog.New(slog.NewTextHandler(io.Discard, nil)),
	})
}

func TestSimulator_NextWithinPool(t *testing.T) {
	sim := testSimulator(clockwork.NewFakeClock())

	names := make(map[string]simLocation, len(simLocations))
	for _, l := range simLocations {
		names[l.name] = l
	}

	for range 200 {
		e := sim.Next()

		require.NoError(t, e.Validate())
		assert.True(t, strings.HasPrefix(e.ID, "evt_sim_"))
		assert.Equal(t, SourceSimulator, e.Source)
		assert.GreaterOrEqual(t, e.Confidence, 0.60)
		assert.LessOrEqual(t, e.Confidence, 0.95)

		loc, ok := names[e.Location]
		require.True(t, ok, e.Location)
		assert.InDelta(t, loc.lat, e.Latitude, 0.25)
		assert.InDelta(t, loc.lon, e.Longitude, 0.25)

		assert.Contains(t, simDescriptions[e.EventType], e.Properties["description"])
		assert.Equal(t, true, e.Properties["simulator"])
		assert.Equal(t, true, e.Properties["demo_mode"])
	}
}

func TestSimulator_EmitsImmediatelyThenPerInterval(t *testing.T) {
	fc := clockwork.NewFakeClock()
	sim := testSimulator(fc)

	var mu sync.Mutex
	var got []domain.Event
	sim.Start(func(e domain.Event) {
		mu.Lock()
		got = append(got, e)
		mu.Unlock()
	})
	defer sim.Stop()
	emitted := func() int {
		mu.Lock()
		defer mu.Unlock()
		return len(got)
	}

	require.Eventually(t, func() bool { return emitted() == 1 }, waitFor, time.Millisecond)

	ctx, cancel := context.WithTimeout(context.Background(), waitFor)
	defer cancel()
	require.NoError(t, fc.BlockUntilContext(ctx, 1))

	fc.Advance(8 * time.Second)
	require.Eventually(t, func() bool { return emitted() == 2 }, waitFor, time.Millisecond)
	fc.Advance(8 * time.Second)
	require.Eventually(t, func() bool { return emitted() == 3 }, waitFor, time.Millisecond)
	assert.Equal(t, 3, sim.Count())
}

func TestSimulator_StopHaltsTicks(t *testing.T) {
	fc := clockwork.NewFakeClock()
	sim := testSimulator(fc)

	var mu sync.Mutex
	n := 0
	sim.Start(func(domain.Event) {
		mu.Lock()
		n++
		mu.Unlock()
	})
	require.Eventually(t, func() bool { mu.Lock(); defer mu.Unlock(); return n == 1 }, waitFor, time.Millisecond)

	sim.Stop()
	sim.Stop()
	assert.False(t, sim.Running())

	fc.Advance(time.Minute)
	time.Sleep(10 * time.Millisecond)
	mu.Lock()
	defer mu.Unlock()
	assert.Equal(t, 1, n)
}

func TestSimulator_StartWhileRunningIsNoop(t *testing.T) {
	fc := clockwork.NewFakeClock()
	sim := testSimulator(fc)

	var mu sync.Mutex
	n := 0
	emit := func(domain.Event) {
		mu.Lock()
		n++
		mu.Unlock()
	}
	sim.Start(emit)
	sim.Start(emit)
	defer sim.Stop()

	require.Eventually(t, func() bool { mu.Lock(); defer mu.Unlock(); return n == 1 }, waitFor, time.Millisecond)
	time.Sleep(10 * time.Millisecond)
	mu.Lock()
	defer mu.Unlock()
	assert.Equal(t, 1, n, "second Start must not spawn another emitter")
}
