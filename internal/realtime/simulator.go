package realtime

import (
	"log/slog"
	"math"
	"math/rand/v2"
	"sync"
	"time"

	"github.com/Shubhupadhyay23/RAKSHAK-AI/internal/domain"
	"github.com/google/uuid"
	"github.com/jonboulle/clockwork"
)

// DefaultDemoInterval is the simulator tick when none is configured.
const DefaultDemoInterval = 8 * time.Second

// SourceSimulator tags synthetic events.
const SourceSimulator = "simulator"

type simLocation struct {
	name     string
	lat, lon float64
}

var simLocations = []simLocation{
	{"Uttarakhand Forest", 30.45, 78.15},
	{"Madhya Pradesh", 22.9, 78.65},
	{"Delhi NCR", 28.5, 77.1},
	{"Bihar Region", 26.15, 87.5},
	{"Rajasthan Desert", 25.2, 71.7},
	{"Gujarat Coast", 22.3, 71.9},
	{"Maharashtra Border", 19.8, 75.5},
	{"Karnataka Hills", 14.8, 76.1},
	{"Tamil Nadu Valley", 11.5, 79.5},
	{"Kerala Backwaters", 10.8, 76.5},
}

var simDescriptions = map[domain.EventType][]string{
	domain.EventTypeFire: {
		"Active fire detected near forest area",
		"Thermal anomaly detected",
		"Wildfire spreading rapidly",
		"Fire detected in remote area",
	},
	domain.EventTypeDeforestation: {
		"Tree cover loss detected",
		"Illegal logging suspected",
		"Land clearing detected",
		"Deforestation in progress",
	},
	domain.EventTypePollution: {
		"Air quality spike detected",
		"Pollution plume detected",
		"AQI level exceeded",
		"Industrial pollution detected",
	},
	domain.EventTypeFlood: {
		"Flood risk predicted",
		"River level rising",
		"Heavy rainfall detected",
		"Flash flood warning",
	},
}

// SimulatorOptions configures a Simulator. Zero values pick defaults.
type SimulatorOptions struct {
	Clock    clockwork.Clock
	Interval time.Duration
	Rand     *rand.Rand
	Logger   *slog.Logger
}

// Simulator emits one synthetic event on Start and one per interval after.
type Simulator struct {
	clock    clockwork.Clock
	interval time.Duration
	logger   *slog.Logger

	rngMu sync.Mutex
	rng   *rand.Rand

	mu      sync.Mutex
	running bool
	done    chan struct{}
	count   int
}

func NewSimulator(opts SimulatorOptions) *Simulator {
	if opts.Clock == nil {
		opts.Clock = clockwork.NewRealClock()
	}
	if opts.Interval <= 0 {
		opts.Interval = DefaultDemoInterval
	}
	if opts.Rand == nil {
		opts.Rand = rand.New(rand.NewPCG(rand.Uint64(), rand.Uint64()))
	}
	if opts.Logger == nil {
		opts.Logger = slog.Default()
	}
	return &Simulator{
		clock:    opts.Clock,
		interval: opts.Interval,
		rng:      opts.Rand,
		logger:   opts.Logger,
	}
}

// Start begins emitting on a background goroutine and returns immediately.
// It is a no-op while already running.
func (s *Simulator) Start(emit func(domain.Event)) {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.running {
		return
	}
	s.running = true
	s.done = make(chan struct{})
	s.logger.Info("event simulator started", "interval", s.interval)
	go s.run(s.done, emit)
}

// Stop halts emission. It does not wait for an in-flight emit to return.
func (s *Simulator) Stop() {
	s.mu.Lock()
	defer s.mu.Unlock()
	if !s.running {
		return
	}
	s.running = false
	close(s.done)
	s.logger.Info("event simulator stopped", "emitted", s.count)
}

func (s *Simulator) Running() bool {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.running
}

// Count returns the number of events emitted since construction.
func (s *Simulator) Count() int {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.count
}

func (s *Simulator) run(done <-chan struct{}, emit func(domain.Event)) {
	ticker := s.clock.NewTicker(s.interval)
	defer ticker.Stop()

	s.tick(done, emit)
	for {
		select {
		case <-done:
			return
		case <-ticker.Chan():
			s.tick(done, emit)
		}
	}
}

func (s *Simulator) tick(done <-chan struct{}, emit func(domain.Event)) {
	select {
	case <-done:
		return
	default:
	}
	e := s.Next()
	s.mu.Lock()
	s.count++
	s.mu.Unlock()
	s.logger.Debug("simulated event",
		"event_type", string(e.EventType),
		"location", e.Location,
		"confidence", e.Confidence,
	)
	emit(e)
}

// Next draws one synthetic event from the location and type pool.
func (s *Simulator) Next() domain.Event {
	s.rngMu.Lock()
	loc := simLocations[s.rng.IntN(len(simLocations))]
	t := domain.EventTypes[s.rng.IntN(len(domain.EventTypes))]
	descs := simDescriptions[t]
	desc := descs[s.rng.IntN(len(descs))]
	confidence := math.Round((0.6+s.rng.Float64()*0.35)*100) / 100
	lat := loc.lat + (s.rng.Float64()-0.5)*0.5
	lon := loc.lon + (s.rng.Float64()-0.5)*0.5
	s.rngMu.Unlock()

	return domain.Event{
		ID:         "evt_sim_" + uuid.NewString(),
		Source:     SourceSimulator,
		EventType:  t,
		Confidence: confidence,
		Location:   loc.name,
		Latitude:   lat,
		Longitude:  lon,
		Properties: map[string]any{
			"description": desc,
			"simulator":   true,
			"demo_mode":   true,
		},
		CreatedAt: s.clock.Now().UTC(),
	}
}
