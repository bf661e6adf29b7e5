package realtime

import (
	"encoding/json"
	"errors"
	"log/slog"
	"sync"
	"time"

	"github.com/Shubhupadhyay23/RAKSHAK-AI/internal/domain"
	"github.com/Shubhupadhyay23/RAKSHAK-AI/internal/observability"
	"github.com/jonboulle/clockwork"
)

const (
	defaultRetryBase   = time.Second
	defaultMaxAttempts = 3
)

// ErrNoHandler is returned by New when Options.Handler is nil.
var ErrNoHandler = errors.New("realtime: handler is required")

// Options configures a Controller.
type Options struct {
	Table     Table
	Channel   Channel // nil runs the simulator only
	Simulator *Simulator
	Handler   func(Insert)

	Clock       clockwork.Clock
	RetryBase   time.Duration // delay before retry n is 2^n * RetryBase
	MaxAttempts int           // timeouts tolerated before falling back to demo

	Metrics *observability.Metrics
	Logger  *slog.Logger
}

// Controller subscribes one table to the live channel and falls back to the
// simulator when the channel fails.
//
// Every subscription and mode change bumps a generation counter. Callbacks
// carry the generation they were registered with and are dropped when it is
// stale, so late statuses, inserts, and retries after a mode switch or Stop
// have no effect. mu is never held while calling into the channel or the
// handler.
type Controller struct {
	table       Table
	channel     Channel
	sim         *Simulator
	handler     func(Insert)
	clock       clockwork.Clock
	retryBase   time.Duration
	maxAttempts int
	metrics     *observability.Metrics
	logger      *slog.Logger

	mu       sync.Mutex
	mode     Mode
	attempts int
	gen      uint64
	started  bool
	stopped  bool
	sub      Subscription
	retry    clockwork.Timer

	// deliverMu serializes handler calls so inserts arrive in order.
	deliverMu sync.Mutex
}

// New creates a Controller. The controller does nothing until Start.
func New(opts Options) (*Controller, error) {
	if opts.Handler == nil {
		return nil, ErrNoHandler
	}
	if opts.Table == "" {
		opts.Table = TableEvents
	}
	if opts.Clock == nil {
		opts.Clock = clockwork.NewRealClock()
	}
	if opts.RetryBase <= 0 {
		opts.RetryBase = defaultRetryBase
	}
	if opts.MaxAttempts <= 0 {
		opts.MaxAttempts = defaultMaxAttempts
	}
	if opts.Logger == nil {
		opts.Logger = slog.Default()
	}
	if opts.Metrics == nil {
		opts.Metrics = observability.NewMetricsForTesting()
	}
	if opts.Simulator == nil {
		opts.Simulator = NewSimulator(SimulatorOptions{Clock: opts.Clock, Logger: opts.Logger})
	}
	return &Controller{
		table:       opts.Table,
		channel:     opts.Channel,
		sim:         opts.Simulator,
		handler:     opts.Handler,
		clock:       opts.Clock,
		retryBase:   opts.RetryBase,
		maxAttempts: opts.MaxAttempts,
		metrics:     opts.Metrics,
		logger:      opts.Logger.With("table", string(opts.Table)),
		mode:        ModeIdle,
	}, nil
}

// Start begins delivery. Calling it more than once has no effect.
func (c *Controller) Start() {
	c.mu.Lock()
	if c.started || c.stopped {
		c.mu.Unlock()
		return
	}
	c.started = true
	if c.channel == nil {
		c.logger.Info("no live channel configured, starting demo mode")
		c.enterDemoLocked()
		c.mu.Unlock()
		return
	}
	c.mu.Unlock()

	c.connect()
}

// Stop cancels any pending retry, unsubscribes and stops the simulator. It
// is safe to call repeatedly and before Start.
func (c *Controller) Stop() {
	c.mu.Lock()
	if c.stopped {
		c.mu.Unlock()
		return
	}
	c.stopped = true
	c.gen++
	if c.retry != nil {
		c.retry.Stop()
		c.retry = nil
	}
	sub := c.sub
	c.sub = nil
	c.setModeLocked(ModeStopped)
	c.mu.Unlock()

	c.sim.Stop()
	if sub != nil {
		if err := sub.Unsubscribe(); err != nil {
			c.logger.Warn("unsubscribe failed", "error", err)
		}
	}
	c.logger.Info("realtime controller stopped")
}

// Mode returns the current state.
func (c *Controller) Mode() Mode {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.mode
}

// Attempts returns the number of consecutive timeouts since the last
// successful subscription.
func (c *Controller) Attempts() int {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.attempts
}

func (c *Controller) connect() {
	c.mu.Lock()
	if c.stopped || c.mode == ModeDemo {
		c.mu.Unlock()
		return
	}
	c.gen++
	gen := c.gen
	c.retry = nil
	c.setModeLocked(ModeConnecting)
	c.mu.Unlock()

	sub, err := c.channel.Subscribe(c.table,
		func(data []byte) { c.onInsert(gen, data) },
		func(s Status) { c.onStatus(gen, s) },
	)
	if err != nil {
		c.logger.Warn("live subscribe failed", "error", err)
		c.onStatus(gen, StatusChannelError)
		return
	}

	c.mu.Lock()
	if c.stopped || c.gen != gen {
		// A status delivered during Subscribe already moved us on.
		c.mu.Unlock()
		_ = sub.Unsubscribe()
		return
	}
	c.sub = sub
	c.mu.Unlock()
}

func (c *Controller) onStatus(gen uint64, s Status) {
	c.mu.Lock()
	if c.stopped || gen != c.gen {
		c.mu.Unlock()
		return
	}

	switch s {
	case StatusSubscribed:
		c.attempts = 0
		c.setModeLocked(ModeLiveConnected)
		c.mu.Unlock()
		c.logger.Info("connected to live updates")

	case StatusClosed:
		c.setModeLocked(ModeDisconnected)
		c.mu.Unlock()
		c.logger.Info("disconnected from live updates")

	case StatusChannelError:
		sub := c.detachLocked()
		c.enterDemoLocked()
		c.mu.Unlock()
		c.logger.Warn("channel error, falling back to demo mode")
		unsubscribe(sub)

	case StatusTimedOut:
		sub := c.detachLocked()
		c.attempts++
		attempts := c.attempts
		if attempts < c.maxAttempts {
			delay := (1 << attempts) * c.retryBase
			c.setModeLocked(ModeConnecting)
			c.retry = c.clock.AfterFunc(delay, c.connect)
			c.mu.Unlock()
			c.logger.Warn("live connection timed out, retrying",
				"attempt", attempts,
				"max_attempts", c.maxAttempts,
				"delay", delay,
			)
		} else {
			c.enterDemoLocked()
			c.mu.Unlock()
			c.logger.Warn("max retries exceeded, falling back to demo mode", "attempts", attempts)
		}
		unsubscribe(sub)

	default:
		c.mu.Unlock()
		c.logger.Debug("ignoring unknown channel status", "status", string(s))
	}
}

func (c *Controller) onInsert(gen uint64, data []byte) {
	c.mu.Lock()
	live := !c.stopped && gen == c.gen
	c.mu.Unlock()
	if !live {
		return
	}
	c.deliver(gen, Insert{Table: c.table, Source: ModeLiveConnected, Data: json.RawMessage(data)})
}

// deliver calls the handler unless gen went stale while waiting for the
// previous delivery to finish.
func (c *Controller) deliver(gen uint64, in Insert) {
	c.deliverMu.Lock()
	defer c.deliverMu.Unlock()

	c.mu.Lock()
	live := !c.stopped && gen == c.gen
	c.mu.Unlock()
	if !live {
		return
	}
	c.handler(in)
}

// detachLocked bumps the generation and hands back the current
// subscription for unsubscribing outside the lock.
func (c *Controller) detachLocked() Subscription {
	c.gen++
	sub := c.sub
	c.sub = nil
	return sub
}

func (c *Controller) enterDemoLocked() {
	c.gen++
	gen := c.gen
	c.setModeLocked(ModeDemo)
	c.sim.Start(func(e domain.Event) {
		data, err := c.encodeSimulated(e)
		if err != nil {
			c.logger.Error("encode simulated record", "error", err)
			return
		}
		c.metrics.SimulatedEvents.Inc()
		c.deliver(gen, Insert{Table: c.table, Source: ModeDemo, Data: data})
	})
}

// encodeSimulated shapes a synthetic event like a row of the subscribed
// table. Alerts carry their event, as the alert listing does.
func (c *Controller) encodeSimulated(e domain.Event) (json.RawMessage, error) {
	if c.table != TableAlerts {
		return json.Marshal(e)
	}
	alert := domain.Alert{
		ID:        domain.AlertID(e.ID),
		EventID:   e.ID,
		Severity:  domain.ClassifySeverity(e.EventType, e.Confidence),
		Status:    domain.StatusOpen,
		CreatedAt: e.CreatedAt,
		UpdatedAt: e.CreatedAt,
	}
	return json.Marshal(domain.AlertDetail{Alert: alert, Event: &e})
}

func (c *Controller) setModeLocked(m Mode) {
	if c.mode == m {
		return
	}
	c.mode = m
	c.metrics.RealtimeTransitions.WithLabelValues(string(c.table), string(m)).Inc()
}

func unsubscribe(sub Subscription) {
	if sub != nil {
		_ = sub.Unsubscribe()
	}
}
