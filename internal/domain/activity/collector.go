package activity

import (
	"sync"
	"time"

	"github.com/studytrace/backend/internal/shared/clock"
	"github.com/studytrace/backend/internal/shared/types"
)

// TabAwaySink receives tab-away intervals that met the minimum duration
// threshold, for recording as distraction events
type TabAwaySink interface {
	TabAway(startedAt time.Time, duration time.Duration)
}

// Config holds the collector's thresholds
type Config struct {
	// MinTabAway is the minimum hidden interval that counts as a distraction
	MinTabAway time.Duration
	// InactivityThreshold is how long without activity opens an inactivity period
	InactivityThreshold time.Duration
	// SampleInterval is the cadence of the inactivity sampler
	SampleInterval time.Duration
}

// DefaultConfig returns the standard thresholds
func DefaultConfig() Config {
	return Config{
		MinTabAway:          10 * time.Second,
		InactivityThreshold: 30 * time.Second,
		SampleInterval:      5 * time.Second,
	}
}

// Collector accumulates raw activity counters for one session
type Collector struct {
	cfg   Config
	clock clock.Clock
	sink  TabAwaySink

	mu             sync.Mutex
	active         bool
	counters       types.ActivityCounters
	hiddenAt       *time.Time
	lastActivityAt time.Time
	inactivityOpen bool

	stopSampler chan struct{}
	samplerDone chan struct{}
}

// NewCollector creates a collector for one session
func NewCollector(cfg Config, clk clock.Clock, sink TabAwaySink) *Collector {
	if clk == nil {
		clk = clock.System{}
	}
	return &Collector{cfg: cfg, clock: clk, sink: sink}
}

// Start resets all counters and begins the inactivity sampler
func (c *Collector) Start() {
	c.mu.Lock()
	if c.active {
		c.mu.Unlock()
		return
	}
	c.active = true
	c.counters = types.ActivityCounters{}
	c.hiddenAt = nil
	c.inactivityOpen = false
	c.lastActivityAt = c.clock.Now()
	c.stopSampler = make(chan struct{})
	c.samplerDone = make(chan struct{})
	stop, done := c.stopSampler, c.samplerDone
	c.mu.Unlock()

	go c.runSampler(stop, done)
}

// Stop tears the sampler down synchronously; after Stop returns no
// further counter mutation can happen
func (c *Collector) Stop() {
	c.mu.Lock()
	if !c.active {
		c.mu.Unlock()
		return
	}
	c.active = false
	stop, done := c.stopSampler, c.samplerDone
	c.stopSampler, c.samplerDone = nil, nil
	c.mu.Unlock()

	close(stop)
	<-done
}

// Snapshot returns a copy of the current counters. Repeated calls
// without new signals return identical values.
func (c *Collector) Snapshot() types.ActivityCounters {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.counters
}

// Handle dispatches one validated interaction signal. The sink is
// invoked after the collector lock is released: the sink may take
// locks of its own.
func (c *Collector) Handle(sig types.Signal) error {
	if err := sig.Validate(); err != nil {
		return err
	}

	c.mu.Lock()

	if !c.active {
		c.mu.Unlock()
		return nil
	}

	var (
		tabAwayAt  time.Time
		tabAwayDur time.Duration
		tabAway    bool
	)

	switch sig.Type {
	case types.SignalVisibility:
		if sig.Hidden {
			c.handleHidden()
		} else {
			tabAwayAt, tabAwayDur, tabAway = c.handleVisible()
		}
	case types.SignalKeyPress:
		c.counters.Keystrokes++
		c.touch()
	case types.SignalPointerMove:
		c.counters.PointerMoves++
		c.touch()
	case types.SignalScroll:
		c.counters.ScrollEvents++
		c.touch()
	case types.SignalNavigation:
		// Navigation is the routing layer's concern; it reaches the
		// distraction log directly, but it still counts as activity
		c.touch()
	}

	c.mu.Unlock()

	if tabAway && c.sink != nil {
		c.sink.TabAway(tabAwayAt, tabAwayDur)
	}
	return nil
}

func (c *Collector) handleHidden() {
	c.counters.TabSwitches++
	now := c.clock.Now()
	if c.hiddenAt == nil {
		c.hiddenAt = &now
	}
}

// handleVisible closes an open hidden interval. It reports the
// interval for the sink when it met the minimum tab-away duration.
func (c *Collector) handleVisible() (time.Time, time.Duration, bool) {
	if c.hiddenAt == nil {
		return time.Time{}, 0, false
	}
	hiddenAt := *c.hiddenAt
	c.hiddenAt = nil
	c.touch()

	duration := c.clock.Now().Sub(hiddenAt)
	if duration >= c.cfg.MinTabAway {
		return hiddenAt, duration, true
	}
	return time.Time{}, 0, false
}

// touch refreshes the activity timestamp and closes any open
// inactivity period
func (c *Collector) touch() {
	c.lastActivityAt = c.clock.Now()
	c.inactivityOpen = false
}

// Sample runs one inactivity check. Called by the sampler at a fixed
// cadence; exported so tests can drive it directly.
func (c *Collector) Sample() {
	c.mu.Lock()
	defer c.mu.Unlock()

	if !c.active {
		return
	}

	idle := c.clock.Now().Sub(c.lastActivityAt)
	if idle > c.cfg.InactivityThreshold && !c.inactivityOpen {
		c.inactivityOpen = true
		c.counters.InactivityPeriods++
	}
}

func (c *Collector) runSampler(stop <-chan struct{}, done chan<- struct{}) {
	defer close(done)

	ticker := time.NewTicker(c.cfg.SampleInterval)
	defer ticker.Stop()

	for {
		select {
		case <-ticker.C:
			c.Sample()
		case <-stop:
			return
		}
	}
}
