package tracker

import (
	"context"
	"errors"
	"log"
	"sync"
	"sync/atomic"
	"time"

	"github.com/bwise1/whereintheworld/internal/location"
	"github.com/bwise1/whereintheworld/internal/model"
)

const (
	DefaultWifiInterval = 60 * time.Second
	DefaultDebounce     = 20 * time.Second
	defaultEventBuffer  = 16
)

var ErrNotRunning = errors.New("tracker is not running")

// WifiSource reports the current network name, if any.
type WifiSource interface {
	CurrentNetworkIdentifier(ctx context.Context) (string, bool)
}

// CoordinateSource delivers position fixes between Start and Stop.
type CoordinateSource interface {
	Start()
	Stop()
	Coordinates() <-chan model.Coordinate
}

type Resolver interface {
	Resolve(ctx context.Context, coord model.Coordinate, known []model.KnownLocation) (model.LocationDecision, error)
}

type KnownLocationSource interface {
	GetKnownLocations(ctx context.Context) ([]model.KnownLocation, error)
}

type Options struct {
	WifiInterval time.Duration
	Debounce     time.Duration
	EventBuffer  int
	Now          func() time.Time
}

// Snapshot is a read-only view of the loop state.
type Snapshot struct {
	State    State
	Active   bool
	InFlight bool
}

type result struct {
	decision model.LocationDecision
	err      error
}

type probe struct {
	ssid  string
	known []model.KnownLocation
}

// Tracker owns the location state. Once Run has started, all state
// transitions happen on its goroutine and other goroutines talk to it over
// channels.
type Tracker struct {
	wifi     WifiSource
	coords   CoordinateSource
	resolver Resolver
	known    KnownLocationSource
	opts     Options

	events  chan Event
	toggles chan bool
	checks  chan chan struct{}
	results chan result
	probes  chan probe
	done    chan struct{}
	running atomic.Bool

	// startMu orders toggles made before Run against Run taking over enabled.
	startMu sync.Mutex

	// loop-owned
	state       State
	enabled     bool
	inFlight    bool
	lastAttempt time.Time
	matchedID   int
	probing     bool
	waiters     []chan struct{}
	pending     []chan struct{}

	mu   sync.RWMutex
	snap Snapshot
}

func New(wifi WifiSource, coords CoordinateSource, resolver Resolver, known KnownLocationSource, opts Options) *Tracker {
	if opts.WifiInterval <= 0 {
		opts.WifiInterval = DefaultWifiInterval
	}
	if opts.Debounce <= 0 {
		opts.Debounce = DefaultDebounce
	}
	if opts.EventBuffer <= 0 {
		opts.EventBuffer = defaultEventBuffer
	}
	if opts.Now == nil {
		opts.Now = time.Now
	}

	return &Tracker{
		wifi:     wifi,
		coords:   coords,
		resolver: resolver,
		known:    known,
		opts:     opts,
		events:   make(chan Event, opts.EventBuffer),
		toggles:  make(chan bool),
		checks:   make(chan chan struct{}),
		// at most one resolution and one probe are in flight, so neither send blocks
		results: make(chan result, 1),
		probes:  make(chan probe, 1),
		done:    make(chan struct{}),
		enabled: true,
		snap:    Snapshot{State: Idle, Active: true},
	}
}

// Events is the subscriber channel.
func (t *Tracker) Events() <-chan Event {
	return t.events
}

func (t *Tracker) Snapshot() Snapshot {
	t.mu.RLock()
	defer t.mu.RUnlock()
	return t.snap
}

// Run drives the tracker until ctx is cancelled. It checks Wi-Fi once
// immediately and then on every WifiInterval tick. A tracking choice made
// before Run is kept.
func (t *Tracker) Run(ctx context.Context) {
	t.startMu.Lock()
	t.running.Store(true)
	t.startMu.Unlock()
	defer func() {
		t.startMu.Lock()
		t.running.Store(false)
		close(t.done)
		t.startMu.Unlock()
	}()

	ticker := time.NewTicker(t.opts.WifiInterval)
	defer ticker.Stop()

	log.Printf("[Tracker] started, wifi interval %s, debounce %s, tracking %t", t.opts.WifiInterval, t.opts.Debounce, t.enabled)
	t.startProbe(ctx)

	coords := t.coords.Coordinates()
	for {
		select {
		case <-ctx.Done():
			t.coords.Stop()
			log.Println("[Tracker] stopped")
			return

		case <-ticker.C:
			t.requestProbe(ctx, nil)

		case waiter := <-t.checks:
			t.requestProbe(ctx, waiter)

		case p := <-t.probes:
			t.applyProbe(ctx, p)

		case active := <-t.toggles:
			t.setEnabled(active)

		case coord, ok := <-coords:
			if !ok {
				coords = nil
				continue
			}
			t.handleCoordinate(ctx, coord)

		case res := <-t.results:
			t.handleResult(res)
		}
	}
}

// SetTracking pauses or resumes coordinate-based tracking. Before Run starts
// the choice is stored and applied when the loop comes up.
func (t *Tracker) SetTracking(ctx context.Context, active bool) error {
	t.startMu.Lock()
	select {
	case <-t.done:
		t.startMu.Unlock()
		return ErrNotRunning
	default:
	}
	if !t.running.Load() {
		t.setEnabled(active)
		t.startMu.Unlock()
		return nil
	}
	t.startMu.Unlock()

	select {
	case t.toggles <- active:
		return nil
	case <-t.done:
		return ErrNotRunning
	case <-ctx.Done():
		return ctx.Err()
	}
}

// CheckNow runs a Wi-Fi check outside the regular interval and returns once
// the loop has applied its result.
func (t *Tracker) CheckNow(ctx context.Context) error {
	if !t.running.Load() {
		return ErrNotRunning
	}
	applied := make(chan struct{})
	select {
	case t.checks <- applied:
	case <-t.done:
		return ErrNotRunning
	case <-ctx.Done():
		return ctx.Err()
	}

	select {
	case <-applied:
		return nil
	case <-t.done:
		return ErrNotRunning
	case <-ctx.Done():
		return ctx.Err()
	}
}

func (t *Tracker) knownLocations(ctx context.Context) []model.KnownLocation {
	known, err := t.known.GetKnownLocations(ctx)
	if err != nil {
		log.Printf("[Tracker] error loading known locations: %v", err)
		return nil
	}
	return known
}

// requestProbe starts a Wi-Fi probe, or queues one behind the probe already
// running. waiter, when set, is closed once the queued probe is applied.
func (t *Tracker) requestProbe(ctx context.Context, waiter chan struct{}) {
	if t.probing {
		if waiter != nil {
			t.pending = append(t.pending, waiter)
		}
		return
	}
	if waiter != nil {
		t.waiters = append(t.waiters, waiter)
	}
	t.startProbe(ctx)
}

// startProbe reads the SSID and known locations off the loop; the network
// command may take seconds.
func (t *Tracker) startProbe(ctx context.Context) {
	t.probing = true
	go func() {
		ssid, _ := t.wifi.CurrentNetworkIdentifier(ctx)
		t.probes <- probe{ssid: ssid, known: t.knownLocations(ctx)}
	}()
}

func (t *Tracker) applyProbe(ctx context.Context, p probe) {
	t.probing = false
	t.checkWifi(p.ssid, p.known)

	for _, w := range t.waiters {
		close(w)
	}
	t.waiters = nil
	if len(t.pending) > 0 {
		t.waiters, t.pending = t.pending, nil
		t.startProbe(ctx)
	}
}

func (t *Tracker) checkWifi(ssid string, known []model.KnownLocation) {
	loc, matched := location.MatchSSID(ssid, known)

	switch {
	case matched && (t.state != WifiKnown || loc.ID != t.matchedID):
		log.Printf("[Tracker] known network %q matches %s", ssid, loc.Name)
		if t.state == WifiUnknown && t.enabled {
			t.coords.Stop()
		}
		t.state = WifiKnown
		t.matchedID = loc.ID
		t.publish()
		t.emitKnown(loc)

	case !matched && t.state != WifiUnknown:
		log.Println("[Tracker] no known network, using coordinates")
		t.state = WifiUnknown
		t.matchedID = 0
		if t.enabled {
			t.coords.Start()
		}
		t.publish()
	}
}

func (t *Tracker) emitKnown(loc model.KnownLocation) {
	decision := model.LocationDecision{Place: loc.Name, LocationType: loc.Type}
	label, emoji := location.Format(decision)
	t.emit(locationChanged(label, nil))
	t.emit(desiredStatus(loc.Name, emoji))
}

func (t *Tracker) setEnabled(active bool) {
	if t.enabled == active {
		return
	}
	t.enabled = active
	if t.state == WifiUnknown {
		if active {
			t.coords.Start()
		} else {
			t.coords.Stop()
		}
	}
	if active {
		log.Println("[Tracker] resumed location tracking")
	} else {
		log.Println("[Tracker] paused location tracking")
	}
	t.publish()
	t.emit(trackingToggled(active))
}

// handleCoordinate starts a resolution when tracking is enabled, nothing is
// in flight and the debounce interval has passed since the last attempt.
func (t *Tracker) handleCoordinate(ctx context.Context, coord model.Coordinate) {
	if t.state != WifiUnknown || !t.enabled || t.inFlight {
		return
	}
	now := t.opts.Now()
	if !t.lastAttempt.IsZero() && now.Sub(t.lastAttempt) < t.opts.Debounce {
		return
	}

	t.lastAttempt = now
	t.inFlight = true
	t.publish()

	known := t.knownLocations(ctx)
	go func() {
		decision, err := t.resolver.Resolve(ctx, coord, known)
		t.results <- result{decision: decision, err: err}
	}()
}

func (t *Tracker) handleResult(res result) {
	t.inFlight = false
	t.publish()

	if res.err != nil {
		msg := "Error"
		var rerr *model.ResolutionError
		if errors.As(res.err, &rerr) {
			msg = rerr.DisplayMessage()
		}
		log.Printf("[Tracker] resolution failed: %v", res.err)
		t.emit(locationChanged(msg, res.err))
		return
	}

	label, emoji := location.Format(res.decision)
	t.emit(locationChanged(label, nil))

	// A result that lands after a known network took over only updates the display.
	if t.state != WifiUnknown {
		log.Printf("[Tracker] stale resolution %q, not syncing status", label)
		return
	}
	t.emit(desiredStatus(res.decision.StatusText(), emoji))
}

func (t *Tracker) emit(ev Event) {
	select {
	case t.events <- ev:
	default:
		log.Printf("[Tracker] event channel full, dropping %s", ev.Kind)
	}
}

func (t *Tracker) publish() {
	t.mu.Lock()
	t.snap = Snapshot{State: t.state, Active: t.enabled, InFlight: t.inFlight}
	t.mu.Unlock()
}
