package tracker

import (
	"context"
	"sync"
	"testing"
	"time"

	"github.com/bwise1/whereintheworld/internal/model"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type fakeWifi struct {
	mu      sync.Mutex
	ssid    string
	gate    chan struct{}
	blocked int
}

func (f *fakeWifi) set(ssid string) {
	f.mu.Lock()
	f.ssid = ssid
	f.mu.Unlock()
}

// hold makes later lookups wait until gate is closed.
func (f *fakeWifi) hold(gate chan struct{}) {
	f.mu.Lock()
	f.gate = gate
	f.mu.Unlock()
}

func (f *fakeWifi) waiting() bool {
	f.mu.Lock()
	defer f.mu.Unlock()
	return f.blocked > 0
}

func (f *fakeWifi) CurrentNetworkIdentifier(context.Context) (string, bool) {
	f.mu.Lock()
	ssid, gate := f.ssid, f.gate
	if gate != nil {
		f.blocked++
	}
	f.mu.Unlock()

	if gate != nil {
		<-gate
	}
	return ssid, ssid != ""
}

type fakeCoords struct {
	mu     sync.Mutex
	ch     chan model.Coordinate
	active bool
	starts int
	stops  int
}

func newFakeCoords() *fakeCoords {
	return &fakeCoords{ch: make(chan model.Coordinate)}
}

func (f *fakeCoords) Start() {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.active = true
	f.starts++
}

func (f *fakeCoords) Stop() {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.active = false
	f.stops++
}

func (f *fakeCoords) Coordinates() <-chan model.Coordinate {
	return f.ch
}

func (f *fakeCoords) isActive() bool {
	f.mu.Lock()
	defer f.mu.Unlock()
	return f.active
}

type fakeResolver struct {
	calls    chan model.Coordinate
	release  chan struct{}
	decision model.LocationDecision
	err      error
}

func newFakeResolver() *fakeResolver {
	return &fakeResolver{
		calls:    make(chan model.Coordinate, 10),
		decision: model.LocationDecision{Place: "Hamburg", Country: "Germany", CountryCode: "DE", LocationType: "city"},
	}
}

func (f *fakeResolver) Resolve(_ context.Context, coord model.Coordinate, _ []model.KnownLocation) (model.LocationDecision, error) {
	f.calls <- coord
	if f.release != nil {
		<-f.release
	}
	return f.decision, f.err
}

type staticKnown []model.KnownLocation

func (s staticKnown) GetKnownLocations(context.Context) ([]model.KnownLocation, error) {
	return s, nil
}

type fakeClock struct {
	mu  sync.Mutex
	now time.Time
}

func (c *fakeClock) Now() time.Time {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.now
}

func (c *fakeClock) Advance(d time.Duration) {
	c.mu.Lock()
	c.now = c.now.Add(d)
	c.mu.Unlock()
}

var known = staticKnown{
	{ID: 1, Name: "Office", Type: model.LocationTypeOffice, SSID: model.StringPtr("corp-wifi")},
	{ID: 2, Name: "ICE", Type: model.LocationTypeTrain, SSID: model.StringPtr("WIFIonICE")},
}

type harness struct {
	tracker  *Tracker
	wifi     *fakeWifi
	coords   *fakeCoords
	resolver *fakeResolver
	clock    *fakeClock
}

func start(t *testing.T, ssid string, opts Options) *harness {
	t.Helper()
	h := &harness{
		wifi:     &fakeWifi{ssid: ssid},
		coords:   newFakeCoords(),
		resolver: newFakeResolver(),
		clock:    &fakeClock{now: time.Unix(1_700_000_000, 0)},
	}
	opts.WifiInterval = time.Hour
	opts.Now = h.clock.Now
	h.tracker = New(h.wifi, h.coords, h.resolver, known, opts)

	ctx, cancel := context.WithCancel(context.Background())
	t.Cleanup(cancel)
	go h.tracker.Run(ctx)

	require.Eventually(t, func() bool {
		return h.tracker.CheckNow(ctx) == nil
	}, time.Second, 5*time.Millisecond)
	return h
}

func (h *harness) push(t *testing.T, coord model.Coordinate) {
	t.Helper()
	select {
	case h.coords.ch <- coord:
	case <-time.After(time.Second):
		t.Fatal("tracker did not accept coordinate")
	}
}

// sync returns once the loop has finished handling everything sent before it.
func (h *harness) sync(t *testing.T) {
	t.Helper()
	require.NoError(t, h.tracker.CheckNow(context.Background()))
}

func nextEvent(t *testing.T, tr *Tracker) Event {
	t.Helper()
	select {
	case ev := <-tr.Events():
		return ev
	case <-time.After(time.Second):
		t.Fatal("no event")
		return Event{}
	}
}

func assertNoEvent(t *testing.T, tr *Tracker) {
	t.Helper()
	select {
	case ev := <-tr.Events():
		t.Fatalf("unexpected event %s", ev.Kind)
	default:
	}
}

func nextCall(t *testing.T, r *fakeResolver) model.Coordinate {
	t.Helper()
	select {
	case c := <-r.calls:
		return c
	case <-time.After(time.Second):
		t.Fatal("no resolution")
		return model.Coordinate{}
	}
}

func TestUnknownNetworkStartsCoordinates(t *testing.T) {
	h := start(t, "cafe-wifi", Options{})

	assert.Equal(t, WifiUnknown, h.tracker.Snapshot().State)
	assert.True(t, h.coords.isActive())
	assertNoEvent(t, h.tracker)
}

func TestResolutionEmitsLabelAndStatus(t *testing.T) {
	h := start(t, "", Options{})

	h.push(t, model.Coordinate{Latitude: 53.55, Longitude: 9.99})
	nextCall(t, h.resolver)

	ev := nextEvent(t, h.tracker)
	assert.Equal(t, LocationChanged, ev.Kind)
	assert.Equal(t, "Hamburg, Germany", ev.Label)
	assert.NoError(t, ev.Err)

	ev = nextEvent(t, h.tracker)
	assert.Equal(t, DesiredStatus, ev.Kind)
	assert.Equal(t, "Hamburg, Germany", ev.Text)
	assert.Equal(t, ":flag-de:", ev.Emoji)
	assert.Equal(t, 0, ev.Expiration)
}

func TestDebounce(t *testing.T) {
	h := start(t, "", Options{Debounce: 20 * time.Second})

	first := model.Coordinate{Latitude: 1, Longitude: 1}
	second := model.Coordinate{Latitude: 2, Longitude: 2}
	third := model.Coordinate{Latitude: 3, Longitude: 3}

	h.push(t, first)
	assert.Equal(t, first, nextCall(t, h.resolver))
	nextEvent(t, h.tracker)
	nextEvent(t, h.tracker)

	h.clock.Advance(5 * time.Second)
	h.push(t, second)
	h.sync(t)

	h.clock.Advance(20 * time.Second)
	h.push(t, third)
	assert.Equal(t, third, nextCall(t, h.resolver), "the update inside the debounce window is dropped")
	assert.Empty(t, h.resolver.calls)
}

func TestSingleResolutionInFlight(t *testing.T) {
	h := start(t, "", Options{Debounce: time.Second})
	h.resolver.release = make(chan struct{})

	h.push(t, model.Coordinate{Latitude: 1, Longitude: 1})
	nextCall(t, h.resolver)
	assert.True(t, h.tracker.Snapshot().InFlight)

	h.clock.Advance(time.Minute)
	h.push(t, model.Coordinate{Latitude: 2, Longitude: 2})
	h.sync(t)
	assert.Empty(t, h.resolver.calls)

	close(h.resolver.release)
	nextEvent(t, h.tracker)
	nextEvent(t, h.tracker)
	assert.False(t, h.tracker.Snapshot().InFlight)
}

func TestKnownNetworkBypassesGeocoding(t *testing.T) {
	h := start(t, "corp-wifi", Options{})

	ev := nextEvent(t, h.tracker)
	assert.Equal(t, LocationChanged, ev.Kind)
	assert.Equal(t, "🏢 Office", ev.Label)

	ev = nextEvent(t, h.tracker)
	assert.Equal(t, DesiredStatus, ev.Kind)
	assert.Equal(t, "Office", ev.Text)
	assert.Equal(t, ":office:", ev.Emoji)

	assert.Equal(t, WifiKnown, h.tracker.Snapshot().State)
	assert.False(t, h.coords.isActive())

	h.push(t, model.Coordinate{Latitude: 1, Longitude: 1})
	h.sync(t)
	assert.Empty(t, h.resolver.calls)
	assertNoEvent(t, h.tracker)
}

func TestKnownNetworkEmitsOncePerTransition(t *testing.T) {
	h := start(t, "WIFIonICE", Options{})
	assert.Equal(t, "🚄 ICE", nextEvent(t, h.tracker).Label)
	assert.Equal(t, ":steam_locomotive:", nextEvent(t, h.tracker).Emoji)

	h.sync(t)
	assertNoEvent(t, h.tracker)

	h.wifi.set("corp-wifi")
	h.sync(t)
	assert.Equal(t, "🏢 Office", nextEvent(t, h.tracker).Label)
}

func TestKnownNetworkTakesOverInFlightResolution(t *testing.T) {
	h := start(t, "", Options{})
	h.resolver.release = make(chan struct{})

	h.push(t, model.Coordinate{Latitude: 53.55, Longitude: 9.99})
	nextCall(t, h.resolver)

	h.wifi.set("corp-wifi")
	h.sync(t)

	assert.Equal(t, "🏢 Office", nextEvent(t, h.tracker).Label)
	assert.Equal(t, DesiredStatus, nextEvent(t, h.tracker).Kind)
	assert.False(t, h.coords.isActive())

	close(h.resolver.release)
	stale := nextEvent(t, h.tracker)
	assert.Equal(t, LocationChanged, stale.Kind)
	assert.Equal(t, "Hamburg, Germany", stale.Label)

	h.sync(t)
	assertNoEvent(t, h.tracker)
}

func TestLeavingKnownNetworkResumesCoordinates(t *testing.T) {
	h := start(t, "corp-wifi", Options{})
	nextEvent(t, h.tracker)
	nextEvent(t, h.tracker)
	require.False(t, h.coords.isActive())

	h.wifi.set("")
	h.sync(t)

	assert.Equal(t, WifiUnknown, h.tracker.Snapshot().State)
	assert.True(t, h.coords.isActive())

	h.push(t, model.Coordinate{Latitude: 1, Longitude: 1})
	nextCall(t, h.resolver)
}

func TestToggleTracking(t *testing.T) {
	h := start(t, "", Options{})
	ctx := context.Background()

	require.NoError(t, h.tracker.SetTracking(ctx, false))
	ev := nextEvent(t, h.tracker)
	assert.Equal(t, TrackingToggled, ev.Kind)
	assert.False(t, ev.Active)
	assert.False(t, h.coords.isActive())
	assert.False(t, h.tracker.Snapshot().Active)

	h.push(t, model.Coordinate{Latitude: 1, Longitude: 1})
	h.sync(t)
	assert.Empty(t, h.resolver.calls)

	require.NoError(t, h.tracker.SetTracking(ctx, true))
	ev = nextEvent(t, h.tracker)
	assert.True(t, ev.Active)
	assert.True(t, h.coords.isActive())

	h.push(t, model.Coordinate{Latitude: 1, Longitude: 1})
	nextCall(t, h.resolver)
}

func TestToggleOffKeepsInFlightResolution(t *testing.T) {
	h := start(t, "", Options{})
	h.resolver.release = make(chan struct{})

	h.push(t, model.Coordinate{Latitude: 1, Longitude: 1})
	nextCall(t, h.resolver)

	require.NoError(t, h.tracker.SetTracking(context.Background(), false))
	assert.Equal(t, TrackingToggled, nextEvent(t, h.tracker).Kind)

	close(h.resolver.release)
	assert.Equal(t, "Hamburg, Germany", nextEvent(t, h.tracker).Label)
}

func TestResolutionFailureOnlyUpdatesDisplay(t *testing.T) {
	h := start(t, "", Options{})
	h.resolver.err = model.NewResolutionError(model.NoResults, "", nil)

	h.push(t, model.Coordinate{Latitude: 1, Longitude: 1})
	nextCall(t, h.resolver)

	ev := nextEvent(t, h.tracker)
	assert.Equal(t, LocationChanged, ev.Kind)
	assert.Equal(t, "No results for location found", ev.Label)
	assert.Error(t, ev.Err)

	h.sync(t)
	assertNoEvent(t, h.tracker)
}

func TestFullEventChannelDoesNotBlock(t *testing.T) {
	h := start(t, "corp-wifi", Options{EventBuffer: 1})

	h.wifi.set("WIFIonICE")
	h.sync(t)
	h.sync(t)

	assert.Equal(t, "🏢 Office", nextEvent(t, h.tracker).Label)
	assertNoEvent(t, h.tracker)
}

func TestToggleBeforeRun(t *testing.T) {
	coords := newFakeCoords()
	tr := New(&fakeWifi{}, coords, newFakeResolver(), known, Options{WifiInterval: time.Hour})

	require.NoError(t, tr.SetTracking(context.Background(), false))
	assert.False(t, tr.Snapshot().Active)
	ev := nextEvent(t, tr)
	assert.Equal(t, TrackingToggled, ev.Kind)
	assert.False(t, ev.Active)

	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()
	go tr.Run(ctx)
	require.Eventually(t, func() bool {
		return tr.CheckNow(ctx) == nil
	}, time.Second, 5*time.Millisecond)

	assert.Equal(t, WifiUnknown, tr.Snapshot().State)
	assert.False(t, tr.Snapshot().Active)
	assert.False(t, coords.isActive(), "paused before start, coordinates stay off")

	require.NoError(t, tr.SetTracking(ctx, true))
	require.Eventually(t, coords.isActive, time.Second, 5*time.Millisecond)
}

func TestSlowWifiLookupDoesNotStallLoop(t *testing.T) {
	h := start(t, "", Options{})
	gate := make(chan struct{})
	h.wifi.hold(gate)

	checked := make(chan error, 1)
	go func() {
		checked <- h.tracker.CheckNow(context.Background())
	}()
	require.Eventually(t, h.wifi.waiting, time.Second, 5*time.Millisecond)

	require.NoError(t, h.tracker.SetTracking(context.Background(), false))
	ev := nextEvent(t, h.tracker)
	assert.Equal(t, TrackingToggled, ev.Kind)
	assert.False(t, h.coords.isActive())

	select {
	case err := <-checked:
		t.Fatalf("check returned before the lookup finished: %v", err)
	default:
	}

	close(gate)
	select {
	case err := <-checked:
		assert.NoError(t, err)
	case <-time.After(time.Second):
		t.Fatal("check did not complete")
	}
}

func TestNotRunning(t *testing.T) {
	tr := New(&fakeWifi{}, newFakeCoords(), newFakeResolver(), known, Options{})
	assert.ErrorIs(t, tr.CheckNow(context.Background()), ErrNotRunning)

	ctx, cancel := context.WithCancel(context.Background())
	cancel()
	tr.Run(ctx)

	assert.ErrorIs(t, tr.SetTracking(context.Background(), false), ErrNotRunning)
	assert.ErrorIs(t, tr.CheckNow(context.Background()), ErrNotRunning)
}
