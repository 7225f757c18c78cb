package app

import (
	"context"
	"errors"
	"fmt"
	"slices"
	"strconv"
	"strings"
	"sync"
	"time"

	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/trace"

	"github.com/mpapenbr/trackroll/log"
	"github.com/mpapenbr/trackroll/pkg/catalog"
	"github.com/mpapenbr/trackroll/pkg/easteregg"
	"github.com/mpapenbr/trackroll/pkg/effects"
	"github.com/mpapenbr/trackroll/pkg/filter"
	"github.com/mpapenbr/trackroll/pkg/metrics"
	"github.com/mpapenbr/trackroll/pkg/model"
	"github.com/mpapenbr/trackroll/pkg/outcome"
	"github.com/mpapenbr/trackroll/pkg/prefs"
	"github.com/mpapenbr/trackroll/pkg/reveal"
	"github.com/mpapenbr/trackroll/pkg/storage/memory"
)

var (
	ErrRollInProgress = errors.New("roll in progress")
	ErrUnknownAxis    = errors.New("unknown filter axis")
	ErrClosed         = errors.New("app is closed")
)

const (
	// Cooldown is the time after a completed roll before the next one is accepted.
	Cooldown          = 800 * time.Millisecond
	StartupDelay      = 2 * time.Second
	StartupChance     = 0.10
	JumpscareDuration = 3100 * time.Millisecond
)

type Status int

const (
	StatusIdle Status = iota
	StatusRolling
	StatusNoMatches
	StatusDone
)

func (s Status) String() string {
	switch s {
	case StatusIdle:
		return "idle"
	case StatusRolling:
		return "rolling"
	case StatusNoMatches:
		return "no-matches"
	case StatusDone:
		return "done"
	}
	return "unknown"
}

type Axis string

const (
	AxisTerrain   Axis = "terrain"
	AxisCategory  Axis = "cat"
	AxisDirection Axis = "dir"
	AxisCapacity  Axis = "caps"
)

var Axes = []Axis{AxisTerrain, AxisCategory, AxisDirection, AxisCapacity}

// ParseAxis accepts the storage names and a few long forms.
func ParseAxis(s string) (Axis, error) {
	switch strings.ToLower(s) {
	case "terrain", "surface":
		return AxisTerrain, nil
	case "cat", "category":
		return AxisCategory, nil
	case "dir", "direction":
		return AxisDirection, nil
	case "caps", "capacity", "runners":
		return AxisCapacity, nil
	}
	return "", fmt.Errorf("%w: %s", ErrUnknownAxis, s)
}

// Filters holds the checked values per axis. Capacities are kept as strings
// like they are stored.
type Filters map[Axis][]string

func (f Filters) clone() Filters {
	ret := make(Filters, len(Axes))
	for _, a := range Axes {
		ret[a] = append([]string{}, f[a]...)
	}
	return ret
}

func (f Filters) Selection() model.FilterSelection {
	p := model.Preferences{
		Terrain: f[AxisTerrain],
		Cat:     f[AxisCategory],
		Dir:     f[AxisDirection],
		Caps:    f[AxisCapacity],
	}
	return p.Selection()
}

// FiltersFromSelection converts sel into Filters.
func FiltersFromSelection(sel model.FilterSelection) Filters {
	caps := make([]string, 0, len(sel.Capacity))
	for _, c := range sel.Capacity {
		caps = append(caps, strconv.Itoa(c))
	}
	return Filters{
		AxisTerrain:   append([]string{}, sel.Terrain...),
		AxisCategory:  append([]string{}, sel.Category...),
		AxisDirection: append([]string{}, sel.Direction...),
		AxisCapacity:  caps,
	}
}

// State is a copy of the application state at one point in time.
type State struct {
	Status    Status
	Ready     bool               // a roll may be started
	Display   *model.Track       // currently shown track, nil if nothing is shown
	Outcome   *model.RollOutcome // last committed outcome
	Ticks     int
	Theme     string
	Themes    []Theme
	Unlocked  []string
	Muted     bool
	Filters   Filters
	Catalog   int
	Jumpscare bool // jump-scare overlay is showing
}

type (
	Option func(*App)
	App    struct {
		mu        sync.Mutex
		catalog   []model.Track
		filters   Filters
		theme     string
		themes    []Theme
		unlocked  []string
		muted     bool
		status    Status
		ready     bool
		display   *model.Track
		outcome   *model.RollOutcome
		ticks     int
		scaring   bool
		closed    bool
		run       *reveal.Run
		rollDone  chan struct{}
		rollCtx   context.Context
		rollSpan  trace.Span
		cooldown  reveal.Timer
		startup   reveal.Timer
		scare     reveal.Timer
		store     *prefs.Store
		sink      effects.Sink
		clock     reveal.Clock
		rng       Random
		scale     float64
		matcher   *easteregg.Matcher
		selector  *outcome.Selector
		scheduler *reveal.Scheduler
		l         *log.Logger
	}
)

func WithClock(c reveal.Clock) Option {
	return func(a *App) {
		a.clock = c
	}
}

func WithSink(s effects.Sink) Option {
	return func(a *App) {
		a.sink = s
	}
}

func WithRandom(r Random) Option {
	return func(a *App) {
		a.rng = r
	}
}

// WithTimeScale scales the reveal and the cooldown, see reveal.WithTimeScale.
func WithTimeScale(f float64) Option {
	return func(a *App) {
		if v, ok := reveal.ClampTimeScale(f); ok {
			a.scale = v
		}
	}
}

func WithMatcher(m *easteregg.Matcher) Option {
	return func(a *App) {
		a.matcher = m
	}
}

// WithDefaultFilters sets the filters used for axes which are not restored.
func WithDefaultFilters(f Filters) Option {
	return func(a *App) {
		a.filters = f.clone()
	}
}

func WithLogger(l *log.Logger) Option {
	return func(a *App) {
		a.l = l
	}
}

// New creates the application state for tracks. A nil store keeps
// preferences in memory only.
func New(tracks []model.Track, store *prefs.Store, opts ...Option) *App {
	a := &App{
		catalog: tracks,
		filters: Filters{}.clone(),
		theme:   DefaultTheme,
		themes:  slices.Clone(BaseThemes),
		ready:   true,
		store:   store,
		sink:    effects.Discard,
		clock:   reveal.RealClock(),
		scale:   1,
		matcher: easteregg.Default(),
		l:       log.Default().Named("app"),
	}
	for _, opt := range opts {
		opt(a)
	}
	a.rollDone = make(chan struct{})
	close(a.rollDone)
	if a.store == nil {
		a.store = prefs.NewStore(memory.New())
	}
	if a.rng == nil {
		a.rng = outcome.NewRNG(0)
	}
	a.rng = &lockedRandom{r: a.rng}
	a.selector = outcome.NewSelector(a.rng)
	a.scheduler = reveal.New(a.rng,
		reveal.WithClock(a.clock),
		reveal.WithTimeScale(a.scale),
		reveal.WithLogger(a.l.Named("reveal")))
	return a
}

// Restore applies stored preferences. Unlocked themes are offered before the
// stored theme is selected, only axes present in the stored data are applied.
// The standalone mute flag takes precedence over the one in the preferences.
// It reports whether preferences were found.
func (a *App) Restore(ctx context.Context) bool {
	p, ok := a.store.Load(ctx)
	muted, mutedOK := a.store.Muted(ctx)

	a.mu.Lock()
	themeChanged := false
	if ok {
		for _, id := range p.Unlocked {
			a.offerLocked(id)
			if !slices.Contains(a.unlocked, id) {
				a.unlocked = append(a.unlocked, id)
			}
		}
		if p.Theme != "" && a.availableLocked(p.Theme) && p.Theme != a.theme {
			a.theme = p.Theme
			themeChanged = true
		}
		restoreAxis := func(axis Axis, values []string) {
			if values != nil {
				a.filters[axis] = append([]string{}, values...)
			}
		}
		restoreAxis(AxisTerrain, p.Terrain)
		restoreAxis(AxisCategory, p.Cat)
		restoreAxis(AxisDirection, p.Dir)
		restoreAxis(AxisCapacity, p.Caps)
		a.muted = p.Muted
	}
	if mutedOK {
		a.muted = muted
	}
	theme := a.theme
	a.mu.Unlock()

	a.l.Debug("preferences restored", log.Bool("found", ok), log.String("theme", theme))
	if themeChanged {
		a.emit(effects.Intent{Kind: effects.KindThemeChanged, ID: theme})
	}
	return ok
}

// SetFilter replaces the checked values of axis and saves the preferences.
func (a *App) SetFilter(ctx context.Context, axis Axis, values []string) error {
	if !slices.Contains(Axes, axis) {
		return fmt.Errorf("%w: %s", ErrUnknownAxis, axis)
	}
	a.mu.Lock()
	a.filters[axis] = append([]string{}, values...)
	p := a.prefsLocked()
	a.mu.Unlock()
	return a.persist(ctx, p)
}

// SetSelection replaces all axes and saves the preferences.
func (a *App) SetSelection(ctx context.Context, sel model.FilterSelection) error {
	a.mu.Lock()
	a.filters = FiltersFromSelection(sel)
	p := a.prefsLocked()
	a.mu.Unlock()
	return a.persist(ctx, p)
}

// Roll starts a roll over the tracks matching the current filters.
// If no track matches StatusNoMatches is returned and nothing is started.
// While a roll runs or cools down ErrRollInProgress is returned.
func (a *App) Roll(ctx context.Context) (Status, error) {
	a.mu.Lock()
	if a.closed {
		a.mu.Unlock()
		return a.status, ErrClosed
	}
	if a.status == StatusRolling || !a.ready {
		st := a.status
		a.mu.Unlock()
		return st, ErrRollInProgress
	}
	pool := filter.Apply(a.catalog, a.filters.Selection())
	if len(pool) == 0 {
		a.status = StatusNoMatches
		a.display = nil
		a.mu.Unlock()
		a.l.Debug("no matches")
		metrics.RollNoMatches(ctx)
		a.emit(effects.Intent{Kind: effects.KindShowNoMatches})
		return StatusNoMatches, nil
	}

	rollCtx, span := metrics.StartSpan(context.WithoutCancel(ctx), "roll",
		attribute.Int("pool", len(pool)))
	prevStatus := a.status
	a.status = StatusRolling
	a.ready = false
	a.display = nil
	a.ticks = 0
	run, err := a.scheduler.Roll(pool, a.onTick, a.onDone)
	if err != nil {
		a.status = prevStatus
		a.ready = true
		a.mu.Unlock()
		span.End()
		return prevStatus, fmt.Errorf("start roll: %w", err)
	}
	a.run = run
	a.rollDone = make(chan struct{})
	a.rollCtx = rollCtx
	a.rollSpan = span
	a.mu.Unlock()

	a.l.Debug("roll started", log.Int("pool", len(pool)))
	metrics.RollStarted(ctx, len(pool))
	return StatusRolling, nil
}

func (a *App) onTick(t *model.Track) {
	a.mu.Lock()
	if a.closed || a.status != StatusRolling {
		a.mu.Unlock()
		return
	}
	a.ticks++
	a.display = t
	intents := []effects.Intent{{Kind: effects.KindShowTick, Track: t}}
	if !a.muted {
		intents = append(intents, effects.Intent{Kind: effects.KindPlayTick})
	}
	ctx := a.rollCtx
	a.mu.Unlock()

	metrics.Tick(ctx)
	a.emit(intents...)
}

func (a *App) onDone(t *model.Track) {
	a.mu.Lock()
	if a.closed || a.status != StatusRolling {
		a.mu.Unlock()
		return
	}
	o := a.selector.Complete(t)
	a.outcome = &o
	a.display = t
	a.status = StatusDone
	a.run = nil
	a.cooldown = a.clock.AfterFunc(a.scaled(Cooldown), a.enable)
	ctx, span, done := a.rollCtx, a.rollSpan, a.rollDone
	a.rollSpan = nil
	intents := []effects.Intent{
		{Kind: effects.KindShowResult, Track: t, Outcome: &o},
		{Kind: effects.KindShowConfetti},
	}
	if !a.muted {
		intents = append(intents, effects.Intent{Kind: effects.KindPlayFanfare})
	}
	a.mu.Unlock()

	span.SetAttributes(
		attribute.String("outcome.id", o.ID),
		attribute.String("track", t.Name),
		attribute.String("season", string(o.Season)),
		attribute.String("weather", string(o.Weather)))
	span.End()
	metrics.Outcome(ctx, string(o.Season), string(o.Weather))
	a.l.Info("roll done",
		log.String("id", o.ID),
		log.String("track", t.Name),
		log.String("season", string(o.Season)),
		log.String("weather", string(o.Weather)))
	a.emit(intents...)
	close(done)
}

// RollDone returns a channel which is closed once the current roll committed
// its outcome and emitted its intents. Without a running roll the channel is
// already closed. Close also closes it.
func (a *App) RollDone() <-chan struct{} {
	a.mu.Lock()
	defer a.mu.Unlock()
	return a.rollDone
}

func (a *App) enable() {
	a.mu.Lock()
	defer a.mu.Unlock()
	if a.closed {
		return
	}
	a.ready = true
	a.cooldown = nil
}

// Export returns the export text of the last committed outcome.
func (a *App) Export() (string, bool) {
	a.mu.Lock()
	defer a.mu.Unlock()
	if a.outcome == nil {
		return "", false
	}
	return a.outcome.ExportText(), true
}

// ToggleMute flips the mute flag, saves it and returns the new value.
func (a *App) ToggleMute(ctx context.Context) (bool, error) {
	a.mu.Lock()
	a.muted = !a.muted
	muted := a.muted
	p := a.prefsLocked()
	a.mu.Unlock()
	return muted, a.persist(ctx, p)
}

// SetTheme selects theme id. Unknown or locked themes are ignored and false
// is returned.
func (a *App) SetTheme(ctx context.Context, id string) (bool, error) {
	a.mu.Lock()
	if !a.availableLocked(id) {
		a.mu.Unlock()
		return false, nil
	}
	a.theme = id
	p := a.prefsLocked()
	a.mu.Unlock()

	a.emit(effects.Intent{Kind: effects.KindThemeChanged, ID: id})
	return true, a.persist(ctx, p)
}

// Unlock makes theme id available, selects it and saves the preferences.
// The notification is only emitted the first time id is unlocked, which is
// also what the returned bool reports.
func (a *App) Unlock(ctx context.Context, id string) (bool, error) {
	a.mu.Lock()
	a.offerLocked(id)
	first := !slices.Contains(a.unlocked, id)
	if first {
		a.unlocked = append(a.unlocked, id)
	}
	a.theme = id
	name := a.themeNameLocked(id)
	p := a.prefsLocked()
	a.mu.Unlock()

	if first {
		a.l.Info("theme unlocked", log.String("theme", id))
		a.emit(effects.Intent{Kind: effects.KindUnlockNotification, ID: id, Name: name})
	}
	a.emit(effects.Intent{Kind: effects.KindThemeChanged, ID: id})
	return first, a.persist(ctx, p)
}

// HandleKey feeds key into the easter egg matcher and executes the resulting
// actions.
func (a *App) HandleKey(ctx context.Context, key string) error {
	var errs []error
	for _, action := range a.matcher.Feed(key) {
		switch action.Kind {
		case easteregg.ActionUnlockTheme:
			if _, err := a.Unlock(ctx, action.ID); err != nil {
				errs = append(errs, err)
			}
		case easteregg.ActionSpecialSound:
			a.mu.Lock()
			muted := a.muted
			a.mu.Unlock()
			if !muted {
				a.emit(effects.Intent{Kind: effects.KindPlaySpecial, ID: action.ID})
			}
		case easteregg.ActionJumpscare:
			a.TriggerJumpscare()
		}
	}
	return errors.Join(errs...)
}

// HandleKeys calls HandleKey for each character of text.
func (a *App) HandleKeys(ctx context.Context, text string) error {
	var errs []error
	for _, r := range text {
		if err := a.HandleKey(ctx, string(r)); err != nil {
			errs = append(errs, err)
		}
	}
	return errors.Join(errs...)
}

// CheckStartup schedules the jump-scare on the first visit and by chance on
// later ones. The visit is recorded. It reports whether the jump-scare was
// scheduled.
func (a *App) CheckStartup(ctx context.Context) bool {
	visited := a.store.Visited(ctx)
	trigger := !visited || a.rng.Float64() < StartupChance
	if trigger {
		a.mu.Lock()
		if !a.closed {
			a.startup = a.clock.AfterFunc(StartupDelay, func() { a.TriggerJumpscare() })
		}
		a.mu.Unlock()
	}
	if !visited {
		if err := a.store.MarkVisited(ctx); err != nil {
			a.l.Warn("could not mark visit", log.ErrorField(err))
		}
	}
	return trigger
}

// TriggerJumpscare shows the jump-scare. It is ignored while one is showing.
func (a *App) TriggerJumpscare() bool {
	a.mu.Lock()
	if a.closed || a.scaring {
		a.mu.Unlock()
		return false
	}
	a.scaring = true
	a.scare = a.clock.AfterFunc(JumpscareDuration, a.endJumpscare)
	muted := a.muted
	a.mu.Unlock()

	a.emit(effects.Intent{Kind: effects.KindShowJumpscare, Muted: muted})
	return true
}

func (a *App) endJumpscare() {
	a.mu.Lock()
	defer a.mu.Unlock()
	a.scaring = false
	a.scare = nil
}

// SetCatalog replaces the catalog. A running roll keeps its pool.
func (a *App) SetCatalog(tracks []model.Track) {
	a.mu.Lock()
	defer a.mu.Unlock()
	a.catalog = tracks
	a.l.Debug("catalog replaced", log.Int("tracks", len(tracks)))
}

func (a *App) Catalog() []model.Track {
	a.mu.Lock()
	defer a.mu.Unlock()
	return a.catalog
}

func (a *App) Snapshot() State {
	a.mu.Lock()
	defer a.mu.Unlock()
	return State{
		Status:    a.status,
		Ready:     a.ready,
		Display:   a.display,
		Outcome:   a.outcome,
		Ticks:     a.ticks,
		Theme:     a.theme,
		Themes:    slices.Clone(a.themes),
		Unlocked:  slices.Clone(a.unlocked),
		Muted:     a.muted,
		Filters:   a.filters.clone(),
		Catalog:   len(a.catalog),
		Jumpscare: a.scaring,
	}
}

// Close stops all pending timers. A running roll never completes.
func (a *App) Close() {
	a.mu.Lock()
	defer a.mu.Unlock()
	if a.closed {
		return
	}
	a.closed = true
	if a.run != nil {
		a.run.Stop()
		a.run = nil
		close(a.rollDone)
	}
	for _, t := range []reveal.Timer{a.cooldown, a.startup, a.scare} {
		if t != nil {
			t.Stop()
		}
	}
	if a.rollSpan != nil {
		a.rollSpan.End()
		a.rollSpan = nil
	}
}

func (a *App) scaled(d time.Duration) time.Duration {
	return time.Duration(float64(d) * a.scale)
}

func (a *App) availableLocked(id string) bool {
	return slices.ContainsFunc(a.themes, func(t Theme) bool { return t.ID == id })
}

func (a *App) offerLocked(id string) {
	if !a.availableLocked(id) {
		a.themes = append(a.themes, secretTheme(id))
	}
}

func (a *App) themeNameLocked(id string) string {
	for _, t := range a.themes {
		if t.ID == id {
			return t.Name
		}
	}
	return id
}

func (a *App) prefsLocked() *model.Preferences {
	return &model.Preferences{
		Theme:    a.theme,
		Terrain:  append([]string{}, a.filters[AxisTerrain]...),
		Cat:      append([]string{}, a.filters[AxisCategory]...),
		Dir:      append([]string{}, a.filters[AxisDirection]...),
		Caps:     append([]string{}, a.filters[AxisCapacity]...),
		Muted:    a.muted,
		Unlocked: append([]string{}, a.unlocked...),
	}
}

func (a *App) persist(ctx context.Context, p *model.Preferences) error {
	if err := a.store.Save(ctx, p); err != nil {
		a.l.Warn("could not save preferences", log.ErrorField(err))
		return fmt.Errorf("save preferences: %w", err)
	}
	return nil
}

// emit hands intents to the sink. A failing sink must not affect the state.
func (a *App) emit(intents ...effects.Intent) {
	for _, i := range intents {
		func() {
			defer func() {
				if r := recover(); r != nil {
					a.l.Error("intent sink failed",
						log.String("kind", string(i.Kind)), log.Any("panic", r))
				}
			}()
			a.sink.Emit(i)
		}()
	}
}

// AllFilters returns filters with every value present in tracks checked.
func AllFilters(tracks []model.Track) Filters {
	f := catalog.CollectFacets(tracks)
	return FiltersFromSelection(model.FilterSelection{
		Terrain:   f.Surfaces,
		Category:  f.Categories,
		Direction: f.Directions,
		Capacity:  f.Capacities,
	})
}
