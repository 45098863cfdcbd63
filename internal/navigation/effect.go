// Package navigation drives the post-login success screen: a progress bar
// that fills on a fixed tick and a single delayed redirect.
package navigation

import (
	"context"
	"log/slog"
	"sync"
	"time"

	"github.com/jonboulle/clockwork"

	"github.com/DukeRupert/authui/internal/domain"
	"github.com/DukeRupert/authui/internal/metrics"
)

const (
	DefaultTick          = 600 * time.Millisecond
	DefaultRedirectAfter = 3 * time.Second
	// DefaultTarget has no page of its own and resolves to the not-found
	// screen until the application dashboard exists.
	DefaultTarget = "/dashboard"

	initialProgress = 10
	progressStep    = 20
	progressMax     = 100
)

// Navigator receives the redirect.
type Navigator interface {
	Navigate(path string)
}

// NavigatorFunc adapts a function to Navigator.
type NavigatorFunc func(path string)

func (f NavigatorFunc) Navigate(path string) { f(path) }

// Options configures an Effect. Zero durations and an empty Target take the
// package defaults.
type Options struct {
	Clock         clockwork.Clock
	Navigator     Navigator
	Tick          time.Duration
	RedirectAfter time.Duration
	Target        string
	Logger        *slog.Logger
}

// Effect owns the two timers of one success screen. Nothing happens until
// Start; after Close neither timer fires and the state no longer changes.
type Effect struct {
	clock         clockwork.Clock
	navigator     Navigator
	tick          time.Duration
	redirectAfter time.Duration
	target        string
	logger        *slog.Logger

	ctx    context.Context
	cancel context.CancelFunc
	wg     sync.WaitGroup

	mu         sync.Mutex
	progress   int
	redirected bool
	started    bool
	closed     bool
}

// New returns an idle Effect with progress at 10.
func New(opts Options) (*Effect, error) {
	if opts.Navigator == nil {
		return nil, domain.Invalid("navigation.New", "navigator is required")
	}
	if opts.Tick < 0 || opts.RedirectAfter < 0 {
		return nil, domain.Invalid("navigation.New", "durations must not be negative")
	}
	if opts.Clock == nil {
		opts.Clock = clockwork.NewRealClock()
	}
	if opts.Tick == 0 {
		opts.Tick = DefaultTick
	}
	if opts.RedirectAfter == 0 {
		opts.RedirectAfter = DefaultRedirectAfter
	}
	if opts.Target == "" {
		opts.Target = DefaultTarget
	}
	if opts.Logger == nil {
		opts.Logger = slog.Default()
	}

	ctx, cancel := context.WithCancel(context.Background())
	return &Effect{
		clock:         opts.Clock,
		navigator:     opts.Navigator,
		tick:          opts.Tick,
		redirectAfter: opts.RedirectAfter,
		target:        opts.Target,
		logger:        opts.Logger,
		ctx:           ctx,
		cancel:        cancel,
		progress:      initialProgress,
	}, nil
}

// Start arms the progress ticker and the redirect timer. Calling it again,
// or after Close, does nothing.
func (e *Effect) Start() {
	e.mu.Lock()
	defer e.mu.Unlock()

	if e.started || e.closed {
		return
	}
	e.started = true

	ticker := e.clock.NewTicker(e.tick)
	timer := e.clock.NewTimer(e.redirectAfter)

	e.wg.Add(1)
	go e.run(ticker, timer)

	e.logger.Debug("auth success mounted", "tick", e.tick, "redirect_after", e.redirectAfter)
}

func (e *Effect) run(ticker clockwork.Ticker, timer clockwork.Timer) {
	defer e.wg.Done()
	defer ticker.Stop()
	defer timer.Stop()

	redirect := timer.Chan()
	for {
		select {
		case <-e.ctx.Done():
			return
		case <-ticker.Chan():
			e.advance()
		case <-redirect:
			// A fired timer never sends again; a nil channel keeps it out of the select.
			redirect = nil
			e.fire()
		}
	}
}

func (e *Effect) advance() {
	e.mu.Lock()
	defer e.mu.Unlock()
	if e.closed {
		return
	}
	e.progress = nextProgress(e.progress)
}

func (e *Effect) fire() {
	e.mu.Lock()
	defer e.mu.Unlock()
	if e.closed || e.redirected {
		return
	}
	e.redirected = true
	metrics.SuccessRedirects.Inc()
	e.logger.Debug("auth success redirect", "target", e.target)
	e.navigator.Navigate(e.target)
}

// nextProgress climbs by 20 and snaps to 100 once it reaches 90.
func nextProgress(prev int) int {
	if prev >= 90 {
		return progressMax
	}
	return prev + progressStep
}

// Progress returns the current fill percentage.
func (e *Effect) Progress() int {
	e.mu.Lock()
	defer e.mu.Unlock()
	return e.progress
}

// Redirected reports whether the redirect has fired.
func (e *Effect) Redirected() bool {
	e.mu.Lock()
	defer e.mu.Unlock()
	return e.redirected
}

// Target returns the redirect destination.
func (e *Effect) Target() string {
	return e.target
}

// Tick returns the progress interval.
func (e *Effect) Tick() time.Duration {
	return e.tick
}

// Close stops both timers and waits for the effect's goroutine to exit.
// Safe to call more than once.
func (e *Effect) Close() {
	e.mu.Lock()
	if e.closed {
		e.mu.Unlock()
		return
	}
	e.closed = true
	e.mu.Unlock()

	e.cancel()
	e.wg.Wait()
}
