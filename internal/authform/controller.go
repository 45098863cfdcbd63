package authform

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"sync"

	"github.com/jonboulle/clockwork"

	"github.com/DukeRupert/authui/internal/domain"
	"github.com/DukeRupert/authui/internal/metrics"
	"github.com/DukeRupert/authui/internal/notify"
)

// Notifier receives the notifications a form emits.
type Notifier interface {
	Notify(n notify.Notification)
}

// Navigator receives the route a form navigates to after a submission.
type Navigator interface {
	Navigate(path string)
}

// Options configures a Controller. Zero values get defaults: a real clock,
// a SimulatedBackend with DefaultSubmitDelay, and slog.Default.
//
// Notifier and Navigator are called with the controller's lock held and must
// not call back into the Controller.
type Options struct {
	Clock     clockwork.Clock
	Submitter Submitter
	Notifier  Notifier
	Navigator Navigator
	Logger    *slog.Logger
}

// SubmitStatus is the immediate result of Submit.
type SubmitStatus int

const (
	// SubmitStarted means validation passed and the backend call is in flight.
	SubmitStarted SubmitStatus = iota
	// SubmitInvalid means at least one rule failed; see Errors.
	SubmitInvalid
	// SubmitIgnored means a submission was already in flight or the form is closed.
	SubmitIgnored
)

func (s SubmitStatus) String() string {
	switch s {
	case SubmitStarted:
		return "started"
	case SubmitInvalid:
		return "invalid"
	case SubmitIgnored:
		return "ignored"
	}
	return fmt.Sprintf("SubmitStatus(%d)", int(s))
}

// Snapshot is a consistent copy of a controller's state for rendering.
type Snapshot struct {
	Mode       Mode
	Config     Config
	Fields     FieldSet
	Errors     ValidationErrors
	Submitting bool
}

// Controller drives one form instance. At most one submission is in flight at
// a time; Close releases the pending one and guarantees that no notification
// or navigation happens afterwards.
type Controller struct {
	mode      Mode
	schema    Schema
	submitter Submitter
	notifier  Notifier
	navigator Navigator
	logger    *slog.Logger

	ctx    context.Context
	cancel context.CancelFunc
	wg     sync.WaitGroup

	mu         sync.Mutex
	fields     FieldSet
	errors     ValidationErrors
	submitting bool
	closed     bool
}

// New initializes a form for mode with an empty value for every field the
// mode requires.
func New(mode Mode, opts Options) (*Controller, error) {
	schema, ok := SchemaFor(mode)
	if !ok {
		return nil, domain.Invalid("authform.New", fmt.Sprintf("unknown form mode %q", mode))
	}
	if opts.Logger == nil {
		opts.Logger = slog.Default()
	}
	if opts.Submitter == nil {
		opts.Submitter = NewSimulatedBackend(opts.Clock, DefaultSubmitDelay, opts.Logger)
	}
	if opts.Notifier == nil {
		opts.Notifier = discard{}
	}
	if opts.Navigator == nil {
		opts.Navigator = discard{}
	}

	ctx, cancel := context.WithCancel(context.Background())
	c := &Controller{
		mode:      mode,
		schema:    schema,
		submitter: opts.Submitter,
		notifier:  opts.Notifier,
		navigator: opts.Navigator,
		logger:    opts.Logger.With("mode", string(mode)),
		ctx:       ctx,
		cancel:    cancel,
		fields:    schema.NewFieldSet(),
	}

	c.logger.Debug("auth form mounted")
	return c, nil
}

// Mode returns the form's mode.
func (c *Controller) Mode() Mode {
	return c.mode
}

// Config returns the form's presentational copy.
func (c *Controller) Config() Config {
	cfg, _ := ConfigFor(c.mode)
	return cfg
}

// UpdateField replaces the value of field. It does not validate. Updates are
// dropped while a submission is in flight (inputs are disabled) or after Close.
func (c *Controller) UpdateField(field Field, value string) error {
	c.mu.Lock()
	defer c.mu.Unlock()

	if !c.schema.Has(field) {
		return domain.Invalid("authform.UpdateField", fmt.Sprintf("field %q is not part of the %s form", field, c.mode))
	}
	if c.submitting || c.closed {
		return nil
	}
	c.fields[field] = value
	return nil
}

// Submit validates the current fields and, when they pass, starts the backend
// call. Calling Submit while a submission is in flight does nothing.
func (c *Controller) Submit() SubmitStatus {
	c.mu.Lock()
	defer c.mu.Unlock()

	if c.closed || c.submitting {
		metrics.FormSubmissions.WithLabelValues(string(c.mode), SubmitIgnored.String()).Inc()
		return SubmitIgnored
	}

	errs := c.schema.Validate(c.fields)
	if !errs.Valid() {
		c.errors = errs
		for field := range errs {
			metrics.FormValidationErrors.WithLabelValues(string(c.mode), string(field)).Inc()
		}
		metrics.FormSubmissions.WithLabelValues(string(c.mode), SubmitInvalid.String()).Inc()
		c.logger.Debug("auth form invalid", "fields", len(errs))
		return SubmitInvalid
	}

	c.errors = nil
	c.submitting = true
	metrics.FormSubmissions.WithLabelValues(string(c.mode), SubmitStarted.String()).Inc()

	values := c.fields.clone()
	c.wg.Add(1)
	go c.complete(values)

	return SubmitStarted
}

// complete waits for the backend and then emits the mode's outcome, unless
// the form was closed in the meantime.
func (c *Controller) complete(values FieldSet) {
	defer c.wg.Done()

	err := c.submitter.Submit(c.ctx, c.mode, values)

	c.mu.Lock()
	defer c.mu.Unlock()

	if c.closed {
		return
	}
	c.submitting = false

	if err != nil {
		if errors.Is(err, context.Canceled) {
			return
		}
		c.logger.Warn("auth form submission failed",
			"error", domain.Unavailable(err, "authform.Submit", "backend could not complete the submission"))
		n := failureNotification(c.mode)
		metrics.FormOutcomes.WithLabelValues(string(c.mode), string(n.Kind)).Inc()
		c.notifier.Notify(n)
		return
	}

	outcome := OutcomeFor(c.mode)
	metrics.FormOutcomes.WithLabelValues(string(c.mode), string(outcome.Notification.Kind)).Inc()
	c.notifier.Notify(outcome.Notification)
	if outcome.Redirect != "" {
		c.navigator.Navigate(outcome.Redirect)
	}
	c.logger.Debug("auth form submission completed", "redirect", outcome.Redirect)
}

// SocialLogin announces an attempt to sign in with provider. It performs no
// authentication.
func (c *Controller) SocialLogin(provider Provider) error {
	if !ShowsSocialLogin(c.mode) {
		return domain.Invalid("authform.SocialLogin", fmt.Sprintf("social login is not available on the %s form", c.mode))
	}
	if !provider.Valid() {
		return domain.Invalid("authform.SocialLogin", fmt.Sprintf("unknown provider %q", provider))
	}

	c.mu.Lock()
	defer c.mu.Unlock()

	if c.closed || c.submitting {
		return nil
	}

	metrics.SocialLoginAttempts.WithLabelValues(string(provider)).Inc()
	c.logger.Debug("social login attempt", "provider", provider)
	c.notifier.Notify(socialNotification(provider))
	return nil
}

// Fields returns a copy of the current values.
func (c *Controller) Fields() FieldSet {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.fields.clone()
}

// Errors returns a copy of the errors from the last validation pass.
func (c *Controller) Errors() ValidationErrors {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.errors.clone()
}

// Submitting reports whether a submission is in flight.
func (c *Controller) Submitting() bool {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.submitting
}

// Snapshot returns the whole state under one lock.
func (c *Controller) Snapshot() Snapshot {
	c.mu.Lock()
	defer c.mu.Unlock()
	return Snapshot{
		Mode:       c.mode,
		Config:     c.Config(),
		Fields:     c.fields.clone(),
		Errors:     c.errors.clone(),
		Submitting: c.submitting,
	}
}

// Close tears the form down. A pending submission is cancelled and Close
// waits for it to unwind. Safe to call more than once.
func (c *Controller) Close() {
	c.mu.Lock()
	if c.closed {
		c.mu.Unlock()
		return
	}
	c.closed = true
	c.submitting = false
	c.mu.Unlock()

	c.cancel()
	c.wg.Wait()
	c.logger.Debug("auth form closed")
}

type discard struct{}

func (discard) Notify(notify.Notification) {}
func (discard) Navigate(string)            {}
