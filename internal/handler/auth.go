// Package handler contains HTTP handlers for the QuickAuth screens.
//
// This file implements the four authentication forms (login, sign up,
// forgot password and reset password). Each page load mounts a live form
// instance on the server; the browser posts field values to it and polls it
// while a submission is in flight.
package handler

import (
	"log/slog"
	"net/http"
	"sync"
	"time"

	"github.com/google/uuid"

	"github.com/DukeRupert/authui/internal/authform"
	"github.com/DukeRupert/authui/internal/domain"
	"github.com/DukeRupert/authui/internal/flash"
	"github.com/DukeRupert/authui/internal/instance"
	"github.com/DukeRupert/authui/internal/notify"
	authpages "github.com/DukeRupert/authui/internal/templ/pages/auth"
)

// =============================================================================
// Handler Configuration
// =============================================================================

// TemplateRenderer is the interface for rendering HTML templates.
// This interface allows for mocking in tests.
type TemplateRenderer interface {
	RenderHTTP(w http.ResponseWriter, name string, data interface{})
	RenderHTTPStatus(w http.ResponseWriter, status int, name string, data interface{})
	RenderPartial(w http.ResponseWriter, name string, data interface{})
	RenderPartialWithToasts(w http.ResponseWriter, status int, name string, data interface{}, notes []notify.Notification)
	RenderToasts(w http.ResponseWriter, notes []notify.Notification)
}

// formFieldID is the hidden input that ties a POST to its live form.
const formFieldID = "form_id"

// formSession is one mounted form. It collects what the controller emits
// until the next response picks it up.
type formSession struct {
	ctrl   *authform.Controller
	outbox notify.Outbox

	mu       sync.Mutex
	redirect string
}

// Navigate records where the form wants to go next.
func (s *formSession) Navigate(path string) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.redirect = path
}

// takeRedirect returns the pending navigation and clears it.
func (s *formSession) takeRedirect() string {
	s.mu.Lock()
	defer s.mu.Unlock()
	target := s.redirect
	s.redirect = ""
	return target
}

func (s *formSession) Close() {
	s.ctrl.Close()
}

// AuthHandler handles the authentication form pages.
//
// Dependencies:
// - forms: Live form instances, keyed by the id rendered into each page
// - submitter: Backend that completes a valid submission
// - renderer: Template rendering for HTML responses
// - logger: Structured logging for request handling
// - isSecure: Whether to set Secure flag on the flash cookie (true in production)
//
// Routes handled:
// - GET  /                             -> login form
// - GET  /sign-up                      -> sign up form
// - GET  /forgot-password              -> forgot password form
// - GET  /reset-password               -> reset password form
// - POST (same paths)                  -> Submit
// - GET  /forms/{id}/status            -> Status
// - POST /forms/{id}/social/{provider} -> SocialLogin
// - POST /forms/{id}/close             -> Close
type AuthHandler struct {
	forms     *instance.Store[*formSession]
	submitter authform.Submitter
	renderer  TemplateRenderer
	logger    *slog.Logger
	isSecure  bool
}

// InstanceLimits bounds how many live screens a handler keeps and for how long.
type InstanceLimits struct {
	Size int
	TTL  time.Duration
}

// NewAuthHandler creates a new AuthHandler with the required dependencies.
//
// Parameters:
// - submitter: Backend for valid submissions (a SimulatedBackend for now)
// - renderer: Template renderer for HTML pages
// - logger: Structured logger for request logging
// - isSecure: Set to true in production (enables Secure cookie flag)
// - limits: Capacity and lifetime of live forms
//
// Example usage in main.go:
//
//	authHandler := handler.NewAuthHandler(backend, renderer, logger, cfg.Env != "development", limits)
func NewAuthHandler(
	submitter authform.Submitter,
	renderer TemplateRenderer,
	logger *slog.Logger,
	isSecure bool,
	limits InstanceLimits,
) *AuthHandler {
	return &AuthHandler{
		forms:     instance.NewStore[*formSession]("form", limits.Size, limits.TTL),
		submitter: submitter,
		renderer:  renderer,
		logger:    logger,
		isSecure:  isSecure,
	}
}

// Shutdown closes every live form, cancelling pending submissions.
func (h *AuthHandler) Shutdown() {
	h.forms.Close()
}

// =============================================================================
// Route Registration
// =============================================================================

// RegisterRoutes registers all form routes on the provided mux.
//
// Example usage:
//
//	mux := http.NewServeMux()
//	authHandler.RegisterRoutes(mux)
func (h *AuthHandler) RegisterRoutes(mux *http.ServeMux) {
	mux.HandleFunc("GET /{$}", h.Show(authform.ModeLogin))
	mux.HandleFunc("POST /{$}", h.Submit(authform.ModeLogin))

	for _, mode := range []authform.Mode{authform.ModeSignup, authform.ModeForgotPassword, authform.ModeResetPassword} {
		route := authform.RouteFor(mode)
		mux.HandleFunc("GET "+route, h.Show(mode))
		mux.HandleFunc("POST "+route, h.Submit(mode))
	}

	mux.HandleFunc("GET /forms/{id}/status", h.Status)
	mux.HandleFunc("POST /forms/{id}/social/{provider}", h.SocialLogin)
	mux.HandleFunc("POST /forms/{id}/close", h.Close)
}

// =============================================================================
// GET /{form} - Display Form
// =============================================================================

// Show mounts a fresh form for mode and renders the page. Toasts carried
// over from a redirect (e.g. "Account Created!") are shown once.
func (h *AuthHandler) Show(mode authform.Mode) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		id, sess, err := h.mount(mode)
		if err != nil {
			InternalErrorResponse(w, r, h.logger, err)
			return
		}

		data := h.formData(id, sess.ctrl.Snapshot())
		data.Toasts = flash.Pop(w, r, h.isSecure)
		h.renderer.RenderHTTP(w, "auth/form", data)
	}
}

// =============================================================================
// POST /{form} - Submit Form
// =============================================================================

// Submit copies the posted values into the live form and submits it.
//
// Flow:
// 1. Find the form named by form_id (mount a new one if it is gone or
// belongs to another mode)
// 2. Update every field the mode requires
// 3. Validate; on failure re-render with inline errors (422)
// 4. Otherwise render the card in its processing state, which polls Status
func (h *AuthHandler) Submit(mode authform.Mode) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		if err := r.ParseForm(); err != nil {
			ErrorResponse(w, r, h.logger, domain.Invalid("handler.Submit", "Malformed form data"))
			return
		}

		id, sess, err := h.resolve(r.PostFormValue(formFieldID), mode)
		if err != nil {
			InternalErrorResponse(w, r, h.logger, err)
			return
		}

		schema, _ := authform.SchemaFor(mode)
		for _, field := range schema.Fields() {
			if err := sess.ctrl.UpdateField(field, r.PostFormValue(string(field))); err != nil {
				InternalErrorResponse(w, r, h.logger, err)
				return
			}
		}

		result := sess.ctrl.Submit()
		snap := sess.ctrl.Snapshot()

		h.logger.Debug("auth form submitted",
			"mode", mode,
			"form_id", id,
			"status", result,
		)

		status := http.StatusOK
		if result == authform.SubmitInvalid {
			if acceptsJSON(r) {
				ValidationErrorResponse(w, r, h.logger, snap.Errors.Err("handler.Submit"))
				return
			}
			status = http.StatusUnprocessableEntity
		}

		h.renderForm(w, r, status, id, snap, sess.outbox.Drain())
	}
}

// =============================================================================
// GET /forms/{id}/status - Poll Submission
// =============================================================================

// Status reports on a submission in flight.
//
// - Still submitting: 204 for htmx (no swap), the processing page otherwise
// - Finished with a redirect: toasts go into the flash cookie, the form is
// torn down and the browser is sent to the next page
// - Finished in place (forgot password, backend failure): the card is
// re-rendered with its toasts
func (h *AuthHandler) Status(w http.ResponseWriter, r *http.Request) {
	id, sess, err := h.forms.Lookup(r.PathValue("id"))
	if err != nil {
		InstanceGoneResponse(w, r, h.logger, err)
		return
	}

	snap := sess.ctrl.Snapshot()
	if snap.Submitting {
		if isHTMX(r) {
			noContent(w)
			return
		}
		h.renderer.RenderHTTP(w, "auth/form", h.formData(id, snap))
		return
	}

	if target := sess.takeRedirect(); target != "" {
		if err := flash.Set(w, sess.outbox.Drain(), h.isSecure); err != nil {
			h.logger.Warn("failed to set flash cookie", "error", err)
		}
		h.forms.Remove(id)
		redirect(w, r, target)
		return
	}

	h.renderForm(w, r, http.StatusOK, id, snap, sess.outbox.Drain())
}

// =============================================================================
// POST /forms/{id}/social/{provider} - Social Login
// =============================================================================

// SocialLogin shows the "Attempting to log in with ..." toast. No
// authentication takes place.
func (h *AuthHandler) SocialLogin(w http.ResponseWriter, r *http.Request) {
	_, sess, err := h.forms.Lookup(r.PathValue("id"))
	if err != nil {
		InstanceGoneResponse(w, r, h.logger, err)
		return
	}

	if err := sess.ctrl.SocialLogin(authform.Provider(r.PathValue("provider"))); err != nil {
		ErrorResponse(w, r, h.logger, err)
		return
	}

	notes := sess.outbox.Drain()
	if isHTMX(r) {
		h.renderer.RenderToasts(w, notes)
		return
	}

	// Without htmx the button posted a whole page; send the browser back to
	// the form with the toast. The old instance expires with the store TTL.
	if err := flash.Set(w, notes, h.isSecure); err != nil {
		h.logger.Warn("failed to set flash cookie", "error", err)
	}
	http.Redirect(w, r, authform.RouteFor(sess.ctrl.Mode()), http.StatusSeeOther)
}

// =============================================================================
// POST /forms/{id}/close - Teardown
// =============================================================================

// Close tears the form down when the page is left. Unknown ids are not an
// error: the instance may already have expired.
func (h *AuthHandler) Close(w http.ResponseWriter, r *http.Request) {
	if id, _, err := h.forms.Lookup(r.PathValue("id")); err == nil {
		h.forms.Remove(id)
	}
	noContent(w)
}

// =============================================================================
// Helper Functions
// =============================================================================

// mount creates a form for mode and stores it.
func (h *AuthHandler) mount(mode authform.Mode) (uuid.UUID, *formSession, error) {
	sess := &formSession{}
	ctrl, err := authform.New(mode, authform.Options{
		Submitter: h.submitter,
		Notifier:  &sess.outbox,
		Navigator: sess,
		Logger:    h.logger,
	})
	if err != nil {
		return uuid.Nil, nil, err
	}
	sess.ctrl = ctrl
	return h.forms.Add(sess), sess, nil
}

// resolve returns the live form named by raw, or mounts a new one when it is
// missing, expired, or was mounted for a different mode.
func (h *AuthHandler) resolve(raw string, mode authform.Mode) (uuid.UUID, *formSession, error) {
	if raw != "" {
		id, sess, err := h.forms.Lookup(raw)
		if err == nil && sess.ctrl.Mode() == mode {
			return id, sess, nil
		}
	}
	return h.mount(mode)
}

// renderForm writes the card alone for htmx and the whole page otherwise.
func (h *AuthHandler) renderForm(w http.ResponseWriter, r *http.Request, status int, id uuid.UUID, snap authform.Snapshot, notes []notify.Notification) {
	data := h.formData(id, snap)
	if isHTMX(r) {
		h.renderer.RenderPartialWithToasts(w, status, "auth_card", data, notes)
		return
	}
	data.Toasts = notes
	h.renderer.RenderHTTPStatus(w, status, "auth/form", data)
}

// formData builds the template data for a snapshot. Password values are
// never echoed back into the page.
// rememberPassword leads back to login from the forgot-password card.
var rememberPassword = authform.FooterPrompt{
	Text:     "Remember your password?",
	Link:     authform.RouteLogin,
	LinkText: "Log in",
}

func (h *AuthHandler) formData(id uuid.UUID, snap authform.Snapshot) authpages.FormPageData {
	views := authform.ViewFields(snap.Mode)
	fields := make([]authpages.FieldData, 0, len(views))
	for _, v := range views {
		value := snap.Fields[v.Field]
		if v.Type == "password" {
			value = ""
		}
		fields = append(fields, authpages.FieldData{
			FieldView: v,
			Value:     value,
			Error:     snap.Errors[v.Field],
		})
	}

	label := snap.Config.ButtonText
	if snap.Submitting {
		label = authform.SubmittingLabel
	}

	formID := id.String()
	data := authpages.FormPageData{
		CurrentPath: authform.RouteFor(snap.Mode),
		FormID:      formID,
		Mode:        snap.Mode,
		Config:      snap.Config,
		Fields:      fields,
		Submitting:  snap.Submitting,
		ButtonLabel: label,
		ShowSocial:  authform.ShowsSocialLogin(snap.Mode),
		Action:      authform.RouteFor(snap.Mode),
		PollURL:     "/forms/" + formID + "/status",
		CloseURL:    "/forms/" + formID + "/close",
	}

	if snap.Mode == authform.ModeForgotPassword {
		data.BackLink = &rememberPassword
	}

	if data.ShowSocial {
		for _, p := range authform.Providers {
			data.Providers = append(data.Providers, authpages.ProviderData{
				ID:    p,
				Label: p.Label(),
				URL:   "/forms/" + formID + "/social/" + string(p),
			})
		}
	}

	return data
}
