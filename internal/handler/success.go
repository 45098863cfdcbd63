package handler

import (
	"log/slog"
	"net/http"
	"time"

	"github.com/google/uuid"
	"github.com/jonboulle/clockwork"

	"github.com/DukeRupert/authui/internal/flash"
	"github.com/DukeRupert/authui/internal/instance"
	"github.com/DukeRupert/authui/internal/navigation"
	authpages "github.com/DukeRupert/authui/internal/templ/pages/auth"
	"github.com/DukeRupert/authui/internal/templ/partials"
)

// =============================================================================
// Handler Configuration
// =============================================================================

// successSession is one mounted success screen.
type successSession struct {
	effect *navigation.Effect
}

func (s *successSession) Close() {
	s.effect.Close()
}

// SuccessTiming configures the success screen. Zero values take the
// navigation package defaults.
type SuccessTiming struct {
	Tick          time.Duration
	RedirectAfter time.Duration
	Target        string
}

// SuccessHandler serves the post-login success screen: a progress bar the
// browser polls and a redirect once the delay has passed.
//
// Routes handled:
// - GET  /auth-success                -> Show
// - GET  /auth-success/{id}/progress  -> Progress
// - POST /auth-success/{id}/close     -> Close
type SuccessHandler struct {
	effects  *instance.Store[*successSession]
	clock    clockwork.Clock
	timing   SuccessTiming
	renderer TemplateRenderer
	logger   *slog.Logger
	isSecure bool
}

// NewSuccessHandler creates a new SuccessHandler.
func NewSuccessHandler(
	clock clockwork.Clock,
	timing SuccessTiming,
	renderer TemplateRenderer,
	logger *slog.Logger,
	isSecure bool,
	limits InstanceLimits,
) *SuccessHandler {
	return &SuccessHandler{
		effects:  instance.NewStore[*successSession]("success", limits.Size, limits.TTL),
		clock:    clock,
		timing:   timing,
		renderer: renderer,
		logger:   logger,
		isSecure: isSecure,
	}
}

// Shutdown stops every live success screen.
func (h *SuccessHandler) Shutdown() {
	h.effects.Close()
}

// RegisterRoutes registers the success screen routes on the provided mux.
func (h *SuccessHandler) RegisterRoutes(mux *http.ServeMux) {
	mux.HandleFunc("GET /auth-success", h.Show)
	mux.HandleFunc("GET /auth-success/{id}/progress", h.Progress)
	mux.HandleFunc("POST /auth-success/{id}/close", h.Close)
}

// =============================================================================
// GET /auth-success - Display Success Screen
// =============================================================================

// Show mounts a success screen and starts its timers.
func (h *SuccessHandler) Show(w http.ResponseWriter, r *http.Request) {
	effect, err := navigation.New(navigation.Options{
		Clock: h.clock,
		Navigator: navigation.NavigatorFunc(func(path string) {
			h.logger.Debug("success screen redirect due", "target", path)
		}),
		Tick:          h.timing.Tick,
		RedirectAfter: h.timing.RedirectAfter,
		Target:        h.timing.Target,
		Logger:        h.logger,
	})
	if err != nil {
		InternalErrorResponse(w, r, h.logger, err)
		return
	}

	id := h.effects.Add(&successSession{effect: effect})
	effect.Start()

	h.renderer.RenderHTTP(w, "auth/success", authpages.SuccessPageData{
		CurrentPath:  r.URL.Path,
		ProgressData: h.progressData(id, effect),
		Toasts:       flash.Pop(w, r, h.isSecure),
	})
}

// =============================================================================
// GET /auth-success/{id}/progress - Poll Progress
// =============================================================================

// Progress returns the current bar. Once the redirect has fired the screen
// is torn down and the browser is sent to the target.
func (h *SuccessHandler) Progress(w http.ResponseWriter, r *http.Request) {
	id, sess, err := h.effects.Lookup(r.PathValue("id"))
	if err != nil {
		InstanceGoneResponse(w, r, h.logger, err)
		return
	}

	if sess.effect.Redirected() {
		target := sess.effect.Target()
		h.effects.Remove(id)
		redirect(w, r, target)
		return
	}

	data := h.progressData(id, sess.effect)
	if isHTMX(r) {
		h.renderer.RenderPartial(w, "progress", data)
		return
	}
	h.renderer.RenderHTTP(w, "auth/success", authpages.SuccessPageData{
		CurrentPath:  "/auth-success",
		ProgressData: data,
	})
}

// =============================================================================
// POST /auth-success/{id}/close - Teardown
// =============================================================================

// Close stops the screen's timers when the page is left.
func (h *SuccessHandler) Close(w http.ResponseWriter, r *http.Request) {
	if id, _, err := h.effects.Lookup(r.PathValue("id")); err == nil {
		h.effects.Remove(id)
	}
	noContent(w)
}

func (h *SuccessHandler) progressData(id uuid.UUID, effect *navigation.Effect) partials.ProgressData {
	effectID := id.String()
	return partials.ProgressData{
		EffectID:  effectID,
		Progress:  effect.Progress(),
		PollURL:   "/auth-success/" + effectID + "/progress",
		PollEvery: effect.Tick().String(),
		CloseURL:  "/auth-success/" + effectID + "/close",
	}
}
