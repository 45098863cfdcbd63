package partials

// ProgressData contains data for the success-screen progress partial.
type ProgressData struct {
	EffectID  string // Live success-screen instance id
	Progress  int    // Fill percentage, 10 to 100
	PollURL   string // Progress endpoint
	PollEvery string // htmx interval, e.g. "600ms"
	CloseURL  string // Teardown endpoint hit on pagehide
}
