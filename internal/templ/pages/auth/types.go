package auth

import (
	"github.com/DukeRupert/authui/internal/authform"
	"github.com/DukeRupert/authui/internal/notify"
	"github.com/DukeRupert/authui/internal/templ/partials"
)

// FormPageData contains data for the auth form page and the auth_card partial.
type FormPageData struct {
	CurrentPath string          // Current URL path
	FormID      string          // Live form instance id
	Mode        authform.Mode   // Which flow the card renders
	Config      authform.Config // Title, description, button and footer copy
	Fields      []FieldData     // Inputs in display order
	Submitting  bool            // Disables every control and starts polling
	ButtonLabel string          // Config.ButtonText, or "Processing..." while submitting
	ShowSocial  bool            // Render the "Or continue with" buttons
	Providers   []ProviderData
	BackLink    *authform.FooterPrompt // Link back to login on screens without a footer
	Action      string // Form POST target (the page's own path)
	PollURL     string // Status endpoint polled while submitting
	CloseURL    string // Teardown endpoint hit on pagehide
	Toasts      []notify.Notification
}

// FieldData is one input with its current value and inline error.
type FieldData struct {
	authform.FieldView
	Value string
	Error string
}

// ProviderData is one social login button.
type ProviderData struct {
	ID    authform.Provider
	Label string
	URL   string
}

// SuccessPageData contains data for the post-login success page.
type SuccessPageData struct {
	CurrentPath string
	partials.ProgressData
	Toasts []notify.Notification
}

// NotFoundPageData contains data for the not-found page.
type NotFoundPageData struct {
	CurrentPath string
	Toasts      []notify.Notification
}
