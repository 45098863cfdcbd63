package authform

// FooterPrompt is the "Don't have an account? Sign Up" line under a form.
type FooterPrompt struct {
	Text     string
	Link     string
	LinkText string
}

// Config is the presentational copy for one mode.
type Config struct {
	Title       string
	Description string
	ButtonText  string
	Footer      *FooterPrompt // nil for forgot-password and reset-password
}

var configs = map[Mode]Config{
	ModeLogin: {
		Title:       "Welcome Back!",
		Description: "Enter your credentials to access your account.",
		ButtonText:  "Log In",
		Footer: &FooterPrompt{
			Text:     "Don't have an account?",
			Link:     RouteSignUp,
			LinkText: "Sign Up",
		},
	},
	ModeSignup: {
		Title:       "Create an Account",
		Description: "Enter your information to create a new account.",
		ButtonText:  "Sign Up",
		Footer: &FooterPrompt{
			Text:     "Already have an account?",
			Link:     RouteLogin,
			LinkText: "Log In",
		},
	},
	ModeForgotPassword: {
		Title:       "Forgot Password?",
		Description: "Enter your email and we'll send you a reset link.",
		ButtonText:  "Send Reset Link",
	},
	ModeResetPassword: {
		Title:       "Set a New Password",
		Description: "Create a new strong password for your account.",
		ButtonText:  "Set New Password",
	},
}

// ConfigFor returns the copy for mode. The returned value is a copy; callers
// cannot change the registry.
func ConfigFor(mode Mode) (Config, bool) {
	c, ok := configs[mode]
	if !ok {
		return Config{}, false
	}
	if c.Footer != nil {
		footer := *c.Footer
		c.Footer = &footer
	}
	return c, true
}

// SubmittingLabel replaces the button text while a submission is in flight.
const SubmittingLabel = "Processing..."

// FieldView describes how one input renders.
type FieldView struct {
	Field       Field
	Label       string
	Type        string
	Placeholder string
	// ForgotLink shows "Forgot password?" beside the label (login only).
	ForgotLink bool
	// Toggle offers a show/hide control on password inputs.
	Toggle bool
}

// ViewFields returns the inputs mode renders, in order. The set always equals
// the mode's schema fields.
func ViewFields(mode Mode) []FieldView {
	var views []FieldView
	if mode == ModeSignup {
		views = append(views, FieldView{
			Field:       FieldName,
			Label:       "Name",
			Type:        "text",
			Placeholder: "John Doe",
		})
	}
	if mode == ModeLogin || mode == ModeSignup || mode == ModeForgotPassword {
		views = append(views, FieldView{
			Field:       FieldEmail,
			Label:       "Email",
			Type:        "email",
			Placeholder: "name@example.com",
		})
	}
	if mode == ModeLogin || mode == ModeSignup || mode == ModeResetPassword {
		label := "Password"
		if mode == ModeResetPassword {
			label = "New Password"
		}
		views = append(views, FieldView{
			Field:       FieldPassword,
			Label:       label,
			Type:        "password",
			Placeholder: "••••••••",
			ForgotLink:  mode == ModeLogin,
			Toggle:      mode == ModeResetPassword,
		})
	}
	if mode == ModeResetPassword {
		views = append(views, FieldView{
			Field:       FieldConfirmPassword,
			Label:       "Confirm New Password",
			Type:        "password",
			Placeholder: "••••••••",
			Toggle:      true,
		})
	}
	return views
}

// Provider is a social login provider.
type Provider string

const (
	ProviderGitHub Provider = "github"
	ProviderGoogle Provider = "google"
)

// Providers lists the social buttons in display order.
var Providers = []Provider{ProviderGitHub, ProviderGoogle}

func (p Provider) Valid() bool {
	return p == ProviderGitHub || p == ProviderGoogle
}

// Label is the button text.
func (p Provider) Label() string {
	switch p {
	case ProviderGitHub:
		return "GitHub"
	case ProviderGoogle:
		return "Google"
	}
	return string(p)
}

// ShowsSocialLogin reports whether mode renders the social buttons and the
// "Or continue with" separator.
func ShowsSocialLogin(mode Mode) bool {
	return mode == ModeLogin || mode == ModeSignup
}
