package authform

// Paths the auth screens link and navigate to.
const (
	RouteLogin          = "/"
	RouteSignUp         = "/sign-up"
	RouteForgotPassword = "/forgot-password"
	RouteResetPassword  = "/reset-password"
	RouteAuthSuccess    = "/auth-success"
)

// RouteFor returns the page that hosts the form for mode.
func RouteFor(mode Mode) string {
	switch mode {
	case ModeSignup:
		return RouteSignUp
	case ModeForgotPassword:
		return RouteForgotPassword
	case ModeResetPassword:
		return RouteResetPassword
	default:
		return RouteLogin
	}
}
