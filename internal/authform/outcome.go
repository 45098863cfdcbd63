package authform

import (
	"fmt"

	"github.com/DukeRupert/authui/internal/notify"
)

// Outcome is what a completed submission announces and where it goes next.
// An empty Redirect keeps the form on screen.
type Outcome struct {
	Notification notify.Notification
	Redirect     string
}

// OutcomeFor returns the result of a successful submission in mode.
func OutcomeFor(mode Mode) Outcome {
	switch mode {
	case ModeLogin:
		return Outcome{
			Notification: notify.Success("Login Successful!", "Redirecting you to the dashboard..."),
			Redirect:     RouteAuthSuccess,
		}
	case ModeSignup:
		return Outcome{
			Notification: notify.Success("Account Created!", "Please log in to continue."),
			Redirect:     RouteLogin,
		}
	case ModeForgotPassword:
		return Outcome{
			Notification: notify.Info("Password Reset Link Sent", "If an account exists, you will receive an email."),
		}
	case ModeResetPassword:
		return Outcome{
			Notification: notify.Success("Password Updated Successfully!", "Please log in with your new password."),
			Redirect:     RouteLogin,
		}
	}
	return Outcome{}
}

// failureNotification is emitted when the Submitter reports an error.
func failureNotification(mode Mode) notify.Notification {
	cfg, _ := ConfigFor(mode)
	return notify.Error("Something went wrong", fmt.Sprintf("%s could not be completed. Please try again.", cfg.ButtonText))
}

// socialNotification is the stub response to a social login button.
func socialNotification(p Provider) notify.Notification {
	return notify.Info(fmt.Sprintf("Attempting to log in with %s...", p), "")
}
