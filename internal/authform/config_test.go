package authform

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestConfigFor(t *testing.T) {
	tests := []struct {
		mode       Mode
		title      string
		buttonText string
		footerLink string
	}{
		{ModeLogin, "Welcome Back!", "Log In", RouteSignUp},
		{ModeSignup, "Create an Account", "Sign Up", RouteLogin},
		{ModeForgotPassword, "Forgot Password?", "Send Reset Link", ""},
		{ModeResetPassword, "Set a New Password", "Set New Password", ""},
	}

	for _, tt := range tests {
		t.Run(string(tt.mode), func(t *testing.T) {
			cfg, ok := ConfigFor(tt.mode)
			require.True(t, ok)
			assert.Equal(t, tt.title, cfg.Title)
			assert.Equal(t, tt.buttonText, cfg.ButtonText)
			assert.NotEmpty(t, cfg.Description)
			if tt.footerLink == "" {
				assert.Nil(t, cfg.Footer)
				return
			}
			require.NotNil(t, cfg.Footer)
			assert.Equal(t, tt.footerLink, cfg.Footer.Link)
		})
	}
}

func TestConfigFor_ReturnsCopy(t *testing.T) {
	cfg, _ := ConfigFor(ModeLogin)
	cfg.Title = "changed"
	cfg.Footer.LinkText = "changed"

	again, _ := ConfigFor(ModeLogin)
	assert.Equal(t, "Welcome Back!", again.Title)
	assert.Equal(t, "Sign Up", again.Footer.LinkText)
}

func TestViewFields_MatchSchema(t *testing.T) {
	for _, mode := range Modes {
		t.Run(string(mode), func(t *testing.T) {
			s, _ := SchemaFor(mode)

			var got []Field
			for _, v := range ViewFields(mode) {
				got = append(got, v.Field)
			}
			assert.Equal(t, s.Fields(), got)
		})
	}
}

func TestViewFields_Presentation(t *testing.T) {
	login := ViewFields(ModeLogin)
	require.Len(t, login, 2)
	assert.True(t, login[1].ForgotLink)
	assert.False(t, login[1].Toggle)
	assert.Equal(t, "Password", login[1].Label)

	reset := ViewFields(ModeResetPassword)
	require.Len(t, reset, 2)
	assert.Equal(t, "New Password", reset[0].Label)
	assert.Equal(t, "Confirm New Password", reset[1].Label)
	assert.True(t, reset[0].Toggle)
	assert.True(t, reset[1].Toggle)
	assert.False(t, reset[0].ForgotLink)

	signup := ViewFields(ModeSignup)
	assert.Equal(t, "John Doe", signup[0].Placeholder)
	assert.Equal(t, "email", signup[1].Type)
}

func TestShowsSocialLogin(t *testing.T) {
	assert.True(t, ShowsSocialLogin(ModeLogin))
	assert.True(t, ShowsSocialLogin(ModeSignup))
	assert.False(t, ShowsSocialLogin(ModeForgotPassword))
	assert.False(t, ShowsSocialLogin(ModeResetPassword))
}

func TestProvider(t *testing.T) {
	assert.Equal(t, []Provider{ProviderGitHub, ProviderGoogle}, Providers)
	assert.Equal(t, "GitHub", ProviderGitHub.Label())
	assert.Equal(t, "Google", ProviderGoogle.Label())
	assert.False(t, Provider("twitter").Valid())
}

func TestRouteFor(t *testing.T) {
	assert.Equal(t, "/", RouteFor(ModeLogin))
	assert.Equal(t, "/sign-up", RouteFor(ModeSignup))
	assert.Equal(t, "/forgot-password", RouteFor(ModeForgotPassword))
	assert.Equal(t, "/reset-password", RouteFor(ModeResetPassword))
}

func TestOutcomeFor(t *testing.T) {
	login := OutcomeFor(ModeLogin)
	assert.Equal(t, "Login Successful!", login.Notification.Title)
	assert.Equal(t, RouteAuthSuccess, login.Redirect)

	signup := OutcomeFor(ModeSignup)
	assert.Equal(t, "Account Created!", signup.Notification.Title)
	assert.Equal(t, RouteLogin, signup.Redirect)

	forgot := OutcomeFor(ModeForgotPassword)
	assert.Equal(t, "Password Reset Link Sent", forgot.Notification.Title)
	assert.Empty(t, forgot.Redirect)

	reset := OutcomeFor(ModeResetPassword)
	assert.Equal(t, "Password Updated Successfully!", reset.Notification.Title)
	assert.Equal(t, RouteLogin, reset.Redirect)
}
