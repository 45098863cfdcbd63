// Package authform implements the authentication form flows: which fields a
// form mode shows, how they are validated, and what a simulated submission does.
package authform

import (
	"fmt"
	"strings"

	"github.com/DukeRupert/authui/internal/domain"
)

// Mode selects one of the four authentication flows.
type Mode string

const (
	ModeLogin          Mode = "login"
	ModeSignup         Mode = "signup"
	ModeForgotPassword Mode = "forgot-password"
	ModeResetPassword  Mode = "reset-password"
)

// Modes lists every mode in display order.
var Modes = []Mode{ModeLogin, ModeSignup, ModeForgotPassword, ModeResetPassword}

// ParseMode converts s into a Mode.
func ParseMode(s string) (Mode, error) {
	m := Mode(strings.TrimSpace(s))
	if !m.Valid() {
		return "", domain.Invalid("authform.ParseMode", fmt.Sprintf("unknown form mode %q", s))
	}
	return m, nil
}

func (m Mode) Valid() bool {
	switch m {
	case ModeLogin, ModeSignup, ModeForgotPassword, ModeResetPassword:
		return true
	}
	return false
}

func (m Mode) String() string {
	return string(m)
}

// Field names a form input.
type Field string

const (
	FieldName            Field = "name"
	FieldEmail           Field = "email"
	FieldPassword        Field = "password"
	FieldConfirmPassword Field = "confirmPassword"
)

// FieldSet holds the current value of every field a mode requires.
type FieldSet map[Field]string

func (fs FieldSet) clone() FieldSet {
	out := make(FieldSet, len(fs))
	for k, v := range fs {
		out[k] = v
	}
	return out
}

// ValidationErrors maps each invalid field to its message. Empty means valid.
type ValidationErrors map[Field]string

// Valid reports whether no rule was violated.
func (ve ValidationErrors) Valid() bool {
	return len(ve) == 0
}

// Err converts ve into a *domain.ValidationError, or nil when valid.
func (ve ValidationErrors) Err(op string) error {
	if ve.Valid() {
		return nil
	}
	out := domain.NewValidationError(op)
	for field, msg := range ve {
		out.Add(string(field), msg)
	}
	return out
}

func (ve ValidationErrors) clone() ValidationErrors {
	if ve == nil {
		return nil
	}
	out := make(ValidationErrors, len(ve))
	for k, v := range ve {
		out[k] = v
	}
	return out
}
