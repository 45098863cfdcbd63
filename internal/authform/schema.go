package authform

import (
	"errors"
	"fmt"
	"reflect"
	"regexp"
	"strings"
	"sync"

	"github.com/go-playground/validator/v10"
)

var (
	validatorInstance *validator.Validate
	validatorOnce     sync.Once
)

// getValidator returns the shared validator. Errors are reported under the
// `form` tag name so they line up with Field values.
func getValidator() *validator.Validate {
	validatorOnce.Do(func() {
		validatorInstance = validator.New(validator.WithRequiredStructEnabled())
		validatorInstance.RegisterTagNameFunc(func(fld reflect.StructField) string {
			name := strings.SplitN(fld.Tag.Get("form"), ",", 2)[0]
			if name == "-" {
				return ""
			}
			return name
		})
		if err := validatorInstance.RegisterValidation("useremail", validateUserEmail); err != nil {
			panic(err)
		}
	})
	return validatorInstance
}

// userEmailPattern accepts an unquoted local part and a domain whose top
// level is at least two letters.
var userEmailPattern = regexp.MustCompile(`(?i)^[a-z0-9_'+\-.]*[a-z0-9_+-]@([a-z0-9][a-z0-9-]*\.)+[a-z]{2,}$`)

func validateUserEmail(fl validator.FieldLevel) bool {
	s := fl.Field().String()
	if strings.HasPrefix(s, ".") || strings.Contains(s, "..") {
		return false
	}
	return userEmailPattern.MatchString(s)
}

// One struct per mode. The struct is the rule set: its fields are exactly the
// mode's FieldSet and its tags are the rules.

type loginForm struct {
	Email    string `form:"email" validate:"useremail"`
	Password string `form:"password" validate:"min=1"`
}

type signupForm struct {
	Name     string `form:"name" validate:"min=2"`
	Email    string `form:"email" validate:"useremail"`
	Password string `form:"password" validate:"min=8"`
}

type forgotPasswordForm struct {
	Email string `form:"email" validate:"useremail"`
}

type resetPasswordForm struct {
	Password        string `form:"password" validate:"min=8"`
	ConfirmPassword string `form:"confirmPassword" validate:"eqfield=Password"`
}

const (
	msgEmail          = "Please enter a valid email address."
	msgPasswordMin8   = "Password must be at least 8 characters."
	msgPasswordNeeded = "Password is required."
)

// Schema is the validation rule set for one mode.
type Schema struct {
	mode     Mode
	fields   []Field
	bind     func(FieldSet) any
	messages map[string]string
}

var schemas = map[Mode]Schema{
	ModeLogin: {
		mode:   ModeLogin,
		fields: []Field{FieldEmail, FieldPassword},
		bind: func(fs FieldSet) any {
			return &loginForm{Email: fs[FieldEmail], Password: fs[FieldPassword]}
		},
		messages: map[string]string{
			"email.useremail": msgEmail,
			"password.min":    msgPasswordNeeded,
		},
	},
	ModeSignup: {
		mode:   ModeSignup,
		fields: []Field{FieldName, FieldEmail, FieldPassword},
		bind: func(fs FieldSet) any {
			return &signupForm{Name: fs[FieldName], Email: fs[FieldEmail], Password: fs[FieldPassword]}
		},
		messages: map[string]string{
			"name.min":        "Name must be at least 2 characters.",
			"email.useremail": msgEmail,
			"password.min":    msgPasswordMin8,
		},
	},
	ModeForgotPassword: {
		mode:   ModeForgotPassword,
		fields: []Field{FieldEmail},
		bind: func(fs FieldSet) any {
			return &forgotPasswordForm{Email: fs[FieldEmail]}
		},
		messages: map[string]string{
			"email.useremail": "Please enter a valid email address to reset your password.",
		},
	},
	ModeResetPassword: {
		mode:   ModeResetPassword,
		fields: []Field{FieldPassword, FieldConfirmPassword},
		bind: func(fs FieldSet) any {
			return &resetPasswordForm{Password: fs[FieldPassword], ConfirmPassword: fs[FieldConfirmPassword]}
		},
		messages: map[string]string{
			"password.min":            msgPasswordMin8,
			"confirmPassword.eqfield": "Passwords do not match.",
		},
	},
}

// SchemaFor returns the rule set for mode.
func SchemaFor(mode Mode) (Schema, bool) {
	s, ok := schemas[mode]
	return s, ok
}

// Mode returns the mode the schema belongs to.
func (s Schema) Mode() Mode {
	return s.mode
}

// Fields returns the fields the mode requires, in display order.
func (s Schema) Fields() []Field {
	out := make([]Field, len(s.fields))
	copy(out, s.fields)
	return out
}

// Has reports whether field belongs to the schema.
func (s Schema) Has(field Field) bool {
	for _, f := range s.fields {
		if f == field {
			return true
		}
	}
	return false
}

// NewFieldSet returns a FieldSet with an empty value for every field.
func (s Schema) NewFieldSet() FieldSet {
	fs := make(FieldSet, len(s.fields))
	for _, f := range s.fields {
		fs[f] = ""
	}
	return fs
}

// Validate checks fs against every rule and returns one entry per violated
// rule. Missing keys read as empty strings; extra keys are ignored.
func (s Schema) Validate(fs FieldSet) ValidationErrors {
	err := getValidator().Struct(s.bind(fs))
	if err == nil {
		return nil
	}

	var verrs validator.ValidationErrors
	if !errors.As(err, &verrs) {
		// Only reachable if bind stops returning a struct pointer.
		panic(fmt.Sprintf("authform: schema %s is not a struct: %v", s.mode, err))
	}

	out := make(ValidationErrors, len(verrs))
	for _, fe := range verrs {
		field := Field(fe.Field())
		msg, ok := s.messages[fe.Field()+"."+fe.Tag()]
		if !ok {
			msg = fmt.Sprintf("%s is invalid.", fe.Field())
		}
		out[field] = msg
	}
	return out
}
