package handler

import (
	"context"
	"html/template"
	"time"

	twmerge "github.com/Oudwins/tailwind-merge-go"
	"github.com/a-h/templ"

	"github.com/DukeRupert/authui/internal/notify"
	"github.com/DukeRupert/authui/internal/templ/components/toast"
)

// TemplateFuncs returns a FuncMap with custom template functions
func TemplateFuncs() template.FuncMap {
	return template.FuncMap{
		// Date/Time functions
		"year": func() int {
			return time.Now().Year()
		},

		// Conditional/Logic functions
		"ternary": func(condition bool, trueVal, falseVal interface{}) interface{} {
			if condition {
				return trueVal
			}
			return falseVal
		},

		// Class helpers: later classes win over conflicting earlier ones
		"cn": func(classes ...string) string {
			return twmerge.Merge(classes...)
		},

		// Toast rendering for full-page responses
		"toasts": func(notes []notify.Notification) (template.HTML, error) {
			return templ.ToGoHTML(context.Background(), toast.List(notes, false))
		},
	}
}
