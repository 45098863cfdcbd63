// Package notify models the toast notifications shown by the auth screens.
package notify

import (
	"sync"

	"golang.org/x/text/cases"
	"golang.org/x/text/language"
)

// Kind selects the styling of a notification.
type Kind string

const (
	KindSuccess Kind = "success"
	KindInfo    Kind = "info"
	KindError   Kind = "error"
)

// Valid reports whether k is a known kind.
func (k Kind) Valid() bool {
	switch k {
	case KindSuccess, KindInfo, KindError:
		return true
	}
	return false
}

// Label is the display form of the kind, e.g. "Success".
func (k Kind) Label() string {
	return cases.Title(language.English).String(string(k))
}

// Notification is a fire-and-forget message for the notification surface.
type Notification struct {
	Kind        Kind   `json:"kind"`
	Title       string `json:"title"`
	Description string `json:"description,omitempty"`
}

func Success(title, description string) Notification {
	return Notification{Kind: KindSuccess, Title: title, Description: description}
}

func Info(title, description string) Notification {
	return Notification{Kind: KindInfo, Title: title, Description: description}
}

func Error(title, description string) Notification {
	return Notification{Kind: KindError, Title: title, Description: description}
}

// Outbox collects notifications until the next response drains them.
// Safe for concurrent use.
type Outbox struct {
	mu    sync.Mutex
	items []Notification
}

// Notify queues n.
func (o *Outbox) Notify(n Notification) {
	o.mu.Lock()
	defer o.mu.Unlock()
	o.items = append(o.items, n)
}

// Drain returns the queued notifications in emission order and empties the outbox.
func (o *Outbox) Drain() []Notification {
	o.mu.Lock()
	defer o.mu.Unlock()
	items := o.items
	o.items = nil
	return items
}
