// Package flash carries toast notifications across a redirect.
//
// A completed form navigates the browser to another page, so the toasts it
// emitted cannot be rendered into the current response. They are stored in a
// short-lived cookie instead:
// 1. The redirecting response sets the cookie
// 2. The next page render reads the cookie and clears it
// 3. The page shows the toasts once
package flash

import (
	"encoding/base64"
	"encoding/json"
	"net/http"

	"github.com/DukeRupert/authui/internal/domain"
	"github.com/DukeRupert/authui/internal/notify"
)

// =============================================================================
// Configuration Constants
// =============================================================================

const (
	// CookieName is the name of the flash cookie.
	CookieName = "authui_flash"

	// CookieMaxAge bounds how long an unread flash survives (1 minute).
	CookieMaxAge = 60

	// maxNotes caps what a single cookie carries.
	maxNotes = 5
)

// =============================================================================
// Cookie Management
// =============================================================================

// Set stores notes in the flash cookie. It does nothing when notes is empty.
//
// Cookie settings:
// - HttpOnly: true - only the server reads it
// - SameSite: Lax - survives the top-level redirect
func Set(w http.ResponseWriter, notes []notify.Notification, isSecure bool) error {
	if len(notes) == 0 {
		return nil
	}
	if len(notes) > maxNotes {
		notes = notes[len(notes)-maxNotes:]
	}

	value, err := encode(notes)
	if err != nil {
		return domain.Internal(err, "flash.Set", "failed to encode flash")
	}

	http.SetCookie(w, &http.Cookie{
		Name:     CookieName,
		Value:    value,
		Path:     "/",
		MaxAge:   CookieMaxAge,
		HttpOnly: true,
		Secure:   isSecure,
		SameSite: http.SameSiteLaxMode,
	})
	return nil
}

// Pop returns the notes stored in the request's flash cookie and clears it.
// A missing or corrupt cookie yields no notes.
func Pop(w http.ResponseWriter, r *http.Request, isSecure bool) []notify.Notification {
	cookie, err := r.Cookie(CookieName)
	if err != nil {
		return nil
	}

	http.SetCookie(w, &http.Cookie{
		Name:     CookieName,
		Value:    "",
		Path:     "/",
		MaxAge:   -1, // Delete immediately
		HttpOnly: true,
		Secure:   isSecure,
		SameSite: http.SameSiteLaxMode,
	})

	notes, err := decode(cookie.Value)
	if err != nil {
		return nil
	}
	return notes
}

// =============================================================================
// Encoding
// =============================================================================

func encode(notes []notify.Notification) (string, error) {
	b, err := json.Marshal(notes)
	if err != nil {
		return "", err
	}
	return base64.RawURLEncoding.EncodeToString(b), nil
}

func decode(value string) ([]notify.Notification, error) {
	b, err := base64.RawURLEncoding.DecodeString(value)
	if err != nil {
		return nil, err
	}

	var notes []notify.Notification
	if err := json.Unmarshal(b, &notes); err != nil {
		return nil, err
	}

	valid := notes[:0]
	for _, n := range notes {
		if n.Kind.Valid() && n.Title != "" {
			valid = append(valid, n)
		}
	}
	return valid, nil
}
