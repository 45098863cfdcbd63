package handler

import (
	"net/http"
)

// =============================================================================
// htmx Helpers
// =============================================================================

// isHTMX reports whether the request was issued by htmx.
func isHTMX(r *http.Request) bool {
	return r.Header.Get("HX-Request") == "true"
}

// redirect sends the browser to path. htmx requests get an HX-Redirect
// header so the whole page navigates; everything else gets a 303.
func redirect(w http.ResponseWriter, r *http.Request, path string) {
	if isHTMX(r) {
		w.Header().Set("HX-Redirect", path)
		w.WriteHeader(http.StatusOK)
		return
	}
	http.Redirect(w, r, path, http.StatusSeeOther)
}

// noContent tells an htmx poller that nothing changed.
func noContent(w http.ResponseWriter) {
	w.WriteHeader(http.StatusNoContent)
}
