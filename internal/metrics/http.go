package metrics

import (
	"net/http"
	"regexp"
	"strconv"
	"time"
)

// instancePattern matches the form/success-screen instance ids embedded in paths.
var instancePattern = regexp.MustCompile(`[0-9a-fA-F]{8}-[0-9a-fA-F]{4}-[0-9a-fA-F]{4}-[0-9a-fA-F]{4}-[0-9a-fA-F]{12}`)

// knownPaths bounds the path label. Anything else (typos, scanners, /dashboard)
// is recorded as "other".
var knownPaths = func() map[string]bool {
	paths := []string{
		"/",
		"/sign-up",
		"/forgot-password",
		"/reset-password",
		"/auth-success",
		"/health",
		"/forms/{id}/status",
		"/forms/{id}/close",
		"/forms/{id}/social/github",
		"/forms/{id}/social/google",
		"/auth-success/{id}/progress",
		"/auth-success/{id}/close",
	}
	m := make(map[string]bool, len(paths))
	for _, p := range paths {
		m[p] = true
	}
	return m
}()

// statusRecorder wraps http.ResponseWriter to capture the status code
type statusRecorder struct {
	http.ResponseWriter
	statusCode  int
	wroteHeader bool
}

func (rw *statusRecorder) WriteHeader(code int) {
	if !rw.wroteHeader {
		rw.statusCode = code
		rw.wroteHeader = true
	}
	rw.ResponseWriter.WriteHeader(code)
}

func (rw *statusRecorder) Write(b []byte) (int, error) {
	rw.wroteHeader = true
	return rw.ResponseWriter.Write(b)
}

// Unwrap returns the underlying ResponseWriter for middleware compatibility
func (rw *statusRecorder) Unwrap() http.ResponseWriter {
	return rw.ResponseWriter
}

// NormalizePath replaces instance ids with {id} and folds unknown paths
// into "other" to keep label cardinality fixed.
func NormalizePath(path string) string {
	normalized := instancePattern.ReplaceAllString(path, "{id}")
	if knownPaths[normalized] {
		return normalized
	}
	return "other"
}

// Middleware records HTTP request metrics
func Middleware(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		// Skip metrics endpoint to avoid recursion
		if r.URL.Path == "/metrics" {
			next.ServeHTTP(w, r)
			return
		}

		HTTPRequestsInFlight.Inc()
		defer HTTPRequestsInFlight.Dec()

		start := time.Now()
		rw := &statusRecorder{ResponseWriter: w, statusCode: http.StatusOK}

		next.ServeHTTP(rw, r)

		path := NormalizePath(r.URL.Path)
		HTTPRequestsTotal.WithLabelValues(r.Method, path, strconv.Itoa(rw.statusCode)).Inc()
		HTTPRequestDuration.WithLabelValues(r.Method, path).Observe(time.Since(start).Seconds())
	})
}
