package middleware

import (
	"bytes"
	"log/slog"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func serveLogged(t *testing.T, status int, req *http.Request) string {
	t.Helper()
	var buf bytes.Buffer
	logger := slog.New(slog.NewTextHandler(&buf, &slog.HandlerOptions{Level: slog.LevelInfo}))

	next := http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(status)
	})
	rec := httptest.NewRecorder()
	NewRequestLoggingMiddleware(logger).Handler(next).ServeHTTP(rec, req)
	require.Equal(t, status, rec.Code)
	return buf.String()
}

func TestRequestLoggingMiddleware_LogsRequest(t *testing.T) {
	req := httptest.NewRequest(http.MethodPost, "/sign-up", nil)
	req.RemoteAddr = "10.0.0.1:8080"
	req.Header.Set("X-Forwarded-For", "203.0.113.195, 10.0.0.1")
	req.Header.Set("User-Agent", "Mozilla/5.0 TestBrowser")
	req.Header.Set("HX-Request", "true")

	out := serveLogged(t, http.StatusUnprocessableEntity, req)

	assert.Contains(t, out, "level=INFO")
	assert.Contains(t, out, "method=POST")
	assert.Contains(t, out, "path=/sign-up")
	assert.Contains(t, out, "status=422")
	assert.Contains(t, out, "duration_ms=")
	assert.Contains(t, out, "ip=203.0.113.195")
	assert.Contains(t, out, "TestBrowser")
	assert.Contains(t, out, "htmx=true")
}

func TestRequestLoggingMiddleware_ServerErrorsWarn(t *testing.T) {
	req := httptest.NewRequest(http.MethodGet, "/forms/0b6f7c2e-3f1a-4c8e-9d51-7a0f2b9c4e11/status", nil)
	out := serveLogged(t, http.StatusInternalServerError, req)
	assert.Contains(t, out, "level=WARN")
}

func TestRequestLoggingMiddleware_PollsLogAtDebug(t *testing.T) {
	for _, path := range []string{
		"/forms/0b6f7c2e-3f1a-4c8e-9d51-7a0f2b9c4e11/status",
		"/forms/0b6f7c2e-3f1a-4c8e-9d51-7a0f2b9c4e11/close",
		"/auth-success/0b6f7c2e-3f1a-4c8e-9d51-7a0f2b9c4e11/progress",
	} {
		t.Run(path, func(t *testing.T) {
			req := httptest.NewRequest(http.MethodGet, path, nil)
			assert.Empty(t, serveLogged(t, http.StatusNoContent, req))
		})
	}
}

func TestRequestLoggingMiddleware_FailedPollsStayVisible(t *testing.T) {
	req := httptest.NewRequest(http.MethodGet, "/forms/unknown/status", nil)
	out := serveLogged(t, http.StatusNotFound, req)
	assert.Contains(t, out, "status=404")
}

func TestRequestLoggingMiddleware_SkipsHealthAndMetrics(t *testing.T) {
	for _, path := range []string{"/health", "/metrics"} {
		req := httptest.NewRequest(http.MethodGet, path, nil)
		assert.Empty(t, serveLogged(t, http.StatusOK, req), path)
	}
}

func TestRequestLoggingMiddleware_RedactsResetToken(t *testing.T) {
	req := httptest.NewRequest(http.MethodGet, "/reset-password?token=abc123secret&utm=mail", nil)
	out := serveLogged(t, http.StatusOK, req)

	assert.NotContains(t, out, "abc123secret")
	assert.Contains(t, out, "token=[REDACTED]")
	assert.Contains(t, out, "utm=mail")
}

func TestSanitizePath(t *testing.T) {
	tests := []struct {
		path, query, want string
	}{
		{"/", "", "/"},
		{"/sign-up", "email=a@b.co", "/sign-up?email=[REDACTED]"},
		{"/reset-password", "Token=x", "/reset-password?Token=[REDACTED]"},
		{"/forgot-password", "flag", "/forgot-password"},
		{"/", "ref=nav", "/?ref=nav"},
	}
	for _, tt := range tests {
		assert.Equal(t, tt.want, sanitizePath(tt.path, tt.query))
	}
}

func TestGetClientIP(t *testing.T) {
	req := httptest.NewRequest(http.MethodGet, "/", nil)
	req.RemoteAddr = "192.168.1.1:12345"
	assert.Equal(t, "192.168.1.1", getClientIP(req))

	req.Header.Set("X-Real-IP", " 198.51.100.7 ")
	assert.Equal(t, "198.51.100.7", getClientIP(req))

	req.Header.Set("X-Forwarded-For", "203.0.113.195")
	assert.Equal(t, "203.0.113.195", getClientIP(req))

	req = httptest.NewRequest(http.MethodGet, "/", nil)
	req.RemoteAddr = "unix"
	assert.Equal(t, "unix", getClientIP(req))
}

func TestStack_Order(t *testing.T) {
	var calls []string
	tag := func(name string) func(http.Handler) http.Handler {
		return func(next http.Handler) http.Handler {
			return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
				calls = append(calls, name)
				next.ServeHTTP(w, r)
			})
		}
	}
	final := http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		calls = append(calls, "handler")
	})

	Stack(tag("outer"), tag("inner"))(final).ServeHTTP(httptest.NewRecorder(), httptest.NewRequest(http.MethodGet, "/", nil))
	assert.Equal(t, []string{"outer", "inner", "handler"}, calls)
}
