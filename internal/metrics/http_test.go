package metrics

import (
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/prometheus/client_golang/prometheus/testutil"
	"github.com/stretchr/testify/assert"
)

func TestNormalizePath(t *testing.T) {
	tests := []struct {
		path string
		want string
	}{
		{"/", "/"},
		{"/sign-up", "/sign-up"},
		{"/forms/3f1c2a8e-9b7d-4c1e-8f0a-1234567890ab/status", "/forms/{id}/status"},
		{"/forms/3f1c2a8e-9b7d-4c1e-8f0a-1234567890ab/social/github", "/forms/{id}/social/github"},
		{"/auth-success/3f1c2a8e-9b7d-4c1e-8f0a-1234567890ab/progress", "/auth-success/{id}/progress"},
		{"/dashboard", "other"},
		{"/wp-admin.php", "other"},
	}

	for _, tt := range tests {
		t.Run(tt.path, func(t *testing.T) {
			assert.Equal(t, tt.want, NormalizePath(tt.path))
		})
	}
}

func TestMiddleware_RecordsStatus(t *testing.T) {
	handler := Middleware(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusUnprocessableEntity)
	}))

	before := testutil.ToFloat64(HTTPRequestsTotal.WithLabelValues("POST", "/sign-up", "422"))

	req := httptest.NewRequest("POST", "/sign-up", nil)
	rec := httptest.NewRecorder()
	handler.ServeHTTP(rec, req)

	after := testutil.ToFloat64(HTTPRequestsTotal.WithLabelValues("POST", "/sign-up", "422"))
	assert.Equal(t, before+1, after)
	assert.Equal(t, http.StatusUnprocessableEntity, rec.Code)
}

func TestMiddleware_SkipsMetricsEndpoint(t *testing.T) {
	handler := Middleware(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusOK)
	}))

	before := testutil.ToFloat64(HTTPRequestsTotal.WithLabelValues("GET", "other", "200"))

	req := httptest.NewRequest("GET", "/metrics", nil)
	handler.ServeHTTP(httptest.NewRecorder(), req)

	assert.Equal(t, before, testutil.ToFloat64(HTTPRequestsTotal.WithLabelValues("GET", "other", "200")))
}
