package handler

import (
	"encoding/json"
	"errors"
	"io"
	"log/slog"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/DukeRupert/authui/internal/domain"
)

func discardLogger() *slog.Logger {
	return slog.New(slog.NewTextHandler(io.Discard, nil))
}

func TestErrorCodeToHTTPStatus(t *testing.T) {
	tests := map[string]int{
		domain.EINVALID:     http.StatusBadRequest,
		domain.ENOTFOUND:    http.StatusNotFound,
		domain.EUNAVAILABLE: http.StatusServiceUnavailable,
		domain.EINTERNAL:    http.StatusInternalServerError,
		"something-else":    http.StatusInternalServerError,
	}
	for code, want := range tests {
		assert.Equal(t, want, ErrorCodeToHTTPStatus(code), code)
	}
}

func TestErrorResponse_PlainText(t *testing.T) {
	rec := httptest.NewRecorder()
	req := httptest.NewRequest(http.MethodPost, "/forms/x/social/gitlab", nil)

	ErrorResponse(rec, req, discardLogger(), domain.Invalid("authform.SocialLogin", `unknown provider "gitlab"`))

	assert.Equal(t, http.StatusBadRequest, rec.Code)
	assert.Contains(t, rec.Body.String(), `unknown provider "gitlab"`)
	assert.NotContains(t, rec.Body.String(), "authform.SocialLogin")
}

func TestErrorResponse_InternalErrorHidesDetails(t *testing.T) {
	cause := errors.New("template: auth_card:12: nil pointer evaluating .Config")
	err := domain.Internal(cause, "handler.Show", "Rendering failed")

	t.Run("html", func(t *testing.T) {
		rec := httptest.NewRecorder()
		ErrorResponse(rec, httptest.NewRequest(http.MethodGet, "/", nil), discardLogger(), err)

		assert.Equal(t, http.StatusInternalServerError, rec.Code)
		assert.NotContains(t, rec.Body.String(), "nil pointer")
		assert.NotContains(t, rec.Body.String(), "handler.Show")
	})

	t.Run("json", func(t *testing.T) {
		rec := httptest.NewRecorder()
		req := httptest.NewRequest(http.MethodGet, "/", nil)
		req.Header.Set("Accept", "application/json")
		ErrorResponse(rec, req, discardLogger(), err)

		var body JSONError
		require.NoError(t, json.NewDecoder(rec.Body).Decode(&body))
		assert.Equal(t, domain.EINTERNAL, body.Error.Code)
		assert.Equal(t, "An internal error occurred. Please try again later.", body.Error.Message)
	})
}

func TestErrorResponse_UnwrappedErrorIsInternal(t *testing.T) {
	rec := httptest.NewRecorder()
	ErrorResponse(rec, httptest.NewRequest(http.MethodGet, "/", nil), discardLogger(), errors.New("boom"))

	assert.Equal(t, http.StatusInternalServerError, rec.Code)
	assert.NotContains(t, rec.Body.String(), "boom")
}

func TestValidationErrorResponse_JSON(t *testing.T) {
	ve := domain.NewValidationError("handler.Submit").
		Add("email", "Please enter a valid email.").
		Add("password", "Password is required.")

	rec := httptest.NewRecorder()
	req := httptest.NewRequest(http.MethodPost, "/", nil)
	req.Header.Set("Accept", "application/json")
	ValidationErrorResponse(rec, req, discardLogger(), ve)

	assert.Equal(t, http.StatusUnprocessableEntity, rec.Code)
	assert.Equal(t, "application/json", rec.Header().Get("Content-Type"))
	assert.NotContains(t, rec.Body.String(), "handler.Submit")

	var body JSONError
	require.NoError(t, json.NewDecoder(rec.Body).Decode(&body))
	assert.Equal(t, domain.EINVALID, body.Error.Code)
	assert.Equal(t, map[string]string{
		"email":    "Please enter a valid email.",
		"password": "Password is required.",
	}, body.Error.Fields)
}

func TestValidationErrorResponse_HTML(t *testing.T) {
	ve := domain.NewValidationError("handler.Submit").Add("email", "Please enter a valid email.")

	rec := httptest.NewRecorder()
	ValidationErrorResponse(rec, httptest.NewRequest(http.MethodPost, "/", nil), discardLogger(), ve)

	assert.Equal(t, http.StatusUnprocessableEntity, rec.Code)
	assert.NotContains(t, rec.Body.String(), "handler.Submit")
}

func TestValidationErrorResponse_FallsBack(t *testing.T) {
	rec := httptest.NewRecorder()
	ValidationErrorResponse(rec, httptest.NewRequest(http.MethodPost, "/", nil), discardLogger(),
		domain.NotFound("instance.Get", "form", "abc"))

	assert.Equal(t, http.StatusNotFound, rec.Code)
}

func TestInstanceGoneResponse(t *testing.T) {
	err := domain.NotFound("instance.Lookup", "form", "abc")

	t.Run("htmx refreshes", func(t *testing.T) {
		rec := httptest.NewRecorder()
		req := httptest.NewRequest(http.MethodGet, "/forms/abc/status", nil)
		req.Header.Set("HX-Request", "true")
		InstanceGoneResponse(rec, req, discardLogger(), err)

		assert.Equal(t, http.StatusNotFound, rec.Code)
		assert.Equal(t, "true", rec.Header().Get("HX-Refresh"))
	})

	t.Run("plain", func(t *testing.T) {
		rec := httptest.NewRecorder()
		InstanceGoneResponse(rec, httptest.NewRequest(http.MethodGet, "/forms/abc/status", nil), discardLogger(), err)

		assert.Equal(t, http.StatusNotFound, rec.Code)
		assert.Empty(t, rec.Header().Get("HX-Refresh"))
	})
}

func TestNotFoundPage(t *testing.T) {
	renderer := newTestRenderer(t)
	h := NotFoundPage(renderer, discardLogger())

	t.Run("browser", func(t *testing.T) {
		rec := httptest.NewRecorder()
		h.ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/dashboard", nil))

		assert.Equal(t, http.StatusNotFound, rec.Code)
		assert.Contains(t, rec.Body.String(), "Page not found")
		assert.Contains(t, rec.Body.String(), "/dashboard")
	})

	t.Run("json", func(t *testing.T) {
		rec := httptest.NewRecorder()
		req := httptest.NewRequest(http.MethodGet, "/dashboard", nil)
		req.Header.Set("Accept", "application/json")
		h.ServeHTTP(rec, req)

		assert.Equal(t, http.StatusNotFound, rec.Code)
		var body JSONError
		require.NoError(t, json.NewDecoder(rec.Body).Decode(&body))
		assert.Equal(t, domain.ENOTFOUND, body.Error.Code)
		assert.Equal(t, `page "/dashboard" not found`, body.Error.Message)
	})

	t.Run("post", func(t *testing.T) {
		rec := httptest.NewRecorder()
		h.ServeHTTP(rec, httptest.NewRequest(http.MethodPost, "/nowhere", nil))
		assert.Equal(t, http.StatusNotFound, rec.Code)
		assert.NotContains(t, rec.Body.String(), "<html")
	})
}

func TestAcceptsJSON(t *testing.T) {
	req := httptest.NewRequest(http.MethodGet, "/", nil)
	assert.False(t, acceptsJSON(req))

	req.Header.Set("Accept", "application/json")
	assert.True(t, acceptsJSON(req))

	req = httptest.NewRequest(http.MethodGet, "/status.json", nil)
	assert.True(t, acceptsJSON(req))

	req.Header.Set("HX-Request", "true")
	assert.False(t, acceptsJSON(req))

	req.Header.Set("Accept", "application/json")
	assert.False(t, acceptsJSON(req))
}
