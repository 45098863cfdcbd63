package handler

import (
	"encoding/json"
	"errors"
	"log/slog"
	"net/http"
	"strings"

	"github.com/DukeRupert/authui/internal/domain"
	authpages "github.com/DukeRupert/authui/internal/templ/pages/auth"
)

// statusByCode maps domain error codes to HTTP status codes.
var statusByCode = map[string]int{
	domain.EINVALID:     http.StatusBadRequest,
	domain.ENOTFOUND:    http.StatusNotFound,
	domain.EUNAVAILABLE: http.StatusServiceUnavailable,
	domain.EINTERNAL:    http.StatusInternalServerError,
}

// ErrorCodeToHTTPStatus maps a domain error code to an HTTP status code.
// Unknown codes are server errors.
func ErrorCodeToHTTPStatus(code string) int {
	if status, ok := statusByCode[code]; ok {
		return status
	}
	return http.StatusInternalServerError
}

// JSONError is the body of every JSON error response.
type JSONError struct {
	Error struct {
		Code    string            `json:"code"`
		Message string            `json:"message"`
		Fields  map[string]string `json:"fields,omitempty"`
	} `json:"error"`
}

// ErrorResponse writes err to the client: JSON for API requests, plain text
// otherwise. Internal details never leave the server.
func ErrorResponse(w http.ResponseWriter, r *http.Request, logger *slog.Logger, err error) {
	d := domain.Describe(err)
	status := ErrorCodeToHTTPStatus(d.Code)
	logError(logger, r, err, d, status)

	if acceptsJSON(r) {
		writeJSONError(w, status, d, nil)
		return
	}
	http.Error(w, d.Message, status)
}

// ValidationErrorResponse answers a submission that failed field validation
// with 422. JSON clients get the per-field messages.
func ValidationErrorResponse(w http.ResponseWriter, r *http.Request, logger *slog.Logger, err error) {
	var ve *domain.ValidationError
	if !errors.As(err, &ve) {
		ErrorResponse(w, r, logger, err)
		return
	}

	logger.Info("validation error", "op", ve.Op, "fields", ve.FieldNames(), "path", r.URL.Path)

	if acceptsJSON(r) {
		writeJSONError(w, http.StatusUnprocessableEntity, domain.Describe(ve), ve.Fields)
		return
	}
	http.Error(w, "Validation failed. Please check your input and try again.", http.StatusUnprocessableEntity)
}

// NotFoundPage is the catch-all handler. Browsers get the not-found screen;
// API clients and non-GET requests get a plain 404.
func NotFoundPage(renderer TemplateRenderer, logger *slog.Logger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		err := domain.NotFound("handler.NotFoundPage", "page", r.URL.Path)
		if acceptsJSON(r) || r.Method != http.MethodGet {
			ErrorResponse(w, r, logger, err)
			return
		}

		logError(logger, r, err, domain.Describe(err), http.StatusNotFound)
		renderer.RenderHTTPStatus(w, http.StatusNotFound, "auth/not_found", authpages.NotFoundPageData{
			CurrentPath: r.URL.Path,
		})
	}
}

// InstanceGoneResponse answers a request for a form or success screen that
// no longer exists. htmx pollers are told to reload the page, which mounts
// a fresh instance.
func InstanceGoneResponse(w http.ResponseWriter, r *http.Request, logger *slog.Logger, err error) {
	if isHTMX(r) {
		w.Header().Set("HX-Refresh", "true")
	}
	ErrorResponse(w, r, logger, err)
}

// InternalErrorResponse reports an unexpected failure as a generic 500.
func InternalErrorResponse(w http.ResponseWriter, r *http.Request, logger *slog.Logger, err error) {
	ErrorResponse(w, r, logger, domain.Internal(err, "", "unexpected error"))
}

// logError logs server errors at error level and client errors at info.
func logError(logger *slog.Logger, r *http.Request, err error, d domain.Description, status int) {
	attrs := []slog.Attr{
		slog.String("error", err.Error()),
		slog.String("code", d.Code),
		slog.String("path", r.URL.Path),
		slog.String("method", r.Method),
		slog.Int("status", status),
		slog.Bool("htmx", isHTMX(r)),
	}
	if d.Op != "" {
		attrs = append(attrs, slog.String("op", d.Op))
	}

	if status >= http.StatusInternalServerError {
		logger.LogAttrs(r.Context(), slog.LevelError, "server error", attrs...)
		return
	}
	logger.LogAttrs(r.Context(), slog.LevelInfo, "client error", attrs...)
}

// acceptsJSON reports whether the client wants a JSON error body. htmx
// requests always want HTML.
func acceptsJSON(r *http.Request) bool {
	if isHTMX(r) {
		return false
	}
	return strings.Contains(r.Header.Get("Accept"), "application/json") ||
		strings.Contains(r.Header.Get("Content-Type"), "application/json") ||
		strings.HasSuffix(r.URL.Path, ".json")
}

func writeJSONError(w http.ResponseWriter, status int, d domain.Description, fields map[string]string) {
	var body JSONError
	body.Error.Code = d.Code
	body.Error.Message = d.Message
	body.Error.Fields = fields

	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	_ = json.NewEncoder(w).Encode(body)
}
