// Package httpx writes the JSON bodies of the public API: plain payloads and
// the shared error envelope.
package httpx

import (
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"strings"

	"github.com/go-chi/chi/v5/middleware"

	"github.com/bandipurcablecar/website-sub001/internal/platform/requestctx"
)

// Error codes shared by the API handlers.
const (
	CodeInvalidPath           = "invalid_path"
	CodeInvalidParameter      = "invalid_parameter"
	CodeRouteNotFound         = "route_not_found"
	CodeMethodNotAllowed      = "method_not_allowed"
	CodeDependencyUnavailable = "dependency_unavailable"
	CodeInternal              = "internal_server_error"
)

// Error is an API failure. Path, when set, echoes the request path the error
// concerns.
type Error struct {
	Code    string
	Message string
	Status  int
	Path    string
}

type envelope struct {
	Code      string `json:"error"`
	Message   string `json:"message"`
	Status    int    `json:"status"`
	Path      string `json:"path,omitempty"`
	RequestID string `json:"request_id,omitempty"`
	TraceID   string `json:"trace_id,omitempty"`
}

// NewError constructs an Error. A zero status means 500.
func NewError(code, message string, status int) Error {
	if status == 0 {
		status = http.StatusInternalServerError
	}
	return Error{
		Code:    sanitize(code, 80),
		Message: sanitize(message, 512),
		Status:  status,
	}
}

// InvalidParameter reports a missing or unusable query parameter.
func InvalidParameter(name, message string) Error {
	code := CodeInvalidParameter
	if name == "path" {
		code = CodeInvalidPath
	}
	return NewError(code, message, http.StatusBadRequest)
}

// RouteNotFound reports a request outside every registered API route.
func RouteNotFound(path string) Error {
	e := NewError(CodeRouteNotFound, "no route for "+path, http.StatusNotFound)
	e.Path = sanitize(path, 256)
	return e
}

// MethodNotAllowed reports a request method the route does not serve.
func MethodNotAllowed(method, path string) Error {
	e := NewError(CodeMethodNotAllowed, fmt.Sprintf("method %s not allowed", method), http.StatusMethodNotAllowed)
	e.Path = sanitize(path, 256)
	return e
}

// Unavailable reports a handler whose backing component was not wired.
func Unavailable(dependency string) Error {
	return NewError(CodeDependencyUnavailable, dependency+" is not configured", http.StatusServiceUnavailable)
}

// Internal is the body sent after a recovered panic.
func Internal() Error {
	return NewError(CodeInternal, "internal server error", http.StatusInternalServerError)
}

// WriteError writes err as the JSON envelope, stamped with the request and
// trace identifiers found on ctx.
func WriteError(ctx context.Context, w http.ResponseWriter, err Error) {
	status := err.Status
	if status == 0 {
		status = http.StatusInternalServerError
	}
	WriteJSON(w, status, envelope{
		Code:      err.Code,
		Message:   err.Message,
		Status:    status,
		Path:      err.Path,
		RequestID: sanitize(middleware.GetReqID(ctx), 80),
		TraceID:   sanitize(requestctx.TraceID(ctx), 64),
	})
}

// WriteJSON encodes payload with the given status. Encoding failures are
// ignored because the header has already been sent.
func WriteJSON(w http.ResponseWriter, status int, payload any) {
	w.Header().Set("Content-Type", "application/json; charset=utf-8")
	w.WriteHeader(status)
	_ = json.NewEncoder(w).Encode(payload)
}

func sanitize(value string, limit int) string {
	value = strings.Map(func(r rune) rune {
		if r == '\n' || r == '\r' || r == '\t' {
			return ' '
		}
		return r
	}, value)
	value = strings.TrimSpace(value)
	if len(value) > limit {
		value = value[:limit]
	}
	return value
}
