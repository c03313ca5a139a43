// Package httpx provides HTTP middleware and response helpers used by site modules.
package httpx

import (
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"strings"

	apperrors "github.com/s2design/site/internal/services/site/platform/errors"
)

const (
	htmxHeader         = "HX-Request"
	htmxRedirectHeader = "HX-Redirect"
	htmxTargetHeader   = "HX-Target"
)

// Middleware wraps an HTTP handler.
type Middleware func(http.Handler) http.Handler

// Chain applies middleware in declaration order.
func Chain(handler http.Handler, middleware ...Middleware) http.Handler {
	if handler == nil {
		handler = http.NotFoundHandler()
	}
	wrapped := handler
	for idx := len(middleware) - 1; idx >= 0; idx-- {
		if middleware[idx] == nil {
			continue
		}
		wrapped = middleware[idx](wrapped)
	}
	return wrapped
}

// MethodNotAllowed writes a 405 response with an Allow header.
func MethodNotAllowed(allow string) http.HandlerFunc {
	return func(w http.ResponseWriter, _ *http.Request) {
		w.Header().Set("Allow", strings.TrimSpace(allow))
		w.WriteHeader(http.StatusMethodNotAllowed)
	}
}

// WriteJSON writes a JSON response with the provided status code.
func WriteJSON(w http.ResponseWriter, status int, payload any) error {
	if w == nil {
		return fmt.Errorf("response writer is required")
	}
	w.Header().Set("Content-Type", "application/json; charset=utf-8")
	w.WriteHeader(status)
	return json.NewEncoder(w).Encode(payload)
}

// WriteError writes a plain error response using typed status mapping.
func WriteError(w http.ResponseWriter, err error) {
	if w == nil {
		return
	}
	if err == nil {
		w.WriteHeader(http.StatusOK)
		return
	}
	http.Error(w, http.StatusText(apperrors.HTTPStatus(err)), apperrors.HTTPStatus(err))
}

// RequestContext returns r.Context() with a nil-safe fallback to context.Background().
func RequestContext(r *http.Request) context.Context {
	if r == nil {
		return context.Background()
	}
	return r.Context()
}

// IsHTMXRequest reports whether the current request came from htmx.
func IsHTMXRequest(r *http.Request) bool {
	if r == nil {
		return false
	}
	return r.Header.Get(htmxHeader) == "true"
}

// HTMXTarget returns the id of the element htmx will swap, if any.
func HTMXTarget(r *http.Request) string {
	if !IsHTMXRequest(r) {
		return ""
	}
	return strings.TrimSpace(r.Header.Get(htmxTargetHeader))
}

// WriteHTML writes an HTML payload with the provided status code.
func WriteHTML(w http.ResponseWriter, status int, payload string) error {
	if w == nil {
		return fmt.Errorf("response writer is required")
	}
	w.Header().Set("Content-Type", "text/html; charset=utf-8")
	w.WriteHeader(status)
	_, err := io.WriteString(w, payload)
	return err
}

// WriteRedirect writes an htmx-aware redirect response. Form posts redirect
// with 303 so the browser follows with GET.
func WriteRedirect(w http.ResponseWriter, r *http.Request, location string) {
	if w == nil {
		return
	}
	if IsHTMXRequest(r) {
		w.Header().Set(htmxRedirectHeader, location)
		w.WriteHeader(http.StatusOK)
		return
	}
	status := http.StatusFound
	if r != nil && r.Method != http.MethodGet && r.Method != http.MethodHead {
		status = http.StatusSeeOther
	}
	if r == nil {
		w.Header().Set("Location", location)
		w.WriteHeader(status)
		return
	}
	http.Redirect(w, r, location, status)
}
