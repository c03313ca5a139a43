package site

import (
	"context"
	"errors"
	"io"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"github.com/s2design/site/internal/services/site/backend"
	"github.com/s2design/site/internal/services/site/inquiry"
	"github.com/s2design/site/internal/services/site/platform/requestmeta"
	"github.com/s2design/site/internal/services/site/platform/session"
	"github.com/s2design/site/internal/services/site/sitecontent"
	"github.com/s2design/site/internal/testkit/sitefakes"
	"go.uber.org/goleak"
)

type closerFunc func() error

func (f closerFunc) Close() error { return f() }

func testConfig(t *testing.T) Config {
	t.Helper()
	sessions, err := session.NewManager("0123456789abcdef0123456789abcdef", time.Hour, requestmeta.SchemePolicy{})
	if err != nil {
		t.Fatalf("NewManager() error = %v", err)
	}
	content, err := sitecontent.NewStore("", nil)
	if err != nil {
		t.Fatalf("NewStore() error = %v", err)
	}
	api := &sitefakes.API{
		Categories: []backend.Category{{ID: "1", Name: "Office", Slug: "office"}},
		Portfolio:  []backend.PortfolioItem{{ID: "1", Src: "/p1.jpg", Alt: "Lobby", Width: 4, Height: 3, Category: "office"}},
	}
	return Config{
		HTTPAddr:  "127.0.0.1:0",
		API:       api,
		Content:   content,
		Inquiries: inquiry.NewBackendSink(api),
		Sessions:  sessions,
	}
}

func TestNewServerRequiresHTTPAddress(t *testing.T) {
	t.Parallel()

	cfg := testConfig(t)
	cfg.HTTPAddr = " "
	if _, err := NewServer(context.Background(), cfg); err == nil {
		t.Fatal("expected missing address error")
	}
}

func TestNewHandlerRequiresDependencies(t *testing.T) {
	t.Parallel()

	tests := map[string]func(*Config){
		"api":      func(c *Config) { c.API = nil },
		"inquiry":  func(c *Config) { c.Inquiries = nil },
		"content":  func(c *Config) { c.Content = nil },
		"sessions": func(c *Config) { c.Sessions = nil },
	}
	for name, mutate := range tests {
		t.Run(name, func(t *testing.T) {
			t.Parallel()
			cfg := testConfig(t)
			mutate(&cfg)
			if _, err := NewHandler(cfg); err == nil {
				t.Fatal("NewHandler() error = nil")
			}
		})
	}
}

func TestHandlerServesModulesAndStatic(t *testing.T) {
	t.Parallel()

	h, err := NewHandler(testConfig(t))
	if err != nil {
		t.Fatalf("NewHandler() error = %v", err)
	}

	tests := []struct {
		path     string
		status   int
		location string
		body     string
	}{
		{path: "/", status: http.StatusOK, body: "S2 Design Interior"},
		{path: "/healthz", status: http.StatusOK, body: `"status":"ok"`},
		{path: "/static/site.css", status: http.StatusOK, body: "--brown-700"},
		{path: "/static/site.js", status: http.StatusOK, body: "data-lightbox"},
		{path: "/static/logo.svg", status: http.StatusOK, body: "<svg"},
		{path: "/admin/login", status: http.StatusOK, body: `name="password"`},
		{path: "/admin/projects", status: http.StatusFound, location: "/admin/login?next=%2Fadmin%2Fprojects"},
		{path: "/nowhere", status: http.StatusNotFound},
	}
	for _, tc := range tests {
		rr := httptest.NewRecorder()
		h.ServeHTTP(rr, httptest.NewRequest(http.MethodGet, tc.path, nil))
		if rr.Code != tc.status {
			t.Fatalf("GET %s status = %d, want %d", tc.path, rr.Code, tc.status)
		}
		if tc.location != "" && rr.Header().Get("Location") != tc.location {
			t.Fatalf("GET %s Location = %q, want %q", tc.path, rr.Header().Get("Location"), tc.location)
		}
		if !strings.Contains(rr.Body.String(), tc.body) {
			t.Fatalf("GET %s body missing %q", tc.path, tc.body)
		}
		if rr.Header().Get("X-Request-ID") == "" {
			t.Fatalf("GET %s missing request id", tc.path)
		}
	}
}

func TestListenAndServeStopsOnCancel(t *testing.T) {
	defer goleak.VerifyNone(t, goleak.IgnoreCurrent())

	server, err := NewServer(context.Background(), testConfig(t))
	if err != nil {
		t.Fatalf("NewServer() error = %v", err)
	}
	ctx, cancel := context.WithCancel(context.Background())
	done := make(chan error, 1)
	go func() { done <- server.ListenAndServe(ctx) }()
	time.Sleep(20 * time.Millisecond)
	cancel()
	select {
	case err := <-done:
		if err != nil {
			t.Fatalf("ListenAndServe() error = %v", err)
		}
	case <-time.After(5 * time.Second):
		t.Fatal("server did not stop")
	}
	server.Close()
}

func TestListenAndServeRequiresContext(t *testing.T) {
	t.Parallel()

	var nilServer *Server
	if err := nilServer.ListenAndServe(context.Background()); err == nil {
		t.Fatal("expected nil server error")
	}
	server, err := NewServer(context.Background(), testConfig(t))
	if err != nil {
		t.Fatalf("NewServer() error = %v", err)
	}
	//nolint:staticcheck // nil context is the case under test.
	if err := server.ListenAndServe(nil); err == nil {
		t.Fatal("expected nil context error")
	}
}

func TestCloseClosesResources(t *testing.T) {
	t.Parallel()

	cfg := testConfig(t)
	var closed []string
	cfg.Resources = []io.Closer{
		closerFunc(func() error { closed = append(closed, "cache"); return nil }),
		nil,
		closerFunc(func() error { closed = append(closed, "amqp"); return errors.New("already closed") }),
	}
	server, err := NewServer(context.Background(), cfg)
	if err != nil {
		t.Fatalf("NewServer() error = %v", err)
	}
	server.Close()
	server.Close()
	if strings.Join(closed, ",") != "cache,amqp" {
		t.Fatalf("closed = %v, want cache then amqp once", closed)
	}
}
