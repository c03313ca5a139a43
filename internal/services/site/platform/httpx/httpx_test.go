package httpx

import (
	"io"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/andybalholm/brotli"
	apperrors "github.com/s2design/site/internal/services/site/platform/errors"
	"go.uber.org/zap"
	"go.uber.org/zap/zapcore"
	"go.uber.org/zap/zaptest/observer"
)

func TestChainAppliesMiddlewareInDeclarationOrder(t *testing.T) {
	t.Parallel()

	var order []string
	mark := func(name string) Middleware {
		return func(next http.Handler) http.Handler {
			return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
				order = append(order, name)
				next.ServeHTTP(w, r)
			})
		}
	}
	h := Chain(http.HandlerFunc(func(http.ResponseWriter, *http.Request) {
		order = append(order, "handler")
	}), mark("a"), nil, mark("b"))
	h.ServeHTTP(httptest.NewRecorder(), httptest.NewRequest(http.MethodGet, "/", nil))

	if got := strings.Join(order, ","); got != "a,b,handler" {
		t.Fatalf("order = %q", got)
	}
}

func TestMethodNotAllowed(t *testing.T) {
	t.Parallel()

	rr := httptest.NewRecorder()
	MethodNotAllowed(" GET, HEAD ")(rr, httptest.NewRequest(http.MethodPost, "/", nil))
	if rr.Code != http.StatusMethodNotAllowed {
		t.Fatalf("status = %d", rr.Code)
	}
	if got := rr.Header().Get("Allow"); got != "GET, HEAD" {
		t.Fatalf("Allow = %q", got)
	}
}

func TestRequestIDGeneratesAndPreserves(t *testing.T) {
	t.Parallel()

	var seen string
	h := RequestID()(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		seen = RequestIDFromContext(r.Context())
	}))

	rr := httptest.NewRecorder()
	h.ServeHTTP(rr, httptest.NewRequest(http.MethodGet, "/", nil))
	if seen == "" || rr.Header().Get("X-Request-ID") != seen {
		t.Fatalf("generated id = %q header = %q", seen, rr.Header().Get("X-Request-ID"))
	}

	req := httptest.NewRequest(http.MethodGet, "/", nil)
	req.Header.Set("X-Request-ID", "abc-123")
	rr = httptest.NewRecorder()
	h.ServeHTTP(rr, req)
	if seen != "abc-123" {
		t.Fatalf("preserved id = %q", seen)
	}
}

func TestRecoverPanicWrites500AndLogs(t *testing.T) {
	t.Parallel()

	core, logs := observer.New(zapcore.ErrorLevel)
	h := RecoverPanic(zap.New(core))(http.HandlerFunc(func(http.ResponseWriter, *http.Request) {
		panic("boom")
	}))
	rr := httptest.NewRecorder()
	h.ServeHTTP(rr, httptest.NewRequest(http.MethodGet, "/explode", nil))

	if rr.Code != http.StatusInternalServerError {
		t.Fatalf("status = %d", rr.Code)
	}
	if logs.FilterMessage("panic recovered").Len() != 1 {
		t.Fatalf("expected one panic log, got %d", logs.Len())
	}
}

func TestRequestLoggerRecordsStatus(t *testing.T) {
	t.Parallel()

	core, logs := observer.New(zapcore.DebugLevel)
	h := RequestLogger(zap.New(core))(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusTeapot)
		_, _ = io.WriteString(w, "short")
	}))
	h.ServeHTTP(httptest.NewRecorder(), httptest.NewRequest(http.MethodGet, "/portfolio", nil))

	entries := logs.FilterMessage("http request").All()
	if len(entries) != 1 {
		t.Fatalf("entries = %d", len(entries))
	}
	fields := entries[0].ContextMap()
	if fields["status"] != int64(http.StatusTeapot) {
		t.Fatalf("status field = %v", fields["status"])
	}
	if fields["bytes"] != int64(5) {
		t.Fatalf("bytes field = %v", fields["bytes"])
	}
	if fields["path"] != "/portfolio" {
		t.Fatalf("path field = %v", fields["path"])
	}
}

func TestCompressEncodesTextForBrotliClients(t *testing.T) {
	t.Parallel()

	body := strings.Repeat("<p>Transform Your Space Into Art</p>", 50)
	h := Compress()(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		_ = WriteHTML(w, http.StatusOK, body)
	}))

	req := httptest.NewRequest(http.MethodGet, "/", nil)
	req.Header.Set("Accept-Encoding", "gzip, br")
	rr := httptest.NewRecorder()
	h.ServeHTTP(rr, req)

	if got := rr.Header().Get("Content-Encoding"); got != "br" {
		t.Fatalf("Content-Encoding = %q", got)
	}
	decoded, err := io.ReadAll(brotli.NewReader(rr.Body))
	if err != nil {
		t.Fatalf("decode: %v", err)
	}
	if string(decoded) != body {
		t.Fatal("decoded body mismatch")
	}
}

func TestCompressSkipsOtherClientsAndBinary(t *testing.T) {
	t.Parallel()

	h := Compress()(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("Content-Type", r.URL.Query().Get("type"))
		_, _ = io.WriteString(w, "payload")
	}))

	req := httptest.NewRequest(http.MethodGet, "/?type=text/plain", nil)
	req.Header.Set("Accept-Encoding", "gzip")
	rr := httptest.NewRecorder()
	h.ServeHTTP(rr, req)
	if rr.Header().Get("Content-Encoding") != "" || rr.Body.String() != "payload" {
		t.Fatalf("unexpected encoding for gzip-only client")
	}

	req = httptest.NewRequest(http.MethodGet, "/?type=image/png", nil)
	req.Header.Set("Accept-Encoding", "br")
	rr = httptest.NewRecorder()
	h.ServeHTTP(rr, req)
	if rr.Header().Get("Content-Encoding") != "" {
		t.Fatalf("binary response should not be compressed")
	}
}

func TestAcceptsBrotli(t *testing.T) {
	t.Parallel()

	tests := map[string]bool{
		"":               false,
		"gzip":           false,
		"br":             true,
		"gzip, br;q=0.8": true,
		"br;q=0":         false,
		"BR":             true,
	}
	for header, want := range tests {
		if got := acceptsBrotli(header); got != want {
			t.Fatalf("acceptsBrotli(%q) = %v, want %v", header, got, want)
		}
	}
}

func TestWriteRedirect(t *testing.T) {
	t.Parallel()

	rr := httptest.NewRecorder()
	WriteRedirect(rr, httptest.NewRequest(http.MethodGet, "/", nil), "/admin/login")
	if rr.Code != http.StatusFound || rr.Header().Get("Location") != "/admin/login" {
		t.Fatalf("GET redirect = %d %q", rr.Code, rr.Header().Get("Location"))
	}

	rr = httptest.NewRecorder()
	WriteRedirect(rr, httptest.NewRequest(http.MethodPost, "/", nil), "/admin/")
	if rr.Code != http.StatusSeeOther {
		t.Fatalf("POST redirect status = %d", rr.Code)
	}

	req := httptest.NewRequest(http.MethodPost, "/", nil)
	req.Header.Set("HX-Request", "true")
	rr = httptest.NewRecorder()
	WriteRedirect(rr, req, "/admin/")
	if rr.Code != http.StatusOK || rr.Header().Get("HX-Redirect") != "/admin/" {
		t.Fatalf("htmx redirect = %d %q", rr.Code, rr.Header().Get("HX-Redirect"))
	}
}

func TestWriteErrorUsesTypedStatus(t *testing.T) {
	t.Parallel()

	rr := httptest.NewRecorder()
	WriteError(rr, apperrors.E(apperrors.KindNotFound, "missing"))
	if rr.Code != http.StatusNotFound {
		t.Fatalf("status = %d", rr.Code)
	}
}

func TestHTMXTarget(t *testing.T) {
	t.Parallel()

	req := httptest.NewRequest(http.MethodGet, "/", nil)
	req.Header.Set("HX-Target", "portfolio-grid")
	if HTMXTarget(req) != "" {
		t.Fatal("non-htmx request should have no target")
	}
	req.Header.Set("HX-Request", "true")
	if got := HTMXTarget(req); got != "portfolio-grid" {
		t.Fatalf("HTMXTarget() = %q", got)
	}
}
