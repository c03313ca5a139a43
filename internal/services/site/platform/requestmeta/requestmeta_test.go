package requestmeta

import (
	"crypto/tls"
	"net/http"
	"net/http/httptest"
	"testing"
)

func TestIsHTTPS(t *testing.T) {
	plain := httptest.NewRequest(http.MethodGet, "http://example.com/", nil)
	if IsHTTPS(plain, SchemePolicy{}) {
		t.Fatal("plain request should not be https")
	}

	tlsReq := httptest.NewRequest(http.MethodGet, "https://example.com/", nil)
	tlsReq.TLS = &tls.ConnectionState{}
	if !IsHTTPS(tlsReq, SchemePolicy{}) {
		t.Fatal("tls request should be https")
	}

	forwarded := httptest.NewRequest(http.MethodGet, "http://example.com/", nil)
	forwarded.Header.Set("X-Forwarded-Proto", "https")
	if IsHTTPS(forwarded, SchemePolicy{}) {
		t.Fatal("forwarded proto must be ignored without trust")
	}
	if !IsHTTPS(forwarded, SchemePolicy{TrustForwardedProto: true}) {
		t.Fatal("forwarded proto should be honoured with trust")
	}
}

func TestHasSameOriginProof(t *testing.T) {
	tests := []struct {
		name    string
		host    string
		origin  string
		referer string
		want    bool
	}{
		{name: "matching origin", host: "example.com", origin: "http://example.com", want: true},
		{name: "matching explicit port", host: "example.com:80", origin: "http://example.com", want: true},
		{name: "matching referer", host: "localhost:8080", referer: "http://localhost:8080/admin/projects", want: true},
		{name: "other host", host: "example.com", origin: "http://evil.test", want: false},
		{name: "other port", host: "localhost:8080", origin: "http://localhost:9090", want: false},
		{name: "scheme mismatch", host: "example.com", origin: "https://example.com", want: false},
		{name: "no proof", host: "example.com", want: false},
		{name: "origin wins over referer", host: "example.com", origin: "http://evil.test", referer: "http://example.com/", want: false},
	}
	for _, tc := range tests {
		t.Run(tc.name, func(t *testing.T) {
			req := httptest.NewRequest(http.MethodPost, "/admin/projects", nil)
			req.Host = tc.host
			if tc.origin != "" {
				req.Header.Set("Origin", tc.origin)
			}
			if tc.referer != "" {
				req.Header.Set("Referer", tc.referer)
			}
			if got := HasSameOriginProof(req, SchemePolicy{}); got != tc.want {
				t.Fatalf("HasSameOriginProof() = %v, want %v", got, tc.want)
			}
		})
	}
}

func TestHasSameOriginProofNilRequest(t *testing.T) {
	if HasSameOriginProof(nil, SchemePolicy{}) {
		t.Fatal("nil request should not prove origin")
	}
}
