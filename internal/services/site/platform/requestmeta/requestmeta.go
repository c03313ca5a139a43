// Package requestmeta resolves request scheme and same-origin proof.
package requestmeta

import (
	"net/http"
	"net/url"
	"strings"
)

// SchemePolicy controls how the request scheme is resolved.
//
// X-Forwarded-Proto is only honoured when TrustForwardedProto is set.
type SchemePolicy struct {
	TrustForwardedProto bool
}

// IsHTTPS reports whether a request should be treated as HTTPS.
func IsHTTPS(r *http.Request, policy SchemePolicy) bool {
	return scheme(r, policy) == "https"
}

// HasSameOriginProof reports whether Origin, or Referer when Origin is
// absent, names the same scheme, host and port as the request.
func HasSameOriginProof(r *http.Request, policy SchemePolicy) bool {
	if r == nil {
		return false
	}
	want := origin{scheme: scheme(r, policy)}
	want.host, want.port = splitHost(r.Host)
	if want.host == "" {
		return false
	}
	if want.port == "" {
		want.port = defaultPort(want.scheme)
	}

	raw := strings.TrimSpace(r.Header.Get("Origin"))
	if raw == "" {
		raw = strings.TrimSpace(r.Header.Get("Referer"))
	}
	if raw == "" {
		return false
	}
	got, ok := parseOrigin(raw)
	return ok && got == want
}

type origin struct {
	scheme string
	host   string
	port   string
}

func parseOrigin(raw string) (origin, bool) {
	parsed, err := url.Parse(raw)
	if err != nil {
		return origin{}, false
	}
	o := origin{
		scheme: strings.ToLower(parsed.Scheme),
		host:   strings.ToLower(parsed.Hostname()),
		port:   parsed.Port(),
	}
	if o.scheme == "" || o.host == "" {
		return origin{}, false
	}
	if o.port == "" {
		o.port = defaultPort(o.scheme)
	}
	return o, true
}

func scheme(r *http.Request, policy SchemePolicy) string {
	if r == nil {
		return ""
	}
	if policy.TrustForwardedProto {
		switch forwarded := strings.ToLower(strings.TrimSpace(r.Header.Get("X-Forwarded-Proto"))); forwarded {
		case "http", "https":
			return forwarded
		}
	}
	if r.TLS != nil {
		return "https"
	}
	return "http"
}

func splitHost(raw string) (string, string) {
	parsed, err := url.Parse("//" + strings.TrimSpace(raw))
	if err != nil {
		return "", ""
	}
	return strings.ToLower(parsed.Hostname()), parsed.Port()
}

func defaultPort(scheme string) string {
	switch scheme {
	case "https":
		return "443"
	case "http":
		return "80"
	default:
		return ""
	}
}
