package httpx

import (
	"io"
	"net/http"
	"strings"

	"github.com/andybalholm/brotli"
)

const compressLevel = 5

var compressibleTypes = []string{
	"text/",
	"application/json",
	"application/javascript",
	"image/svg+xml",
}

// Compress brotli-encodes text responses for clients that accept "br".
func Compress() Middleware {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			if r.Method == http.MethodHead || !acceptsBrotli(r.Header.Get("Accept-Encoding")) {
				next.ServeHTTP(w, r)
				return
			}
			cw := &compressWriter{ResponseWriter: w}
			defer cw.close()
			next.ServeHTTP(cw, r)
		})
	}
}

type compressWriter struct {
	http.ResponseWriter
	enc         io.WriteCloser
	wroteHeader bool
}

func (c *compressWriter) WriteHeader(code int) {
	if c.wroteHeader {
		return
	}
	c.wroteHeader = true
	h := c.Header()
	h.Add("Vary", "Accept-Encoding")
	if compressible(code, h) {
		h.Del("Content-Length")
		h.Set("Content-Encoding", "br")
		c.enc = brotli.NewWriterLevel(c.ResponseWriter, compressLevel)
	}
	c.ResponseWriter.WriteHeader(code)
}

func (c *compressWriter) Write(p []byte) (int, error) {
	if !c.wroteHeader {
		if c.Header().Get("Content-Type") == "" {
			c.Header().Set("Content-Type", http.DetectContentType(p))
		}
		c.WriteHeader(http.StatusOK)
	}
	if c.enc != nil {
		return c.enc.Write(p)
	}
	return c.ResponseWriter.Write(p)
}

func (c *compressWriter) Unwrap() http.ResponseWriter {
	return c.ResponseWriter
}

func (c *compressWriter) close() {
	if c.enc != nil {
		_ = c.enc.Close()
	}
}

func compressible(code int, h http.Header) bool {
	if code < http.StatusOK || code == http.StatusNoContent || code == http.StatusNotModified {
		return false
	}
	if h.Get("Content-Encoding") != "" {
		return false
	}
	contentType := strings.ToLower(h.Get("Content-Type"))
	for _, prefix := range compressibleTypes {
		if strings.HasPrefix(contentType, prefix) {
			return true
		}
	}
	return false
}

func acceptsBrotli(header string) bool {
	for _, part := range strings.Split(header, ",") {
		name, params, _ := strings.Cut(strings.TrimSpace(part), ";")
		if !strings.EqualFold(strings.TrimSpace(name), "br") {
			continue
		}
		params = strings.ReplaceAll(params, " ", "")
		return params != "q=0" && params != "q=0.0" && params != "q=0.00" && params != "q=0.000"
	}
	return false
}
