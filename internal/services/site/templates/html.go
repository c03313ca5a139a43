// Package templates renders the site's pages as templ components.
package templates

import (
	"context"
	"fmt"
	"io"
	"strconv"
	"strings"

	"github.com/a-h/templ"
	"golang.org/x/text/message"
)

// Localizer provides translated strings for components.
type Localizer interface {
	Sprintf(key message.Reference, args ...any) string
}

// T returns a translated string or a key-derived fallback.
func T(loc Localizer, key message.Reference, args ...any) string {
	if loc != nil {
		return loc.Sprintf(key, args...)
	}
	if keyString, ok := key.(string); ok {
		if len(args) > 0 {
			return fmt.Sprintf(keyString, args...)
		}
		return keyString
	}
	return ""
}

// PageContext is the request state every component may need.
type PageContext struct {
	Lang  string
	Loc   Localizer
	Path  string
	Query string
	CSRF  string
}

// T translates key in the page language.
func (pc PageContext) T(key string, args ...any) string {
	return T(pc.Loc, key, args...)
}

// Toast is a one-time notice shown at the top of the page.
type Toast struct {
	Kind    string
	Title   string
	Message string
}

// html accumulates markup and remembers the first write error.
type html struct {
	w   io.Writer
	err error
}

func newHTML(w io.Writer) *html { return &html{w: w} }

func (h *html) raw(parts ...string) {
	for _, part := range parts {
		if h.err != nil {
			return
		}
		_, h.err = io.WriteString(h.w, part)
	}
}

// text writes escaped character data.
func (h *html) text(s string) { h.raw(templ.EscapeString(s)) }

// attr writes ` name="value"` with value escaped.
func (h *html) attr(name, value string) {
	h.raw(" ", name, `="`, templ.EscapeString(value), `"`)
}

// href writes a sanitized URL attribute.
func (h *html) href(name, value string) {
	h.attr(name, string(templ.URL(value)))
}

func (h *html) attrIf(cond bool, name, value string) {
	if cond {
		h.attr(name, value)
	}
}

// flag writes a boolean attribute.
func (h *html) flag(cond bool, name string) {
	if cond {
		h.raw(" ", name)
	}
}

// open writes a start tag with class and any extra attribute pairs.
func (h *html) open(tag, class string, attrs ...string) {
	h.raw("<", tag)
	if class != "" {
		h.attr("class", class)
	}
	for i := 0; i+1 < len(attrs); i += 2 {
		h.attr(attrs[i], attrs[i+1])
	}
	h.raw(">")
}

func (h *html) close(tag string) { h.raw("</", tag, ">") }

// el writes a complete element with escaped text content.
func (h *html) el(tag, class, content string, attrs ...string) {
	h.open(tag, class, attrs...)
	h.text(content)
	h.close(tag)
}

func (h *html) render(ctx context.Context, c templ.Component) {
	if h.err != nil || c == nil {
		return
	}
	h.err = c.Render(ctx, h.w)
}

func component(fn func(ctx context.Context, h *html)) templ.Component {
	return templ.ComponentFunc(func(ctx context.Context, w io.Writer) error {
		h := newHTML(w)
		fn(ctx, h)
		return h.err
	})
}

// Fragments renders components in order.
func Fragments(parts ...templ.Component) templ.Component {
	return component(func(ctx context.Context, h *html) {
		for _, part := range parts {
			h.render(ctx, part)
		}
	})
}

func itoa(n int) string { return strconv.Itoa(n) }

func classes(parts ...string) string {
	out := make([]string, 0, len(parts))
	for _, part := range parts {
		if part = strings.TrimSpace(part); part != "" {
			out = append(out, part)
		}
	}
	return strings.Join(out, " ")
}
