package templates

import (
	"context"
	"strings"

	"github.com/a-h/templ"
	"github.com/s2design/site/internal/services/site/routepath"
)

const htmxScript = "https://unpkg.com/htmx.org@2.0.4/dist/htmx.min.js"

// LanguageLink is one entry of the language switcher.
type LanguageLink struct {
	Code   string
	Label  string
	Href   string
	Active bool
}

// LayoutOptions configures the document shell.
type LayoutOptions struct {
	Title       string
	Description string
	BodyClass   string
	Languages   []LanguageLink
	Toast       *Toast
}

// ComposePageTitle appends the site name unless title already carries it.
func ComposePageTitle(title, siteName string) string {
	title = strings.TrimSpace(title)
	siteName = strings.TrimSpace(siteName)
	switch {
	case title == "":
		return siteName
	case siteName == "" || strings.HasSuffix(title, "| "+siteName) || title == siteName:
		return title
	}
	return title + " | " + siteName
}

// Layout renders the HTML document around the children in ctx.
func Layout(pc PageContext, opts LayoutOptions) templ.Component {
	return component(func(ctx context.Context, h *html) {
		lang := pc.Lang
		if lang == "" {
			lang = "en-US"
		}
		h.raw("<!DOCTYPE html>")
		h.open("html", "", "lang", lang)
		h.raw("<head>")
		h.raw(`<meta charset="utf-8">`)
		h.raw(`<meta name="viewport" content="width=device-width, initial-scale=1">`)
		h.el("title", "", ComposePageTitle(opts.Title, pc.T("core.site_name")))
		if opts.Description != "" {
			h.raw(`<meta name="description"`)
			h.attr("content", opts.Description)
			h.raw(">")
		}
		for _, link := range opts.Languages {
			h.raw(`<link rel="alternate"`)
			h.attr("hreflang", link.Code)
			h.href("href", link.Href)
			h.raw(">")
		}
		h.raw(`<link rel="icon" href="`, routepath.StaticPrefix, `logo.svg" type="image/svg+xml">`)
		h.raw(`<link rel="stylesheet" href="`, routepath.StaticPrefix, `site.css">`)
		h.raw(`<script src="`, htmxScript, `" defer></script>`)
		h.raw(`<script src="`, routepath.StaticPrefix, `site.js" defer></script>`)
		h.raw("</head>")
		h.open("body", opts.BodyClass)
		h.render(ctx, ToastBanner(pc, opts.Toast))
		h.render(ctx, templ.GetChildren(ctx))
		h.raw("</body></html>")
	})
}

// ToastBanner renders a dismissible flash notice.
func ToastBanner(pc PageContext, toast *Toast) templ.Component {
	return component(func(_ context.Context, h *html) {
		if toast == nil || strings.TrimSpace(toast.Message) == "" {
			return
		}
		kind := toast.Kind
		if kind == "" {
			kind = "info"
		}
		role := "status"
		if kind == "error" || kind == "warning" {
			role = "alert"
		}
		h.open("div", "toast toast-"+kind, "id", "toast", "role", role, "data-toast", "")
		if toast.Title != "" {
			h.el("strong", "toast-title", toast.Title)
		}
		h.el("p", "toast-message", toast.Message)
		h.el("button", "toast-close", "×", "type", "button", "data-toast-close", "", "aria-label", pc.T("core.close"))
		h.close("div")
	})
}

// LanguageSwitcher renders links to the supported languages.
func LanguageSwitcher(pc PageContext, links []LanguageLink) templ.Component {
	return component(func(_ context.Context, h *html) {
		if len(links) == 0 {
			return
		}
		h.open("nav", "language-switcher", "aria-label", pc.T("core.language"))
		for _, link := range links {
			h.raw("<a")
			h.href("href", link.Href)
			h.attr("hreflang", link.Code)
			h.attrIf(link.Active, "aria-current", "true")
			h.attr("class", classes("lang-link", activeClass(link.Active)))
			h.raw(">")
			h.text(link.Label)
			h.raw("</a>")
		}
		h.close("nav")
	})
}

func activeClass(active bool) string {
	if active {
		return "is-active"
	}
	return ""
}
