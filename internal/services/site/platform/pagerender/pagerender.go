// Package pagerender centralizes page rendering for full-document and htmx
// fragment responses.
package pagerender

import (
	"bytes"
	"context"
	"io"
	"net/http"
	"strings"

	"github.com/a-h/templ"
	apperrors "github.com/s2design/site/internal/services/site/platform/errors"
	"github.com/s2design/site/internal/services/site/platform/flash"
	"github.com/s2design/site/internal/services/site/platform/httpx"
	sitei18n "github.com/s2design/site/internal/services/site/platform/i18n"
	"github.com/s2design/site/internal/services/site/templates"
	"go.uber.org/zap"
)

// Page describes one response. Body is the full-page content; Fragment is
// what htmx requests receive and defaults to Body.
type Page struct {
	Title       string
	Description string
	BodyClass   string
	StatusCode  int
	Body        templ.Component
	Fragment    templ.Component
}

type emptyComponent struct{}

func (emptyComponent) Render(context.Context, io.Writer) error {
	return nil
}

// Renderer writes pages with the shared document layout.
type Renderer struct {
	Flash  flash.Writer
	Logger *zap.Logger
}

// Context resolves the request language into a page context.
func (r Renderer) Context(w http.ResponseWriter, req *http.Request) templates.PageContext {
	loc, lang := sitei18n.ResolveLocalizer(w, req)
	pc := templates.PageContext{Lang: lang, Loc: loc}
	if req != nil && req.URL != nil {
		pc.Path = req.URL.Path
		pc.Query = req.URL.RawQuery
	}
	return pc
}

// Languages returns switcher links for every supported language.
func Languages(pc templates.PageContext) []templates.LanguageLink {
	tags := sitei18n.Supported()
	links := make([]templates.LanguageLink, 0, len(tags))
	for _, tag := range tags {
		code := tag.String()
		base, _ := tag.Base()
		links = append(links, templates.LanguageLink{
			Code:   code,
			Label:  strings.ToUpper(base.String()),
			Href:   sitei18n.LanguageURL(pc.Path, pc.Query, code),
			Active: code == pc.Lang,
		})
	}
	return links
}

// Write renders page. htmx requests get the fragment alone; full requests get
// the layout with any pending flash notice.
func (r Renderer) Write(w http.ResponseWriter, req *http.Request, pc templates.PageContext, page Page) error {
	if w == nil {
		return nil
	}
	status := page.StatusCode
	if status <= 0 {
		status = http.StatusOK
	}
	body := page.Body
	if body == nil {
		body = emptyComponent{}
	}
	ctx := httpx.RequestContext(req)

	var buf bytes.Buffer
	if httpx.IsHTMXRequest(req) {
		fragment := page.Fragment
		if fragment == nil {
			fragment = body
		}
		if err := fragment.Render(ctx, &buf); err != nil {
			return err
		}
	} else {
		layout := templates.Layout(pc, templates.LayoutOptions{
			Title:       page.Title,
			Description: page.Description,
			BodyClass:   page.BodyClass,
			Languages:   Languages(pc),
			Toast:       r.toast(w, req, pc),
		})
		if err := layout.Render(templ.WithChildren(ctx, body), &buf); err != nil {
			return err
		}
	}
	w.Header().Set("Content-Type", "text/html; charset=utf-8")
	w.WriteHeader(status)
	_, err := w.Write(buf.Bytes())
	return err
}

// Render writes page and falls back to a plain 500 when rendering fails.
func (r Renderer) Render(w http.ResponseWriter, req *http.Request, pc templates.PageContext, page Page) {
	if err := r.Write(w, req, pc, page); err != nil {
		r.logger().Error("render page", zap.String("path", pc.Path), zap.Error(err))
		http.Error(w, http.StatusText(http.StatusInternalServerError), http.StatusInternalServerError)
	}
}

func (r Renderer) logger() *zap.Logger {
	if r.Logger == nil {
		return zap.NewNop()
	}
	return r.Logger
}

func (r Renderer) toast(w http.ResponseWriter, req *http.Request, pc templates.PageContext) *templates.Toast {
	notice, ok := r.Flash.ReadAndClear(w, req)
	if !ok {
		return nil
	}
	return NoticeToast(pc, notice)
}

// NoticeToast localizes a flash notice.
func NoticeToast(pc templates.PageContext, notice flash.Notice) *templates.Toast {
	message := strings.TrimSpace(pc.T(notice.Key))
	if message == "" {
		message = notice.Key
	}
	if notice.Detail != "" {
		message += " " + notice.Detail
	}
	toast := &templates.Toast{Kind: string(notice.Kind), Message: message}
	switch notice.Kind {
	case flash.KindSuccess:
		toast.Title = pc.T("core.toast_success")
	case flash.KindError:
		toast.Title = pc.T("core.toast_failure")
	}
	return toast
}

// ErrorMessage localizes err for display.
func ErrorMessage(pc templates.PageContext, err error) string {
	if key := apperrors.LocalizationKey(err); key != "" {
		return pc.T(key)
	}
	return pc.T("errors.generic")
}

// ErrorPage builds the page shown for err. Not-found errors use the
// dedicated missing page.
func ErrorPage(pc templates.PageContext, err error) Page {
	status := apperrors.HTTPStatus(err)
	if status == http.StatusNotFound {
		return NotFoundPage(pc)
	}
	return Page{
		Title:      pc.T("errors.title"),
		StatusCode: status,
		Body:       templates.ErrorPage(pc, status, ErrorMessage(pc, err)),
	}
}

// NotFoundPage builds the localized 404 page.
func NotFoundPage(pc templates.PageContext) Page {
	return Page{
		Title:      pc.T("errors.not_found_title"),
		StatusCode: http.StatusNotFound,
		Body:       templates.NotFound(pc),
	}
}
