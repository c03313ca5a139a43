package pagerender

import (
	"context"
	"errors"
	"io"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/a-h/templ"
	apperrors "github.com/s2design/site/internal/services/site/platform/errors"
	"github.com/s2design/site/internal/services/site/platform/flash"
	"github.com/s2design/site/internal/services/site/templates"
	"golang.org/x/text/message"
)

func textComponent(markup string) templ.Component {
	return templ.ComponentFunc(func(_ context.Context, w io.Writer) error {
		_, err := io.WriteString(w, markup)
		return err
	})
}

func TestWriteRendersHTMXFragmentWithStatus(t *testing.T) {
	t.Parallel()

	req := httptest.NewRequest(http.MethodGet, "/portfolio?category=office", nil)
	req.Header.Set("HX-Request", "true")
	rr := httptest.NewRecorder()
	renderer := Renderer{}

	err := renderer.Write(rr, req, renderer.Context(rr, req), Page{
		Title:      "Portfolio",
		StatusCode: http.StatusAccepted,
		Body:       textComponent(`<main id="whole-page"></main>`),
		Fragment:   textComponent(`<div id="portfolio-grid">ok</div>`),
	})
	if err != nil {
		t.Fatalf("Write() error = %v", err)
	}
	if rr.Code != http.StatusAccepted {
		t.Fatalf("status = %d, want %d", rr.Code, http.StatusAccepted)
	}
	body := rr.Body.String()
	if !strings.Contains(body, `id="portfolio-grid"`) {
		t.Fatalf("body missing fragment: %q", body)
	}
	if strings.Contains(body, "whole-page") || strings.Contains(strings.ToLower(body), "<!doctype html") {
		t.Fatalf("expected fragment without document: %q", body)
	}
}

func TestWriteHTMXFallsBackToBody(t *testing.T) {
	t.Parallel()

	req := httptest.NewRequest(http.MethodGet, "/projects/1", nil)
	req.Header.Set("HX-Request", "true")
	rr := httptest.NewRecorder()
	renderer := Renderer{}

	if err := renderer.Write(rr, req, renderer.Context(rr, req), Page{Body: textComponent(`<p id="body">ok</p>`)}); err != nil {
		t.Fatalf("Write() error = %v", err)
	}
	if !strings.Contains(rr.Body.String(), `id="body"`) {
		t.Fatalf("body = %q", rr.Body.String())
	}
}

func TestWriteRendersFullDocument(t *testing.T) {
	t.Parallel()

	req := httptest.NewRequest(http.MethodGet, "/?lang=id-ID", nil)
	rr := httptest.NewRecorder()
	renderer := Renderer{}
	pc := renderer.Context(rr, req)
	if pc.Lang != "id-ID" {
		t.Fatalf("lang = %q", pc.Lang)
	}

	if err := renderer.Write(rr, req, pc, Page{Title: "Beranda", Body: textComponent(`<section id="fragment-root">ok</section>`)}); err != nil {
		t.Fatalf("Write() error = %v", err)
	}
	if got := rr.Header().Get("Content-Type"); got != "text/html; charset=utf-8" {
		t.Fatalf("content-type = %q", got)
	}
	body := rr.Body.String()
	for _, marker := range []string{"<!DOCTYPE html>", `lang="id-ID"`, `id="fragment-root"`, `hreflang="en-US"`, "Beranda | S2 Design Interior"} {
		if !strings.Contains(body, marker) {
			t.Fatalf("body missing marker %q: %q", marker, body)
		}
	}
}

func TestWriteRendersToastFromFlashNotice(t *testing.T) {
	t.Parallel()

	req := httptest.NewRequest(http.MethodGet, "/admin/projects", nil)
	addFlashCookie(t, req, flash.Success("admin.projects.notice_updated"))
	rr := httptest.NewRecorder()
	renderer := Renderer{}

	if err := renderer.Write(rr, req, renderer.Context(rr, req), Page{Body: textComponent("<p>list</p>")}); err != nil {
		t.Fatalf("Write() error = %v", err)
	}
	body := rr.Body.String()
	for _, marker := range []string{`id="toast"`, "Project updated successfully!"} {
		if !strings.Contains(body, marker) {
			t.Fatalf("body missing marker %q: %q", marker, body)
		}
	}
	if !responseHasCookie(rr, flash.CookieName) {
		t.Fatalf("response missing %q clear cookie", flash.CookieName)
	}
}

func TestWriteHTMXDoesNotConsumeFlashNotice(t *testing.T) {
	t.Parallel()

	req := httptest.NewRequest(http.MethodGet, "/admin/projects", nil)
	req.Header.Set("HX-Request", "true")
	addFlashCookie(t, req, flash.Success("admin.projects.notice_updated"))
	rr := httptest.NewRecorder()
	renderer := Renderer{}

	if err := renderer.Write(rr, req, renderer.Context(rr, req), Page{Body: textComponent("<p>list</p>")}); err != nil {
		t.Fatalf("Write() error = %v", err)
	}
	if strings.Contains(rr.Body.String(), `id="toast"`) {
		t.Fatalf("htmx body unexpectedly contains toast: %q", rr.Body.String())
	}
	if responseHasCookie(rr, flash.CookieName) {
		t.Fatal("htmx response should leave the flash cookie alone")
	}
}

func TestNoticeToastAppendsDetail(t *testing.T) {
	t.Parallel()

	pc := templates.PageContext{Loc: echoLocalizer{}}
	toast := NoticeToast(pc, flash.Failure("admin.save_failed", "title is required"))
	if toast.Kind != "error" || toast.Title != "core.toast_failure" {
		t.Fatalf("toast = %#v", toast)
	}
	if toast.Message != "admin.save_failed title is required" {
		t.Fatalf("message = %q", toast.Message)
	}
}

func TestErrorPageStatus(t *testing.T) {
	t.Parallel()

	pc := templates.PageContext{Loc: echoLocalizer{}}
	tests := []struct {
		err        error
		wantStatus int
		wantTitle  string
	}{
		{apperrors.E(apperrors.KindNotFound, "gone"), http.StatusNotFound, "errors.not_found_title"},
		{apperrors.EK(apperrors.KindUnavailable, "errors.backend_unavailable", "down"), http.StatusServiceUnavailable, "errors.title"},
		{errors.New("boom"), http.StatusInternalServerError, "errors.title"},
	}
	for _, tc := range tests {
		page := ErrorPage(pc, tc.err)
		if page.StatusCode != tc.wantStatus || page.Title != tc.wantTitle {
			t.Errorf("ErrorPage(%v) = %d %q", tc.err, page.StatusCode, page.Title)
		}
	}
	if got := ErrorMessage(pc, errors.New("boom")); got != "errors.generic" {
		t.Fatalf("ErrorMessage = %q", got)
	}
}

func TestLanguagesMarksActive(t *testing.T) {
	t.Parallel()

	links := Languages(templates.PageContext{Lang: "id-ID", Path: "/projects/1", Query: "lang=en-US"})
	if len(links) != 2 {
		t.Fatalf("links = %#v", links)
	}
	if links[0].Label != "EN" || links[0].Active || links[0].Href != "/projects/1?lang=en-US" {
		t.Fatalf("en link = %#v", links[0])
	}
	if links[1].Label != "ID" || !links[1].Active || links[1].Href != "/projects/1?lang=id-ID" {
		t.Fatalf("id link = %#v", links[1])
	}
}

type echoLocalizer struct{}

func (echoLocalizer) Sprintf(key message.Reference, _ ...any) string {
	return key.(string)
}

func addFlashCookie(t *testing.T, req *http.Request, notice flash.Notice) {
	t.Helper()
	seed := httptest.NewRecorder()
	flash.Writer{}.Write(seed, req, notice)
	cookies := seed.Result().Cookies()
	if len(cookies) == 0 {
		t.Fatal("expected flash cookie")
	}
	req.AddCookie(cookies[0])
}

func responseHasCookie(rr *httptest.ResponseRecorder, name string) bool {
	for _, cookie := range rr.Result().Cookies() {
		if cookie != nil && cookie.Name == name {
			return true
		}
	}
	return false
}
