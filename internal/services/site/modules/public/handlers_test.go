package public

import (
	"net/http"
	"net/http/httptest"
	"net/url"
	"strings"
	"testing"
	"time"

	"github.com/s2design/site/internal/services/site/backend"
	"github.com/s2design/site/internal/services/site/content/categories"
	"github.com/s2design/site/internal/services/site/content/portfolio"
	"github.com/s2design/site/internal/services/site/content/projects"
	"github.com/s2design/site/internal/services/site/content/testimonials"
	"github.com/s2design/site/internal/services/site/inquiry"
	"github.com/s2design/site/internal/services/site/platform/flash"
	"github.com/s2design/site/internal/services/site/sitecontent"
	"github.com/s2design/site/internal/testkit/sitefakes"
)

type staticContent struct{ content sitecontent.Content }

func (s staticContent) Current() sitecontent.Content { return s.content }

func newFakeAPI() *sitefakes.API {
	return &sitefakes.API{
		Projects: []backend.Project{{
			ID:       "7",
			Title:    "Kopi House",
			Category: "public-space",
			Images:   []backend.ProjectImage{{ImageURL: "/k1.jpg", DisplayOrder: 1}, {ImageURL: "/k2.jpg", AltText: "Bar", DisplayOrder: 2}},
		}},
		Categories: []backend.Category{{ID: "1", Name: "Office", Slug: "office"}, {ID: "2", Name: "Public Space", Slug: "public-space"}},
		Testimonials: []backend.Testimonial{
			{ID: "1", Name: "Sarah", Quote: "Wonderful", Rating: 5},
		},
		Portfolio: []backend.PortfolioItem{
			{ID: "1", Src: "/p1.jpg", Alt: "Lobby", Width: 4, Height: 3, Category: "office"},
			{ID: "2", Src: "/p2.jpg", Alt: "Cafe", Width: 3, Height: 4, Category: "public-space"},
			{ID: "3", Src: "/p3.jpg", Alt: "Desk", Width: 4, Height: 3, Category: "office"},
		},
	}
}

func newTestHandler(t *testing.T, api *sitefakes.API) http.Handler {
	t.Helper()
	mount, err := New(Config{
		Content:      staticContent{content: sitecontent.Default()},
		Projects:     projects.NewService(api, nil, nil),
		Categories:   categories.NewService(api, nil, nil),
		Testimonials: testimonials.NewService(api, nil, nil),
		Portfolio:    portfolio.NewService(api, nil, nil),
		Inquiries:    inquiry.NewService(inquiry.NewBackendSink(api), nil),
		Now:          func() time.Time { return time.Date(2026, 5, 1, 0, 0, 0, 0, time.UTC) },
	}).Mount()
	if err != nil {
		t.Fatalf("Mount() error = %v", err)
	}
	if mount.Prefix != "/" {
		t.Fatalf("prefix = %q", mount.Prefix)
	}
	return mount.Handler
}

func serve(h http.Handler, req *http.Request) *httptest.ResponseRecorder {
	rr := httptest.NewRecorder()
	h.ServeHTTP(rr, req)
	return rr
}

func htmx(req *http.Request) *http.Request {
	req.Header.Set("HX-Request", "true")
	return req
}

func assertContains(t *testing.T, body string, markers ...string) {
	t.Helper()
	for _, marker := range markers {
		if !strings.Contains(body, marker) {
			t.Fatalf("body missing %q:\n%s", marker, body)
		}
	}
}

func TestMountRequiresContentAndInquiries(t *testing.T) {
	if _, err := New(Config{}).Mount(); err == nil {
		t.Fatal("expected missing content to fail")
	}
	if _, err := New(Config{Content: staticContent{}}).Mount(); err == nil {
		t.Fatal("expected missing inquiry service to fail")
	}
}

func TestHomeRendersSections(t *testing.T) {
	h := newTestHandler(t, newFakeAPI())
	rr := serve(h, httptest.NewRequest(http.MethodGet, "/", nil))
	if rr.Code != http.StatusOK {
		t.Fatalf("status = %d", rr.Code)
	}
	body := rr.Body.String()
	assertContains(t, body,
		"<!DOCTYPE html>",
		`id="hero"`, `id="about"`, `id="services"`, `id="portfolio"`, `id="testimonials"`, `id="contact"`,
		`src="/p1.jpg"`, `src="/p2.jpg"`,
		"Wonderful",
		"© 2026",
		`href="/portfolio?category=office"`,
	)
}

func TestHomeDegradesWhenAPIFails(t *testing.T) {
	api := newFakeAPI()
	api.Err = sitefakes.Unavailable()
	rr := serve(newTestHandler(t, api), httptest.NewRequest(http.MethodGet, "/", nil))
	if rr.Code != http.StatusOK {
		t.Fatalf("status = %d", rr.Code)
	}
	body := rr.Body.String()
	assertContains(t, body, "notice notice-error", `href="/portfolio?category=residential"`)
	if strings.Contains(body, `class="slide"`) {
		t.Fatal("expected no testimonial slides")
	}
}

func TestPortfolioFilterReturnsFragment(t *testing.T) {
	h := newTestHandler(t, newFakeAPI())
	rr := serve(h, htmx(httptest.NewRequest(http.MethodGet, "/portfolio?category=office", nil)))
	if rr.Code != http.StatusOK {
		t.Fatalf("status = %d", rr.Code)
	}
	body := rr.Body.String()
	if strings.Contains(body, "<!DOCTYPE html>") {
		t.Fatal("expected grid fragment only")
	}
	assertContains(t, body, `id="portfolio-grid"`, `src="/p1.jpg"`, `src="/p3.jpg"`)
	if strings.Contains(body, "/p2.jpg") {
		t.Fatal("public-space item should be filtered out")
	}
}

func TestPortfolioWithoutHTMXRendersHomePage(t *testing.T) {
	rr := serve(newTestHandler(t, newFakeAPI()), httptest.NewRequest(http.MethodGet, "/portfolio?category=office", nil))
	assertContains(t, rr.Body.String(), "<!DOCTYPE html>", `id="hero"`, `aria-current="true"`)
}

func TestPortfolioViewWrapsIndex(t *testing.T) {
	h := newTestHandler(t, newFakeAPI())
	rr := serve(h, htmx(httptest.NewRequest(http.MethodGet, "/portfolio/view/5?category=office", nil)))
	if rr.Code != http.StatusOK {
		t.Fatalf("status = %d", rr.Code)
	}
	// Two office items: index 5 wraps to 1.
	assertContains(t, rr.Body.String(),
		`src="/p3.jpg"`,
		`data-prev="/portfolio/view/0?category=office"`,
		`data-next="/portfolio/view/0?category=office"`,
		`data-close="/portfolio?category=office#portfolio"`,
	)
}

func TestPortfolioViewRejectsBadIndex(t *testing.T) {
	rr := serve(newTestHandler(t, newFakeAPI()), httptest.NewRequest(http.MethodGet, "/portfolio/view/abc", nil))
	if rr.Code != http.StatusNotFound {
		t.Fatalf("status = %d", rr.Code)
	}
}

func TestProjectDetail(t *testing.T) {
	h := newTestHandler(t, newFakeAPI())
	rr := serve(h, httptest.NewRequest(http.MethodGet, "/projects/7", nil))
	if rr.Code != http.StatusOK {
		t.Fatalf("status = %d", rr.Code)
	}
	assertContains(t, rr.Body.String(), "Kopi House", "Public Space", `href="/projects/7/images/1"`, `class="navbar"`)

	rr = serve(h, httptest.NewRequest(http.MethodGet, "/projects/404", nil))
	if rr.Code != http.StatusNotFound {
		t.Fatalf("missing project status = %d", rr.Code)
	}
	assertContains(t, rr.Body.String(), `class="not-found"`)
}

func TestProjectDetailReportsUnavailableAPI(t *testing.T) {
	api := newFakeAPI()
	api.Fail("GetProject", sitefakes.Unavailable())
	rr := serve(newTestHandler(t, api), httptest.NewRequest(http.MethodGet, "/projects/7", nil))
	if rr.Code != http.StatusServiceUnavailable {
		t.Fatalf("status = %d", rr.Code)
	}
}

func TestProjectImageWrapsBackwards(t *testing.T) {
	rr := serve(newTestHandler(t, newFakeAPI()), htmx(httptest.NewRequest(http.MethodGet, "/projects/7/images/-1", nil)))
	if rr.Code != http.StatusOK {
		t.Fatalf("status = %d", rr.Code)
	}
	assertContains(t, rr.Body.String(), `src="/k2.jpg"`, `alt="Bar"`, `data-close="/projects/7"`, `data-next="/projects/7/images/0"`)
}

func contactForm(values map[string]string) *http.Request {
	form := url.Values{}
	for k, v := range values {
		form.Set(k, v)
	}
	req := httptest.NewRequest(http.MethodPost, "/contact", strings.NewReader(form.Encode()))
	req.Header.Set("Content-Type", "application/x-www-form-urlencoded")
	return req
}

func TestContactHTMXSuccessReplacesForm(t *testing.T) {
	api := newFakeAPI()
	h := newTestHandler(t, api)
	rr := serve(h, htmx(contactForm(map[string]string{"name": "Rina", "email": "rina@example.com", "message": "Kitchen", "project_type": "residential"})))
	if rr.Code != http.StatusOK {
		t.Fatalf("status = %d", rr.Code)
	}
	assertContains(t, rr.Body.String(), `id="contact-form"`, "notice-success")
	if len(api.Inquiries) != 1 || api.Inquiries[0].ProjectType != "residential" {
		t.Fatalf("inquiries = %#v", api.Inquiries)
	}
}

func TestContactHTMXValidationKeepsValues(t *testing.T) {
	api := newFakeAPI()
	rr := serve(newTestHandler(t, api), htmx(contactForm(map[string]string{"name": "Rina", "email": "nope"})))
	if rr.Code != http.StatusOK {
		t.Fatalf("status = %d", rr.Code)
	}
	assertContains(t, rr.Body.String(), "field-error", `value="Rina"`, `aria-invalid="true"`)
	if len(api.Inquiries) != 0 {
		t.Fatal("invalid inquiry must not be delivered")
	}
}

func TestContactWithoutHTMXRedirectsWithFlash(t *testing.T) {
	rr := serve(newTestHandler(t, newFakeAPI()), contactForm(map[string]string{"name": "Rina", "phone": "0812", "message": "Hi"}))
	if rr.Code != http.StatusSeeOther {
		t.Fatalf("status = %d", rr.Code)
	}
	if got := rr.Header().Get("Location"); got != "/#contact" {
		t.Fatalf("location = %q", got)
	}
	found := false
	for _, cookie := range rr.Result().Cookies() {
		found = found || cookie.Name == flash.CookieName
	}
	if !found {
		t.Fatal("expected flash cookie")
	}
}

func TestContactWithoutHTMXValidationRerendersPage(t *testing.T) {
	rr := serve(newTestHandler(t, newFakeAPI()), contactForm(map[string]string{"message": "Hi"}))
	if rr.Code != http.StatusBadRequest {
		t.Fatalf("status = %d", rr.Code)
	}
	assertContains(t, rr.Body.String(), "<!DOCTYPE html>", "field-error")
}

func TestContactDeliveryFailureShowsMessage(t *testing.T) {
	api := newFakeAPI()
	api.Fail("SubmitInquiry", sitefakes.Unavailable())
	rr := serve(newTestHandler(t, api), htmx(contactForm(map[string]string{"name": "Rina", "phone": "0812", "message": "Hi"})))
	assertContains(t, rr.Body.String(), "notice-error", `value="Rina"`)
}

func TestHealth(t *testing.T) {
	rr := serve(newTestHandler(t, newFakeAPI()), httptest.NewRequest(http.MethodGet, "/healthz", nil))
	if rr.Code != http.StatusOK || !strings.Contains(rr.Body.String(), `"status":"ok"`) {
		t.Fatalf("health = %d %q", rr.Code, rr.Body.String())
	}
}

func TestUnknownPathRendersNotFound(t *testing.T) {
	rr := serve(newTestHandler(t, newFakeAPI()), httptest.NewRequest(http.MethodGet, "/nope", nil))
	if rr.Code != http.StatusNotFound {
		t.Fatalf("status = %d", rr.Code)
	}
	assertContains(t, rr.Body.String(), `class="not-found"`, "data-history-back")
}
