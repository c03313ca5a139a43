package public

import (
	"context"
	"errors"
	"net/http"
	"strconv"
	"strings"
	"time"

	"github.com/a-h/templ"
	"github.com/s2design/site/internal/services/site/backend"
	"github.com/s2design/site/internal/services/site/content/categories"
	"github.com/s2design/site/internal/services/site/content/gallery"
	"github.com/s2design/site/internal/services/site/content/portfolio"
	"github.com/s2design/site/internal/services/site/content/projects"
	"github.com/s2design/site/internal/services/site/inquiry"
	apperrors "github.com/s2design/site/internal/services/site/platform/errors"
	"github.com/s2design/site/internal/services/site/platform/flash"
	"github.com/s2design/site/internal/services/site/platform/httpx"
	"github.com/s2design/site/internal/services/site/platform/pagerender"
	"github.com/s2design/site/internal/services/site/routepath"
	"github.com/s2design/site/internal/services/site/templates"
	"go.uber.org/zap"
	"golang.org/x/sync/errgroup"
)

const (
	noticeInquirySent   = "public.contact.notice_sent"
	noticeInquiryFailed = "public.contact.notice_failed"
)

type handlers struct {
	cfg    Config
	logger *zap.Logger
	now    func() time.Time
}

func newHandlers(cfg Config) handlers {
	h := handlers{cfg: cfg, logger: cfg.Logger, now: cfg.Now}
	if h.logger == nil {
		h.logger = zap.NewNop()
	}
	if h.now == nil {
		h.now = time.Now
	}
	return h
}

// portfolioQuery reads the gallery filter from the query string.
func portfolioQuery(r *http.Request) (string, bool) {
	query := r.URL.Query()
	category := strings.TrimSpace(query.Get("category"))
	if category == "" {
		category = portfolio.AllCategory
	}
	more := query.Get("more")
	return category, more == "1" || more == "true"
}

func (h handlers) handleHealth(w http.ResponseWriter, _ *http.Request) {
	_ = httpx.WriteJSON(w, http.StatusOK, map[string]string{"status": "ok"})
}

func (h handlers) handleHome(w http.ResponseWriter, r *http.Request) {
	pc := h.cfg.Renderer.Context(w, r)
	category, more := portfolioQuery(r)
	h.writeHome(w, r, pc, category, more, templates.ContactFormView{}, http.StatusOK)
}

func (h handlers) writeHome(w http.ResponseWriter, r *http.Request, pc templates.PageContext, category string, more bool, form templates.ContactFormView, status int) {
	view := h.homeView(r.Context(), pc, category, more, form)
	h.cfg.Renderer.Render(w, r, pc, pagerender.Page{
		Title:       pc.T("public.home.title"),
		Description: view.Content.Hero.Body,
		StatusCode:  status,
		Body:        templates.Home(pc, view),
	})
}

// homeView loads the gallery, categories and testimonials concurrently. Each
// section degrades on its own when the API fails.
func (h handlers) homeView(ctx context.Context, pc templates.PageContext, category string, more bool, form templates.ContactFormView) templates.HomeView {
	var (
		grid         templates.PortfolioView
		testimonials []backend.Testimonial
	)
	g, gctx := errgroup.WithContext(ctx)
	g.Go(func() error {
		grid = h.portfolioView(gctx, category, more)
		return nil
	})
	g.Go(func() error {
		testimonials = h.testimonials(gctx)
		return nil
	})
	_ = g.Wait()
	return templates.HomeView{
		Content:      h.cfg.Content.Current(),
		Portfolio:    grid,
		Testimonials: testimonials,
		Contact:      form,
		Year:         h.now().Year(),
		Languages:    pagerender.Languages(pc),
	}
}

func (h handlers) testimonials(ctx context.Context) []backend.Testimonial {
	if h.cfg.Testimonials == nil {
		return nil
	}
	items, err := h.cfg.Testimonials.List(ctx)
	if err != nil {
		h.logger.Warn("load testimonials", zap.Error(err))
	}
	return items
}

func (h handlers) categoryList(ctx context.Context) []backend.Category {
	if h.cfg.Categories == nil {
		return categories.Defaults()
	}
	items, err := h.cfg.Categories.List(ctx)
	if err != nil {
		h.logger.Warn("load categories", zap.Error(err))
	}
	return categories.WithAll(items)
}

func (h handlers) portfolioItems(ctx context.Context) ([]backend.PortfolioItem, error) {
	if h.cfg.Portfolio == nil {
		return nil, apperrors.EK(apperrors.KindUnavailable, backend.KeyUnavailable, "portfolio service is not configured")
	}
	return h.cfg.Portfolio.List(ctx)
}

func (h handlers) portfolioView(ctx context.Context, category string, more bool) templates.PortfolioView {
	var (
		items   []backend.PortfolioItem
		listErr error
		cats    []backend.Category
	)
	g, gctx := errgroup.WithContext(ctx)
	g.Go(func() error {
		items, listErr = h.portfolioItems(gctx)
		return nil
	})
	g.Go(func() error {
		cats = h.categoryList(gctx)
		return nil
	})
	_ = g.Wait()
	if listErr != nil {
		h.logger.Warn("load portfolio", zap.Error(listErr))
	}

	page := portfolio.Paginate(items, category, more)
	links := make([]templates.CategoryLink, 0, len(cats))
	for _, cat := range cats {
		links = append(links, templates.CategoryLink{Slug: cat.Slug, Name: cat.Name, Active: cat.Slug == page.Category})
	}
	return templates.PortfolioView{
		Category:   page.Category,
		Categories: links,
		Items:      page.Items,
		HasMore:    page.HasMore,
		ShowMore:   page.ShowMore,
		Failed:     listErr != nil,
	}
}

func (h handlers) handlePortfolio(w http.ResponseWriter, r *http.Request) {
	pc := h.cfg.Renderer.Context(w, r)
	category, more := portfolioQuery(r)
	if !httpx.IsHTMXRequest(r) {
		h.writeHome(w, r, pc, category, more, templates.ContactFormView{}, http.StatusOK)
		return
	}
	view := h.portfolioView(r.Context(), category, more)
	h.cfg.Renderer.Render(w, r, pc, pagerender.Page{Fragment: templates.PortfolioGrid(pc, view)})
}

func (h handlers) handlePortfolioView(w http.ResponseWriter, r *http.Request) {
	pc := h.cfg.Renderer.Context(w, r)
	index, ok := pathIndex(r)
	if !ok {
		h.writeNotFound(w, r, pc)
		return
	}
	items, err := h.portfolioItems(r.Context())
	if err != nil {
		h.writeError(w, r, pc, err)
		return
	}
	category, more := portfolioQuery(r)
	page := portfolio.Paginate(items, category, more)
	n := len(page.Items)
	if n == 0 {
		h.writeNotFound(w, r, pc)
		return
	}
	index = gallery.Wrap(index, n)
	item := page.Items[index]
	width, height := portfolio.Dimensions(item.Width, item.Height)
	position := gallery.At(index, n)
	view := templates.LightboxView{
		Src:       item.Src,
		Alt:       item.Alt,
		Caption:   item.Alt,
		Current:   position.Current,
		Total:     position.Total,
		Portrait:  gallery.IsPortrait(width, height),
		PrevHref:  routepath.PortfolioView(gallery.Prev(index, n), page.Category, more),
		NextHref:  routepath.PortfolioView(gallery.Next(index, n), page.Category, more),
		CloseHref: routepath.PortfolioGrid(page.Category, more) + "#portfolio",
	}
	h.writeLightbox(w, r, pc, item.Alt, view)
}

func (h handlers) handleProject(w http.ResponseWriter, r *http.Request) {
	pc := h.cfg.Renderer.Context(w, r)
	project, err := h.project(r)
	if err != nil {
		h.writeError(w, r, pc, err)
		return
	}
	name := categories.NameFor(h.categoryList(r.Context()), project.Category)
	if name == project.Category {
		name = projects.DisplayName(project.Category)
	}
	body := templates.ProjectDetail(pc, templates.ProjectView{Project: project, CategoryName: name})
	h.cfg.Renderer.Render(w, r, pc, pagerender.Page{
		Title:       project.Title,
		Description: project.Description,
		Body:        h.chrome(pc, body),
		Fragment:    body,
	})
}

func (h handlers) handleProjectImage(w http.ResponseWriter, r *http.Request) {
	pc := h.cfg.Renderer.Context(w, r)
	index, ok := pathIndex(r)
	if !ok {
		h.writeNotFound(w, r, pc)
		return
	}
	project, err := h.project(r)
	if err != nil {
		h.writeError(w, r, pc, err)
		return
	}
	n := len(project.Images)
	if n == 0 {
		h.writeNotFound(w, r, pc)
		return
	}
	index = gallery.Wrap(index, n)
	image := project.Images[index]
	id := project.ID.String()
	position := gallery.At(index, n)
	alt := templates.ImageAlt(project.Title, image.AltText, index)
	view := templates.LightboxView{
		Src:       image.ImageURL,
		Alt:       alt,
		Caption:   project.Title,
		Current:   position.Current,
		Total:     position.Total,
		PrevHref:  routepath.ProjectImage(id, gallery.Prev(index, n)),
		NextHref:  routepath.ProjectImage(id, gallery.Next(index, n)),
		CloseHref: routepath.Project(id),
	}
	h.writeLightbox(w, r, pc, project.Title, view)
}

func (h handlers) project(r *http.Request) (backend.Project, error) {
	if h.cfg.Projects == nil {
		return backend.Project{}, apperrors.EK(apperrors.KindUnavailable, backend.KeyUnavailable, "project service is not configured")
	}
	return h.cfg.Projects.Get(r.Context(), backend.ID(strings.TrimSpace(r.PathValue("id"))))
}

func (h handlers) writeLightbox(w http.ResponseWriter, r *http.Request, pc templates.PageContext, title string, view templates.LightboxView) {
	fragment := templates.Lightbox(pc, view)
	h.cfg.Renderer.Render(w, r, pc, pagerender.Page{
		Title:    title,
		Body:     h.chrome(pc, fragment),
		Fragment: fragment,
	})
}

func pathIndex(r *http.Request) (int, bool) {
	index, err := strconv.Atoi(strings.TrimSpace(r.PathValue("index")))
	if err != nil {
		return 0, false
	}
	return index, true
}

func (h handlers) handleContact(w http.ResponseWriter, r *http.Request) {
	pc := h.cfg.Renderer.Context(w, r)
	if err := r.ParseForm(); err != nil {
		h.writeError(w, r, pc, apperrors.Wrap(apperrors.KindInvalidInput, inquiry.KeyInvalid, err))
		return
	}
	in := inquiry.Input{
		Name:        r.PostFormValue("name"),
		Email:       r.PostFormValue("email"),
		Phone:       r.PostFormValue("phone"),
		ProjectType: r.PostFormValue("project_type"),
		Message:     r.PostFormValue("message"),
		Language:    pc.Lang,
	}
	form := templates.ContactFormView{
		Name:        in.Name,
		Email:       in.Email,
		Phone:       in.Phone,
		ProjectType: in.ProjectType,
		Message:     in.Message,
	}
	_, err := h.cfg.Inquiries.Submit(r.Context(), in)
	htmx := httpx.IsHTMXRequest(r)
	switch {
	case err == nil:
		if htmx {
			h.writeContactForm(w, r, pc, templates.ContactFormView{Sent: true})
			return
		}
		h.cfg.Flash.Write(w, r, flash.Success(noticeInquirySent))
		httpx.WriteRedirect(w, r, routepath.Root+"#contact")
	case apperrors.Is(err, apperrors.KindInvalidInput):
		form.Errors = fieldErrors(err)
		if htmx {
			h.writeContactForm(w, r, pc, form)
			return
		}
		category, more := portfolioQuery(r)
		h.writeHome(w, r, pc, category, more, form, http.StatusBadRequest)
	default:
		h.logger.Error("deliver inquiry", zap.Error(err))
		if htmx {
			form.Failure = pagerender.ErrorMessage(pc, err)
			h.writeContactForm(w, r, pc, form)
			return
		}
		h.cfg.Flash.Write(w, r, flash.Failure(noticeInquiryFailed, ""))
		httpx.WriteRedirect(w, r, routepath.Root+"#contact")
	}
}

// fieldErrors extracts per-field keys; a bare invalid error marks the form.
func fieldErrors(err error) map[string]string {
	var fields inquiry.FieldErrors
	if errors.As(err, &fields) {
		return fields
	}
	return map[string]string{"message": apperrors.LocalizationKey(err)}
}

func (h handlers) writeContactForm(w http.ResponseWriter, r *http.Request, pc templates.PageContext, form templates.ContactFormView) {
	fragment := templates.ContactForm(pc, h.cfg.Content.Current().Contact.ProjectTypes, form)
	h.cfg.Renderer.Render(w, r, pc, pagerender.Page{Fragment: fragment, Body: fragment})
}

func (h handlers) handleNotFound(w http.ResponseWriter, r *http.Request) {
	h.writeNotFound(w, r, h.cfg.Renderer.Context(w, r))
}

func (h handlers) writeNotFound(w http.ResponseWriter, r *http.Request, pc templates.PageContext) {
	page := pagerender.NotFoundPage(pc)
	page.Fragment = page.Body
	page.Body = h.chrome(pc, page.Body)
	h.cfg.Renderer.Render(w, r, pc, page)
}

func (h handlers) writeError(w http.ResponseWriter, r *http.Request, pc templates.PageContext, err error) {
	if apperrors.HTTPStatus(err) >= http.StatusInternalServerError {
		h.logger.Error("public request failed", zap.String("path", r.URL.Path), zap.Error(err))
	}
	page := pagerender.ErrorPage(pc, err)
	page.Fragment = page.Body
	page.Body = h.chrome(pc, page.Body)
	h.cfg.Renderer.Render(w, r, pc, page)
}

// chrome wraps body with the site navbar and footer.
func (h handlers) chrome(pc templates.PageContext, body templ.Component) templ.Component {
	return templates.PublicPage(pc, h.cfg.Content.Current(), h.now().Year(), pagerender.Languages(pc), body)
}
