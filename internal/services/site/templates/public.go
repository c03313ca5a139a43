package templates

import (
	"context"
	"fmt"
	"strings"

	"github.com/a-h/templ"
	"github.com/s2design/site/internal/services/site/backend"
	"github.com/s2design/site/internal/services/site/routepath"
	"github.com/s2design/site/internal/services/site/sitecontent"
)

// CarouselInterval is the testimonial auto-advance period in milliseconds.
const CarouselInterval = 4000

// CategoryLink is one portfolio filter button.
type CategoryLink struct {
	Slug   string
	Name   string
	Active bool
}

// PortfolioView is the gallery grid state.
type PortfolioView struct {
	Category   string
	Categories []CategoryLink
	Items      []backend.PortfolioItem
	HasMore    bool
	ShowMore   bool
	Failed     bool
}

// ContactFormView is the contact form state.
type ContactFormView struct {
	Name        string
	Email       string
	Phone       string
	ProjectType string
	Message     string
	Errors      map[string]string
	Sent        bool
	Failure     string
}

// LightboxView is one image in a gallery viewer.
type LightboxView struct {
	Src       string
	Alt       string
	Caption   string
	Current   int
	Total     int
	Portrait  bool
	PrevHref  string
	NextHref  string
	CloseHref string
}

// ProjectView is the project detail page state.
type ProjectView struct {
	Project      backend.Project
	CategoryName string
}

// HomeView is everything the home page shows.
type HomeView struct {
	Content      sitecontent.Content
	Portfolio    PortfolioView
	Testimonials []backend.Testimonial
	Contact      ContactFormView
	Year         int
	Languages    []LanguageLink
}

// Home renders the single-page site.
func Home(pc PageContext, view HomeView) templ.Component {
	content := view.Content
	return PublicPage(pc, content, view.Year, view.Languages, Fragments(
		Hero(pc, content.Hero),
		About(pc, content.About),
		Services(pc, content.Services),
		PortfolioSection(pc, content.Portfolio, view.Portfolio),
		Testimonials(pc, content.Testimonials, view.Testimonials),
		Contact(pc, content.Contact, view.Contact),
	))
}

// PublicPage wraps body with the navbar and footer.
func PublicPage(pc PageContext, content sitecontent.Content, year int, languages []LanguageLink, body templ.Component) templ.Component {
	return component(func(ctx context.Context, h *html) {
		h.render(ctx, Navbar(pc, content, languages))
		h.open("main", "site-main", "id", "main")
		h.render(ctx, body)
		h.close("main")
		h.render(ctx, Footer(pc, content, year))
	})
}

// Navbar renders the fixed top navigation.
func Navbar(pc PageContext, content sitecontent.Content, languages []LanguageLink) templ.Component {
	return component(func(ctx context.Context, h *html) {
		h.open("header", "navbar", "id", "top")
		h.open("nav", "navbar-inner", "aria-label", pc.T("public.nav.label"))
		h.raw(`<a class="navbar-brand" href="`, routepath.Root, `">`)
		h.raw("<img")
		h.attr("src", content.Brand.Logo)
		h.attr("alt", content.Brand.Name)
		h.raw(` class="navbar-logo" width="120" height="48">`)
		h.raw("</a>")
		h.raw(`<details class="navbar-menu"><summary class="navbar-toggle">`)
		h.el("span", "sr-only", pc.T("public.nav.open_menu"))
		h.raw(`</summary><ul class="navbar-links">`)
		for _, link := range content.Navigation {
			h.raw("<li><a")
			h.href("href", sectionHref(link.Href))
			h.raw(` data-scroll-link>`)
			h.text(link.Name)
			h.raw("</a></li>")
		}
		h.raw("</ul></details>")
		h.raw(`<a class="btn btn-primary navbar-cta" href="/#contact" data-scroll-link>`)
		h.text(pc.T("public.nav.consult"))
		h.raw("</a>")
		h.render(ctx, LanguageSwitcher(pc, languages))
		h.close("nav")
		h.close("header")
	})
}

// sectionHref makes in-page anchors work from any page.
func sectionHref(href string) string {
	if strings.HasPrefix(href, "#") {
		return routepath.Root + href
	}
	return href
}

// Hero renders the opening section.
func Hero(pc PageContext, hero sitecontent.Hero) templ.Component {
	return component(func(_ context.Context, h *html) {
		h.open("section", "hero", "id", "hero")
		h.open("div", "hero-copy")
		h.open("h1", "hero-title")
		h.text(hero.Title)
		if hero.Accent != "" {
			h.raw(" ")
			h.el("span", "hero-accent", hero.Accent)
		}
		h.close("h1")
		h.el("p", "hero-body", hero.Body)
		h.open("div", "hero-actions")
		h.el("a", "btn btn-primary", hero.PrimaryCTA, "href", "/#contact", "data-scroll-link", "")
		h.open("a", "btn btn-link", "href", "/#portfolio", "data-scroll-link", "")
		h.text(hero.SecondaryCTA)
		h.raw(` <span aria-hidden="true">→</span>`)
		h.close("a")
		h.close("div")
		h.close("div")
		if hero.Image != "" {
			h.raw(`<img class="hero-image"`)
			h.attr("src", hero.Image)
			h.attr("alt", hero.ImageAlt)
			h.raw(">")
		}
		h.close("section")
	})
}

// About renders the company introduction with stats and workshops.
func About(pc PageContext, about sitecontent.About) templ.Component {
	return component(func(_ context.Context, h *html) {
		h.open("section", "about", "id", "about")
		h.open("h2", "section-title")
		for i, line := range about.Heading {
			if i > 0 {
				h.raw("<br>")
			}
			h.text(line)
		}
		h.close("h2")
		h.el("p", "section-intro", about.Intro)

		h.open("dl", "stats")
		for _, stat := range about.Stats {
			h.open("div", "stat", "data-icon", stat.Icon)
			h.el("dt", "stat-name", stat.Name)
			h.el("dd", "stat-value", stat.Value)
			h.close("div")
		}
		h.close("dl")

		h.open("div", "about-body")
		h.open("div", "about-copy")
		for _, paragraph := range about.Paragraphs {
			h.el("p", "", paragraph)
		}
		if about.Quote != "" {
			h.el("blockquote", "about-quote", about.Quote)
		}
		h.close("div")
		if about.Image != "" {
			h.open("figure", "about-figure")
			h.raw("<img")
			h.attr("src", about.Image)
			h.attr("alt", about.ImageAlt)
			h.raw(` loading="lazy">`)
			if about.Badge.Value != "" {
				h.open("figcaption", "about-badge")
				h.el("strong", "", about.Badge.Value)
				h.el("span", "", about.Badge.Name)
				h.close("figcaption")
			}
			h.close("figure")
		}
		h.close("div")

		h.open("div", "workshops")
		h.el("h3", "", about.Workshops.Title)
		h.el("p", "", about.Workshops.Body)
		h.open("ol", "workshop-list")
		for _, workshop := range about.Workshops.Items {
			h.raw("<li>")
			h.el("h4", "", workshop.Title)
			h.el("p", "", workshop.Body)
			h.raw("</li>")
		}
		h.close("ol")
		h.close("div")
		h.close("section")
	})
}

// Services renders the offering cards.
func Services(pc PageContext, services sitecontent.Services) templ.Component {
	return component(func(_ context.Context, h *html) {
		h.open("section", "services", "id", "services")
		h.el("h2", "section-title", services.Heading)
		h.el("p", "section-intro", services.Intro)
		h.open("div", "service-grid")
		for _, item := range services.Items {
			h.open("article", "service-card")
			h.el("span", "service-emoji", item.Emoji, "aria-hidden", "true")
			h.el("h3", "", item.Title)
			h.el("p", "", item.Description)
			h.open("ul", "service-features")
			for _, feature := range item.Features {
				h.el("li", "", feature)
			}
			h.close("ul")
			h.close("article")
		}
		h.close("div")
		if services.CTA.Title != "" {
			h.open("div", "services-cta")
			h.el("h3", "", services.CTA.Title)
			h.el("p", "", services.CTA.Body)
			h.el("a", "btn btn-primary", services.CTA.Label, "href", "/#contact", "data-scroll-link", "")
			h.close("div")
		}
		h.close("section")
	})
}

// PortfolioSection renders the gallery with its category filter.
func PortfolioSection(pc PageContext, section sitecontent.Section, view PortfolioView) templ.Component {
	return component(func(ctx context.Context, h *html) {
		h.open("section", "portfolio", "id", "portfolio")
		h.el("h2", "section-title", section.Heading)
		h.el("p", "section-intro", section.Intro)
		h.open("nav", "portfolio-filter", "aria-label", pc.T("public.portfolio.filter_label"))
		for _, category := range view.Categories {
			href := routepath.PortfolioGrid(category.Slug, false)
			h.raw("<a")
			h.attr("class", classes("filter-chip", activeClass(category.Active)))
			h.href("href", href)
			h.href("hx-get", href)
			h.attr("hx-target", "#portfolio-grid")
			h.attr("hx-swap", "outerHTML")
			h.attrIf(category.Active, "aria-current", "true")
			h.raw(">")
			h.text(category.Name)
			h.raw("</a>")
		}
		h.close("nav")
		h.render(ctx, PortfolioGrid(pc, view))
		h.raw(`<div id="lightbox" aria-live="polite"></div>`)
		h.close("section")
	})
}

// PortfolioGrid renders the filtered gallery. It is also the htmx target for
// filtering and "show more".
func PortfolioGrid(pc PageContext, view PortfolioView) templ.Component {
	return component(func(_ context.Context, h *html) {
		h.open("div", "portfolio-grid", "id", "portfolio-grid", "data-category", view.Category)
		if view.Failed {
			h.el("p", "notice notice-error", pc.T("public.portfolio.unavailable"))
		}
		if len(view.Items) == 0 {
			h.el("p", "empty-state", pc.T("public.portfolio.empty"))
			h.close("div")
			return
		}
		h.open("ul", "tiles")
		for i, item := range view.Items {
			href := routepath.PortfolioView(i, view.Category, view.ShowMore)
			orientation := "landscape"
			if item.Height > item.Width {
				orientation = "portrait"
			}
			h.open("li", "tile tile-"+orientation, "style", fmt.Sprintf("aspect-ratio: %d / %d", item.Width, item.Height))
			h.raw("<a")
			h.href("href", href)
			h.href("hx-get", href)
			h.attr("hx-target", "#lightbox")
			h.attr("hx-swap", "innerHTML")
			h.raw(">")
			h.raw("<img")
			h.attr("src", item.Src)
			h.attr("alt", item.Alt)
			h.raw(` loading="lazy">`)
			h.raw("</a></li>")
		}
		h.close("ul")
		if view.HasMore && !view.ShowMore {
			href := routepath.PortfolioGrid(view.Category, true)
			h.raw(`<div class="show-more"><a class="btn btn-outline"`)
			h.href("href", href)
			h.href("hx-get", href)
			h.attr("hx-target", "#portfolio-grid")
			h.attr("hx-swap", "outerHTML")
			h.raw(">")
			h.text(pc.T("public.portfolio.show_more"))
			h.raw("</a></div>")
		}
		h.close("div")
	})
}

// Lightbox renders one image with previous, next and close controls. The
// data attributes drive keyboard navigation in site.js.
func Lightbox(pc PageContext, view LightboxView) templ.Component {
	return component(func(_ context.Context, h *html) {
		h.raw(`<div class="lightbox" role="dialog" aria-modal="true" tabindex="-1" data-lightbox`)
		h.href("data-prev", view.PrevHref)
		h.href("data-next", view.NextHref)
		h.href("data-close", view.CloseHref)
		h.attr("aria-label", view.Alt)
		h.raw(">")
		h.raw(`<a class="lightbox-close"`)
		h.href("href", view.CloseHref)
		h.attr("aria-label", pc.T("core.close"))
		h.raw(">×</a>")
		if view.Total > 1 {
			h.raw(`<a class="lightbox-prev" hx-target="#lightbox" hx-swap="innerHTML"`)
			h.href("href", view.PrevHref)
			h.href("hx-get", view.PrevHref)
			h.attr("aria-label", pc.T("public.lightbox.previous"))
			h.raw(">‹</a>")
			h.raw(`<a class="lightbox-next" hx-target="#lightbox" hx-swap="innerHTML"`)
			h.href("href", view.NextHref)
			h.href("hx-get", view.NextHref)
			h.attr("aria-label", pc.T("public.lightbox.next"))
			h.raw(">›</a>")
		}
		orientation := "landscape"
		if view.Portrait {
			orientation = "portrait"
		}
		h.open("figure", "lightbox-figure lightbox-"+orientation)
		h.raw("<img")
		h.attr("src", view.Src)
		h.attr("alt", view.Alt)
		h.raw(">")
		h.open("figcaption", "lightbox-caption")
		if view.Caption != "" {
			h.el("span", "lightbox-title", view.Caption)
		}
		if view.Total > 0 {
			h.el("span", "lightbox-position", pc.T("public.lightbox.position", view.Current, view.Total))
		}
		h.close("figcaption")
		h.close("figure")
		h.close("div")
	})
}

// Testimonials renders the auto-advancing quote carousel.
func Testimonials(pc PageContext, section sitecontent.Section, items []backend.Testimonial) templ.Component {
	return component(func(ctx context.Context, h *html) {
		h.open("section", "testimonials", "id", "testimonials")
		h.el("h2", "section-title", section.Heading)
		h.el("p", "section-intro", section.Intro)
		if len(items) == 0 {
			h.el("p", "empty-state", pc.T("public.testimonials.empty"))
			h.close("section")
			return
		}
		h.open("div", "carousel", "data-carousel", "", "data-interval", itoa(CarouselInterval), "aria-roledescription", "carousel")
		for i, item := range items {
			h.raw(`<figure class="slide" data-slide`)
			h.attr("aria-label", pc.T("public.lightbox.position", i+1, len(items)))
			h.flag(i != 0, "hidden")
			h.raw(">")
			h.render(ctx, Stars(pc, item.Rating))
			h.el("blockquote", "slide-quote", item.Quote)
			h.open("figcaption", "slide-author")
			if item.Avatar != "" {
				h.raw(`<img class="avatar"`)
				h.attr("src", item.Avatar)
				h.attr("alt", item.Name)
				h.raw(` loading="lazy" width="56" height="56">`)
			}
			h.el("span", "", item.Name)
			h.close("figcaption")
			h.raw("</figure>")
		}
		if len(items) > 1 {
			h.open("div", "carousel-dots")
			for i := range items {
				h.raw(`<button type="button" class="dot" data-slide-to="`, itoa(i), `"`)
				h.attr("aria-label", pc.T("public.testimonials.go_to", i+1))
				h.raw("></button>")
			}
			h.close("div")
		}
		h.close("div")
		h.close("section")
	})
}

// Stars renders a five-star rating.
func Stars(pc PageContext, rating int) templ.Component {
	return component(func(_ context.Context, h *html) {
		if rating < 1 {
			rating = 1
		}
		if rating > 5 {
			rating = 5
		}
		h.open("span", "stars", "role", "img", "aria-label", pc.T("public.testimonials.rating", rating))
		for i := 0; i < 5; i++ {
			if i < rating {
				h.raw(`<span class="star star-filled" aria-hidden="true">★</span>`)
			} else {
				h.raw(`<span class="star" aria-hidden="true">☆</span>`)
			}
		}
		h.close("span")
	})
}

// Contact renders the contact methods and inquiry form.
func Contact(pc PageContext, contact sitecontent.Contact, form ContactFormView) templ.Component {
	return component(func(ctx context.Context, h *html) {
		h.open("section", "contact", "id", "contact")
		h.el("h2", "section-title", contact.Heading)
		h.el("p", "section-intro", contact.Intro)
		h.open("div", "contact-methods")
		for _, method := range contact.Methods {
			h.open("article", "contact-method contact-"+method.Kind)
			h.el("h3", "", method.Title)
			h.el("p", "contact-details", method.Details)
			h.el("p", "", method.Description)
			h.raw(`<a class="btn btn-link" target="_blank" rel="noopener noreferrer"`)
			h.href("href", method.Link)
			h.raw(">")
			h.text(method.Action)
			h.raw("</a>")
			h.close("article")
		}
		h.close("div")
		h.open("div", "contact-body")
		h.render(ctx, ContactForm(pc, contact.ProjectTypes, form))
		h.open("aside", "contact-quick")
		h.el("h3", "", pc.T("public.contact.quick_title"))
		h.el("p", "", contact.Quick.Body)
		if contact.Quick.WhatsApp != "" {
			h.raw(`<a class="btn btn-primary" target="_blank" rel="noopener noreferrer"`)
			h.href("href", contact.Quick.WhatsApp)
			h.raw(">")
			h.text(pc.T("public.contact.whatsapp_now"))
			h.raw("</a>")
		}
		if contact.Quick.Maps != "" {
			h.raw(`<a class="btn btn-outline" target="_blank" rel="noopener noreferrer"`)
			h.href("href", contact.Quick.Maps)
			h.raw(">")
			h.text(pc.T("public.contact.visit_workshop"))
			h.raw("</a>")
		}
		h.close("aside")
		h.close("div")
		h.close("section")
	})
}

// ContactForm renders the inquiry form; it swaps itself on htmx submit.
func ContactForm(pc PageContext, projectTypes []sitecontent.Option, form ContactFormView) templ.Component {
	return component(func(_ context.Context, h *html) {
		h.raw(`<form class="contact-form" id="contact-form" method="post"`)
		h.attr("action", routepath.Contact)
		h.attr("hx-post", routepath.Contact)
		h.raw(` hx-target="this" hx-swap="outerHTML" novalidate>`)
		if form.Sent {
			h.el("p", "notice notice-success", pc.T("public.contact.sent"), "role", "status")
		}
		if form.Failure != "" {
			h.el("p", "notice notice-error", form.Failure, "role", "alert")
		}
		field(h, pc, form.Errors, "name", "text", pc.T("public.contact.name"), form.Name, true)
		field(h, pc, form.Errors, "email", "email", pc.T("public.contact.email"), form.Email, false)
		field(h, pc, form.Errors, "phone", "tel", pc.T("public.contact.phone"), form.Phone, false)

		h.open("label", "field")
		h.el("span", "field-label", pc.T("public.contact.project_type"))
		h.raw(`<select name="project_type">`)
		h.raw(`<option value="">`)
		h.text(pc.T("public.contact.select_service"))
		h.raw("</option>")
		for _, option := range projectTypes {
			h.raw("<option")
			h.attr("value", option.Value)
			h.flag(option.Value == form.ProjectType, "selected")
			h.raw(">")
			h.text(option.Label)
			h.raw("</option>")
		}
		h.raw("</select>")
		h.close("label")

		h.open("label", classes("field", errorClass(form.Errors, "message")))
		h.el("span", "field-label", pc.T("public.contact.message"))
		h.raw(`<textarea name="message" rows="4" required>`)
		h.text(form.Message)
		h.raw("</textarea>")
		fieldError(h, pc, form.Errors, "message")
		h.close("label")

		h.el("button", "btn btn-primary", pc.T("public.contact.send"), "type", "submit")
		h.raw("</form>")
	})
}

func field(h *html, pc PageContext, errs map[string]string, name, kind, label, value string, required bool) {
	h.open("label", classes("field", errorClass(errs, name)))
	h.el("span", "field-label", label)
	h.raw("<input")
	h.attr("type", kind)
	h.attr("name", name)
	h.attr("value", value)
	h.flag(required, "required")
	h.attrIf(errs[name] != "", "aria-invalid", "true")
	h.raw(">")
	fieldError(h, pc, errs, name)
	h.close("label")
}

func fieldError(h *html, pc PageContext, errs map[string]string, name string) {
	if key := errs[name]; key != "" {
		h.el("span", "field-error", pc.T(key))
	}
}

func errorClass(errs map[string]string, name string) string {
	if errs[name] != "" {
		return "has-error"
	}
	return ""
}

// Footer renders the page footer.
func Footer(pc PageContext, content sitecontent.Content, year int) templ.Component {
	return component(func(_ context.Context, h *html) {
		h.open("footer", "footer")
		h.open("div", "footer-brand")
		h.text(content.Brand.Short)
		if content.Brand.Accent != "" {
			h.raw(" ")
			h.el("span", "footer-accent", content.Brand.Accent)
		}
		h.close("div")
		h.open("nav", "footer-nav", "aria-label", pc.T("public.footer.nav_label"))
		for _, link := range content.Navigation {
			h.raw("<a")
			h.href("href", sectionHref(link.Href))
			h.raw(" data-scroll-link>")
			h.text(link.Name)
			h.raw("</a>")
		}
		h.close("nav")
		h.open("div", "footer-social")
		for _, link := range content.Social {
			h.raw(`<a target="_blank" rel="noopener noreferrer"`)
			h.href("href", link.Href)
			h.raw(">")
			h.text(link.Name)
			h.raw("</a>")
		}
		h.close("div")
		h.el("p", "footer-copy", fmt.Sprintf("© %d %s", year, content.Footer.Copyright))
		h.close("footer")
	})
}

// ProjectDetail renders one project with its gallery.
func ProjectDetail(pc PageContext, view ProjectView) templ.Component {
	return component(func(_ context.Context, h *html) {
		project := view.Project
		h.open("section", "project-hero")
		h.raw(`<a class="btn btn-link back-link" href="/#portfolio">← `)
		h.text(pc.T("public.project.back"))
		h.raw("</a>")
		if view.CategoryName != "" {
			h.el("span", "badge", view.CategoryName)
		}
		h.el("h1", "project-title", project.Title)
		if project.Description != "" {
			h.el("p", "project-description", project.Description)
		}
		h.close("section")

		h.open("section", "project-gallery")
		if len(project.Images) == 0 {
			if project.ThumbnailImage != "" {
				h.raw(`<img class="project-thumbnail"`)
				h.attr("src", project.ThumbnailImage)
				h.attr("alt", project.Title)
				h.raw(">")
			} else {
				h.el("p", "empty-state", pc.T("public.project.no_images"))
			}
		} else {
			h.open("ul", "tiles")
			for i, image := range project.Images {
				href := routepath.ProjectImage(project.ID.String(), i)
				h.raw(`<li class="tile"><a hx-target="#lightbox" hx-swap="innerHTML"`)
				h.href("href", href)
				h.href("hx-get", href)
				h.raw("><img")
				h.attr("src", image.ImageURL)
				h.attr("alt", ImageAlt(project.Title, image.AltText, i))
				h.raw(` loading="lazy"></a></li>`)
			}
			h.close("ul")
		}
		h.raw(`<div id="lightbox" aria-live="polite"></div>`)
		h.close("section")
	})
}

// ImageAlt returns alt text or "<title> - Image n".
func ImageAlt(title, alt string, index int) string {
	if strings.TrimSpace(alt) != "" {
		return alt
	}
	return fmt.Sprintf("%s - Image %d", title, index+1)
}

// NotFound renders the missing page body.
func NotFound(pc PageContext) templ.Component {
	return component(func(_ context.Context, h *html) {
		h.open("section", "not-found")
		h.el("p", "not-found-code", "404")
		h.el("h1", "", pc.T("errors.not_found_title"))
		h.el("p", "", pc.T("errors.not_found_body"))
		h.open("div", "not-found-actions")
		h.el("a", "btn btn-primary", pc.T("errors.back_home"), "href", routepath.Root)
		h.el("button", "btn btn-outline", pc.T("errors.previous_page"), "type", "button", "data-history-back", "")
		h.close("div")
		h.close("section")
	})
}

// ErrorPage renders a generic failure body.
func ErrorPage(pc PageContext, status int, message string) templ.Component {
	return component(func(_ context.Context, h *html) {
		h.open("section", "error-page")
		h.el("p", "not-found-code", itoa(status))
		h.el("h1", "", pc.T("errors.title"))
		h.el("p", "", message)
		h.el("a", "btn btn-primary", pc.T("errors.back_home"), "href", routepath.Root)
		h.close("section")
	})
}
