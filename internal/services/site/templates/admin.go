package templates

import (
	"context"
	"fmt"

	"github.com/a-h/templ"
	"github.com/s2design/site/internal/services/site/backend"
	"github.com/s2design/site/internal/services/site/routepath"
)

// Admin sections used to highlight the sidebar.
const (
	SectionDashboard    = "dashboard"
	SectionProjects     = "projects"
	SectionPortfolio    = "portfolio"
	SectionTestimonials = "testimonials"
	SectionCategories   = "categories"
)

// AdminShellView is the admin frame state.
type AdminShellView struct {
	User    string
	Section string
}

type adminNavItem struct {
	section string
	href    string
	key     string
}

var adminNav = []adminNavItem{
	{SectionDashboard, routepath.AdminDashboard, "admin.nav.dashboard"},
	{SectionProjects, routepath.AdminProjects, "admin.nav.projects"},
	{SectionPortfolio, routepath.AdminPortfolio, "admin.nav.portfolio"},
	{SectionTestimonials, routepath.AdminTestimonials, "admin.nav.testimonials"},
	{SectionCategories, routepath.AdminCategories, "admin.nav.categories"},
}

// AdminShell renders the sidebar frame around body.
func AdminShell(pc PageContext, view AdminShellView, body templ.Component) templ.Component {
	return component(func(ctx context.Context, h *html) {
		h.open("div", "admin-shell")
		h.open("aside", "admin-sidebar")
		h.el("a", "admin-brand", pc.T("admin.brand"), "href", routepath.AdminDashboard)
		h.open("nav", "admin-nav", "aria-label", pc.T("admin.nav.label"))
		for _, item := range adminNav {
			active := item.section == view.Section
			h.raw("<a")
			h.href("href", item.href)
			h.attr("class", classes("admin-nav-link", activeClass(active)))
			h.attrIf(active, "aria-current", "page")
			h.raw(">")
			h.text(pc.T(item.key))
			h.raw("</a>")
		}
		h.close("nav")
		h.open("div", "admin-user")
		user := view.User
		if user == "" {
			user = pc.T("admin.user_fallback")
		}
		h.el("span", "admin-username", user)
		h.el("span", "admin-role", pc.T("admin.role"))
		h.el("a", "btn btn-link", pc.T("admin.view_site"), "href", routepath.Root, "target", "_blank", "rel", "noopener")
		h.raw(`<form method="post"`)
		h.attr("action", routepath.AdminLogout)
		h.raw(">")
		h.el("button", "btn btn-outline", pc.T("admin.logout"), "type", "submit")
		h.raw("</form>")
		h.close("div")
		h.close("aside")
		h.open("main", "admin-main", "id", "admin-main")
		h.render(ctx, body)
		h.close("main")
		h.close("div")
	})
}

// DashboardStat is one overview card.
type DashboardStat struct {
	Label  string
	Value  int
	Href   string
	Action string
	Failed bool
}

// DistributionRow is one category share of the portfolio.
type DistributionRow struct {
	Name    string
	Count   int
	Percent int
}

// DashboardView is the admin landing page state.
type DashboardView struct {
	User          string
	Stats         []DashboardStat
	Distribution  []DistributionRow
	AverageRating float64
	Testimonials  int
}

// Dashboard renders the admin overview.
func Dashboard(pc PageContext, view DashboardView) templ.Component {
	return component(func(_ context.Context, h *html) {
		user := view.User
		if user == "" {
			user = pc.T("admin.user_fallback")
		}
		h.open("header", "admin-header")
		h.el("h1", "", pc.T("admin.dashboard.title"))
		h.el("p", "", pc.T("admin.dashboard.welcome", user))
		h.close("header")

		h.open("div", "stat-grid")
		for _, stat := range view.Stats {
			h.open("article", classes("stat-card", failedClass(stat.Failed)))
			h.el("h2", "stat-card-label", stat.Label)
			if stat.Failed {
				h.el("p", "stat-card-value", "–", "title", pc.T("errors.backend_unavailable"))
			} else {
				h.el("p", "stat-card-value", itoa(stat.Value))
			}
			h.el("a", "btn btn-link", stat.Action, "href", stat.Href)
			h.close("article")
		}
		h.close("div")

		h.open("section", "admin-card quick-actions")
		h.el("h2", "", pc.T("admin.dashboard.quick_actions"))
		h.el("a", "btn btn-primary", pc.T("admin.dashboard.add_project"), "href", routepath.AdminProjectsNew)
		h.el("a", "btn btn-primary", pc.T("admin.dashboard.add_portfolio"), "href", routepath.AdminPortfolioNew)
		h.el("a", "btn btn-primary", pc.T("admin.dashboard.add_testimonial"), "href", routepath.AdminTestimonialsNew)
		h.el("a", "btn btn-primary", pc.T("admin.dashboard.add_category"), "href", routepath.AdminCategoriesNew)
		h.close("section")

		h.open("section", "admin-card overview")
		h.el("h2", "", pc.T("admin.dashboard.overview"))
		h.open("div", "distribution")
		h.el("h3", "", pc.T("admin.dashboard.distribution"))
		if len(view.Distribution) == 0 {
			h.el("p", "empty-state", pc.T("admin.dashboard.no_distribution"))
		}
		for _, row := range view.Distribution {
			h.open("div", "distribution-row")
			h.el("span", "", row.Name)
			h.raw(`<meter min="0" max="100"`)
			h.attr("value", itoa(row.Percent))
			h.raw("></meter>")
			h.el("span", "distribution-count", itoa(row.Count))
			h.close("div")
		}
		h.close("div")
		h.open("div", "average-rating")
		h.el("h3", "", pc.T("admin.dashboard.average_rating"))
		h.el("p", "rating-value", fmt.Sprintf("%.1f", view.AverageRating))
		h.el("p", "", pc.T("admin.dashboard.rating_basis", view.Testimonials))
		h.close("div")
		h.close("section")
	})
}

func failedClass(failed bool) string {
	if failed {
		return "is-failed"
	}
	return ""
}

// ProjectListView is the admin project table state.
type ProjectListView struct {
	Projects   []backend.Project
	Total      int
	Category   string
	Query      string
	Categories []CategoryLink
	LoadError  string
}

// ProjectList renders the filterable project table.
func ProjectList(pc PageContext, view ProjectListView) templ.Component {
	return component(func(_ context.Context, h *html) {
		adminHeader(h, pc.T("admin.projects.title"), pc.T("admin.projects.subtitle"), routepath.AdminProjectsNew, pc.T("admin.projects.add"))
		h.open("div", "admin-toolbar")
		h.open("nav", "filter-chips", "aria-label", pc.T("admin.projects.filter_label"))
		for _, category := range view.Categories {
			h.raw("<a")
			h.href("href", routepath.AdminProjectsFiltered(category.Slug, ""))
			h.attr("class", classes("filter-chip", activeClass(category.Active)))
			h.attrIf(category.Active, "aria-current", "true")
			h.raw(">")
			h.text(category.Name)
			h.raw("</a>")
		}
		h.close("nav")
		h.raw(`<form class="search" method="get"`)
		h.attr("action", routepath.AdminProjects)
		h.raw(">")
		if view.Category != "" && view.Category != "all" {
			h.raw(`<input type="hidden" name="category"`)
			h.attr("value", view.Category)
			h.raw(">")
		}
		h.raw(`<input type="search" name="q"`)
		h.attr("value", view.Query)
		h.attr("placeholder", pc.T("admin.projects.search_placeholder"))
		h.attr("aria-label", pc.T("admin.projects.search_placeholder"))
		h.raw(">")
		h.el("button", "btn btn-outline", pc.T("admin.search"), "type", "submit")
		h.raw("</form>")
		h.close("div")

		if view.LoadError != "" {
			h.el("p", "notice notice-error", view.LoadError, "role", "alert")
		}
		h.el("p", "admin-count", pc.T("admin.projects.showing", len(view.Projects), view.Total))
		if len(view.Projects) == 0 {
			h.el("p", "empty-state", pc.T("admin.projects.empty"))
			return
		}
		h.open("div", "project-cards")
		for _, project := range view.Projects {
			id := project.ID.String()
			h.open("article", "project-card")
			if project.ThumbnailImage != "" {
				h.raw("<img")
				h.attr("src", project.ThumbnailImage)
				h.attr("alt", project.Title)
				h.raw(` loading="lazy">`)
			}
			h.el("h2", "", project.Title)
			h.el("span", "badge", project.Category)
			h.el("p", "project-card-images", pc.T("admin.projects.image_count", len(project.Images)))
			h.open("div", "row-actions")
			if len(project.Images) > 0 {
				h.el("a", "btn btn-link", pc.T("admin.preview"), "href", routepath.AdminProjectPreviewPath(id, 0))
			}
			h.el("a", "btn btn-link", pc.T("admin.edit"), "href", routepath.AdminProjectEditPath(id))
			h.el("a", "btn btn-danger", pc.T("admin.delete"), "href", routepath.AdminProjectDeletePath(id))
			h.close("div")
			h.close("article")
		}
		h.close("div")
	})
}

// ProjectFormView is the project editor state. An empty ID means a new
// project.
type ProjectFormView struct {
	ID         string
	Input      backend.ProjectInput
	Categories []CategoryLink
	Error      string
}

// Form actions posted by the project editor's row buttons.
const (
	ActionSave        = "save"
	ActionAddImage    = "add_image"
	ActionRemoveImage = "remove_image"
)

// ProjectForm renders the project editor with its image rows.
func ProjectForm(pc PageContext, view ProjectFormView) templ.Component {
	return component(func(_ context.Context, h *html) {
		title := pc.T("admin.projects.new_title")
		action := routepath.AdminProjects
		if view.ID != "" {
			title = pc.T("admin.projects.edit_title")
			action = routepath.AdminProject(view.ID)
		}
		formStart(h, pc, title, action, view.Error)
		in := view.Input
		textInput(h, "title", pc.T("admin.projects.field_title"), in.Title, true)
		h.open("label", "field")
		h.el("span", "field-label", pc.T("admin.projects.field_description"))
		h.raw(`<textarea name="description" rows="4">`)
		h.text(in.Description)
		h.raw("</textarea>")
		h.close("label")
		categorySelect(h, pc, view.Categories, in.Category)
		textInput(h, "thumbnail_image", pc.T("admin.projects.field_thumbnail"), in.ThumbnailImage, true)

		h.open("fieldset", "image-rows")
		h.el("legend", "", pc.T("admin.projects.images"))
		for i, image := range in.Images {
			h.open("div", "image-row")
			h.el("span", "image-row-number", itoa(i+1))
			h.raw(`<input type="url" name="image_url"`)
			h.attr("value", image.ImageURL)
			h.attr("placeholder", pc.T("admin.projects.field_image_url"))
			h.attr("aria-label", pc.T("admin.projects.field_image_url"))
			h.raw(">")
			h.raw(`<input type="text" name="image_alt"`)
			h.attr("value", image.AltText)
			h.attr("placeholder", pc.T("admin.projects.field_image_alt"))
			h.attr("aria-label", pc.T("admin.projects.field_image_alt"))
			h.raw(">")
			if len(in.Images) > 1 {
				h.raw(`<button type="submit" class="btn btn-link" name="action" formnovalidate`)
				h.attr("value", fmt.Sprintf("%s:%d", ActionRemoveImage, i))
				h.raw(">")
				h.text(pc.T("admin.projects.remove_image"))
				h.raw("</button>")
			}
			h.close("div")
		}
		h.raw(`<button type="submit" class="btn btn-outline" name="action" formnovalidate`)
		h.attr("value", ActionAddImage)
		h.raw(">")
		h.text(pc.T("admin.projects.add_image"))
		h.raw("</button>")
		h.close("fieldset")
		formEnd(h, pc, routepath.AdminProjects)
	})
}

// ProjectPreview renders an admin image viewer for one project.
func ProjectPreview(pc PageContext, project backend.Project, view LightboxView) templ.Component {
	return component(func(ctx context.Context, h *html) {
		h.open("header", "admin-header")
		h.el("h1", "", project.Title)
		h.el("a", "btn btn-link", pc.T("admin.back"), "href", routepath.AdminProjects)
		h.close("header")
		if len(project.Images) == 0 {
			h.el("p", "empty-state", pc.T("admin.projects.no_images"))
			return
		}
		h.render(ctx, Lightbox(pc, view))
	})
}

// CategoryListView is the admin category table state.
type CategoryListView struct {
	Categories []backend.Category
	LoadError  string
}

// CategoryList renders the categories with system entries marked.
func CategoryList(pc PageContext, view CategoryListView) templ.Component {
	return component(func(_ context.Context, h *html) {
		adminHeader(h, pc.T("admin.categories.title"), pc.T("admin.categories.subtitle"), routepath.AdminCategoriesNew, pc.T("admin.categories.add"))
		if view.LoadError != "" {
			h.el("p", "notice notice-error", view.LoadError, "role", "alert")
		}
		custom := 0
		h.open("table", "admin-table")
		h.raw("<thead><tr>")
		h.el("th", "", pc.T("admin.categories.field_name"))
		h.el("th", "", pc.T("admin.categories.field_slug"))
		h.el("th", "", pc.T("admin.actions"))
		h.raw("</tr></thead><tbody>")
		for _, category := range view.Categories {
			h.raw("<tr>")
			h.el("td", "", category.Name)
			h.el("td", "slug", category.Slug)
			h.open("td", "row-actions")
			if category.Slug == "all" {
				h.el("span", "badge", pc.T("admin.categories.system"))
			} else {
				custom++
				id := category.ID.String()
				h.el("a", "btn btn-link", pc.T("admin.edit"), "href", routepath.AdminCategoryEditPath(id))
				h.el("a", "btn btn-danger", pc.T("admin.delete"), "href", routepath.AdminCategoryDeletePath(id))
			}
			h.close("td")
			h.raw("</tr>")
		}
		h.raw("</tbody>")
		h.close("table")
		if custom == 0 {
			h.el("p", "empty-state", pc.T("admin.categories.empty"))
		}
	})
}

// CategoryFormView is the category editor state.
type CategoryFormView struct {
	ID    string
	Input backend.CategoryInput
	Error string
}

// CategoryForm renders the category editor. A blank slug is generated from
// the name on save.
func CategoryForm(pc PageContext, view CategoryFormView) templ.Component {
	return component(func(_ context.Context, h *html) {
		title := pc.T("admin.categories.new_title")
		action := routepath.AdminCategories
		if view.ID != "" {
			title = pc.T("admin.categories.edit_title")
			action = routepath.AdminCategory(view.ID)
		}
		formStart(h, pc, title, action, view.Error)
		textInput(h, "name", pc.T("admin.categories.field_name"), view.Input.Name, true)
		textInput(h, "slug", pc.T("admin.categories.field_slug"), view.Input.Slug, false)
		h.el("p", "field-hint", pc.T("admin.categories.slug_hint"))
		formEnd(h, pc, routepath.AdminCategories)
	})
}

// TestimonialListView is the admin testimonial list state.
type TestimonialListView struct {
	Testimonials []backend.Testimonial
	LoadError    string
}

// TestimonialList renders the testimonials with their ratings.
func TestimonialList(pc PageContext, view TestimonialListView) templ.Component {
	return component(func(ctx context.Context, h *html) {
		adminHeader(h, pc.T("admin.testimonials.title"), pc.T("admin.testimonials.subtitle"), routepath.AdminTestimonialsNew, pc.T("admin.testimonials.add"))
		if view.LoadError != "" {
			h.el("p", "notice notice-error", view.LoadError, "role", "alert")
		}
		h.el("p", "admin-count", pc.T("admin.testimonials.total", len(view.Testimonials)))
		if len(view.Testimonials) == 0 {
			h.el("p", "empty-state", pc.T("admin.testimonials.empty"))
			return
		}
		h.open("div", "testimonial-cards")
		for _, item := range view.Testimonials {
			id := item.ID.String()
			h.open("article", "testimonial-card")
			if item.Avatar != "" {
				h.raw(`<img class="avatar"`)
				h.attr("src", item.Avatar)
				h.attr("alt", item.Name)
				h.raw(` loading="lazy" width="48" height="48">`)
			}
			h.el("h2", "", item.Name)
			h.render(ctx, Stars(pc, item.Rating))
			h.el("blockquote", "", item.Quote)
			h.open("div", "row-actions")
			h.el("a", "btn btn-link", pc.T("admin.edit"), "href", routepath.AdminTestimonialEditPath(id))
			h.el("a", "btn btn-danger", pc.T("admin.delete"), "href", routepath.AdminTestimonialDeletePath(id))
			h.close("div")
			h.close("article")
		}
		h.close("div")
	})
}

// TestimonialFormView is the testimonial editor state.
type TestimonialFormView struct {
	ID    string
	Input backend.TestimonialInput
	Error string
}

// TestimonialForm renders the testimonial editor.
func TestimonialForm(pc PageContext, view TestimonialFormView) templ.Component {
	return component(func(_ context.Context, h *html) {
		title := pc.T("admin.testimonials.new_title")
		action := routepath.AdminTestimonials
		if view.ID != "" {
			title = pc.T("admin.testimonials.edit_title")
			action = routepath.AdminTestimonial(view.ID)
		}
		formStart(h, pc, title, action, view.Error)
		in := view.Input
		textInput(h, "name", pc.T("admin.testimonials.field_name"), in.Name, true)
		h.open("label", "field")
		h.el("span", "field-label", pc.T("admin.testimonials.field_quote"))
		h.raw(`<textarea name="quote" rows="4" required>`)
		h.text(in.Quote)
		h.raw("</textarea>")
		h.close("label")
		textInput(h, "avatar", pc.T("admin.testimonials.field_avatar"), in.Avatar, false)
		h.open("label", "field")
		h.el("span", "field-label", pc.T("admin.testimonials.field_rating"))
		h.raw(`<select name="rating">`)
		for rating := 5; rating >= 1; rating-- {
			h.raw("<option")
			h.attr("value", itoa(rating))
			h.flag(rating == in.Rating, "selected")
			h.raw(">")
			h.text(pc.T("admin.testimonials.stars", rating))
			h.raw("</option>")
		}
		h.raw("</select>")
		h.close("label")
		formEnd(h, pc, routepath.AdminTestimonials)
	})
}

// PortfolioListView is the admin gallery state.
type PortfolioListView struct {
	Items      []backend.PortfolioItem
	Category   string
	Categories []CategoryLink
	LoadError  string
}

// PortfolioList renders the gallery items grouped by the category filter.
func PortfolioList(pc PageContext, view PortfolioListView) templ.Component {
	return component(func(_ context.Context, h *html) {
		adminHeader(h, pc.T("admin.portfolio.title"), pc.T("admin.portfolio.subtitle"), routepath.AdminPortfolioNew, pc.T("admin.portfolio.add"))
		h.open("nav", "filter-chips", "aria-label", pc.T("admin.portfolio.filter_label"))
		for _, category := range view.Categories {
			h.raw("<a")
			h.href("href", routepath.AdminPortfolioFiltered(category.Slug))
			h.attr("class", classes("filter-chip", activeClass(category.Active)))
			h.attrIf(category.Active, "aria-current", "true")
			h.raw(">")
			h.text(category.Name)
			h.raw("</a>")
		}
		h.close("nav")
		if view.LoadError != "" {
			h.el("p", "notice notice-error", view.LoadError, "role", "alert")
		}
		if len(view.Items) == 0 {
			h.el("p", "empty-state", pc.T("admin.portfolio.empty"))
			return
		}
		h.open("div", "portfolio-cards")
		for _, item := range view.Items {
			id := item.ID.String()
			h.open("article", "portfolio-card")
			h.raw("<img")
			h.attr("src", item.Src)
			h.attr("alt", item.Alt)
			h.raw(` loading="lazy">`)
			h.el("p", "", item.Alt)
			h.el("span", "badge", item.Category)
			h.el("span", "dimensions", fmt.Sprintf("%d × %d", item.Width, item.Height))
			h.open("div", "row-actions")
			h.el("a", "btn btn-link", pc.T("admin.edit"), "href", routepath.AdminPortfolioEditPath(id))
			h.el("a", "btn btn-danger", pc.T("admin.delete"), "href", routepath.AdminPortfolioDeletePath(id))
			h.close("div")
			h.close("article")
		}
		h.close("div")
	})
}

// PortfolioFormView is the gallery item editor state.
type PortfolioFormView struct {
	ID         string
	Input      backend.PortfolioInput
	Categories []CategoryLink
	Error      string
}

// PortfolioForm renders the gallery item editor with a live-size preview.
func PortfolioForm(pc PageContext, view PortfolioFormView) templ.Component {
	return component(func(_ context.Context, h *html) {
		title := pc.T("admin.portfolio.new_title")
		action := routepath.AdminPortfolio
		if view.ID != "" {
			title = pc.T("admin.portfolio.edit_title")
			action = routepath.AdminPortfolioItem(view.ID)
		}
		formStart(h, pc, title, action, view.Error)
		in := view.Input
		textInput(h, "src", pc.T("admin.portfolio.field_src"), in.Src, true)
		textInput(h, "alt", pc.T("admin.portfolio.field_alt"), in.Alt, true)
		numberInput(h, "width", pc.T("admin.portfolio.field_width"), in.Width)
		numberInput(h, "height", pc.T("admin.portfolio.field_height"), in.Height)
		categorySelect(h, pc, view.Categories, in.Category)
		if in.Src != "" {
			h.open("figure", "portfolio-preview")
			h.raw("<img")
			h.attr("src", in.Src)
			h.attr("alt", in.Alt)
			if in.Width > 0 && in.Height > 0 {
				h.attr("style", fmt.Sprintf("aspect-ratio: %d / %d", in.Width, in.Height))
			}
			h.raw(">")
			h.el("figcaption", "", pc.T("admin.preview"))
			h.close("figure")
		}
		formEnd(h, pc, routepath.AdminPortfolio)
	})
}

// ConfirmDeleteView describes a pending deletion.
type ConfirmDeleteView struct {
	Title   string
	Message string
	Item    string
	Action  string
	Cancel  string
}

// ConfirmDelete renders a confirmation form that posts to Action.
func ConfirmDelete(pc PageContext, view ConfirmDeleteView) templ.Component {
	return component(func(_ context.Context, h *html) {
		h.open("section", "admin-card confirm", "role", "alertdialog", "aria-labelledby", "confirm-title")
		h.el("h1", "", view.Title, "id", "confirm-title")
		h.el("p", "", view.Message)
		if view.Item != "" {
			h.el("p", "confirm-item", view.Item)
		}
		h.raw(`<form method="post"`)
		h.attr("action", view.Action)
		h.raw(">")
		h.el("button", "btn btn-danger", pc.T("admin.delete"), "type", "submit")
		h.el("a", "btn btn-link", pc.T("admin.cancel"), "href", view.Cancel)
		h.raw("</form>")
		h.close("section")
	})
}

func adminHeader(h *html, title, subtitle, addHref, addLabel string) {
	h.open("header", "admin-header")
	h.open("div", "")
	h.el("h1", "", title)
	h.el("p", "", subtitle)
	h.close("div")
	h.el("a", "btn btn-primary", addLabel, "href", addHref)
	h.close("header")
}

func formStart(h *html, pc PageContext, title, action, failure string) {
	h.open("header", "admin-header")
	h.el("h1", "", title)
	h.close("header")
	h.raw(`<form class="admin-form" method="post"`)
	h.attr("action", action)
	h.raw(">")
	if failure != "" {
		h.open("div", "notice notice-error", "role", "alert")
		h.el("strong", "", pc.T("admin.save_failed"))
		h.el("p", "", failure)
		h.close("div")
	}
}

func formEnd(h *html, pc PageContext, cancel string) {
	h.open("div", "form-actions")
	h.raw(`<button type="submit" class="btn btn-primary" name="action"`)
	h.attr("value", ActionSave)
	h.raw(">")
	h.text(pc.T("admin.save"))
	h.raw("</button>")
	h.el("a", "btn btn-link", pc.T("admin.cancel"), "href", cancel)
	h.close("div")
	h.raw("</form>")
}

func textInput(h *html, name, label, value string, required bool) {
	h.open("label", "field")
	h.el("span", "field-label", label)
	h.raw(`<input type="text"`)
	h.attr("name", name)
	h.attr("value", value)
	h.flag(required, "required")
	h.raw(">")
	h.close("label")
}

func numberInput(h *html, name, label string, value int) {
	h.open("label", "field")
	h.el("span", "field-label", label)
	h.raw(`<input type="number" min="1"`)
	h.attr("name", name)
	if value > 0 {
		h.attr("value", itoa(value))
	}
	h.raw(">")
	h.close("label")
}

func categorySelect(h *html, pc PageContext, categories []CategoryLink, selected string) {
	h.open("label", "field")
	h.el("span", "field-label", pc.T("admin.field_category"))
	h.raw(`<select name="category" required>`)
	h.raw(`<option value="">`)
	h.text(pc.T("admin.select_category"))
	h.raw("</option>")
	found := false
	for _, category := range categories {
		if category.Slug == "all" {
			continue
		}
		found = found || category.Slug == selected
		h.raw("<option")
		h.attr("value", category.Slug)
		h.flag(category.Slug == selected, "selected")
		h.raw(">")
		h.text(category.Name)
		h.raw("</option>")
	}
	if !found && selected != "" {
		h.raw("<option selected")
		h.attr("value", selected)
		h.raw(">")
		h.text(selected)
		h.raw("</option>")
	}
	h.raw("</select>")
	h.close("label")
}
