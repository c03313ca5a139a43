// Package routepath stores canonical HTTP paths for site modules.
package routepath

import (
	"net/url"
	"strconv"
	"strings"
)

const (
	Root                  = "/"
	Health                = "/healthz"
	StaticPrefix          = "/static/"
	Portfolio             = "/portfolio"
	PortfolioPrefix       = "/portfolio/"
	PortfolioViewPattern  = PortfolioPrefix + "view/{index}"
	ProjectsPrefix        = "/projects/"
	ProjectPattern        = ProjectsPrefix + "{id}"
	ProjectImagePattern   = ProjectsPrefix + "{id}/images/{index}"
	Contact               = "/contact"
	AdminPrefix           = "/admin/"
	AdminDashboard        = "/admin/"
	AdminLogin            = "/admin/login"
	AdminLogout           = "/admin/logout"
	AdminForgotPassword   = "/admin/forgot-password"
	AdminProjects         = "/admin/projects"
	AdminProjectsNew      = "/admin/projects/new"
	AdminProjectsPrefix   = "/admin/projects/"
	AdminProjectPattern   = AdminProjectsPrefix + "{id}"
	AdminProjectEdit      = AdminProjectsPrefix + "{id}/edit"
	AdminProjectDelete    = AdminProjectsPrefix + "{id}/delete"
	AdminProjectPreview   = AdminProjectsPrefix + "{id}/images/{index}"
	AdminCategories       = "/admin/categories"
	AdminCategoriesNew    = "/admin/categories/new"
	AdminCategoriesPrefix = "/admin/categories/"
	AdminCategoryPattern  = AdminCategoriesPrefix + "{id}"
	AdminCategoryEdit     = AdminCategoriesPrefix + "{id}/edit"
	AdminCategoryDelete   = AdminCategoriesPrefix + "{id}/delete"
	AdminTestimonials     = "/admin/testimonials"
	AdminTestimonialsNew  = "/admin/testimonials/new"
	AdminTestimonialsPfx  = "/admin/testimonials/"
	AdminTestimonialPat   = AdminTestimonialsPfx + "{id}"
	AdminTestimonialEdit  = AdminTestimonialsPfx + "{id}/edit"
	AdminTestimonialDel   = AdminTestimonialsPfx + "{id}/delete"
	AdminPortfolio        = "/admin/portfolio"
	AdminPortfolioNew     = "/admin/portfolio/new"
	AdminPortfolioPrefix  = "/admin/portfolio/"
	AdminPortfolioPattern = AdminPortfolioPrefix + "{id}"
	AdminPortfolioEdit    = AdminPortfolioPrefix + "{id}/edit"
	AdminPortfolioDelete  = AdminPortfolioPrefix + "{id}/delete"
)

// PortfolioView returns the lightbox path for one filtered portfolio index.
func PortfolioView(index int, category string, showMore bool) string {
	return withPortfolioQuery(PortfolioPrefix+"view/"+strconv.Itoa(index), category, showMore)
}

// PortfolioGrid returns the grid path for a category filter.
func PortfolioGrid(category string, showMore bool) string {
	return withPortfolioQuery(Portfolio, category, showMore)
}

func withPortfolioQuery(path, category string, showMore bool) string {
	query := url.Values{}
	if category = strings.TrimSpace(category); category != "" && category != "all" {
		query.Set("category", category)
	}
	if showMore {
		query.Set("more", "1")
	}
	if len(query) == 0 {
		return path
	}
	return path + "?" + query.Encode()
}

// Project returns the public detail path for a project.
func Project(id string) string {
	return ProjectsPrefix + escapeSegment(id)
}

// ProjectImage returns the public lightbox path for one project image.
func ProjectImage(id string, index int) string {
	return Project(id) + "/images/" + strconv.Itoa(index)
}

// AdminProjectsFiltered returns the admin project list with filters applied.
func AdminProjectsFiltered(category, query string) string {
	values := url.Values{}
	if category = strings.TrimSpace(category); category != "" && category != "all" {
		values.Set("category", category)
	}
	if query = strings.TrimSpace(query); query != "" {
		values.Set("q", query)
	}
	if len(values) == 0 {
		return AdminProjects
	}
	return AdminProjects + "?" + values.Encode()
}

// AdminProject returns the update target for a project.
func AdminProject(id string) string { return AdminProjectsPrefix + escapeSegment(id) }

// AdminProjectEditPath returns the edit form path for a project.
func AdminProjectEditPath(id string) string { return AdminProject(id) + "/edit" }

// AdminProjectDeletePath returns the delete confirmation path for a project.
func AdminProjectDeletePath(id string) string { return AdminProject(id) + "/delete" }

// AdminProjectPreviewPath returns the admin image preview for a project.
func AdminProjectPreviewPath(id string, index int) string {
	return AdminProject(id) + "/images/" + strconv.Itoa(index)
}

// AdminCategory returns the update target for a category.
func AdminCategory(id string) string { return AdminCategoriesPrefix + escapeSegment(id) }

// AdminCategoryEditPath returns the edit form path for a category.
func AdminCategoryEditPath(id string) string { return AdminCategory(id) + "/edit" }

// AdminCategoryDeletePath returns the delete confirmation path for a category.
func AdminCategoryDeletePath(id string) string { return AdminCategory(id) + "/delete" }

// AdminTestimonial returns the update target for a testimonial.
func AdminTestimonial(id string) string { return AdminTestimonialsPfx + escapeSegment(id) }

// AdminTestimonialEditPath returns the edit form path for a testimonial.
func AdminTestimonialEditPath(id string) string { return AdminTestimonial(id) + "/edit" }

// AdminTestimonialDeletePath returns the delete confirmation path for a testimonial.
func AdminTestimonialDeletePath(id string) string { return AdminTestimonial(id) + "/delete" }

// AdminPortfolioItem returns the update target for a portfolio item.
func AdminPortfolioItem(id string) string { return AdminPortfolioPrefix + escapeSegment(id) }

// AdminPortfolioEditPath returns the edit form path for a portfolio item.
func AdminPortfolioEditPath(id string) string { return AdminPortfolioItem(id) + "/edit" }

// AdminPortfolioDeletePath returns the delete confirmation path for a portfolio item.
func AdminPortfolioDeletePath(id string) string { return AdminPortfolioItem(id) + "/delete" }

// AdminPortfolioFiltered returns the admin portfolio list for a category.
func AdminPortfolioFiltered(category string) string {
	if category = strings.TrimSpace(category); category == "" || category == "all" {
		return AdminPortfolio
	}
	return AdminPortfolio + "?" + url.Values{"category": {category}}.Encode()
}

func escapeSegment(value string) string {
	return url.PathEscape(strings.TrimSpace(value))
}

// AdminLoginNext returns the login path that returns to next after sign-in.
func AdminLoginNext(next string) string {
	if next = strings.TrimSpace(next); next == "" {
		return AdminLogin
	}
	return AdminLogin + "?" + url.Values{"next": {next}}.Encode()
}
