package admin

import (
	"net/http"

	"github.com/s2design/site/internal/services/site/routepath"
)

func registerRoutes(mux *http.ServeMux, h handlers) {
	if mux == nil {
		return
	}
	get := func(pattern string, fn http.HandlerFunc) { mux.HandleFunc(http.MethodGet+" "+pattern, fn) }
	post := func(pattern string, fn http.HandlerFunc) { mux.HandleFunc(http.MethodPost+" "+pattern, fn) }

	get(routepath.AdminDashboard+"{$}", h.handleDashboard)

	get(routepath.AdminProjects, h.handleProjects)
	post(routepath.AdminProjects, h.handleProjectCreate)
	get(routepath.AdminProjectsNew, h.handleProjectNew)
	get(routepath.AdminProjectPattern, h.handleEditRedirect)
	post(routepath.AdminProjectPattern, h.handleProjectUpdate)
	get(routepath.AdminProjectEdit, h.handleProjectEdit)
	get(routepath.AdminProjectDelete, h.handleProjectConfirmDelete)
	post(routepath.AdminProjectDelete, h.handleProjectDelete)
	get(routepath.AdminProjectPreview, h.handleProjectPreview)

	get(routepath.AdminCategories, h.handleCategories)
	post(routepath.AdminCategories, h.handleCategoryCreate)
	get(routepath.AdminCategoriesNew, h.handleCategoryNew)
	get(routepath.AdminCategoryPattern, h.handleEditRedirect)
	post(routepath.AdminCategoryPattern, h.handleCategoryUpdate)
	get(routepath.AdminCategoryEdit, h.handleCategoryEdit)
	get(routepath.AdminCategoryDelete, h.handleCategoryConfirmDelete)
	post(routepath.AdminCategoryDelete, h.handleCategoryDelete)

	get(routepath.AdminTestimonials, h.handleTestimonials)
	post(routepath.AdminTestimonials, h.handleTestimonialCreate)
	get(routepath.AdminTestimonialsNew, h.handleTestimonialNew)
	get(routepath.AdminTestimonialPat, h.handleEditRedirect)
	post(routepath.AdminTestimonialPat, h.handleTestimonialUpdate)
	get(routepath.AdminTestimonialEdit, h.handleTestimonialEdit)
	get(routepath.AdminTestimonialDel, h.handleTestimonialConfirmDelete)
	post(routepath.AdminTestimonialDel, h.handleTestimonialDelete)

	get(routepath.AdminPortfolio, h.handlePortfolio)
	post(routepath.AdminPortfolio, h.handlePortfolioCreate)
	get(routepath.AdminPortfolioNew, h.handlePortfolioNew)
	get(routepath.AdminPortfolioPattern, h.handleEditRedirect)
	post(routepath.AdminPortfolioPattern, h.handlePortfolioUpdate)
	get(routepath.AdminPortfolioEdit, h.handlePortfolioEdit)
	get(routepath.AdminPortfolioDelete, h.handlePortfolioConfirmDelete)
	post(routepath.AdminPortfolioDelete, h.handlePortfolioDelete)

	mux.HandleFunc(routepath.AdminPrefix, h.handleNotFound)
}
