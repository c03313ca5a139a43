package admin

import (
	"context"
	"math"
	"net/http"

	"github.com/s2design/site/internal/services/site/backend"
	"github.com/s2design/site/internal/services/site/content/categories"
	"github.com/s2design/site/internal/services/site/content/testimonials"
	"github.com/s2design/site/internal/services/site/platform/session"
	"github.com/s2design/site/internal/services/site/routepath"
	"github.com/s2design/site/internal/services/site/templates"
	"go.uber.org/zap"
	"golang.org/x/sync/errgroup"
)

// distributionSize caps the category rows on the dashboard.
const distributionSize = 4

type dashboardData struct {
	projects        []backend.Project
	projectsErr     error
	portfolio       []backend.PortfolioItem
	portfolioErr    error
	testimonials    []backend.Testimonial
	testimonialsErr error
	categories      []backend.Category
	categoriesErr   error
}

// loadDashboard fetches every collection concurrently. Each failure is kept
// so its card can degrade on its own.
func (h handlers) loadDashboard(ctx context.Context) dashboardData {
	var data dashboardData
	g, gctx := errgroup.WithContext(ctx)
	g.Go(func() error {
		data.projects, data.projectsErr = h.cfg.Projects.List(gctx)
		return nil
	})
	g.Go(func() error {
		data.portfolio, data.portfolioErr = h.cfg.Portfolio.List(gctx)
		return nil
	})
	g.Go(func() error {
		data.testimonials, data.testimonialsErr = h.cfg.Testimonials.List(gctx)
		return nil
	})
	g.Go(func() error {
		data.categories, data.categoriesErr = h.cfg.Categories.List(gctx)
		return nil
	})
	_ = g.Wait()
	return data
}

func (d dashboardData) firstErr() error {
	for _, err := range []error{d.projectsErr, d.portfolioErr, d.testimonialsErr, d.categoriesErr} {
		if err != nil {
			return err
		}
	}
	return nil
}

func (h handlers) handleDashboard(w http.ResponseWriter, r *http.Request) {
	pc := h.cfg.Renderer.Context(w, r)
	data := h.loadDashboard(r.Context())
	if err := data.firstErr(); err != nil {
		if h.expired(w, r, err) {
			return
		}
		h.logger.Warn("dashboard partially unavailable", zap.Error(err))
	}
	s, _ := session.FromContext(r.Context())
	view := templates.DashboardView{
		User: s.DisplayName(),
		Stats: []templates.DashboardStat{
			{Label: pc.T("admin.nav.projects"), Value: len(data.projects), Href: routepath.AdminProjects, Action: pc.T("admin.dashboard.manage"), Failed: data.projectsErr != nil},
			{Label: pc.T("admin.nav.portfolio"), Value: len(data.portfolio), Href: routepath.AdminPortfolio, Action: pc.T("admin.dashboard.manage"), Failed: data.portfolioErr != nil},
			{Label: pc.T("admin.nav.testimonials"), Value: len(data.testimonials), Href: routepath.AdminTestimonials, Action: pc.T("admin.dashboard.manage"), Failed: data.testimonialsErr != nil},
			{Label: pc.T("admin.nav.categories"), Value: categories.CountExcludingAll(data.categories), Href: routepath.AdminCategories, Action: pc.T("admin.dashboard.manage"), Failed: data.categoriesErr != nil},
		},
		Distribution:  distribution(data.categories, data.portfolio),
		AverageRating: averageRating(data.testimonials),
		Testimonials:  len(data.testimonials),
	}
	h.page(w, r, pc, templates.SectionDashboard, pc.T("admin.dashboard.title"), http.StatusOK, templates.Dashboard(pc, view))
}

// distribution counts gallery items in the first few real categories.
func distribution(cats []backend.Category, items []backend.PortfolioItem) []templates.DistributionRow {
	if len(items) == 0 {
		return nil
	}
	rows := make([]templates.DistributionRow, 0, distributionSize)
	for _, cat := range cats {
		if cat.Slug == categories.AllSlug {
			continue
		}
		if len(rows) == distributionSize {
			break
		}
		count := 0
		for _, item := range items {
			if item.Category == cat.Slug {
				count++
			}
		}
		rows = append(rows, templates.DistributionRow{
			Name:    cat.Name,
			Count:   count,
			Percent: int(math.Round(float64(count) * 100 / float64(len(items)))),
		})
	}
	return rows
}

// averageRating is the mean of the clamped ratings, rounded to one decimal.
func averageRating(items []backend.Testimonial) float64 {
	if len(items) == 0 {
		return 0
	}
	total := 0
	for _, item := range items {
		total += testimonials.ClampRating(item.Rating)
	}
	return math.Round(float64(total)/float64(len(items))*10) / 10
}
