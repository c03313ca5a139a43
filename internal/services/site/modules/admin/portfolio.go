package admin

import (
	"net/http"
	"strconv"
	"strings"

	"github.com/s2design/site/internal/services/site/backend"
	"github.com/s2design/site/internal/services/site/content/portfolio"
	apperrors "github.com/s2design/site/internal/services/site/platform/errors"
	"github.com/s2design/site/internal/services/site/routepath"
	"github.com/s2design/site/internal/services/site/templates"
	"go.uber.org/zap"
)

const (
	noticePortfolioCreated = "admin.portfolio.notice_created"
	noticePortfolioUpdated = "admin.portfolio.notice_updated"
	noticePortfolioDeleted = "admin.portfolio.notice_deleted"
)

func (h handlers) handlePortfolio(w http.ResponseWriter, r *http.Request) {
	pc := h.cfg.Renderer.Context(w, r)
	items, err := h.cfg.Portfolio.List(r.Context())
	loadErr, done := h.loadError(w, r, pc, "portfolio", err)
	if done {
		return
	}
	cats, _ := h.cfg.Categories.List(r.Context())
	category := strings.TrimSpace(r.URL.Query().Get("category"))
	if category == "" {
		category = portfolio.AllCategory
	}
	view := templates.PortfolioListView{
		Items:      portfolio.ByCategory(items, category),
		Category:   category,
		Categories: categoryLinks(cats, category),
		LoadError:  loadErr,
	}
	h.page(w, r, pc, templates.SectionPortfolio, pc.T("admin.portfolio.title"), http.StatusOK, templates.PortfolioList(pc, view))
}

func (h handlers) findPortfolioItem(r *http.Request) (backend.PortfolioItem, error) {
	items, err := h.cfg.Portfolio.List(r.Context())
	if err != nil {
		return backend.PortfolioItem{}, err
	}
	item, ok := portfolio.ByID(items, pathID(r))
	if !ok {
		return backend.PortfolioItem{}, apperrors.EK(apperrors.KindNotFound, backend.KeyNotFound, "portfolio item not found")
	}
	return item, nil
}

func (h handlers) handlePortfolioNew(w http.ResponseWriter, r *http.Request) {
	pc := h.cfg.Renderer.Context(w, r)
	h.writePortfolioForm(w, r, pc, templates.PortfolioFormView{
		Input: backend.PortfolioInput{Width: portfolio.FormWidth, Height: portfolio.FormHeight},
	}, http.StatusOK)
}

func (h handlers) handlePortfolioEdit(w http.ResponseWriter, r *http.Request) {
	pc := h.cfg.Renderer.Context(w, r)
	item, err := h.findPortfolioItem(r)
	if err != nil {
		h.writeError(w, r, pc, templates.SectionPortfolio, err)
		return
	}
	h.writePortfolioForm(w, r, pc, templates.PortfolioFormView{
		ID: item.ID.String(),
		Input: backend.PortfolioInput{
			Src:      item.Src,
			Alt:      item.Alt,
			Width:    item.Width,
			Height:   item.Height,
			Category: item.Category,
		},
	}, http.StatusOK)
}

func (h handlers) handlePortfolioCreate(w http.ResponseWriter, r *http.Request) {
	h.submitPortfolio(w, r, "")
}

func (h handlers) handlePortfolioUpdate(w http.ResponseWriter, r *http.Request) {
	h.submitPortfolio(w, r, pathID(r))
}

func (h handlers) submitPortfolio(w http.ResponseWriter, r *http.Request, id backend.ID) {
	pc := h.cfg.Renderer.Context(w, r)
	width, _ := strconv.Atoi(strings.TrimSpace(r.PostFormValue("width")))
	height, _ := strconv.Atoi(strings.TrimSpace(r.PostFormValue("height")))
	in := backend.PortfolioInput{
		Src:      r.PostFormValue("src"),
		Alt:      r.PostFormValue("alt"),
		Width:    width,
		Height:   height,
		Category: r.PostFormValue("category"),
	}
	var err error
	if id == "" {
		_, err = h.cfg.Portfolio.Create(r.Context(), token(r), in)
	} else {
		_, err = h.cfg.Portfolio.Update(r.Context(), token(r), id, in)
	}
	if err != nil {
		if h.expired(w, r, err) {
			return
		}
		h.logger.Warn("save portfolio item", zap.String("id", id.String()), zap.Error(err))
		h.writePortfolioForm(w, r, pc, templates.PortfolioFormView{ID: id.String(), Input: in, Error: formError(pc, err)}, formStatus(err))
		return
	}
	notice := noticePortfolioCreated
	if id != "" {
		notice = noticePortfolioUpdated
	}
	h.saved(w, r, notice, routepath.AdminPortfolio)
}

func (h handlers) writePortfolioForm(w http.ResponseWriter, r *http.Request, pc templates.PageContext, view templates.PortfolioFormView, status int) {
	cats, _ := h.cfg.Categories.List(r.Context())
	view.Categories = categoryLinks(cats, view.Input.Category)
	title := pc.T("admin.portfolio.new_title")
	if view.ID != "" {
		title = pc.T("admin.portfolio.edit_title")
	}
	h.page(w, r, pc, templates.SectionPortfolio, title, status, templates.PortfolioForm(pc, view))
}

func (h handlers) handlePortfolioConfirmDelete(w http.ResponseWriter, r *http.Request) {
	pc := h.cfg.Renderer.Context(w, r)
	item, err := h.findPortfolioItem(r)
	if err != nil {
		h.writeError(w, r, pc, templates.SectionPortfolio, err)
		return
	}
	h.confirmDelete(w, r, pc, templates.SectionPortfolio, item.Alt, routepath.AdminPortfolioDeletePath(item.ID.String()), routepath.AdminPortfolio)
}

func (h handlers) handlePortfolioDelete(w http.ResponseWriter, r *http.Request) {
	err := h.cfg.Portfolio.Delete(r.Context(), token(r), pathID(r))
	h.deleted(w, r, err, noticePortfolioDeleted, routepath.AdminPortfolio)
}
