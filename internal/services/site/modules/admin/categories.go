package admin

import (
	"net/http"

	"github.com/s2design/site/internal/services/site/backend"
	"github.com/s2design/site/internal/services/site/content/categories"
	apperrors "github.com/s2design/site/internal/services/site/platform/errors"
	"github.com/s2design/site/internal/services/site/routepath"
	"github.com/s2design/site/internal/services/site/templates"
	"go.uber.org/zap"
)

const (
	noticeCategoryCreated = "admin.categories.notice_created"
	noticeCategoryUpdated = "admin.categories.notice_updated"
	noticeCategoryDeleted = "admin.categories.notice_deleted"
)

func (h handlers) handleCategories(w http.ResponseWriter, r *http.Request) {
	pc := h.cfg.Renderer.Context(w, r)
	items, err := h.cfg.Categories.List(r.Context())
	loadErr, done := h.loadError(w, r, pc, "categories", err)
	if done {
		return
	}
	view := templates.CategoryListView{Categories: categories.WithAll(items), LoadError: loadErr}
	h.page(w, r, pc, templates.SectionCategories, pc.T("admin.categories.title"), http.StatusOK, templates.CategoryList(pc, view))
}

// findCategory looks a category up in the list; the API has no single-item
// read for categories.
func (h handlers) findCategory(r *http.Request) (backend.Category, error) {
	id := pathID(r)
	items, err := h.cfg.Categories.List(r.Context())
	if err != nil {
		return backend.Category{}, err
	}
	for _, item := range items {
		if item.ID == id && item.Slug != categories.AllSlug {
			return item, nil
		}
	}
	return backend.Category{}, apperrors.EK(apperrors.KindNotFound, backend.KeyNotFound, "category not found")
}

func (h handlers) handleCategoryNew(w http.ResponseWriter, r *http.Request) {
	pc := h.cfg.Renderer.Context(w, r)
	h.writeCategoryForm(w, r, pc, templates.CategoryFormView{}, http.StatusOK)
}

func (h handlers) handleCategoryEdit(w http.ResponseWriter, r *http.Request) {
	pc := h.cfg.Renderer.Context(w, r)
	item, err := h.findCategory(r)
	if err != nil {
		h.writeError(w, r, pc, templates.SectionCategories, err)
		return
	}
	h.writeCategoryForm(w, r, pc, templates.CategoryFormView{
		ID:    item.ID.String(),
		Input: backend.CategoryInput{Name: item.Name, Slug: item.Slug},
	}, http.StatusOK)
}

func (h handlers) handleCategoryCreate(w http.ResponseWriter, r *http.Request) {
	h.submitCategory(w, r, "")
}

func (h handlers) handleCategoryUpdate(w http.ResponseWriter, r *http.Request) {
	h.submitCategory(w, r, pathID(r))
}

func (h handlers) submitCategory(w http.ResponseWriter, r *http.Request, id backend.ID) {
	pc := h.cfg.Renderer.Context(w, r)
	in := backend.CategoryInput{Name: r.PostFormValue("name"), Slug: r.PostFormValue("slug")}
	var err error
	if id == "" {
		_, err = h.cfg.Categories.Create(r.Context(), token(r), in)
	} else {
		_, err = h.cfg.Categories.Update(r.Context(), token(r), id, in)
	}
	if err != nil {
		if h.expired(w, r, err) {
			return
		}
		h.logger.Warn("save category", zap.String("id", id.String()), zap.Error(err))
		h.writeCategoryForm(w, r, pc, templates.CategoryFormView{ID: id.String(), Input: in, Error: formError(pc, err)}, formStatus(err))
		return
	}
	notice := noticeCategoryCreated
	if id != "" {
		notice = noticeCategoryUpdated
	}
	h.saved(w, r, notice, routepath.AdminCategories)
}

func (h handlers) writeCategoryForm(w http.ResponseWriter, r *http.Request, pc templates.PageContext, view templates.CategoryFormView, status int) {
	title := pc.T("admin.categories.new_title")
	if view.ID != "" {
		title = pc.T("admin.categories.edit_title")
	}
	h.page(w, r, pc, templates.SectionCategories, title, status, templates.CategoryForm(pc, view))
}

func (h handlers) handleCategoryConfirmDelete(w http.ResponseWriter, r *http.Request) {
	pc := h.cfg.Renderer.Context(w, r)
	item, err := h.findCategory(r)
	if err != nil {
		h.writeError(w, r, pc, templates.SectionCategories, err)
		return
	}
	h.confirmDelete(w, r, pc, templates.SectionCategories, item.Name, routepath.AdminCategoryDeletePath(item.ID.String()), routepath.AdminCategories)
}

func (h handlers) handleCategoryDelete(w http.ResponseWriter, r *http.Request) {
	id := pathID(r)
	if id == categories.AllSlug {
		h.deleted(w, r, apperrors.EK(apperrors.KindForbidden, backend.KeyRejected, "the all category cannot be deleted"), "", routepath.AdminCategories)
		return
	}
	err := h.cfg.Categories.Delete(r.Context(), token(r), id)
	h.deleted(w, r, err, noticeCategoryDeleted, routepath.AdminCategories)
}
