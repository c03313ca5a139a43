package admin

import (
	"net/http"
	"strconv"
	"strings"

	"github.com/s2design/site/internal/services/site/backend"
	"github.com/s2design/site/internal/services/site/content/categories"
	"github.com/s2design/site/internal/services/site/content/gallery"
	"github.com/s2design/site/internal/services/site/content/projects"
	"github.com/s2design/site/internal/services/site/routepath"
	"github.com/s2design/site/internal/services/site/templates"
	"go.uber.org/zap"
)

const (
	noticeProjectCreated = "admin.projects.notice_created"
	noticeProjectUpdated = "admin.projects.notice_updated"
	noticeProjectDeleted = "admin.projects.notice_deleted"
)

func (h handlers) handleProjects(w http.ResponseWriter, r *http.Request) {
	pc := h.cfg.Renderer.Context(w, r)
	snap, err := h.cfg.Projects.RefreshAll(r.Context())
	loadErr, done := h.loadError(w, r, pc, "projects", err)
	if done {
		return
	}
	cats, _ := h.cfg.Categories.List(r.Context())

	query := r.URL.Query()
	category := projects.ResolveCategory(query.Get("category"), snap.Categories)
	search := strings.TrimSpace(query.Get("q"))

	links := []templates.CategoryLink{{Slug: projects.AllCategory, Name: categories.NameFor(categories.WithAll(cats), projects.AllCategory), Active: category == projects.AllCategory}}
	for _, slug := range snap.Categories {
		links = append(links, templates.CategoryLink{Slug: slug, Name: projectCategoryName(cats, slug), Active: slug == category})
	}
	view := templates.ProjectListView{
		Projects:   projects.Filter(snap.Projects, category, search),
		Total:      len(snap.Projects),
		Category:   category,
		Query:      search,
		Categories: links,
		LoadError:  loadErr,
	}
	h.page(w, r, pc, templates.SectionProjects, pc.T("admin.projects.title"), http.StatusOK, templates.ProjectList(pc, view))
}

// projectCategoryName prefers the managed category name over the slug.
func projectCategoryName(cats []backend.Category, slug string) string {
	if name := categories.NameFor(cats, slug); name != slug {
		return name
	}
	return projects.DisplayName(slug)
}

func (h handlers) handleProjectNew(w http.ResponseWriter, r *http.Request) {
	pc := h.cfg.Renderer.Context(w, r)
	h.writeProjectForm(w, r, pc, templates.ProjectFormView{
		Input: backend.ProjectInput{Images: projects.FormRows(nil)},
	}, http.StatusOK)
}

func (h handlers) handleProjectEdit(w http.ResponseWriter, r *http.Request) {
	pc := h.cfg.Renderer.Context(w, r)
	project, err := h.cfg.Projects.Get(r.Context(), pathID(r))
	if err != nil {
		h.writeError(w, r, pc, templates.SectionProjects, err)
		return
	}
	h.writeProjectForm(w, r, pc, templates.ProjectFormView{
		ID: project.ID.String(),
		Input: backend.ProjectInput{
			Title:          project.Title,
			Description:    project.Description,
			Category:       project.Category,
			ThumbnailImage: project.ThumbnailImage,
			Images:         projects.FormRows(project.Images),
		},
	}, http.StatusOK)
}

func (h handlers) handleProjectCreate(w http.ResponseWriter, r *http.Request) {
	h.submitProject(w, r, "")
}

func (h handlers) handleProjectUpdate(w http.ResponseWriter, r *http.Request) {
	h.submitProject(w, r, pathID(r))
}

// submitProject handles every button of the project editor: adding or
// removing an image row re-renders the form, save persists it.
func (h handlers) submitProject(w http.ResponseWriter, r *http.Request, id backend.ID) {
	pc := h.cfg.Renderer.Context(w, r)
	if err := r.ParseForm(); err != nil {
		http.Error(w, err.Error(), http.StatusBadRequest)
		return
	}
	in := projectInput(r)
	view := templates.ProjectFormView{ID: id.String(), Input: in}

	action := r.PostFormValue("action")
	switch {
	case action == templates.ActionAddImage:
		view.Input.Images = projects.AddRow(projects.FormRows(in.Images))
		h.writeProjectForm(w, r, pc, view, http.StatusOK)
		return
	case strings.HasPrefix(action, templates.ActionRemoveImage+":"):
		index, err := strconv.Atoi(strings.TrimPrefix(action, templates.ActionRemoveImage+":"))
		if err != nil {
			index = -1
		}
		view.Input.Images = projects.RemoveRow(projects.FormRows(in.Images), index)
		h.writeProjectForm(w, r, pc, view, http.StatusOK)
		return
	}

	var err error
	if id == "" {
		_, err = h.cfg.Projects.Create(r.Context(), token(r), in)
	} else {
		_, err = h.cfg.Projects.Update(r.Context(), token(r), id, in)
	}
	if err != nil {
		if h.expired(w, r, err) {
			return
		}
		h.logger.Warn("save project", zap.String("id", id.String()), zap.Error(err))
		view.Input.Images = projects.FormRows(in.Images)
		view.Error = formError(pc, err)
		h.writeProjectForm(w, r, pc, view, formStatus(err))
		return
	}
	notice := noticeProjectCreated
	if id != "" {
		notice = noticeProjectUpdated
	}
	h.saved(w, r, notice, routepath.AdminProjects)
}

// projectInput reads the editor fields. Image rows arrive as parallel
// image_url and image_alt lists.
func projectInput(r *http.Request) backend.ProjectInput {
	urls := r.PostForm["image_url"]
	alts := r.PostForm["image_alt"]
	images := make([]backend.ProjectImage, 0, len(urls))
	for i, u := range urls {
		image := backend.ProjectImage{ImageURL: u, DisplayOrder: i + 1}
		if i < len(alts) {
			image.AltText = alts[i]
		}
		images = append(images, image)
	}
	return backend.ProjectInput{
		Title:          r.PostFormValue("title"),
		Description:    r.PostFormValue("description"),
		Category:       r.PostFormValue("category"),
		ThumbnailImage: r.PostFormValue("thumbnail_image"),
		Images:         images,
	}
}

func (h handlers) writeProjectForm(w http.ResponseWriter, r *http.Request, pc templates.PageContext, view templates.ProjectFormView, status int) {
	cats, _ := h.cfg.Categories.List(r.Context())
	view.Categories = categoryLinks(cats, view.Input.Category)
	title := pc.T("admin.projects.new_title")
	if view.ID != "" {
		title = pc.T("admin.projects.edit_title")
	}
	h.page(w, r, pc, templates.SectionProjects, title, status, templates.ProjectForm(pc, view))
}

func (h handlers) handleProjectConfirmDelete(w http.ResponseWriter, r *http.Request) {
	pc := h.cfg.Renderer.Context(w, r)
	project, err := h.cfg.Projects.Get(r.Context(), pathID(r))
	if err != nil {
		h.writeError(w, r, pc, templates.SectionProjects, err)
		return
	}
	id := project.ID.String()
	h.confirmDelete(w, r, pc, templates.SectionProjects, project.Title, routepath.AdminProjectDeletePath(id), routepath.AdminProjects)
}

func (h handlers) handleProjectDelete(w http.ResponseWriter, r *http.Request) {
	err := h.cfg.Projects.Delete(r.Context(), token(r), pathID(r))
	h.deleted(w, r, err, noticeProjectDeleted, routepath.AdminProjects)
}

// handleProjectPreview shows a project's images the way visitors see them.
func (h handlers) handleProjectPreview(w http.ResponseWriter, r *http.Request) {
	pc := h.cfg.Renderer.Context(w, r)
	project, err := h.cfg.Projects.Get(r.Context(), pathID(r))
	if err != nil {
		h.writeError(w, r, pc, templates.SectionProjects, err)
		return
	}
	index, err := strconv.Atoi(r.PathValue("index"))
	if err != nil {
		h.writeNotFound(w, r, pc, templates.SectionProjects)
		return
	}
	var view templates.LightboxView
	if n := len(project.Images); n > 0 {
		id := project.ID.String()
		index = gallery.Wrap(index, n)
		image := project.Images[index]
		position := gallery.At(index, n)
		view = templates.LightboxView{
			Src:       image.ImageURL,
			Alt:       templates.ImageAlt(project.Title, image.AltText, index),
			Caption:   project.Title,
			Current:   position.Current,
			Total:     position.Total,
			PrevHref:  routepath.AdminProjectPreviewPath(id, gallery.Prev(index, n)),
			NextHref:  routepath.AdminProjectPreviewPath(id, gallery.Next(index, n)),
			CloseHref: routepath.AdminProjects,
		}
	}
	h.page(w, r, pc, templates.SectionProjects, project.Title, http.StatusOK, templates.ProjectPreview(pc, project, view))
}
