package admin

import (
	"net/http"
	"strconv"
	"strings"

	"github.com/s2design/site/internal/services/site/backend"
	"github.com/s2design/site/internal/services/site/content/testimonials"
	apperrors "github.com/s2design/site/internal/services/site/platform/errors"
	"github.com/s2design/site/internal/services/site/routepath"
	"github.com/s2design/site/internal/services/site/templates"
	"go.uber.org/zap"
)

const (
	noticeTestimonialCreated = "admin.testimonials.notice_created"
	noticeTestimonialUpdated = "admin.testimonials.notice_updated"
	noticeTestimonialDeleted = "admin.testimonials.notice_deleted"
)

func (h handlers) handleTestimonials(w http.ResponseWriter, r *http.Request) {
	pc := h.cfg.Renderer.Context(w, r)
	items, err := h.cfg.Testimonials.List(r.Context())
	loadErr, done := h.loadError(w, r, pc, "testimonials", err)
	if done {
		return
	}
	view := templates.TestimonialListView{Testimonials: items, LoadError: loadErr}
	h.page(w, r, pc, templates.SectionTestimonials, pc.T("admin.testimonials.title"), http.StatusOK, templates.TestimonialList(pc, view))
}

func (h handlers) findTestimonial(r *http.Request) (backend.Testimonial, error) {
	id := pathID(r)
	items, err := h.cfg.Testimonials.List(r.Context())
	if err != nil {
		return backend.Testimonial{}, err
	}
	for _, item := range items {
		if item.ID == id {
			return item, nil
		}
	}
	return backend.Testimonial{}, apperrors.EK(apperrors.KindNotFound, backend.KeyNotFound, "testimonial not found")
}

func (h handlers) handleTestimonialNew(w http.ResponseWriter, r *http.Request) {
	pc := h.cfg.Renderer.Context(w, r)
	h.writeTestimonialForm(w, r, pc, templates.TestimonialFormView{Input: backend.TestimonialInput{Rating: testimonials.DefaultRating}}, http.StatusOK)
}

func (h handlers) handleTestimonialEdit(w http.ResponseWriter, r *http.Request) {
	pc := h.cfg.Renderer.Context(w, r)
	item, err := h.findTestimonial(r)
	if err != nil {
		h.writeError(w, r, pc, templates.SectionTestimonials, err)
		return
	}
	h.writeTestimonialForm(w, r, pc, templates.TestimonialFormView{
		ID: item.ID.String(),
		Input: backend.TestimonialInput{
			Name:   item.Name,
			Quote:  item.Quote,
			Avatar: item.Avatar,
			Rating: testimonials.ClampRating(item.Rating),
		},
	}, http.StatusOK)
}

func (h handlers) handleTestimonialCreate(w http.ResponseWriter, r *http.Request) {
	h.submitTestimonial(w, r, "")
}

func (h handlers) handleTestimonialUpdate(w http.ResponseWriter, r *http.Request) {
	h.submitTestimonial(w, r, pathID(r))
}

func (h handlers) submitTestimonial(w http.ResponseWriter, r *http.Request, id backend.ID) {
	pc := h.cfg.Renderer.Context(w, r)
	rating, _ := strconv.Atoi(strings.TrimSpace(r.PostFormValue("rating")))
	in := backend.TestimonialInput{
		Name:   r.PostFormValue("name"),
		Quote:  r.PostFormValue("quote"),
		Avatar: r.PostFormValue("avatar"),
		Rating: rating,
	}
	var err error
	if id == "" {
		_, err = h.cfg.Testimonials.Create(r.Context(), token(r), in)
	} else {
		_, err = h.cfg.Testimonials.Update(r.Context(), token(r), id, in)
	}
	if err != nil {
		if h.expired(w, r, err) {
			return
		}
		h.logger.Warn("save testimonial", zap.String("id", id.String()), zap.Error(err))
		in.Rating = testimonials.ClampRating(in.Rating)
		h.writeTestimonialForm(w, r, pc, templates.TestimonialFormView{ID: id.String(), Input: in, Error: formError(pc, err)}, formStatus(err))
		return
	}
	notice := noticeTestimonialCreated
	if id != "" {
		notice = noticeTestimonialUpdated
	}
	h.saved(w, r, notice, routepath.AdminTestimonials)
}

func (h handlers) writeTestimonialForm(w http.ResponseWriter, r *http.Request, pc templates.PageContext, view templates.TestimonialFormView, status int) {
	title := pc.T("admin.testimonials.new_title")
	if view.ID != "" {
		title = pc.T("admin.testimonials.edit_title")
	}
	h.page(w, r, pc, templates.SectionTestimonials, title, status, templates.TestimonialForm(pc, view))
}

func (h handlers) handleTestimonialConfirmDelete(w http.ResponseWriter, r *http.Request) {
	pc := h.cfg.Renderer.Context(w, r)
	item, err := h.findTestimonial(r)
	if err != nil {
		h.writeError(w, r, pc, templates.SectionTestimonials, err)
		return
	}
	h.confirmDelete(w, r, pc, templates.SectionTestimonials, item.Name, routepath.AdminTestimonialDeletePath(item.ID.String()), routepath.AdminTestimonials)
}

func (h handlers) handleTestimonialDelete(w http.ResponseWriter, r *http.Request) {
	err := h.cfg.Testimonials.Delete(r.Context(), token(r), pathID(r))
	h.deleted(w, r, err, noticeTestimonialDeleted, routepath.AdminTestimonials)
}
