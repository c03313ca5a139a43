package admin

import (
	"net/http"
	"strings"

	"github.com/a-h/templ"
	"github.com/s2design/site/internal/services/site/backend"
	"github.com/s2design/site/internal/services/site/content/categories"
	apperrors "github.com/s2design/site/internal/services/site/platform/errors"
	"github.com/s2design/site/internal/services/site/platform/flash"
	"github.com/s2design/site/internal/services/site/platform/httpx"
	"github.com/s2design/site/internal/services/site/platform/pagerender"
	"github.com/s2design/site/internal/services/site/platform/session"
	"github.com/s2design/site/internal/services/site/routepath"
	"github.com/s2design/site/internal/services/site/templates"
	"go.uber.org/zap"
)

// KeySessionExpired is flashed when the API rejects the admin's token.
const KeySessionExpired = "errors.session_expired"

// KeyDeleteFailed is flashed when a delete is rejected.
const KeyDeleteFailed = "admin.notice_delete_failed"

type handlers struct {
	cfg    Config
	logger *zap.Logger
}

func newHandlers(cfg Config) handlers {
	h := handlers{cfg: cfg, logger: cfg.Logger}
	if h.logger == nil {
		h.logger = zap.NewNop()
	}
	return h
}

// token returns the backend bearer token of the signed-in admin.
func token(r *http.Request) string {
	s, _ := session.FromContext(r.Context())
	return s.Token
}

func (h handlers) page(w http.ResponseWriter, r *http.Request, pc templates.PageContext, section, title string, status int, body templ.Component) {
	s, _ := session.FromContext(r.Context())
	h.cfg.Renderer.Render(w, r, pc, pagerender.Page{
		Title:      title,
		BodyClass:  "admin",
		StatusCode: status,
		Body:       templates.AdminShell(pc, templates.AdminShellView{User: s.Username, Section: section}, body),
		Fragment:   body,
	})
}

// expired ends the session when the API rejected its token. It reports
// whether the response was written.
func (h handlers) expired(w http.ResponseWriter, r *http.Request, err error) bool {
	if !apperrors.Is(err, apperrors.KindUnauthorized) {
		return false
	}
	h.logger.Info("admin token rejected, signing out", zap.String("path", r.URL.Path))
	h.cfg.Sessions.Clear(w, r)
	h.cfg.Flash.Write(w, r, flash.Failure(KeySessionExpired, ""))
	next := r.URL.Path
	if r.Method != http.MethodGet {
		next = routepath.AdminDashboard
	}
	httpx.WriteRedirect(w, r, routepath.AdminLoginNext(next))
	return true
}

// loadError turns a list failure into a banner message, or signs out on 401.
func (h handlers) loadError(w http.ResponseWriter, r *http.Request, pc templates.PageContext, what string, err error) (string, bool) {
	if err == nil {
		return "", false
	}
	if h.expired(w, r, err) {
		return "", true
	}
	h.logger.Warn("load "+what, zap.Error(err))
	return pagerender.ErrorMessage(pc, err), false
}

func (h handlers) writeError(w http.ResponseWriter, r *http.Request, pc templates.PageContext, section string, err error) {
	if h.expired(w, r, err) {
		return
	}
	if apperrors.HTTPStatus(err) >= http.StatusInternalServerError {
		h.logger.Error("admin request failed", zap.String("path", r.URL.Path), zap.Error(err))
	}
	page := pagerender.ErrorPage(pc, err)
	h.page(w, r, pc, section, page.Title, page.StatusCode, page.Body)
}

func (h handlers) writeNotFound(w http.ResponseWriter, r *http.Request, pc templates.PageContext, section string) {
	page := pagerender.NotFoundPage(pc)
	h.page(w, r, pc, section, page.Title, http.StatusNotFound, page.Body)
}

func (h handlers) handleNotFound(w http.ResponseWriter, r *http.Request) {
	h.writeNotFound(w, r, h.cfg.Renderer.Context(w, r), "")
}

// handleEditRedirect sends GETs on an update target to its edit form.
func (h handlers) handleEditRedirect(w http.ResponseWriter, r *http.Request) {
	http.Redirect(w, r, strings.TrimSuffix(r.URL.Path, "/")+"/edit", http.StatusFound)
}

// saved flashes notice and returns to the list.
func (h handlers) saved(w http.ResponseWriter, r *http.Request, notice, location string) {
	h.cfg.Flash.Write(w, r, flash.Success(notice))
	httpx.WriteRedirect(w, r, location)
}

// deleted finishes a delete: success and failure both return to the list.
func (h handlers) deleted(w http.ResponseWriter, r *http.Request, err error, notice, location string) {
	if err == nil {
		h.saved(w, r, notice, location)
		return
	}
	if h.expired(w, r, err) {
		return
	}
	h.logger.Warn("delete failed", zap.String("path", r.URL.Path), zap.Error(err))
	h.cfg.Flash.Write(w, r, flash.Failure(KeyDeleteFailed, backendDetail(err)))
	httpx.WriteRedirect(w, r, location)
}

func (h handlers) confirmDelete(w http.ResponseWriter, r *http.Request, pc templates.PageContext, section, item, action, cancel string) {
	title := pc.T("admin.confirm.title")
	h.page(w, r, pc, section, title, http.StatusOK, templates.ConfirmDelete(pc, templates.ConfirmDeleteView{
		Title:   title,
		Message: pc.T("admin.confirm." + section),
		Item:    item,
		Action:  action,
		Cancel:  cancel,
	}))
}

// formError is the message shown above a form that failed to save. API
// rejections carry the API's own text after the localized message.
func formError(pc templates.PageContext, err error) string {
	message := pagerender.ErrorMessage(pc, err)
	if apperrors.LocalizationKey(err) == backend.KeyRejected {
		if detail := backendDetail(err); detail != "" {
			return message + " " + detail
		}
	}
	return message
}

func backendDetail(err error) string {
	return backend.Detail(err)
}

func pathID(r *http.Request) backend.ID {
	return backend.ID(strings.TrimSpace(r.PathValue("id")))
}

// categoryLinks builds filter chips with "all" first.
func categoryLinks(items []backend.Category, active string) []templates.CategoryLink {
	items = categories.WithAll(items)
	out := make([]templates.CategoryLink, 0, len(items))
	for _, item := range items {
		out = append(out, templates.CategoryLink{Slug: item.Slug, Name: item.Name, Active: strings.EqualFold(item.Slug, active)})
	}
	return out
}

// formStatus maps a save failure to its response status.
func formStatus(err error) int {
	if status := apperrors.HTTPStatus(err); status != http.StatusInternalServerError {
		return status
	}
	return http.StatusBadGateway
}
