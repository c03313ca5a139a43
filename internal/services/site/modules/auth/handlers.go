package auth

import (
	"errors"
	"net/http"
	"net/url"
	"strings"
	"unicode/utf8"

	"github.com/s2design/site/internal/services/site/backend"
	apperrors "github.com/s2design/site/internal/services/site/platform/errors"
	"github.com/s2design/site/internal/services/site/platform/flash"
	"github.com/s2design/site/internal/services/site/platform/httpx"
	"github.com/s2design/site/internal/services/site/platform/pagerender"
	"github.com/s2design/site/internal/services/site/platform/session"
	"github.com/s2design/site/internal/services/site/routepath"
	"github.com/s2design/site/internal/services/site/templates"
	"go.uber.org/zap"
)

// MinPasswordLength is the shortest accepted new password.
const MinPasswordLength = 6

// Catalog keys for auth notices and form errors.
const (
	KeyLoginRequired     = "auth.login.error_required"
	KeyLoginInvalid      = "auth.login.error_invalid"
	KeyLoginExpired      = "auth.login.error_expired"
	KeyLoggedOut         = "auth.notice_logged_out"
	KeyEmailRequired     = "auth.forgot.error_email_required"
	KeyOTPRequired       = "auth.forgot.error_otp_required"
	KeyPasswordMismatch  = "auth.forgot.error_mismatch"
	KeyPasswordTooShort  = "auth.forgot.error_too_short"
	KeyOTPSent           = "auth.forgot.otp_sent"
	KeyPasswordResetDone = "auth.forgot.reset_done"
)

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

func (h handlers) handleLoginPage(w http.ResponseWriter, r *http.Request) {
	next := resolveNext(r.URL.Query().Get("next"))
	if _, err := h.cfg.Sessions.Read(r); err == nil {
		http.Redirect(w, r, next, http.StatusFound)
		return
	}
	pc := h.cfg.Renderer.Context(w, r)
	h.writeLogin(w, r, pc, templates.LoginView{Next: nextField(next)}, http.StatusOK)
}

func (h handlers) handleLogin(w http.ResponseWriter, r *http.Request) {
	pc := h.cfg.Renderer.Context(w, r)
	if err := r.ParseForm(); err != nil {
		h.writeLogin(w, r, pc, templates.LoginView{Error: pc.T(KeyLoginRequired)}, http.StatusBadRequest)
		return
	}
	username := strings.TrimSpace(r.PostFormValue("username"))
	password := r.PostFormValue("password")
	next := resolveNext(r.PostFormValue("next"))
	view := templates.LoginView{Username: username, Next: nextField(next)}
	if username == "" || password == "" {
		view.Error = pc.T(KeyLoginRequired)
		h.writeLogin(w, r, pc, view, http.StatusBadRequest)
		return
	}

	result, err := h.cfg.Gateway.Login(r.Context(), username, password)
	if err != nil {
		status := apperrors.HTTPStatus(err)
		if status == http.StatusUnauthorized || status == http.StatusBadRequest {
			view.Error = pc.T(KeyLoginInvalid)
		} else {
			h.logger.Warn("admin login failed", zap.String("username", username), zap.Error(err))
			view.Error = pagerender.ErrorMessage(pc, err)
		}
		h.writeLogin(w, r, pc, view, status)
		return
	}

	_, err = h.cfg.Sessions.Issue(w, r, session.Session{
		Token:    result.Token,
		UserID:   result.User.ID.String(),
		Username: firstNonEmpty(result.User.Username, username),
		Email:    result.User.Email,
	})
	if err != nil {
		h.logger.Error("issue admin session", zap.Error(err))
		view.Error = pc.T(KeyLoginExpired)
		if !errors.Is(err, session.ErrExpired) {
			view.Error = pc.T("errors.generic")
		}
		h.writeLogin(w, r, pc, view, http.StatusUnauthorized)
		return
	}
	h.logger.Info("admin signed in", zap.String("username", username))
	httpx.WriteRedirect(w, r, next)
}

func (h handlers) writeLogin(w http.ResponseWriter, r *http.Request, pc templates.PageContext, view templates.LoginView, status int) {
	h.cfg.Renderer.Render(w, r, pc, pagerender.Page{
		Title:      pc.T("auth.login.title"),
		BodyClass:  "auth",
		StatusCode: status,
		Body:       templates.Login(pc, view),
	})
}

func (h handlers) handleLogout(w http.ResponseWriter, r *http.Request) {
	h.cfg.Sessions.Clear(w, r)
	h.cfg.Flash.Write(w, r, flash.Success(KeyLoggedOut))
	httpx.WriteRedirect(w, r, routepath.AdminLogin)
}

func (h handlers) handleForgotPasswordPage(w http.ResponseWriter, r *http.Request) {
	pc := h.cfg.Renderer.Context(w, r)
	h.writeForgotPassword(w, r, pc, templates.ForgotPasswordView{Step: templates.StepEmail}, http.StatusOK)
}

// handleForgotPassword advances the reset flow. The step travels in a hidden
// field, so each post carries everything it needs.
func (h handlers) handleForgotPassword(w http.ResponseWriter, r *http.Request) {
	pc := h.cfg.Renderer.Context(w, r)
	if err := r.ParseForm(); err != nil {
		h.writeForgotPassword(w, r, pc, templates.ForgotPasswordView{Step: templates.StepEmail, Error: pc.T(KeyEmailRequired)}, http.StatusBadRequest)
		return
	}
	email := strings.TrimSpace(r.PostFormValue("email"))
	if email == "" {
		h.writeForgotPassword(w, r, pc, templates.ForgotPasswordView{Step: templates.StepEmail, Error: pc.T(KeyEmailRequired)}, http.StatusBadRequest)
		return
	}

	if r.PostFormValue("step") != templates.StepOTP {
		view := templates.ForgotPasswordView{Step: templates.StepEmail, Email: email}
		if err := h.cfg.Gateway.ForgotPassword(r.Context(), email); err != nil {
			h.logger.Warn("request password reset", zap.Error(err))
			view.Error = pagerender.ErrorMessage(pc, err)
			h.writeForgotPassword(w, r, pc, view, apperrors.HTTPStatus(err))
			return
		}
		view.Step = templates.StepOTP
		view.Message = pc.T(KeyOTPSent)
		h.writeForgotPassword(w, r, pc, view, http.StatusOK)
		return
	}

	view := templates.ForgotPasswordView{Step: templates.StepOTP, Email: email}
	otp := strings.TrimSpace(r.PostFormValue("otp"))
	password := r.PostFormValue("new_password")
	if key := checkReset(otp, password, r.PostFormValue("confirm_password")); key != "" {
		view.Error = pc.T(key)
		h.writeForgotPassword(w, r, pc, view, http.StatusBadRequest)
		return
	}
	if err := h.cfg.Gateway.ResetPassword(r.Context(), email, otp, password); err != nil {
		h.logger.Warn("reset password", zap.Error(err))
		view.Error = pagerender.ErrorMessage(pc, err)
		h.writeForgotPassword(w, r, pc, view, apperrors.HTTPStatus(err))
		return
	}
	h.writeForgotPassword(w, r, pc, templates.ForgotPasswordView{Step: templates.StepSuccess, Message: pc.T(KeyPasswordResetDone)}, http.StatusOK)
}

// checkReset returns the catalog key of the first problem with a reset form.
func checkReset(otp, password, confirm string) string {
	switch {
	case otp == "":
		return KeyOTPRequired
	case password != confirm:
		return KeyPasswordMismatch
	case utf8.RuneCountInString(password) < MinPasswordLength:
		return KeyPasswordTooShort
	}
	return ""
}

func (h handlers) writeForgotPassword(w http.ResponseWriter, r *http.Request, pc templates.PageContext, view templates.ForgotPasswordView, status int) {
	h.cfg.Renderer.Render(w, r, pc, pagerender.Page{
		Title:      pc.T("auth.forgot." + view.Step + "_title"),
		BodyClass:  "auth",
		StatusCode: status,
		Body:       templates.ForgotPassword(pc, view),
	})
}

// resolveNext keeps post-login redirects inside the admin area.
func resolveNext(raw string) string {
	next := strings.TrimSpace(raw)
	if next == "" {
		return routepath.AdminDashboard
	}
	parsed, err := url.Parse(next)
	if err != nil || parsed.Scheme != "" || parsed.Host != "" || strings.HasPrefix(next, "//") {
		return routepath.AdminDashboard
	}
	if !strings.HasPrefix(parsed.Path, routepath.AdminPrefix) {
		return routepath.AdminDashboard
	}
	switch parsed.Path {
	case routepath.AdminLogin, routepath.AdminLogout, routepath.AdminForgotPassword:
		return routepath.AdminDashboard
	}
	if parsed.RawQuery != "" {
		return parsed.Path + "?" + parsed.RawQuery
	}
	return parsed.Path
}

// nextField omits the default destination from the login form.
func nextField(next string) string {
	if next == routepath.AdminDashboard {
		return ""
	}
	return next
}

func firstNonEmpty(values ...string) string {
	for _, v := range values {
		if strings.TrimSpace(v) != "" {
			return v
		}
	}
	return ""
}

var _ Gateway = (*backend.Client)(nil)
