package templates

import (
	"context"

	"github.com/a-h/templ"
	"github.com/s2design/site/internal/services/site/routepath"
)

// LoginView is the sign-in form state.
type LoginView struct {
	Username string
	Next     string
	Error    string
}

// Login renders the admin sign-in form.
func Login(pc PageContext, view LoginView) templ.Component {
	return component(func(_ context.Context, h *html) {
		h.open("section", "auth-card")
		h.el("h1", "", pc.T("auth.login.title"))
		h.el("p", "", pc.T("auth.login.subtitle"))
		if view.Error != "" {
			h.el("p", "notice notice-error", view.Error, "role", "alert")
		}
		h.raw(`<form method="post"`)
		h.attr("action", routepath.AdminLogin)
		h.raw(">")
		if view.Next != "" {
			h.raw(`<input type="hidden" name="next"`)
			h.attr("value", view.Next)
			h.raw(">")
		}
		h.open("label", "field")
		h.el("span", "field-label", pc.T("auth.login.username"))
		h.raw(`<input type="text" name="username" autocomplete="username" required`)
		h.attr("value", view.Username)
		h.raw(">")
		h.close("label")
		h.open("label", "field")
		h.el("span", "field-label", pc.T("auth.login.password"))
		h.raw(`<input type="password" name="password" autocomplete="current-password" required>`)
		h.close("label")
		h.el("button", "btn btn-primary", pc.T("auth.login.submit"), "type", "submit")
		h.raw("</form>")
		h.el("a", "btn btn-link", pc.T("auth.login.forgot"), "href", routepath.AdminForgotPassword)
		h.el("a", "btn btn-link", pc.T("auth.back_to_site"), "href", routepath.Root)
		h.close("section")
	})
}

// Password reset steps.
const (
	StepEmail   = "email"
	StepOTP     = "otp"
	StepSuccess = "success"
)

// ForgotPasswordView is the password reset flow state.
type ForgotPasswordView struct {
	Step    string
	Email   string
	Message string
	Error   string
}

// ForgotPassword renders the current step of the password reset flow.
func ForgotPassword(pc PageContext, view ForgotPasswordView) templ.Component {
	return component(func(_ context.Context, h *html) {
		step := view.Step
		if step != StepOTP && step != StepSuccess {
			step = StepEmail
		}
		h.open("section", "auth-card", "data-step", step)
		h.el("h1", "", pc.T("auth.forgot."+step+"_title"))
		h.el("p", "", pc.T("auth.forgot."+step+"_subtitle"))
		if view.Error != "" {
			h.el("p", "notice notice-error", view.Error, "role", "alert")
		}
		if view.Message != "" && step != StepSuccess {
			h.el("p", "notice notice-success", view.Message, "role", "status")
		}
		switch step {
		case StepEmail:
			forgotFormStart(h, StepEmail, "")
			h.open("label", "field")
			h.el("span", "field-label", pc.T("auth.forgot.email"))
			h.raw(`<input type="email" name="email" autocomplete="email" required`)
			h.attr("value", view.Email)
			h.attr("placeholder", pc.T("auth.forgot.email_placeholder"))
			h.raw(">")
			h.close("label")
			h.el("button", "btn btn-primary", pc.T("auth.forgot.send_otp"), "type", "submit")
			h.raw("</form>")
			h.open("aside", "auth-help")
			h.el("strong", "", pc.T("auth.forgot.help_title"))
			h.el("p", "", pc.T("auth.forgot.help_body"))
			h.close("aside")
		case StepOTP:
			forgotFormStart(h, StepOTP, view.Email)
			h.open("label", "field")
			h.el("span", "field-label", pc.T("auth.forgot.otp"))
			h.raw(`<input type="text" name="otp" inputmode="numeric" maxlength="6" placeholder="000000" autocomplete="one-time-code" required>`)
			h.close("label")
			h.open("label", "field")
			h.el("span", "field-label", pc.T("auth.forgot.new_password"))
			h.raw(`<input type="password" name="new_password" autocomplete="new-password" minlength="6" required>`)
			h.close("label")
			h.open("label", "field")
			h.el("span", "field-label", pc.T("auth.forgot.confirm_password"))
			h.raw(`<input type="password" name="confirm_password" autocomplete="new-password" minlength="6" required>`)
			h.close("label")
			h.el("button", "btn btn-primary", pc.T("auth.forgot.reset"), "type", "submit")
			h.raw("</form>")
		case StepSuccess:
			h.open("div", "notice notice-success", "role", "status")
			h.el("strong", "", pc.T("auth.forgot.success_heading"))
			if view.Message != "" {
				h.el("p", "", view.Message)
			}
			h.close("div")
			h.el("a", "btn btn-primary", pc.T("auth.forgot.go_login"), "href", routepath.AdminLogin)
		}
		if step != StepSuccess {
			h.el("a", "btn btn-link", pc.T("auth.forgot.back_login"), "href", routepath.AdminLogin)
		}
		h.close("section")
	})
}

func forgotFormStart(h *html, step, email string) {
	h.raw(`<form method="post"`)
	h.attr("action", routepath.AdminForgotPassword)
	h.raw(">")
	h.raw(`<input type="hidden" name="step"`)
	h.attr("value", step)
	h.raw(">")
	if email != "" {
		h.raw(`<input type="hidden" name="email"`)
		h.attr("value", email)
		h.raw(">")
	}
}
