package auth

import (
	"net/http"

	"github.com/s2design/site/internal/services/site/routepath"
)

func registerRoutes(mux *http.ServeMux, h handlers) {
	if mux == nil {
		return
	}
	mux.HandleFunc(http.MethodGet+" "+routepath.AdminLogin, h.handleLoginPage)
	mux.HandleFunc(http.MethodPost+" "+routepath.AdminLogin, h.handleLogin)
	mux.HandleFunc(http.MethodPost+" "+routepath.AdminLogout, h.handleLogout)
	mux.HandleFunc(http.MethodGet+" "+routepath.AdminForgotPassword, h.handleForgotPasswordPage)
	mux.HandleFunc(http.MethodPost+" "+routepath.AdminForgotPassword, h.handleForgotPassword)
}
