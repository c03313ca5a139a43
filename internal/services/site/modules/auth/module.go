// Package auth serves admin sign-in, sign-out and the password reset flow.
package auth

import (
	"context"
	"errors"
	"net/http"

	"github.com/s2design/site/internal/services/site/backend"
	"github.com/s2design/site/internal/services/site/module"
	"github.com/s2design/site/internal/services/site/platform/flash"
	"github.com/s2design/site/internal/services/site/platform/pagerender"
	"github.com/s2design/site/internal/services/site/platform/session"
	"github.com/s2design/site/internal/services/site/routepath"
	"go.uber.org/zap"
)

// Gateway is the slice of the content API used for authentication.
type Gateway interface {
	Login(ctx context.Context, username, password string) (backend.LoginResult, error)
	ForgotPassword(ctx context.Context, email string) error
	ResetPassword(ctx context.Context, email, otp, newPassword string) error
}

// Config wires the auth module.
type Config struct {
	Gateway  Gateway
	Sessions *session.Manager
	Renderer pagerender.Renderer
	Flash    flash.Writer
	Logger   *zap.Logger
}

// Module provides the admin authentication routes.
type Module struct {
	cfg Config
}

// New returns an auth module.
func New(cfg Config) Module {
	return Module{cfg: cfg}
}

// ID returns a stable module identifier.
func (Module) ID() string { return "auth" }

// Mount wires auth route handlers.
func (m Module) Mount() (module.Mount, error) {
	if m.cfg.Gateway == nil {
		return module.Mount{}, errors.New("auth: gateway is required")
	}
	if m.cfg.Sessions == nil {
		return module.Mount{}, errors.New("auth: session manager is required")
	}
	mux := http.NewServeMux()
	registerRoutes(mux, newHandlers(m.cfg))
	return module.Mount{
		Prefix:  routepath.AdminPrefix,
		Handler: mux,
		Paths:   []string{routepath.AdminLogin, routepath.AdminLogout, routepath.AdminForgotPassword},
	}, nil
}
