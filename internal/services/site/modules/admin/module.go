// Package admin serves the content management screens behind sign-in.
package admin

import (
	"errors"
	"net/http"

	"github.com/s2design/site/internal/services/site/content/categories"
	"github.com/s2design/site/internal/services/site/content/portfolio"
	"github.com/s2design/site/internal/services/site/content/projects"
	"github.com/s2design/site/internal/services/site/content/testimonials"
	"github.com/s2design/site/internal/services/site/module"
	"github.com/s2design/site/internal/services/site/platform/flash"
	"github.com/s2design/site/internal/services/site/platform/pagerender"
	"github.com/s2design/site/internal/services/site/platform/session"
	"github.com/s2design/site/internal/services/site/routepath"
	"go.uber.org/zap"
)

// Config wires the admin module. Handlers expect the signed-in session in
// the request context.
type Config struct {
	Projects     *projects.Service
	Categories   *categories.Service
	Testimonials *testimonials.Service
	Portfolio    *portfolio.Service
	Sessions     *session.Manager
	Renderer     pagerender.Renderer
	Flash        flash.Writer
	Logger       *zap.Logger
}

// Module provides the admin CMS routes.
type Module struct {
	cfg Config
}

// New returns an admin module.
func New(cfg Config) Module {
	return Module{cfg: cfg}
}

// ID returns a stable module identifier.
func (Module) ID() string { return "admin" }

// Mount wires admin route handlers.
func (m Module) Mount() (module.Mount, error) {
	if m.cfg.Projects == nil || m.cfg.Categories == nil || m.cfg.Testimonials == nil || m.cfg.Portfolio == nil {
		return module.Mount{}, errors.New("admin: content services are required")
	}
	if m.cfg.Sessions == nil {
		return module.Mount{}, errors.New("admin: session manager is required")
	}
	mux := http.NewServeMux()
	registerRoutes(mux, newHandlers(m.cfg))
	return module.Mount{Prefix: routepath.AdminPrefix, Handler: mux}, nil
}
