// Package public serves the marketing site: the single-page home, the
// portfolio gallery, project pages and the contact form.
package public

import (
	"errors"
	"net/http"
	"time"

	"github.com/s2design/site/internal/services/site/content/categories"
	"github.com/s2design/site/internal/services/site/content/portfolio"
	"github.com/s2design/site/internal/services/site/content/projects"
	"github.com/s2design/site/internal/services/site/content/testimonials"
	"github.com/s2design/site/internal/services/site/inquiry"
	"github.com/s2design/site/internal/services/site/module"
	"github.com/s2design/site/internal/services/site/platform/flash"
	"github.com/s2design/site/internal/services/site/platform/pagerender"
	"github.com/s2design/site/internal/services/site/routepath"
	"github.com/s2design/site/internal/services/site/sitecontent"
	"go.uber.org/zap"
)

// ContentSource supplies the current marketing copy.
type ContentSource interface {
	Current() sitecontent.Content
}

// Config wires the public module.
type Config struct {
	Content      ContentSource
	Projects     *projects.Service
	Categories   *categories.Service
	Testimonials *testimonials.Service
	Portfolio    *portfolio.Service
	Inquiries    *inquiry.Service
	Renderer     pagerender.Renderer
	Flash        flash.Writer
	Logger       *zap.Logger
	Now          func() time.Time
}

// Module provides the public site routes.
type Module struct {
	cfg Config
}

// New returns a public module.
func New(cfg Config) Module {
	return Module{cfg: cfg}
}

// ID returns a stable module identifier.
func (Module) ID() string { return "public" }

// Mount wires public route handlers.
func (m Module) Mount() (module.Mount, error) {
	if m.cfg.Content == nil {
		return module.Mount{}, errors.New("public: content source is required")
	}
	if m.cfg.Inquiries == nil {
		return module.Mount{}, errors.New("public: inquiry service is required")
	}
	mux := http.NewServeMux()
	registerRoutes(mux, newHandlers(m.cfg))
	return module.Mount{Prefix: routepath.Root, Handler: mux}, nil
}
