// Package site hosts the marketing site and its admin CMS.
package site

import (
	"context"
	"errors"
	"fmt"
	"io"
	"net/http"
	"strings"
	"time"

	"github.com/s2design/site/internal/platform/timeouts"
	siteapp "github.com/s2design/site/internal/services/site/app"
	"github.com/s2design/site/internal/services/site/backend"
	"github.com/s2design/site/internal/services/site/content/categories"
	"github.com/s2design/site/internal/services/site/content/portfolio"
	"github.com/s2design/site/internal/services/site/content/projects"
	"github.com/s2design/site/internal/services/site/content/testimonials"
	"github.com/s2design/site/internal/services/site/inquiry"
	"github.com/s2design/site/internal/services/site/module"
	"github.com/s2design/site/internal/services/site/modules/admin"
	"github.com/s2design/site/internal/services/site/modules/auth"
	"github.com/s2design/site/internal/services/site/modules/public"
	"github.com/s2design/site/internal/services/site/platform/flash"
	"github.com/s2design/site/internal/services/site/platform/httpx"
	"github.com/s2design/site/internal/services/site/platform/pagerender"
	"github.com/s2design/site/internal/services/site/platform/requestmeta"
	"github.com/s2design/site/internal/services/site/platform/session"
	"github.com/s2design/site/internal/services/site/routepath"
	sitestatic "github.com/s2design/site/internal/services/site/static"
	"github.com/s2design/site/internal/services/site/storage"
	"go.uber.org/zap"
)

// Gateway is the content API as seen by the site.
type Gateway interface {
	projects.Gateway
	categories.Gateway
	testimonials.Gateway
	portfolio.Gateway
	auth.Gateway
}

var _ Gateway = (*backend.Client)(nil)

// Config defines startup inputs for the site service.
type Config struct {
	HTTPAddr     string
	API          Gateway
	Cache        *storage.Cache
	Content      public.ContentSource
	Inquiries    inquiry.Sink
	Sessions     *session.Manager
	SchemePolicy requestmeta.SchemePolicy
	Logger       *zap.Logger
	Now          func() time.Time
	// Resources are closed with the server.
	Resources []io.Closer
}

// Server hosts the site HTTP surface and lifecycle.
type Server struct {
	httpAddr   string
	httpServer *http.Server
	resources  []io.Closer
	logger     *zap.Logger
}

// NewHandler builds the root handler from the public, auth and admin modules.
func NewHandler(cfg Config) (http.Handler, error) {
	if cfg.API == nil {
		return nil, errors.New("content api is required")
	}
	if cfg.Inquiries == nil {
		return nil, errors.New("inquiry sink is required")
	}
	logger := cfg.Logger
	if logger == nil {
		logger = zap.NewNop()
	}
	notices := flash.Writer{Policy: cfg.SchemePolicy}
	renderer := pagerender.Renderer{Flash: notices, Logger: logger}

	projectService := projects.NewService(cfg.API, cfg.Cache, logger.Named("projects"))
	categoryService := categories.NewService(cfg.API, cfg.Cache, logger.Named("categories"))
	testimonialService := testimonials.NewService(cfg.API, cfg.Cache, logger.Named("testimonials"))
	portfolioService := portfolio.NewService(cfg.API, cfg.Cache, logger.Named("portfolio"))

	publicModules := []module.Module{
		public.New(public.Config{
			Content:      cfg.Content,
			Projects:     projectService,
			Categories:   categoryService,
			Testimonials: testimonialService,
			Portfolio:    portfolioService,
			Inquiries:    inquiry.NewService(cfg.Inquiries, logger.Named("inquiry")),
			Renderer:     renderer,
			Flash:        notices,
			Logger:       logger.Named("public"),
			Now:          cfg.Now,
		}),
		auth.New(auth.Config{
			Gateway:  cfg.API,
			Sessions: cfg.Sessions,
			Renderer: renderer,
			Flash:    notices,
			Logger:   logger.Named("auth"),
		}),
	}
	protectedModules := []module.Module{
		admin.New(admin.Config{
			Projects:     projectService,
			Categories:   categoryService,
			Testimonials: testimonialService,
			Portfolio:    portfolioService,
			Sessions:     cfg.Sessions,
			Renderer:     renderer,
			Flash:        notices,
			Logger:       logger.Named("admin"),
		}),
	}

	h, err := siteapp.Composer{}.Compose(siteapp.ComposeInput{
		PublicModules:       publicModules,
		ProtectedModules:    protectedModules,
		Sessions:            cfg.Sessions,
		Flash:               notices,
		RequestSchemePolicy: cfg.SchemePolicy,
		Logger:              logger.Named("compose"),
	})
	if err != nil {
		return nil, err
	}
	rootMux := http.NewServeMux()
	rootMux.Handle(routepath.StaticPrefix, http.StripPrefix(routepath.StaticPrefix, http.FileServer(http.FS(sitestatic.FS))))
	rootMux.Handle(routepath.Root, h)
	return httpx.Chain(rootMux,
		httpx.RequestID(),
		httpx.RecoverPanic(logger),
		httpx.RequestLogger(logger.Named("http")),
		httpx.Compress(),
	), nil
}

// NewServer validates config and constructs a site server.
func NewServer(_ context.Context, cfg Config) (*Server, error) {
	httpAddr := strings.TrimSpace(cfg.HTTPAddr)
	if httpAddr == "" {
		return nil, errors.New("http address is required")
	}
	handler, err := NewHandler(cfg)
	if err != nil {
		return nil, fmt.Errorf("compose site handler: %w", err)
	}
	logger := cfg.Logger
	if logger == nil {
		logger = zap.NewNop()
	}
	return &Server{
		httpAddr: httpAddr,
		httpServer: &http.Server{
			Addr:              httpAddr,
			Handler:           handler,
			ReadHeaderTimeout: timeouts.ReadHeader,
		},
		resources: cfg.Resources,
		logger:    logger,
	}, nil
}

// Addr returns the configured listen address.
func (s *Server) Addr() string {
	if s == nil {
		return ""
	}
	return s.httpAddr
}

// ListenAndServe serves HTTP traffic until context cancellation or server stop.
func (s *Server) ListenAndServe(ctx context.Context) error {
	if s == nil {
		return errors.New("site server is nil")
	}
	if ctx == nil {
		return errors.New("context is required")
	}

	serveErr := make(chan error, 1)
	go func() {
		s.logger.Info("site listening", zap.String("addr", s.httpAddr))
		serveErr <- s.httpServer.ListenAndServe()
	}()

	select {
	case <-ctx.Done():
		shutdownCtx, cancel := context.WithTimeout(context.Background(), timeouts.Shutdown)
		err := s.httpServer.Shutdown(shutdownCtx)
		cancel()
		if err != nil {
			return fmt.Errorf("shutdown site http server: %w", err)
		}
		return nil
	case err := <-serveErr:
		if errors.Is(err, http.ErrServerClosed) {
			return nil
		}
		return fmt.Errorf("serve site http: %w", err)
	}
}

// Close closes the HTTP server and every attached resource.
func (s *Server) Close() {
	if s == nil {
		return
	}
	if s.httpServer != nil {
		_ = s.httpServer.Close()
	}
	for _, resource := range s.resources {
		if resource == nil {
			continue
		}
		if err := resource.Close(); err != nil {
			s.logger.Warn("close resource", zap.Error(err))
		}
	}
	s.resources = nil
}
