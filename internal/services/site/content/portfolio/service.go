// Package portfolio serves the public gallery items.
package portfolio

import (
	"context"
	"strings"

	"github.com/s2design/site/internal/services/site/backend"
	apperrors "github.com/s2design/site/internal/services/site/platform/errors"
	"github.com/s2design/site/internal/services/site/storage"
	"go.uber.org/zap"
)

// AllCategory keeps every item.
const AllCategory = "all"

// PageLimit is how many items the "all" view shows before "show more".
const PageLimit = 12

// Aspect defaults for items stored without dimensions.
const (
	DefaultWidth  = 4
	DefaultHeight = 3
)

// Form defaults for a new item.
const (
	FormWidth  = 6
	FormHeight = 8
)

const keyList = "portfolio:list"

const (
	KeySrcRequired = "admin.portfolio.error_src_required"
	KeyAltRequired = "admin.portfolio.error_alt_required"
)

// Gateway is the subset of the content API used for the portfolio.
type Gateway interface {
	ListPortfolio(context.Context) ([]backend.PortfolioItem, error)
	CreatePortfolioItem(context.Context, string, backend.PortfolioInput) (backend.PortfolioItem, error)
	UpdatePortfolioItem(context.Context, string, backend.ID, backend.PortfolioInput) (backend.PortfolioItem, error)
	DeletePortfolioItem(context.Context, string, backend.ID) error
}

// Page is one rendered slice of the gallery.
type Page struct {
	Category string
	Items    []backend.PortfolioItem
	Total    int
	ShowMore bool
	HasMore  bool
}

// Service reads and mutates portfolio items.
type Service struct {
	gateway Gateway
	cache   *storage.Cache
	logger  *zap.Logger
}

// NewService builds a portfolio service. cache may be nil.
func NewService(gateway Gateway, cache *storage.Cache, logger *zap.Logger) *Service {
	if logger == nil {
		logger = zap.NewNop()
	}
	return &Service{gateway: gateway, cache: cache, logger: logger}
}

// List returns every item with dimensions defaulted.
func (s *Service) List(ctx context.Context) ([]backend.PortfolioItem, error) {
	if s == nil || s.gateway == nil {
		return []backend.PortfolioItem{}, unavailable()
	}
	items, err := storage.Fetch(ctx, s.cache, storage.ScopePortfolio, keyList, s.gateway.ListPortfolio)
	if err != nil {
		s.logger.Warn("portfolio unavailable", zap.Error(err))
		return []backend.PortfolioItem{}, err
	}
	out := make([]backend.PortfolioItem, len(items))
	for i, item := range items {
		item.Width, item.Height = Dimensions(item.Width, item.Height)
		out[i] = item
	}
	return out, nil
}

// Create validates and creates an item.
func (s *Service) Create(ctx context.Context, token string, in backend.PortfolioInput) (backend.PortfolioItem, error) {
	if s == nil || s.gateway == nil {
		return backend.PortfolioItem{}, unavailable()
	}
	in, err := Validate(in)
	if err != nil {
		return backend.PortfolioItem{}, err
	}
	created, err := s.gateway.CreatePortfolioItem(ctx, token, in)
	if err != nil {
		return backend.PortfolioItem{}, err
	}
	s.cache.Invalidate(ctx, storage.ScopePortfolio)
	return created, nil
}

// Update validates and replaces an item.
func (s *Service) Update(ctx context.Context, token string, id backend.ID, in backend.PortfolioInput) (backend.PortfolioItem, error) {
	if s == nil || s.gateway == nil {
		return backend.PortfolioItem{}, unavailable()
	}
	in, err := Validate(in)
	if err != nil {
		return backend.PortfolioItem{}, err
	}
	updated, err := s.gateway.UpdatePortfolioItem(ctx, token, id, in)
	if err != nil {
		return backend.PortfolioItem{}, err
	}
	s.cache.Invalidate(ctx, storage.ScopePortfolio)
	return updated, nil
}

// Delete removes an item.
func (s *Service) Delete(ctx context.Context, token string, id backend.ID) error {
	if s == nil || s.gateway == nil {
		return unavailable()
	}
	if err := s.gateway.DeletePortfolioItem(ctx, token, id); err != nil {
		return err
	}
	s.cache.Invalidate(ctx, storage.ScopePortfolio)
	return nil
}

// Validate trims the input, requires src and alt text, and defaults the
// aspect ratio.
func Validate(in backend.PortfolioInput) (backend.PortfolioInput, error) {
	in.Src = strings.TrimSpace(in.Src)
	in.Alt = strings.TrimSpace(in.Alt)
	in.Category = strings.TrimSpace(in.Category)
	in.Width, in.Height = Dimensions(in.Width, in.Height)
	if in.Src == "" {
		return in, apperrors.EK(apperrors.KindInvalidInput, KeySrcRequired, "image url is required")
	}
	if in.Alt == "" {
		return in, apperrors.EK(apperrors.KindInvalidInput, KeyAltRequired, "alt text is required")
	}
	return in, nil
}

// Dimensions replaces non-positive aspect units with 4×3.
func Dimensions(width, height int) (int, int) {
	if width <= 0 || height <= 0 {
		return DefaultWidth, DefaultHeight
	}
	return width, height
}

// ByID finds an item.
func ByID(items []backend.PortfolioItem, id backend.ID) (backend.PortfolioItem, bool) {
	for _, item := range items {
		if item.ID == id {
			return item, true
		}
	}
	return backend.PortfolioItem{}, false
}

// ByCategory keeps items in category; "all" or empty keeps everything.
func ByCategory(items []backend.PortfolioItem, category string) []backend.PortfolioItem {
	category = strings.TrimSpace(category)
	if category == "" || category == AllCategory {
		return append([]backend.PortfolioItem{}, items...)
	}
	out := make([]backend.PortfolioItem, 0, len(items))
	for _, item := range items {
		if item.Category == category {
			out = append(out, item)
		}
	}
	return out
}

// Paginate filters items by category and, for "all", limits the result to
// PageLimit unless showMore is set.
func Paginate(items []backend.PortfolioItem, category string, showMore bool) Page {
	category = strings.TrimSpace(category)
	if category == "" {
		category = AllCategory
	}
	filtered := ByCategory(items, category)
	page := Page{Category: category, Items: filtered, Total: len(filtered), ShowMore: showMore}
	if category != AllCategory {
		return page
	}
	page.HasMore = len(filtered) > PageLimit
	if !showMore && page.HasMore {
		page.Items = filtered[:PageLimit]
	}
	return page
}

func unavailable() error {
	return apperrors.EK(apperrors.KindUnavailable, backend.KeyUnavailable, "portfolio service is not configured")
}
