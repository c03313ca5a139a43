// Package categories manages the category list used to filter projects and
// portfolio items.
package categories

import (
	"context"
	"regexp"
	"strings"

	"github.com/s2design/site/internal/services/site/backend"
	apperrors "github.com/s2design/site/internal/services/site/platform/errors"
	"github.com/s2design/site/internal/services/site/storage"
	"go.uber.org/zap"
)

// AllSlug is the catch-all category.
const AllSlug = "all"

const keyList = "categories:list"

const (
	KeyNameRequired  = "admin.categories.error_name_required"
	KeySlugRequired  = "admin.categories.error_slug_required"
	KeyDuplicateSlug = "admin.categories.error_duplicate"
)

// Gateway is the subset of the content API used for categories.
type Gateway interface {
	ListCategories(context.Context) ([]backend.Category, error)
	CreateCategory(context.Context, string, backend.CategoryInput) (backend.Category, error)
	UpdateCategory(context.Context, string, backend.ID, backend.CategoryInput) (backend.Category, error)
	DeleteCategory(context.Context, string, backend.ID) error
}

// Defaults is the list shown when the API cannot be reached.
func Defaults() []backend.Category {
	return []backend.Category{
		{ID: "all", Name: "All", Slug: "all"},
		{ID: "public-space", Name: "Public Space", Slug: "public-space"},
		{ID: "office", Name: "Office", Slug: "office"},
		{ID: "residential", Name: "Residential", Slug: "residential"},
		{ID: "apartment", Name: "Apartment", Slug: "apartment"},
	}
}

// Service reads and mutates categories.
type Service struct {
	gateway Gateway
	cache   *storage.Cache
	logger  *zap.Logger
}

// NewService builds a category service. cache may be nil.
func NewService(gateway Gateway, cache *storage.Cache, logger *zap.Logger) *Service {
	if logger == nil {
		logger = zap.NewNop()
	}
	return &Service{gateway: gateway, cache: cache, logger: logger}
}

// List returns the categories. When the API fails it returns Defaults along
// with the error so callers can still render filters.
func (s *Service) List(ctx context.Context) ([]backend.Category, error) {
	if s == nil || s.gateway == nil {
		return Defaults(), unavailable()
	}
	items, err := storage.Fetch(ctx, s.cache, storage.ScopeCategories, keyList, s.gateway.ListCategories)
	if err != nil {
		s.logger.Warn("categories unavailable, using defaults", zap.Error(err))
		return Defaults(), err
	}
	if items == nil {
		items = []backend.Category{}
	}
	return items, nil
}

// Create validates and creates a category.
func (s *Service) Create(ctx context.Context, token string, in backend.CategoryInput) (backend.Category, error) {
	if s == nil || s.gateway == nil {
		return backend.Category{}, unavailable()
	}
	in, err := s.validate(ctx, "", in)
	if err != nil {
		return backend.Category{}, err
	}
	created, err := s.gateway.CreateCategory(ctx, token, in)
	if err != nil {
		return backend.Category{}, err
	}
	s.cache.Invalidate(ctx, storage.ScopeCategories)
	return created, nil
}

// Update validates and replaces a category.
func (s *Service) Update(ctx context.Context, token string, id backend.ID, in backend.CategoryInput) (backend.Category, error) {
	if s == nil || s.gateway == nil {
		return backend.Category{}, unavailable()
	}
	in, err := s.validate(ctx, id, in)
	if err != nil {
		return backend.Category{}, err
	}
	updated, err := s.gateway.UpdateCategory(ctx, token, id, in)
	if err != nil {
		return backend.Category{}, err
	}
	s.cache.Invalidate(ctx, storage.ScopeCategories)
	return updated, nil
}

// Delete removes a category.
func (s *Service) Delete(ctx context.Context, token string, id backend.ID) error {
	if s == nil || s.gateway == nil {
		return unavailable()
	}
	if err := s.gateway.DeleteCategory(ctx, token, id); err != nil {
		return err
	}
	s.cache.Invalidate(ctx, storage.ScopeCategories)
	return nil
}

// validate fills a missing slug from the name and rejects a slug already used
// by another category. The duplicate check is skipped when the list cannot be
// loaded; the API has the final word.
func (s *Service) validate(ctx context.Context, editing backend.ID, in backend.CategoryInput) (backend.CategoryInput, error) {
	in.Name = strings.TrimSpace(in.Name)
	in.Slug = NormalizeSlug(in.Slug)
	if in.Slug == "" {
		in.Slug = Slugify(in.Name)
	}
	if in.Name == "" {
		return in, apperrors.EK(apperrors.KindInvalidInput, KeyNameRequired, "name is required")
	}
	if in.Slug == "" {
		return in, apperrors.EK(apperrors.KindInvalidInput, KeySlugRequired, "slug is required")
	}
	existing, err := s.List(ctx)
	if err != nil {
		return in, nil
	}
	if SlugTaken(existing, in.Slug, editing) {
		return in, apperrors.EK(apperrors.KindConflict, KeyDuplicateSlug, "category with this name already exists")
	}
	return in, nil
}

// SlugTaken reports whether slug belongs to a category other than editing.
func SlugTaken(items []backend.Category, slug string, editing backend.ID) bool {
	for _, item := range items {
		if item.Slug == slug && item.ID != editing {
			return true
		}
	}
	return false
}

var (
	slugStrip     = regexp.MustCompile(`[^a-z0-9\s]`)
	slugSpace     = regexp.MustCompile(`\s+`)
	slugKeepStrip = regexp.MustCompile(`[^a-z0-9\s-]`)
	slugSeparator = regexp.MustCompile(`[\s-]+`)
)

// Slugify lowercases name, drops everything but letters, digits and
// whitespace, and joins words with hyphens.
func Slugify(name string) string {
	slug := slugStrip.ReplaceAllString(strings.ToLower(name), "")
	return slugSpace.ReplaceAllString(strings.TrimSpace(slug), "-")
}

// NormalizeSlug cleans a slug typed by an editor. Unlike Slugify it keeps
// hyphens, so an existing slug such as "living-room" round-trips unchanged.
func NormalizeSlug(slug string) string {
	slug = slugKeepStrip.ReplaceAllString(strings.ToLower(strings.TrimSpace(slug)), "")
	return strings.Trim(slugSeparator.ReplaceAllString(slug, "-"), "-")
}

// WithAll returns items with an "all" entry first, reusing an existing one.
func WithAll(items []backend.Category) []backend.Category {
	all := backend.Category{ID: AllSlug, Name: "All", Slug: AllSlug}
	out := make([]backend.Category, 0, len(items)+1)
	rest := make([]backend.Category, 0, len(items))
	for _, item := range items {
		if item.Slug == AllSlug {
			all = item
			continue
		}
		rest = append(rest, item)
	}
	out = append(out, all)
	return append(out, rest...)
}

// CountExcludingAll counts the real categories.
func CountExcludingAll(items []backend.Category) int {
	n := 0
	for _, item := range items {
		if item.Slug != AllSlug {
			n++
		}
	}
	return n
}

// Slugs returns the slugs of items in order.
func Slugs(items []backend.Category) []string {
	out := make([]string, 0, len(items))
	for _, item := range items {
		out = append(out, item.Slug)
	}
	return out
}

// NameFor returns the display name of slug, or slug itself when unknown.
func NameFor(items []backend.Category, slug string) string {
	for _, item := range items {
		if strings.EqualFold(item.Slug, slug) {
			return item.Name
		}
	}
	return slug
}

func unavailable() error {
	return apperrors.EK(apperrors.KindUnavailable, backend.KeyUnavailable, "category service is not configured")
}
