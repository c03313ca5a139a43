// Package projects serves portfolio projects and their categories from the
// content API through the read cache.
package projects

import (
	"context"
	"strings"

	"github.com/s2design/site/internal/services/site/backend"
	apperrors "github.com/s2design/site/internal/services/site/platform/errors"
	"github.com/s2design/site/internal/services/site/storage"
	"go.uber.org/zap"
	"golang.org/x/sync/errgroup"
	"golang.org/x/text/cases"
	"golang.org/x/text/language"
)

// AllCategory is the filter value that keeps every project.
const AllCategory = "all"

const (
	keyList       = "projects:list"
	keyCategories = "projects:categories"
	keyGetPrefix  = "projects:get:"
)

// Validation keys.
const (
	KeyTitleRequired     = "admin.projects.error_title_required"
	KeyCategoryRequired  = "admin.projects.error_category_required"
	KeyThumbnailRequired = "admin.projects.error_thumbnail_required"
)

// Gateway is the subset of the content API used for projects.
type Gateway interface {
	ListProjects(context.Context) ([]backend.Project, error)
	GetProject(context.Context, backend.ID) (backend.Project, error)
	ListProjectCategories(context.Context) ([]string, error)
	CreateProject(context.Context, string, backend.ProjectInput) (backend.Project, error)
	UpdateProject(context.Context, string, backend.ID, backend.ProjectInput) (backend.Project, error)
	DeleteProject(context.Context, string, backend.ID) error
}

// Snapshot is the result of one combined refresh.
type Snapshot struct {
	Projects   []backend.Project
	Categories []string
}

// Service reads and mutates projects.
type Service struct {
	gateway Gateway
	cache   *storage.Cache
	logger  *zap.Logger
}

// NewService builds a project service. cache may be nil.
func NewService(gateway Gateway, cache *storage.Cache, logger *zap.Logger) *Service {
	if logger == nil {
		logger = zap.NewNop()
	}
	return &Service{gateway: gateway, cache: cache, logger: logger}
}

// List returns every project.
func (s *Service) List(ctx context.Context) ([]backend.Project, error) {
	if err := s.ready(); err != nil {
		return []backend.Project{}, err
	}
	items, err := storage.Fetch(ctx, s.cache, storage.ScopeProjects, keyList, s.gateway.ListProjects)
	if err != nil {
		return []backend.Project{}, err
	}
	if items == nil {
		items = []backend.Project{}
	}
	return items, nil
}

// Get returns one project.
func (s *Service) Get(ctx context.Context, id backend.ID) (backend.Project, error) {
	if err := s.ready(); err != nil {
		return backend.Project{}, err
	}
	trimmed := backend.ID(strings.TrimSpace(id.String()))
	if trimmed == "" {
		return backend.Project{}, apperrors.EK(apperrors.KindNotFound, backend.KeyNotFound, "project id is required")
	}
	return storage.Fetch(ctx, s.cache, storage.ScopeProjects, keyGetPrefix+trimmed.String(), func(ctx context.Context) (backend.Project, error) {
		return s.gateway.GetProject(ctx, trimmed)
	})
}

// Categories returns the category slugs used by projects. Failures yield an
// empty list and are logged.
func (s *Service) Categories(ctx context.Context) []string {
	if s.ready() != nil {
		return []string{}
	}
	slugs, err := storage.Fetch(ctx, s.cache, storage.ScopeCategories, keyCategories, s.gateway.ListProjectCategories)
	if err != nil {
		s.logger.Warn("project categories unavailable", zap.Error(err))
		return []string{}
	}
	if slugs == nil {
		slugs = []string{}
	}
	return slugs
}

// RefreshAll loads projects and their categories concurrently.
func (s *Service) RefreshAll(ctx context.Context) (Snapshot, error) {
	var snap Snapshot
	group, groupCtx := errgroup.WithContext(ctx)
	group.Go(func() error {
		items, err := s.List(groupCtx)
		snap.Projects = items
		return err
	})
	group.Go(func() error {
		snap.Categories = s.Categories(groupCtx)
		return nil
	})
	err := group.Wait()
	if snap.Projects == nil {
		snap.Projects = []backend.Project{}
	}
	return snap, err
}

// Create validates and creates a project.
func (s *Service) Create(ctx context.Context, token string, in backend.ProjectInput) (backend.Project, error) {
	if err := s.ready(); err != nil {
		return backend.Project{}, err
	}
	in, err := Validate(in)
	if err != nil {
		return backend.Project{}, err
	}
	created, err := s.gateway.CreateProject(ctx, token, in)
	if err != nil {
		return backend.Project{}, err
	}
	s.invalidate(ctx)
	return created, nil
}

// Update validates and replaces a project.
func (s *Service) Update(ctx context.Context, token string, id backend.ID, in backend.ProjectInput) (backend.Project, error) {
	if err := s.ready(); err != nil {
		return backend.Project{}, err
	}
	in, err := Validate(in)
	if err != nil {
		return backend.Project{}, err
	}
	updated, err := s.gateway.UpdateProject(ctx, token, id, in)
	if err != nil {
		return backend.Project{}, err
	}
	s.invalidate(ctx)
	return updated, nil
}

// Delete removes a project.
func (s *Service) Delete(ctx context.Context, token string, id backend.ID) error {
	if err := s.ready(); err != nil {
		return err
	}
	if err := s.gateway.DeleteProject(ctx, token, id); err != nil {
		return err
	}
	s.invalidate(ctx)
	return nil
}

func (s *Service) invalidate(ctx context.Context) {
	s.cache.Invalidate(ctx, storage.ScopeProjects, storage.ScopeCategories)
}

func (s *Service) ready() error {
	if s == nil || s.gateway == nil {
		return apperrors.EK(apperrors.KindUnavailable, backend.KeyUnavailable, "project service is not configured")
	}
	return nil
}

// Validate trims the input, normalizes its image rows and checks required
// fields.
func Validate(in backend.ProjectInput) (backend.ProjectInput, error) {
	in.Title = strings.TrimSpace(in.Title)
	in.Description = strings.TrimSpace(in.Description)
	in.Category = strings.TrimSpace(in.Category)
	in.ThumbnailImage = strings.TrimSpace(in.ThumbnailImage)
	in.Images = NormalizeImages(in.Images)
	switch {
	case in.Title == "":
		return in, apperrors.EK(apperrors.KindInvalidInput, KeyTitleRequired, "title is required")
	case in.Category == "":
		return in, apperrors.EK(apperrors.KindInvalidInput, KeyCategoryRequired, "category is required")
	case in.ThumbnailImage == "":
		return in, apperrors.EK(apperrors.KindInvalidInput, KeyThumbnailRequired, "thumbnail image is required")
	}
	return in, nil
}

// Filter keeps projects in category whose title, description or category
// display name contains query. Category "all" or empty keeps everything.
func Filter(items []backend.Project, category, query string) []backend.Project {
	category = strings.TrimSpace(category)
	query = strings.ToLower(strings.TrimSpace(query))
	out := make([]backend.Project, 0, len(items))
	for _, item := range items {
		if category != "" && !strings.EqualFold(category, AllCategory) && !strings.EqualFold(item.Category, category) {
			continue
		}
		if query != "" && !matches(item, query) {
			continue
		}
		out = append(out, item)
	}
	return out
}

func matches(item backend.Project, query string) bool {
	return strings.Contains(strings.ToLower(item.Title), query) ||
		strings.Contains(strings.ToLower(item.Description), query) ||
		(item.Category != "" && strings.Contains(strings.ToLower(DisplayName(item.Category)), query))
}

// ResolveCategory returns category when it is "all" or one of known, and
// "all" otherwise.
func ResolveCategory(category string, known []string) string {
	category = strings.TrimSpace(category)
	if category == "" || strings.EqualFold(category, AllCategory) {
		return AllCategory
	}
	for _, slug := range known {
		if strings.EqualFold(slug, category) {
			return slug
		}
	}
	return AllCategory
}

// DisplayName turns a category slug into a label: "living-room" becomes
// "Living Room".
func DisplayName(slug string) string {
	slug = strings.TrimSpace(slug)
	if slug == "" {
		return ""
	}
	return cases.Title(language.English).String(strings.ReplaceAll(slug, "-", " "))
}

// NormalizeImages drops rows without a URL, trims the rest and renumbers
// display order from 1.
func NormalizeImages(rows []backend.ProjectImage) []backend.ProjectImage {
	out := make([]backend.ProjectImage, 0, len(rows))
	for _, row := range rows {
		row.ImageURL = strings.TrimSpace(row.ImageURL)
		row.AltText = strings.TrimSpace(row.AltText)
		if row.ImageURL == "" {
			continue
		}
		row.DisplayOrder = len(out) + 1
		out = append(out, row)
	}
	return out
}

// FormRows returns the image rows to show in the edit form; there is always
// at least one.
func FormRows(rows []backend.ProjectImage) []backend.ProjectImage {
	if len(rows) == 0 {
		return []backend.ProjectImage{{DisplayOrder: 1}}
	}
	out := make([]backend.ProjectImage, len(rows))
	for i, row := range rows {
		if row.DisplayOrder <= 0 {
			row.DisplayOrder = i + 1
		}
		out[i] = row
	}
	return out
}

// AddRow appends a blank image row.
func AddRow(rows []backend.ProjectImage) []backend.ProjectImage {
	out := append([]backend.ProjectImage(nil), rows...)
	return append(out, backend.ProjectImage{DisplayOrder: len(rows) + 1})
}

// RemoveRow drops the row at index and renumbers. The last remaining row is
// never removed.
func RemoveRow(rows []backend.ProjectImage, index int) []backend.ProjectImage {
	if len(rows) <= 1 || index < 0 || index >= len(rows) {
		return FormRows(rows)
	}
	out := make([]backend.ProjectImage, 0, len(rows)-1)
	for i, row := range rows {
		if i == index {
			continue
		}
		row.DisplayOrder = len(out) + 1
		out = append(out, row)
	}
	return out
}
