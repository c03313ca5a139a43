// Package testimonials serves client quotes.
package testimonials

import (
	"context"
	"strings"

	"github.com/s2design/site/internal/services/site/backend"
	apperrors "github.com/s2design/site/internal/services/site/platform/errors"
	"github.com/s2design/site/internal/services/site/storage"
	"go.uber.org/zap"
)

const (
	MinRating     = 1
	MaxRating     = 5
	DefaultRating = MaxRating
)

const keyList = "testimonials:list"

const (
	KeyNameRequired  = "admin.testimonials.error_name_required"
	KeyQuoteRequired = "admin.testimonials.error_quote_required"
)

// Gateway is the subset of the content API used for testimonials.
type Gateway interface {
	ListTestimonials(context.Context) ([]backend.Testimonial, error)
	CreateTestimonial(context.Context, string, backend.TestimonialInput) (backend.Testimonial, error)
	UpdateTestimonial(context.Context, string, backend.ID, backend.TestimonialInput) (backend.Testimonial, error)
	DeleteTestimonial(context.Context, string, backend.ID) error
}

// Service reads and mutates testimonials.
type Service struct {
	gateway Gateway
	cache   *storage.Cache
	logger  *zap.Logger
}

// NewService builds a testimonial service. cache may be nil.
func NewService(gateway Gateway, cache *storage.Cache, logger *zap.Logger) *Service {
	if logger == nil {
		logger = zap.NewNop()
	}
	return &Service{gateway: gateway, cache: cache, logger: logger}
}

// List returns every testimonial. On failure the list is empty and the error
// is returned for the caller to report.
func (s *Service) List(ctx context.Context) ([]backend.Testimonial, error) {
	if s == nil || s.gateway == nil {
		return []backend.Testimonial{}, unavailable()
	}
	items, err := storage.Fetch(ctx, s.cache, storage.ScopeTestimonials, keyList, s.gateway.ListTestimonials)
	if err != nil {
		s.logger.Warn("testimonials unavailable", zap.Error(err))
		return []backend.Testimonial{}, err
	}
	if items == nil {
		items = []backend.Testimonial{}
	}
	for i := range items {
		items[i].Rating = ClampRating(items[i].Rating)
	}
	return items, nil
}

// Create validates and creates a testimonial.
func (s *Service) Create(ctx context.Context, token string, in backend.TestimonialInput) (backend.Testimonial, error) {
	if s == nil || s.gateway == nil {
		return backend.Testimonial{}, unavailable()
	}
	in, err := Validate(in)
	if err != nil {
		return backend.Testimonial{}, err
	}
	created, err := s.gateway.CreateTestimonial(ctx, token, in)
	if err != nil {
		return backend.Testimonial{}, err
	}
	s.cache.Invalidate(ctx, storage.ScopeTestimonials)
	return created, nil
}

// Update validates and replaces a testimonial.
func (s *Service) Update(ctx context.Context, token string, id backend.ID, in backend.TestimonialInput) (backend.Testimonial, error) {
	if s == nil || s.gateway == nil {
		return backend.Testimonial{}, unavailable()
	}
	in, err := Validate(in)
	if err != nil {
		return backend.Testimonial{}, err
	}
	updated, err := s.gateway.UpdateTestimonial(ctx, token, id, in)
	if err != nil {
		return backend.Testimonial{}, err
	}
	s.cache.Invalidate(ctx, storage.ScopeTestimonials)
	return updated, nil
}

// Delete removes a testimonial.
func (s *Service) Delete(ctx context.Context, token string, id backend.ID) error {
	if s == nil || s.gateway == nil {
		return unavailable()
	}
	if err := s.gateway.DeleteTestimonial(ctx, token, id); err != nil {
		return err
	}
	s.cache.Invalidate(ctx, storage.ScopeTestimonials)
	return nil
}

// Validate trims the input, requires name and quote, and clamps the rating.
func Validate(in backend.TestimonialInput) (backend.TestimonialInput, error) {
	in.Name = strings.TrimSpace(in.Name)
	in.Quote = strings.TrimSpace(in.Quote)
	in.Avatar = strings.TrimSpace(in.Avatar)
	in.Rating = ClampRating(in.Rating)
	if in.Name == "" {
		return in, apperrors.EK(apperrors.KindInvalidInput, KeyNameRequired, "name is required")
	}
	if in.Quote == "" {
		return in, apperrors.EK(apperrors.KindInvalidInput, KeyQuoteRequired, "quote is required")
	}
	return in, nil
}

// ClampRating keeps rating within 1..5; zero means unset and becomes 5.
func ClampRating(rating int) int {
	switch {
	case rating == 0:
		return DefaultRating
	case rating < MinRating:
		return MinRating
	case rating > MaxRating:
		return MaxRating
	}
	return rating
}

// Stars reports which of the five stars are filled for rating.
func Stars(rating int) []bool {
	rating = ClampRating(rating)
	out := make([]bool, MaxRating)
	for i := range out {
		out[i] = i < rating
	}
	return out
}

func unavailable() error {
	return apperrors.EK(apperrors.KindUnavailable, backend.KeyUnavailable, "testimonial service is not configured")
}
