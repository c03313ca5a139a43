package backend

import (
	"context"
	"errors"
	"net/http"
	"net/url"
	"strings"

	apperrors "github.com/s2design/site/internal/services/site/platform/errors"
)

func itemPath(collection string, id ID) string {
	return collection + "/" + url.PathEscape(strings.TrimSpace(id.String()))
}

func requireID(id ID) error {
	if strings.TrimSpace(id.String()) == "" {
		return errors.New("id is required")
	}
	return nil
}

// ListProjects returns every project.
func (c *Client) ListProjects(ctx context.Context) ([]Project, error) {
	var out []Project
	err := c.do(ctx, call{method: http.MethodGet, route: "/projects", path: "/projects", out: &out})
	return nonNil(out), err
}

// GetProject returns one project with its images.
func (c *Client) GetProject(ctx context.Context, id ID) (Project, error) {
	if err := requireID(id); err != nil {
		return Project{}, err
	}
	var out Project
	err := c.do(ctx, call{method: http.MethodGet, route: "/projects/{id}", path: itemPath("/projects", id), out: &out})
	return out, err
}

// ListProjectCategories returns the category slugs used by projects.
func (c *Client) ListProjectCategories(ctx context.Context) ([]string, error) {
	var out []string
	err := c.do(ctx, call{method: http.MethodGet, route: "/projects/categories", path: "/projects/categories", out: &out})
	return nonNil(out), err
}

// CreateProject creates a project.
func (c *Client) CreateProject(ctx context.Context, token string, in ProjectInput) (Project, error) {
	var out Project
	err := c.do(ctx, call{method: http.MethodPost, route: "/projects", path: "/projects", token: token, body: in, out: &out})
	return out, err
}

// UpdateProject replaces a project.
func (c *Client) UpdateProject(ctx context.Context, token string, id ID, in ProjectInput) (Project, error) {
	if err := requireID(id); err != nil {
		return Project{}, err
	}
	var out Project
	err := c.do(ctx, call{method: http.MethodPut, route: "/projects/{id}", path: itemPath("/projects", id), token: token, body: in, out: &out})
	return out, err
}

// DeleteProject deletes a project.
func (c *Client) DeleteProject(ctx context.Context, token string, id ID) error {
	if err := requireID(id); err != nil {
		return err
	}
	return c.do(ctx, call{method: http.MethodDelete, route: "/projects/{id}", path: itemPath("/projects", id), token: token})
}

// ListCategories returns every category.
func (c *Client) ListCategories(ctx context.Context) ([]Category, error) {
	var out []Category
	err := c.do(ctx, call{method: http.MethodGet, route: "/categories", path: "/categories", out: &out})
	return nonNil(out), err
}

// CreateCategory creates a category.
func (c *Client) CreateCategory(ctx context.Context, token string, in CategoryInput) (Category, error) {
	var out Category
	err := c.do(ctx, call{method: http.MethodPost, route: "/categories", path: "/categories", token: token, body: in, out: &out})
	return out, err
}

// UpdateCategory replaces a category.
func (c *Client) UpdateCategory(ctx context.Context, token string, id ID, in CategoryInput) (Category, error) {
	if err := requireID(id); err != nil {
		return Category{}, err
	}
	var out Category
	err := c.do(ctx, call{method: http.MethodPut, route: "/categories/{id}", path: itemPath("/categories", id), token: token, body: in, out: &out})
	return out, err
}

// DeleteCategory deletes a category.
func (c *Client) DeleteCategory(ctx context.Context, token string, id ID) error {
	if err := requireID(id); err != nil {
		return err
	}
	return c.do(ctx, call{method: http.MethodDelete, route: "/categories/{id}", path: itemPath("/categories", id), token: token})
}

// ListTestimonials returns every testimonial.
func (c *Client) ListTestimonials(ctx context.Context) ([]Testimonial, error) {
	var out []Testimonial
	err := c.do(ctx, call{method: http.MethodGet, route: "/testimonials", path: "/testimonials", out: &out})
	return nonNil(out), err
}

// CreateTestimonial creates a testimonial.
func (c *Client) CreateTestimonial(ctx context.Context, token string, in TestimonialInput) (Testimonial, error) {
	var out Testimonial
	err := c.do(ctx, call{method: http.MethodPost, route: "/testimonials", path: "/testimonials", token: token, body: in, out: &out})
	return out, err
}

// UpdateTestimonial replaces a testimonial.
func (c *Client) UpdateTestimonial(ctx context.Context, token string, id ID, in TestimonialInput) (Testimonial, error) {
	if err := requireID(id); err != nil {
		return Testimonial{}, err
	}
	var out Testimonial
	err := c.do(ctx, call{method: http.MethodPut, route: "/testimonials/{id}", path: itemPath("/testimonials", id), token: token, body: in, out: &out})
	return out, err
}

// DeleteTestimonial deletes a testimonial.
func (c *Client) DeleteTestimonial(ctx context.Context, token string, id ID) error {
	if err := requireID(id); err != nil {
		return err
	}
	return c.do(ctx, call{method: http.MethodDelete, route: "/testimonials/{id}", path: itemPath("/testimonials", id), token: token})
}

// ListPortfolio returns every portfolio item.
func (c *Client) ListPortfolio(ctx context.Context) ([]PortfolioItem, error) {
	var out []PortfolioItem
	err := c.do(ctx, call{method: http.MethodGet, route: "/portfolio", path: "/portfolio", out: &out})
	return nonNil(out), err
}

// CreatePortfolioItem creates a portfolio item.
func (c *Client) CreatePortfolioItem(ctx context.Context, token string, in PortfolioInput) (PortfolioItem, error) {
	var out PortfolioItem
	err := c.do(ctx, call{method: http.MethodPost, route: "/portfolio", path: "/portfolio", token: token, body: in, out: &out})
	return out, err
}

// UpdatePortfolioItem replaces a portfolio item.
func (c *Client) UpdatePortfolioItem(ctx context.Context, token string, id ID, in PortfolioInput) (PortfolioItem, error) {
	if err := requireID(id); err != nil {
		return PortfolioItem{}, err
	}
	var out PortfolioItem
	err := c.do(ctx, call{method: http.MethodPut, route: "/portfolio/{id}", path: itemPath("/portfolio", id), token: token, body: in, out: &out})
	return out, err
}

// DeletePortfolioItem deletes a portfolio item.
func (c *Client) DeletePortfolioItem(ctx context.Context, token string, id ID) error {
	if err := requireID(id); err != nil {
		return err
	}
	return c.do(ctx, call{method: http.MethodDelete, route: "/portfolio/{id}", path: itemPath("/portfolio", id), token: token})
}

// Login exchanges credentials for a token and user.
func (c *Client) Login(ctx context.Context, username, password string) (LoginResult, error) {
	var out LoginResult
	err := c.do(ctx, call{
		method: http.MethodPost, route: "/auth/login", path: "/auth/login",
		body: map[string]string{"username": username, "password": password},
		out:  &out,
	})
	if err == nil && strings.TrimSpace(out.Token) == "" {
		return LoginResult{}, apperrors.EK(apperrors.KindUnavailable, KeyUnavailable, "login response carried no token")
	}
	return out, err
}

// ForgotPassword asks the API to email a one-time code.
func (c *Client) ForgotPassword(ctx context.Context, email string) error {
	return c.do(ctx, call{
		method: http.MethodPost, route: "/auth/forgot-password", path: "/auth/forgot-password",
		body: map[string]string{"email": email},
	})
}

// ResetPassword sets a new password using the emailed code.
func (c *Client) ResetPassword(ctx context.Context, email, otp, newPassword string) error {
	return c.do(ctx, call{
		method: http.MethodPost, route: "/auth/reset-password", path: "/auth/reset-password",
		body: map[string]string{"email": email, "otp": otp, "newPassword": newPassword},
	})
}

// SubmitInquiry forwards a contact inquiry.
func (c *Client) SubmitInquiry(ctx context.Context, in Inquiry) error {
	return c.do(ctx, call{method: http.MethodPost, route: "/contact", path: "/contact", body: in})
}

func nonNil[T any](items []T) []T {
	if items == nil {
		return []T{}
	}
	return items
}
