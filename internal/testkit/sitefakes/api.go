// Package sitefakes provides an in-memory content API for site handler tests.
package sitefakes

import (
	"context"
	"fmt"
	"strings"
	"sync"

	"github.com/s2design/site/internal/services/site/backend"
	apperrors "github.com/s2design/site/internal/services/site/platform/errors"
)

// API is a configurable fake of the content REST API. It satisfies every
// content gateway and the auth client.
type API struct {
	mu sync.Mutex

	Projects          []backend.Project
	ProjectCategories []string
	Categories        []backend.Category
	Testimonials      []backend.Testimonial
	Portfolio         []backend.PortfolioItem
	Inquiries         []backend.Inquiry

	// Username, Password and Token are the one valid login. Mutations with
	// any other token fail as unauthorized when Token is set.
	Username string
	Password string
	Token    string
	User     backend.User

	// OTP is the code ResetPassword accepts.
	OTP         string
	ResetEmail  string
	NewPassword string

	// Err fails every call; Errs fails calls by method name.
	Err  error
	Errs map[string]error

	Calls  []string
	nextID int
}

// Fail makes method return err.
func (a *API) Fail(method string, err error) {
	a.mu.Lock()
	defer a.mu.Unlock()
	if a.Errs == nil {
		a.Errs = map[string]error{}
	}
	a.Errs[method] = err
}

// Called reports how many times method ran.
func (a *API) Called(method string) int {
	a.mu.Lock()
	defer a.mu.Unlock()
	n := 0
	for _, call := range a.Calls {
		if call == method {
			n++
		}
	}
	return n
}

// Unavailable mimics a transport failure.
func Unavailable() error {
	return apperrors.EK(apperrors.KindUnavailable, backend.KeyUnavailable, backend.ConnectFailureMessage)
}

// Unauthorized mimics a 401 response.
func Unauthorized() error {
	return apperrors.EK(apperrors.KindUnauthorized, backend.KeyUnauthorized, "Invalid token")
}

// NotFound mimics a 404 response.
func NotFound(what string) error {
	return apperrors.EK(apperrors.KindNotFound, backend.KeyNotFound, what+" not found")
}

// begin records the call and returns any configured failure. Callers hold mu.
func (a *API) begin(method string) error {
	a.Calls = append(a.Calls, method)
	if a.Err != nil {
		return a.Err
	}
	return a.Errs[method]
}

func (a *API) authorize(token string) error {
	if a.Token != "" && token != a.Token {
		return Unauthorized()
	}
	return nil
}

func (a *API) id() backend.ID {
	a.nextID++
	return backend.ID(fmt.Sprintf("fake-%d", a.nextID))
}

func (a *API) mutate(method, token string) error {
	if err := a.begin(method); err != nil {
		return err
	}
	return a.authorize(token)
}

// ListProjects returns the stored projects.
func (a *API) ListProjects(context.Context) ([]backend.Project, error) {
	a.mu.Lock()
	defer a.mu.Unlock()
	if err := a.begin("ListProjects"); err != nil {
		return nil, err
	}
	return append([]backend.Project{}, a.Projects...), nil
}

// GetProject finds one project.
func (a *API) GetProject(_ context.Context, id backend.ID) (backend.Project, error) {
	a.mu.Lock()
	defer a.mu.Unlock()
	if err := a.begin("GetProject"); err != nil {
		return backend.Project{}, err
	}
	for _, project := range a.Projects {
		if project.ID == id {
			return project, nil
		}
	}
	return backend.Project{}, NotFound("Project")
}

// ListProjectCategories returns ProjectCategories, or the distinct project
// categories when unset.
func (a *API) ListProjectCategories(context.Context) ([]string, error) {
	a.mu.Lock()
	defer a.mu.Unlock()
	if err := a.begin("ListProjectCategories"); err != nil {
		return nil, err
	}
	if a.ProjectCategories != nil {
		return append([]string{}, a.ProjectCategories...), nil
	}
	seen := map[string]bool{}
	var out []string
	for _, project := range a.Projects {
		if project.Category != "" && !seen[project.Category] {
			seen[project.Category] = true
			out = append(out, project.Category)
		}
	}
	return out, nil
}

// CreateProject stores a new project.
func (a *API) CreateProject(_ context.Context, token string, in backend.ProjectInput) (backend.Project, error) {
	a.mu.Lock()
	defer a.mu.Unlock()
	if err := a.mutate("CreateProject", token); err != nil {
		return backend.Project{}, err
	}
	project := backend.Project{ID: a.id(), Title: in.Title, Description: in.Description, Category: in.Category, ThumbnailImage: in.ThumbnailImage, Images: in.Images}
	a.Projects = append(a.Projects, project)
	return project, nil
}

// UpdateProject replaces a project.
func (a *API) UpdateProject(_ context.Context, token string, id backend.ID, in backend.ProjectInput) (backend.Project, error) {
	a.mu.Lock()
	defer a.mu.Unlock()
	if err := a.mutate("UpdateProject", token); err != nil {
		return backend.Project{}, err
	}
	for i, project := range a.Projects {
		if project.ID == id {
			project.Title, project.Description, project.Category = in.Title, in.Description, in.Category
			project.ThumbnailImage, project.Images = in.ThumbnailImage, in.Images
			a.Projects[i] = project
			return project, nil
		}
	}
	return backend.Project{}, NotFound("Project")
}

// DeleteProject removes a project.
func (a *API) DeleteProject(_ context.Context, token string, id backend.ID) error {
	a.mu.Lock()
	defer a.mu.Unlock()
	if err := a.mutate("DeleteProject", token); err != nil {
		return err
	}
	for i, project := range a.Projects {
		if project.ID == id {
			a.Projects = append(a.Projects[:i], a.Projects[i+1:]...)
			return nil
		}
	}
	return NotFound("Project")
}

// ListCategories returns the stored categories.
func (a *API) ListCategories(context.Context) ([]backend.Category, error) {
	a.mu.Lock()
	defer a.mu.Unlock()
	if err := a.begin("ListCategories"); err != nil {
		return nil, err
	}
	return append([]backend.Category{}, a.Categories...), nil
}

// CreateCategory stores a new category.
func (a *API) CreateCategory(_ context.Context, token string, in backend.CategoryInput) (backend.Category, error) {
	a.mu.Lock()
	defer a.mu.Unlock()
	if err := a.mutate("CreateCategory", token); err != nil {
		return backend.Category{}, err
	}
	category := backend.Category{ID: a.id(), Name: in.Name, Slug: in.Slug}
	a.Categories = append(a.Categories, category)
	return category, nil
}

// UpdateCategory replaces a category.
func (a *API) UpdateCategory(_ context.Context, token string, id backend.ID, in backend.CategoryInput) (backend.Category, error) {
	a.mu.Lock()
	defer a.mu.Unlock()
	if err := a.mutate("UpdateCategory", token); err != nil {
		return backend.Category{}, err
	}
	for i, category := range a.Categories {
		if category.ID == id {
			category.Name, category.Slug = in.Name, in.Slug
			a.Categories[i] = category
			return category, nil
		}
	}
	return backend.Category{}, NotFound("Category")
}

// DeleteCategory removes a category.
func (a *API) DeleteCategory(_ context.Context, token string, id backend.ID) error {
	a.mu.Lock()
	defer a.mu.Unlock()
	if err := a.mutate("DeleteCategory", token); err != nil {
		return err
	}
	for i, category := range a.Categories {
		if category.ID == id {
			a.Categories = append(a.Categories[:i], a.Categories[i+1:]...)
			return nil
		}
	}
	return NotFound("Category")
}

// ListTestimonials returns the stored testimonials.
func (a *API) ListTestimonials(context.Context) ([]backend.Testimonial, error) {
	a.mu.Lock()
	defer a.mu.Unlock()
	if err := a.begin("ListTestimonials"); err != nil {
		return nil, err
	}
	return append([]backend.Testimonial{}, a.Testimonials...), nil
}

// CreateTestimonial stores a new testimonial.
func (a *API) CreateTestimonial(_ context.Context, token string, in backend.TestimonialInput) (backend.Testimonial, error) {
	a.mu.Lock()
	defer a.mu.Unlock()
	if err := a.mutate("CreateTestimonial", token); err != nil {
		return backend.Testimonial{}, err
	}
	item := backend.Testimonial{ID: a.id(), Name: in.Name, Quote: in.Quote, Avatar: in.Avatar, Rating: in.Rating}
	a.Testimonials = append(a.Testimonials, item)
	return item, nil
}

// UpdateTestimonial replaces a testimonial.
func (a *API) UpdateTestimonial(_ context.Context, token string, id backend.ID, in backend.TestimonialInput) (backend.Testimonial, error) {
	a.mu.Lock()
	defer a.mu.Unlock()
	if err := a.mutate("UpdateTestimonial", token); err != nil {
		return backend.Testimonial{}, err
	}
	for i, item := range a.Testimonials {
		if item.ID == id {
			item.Name, item.Quote, item.Avatar, item.Rating = in.Name, in.Quote, in.Avatar, in.Rating
			a.Testimonials[i] = item
			return item, nil
		}
	}
	return backend.Testimonial{}, NotFound("Testimonial")
}

// DeleteTestimonial removes a testimonial.
func (a *API) DeleteTestimonial(_ context.Context, token string, id backend.ID) error {
	a.mu.Lock()
	defer a.mu.Unlock()
	if err := a.mutate("DeleteTestimonial", token); err != nil {
		return err
	}
	for i, item := range a.Testimonials {
		if item.ID == id {
			a.Testimonials = append(a.Testimonials[:i], a.Testimonials[i+1:]...)
			return nil
		}
	}
	return NotFound("Testimonial")
}

// ListPortfolio returns the stored gallery items.
func (a *API) ListPortfolio(context.Context) ([]backend.PortfolioItem, error) {
	a.mu.Lock()
	defer a.mu.Unlock()
	if err := a.begin("ListPortfolio"); err != nil {
		return nil, err
	}
	return append([]backend.PortfolioItem{}, a.Portfolio...), nil
}

// CreatePortfolioItem stores a new gallery item.
func (a *API) CreatePortfolioItem(_ context.Context, token string, in backend.PortfolioInput) (backend.PortfolioItem, error) {
	a.mu.Lock()
	defer a.mu.Unlock()
	if err := a.mutate("CreatePortfolioItem", token); err != nil {
		return backend.PortfolioItem{}, err
	}
	item := backend.PortfolioItem{ID: a.id(), Src: in.Src, Alt: in.Alt, Width: in.Width, Height: in.Height, Category: in.Category}
	a.Portfolio = append(a.Portfolio, item)
	return item, nil
}

// UpdatePortfolioItem replaces a gallery item.
func (a *API) UpdatePortfolioItem(_ context.Context, token string, id backend.ID, in backend.PortfolioInput) (backend.PortfolioItem, error) {
	a.mu.Lock()
	defer a.mu.Unlock()
	if err := a.mutate("UpdatePortfolioItem", token); err != nil {
		return backend.PortfolioItem{}, err
	}
	for i, item := range a.Portfolio {
		if item.ID == id {
			item.Src, item.Alt, item.Width, item.Height, item.Category = in.Src, in.Alt, in.Width, in.Height, in.Category
			a.Portfolio[i] = item
			return item, nil
		}
	}
	return backend.PortfolioItem{}, NotFound("Portfolio item")
}

// DeletePortfolioItem removes a gallery item.
func (a *API) DeletePortfolioItem(_ context.Context, token string, id backend.ID) error {
	a.mu.Lock()
	defer a.mu.Unlock()
	if err := a.mutate("DeletePortfolioItem", token); err != nil {
		return err
	}
	for i, item := range a.Portfolio {
		if item.ID == id {
			a.Portfolio = append(a.Portfolio[:i], a.Portfolio[i+1:]...)
			return nil
		}
	}
	return NotFound("Portfolio item")
}

// Login accepts the configured credentials.
func (a *API) Login(_ context.Context, username, password string) (backend.LoginResult, error) {
	a.mu.Lock()
	defer a.mu.Unlock()
	if err := a.begin("Login"); err != nil {
		return backend.LoginResult{}, err
	}
	if username != a.Username || password != a.Password {
		return backend.LoginResult{}, apperrors.EK(apperrors.KindUnauthorized, backend.KeyUnauthorized, "Invalid credentials")
	}
	user := a.User
	if user.Username == "" {
		user.Username = username
	}
	return backend.LoginResult{Token: a.Token, User: user}, nil
}

// ForgotPassword records the reset request.
func (a *API) ForgotPassword(_ context.Context, email string) error {
	a.mu.Lock()
	defer a.mu.Unlock()
	if err := a.begin("ForgotPassword"); err != nil {
		return err
	}
	if a.User.Email != "" && !strings.EqualFold(email, a.User.Email) {
		return NotFound("Email")
	}
	a.ResetEmail = email
	return nil
}

// ResetPassword accepts the configured OTP.
func (a *API) ResetPassword(_ context.Context, email, otp, newPassword string) error {
	a.mu.Lock()
	defer a.mu.Unlock()
	if err := a.begin("ResetPassword"); err != nil {
		return err
	}
	if otp != a.OTP {
		return apperrors.EK(apperrors.KindInvalidInput, backend.KeyRejected, "Invalid or expired OTP")
	}
	a.ResetEmail = email
	a.NewPassword = newPassword
	a.Password = newPassword
	return nil
}

// SubmitInquiry stores the inquiry.
func (a *API) SubmitInquiry(_ context.Context, in backend.Inquiry) error {
	a.mu.Lock()
	defer a.mu.Unlock()
	if err := a.begin("SubmitInquiry"); err != nil {
		return err
	}
	a.Inquiries = append(a.Inquiries, in)
	return nil
}
