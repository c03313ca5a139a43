package backend

import (
	"bytes"
	"encoding/json"
	"fmt"
	"strings"
	"time"
)

// ID identifies an API record. The API emits numbers for SQL-backed rows
// and strings for slug-like records; both decode to the same value.
type ID string

// String returns the identifier text.
func (id ID) String() string {
	return string(id)
}

// UnmarshalJSON accepts a JSON string, number or null.
func (id *ID) UnmarshalJSON(data []byte) error {
	data = bytes.TrimSpace(data)
	switch {
	case len(data) == 0 || string(data) == "null":
		*id = ""
	case data[0] == '"':
		var s string
		if err := json.Unmarshal(data, &s); err != nil {
			return err
		}
		*id = ID(strings.TrimSpace(s))
	default:
		var n json.Number
		if err := json.Unmarshal(data, &n); err != nil {
			return fmt.Errorf("id must be a string or number: %w", err)
		}
		*id = ID(n.String())
	}
	return nil
}

// MarshalJSON emits numeric ids as numbers and everything else as strings.
// Digits with a leading zero stay strings so "007" keeps its form.
func (id ID) MarshalJSON() ([]byte, error) {
	s := string(id)
	if s != "" && isDigits(s) && (s == "0" || s[0] != '0') {
		return []byte(s), nil
	}
	return json.Marshal(s)
}

func isDigits(s string) bool {
	for _, r := range s {
		if r < '0' || r > '9' {
			return false
		}
	}
	return true
}

// ProjectImage is one image row of a project.
type ProjectImage struct {
	ID           ID     `json:"id,omitempty"`
	ImageURL     string `json:"image_url"`
	AltText      string `json:"alt_text"`
	DisplayOrder int    `json:"display_order"`
}

// Project is a portfolio project with its gallery.
type Project struct {
	ID             ID             `json:"id,omitempty"`
	Title          string         `json:"title"`
	Description    string         `json:"description"`
	Category       string         `json:"category"`
	ThumbnailImage string         `json:"thumbnail_image"`
	Images         []ProjectImage `json:"images"`
	CreatedAt      *time.Time     `json:"created_at,omitempty"`
}

// ProjectInput is the create/update payload for a project.
type ProjectInput struct {
	Title          string         `json:"title"`
	Description    string         `json:"description"`
	Category       string         `json:"category"`
	ThumbnailImage string         `json:"thumbnail_image"`
	Images         []ProjectImage `json:"images"`
}

// Category is a project/portfolio category.
type Category struct {
	ID   ID     `json:"id,omitempty"`
	Name string `json:"name"`
	Slug string `json:"slug"`
}

// CategoryInput is the create/update payload for a category.
type CategoryInput struct {
	Name string `json:"name"`
	Slug string `json:"slug"`
}

// Testimonial is a client quote.
type Testimonial struct {
	ID     ID     `json:"id,omitempty"`
	Name   string `json:"name"`
	Quote  string `json:"quote"`
	Avatar string `json:"avatar"`
	Rating int    `json:"rating"`
}

// TestimonialInput is the create/update payload for a testimonial.
type TestimonialInput struct {
	Name   string `json:"name"`
	Quote  string `json:"quote"`
	Avatar string `json:"avatar"`
	Rating int    `json:"rating"`
}

// PortfolioItem is one image in the public portfolio gallery. Width and
// Height are aspect ratio units, not pixels.
type PortfolioItem struct {
	ID       ID     `json:"id,omitempty"`
	Src      string `json:"src"`
	Alt      string `json:"alt"`
	Width    int    `json:"width"`
	Height   int    `json:"height"`
	Category string `json:"category"`
}

// PortfolioInput is the create/update payload for a portfolio item.
type PortfolioInput struct {
	Src      string `json:"src"`
	Alt      string `json:"alt"`
	Width    int    `json:"width"`
	Height   int    `json:"height"`
	Category string `json:"category"`
}

// User is the authenticated admin account.
type User struct {
	ID       ID     `json:"id"`
	Username string `json:"username"`
	Email    string `json:"email"`
}

// LoginResult is returned by a successful login.
type LoginResult struct {
	Token string `json:"token"`
	User  User   `json:"user"`
}

// Inquiry is a contact form submission forwarded to the API.
type Inquiry struct {
	ID          string    `json:"id"`
	Name        string    `json:"name"`
	Email       string    `json:"email,omitempty"`
	Phone       string    `json:"phone,omitempty"`
	ProjectType string    `json:"project_type,omitempty"`
	Message     string    `json:"message"`
	Language    string    `json:"language,omitempty"`
	ReceivedAt  time.Time `json:"received_at"`
}
