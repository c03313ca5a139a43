// Package sitecontent loads the marketing copy shown on the public site.
//
// The copy ships embedded and may be replaced by an override file that is
// reloaded while the server runs.
package sitecontent

import (
	"bytes"
	_ "embed"
	"errors"
	"fmt"
	"io"
	"os"
	"strings"

	"gopkg.in/yaml.v3"
)

//go:embed default.yaml
var defaultYAML []byte

// Link is a labelled href.
type Link struct {
	Name string `yaml:"name"`
	Href string `yaml:"href"`
}

// Brand names the business.
type Brand struct {
	Name   string `yaml:"name"`
	Short  string `yaml:"short"`
	Accent string `yaml:"accent"`
	Logo   string `yaml:"logo"`
}

// Hero is the opening section.
type Hero struct {
	Title        string `yaml:"title"`
	Accent       string `yaml:"accent"`
	Body         string `yaml:"body"`
	PrimaryCTA   string `yaml:"primary_cta"`
	SecondaryCTA string `yaml:"secondary_cta"`
	Image        string `yaml:"image"`
	ImageAlt     string `yaml:"image_alt"`
}

// Stat is one headline number.
type Stat struct {
	Name  string `yaml:"name"`
	Value string `yaml:"value"`
	Icon  string `yaml:"icon"`
}

// Workshop is one in-house workshop.
type Workshop struct {
	Title string `yaml:"title"`
	Body  string `yaml:"body"`
}

// Workshops is the workshop highlight block.
type Workshops struct {
	Title string     `yaml:"title"`
	Body  string     `yaml:"body"`
	Items []Workshop `yaml:"items"`
}

// About is the company introduction.
type About struct {
	Heading    []string  `yaml:"heading"`
	Intro      string    `yaml:"intro"`
	Stats      []Stat    `yaml:"stats"`
	Paragraphs []string  `yaml:"paragraphs"`
	Quote      string    `yaml:"quote"`
	Image      string    `yaml:"image"`
	ImageAlt   string    `yaml:"image_alt"`
	Badge      Stat      `yaml:"badge"`
	Workshops  Workshops `yaml:"workshops"`
}

// Offering is one service card.
type Offering struct {
	Emoji       string   `yaml:"emoji"`
	Title       string   `yaml:"title"`
	Description string   `yaml:"description"`
	Features    []string `yaml:"features"`
}

// CallToAction closes a section.
type CallToAction struct {
	Title string `yaml:"title"`
	Body  string `yaml:"body"`
	Label string `yaml:"label"`
}

// Services lists what the business offers.
type Services struct {
	Heading string       `yaml:"heading"`
	Intro   string       `yaml:"intro"`
	Items   []Offering   `yaml:"items"`
	CTA     CallToAction `yaml:"cta"`
}

// Section is a heading with an intro paragraph.
type Section struct {
	Heading string `yaml:"heading"`
	Intro   string `yaml:"intro"`
}

// ContactMethod is one way to reach the business.
type ContactMethod struct {
	Kind        string `yaml:"kind"`
	Title       string `yaml:"title"`
	Details     string `yaml:"details"`
	Description string `yaml:"description"`
	Action      string `yaml:"action"`
	Link        string `yaml:"link"`
}

// Option is a select option.
type Option struct {
	Value string `yaml:"value"`
	Label string `yaml:"label"`
}

// QuickContact is the instant-contact panel.
type QuickContact struct {
	Body     string `yaml:"body"`
	WhatsApp string `yaml:"whatsapp"`
	Maps     string `yaml:"maps"`
}

// Contact is the contact section.
type Contact struct {
	Heading      string          `yaml:"heading"`
	Intro        string          `yaml:"intro"`
	Methods      []ContactMethod `yaml:"methods"`
	ProjectTypes []Option        `yaml:"project_types"`
	Quick        QuickContact    `yaml:"quick"`
}

// Footer is the page footer.
type Footer struct {
	Copyright string `yaml:"copyright"`
}

// Content is the full site copy.
type Content struct {
	Brand        Brand    `yaml:"brand"`
	Navigation   []Link   `yaml:"navigation"`
	Hero         Hero     `yaml:"hero"`
	About        About    `yaml:"about"`
	Services     Services `yaml:"services"`
	Portfolio    Section  `yaml:"portfolio"`
	Testimonials Section  `yaml:"testimonials"`
	Contact      Contact  `yaml:"contact"`
	Social       []Link   `yaml:"social"`
	Footer       Footer   `yaml:"footer"`
}

// Default returns the embedded copy.
func Default() Content {
	content, err := Parse(defaultYAML)
	if err != nil {
		panic(fmt.Sprintf("sitecontent: embedded default is invalid: %v", err))
	}
	return content
}

// Parse decodes and validates YAML copy. Unknown fields are rejected.
func Parse(data []byte) (Content, error) {
	decoder := yaml.NewDecoder(bytes.NewReader(data))
	decoder.KnownFields(true)
	var content Content
	if err := decoder.Decode(&content); err != nil {
		if errors.Is(err, io.EOF) {
			return Content{}, errors.New("content is empty")
		}
		return Content{}, fmt.Errorf("decode content: %w", err)
	}
	if err := content.Validate(); err != nil {
		return Content{}, err
	}
	return content, nil
}

// ParseFile reads and parses a content file.
func ParseFile(path string) (Content, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return Content{}, fmt.Errorf("read content: %w", err)
	}
	content, err := Parse(data)
	if err != nil {
		return Content{}, fmt.Errorf("%s: %w", path, err)
	}
	return content, nil
}

// Validate checks the fields every page needs.
func (c Content) Validate() error {
	var problems []string
	if strings.TrimSpace(c.Brand.Name) == "" {
		problems = append(problems, "brand.name is required")
	}
	if strings.TrimSpace(c.Hero.Title) == "" {
		problems = append(problems, "hero.title is required")
	}
	if len(c.Services.Items) == 0 {
		problems = append(problems, "services.items must not be empty")
	}
	for i, method := range c.Contact.Methods {
		if strings.TrimSpace(method.Link) == "" {
			problems = append(problems, fmt.Sprintf("contact.methods[%d].link is required", i))
		}
	}
	for i, link := range append(append([]Link{}, c.Navigation...), c.Social...) {
		if strings.TrimSpace(link.Href) == "" {
			problems = append(problems, fmt.Sprintf("link %d (%s) has no href", i, link.Name))
		}
	}
	if len(problems) > 0 {
		return errors.New(strings.Join(problems, "; "))
	}
	return nil
}

// Method returns the contact method of kind.
func (c Content) Method(kind string) (ContactMethod, bool) {
	for _, method := range c.Contact.Methods {
		if method.Kind == kind {
			return method, true
		}
	}
	return ContactMethod{}, false
}
