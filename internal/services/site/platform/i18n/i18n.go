// Package i18n resolves the visitor language and builds message printers.
package i18n

import (
	"net/http"
	"net/url"
	"strings"
	"time"

	"github.com/s2design/site/internal/platform/i18n/catalog"
	"golang.org/x/text/language"
	"golang.org/x/text/message"
)

const (
	// LangParam is the query parameter used to select a language.
	LangParam = "lang"
	// LangCookieName stores the visitor's language preference.
	LangCookieName = "s2_lang"
)

var (
	supported = []language.Tag{language.MustParse("en-US"), language.MustParse("id-ID")}
	matcher   = language.NewMatcher(supported)
)

func init() {
	catalog.Default()
}

// Localizer provides translated strings for templates.
type Localizer interface {
	Sprintf(key message.Reference, args ...any) string
}

// Supported returns the supported language tags, default first.
func Supported() []language.Tag {
	return append([]language.Tag(nil), supported...)
}

// Default returns the default language tag.
func Default() language.Tag {
	return supported[0]
}

// Match maps a requested tag to the closest supported tag.
func Match(tags ...language.Tag) language.Tag {
	if len(tags) == 0 {
		return Default()
	}
	_, index, confidence := matcher.Match(tags...)
	if confidence == language.No {
		return Default()
	}
	return supported[index]
}

// Parse maps a raw language value to a supported tag.
func Parse(raw string) (language.Tag, bool) {
	tag, err := language.Parse(strings.TrimSpace(raw))
	if err != nil {
		return Default(), false
	}
	_, index, confidence := matcher.Match(tag)
	if confidence == language.No {
		return Default(), false
	}
	return supported[index], true
}

// ResolveTag picks the language from ?lang=, the language cookie, then
// Accept-Language. The bool reports whether ?lang= should be persisted.
func ResolveTag(r *http.Request) (language.Tag, bool) {
	if r == nil {
		return Default(), false
	}
	if raw := strings.TrimSpace(r.URL.Query().Get(LangParam)); raw != "" {
		if tag, ok := Parse(raw); ok {
			return tag, true
		}
	}
	if cookie, err := r.Cookie(LangCookieName); err == nil {
		if tag, ok := Parse(cookie.Value); ok {
			return tag, false
		}
	}
	if accept := strings.TrimSpace(r.Header.Get("Accept-Language")); accept != "" {
		if tags, _, err := language.ParseAcceptLanguage(accept); err == nil && len(tags) > 0 {
			return Match(tags...), false
		}
	}
	return Default(), false
}

// ResolveLocalizer resolves the request language, persists an explicit choice
// and returns a printer with the language string.
func ResolveLocalizer(w http.ResponseWriter, r *http.Request) (*message.Printer, string) {
	tag, persist := ResolveTag(r)
	if persist {
		SetLanguageCookie(w, tag)
	}
	return message.NewPrinter(tag), tag.String()
}

// SetLanguageCookie persists the selected language on the response.
func SetLanguageCookie(w http.ResponseWriter, tag language.Tag) {
	if w == nil {
		return
	}
	http.SetCookie(w, &http.Cookie{
		Name:     LangCookieName,
		Value:    tag.String(),
		Path:     "/",
		MaxAge:   int((365 * 24 * time.Hour).Seconds()),
		SameSite: http.SameSiteLaxMode,
	})
}

// LanguageURL returns path with the lang parameter replaced.
func LanguageURL(path, rawQuery, lang string) string {
	if strings.TrimSpace(path) == "" {
		path = "/"
	}
	query, err := url.ParseQuery(rawQuery)
	if err != nil {
		query = url.Values{}
	}
	query.Set(LangParam, lang)
	return (&url.URL{Path: path, RawQuery: query.Encode()}).String()
}
