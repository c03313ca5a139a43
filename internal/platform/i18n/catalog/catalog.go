// Package catalog loads the embedded YAML message catalogs and registers them
// with golang.org/x/text/message.
package catalog

import (
	"embed"
	"fmt"
	"io/fs"
	"path"
	"sort"
	"strings"

	"golang.org/x/text/language"
	"golang.org/x/text/message"
	"gopkg.in/yaml.v3"
)

// BaseLocale is the canonical source locale for catalogs.
const BaseLocale = "en-US"

type catalogFile struct {
	Locale    string            `yaml:"locale"`
	Namespace string            `yaml:"namespace"`
	Messages  map[string]string `yaml:"messages"`
}

type localeCatalog struct {
	namespaces map[string]map[string]string
	messages   map[string]string
}

// Bundle contains every locale catalog loaded from one filesystem.
type Bundle struct {
	locales map[string]*localeCatalog
}

//go:embed locales/*/*.yaml
var embeddedCatalogFS embed.FS

var defaultBundle = mustLoadAndRegisterEmbedded()

// Default returns the process-wide embedded catalog bundle.
func Default() *Bundle {
	return defaultBundle
}

// LoadEmbedded loads catalog files embedded in this package.
func LoadEmbedded() (*Bundle, error) {
	return LoadFromFS(embeddedCatalogFS)
}

// LoadFromFS loads locales/<locale>/<namespace>.yaml files from catalogFS.
func LoadFromFS(catalogFS fs.FS) (*Bundle, error) {
	paths, err := fs.Glob(catalogFS, "locales/*/*.yaml")
	if err != nil {
		return nil, fmt.Errorf("glob locale catalogs: %w", err)
	}
	if len(paths) == 0 {
		return nil, fmt.Errorf("no catalog files found")
	}
	sort.Strings(paths)

	bundle := &Bundle{locales: map[string]*localeCatalog{}}
	for _, p := range paths {
		data, err := fs.ReadFile(catalogFS, p)
		if err != nil {
			return nil, fmt.Errorf("read catalog %s: %w", p, err)
		}
		var file catalogFile
		if err := yaml.Unmarshal(data, &file); err != nil {
			return nil, fmt.Errorf("parse catalog %s: %w", p, err)
		}
		if err := bundle.add(p, file); err != nil {
			return nil, err
		}
	}
	if !bundle.HasLocale(BaseLocale) {
		return nil, fmt.Errorf("base locale %s is not defined in catalogs", BaseLocale)
	}
	return bundle, nil
}

func (b *Bundle) add(p string, file catalogFile) error {
	wantLocale := path.Base(path.Dir(p))
	wantNamespace := strings.TrimSuffix(path.Base(p), path.Ext(p))

	locale := strings.TrimSpace(file.Locale)
	if locale != wantLocale {
		return fmt.Errorf("catalog %s: locale %q must match path locale %q", p, locale, wantLocale)
	}
	if _, err := language.Parse(locale); err != nil {
		return fmt.Errorf("catalog %s: parse locale: %w", p, err)
	}
	namespace := strings.TrimSpace(file.Namespace)
	if namespace != wantNamespace {
		return fmt.Errorf("catalog %s: namespace %q must match filename %q", p, namespace, wantNamespace)
	}
	if len(file.Messages) == 0 {
		return fmt.Errorf("catalog %s: messages are required", p)
	}

	lc, ok := b.locales[locale]
	if !ok {
		lc = &localeCatalog{namespaces: map[string]map[string]string{}, messages: map[string]string{}}
		b.locales[locale] = lc
	}
	if _, exists := lc.namespaces[namespace]; exists {
		return fmt.Errorf("catalog %s: namespace %q already defined for %s", p, namespace, locale)
	}

	ns := make(map[string]string, len(file.Messages))
	for key, value := range file.Messages {
		key = strings.TrimSpace(key)
		if key == "" {
			return fmt.Errorf("catalog %s: message key cannot be blank", p)
		}
		if !strings.HasPrefix(key, namespace+".") {
			return fmt.Errorf("catalog %s: key %q must start with %q", p, key, namespace+".")
		}
		if _, exists := lc.messages[key]; exists {
			return fmt.Errorf("catalog %s: duplicate key %q in %s", p, key, locale)
		}
		lc.messages[key] = value
		ns[key] = value
	}
	lc.namespaces[namespace] = ns
	return nil
}

// Register installs every message with x/text/message. Locale messages are
// also registered under the bare language so "id" resolves like "id-ID".
// Base-locale keys missing from a translation are registered with the base
// text so a printer never renders the raw key.
func (b *Bundle) Register() error {
	if b == nil {
		return nil
	}
	base := b.LocaleMessages(BaseLocale)
	for _, locale := range b.Locales() {
		tag, err := language.Parse(locale)
		if err != nil {
			return fmt.Errorf("parse locale tag %q: %w", locale, err)
		}
		tags := []language.Tag{tag}
		if lang, _ := tag.Base(); lang.String() != "und" {
			if langTag, err := language.Parse(lang.String()); err == nil && langTag != tag {
				tags = append(tags, langTag)
			}
		}
		messages := b.LocaleMessages(locale)
		for key, value := range base {
			if _, ok := messages[key]; !ok {
				messages[key] = value
			}
		}
		for key, value := range messages {
			for _, t := range tags {
				if err := message.SetString(t, key, value); err != nil {
					return fmt.Errorf("register %s %q: %w", t, key, err)
				}
			}
		}
	}
	return nil
}

// HasLocale reports whether the locale exists in this bundle.
func (b *Bundle) HasLocale(locale string) bool {
	if b == nil {
		return false
	}
	_, ok := b.locales[strings.TrimSpace(locale)]
	return ok
}

// Locales returns all locale identifiers, sorted.
func (b *Bundle) Locales() []string {
	if b == nil {
		return nil
	}
	out := make([]string, 0, len(b.locales))
	for locale := range b.locales {
		out = append(out, locale)
	}
	sort.Strings(out)
	return out
}

// LocaleMessages returns a copy of one locale's messages without fallback.
func (b *Bundle) LocaleMessages(locale string) map[string]string {
	out := map[string]string{}
	if b == nil {
		return out
	}
	lc, ok := b.locales[strings.TrimSpace(locale)]
	if !ok {
		return out
	}
	for key, value := range lc.messages {
		out[key] = value
	}
	return out
}

// Message returns one message with base-locale fallback.
func (b *Bundle) Message(locale, key string) (string, bool) {
	if b == nil {
		return "", false
	}
	key = strings.TrimSpace(key)
	if lc, ok := b.locales[strings.TrimSpace(locale)]; ok {
		if value, ok := lc.messages[key]; ok {
			return value, true
		}
	}
	if lc, ok := b.locales[BaseLocale]; ok {
		value, ok := lc.messages[key]
		return value, ok
	}
	return "", false
}

// Namespaces returns the sorted namespace names defined for a locale.
func (b *Bundle) Namespaces(locale string) []string {
	if b == nil {
		return nil
	}
	lc, ok := b.locales[strings.TrimSpace(locale)]
	if !ok {
		return nil
	}
	out := make([]string, 0, len(lc.namespaces))
	for ns := range lc.namespaces {
		out = append(out, ns)
	}
	sort.Strings(out)
	return out
}

// MissingKeys lists base-locale keys that locale does not translate.
func (b *Bundle) MissingKeys(locale string) []string {
	translated := b.LocaleMessages(locale)
	var missing []string
	for key := range b.LocaleMessages(BaseLocale) {
		if _, ok := translated[key]; !ok {
			missing = append(missing, key)
		}
	}
	sort.Strings(missing)
	return missing
}

func mustLoadAndRegisterEmbedded() *Bundle {
	bundle, err := LoadEmbedded()
	if err != nil {
		panic(err)
	}
	if err := bundle.Register(); err != nil {
		panic(err)
	}
	return bundle
}
