package catalog

import (
	"testing"
	"testing/fstest"

	"golang.org/x/text/language"
	"golang.org/x/text/message"
)

func TestLoadEmbeddedHasExpectedLocales(t *testing.T) {
	bundle, err := LoadEmbedded()
	if err != nil {
		t.Fatalf("load embedded catalogs: %v", err)
	}
	for _, locale := range []string{"en-US", "id-ID"} {
		if !bundle.HasLocale(locale) {
			t.Fatalf("expected locale %s", locale)
		}
	}
	if got := bundle.Namespaces(BaseLocale); len(got) == 0 {
		t.Fatal("expected en-US namespaces")
	}
}

func TestEmbeddedTranslationsAreComplete(t *testing.T) {
	bundle, err := LoadEmbedded()
	if err != nil {
		t.Fatalf("load embedded catalogs: %v", err)
	}
	if missing := bundle.MissingKeys("id-ID"); len(missing) > 0 {
		t.Fatalf("id-ID is missing keys: %v", missing)
	}
}

func TestLoadFromFSRejectsKeyOutsideNamespace(t *testing.T) {
	fsys := fstest.MapFS{
		"locales/en-US/core.yaml": {Data: []byte("locale: en-US\nnamespace: core\nmessages:\n  admin.title: nope\n")},
	}
	if _, err := LoadFromFS(fsys); err == nil {
		t.Fatal("expected namespace prefix error")
	}
}

func TestLoadFromFSRejectsLocaleMismatch(t *testing.T) {
	fsys := fstest.MapFS{
		"locales/en-US/core.yaml": {Data: []byte("locale: id-ID\nnamespace: core\nmessages:\n  core.ok: ok\n")},
	}
	if _, err := LoadFromFS(fsys); err == nil {
		t.Fatal("expected locale mismatch error")
	}
}

func TestLoadFromFSRequiresBaseLocale(t *testing.T) {
	fsys := fstest.MapFS{
		"locales/id-ID/core.yaml": {Data: []byte("locale: id-ID\nnamespace: core\nmessages:\n  core.ok: oke\n")},
	}
	if _, err := LoadFromFS(fsys); err == nil {
		t.Fatal("expected missing base locale error")
	}
}

func TestMessageFallsBackToBaseLocale(t *testing.T) {
	fsys := fstest.MapFS{
		"locales/en-US/core.yaml": {Data: []byte("locale: en-US\nnamespace: core\nmessages:\n  core.hello: Hello\n  core.bye: Bye\n")},
		"locales/id-ID/core.yaml": {Data: []byte("locale: id-ID\nnamespace: core\nmessages:\n  core.hello: Halo\n")},
	}
	bundle, err := LoadFromFS(fsys)
	if err != nil {
		t.Fatalf("load: %v", err)
	}
	if got, _ := bundle.Message("id-ID", "core.hello"); got != "Halo" {
		t.Fatalf("Message(id-ID, core.hello) = %q", got)
	}
	if got, _ := bundle.Message("id-ID", "core.bye"); got != "Bye" {
		t.Fatalf("Message(id-ID, core.bye) = %q, want base fallback", got)
	}
	if missing := bundle.MissingKeys("id-ID"); len(missing) != 1 || missing[0] != "core.bye" {
		t.Fatalf("MissingKeys = %v", missing)
	}
}

func TestDefaultRegistersPrinterMessages(t *testing.T) {
	Default()
	p := message.NewPrinter(language.MustParse("id-ID"))
	if got := p.Sprintf("core.site_name"); got == "core.site_name" {
		t.Fatalf("expected registered message for core.site_name, got raw key")
	}
}
