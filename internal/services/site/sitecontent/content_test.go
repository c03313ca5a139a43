package sitecontent

import (
	"context"
	"os"
	"path/filepath"
	"strings"
	"testing"
	"time"

	"go.uber.org/goleak"
	"go.uber.org/zap"
	"go.uber.org/zap/zaptest/observer"
)

func TestDefaultCopy(t *testing.T) {
	content := Default()
	if content.Brand.Name != "S2 Design Interior" {
		t.Fatalf("brand = %q", content.Brand.Name)
	}
	if got := content.Hero.Title + " " + content.Hero.Accent; got != "Transform Your Space Into Art" {
		t.Fatalf("hero = %q", got)
	}
	if len(content.Services.Items) != 4 {
		t.Fatalf("services = %d", len(content.Services.Items))
	}
	if len(content.About.Workshops.Items) != 2 {
		t.Fatalf("workshops = %d", len(content.About.Workshops.Items))
	}
	whatsapp, ok := content.Method("whatsapp")
	if !ok || whatsapp.Link != "https://wa.me/6281365368638" || whatsapp.Details != "0813-6536-8638" {
		t.Fatalf("whatsapp = %#v", whatsapp)
	}
	visit, _ := content.Method("visit")
	if visit.Link != "https://maps.app.goo.gl/Tk6vn5GnxHzmtpVG7" {
		t.Fatalf("maps = %q", visit.Link)
	}
	email, _ := content.Method("email")
	if email.Details != "s2dinteriordesign@gmail.com" {
		t.Fatalf("email = %q", email.Details)
	}
}

func TestParseRejectsUnknownFields(t *testing.T) {
	_, err := Parse([]byte("brand:\n  name: X\n  colour: red\n"))
	if err == nil || !strings.Contains(err.Error(), "colour") {
		t.Fatalf("err = %v", err)
	}
}

func TestParseRejectsEmptyAndIncomplete(t *testing.T) {
	if _, err := Parse(nil); err == nil {
		t.Fatal("expected empty document to fail")
	}
	_, err := Parse([]byte("brand:\n  name: X\n"))
	if err == nil || !strings.Contains(err.Error(), "hero.title") {
		t.Fatalf("err = %v", err)
	}
}

func TestNewStoreFailsOnInvalidOverride(t *testing.T) {
	path := filepath.Join(t.TempDir(), "content.yaml")
	writeFile(t, path, "brand: [")
	if _, err := NewStore(path, nil); err == nil {
		t.Fatal("expected invalid override to fail")
	}
}

func TestStoreReloadKeepsLastGoodCopy(t *testing.T) {
	path := filepath.Join(t.TempDir(), "content.yaml")
	writeFile(t, path, withHeroTitle("First Title"))

	core, logs := observer.New(zap.WarnLevel)
	store, err := NewStore(path, zap.New(core))
	if err != nil {
		t.Fatalf("NewStore: %v", err)
	}
	if store.Current().Hero.Title != "First Title" {
		t.Fatalf("title = %q", store.Current().Hero.Title)
	}

	writeFile(t, path, "hero: {")
	if err := store.Reload(); err == nil {
		t.Fatal("expected reload error")
	}
	if store.Current().Hero.Title != "First Title" {
		t.Fatalf("title after bad reload = %q", store.Current().Hero.Title)
	}
	if logs.FilterMessage("site content reload failed, keeping previous copy").Len() != 1 {
		t.Fatal("expected reload failure to be logged")
	}
}

func TestWatchReloadsOverride(t *testing.T) {
	defer goleak.VerifyNone(t, goleak.IgnoreCurrent())

	path := filepath.Join(t.TempDir(), "content.yaml")
	writeFile(t, path, withHeroTitle("Before"))
	store, err := NewStore(path, nil)
	if err != nil {
		t.Fatalf("NewStore: %v", err)
	}

	ctx, cancel := context.WithCancel(context.Background())
	done := make(chan error, 1)
	go func() { done <- store.Watch(ctx) }()

	// Give the watcher time to register before the first edit.
	time.Sleep(100 * time.Millisecond)
	writeFile(t, path, withHeroTitle("After"))
	waitFor(t, func() bool { return store.Current().Hero.Title == "After" })

	writeFile(t, path, "hero: [")
	time.Sleep(3 * reloadDebounce)
	if got := store.Current().Hero.Title; got != "After" {
		t.Fatalf("title after invalid edit = %q", got)
	}

	cancel()
	select {
	case err := <-done:
		if err != nil {
			t.Fatalf("Watch: %v", err)
		}
	case <-time.After(2 * time.Second):
		t.Fatal("watcher did not stop")
	}
}

func TestWatchWithoutOverrideBlocksUntilCancel(t *testing.T) {
	defer goleak.VerifyNone(t, goleak.IgnoreCurrent())

	store, err := NewStore("", nil)
	if err != nil {
		t.Fatalf("NewStore: %v", err)
	}
	ctx, cancel := context.WithCancel(context.Background())
	done := make(chan error, 1)
	go func() { done <- store.Watch(ctx) }()
	cancel()
	if err := <-done; err != nil {
		t.Fatalf("Watch: %v", err)
	}
}

func withHeroTitle(title string) string {
	return strings.Replace(string(defaultYAML), "title: Transform Your Space Into", "title: "+title, 1)
}

func writeFile(t *testing.T, path, body string) {
	t.Helper()
	if err := os.WriteFile(path, []byte(body), 0o600); err != nil {
		t.Fatalf("write %s: %v", path, err)
	}
}

func waitFor(t *testing.T, cond func() bool) {
	t.Helper()
	deadline := time.Now().Add(3 * time.Second)
	for time.Now().Before(deadline) {
		if cond() {
			return
		}
		time.Sleep(20 * time.Millisecond)
	}
	t.Fatal("condition not met before deadline")
}
