// Package app composes site modules into one root handler.
package app

import (
	"errors"
	"fmt"
	"net/http"
	"strings"

	"github.com/s2design/site/internal/services/site/module"
	"github.com/s2design/site/internal/services/site/platform/flash"
	"github.com/s2design/site/internal/services/site/platform/httpx"
	"github.com/s2design/site/internal/services/site/platform/requestmeta"
	"github.com/s2design/site/internal/services/site/platform/session"
	"github.com/s2design/site/internal/services/site/routepath"
	"go.uber.org/zap"
)

// KeySessionExpired is flashed when a stale session cookie is rejected.
const KeySessionExpired = "errors.session_expired"

// ComposeInput carries module groups and shared composition contracts.
type ComposeInput struct {
	PublicModules       []module.Module
	ProtectedModules    []module.Module
	Sessions            *session.Manager
	Flash               flash.Writer
	RequestSchemePolicy requestmeta.SchemePolicy
	Logger              *zap.Logger
}

// Composer wires root mux mounts and route-group auth behavior.
type Composer struct{}

// Compose builds a root HTTP handler from module groups.
func (Composer) Compose(input ComposeInput) (http.Handler, error) {
	if len(input.ProtectedModules) > 0 && input.Sessions == nil {
		return nil, errors.New("session manager is required for protected modules")
	}
	if input.Logger == nil {
		input.Logger = zap.NewNop()
	}
	root := http.NewServeMux()
	seen := make(map[string]string)
	sameOrigin := requireCookieSessionSameOrigin(input.RequestSchemePolicy)

	for _, feature := range input.PublicModules {
		if feature == nil {
			return nil, fmt.Errorf("public module is nil")
		}
		if err := mountPublicModule(root, feature, seen, sameOrigin); err != nil {
			return nil, err
		}
	}

	protect := func(next http.Handler) http.Handler {
		return requireAuth(input.Sessions, input.Flash, input.Logger)(sameOrigin(next))
	}
	for _, feature := range input.ProtectedModules {
		if feature == nil {
			return nil, fmt.Errorf("protected module is nil")
		}
		if err := mountProtectedModule(root, feature, seen, protect); err != nil {
			return nil, err
		}
	}
	return root, nil
}

func mountModule(root *http.ServeMux, feature module.Module, pattern string, handler http.Handler, seen map[string]string) error {
	if previous, ok := seen[pattern]; ok {
		return fmt.Errorf("module %q duplicates route %q owned by module %q", feature.ID(), pattern, previous)
	}
	seen[pattern] = feature.ID()
	root.Handle(pattern, handler)
	return nil
}

// mountPublicModule registers a public module. A public module may only
// reach into the admin prefix through exact paths, which still get the
// same-origin guard.
func mountPublicModule(root *http.ServeMux, feature module.Module, seen map[string]string, sameOrigin func(http.Handler) http.Handler) error {
	mount, prefix, err := resolveMount(feature)
	if err != nil {
		return err
	}
	if len(mount.Paths) == 0 {
		if isProtectedPrefix(prefix) {
			return fmt.Errorf("module %q has protected prefix %q in public group", feature.ID(), prefix)
		}
		return mountModule(root, feature, prefix, mount.Handler, seen)
	}
	handler := mount.Handler
	if isProtectedPrefix(prefix) {
		handler = sameOrigin(handler)
	}
	for _, path := range mount.Paths {
		path = strings.TrimSpace(path)
		if !strings.HasPrefix(path, prefix) || path == prefix {
			return fmt.Errorf("module %q path %q is outside prefix %q", feature.ID(), path, prefix)
		}
		if err := mountModule(root, feature, path, handler, seen); err != nil {
			return err
		}
	}
	return nil
}

func mountProtectedModule(root *http.ServeMux, feature module.Module, seen map[string]string, wrap func(http.Handler) http.Handler) error {
	mount, prefix, err := resolveMount(feature)
	if err != nil {
		return err
	}
	if !isProtectedPrefix(prefix) {
		return fmt.Errorf("module %q must mount under %s, got %q", feature.ID(), routepath.AdminPrefix, prefix)
	}
	if len(mount.Paths) > 0 {
		return fmt.Errorf("module %q: protected modules own their whole prefix", feature.ID())
	}
	return mountModule(root, feature, prefix, wrap(mount.Handler), seen)
}

func isProtectedPrefix(prefix string) bool {
	return strings.HasPrefix(prefix, routepath.AdminPrefix)
}

func resolveMount(feature module.Module) (module.Mount, string, error) {
	mount, err := feature.Mount()
	if err != nil {
		return module.Mount{}, "", fmt.Errorf("mount module %q: %w", feature.ID(), err)
	}
	prefix, err := validatePrefix(mount.Prefix)
	if err != nil {
		return module.Mount{}, "", fmt.Errorf("mount module %q: %w", feature.ID(), err)
	}
	if mount.Handler == nil {
		return module.Mount{}, "", fmt.Errorf("mount module %q: handler is required", feature.ID())
	}
	return mount, prefix, nil
}

func validatePrefix(prefix string) (string, error) {
	prefix = strings.TrimSpace(prefix)
	if prefix == "" {
		return "", errors.New("prefix is required")
	}
	if !strings.HasPrefix(prefix, "/") || !strings.HasSuffix(prefix, "/") {
		return "", fmt.Errorf("prefix %q must start and end with /", prefix)
	}
	return prefix, nil
}

// requireAuth lets signed-in requests through with their session in
// context and sends everyone else to the login page.
func requireAuth(sessions *session.Manager, notices flash.Writer, logger *zap.Logger) func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		if next == nil {
			return http.NotFoundHandler()
		}
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			current, err := sessions.Read(r)
			if err != nil {
				if session.HasCookie(r) {
					logger.Info("rejecting admin session", zap.String("path", r.URL.Path), zap.Error(err))
					sessions.Clear(w, r)
					notices.Write(w, r, flash.Failure(KeySessionExpired, ""))
				}
				httpx.WriteRedirect(w, r, routepath.AdminLoginNext(loginNext(r)))
				return
			}
			next.ServeHTTP(w, r.WithContext(session.WithSession(r.Context(), current)))
		})
	}
}

// loginNext picks where login should return to. Only GET requests can be
// replayed.
func loginNext(r *http.Request) string {
	if r.Method != http.MethodGet {
		return routepath.AdminDashboard
	}
	return r.URL.RequestURI()
}

func requireCookieSessionSameOrigin(policy requestmeta.SchemePolicy) func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		if next == nil {
			next = http.NotFoundHandler()
		}
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			if !isMutationMethod(r) || !session.HasCookie(r) {
				next.ServeHTTP(w, r)
				return
			}
			if !requestmeta.HasSameOriginProof(r, policy) {
				http.Error(w, http.StatusText(http.StatusForbidden), http.StatusForbidden)
				return
			}
			next.ServeHTTP(w, r)
		})
	}
}

func isMutationMethod(r *http.Request) bool {
	if r == nil {
		return false
	}
	switch r.Method {
	case http.MethodPost, http.MethodPut, http.MethodPatch, http.MethodDelete:
		return true
	default:
		return false
	}
}
