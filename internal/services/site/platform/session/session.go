// Package session seals the admin's backend token into a signed cookie.
package session

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"strings"
	"time"

	"github.com/golang-jwt/jwt/v5"
	"github.com/s2design/site/internal/services/site/platform/requestmeta"
)

// CookieName is the admin session cookie.
const CookieName = "s2_session"

const issuer = "s2-site"

// DefaultTTL applies when the backend token has no exp claim.
const DefaultTTL = 12 * time.Hour

var (
	// ErrNoSession reports a missing or unusable session cookie.
	ErrNoSession = errors.New("no session")
	// ErrExpired reports a backend token that is already past its exp.
	ErrExpired = errors.New("backend token expired")
)

// Session is the signed-in admin as seen by handlers.
type Session struct {
	Token     string
	UserID    string
	Username  string
	Email     string
	ExpiresAt time.Time
}

// DisplayName returns the greeting name with an "Admin" fallback.
func (s Session) DisplayName() string {
	if name := strings.TrimSpace(s.Username); name != "" {
		return name
	}
	return "Admin"
}

// Claims is the cookie payload.
type Claims struct {
	jwt.RegisteredClaims
	Token    string `json:"tok"`
	Username string `json:"usr,omitempty"`
	Email    string `json:"eml,omitempty"`
}

// Manager issues, reads and clears session cookies.
type Manager struct {
	secret []byte
	ttl    time.Duration
	policy requestmeta.SchemePolicy
	now    func() time.Time
}

// NewManager builds a Manager. The secret must be at least 32 bytes.
func NewManager(secret string, ttl time.Duration, policy requestmeta.SchemePolicy) (*Manager, error) {
	if len(secret) < 32 {
		return nil, fmt.Errorf("session secret must be at least 32 bytes")
	}
	if ttl <= 0 {
		ttl = DefaultTTL
	}
	return &Manager{secret: []byte(secret), ttl: ttl, policy: policy, now: time.Now}, nil
}

// Issue writes a session cookie for a freshly logged-in user.
func (m *Manager) Issue(w http.ResponseWriter, r *http.Request, s Session) (Session, error) {
	token := strings.TrimSpace(s.Token)
	if token == "" {
		return Session{}, fmt.Errorf("backend token is required")
	}
	now := m.now().UTC()
	expires := now.Add(m.ttl)
	if exp, ok := BackendTokenExpiry(token); ok {
		if !exp.After(now) {
			return Session{}, ErrExpired
		}
		expires = exp
	}
	s.Token = token
	s.ExpiresAt = expires

	claims := Claims{
		RegisteredClaims: jwt.RegisteredClaims{
			Issuer:    issuer,
			Subject:   s.UserID,
			IssuedAt:  jwt.NewNumericDate(now),
			ExpiresAt: jwt.NewNumericDate(expires),
		},
		Token:    token,
		Username: s.Username,
		Email:    s.Email,
	}
	signed, err := jwt.NewWithClaims(jwt.SigningMethodHS256, claims).SignedString(m.secret)
	if err != nil {
		return Session{}, fmt.Errorf("sign session: %w", err)
	}
	http.SetCookie(w, &http.Cookie{
		Name:     CookieName,
		Value:    signed,
		Path:     "/admin",
		Expires:  expires,
		HttpOnly: true,
		Secure:   requestmeta.IsHTTPS(r, m.policy),
		SameSite: http.SameSiteLaxMode,
	})
	return s, nil
}

// Read verifies the session cookie on r.
func (m *Manager) Read(r *http.Request) (Session, error) {
	if r == nil {
		return Session{}, ErrNoSession
	}
	cookie, err := r.Cookie(CookieName)
	if err != nil || strings.TrimSpace(cookie.Value) == "" {
		return Session{}, ErrNoSession
	}
	return m.Verify(cookie.Value)
}

// Verify checks a signed session value and returns its session.
func (m *Manager) Verify(raw string) (Session, error) {
	claims := &Claims{}
	_, err := jwt.ParseWithClaims(raw, claims, func(*jwt.Token) (any, error) {
		return m.secret, nil
	},
		jwt.WithValidMethods([]string{jwt.SigningMethodHS256.Alg()}),
		jwt.WithIssuer(issuer),
		jwt.WithExpirationRequired(),
		jwt.WithTimeFunc(m.now),
	)
	if err != nil {
		return Session{}, fmt.Errorf("%w: %v", ErrNoSession, err)
	}
	if strings.TrimSpace(claims.Token) == "" {
		return Session{}, ErrNoSession
	}
	return Session{
		Token:     claims.Token,
		UserID:    claims.Subject,
		Username:  claims.Username,
		Email:     claims.Email,
		ExpiresAt: claims.ExpiresAt.Time,
	}, nil
}

// Clear expires the session cookie.
func (m *Manager) Clear(w http.ResponseWriter, r *http.Request) {
	http.SetCookie(w, &http.Cookie{
		Name:     CookieName,
		Value:    "",
		Path:     "/admin",
		MaxAge:   -1,
		HttpOnly: true,
		Secure:   requestmeta.IsHTTPS(r, m.policy),
		SameSite: http.SameSiteLaxMode,
	})
}

// HasCookie reports whether r carries a session cookie, valid or not.
func HasCookie(r *http.Request) bool {
	if r == nil {
		return false
	}
	cookie, err := r.Cookie(CookieName)
	return err == nil && strings.TrimSpace(cookie.Value) != ""
}

// BackendTokenExpiry reads the exp claim of a backend JWT without verifying
// it. Opaque tokens report false.
func BackendTokenExpiry(token string) (time.Time, bool) {
	claims := jwt.MapClaims{}
	if _, _, err := jwt.NewParser().ParseUnverified(token, claims); err != nil {
		return time.Time{}, false
	}
	exp, err := claims.GetExpirationTime()
	if err != nil || exp == nil {
		return time.Time{}, false
	}
	return exp.Time, true
}

// Inspect decodes any JWT without verifying its signature.
func Inspect(raw string) (map[string]any, string, error) {
	claims := jwt.MapClaims{}
	token, _, err := jwt.NewParser().ParseUnverified(strings.TrimSpace(raw), claims)
	if err != nil {
		return nil, "", fmt.Errorf("decode token: %w", err)
	}
	return claims, token.Method.Alg(), nil
}

type sessionKey struct{}

// WithSession stores s in ctx.
func WithSession(ctx context.Context, s Session) context.Context {
	return context.WithValue(ctx, sessionKey{}, s)
}

// FromContext returns the session stored by WithSession.
func FromContext(ctx context.Context) (Session, bool) {
	if ctx == nil {
		return Session{}, false
	}
	s, ok := ctx.Value(sessionKey{}).(Session)
	return s, ok
}
