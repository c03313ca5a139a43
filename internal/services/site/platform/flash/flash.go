// Package flash provides one-time notices persisted across redirects.
package flash

import (
	"encoding/base64"
	"encoding/json"
	"net/http"
	"strings"

	"github.com/s2design/site/internal/services/site/platform/requestmeta"
)

// CookieName is the cookie used for one-time notices.
const CookieName = "s2_flash"

const maxDetailLength = 240

// Kind classifies notice presentation.
type Kind string

const (
	KindSuccess Kind = "success"
	KindInfo    Kind = "info"
	KindWarning Kind = "warning"
	KindError   Kind = "error"
)

// Notice references a catalog message. Detail carries optional raw text,
// such as a backend error, shown under the localized message.
type Notice struct {
	Kind   Kind   `json:"kind"`
	Key    string `json:"key"`
	Detail string `json:"detail,omitempty"`
}

// Success creates a success notice for a catalog key.
func Success(key string) Notice {
	return Notice{Kind: KindSuccess, Key: key}
}

// Failure creates an error notice with optional detail.
func Failure(key string, detail string) Notice {
	return Notice{Kind: KindError, Key: key, Detail: detail}
}

// Writer stores and clears notices under one scheme policy.
type Writer struct {
	Policy requestmeta.SchemePolicy
}

// Write stores a notice cookie for the next page render.
func (f Writer) Write(w http.ResponseWriter, r *http.Request, notice Notice) {
	if w == nil {
		return
	}
	normalized, ok := normalize(notice)
	if !ok {
		return
	}
	payload, err := json.Marshal(normalized)
	if err != nil {
		return
	}
	http.SetCookie(w, f.cookie(r, base64.RawURLEncoding.EncodeToString(payload), 0))
}

// ReadAndClear reads the notice cookie and expires it.
func (f Writer) ReadAndClear(w http.ResponseWriter, r *http.Request) (Notice, bool) {
	if r == nil {
		return Notice{}, false
	}
	cookie, err := r.Cookie(CookieName)
	if err != nil {
		return Notice{}, false
	}
	if w != nil {
		http.SetCookie(w, f.cookie(r, "", -1))
	}
	return decode(cookie.Value)
}

func (f Writer) cookie(r *http.Request, value string, maxAge int) *http.Cookie {
	return &http.Cookie{
		Name:     CookieName,
		Value:    value,
		Path:     "/",
		HttpOnly: true,
		Secure:   requestmeta.IsHTTPS(r, f.Policy),
		SameSite: http.SameSiteLaxMode,
		MaxAge:   maxAge,
	}
}

func decode(raw string) (Notice, bool) {
	decoded, err := base64.RawURLEncoding.DecodeString(strings.TrimSpace(raw))
	if err != nil || len(decoded) == 0 {
		return Notice{}, false
	}
	var notice Notice
	if err := json.Unmarshal(decoded, &notice); err != nil {
		return Notice{}, false
	}
	return normalize(notice)
}

func normalize(notice Notice) (Notice, bool) {
	notice.Key = strings.TrimSpace(notice.Key)
	if notice.Key == "" {
		return Notice{}, false
	}
	notice.Detail = strings.TrimSpace(notice.Detail)
	if len(notice.Detail) > maxDetailLength {
		notice.Detail = notice.Detail[:maxDetailLength]
	}
	notice.Kind = Kind(strings.ToLower(strings.TrimSpace(string(notice.Kind))))
	switch notice.Kind {
	case KindSuccess, KindInfo, KindWarning, KindError:
		return notice, true
	default:
		return Notice{}, false
	}
}
