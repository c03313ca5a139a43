package errors

import (
	stderrors "errors"
	"fmt"
	"net/http"
	"testing"
)

func TestHTTPStatus(t *testing.T) {
	tests := []struct {
		name string
		err  error
		want int
	}{
		{name: "nil", err: nil, want: http.StatusOK},
		{name: "invalid", err: E(KindInvalidInput, "bad"), want: http.StatusBadRequest},
		{name: "unauthorized", err: E(KindUnauthorized, "no"), want: http.StatusUnauthorized},
		{name: "forbidden", err: E(KindForbidden, "no"), want: http.StatusForbidden},
		{name: "unavailable", err: E(KindUnavailable, "down"), want: http.StatusServiceUnavailable},
		{name: "not found", err: E(KindNotFound, "missing"), want: http.StatusNotFound},
		{name: "conflict", err: E(KindConflict, "dup"), want: http.StatusConflict},
		{name: "wrapped", err: fmt.Errorf("load: %w", E(KindNotFound, "missing")), want: http.StatusNotFound},
		{name: "plain", err: stderrors.New("boom"), want: http.StatusInternalServerError},
	}
	for _, tc := range tests {
		t.Run(tc.name, func(t *testing.T) {
			if got := HTTPStatus(tc.err); got != tc.want {
				t.Fatalf("HTTPStatus() = %d, want %d", got, tc.want)
			}
		})
	}
}

func TestLocalizationKey(t *testing.T) {
	err := fmt.Errorf("wrap: %w", EK(KindInvalidInput, " errors.required ", "name required"))
	if got := LocalizationKey(err); got != "errors.required" {
		t.Fatalf("LocalizationKey() = %q", got)
	}
	if got := LocalizationKey(stderrors.New("plain")); got != "" {
		t.Fatalf("LocalizationKey(plain) = %q", got)
	}
}

func TestWrapKeepsCause(t *testing.T) {
	cause := stderrors.New("dial tcp: refused")
	err := Wrap(KindUnavailable, "errors.unavailable", cause)
	if !stderrors.Is(err, cause) {
		t.Fatal("expected cause in chain")
	}
	if !Is(err, KindUnavailable) {
		t.Fatalf("KindOf() = %q", KindOf(err))
	}
	if err.Error() != cause.Error() {
		t.Fatalf("Error() = %q", err.Error())
	}
	if Wrap(KindUnknown, "", nil) != nil {
		t.Fatal("Wrap(nil) should be nil")
	}
}
