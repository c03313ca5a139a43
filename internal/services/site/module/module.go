// Package module defines the feature contract used by site composition.
package module

import "net/http"

// Mount describes a module route mount.
type Mount struct {
	Prefix  string
	Handler http.Handler
	// Paths lists exact routes when the module does not own its whole prefix.
	Paths []string
}

// Module declares the minimum contract required by site composition.
type Module interface {
	ID() string
	Mount() (Mount, error)
}
