// Package static embeds the site stylesheet, script and logo.
package static

import "embed"

// FS exposes site static assets for HTTP serving.
//
//go:embed *.css *.js *.svg
var FS embed.FS
