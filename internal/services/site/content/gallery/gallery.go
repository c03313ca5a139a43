// Package gallery holds the index arithmetic shared by the lightbox viewers.
package gallery

// Wrap maps index into 0..n-1, wrapping in both directions. It returns 0 when
// n is not positive.
func Wrap(index, n int) int {
	if n <= 0 {
		return 0
	}
	index %= n
	if index < 0 {
		index += n
	}
	return index
}

// Prev returns the index before index.
func Prev(index, n int) int { return Wrap(index-1, n) }

// Next returns the index after index.
func Next(index, n int) int { return Wrap(index+1, n) }

// IsPortrait reports whether the aspect ratio is taller than wide.
func IsPortrait(width, height int) bool {
	return height > width
}

// Position is a 1-based "n of total" pair for captions.
type Position struct {
	Current int
	Total   int
}

// At returns the caption position for index.
func At(index, n int) Position {
	if n <= 0 {
		return Position{}
	}
	return Position{Current: Wrap(index, n) + 1, Total: n}
}
