package format

import _ "embed"

// Placeholder screenshot for slots saved without one.
//
//go:embed default.png
var defaultImage []byte

// DefaultImage returns a copy of the placeholder screenshot.
func DefaultImage() []byte {
	return append([]byte(nil), defaultImage...)
}
