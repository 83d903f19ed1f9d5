package dispatch

import (
	"html"
	"strings"

	"github.com/microcosm-cc/bluemonday"
)

// stripPolicy removes every HTML element; only text content survives.
var stripPolicy = bluemonday.StrictPolicy()

// sanitize strips markup from user-supplied message text before it is
// stored. Entities introduced by the sanitizer are decoded again so plain
// text like "R&D" round-trips unchanged.
func sanitize(s string) string {
	return strings.TrimSpace(html.UnescapeString(stripPolicy.Sanitize(s)))
}
