// Package cellkind decides how a grid cell's string value is presented:
// as an inline image, as a link that opens in the external browser, or as
// plain text. Classification never changes the value itself.
package cellkind

import (
	"path"
	"regexp"
	"strings"
)

// Kind is the presentation class of a cell value.
type Kind int

const (
	// Plain values render verbatim.
	Plain Kind = iota
	// Link values are http(s) URLs that open in the default browser.
	Link
	// Image values are http(s) URLs to an image file; they render as a
	// thumbnail with the URL as a tooltip.
	Image
)

func (k Kind) String() string {
	switch k {
	case Link:
		return "link"
	case Image:
		return "image"
	default:
		return "plain"
	}
}

// IsActivatable reports whether clicking a cell of this kind is consumed by
// the cell content instead of reaching grid selection.
func (k Kind) IsActivatable() bool {
	return k == Link || k == Image
}

// URL schemes match case-insensitively in both patterns.
var (
	urlPattern   = regexp.MustCompile(`(?i)^https?://[^\s/?#]+[^\s]*$`)
	imagePattern = regexp.MustCompile(`(?i)^https?://[^\s/?#]+/[^\s?#]*\.(png|jpe?g|gif|webp|svg|bmp|ico|tiff?)(\?[^\s#]*)?$`)
)

// Classify returns the presentation kind of s. It is a pure function of s.
func Classify(s string) Kind {
	switch {
	case imagePattern.MatchString(s):
		return Image
	case urlPattern.MatchString(s):
		return Link
	default:
		return Plain
	}
}

// Label returns the short text shown in a terminal cell for s.
// Images show a marker and the file name; links and plain values are shown
// as-is.
func Label(s string, k Kind) string {
	if k != Image {
		return s
	}
	p := s
	if i := strings.IndexByte(p, '?'); i >= 0 {
		p = p[:i]
	}
	return "▣ " + path.Base(p)
}
