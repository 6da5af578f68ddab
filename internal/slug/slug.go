// Package slug provides URL-friendly slug generation from arbitrary strings.
package slug

import (
	"regexp"
	"strconv"
	"strings"
	"time"
)

var (
	nonAlphanumeric = regexp.MustCompile(`[^a-z0-9\s-]`)
	multipleHyphens = regexp.MustCompile(`-{2,}`)
)

// Make creates a URL-friendly slug from the given string.
// Example: "Hello, World! 2026" -> "hello-world-2026"
func Make(s string) string {
	result := strings.ToLower(strings.TrimSpace(s))
	result = nonAlphanumeric.ReplaceAllString(result, "")
	result = strings.ReplaceAll(result, " ", "-")
	result = multipleHyphens.ReplaceAllString(result, "-")
	result = strings.Trim(result, "-")
	return result
}

// WithTimestamp appends a unix-millisecond suffix so repeated requests for
// the same title yield distinct slugs. An empty or unusable title falls back
// to "portfolio".
func WithTimestamp(title string, now time.Time) string {
	base := Make(title)
	if base == "" {
		base = "portfolio"
	}
	return base + "-" + strconv.FormatInt(now.UnixMilli(), 10)
}
