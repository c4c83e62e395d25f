package domain

import (
	"strings"
	"unicode"
)

// Slugify derives a URL-safe slug from a title: lowercase, alphanumeric runs
// joined by single hyphens. Admin create paths use it when no slug is supplied.
func Slugify(s string) string {
	var b strings.Builder
	lastHyphen := true // suppress a leading hyphen
	for _, r := range strings.ToLower(s) {
		switch {
		case unicode.IsLetter(r) || unicode.IsDigit(r):
			b.WriteRune(r)
			lastHyphen = false
		default:
			if !lastHyphen {
				b.WriteByte('-')
				lastHyphen = true
			}
		}
	}
	return strings.TrimSuffix(b.String(), "-")
}
