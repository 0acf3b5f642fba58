package generate

import "strings"

const slugMax = 30

// Slug derives the filename stem from a listing title: lowercased, every
// non-alphanumeric run collapsed to a single hyphen, trimmed, at most 30
// characters.
func Slug(title string) string {
	var b strings.Builder
	lastHyphen := false

	for _, r := range strings.ToLower(title) {
		switch {
		case r >= 'a' && r <= 'z', r >= '0' && r <= '9':
			b.WriteRune(r)
			lastHyphen = false
		default:
			if !lastHyphen {
				b.WriteByte('-')
				lastHyphen = true
			}
		}
	}

	s := b.String()
	if len(s) > slugMax {
		s = s[:slugMax]
	}
	s = strings.Trim(s, "-")
	if s == "" {
		s = "annonce"
	}
	return s
}
