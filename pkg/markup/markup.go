// Package markup parses the inline highlight syntax used in operator text
// lines. A span wrapped in [[ ]] renders brand-red regardless of the line's
// default color; red:WORD is shorthand for the same thing scoped to a single
// token. Parsing never fails: malformed markup degrades to literal text.
package markup

import (
	"regexp"
	"strings"
)

// Color identifies one of the two brand text colors.
type Color int

const (
	BrandBlue Color = iota
	BrandRed
)

// String returns the config-facing name of the color.
func (c Color) String() string {
	if c == BrandRed {
		return "red"
	}
	return "blue"
}

// ParseColor maps a config value ("red", "blue") to a Color.
func ParseColor(name string) (Color, bool) {
	switch strings.ToLower(strings.TrimSpace(name)) {
	case "red":
		return BrandRed, true
	case "blue":
		return BrandBlue, true
	}
	return BrandBlue, false
}

// Run is a contiguous text span with a single assigned color.
type Run struct {
	Text  string
	Color Color
}

// redToken matches the red:WORD shorthand. Scope is a single token: the
// highlight stops at the first whitespace.
var redToken = regexp.MustCompile(`(?i)\bred:(\S+)`)

// ParseLine splits one text line into an ordered sequence of colored runs.
//
// The scan is left to right: text before the next [[ becomes a run in
// defaultColor, the enclosed span becomes a brand-red run. A [[ with no
// closing ]] is kept as literal text, and empty [[]] spans produce no run.
// Concatenating the returned run texts in order reconstructs the input with
// the markup delimiters stripped.
func ParseLine(raw string, defaultColor Color) []Run {
	if raw == "" {
		return nil
	}

	rest := redToken.ReplaceAllString(raw, "[[$1]]")

	var runs []Run
	for rest != "" {
		open := strings.Index(rest, "[[")
		if open < 0 {
			runs = append(runs, Run{Text: rest, Color: defaultColor})
			break
		}

		close := strings.Index(rest[open+2:], "]]")
		if close < 0 {
			// Dangling marker: the remainder, [[ included, is literal.
			runs = append(runs, Run{Text: rest, Color: defaultColor})
			break
		}

		if open > 0 {
			runs = append(runs, Run{Text: rest[:open], Color: defaultColor})
		}
		if inner := rest[open+2 : open+2+close]; inner != "" {
			runs = append(runs, Run{Text: inner, Color: BrandRed})
		}
		rest = rest[open+2+close+2:]
	}

	return runs
}

// Join concatenates the run texts in order.
func Join(runs []Run) string {
	var b strings.Builder
	for _, r := range runs {
		b.WriteString(r.Text)
	}
	return b.String()
}
