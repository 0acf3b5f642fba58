package render

import (
	"image"
	"image/color"
	"strings"

	"golang.org/x/image/font"
	"golang.org/x/image/math/fixed"
)

// drawString draws text at the given baseline position.
func drawString(dst *image.RGBA, face font.Face, text string, x, y int, col color.Color) {
	d := &font.Drawer{
		Dst:  dst,
		Src:  image.NewUniform(col),
		Face: face,
		Dot:  fixed.P(x, y),
	}
	d.DrawString(text)
}

// measure returns the advance width of text in pixels.
func measure(face font.Face, text string) int {
	return font.MeasureString(face, text).Ceil()
}

// wrapText breaks text into lines that each fit within maxWidth pixels,
// using the face's measured advances. At most maxLines lines are returned;
// when the text does not fit, the last line is truncated with an ellipsis.
func wrapText(text string, maxWidth int, face font.Face, maxLines int) []string {
	words := strings.Fields(text)
	if len(words) == 0 || maxWidth <= 0 || maxLines <= 0 {
		return nil
	}

	var lines []string
	current := words[0]
	for _, word := range words[1:] {
		test := current + " " + word
		if measure(face, test) > maxWidth {
			lines = append(lines, current)
			current = word
		} else {
			current = test
		}
	}
	lines = append(lines, current)

	if len(lines) <= maxLines {
		return lines
	}

	lines = lines[:maxLines]
	lines[maxLines-1] = truncate(lines[maxLines-1], maxWidth, face)
	return lines
}

// truncate shortens line so that line+"…" fits within maxWidth.
func truncate(line string, maxWidth int, face font.Face) string {
	const ellipsis = "…"
	if measure(face, line+ellipsis) <= maxWidth {
		return line + ellipsis
	}

	runes := []rune(line)
	for len(runes) > 0 {
		runes = runes[:len(runes)-1]
		candidate := strings.TrimRight(string(runes), " ")
		if measure(face, candidate+ellipsis) <= maxWidth {
			return candidate + ellipsis
		}
	}
	return ellipsis
}
