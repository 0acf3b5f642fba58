package generate

import (
	"regexp"
	"testing"
)

func TestSlug(t *testing.T) {
	tests := []struct {
		in   string
		want string
	}{
		{"Villa Marina", "villa-marina"},
		{"Villa luxueuse avec piscine - Dubai Marina", "villa-luxueuse-avec-piscine-du"},
		{"  Penthouse!!!  DIFC  ", "penthouse-difc"},
		{"APPARTEMENT 3 CHAMBRES", "appartement-3-chambres"},
		{"éàü", "annonce"},
		{"", "annonce"},
		{"----", "annonce"},
	}

	for _, tt := range tests {
		if got := Slug(tt.in); got != tt.want {
			t.Errorf("Slug(%q) = %q, want %q", tt.in, got, tt.want)
		}
	}
}

func TestSlugShape(t *testing.T) {
	shape := regexp.MustCompile(`^[a-z0-9]+(-[a-z0-9]+)*$`)
	inputs := []string{
		"Villa Marina",
		"A very very very long listing title that should be truncated somewhere",
		"!!!???",
		"Tour 101 – Downtown",
	}
	for _, in := range inputs {
		got := Slug(in)
		if !shape.MatchString(got) {
			t.Errorf("Slug(%q) = %q: invalid characters or hyphen placement", in, got)
		}
		if len(got) > 30 {
			t.Errorf("Slug(%q) = %q: length %d exceeds 30", in, got, len(got))
		}
	}
}
