// Package property defines the listing data model shared across the ad
// generation pipeline.
package property

// PropertyData is one real-estate listing as extracted by the upstream
// notification parser. Every field is already-normalized display text;
// the engine never re-parses or re-formats it.
type PropertyData struct {
	Title            string `json:"title"`
	Price            string `json:"price"`    // pre-formatted, currency-tagged ("2,500,000 AED")
	Location         string `json:"location"` // area name ("Dubai Marina")
	Type             string `json:"type"`     // "Villa", "Appartement", ...
	Surface          string `json:"surface"`  // numeric, unit-less
	FeaturedImageURL string `json:"featuredImage"`
	Permalink        string `json:"permalink"` // public listing URL, may be empty
}

// TextBlock holds up to three operator-supplied text lines for one format.
// Empty lines are simply not rendered; there is no placeholder fallback.
type TextBlock struct {
	Line1 string `json:"line1"`
	Line2 string `json:"line2"`
	Line3 string `json:"line3"`
}

// Lines returns the three lines in render order.
func (b TextBlock) Lines() [3]string {
	return [3]string{b.Line1, b.Line2, b.Line3}
}

// IsEmpty reports whether no line carries text.
func (b TextBlock) IsEmpty() bool {
	return b.Line1 == "" && b.Line2 == "" && b.Line3 == ""
}

// Format selects a target output aspect ratio.
type Format string

const (
	FormatSquare Format = "square" // 1080x1080
	FormatStory  Format = "story"  // 1080x1920
	FormatBoth   Format = "both"
)

// Valid reports whether f is a recognized format request.
func (f Format) Valid() bool {
	switch f {
	case FormatSquare, FormatStory, FormatBoth:
		return true
	}
	return false
}

// Each returns the concrete render formats requested by f.
func (f Format) Each() []Format {
	switch f {
	case FormatBoth:
		return []Format{FormatSquare, FormatStory}
	case FormatSquare, FormatStory:
		return []Format{f}
	}
	return nil
}

// GeneratedAd describes one successfully rendered and published ad.
// Immutable after creation; ownership passes to the caller.
type GeneratedAd struct {
	Format   Format `json:"format"`
	Width    int    `json:"width"`
	Height   int    `json:"height"`
	Filename string `json:"filename"`
	URL      string `json:"url"`
	Bytes    []byte `json:"-"`
}
