package layout

import (
	"math"
	"testing"

	"github.com/dubaiimmo/adgen/pkg/markup"
	"github.com/dubaiimmo/adgen/pkg/property"
)

func TestForDimensions(t *testing.T) {
	tests := []struct {
		format property.Format
		w, h   int
	}{
		{property.FormatSquare, 1080, 1080},
		{property.FormatStory, 1080, 1920},
	}

	for _, tt := range tests {
		spec, err := For(tt.format)
		if err != nil {
			t.Fatalf("For(%s): %v", tt.format, err)
		}
		if spec.Width != tt.w || spec.Height != tt.h {
			t.Errorf("For(%s): canvas %dx%d, want %dx%d", tt.format, spec.Width, spec.Height, tt.w, tt.h)
		}

		bounds := func(name string, x0, y0, x1, y1 int) {
			if x0 < 0 || y0 < 0 || x1 > spec.Width || y1 > spec.Height {
				t.Errorf("For(%s): %s (%d,%d)-(%d,%d) outside canvas", tt.format, name, x0, y0, x1, y1)
			}
		}
		bounds("photo", spec.PhotoRect.Min.X, spec.PhotoRect.Min.Y, spec.PhotoRect.Max.X, spec.PhotoRect.Max.Y)
		bounds("caption", spec.CaptionRect.Min.X, spec.CaptionRect.Min.Y, spec.CaptionRect.Max.X, spec.CaptionRect.Max.Y)
		bounds("rule", spec.Rule.Rect.Min.X, spec.Rule.Rect.Min.Y, spec.Rule.Rect.Max.X, spec.Rule.Rect.Max.Y)
		bounds("badge", spec.BadgeRect.Min.X, spec.BadgeRect.Min.Y, spec.BadgeRect.Max.X, spec.BadgeRect.Max.Y)
		bounds("qr", spec.QRRect.Min.X, spec.QRRect.Min.Y, spec.QRRect.Max.X, spec.QRRect.Max.Y)

		if !spec.CaptionRect.In(spec.PhotoRect) {
			t.Errorf("For(%s): caption strip must sit over the photo", tt.format)
		}
	}
}

func TestForBaselinePitch(t *testing.T) {
	for _, f := range []property.Format{property.FormatSquare, property.FormatStory} {
		spec, err := For(f)
		if err != nil {
			t.Fatal(err)
		}
		for i := 1; i < len(spec.Baselines); i++ {
			pitch := spec.Baselines[i] - spec.Baselines[i-1]
			if float64(pitch) < spec.FontSize {
				t.Errorf("For(%s): baseline pitch %d too tight for %.0fpt text", f, pitch, spec.FontSize)
			}
		}
		if float64(spec.Baselines[0]) < float64(spec.PhotoRect.Max.Y)+spec.FontSize {
			t.Errorf("For(%s): first baseline %d overlaps the photo area", f, spec.Baselines[0])
		}
	}
}

func TestForRejectsNonRenderFormats(t *testing.T) {
	for _, f := range []property.Format{property.FormatBoth, "poster", ""} {
		if _, err := For(f); err == nil {
			t.Errorf("For(%q): expected error", f)
		}
	}
}

func TestForFreshCopies(t *testing.T) {
	a, _ := For(property.FormatSquare)
	b, _ := For(property.FormatSquare)
	a.LineColors[2] = markup.BrandBlue
	if b.LineColors[2] != markup.BrandRed {
		t.Error("mutating one spec leaked into another")
	}
}

func TestCoverCropPreservesAspect(t *testing.T) {
	targets := []struct{ w, h int }{
		{1080, 600},  // square photo placement
		{1080, 1150}, // story photo placement
		{1080, 1920},
	}

	// Sweep source aspect ratios 0.3..3.0.
	for _, target := range targets {
		targetAspect := float64(target.w) / float64(target.h)
		for aspect := 0.3; aspect <= 3.0; aspect += 0.1 {
			srcH := 900
			srcW := int(float64(srcH) * aspect)

			crop := CoverCrop(srcW, srcH, target.w, target.h)

			if crop.Dx() < 1 || crop.Dy() < 1 {
				t.Fatalf("CoverCrop(%d,%d,%d,%d): empty crop %v", srcW, srcH, target.w, target.h, crop)
			}
			if crop.Min.X < 0 || crop.Min.Y < 0 || crop.Max.X > srcW || crop.Max.Y > srcH {
				t.Fatalf("CoverCrop(%d,%d,%d,%d): crop %v exceeds source", srcW, srcH, target.w, target.h, crop)
			}

			got := float64(crop.Dx()) / float64(crop.Dy())
			// Allow one pixel of integer truncation on the cropped axis.
			eps := 1.0/float64(crop.Dy()) + 1.0/float64(crop.Dx())
			if math.Abs(got-targetAspect) > eps*math.Max(got, targetAspect) {
				t.Errorf("CoverCrop(%d,%d,%d,%d): aspect %.4f, want %.4f",
					srcW, srcH, target.w, target.h, got, targetAspect)
			}
		}
	}
}

func TestCoverCropCentered(t *testing.T) {
	// Wide source: width cropped, centered horizontally.
	crop := CoverCrop(2000, 1000, 1000, 1000)
	if crop.Dy() != 1000 {
		t.Errorf("wide source: height changed, crop %v", crop)
	}
	if left, right := crop.Min.X, 2000-crop.Max.X; abs(left-right) > 1 {
		t.Errorf("wide source: crop not centered, left %d right %d", left, right)
	}

	// Tall source: height cropped, centered vertically.
	crop = CoverCrop(1000, 2000, 1000, 1000)
	if crop.Dx() != 1000 {
		t.Errorf("tall source: width changed, crop %v", crop)
	}
	if top, bottom := crop.Min.Y, 2000-crop.Max.Y; abs(top-bottom) > 1 {
		t.Errorf("tall source: crop not centered, top %d bottom %d", top, bottom)
	}
}

func TestCoverCropDegenerateSource(t *testing.T) {
	crop := CoverCrop(0, 0, 1080, 600)
	if crop.Dx() != 0 || crop.Dy() != 0 {
		t.Errorf("degenerate source: got %v", crop)
	}
}

func abs(n int) int {
	if n < 0 {
		return -n
	}
	return n
}
