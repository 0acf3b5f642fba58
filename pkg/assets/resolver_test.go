package assets

import (
	"bytes"
	"errors"
	"image/png"
	"os"
	"path/filepath"
	"testing"

	"github.com/rs/zerolog"
)

func testLogger() zerolog.Logger {
	return zerolog.Nop()
}

func TestResolvePriorityOrder(t *testing.T) {
	first := t.TempDir()
	second := t.TempDir()

	if err := os.WriteFile(filepath.Join(first, "logo.png"), []byte("from-first"), 0o644); err != nil {
		t.Fatal(err)
	}
	if err := os.WriteFile(filepath.Join(second, "logo.png"), []byte("from-second"), 0o644); err != nil {
		t.Fatal(err)
	}
	if err := os.WriteFile(filepath.Join(second, "only-second.png"), []byte("second"), 0o644); err != nil {
		t.Fatal(err)
	}

	r := NewResolver(testLogger(), first, second)

	data, err := r.Resolve("logo.png")
	if err != nil {
		t.Fatalf("Resolve: %v", err)
	}
	if string(data) != "from-first" {
		t.Errorf("Resolve picked %q, want the first candidate", data)
	}

	data, err = r.Resolve("only-second.png")
	if err != nil {
		t.Fatalf("Resolve: %v", err)
	}
	if string(data) != "second" {
		t.Errorf("Resolve = %q, want %q", data, "second")
	}
}

func TestResolveMissing(t *testing.T) {
	r := NewResolver(testLogger(), t.TempDir())

	_, err := r.Resolve("nope.png")
	if err == nil {
		t.Fatal("Resolve: expected error for missing asset")
	}

	var missing *AssetMissing
	if !errors.As(err, &missing) {
		t.Fatalf("Resolve error %T, want *AssetMissing", err)
	}
	if missing.Name != "nope.png" {
		t.Errorf("AssetMissing.Name = %q, want %q", missing.Name, "nope.png")
	}
}

func TestResolveCaches(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, "cached.bin")
	if err := os.WriteFile(path, []byte("v1"), 0o644); err != nil {
		t.Fatal(err)
	}

	r := NewResolver(testLogger(), dir)
	if _, err := r.Resolve("cached.bin"); err != nil {
		t.Fatal(err)
	}

	// Assets are read-only for the process lifetime; a disk change after the
	// first read is not observed.
	if err := os.Remove(path); err != nil {
		t.Fatal(err)
	}
	data, err := r.Resolve("cached.bin")
	if err != nil {
		t.Fatalf("Resolve after delete: %v", err)
	}
	if string(data) != "v1" {
		t.Errorf("cached read = %q, want %q", data, "v1")
	}
}

func TestQRCodePrefersStaticAsset(t *testing.T) {
	dir := t.TempDir()
	if err := os.WriteFile(filepath.Join(dir, QRCodeAsset), []byte("static-qr"), 0o644); err != nil {
		t.Fatal(err)
	}

	r := NewResolver(testLogger(), dir)
	data, err := r.QRCode("https://dubaiimmo.com/bien/1", 160)
	if err != nil {
		t.Fatalf("QRCode: %v", err)
	}
	if string(data) != "static-qr" {
		t.Errorf("QRCode = %q, want the static asset", data)
	}
}

func TestQRCodeGeneratesFromPermalink(t *testing.T) {
	r := NewResolver(testLogger(), t.TempDir())

	data, err := r.QRCode("https://dubaiimmo.com/bien/1", 160)
	if err != nil {
		t.Fatalf("QRCode: %v", err)
	}

	cfg, err := png.DecodeConfig(bytes.NewReader(data))
	if err != nil {
		t.Fatalf("generated QR is not a PNG: %v", err)
	}
	if cfg.Width != 160 || cfg.Height != 160 {
		t.Errorf("generated QR is %dx%d, want 160x160", cfg.Width, cfg.Height)
	}
}

func TestQRCodeMissingWithoutPermalink(t *testing.T) {
	r := NewResolver(testLogger(), t.TempDir())

	for _, link := range []string{"", "not-a-url", "ftp://example.com/x"} {
		_, err := r.QRCode(link, 160)
		var missing *AssetMissing
		if !errors.As(err, &missing) {
			t.Errorf("QRCode(%q) error %v, want *AssetMissing", link, err)
		}
	}
}
