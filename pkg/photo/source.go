// Package photo fetches the listing's primary photo. The fetch is the only
// network-bound step of a render and is total: any failure (bad URL, non-2xx
// status, network error, timeout, undecodable body) yields a neutral
// placeholder image instead of an error.
package photo

import (
	"context"
	"fmt"
	"image"
	"net/http"
	"net/url"
	"time"

	_ "image/gif"
	_ "image/jpeg"
	_ "image/png"

	"github.com/hashicorp/go-retryablehttp"
	"github.com/rs/zerolog"

	"github.com/dubaiimmo/adgen/pkg/fonts"
)

// Placeholder dimensions. Deliberately off the target aspect ratios so the
// cover-crop path is exercised even for placeholder renders.
const (
	placeholderW = 1200
	placeholderH = 800
)

// Source fetches listing photos over HTTP with bounded retries and timeout.
type Source struct {
	client  *retryablehttp.Client
	timeout time.Duration
	fonts   *fonts.Provider
	log     zerolog.Logger
}

// NewSource creates a photo source. timeout bounds each fetch end to end,
// retries and backoff included.
func NewSource(timeout time.Duration, fp *fonts.Provider, log zerolog.Logger) *Source {
	client := retryablehttp.NewClient()
	client.RetryMax = 2
	client.HTTPClient.Timeout = timeout
	client.Logger = nil // suppress retryablehttp's default logging

	return &Source{client: client, timeout: timeout, fonts: fp, log: log}
}

// Fetch returns the decoded photo at rawURL, or the placeholder when the URL
// is absent/invalid or the fetch fails. Cancelling ctx aborts an in-flight
// request and also falls back to the placeholder.
func (s *Source) Fetch(ctx context.Context, rawURL string) image.Image {
	if !validURL(rawURL) {
		if rawURL != "" {
			s.log.Warn().Str("url", rawURL).Msg("photo url not absolute http(s), using placeholder")
		}
		return s.Placeholder()
	}

	img, err := s.fetch(ctx, rawURL)
	if err != nil {
		s.log.Warn().Str("url", rawURL).Err(err).Msg("photo fetch failed, using placeholder")
		return s.Placeholder()
	}
	return img
}

func (s *Source) fetch(ctx context.Context, rawURL string) (image.Image, error) {
	// The HTTP client timeout bounds each attempt; this deadline bounds the
	// whole fetch across retries and backoff waits.
	ctx, cancel := context.WithTimeout(ctx, s.timeout)
	defer cancel()

	req, err := retryablehttp.NewRequestWithContext(ctx, http.MethodGet, rawURL, nil)
	if err != nil {
		return nil, err
	}

	resp, err := s.client.Do(req)
	if err != nil {
		return nil, err
	}
	defer resp.Body.Close()

	if resp.StatusCode < 200 || resp.StatusCode > 299 {
		return nil, fmt.Errorf("unexpected status %d", resp.StatusCode)
	}

	img, _, err := image.Decode(resp.Body)
	if err != nil {
		return nil, fmt.Errorf("decode photo: %w", err)
	}
	return img, nil
}

func validURL(s string) bool {
	if s == "" {
		return false
	}
	u, err := url.Parse(s)
	return err == nil && (u.Scheme == "http" || u.Scheme == "https") && u.Host != ""
}

// Placeholder returns the neutral substitute image: a solid light fill with
// a centered caption.
func (s *Source) Placeholder() image.Image {
	return Placeholder(s.fonts)
}

// Placeholder builds the substitute image with the given font provider.
func Placeholder(fp *fonts.Provider) image.Image {
	img := newFill(placeholderW, placeholderH)

	face, err := fp.Face(48)
	if err != nil {
		return img
	}
	defer face.Close()

	drawCenteredCaption(img, face, "IMAGE UNAVAILABLE")
	return img
}
