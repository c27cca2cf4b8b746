package imaging

import (
	"bytes"
	"image"
	"image/color"
	"image/png"
	"math/rand"
	"testing"
)

// noisyImage produces an image that compresses poorly, so encoded sizes
// respond to the quality parameter instead of collapsing to a few bytes.
func noisyImage(t *testing.T, w, h int) image.Image {
	t.Helper()
	rng := rand.New(rand.NewSource(42))
	img := image.NewRGBA(image.Rect(0, 0, w, h))
	for y := 0; y < h; y++ {
		for x := 0; x < w; x++ {
			img.Set(x, y, color.RGBA{
				R: uint8(rng.Intn(256)),
				G: uint8(rng.Intn(256)),
				B: uint8(rng.Intn(256)),
				A: 255,
			})
		}
	}
	return img
}

func encodePNG(t *testing.T, img image.Image) []byte {
	t.Helper()
	var buf bytes.Buffer
	if err := png.Encode(&buf, img); err != nil {
		t.Fatalf("encode png: %v", err)
	}
	return buf.Bytes()
}

func TestNormalizeDownscalesToMaxWidth(t *testing.T) {
	n := New(1280, 1024, 50*1024)

	data := encodePNG(t, noisyImage(t, 1500, 1000))
	out, err := n.Normalize("site.png", data)
	if err != nil {
		t.Fatalf("Normalize returned error: %v", err)
	}

	if out.Width > 1280 {
		t.Fatalf("expected width <= 1280, got %d", out.Width)
	}

	// aspect ratio preserved within one pixel of rounding
	wantHeight := int(float64(1000) * float64(out.Width) / float64(1500))
	if diff := out.Height - wantHeight; diff < -1 || diff > 1 {
		t.Fatalf("aspect ratio broken: width=%d height=%d want height ~%d", out.Width, out.Height, wantHeight)
	}

	if out.ContentType != "image/jpeg" {
		t.Fatalf("expected image/jpeg, got %s", out.ContentType)
	}
	if out.Name != "site.jpg" {
		t.Fatalf("expected name site.jpg, got %s", out.Name)
	}
}

func TestNormalizeNeverUpscales(t *testing.T) {
	n := New(1280, 1024, 50*1024)

	data := encodePNG(t, noisyImage(t, 640, 480))
	out, err := n.Normalize("small.png", data)
	if err != nil {
		t.Fatalf("Normalize returned error: %v", err)
	}

	if out.Width != 640 || out.Height != 480 {
		t.Fatalf("expected 640x480 unchanged, got %dx%d", out.Width, out.Height)
	}
}

func TestNormalizeRejectsUndecodableInput(t *testing.T) {
	n := New(1280, DefaultMinBytes, DefaultMaxBytes)

	if _, err := n.Normalize("junk.jpg", []byte("not an image")); err == nil {
		t.Fatal("expected decode error for undecodable input")
	}
}

// syntheticEncoder returns sizes as a monotonically increasing function
// of quality and counts invocations.
type syntheticEncoder struct {
	calls int
	size  func(quality int) int
}

func (s *syntheticEncoder) encode(_ image.Image, quality int) ([]byte, error) {
	s.calls++
	return make([]byte, s.size(quality)), nil
}

func TestSearchQualityFindsBand(t *testing.T) {
	n := New(1280, 200*1024, 400*1024)
	enc := &syntheticEncoder{size: func(q int) int { return q * 6 * 1024 }} // 40% -> 240KB..95% -> 570KB
	n.encode = enc.encode

	out, err := n.searchQuality(image.NewRGBA(image.Rect(0, 0, 1, 1)))
	if err != nil {
		t.Fatalf("searchQuality returned error: %v", err)
	}

	if len(out) < 200*1024 || len(out) > 400*1024 {
		t.Fatalf("expected size inside [200KB,400KB], got %d", len(out))
	}
	if enc.calls > searchIterations {
		t.Fatalf("expected <= %d codec invocations, got %d", searchIterations, enc.calls)
	}
}

func TestSearchQualityStopsOnFirstEncodeInsideBand(t *testing.T) {
	n := New(1280, 200*1024, 400*1024)
	enc := &syntheticEncoder{size: func(int) int { return 300 * 1024 }}
	n.encode = enc.encode

	if _, err := n.searchQuality(image.NewRGBA(image.Rect(0, 0, 1, 1))); err != nil {
		t.Fatalf("searchQuality returned error: %v", err)
	}
	if enc.calls != 1 {
		t.Fatalf("expected exactly 1 codec invocation, got %d", enc.calls)
	}
}

func TestSearchQualityReturnsClosestAttemptWhenBandUnreachable(t *testing.T) {
	n := New(1280, 200*1024, 400*1024)
	// always too small: band is unreachable, every attempt is below min
	enc := &syntheticEncoder{size: func(q int) int { return q * 10 }}
	n.encode = enc.encode

	out, err := n.searchQuality(image.NewRGBA(image.Rect(0, 0, 1, 1)))
	if err != nil {
		t.Fatalf("searchQuality returned error: %v", err)
	}
	if enc.calls != searchIterations {
		t.Fatalf("expected %d codec invocations, got %d", searchIterations, enc.calls)
	}
	if len(out) == 0 {
		t.Fatal("expected last attempt output, got empty")
	}
}

func TestSearchQualityPropagatesEncodeFailure(t *testing.T) {
	n := New(1280, 200*1024, 400*1024)
	n.encode = func(image.Image, int) ([]byte, error) {
		return nil, image.ErrFormat
	}

	if _, err := n.searchQuality(image.NewRGBA(image.Rect(0, 0, 1, 1))); err == nil {
		t.Fatal("expected encode failure to surface as error")
	}
}

func TestReplaceExt(t *testing.T) {
	cases := map[string]string{
		"photo.png":        "photo.jpg",
		"photo.jpeg":       "photo.jpg",
		"no-extension":     "no-extension.jpg",
		"":                 "photo.jpg",
		"dir/nested.webp":  "nested.jpg",
		"dots.in.name.png": "dots.in.name.jpg",
	}
	for in, want := range cases {
		if got := replaceExt(in, ".jpg"); got != want {
			t.Fatalf("replaceExt(%q) = %q, want %q", in, got, want)
		}
	}
}
