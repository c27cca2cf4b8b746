package imaging

import (
	"bytes"
	"fmt"
	"image"
	"image/jpeg"
	"math"
	"path/filepath"
	"strings"

	_ "image/gif"
	_ "image/png"

	"golang.org/x/image/draw"
)

const (
	DefaultMaxWidth = 1280
	DefaultMinBytes = 200 * 1024
	DefaultMaxBytes = 400 * 1024

	qualityLow       = 0.40
	qualityHigh      = 0.95
	searchIterations = 7
)

// Normalized is a photo re-encoded to JPEG, downscaled to the maximum
// width and, best-effort, inside the configured byte-size band.
type Normalized struct {
	Name        string
	ContentType string
	Data        []byte
	Width       int
	Height      int
}

// Normalizer resizes and re-encodes user photos into a byte-size band.
// It never upscales; width above maxWidth is reduced preserving aspect
// ratio, then the JPEG quality is binary-searched so the encoded size
// lands between minBytes and maxBytes.
type Normalizer struct {
	maxWidth int
	minBytes int
	maxBytes int

	// replaced in tests with a synthetic codec
	encode func(img image.Image, quality int) ([]byte, error)
}

func New(maxWidth, minBytes, maxBytes int) *Normalizer {
	if maxWidth <= 0 {
		maxWidth = DefaultMaxWidth
	}
	if minBytes <= 0 {
		minBytes = DefaultMinBytes
	}
	if maxBytes <= minBytes {
		maxBytes = DefaultMaxBytes
	}
	return &Normalizer{
		maxWidth: maxWidth,
		minBytes: minBytes,
		maxBytes: maxBytes,
		encode:   encodeJPEG,
	}
}

// Normalize decodes data, downscales it to the maximum width and
// re-encodes it as JPEG inside the byte band. The returned error means
// the codec failed; callers fall back to the original file in that case.
func (n *Normalizer) Normalize(name string, data []byte) (*Normalized, error) {
	img, _, err := image.Decode(bytes.NewReader(data))
	if err != nil {
		return nil, fmt.Errorf("decode image %q: %w", name, err)
	}

	img = n.downscale(img)

	out, err := n.searchQuality(img)
	if err != nil {
		return nil, fmt.Errorf("encode image %q: %w", name, err)
	}

	b := img.Bounds()
	return &Normalized{
		Name:        replaceExt(name, ".jpg"),
		ContentType: "image/jpeg",
		Data:        out,
		Width:       b.Dx(),
		Height:      b.Dy(),
	}, nil
}

// downscale reduces the image to maxWidth preserving aspect ratio.
// Images already narrow enough are returned unchanged.
func (n *Normalizer) downscale(img image.Image) image.Image {
	b := img.Bounds()
	w, h := b.Dx(), b.Dy()
	if w <= n.maxWidth {
		return img
	}

	scale := float64(n.maxWidth) / float64(w)
	dh := int(math.Round(float64(h) * scale))
	if dh < 1 {
		dh = 1
	}

	dst := image.NewRGBA(image.Rect(0, 0, n.maxWidth, dh))
	draw.CatmullRom.Scale(dst, dst.Bounds(), img, b, draw.Src, nil)
	return dst
}

// searchQuality runs a bounded binary search over the JPEG quality
// parameter. Stops early once the encoded size is inside the band; if
// the band is unreachable within the iteration budget it returns the
// last attempt produced.
func (n *Normalizer) searchQuality(img image.Image) ([]byte, error) {
	low, high := qualityLow, qualityHigh
	var last []byte

	for i := 0; i < searchIterations; i++ {
		q := (low + high) / 2
		out, err := n.encode(img, int(math.Round(q*100)))
		if err != nil {
			return nil, err
		}
		last = out

		switch {
		case len(out) > n.maxBytes:
			high = q
		case len(out) < n.minBytes:
			low = q
		default:
			return out, nil
		}
	}

	return last, nil
}

func encodeJPEG(img image.Image, quality int) ([]byte, error) {
	var buf bytes.Buffer
	if err := jpeg.Encode(&buf, img, &jpeg.Options{Quality: quality}); err != nil {
		return nil, err
	}
	return buf.Bytes(), nil
}

func replaceExt(name, ext string) string {
	base := strings.TrimSuffix(filepath.Base(name), filepath.Ext(name))
	if base == "" {
		base = "photo"
	}
	return base + ext
}
