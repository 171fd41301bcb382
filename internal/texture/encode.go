package texture

import (
	"bytes"
	"fmt"
	"image"
	"image/jpeg"
	"image/png"

	"github.com/HugoSmits86/nativewebp"
	"github.com/ftrvxmtrx/tga"
)

// DefaultJPEGQuality is used when EncodeOptions.JPEGQuality is not set.
const DefaultJPEGQuality = 90

// EncodeOptions tunes lossy encoders.
type EncodeOptions struct {
	JPEGQuality int
}

// AutoFormat picks the output format for an image that was read as src:
// WebP and JPEG keep their format, everything else becomes PNG, which every
// glTF reader understands.
func AutoFormat(src string) string {
	switch src {
	case FormatWebP, FormatJPEG:
		return src
	}
	return FormatPNG
}

// Encode encodes img in the named format. WebP output is lossless VP8L.
func Encode(img image.Image, format string, opts EncodeOptions) ([]byte, error) {
	var buf bytes.Buffer
	var err error

	switch format {
	case FormatWebP:
		err = nativewebp.Encode(&buf, img, nil)
	case FormatPNG:
		err = png.Encode(&buf, img)
	case FormatJPEG:
		q := opts.JPEGQuality
		if q <= 0 || q > 100 {
			q = DefaultJPEGQuality
		}
		err = jpeg.Encode(&buf, img, &jpeg.Options{Quality: q})
	case FormatTGA:
		err = tga.Encode(&buf, img)
	default:
		return nil, fmt.Errorf("%w: %q", ErrUnsupportedFormat, format)
	}

	if err != nil {
		return nil, fmt.Errorf("texture: encode %s: %w", format, err)
	}
	return buf.Bytes(), nil
}
