// Package texture decodes and encodes the image payloads embedded in models.
package texture

import (
	"bytes"
	"errors"
	"fmt"
	"image"
	"image/color"
	"image/draw"
	"image/jpeg"
	"image/png"
	"io"
	"strings"

	"github.com/ftrvxmtrx/tga"
	"golang.org/x/image/webp"
)

// Format names.
const (
	FormatWebP = "webp"
	FormatPNG  = "png"
	FormatJPEG = "jpeg"
	FormatTGA  = "tga"
)

// ErrUnsupportedFormat is returned when an image cannot be encoded in the
// requested format.
var ErrUnsupportedFormat = errors.New("texture: unsupported format")

type codec struct {
	decode       func(io.Reader) (image.Image, error)
	decodeConfig func(io.Reader) (image.Config, error)
}

var codecs = map[string]codec{
	FormatWebP: {webp.Decode, webp.DecodeConfig},
	FormatPNG:  {png.Decode, png.DecodeConfig},
	FormatJPEG: {jpeg.Decode, jpeg.DecodeConfig},
	FormatTGA:  {tga.Decode, tga.DecodeConfig},
}

// Sniff detects the format of an encoded image from its leading bytes.
// TGA has no signature, so anything unrecognised is reported as TGA.
func Sniff(data []byte) string {
	switch {
	case bytes.HasPrefix(data, []byte("\x89PNG\r\n\x1a\n")):
		return FormatPNG
	case bytes.HasPrefix(data, []byte{0xff, 0xd8}):
		return FormatJPEG
	case len(data) >= 12 && string(data[:4]) == "RIFF" && string(data[8:12]) == "WEBP":
		return FormatWebP
	}
	return FormatTGA
}

// Decode decodes an encoded image and returns it as NRGBA together with the
// detected format name.
func Decode(data []byte) (*image.NRGBA, string, error) {
	format := Sniff(data)
	img, err := codecs[format].decode(bytes.NewReader(data))
	if err != nil {
		return nil, "", fmt.Errorf("texture: decode %s: %w", format, err)
	}
	return toNRGBA(img), format, nil
}

// DecodeConfig reads only the header of an encoded image.
func DecodeConfig(data []byte) (image.Config, string, error) {
	format := Sniff(data)
	cfg, err := codecs[format].decodeConfig(bytes.NewReader(data))
	if err != nil {
		return image.Config{}, "", fmt.Errorf("texture: decode %s header: %w", format, err)
	}
	return cfg, format, nil
}

// FormatFromMIME maps a glTF image MIME type to a format name. Unknown
// types return "".
func FormatFromMIME(mime string) string {
	switch strings.ToLower(strings.TrimSpace(mime)) {
	case "image/webp":
		return FormatWebP
	case "image/png":
		return FormatPNG
	case "image/jpeg", "image/jpg":
		return FormatJPEG
	case "image/x-tga", "image/tga", "image/x-targa":
		return FormatTGA
	}
	return ""
}

// MIME returns the MIME type for a format name.
func MIME(format string) string {
	switch format {
	case FormatWebP:
		return "image/webp"
	case FormatPNG:
		return "image/png"
	case FormatJPEG:
		return "image/jpeg"
	case FormatTGA:
		return "image/x-tga"
	}
	return ""
}

// Ext returns the file extension, with dot, for a format name.
func Ext(format string) string {
	switch format {
	case FormatJPEG:
		return ".jpg"
	case "":
		return ".bin"
	}
	return "." + format
}

// toNRGBA converts any image to NRGBA format anchored at the origin.
func toNRGBA(src image.Image) *image.NRGBA {
	b := src.Bounds()
	if n, ok := src.(*image.NRGBA); ok && b.Min == (image.Point{}) {
		return n
	}
	dst := image.NewNRGBA(image.Rect(0, 0, b.Dx(), b.Dy()))
	switch src.(type) {
	case *image.YCbCr, *image.Gray:
		// No alpha, draw and set alpha to 255
		draw.Draw(dst, dst.Bounds(), src, b.Min, draw.Src)
		for i := 3; i < len(dst.Pix); i += 4 {
			dst.Pix[i] = 255
		}
	default:
		for y := b.Min.Y; y < b.Max.Y; y++ {
			for x := b.Min.X; x < b.Max.X; x++ {
				c := color.NRGBAModel.Convert(src.At(x, y)).(color.NRGBA)
				i := dst.PixOffset(x-b.Min.X, y-b.Min.Y)
				dst.Pix[i] = c.R
				dst.Pix[i+1] = c.G
				dst.Pix[i+2] = c.B
				dst.Pix[i+3] = c.A
			}
		}
	}
	return dst
}
