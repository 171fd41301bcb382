package resize

import (
	"fmt"
	"image"
	"image/draw"
	"strings"

	"github.com/nfnt/resize"
	xdraw "golang.org/x/image/draw"
)

// Filter names accepted by ParseFilter.
const (
	FilterCatmullRom = "catmullrom"
	FilterBiLinear   = "bilinear"
	FilterNearest    = "nearest"
	FilterLanczos    = "lanczos"
)

// Filter scales a premultiplied RGBA image into a new w×h RGBA image.
type Filter interface {
	Name() string
	scale(src *image.RGBA, w, h int) *image.RGBA
}

type interpFilter struct {
	name   string
	interp xdraw.Interpolator
}

func (f interpFilter) Name() string { return f.name }

func (f interpFilter) scale(src *image.RGBA, w, h int) *image.RGBA {
	dst := image.NewRGBA(image.Rect(0, 0, w, h))
	f.interp.Scale(dst, dst.Bounds(), src, src.Bounds(), xdraw.Src, nil)
	return dst
}

type lanczosFilter struct{}

func (lanczosFilter) Name() string { return FilterLanczos }

func (lanczosFilter) scale(src *image.RGBA, w, h int) *image.RGBA {
	out := resize.Resize(uint(w), uint(h), src, resize.Lanczos3)
	if rgba, ok := out.(*image.RGBA); ok && rgba.Bounds().Min == (image.Point{}) {
		return rgba
	}
	dst := image.NewRGBA(image.Rect(0, 0, w, h))
	draw.Draw(dst, dst.Bounds(), out, out.Bounds().Min, draw.Src)
	return dst
}

// DefaultFilter is CatmullRom, a close approximation of Lanczos.
var DefaultFilter Filter = interpFilter{FilterCatmullRom, xdraw.CatmullRom}

// ParseFilter returns the filter registered under name. An empty name
// selects DefaultFilter.
func ParseFilter(name string) (Filter, error) {
	switch strings.ToLower(strings.TrimSpace(name)) {
	case "", FilterCatmullRom:
		return DefaultFilter, nil
	case FilterBiLinear:
		return interpFilter{FilterBiLinear, xdraw.BiLinear}, nil
	case FilterNearest:
		return interpFilter{FilterNearest, xdraw.NearestNeighbor}, nil
	case FilterLanczos:
		return lanczosFilter{}, nil
	}
	return nil, fmt.Errorf("resize: unknown filter %q", name)
}

// Resample scales img to exactly w×h with premultiplied-alpha-aware
// filtering, which prevents dark halos at transparent edges.
func Resample(img *image.NRGBA, w, h int, f Filter) (*image.NRGBA, error) {
	if w <= 0 || h <= 0 {
		return nil, fmt.Errorf("resize: invalid target size %dx%d", w, h)
	}
	b := img.Bounds()
	if b.Dx() <= 0 || b.Dy() <= 0 {
		return nil, fmt.Errorf("resize: empty source image")
	}
	if f == nil {
		f = DefaultFilter
	}

	// Premultiply alpha
	premul := image.NewRGBA(image.Rect(0, 0, b.Dx(), b.Dy()))
	for y := b.Min.Y; y < b.Max.Y; y++ {
		for x := b.Min.X; x < b.Max.X; x++ {
			si := img.PixOffset(x, y)
			di := premul.PixOffset(x-b.Min.X, y-b.Min.Y)
			a := float64(img.Pix[si+3]) / 255.0
			premul.Pix[di] = uint8(float64(img.Pix[si])*a + 0.5)
			premul.Pix[di+1] = uint8(float64(img.Pix[si+1])*a + 0.5)
			premul.Pix[di+2] = uint8(float64(img.Pix[si+2])*a + 0.5)
			premul.Pix[di+3] = img.Pix[si+3]
		}
	}

	dst := f.scale(premul, w, h)

	// Unpremultiply alpha
	result := image.NewNRGBA(image.Rect(0, 0, w, h))
	for y := 0; y < h; y++ {
		for x := 0; x < w; x++ {
			si := dst.PixOffset(x, y)
			di := result.PixOffset(x, y)
			a := float64(dst.Pix[si+3])
			if a > 1 {
				inv := 255.0 / a
				result.Pix[di] = clamp8(float64(dst.Pix[si]) * inv)
				result.Pix[di+1] = clamp8(float64(dst.Pix[si+1]) * inv)
				result.Pix[di+2] = clamp8(float64(dst.Pix[si+2]) * inv)
			}
			result.Pix[di+3] = dst.Pix[si+3]
		}
	}

	return result, nil
}

func clamp8(v float64) uint8 {
	if v < 0 {
		return 0
	}
	if v > 255 {
		return 255
	}
	return uint8(v + 0.5)
}
