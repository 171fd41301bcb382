package gltfhost

import (
	"encoding/base64"
	"fmt"
	"image"
	"net/url"
	"os"
	"path"
	"path/filepath"
	"strings"

	"github.com/pkg/errors"
	"github.com/qmuntal/gltf"

	"lv-glb-resizer/internal/host"
	"lv-glb-resizer/internal/resize"
	"lv-glb-resizer/internal/texture"
)

// Image is a glTF image entry. The same *Image is returned for every
// reference to a given image index, so images compare equal across nodes.
type Image struct {
	doc   *Document
	index int
	src   *gltf.Image

	data   []byte // encoded payload as read from the model
	format string
	w, h   int
	sized  bool

	pix   *image.NRGBA
	dirty bool
}

var _ host.Image = (*Image)(nil)

// Index is the image's position in the glTF images array.
func (img *Image) Index() int { return img.index }

// Name returns the image name, falling back to the URI file name and then
// to the index.
func (img *Image) Name() string {
	if img.src.Name != "" {
		return img.src.Name
	}
	if img.src.URI != "" && !strings.HasPrefix(img.src.URI, "data:") {
		return path.Base(img.src.URI)
	}
	return fmt.Sprintf("image_%d", img.index)
}

// Encoded returns the payload bytes as stored in the model and their format.
func (img *Image) Encoded() ([]byte, string, error) {
	if img.doc.closed {
		return nil, "", ErrDocumentClosed
	}
	if img.data == nil {
		data, err := img.read()
		if err != nil {
			return nil, "", err
		}
		img.data = data
		img.format = texture.Sniff(data)
	}
	return img.data, img.format, nil
}

func (img *Image) read() ([]byte, error) {
	d := img.doc.doc
	src := img.src

	switch {
	case src.BufferView != nil:
		bv := *src.BufferView
		if int(bv) >= len(d.BufferViews) || d.BufferViews[bv] == nil {
			return nil, errors.Errorf("image %d: buffer view %d out of range", img.index, bv)
		}
		view := d.BufferViews[bv]
		if int(view.Buffer) >= len(d.Buffers) || d.Buffers[view.Buffer] == nil {
			return nil, errors.Errorf("image %d: buffer %d out of range", img.index, view.Buffer)
		}
		buf := d.Buffers[view.Buffer].Data
		start, end := int(view.ByteOffset), int(view.ByteOffset)+int(view.ByteLength)
		if end > len(buf) || start > end {
			return nil, errors.Errorf("image %d: buffer view %d exceeds buffer", img.index, bv)
		}
		out := make([]byte, end-start)
		copy(out, buf[start:end])
		return out, nil

	case strings.HasPrefix(src.URI, "data:"):
		data, err := decodeDataURI(src.URI)
		if err != nil {
			return nil, errors.Wrapf(err, "image %d", img.index)
		}
		return data, nil

	case src.URI != "":
		name, err := url.PathUnescape(src.URI)
		if err != nil {
			name = src.URI
		}
		data, err := os.ReadFile(filepath.Join(img.doc.dir, filepath.FromSlash(name)))
		if err != nil {
			return nil, errors.Wrapf(err, "image %d", img.index)
		}
		return data, nil
	}
	return nil, errors.Errorf("image %d has no data", img.index)
}

// Size reports the current pixel size, reading only the image header until
// the image is scaled.
func (img *Image) Size() (int, int, error) {
	if img.doc.closed {
		return 0, 0, ErrDocumentClosed
	}
	if img.pix != nil {
		b := img.pix.Bounds()
		return b.Dx(), b.Dy(), nil
	}
	if !img.sized {
		data, _, err := img.Encoded()
		if err != nil {
			return 0, 0, err
		}
		cfg, _, err := texture.DecodeConfig(data)
		if err != nil {
			return 0, 0, errors.Wrapf(err, "image %q", img.Name())
		}
		img.w, img.h, img.sized = cfg.Width, cfg.Height, true
	}
	return img.w, img.h, nil
}

// Pixels decodes the image, or returns the scaled pixels once Scale ran.
func (img *Image) Pixels() (*image.NRGBA, error) {
	if img.doc.closed {
		return nil, ErrDocumentClosed
	}
	if img.pix != nil {
		return img.pix, nil
	}
	data, _, err := img.Encoded()
	if err != nil {
		return nil, err
	}
	pix, _, err := texture.Decode(data)
	if err != nil {
		return nil, errors.Wrapf(err, "image %q", img.Name())
	}
	return pix, nil
}

// Scale resamples the image to w×h. The original pixels are not kept.
func (img *Image) Scale(w, h int) error {
	src, err := img.Pixels()
	if err != nil {
		return err
	}
	out, err := resize.Resample(src, w, h, img.doc.opts.Filter)
	if err != nil {
		return errors.Wrapf(err, "image %q", img.Name())
	}
	img.pix = out
	img.dirty = true
	return nil
}

// exportPayload returns the bytes that must be embedded in the binary
// buffer for this image. Scaled images are re-encoded; images that live
// in external files are embedded unchanged so the GLB is self-contained.
// External files that cannot be read are left referenced by URI.
func (img *Image) exportPayload(opts Options) (payload, bool, error) {
	if img.dirty {
		if _, _, err := img.Encoded(); err != nil {
			return payload{}, false, err
		}
		format := texture.AutoFormat(img.format)
		data, err := texture.Encode(img.pix, format, texture.EncodeOptions{JPEGQuality: opts.JPEGQuality})
		if err != nil {
			return payload{}, false, err
		}
		return payload{data: data, mime: texture.MIME(format)}, true, nil
	}

	if img.src.BufferView == nil && img.src.URI != "" && !strings.HasPrefix(img.src.URI, "data:") {
		data, _, err := img.Encoded()
		if err != nil {
			// Unreadable external files keep their URI.
			return payload{}, false, nil
		}
		return payload{data: data, mime: mimeOf(img.src, data)}, true, nil
	}
	return payload{}, false, nil
}

// decodeDataURI decodes an RFC 2397 data URI of any media type.
func decodeDataURI(uri string) ([]byte, error) {
	header, body, ok := strings.Cut(strings.TrimPrefix(uri, "data:"), ",")
	if !ok {
		return nil, errors.New("malformed data uri")
	}
	if strings.HasSuffix(header, ";base64") {
		data, err := base64.StdEncoding.DecodeString(body)
		if err != nil {
			return nil, errors.Wrap(err, "data uri")
		}
		return data, nil
	}
	data, err := url.PathUnescape(body)
	if err != nil {
		return nil, errors.Wrap(err, "data uri")
	}
	return []byte(data), nil
}
