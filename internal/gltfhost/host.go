// Package gltfhost implements host.Host on top of binary glTF files.
//
// Documents are decoded with github.com/qmuntal/gltf. Texture images are
// decoded lazily: Size only reads the image header, pixels are decoded the
// first time an image is scaled. On export, scaled images are re-encoded in
// their original format where glTF allows it and spliced back into the
// binary buffer in place of the old payload.
package gltfhost

import (
	"errors"

	"lv-glb-resizer/internal/host"
	"lv-glb-resizer/internal/resize"
	"lv-glb-resizer/internal/texture"
)

var (
	// ErrDocumentClosed is returned by every operation on a document that
	// was closed or replaced by a newer one.
	ErrDocumentClosed = errors.New("gltfhost: document closed")
	// ErrNotImported is returned when a document is used before Import.
	ErrNotImported = errors.New("gltfhost: no model imported")
)

// Options configures how images are resampled and re-encoded.
type Options struct {
	Filter      resize.Filter
	JPEGQuality int
}

// Host hands out one document at a time.
type Host struct {
	opts    Options
	current *Document
}

var _ host.Host = (*Host)(nil)

// New creates a Host. A nil Filter selects resize.DefaultFilter.
func New(opts Options) *Host {
	if opts.Filter == nil {
		opts.Filter = resize.DefaultFilter
	}
	if opts.JPEGQuality <= 0 {
		opts.JPEGQuality = texture.DefaultJPEGQuality
	}
	return &Host{opts: opts}
}

// NewDocument discards the current document, if any, and returns an empty one.
func (h *Host) NewDocument() (host.Document, error) {
	return h.Reset(), nil
}

// Reset is NewDocument with the concrete type.
func (h *Host) Reset() *Document {
	if h.current != nil {
		h.current.release()
	}
	h.current = &Document{host: h, opts: h.opts}
	return h.current
}
