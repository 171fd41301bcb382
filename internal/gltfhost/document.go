package gltfhost

import (
	"os"
	"path/filepath"

	"github.com/pkg/errors"
	"github.com/qmuntal/gltf"

	"lv-glb-resizer/internal/host"
	"lv-glb-resizer/internal/texture"
)

// Document is a single imported glTF model.
type Document struct {
	host   *Host
	opts   Options
	closed bool

	dir       string
	doc       *gltf.Document
	images    []*Image
	materials []host.Material
}

var _ host.Document = (*Document)(nil)

func (d *Document) check() error {
	if d.closed {
		return ErrDocumentClosed
	}
	if d.doc == nil {
		return ErrNotImported
	}
	return nil
}

// Import decodes the model at path. A document holds at most one model.
func (d *Document) Import(path string) error {
	if d.closed {
		return ErrDocumentClosed
	}
	if d.doc != nil {
		return errors.Errorf("gltfhost: document already holds a model, cannot import %s", path)
	}

	doc, err := gltf.Open(path)
	if err != nil {
		return errors.Wrapf(err, "gltfhost: import %s", path)
	}

	d.doc = doc
	d.dir = filepath.Dir(path)
	d.images = make([]*Image, len(doc.Images))
	for i, src := range doc.Images {
		if src != nil {
			d.images[i] = &Image{doc: d, index: i, src: src}
		}
	}

	d.materials = d.materials[:0]
	for i, m := range doc.Materials {
		if m == nil {
			continue
		}
		d.materials = append(d.materials, newMaterial(d, i, m))
	}
	return nil
}

// Materials returns the materials in document order.
func (d *Document) Materials() []host.Material {
	if d.check() != nil {
		return nil
	}
	return d.materials
}

// Images returns every image of the document in index order, including
// images no material references. Entries may be nil for null images.
func (d *Document) Images() []*Image {
	if d.check() != nil {
		return nil
	}
	return d.images
}

func (d *Document) image(i uint32) *Image {
	if int(i) >= len(d.images) {
		return nil
	}
	return d.images[i]
}

// Export writes the document to path as a GLB container. The file is
// written next to path under a temporary name and renamed into place.
func (d *Document) Export(path string) error {
	if err := d.check(); err != nil {
		return err
	}

	payloads := make(map[int]payload)
	for _, img := range d.images {
		if img == nil {
			continue
		}
		p, ok, err := img.exportPayload(d.opts)
		if err != nil {
			return errors.Wrapf(err, "gltfhost: export image %q", img.Name())
		}
		if ok {
			payloads[img.index] = p
		}
	}

	if err := embedImages(d.doc, payloads); err != nil {
		return errors.Wrap(err, "gltfhost: embed images")
	}
	for i, p := range payloads {
		d.images[i].data = p.data
		d.images[i].format = texture.Sniff(p.data)
	}

	tmp := path + ".tmp"
	if err := gltf.SaveBinary(d.doc, tmp); err != nil {
		os.Remove(tmp)
		return errors.Wrapf(err, "gltfhost: export %s", path)
	}
	if err := os.Rename(tmp, path); err != nil {
		os.Remove(tmp)
		return errors.Wrapf(err, "gltfhost: export %s", path)
	}
	return nil
}

// Close releases the model. Further calls fail with ErrDocumentClosed.
func (d *Document) Close() error {
	d.release()
	if d.host != nil && d.host.current == d {
		d.host.current = nil
	}
	return nil
}

func (d *Document) release() {
	d.closed = true
	d.doc = nil
	d.images = nil
	d.materials = nil
}

type payload struct {
	data []byte
	mime string
}

func mimeOf(src *gltf.Image, data []byte) string {
	if texture.FormatFromMIME(src.MimeType) != "" {
		return src.MimeType
	}
	return texture.MIME(texture.Sniff(data))
}
