package batch

import (
	"errors"
	"os"
	"path/filepath"

	"lv-glb-resizer/internal/host"
)

type fakeImage struct {
	name     string
	w, h     int
	sizeErr  error
	scaleErr error
	panics   bool
	scales   int
}

func (f *fakeImage) Name() string { return f.name }

func (f *fakeImage) Size() (int, int, error) {
	if f.sizeErr != nil {
		return 0, 0, f.sizeErr
	}
	return f.w, f.h, nil
}

func (f *fakeImage) Scale(w, h int) error {
	if f.panics {
		panic("corrupt buffer")
	}
	f.scales++
	if f.scaleErr != nil {
		return f.scaleErr
	}
	f.w, f.h = w, h
	return nil
}

type fakeNode struct {
	img host.Image
}

func (n fakeNode) Kind() string { return "TEX_IMAGE" }

func (n fakeNode) Image() (host.Image, bool) { return n.img, n.img != nil }

type fakeMaterial struct {
	name     string
	useNodes bool
	nodes    []host.Node
}

func (m *fakeMaterial) Name() string { return m.name }

func (m *fakeMaterial) UseNodes() bool { return m.useNodes }

func (m *fakeMaterial) Nodes() []host.Node { return m.nodes }

func material(name string, imgs ...host.Image) *fakeMaterial {
	m := &fakeMaterial{name: name, useNodes: true}
	for _, img := range imgs {
		m.nodes = append(m.nodes, fakeNode{img})
	}
	return m
}

// fakeHost serves materials keyed by the base name of the imported file.
type fakeHost struct {
	models      map[string][]host.Material
	importErr   map[string]error
	importPanic map[string]bool
	exportErr   error
	resets      int
	imports     []string
}

type fakeDoc struct {
	h         *fakeHost
	materials []host.Material
	closed    bool
}

func (h *fakeHost) NewDocument() (host.Document, error) {
	h.resets++
	return &fakeDoc{h: h}, nil
}

func (d *fakeDoc) Import(path string) error {
	if d.closed {
		return errors.New("closed")
	}
	name := filepath.Base(path)
	d.h.imports = append(d.h.imports, name)
	if d.h.importPanic[name] {
		panic("host crashed")
	}
	if err := d.h.importErr[name]; err != nil {
		return err
	}
	d.materials = d.h.models[name]
	return nil
}

func (d *fakeDoc) Materials() []host.Material { return d.materials }

func (d *fakeDoc) Export(path string) error {
	if d.h.exportErr != nil {
		return d.h.exportErr
	}
	return os.WriteFile(path, []byte("glTF"), 0644)
}

func (d *fakeDoc) Close() error {
	d.closed = true
	return nil
}
