// Package host defines the document collaborator the batch pipeline drives.
//
// A Host owns a single document at a time. NewDocument always starts from an
// empty state and invalidates whatever document was open before, so callers
// never observe leftovers from a previous model.
package host

// Host creates documents.
type Host interface {
	NewDocument() (Document, error)
}

// Document is one imported model.
type Document interface {
	// Import loads a model file into the document.
	Import(path string) error
	// Materials lists every material of the imported model.
	Materials() []Material
	// Export writes the document as a binary model file.
	Export(path string) error
	Close() error
}

// Material is a named surface description.
type Material interface {
	Name() string
	// UseNodes reports whether the material is described by a shading graph.
	UseNodes() bool
	Nodes() []Node
}

// Node is one node of a material's shading graph.
type Node interface {
	Kind() string
	// Image returns the texture image bound to the node, if any.
	Image() (Image, bool)
}

// Image is a texture pixel buffer. Implementations must be comparable so
// callers can de-duplicate images shared between nodes and materials.
type Image interface {
	Name() string
	Size() (w, h int, err error)
	// Scale resamples the pixels in place to exactly w×h.
	Scale(w, h int) error
}
