package batch

import (
	"strings"

	"lv-glb-resizer/internal/host"
)

// MaterialPrefix selects the materials whose textures are resized.
const MaterialPrefix = "LV_"

// Selected reports whether a material name is in scope. The match is an
// exact, case-sensitive prefix.
func Selected(name string) bool {
	return strings.HasPrefix(name, MaterialPrefix)
}

// ImageSet is an insertion-ordered set of images.
type ImageSet struct {
	seen  map[host.Image]struct{}
	items []host.Image
}

// Add inserts img unless it is already present.
func (s *ImageSet) Add(img host.Image) {
	if s.seen == nil {
		s.seen = make(map[host.Image]struct{})
	}
	if _, ok := s.seen[img]; ok {
		return
	}
	s.seen[img] = struct{}{}
	s.items = append(s.items, img)
}

// Union adds every image of other.
func (s *ImageSet) Union(other ImageSet) {
	for _, img := range other.items {
		s.Add(img)
	}
}

// Len returns the number of distinct images.
func (s ImageSet) Len() int { return len(s.items) }

// Images returns the images in first-seen order.
func (s ImageSet) Images() []host.Image { return s.items }

// MaterialImages collects the distinct images bound to the nodes of a
// node-based material. Nodes without an image are skipped.
func MaterialImages(m host.Material) ImageSet {
	var set ImageSet
	if m == nil || !m.UseNodes() {
		return set
	}
	for _, n := range m.Nodes() {
		if n == nil {
			continue
		}
		if img, ok := n.Image(); ok && img != nil {
			set.Add(img)
		}
	}
	return set
}

// SelectedImages unions the images of every selected material.
func SelectedImages(materials []host.Material) ImageSet {
	var set ImageSet
	for _, m := range materials {
		if m == nil || !Selected(m.Name()) {
			continue
		}
		set.Union(MaterialImages(m))
	}
	return set
}
