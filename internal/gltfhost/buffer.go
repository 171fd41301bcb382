package gltfhost

import (
	"sort"

	"github.com/pkg/errors"
	"github.com/qmuntal/gltf"
)

const viewAlign = 4

// embedImages stores payloads, keyed by image index, in the binary buffer.
// An image that owns its buffer view has the view's bytes replaced and the
// buffer is rebuilt with every later view shifted. Images without a view,
// or sharing one, get a new view appended to the buffer.
func embedImages(doc *gltf.Document, payloads map[int]payload) error {
	if len(payloads) == 0 {
		return nil
	}
	if len(doc.Buffers) == 0 {
		doc.Buffers = append(doc.Buffers, &gltf.Buffer{})
	}
	bin := doc.Buffers[0]
	if bin.URI != "" {
		return errors.Errorf("first buffer is external (%s)", bin.URI)
	}

	refs := viewRefs(doc)
	inPlace := make(map[uint32][]byte)
	var appended []int

	indices := make([]int, 0, len(payloads))
	for i := range payloads {
		indices = append(indices, i)
	}
	sort.Ints(indices)

	for _, i := range indices {
		img := doc.Images[i]
		p := payloads[i]
		img.MimeType = p.mime
		img.URI = ""

		if bv := img.BufferView; bv != nil && int(*bv) < len(doc.BufferViews) &&
			doc.BufferViews[*bv].Buffer == 0 && refs[*bv] == 1 {
			inPlace[*bv] = p.data
			continue
		}
		appended = append(appended, i)
	}

	if len(inPlace) > 0 && !rebuildBuffer(doc, inPlace) {
		// Overlapping views cannot be shifted safely, fall back to appending.
		for _, i := range indices {
			if bv := doc.Images[i].BufferView; bv != nil {
				if _, ok := inPlace[*bv]; ok {
					appended = append(appended, i)
				}
			}
		}
		sort.Ints(appended)
	}

	for _, i := range appended {
		idx := appendView(doc, payloads[i].data)
		doc.Images[i].BufferView = gltf.Index(idx)
	}

	bin.ByteLength = uint32(len(bin.Data))
	return nil
}

// viewRefs counts how many accessors and images reference each buffer view.
func viewRefs(doc *gltf.Document) map[uint32]int {
	refs := make(map[uint32]int)
	for _, a := range doc.Accessors {
		if a != nil && a.BufferView != nil {
			refs[*a.BufferView]++
		}
	}
	for _, img := range doc.Images {
		if img != nil && img.BufferView != nil {
			refs[*img.BufferView]++
		}
	}
	return refs
}

// rebuildBuffer lays out every view of buffer 0 again in offset order,
// substituting replaced payloads. It reports false, leaving the document
// untouched, when views overlap.
func rebuildBuffer(doc *gltf.Document, replaced map[uint32][]byte) bool {
	bin := doc.Buffers[0]

	var order []uint32
	for i, v := range doc.BufferViews {
		if v != nil && v.Buffer == 0 {
			order = append(order, uint32(i))
		}
	}
	sort.SliceStable(order, func(a, b int) bool {
		return doc.BufferViews[order[a]].ByteOffset < doc.BufferViews[order[b]].ByteOffset
	})

	var end uint32
	for _, i := range order {
		v := doc.BufferViews[i]
		if v.ByteOffset < end || int(v.ByteOffset)+int(v.ByteLength) > len(bin.Data) {
			return false
		}
		end = v.ByteOffset + v.ByteLength
	}

	out := make([]byte, 0, len(bin.Data))
	offsets := make([]uint32, len(order))
	lengths := make([]uint32, len(order))
	for n, i := range order {
		v := doc.BufferViews[i]
		data, ok := replaced[i]
		if !ok {
			data = bin.Data[v.ByteOffset : v.ByteOffset+v.ByteLength]
		}
		out = pad(out)
		offsets[n] = uint32(len(out))
		lengths[n] = uint32(len(data))
		out = append(out, data...)
	}

	for n, i := range order {
		doc.BufferViews[i].ByteOffset = offsets[n]
		doc.BufferViews[i].ByteLength = lengths[n]
	}
	bin.Data = out
	return true
}

func appendView(doc *gltf.Document, data []byte) uint32 {
	bin := doc.Buffers[0]
	bin.Data = pad(bin.Data)
	doc.BufferViews = append(doc.BufferViews, &gltf.BufferView{
		Buffer:     0,
		ByteOffset: uint32(len(bin.Data)),
		ByteLength: uint32(len(data)),
	})
	bin.Data = append(bin.Data, data...)
	return uint32(len(doc.BufferViews) - 1)
}

func pad(b []byte) []byte {
	for len(b)%viewAlign != 0 {
		b = append(b, 0)
	}
	return b
}
