package gltfhost

import (
	"encoding/json"
	"sort"
	"strings"

	"github.com/qmuntal/gltf"

	"lv-glb-resizer/internal/host"
)

// ExtTextureWebP is the glTF extension that binds a WebP image to a texture.
const ExtTextureWebP = "EXT_texture_webp"

// Texture slot kinds reported by Node.Kind.
const (
	SlotBaseColor         = "baseColor"
	SlotMetallicRoughness = "metallicRoughness"
	SlotNormal            = "normal"
	SlotOcclusion         = "occlusion"
	SlotEmissive          = "emissive"
)

// Material wraps a glTF material. Its shading graph is the set of texture
// slots the material fills.
type Material struct {
	index int
	mat   *gltf.Material
	nodes []host.Node
}

var _ host.Material = (*Material)(nil)

// Index is the material's position in the glTF materials array.
func (m *Material) Index() int { return m.index }

// Name returns the material name.
func (m *Material) Name() string { return m.mat.Name }

// UseNodes is always true: imported glTF materials are node based.
func (m *Material) UseNodes() bool { return true }

// Nodes returns one node per texture slot and image source.
func (m *Material) Nodes() []host.Node { return m.nodes }

// Node is a texture sampling node.
type Node struct {
	kind  string
	image *Image
}

var _ host.Node = (*Node)(nil)

// Kind returns the slot name, suffixed with "/webp" for nodes bound through
// EXT_texture_webp.
func (n *Node) Kind() string { return n.kind }

// Image returns the bound image, if the texture resolves to one.
func (n *Node) Image() (host.Image, bool) {
	if n.image == nil {
		return nil, false
	}
	return n.image, true
}

type slot struct {
	kind    string
	texture uint32
}

func textureSlots(m *gltf.Material) []slot {
	var slots []slot
	if pbr := m.PBRMetallicRoughness; pbr != nil {
		if pbr.BaseColorTexture != nil {
			slots = append(slots, slot{SlotBaseColor, pbr.BaseColorTexture.Index})
		}
		if pbr.MetallicRoughnessTexture != nil {
			slots = append(slots, slot{SlotMetallicRoughness, pbr.MetallicRoughnessTexture.Index})
		}
	}
	if m.NormalTexture != nil && m.NormalTexture.Index != nil {
		slots = append(slots, slot{SlotNormal, *m.NormalTexture.Index})
	}
	if m.OcclusionTexture != nil && m.OcclusionTexture.Index != nil {
		slots = append(slots, slot{SlotOcclusion, *m.OcclusionTexture.Index})
	}
	if m.EmissiveTexture != nil {
		slots = append(slots, slot{SlotEmissive, m.EmissiveTexture.Index})
	}
	return append(slots, extensionSlots(m.Extensions)...)
}

// materialExtPrefix marks the material extensions that add texture slots,
// e.g. KHR_materials_clearcoat or KHR_materials_sheen.
const materialExtPrefix = "KHR_materials_"

// extensionSlots collects every "...Texture" property of the KHR_materials_*
// extensions, ordered by extension and property name. Kinds read
// "<extension>/<property>".
func extensionSlots(exts gltf.Extensions) []slot {
	var names []string
	for name := range exts {
		if strings.HasPrefix(name, materialExtPrefix) {
			names = append(names, name)
		}
	}
	sort.Strings(names)

	var slots []slot
	for _, name := range names {
		raw, ok := rawJSON(exts[name])
		if !ok {
			continue
		}
		var props map[string]json.RawMessage
		if err := json.Unmarshal(raw, &props); err != nil {
			continue
		}

		keys := make([]string, 0, len(props))
		for k := range props {
			if strings.HasSuffix(k, "Texture") {
				keys = append(keys, k)
			}
		}
		sort.Strings(keys)

		for _, k := range keys {
			var info struct {
				Index *uint32 `json:"index"`
			}
			if err := json.Unmarshal(props[k], &info); err != nil || info.Index == nil {
				continue
			}
			slots = append(slots, slot{name + "/" + k, *info.Index})
		}
	}
	return slots
}

func newMaterial(d *Document, index int, m *gltf.Material) *Material {
	mat := &Material{index: index, mat: m}
	for _, s := range textureSlots(m) {
		if int(s.texture) >= len(d.doc.Textures) || d.doc.Textures[s.texture] == nil {
			mat.nodes = append(mat.nodes, &Node{kind: s.kind})
			continue
		}
		tex := d.doc.Textures[s.texture]

		bound := false
		if src, ok := webpSource(tex); ok {
			if img := d.image(src); img != nil {
				mat.nodes = append(mat.nodes, &Node{kind: s.kind + "/webp", image: img})
				bound = true
			}
		}
		if tex.Source != nil {
			if img := d.image(*tex.Source); img != nil {
				mat.nodes = append(mat.nodes, &Node{kind: s.kind, image: img})
				bound = true
			}
		}
		if !bound {
			mat.nodes = append(mat.nodes, &Node{kind: s.kind})
		}
	}
	return mat
}

// webpSource reads the image index from a texture's EXT_texture_webp
// extension.
func webpSource(tex *gltf.Texture) (uint32, bool) {
	ext, ok := tex.Extensions[ExtTextureWebP]
	if !ok || ext == nil {
		return 0, false
	}

	raw, ok := rawJSON(ext)
	if !ok {
		return 0, false
	}

	var body struct {
		Source *uint32 `json:"source"`
	}
	if err := json.Unmarshal(raw, &body); err != nil || body.Source == nil {
		return 0, false
	}
	return *body.Source, true
}

// rawJSON returns the JSON body of an extension value. Unregistered
// extensions decode as json.RawMessage; anything else is re-marshalled.
func rawJSON(v interface{}) ([]byte, bool) {
	switch v := v.(type) {
	case nil:
		return nil, false
	case json.RawMessage:
		return v, true
	case []byte:
		return v, true
	}
	b, err := json.Marshal(v)
	if err != nil {
		return nil, false
	}
	return b, true
}
