// Package gltftest builds small GLB models for tests.
package gltftest

import (
	"bytes"
	"image"
	"image/color"
	"os"
	"path/filepath"
	"testing"

	"github.com/qmuntal/gltf"
	"github.com/qmuntal/gltf/modeler"
	"github.com/stretchr/testify/require"

	"lv-glb-resizer/internal/texture"
)

// Builder accumulates images, textures and materials of one model.
type Builder struct {
	t   testing.TB
	Doc *gltf.Document
}

// New starts an empty model.
func New(t testing.TB) *Builder {
	return &Builder{t: t, Doc: gltf.NewDocument()}
}

// Pattern returns a w×h image with a horizontal gradient, so resampling
// changes bytes but keeps the image recognisable.
func Pattern(w, h int) *image.NRGBA {
	img := image.NewNRGBA(image.Rect(0, 0, w, h))
	for y := 0; y < h; y++ {
		for x := 0; x < w; x++ {
			img.SetNRGBA(x, y, color.NRGBA{R: uint8(x * 255 / max(1, w-1)), G: 128, B: uint8(y % 256), A: 255})
		}
	}
	return img
}

// Image embeds a w×h image encoded in format and returns its index.
func (b *Builder) Image(name, format string, w, h int) uint32 {
	data, err := texture.Encode(Pattern(w, h), format, texture.EncodeOptions{})
	require.NoError(b.t, err)
	return b.RawImage(name, texture.MIME(format), data)
}

// RawImage embeds an already encoded payload.
func (b *Builder) RawImage(name, mime string, data []byte) uint32 {
	idx, err := modeler.WriteImage(b.Doc, name, mime, bytes.NewReader(data))
	require.NoError(b.t, err)
	return idx
}

// Texture adds a texture sampling img and returns its index.
func (b *Builder) Texture(img uint32) uint32 {
	b.Doc.Textures = append(b.Doc.Textures, &gltf.Texture{Source: gltf.Index(img)})
	return uint32(len(b.Doc.Textures) - 1)
}

// WebPTexture adds a texture bound through EXT_texture_webp, with an
// optional core fallback image.
func (b *Builder) WebPTexture(img uint32, fallback *uint32) uint32 {
	b.Doc.Textures = append(b.Doc.Textures, &gltf.Texture{
		Source: fallback,
		Extensions: gltf.Extensions{
			"EXT_texture_webp": map[string]interface{}{"source": img},
		},
	})
	b.Doc.ExtensionsUsed = appendOnce(b.Doc.ExtensionsUsed, "EXT_texture_webp")
	return uint32(len(b.Doc.Textures) - 1)
}

// Material adds a material with base color and, optionally, normal texture.
func (b *Builder) Material(name string, baseColor *uint32, normal *uint32) uint32 {
	m := &gltf.Material{Name: name, PBRMetallicRoughness: &gltf.PBRMetallicRoughness{}}
	if baseColor != nil {
		m.PBRMetallicRoughness.BaseColorTexture = &gltf.TextureInfo{Index: *baseColor}
	}
	if normal != nil {
		m.NormalTexture = &gltf.NormalTexture{Index: gltf.Index(*normal)}
	}
	b.Doc.Materials = append(b.Doc.Materials, m)
	return uint32(len(b.Doc.Materials) - 1)
}

// Indices appends a small uint16 index accessor after whatever is already
// in the buffer and returns the accessor index.
func (b *Builder) Indices(values ...uint16) uint32 {
	if len(b.Doc.Buffers) == 0 {
		b.Doc.Buffers = append(b.Doc.Buffers, &gltf.Buffer{})
	}
	bin := b.Doc.Buffers[0]
	for len(bin.Data)%4 != 0 {
		bin.Data = append(bin.Data, 0)
	}
	offset := len(bin.Data)
	for _, v := range values {
		bin.Data = append(bin.Data, byte(v), byte(v>>8))
	}
	bin.ByteLength = uint32(len(bin.Data))

	b.Doc.BufferViews = append(b.Doc.BufferViews, &gltf.BufferView{
		Buffer:     0,
		ByteOffset: uint32(offset),
		ByteLength: uint32(len(values) * 2),
		Target:     gltf.TargetElementArrayBuffer,
	})
	b.Doc.Accessors = append(b.Doc.Accessors, &gltf.Accessor{
		BufferView:    gltf.Index(uint32(len(b.Doc.BufferViews) - 1)),
		ComponentType: gltf.ComponentUshort,
		Count:         uint32(len(values)),
		Type:          gltf.AccessorScalar,
	})
	return uint32(len(b.Doc.Accessors) - 1)
}

// Save writes the model as GLB, creating parent directories.
func (b *Builder) Save(path string) string {
	require.NoError(b.t, os.MkdirAll(filepath.Dir(path), 0755))
	require.NoError(b.t, gltf.SaveBinary(b.Doc, path))
	return path
}

// Ptr returns a pointer to v.
func Ptr(v uint32) *uint32 { return &v }

func appendOnce(list []string, s string) []string {
	for _, v := range list {
		if v == s {
			return list
		}
	}
	return append(list, s)
}
