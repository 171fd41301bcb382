package gltfhost

import (
	"testing"

	"github.com/qmuntal/gltf"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestEmbedImagesInPlaceShiftsLaterViews(t *testing.T) {
	doc := &gltf.Document{
		Buffers: []*gltf.Buffer{{Data: []byte("AAAAAAAABBBB"), ByteLength: 12}},
		BufferViews: []*gltf.BufferView{
			{Buffer: 0, ByteOffset: 0, ByteLength: 8},
			{Buffer: 0, ByteOffset: 8, ByteLength: 4},
		},
		Accessors: []*gltf.Accessor{{BufferView: gltf.Index(1)}},
		Images:    []*gltf.Image{{BufferView: gltf.Index(0), MimeType: "image/png"}},
	}

	require.NoError(t, embedImages(doc, map[int]payload{0: {data: []byte("xy"), mime: "image/webp"}}))

	assert.Equal(t, uint32(0), doc.BufferViews[0].ByteOffset)
	assert.Equal(t, uint32(2), doc.BufferViews[0].ByteLength)
	assert.Equal(t, uint32(4), doc.BufferViews[1].ByteOffset)
	assert.Equal(t, []byte("xy\x00\x00BBBB"), doc.Buffers[0].Data)
	assert.Equal(t, uint32(8), doc.Buffers[0].ByteLength)
	assert.Equal(t, "image/webp", doc.Images[0].MimeType)
	assert.Len(t, doc.BufferViews, 2)
}

func TestEmbedImagesAppendsSharedAndExternal(t *testing.T) {
	doc := &gltf.Document{
		Buffers:     []*gltf.Buffer{{Data: []byte("AAAA"), ByteLength: 4}},
		BufferViews: []*gltf.BufferView{{Buffer: 0, ByteOffset: 0, ByteLength: 4}},
		Images: []*gltf.Image{
			{BufferView: gltf.Index(0)},
			{BufferView: gltf.Index(0)},
			{URI: "textures/wood.png"},
		},
	}

	require.NoError(t, embedImages(doc, map[int]payload{
		0: {data: []byte("zz"), mime: "image/png"},
		2: {data: []byte("wood"), mime: "image/png"},
	}))

	require.Len(t, doc.BufferViews, 3)
	assert.Equal(t, uint32(1), *doc.Images[0].BufferView)
	assert.Equal(t, uint32(0), *doc.Images[1].BufferView)
	assert.Equal(t, uint32(2), *doc.Images[2].BufferView)
	assert.Equal(t, "", doc.Images[2].URI)
	assert.Equal(t, []byte("AAAAzz\x00\x00wood"), doc.Buffers[0].Data)
}

func TestEmbedImagesOverlapFallsBackToAppend(t *testing.T) {
	doc := &gltf.Document{
		Buffers: []*gltf.Buffer{{Data: []byte("AAAAAAAA"), ByteLength: 8}},
		BufferViews: []*gltf.BufferView{
			{Buffer: 0, ByteOffset: 0, ByteLength: 8},
			{Buffer: 0, ByteOffset: 4, ByteLength: 4},
		},
		Images: []*gltf.Image{{BufferView: gltf.Index(0)}},
	}

	require.NoError(t, embedImages(doc, map[int]payload{0: {data: []byte("new"), mime: "image/png"}}))

	assert.Equal(t, uint32(2), *doc.Images[0].BufferView)
	assert.Equal(t, uint32(4), doc.BufferViews[1].ByteOffset)
	assert.Equal(t, []byte("AAAAAAAAnew"), doc.Buffers[0].Data)
}

func TestEmbedImagesCreatesBuffer(t *testing.T) {
	doc := &gltf.Document{Images: []*gltf.Image{{URI: "a.png"}}}
	require.NoError(t, embedImages(doc, map[int]payload{0: {data: []byte("png!"), mime: "image/png"}}))
	require.Len(t, doc.Buffers, 1)
	assert.Equal(t, uint32(4), doc.Buffers[0].ByteLength)
}

func TestEmbedImagesRejectsExternalBinBuffer(t *testing.T) {
	doc := &gltf.Document{
		Buffers: []*gltf.Buffer{{URI: "model.bin"}},
		Images:  []*gltf.Image{{URI: "a.png"}},
	}
	assert.Error(t, embedImages(doc, map[int]payload{0: {data: []byte("x")}}))
}
