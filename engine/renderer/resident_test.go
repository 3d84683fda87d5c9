package renderer

import (
	"errors"
	"fmt"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/spaghettifunk/bindless/engine/core"
	"github.com/spaghettifunk/bindless/engine/renderer/metadata"
)

func TestResidentBufferAddressLifecycle(t *testing.T) {
	d := newFakeDevice()
	b := NewResidentBuffer(d, BufferUsageStatic)

	_, err := b.Address()
	assert.ErrorIs(t, err, core.ErrNotResident)

	b.Upload(make([]byte, 64))
	require.NoError(t, b.MakeResident())
	r, err := b.Address()
	require.NoError(t, err)
	assert.Equal(t, 64, r.Size)
	assert.True(t, d.resident[b.ID()])

	b.Upload(make([]byte, 128))
	_, err = b.Address()
	assert.ErrorIs(t, err, core.ErrStaleAddress)
	assert.False(t, b.IsResident())
	assert.False(t, d.resident[b.ID()])

	require.NoError(t, b.MakeResident())
	r2, err := b.Address()
	require.NoError(t, err)
	assert.NotEqual(t, r.Address, r2.Address)
	assert.Equal(t, 128, r2.Size)

	b.Release()
	_, err = b.Address()
	assert.ErrorIs(t, err, core.ErrNotResident)
}

func TestResidentBufferUnsupported(t *testing.T) {
	d := newFakeDevice()
	d.caps[CapabilityShaderBufferLoad] = false
	b := NewResidentBuffer(d, BufferUsageStatic)
	b.Upload(make([]byte, 8))
	assert.ErrorIs(t, b.MakeResident(), core.ErrUnsupported)
}

func TestResidentBufferUpdateKeepsAddress(t *testing.T) {
	d := newFakeDevice()
	b := NewResidentBuffer(d, BufferUsageStream)
	b.Upload(make([]byte, 16))
	require.NoError(t, b.MakeResident())
	before, _ := b.Address()

	require.NoError(t, b.Update(8, []byte{1, 2, 3, 4}))
	after, err := b.Address()
	require.NoError(t, err)
	assert.Equal(t, before, after)
	assert.Equal(t, byte(3), d.buffers[b.ID()][10])

	assert.ErrorIs(t, b.Update(14, []byte{1, 2, 3}), core.ErrOutOfRange)
}

func TestResidentBufferDestroy(t *testing.T) {
	d := newFakeDevice()
	b := NewResidentBuffer(d, BufferUsageStatic)
	id := b.ID()
	b.Upload(make([]byte, 4))
	require.NoError(t, b.MakeResident())
	b.Destroy()
	b.Destroy()
	assert.NotContains(t, d.buffers, id)
	assert.False(t, d.resident[id])
}

func quad(name string) *metadata.GeometryConfig {
	return &metadata.GeometryConfig{
		Name: name,
		Vertices: []metadata.Vertex{
			metadata.NewVertex(0, 0, 0, 1, 1, 1, 1),
			metadata.NewVertex(1, 0, 0, 1, 1, 1, 1),
			metadata.NewVertex(1, 0, 1, 1, 1, 1, 1),
			metadata.NewVertex(0, 0, 1, 1, 1, 1, 1),
		},
		Indices: []uint16{0, 1, 2, 0, 2, 3},
	}
}

func TestMeshRenderPaths(t *testing.T) {
	d := newFakeDevice()
	m := newMesh(d, quad("ground"))
	assert.Equal(t, 4, m.VertexCount())
	assert.Equal(t, int32(6), m.IndexCount())
	assert.Len(t, d.buffers[m.VertexBuffer().ID()], 4*metadata.VertexSize)

	n, err := m.Render(d, &metadata.VertexLayoutStandard, true, 3)
	require.NoError(t, err)
	assert.Equal(t, 3, n)
	assert.Equal(t, 1, d.unifiedDraw)
	assert.True(t, m.IsResident())

	n, err = m.Render(d, &metadata.VertexLayoutStandard, false, 2)
	require.NoError(t, err)
	assert.Equal(t, 2, n)
	assert.Equal(t, 1, d.boundDraw)
	assert.Equal(t, 5, d.draws)
}

func TestMeshUnifiedRenderSkipsCapabilityQueries(t *testing.T) {
	d := newFakeDevice()
	m := newMesh(d, quad("ground"))
	queries := d.supportsCalls
	for i := 0; i < 100; i++ {
		_, err := m.Render(d, &metadata.VertexLayoutStandard, true, 1)
		require.NoError(t, err)
	}
	assert.Equal(t, queries, d.supportsCalls)
	assert.Equal(t, 100, d.unifiedDraw)
}

func TestMeshUnifiedRenderNeedsCapability(t *testing.T) {
	d := newFakeDevice()
	d.caps[CapabilityShaderBufferLoad] = false
	m := newMesh(d, quad("ground"))
	_, err := m.Render(d, &metadata.VertexLayoutStandard, true, 1)
	assert.ErrorIs(t, err, core.ErrUnsupported)
	assert.Zero(t, d.draws)
}

func frameImage(i int) (*metadata.TextureImage, error) {
	return &metadata.TextureImage{
		Name:   fmt.Sprintf("NV%d.dds", i),
		Width:  4,
		Height: 4,
		Format: metadata.TextureFormatRGBA8,
		Levels: [][]byte{make([]byte, 64)},
	}, nil
}

func TestTextureResidencySetLoadAndDestroy(t *testing.T) {
	d := newFakeDevice()
	s := NewTextureResidencySet(d)
	require.NoError(t, s.Load(TextureFrameCount, frameImage))
	assert.Equal(t, TextureFrameCount, s.Len())
	assert.Equal(t, TextureFrameCount, d.residentHandles())
	assert.True(t, s.IsResident())
	assert.Equal(t, s.Texture(0), s.Texture(TextureFrameCount))

	d.calls = nil
	s.Destroy()
	assert.Zero(t, d.residentHandles())
	assert.Empty(t, d.textures)
	require.Len(t, d.calls, 2*TextureFrameCount)
	// Every handle is released before the first texture goes away.
	for i := 0; i < TextureFrameCount; i++ {
		assert.Contains(t, d.calls[i], "release handle")
	}
}

func TestTextureResidencySetFailureIsTotal(t *testing.T) {
	d := newFakeDevice()
	d.failTexture = 10
	s := NewTextureResidencySet(d)
	err := s.Load(TextureFrameCount, frameImage)
	assert.ErrorIs(t, err, core.ErrTextureLoad)
	assert.Zero(t, s.Len())
	assert.Empty(t, d.textures)
	assert.Zero(t, d.residentHandles())

	missing := errors.New("no such file")
	err = s.Load(3, func(i int) (*metadata.TextureImage, error) {
		if i == 2 {
			return nil, missing
		}
		return frameImage(i)
	})
	assert.ErrorIs(t, err, missing)
	assert.ErrorIs(t, err, core.ErrTextureLoad)
	assert.Empty(t, d.textures)
}

func TestTextureResidencySetUnsupported(t *testing.T) {
	d := newFakeDevice()
	d.caps[CapabilityBindlessTexture] = false
	s := NewTextureResidencySet(d)
	assert.ErrorIs(t, s.Load(1, frameImage), core.ErrUnsupported)
}
