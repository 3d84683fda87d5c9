package renderer

import (
	"encoding/binary"
	"math"
	"testing"

	"github.com/chewxy/math32"
	"github.com/go-gl/mathgl/mgl32"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func readFloat(b []byte, offset int) float32 {
	return math.Float32frombits(binary.LittleEndian.Uint32(b[offset:]))
}

func TestGridRadiusBounds(t *testing.T) {
	const n = 100
	limit := float32(math.Sqrt2 * 0.5)
	for i := 0; i < n; i++ {
		for j := 0; j < n; j++ {
			r := GridRadius(i, j, n)
			assert.GreaterOrEqual(t, r, float32(0))
			assert.LessOrEqual(t, r, limit)
		}
	}
}

func TestComputePerMeshUniformsGroundIsConstant(t *testing.T) {
	data := make([]PerMeshUniforms, 1+4*4)
	for _, tm := range []float32{0, 0.5, 3, 1000} {
		ComputePerMeshUniforms(data, 4, tm, UniformModePerMesh)
		assert.Equal(t, float32(1), data[0].R)
		assert.Equal(t, float32(1), data[0].G)
		assert.Equal(t, float32(1), data[0].B)
		assert.Equal(t, float32(0), data[0].A)
	}
}

func TestComputePerMeshUniformsBuildings(t *testing.T) {
	const n = 4
	data := make([]PerMeshUniforms, 1+n*n)
	ComputePerMeshUniforms(data, n, 0.25, UniformModePerMesh)

	i, j := 3, 1
	got := data[1+i*n+j]
	radius := GridRadius(i, j, n)
	assert.InDelta(t, math32.Sin(RadiusScale*radius+0.25), got.R, 1e-6)
	assert.InDelta(t, math32.Cos(RadiusScale*radius+0.25), got.G, 1e-6)
	assert.Equal(t, radius, got.B)
	assert.Equal(t, float32(0), got.A)
	assert.Equal(t, float32(j)/n, got.U)
	assert.Equal(t, float32(i)/n, got.V)
}

func TestComputePerMeshUniformsShared(t *testing.T) {
	data := make([]PerMeshUniforms, 1+2*2)
	ComputePerMeshUniforms(data, 2, 1.5, UniformModeShared)
	assert.Equal(t, math32.Sin(1.5), data[0].R)
	assert.Equal(t, math32.Cos(1.5), data[0].G)
	assert.Equal(t, float32(1), data[0].B)
	assert.Equal(t, float32(0), data[0].A)
	assert.Equal(t, PerMeshUniforms{}, data[1])
}

func TestPackPerMeshUniforms(t *testing.T) {
	b := PackPerMeshUniforms([]PerMeshUniforms{
		{R: 1, G: 2, B: 3, A: 4, U: 5, V: 6},
		{R: 7},
	})
	require.Len(t, b, 2*PerMeshUniformsSize)
	for k, want := range []float32{1, 2, 3, 4, 5, 6, 7} {
		assert.Equal(t, want, readFloat(b, k*4))
	}
}

func TestTransformUniformsLayout(t *testing.T) {
	tu := TransformUniforms{
		ModelView:           mgl32.Translate3D(1, 2, 3),
		ModelViewProjection: mgl32.Scale3D(2, 2, 2),
		UseBindlessUniforms: true,
	}
	b := tu.Bytes()
	require.Len(t, b, TransformUniformsSize)
	// Column-major: the translation sits in elements 12..14.
	assert.Equal(t, float32(1), readFloat(b, 12*4))
	assert.Equal(t, float32(2), readFloat(b, 64))
	assert.Equal(t, uint32(1), binary.LittleEndian.Uint32(b[128:]))

	tu.UseBindlessUniforms = false
	assert.Equal(t, uint32(0), binary.LittleEndian.Uint32(tu.Bytes()[128:]))
}

func TestSplitAddress(t *testing.T) {
	lo, hi := SplitAddress(0x0000_0012_F000_0010)
	assert.Equal(t, int32(-0x0FFFFFF0), lo)
	assert.Equal(t, int32(0x12), hi)

	lo, hi = SplitAddress(0)
	assert.Zero(t, lo)
	assert.Zero(t, hi)
}

func TestUniformDistributorFullGrid(t *testing.T) {
	d := newFakeDevice()
	u := NewUniformDistributor(d, 100)
	require.Equal(t, 10001, u.Len())
	require.NoError(t, u.Update(0, UniformModePerMesh, true))

	base, err := u.BaseAddress()
	require.NoError(t, err)
	for k := 0; k < u.Len(); k++ {
		addr, err := u.MeshAddress(k)
		require.NoError(t, err)
		require.Equal(t, base+uint64(k)*PerMeshUniformsSize, addr)
	}
	_, err = u.MeshAddress(u.Len())
	assert.Error(t, err)
	assert.Len(t, d.buffers[u.Buffer().ID()], 10001*PerMeshUniformsSize)
}

func TestUniformDistributorRequeriesAfterUpload(t *testing.T) {
	d := newFakeDevice()
	u := NewUniformDistributor(d, 2)
	require.NoError(t, u.Update(0, UniformModePerMesh, true))
	first, err := u.BaseAddress()
	require.NoError(t, err)

	// A full upload without bindless leaves no usable address behind.
	require.NoError(t, u.Update(1, UniformModePerMesh, false))
	_, err = u.BaseAddress()
	assert.Error(t, err)

	require.NoError(t, u.Update(2, UniformModePerMesh, true))
	second, err := u.BaseAddress()
	require.NoError(t, err)
	assert.NotEqual(t, first, second)
	assert.True(t, d.resident[u.Buffer().ID()])
}

func TestUniformDistributorSharedWritesHeadOnly(t *testing.T) {
	d := newFakeDevice()
	u := NewUniformDistributor(d, 2)
	require.NoError(t, u.Update(0, UniformModePerMesh, true))
	before := append([]byte(nil), d.buffers[u.Buffer().ID()]...)
	addr, _ := u.BaseAddress()

	require.NoError(t, u.Update(1, UniformModeShared, true))
	after := d.buffers[u.Buffer().ID()]
	assert.Equal(t, before[PerMeshUniformsSize:], after[PerMeshUniformsSize:])
	assert.Equal(t, math32.Sin(1), readFloat(after, 0))

	// Sub-updates keep the store and its address.
	again, err := u.BaseAddress()
	require.NoError(t, err)
	assert.Equal(t, addr, again)
}

func TestUniformDistributorBindElement(t *testing.T) {
	d := newFakeDevice()
	u := NewUniformDistributor(d, 2)
	require.NoError(t, u.Update(0.5, UniformModePerMesh, false))
	require.NoError(t, u.BindElement(3))
	assert.Equal(t, u.Buffer().ID(), d.bindings[PerMeshBinding])
	assert.Equal(t, u.Data()[3].R, readFloat(d.buffers[u.Buffer().ID()], 0))
	assert.Error(t, u.BindElement(-1))
}
