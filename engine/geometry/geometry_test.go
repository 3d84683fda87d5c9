package geometry

import (
	"testing"

	"github.com/go-gl/mathgl/mgl32"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"golang.org/x/exp/rand"
)

func TestBuildingShape(t *testing.T) {
	rng := rand.New(rand.NewSource(1))
	b := Building(mgl32.Vec3{1, 0.5, -2}, mgl32.Vec3{0.2, 0.3, 0.4}, mgl32.Vec2{0.25, 0.75}, rng)

	require.Len(t, b.Vertices, 24)
	require.Len(t, b.Indices, 36)
	assert.Equal(t, mgl32.Vec2{0.25, 0.75}, b.UV)

	assert.InDelta(t, 0.9, b.MinExtents.X(), 1e-6)
	assert.InDelta(t, 1.1, b.MaxExtents.X(), 1e-6)
	assert.InDelta(t, 0.5, b.MinExtents.Y(), 1e-6)
	assert.InDelta(t, 0.8, b.MaxExtents.Y(), 1e-6)
	assert.InDelta(t, -2.2, b.MinExtents.Z(), 1e-6)
	assert.InDelta(t, -1.8, b.MaxExtents.Z(), 1e-6)

	for _, idx := range b.Indices {
		assert.Less(t, int(idx), len(b.Vertices))
	}
}

func TestBuildingFacesAreFlatColored(t *testing.T) {
	rng := rand.New(rand.NewSource(7))
	b := Building(mgl32.Vec3{}, mgl32.Vec3{1, 1, 1}, mgl32.Vec2{}, rng)
	for f := 0; f < 6; f++ {
		c := b.Vertices[f*4].Color
		for v := 1; v < 4; v++ {
			assert.Equal(t, c, b.Vertices[f*4+v].Color)
		}
		assert.Equal(t, float32(1), c.W())
		for ch := 0; ch < 3; ch++ {
			assert.GreaterOrEqual(t, c[ch], float32(0))
			assert.Less(t, c[ch], float32(1))
		}
	}
}

func TestBuildingFaceNormals(t *testing.T) {
	rng := rand.New(rand.NewSource(3))
	b := Building(mgl32.Vec3{}, mgl32.Vec3{1, 1, 1}, mgl32.Vec2{}, rng)
	// Face order is +Z, -Z, +X, -X, +Y, -Y; winding 0,1,2 faces outwards.
	want := []mgl32.Vec3{{0, 0, 1}, {0, 0, -1}, {1, 0, 0}, {-1, 0, 0}, {0, 1, 0}, {0, -1, 0}}
	for f, n := range want {
		p0 := b.Vertices[b.Indices[f*6+0]].Position
		p1 := b.Vertices[b.Indices[f*6+1]].Position
		p2 := b.Vertices[b.Indices[f*6+2]].Position
		normal := p1.Sub(p0).Cross(p2.Sub(p0)).Normalize()
		assert.True(t, normal.ApproxEqual(n), "face %d normal %v", f, normal)
	}
}

func TestGround(t *testing.T) {
	g := Ground(GroundPosition, GroundDimension)
	require.Len(t, g.Vertices, 4)
	assert.Equal(t, []uint16{0, 1, 2, 0, 2, 3}, g.Indices)
	for _, v := range g.Vertices {
		assert.Equal(t, mgl32.Vec4{GroundGray, GroundGray, GroundGray, 1}, v.Color)
		assert.Equal(t, float32(-0.001), v.Position.Y())
	}
	assert.Equal(t, mgl32.Vec3{-2.5, -0.001, -2.5}, g.MinExtents)
	assert.Equal(t, mgl32.Vec3{2.5, -0.001, 2.5}, g.MaxExtents)
}

func TestCityFullGrid(t *testing.T) {
	city := City(100, rand.New(rand.NewSource(42)))
	require.Len(t, city, 10001)
	assert.Equal(t, "ground", city[0].Name)

	b := city[BuildingIndex(3, 7, 100)]
	assert.Equal(t, "building_3_7", b.Name)
	assert.InDelta(t, 0.07, b.UV.X(), 1e-6)
	assert.InDelta(t, 0.03, b.UV.Y(), 1e-6)
	// size = 0.025 * (100 / N) = 0.025 for N = 100
	assert.InDelta(t, 0.025, b.MaxExtents.X()-b.MinExtents.X(), 1e-5)
}

func TestCityHeights(t *testing.T) {
	city := City(4, rand.New(rand.NewSource(42)))
	require.Len(t, city, 17)
	for _, b := range city[1:] {
		h := b.MaxExtents.Y() - b.MinExtents.Y()
		assert.GreaterOrEqual(t, h, float32(0.1))
		assert.LessOrEqual(t, h, float32(0.3)+1e-6)
		assert.Zero(t, b.MinExtents.Y())
	}
	// Row 0 has sin(0) = 0.
	assert.InDelta(t, 0.2, city[BuildingIndex(0, 3, 4)].MaxExtents.Y(), 1e-6)
}

func TestCityIsDeterministicForSeed(t *testing.T) {
	a := City(3, rand.New(rand.NewSource(9)))
	b := City(3, rand.New(rand.NewSource(9)))
	assert.Equal(t, a, b)
}
