package geometry

import (
	"fmt"

	"github.com/chewxy/math32"
	"github.com/go-gl/mathgl/mgl32"
	"golang.org/x/exp/rand"

	"github.com/spaghettifunk/bindless/engine/renderer/metadata"
)

const (
	// GroundGray is the color of every ground vertex.
	GroundGray float32 = 0.3

	verticesPerBox = 4 * 6
	indicesPerBox  = 6 * 6
)

var (
	GroundPosition  = mgl32.Vec3{0, -0.001, 0}
	GroundDimension = mgl32.Vec3{5, 0, 5}
)

// randomColor returns a color whose channels are (n % 255) / 255.
func randomColor(rng *rand.Rand) (r, g, b float32) {
	r = float32(rng.Uint32()%255) / 255
	g = float32(rng.Uint32()%255) / 255
	b = float32(rng.Uint32()%255) / 255
	return r, g, b
}

/**
 * @brief Generates a box with its base centered at pos. dim.y is the full
 * height; dim.x and dim.z are the full width and depth. Every face gets its
 * own random flat color.
 */
func Building(pos, dim mgl32.Vec3, uv mgl32.Vec2, rng *rand.Rand) *metadata.GeometryConfig {
	hx := dim.X() * 0.5
	hz := dim.Z() * 0.5

	minX, maxX := pos.X()-hx, pos.X()+hx
	minY, maxY := pos.Y(), pos.Y()+dim.Y()
	minZ, maxZ := pos.Z()-hz, pos.Z()+hz

	config := &metadata.GeometryConfig{
		Vertices: make([]metadata.Vertex, verticesPerBox),
		Indices:  make([]uint16, indicesPerBox),
		UV:       uv,
	}
	verts := config.Vertices

	face := func(i int, corners [4]mgl32.Vec3) {
		r, g, b := randomColor(rng)
		for c, p := range corners {
			verts[(i*4)+c] = metadata.NewVertex(p.X(), p.Y(), p.Z(), r, g, b, 1)
		}
	}

	// +Z face
	face(0, [4]mgl32.Vec3{{minX, minY, maxZ}, {maxX, minY, maxZ}, {maxX, maxY, maxZ}, {minX, maxY, maxZ}})
	// -Z face
	face(1, [4]mgl32.Vec3{{minX, maxY, minZ}, {maxX, maxY, minZ}, {maxX, minY, minZ}, {minX, minY, minZ}})
	// +X face
	face(2, [4]mgl32.Vec3{{maxX, minY, maxZ}, {maxX, minY, minZ}, {maxX, maxY, minZ}, {maxX, maxY, maxZ}})
	// -X face
	face(3, [4]mgl32.Vec3{{minX, maxY, maxZ}, {minX, maxY, minZ}, {minX, minY, minZ}, {minX, minY, maxZ}})
	// +Y face
	face(4, [4]mgl32.Vec3{{minX, maxY, maxZ}, {maxX, maxY, maxZ}, {maxX, maxY, minZ}, {minX, maxY, minZ}})
	// -Y face
	face(5, [4]mgl32.Vec3{{minX, minY, minZ}, {maxX, minY, minZ}, {maxX, minY, maxZ}, {minX, minY, maxZ}})

	for i := 0; i < 6; i++ {
		vOffset := uint16(i * 4)
		iOffset := i * 6
		config.Indices[iOffset+0] = vOffset + 0
		config.Indices[iOffset+1] = vOffset + 1
		config.Indices[iOffset+2] = vOffset + 2
		config.Indices[iOffset+3] = vOffset + 0
		config.Indices[iOffset+4] = vOffset + 2
		config.Indices[iOffset+5] = vOffset + 3
	}

	config.ComputeExtents()
	return config
}

/**
 * @brief Generates a flat +Y quad of size dim.x by dim.z centered at pos.
 */
func Ground(pos, dim mgl32.Vec3) *metadata.GeometryConfig {
	hx := dim.X() * 0.5
	hz := dim.Z() * 0.5
	g := GroundGray

	config := &metadata.GeometryConfig{
		Name: "ground",
		Vertices: []metadata.Vertex{
			metadata.NewVertex(-hx+pos.X(), pos.Y(), +hz+pos.Z(), g, g, g, 1),
			metadata.NewVertex(+hx+pos.X(), pos.Y(), +hz+pos.Z(), g, g, g, 1),
			metadata.NewVertex(+hx+pos.X(), pos.Y(), -hz+pos.Z(), g, g, g, 1),
			metadata.NewVertex(-hx+pos.X(), pos.Y(), -hz+pos.Z(), g, g, g, 1),
		},
		Indices: []uint16{0, 1, 2, 0, 2, 3},
	}
	config.ComputeExtents()
	return config
}

// BuildingIndex is the mesh index of the building at grid cell (i, k).
func BuildingIndex(i, k, gridSize int) int {
	return 1 + i*gridSize + k
}

/**
 * @brief Generates the ground followed by a gridSize x gridSize block of
 * buildings, in mesh index order.
 */
func City(gridSize int, rng *rand.Rand) []*metadata.GeometryConfig {
	configs := make([]*metadata.GeometryConfig, 0, 1+gridSize*gridSize)
	configs = append(configs, Ground(GroundPosition, GroundDimension))

	n := float32(gridSize)
	size := 0.025 * (100 / n)
	for i := 0; i < gridSize; i++ {
		for k := 0; k < gridSize; k++ {
			x := float32(i)/n - 0.5
			z := float32(k)/n - 0.5
			height := 0.2 + 0.1*math32.Sin(5*float32(i*k))

			b := Building(
				mgl32.Vec3{5 * x, 0, 5 * z},
				mgl32.Vec3{size, height, size},
				mgl32.Vec2{float32(k) / n, float32(i) / n},
				rng,
			)
			b.Name = fmt.Sprintf("building_%d_%d", i, k)
			configs = append(configs, b)
		}
	}
	return configs
}
