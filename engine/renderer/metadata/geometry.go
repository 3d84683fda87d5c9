package metadata

import (
	"github.com/go-gl/mathgl/mgl32"
)

/**
 * @brief Represents the configuration for a geometry: the CPU side
 * vertex and index lists that get uploaded into one mesh.
 */
type GeometryConfig struct {
	/** @brief The Name of the geometry. */
	Name string
	/** @brief An array of Vertices. */
	Vertices []Vertex
	/** @brief An array of 16-bit Indices. */
	Indices []uint16
	/** @brief Where the mesh samples the animated texture. */
	UV mgl32.Vec2

	MinExtents mgl32.Vec3
	MaxExtents mgl32.Vec3
}

/** @brief Recomputes MinExtents and MaxExtents from the vertices. */
func (g *GeometryConfig) ComputeExtents() {
	if len(g.Vertices) == 0 {
		g.MinExtents = mgl32.Vec3{}
		g.MaxExtents = mgl32.Vec3{}
		return
	}
	g.MinExtents = g.Vertices[0].Position
	g.MaxExtents = g.Vertices[0].Position
	for _, v := range g.Vertices[1:] {
		for i := 0; i < 3; i++ {
			if v.Position[i] < g.MinExtents[i] {
				g.MinExtents[i] = v.Position[i]
			}
			if v.Position[i] > g.MaxExtents[i] {
				g.MaxExtents[i] = v.Position[i]
			}
		}
	}
}
