package metadata

import "github.com/go-gl/mathgl/mgl32"

/** @brief Size in bytes of a packed Vertex. */
const VertexSize = 28

/** @brief Byte offset of the color inside a packed Vertex. */
const VertexColorOffset = 12

/**
 * @brief A position + color vertex. Packed tightly as 7 float32.
 */
type Vertex struct {
	Position mgl32.Vec3
	Color    mgl32.Vec4
}

func NewVertex(x, y, z, r, g, b, a float32) Vertex {
	return Vertex{
		Position: mgl32.Vec3{x, y, z},
		Color:    mgl32.Vec4{r, g, b, a},
	}
}

/**
 * @brief A single shader input fed from the vertex buffer.
 */
type VertexAttribute struct {
	/** @brief The shader attribute location. */
	Location uint32
	/** @brief Number of float components. */
	Components int32
	/** @brief Byte offset inside a Vertex. */
	Offset uint32
}

/**
 * @brief Describes how raw vertex bytes map onto shader inputs.
 */
type VertexLayout struct {
	Name       string
	Stride     int32
	Attributes []VertexAttribute
}

const (
	AttributePosition uint32 = 0
	AttributeColor    uint32 = 1
)

var (
	/** @brief Position and color only. */
	VertexLayoutStandard = VertexLayout{
		Name:   "standard",
		Stride: VertexSize,
		Attributes: []VertexAttribute{
			{Location: AttributePosition, Components: 3, Offset: 0},
			{Location: AttributeColor, Components: 4, Offset: VertexColorOffset},
		},
	}

	/**
	 * @brief Standard layout plus four extra streams aliasing the same
	 * bytes. The shader folds them in with zero weight; they exist to
	 * make vertex format changes more expensive.
	 */
	VertexLayoutHeavy = VertexLayout{
		Name:   "heavy",
		Stride: VertexSize,
		Attributes: []VertexAttribute{
			{Location: AttributePosition, Components: 3, Offset: 0},
			{Location: AttributeColor, Components: 4, Offset: VertexColorOffset},
			{Location: 2, Components: 3, Offset: 0},
			{Location: 3, Components: 4, Offset: VertexColorOffset},
			{Location: 4, Components: 3, Offset: 0},
			{Location: 5, Components: 4, Offset: VertexColorOffset},
		},
	}
)
