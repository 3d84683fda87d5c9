package metadata

import (
	"encoding/binary"
	"math"

	"github.com/go-gl/mathgl/mgl32"
)

// PutFloat32 writes v at offset in the native GPU byte order.
func PutFloat32(dst []byte, offset int, v float32) {
	binary.LittleEndian.PutUint32(dst[offset:], math.Float32bits(v))
}

// PutMat4 writes a column-major matrix, 64 bytes.
func PutMat4(dst []byte, offset int, m mgl32.Mat4) {
	for i, v := range m {
		PutFloat32(dst, offset+i*4, v)
	}
}

// PackVertices lays the vertices out as consecutive 7-float records.
func PackVertices(vertices []Vertex) []byte {
	out := make([]byte, len(vertices)*VertexSize)
	for i, v := range vertices {
		base := i * VertexSize
		for c := 0; c < 3; c++ {
			PutFloat32(out, base+c*4, v.Position[c])
		}
		for c := 0; c < 4; c++ {
			PutFloat32(out, base+VertexColorOffset+c*4, v.Color[c])
		}
	}
	return out
}

func PackIndices(indices []uint16) []byte {
	out := make([]byte, len(indices)*2)
	for i, idx := range indices {
		binary.LittleEndian.PutUint16(out[i*2:], idx)
	}
	return out
}
