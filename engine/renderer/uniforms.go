package renderer

import (
	"fmt"

	"github.com/chewxy/math32"
	"github.com/go-gl/mathgl/mgl32"

	"github.com/spaghettifunk/bindless/engine/core"
	"github.com/spaghettifunk/bindless/engine/renderer/metadata"
)

const (
	// Uniform block binding points, matching the shader's layout qualifiers.
	TransformBinding uint32 = 2
	PerMeshBinding   uint32 = 3

	// PerMeshUniformsSize is the stride of the tightly packed per-mesh array
	// as read through the shader pointer.
	PerMeshUniformsSize = 24
	// TransformUniformsSize is the std140 size of the transform block.
	TransformUniformsSize = 144

	// RadiusScale is the wave number of the per-mesh color ripple.
	RadiusScale float32 = -40
)

// UniformMode selects how per-mesh parameters are computed.
type UniformMode uint8

const (
	// Every mesh gets its own color from its grid position.
	UniformModePerMesh UniformMode = iota
	// A single time-animated block shared by every mesh.
	UniformModeShared
)

func (m UniformMode) String() string {
	if m == UniformModeShared {
		return "shared"
	}
	return "per-mesh"
}

type PerMeshUniforms struct {
	R, G, B, A float32
	U, V       float32
}

func (p PerMeshUniforms) put(dst []byte, offset int) {
	metadata.PutFloat32(dst, offset, p.R)
	metadata.PutFloat32(dst, offset+4, p.G)
	metadata.PutFloat32(dst, offset+8, p.B)
	metadata.PutFloat32(dst, offset+12, p.A)
	metadata.PutFloat32(dst, offset+16, p.U)
	metadata.PutFloat32(dst, offset+20, p.V)
}

func (p PerMeshUniforms) Bytes() []byte {
	out := make([]byte, PerMeshUniformsSize)
	p.put(out, 0)
	return out
}

func PackPerMeshUniforms(data []PerMeshUniforms) []byte {
	out := make([]byte, len(data)*PerMeshUniformsSize)
	for i, p := range data {
		p.put(out, i*PerMeshUniformsSize)
	}
	return out
}

type TransformUniforms struct {
	ModelView           mgl32.Mat4
	ModelViewProjection mgl32.Mat4
	UseBindlessUniforms bool
}

// Bytes lays the block out in std140: two mat4 then an int, padded to 16.
func (t TransformUniforms) Bytes() []byte {
	out := make([]byte, TransformUniformsSize)
	metadata.PutMat4(out, 0, t.ModelView)
	metadata.PutMat4(out, 64, t.ModelViewProjection)
	if t.UseBindlessUniforms {
		out[128] = 1
	}
	return out
}

// GridCoordinates returns the centered coordinates of cell (i, j) of an
// n×n grid, both in [-0.5, 0.5).
func GridCoordinates(i, j, n int) (x, z float32) {
	x = float32(i)/float32(n) - 0.5
	z = float32(j)/float32(n) - 0.5
	return x, z
}

// GridRadius is the distance of cell (i, j) from the grid center.
func GridRadius(i, j, n int) float32 {
	x, z := GridCoordinates(i, j, n)
	return math32.Sqrt(x*x + z*z)
}

// ComputePerMeshUniforms fills dst for time t. dst[0] is the ground; the
// building at grid cell (i, j) is dst[1+i*gridSize+j]. In shared mode only
// dst[0] is written.
func ComputePerMeshUniforms(dst []PerMeshUniforms, gridSize int, t float32, mode UniformMode) {
	if len(dst) == 0 {
		return
	}
	if mode == UniformModeShared {
		dst[0].R = math32.Sin(t)
		dst[0].G = math32.Cos(t)
		dst[0].B = 1
		dst[0].A = 0
		return
	}

	dst[0].R = 1
	dst[0].G = 1
	dst[0].B = 1
	dst[0].A = 0

	index := 1
	for i := 0; i < gridSize; i++ {
		for j := 0; j < gridSize; j, index = j+1, index+1 {
			if index >= len(dst) {
				return
			}
			radius := GridRadius(i, j, gridSize)
			dst[index] = PerMeshUniforms{
				R: math32.Sin(RadiusScale*radius + t),
				G: math32.Cos(RadiusScale*radius + t),
				B: radius,
				A: 0,
				U: float32(j) / float32(gridSize),
				V: float32(i) / float32(gridSize),
			}
		}
	}
}

// UniformDistributor owns the transform and per-mesh uniform buffers and
// hands out either bind points or raw addresses for them.
type UniformDistributor struct {
	device    Device
	gridSize  int
	data      []PerMeshUniforms
	perMesh   *ResidentBuffer
	transform *ResidentBuffer
	time      float32
}

// NewUniformDistributor allocates storage for the ground plus gridSize²
// buildings.
func NewUniformDistributor(device Device, gridSize int) *UniformDistributor {
	u := &UniformDistributor{
		device:    device,
		gridSize:  gridSize,
		data:      make([]PerMeshUniforms, 1+gridSize*gridSize),
		perMesh:   NewResidentBuffer(device, BufferUsageStream),
		transform: NewResidentBuffer(device, BufferUsageStream),
	}
	u.transform.Upload(make([]byte, TransformUniformsSize))
	return u
}

// Len is the number of per-mesh entries.
func (u *UniformDistributor) Len() int {
	return len(u.data)
}

func (u *UniformDistributor) Data() []PerMeshUniforms {
	return u.data
}

// Time is the t of the last Update.
func (u *UniformDistributor) Time() float32 {
	return u.time
}

func (u *UniformDistributor) Buffer() *ResidentBuffer {
	return u.perMesh
}

// Update recomputes the per-mesh values for t and gives them to the GPU:
// the whole array in per-mesh mode, only the first element in shared mode.
// With bindless set the buffer address is queried again afterwards.
func (u *UniformDistributor) Update(t float32, mode UniformMode, bindless bool) error {
	u.time = t
	ComputePerMeshUniforms(u.data, u.gridSize, t, mode)

	total := len(u.data) * PerMeshUniformsSize
	if mode == UniformModePerMesh || u.perMesh.Size() < total {
		u.perMesh.Upload(PackPerMeshUniforms(u.data))
	} else if err := u.perMesh.Update(0, u.data[0].Bytes()); err != nil {
		return err
	}

	if bindless {
		return u.perMesh.MakeResident()
	}
	return nil
}

// EnsureResident pins the per-mesh buffer without recomputing anything.
func (u *UniformDistributor) EnsureResident() error {
	if u.perMesh.Size() == 0 {
		u.perMesh.Upload(PackPerMeshUniforms(u.data))
	}
	return u.perMesh.MakeResident()
}

// SetTransforms binds the transform block and rewrites it.
func (u *UniformDistributor) SetTransforms(t TransformUniforms) error {
	u.device.BindUniformBuffer(TransformBinding, u.transform.ID())
	return u.transform.Update(0, t.Bytes())
}

// BaseAddress is the address of entry 0 as of the latest upload.
func (u *UniformDistributor) BaseAddress() (uint64, error) {
	r, err := u.perMesh.Address()
	if err != nil {
		return 0, err
	}
	return r.Address, nil
}

// MeshAddress is the address of entry index: base + index*24.
func (u *UniformDistributor) MeshAddress(index int) (uint64, error) {
	if index < 0 || index >= len(u.data) {
		return 0, fmt.Errorf("per-mesh entry %d of %d: %w", index, len(u.data), core.ErrOutOfRange)
	}
	base, err := u.BaseAddress()
	if err != nil {
		return 0, err
	}
	return base + uint64(index)*PerMeshUniformsSize, nil
}

// BindElement copies entry index into the head of the buffer and binds it
// at PerMeshBinding, the bound path's per-draw update.
func (u *UniformDistributor) BindElement(index int) error {
	if index < 0 || index >= len(u.data) {
		return fmt.Errorf("per-mesh entry %d of %d: %w", index, len(u.data), core.ErrOutOfRange)
	}
	if u.perMesh.Size() == 0 {
		u.perMesh.Upload(PackPerMeshUniforms(u.data))
	}
	u.device.BindUniformBuffer(PerMeshBinding, u.perMesh.ID())
	return u.perMesh.Update(0, u.data[index].Bytes())
}

func (u *UniformDistributor) Destroy() {
	u.perMesh.Destroy()
	u.transform.Destroy()
}

// SplitAddress splits a 64-bit GPU address into the low and high 32-bit
// halves of an ivec2 vertex attribute.
func SplitAddress(address uint64) (lo, hi int32) {
	return int32(uint32(address & 0xFFFFFFFF)), int32(uint32(address >> 32))
}
