package renderer

import (
	"fmt"

	"github.com/spaghettifunk/bindless/engine/core"
	"github.com/spaghettifunk/bindless/engine/renderer/metadata"
)

// fakeDevice records what the renderer asks of the GPU. Buffer addresses
// change on every BufferData so stale addresses are observable.
type fakeDevice struct {
	caps          map[Capability]bool
	supportsCalls int

	nextID      uint32
	nextAddress uint64
	buffers     map[uint32][]byte
	addresses   map[uint32]uint64
	resident    map[uint32]bool
	bindings    map[uint32]uint32

	textures        map[uint32]bool
	handleResident  map[uint64]bool
	boundTexture    uint32
	releasedHandles []uint64
	deletedTextures []uint32
	failTexture     int

	attribs     map[uint32][2]int32
	draws       int
	formatBegin int
	formatEnd   int
	unifiedDraw int
	boundDraw   int
	calls       []string

	programs   int
	failShader bool
	program    *fakeProgram
}

func newFakeDevice() *fakeDevice {
	return &fakeDevice{
		caps: map[Capability]bool{
			CapabilityUnifiedVertexMemory: true,
			CapabilityShaderBufferLoad:    true,
			CapabilityDirectStateAccess:   true,
			CapabilityBindlessTexture:     true,
		},
		nextAddress:    0x1_0000_0000,
		buffers:        map[uint32][]byte{},
		addresses:      map[uint32]uint64{},
		resident:       map[uint32]bool{},
		bindings:       map[uint32]uint32{},
		textures:       map[uint32]bool{},
		handleResident: map[uint64]bool{},
		attribs:        map[uint32][2]int32{},
		failTexture:    -1,
	}
}

func (d *fakeDevice) record(format string, args ...interface{}) {
	d.calls = append(d.calls, fmt.Sprintf(format, args...))
}

func (d *fakeDevice) Describe() (string, string) {
	return "fake renderer", "4.6 fake"
}

func (d *fakeDevice) Supports(c Capability) bool {
	d.supportsCalls++
	return d.caps[c]
}

func (d *fakeDevice) CreateBuffer() uint32 {
	d.nextID++
	d.buffers[d.nextID] = nil
	return d.nextID
}

func (d *fakeDevice) DeleteBuffer(buffer uint32) {
	delete(d.buffers, buffer)
	delete(d.addresses, buffer)
	d.record("delete buffer %d", buffer)
}

func (d *fakeDevice) BufferData(buffer uint32, data []byte, usage BufferUsage) {
	d.buffers[buffer] = append([]byte(nil), data...)
	d.nextAddress += 0x10000
	d.addresses[buffer] = d.nextAddress
	d.resident[buffer] = false
}

func (d *fakeDevice) BufferSubData(buffer uint32, offset int, data []byte) {
	copy(d.buffers[buffer][offset:], data)
}

func (d *fakeDevice) BufferAddress(buffer uint32) AddressRange {
	return AddressRange{Address: d.addresses[buffer], Size: len(d.buffers[buffer])}
}

func (d *fakeDevice) MakeBufferResident(buffer uint32) {
	d.resident[buffer] = true
}

func (d *fakeDevice) MakeBufferNonResident(buffer uint32) {
	d.resident[buffer] = false
}

func (d *fakeDevice) BindUniformBuffer(binding uint32, buffer uint32) {
	d.bindings[binding] = buffer
}

func (d *fakeDevice) BeginVertexFormat(layout *metadata.VertexLayout, unified bool) {
	d.formatBegin++
	d.record("begin format %s unified=%t", layout.Name, unified)
}

func (d *fakeDevice) EndVertexFormat(layout *metadata.VertexLayout, unified bool) {
	d.formatEnd++
	d.record("end format %s", layout.Name)
}

func (d *fakeDevice) BindVertexBuffers(layout *metadata.VertexLayout, vertexBuffer, indexBuffer uint32) {
	d.boundDraw++
}

func (d *fakeDevice) BindVertexAddresses(layout *metadata.VertexLayout, vertices, indices AddressRange) {
	d.unifiedDraw++
}

func (d *fakeDevice) DrawIndexed(indexCount int32) {
	d.draws++
}

func (d *fakeDevice) SetAttributeI2(location uint32, x, y int32) {
	d.attribs[location] = [2]int32{x, y}
	d.record("attrib %d %d %d", location, x, y)
}

func (d *fakeDevice) CreateTexture(image *metadata.TextureImage) (uint32, error) {
	if d.failTexture >= 0 && len(d.textures) == d.failTexture {
		return 0, fmt.Errorf("bad pixels")
	}
	d.nextID++
	d.textures[d.nextID] = true
	return d.nextID, nil
}

func (d *fakeDevice) DeleteTexture(texture uint32) {
	delete(d.textures, texture)
	d.deletedTextures = append(d.deletedTextures, texture)
	d.record("delete texture %d", texture)
}

func (d *fakeDevice) BindTexture(unit uint32, texture uint32) {
	d.boundTexture = texture
}

func (d *fakeDevice) TextureHandle(texture uint32) uint64 {
	return 0xAB00_0000_0000 + uint64(texture)
}

func (d *fakeDevice) MakeTextureHandleResident(handle uint64) {
	d.handleResident[handle] = true
}

func (d *fakeDevice) MakeTextureHandleNonResident(handle uint64) {
	d.handleResident[handle] = false
	d.releasedHandles = append(d.releasedHandles, handle)
	d.record("release handle %d", handle)
}

func (d *fakeDevice) CreateProgram(sources metadata.ShaderSources) (Program, error) {
	if d.failShader {
		return nil, fmt.Errorf("%s: %w", sources.Name, core.ErrShaderCompile)
	}
	d.programs++
	d.program = &fakeProgram{
		id:   d.programs,
		ints: map[string]int32{},
	}
	return d.program, nil
}

func (d *fakeDevice) BeginFrame(width, height int32) {}

// residentHandles counts handles still resident.
func (d *fakeDevice) residentHandles() int {
	n := 0
	for _, r := range d.handleResident {
		if r {
			n++
		}
	}
	return n
}

type fakeProgram struct {
	id       int
	ints     map[string]int32
	handles  []uint64
	deleted  bool
	useCount int
}

func (p *fakeProgram) Use() {
	p.useCount++
}

func (p *fakeProgram) AttribLocation(name string) (uint32, bool) {
	if name == PerMeshPointerAttribute {
		return 6, true
	}
	return 0, false
}

func (p *fakeProgram) SetInt(name string, value int32) {
	p.ints[name] = value
}

func (p *fakeProgram) SetTextureHandles(name string, handles []uint64) {
	p.handles = append([]uint64(nil), handles...)
}

func (p *fakeProgram) Delete() {
	p.deleted = true
}
