package renderer

import (
	"fmt"

	"github.com/spaghettifunk/bindless/engine/core"
)

// ResidentBuffer is a GPU buffer whose raw address can be handed to
// shaders and the vertex puller. The cached address is only valid while the
// buffer is resident and its store has not been reallocated since the
// address was queried.
type ResidentBuffer struct {
	device Device
	id     uint32
	usage  BufferUsage
	size   int
	// loadable caches CapabilityShaderBufferLoad, queried once at creation.
	loadable bool

	// generation bumps on every reallocation of the store.
	generation uint64

	resident          bool
	queried           bool
	address           AddressRange
	addressGeneration uint64
}

func NewResidentBuffer(device Device, usage BufferUsage) *ResidentBuffer {
	return &ResidentBuffer{
		device:   device,
		id:       device.CreateBuffer(),
		usage:    usage,
		loadable: device.Supports(CapabilityShaderBufferLoad),
	}
}

func (b *ResidentBuffer) ID() uint32 {
	return b.id
}

// Size is the byte size of the current store.
func (b *ResidentBuffer) Size() int {
	return b.size
}

func (b *ResidentBuffer) Generation() uint64 {
	return b.generation
}

// Upload replaces the whole store with data. The buffer loses residency and
// its address must be queried again through MakeResident.
func (b *ResidentBuffer) Upload(data []byte) {
	if b.resident {
		b.device.MakeBufferNonResident(b.id)
		b.resident = false
	}
	b.device.BufferData(b.id, data, b.usage)
	b.size = len(data)
	b.generation++
}

// Update overwrites part of the store in place. The address stays valid.
func (b *ResidentBuffer) Update(offset int, data []byte) error {
	if offset < 0 || offset+len(data) > b.size {
		return fmt.Errorf("buffer %d: [%d, %d) of %d bytes: %w", b.id, offset, offset+len(data), b.size, core.ErrOutOfRange)
	}
	b.device.BufferSubData(b.id, offset, data)
	return nil
}

// MakeResident queries the buffer's address and size and pins it for
// shader access. It is a no-op when the cached address is still current.
func (b *ResidentBuffer) MakeResident() error {
	if !b.loadable {
		return fmt.Errorf("buffer %d: %w", b.id, core.ErrUnsupported)
	}
	if b.resident && b.addressGeneration == b.generation {
		return nil
	}
	b.address = b.device.BufferAddress(b.id)
	b.queried = true
	b.addressGeneration = b.generation
	b.device.MakeBufferResident(b.id)
	b.resident = true
	return nil
}

func (b *ResidentBuffer) IsResident() bool {
	return b.resident && b.addressGeneration == b.generation
}

// Address returns the cached address range. It never hands out an address
// from an older store.
func (b *ResidentBuffer) Address() (AddressRange, error) {
	switch {
	case !b.queried:
		return AddressRange{}, fmt.Errorf("buffer %d: %w", b.id, core.ErrNotResident)
	case b.addressGeneration != b.generation:
		return AddressRange{}, fmt.Errorf("buffer %d: %w", b.id, core.ErrStaleAddress)
	case !b.resident:
		return AddressRange{}, fmt.Errorf("buffer %d: %w", b.id, core.ErrNotResident)
	}
	return b.address, nil
}

// Release makes the buffer non-resident. The store is kept.
func (b *ResidentBuffer) Release() {
	if b.resident {
		b.device.MakeBufferNonResident(b.id)
		b.resident = false
	}
}

func (b *ResidentBuffer) Destroy() {
	if b.id == 0 {
		return
	}
	b.Release()
	b.device.DeleteBuffer(b.id)
	b.id = 0
	b.size = 0
	b.queried = false
}
