package renderer

import (
	"fmt"

	"github.com/spaghettifunk/bindless/engine/core"
	"github.com/spaghettifunk/bindless/engine/renderer/metadata"
)

// TextureResidencySet is the ordered list of animation frame textures and
// their bindless handles. Handles are released before the textures they
// belong to are deleted.
type TextureResidencySet struct {
	device   Device
	textures []uint32
	handles  []uint64
	resident bool
}

func NewTextureResidencySet(device Device) *TextureResidencySet {
	return &TextureResidencySet{device: device}
}

// TextureLoadFunc returns the image of animation frame i.
type TextureLoadFunc func(i int) (*metadata.TextureImage, error)

// Load creates count textures from load, requesting a handle for each and
// making it resident as it goes. The first failure aborts the whole set.
func (s *TextureResidencySet) Load(count int, load TextureLoadFunc) error {
	if !s.device.Supports(CapabilityBindlessTexture) {
		return fmt.Errorf("texture handles: %w", core.ErrUnsupported)
	}
	s.textures = make([]uint32, 0, count)
	s.handles = make([]uint64, 0, count)
	// Every handle appended below is resident from the moment it is added.
	s.resident = true
	for i := 0; i < count; i++ {
		img, err := load(i)
		if err != nil {
			s.Destroy()
			return fmt.Errorf("frame %d: %w: %w", i, core.ErrTextureLoad, err)
		}
		tex, err := s.device.CreateTexture(img)
		if err != nil {
			s.Destroy()
			return fmt.Errorf("frame %d (%s): %w: %w", i, img.Name, core.ErrTextureLoad, err)
		}
		handle := s.device.TextureHandle(tex)
		s.device.MakeTextureHandleResident(handle)
		s.textures = append(s.textures, tex)
		s.handles = append(s.handles, handle)
	}
	return nil
}

func (s *TextureResidencySet) Len() int {
	return len(s.textures)
}

func (s *TextureResidencySet) IsResident() bool {
	return s.resident
}

// Handles are only meaningful while the set is resident.
func (s *TextureResidencySet) Handles() []uint64 {
	return s.handles
}

// Texture returns the texture object of animation frame i.
func (s *TextureResidencySet) Texture(i int) uint32 {
	if len(s.textures) == 0 {
		return 0
	}
	return s.textures[i%len(s.textures)]
}

// Release makes every handle non-resident. Textures stay alive.
func (s *TextureResidencySet) Release() {
	if !s.resident {
		return
	}
	for _, h := range s.handles {
		s.device.MakeTextureHandleNonResident(h)
	}
	s.resident = false
}

// Destroy releases the handles and then deletes the textures.
func (s *TextureResidencySet) Destroy() {
	s.Release()
	for _, t := range s.textures {
		s.device.DeleteTexture(t)
	}
	s.textures = nil
	s.handles = nil
}
