package loaders

import (
	"encoding/binary"
	"fmt"
	"math/bits"
	"os"

	"github.com/spaghettifunk/bindless/engine/core"
	"github.com/spaghettifunk/bindless/engine/renderer/metadata"
)

const (
	ddsMagic      = 0x20534444 // "DDS "
	ddsHeaderSize = 124
	ddsDataOffset = 4 + ddsHeaderSize

	ddpfAlphaPixels = 0x1
	ddpfFourCC      = 0x4
	ddpfRGB         = 0x40
)

func fourCC(s string) uint32 {
	return uint32(s[0]) | uint32(s[1])<<8 | uint32(s[2])<<16 | uint32(s[3])<<24
}

// TextureLoader reads DDS files: DXT1/3/5 or uncompressed 32-bit.
type TextureLoader struct{}

func (tl *TextureLoader) Load(path string, assetType metadata.ResourceType, params interface{}) (*metadata.Resource, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, err
	}
	img, err := DecodeDDS(path, data)
	if err != nil {
		return nil, err
	}
	return &metadata.Resource{
		Name:     img.Name,
		Type:     metadata.ResourceTypeTexture,
		FullPath: path,
		DataSize: uint64(len(data)),
		Data:     img,
	}, nil
}

func (tl *TextureLoader) Unload(*metadata.Resource) error {
	return nil
}

// DecodeDDS parses a DDS file held in data. Every mip level present in the
// file is returned, base level first. Errors wrap core.ErrTextureLoad.
func DecodeDDS(name string, data []byte) (*metadata.TextureImage, error) {
	img, err := decodeDDS(name, data)
	if err != nil {
		return nil, fmt.Errorf("%s: %w: %w", name, core.ErrTextureLoad, err)
	}
	return img, nil
}

func decodeDDS(name string, data []byte) (*metadata.TextureImage, error) {
	if len(data) < ddsDataOffset {
		return nil, fmt.Errorf("%d bytes is too short for a DDS header", len(data))
	}
	le := binary.LittleEndian
	if le.Uint32(data[0:]) != ddsMagic {
		return nil, fmt.Errorf("not a DDS file")
	}
	if size := le.Uint32(data[4:]); size != ddsHeaderSize {
		return nil, fmt.Errorf("DDS header size %d, want %d", size, ddsHeaderSize)
	}

	height := le.Uint32(data[12:])
	width := le.Uint32(data[16:])
	if width == 0 || height == 0 || width > metadata.MaxTextureDimension || height > metadata.MaxTextureDimension {
		return nil, fmt.Errorf("DDS size %dx%d outside 1..%d", width, height, metadata.MaxTextureDimension)
	}
	// A full chain ends at 1x1.
	mips := int(min(max(le.Uint32(data[28:]), 1), uint32(bits.Len32(max(width, height)))))
	pfFlags := le.Uint32(data[80:])
	pfFourCC := le.Uint32(data[84:])
	bitCount := le.Uint32(data[88:])
	redMask := le.Uint32(data[92:])

	format := metadata.TextureFormatUnknown
	switch {
	case pfFlags&ddpfFourCC != 0:
		switch pfFourCC {
		case fourCC("DXT1"):
			format = metadata.TextureFormatDXT1
		case fourCC("DXT3"):
			format = metadata.TextureFormatDXT3
		case fourCC("DXT5"):
			format = metadata.TextureFormatDXT5
		default:
			return nil, fmt.Errorf("unsupported DDS fourCC %q", string(data[84:88]))
		}
	case pfFlags&ddpfRGB != 0 && bitCount == 32:
		if redMask == 0x000000ff {
			format = metadata.TextureFormatRGBA8
		} else {
			format = metadata.TextureFormatBGRA8
		}
	default:
		return nil, fmt.Errorf("unsupported DDS pixel format (flags %#x, %d bpp)", pfFlags, bitCount)
	}

	img := &metadata.TextureImage{
		Name:   name,
		Width:  width,
		Height: height,
		Format: format,
	}
	if format == metadata.TextureFormatRGBA8 || format == metadata.TextureFormatBGRA8 {
		if pfFlags&ddpfAlphaPixels == 0 {
			// Undefined alpha bytes read as opaque.
			defer forceOpaque(img)
		}
	}

	offset := uint64(ddsDataOffset)
	w, h := width, height
	for level := 0; level < mips; level++ {
		size := format.LevelSize(w, h)
		if size > uint64(len(data))-offset {
			if level == 0 {
				return nil, fmt.Errorf("truncated DDS, base level needs %d bytes, %d left", size, uint64(len(data))-offset)
			}
			break
		}
		img.Levels = append(img.Levels, append([]byte(nil), data[offset:offset+size]...))
		offset += size
		w = max(w/2, 1)
		h = max(h/2, 1)
	}
	return img, nil
}

func forceOpaque(img *metadata.TextureImage) {
	for _, level := range img.Levels {
		for i := 3; i < len(level); i += 4 {
			level[i] = 0xff
		}
	}
}
