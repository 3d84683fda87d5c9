package metadata

/**
 * @brief Pixel storage formats understood by the texture loaders
 * and the device.
 */
type TextureFormat int

const (
	/** @brief Unknown or unsupported format. */
	TextureFormatUnknown TextureFormat = iota
	/** @brief Uncompressed 8-bit RGBA. */
	TextureFormatRGBA8
	/** @brief Uncompressed 8-bit BGRA, as stored by most DDS writers. */
	TextureFormatBGRA8
	/** @brief S3TC DXT1 (BC1), 8 bytes per 4x4 block. */
	TextureFormatDXT1
	/** @brief S3TC DXT3 (BC2), 16 bytes per 4x4 block. */
	TextureFormatDXT3
	/** @brief S3TC DXT5 (BC3), 16 bytes per 4x4 block. */
	TextureFormatDXT5
)

func (f TextureFormat) String() string {
	switch f {
	case TextureFormatRGBA8:
		return "RGBA8"
	case TextureFormatBGRA8:
		return "BGRA8"
	case TextureFormatDXT1:
		return "DXT1"
	case TextureFormatDXT3:
		return "DXT3"
	case TextureFormatDXT5:
		return "DXT5"
	default:
		return "unknown"
	}
}

/** @brief Reports whether the format is block compressed. */
func (f TextureFormat) Compressed() bool {
	return f == TextureFormatDXT1 || f == TextureFormatDXT3 || f == TextureFormatDXT5
}

/** @brief Bytes per 4x4 block for compressed formats, 0 otherwise. */
func (f TextureFormat) BlockSize() int {
	switch f {
	case TextureFormatDXT1:
		return 8
	case TextureFormatDXT3, TextureFormatDXT5:
		return 16
	default:
		return 0
	}
}

// MaxTextureDimension is the largest width or height a texture may declare.
const MaxTextureDimension = 16384

/**
 * @brief Returns the byte size of one mip level of the given dimensions.
 */
func (f TextureFormat) LevelSize(width, height uint32) uint64 {
	if f.Compressed() {
		bw := max((uint64(width)+3)/4, 1)
		bh := max((uint64(height)+3)/4, 1)
		return bw * bh * uint64(f.BlockSize())
	}
	return uint64(width) * uint64(height) * 4
}

/**
 * @brief CPU side image data ready for upload.
 */
type TextureImage struct {
	/** @brief The texture Name, usually the asset path. */
	Name string
	/** @brief The texture Width. */
	Width uint32
	/** @brief The texture Height. */
	Height uint32
	/** @brief The pixel format of every level. */
	Format TextureFormat
	/** @brief Mip levels, base level first. */
	Levels [][]byte
}
