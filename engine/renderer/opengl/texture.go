package opengl

import (
	"fmt"

	"github.com/go-gl/gl/v4.6-compatibility/gl"

	"github.com/spaghettifunk/bindless/engine/core"
	"github.com/spaghettifunk/bindless/engine/renderer/metadata"
)

func compressedFormat(f metadata.TextureFormat) (uint32, bool) {
	switch f {
	case metadata.TextureFormatDXT1:
		return gl.COMPRESSED_RGBA_S3TC_DXT1_EXT, true
	case metadata.TextureFormatDXT3:
		return gl.COMPRESSED_RGBA_S3TC_DXT3_EXT, true
	case metadata.TextureFormatDXT5:
		return gl.COMPRESSED_RGBA_S3TC_DXT5_EXT, true
	}
	return 0, false
}

// CreateTexture uploads the base level of image with nearest filtering and
// repeat wrapping. Mip levels beyond the first are ignored.
func (d *OpenGLDevice) CreateTexture(image *metadata.TextureImage) (uint32, error) {
	if len(image.Levels) == 0 || len(image.Levels[0]) == 0 {
		return 0, fmt.Errorf("texture %q has no pixel data: %w", image.Name, core.ErrTextureLoad)
	}
	want := image.Format.LevelSize(image.Width, image.Height)
	if uint64(len(image.Levels[0])) < want {
		return 0, fmt.Errorf("texture %q: %d bytes for %dx%d %s, want %d: %w",
			image.Name, len(image.Levels[0]), image.Width, image.Height, image.Format, want, core.ErrTextureLoad)
	}

	var tex uint32
	gl.GenTextures(1, &tex)
	gl.BindTexture(gl.TEXTURE_2D, tex)
	gl.TexParameteri(gl.TEXTURE_2D, gl.TEXTURE_MIN_FILTER, gl.NEAREST)
	gl.TexParameteri(gl.TEXTURE_2D, gl.TEXTURE_MAG_FILTER, gl.NEAREST)
	gl.TexParameteri(gl.TEXTURE_2D, gl.TEXTURE_WRAP_S, gl.REPEAT)
	gl.TexParameteri(gl.TEXTURE_2D, gl.TEXTURE_WRAP_T, gl.REPEAT)
	gl.TexParameteri(gl.TEXTURE_2D, gl.TEXTURE_MAX_LEVEL, 0)

	w, h := int32(image.Width), int32(image.Height)
	pixels := image.Levels[0][:want]
	if internal, ok := compressedFormat(image.Format); ok {
		gl.CompressedTexImage2D(gl.TEXTURE_2D, 0, internal, w, h, 0, int32(len(pixels)), gl.Ptr(pixels))
	} else {
		format := uint32(gl.RGBA)
		if image.Format == metadata.TextureFormatBGRA8 {
			format = gl.BGRA
		}
		gl.TexImage2D(gl.TEXTURE_2D, 0, gl.RGBA8, w, h, 0, format, gl.UNSIGNED_BYTE, gl.Ptr(pixels))
	}
	gl.BindTexture(gl.TEXTURE_2D, 0)

	if err := d.CheckError("create texture " + image.Name); err != nil {
		gl.DeleteTextures(1, &tex)
		return 0, err
	}
	return tex, nil
}

func (d *OpenGLDevice) DeleteTexture(texture uint32) {
	gl.DeleteTextures(1, &texture)
}

func (d *OpenGLDevice) BindTexture(unit uint32, texture uint32) {
	gl.ActiveTexture(gl.TEXTURE0 + unit)
	gl.BindTexture(gl.TEXTURE_2D, texture)
}

func (d *OpenGLDevice) TextureHandle(texture uint32) uint64 {
	return gl.GetTextureHandleARB(texture)
}

func (d *OpenGLDevice) MakeTextureHandleResident(handle uint64) {
	gl.MakeTextureHandleResidentARB(handle)
}

func (d *OpenGLDevice) MakeTextureHandleNonResident(handle uint64) {
	gl.MakeTextureHandleNonResidentARB(handle)
}
