package loaders

import (
	"encoding/binary"
	"image"
	"image/color"
	"image/png"
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/spaghettifunk/bindless/engine/core"
	"github.com/spaghettifunk/bindless/engine/renderer/metadata"
)

// ddsFile builds a DDS image. fourcc selects a compressed format; an empty
// fourcc writes a 32-bit RGB surface with the given red mask.
func ddsFile(width, height, mips uint32, fourcc string, redMask uint32, payload int) []byte {
	b := make([]byte, ddsDataOffset+payload)
	le := binary.LittleEndian
	le.PutUint32(b[0:], ddsMagic)
	le.PutUint32(b[4:], ddsHeaderSize)
	le.PutUint32(b[12:], height)
	le.PutUint32(b[16:], width)
	le.PutUint32(b[28:], mips)
	le.PutUint32(b[76:], 32)
	if fourcc != "" {
		le.PutUint32(b[80:], ddpfFourCC)
		copy(b[84:88], fourcc)
	} else {
		le.PutUint32(b[80:], ddpfRGB)
		le.PutUint32(b[88:], 32)
		le.PutUint32(b[92:], redMask)
	}
	for i := ddsDataOffset; i < len(b); i++ {
		b[i] = byte(i)
	}
	return b
}

func TestDecodeDDSCompressed(t *testing.T) {
	// 8x8 DXT1: 2x2 blocks of 8 bytes, then 4x4 (1 block), 2x2, 1x1.
	data := ddsFile(8, 8, 4, "DXT1", 0, 32+8+8+8)
	img, err := DecodeDDS("NV0.dds", data)
	require.NoError(t, err)
	assert.Equal(t, metadata.TextureFormatDXT1, img.Format)
	assert.Equal(t, uint32(8), img.Width)
	assert.Equal(t, uint32(8), img.Height)
	require.Len(t, img.Levels, 4)
	assert.Len(t, img.Levels[0], 32)
	assert.Len(t, img.Levels[3], 8)
	assert.Equal(t, data[ddsDataOffset], img.Levels[0][0])
}

func TestDecodeDDSFormats(t *testing.T) {
	for fourcc, want := range map[string]metadata.TextureFormat{
		"DXT3": metadata.TextureFormatDXT3,
		"DXT5": metadata.TextureFormatDXT5,
	} {
		img, err := DecodeDDS(fourcc, ddsFile(4, 4, 1, fourcc, 0, 16))
		require.NoError(t, err)
		assert.Equal(t, want, img.Format)
	}

	img, err := DecodeDDS("bgra", ddsFile(2, 2, 0, "", 0x00ff0000, 16))
	require.NoError(t, err)
	assert.Equal(t, metadata.TextureFormatBGRA8, img.Format)
	// No alpha flag: alpha is forced opaque.
	assert.Equal(t, byte(0xff), img.Levels[0][3])

	img, err = DecodeDDS("rgba", ddsFile(2, 2, 1, "", 0x000000ff, 16))
	require.NoError(t, err)
	assert.Equal(t, metadata.TextureFormatRGBA8, img.Format)
}

func TestDecodeDDSErrors(t *testing.T) {
	_, err := DecodeDDS("short", []byte("DDS "))
	assert.Error(t, err)

	bad := ddsFile(4, 4, 1, "DXT1", 0, 8)
	copy(bad, "XXXX")
	_, err = DecodeDDS("magic", bad)
	assert.ErrorContains(t, err, "not a DDS")

	_, err = DecodeDDS("fourcc", ddsFile(4, 4, 1, "ATI2", 0, 16))
	assert.ErrorContains(t, err, "ATI2")

	_, err = DecodeDDS("truncated", ddsFile(16, 16, 1, "DXT5", 0, 64))
	assert.ErrorContains(t, err, "truncated")
	assert.ErrorIs(t, err, core.ErrTextureLoad)
}

func TestDecodeDDSRejectsBadDimensions(t *testing.T) {
	for name, data := range map[string][]byte{
		"huge":      ddsFile(0xFFFFFFFF, 0xFFFFFFFF, 1, "", 0x000000ff, 64),
		"too wide":  ddsFile(metadata.MaxTextureDimension+1, 4, 1, "DXT1", 0, 64),
		"zero":      ddsFile(0, 0, 0xFFFFFFFF, "", 0x000000ff, 64),
		"zero high": ddsFile(4, 0, 1, "DXT5", 0, 64),
	} {
		img, err := DecodeDDS(name, data)
		assert.Nil(t, img, name)
		assert.ErrorIs(t, err, core.ErrTextureLoad, name)
		assert.ErrorContains(t, err, "outside", name)
	}
}

func TestDecodeDDSClampsMipCount(t *testing.T) {
	// 4x4 RGBA: 64 + 16 + 4 bytes for 3 levels, then padding that must not
	// be read as further levels.
	img, err := DecodeDDS("mips", ddsFile(4, 4, 0xFFFFFFFF, "", 0x000000ff, 64+16+4+64))
	require.NoError(t, err)
	assert.Len(t, img.Levels, 3)
}

func TestDecodeDDSStopsAtMissingMips(t *testing.T) {
	img, err := DecodeDDS("partial", ddsFile(8, 8, 4, "DXT1", 0, 32))
	require.NoError(t, err)
	assert.Len(t, img.Levels, 1)
}

func writePNG(t *testing.T, path string, w, h int) {
	t.Helper()
	src := image.NewNRGBA(image.Rect(0, 0, w, h))
	for y := 0; y < h; y++ {
		for x := 0; x < w; x++ {
			src.Set(x, y, color.NRGBA{R: uint8(x), G: uint8(y), B: 7, A: 255})
		}
	}
	f, err := os.Create(path)
	require.NoError(t, err)
	defer f.Close()
	require.NoError(t, png.Encode(f, src))
}

func TestImageLoader(t *testing.T) {
	path := filepath.Join(t.TempDir(), "NV3.png")
	writePNG(t, path, 6, 4)

	res, err := (&ImageLoader{}).Load(path, metadata.ResourceTypeImage, nil)
	require.NoError(t, err)
	assert.Equal(t, "png", res.Name)
	img := res.Data.(*metadata.TextureImage)
	assert.Equal(t, "NV3.png", img.Name)
	assert.Equal(t, metadata.TextureFormatRGBA8, img.Format)
	assert.Equal(t, uint32(6), img.Width)
	assert.Equal(t, uint32(4), img.Height)
	require.Len(t, img.Levels[0], 6*4*4)
	// Pixel (5, 3).
	px := img.Levels[0][(3*6+5)*4:]
	assert.Equal(t, []byte{5, 3, 7, 255}, px[:4])
}

func TestImageLoaderDownscales(t *testing.T) {
	path := filepath.Join(t.TempDir(), "big.png")
	writePNG(t, path, 64, 32)

	res, err := (&ImageLoader{}).Load(path, metadata.ResourceTypeImage, &ImageResourceParams{MaxDimension: 16})
	require.NoError(t, err)
	img := res.Data.(*metadata.TextureImage)
	assert.Equal(t, uint32(16), img.Width)
	assert.Equal(t, uint32(8), img.Height)
	assert.Len(t, img.Levels[0], 16*8*4)
}

func TestShaderLoader(t *testing.T) {
	path := filepath.Join(t.TempDir(), "simple_vertex.glsl")
	require.NoError(t, os.WriteFile(path, []byte("#version 450\n"), 0o644))
	res, err := (&ShaderLoader{}).Load(path, metadata.ResourceTypeShader, nil)
	require.NoError(t, err)
	assert.Equal(t, "#version 450\n", res.Data)
	assert.Equal(t, "simple_vertex.glsl", res.Name)

	_, err = (&ShaderLoader{}).Load(path+".missing", metadata.ResourceTypeShader, nil)
	assert.Error(t, err)
}
