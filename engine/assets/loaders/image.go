package loaders

import (
	"fmt"
	"image"
	_ "image/png"
	"os"
	"path/filepath"

	"golang.org/x/image/draw"

	_ "golang.org/x/image/bmp"
	_ "golang.org/x/image/tiff"
	_ "golang.org/x/image/webp"

	"github.com/spaghettifunk/bindless/engine/renderer/metadata"
)

type ImageResourceParams struct {
	// MaxDimension downscales images whose larger side exceeds it. 0 keeps
	// the original size.
	MaxDimension int
}

// ImageLoader decodes png, bmp, tiff and webp files into RGBA8 textures.
type ImageLoader struct{}

func (il *ImageLoader) Load(path string, assetType metadata.ResourceType, params interface{}) (*metadata.Resource, error) {
	var typedParams ImageResourceParams
	if p, ok := params.(*ImageResourceParams); ok && p != nil {
		typedParams = *p
	}

	file, err := os.Open(path)
	if err != nil {
		return nil, err
	}
	defer file.Close()

	src, kind, err := image.Decode(file)
	if err != nil {
		return nil, fmt.Errorf("%s: %w", path, err)
	}
	rgba := ToRGBA(src, typedParams.MaxDimension)
	b := rgba.Bounds()

	img := &metadata.TextureImage{
		Name:   filepath.Base(path),
		Width:  uint32(b.Dx()),
		Height: uint32(b.Dy()),
		Format: metadata.TextureFormatRGBA8,
		Levels: [][]byte{rgba.Pix},
	}
	return &metadata.Resource{
		Name:     kind,
		Type:     metadata.ResourceTypeImage,
		FullPath: path,
		DataSize: uint64(len(rgba.Pix)),
		Data:     img,
	}, nil
}

func (il *ImageLoader) Unload(*metadata.Resource) error {
	return nil
}

// ToRGBA converts src to tightly packed RGBA, scaling it down first when its
// larger side is above maxDimension.
func ToRGBA(src image.Image, maxDimension int) *image.RGBA {
	sb := src.Bounds()
	w, h := sb.Dx(), sb.Dy()
	if maxDimension > 0 && (w > maxDimension || h > maxDimension) {
		if w >= h {
			h = max(h*maxDimension/w, 1)
			w = maxDimension
		} else {
			w = max(w*maxDimension/h, 1)
			h = maxDimension
		}
		dst := image.NewRGBA(image.Rect(0, 0, w, h))
		draw.CatmullRom.Scale(dst, dst.Bounds(), src, sb, draw.Src, nil)
		return dst
	}
	dst := image.NewRGBA(image.Rect(0, 0, w, h))
	draw.Draw(dst, dst.Bounds(), src, sb.Min, draw.Src)
	return dst
}
