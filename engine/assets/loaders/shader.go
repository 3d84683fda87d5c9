package loaders

import (
	"os"
	"path/filepath"

	"github.com/spaghettifunk/bindless/engine/renderer/metadata"
)

// ShaderLoader reads a GLSL source file as text.
type ShaderLoader struct{}

func (sl *ShaderLoader) Load(path string, assetType metadata.ResourceType, params interface{}) (*metadata.Resource, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, err
	}
	return &metadata.Resource{
		Name:     filepath.Base(path),
		Type:     metadata.ResourceTypeShader,
		FullPath: path,
		DataSize: uint64(len(data)),
		Data:     string(data),
	}, nil
}

func (sl *ShaderLoader) Unload(*metadata.Resource) error {
	return nil
}
