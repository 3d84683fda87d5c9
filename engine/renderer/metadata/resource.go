package metadata

type ResourceType int

/** @brief Pre-defined resource types. */
const (
	/** @brief Not a resource the engine knows how to load. */
	ResourceTypeNone ResourceType = iota
	/** @brief GLSL shader source. */
	ResourceTypeShader
	/** @brief Block compressed DDS texture. */
	ResourceTypeTexture
	/** @brief Image decoded through the image package (png, bmp, tiff, webp). */
	ResourceTypeImage
	/** @brief Engine configuration file. */
	ResourceTypeConfig
)

func (r ResourceType) String() string {
	switch r {
	case ResourceTypeShader:
		return "shader"
	case ResourceTypeTexture:
		return "texture"
	case ResourceTypeImage:
		return "image"
	case ResourceTypeConfig:
		return "config"
	default:
		return "none"
	}
}

/**
 * @brief A generic structure for a resource. All resource loaders
 * load data into these.
 */
type Resource struct {
	/** @brief The name of the resource. */
	Name string
	/** @brief The resource type. */
	Type ResourceType
	/** @brief The full file path of the resource. */
	FullPath string
	/** @brief The size of the resource data in bytes. */
	DataSize uint64
	/** @brief The resource data. string for shaders, *TextureImage for textures. */
	Data interface{}
}

/**
 * @brief Vertex and fragment GLSL sources of one program.
 */
type ShaderSources struct {
	Name     string
	Vertex   string
	Fragment string
}
