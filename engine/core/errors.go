package core

import (
	"errors"
)

var (
	// Setup errors. All of them are fatal: the demo has no degraded mode.
	ErrExtensionMissing = errors.New("required OpenGL extension not available")
	ErrShaderCompile    = errors.New("shader compilation failed")
	ErrShaderLink       = errors.New("shader program link failed")
	ErrTextureLoad      = errors.New("texture load failed")
	ErrInvalidConfig    = errors.New("invalid configuration")
	ErrAssetNotFound    = errors.New("asset not found")

	// Residency errors.
	ErrUnsupported  = errors.New("residency not supported by this device")
	ErrNotResident  = errors.New("resource is not resident")
	ErrStaleAddress = errors.New("gpu address invalidated by reallocation")
	ErrOutOfRange   = errors.New("write outside of buffer storage")
	ErrMeshCapacity = errors.New("more meshes than per-mesh uniform slots")

	ErrUnknown = errors.New("unknown")
)
