package metadata

import (
	"fmt"
	"strings"
)

/** @brief The API-level category of a binding. */
type DescriptorKind uint8

const (
	DescriptorKindUniformBuffer DescriptorKind = iota
	DescriptorKindCombinedImageSampler
	DescriptorKindStorageBuffer
)

func (k DescriptorKind) String() string {
	switch k {
	case DescriptorKindUniformBuffer:
		return "uniform-buffer"
	case DescriptorKindCombinedImageSampler:
		return "combined-image-sampler"
	case DescriptorKindStorageBuffer:
		return "storage-buffer"
	}
	return fmt.Sprintf("DescriptorKind(%d)", uint8(k))
}

// DescriptorKindFromType maps a declared uniform type onto its descriptor kind.
// "ubo" names a uniform block and "buffer" a storage buffer; every sampler type
// is a combined image sampler.
func DescriptorKindFromType(glslType string) (DescriptorKind, error) {
	switch glslType {
	case "ubo":
		return DescriptorKindUniformBuffer, nil
	case "buffer":
		return DescriptorKindStorageBuffer, nil
	}
	if isSamplerType(glslType) {
		return DescriptorKindCombinedImageSampler, nil
	}
	return 0, fmt.Errorf("uniform type %s has no descriptor kind", glslType)
}

// isSamplerType accepts sampler1D..samplerCubeArrayShadow and their
// integer (isampler*) and unsigned (usampler*) variants.
func isSamplerType(t string) bool {
	t = strings.TrimPrefix(strings.TrimPrefix(t, "i"), "u")
	if !strings.HasPrefix(t, "sampler") {
		return false
	}
	rest := strings.TrimPrefix(t, "sampler")
	rest = strings.TrimSuffix(rest, "Shadow")
	rest = strings.TrimSuffix(rest, "Array")
	switch rest {
	case "1D", "2D", "3D", "Cube", "2DRect", "2DMS":
		return true
	}
	return false
}

/** @brief Pixel format of a fragment output attachment. */
type PixelFormat uint8

const (
	PixelFormatSRGBA32F PixelFormat = iota
	PixelFormatSRGB32F
)

// DefaultPixelFormat applies to outputs without a format annotation.
const DefaultPixelFormat = PixelFormatSRGBA32F

func PixelFormatFromString(s string) (PixelFormat, error) {
	switch s {
	case "srgba32f":
		return PixelFormatSRGBA32F, nil
	case "srgb32f":
		return PixelFormatSRGB32F, nil
	}
	return 0, fmt.Errorf("string %s is not a valid PixelFormat", s)
}

func (f PixelFormat) String() string {
	switch f {
	case PixelFormatSRGBA32F:
		return "srgba32f"
	case PixelFormatSRGB32F:
		return "srgb32f"
	}
	return fmt.Sprintf("PixelFormat(%d)", uint8(f))
}
