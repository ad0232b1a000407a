// Package vulkan maps reflected bindings onto Vulkan enums, both as values
// and as the identifiers the emitters spell out in C and Go.
package vulkan

import (
	vk "github.com/goki/vulkan"

	"github.com/spaghettifunk/shadergen/generator/metadata"
)

type descriptorInfo struct {
	value  vk.DescriptorType
	cName  string
	goName string
}

var descriptorTypes = map[metadata.DescriptorKind]descriptorInfo{
	metadata.DescriptorKindUniformBuffer: {
		vk.DescriptorTypeUniformBuffer, "VK_DESCRIPTOR_TYPE_UNIFORM_BUFFER", "vk.DescriptorTypeUniformBuffer",
	},
	metadata.DescriptorKindCombinedImageSampler: {
		vk.DescriptorTypeCombinedImageSampler, "VK_DESCRIPTOR_TYPE_COMBINED_IMAGE_SAMPLER", "vk.DescriptorTypeCombinedImageSampler",
	},
	metadata.DescriptorKindStorageBuffer: {
		vk.DescriptorTypeStorageBuffer, "VK_DESCRIPTOR_TYPE_STORAGE_BUFFER", "vk.DescriptorTypeStorageBuffer",
	},
}

func DescriptorType(k metadata.DescriptorKind) vk.DescriptorType {
	return descriptorTypes[k].value
}

func DescriptorTypeName(k metadata.DescriptorKind) string {
	return descriptorTypes[k].cName
}

func DescriptorTypeGoName(k metadata.DescriptorKind) string {
	return descriptorTypes[k].goName
}

type stageInfo struct {
	value  vk.ShaderStageFlagBits
	cName  string
	goName string
}

var stageBits = map[metadata.ShaderStage]stageInfo{
	metadata.ShaderStageVertex:   {vk.ShaderStageVertexBit, "VK_SHADER_STAGE_VERTEX_BIT", "vk.ShaderStageVertexBit"},
	metadata.ShaderStageFragment: {vk.ShaderStageFragmentBit, "VK_SHADER_STAGE_FRAGMENT_BIT", "vk.ShaderStageFragmentBit"},
}

func StageFlagBits(s metadata.ShaderStage) vk.ShaderStageFlagBits {
	return stageBits[s].value
}

// StageFlags ORs the flag bit of every stage in set. The empty set maps to 0.
func StageFlags(set metadata.StageSet) vk.ShaderStageFlags {
	var flags vk.ShaderStageFlags
	for _, s := range set.Stages() {
		flags |= vk.ShaderStageFlags(stageBits[s].value)
	}
	return flags
}

// StageFlagNames returns the C identifiers of the stage bits in set, in
// emission order.
func StageFlagNames(set metadata.StageSet) []string {
	var names []string
	for _, s := range set.Stages() {
		names = append(names, stageBits[s].cName)
	}
	return names
}

func StageFlagGoNames(set metadata.StageSet) []string {
	var names []string
	for _, s := range set.Stages() {
		names = append(names, stageBits[s].goName)
	}
	return names
}

type formatInfo struct {
	value  vk.Format
	cName  string
	goName string
}

var formats = map[metadata.PixelFormat]formatInfo{
	metadata.PixelFormatSRGBA32F: {vk.FormatR32g32b32a32Sfloat, "VK_FORMAT_R32G32B32A32_SFLOAT", "vk.FormatR32g32b32a32Sfloat"},
	metadata.PixelFormatSRGB32F:  {vk.FormatR32g32b32Sfloat, "VK_FORMAT_R32G32B32_SFLOAT", "vk.FormatR32g32b32Sfloat"},
}

func Format(f metadata.PixelFormat) vk.Format {
	return formats[f].value
}

func FormatName(f metadata.PixelFormat) string {
	return formats[f].cName
}

func FormatGoName(f metadata.PixelFormat) string {
	return formats[f].goName
}
