package emitter

import (
	"fmt"
	"io"
	"path/filepath"
	"strings"

	"github.com/spaghettifunk/shadergen/generator/metadata"
	"github.com/spaghettifunk/shadergen/generator/vulkan"
)

var cppTypes = map[metadata.GlslType]string{
	metadata.GlslFloat: "float",
	metadata.GlslVec2:  "glm::vec2",
	metadata.GlslVec3:  "glm::vec3",
	metadata.GlslVec4:  "glm::vec4",
	metadata.GlslMat2:  "glm::mat2",
	metadata.GlslMat3:  "glm::mat3",
	metadata.GlslMat4:  "glm::mat4",
	metadata.GlslInt:   "int",
}

const cppIndent = "    "

// CppEmitter writes a C++ header with glm structs and Vulkan descriptor constants.
type CppEmitter struct {
	opts Options
}

func (e *CppEmitter) Emit(w io.Writer, shader *metadata.GeneratedShader) error {
	vertex, err := variantWords(shader.Vertex)
	if err != nil {
		return err
	}
	fragment, err := variantWords(shader.Fragment)
	if err != nil {
		return err
	}

	r := shader.Reflection
	var b strings.Builder

	fmt.Fprintf(&b, "// Auto-generated shader header file from %s. DO NOT EDIT.\n", filepath.Base(r.SourcePath))
	b.WriteString("#pragma once\n\n")
	b.WriteString("#include <cstdint>\n\n")
	b.WriteString("#include <vulkan/vulkan_core.h>\n")
	b.WriteString("#include <glm/glm.hpp>\n\n")
	fmt.Fprintf(&b, "namespace %s\n{\n", e.opts.Namespace)
	fmt.Fprintf(&b, "class %s\n{\n", cppIdentifier(r.Name))
	b.WriteString("public:\n")

	for _, block := range r.Blocks {
		writeCppStruct(&b, block)
	}
	for _, block := range r.Blocks {
		writeCppDescriptor(&b, block.Alias, block.StructName+" data;",
			"{}", block.Binding, metadata.DescriptorKindUniformBuffer, block.Stages)
	}
	for _, u := range r.Uniforms {
		writeCppDescriptor(&b, u.Name, "const char* type;",
			fmt.Sprintf("%q", u.GlslType), u.Binding, u.Kind, u.Stages)
	}
	for _, sb := range r.StorageBuffers {
		writeCppDescriptor(&b, sb.Name, "const char* type;",
			`"buffer"`, sb.Binding, metadata.DescriptorKindStorageBuffer, sb.Stages)
	}
	for _, out := range r.Outputs {
		fmt.Fprintf(&b, "%sstatic constexpr struct {\n", cppIndent)
		fmt.Fprintf(&b, "%s%sconst char* type;\n", cppIndent, cppIndent)
		fmt.Fprintf(&b, "%s%suint32_t location;\n", cppIndent, cppIndent)
		fmt.Fprintf(&b, "%s%sVkFormat format;\n", cppIndent, cppIndent)
		fmt.Fprintf(&b, "%s} %s = {%q, %d, %s};\n\n", cppIndent, out.Name, out.GlslType, out.Location, vulkan.FormatName(out.Format))
	}

	writeCppWords(&b, "vertex_spv", vertex)
	writeCppWords(&b, "fragment_spv", fragment)

	b.WriteString("};\n")
	fmt.Fprintf(&b, "} // namespace %s\n", e.opts.Namespace)

	_, err = io.WriteString(w, b.String())
	return err
}

func writeCppStruct(b *strings.Builder, block metadata.UniformBlock) {
	fmt.Fprintf(b, "%sstruct %s {\n", cppIndent, block.StructName)
	for _, m := range block.Members {
		b.WriteString(cppIndent + cppIndent)
		if m.Aligned {
			b.WriteString("alignas(16) ")
		}
		fmt.Fprintf(b, "%s %s; // offset %d\n", cppTypes[m.Type], m.Name, m.Offset)
	}
	fmt.Fprintf(b, "%s}; // size %d\n\n", cppIndent, block.Size)
}

func writeCppDescriptor(b *strings.Builder, name, firstField, firstValue string, binding uint32, kind metadata.DescriptorKind, stages metadata.StageSet) {
	fmt.Fprintf(b, "%sstatic constexpr struct {\n", cppIndent)
	fmt.Fprintf(b, "%s%s%s\n", cppIndent, cppIndent, firstField)
	fmt.Fprintf(b, "%s%suint32_t binding;\n", cppIndent, cppIndent)
	fmt.Fprintf(b, "%s%sVkDescriptorType desc_type;\n", cppIndent, cppIndent)
	fmt.Fprintf(b, "%s%sVkShaderStageFlags stages;\n", cppIndent, cppIndent)
	fmt.Fprintf(b, "%s} %s = {%s, %d, %s, %s};\n\n", cppIndent, name, firstValue, binding,
		vulkan.DescriptorTypeName(kind), cppStageMask(stages))
}

func cppStageMask(stages metadata.StageSet) string {
	names := vulkan.StageFlagNames(stages)
	if len(names) == 0 {
		return "0"
	}
	return strings.Join(names, " | ")
}

func writeCppWords(b *strings.Builder, name string, words []uint32) {
	fmt.Fprintf(b, "%sstatic constexpr uint32_t %s[] = {\n", cppIndent, name)
	writeWords(b, cppIndent+cppIndent, words)
	fmt.Fprintf(b, "%s};\n\n", cppIndent)
}
