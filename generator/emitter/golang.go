package emitter

import (
	"fmt"
	"go/format"
	"io"
	"path/filepath"
	"strings"

	"github.com/spaghettifunk/shadergen/generator/metadata"
	"github.com/spaghettifunk/shadergen/generator/vulkan"
)

var goTypes = map[metadata.GlslType]string{
	metadata.GlslFloat: "float32",
	metadata.GlslVec2:  "[2]float32",
	metadata.GlslVec3:  "[3]float32",
	metadata.GlslVec4:  "[4]float32",
	metadata.GlslMat2:  "[4]float32",
	metadata.GlslMat3:  "[9]float32",
	metadata.GlslMat4:  "[16]float32",
	metadata.GlslInt:   "int32",
}

// GoEmitter writes a Go file using goki/vulkan types. Go has no alignment
// attribute, so the planned offsets are reproduced with blank padding fields.
// Every declaration is prefixed with the exported shader name so several
// generated files can share a package.
type GoEmitter struct {
	opts Options
}

func (e *GoEmitter) Emit(w io.Writer, shader *metadata.GeneratedShader) error {
	vertex, err := variantWords(shader.Vertex)
	if err != nil {
		return err
	}
	fragment, err := variantWords(shader.Fragment)
	if err != nil {
		return err
	}

	r := shader.Reflection
	prefix := exportedName(r.Name)
	usesVulkan := len(r.Blocks)+len(r.Uniforms)+len(r.StorageBuffers)+len(r.Outputs) > 0

	var b strings.Builder
	fmt.Fprintf(&b, "// Code generated by shadergen from %s. DO NOT EDIT.\n\n", filepath.Base(r.SourcePath))
	fmt.Fprintf(&b, "package %s\n\n", e.opts.GoPackage)
	if usesVulkan {
		b.WriteString("import vk \"github.com/goki/vulkan\"\n\n")
	}

	for _, block := range r.Blocks {
		writeGoStruct(&b, prefix, block)
	}

	for _, block := range r.Blocks {
		// "uniform Camera {...} camera;" would otherwise clash with the struct type.
		name := prefix + exportedName(block.Alias) + "Block"
		fmt.Fprintf(&b, "// %s describes uniform block %s at binding %d.\n", name, block.StructName, block.Binding)
		fmt.Fprintf(&b, "var %s = struct {\n", name)
		b.WriteString("Size uint32\nBinding uint32\nDescType vk.DescriptorType\nStages vk.ShaderStageFlags\n")
		fmt.Fprintf(&b, "}{%d, %d, %s, %s}\n\n", block.Size, block.Binding,
			vulkan.DescriptorTypeGoName(metadata.DescriptorKindUniformBuffer), goStageMask(block.Stages))
	}
	for _, u := range r.Uniforms {
		writeGoDescriptor(&b, prefix, u.Name, u.GlslType, u.Binding, u.Kind, u.Stages)
	}
	for _, sb := range r.StorageBuffers {
		writeGoDescriptor(&b, prefix, sb.Name, "buffer", sb.Binding, metadata.DescriptorKindStorageBuffer, sb.Stages)
	}
	for _, out := range r.Outputs {
		fmt.Fprintf(&b, "var %s%s = struct {\n", prefix, exportedName(out.Name))
		b.WriteString("Type string\nLocation uint32\nFormat vk.Format\n")
		fmt.Fprintf(&b, "}{%q, %d, %s}\n\n", out.GlslType, out.Location, vulkan.FormatGoName(out.Format))
	}

	writeGoWords(&b, prefix+"VertexSpv", vertex)
	writeGoWords(&b, prefix+"FragmentSpv", fragment)

	src, err := format.Source([]byte(b.String()))
	if err != nil {
		return fmt.Errorf("formatting generated Go source: %w", err)
	}
	_, err = w.Write(src)
	return err
}

func writeGoStruct(b *strings.Builder, prefix string, block metadata.UniformBlock) {
	fmt.Fprintf(b, "// %s%s mirrors uniform block %s (%d bytes).\n", prefix, block.StructName, block.StructName, block.Size)
	fmt.Fprintf(b, "type %s%s struct {\n", prefix, block.StructName)
	var end uint32
	for _, m := range block.Members {
		if pad := m.Offset - end; pad > 0 {
			fmt.Fprintf(b, "_ [%d]byte\n", pad)
		}
		fmt.Fprintf(b, "%s %s\n", exportedName(m.Name), goTypes[m.Type])
		end = m.Offset + m.Type.HostSize()
	}
	if pad := block.Size - end; pad > 0 {
		fmt.Fprintf(b, "_ [%d]byte\n", pad)
	}
	b.WriteString("}\n\n")
}

func writeGoDescriptor(b *strings.Builder, prefix, name, glslType string, binding uint32, kind metadata.DescriptorKind, stages metadata.StageSet) {
	fmt.Fprintf(b, "var %s%s = struct {\n", prefix, exportedName(name))
	b.WriteString("Type string\nBinding uint32\nDescType vk.DescriptorType\nStages vk.ShaderStageFlags\n")
	fmt.Fprintf(b, "}{%q, %d, %s, %s}\n\n", glslType, binding, vulkan.DescriptorTypeGoName(kind), goStageMask(stages))
}

func goStageMask(stages metadata.StageSet) string {
	names := vulkan.StageFlagGoNames(stages)
	if len(names) == 0 {
		return "vk.ShaderStageFlags(0)"
	}
	return "vk.ShaderStageFlags(" + strings.Join(names, " | ") + ")"
}

func writeGoWords(b *strings.Builder, name string, words []uint32) {
	fmt.Fprintf(b, "var %s = []uint32{\n", name)
	writeWords(b, "", words)
	b.WriteString("}\n\n")
}
