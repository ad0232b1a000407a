package emitter

import (
	"encoding/json"
	"io"

	"github.com/spaghettifunk/shadergen/generator/metadata"
	"github.com/spaghettifunk/shadergen/generator/vulkan"
)

type jsonMember struct {
	Name    string `json:"name"`
	Type    string `json:"type"`
	Offset  uint32 `json:"offset"`
	Aligned bool   `json:"aligned"`
}

type jsonBinding struct {
	Name           string       `json:"name"`
	Type           string       `json:"type"`
	Binding        uint32       `json:"binding"`
	DescriptorType uint32       `json:"descriptor_type"`
	StageFlags     uint32       `json:"stage_flags"`
	Stages         []string     `json:"stages"`
	Size           uint32       `json:"size,omitempty"`
	Members        []jsonMember `json:"members,omitempty"`
}

type jsonOutput struct {
	Name     string `json:"name"`
	Type     string `json:"type"`
	Location uint32 `json:"location"`
	Format   string `json:"format"`
	VkFormat uint32 `json:"vk_format"`
}

type jsonBytecode struct {
	Bytes int `json:"bytes"`
	Words int `json:"words"`
}

type jsonReflection struct {
	Shader   string        `json:"shader"`
	Source   string        `json:"source"`
	Blocks   []jsonBinding `json:"uniform_blocks"`
	Uniforms []jsonBinding `json:"uniforms"`
	Buffers  []jsonBinding `json:"storage_buffers"`
	Outputs  []jsonOutput  `json:"outputs"`
	Vertex   jsonBytecode  `json:"vertex_spv"`
	Fragment jsonBytecode  `json:"fragment_spv"`
}

// JSONEmitter writes a reflection summary with numeric Vulkan enum values,
// meant for tooling rather than for compilation. Bytecode is summarised, not embedded.
type JSONEmitter struct{}

func (e *JSONEmitter) Emit(w io.Writer, shader *metadata.GeneratedShader) error {
	vertex, err := variantWords(shader.Vertex)
	if err != nil {
		return err
	}
	fragment, err := variantWords(shader.Fragment)
	if err != nil {
		return err
	}

	r := shader.Reflection
	out := jsonReflection{
		Shader:   r.Name,
		Source:   r.SourcePath,
		Blocks:   []jsonBinding{},
		Uniforms: []jsonBinding{},
		Buffers:  []jsonBinding{},
		Outputs:  []jsonOutput{},
		Vertex:   jsonBytecode{Bytes: len(shader.Vertex.Bytecode), Words: len(vertex)},
		Fragment: jsonBytecode{Bytes: len(shader.Fragment.Bytecode), Words: len(fragment)},
	}

	for _, block := range r.Blocks {
		jb := newJSONBinding(block.Alias, block.StructName, block.Binding, metadata.DescriptorKindUniformBuffer, block.Stages)
		jb.Size = block.Size
		for _, m := range block.Members {
			jb.Members = append(jb.Members, jsonMember{Name: m.Name, Type: m.Type.String(), Offset: m.Offset, Aligned: m.Aligned})
		}
		out.Blocks = append(out.Blocks, jb)
	}
	for _, u := range r.Uniforms {
		out.Uniforms = append(out.Uniforms, newJSONBinding(u.Name, u.GlslType, u.Binding, u.Kind, u.Stages))
	}
	for _, sb := range r.StorageBuffers {
		out.Buffers = append(out.Buffers, newJSONBinding(sb.Name, "buffer", sb.Binding, metadata.DescriptorKindStorageBuffer, sb.Stages))
	}
	for _, o := range r.Outputs {
		out.Outputs = append(out.Outputs, jsonOutput{
			Name:     o.Name,
			Type:     o.GlslType,
			Location: o.Location,
			Format:   o.Format.String(),
			VkFormat: uint32(vulkan.Format(o.Format)),
		})
	}

	enc := json.NewEncoder(w)
	enc.SetIndent("", "  ")
	return enc.Encode(out)
}

func newJSONBinding(name, typ string, binding uint32, kind metadata.DescriptorKind, stages metadata.StageSet) jsonBinding {
	names := []string{}
	for _, s := range stages.Stages() {
		names = append(names, s.String())
	}
	return jsonBinding{
		Name:           name,
		Type:           typ,
		Binding:        binding,
		DescriptorType: uint32(vulkan.DescriptorType(kind)),
		StageFlags:     uint32(vulkan.StageFlags(stages)),
		Stages:         names,
	}
}
