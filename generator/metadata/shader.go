package metadata

/**
 * @brief A single member of a uniform block. Members keep source order,
 * which determines the layout.
 */
type BlockMember struct {
	/** @brief The member name. */
	Name string
	/** @brief The member type. */
	Type GlslType
	/** @brief Set by the layout planner when the member must start on a fresh 16-byte boundary. */
	Aligned bool
	/** @brief The byte offset of the member in the host struct, set by the layout planner. */
	Offset uint32
}

/**
 * @brief A named, binding-indexed uniform block.
 */
type UniformBlock struct {
	/** @brief The binding index declared in the layout qualifier. */
	Binding uint32
	/** @brief The block name, used as the host struct name. */
	StructName string
	/** @brief The block members in declaration order. */
	Members []BlockMember
	/** @brief The instance name the block is declared with. */
	Alias string
	/** @brief The stages referencing the block. */
	Stages StageSet
	/** @brief Host struct size in bytes, set by the layout planner. */
	Size uint32
	/** @brief The source line of the declaration. */
	Line int
}

/**
 * @brief A non-block binding such as a sampler.
 */
type ScalarUniform struct {
	Name     string
	GlslType string
	Binding  uint32
	Kind     DescriptorKind
	Stages   StageSet
	Line     int
}

/**
 * @brief A storage buffer binding. Storage buffers are always visible to both stages.
 */
type StorageBuffer struct {
	Name     string
	Instance string
	Binding  uint32
	Stages   StageSet
	Line     int
}

/**
 * @brief A fragment output attachment.
 */
type OutputVariable struct {
	Location uint32
	Name     string
	GlslType string
	Format   PixelFormat
	Line     int
}

/**
 * @brief Everything the parser extracts from one shader source. Every list
 * follows source order.
 */
type ShaderReflection struct {
	/** @brief The shader name, derived from the source file base name. */
	Name string
	/** @brief The path the source was read from. */
	SourcePath string

	Blocks         []UniformBlock
	Uniforms       []ScalarUniform
	StorageBuffers []StorageBuffer
	Outputs        []OutputVariable

	/** @brief Recoverable problems found while parsing. Each one has already been logged. */
	Warnings []error
}

/**
 * @brief The compiled bytecode of one stage. Produced once per run and never mutated.
 */
type CompiledVariant struct {
	Stage    ShaderStage
	Bytecode []byte
}

/**
 * @brief The input of every emitter: the reflection plus both compiled variants.
 */
type GeneratedShader struct {
	Reflection *ShaderReflection
	Vertex     CompiledVariant
	Fragment   CompiledVariant
}
