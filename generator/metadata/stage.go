package metadata

import "strings"

/** @brief Shader stages a generated binding can be visible to. */
type ShaderStage uint8

const (
	ShaderStageVertex   ShaderStage = 0x00000001
	ShaderStageFragment ShaderStage = 0x00000002
)

// ShaderStages lists the stages in emission order.
var ShaderStages = []ShaderStage{ShaderStageVertex, ShaderStageFragment}

func (s ShaderStage) String() string {
	switch s {
	case ShaderStageVertex:
		return "vertex"
	case ShaderStageFragment:
		return "fragment"
	}
	return "unknown"
}

// Define returns the preprocessor flag injected into the variant compiled for s.
func (s ShaderStage) Define() string {
	return strings.ToUpper(s.String())
}

// Extension is the file suffix the external compiler uses to infer the stage.
func (s ShaderStage) Extension() string {
	switch s {
	case ShaderStageVertex:
		return ".vert"
	case ShaderStageFragment:
		return ".frag"
	}
	return ""
}

/** @brief A set of shader stages. The zero value is the empty set. */
type StageSet uint8

// AllStages is the set used when a declaration carries no stage annotation.
const AllStages = StageSet(ShaderStageVertex) | StageSet(ShaderStageFragment)

func NewStageSet(stages ...ShaderStage) StageSet {
	var s StageSet
	for _, st := range stages {
		s = s.With(st)
	}
	return s
}

func (s StageSet) With(stage ShaderStage) StageSet {
	return s | StageSet(stage)
}

func (s StageSet) Has(stage ShaderStage) bool {
	return s&StageSet(stage) != 0
}

func (s StageSet) IsEmpty() bool {
	return s == 0
}

// Stages returns the members of s in emission order.
func (s StageSet) Stages() []ShaderStage {
	out := make([]ShaderStage, 0, len(ShaderStages))
	for _, st := range ShaderStages {
		if s.Has(st) {
			out = append(out, st)
		}
	}
	return out
}

func (s StageSet) String() string {
	stages := s.Stages()
	if len(stages) == 0 {
		return "none"
	}
	names := make([]string, len(stages))
	for i, st := range stages {
		names[i] = st.String()
	}
	return strings.Join(names, "|")
}
