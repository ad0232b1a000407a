package parser

import (
	"fmt"
	"strings"

	"github.com/spaghettifunk/shadergen/generator/core"
	"github.com/spaghettifunk/shadergen/generator/metadata"
)

// DefaultVersionLine is the version directive sources are expected to open with.
const DefaultVersionLine = "#version 450"

// Variants holds the two compilable texts derived from one annotated source.
type Variants struct {
	Vertex   string
	Fragment string
}

func (v Variants) Source(stage metadata.ShaderStage) string {
	if stage == metadata.ShaderStageFragment {
		return v.Fragment
	}
	return v.Vertex
}

// SplitVariants inserts a stage define right after the first line of source,
// once per stage. Conditional regions are left for the compiler to resolve.
//
// When the first line is not versionLine a *core.ConfigurationError is returned
// together with the variants, which are still built around whatever first line
// is present. An empty versionLine accepts any "#version" directive.
func SplitVariants(source, versionLine string) (Variants, error) {
	first, rest, found := strings.Cut(source, "\n")
	if !found {
		rest = ""
	}

	v := Variants{
		Vertex:   buildVariant(first, metadata.ShaderStageVertex, rest),
		Fragment: buildVariant(first, metadata.ShaderStageFragment, rest),
	}

	if !isVersionLine(first, versionLine) {
		return v, &core.ConfigurationError{
			Field: "version",
			Msg:   fmt.Sprintf("expected first line %q, found %q", versionLine, strings.TrimSpace(first)),
		}
	}
	return v, nil
}

func buildVariant(first string, stage metadata.ShaderStage, rest string) string {
	var b strings.Builder
	b.Grow(len(first) + len(rest) + 24)
	b.WriteString(first)
	b.WriteString("\n#define ")
	b.WriteString(stage.Define())
	b.WriteString("\n")
	b.WriteString(rest)
	return b.String()
}

func isVersionLine(line, want string) bool {
	got := strings.Join(strings.Fields(line), " ")
	if want == "" {
		return strings.HasPrefix(got, "#version")
	}
	return got == strings.Join(strings.Fields(want), " ")
}
