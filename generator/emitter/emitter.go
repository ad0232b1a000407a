// Package emitter renders a generated shader as source code. Every target
// writes, in order: the uniform block structs, one descriptor constant per
// block, per scalar uniform, per storage buffer and per output, then the
// vertex and fragment bytecode. Within each group items keep source order.
package emitter

import (
	"fmt"
	"io"
	"path/filepath"
	"strings"

	"github.com/spaghettifunk/shadergen/generator/assets/loaders"
	"github.com/spaghettifunk/shadergen/generator/core"
	"github.com/spaghettifunk/shadergen/generator/metadata"
)

type Target string

const (
	TargetCpp  Target = "cpp"
	TargetGo   Target = "go"
	TargetJSON Target = "json"
)

func ParseTarget(s string) (Target, error) {
	switch t := Target(strings.ToLower(s)); t {
	case TargetCpp, TargetGo, TargetJSON:
		return t, nil
	}
	return "", &core.ConfigurationError{Field: "target", Msg: fmt.Sprintf("unknown target %q (want cpp, go or json)", s)}
}

// Extension is appended to the input path, minus its own extension, to form
// the default output path.
func (t Target) Extension() string {
	switch t {
	case TargetGo:
		return ".gen.go"
	case TargetJSON:
		return ".gen.json"
	}
	return ".gen.h"
}

// OutputPath derives the default output path of input for t.
func (t Target) OutputPath(input string) string {
	return strings.TrimSuffix(input, filepath.Ext(input)) + t.Extension()
}

type Options struct {
	// Namespace encloses the generated C++ class.
	Namespace string
	// GoPackage is the package clause of generated Go files.
	GoPackage string
}

type Emitter interface {
	Emit(w io.Writer, shader *metadata.GeneratedShader) error
}

func New(t Target, opts Options) (Emitter, error) {
	switch t {
	case TargetCpp:
		return &CppEmitter{opts: opts}, nil
	case TargetGo:
		return &GoEmitter{opts: opts}, nil
	case TargetJSON:
		return &JSONEmitter{}, nil
	}
	return nil, &core.ConfigurationError{Field: "target", Msg: fmt.Sprintf("unknown target %q", t)}
}

func variantWords(v metadata.CompiledVariant) ([]uint32, error) {
	words, err := loaders.BytesToWords(v.Bytecode)
	if err != nil {
		return nil, fmt.Errorf("%s bytecode: %w", v.Stage, err)
	}
	return words, nil
}

// wordsPerLine is the number of bytecode words written on each line.
const wordsPerLine = 8

func writeWords(b *strings.Builder, indent string, words []uint32) {
	for i, w := range words {
		if i%wordsPerLine == 0 {
			b.WriteString(indent)
		}
		fmt.Fprintf(b, "0x%08x,", w)
		if i%wordsPerLine == wordsPerLine-1 || i == len(words)-1 {
			b.WriteString("\n")
		} else {
			b.WriteString(" ")
		}
	}
}
