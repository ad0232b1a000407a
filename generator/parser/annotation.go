package parser

import (
	"bytes"
	"encoding/json"
	"errors"
	"strings"

	"golang.org/x/exp/slices"

	"github.com/spaghettifunk/shadergen/generator/metadata"
)

const (
	vertexStageToken   = "v"
	fragmentStageToken = "f"
)

// ResolveStages maps the trailing line comment of a declaration onto a stage set.
// Without a comment the declaration is visible to both stages. With a comment the
// set starts empty and grows by one stage per recognised token, so a comment that
// holds neither "v" nor "f" yields the empty set.
func ResolveStages(comment string, present bool) metadata.StageSet {
	if !present {
		return metadata.AllStages
	}
	tokens := strings.Split(comment, ",")
	for i := range tokens {
		tokens[i] = strings.TrimSpace(tokens[i])
	}

	var stages metadata.StageSet
	if slices.Contains(tokens, vertexStageToken) {
		stages = stages.With(metadata.ShaderStageVertex)
	}
	if slices.Contains(tokens, fragmentStageToken) {
		stages = stages.With(metadata.ShaderStageFragment)
	}
	return stages
}

// stageComment strips the "//" from a line comment token.
func stageComment(tok Token) string {
	return strings.TrimSpace(strings.TrimPrefix(tok.Text, "//"))
}

type outputAnnotation struct {
	Format *string `json:"format"`
}

// ParseOutputAnnotation decodes the structured annotation attached to an output,
// e.g. {"format":"srgb32f"}. The only key is "format". On any error the default
// format is returned alongside the error.
func ParseOutputAnnotation(text string) (metadata.PixelFormat, error) {
	dec := json.NewDecoder(strings.NewReader(text))
	dec.DisallowUnknownFields()

	var a outputAnnotation
	if err := dec.Decode(&a); err != nil {
		return metadata.DefaultPixelFormat, err
	}
	if dec.More() {
		return metadata.DefaultPixelFormat, errors.New("trailing data after annotation object")
	}
	if a.Format == nil {
		return metadata.DefaultPixelFormat, nil
	}
	format, err := metadata.PixelFormatFromString(*a.Format)
	if err != nil {
		return metadata.DefaultPixelFormat, err
	}
	return format, nil
}

// outputAnnotationText returns the JSON object inside a /*{ ... }*/ comment.
func outputAnnotationText(tok Token) (string, bool) {
	body := strings.TrimSuffix(strings.TrimPrefix(tok.Text, "/*"), "*/")
	trimmed := bytes.TrimSpace([]byte(body))
	if len(trimmed) < 2 || trimmed[0] != '{' || trimmed[len(trimmed)-1] != '}' {
		return "", false
	}
	return string(trimmed), true
}
