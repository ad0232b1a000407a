package parser

import (
	"errors"
	"strings"
	"testing"

	"github.com/spaghettifunk/shadergen/generator/core"
	"github.com/spaghettifunk/shadergen/generator/metadata"
)

func TestSplitVariants(t *testing.T) {
	source := "#version 450\nlayout(binding=0) uniform sampler2D t;\n"
	v, err := SplitVariants(source, DefaultVersionLine)
	if err != nil {
		t.Fatalf("SplitVariants() error = %v", err)
	}

	wantVertex := "#version 450\n#define VERTEX\nlayout(binding=0) uniform sampler2D t;\n"
	wantFragment := "#version 450\n#define FRAGMENT\nlayout(binding=0) uniform sampler2D t;\n"
	if v.Vertex != wantVertex {
		t.Errorf("Vertex = %q, want %q", v.Vertex, wantVertex)
	}
	if v.Fragment != wantFragment {
		t.Errorf("Fragment = %q, want %q", v.Fragment, wantFragment)
	}
	if v.Source(metadata.ShaderStageFragment) != v.Fragment || v.Source(metadata.ShaderStageVertex) != v.Vertex {
		t.Error("Source() does not return the matching variant")
	}
}

func TestSplitVariants_SingleLine(t *testing.T) {
	v, err := SplitVariants("#version 450", DefaultVersionLine)
	if err != nil {
		t.Fatalf("SplitVariants() error = %v", err)
	}
	if v.Vertex != "#version 450\n#define VERTEX\n" {
		t.Errorf("Vertex = %q", v.Vertex)
	}
}

func TestSplitVariants_VersionMismatch(t *testing.T) {
	source := "#version 330 core\nvoid main() {}\n"
	v, err := SplitVariants(source, DefaultVersionLine)
	if !errors.Is(err, core.ErrConfiguration) {
		t.Fatalf("error = %v, want a configuration error", err)
	}
	if !strings.HasPrefix(v.Fragment, "#version 330 core\n#define FRAGMENT\n") {
		t.Errorf("variants should still be built, got %q", v.Fragment)
	}
}

func TestSplitVariants_VersionMatching(t *testing.T) {
	tests := []struct {
		first string
		want  string
		ok    bool
	}{
		{"#version 450", "#version 450", true},
		{"#version   450  ", "#version 450", true},
		{"#version 450\r", "#version 450", true},
		{"#version 460", "#version 450", false},
		{"#version 460", "", true},
		{"void main() {}", "", false},
	}
	for _, tt := range tests {
		_, err := SplitVariants(tt.first+"\nrest\n", tt.want)
		if (err == nil) != tt.ok {
			t.Errorf("SplitVariants(%q, %q) error = %v, want ok %v", tt.first, tt.want, err, tt.ok)
		}
	}
}
