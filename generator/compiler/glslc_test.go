package compiler

import (
	"context"
	"errors"
	"os"
	"path/filepath"
	"runtime"
	"strings"
	"testing"
	"time"

	"github.com/spaghettifunk/shadergen/generator/core"
	"github.com/spaghettifunk/shadergen/generator/metadata"
)

// fakeGlslc mimics "glslc <in> -o <out>" and writes a two-word SPIR-V module.
const fakeGlslc = `#!/bin/sh
while [ $# -gt 0 ]; do
	case "$1" in
		-o) out="$2"; shift 2 ;;
		*) in="$1"; shift ;;
	esac
done
case "$in" in
	*.frag) grep -q FAIL "$in" && { echo "$in:3: error: 'foo' : undeclared identifier" >&2; exit 1; } ;;
esac
printf '\003\002\043\007\000\000\001\000' > "$out"
`

const slowGlslc = `#!/bin/sh
exec sleep 5
`

func writeScript(t *testing.T, body string) string {
	t.Helper()
	if runtime.GOOS == "windows" {
		t.Skip("fake compiler scripts need a POSIX shell")
	}
	path := filepath.Join(t.TempDir(), "glslc")
	if err := os.WriteFile(path, []byte(body), 0o755); err != nil {
		t.Fatal(err)
	}
	return path
}

func TestGlslc_Compile(t *testing.T) {
	g := NewGlslc(writeScript(t, fakeGlslc), nil, DefaultTimeout)
	ws := newTestWorkspace(t)

	bytecode, err := g.Compile(context.Background(), Job{
		Name:      "canvas",
		Stage:     metadata.ShaderStageVertex,
		Source:    "#version 450\n#define VERTEX\n",
		Workspace: ws,
	})
	if err != nil {
		t.Fatalf("Compile() error = %v", err)
	}
	if string(bytecode) != string(spirv(0x00010000)) {
		t.Errorf("bytecode = %v", bytecode)
	}

	files := ws.Files()
	if len(files) != 2 || filepath.Base(files[0]) != "canvas.vert" || filepath.Base(files[1]) != "canvas.vert.spv" {
		t.Errorf("Files() = %v", files)
	}
}

func TestGlslc_CompileFailure(t *testing.T) {
	g := NewGlslc(writeScript(t, fakeGlslc), nil, DefaultTimeout)
	ws := newTestWorkspace(t)

	_, err := g.Compile(context.Background(), Job{
		Name:      "canvas",
		Stage:     metadata.ShaderStageFragment,
		Source:    "#version 450\n#define FRAGMENT\nFAIL\n",
		Workspace: ws,
	})
	var cerr *core.CompilerError
	if !errors.As(err, &cerr) {
		t.Fatalf("error = %v, want *core.CompilerError", err)
	}
	if cerr.Stage != "fragment" {
		t.Errorf("Stage = %q, want fragment", cerr.Stage)
	}
	if !strings.Contains(cerr.Diagnostics, "undeclared identifier") {
		t.Errorf("Diagnostics = %q, want the compiler output", cerr.Diagnostics)
	}
}

func TestGlslc_Timeout(t *testing.T) {
	g := NewGlslc(writeScript(t, slowGlslc), nil, 100*time.Millisecond)

	start := time.Now()
	_, err := g.Compile(context.Background(), Job{
		Name:      "canvas",
		Stage:     metadata.ShaderStageVertex,
		Workspace: newTestWorkspace(t),
	})
	if !errors.Is(err, core.ErrCompiler) || !errors.Is(err, context.DeadlineExceeded) {
		t.Fatalf("error = %v, want a timed out compiler error", err)
	}
	if elapsed := time.Since(start); elapsed > 4*time.Second {
		t.Errorf("Compile() returned after %s, want it bounded by the timeout", elapsed)
	}
}

func TestGlslc_MissingBinary(t *testing.T) {
	g := NewGlslc(filepath.Join(t.TempDir(), "no-such-glslc"), nil, DefaultTimeout)
	_, err := g.Compile(context.Background(), Job{
		Name:      "canvas",
		Stage:     metadata.ShaderStageVertex,
		Workspace: newTestWorkspace(t),
	})
	if !errors.Is(err, core.ErrCompiler) {
		t.Errorf("error = %v, want a compiler error", err)
	}
}

func TestCompileVariants_WithGlslc(t *testing.T) {
	g := NewGlslc(writeScript(t, fakeGlslc), nil, DefaultTimeout)
	ws := newTestWorkspace(t)

	_, _, err := CompileVariants(context.Background(), g, ws, "canvas", testVariants)
	if err != nil {
		t.Fatalf("CompileVariants() error = %v", err)
	}
	if n := len(ws.Files()); n != 4 {
		t.Errorf("tracked %d files, want 4", n)
	}
}
