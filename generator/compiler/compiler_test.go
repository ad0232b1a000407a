package compiler

import (
	"context"
	"errors"
	"os"
	"testing"

	"github.com/spaghettifunk/shadergen/generator/assets/loaders"
	"github.com/spaghettifunk/shadergen/generator/core"
	"github.com/spaghettifunk/shadergen/generator/metadata"
	"github.com/spaghettifunk/shadergen/generator/parser"
)

type fakeCompiler struct {
	// output per stage; a nil entry fails the stage.
	output map[metadata.ShaderStage][]byte
	err    error
	jobs   []Job
}

func (f *fakeCompiler) Compile(ctx context.Context, job Job) ([]byte, error) {
	f.jobs = append(f.jobs, job)
	if _, err := job.Workspace.WriteFile(job.Name+job.Stage.Extension(), []byte(job.Source)); err != nil {
		return nil, err
	}
	out := f.output[job.Stage]
	if out == nil {
		return nil, f.err
	}
	return out, nil
}

func spirv(words ...uint32) []byte {
	return loaders.WordsToBytes(append([]uint32{loaders.SPIRVMagic}, words...))
}

func newTestWorkspace(t *testing.T) *Workspace {
	t.Helper()
	ws, err := NewWorkspace(t.TempDir(), "canvas", core.NewRunID())
	if err != nil {
		t.Fatal(err)
	}
	t.Cleanup(func() { ws.Cleanup() })
	return ws
}

var testVariants = parser.Variants{
	Vertex:   "#version 450\n#define VERTEX\n",
	Fragment: "#version 450\n#define FRAGMENT\n",
}

func TestCompileVariants(t *testing.T) {
	fc := &fakeCompiler{output: map[metadata.ShaderStage][]byte{
		metadata.ShaderStageVertex:   spirv(1),
		metadata.ShaderStageFragment: spirv(2),
	}}
	ws := newTestWorkspace(t)

	vertex, fragment, err := CompileVariants(context.Background(), fc, ws, "canvas", testVariants)
	if err != nil {
		t.Fatalf("CompileVariants() error = %v", err)
	}
	if vertex.Stage != metadata.ShaderStageVertex || string(vertex.Bytecode) != string(spirv(1)) {
		t.Errorf("vertex = %+v", vertex)
	}
	if fragment.Stage != metadata.ShaderStageFragment || string(fragment.Bytecode) != string(spirv(2)) {
		t.Errorf("fragment = %+v", fragment)
	}

	if len(fc.jobs) != 2 || fc.jobs[0].Source != testVariants.Vertex || fc.jobs[1].Source != testVariants.Fragment {
		t.Errorf("jobs = %+v, want vertex then fragment", fc.jobs)
	}
}

func TestCompileVariants_FragmentFailure(t *testing.T) {
	fc := &fakeCompiler{
		output: map[metadata.ShaderStage][]byte{metadata.ShaderStageVertex: spirv(1)},
		err:    &core.CompilerError{Stage: "fragment", Diagnostics: "canvas.frag:3: error: syntax error"},
	}
	ws := newTestWorkspace(t)

	_, _, err := CompileVariants(context.Background(), fc, ws, "canvas", testVariants)
	var cerr *core.CompilerError
	if !errors.As(err, &cerr) {
		t.Fatalf("error = %v, want *core.CompilerError", err)
	}
	if cerr.Stage != "fragment" || cerr.Diagnostics == "" {
		t.Errorf("error = %+v", cerr)
	}

	files := ws.Files()
	if err := ws.Cleanup(); err != nil {
		t.Fatal(err)
	}
	for _, f := range files {
		if _, err := os.Stat(f); !os.IsNotExist(err) {
			t.Errorf("intermediate file %s survived cleanup", f)
		}
	}
}

func TestCompileVariants_WrapsPlainErrors(t *testing.T) {
	fc := &fakeCompiler{err: errors.New("exec: \"glslc\": executable file not found in $PATH")}
	_, _, err := CompileVariants(context.Background(), fc, newTestWorkspace(t), "canvas", testVariants)
	if !errors.Is(err, core.ErrCompiler) {
		t.Fatalf("error = %v, want a compiler error", err)
	}
	if len(fc.jobs) != 1 {
		t.Errorf("compiled %d stages after a vertex failure, want 1", len(fc.jobs))
	}
}

func TestCompileVariants_RejectsInvalidBytecode(t *testing.T) {
	fc := &fakeCompiler{output: map[metadata.ShaderStage][]byte{
		metadata.ShaderStageVertex:   spirv(1),
		metadata.ShaderStageFragment: {0x01, 0x02, 0x03},
	}}
	_, _, err := CompileVariants(context.Background(), fc, newTestWorkspace(t), "canvas", testVariants)
	var cerr *core.CompilerError
	if !errors.As(err, &cerr) || cerr.Stage != "fragment" {
		t.Fatalf("error = %v, want a fragment *core.CompilerError", err)
	}
}

func TestCompileVariants_Cancelled(t *testing.T) {
	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	fc := &fakeCompiler{}
	_, _, err := CompileVariants(ctx, fc, newTestWorkspace(t), "canvas", testVariants)
	if !errors.Is(err, context.Canceled) || !errors.Is(err, core.ErrCompiler) {
		t.Errorf("error = %v, want a cancelled compiler error", err)
	}
	if len(fc.jobs) != 0 {
		t.Errorf("compiler ran %d times after cancellation", len(fc.jobs))
	}
}
