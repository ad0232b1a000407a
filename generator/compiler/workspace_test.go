package compiler

import (
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/spaghettifunk/shadergen/generator/core"
)

func TestWorkspace(t *testing.T) {
	root := t.TempDir()
	id := core.NewRunID()

	ws, err := NewWorkspace(root, "canvas", id)
	if err != nil {
		t.Fatalf("NewWorkspace() error = %v", err)
	}
	if filepath.Dir(ws.Dir) != root || !strings.HasSuffix(ws.Dir, "shadergen-canvas-"+id.String()) {
		t.Errorf("Dir = %q", ws.Dir)
	}

	path, err := ws.WriteFile("canvas.vert", []byte("void main() {}"))
	if err != nil {
		t.Fatalf("WriteFile() error = %v", err)
	}
	if _, err := os.Stat(path); err != nil {
		t.Errorf("written file missing: %v", err)
	}
	ws.Track(path + ".spv")
	if files := ws.Files(); len(files) != 2 || files[0] != path {
		t.Errorf("Files() = %v", files)
	}

	if err := ws.Cleanup(); err != nil {
		t.Fatalf("Cleanup() error = %v", err)
	}
	if _, err := os.Stat(ws.Dir); !os.IsNotExist(err) {
		t.Errorf("workspace directory still exists after Cleanup(): %v", err)
	}
	if err := ws.Cleanup(); err != nil {
		t.Errorf("second Cleanup() error = %v", err)
	}
}

func TestWorkspace_DefaultRoot(t *testing.T) {
	ws, err := NewWorkspace("", "canvas", core.NewRunID())
	if err != nil {
		t.Fatalf("NewWorkspace() error = %v", err)
	}
	defer ws.Cleanup()

	if filepath.Dir(ws.Dir) != filepath.Clean(os.TempDir()) {
		t.Errorf("Dir = %q, want it under %q", ws.Dir, os.TempDir())
	}
}
