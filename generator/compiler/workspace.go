package compiler

import (
	"fmt"
	"os"
	"path/filepath"

	"github.com/spaghettifunk/shadergen/generator/core"
)

// Workspace is the scratch directory of one generation run. Every
// intermediate file a compiler writes lives in it, and Cleanup removes them
// all whether the run succeeded or not.
type Workspace struct {
	Dir   string
	RunID core.RunID

	files []string
}

// NewWorkspace creates root/shadergen-<name>-<run id>. An empty root means the
// system temporary directory.
func NewWorkspace(root, name string, id core.RunID) (*Workspace, error) {
	if root == "" {
		root = os.TempDir()
	}
	dir := filepath.Join(root, fmt.Sprintf("shadergen-%s-%s", name, id))
	if err := os.MkdirAll(dir, 0o755); err != nil {
		return nil, &core.IOError{Path: dir, Err: err}
	}
	return &Workspace{Dir: dir, RunID: id}, nil
}

func (w *Workspace) Path(file string) string {
	return filepath.Join(w.Dir, file)
}

// WriteFile writes data to file inside the workspace and tracks it.
func (w *Workspace) WriteFile(file string, data []byte) (string, error) {
	path := w.Path(file)
	w.Track(path)
	if err := os.WriteFile(path, data, 0o644); err != nil {
		return "", &core.IOError{Path: path, Err: err}
	}
	return path, nil
}

// Track records a path some other process is expected to create.
func (w *Workspace) Track(path string) {
	w.files = append(w.files, path)
}

// Files returns the tracked intermediate files, in the order they were tracked.
func (w *Workspace) Files() []string {
	return append([]string(nil), w.files...)
}

// Cleanup deletes the tracked files and the workspace directory.
func (w *Workspace) Cleanup() error {
	for _, f := range w.files {
		if err := os.Remove(f); err != nil && !os.IsNotExist(err) {
			core.LogWarn("unable to remove intermediate file %s: %v", f, err)
		}
	}
	w.files = nil
	if err := os.RemoveAll(w.Dir); err != nil {
		return &core.IOError{Path: w.Dir, Err: err}
	}
	return nil
}
