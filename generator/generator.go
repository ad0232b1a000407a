// Package generator runs the shader reflection pipeline: it parses an
// annotated source, plans its uniform block layouts, compiles both stage
// variants and writes the generated bindings file.
package generator

import (
	"bytes"
	"context"
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"github.com/spaghettifunk/shadergen/generator/assets"
	"github.com/spaghettifunk/shadergen/generator/compiler"
	"github.com/spaghettifunk/shadergen/generator/config"
	"github.com/spaghettifunk/shadergen/generator/core"
	"github.com/spaghettifunk/shadergen/generator/emitter"
	"github.com/spaghettifunk/shadergen/generator/layout"
	"github.com/spaghettifunk/shadergen/generator/metadata"
	"github.com/spaghettifunk/shadergen/generator/parser"
)

type Stage uint8

const (
	// Generator is idle
	GeneratorStageIdle Stage = iota
	// Reading and parsing the source
	GeneratorStageParsing
	// Planning uniform block layouts
	GeneratorStagePlanning
	// Running the external compiler
	GeneratorStageCompiling
	// Rendering and writing the output
	GeneratorStageEmitting
)

func (s Stage) String() string {
	switch s {
	case GeneratorStageParsing:
		return "parsing"
	case GeneratorStagePlanning:
		return "planning"
	case GeneratorStageCompiling:
		return "compiling"
	case GeneratorStageEmitting:
		return "emitting"
	}
	return "idle"
}

type Generator struct {
	currentStage Stage
	config       *config.Config
	target       emitter.Target
	emitter      emitter.Emitter
	compiler     compiler.Compiler
	assetManager *assets.AssetManager
	clock        *core.Clock
}

// New builds a generator that compiles with the configured external compiler.
func New(cfg *config.Config) (*Generator, error) {
	return NewWithCompiler(cfg, compiler.NewGlslc(cfg.CompilerPath(), cfg.CompilerArgs, cfg.Timeout()))
}

// NewWithCompiler builds a generator around any Compiler implementation.
func NewWithCompiler(cfg *config.Config, c compiler.Compiler) (*Generator, error) {
	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	target, err := emitter.ParseTarget(cfg.Target)
	if err != nil {
		return nil, err
	}
	em, err := emitter.New(target, emitter.Options{
		Namespace: cfg.Namespace,
		GoPackage: cfg.GoPackage,
	})
	if err != nil {
		return nil, err
	}

	return &Generator{
		currentStage: GeneratorStageIdle,
		config:       cfg,
		target:       target,
		emitter:      em,
		compiler:     c,
		assetManager: assets.NewAssetManager(),
		clock:        core.NewClock(),
	}, nil
}

// OutputPath returns the path Generate writes to when no output is given.
func (g *Generator) OutputPath(input string) string {
	return g.target.OutputPath(input)
}

// ShaderName derives the shader name from a source path: the base name up to
// its first dot, so "shaders/canvas_sd.glsl" is "canvas_sd".
func ShaderName(path string) string {
	base := filepath.Base(path)
	if i := strings.IndexByte(base, '.'); i > 0 {
		return base[:i]
	}
	return base
}

// Generate runs the whole pipeline for input and writes the result to output,
// or to the default output path when output is empty. It returns the path
// written. Either a complete file is written or nothing is: every failure
// leaves the destination untouched and removes the run's intermediate files.
func (g *Generator) Generate(ctx context.Context, input, output string) (string, error) {
	runID := core.NewRunID()
	defer g.setStage(GeneratorStageIdle)

	input, output, err := g.resolvePaths(input, output)
	if err != nil {
		return "", err
	}
	core.LogDebug("run %s: %s -> %s", runID.Short(), input, output)

	g.clock.Start()
	g.setStage(GeneratorStageParsing)
	res, err := g.assetManager.LoadAsset(input, metadata.ResourceTypeText, nil)
	if err != nil {
		return "", &core.IOError{Path: input, Err: err}
	}
	source := res.Data.(string)
	name := ShaderName(input)

	refl, err := parser.Parse(name, input, source)
	if err != nil {
		return "", err
	}
	variants, err := parser.SplitVariants(source, g.config.Version)
	if err != nil {
		if g.config.StrictVersion {
			return "", err
		}
		core.LogWarn("%s: %v", input, err)
	}
	g.logLap()

	g.setStage(GeneratorStagePlanning)
	layout.PlanReflection(refl)
	g.logLap()

	g.setStage(GeneratorStageCompiling)
	ws, err := compiler.NewWorkspace(g.config.WorkDir, name, runID)
	if err != nil {
		return "", err
	}
	defer func() {
		if err := ws.Cleanup(); err != nil {
			core.LogWarn("run %s: %v", runID.Short(), err)
		}
	}()

	vertex, fragment, err := compiler.CompileVariants(ctx, g.compiler, ws, name, variants)
	if err != nil {
		return "", err
	}
	g.logLap()

	g.setStage(GeneratorStageEmitting)
	var buf bytes.Buffer
	shader := &metadata.GeneratedShader{
		Reflection: refl,
		Vertex:     vertex,
		Fragment:   fragment,
	}
	if err := g.emitter.Emit(&buf, shader); err != nil {
		return "", fmt.Errorf("emitting %s: %w", output, err)
	}
	if err := writeFileAtomic(output, buf.Bytes()); err != nil {
		return "", err
	}
	g.logLap()
	g.clock.Stop()

	core.LogInfo("generated %s (%d blocks, %d uniforms, %d storage buffers, %d outputs)",
		output, len(refl.Blocks), len(refl.Uniforms), len(refl.StorageBuffers), len(refl.Outputs))
	return output, nil
}

// Watch generates input once, then again every time it changes, until ctx is
// cancelled. Failed runs are logged and do not stop the watch.
func (g *Generator) Watch(ctx context.Context, input, output string) error {
	changes, err := g.assetManager.Watch(input)
	if err != nil {
		return &core.IOError{Path: input, Err: err}
	}
	defer g.assetManager.Close()

	g.generateLogged(ctx, input, output)
	core.LogInfo("watching %s", input)
	for {
		select {
		case <-ctx.Done():
			return nil
		case path := <-changes:
			core.LogInfo("%s changed", path)
			g.generateLogged(ctx, input, output)
		}
	}
}

func (g *Generator) generateLogged(ctx context.Context, input, output string) {
	if _, err := g.Generate(ctx, input, output); err != nil {
		core.LogError("%v", err)
	}
}

// Shutdown releases the watcher, if one is running.
func (g *Generator) Shutdown() error {
	return g.assetManager.Close()
}

// resolvePaths makes both paths absolute and checks them before any parsing
// starts: the input must be a regular file and the output directory must exist.
func (g *Generator) resolvePaths(input, output string) (string, string, error) {
	in, err := filepath.Abs(input)
	if err != nil {
		return "", "", &core.IOError{Path: input, Err: err}
	}
	fi, err := os.Stat(in)
	if err != nil {
		return "", "", &core.IOError{Path: in, Err: err}
	}
	if fi.IsDir() {
		return "", "", &core.IOError{Path: in, Err: errors.New("is a directory")}
	}

	if output == "" {
		output = g.OutputPath(in)
	}
	out, err := filepath.Abs(output)
	if err != nil {
		return "", "", &core.IOError{Path: output, Err: err}
	}
	dir := filepath.Dir(out)
	di, err := os.Stat(dir)
	if err != nil {
		return "", "", &core.IOError{Path: dir, Err: err}
	}
	if !di.IsDir() {
		return "", "", &core.IOError{Path: dir, Err: errors.New("not a directory")}
	}
	return in, out, nil
}

func (g *Generator) setStage(s Stage) {
	g.currentStage = s
}

func (g *Generator) logLap() {
	core.LogDebug("%s took %s", g.currentStage, g.clock.Lap())
}

// writeFileAtomic writes data next to path and renames it into place, so a
// reader never observes a partially written file.
func writeFileAtomic(path string, data []byte) error {
	tmp, err := os.CreateTemp(filepath.Dir(path), "."+filepath.Base(path)+".*")
	if err != nil {
		return &core.IOError{Path: path, Err: err}
	}
	defer os.Remove(tmp.Name())

	if _, err := tmp.Write(data); err != nil {
		tmp.Close()
		return &core.IOError{Path: path, Err: err}
	}
	if err := tmp.Chmod(0o644); err != nil {
		tmp.Close()
		return &core.IOError{Path: path, Err: err}
	}
	if err := tmp.Close(); err != nil {
		return &core.IOError{Path: path, Err: err}
	}
	if err := os.Rename(tmp.Name(), path); err != nil {
		return &core.IOError{Path: path, Err: err}
	}
	return nil
}
