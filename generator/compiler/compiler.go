// Package compiler drives the external shader compiler for both variants of a
// source and collects the resulting bytecode.
package compiler

import (
	"context"
	"errors"
	"fmt"

	"github.com/spaghettifunk/shadergen/generator/assets/loaders"
	"github.com/spaghettifunk/shadergen/generator/core"
	"github.com/spaghettifunk/shadergen/generator/metadata"
	"github.com/spaghettifunk/shadergen/generator/parser"
)

// Job is one compiler invocation: the text of a single stage variant.
type Job struct {
	// Name is the shader name, used to name intermediate files.
	Name      string
	Stage     metadata.ShaderStage
	Source    string
	Workspace *Workspace
}

// Compiler turns one variant into bytecode. Implementations should return a
// *core.CompilerError carrying the compiler diagnostics on failure.
type Compiler interface {
	Compile(ctx context.Context, job Job) ([]byte, error)
}

// CompileVariants compiles the vertex variant, then the fragment variant. It
// stops at the first failure, which is always reported as a
// *core.CompilerError. Cleaning ws up is left to the caller.
func CompileVariants(ctx context.Context, c Compiler, ws *Workspace, name string, variants parser.Variants) (metadata.CompiledVariant, metadata.CompiledVariant, error) {
	var compiled [2]metadata.CompiledVariant
	for i, stage := range metadata.ShaderStages {
		bytecode, err := compileStage(ctx, c, Job{
			Name:      name,
			Stage:     stage,
			Source:    variants.Source(stage),
			Workspace: ws,
		})
		if err != nil {
			return metadata.CompiledVariant{}, metadata.CompiledVariant{}, err
		}
		compiled[i] = metadata.CompiledVariant{Stage: stage, Bytecode: bytecode}
	}
	return compiled[0], compiled[1], nil
}

func compileStage(ctx context.Context, c Compiler, job Job) ([]byte, error) {
	if err := ctx.Err(); err != nil {
		return nil, &core.CompilerError{Stage: job.Stage.String(), Err: err}
	}

	bytecode, err := c.Compile(ctx, job)
	if err != nil {
		var cerr *core.CompilerError
		if errors.As(err, &cerr) {
			return nil, err
		}
		return nil, &core.CompilerError{Stage: job.Stage.String(), Err: err}
	}
	if err := loaders.ValidateSPIRV(bytecode); err != nil {
		return nil, &core.CompilerError{Stage: job.Stage.String(), Err: fmt.Errorf("invalid output: %w", err)}
	}
	core.LogDebug("compiled %s stage of %s: %d bytes", job.Stage, job.Name, len(bytecode))

	out := make([]byte, len(bytecode))
	copy(out, bytecode)
	return out, nil
}
