package compiler

import (
	"bytes"
	"context"
	"errors"
	"fmt"
	"os/exec"
	"strings"
	"time"

	"github.com/spaghettifunk/shadergen/generator/assets/loaders"
	"github.com/spaghettifunk/shadergen/generator/core"
	"github.com/spaghettifunk/shadergen/generator/metadata"
)

// DefaultTimeout bounds a single compiler invocation.
const DefaultTimeout = 30 * time.Second

// Glslc runs glslc (or any compiler taking "<input> -o <output>" and inferring
// the stage from the .vert/.frag extension) as an external process.
type Glslc struct {
	Bin     string
	Args    []string
	Timeout time.Duration
}

func NewGlslc(bin string, args []string, timeout time.Duration) *Glslc {
	return &Glslc{Bin: bin, Args: args, Timeout: timeout}
}

// Compile writes the variant to the job workspace as <name>.vert or
// <name>.frag, compiles it to <file>.spv and returns the bytecode.
func (g *Glslc) Compile(ctx context.Context, job Job) ([]byte, error) {
	in, err := job.Workspace.WriteFile(job.Name+job.Stage.Extension(), []byte(job.Source))
	if err != nil {
		return nil, err
	}
	out := in + ".spv"
	job.Workspace.Track(out)

	if g.Timeout > 0 {
		var cancel context.CancelFunc
		ctx, cancel = context.WithTimeout(ctx, g.Timeout)
		defer cancel()
	}

	args := make([]string, 0, len(g.Args)+3)
	args = append(args, g.Args...)
	args = append(args, in, "-o", out)

	core.LogDebug("Executing: %s %s", g.Bin, strings.Join(args, " "))
	cmd := exec.CommandContext(ctx, g.Bin, args...)
	cmd.WaitDelay = time.Second

	var b bytes.Buffer
	cmd.Stdout = &b
	cmd.Stderr = &b
	if err := cmd.Run(); err != nil {
		if errors.Is(ctx.Err(), context.DeadlineExceeded) {
			err = fmt.Errorf("timed out after %s: %w", g.Timeout, ctx.Err())
		} else {
			err = fmt.Errorf("error executing %s: %w", g.Bin, err)
		}
		return nil, &core.CompilerError{
			Stage:       job.Stage.String(),
			Diagnostics: strings.TrimSpace(b.String()),
			Err:         err,
		}
	}

	res, err := (&loaders.BinaryLoader{}).Load(out, metadata.ResourceTypeBinary, job.Name+job.Stage.Extension())
	if err != nil {
		return nil, &core.CompilerError{Stage: job.Stage.String(), Err: fmt.Errorf("unable to read output %q: %w", out, err)}
	}
	return res.Data.([]byte), nil
}
