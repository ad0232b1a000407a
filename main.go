/*
shadergen reads an annotated GLSL source holding both a vertex and a fragment
variant, reflects its bindings and writes a header exposing typed binding
constants and the embedded SPIR-V of both stages.

Usage:

	shadergen generate [flags] <input>
	shadergen version
*/
package main

import (
	"context"
	"flag"
	"fmt"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/spaghettifunk/shadergen/generator"
	"github.com/spaghettifunk/shadergen/generator/config"
	"github.com/spaghettifunk/shadergen/generator/core"
)

const version = "0.3.0"

type generateFlags struct {
	output        string
	compiler      string
	configPath    string
	target        string
	namespace     string
	goPackage     string
	timeout       time.Duration
	logLevel      string
	strictVersion bool
	watch         bool
}

func main() {
	if len(os.Args) < 2 {
		usage()
		os.Exit(2)
	}

	switch os.Args[1] {
	case "generate":
		if err := runGenerate(os.Args[2:]); err != nil {
			core.LogFatal("%v", err)
		}
	case "version", "-version", "--version":
		fmt.Printf("shadergen version %s\n", version)
	case "help", "-h", "-help", "--help":
		usage()
	default:
		fmt.Fprintf(os.Stderr, "Error: unknown command %q\n\n", os.Args[1])
		usage()
		os.Exit(2)
	}
}

func runGenerate(args []string) error {
	fs := flag.NewFlagSet("generate", flag.ExitOnError)
	var f generateFlags
	fs.StringVar(&f.output, "output", "", "output file (default: input with its extension replaced)")
	fs.StringVar(&f.compiler, "compiler", "", "shader compiler (default: $SHADERGEN_COMPILER, $VULKAN_SDK/bin/glslc or glslc)")
	fs.StringVar(&f.configPath, "config", "", "configuration file (default: ./"+config.FileName+" if present)")
	fs.StringVar(&f.target, "target", "", "output language: cpp, go or json")
	fs.StringVar(&f.namespace, "namespace", "", "C++ namespace enclosing the generated class")
	fs.StringVar(&f.goPackage, "go-package", "", "package clause of generated Go files")
	fs.DurationVar(&f.timeout, "timeout", 0, "timeout of each compiler invocation")
	fs.StringVar(&f.logLevel, "log-level", "", "debug, info, warn or error")
	fs.BoolVar(&f.strictVersion, "strict-version", false, "fail when the source does not open with the expected #version line")
	fs.BoolVar(&f.watch, "watch", false, "regenerate every time the input changes")
	fs.Usage = func() {
		fmt.Fprintf(os.Stderr, "Usage: shadergen generate [flags] <input>\n\nFlags:\n")
		fs.PrintDefaults()
	}

	inputs, err := parseInterspersed(fs, args)
	if err != nil {
		return err
	}
	if len(inputs) != 1 {
		fs.Usage()
		return &core.ConfigurationError{Msg: "expected exactly one input file"}
	}

	cfg, err := loadConfig(fs, &f)
	if err != nil {
		return err
	}
	if err := core.SetLogLevel(cfg.LogLevel); err != nil {
		return err
	}

	g, err := generator.New(cfg)
	if err != nil {
		return err
	}
	defer g.Shutdown()

	// signal context to capture system calls
	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGTERM, syscall.SIGINT, syscall.SIGQUIT)
	defer stop()

	if f.watch {
		return g.Watch(ctx, inputs[0], f.output)
	}

	out, err := g.Generate(ctx, inputs[0], f.output)
	if err != nil {
		return err
	}
	fmt.Printf("Generated shader header file at %s\n", out)
	return nil
}

// loadConfig layers the configuration file, the environment and the flags
// that were set explicitly on the command line.
func loadConfig(fs *flag.FlagSet, f *generateFlags) (*config.Config, error) {
	path, explicit := config.FileName, false
	if f.configPath != "" {
		path, explicit = f.configPath, true
	}
	cfg, err := config.Load(path, explicit)
	if err != nil {
		return nil, err
	}
	cfg.ApplyEnv(os.LookupEnv)

	fs.Visit(func(fl *flag.Flag) {
		switch fl.Name {
		case "compiler":
			cfg.Compiler = f.compiler
		case "target":
			cfg.Target = f.target
		case "namespace":
			cfg.Namespace = f.namespace
		case "go-package":
			cfg.GoPackage = f.goPackage
		case "timeout":
			cfg.SetTimeout(f.timeout)
		case "log-level":
			cfg.LogLevel = f.logLevel
		case "strict-version":
			cfg.StrictVersion = f.strictVersion
		}
	})
	return cfg, nil
}

// parseInterspersed lets flags follow positional arguments, as in
// "shadergen generate shader.glsl --output out.h".
func parseInterspersed(fs *flag.FlagSet, args []string) ([]string, error) {
	var positional []string
	for {
		if err := fs.Parse(args); err != nil {
			return nil, err
		}
		rest := fs.Args()
		if len(rest) == 0 {
			return positional, nil
		}
		positional = append(positional, rest[0])
		args = rest[1:]
	}
}

func usage() {
	fmt.Fprintf(os.Stderr, "Usage: shadergen <command> [arguments]\n\n")
	fmt.Fprintf(os.Stderr, "Commands:\n")
	fmt.Fprintf(os.Stderr, "  generate   reflect and compile a shader into a bindings header\n")
	fmt.Fprintf(os.Stderr, "  version    print the version\n")
	fmt.Fprintf(os.Stderr, "\nExamples:\n")
	fmt.Fprintf(os.Stderr, "  shadergen generate shaders/canvas_sd.glsl\n")
	fmt.Fprintf(os.Stderr, "  shadergen generate shaders/canvas_sd.glsl --target go --output gen/canvas.go\n")
	fmt.Fprintf(os.Stderr, "  shadergen generate -watch shaders/canvas_sd.glsl\n")
}
