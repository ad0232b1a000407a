// Package config loads the generator settings from shadergen.toml, the
// environment and the command line, in that order of increasing precedence.
package config

import (
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"time"

	"github.com/pelletier/go-toml/v2"

	"github.com/spaghettifunk/shadergen/generator/core"
)

// FileName is the configuration file looked up in the working directory.
const FileName = "shadergen.toml"

const (
	// EnvCompiler overrides the compiler path.
	EnvCompiler = "SHADERGEN_COMPILER"
	// EnvLogLevel overrides log_level.
	EnvLogLevel = "SHADERGEN_LOG_LEVEL"
	// EnvVulkanSDK points at a Vulkan SDK whose bin directory holds glslc.
	EnvVulkanSDK = "VULKAN_SDK"
)

const (
	defaultCompiler  = "glslc"
	defaultNamespace = "shader_gen"
	defaultTarget    = "cpp"
	defaultGoPackage = "shaders"
	defaultVersion   = "#version 450"
	defaultTimeout   = 30
)

type Config struct {
	// Compiler is the external shader compiler. Empty means resolve it from
	// the environment.
	Compiler       string   `toml:"compiler"`
	CompilerArgs   []string `toml:"compiler_args"`
	TimeoutSeconds int      `toml:"timeout_seconds"`

	// Version is the directive every source must open with.
	Version       string `toml:"version"`
	StrictVersion bool   `toml:"strict_version"`

	Target    string `toml:"target"`
	Namespace string `toml:"namespace"`
	GoPackage string `toml:"go_package"`

	// WorkDir holds the per-run scratch directories. Empty means the system
	// temporary directory.
	WorkDir  string `toml:"work_dir"`
	LogLevel string `toml:"log_level"`
}

func Default() *Config {
	return &Config{
		TimeoutSeconds: defaultTimeout,
		Version:        defaultVersion,
		Target:         defaultTarget,
		Namespace:      defaultNamespace,
		GoPackage:      defaultGoPackage,
		LogLevel:       "info",
	}
}

// Load reads path over the defaults. When explicit is false a missing file is
// not an error and the defaults are returned.
func Load(path string, explicit bool) (*Config, error) {
	cfg := Default()

	f, err := os.Open(path)
	if err != nil {
		if !explicit && errors.Is(err, os.ErrNotExist) {
			return cfg, nil
		}
		return nil, &core.IOError{Path: path, Err: err}
	}
	defer f.Close()

	if err := toml.NewDecoder(f).DisallowUnknownFields().Decode(cfg); err != nil {
		var strict *toml.StrictMissingError
		if errors.As(err, &strict) {
			return nil, &core.ConfigurationError{Field: filepath.Base(path), Msg: strict.String()}
		}
		var decodeErr *toml.DecodeError
		if errors.As(err, &decodeErr) {
			row, col := decodeErr.Position()
			return nil, &core.ConfigurationError{Field: filepath.Base(path), Msg: fmt.Sprintf("%d:%d: %s", row, col, decodeErr.Error())}
		}
		return nil, &core.ConfigurationError{Field: filepath.Base(path), Msg: err.Error()}
	}
	return cfg, nil
}

// ApplyEnv overlays the environment. lookup is usually os.LookupEnv.
func (c *Config) ApplyEnv(lookup func(string) (string, bool)) {
	if v, ok := lookup(EnvLogLevel); ok && v != "" {
		c.LogLevel = v
	}
	if v, ok := lookup(EnvCompiler); ok && v != "" {
		c.Compiler = v
	}
	if c.Compiler != "" {
		return
	}
	if sdk, ok := lookup(EnvVulkanSDK); ok && sdk != "" {
		candidate := filepath.Join(sdk, "bin", defaultCompiler)
		if _, err := os.Stat(candidate); err == nil {
			c.Compiler = candidate
		}
	}
}

// CompilerPath returns the configured compiler, falling back to glslc.
func (c *Config) CompilerPath() string {
	if c.Compiler == "" {
		return defaultCompiler
	}
	return c.Compiler
}

func (c *Config) Timeout() time.Duration {
	return time.Duration(c.TimeoutSeconds) * time.Second
}

func (c *Config) SetTimeout(d time.Duration) {
	c.TimeoutSeconds = int((d + time.Second - 1) / time.Second)
}

// Validate checks the settings that do not depend on other packages. The
// target name is checked by the emitter registry.
func (c *Config) Validate() error {
	if c.TimeoutSeconds <= 0 {
		return &core.ConfigurationError{Field: "timeout_seconds", Msg: "must be positive"}
	}
	if c.Namespace == "" {
		return &core.ConfigurationError{Field: "namespace", Msg: "must not be empty"}
	}
	if c.Target == "go" && c.GoPackage == "" {
		return &core.ConfigurationError{Field: "go_package", Msg: "must not be empty for the go target"}
	}
	return nil
}
