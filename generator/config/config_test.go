package config

import (
	"errors"
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/spaghettifunk/shadergen/generator/core"
)

func writeConfig(t *testing.T, body string) string {
	t.Helper()
	path := filepath.Join(t.TempDir(), FileName)
	if err := os.WriteFile(path, []byte(body), 0o644); err != nil {
		t.Fatal(err)
	}
	return path
}

func TestLoad(t *testing.T) {
	path := writeConfig(t, `
compiler = "/opt/vulkan/bin/glslc"
compiler_args = ["-O", "--target-env=vulkan1.2"]
timeout_seconds = 10
target = "go"
go_package = "gen"
strict_version = true
`)
	cfg, err := Load(path, true)
	if err != nil {
		t.Fatalf("Load() error = %v", err)
	}
	if cfg.Compiler != "/opt/vulkan/bin/glslc" || len(cfg.CompilerArgs) != 2 || cfg.CompilerArgs[1] != "--target-env=vulkan1.2" {
		t.Errorf("compiler = %q %v", cfg.Compiler, cfg.CompilerArgs)
	}
	if cfg.Timeout() != 10*time.Second {
		t.Errorf("Timeout() = %s, want 10s", cfg.Timeout())
	}
	if cfg.Target != "go" || cfg.GoPackage != "gen" || !cfg.StrictVersion {
		t.Errorf("cfg = %+v", cfg)
	}
	// unset keys keep their defaults
	if cfg.Namespace != "shader_gen" || cfg.Version != "#version 450" || cfg.LogLevel != "info" {
		t.Errorf("defaults lost: %+v", cfg)
	}
}

func TestLoad_MissingFile(t *testing.T) {
	path := filepath.Join(t.TempDir(), FileName)

	cfg, err := Load(path, false)
	if err != nil {
		t.Fatalf("Load() error = %v", err)
	}
	if cfg.Target != "cpp" || cfg.TimeoutSeconds != 30 {
		t.Errorf("cfg = %+v, want the defaults", cfg)
	}

	if _, err := Load(path, true); !errors.Is(err, core.ErrIO) {
		t.Errorf("Load(explicit) error = %v, want an io error", err)
	}
}

func TestLoad_Invalid(t *testing.T) {
	tests := []struct {
		name string
		body string
	}{
		{"unknown key", "compilr = \"glslc\"\n"},
		{"wrong type", "timeout_seconds = \"ten\"\n"},
		{"syntax", "target = \n"},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := Load(writeConfig(t, tt.body), true)
			if !errors.Is(err, core.ErrConfiguration) {
				t.Errorf("Load() error = %v, want a configuration error", err)
			}
		})
	}
}

func TestApplyEnv(t *testing.T) {
	sdk := t.TempDir()
	if err := os.MkdirAll(filepath.Join(sdk, "bin"), 0o755); err != nil {
		t.Fatal(err)
	}
	sdkGlslc := filepath.Join(sdk, "bin", "glslc")
	if err := os.WriteFile(sdkGlslc, nil, 0o755); err != nil {
		t.Fatal(err)
	}

	tests := []struct {
		name     string
		compiler string
		env      map[string]string
		want     string
	}{
		{"default", "", nil, "glslc"},
		{"sdk", "", map[string]string{EnvVulkanSDK: sdk}, sdkGlslc},
		{"sdk without glslc", "", map[string]string{EnvVulkanSDK: t.TempDir()}, "glslc"},
		{"env beats sdk", "", map[string]string{EnvVulkanSDK: sdk, EnvCompiler: "/usr/local/bin/glslc"}, "/usr/local/bin/glslc"},
		{"env beats file", "/from/file", map[string]string{EnvCompiler: "/from/env"}, "/from/env"},
		{"file beats sdk", "/from/file", map[string]string{EnvVulkanSDK: sdk}, "/from/file"},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			cfg := Default()
			cfg.Compiler = tt.compiler
			cfg.ApplyEnv(func(key string) (string, bool) {
				v, ok := tt.env[key]
				return v, ok
			})
			if got := cfg.CompilerPath(); got != tt.want {
				t.Errorf("CompilerPath() = %q, want %q", got, tt.want)
			}
		})
	}
}

func TestApplyEnv_LogLevel(t *testing.T) {
	cfg := Default()
	cfg.ApplyEnv(func(key string) (string, bool) {
		if key == EnvLogLevel {
			return "debug", true
		}
		return "", false
	})
	if cfg.LogLevel != "debug" {
		t.Errorf("LogLevel = %q, want debug", cfg.LogLevel)
	}
}

func TestSetTimeout(t *testing.T) {
	cfg := Default()
	cfg.SetTimeout(1500 * time.Millisecond)
	if cfg.TimeoutSeconds != 2 {
		t.Errorf("TimeoutSeconds = %d, want 2", cfg.TimeoutSeconds)
	}
}

func TestValidate(t *testing.T) {
	if err := Default().Validate(); err != nil {
		t.Errorf("Default().Validate() error = %v", err)
	}

	tests := []struct {
		name   string
		mutate func(*Config)
	}{
		{"zero timeout", func(c *Config) { c.TimeoutSeconds = 0 }},
		{"empty namespace", func(c *Config) { c.Namespace = "" }},
		{"go without package", func(c *Config) { c.Target = "go"; c.GoPackage = "" }},
	}
	for _, tt := range tests {
		cfg := Default()
		tt.mutate(cfg)
		if err := cfg.Validate(); !errors.Is(err, core.ErrConfiguration) {
			t.Errorf("%s: Validate() error = %v, want a configuration error", tt.name, err)
		}
	}
}
