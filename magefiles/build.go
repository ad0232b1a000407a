//go:build mage

package main

import (
	"fmt"
	"path/filepath"

	"github.com/magefile/mage/mg"
)

type Build mg.Namespace

// Builds the shadergen binary into bin/.
func (Build) Binary() error {
	if _, err := executeCmd("go", withArgs("build", "-o", "bin/shadergen", "."), withStream()); err != nil {
		return err
	}
	return nil
}

// Generates a header for every shaders/*.glsl source.
func (Build) Shaders() error {
	mg.Deps(Build.Binary)

	sources, err := filepath.Glob("shaders/*.glsl")
	if err != nil {
		return err
	}
	if len(sources) == 0 {
		fmt.Println("No shaders found in shaders/")
		return nil
	}
	for _, src := range sources {
		if _, err := executeCmd("bin/shadergen", withArgs("generate", src), withEnv("SHADERGEN_LOG_LEVEL=info"), withStream()); err != nil {
			return err
		}
	}
	return nil
}
