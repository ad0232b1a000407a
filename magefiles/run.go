//go:build mage

package main

import (
	"github.com/magefile/mage/mg"
)

type Run mg.Namespace

// Regenerates the given shader every time it is saved.
func (Run) Watch(shader string) error {
	mg.Deps(Build.Binary)

	if _, err := executeCmd("bin/shadergen", withArgs("generate", "-watch", "-log-level", "debug", shader), withStream()); err != nil {
		return err
	}
	return nil
}

// Runs the test suite.
func (Run) Tests() error {
	if _, err := executeCmd("go", withArgs("test", "./..."), withStream()); err != nil {
		return err
	}
	return nil
}
