//go:build mage

package main

import (
	"fmt"
	"os/exec"

	"github.com/magefile/mage/mg"
)

type Build mg.Namespace

// Validates the GLSL sources with glslangValidator, when it is installed.
func (Build) Shaders() error {
	return buildShaders()
}

// Runs go mod download and then builds the binary into bin/.
func (Build) Binary() error {
	if _, err := executeCmd("go", withArgs("mod", "download"), withStream()); err != nil {
		return err
	}
	if _, err := executeCmd("go", withArgs("build", "-o", binaryPath, "."), withStream()); err != nil {
		return err
	}
	return nil
}

func buildShaders() error {
	if _, err := exec.LookPath(shaderValidator); err != nil {
		fmt.Printf("%s not found, skipping shader validation\n", shaderValidator)
		return nil
	}
	for _, stage := range shaderStages {
		if _, err := executeCmd(shaderValidator, withArgs("-S", stage.name, stage.path)); err != nil {
			return err
		}
	}
	return nil
}

// Tidies go.mod and go.sum.
func (Build) Tidy() error {
	return goTidy()
}
