//go:build mage

package main

import (
	"fmt"

	"github.com/magefile/mage/mg"
)

type Run mg.Namespace

// Validates the shaders and runs the demo with config.toml.
func (Run) Demo() error {
	if err := buildShaders(); err != nil {
		return err
	}
	fmt.Println("Run demo...")
	if _, err := executeCmd("go", withArgs("run", ".", "--config", "config.toml"), withStream()); err != nil {
		return err
	}
	return nil
}

// Runs the package tests.
func (Run) Tests() error {
	_, err := executeCmd("go", withArgs("test", "./..."), withStream())
	return err
}
