//go:build mage

package main

import (
	"github.com/magefile/mage/mg"
)

type Build mg.Namespace

// Tool builds plytool into ./bin.
func (Build) Tool() error {
	_, err := executeCmd("go", withArgs("build", "-o", "bin/plytool", "./cmd/plytool"), withEnv("CGO_ENABLED=0"), withStream())
	return err
}

// Tidy runs go mod tidy.
func (Build) Tidy() error {
	_, err := executeCmd("go", withArgs("mod", "tidy"))
	return err
}
