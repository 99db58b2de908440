//go:build mage

package main

import (
	"github.com/magefile/mage/mg"
)

type Test mg.Namespace

// All runs vet and the full test suite with the race detector.
func (Test) All() error {
	mg.SerialDeps(Test.Vet)
	_, err := executeCmd("go", withArgs("test", "-race", "./..."), withStream())
	return err
}

// Parser runs only the PLY parser tests.
func (Test) Parser() error {
	_, err := executeCmd("go", withArgs("test", "-v", "./pkg/ply/..."), withStream())
	return err
}

// Vet runs go vet.
func (Test) Vet() error {
	_, err := executeCmd("go", withArgs("vet", "./..."))
	return err
}
