//go:build mage

package main

import (
	"github.com/magefile/mage/mg"
)

type Build mg.Namespace

// Packs the testbed assets into a vesper pack archive.
func (Build) Pack() error {
	if _, err := executeCmd("go", withArgs("run", "./cmd/vpak", "-c", "testbed/assets", "-f", "testbed.vpak"), withStream()); err != nil {
		return err
	}
	return nil
}

// Runs the full test suite.
func (Build) Test() error {
	if _, err := executeCmd("go", withArgs("test", "./..."), withStream()); err != nil {
		return err
	}
	return nil
}
