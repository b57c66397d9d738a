//go:build mage

package main

import (
	"github.com/magefile/mage/mg"
	"github.com/magefile/mage/sh"
)

// Scan builds the CLI and lists unlinked citation authors in a wikitext file.
func Scan(file string) error {
	mg.Deps(Build)
	return sh.RunV(binPath, "scan", file)
}

// Serve builds the CLI and starts the local HTTP service.
func Serve() error {
	mg.Deps(Build)
	return sh.RunV(binPath, "serve", "--verbose")
}
