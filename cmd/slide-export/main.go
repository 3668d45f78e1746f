// Package main is the entry point for the slide-export CLI.
package main

import "github.com/slidekit/slide-export/internal/cli"

// version is set by ldflags during release builds.
var version = "dev"

func main() {
	cli.Version = version
	cli.Execute(cli.NewRootCommand())
}
