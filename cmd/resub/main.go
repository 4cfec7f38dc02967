// Package main is the entry point for the resub CLI tool.
package main

import (
	"os"

	"github.com/resub/resub/internal/cli"
)

func main() {
	os.Exit(cli.Execute())
}
