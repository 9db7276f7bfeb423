package main

import (
	"os"

	"github.com/temirov/blihbetter/cmd/cli"
)

// main executes the blihbetter command-line application and exits with the status derived from its failure.
func main() {
	executionError := cli.Execute()
	cli.ReportError(os.Stderr, executionError)
	os.Exit(cli.ExitCode(executionError))
}
