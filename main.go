// The main package for the csradar executable.
package main

import (
	"github.com/csradar/csradar/cmd"
)

// main is the entry point of the application.
// It defers all execution to the Cobra CLI library.
func main() {
	cmd.Execute()
}
