// The main package for the truthlens executable.
package main

import (
	"github.com/truthlens/truthlens/cmd"
)

// main is the entry point of the application.
// It defers all execution to the Cobra CLI library.
func main() {
	cmd.Execute()
}
