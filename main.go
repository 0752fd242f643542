// The main package for the patchvault executable.
package main

import (
	"github.com/jbalsam/patchvault/cmd"
)

// main is the entry point of the application.
// It defers all execution to the Cobra CLI library.
func main() {
	cmd.Execute()
}
