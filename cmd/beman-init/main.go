// Command beman-init creates a new Beman library project from a clone of
// the exemplar template.
package main

import (
	"os"

	"github.com/bemanproject/beman-init/internal/cli"
)

func main() {
	os.Exit(cli.Execute())
}
