// Command gen-manpages writes the beman-init(1) man page using cobra's doc
// package, for bundling into release archives.
//
// Usage:
//
//	go run ./scripts/gen-manpages [output-dir]
//
// The default output directory is "man/man1".
package main

import (
	"fmt"
	"os"

	"github.com/spf13/cobra/doc"

	"github.com/bemanproject/beman-init/internal/buildinfo"
	"github.com/bemanproject/beman-init/internal/cli"
)

func main() {
	outDir := "man/man1"
	if len(os.Args) > 1 {
		outDir = os.Args[1]
	}

	if err := os.MkdirAll(outDir, 0o755); err != nil {
		fmt.Fprintf(os.Stderr, "error creating output dir %q: %v\n", outDir, err)
		os.Exit(1)
	}

	rootCmd := cli.NewRootCmd()
	rootCmd.DisableAutoGenTag = true

	header := &doc.GenManHeader{
		Title:   "BEMAN-INIT",
		Section: "1",
		Source:  "beman-init " + buildinfo.GetInfo().Version,
		Manual:  "Beman Project Tools",
	}

	if err := doc.GenManTree(rootCmd, header, outDir); err != nil {
		fmt.Fprintf(os.Stderr, "error generating man pages: %v\n", err)
		os.Exit(1)
	}

	fmt.Printf("Man pages generated in %s/\n", outDir)
}
