// Command gen-completions writes beman-init shell completion scripts for
// bash, zsh, fish and PowerShell into an output directory, for bundling
// into release archives.
//
// Usage:
//
//	go run ./scripts/gen-completions [output-dir]
//
// The default output directory is "completions".
package main

import (
	"fmt"
	"io"
	"os"
	"path/filepath"

	"github.com/spf13/cobra"

	"github.com/bemanproject/beman-init/internal/cli"
)

// completion pairs an output file name with its generator.
type completion struct {
	file string
	gen  func(cmd *cobra.Command, w io.Writer) error
}

var completions = []completion{
	{file: "beman-init.bash", gen: func(cmd *cobra.Command, w io.Writer) error { return cmd.GenBashCompletionV2(w, true) }},
	{file: "_beman-init", gen: func(cmd *cobra.Command, w io.Writer) error { return cmd.GenZshCompletion(w) }},
	{file: "beman-init.fish", gen: func(cmd *cobra.Command, w io.Writer) error { return cmd.GenFishCompletion(w, true) }},
	{file: "beman-init.ps1", gen: func(cmd *cobra.Command, w io.Writer) error { return cmd.GenPowerShellCompletionWithDesc(w) }},
}

func main() {
	outDir := "completions"
	if len(os.Args) > 1 {
		outDir = os.Args[1]
	}
	if err := generate(outDir); err != nil {
		fmt.Fprintln(os.Stderr, "error:", err)
		os.Exit(1)
	}
	fmt.Printf("All completions written to %s/\n", outDir)
}

func generate(outDir string) error {
	if err := os.MkdirAll(outDir, 0o755); err != nil {
		return fmt.Errorf("creating output dir %q: %w", outDir, err)
	}

	rootCmd := cli.NewRootCmd()
	for _, c := range completions {
		path := filepath.Join(outDir, c.file)
		f, err := os.Create(path)
		if err != nil {
			return fmt.Errorf("creating %q: %w", path, err)
		}
		if err := c.gen(rootCmd, f); err != nil {
			f.Close() //nolint:errcheck
			return fmt.Errorf("generating %q: %w", path, err)
		}
		if err := f.Close(); err != nil {
			return fmt.Errorf("closing %q: %w", path, err)
		}
		fmt.Printf("Generated %s\n", path)
	}
	return nil
}
