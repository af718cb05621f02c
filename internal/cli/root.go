package cli

import (
	"errors"
	"fmt"
	"os"

	"github.com/charmbracelet/lipgloss"
	"github.com/muesli/termenv"
	"github.com/spf13/cobra"

	"github.com/bemanproject/beman-init/internal/buildinfo"
	"github.com/bemanproject/beman-init/internal/git"
	"github.com/bemanproject/beman-init/internal/logging"
)

// Exit codes returned by Execute.
const (
	exitOK    = 0
	exitError = 1
	exitUsage = 2
)

// Environment variables for the ambient flags.
const (
	envVerbose   = "BEMAN_INIT_VERBOSE"
	envQuiet     = "BEMAN_INIT_QUIET"
	envNoColor   = "BEMAN_INIT_NO_COLOR"
	envLogFormat = "BEMAN_INIT_LOG_FORMAT"
)

// Global flag values accessible to the command.
var (
	flagVerbose bool
	flagQuiet   bool
	flagConfig  string
	flagDir     string
	flagDryRun  bool
	flagNoColor bool
)

// Project flags. Only flags the user actually set override lower layers.
var (
	flagOwner       string
	flagPaper       string
	flagCppVersion  int
	flagDesc        string
	flagInteractive bool
)

const rootLong = `beman-init turns a fresh clone of the Beman exemplar template into a new
project. It renames the exemplar directories, regenerates README.md, sets the
project description and C++ standard, replaces every remaining "exemplar" and
"EXEMPLAR" with the project name, and commits the result.

Run it from the root of the cloned exemplar repository.`

const rootExample = `  beman-init optional
  beman-init optional --owner bemanproject --paper P2988R5 --cpp-version 23 \
      --desc "std::optional<T&>"
  beman-init --interactive
  beman-init optional --dry-run`

// rootCmd is the beman-init command. It has no subcommands.
var rootCmd = &cobra.Command{
	Use:     "beman-init <project_name>",
	Short:   "Create a new Beman project from the exemplar template",
	Long:    rootLong,
	Example: rootExample,
	Version: buildinfo.GetInfo().Version,

	SilenceUsage:  true,
	SilenceErrors: true,

	Args:              validateArgs,
	PersistentPreRunE: preRun,
	RunE:              runInit,
}

func init() {
	registerFlags(rootCmd, true)
	rootCmd.SetVersionTemplate(buildinfo.GetInfo().String() + "\n")
	rootCmd.SetFlagErrorFunc(func(_ *cobra.Command, err error) error {
		return &usageError{err: err}
	})
}

// registerFlags declares every flag on cmd. bind ties them to the package
// globals; generators pass false to get an independent copy.
func registerFlags(cmd *cobra.Command, bind bool) {
	pf := cmd.PersistentFlags()
	f := cmd.Flags()

	if bind {
		pf.BoolVarP(&flagVerbose, "verbose", "v", false, "Enable verbose (debug) output (env: "+envVerbose+")")
		pf.BoolVarP(&flagQuiet, "quiet", "q", false, "Suppress all output except errors (env: "+envQuiet+")")
		pf.StringVar(&flagConfig, "config", "", "Path to beman-init.toml config file")
		pf.StringVar(&flagDir, "dir", "", "Run in this directory instead of the current one")
		pf.BoolVar(&flagDryRun, "dry-run", false, "Show planned changes without touching files or git")
		pf.BoolVar(&flagNoColor, "no-color", false, "Disable colored output (env: "+envNoColor+", NO_COLOR)")

		f.StringVar(&flagOwner, "owner", "", "GitHub user or organization owning the repository (default: your login name)")
		f.StringVar(&flagPaper, "paper", "", "WG21 paper number implemented by the project (default \"TODO\")")
		f.IntVar(&flagCppVersion, "cpp-version", 0, "C++ standard version the project requires (default 26)")
		f.StringVar(&flagDesc, "desc", "", "One-line project description (default \"TODO\")")
		f.BoolVarP(&flagInteractive, "interactive", "i", false, "Collect and confirm the project details in a form")
		return
	}

	pf.BoolP("verbose", "v", false, "Enable verbose (debug) output (env: "+envVerbose+")")
	pf.BoolP("quiet", "q", false, "Suppress all output except errors (env: "+envQuiet+")")
	pf.String("config", "", "Path to beman-init.toml config file")
	pf.String("dir", "", "Run in this directory instead of the current one")
	pf.Bool("dry-run", false, "Show planned changes without touching files or git")
	pf.Bool("no-color", false, "Disable colored output (env: "+envNoColor+", NO_COLOR)")

	f.String("owner", "", "GitHub user or organization owning the repository (default: your login name)")
	f.String("paper", "", "WG21 paper number implemented by the project (default \"TODO\")")
	f.Int("cpp-version", 0, "C++ standard version the project requires (default 26)")
	f.String("desc", "", "One-line project description (default \"TODO\")")
	f.BoolP("interactive", "i", false, "Collect and confirm the project details in a form")
}

// usageError marks errors caused by a malformed command line.
type usageError struct {
	err error
}

func (e *usageError) Error() string { return e.err.Error() }
func (e *usageError) Unwrap() error { return e.err }

// validateArgs requires the project name unless the form will ask for it.
func validateArgs(cmd *cobra.Command, args []string) error {
	check := cobra.ExactArgs(1)
	if interactive, _ := cmd.Flags().GetBool("interactive"); interactive {
		check = cobra.MaximumNArgs(1)
	}
	if err := check(cmd, args); err != nil {
		return &usageError{err: err}
	}
	return nil
}

// preRun applies the ambient flags and checks for git before anything is
// read or written. Cobra validates arguments first, so usage errors win
// over a missing git.
func preRun(cmd *cobra.Command, _ []string) error {
	if !cmd.Flags().Changed("verbose") && os.Getenv(envVerbose) != "" {
		flagVerbose = true
	}
	if !cmd.Flags().Changed("quiet") && os.Getenv(envQuiet) != "" {
		flagQuiet = true
	}
	if !cmd.Flags().Changed("no-color") && (os.Getenv("NO_COLOR") != "" || os.Getenv(envNoColor) != "") {
		flagNoColor = true
	}

	logging.Setup(flagVerbose, flagQuiet, os.Getenv(envLogFormat) == "json")

	if flagNoColor {
		lipgloss.SetColorProfile(termenv.Ascii)
	}

	if err := git.CheckInstalled(); err != nil {
		logging.New("cli").Debug("git lookup failed", "error", err)
		return errors.New(git.InstallHint)
	}

	if flagDir != "" {
		if err := os.Chdir(flagDir); err != nil {
			return fmt.Errorf("changing directory to %s: %w", flagDir, err)
		}
	}
	return nil
}

// Execute runs the root command and returns the process exit code: 0 on
// success, 2 for usage errors and 1 for everything else.
func Execute() int {
	err := rootCmd.Execute()
	if err == nil {
		return exitOK
	}

	stderr := rootCmd.ErrOrStderr()
	fmt.Fprintf(stderr, "Error: %v\n", err)

	var ue *usageError
	if errors.As(err, &ue) {
		fmt.Fprintf(stderr, "Run '%s --help' for usage.\n", rootCmd.Name())
		return exitUsage
	}
	return exitError
}

// NewRootCmd returns a fresh copy of the command tree for external tools
// such as the completion and man page generators. Its flags are not bound
// to the package globals.
func NewRootCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:           rootCmd.Use,
		Short:         rootCmd.Short,
		Long:          rootCmd.Long,
		Example:       rootCmd.Example,
		Version:       rootCmd.Version,
		SilenceUsage:  true,
		SilenceErrors: true,
		Args:          validateArgs,
		RunE:          func(*cobra.Command, []string) error { return nil },
	}
	registerFlags(cmd, false)
	return cmd
}
