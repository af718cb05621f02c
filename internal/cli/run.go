package cli

import (
	"errors"
	"fmt"
	"os"

	"github.com/spf13/cobra"

	"github.com/bemanproject/beman-init/internal/bootstrap"
	"github.com/bemanproject/beman-init/internal/config"
	"github.com/bemanproject/beman-init/internal/git"
	"github.com/bemanproject/beman-init/internal/logging"
)

// runInit is the RunE handler of the root command.
func runInit(cmd *cobra.Command, args []string) error {
	logger := logging.New("cli")
	ctx := cmd.Context()

	cwd, err := os.Getwd()
	if err != nil {
		return fmt.Errorf("getting current directory: %w", err)
	}

	client, err := git.NewGitClient(cwd)
	if err != nil {
		return err
	}
	root, err := client.TopLevel(ctx)
	if err != nil {
		return err
	}
	client.WorkDir = root

	fileCfg, meta, cfgPath, err := config.Load(flagConfig, root)
	if err != nil {
		return err
	}
	if cfgPath != "" {
		logger.Debug("loaded config", "path", cfgPath)
	}

	resolved, err := config.Resolve(config.NewDefaults(), fileCfg, os.LookupEnv, overridesFromFlags(cmd, args))
	if err != nil {
		return err
	}
	resolved.Path = cfgPath
	cfg := resolved.Config

	if flagInteractive {
		if err := RunWizard(&cfg.Project); err != nil {
			if errors.Is(err, ErrWizardCancelled) {
				logger.Info("aborted; nothing was changed")
			}
			return err
		}
	}

	vr := config.Validate(cfg, meta)
	for _, w := range vr.Warnings() {
		logger.Warn("config", "issue", w.String())
	}
	if err := vr.Err(); err != nil {
		return err
	}

	logger.Debug("resolved project",
		"name", cfg.Project.Name,
		"owner", cfg.Project.Owner,
		"owner_source", resolved.Sources["project.owner"],
		"paper", cfg.Project.Paper,
		"cpp_version", cfg.Project.CppVersion,
		"root", root,
	)

	runner := bootstrap.NewRunner(root, cfg, client,
		bootstrap.WithDryRun(flagDryRun),
		bootstrap.WithLogger(logging.New("bootstrap")),
	)
	res, err := runner.Run(ctx)
	if err != nil {
		return err
	}

	if !flagQuiet {
		fmt.Fprint(cmd.OutOrStdout(), renderSummary(cfg, res))
	}
	return nil
}

// overridesFromFlags collects the flags the user set explicitly, plus the
// positional project name.
func overridesFromFlags(cmd *cobra.Command, args []string) *config.CLIOverrides {
	o := &config.CLIOverrides{}
	if len(args) > 0 {
		name := args[0]
		o.Name = &name
	}
	flags := cmd.Flags()
	if flags.Changed("owner") {
		o.Owner = &flagOwner
	}
	if flags.Changed("paper") {
		o.Paper = &flagPaper
	}
	if flags.Changed("cpp-version") {
		o.CppVersion = &flagCppVersion
	}
	if flags.Changed("desc") {
		o.Description = &flagDesc
	}
	return o
}
