package main

import (
	"fmt"
	"log/slog"
	"os"
	"path/filepath"

	"github.com/spf13/cobra"

	"github.com/sameehj/scriptkit/pkg/config"
	"github.com/sameehj/scriptkit/pkg/env"
	"github.com/sameehj/scriptkit/pkg/exec"
	"github.com/sameehj/scriptkit/pkg/runtime/logging"
	"github.com/sameehj/scriptkit/pkg/script"
	"github.com/sameehj/scriptkit/pkg/scripts"
	"github.com/sameehj/scriptkit/pkg/version"
)

// app holds what the root command loads before any subcommand runs.
type app struct {
	cfgFile string
	cfg     *config.Config
	logger  *slog.Logger
}

func main() {
	if err := newRootCmd().Execute(); err != nil {
		fmt.Fprintf(os.Stderr, "error: %v\n", err)
		os.Exit(1)
	}
}

func newRootCmd() *cobra.Command {
	a := &app{}
	root := &cobra.Command{
		Use:               "scriptkit",
		Short:             "Run repository maintenance scripts",
		SilenceUsage:      true,
		SilenceErrors:     true,
		PersistentPreRunE: a.setup,
	}
	root.PersistentFlags().StringVar(&a.cfgFile, "config", "", "config file (default: ~/.scriptkit/config.yaml)")

	root.AddCommand(a.scriptsCmd())
	root.AddCommand(versionCmd())
	return root
}

// setup loads configuration, installs the logger and exports the .env file.
func (a *app) setup(cmd *cobra.Command, args []string) error {
	cfg, err := config.LoadConfig(a.cfgFile)
	if err != nil {
		return err
	}
	a.cfg = cfg
	a.logger = logging.New(cfg.LogLevel, cfg.LogFormat)
	slog.SetDefault(a.logger)

	if cfg.EnvFile == "" {
		return nil
	}
	loaded, err := env.Load(cfg.EnvFile)
	if err != nil {
		return err
	}
	if len(loaded) > 0 {
		a.logger.Debug("loaded environment", "file", filepath.Clean(cfg.EnvFile), "keys", loaded)
	}
	return nil
}

func (a *app) scriptsCmd() *cobra.Command {
	cmd := &cobra.Command{Use: "scripts", Short: "Script commands"}
	scripts.AttachToGroup(cmd, a.newRunner)
	return cmd
}

func versionCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "version",
		Short: "Print version information",
		RunE: func(cmd *cobra.Command, args []string) error {
			fmt.Fprintln(cmd.OutOrStdout(), version.String())
			return nil
		},
	}
}

// newRunner builds a Runner from the loaded configuration.
func (a *app) newRunner(cmd *cobra.Command) (*script.Runner, error) {
	cfg := a.cfg
	if cfg == nil {
		cfg = config.Default()
	}
	logger := a.logger
	if logger == nil {
		logger = slog.Default()
	}

	execTimeout, _ := cfg.ExecTimeout()
	executor := &exec.SafeExecutor{
		Timeout:   execTimeout,
		MaxOutput: cfg.Exec.MaxOutput,
		Blocklist: cfg.Exec.Blocklist,
	}
	modules, err := script.Modules(cfg.Scripts.Modules, executor)
	if err != nil {
		return nil, err
	}
	timeout, _ := cfg.ScriptTimeout()
	return &script.Runner{
		Stdout:   cmd.OutOrStdout(),
		Modules:  modules,
		Timeout:  timeout,
		MaxSteps: cfg.Scripts.MaxSteps,
		Logger:   logger,
	}, nil
}
