// Package scripts is the command-group plugin that runs scripts and reports
// their literal globals.
package scripts

import (
	"context"
	"errors"
	"fmt"
	"io"
	"log/slog"
	"os"

	"github.com/spf13/cobra"
	"gopkg.in/yaml.v3"

	"github.com/sameehj/scriptkit/pkg/catalog"
	"github.com/sameehj/scriptkit/pkg/globals"
	"github.com/sameehj/scriptkit/pkg/script"
)

// RunnerFactory builds the Runner used by the execute command. It is called
// once per invocation so configuration is read at run time.
type RunnerFactory func(cmd *cobra.Command) (*script.Runner, error)

// AttachToGroup registers the script commands on group.
func AttachToGroup(group *cobra.Command, newRunner RunnerFactory) {
	group.AddCommand(ExecuteCmd(newRunner))
	group.AddCommand(GlobalsCmd())
	group.AddCommand(ListCmd())
}

// ExecuteCmd returns `execute <script_path|name>`. A name is looked up in
// the workspace catalog when no such file exists.
func ExecuteCmd(newRunner RunnerFactory) *cobra.Command {
	return &cobra.Command{
		Use:   "execute <script_path|name>",
		Short: "Executes an arbitrary script",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			runner, err := newRunner(cmd)
			if err != nil {
				return err
			}
			if runner.Stdout == nil {
				runner.Stdout = cmd.OutOrStdout()
			}
			ctx := cmd.Context()
			if ctx == nil {
				ctx = context.Background()
			}
			_, err = runner.Run(ctx, resolveScript(args[0]))
			var rerr *script.RuntimeError
			if errors.As(err, &rerr) {
				logger := runner.Logger
				if logger == nil {
					logger = slog.Default()
				}
				logger.Debug("script backtrace", "run_id", rerr.RunID, "backtrace", rerr.Backtrace())
			}
			return err
		},
	}
}

// GlobalsCmd returns `globals <script_path|name>`, which prints the literal
// globals a script declares without running it.
func GlobalsCmd() *cobra.Command {
	var format string
	cmd := &cobra.Command{
		Use:   "globals <script_path|name>",
		Short: "Print the literal globals of a script without running it",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			m, err := globals.Extract(resolveScript(args[0]))
			if err != nil {
				return err
			}
			return writeGlobals(cmd.OutOrStdout(), m, format)
		},
	}
	cmd.Flags().StringVar(&format, "format", "yaml", "output format (yaml or json)")
	return cmd
}

// ListCmd returns `list [dir]`, which lists the scripts in dir (default:
// the workspace scripts directory) with the number of literal globals each
// declares.
func ListCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "list [dir]",
		Short: "List scripts in a directory",
		Args:  cobra.MaximumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			dir := catalog.DefaultDir()
			if len(args) == 1 {
				dir = args[0]
			}
			entries, err := catalog.NewRegistry(dir).List()
			if err != nil {
				return err
			}
			w := cmd.OutOrStdout()
			for _, e := range entries {
				var status string
				if e.Err != nil {
					status = "invalid: " + e.Err.Error()
				} else {
					status = fmt.Sprintf("%d globals", e.Globals.Len())
				}
				fmt.Fprintf(w, "%s\t%s\n", e.Name, status)
			}
			return nil
		},
	}
}

// resolveScript returns arg when it names a file. Otherwise a script of that
// name in the workspace catalog is used, if there is one.
func resolveScript(arg string) string {
	if _, err := os.Stat(arg); err == nil {
		return arg
	}
	reg := catalog.NewRegistry(catalog.DefaultDir())
	if reg.Exists(arg) {
		return reg.ScriptPath(arg)
	}
	return arg
}

func writeGlobals(w io.Writer, m *globals.Map, format string) error {
	switch format {
	case "yaml":
		enc := yaml.NewEncoder(w)
		enc.SetIndent(2)
		if err := enc.Encode(m); err != nil {
			return fmt.Errorf("encode globals: %w", err)
		}
		return enc.Close()
	case "json":
		data, err := m.MarshalJSON()
		if err != nil {
			return fmt.Errorf("encode globals: %w", err)
		}
		_, err = fmt.Fprintln(w, string(data))
		return err
	default:
		return fmt.Errorf("unknown format %q (want yaml or json)", format)
	}
}
