package main

import (
	"fmt"
	"io"
	"maps"
	"slices"
	"strings"

	"github.com/CliForge/argspec/internal/logging"
	"github.com/CliForge/argspec/pkg/argspec"
	"github.com/CliForge/argspec/pkg/config"
	"github.com/CliForge/argspec/pkg/definition"
	"github.com/CliForge/argspec/pkg/output"
	"github.com/spf13/cobra"
)

func newParseCmd() *cobra.Command {
	var (
		format      string
		defaultsCfg string
	)

	cmd := &cobra.Command{
		Use:   "parse FILE [ARGS...]",
		Short: "Parse an argument list against a definition",
		Long: `Parse an argument list against a command definition and print the
resulting invocation, or every usage error found.

Flags for argspec itself must come before FILE; everything after it is
parsed by the definition.`,
		Example: `  argspec parse myapp.yaml add milk --count 2
  argspec parse -f yaml --defaults config.yaml myapp.yaml list`,
		Args: cobra.MinimumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			verbose, _ := cmd.Flags().GetBool("verbose")
			debug, _ := cmd.Flags().GetBool("debug")
			logger := logging.New(logging.Options{Verbosity: boolCount(verbose), Debug: debug, Writer: cmd.ErrOrStderr()})

			spec, err := definition.LoadFile(args[0])
			if err != nil {
				return err
			}

			var opts []argspec.Option
			if defaultsCfg != "" {
				cfg, err := config.NewLoader(spec.Name, nil, "").WithConfigFile(defaultsCfg).Load()
				if err != nil {
					return err
				}
				logger.Info("using defaults", logger.Args("file", cfg.File()))
				opts = append(opts, argspec.WithDefaultSource(cfg))
			}

			parser, err := argspec.NewParser(spec, opts...)
			if err != nil {
				return err
			}

			inv, err := parser.Parse(args[1:])

			out := output.NewManager()
			if diags, ok := argspec.AsDiagnostics(err); ok {
				if ferr := out.FormatDiagnostics(cmd.ErrOrStderr(), diags, format); ferr != nil {
					return ferr
				}
				return reported(argspec.ExitUsage)
			}
			if err != nil {
				return err
			}

			logger.Debug("parsed", logger.Args("command", inv.Path(), "values", len(inv.Values())))
			switch format {
			case "text":
				return writeInvocation(cmd.OutOrStdout(), inv)
			case "table":
				return out.Format(cmd.OutOrStdout(), valueRows(inv), format)
			}
			return out.Format(cmd.OutOrStdout(), inv, format)
		},
	}

	cmd.Flags().SetInterspersed(false)
	formatFlag(cmd, &format, "json")
	cmd.Flags().StringVar(&defaultsCfg, "defaults", "", "Config `FILE` whose defaults section supplies argument defaults")

	return cmd
}

type valueRow struct {
	Name   string `json:"name"`
	Value  string `json:"value"`
	Origin string `json:"origin"`
}

// valueRows lists the values of inv by name, marking those that came from
// defaults.
func valueRows(inv *argspec.Invocation) []valueRow {
	values := inv.Values()
	names := slices.Sorted(maps.Keys(values))

	rows := make([]valueRow, 0, len(names))
	for _, name := range names {
		origin := "default"
		if inv.Explicit(name) {
			origin = "explicit"
		}
		rows = append(rows, valueRow{Name: name, Value: fmt.Sprint(values[name]), Origin: origin})
	}
	return rows
}

func writeInvocation(w io.Writer, inv *argspec.Invocation) error {
	if _, err := fmt.Fprintf(w, "command: %s\n", strings.Join(inv.Chain(), " ")); err != nil {
		return err
	}
	for _, row := range valueRows(inv) {
		if _, err := fmt.Fprintf(w, "  %s = %s (%s)\n", row.Name, row.Value, row.Origin); err != nil {
			return err
		}
	}
	return nil
}

func boolCount(b bool) int {
	if b {
		return 1
	}
	return 0
}
