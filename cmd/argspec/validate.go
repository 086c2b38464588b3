package main

import (
	"fmt"
	"strings"

	"github.com/CliForge/argspec/pkg/argspec"
	"github.com/CliForge/argspec/pkg/definition"
	"github.com/CliForge/argspec/pkg/output"
	"github.com/spf13/cobra"
)

func newValidateCmd() *cobra.Command {
	var (
		printNormalized bool
		format          string
	)

	cmd := &cobra.Command{
		Use:   "validate FILE",
		Short: "Validate a command definition",
		Long: `Validate a YAML command definition.

This command checks:
  - Definition syntax and unknown keys
  - Arity and type names, short aliases
  - Duplicate aliases, names and subcommands
  - Defaults and check expressions`,
		Args: cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			verbose, _ := cmd.Flags().GetBool("verbose")
			out := cmd.OutOrStdout()

			spec, err := definition.LoadFile(args[0])
			if err != nil {
				var modelErrs []*argspec.ModelError
				collectModelErrors(err, &modelErrs)
				if len(modelErrs) == 0 {
					return fmt.Errorf("definition validation failed: %w", err)
				}
				fmt.Fprintf(cmd.ErrOrStderr(), "✗ %s has %d problem(s):\n", args[0], len(modelErrs))
				for _, e := range modelErrs {
					fmt.Fprintf(cmd.ErrOrStderr(), "  - %s\n", e.Error())
				}
				return reported(argspec.ExitFailure)
			}

			if printNormalized {
				data, err := definition.Marshal(definition.FromSpec(spec))
				if err != nil {
					return err
				}
				_, err = out.Write(data)
				return err
			}

			rows := argumentRows(spec)
			fmt.Fprintf(out, "✓ Definition is valid: %s (%d commands, %d arguments)\n",
				spec.Name, countCommands(spec), len(rows))
			if verbose {
				fmt.Fprintln(out)
				return output.NewManager().Format(out, rows, format)
			}
			return nil
		},
	}

	cmd.Flags().BoolVar(&printNormalized, "print", false, "Print the normalized definition instead of a summary")
	formatFlag(cmd, &format, "table")

	return cmd
}

// collectModelErrors walks wrapped and joined errors for ModelErrors.
func collectModelErrors(err error, out *[]*argspec.ModelError) {
	switch e := err.(type) {
	case *argspec.ModelError:
		*out = append(*out, e)
	case interface{ Unwrap() []error }:
		for _, inner := range e.Unwrap() {
			collectModelErrors(inner, out)
		}
	case interface{ Unwrap() error }:
		collectModelErrors(e.Unwrap(), out)
	}
}

type argumentRow struct {
	Command  string `json:"command" yaml:"command"`
	Argument string `json:"argument" yaml:"argument"`
	Aliases  string `json:"aliases" yaml:"aliases"`
	Arity    string `json:"arity" yaml:"arity"`
	Type     string `json:"type" yaml:"type"`
	Default  string `json:"default,omitempty" yaml:"default,omitempty"`
	Required bool   `json:"required" yaml:"required"`
	Global   bool   `json:"global" yaml:"global"`
}

func argumentRows(cmd *argspec.CommandSpec) []argumentRow {
	var rows []argumentRow
	path := strings.Join(cmd.Path(), " ")
	add := func(args []argspec.ArgumentSpec) {
		for i := range args {
			arg := &args[i]
			rows = append(rows, argumentRow{
				Command:  path,
				Argument: arg.Name,
				Aliases:  arg.Display(),
				Arity:    arg.Arity.String(),
				Type:     arg.Type.String(),
				Default:  arg.Default,
				Required: arg.Required,
				Global:   arg.Global,
			})
		}
	}
	add(cmd.Flags)
	add(cmd.Positionals)
	for _, child := range cmd.Subcommands {
		rows = append(rows, argumentRows(child)...)
	}
	return rows
}

func countCommands(cmd *argspec.CommandSpec) int {
	n := 1
	for _, child := range cmd.Subcommands {
		n += countCommands(child)
	}
	return n
}
