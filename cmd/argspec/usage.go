package main

import (
	"fmt"
	"strings"

	"github.com/CliForge/argspec/internal/builder"
	"github.com/CliForge/argspec/pkg/argspec"
	"github.com/CliForge/argspec/pkg/definition"
	"github.com/spf13/cobra"
)

func newUsageCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "usage FILE [COMMAND...]",
		Short: "Render the help of a defined command",
		Example: `  argspec usage myapp.yaml
  argspec usage myapp.yaml list`,
		Args: cobra.MinimumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			spec, err := definition.LoadFile(args[0])
			if err != nil {
				return err
			}

			target, ok := spec.Find(args[1:]...)
			if !ok {
				return fmt.Errorf("%s has no command %q", spec.Name, strings.Join(args[1:], " "))
			}
			return builder.NewBuilder(spec, nil).RenderHelp(cmd.OutOrStdout(), target.Path())
		},
	}
	return cmd
}

func newCompletionCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "completion FILE SHELL",
		Short: "Generate a completion script for a defined command",
		Args:  cobra.ExactArgs(2),
		ValidArgsFunction: func(cmd *cobra.Command, args []string, toComplete string) ([]cobra.Completion, cobra.ShellCompDirective) {
			if len(args) == 1 {
				return builder.Shells, cobra.ShellCompDirectiveNoFileComp
			}
			return nil, cobra.ShellCompDirectiveDefault
		},
		RunE: func(cmd *cobra.Command, args []string) error {
			spec, err := definition.LoadFile(args[0])
			if err != nil {
				return err
			}
			err = builder.NewBuilder(spec, nil).Completion(cmd.OutOrStdout(), args[1])
			if err != nil {
				return &argspec.ExitError{Code: argspec.ExitUsage, Err: err}
			}
			return nil
		},
	}
	return cmd
}
