// Package main implements the argspec developer CLI, which checks command
// definitions and shows how they parse.
package main

import (
	"errors"
	"fmt"
	"os"
	"strings"

	"github.com/CliForge/argspec/pkg/argspec"
	"github.com/CliForge/argspec/pkg/output"
	"github.com/spf13/cobra"
)

var (
	// Version is set at build time
	version = "0.1.0"
	// BuildDate is set at build time
	buildDate = "unknown"
)

func main() {
	err := newRootCmd().Execute()
	if err == nil {
		return
	}

	// Commands that already reported their problems exit quietly.
	var exitErr *argspec.ExitError
	if !errors.As(err, &exitErr) || exitErr.Err != nil {
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
	}
	os.Exit(argspec.ExitCode(err))
}

func newRootCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "argspec",
		Short: "argspec - check and exercise declarative command definitions",
		Long: `argspec works on YAML command definitions: it validates them,
shows how argument lists tokenize and parse against them, and renders
their help and shell completion scripts.`,
		Version:       fmt.Sprintf("%s (built %s)", version, buildDate),
		SilenceUsage:  true,
		SilenceErrors: true,
	}

	cmd.PersistentFlags().BoolP("verbose", "v", false, "Enable verbose output")
	cmd.PersistentFlags().BoolP("debug", "d", false, "Enable debug mode")

	cmd.AddCommand(newValidateCmd())
	cmd.AddCommand(newParseCmd())
	cmd.AddCommand(newTokensCmd())
	cmd.AddCommand(newUsageCmd())
	cmd.AddCommand(newCompletionCmd())

	return cmd
}

// formatFlag registers the --format flag shared by the inspection commands.
func formatFlag(cmd *cobra.Command, target *string, def string) {
	formats := output.NewManager().GetSupportedFormats()
	cmd.Flags().StringVarP(target, "format", "f", def, fmt.Sprintf("Output format (%s)", strings.Join(formats, "|")))
	_ = cmd.RegisterFlagCompletionFunc("format", cobra.FixedCompletions(formats, cobra.ShellCompDirectiveNoFileComp))
}

// reported wraps a failure whose details have already been printed.
func reported(code int) error {
	return &argspec.ExitError{Code: code}
}
