package builder

import (
	"fmt"
	"io"
	"slices"

	"github.com/CliForge/argspec/pkg/argspec"
	"github.com/spf13/cobra"
)

// Shells lists the shells completion scripts can be generated for.
var Shells = []string{"bash", "zsh", "fish", "powershell"}

// WriteCompletion generates the completion script for shell.
func WriteCompletion(rootCmd *cobra.Command, shell string, w io.Writer) error {
	switch shell {
	case "bash":
		return rootCmd.GenBashCompletionV2(w, true)
	case "zsh":
		return rootCmd.GenZshCompletion(w)
	case "fish":
		return rootCmd.GenFishCompletion(w, true)
	case "powershell":
		return rootCmd.GenPowerShellCompletionWithDesc(w)
	default:
		return fmt.Errorf("unsupported shell: %s", shell)
	}
}

// Completion builds the tree and writes the completion script for shell.
func (b *Builder) Completion(w io.Writer, shell string) error {
	if !slices.Contains(Shells, shell) {
		return fmt.Errorf("unsupported shell: %s", shell)
	}
	rootCmd, err := b.Build()
	if err != nil {
		return err
	}
	return WriteCompletion(rootCmd, shell, w)
}

// CompletionFunc is a helper type for dynamic completion functions.
type CompletionFunc = cobra.CompletionFunc

// FixedCompletion returns a completion function with fixed values.
func FixedCompletion(values ...string) CompletionFunc {
	return func(cmd *cobra.Command, args []string, toComplete string) ([]cobra.Completion, cobra.ShellCompDirective) {
		return values, cobra.ShellCompDirectiveNoFileComp
	}
}

// positionalCompletion offers the completions of the positional at the
// current index. Cobra adds subcommand names itself.
func positionalCompletion(spec *argspec.CommandSpec) CompletionFunc {
	return func(cmd *cobra.Command, args []string, toComplete string) ([]cobra.Completion, cobra.ShellCompDirective) {
		if len(args) >= len(spec.Positionals) {
			return nil, cobra.ShellCompDirectiveNoFileComp
		}
		pos := &spec.Positionals[len(args)]
		if len(pos.Completions) == 0 {
			return nil, cobra.ShellCompDirectiveDefault
		}
		return pos.Completions, cobra.ShellCompDirectiveNoFileComp
	}
}
