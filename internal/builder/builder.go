// Package builder mirrors argspec command trees onto Cobra commands so that
// help text and shell completion come from the same definition that drives
// parsing.
package builder

import (
	"context"
	"fmt"
	"io"
	"strings"

	"github.com/CliForge/argspec/pkg/argspec"
	"github.com/spf13/cobra"
)

// Builder builds Cobra commands from argspec command trees.
type Builder struct {
	root       *argspec.CommandSpec
	config     *BuilderConfig
	flags      *FlagBuilder
	rootCmd    *cobra.Command
	commandMap map[string]*cobra.Command
}

// BuilderConfig configures command building behavior.
type BuilderConfig struct {
	// Version is reported by the root command.
	Version string
	// Example is shown in the root command help.
	Example string
}

// NewBuilder creates a new command builder.
func NewBuilder(root *argspec.CommandSpec, config *BuilderConfig) *Builder {
	if config == nil {
		config = DefaultBuilderConfig()
	}
	return &Builder{
		root:       root,
		config:     config,
		flags:      NewFlagBuilder(),
		commandMap: make(map[string]*cobra.Command),
	}
}

// DefaultBuilderConfig returns default builder configuration.
func DefaultBuilderConfig() *BuilderConfig {
	return &BuilderConfig{}
}

// Build builds the complete command tree. The result is cached; later calls
// return the same root.
func (b *Builder) Build() (*cobra.Command, error) {
	if b.rootCmd != nil {
		return b.rootCmd, nil
	}
	if b.root == nil {
		return nil, fmt.Errorf("no command tree to build")
	}

	rootCmd, err := b.buildCommand(b.root, "")
	if err != nil {
		return nil, err
	}
	rootCmd.Version = b.config.Version
	rootCmd.Example = b.config.Example
	rootCmd.SilenceErrors = true
	rootCmd.SilenceUsage = true
	rootCmd.CompletionOptions.DisableDefaultCmd = true

	b.rootCmd = rootCmd
	return rootCmd, nil
}

// buildCommand mirrors spec and its subcommands.
func (b *Builder) buildCommand(spec *argspec.CommandSpec, path string) (*cobra.Command, error) {
	cmd := &cobra.Command{
		Use:   useLine(spec),
		Short: spec.Summary,
		Long:  spec.Description,

		ValidArgsFunction: positionalCompletion(spec),
	}

	if err := b.flags.AddFlags(cmd, spec); err != nil {
		return nil, fmt.Errorf("failed to add flags for %q: %w", spec.Name, err)
	}

	for _, child := range spec.Subcommands {
		childPath := strings.TrimSpace(path + " " + child.Name)
		childCmd, err := b.buildCommand(child, childPath)
		if err != nil {
			return nil, err
		}
		cmd.AddCommand(childCmd)
	}

	b.commandMap[path] = cmd
	return cmd, nil
}

// GetCommandByPath retrieves a command by its path below the root
// ("" for the root, "remote add" for nested commands).
func (b *Builder) GetCommandByPath(path string) (*cobra.Command, bool) {
	cmd, ok := b.commandMap[strings.Join(strings.Fields(path), " ")]
	return cmd, ok
}

// RenderHelp writes the help of the command selected by chain, which
// starts with the root name as in Invocation.Chain.
func (b *Builder) RenderHelp(w io.Writer, chain []string) error {
	rootCmd, err := b.Build()
	if err != nil {
		return err
	}

	path := ""
	if len(chain) > 1 {
		path = strings.Join(chain[1:], " ")
	}
	cmd, ok := b.GetCommandByPath(path)
	if !ok {
		return fmt.Errorf("unknown command %q", path)
	}

	rootCmd.SetOut(w)
	defer rootCmd.SetOut(nil)
	return cmd.Help()
}

// Complete answers a shell completion request. args start with
// cobra.ShellCompRequestCmd, as sent by the generated scripts.
func (b *Builder) Complete(ctx context.Context, w io.Writer, args []string) error {
	rootCmd, err := b.Build()
	if err != nil {
		return err
	}

	rootCmd.SetOut(w)
	rootCmd.SetErr(io.Discard)
	rootCmd.SetArgs(args)
	defer func() {
		rootCmd.SetOut(nil)
		rootCmd.SetErr(nil)
		rootCmd.SetArgs(nil)
	}()
	return rootCmd.ExecuteContext(ctx)
}

// IsCompletionRequest reports whether args are a completion request from a
// generated shell script.
func IsCompletionRequest(args []string) bool {
	return len(args) > 0 &&
		(args[0] == cobra.ShellCompRequestCmd || args[0] == cobra.ShellCompNoDescRequestCmd)
}

// useLine renders "add NAME [flags]" style usage.
func useLine(spec *argspec.CommandSpec) string {
	parts := []string{spec.Name}
	for i := range spec.Positionals {
		pos := &spec.Positionals[i]
		name := strings.ToUpper(pos.Name)
		if pos.ValueName != "" {
			name = pos.ValueName
		}
		if !pos.Required {
			name = "[" + name + "]"
		}
		parts = append(parts, name)
	}
	return strings.Join(parts, " ")
}
