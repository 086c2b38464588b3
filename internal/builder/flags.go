package builder

import (
	"fmt"
	"strconv"
	"strings"

	"github.com/CliForge/argspec/pkg/argspec"
	"github.com/spf13/cast"
	"github.com/spf13/cobra"
	"github.com/spf13/pflag"
)

// FlagBuilder mirrors argspec flags onto pflag flag sets.
type FlagBuilder struct{}

// NewFlagBuilder creates a new flag builder.
func NewFlagBuilder() *FlagBuilder {
	return &FlagBuilder{}
}

// AddFlags adds the flags of spec to cmd. Global flags become persistent
// flags so Cobra lists them under "Global Flags" in subcommand help.
func (fb *FlagBuilder) AddFlags(cmd *cobra.Command, spec *argspec.CommandSpec) error {
	for i := range spec.Flags {
		arg := &spec.Flags[i]

		flags := cmd.Flags()
		if arg.Global {
			flags = cmd.PersistentFlags()
		}

		name := FlagName(arg)
		if err := fb.addFlag(flags, name, arg); err != nil {
			return fmt.Errorf("failed to add flag %s: %w", arg.Display(), err)
		}

		if arg.Required {
			var err error
			if arg.Global {
				err = cmd.MarkPersistentFlagRequired(name)
			} else {
				err = cmd.MarkFlagRequired(name)
			}
			if err != nil {
				return fmt.Errorf("failed to mark flag %s as required: %w", name, err)
			}
		}

		if len(arg.Completions) > 0 {
			if err := cmd.RegisterFlagCompletionFunc(name, FixedCompletion(arg.Completions...)); err != nil {
				return fmt.Errorf("failed to register completion for %s: %w", name, err)
			}
		}
	}
	return nil
}

// addFlag defines one typed flag.
func (fb *FlagBuilder) addFlag(flags *pflag.FlagSet, name string, arg *argspec.ArgumentSpec) error {
	shorthand := ""
	if arg.Short != 0 {
		shorthand = string(arg.Short)
	}
	usage := flagUsage(arg)

	switch arg.Arity {
	case argspec.ArityNone:
		flags.BoolP(name, shorthand, cast.ToBool(arg.Default), usage)
	case argspec.ArityCounted:
		flags.CountP(name, shorthand, usage)
	case argspec.ArityOne:
		switch arg.Type {
		case argspec.TypeInt:
			def, err := defaultInt(arg.Default)
			if err != nil {
				return err
			}
			flags.Int64P(name, shorthand, def, usage)
		case argspec.TypeBool:
			flags.BoolP(name, shorthand, cast.ToBool(arg.Default), usage)
		default:
			flags.StringP(name, shorthand, arg.Default, usage)
		}
	default:
		return fmt.Errorf("unsupported arity %s", arg.Arity)
	}
	return nil
}

func defaultInt(raw string) (int64, error) {
	if raw == "" {
		return 0, nil
	}
	n, err := strconv.ParseInt(raw, 10, 64)
	if err != nil {
		return 0, fmt.Errorf("invalid default %q: %w", raw, err)
	}
	return n, nil
}

// FlagName returns the pflag name for arg: its long alias, or its argument
// name for short-only flags.
func FlagName(arg *argspec.ArgumentSpec) string {
	if arg.Long != "" {
		return arg.Long
	}
	return toFlagName(arg.Name)
}

// flagUsage builds the usage text. pflag takes the placeholder from the
// first back-quoted word.
func flagUsage(arg *argspec.ArgumentSpec) string {
	usage := arg.Help
	if arg.ValueName == "" || arg.Arity != argspec.ArityOne {
		return strings.ReplaceAll(usage, "`", "'")
	}
	usage = strings.ReplaceAll(usage, "`", "'")
	if strings.Contains(usage, arg.ValueName) {
		return strings.Replace(usage, arg.ValueName, "`"+arg.ValueName+"`", 1)
	}
	return strings.TrimSpace(usage + " (`" + arg.ValueName + "`)")
}

// toFlagName converts an argument name to a flag name.
func toFlagName(name string) string {
	name = strings.ReplaceAll(name, "_", "-")
	name = strings.ReplaceAll(name, " ", "-")
	return strings.ToLower(name)
}
