// Package app implements myapp, a small item tracker whose whole command
// surface is declared in an embedded YAML definition and run through the
// argspec pipeline.
package app

import (
	"context"
	"embed"
	"encoding/json"
	"fmt"
	"io"
	"strings"

	"github.com/CliForge/argspec/internal/builder"
	"github.com/CliForge/argspec/internal/logging"
	"github.com/CliForge/argspec/pkg/argspec"
	"github.com/CliForge/argspec/pkg/config"
	"github.com/CliForge/argspec/pkg/definition"
	"github.com/CliForge/argspec/pkg/output"
	"github.com/pterm/pterm"
)

// Name is the program name, also used for the config and data directories.
const Name = "myapp"

// Version is set at build time.
var Version = "dev"

//go:embed myapp.yaml config.yaml
var assets embed.FS

const example = `  myapp add milk --count 2
  myapp list --format table
  myapp -vv remove 1`

// Definition returns a freshly defined myapp command tree.
func Definition() (*argspec.CommandSpec, error) {
	data, err := assets.ReadFile("myapp.yaml")
	if err != nil {
		return nil, fmt.Errorf("failed to read embedded definition: %w", err)
	}
	return definition.Parse(data)
}

// Run executes myapp with args (without the program name) and returns the
// process exit code.
func Run(ctx context.Context, args []string, stdout, stderr io.Writer) int {
	root, err := Definition()
	if err != nil {
		fmt.Fprintf(stderr, "Error: %v\n", err)
		return argspec.ExitFailure
	}
	b := builder.NewBuilder(root, &builder.BuilderConfig{Version: Version, Example: example})

	if builder.IsCompletionRequest(args) {
		if err := b.Complete(ctx, stdout, args); err != nil {
			fmt.Fprintf(stderr, "Error: %v\n", err)
			return argspec.ExitFailure
		}
		return argspec.ExitOK
	}

	res, diags := argspec.Resolve(argspec.Tokenize(args), root)

	// --help wins over every other problem on the line.
	if res.Binding("help").Kind != argspec.BindingAbsent {
		if err := b.RenderHelp(stdout, res.Chain()); err != nil {
			fmt.Fprintf(stderr, "Error: %v\n", err)
			return argspec.ExitFailure
		}
		return argspec.ExitOK
	}

	out := output.NewManager()
	if res.Halted() {
		return usageError(stderr, out, res.Chain(), diags)
	}

	loader := config.NewLoader(Name, &assets, "config.yaml")
	if bound := res.Binding("config"); bound.Kind == argspec.BindingValue {
		loader.WithConfigFile(bound.Value)
	}
	cfg, err := loader.Load()
	if err != nil {
		fmt.Fprintf(stderr, "Error: %v\n", err)
		return argspec.ExitFailure
	}
	out.SetConfig(output.NewFormatConfig().WithColors(cfg.Color()))

	inv, more := argspec.Validate(res, argspec.WithDefaults(cfg))
	if diags = append(diags, more...); len(diags) > 0 {
		return usageError(stderr, out, res.Chain(), diags)
	}

	logger := logging.New(logging.Options{
		Verbosity: inv.Count("verbose"),
		Debug:     inv.Bool("debug"),
		Writer:    stderr,
	})
	logInvocation(logger, cfg, inv, args)

	h := &handlers{
		cfg:      cfg,
		builder:  b,
		out:      out,
		messages: output.NewMessageTemplates(messages),
		logger:   logger,
		stdout:   stdout,
	}
	dispatcher := argspec.NewDispatcher()
	h.register(dispatcher)

	err = dispatcher.Dispatch(ctx, inv)
	if diags, ok := argspec.AsDiagnostics(err); ok {
		return usageError(stderr, out, inv.Chain(), diags)
	}
	if err != nil {
		fmt.Fprintf(stderr, "Error: %v\n", err)
	}
	return argspec.ExitCode(err)
}

// usageError prints diagnostics with a pointer to the relevant help.
func usageError(w io.Writer, out *output.Manager, chain []string, diags argspec.Diagnostics) int {
	if err := out.FormatDiagnostics(w, diags, "text"); err != nil {
		fmt.Fprintf(w, "Error: %v\n", diags)
	}
	fmt.Fprintf(w, "Run '%s --help' for usage.\n", strings.Join(chain, " "))
	return argspec.ExitUsage
}

func logInvocation(logger *pterm.Logger, cfg *config.Config, inv *argspec.Invocation, args []string) {
	if msg := logging.VerbosityMessage(inv.Count("verbose")); msg != "" {
		logger.Info(msg)
	}

	logger.Debug("configuration", logger.Args("file", cfg.File(), "store", cfg.StorePath(), "env_prefix", cfg.EnvPrefix()))
	if data, err := json.Marshal(inv); err == nil {
		logger.Debug("invocation", logger.Args("command", inv.Path(), "values", string(data)))
	}

	if logger.CanPrint(pterm.LogLevelTrace) {
		for tok := range argspec.Tokenize(args) {
			logger.Trace("token", logger.Args("index", tok.Index, "kind", tok.Kind.String(), "raw", tok.Raw))
		}
	}
}
