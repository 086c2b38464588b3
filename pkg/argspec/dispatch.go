package argspec

import (
	"context"
	"errors"
	"fmt"
	"strings"
)

// ErrNoHandler is returned by Dispatch when nothing can run an invocation.
var ErrNoHandler = errors.New("no handler registered")

// Dispatcher routes invocations to handlers by command path. The zero
// value is ready to use.
type Dispatcher struct {
	handlers map[string]Handler
}

// NewDispatcher creates an empty dispatcher.
func NewDispatcher() *Dispatcher {
	return &Dispatcher{handlers: make(map[string]Handler)}
}

// Register binds h to a command path: the names below the root separated
// by spaces ("list", "remote add"), or "" for the root itself.
func (d *Dispatcher) Register(path string, h Handler) {
	if d.handlers == nil {
		d.handlers = make(map[string]Handler)
	}
	d.handlers[normalizePath(path)] = h
}

// Handler returns the handler registered for path.
func (d *Dispatcher) Handler(path string) (Handler, bool) {
	h, ok := d.handlers[normalizePath(path)]
	return h, ok
}

// Dispatch runs the handler for inv. A registered handler wins over the
// command's own Handler. A dispatcher command without a handler reports
// MissingSubcommand.
func (d *Dispatcher) Dispatch(ctx context.Context, inv *Invocation) error {
	h, ok := d.handlers[inv.Path()]
	if !ok && inv.command != nil {
		h = inv.command.Handler
	}
	if h != nil {
		return h(ctx, inv)
	}

	if cmd := inv.command; cmd != nil && len(cmd.Subcommands) > 0 {
		names := make([]string, 0, len(cmd.Subcommands))
		for _, child := range cmd.Subcommands {
			names = append(names, child.Name)
		}
		return Diagnostics{{
			Kind:   MissingSubcommand,
			Spec:   cmd.Name,
			Detail: fmt.Sprintf("%q requires a subcommand: %s", cmd.Name, strings.Join(names, ", ")),
		}}
	}
	return fmt.Errorf("%w for %q", ErrNoHandler, strings.Join(inv.chain, " "))
}

func normalizePath(path string) string {
	return strings.Join(strings.Fields(path), " ")
}
