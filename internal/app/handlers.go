package app

import (
	"context"
	"errors"
	"fmt"
	"io"

	"github.com/CliForge/argspec/internal/builder"
	"github.com/CliForge/argspec/pkg/argspec"
	"github.com/CliForge/argspec/pkg/config"
	"github.com/CliForge/argspec/pkg/output"
	"github.com/CliForge/argspec/pkg/store"
	"github.com/pterm/pterm"
)

var messages = map[string]string{
	"added":   "Added #{id} {name} (x{count})",
	"removed": "Removed #{id} {name}",
	"done":    "Marked #{id} {name} as done",
	"empty":   "No {{status == '' ? 'items' : status + ' items'}}",
}

// exitNotFound is the exit status when a command names a missing item.
const exitNotFound = 3

type handlers struct {
	cfg      *config.Config
	builder  *builder.Builder
	out      *output.Manager
	messages *output.MessageTemplates
	logger   *pterm.Logger
	stdout   io.Writer
}

func (h *handlers) register(d *argspec.Dispatcher) {
	d.Register("add", h.add)
	d.Register("remove", h.remove)
	d.Register("done", h.done)
	d.Register("list", h.list)
	d.Register("completion", h.completion)
}

func (h *handlers) store() (*store.Store, error) {
	s, err := store.Open(h.cfg.StorePath())
	if err != nil {
		return nil, err
	}
	h.logger.Trace("store opened", h.logger.Args("path", s.Path()))
	return s, nil
}

func (h *handlers) add(_ context.Context, inv *argspec.Invocation) error {
	s, err := h.store()
	if err != nil {
		return err
	}
	item, err := s.Add(inv.String("name"), inv.Int("count"))
	if err != nil {
		return err
	}
	h.logger.Info("item added", h.logger.Args("id", item.ID))
	return h.say("added", item)
}

func (h *handlers) remove(_ context.Context, inv *argspec.Invocation) error {
	s, err := h.store()
	if err != nil {
		return err
	}
	item, err := s.Remove(inv.Int("id"))
	if err != nil {
		return notFound(err)
	}
	return h.say("removed", item)
}

func (h *handlers) done(_ context.Context, inv *argspec.Invocation) error {
	s, err := h.store()
	if err != nil {
		return err
	}
	item, err := s.SetStatus(inv.Int("id"), store.StatusDone)
	if err != nil {
		return notFound(err)
	}
	return h.say("done", item)
}

func (h *handlers) list(_ context.Context, inv *argspec.Invocation) error {
	s, err := h.store()
	if err != nil {
		return err
	}

	status, format := inv.String("status"), inv.String("format")
	items := s.List(status)
	h.logger.Debug("listing items", h.logger.Args("status", status, "format", format, "count", len(items)))

	if len(items) == 0 && format == "text" {
		msg, err := h.messages.Render("empty", map[string]interface{}{"status": status})
		if err != nil {
			return err
		}
		_, err = fmt.Fprintln(h.stdout, msg)
		return err
	}

	fc := h.out.GetConfig()
	if format == "table" {
		fc = output.NewFormatConfig().
			WithColors(fc.Colors).
			WithColumns(
				output.Column{Field: "id", Header: "ID"},
				output.Column{Field: "name", Header: "NAME", Width: 40},
				output.Column{Field: "count", Header: "COUNT"},
				output.Column{Field: "status", Header: "STATUS"},
			)
	}
	return h.out.FormatWithConfig(h.stdout, items, format, fc)
}

func (h *handlers) completion(_ context.Context, inv *argspec.Invocation) error {
	return h.builder.Completion(h.stdout, inv.String("shell"))
}

func (h *handlers) say(name string, item store.Item) error {
	msg, err := h.messages.Render(name, map[string]interface{}{
		"id":    item.ID,
		"name":  item.Name,
		"count": item.Count,
	})
	if err != nil {
		return err
	}
	_, err = fmt.Fprintln(h.stdout, msg)
	return err
}

func notFound(err error) error {
	if errors.Is(err, store.ErrNotFound) {
		return &argspec.ExitError{Code: exitNotFound, Err: err}
	}
	return err
}
