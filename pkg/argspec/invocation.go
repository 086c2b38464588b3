package argspec

import (
	"encoding/json"
	"maps"
	"slices"
	"strings"
)

// Invocation is the typed result of a successful parse: the selected
// command chain and the coerced value of every bound or defaulted
// argument. It is immutable.
type Invocation struct {
	chain    []string
	command  *CommandSpec
	values   map[string]any
	explicit map[string]bool
}

// Chain returns the selected command names from root to leaf.
func (inv *Invocation) Chain() []string {
	return slices.Clone(inv.chain)
}

// Path returns the chain below the root joined by spaces ("" for the root).
func (inv *Invocation) Path() string {
	if len(inv.chain) < 2 {
		return ""
	}
	return strings.Join(inv.chain[1:], " ")
}

// Command returns the selected leaf command.
func (inv *Invocation) Command() *CommandSpec {
	return inv.command
}

// Lookup returns the value bound to name.
func (inv *Invocation) Lookup(name string) (any, bool) {
	v, ok := inv.values[name]
	return v, ok
}

// Has reports whether name has a value, supplied or defaulted.
func (inv *Invocation) Has(name string) bool {
	_, ok := inv.values[name]
	return ok
}

// Explicit reports whether name was supplied on the command line.
func (inv *Invocation) Explicit(name string) bool {
	return inv.explicit[name]
}

// String returns the string value of name, or "" if absent.
func (inv *Invocation) String(name string) string {
	s, _ := inv.values[name].(string)
	return s
}

// Int returns the integer value of name, or 0 if absent.
func (inv *Invocation) Int(name string) int64 {
	switch v := inv.values[name].(type) {
	case int64:
		return v
	case int:
		return int64(v)
	}
	return 0
}

// Bool returns the boolean value of name, or false if absent.
func (inv *Invocation) Bool(name string) bool {
	b, _ := inv.values[name].(bool)
	return b
}

// Count returns the occurrence count of a counted flag.
func (inv *Invocation) Count(name string) int {
	n, _ := inv.values[name].(int)
	return n
}

// Values returns a copy of all values keyed by argument name.
func (inv *Invocation) Values() map[string]any {
	return maps.Clone(inv.values)
}

type invocationDoc struct {
	Command []string       `json:"command" yaml:"command"`
	Values  map[string]any `json:"values" yaml:"values"`
}

func (inv *Invocation) MarshalJSON() ([]byte, error) {
	return json.Marshal(invocationDoc{Command: inv.chain, Values: inv.values})
}

func (inv *Invocation) MarshalYAML() (interface{}, error) {
	return invocationDoc{Command: inv.chain, Values: inv.values}, nil
}
