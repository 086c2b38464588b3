package argspec

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"unicode"

	"github.com/expr-lang/expr"
	"github.com/expr-lang/expr/vm"
)

// Arity describes how many values an argument consumes.
type Arity int

const (
	// ArityNone is a boolean switch that binds true when present.
	ArityNone Arity = iota
	// ArityOne consumes exactly one value.
	ArityOne
	// ArityCounted accumulates the number of occurrences (-vvv).
	ArityCounted
)

var arityNames = map[Arity]string{
	ArityNone:    "none",
	ArityOne:     "one",
	ArityCounted: "counted",
}

// String returns the lowercase arity name.
func (a Arity) String() string {
	if name, ok := arityNames[a]; ok {
		return name
	}
	return fmt.Sprintf("arity(%d)", int(a))
}

// ParseArity converts "none", "one" or "counted" to an Arity.
func ParseArity(s string) (Arity, error) {
	switch strings.ToLower(strings.TrimSpace(s)) {
	case "", "none", "bool", "switch":
		return ArityNone, nil
	case "one", "value":
		return ArityOne, nil
	case "counted", "count":
		return ArityCounted, nil
	default:
		return ArityNone, fmt.Errorf("unknown arity %q", s)
	}
}

// ValueType is the declared type a raw value is coerced to.
type ValueType int

const (
	TypeString ValueType = iota
	TypeInt
	TypeBool
)

var typeNames = map[ValueType]string{
	TypeString: "string",
	TypeInt:    "int",
	TypeBool:   "bool",
}

// String returns the lowercase type name.
func (t ValueType) String() string {
	if name, ok := typeNames[t]; ok {
		return name
	}
	return fmt.Sprintf("type(%d)", int(t))
}

// ParseValueType converts a type name to a ValueType.
func ParseValueType(s string) (ValueType, error) {
	switch strings.ToLower(strings.TrimSpace(s)) {
	case "", "string":
		return TypeString, nil
	case "int", "integer":
		return TypeInt, nil
	case "bool", "boolean":
		return TypeBool, nil
	default:
		return TypeString, fmt.Errorf("unknown value type %q", s)
	}
}

// Handler executes a validated invocation.
type Handler func(ctx context.Context, inv *Invocation) error

// ArgumentSpec declares one flag or positional argument.
type ArgumentSpec struct {
	// Name identifies the argument in bindings and invocations.
	Name string
	// Short is the single-character alias (-c). Zero means none.
	Short rune
	// Long is the long alias without dashes (--config). Empty means none.
	Long string
	Arity Arity
	// Type applies to ArityOne arguments only.
	Type ValueType
	// Default is the raw default text. Empty means no default.
	Default  string
	Required bool
	Help     string
	// ValueName is the placeholder shown in help output (FILE, N).
	ValueName string
	// Global makes a flag visible to every descendant command.
	Global bool
	// Check is an optional expr-lang boolean expression over "value",
	// evaluated after coercion (for example `value >= 1`).
	Check string
	// Completions are candidate values offered by shell completion.
	Completions []string

	program *vm.Program
}

// TakesValue reports whether the argument consumes a value.
func (a *ArgumentSpec) TakesValue() bool {
	return a.Arity == ArityOne
}

// Display returns the aliases in the form used by diagnostics ("-c/--config").
// Positionals are shown as <name>.
func (a *ArgumentSpec) Display() string {
	var parts []string
	if a.Short != 0 {
		parts = append(parts, "-"+string(a.Short))
	}
	if a.Long != "" {
		parts = append(parts, "--"+a.Long)
	}
	if len(parts) == 0 {
		return "<" + a.Name + ">"
	}
	return strings.Join(parts, "/")
}

// CommandSpec is a named command node. It is a leaf when it has a Handler,
// a dispatcher when it has Subcommands; when both are present a supplied
// subcommand takes precedence.
type CommandSpec struct {
	Name        string
	Summary     string
	Description string
	Flags       []ArgumentSpec
	Positionals []ArgumentSpec
	Subcommands []*CommandSpec
	Handler     Handler

	parent   *CommandSpec
	shorts   map[rune]*ArgumentSpec
	longs    map[string]*ArgumentSpec
	children map[string]*CommandSpec
	defined  bool
}

// Parent returns the enclosing command, or nil for the root.
func (c *CommandSpec) Parent() *CommandSpec {
	return c.parent
}

// Path returns the command names from the root down to c.
func (c *CommandSpec) Path() []string {
	var path []string
	for cmd := c; cmd != nil; cmd = cmd.parent {
		path = append([]string{cmd.Name}, path...)
	}
	return path
}

// Subcommand returns the direct child with the given name.
func (c *CommandSpec) Subcommand(name string) (*CommandSpec, bool) {
	if c.children != nil {
		child, ok := c.children[name]
		return child, ok
	}
	for _, child := range c.Subcommands {
		if child != nil && child.Name == name {
			return child, true
		}
	}
	return nil, false
}

// Find descends through the named subcommands starting at c.
func (c *CommandSpec) Find(names ...string) (*CommandSpec, bool) {
	cmd := c
	for _, name := range names {
		child, ok := cmd.Subcommand(name)
		if !ok {
			return nil, false
		}
		cmd = child
	}
	return cmd, true
}

// Argument returns the flag or positional declared on c with the given name.
func (c *CommandSpec) Argument(name string) (*ArgumentSpec, bool) {
	for i := range c.Flags {
		if c.Flags[i].Name == name {
			return &c.Flags[i], true
		}
	}
	for i := range c.Positionals {
		if c.Positionals[i].Name == name {
			return &c.Positionals[i], true
		}
	}
	return nil, false
}

func (c *CommandSpec) mustBeDefined() {
	if !c.defined {
		panic(fmt.Sprintf("argspec: command %q used before DefineCommand", c.Name))
	}
}

// ModelErrorKind classifies a definition error.
type ModelErrorKind int

const (
	DuplicateAlias ModelErrorKind = iota + 1
	DuplicateSubcommandName
	DuplicateName
	InvalidArgument
	InvalidCheck
)

func (k ModelErrorKind) String() string {
	switch k {
	case DuplicateAlias:
		return "DuplicateAlias"
	case DuplicateSubcommandName:
		return "DuplicateSubcommandName"
	case DuplicateName:
		return "DuplicateName"
	case InvalidArgument:
		return "InvalidArgument"
	case InvalidCheck:
		return "InvalidCheck"
	default:
		return fmt.Sprintf("ModelErrorKind(%d)", int(k))
	}
}

// ModelError reports a malformed command tree. It is raised by
// DefineCommand before any input is processed.
type ModelError struct {
	Kind ModelErrorKind
	// Command is the space-separated path of the offending command.
	Command string
	// Name is the argument, alias or subcommand at fault.
	Name   string
	Detail string
}

func (e *ModelError) Error() string {
	return fmt.Sprintf("command %q: %s %q: %s", e.Command, e.Kind, e.Name, e.Detail)
}

// DefineCommand validates the command tree rooted at root, builds its
// lookup indices and compiles argument checks. The returned tree is the
// same value, ready for Resolve. All definition problems are returned
// together.
func DefineCommand(root *CommandSpec) (*CommandSpec, error) {
	if root == nil {
		return nil, &ModelError{Kind: InvalidArgument, Detail: "command is nil"}
	}

	d := &definer{}
	d.define(root, nil, scope{
		shorts: map[rune]string{},
		longs:  map[string]string{},
		names:  map[string]string{},
	})
	// A rejected tree stays unusable, even if it was defined before.
	ok := len(d.errs) == 0
	for _, cmd := range d.seen {
		cmd.defined = ok
	}
	if !ok {
		return nil, errors.Join(d.errs...)
	}
	return root, nil
}

// scope carries what ancestors make visible to a command: global aliases
// and every argument name on the path.
type scope struct {
	shorts map[rune]string
	longs  map[string]string
	names  map[string]string
}

func (s scope) clone() scope {
	out := scope{
		shorts: make(map[rune]string, len(s.shorts)),
		longs:  make(map[string]string, len(s.longs)),
		names:  make(map[string]string, len(s.names)),
	}
	for k, v := range s.shorts {
		out.shorts[k] = v
	}
	for k, v := range s.longs {
		out.longs[k] = v
	}
	for k, v := range s.names {
		out.names[k] = v
	}
	return out
}

type definer struct {
	errs []error
	seen []*CommandSpec
}

func (d *definer) fail(kind ModelErrorKind, cmd *CommandSpec, name, format string, args ...any) {
	d.errs = append(d.errs, &ModelError{
		Kind:    kind,
		Command: strings.Join(cmd.Path(), " "),
		Name:    name,
		Detail:  fmt.Sprintf(format, args...),
	})
}

func (d *definer) define(cmd, parent *CommandSpec, inherited scope) {
	d.seen = append(d.seen, cmd)
	cmd.parent = parent
	cmd.shorts = make(map[rune]*ArgumentSpec)
	cmd.longs = make(map[string]*ArgumentSpec)
	cmd.children = make(map[string]*CommandSpec)

	if strings.TrimSpace(cmd.Name) == "" {
		d.fail(InvalidArgument, cmd, cmd.Name, "command name is empty")
	}

	visible := inherited.clone()
	owner := strings.Join(cmd.Path(), " ")

	for i := range cmd.Flags {
		flag := &cmd.Flags[i]
		d.argument(cmd, flag, true, visible, owner)

		if flag.Short != 0 {
			if _, dup := cmd.shorts[flag.Short]; dup {
				d.fail(DuplicateAlias, cmd, "-"+string(flag.Short), "short alias declared twice")
			} else if from, ok := inherited.shorts[flag.Short]; ok {
				d.fail(DuplicateAlias, cmd, "-"+string(flag.Short), "short alias shadows global flag of %q", from)
			} else {
				cmd.shorts[flag.Short] = flag
			}
		}
		if flag.Long != "" {
			if _, dup := cmd.longs[flag.Long]; dup {
				d.fail(DuplicateAlias, cmd, "--"+flag.Long, "long alias declared twice")
			} else if from, ok := inherited.longs[flag.Long]; ok {
				d.fail(DuplicateAlias, cmd, "--"+flag.Long, "long alias shadows global flag of %q", from)
			} else {
				cmd.longs[flag.Long] = flag
			}
		}
	}

	sawOptional := false
	for i := range cmd.Positionals {
		pos := &cmd.Positionals[i]
		d.argument(cmd, pos, false, visible, owner)
		if pos.Required && sawOptional {
			d.fail(InvalidArgument, cmd, pos.Name, "required positional follows an optional one")
		}
		if !pos.Required {
			sawOptional = true
		}
	}

	// Global flags become visible to descendants only.
	for i := range cmd.Flags {
		flag := &cmd.Flags[i]
		if !flag.Global {
			continue
		}
		if flag.Short != 0 {
			visible.shorts[flag.Short] = owner
		}
		if flag.Long != "" {
			visible.longs[flag.Long] = owner
		}
	}

	for _, child := range cmd.Subcommands {
		if child == nil {
			d.fail(InvalidArgument, cmd, "", "subcommand is nil")
			continue
		}
		if _, dup := cmd.children[child.Name]; dup {
			d.fail(DuplicateSubcommandName, cmd, child.Name, "subcommand declared twice")
			continue
		}
		cmd.children[child.Name] = child
		d.define(child, cmd, visible)
	}
}

// argument checks a single declaration and records its name in s.
func (d *definer) argument(cmd *CommandSpec, arg *ArgumentSpec, isFlag bool, s scope, owner string) {
	if strings.TrimSpace(arg.Name) == "" {
		d.fail(InvalidArgument, cmd, arg.Display(), "argument name is empty")
		return
	}
	if from, dup := s.names[arg.Name]; dup {
		d.fail(DuplicateName, cmd, arg.Name, "name already used by %q", from)
	} else {
		s.names[arg.Name] = owner
	}

	if isFlag {
		if arg.Short == 0 && arg.Long == "" {
			d.fail(InvalidArgument, cmd, arg.Name, "flag needs a short or long alias")
		}
		if arg.Short != 0 && (arg.Short == '-' || unicode.IsDigit(arg.Short) || unicode.IsSpace(arg.Short)) {
			d.fail(InvalidArgument, cmd, arg.Name, "short alias %q is not allowed", arg.Short)
		}
		if arg.Long != "" && (strings.HasPrefix(arg.Long, "-") || strings.ContainsAny(arg.Long, "= \t")) {
			d.fail(InvalidArgument, cmd, arg.Name, "long alias %q is not allowed", arg.Long)
		}
	} else {
		if arg.Short != 0 || arg.Long != "" {
			d.fail(InvalidArgument, cmd, arg.Name, "positional cannot have aliases")
		}
		if arg.Arity != ArityOne {
			d.fail(InvalidArgument, cmd, arg.Name, "positional arity must be one, got %s", arg.Arity)
		}
		if arg.Global {
			d.fail(InvalidArgument, cmd, arg.Name, "positional cannot be global")
		}
	}

	if arg.Default != "" {
		if _, err := coerce(arg, arg.Default); err != nil {
			d.fail(InvalidArgument, cmd, arg.Name, "default %q: %v", arg.Default, err)
		}
	}

	arg.program = nil
	if arg.Check != "" {
		program, err := expr.Compile(arg.Check, expr.Env(map[string]any{"value": zeroValue(arg)}), expr.AsBool())
		if err != nil {
			d.fail(InvalidCheck, cmd, arg.Name, "%v", err)
			return
		}
		arg.program = program
	}
}
