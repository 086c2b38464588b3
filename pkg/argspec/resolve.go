package argspec

import (
	"fmt"
	"iter"
	"slices"
	"sort"
)

// BindingKind tells which variant a Binding holds.
type BindingKind int

const (
	BindingAbsent BindingKind = iota
	BindingBool
	BindingCount
	BindingValue
)

func (k BindingKind) String() string {
	switch k {
	case BindingBool:
		return "Bool"
	case BindingCount:
		return "Count"
	case BindingValue:
		return "Value"
	default:
		return "Absent"
	}
}

// Binding is the raw resolved state of one argument before coercion.
type Binding struct {
	Kind  BindingKind
	Count int
	Value string
	// Token is the raw argument that last updated the binding.
	Token string
}

// Resolution is the output of Resolve: the selected command chain and the
// raw bindings keyed by argument name.
type Resolution struct {
	path     []*CommandSpec
	bindings map[string]Binding
	halted   bool
}

// Chain returns the selected command names from root to leaf.
func (r *Resolution) Chain() []string {
	chain := make([]string, len(r.path))
	for i, cmd := range r.path {
		chain[i] = cmd.Name
	}
	return chain
}

// Command returns the deepest selected command.
func (r *Resolution) Command() *CommandSpec {
	return r.path[len(r.path)-1]
}

// Path returns the selected commands from root to leaf.
func (r *Resolution) Path() []*CommandSpec {
	return slices.Clone(r.path)
}

// Binding returns the binding for name; the zero Binding is Absent.
func (r *Resolution) Binding(name string) Binding {
	return r.bindings[name]
}

// Bound returns the names of all present bindings in sorted order.
func (r *Resolution) Bound() []string {
	names := make([]string, 0, len(r.bindings))
	for name := range r.bindings {
		names = append(names, name)
	}
	sort.Strings(names)
	return names
}

// Halted reports whether resolution stopped early because the remaining
// input could not be interpreted (a value-taking flag without a value).
func (r *Resolution) Halted() bool {
	return r.halted
}

// Resolve walks tokens against the command tree rooted at root. Recoverable
// problems are accumulated and resolution continues; a missing flag value
// halts it. root must have been passed to DefineCommand.
func Resolve(tokens iter.Seq[Token], root *CommandSpec) (*Resolution, Diagnostics) {
	root.mustBeDefined()

	next, stop := iter.Pull(tokens)
	defer stop()

	r := &resolver{
		res: &Resolution{
			path:     []*CommandSpec{root},
			bindings: make(map[string]Binding),
		},
		next: next,
	}
	r.run()
	return r.res, r.diags
}

type resolver struct {
	res   *Resolution
	diags Diagnostics
	next  func() (Token, bool)

	// consumed counts positionals bound at the current depth.
	consumed int
	escaped  bool
}

func (r *resolver) run() {
	for {
		tok, ok := r.next()
		if !ok {
			return
		}

		proceed := true
		switch tok.Kind {
		case TokenSeparator:
			r.escaped = true
		case TokenPositional:
			r.positional(tok)
		case TokenLongFlag:
			proceed = r.long(tok)
		case TokenShortCluster:
			proceed = r.cluster(tok)
		}
		if !proceed {
			r.res.halted = true
			return
		}
	}
}

func (r *resolver) report(kind DiagnosticKind, token, spec, suggestion, format string, args ...any) {
	r.diags = append(r.diags, Diagnostic{
		Kind:       kind,
		Token:      token,
		Spec:       spec,
		Detail:     fmt.Sprintf(format, args...),
		Suggestion: suggestion,
	})
}

func (r *resolver) positional(tok Token) {
	cmd := r.res.Command()

	// Subcommand names win over positional binding, until a positional has
	// been taken at this depth or the input was escaped with "--".
	if !r.escaped && r.consumed == 0 {
		if child, ok := cmd.children[tok.Text]; ok {
			r.res.path = append(r.res.path, child)
			r.consumed = 0
			return
		}
	}

	if r.consumed < len(cmd.Positionals) {
		spec := &cmd.Positionals[r.consumed]
		r.consumed++
		r.res.bindings[spec.Name] = Binding{Kind: BindingValue, Value: tok.Text, Token: tok.Raw}
		return
	}

	if !r.escaped && r.consumed == 0 && len(cmd.Subcommands) > 0 {
		names := make([]string, 0, len(cmd.Subcommands))
		for _, child := range cmd.Subcommands {
			names = append(names, child.Name)
		}
		r.report(UnknownSubcommand, tok.Raw, cmd.Name, suggest(tok.Text, names),
			"unknown command %q for %q", tok.Text, cmd.Name)
		return
	}

	r.report(UnexpectedPositional, tok.Raw, cmd.Name, "",
		"unexpected argument %q for %q", tok.Raw, cmd.Name)
}

func (r *resolver) long(tok Token) bool {
	spec := r.lookupLong(tok.Text)
	if spec == nil {
		r.report(UnknownFlag, tok.Raw, "", r.suggestLong(tok.Text), "unknown flag: --%s", tok.Text)
		return true
	}

	if spec.TakesValue() {
		if tok.HasValue {
			r.bindValue(spec, tok.Value, tok.Raw)
			return true
		}
		return r.consumeValue(spec, tok.Raw, "--"+tok.Text)
	}

	if tok.HasValue {
		r.report(UnexpectedValue, tok.Raw, spec.Name, "",
			"flag --%s does not take a value", tok.Text)
		return true
	}
	r.bindSwitch(spec, tok.Raw)
	return true
}

func (r *resolver) cluster(tok Token) bool {
	chars := []rune(tok.Text)
	for i, ch := range chars {
		spec := r.lookupShort(ch)
		if spec == nil {
			r.report(UnknownFlag, tok.Raw, "", "", "unknown shorthand flag: %q in %s", ch, tok.Raw)
			continue
		}
		if !spec.TakesValue() {
			r.bindSwitch(spec, tok.Raw)
			continue
		}
		if i != len(chars)-1 {
			// The rest of the cluster cannot be told apart from a value.
			r.report(AmbiguousShortFlag, tok.Raw, spec.Name, "",
				"flag -%c takes a value and must be last in %s", ch, tok.Raw)
			return true
		}
		return r.consumeValue(spec, tok.Raw, "-"+string(ch))
	}
	return true
}

// consumeValue takes the next token as the value of spec. Anything but a
// positional leaves the cursor in an unknown state, so it halts.
func (r *resolver) consumeValue(spec *ArgumentSpec, raw, alias string) bool {
	tok, ok := r.next()
	if !ok {
		r.report(MissingValue, raw, spec.Name, "", "flag needs an argument: %s", alias)
		return false
	}
	if tok.Kind != TokenPositional {
		r.report(MissingValue, raw, spec.Name, "",
			"flag needs an argument: %s (got %q)", alias, tok.Raw)
		return false
	}
	r.bindValue(spec, tok.Text, raw)
	return true
}

func (r *resolver) bindValue(spec *ArgumentSpec, value, raw string) {
	r.res.bindings[spec.Name] = Binding{Kind: BindingValue, Value: value, Token: raw}
}

func (r *resolver) bindSwitch(spec *ArgumentSpec, raw string) {
	if spec.Arity == ArityCounted {
		b := r.res.bindings[spec.Name]
		r.res.bindings[spec.Name] = Binding{Kind: BindingCount, Count: b.Count + 1, Token: raw}
		return
	}
	r.res.bindings[spec.Name] = Binding{Kind: BindingBool, Token: raw}
}

// visible calls fn for every flag reachable from the current command: its
// own flags, then global flags of its ancestors, nearest first.
func (r *resolver) visible(fn func(spec *ArgumentSpec) bool) *ArgumentSpec {
	path := r.res.path
	for depth := len(path) - 1; depth >= 0; depth-- {
		cmd := path[depth]
		for i := range cmd.Flags {
			spec := &cmd.Flags[i]
			if depth != len(path)-1 && !spec.Global {
				continue
			}
			if fn(spec) {
				return spec
			}
		}
	}
	return nil
}

func (r *resolver) lookupShort(ch rune) *ArgumentSpec {
	path := r.res.path
	for depth := len(path) - 1; depth >= 0; depth-- {
		if spec, ok := path[depth].shorts[ch]; ok && (depth == len(path)-1 || spec.Global) {
			return spec
		}
	}
	return nil
}

func (r *resolver) lookupLong(name string) *ArgumentSpec {
	path := r.res.path
	for depth := len(path) - 1; depth >= 0; depth-- {
		if spec, ok := path[depth].longs[name]; ok && (depth == len(path)-1 || spec.Global) {
			return spec
		}
	}
	return nil
}

func (r *resolver) suggestLong(name string) string {
	var candidates []string
	r.visible(func(spec *ArgumentSpec) bool {
		if spec.Long != "" {
			candidates = append(candidates, spec.Long)
		}
		return false
	})
	if s := suggest(name, candidates); s != "" {
		return "--" + s
	}
	return ""
}
