package argspec

import (
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// demoRoot mirrors the myapp command surface: a root with global
// verbosity and three leaf subcommands.
func demoRoot() *CommandSpec {
	return &CommandSpec{
		Name:    "myapp",
		Summary: "A simple CLI tool demo",
		Flags: []ArgumentSpec{
			{Name: "config", Short: 'c', Long: "config", Arity: ArityOne, ValueName: "FILE"},
			{Name: "verbose", Short: 'v', Long: "verbose", Arity: ArityCounted, Global: true},
			{Name: "debug", Long: "debug", Arity: ArityNone, Global: true},
		},
		Subcommands: []*CommandSpec{
			{
				Name: "add",
				Flags: []ArgumentSpec{
					{Name: "count", Short: 'c', Long: "count", Arity: ArityOne, Type: TypeInt, Default: "1", Check: "value >= 1"},
				},
				Positionals: []ArgumentSpec{
					{Name: "name", Arity: ArityOne, Required: true},
				},
			},
			{
				Name: "remove",
				Positionals: []ArgumentSpec{
					{Name: "id", Arity: ArityOne, Type: TypeInt, Required: true},
				},
			},
			{
				Name: "list",
				Flags: []ArgumentSpec{
					{Name: "status", Short: 's', Long: "status", Arity: ArityOne},
					{Name: "format", Short: 'f', Long: "format", Arity: ArityOne, Default: "text"},
				},
			},
		},
	}
}

func modelErrors(t *testing.T, err error) []*ModelError {
	t.Helper()
	require.Error(t, err)

	var out []*ModelError
	if joined, ok := err.(interface{ Unwrap() []error }); ok {
		for _, e := range joined.Unwrap() {
			var me *ModelError
			if errors.As(e, &me) {
				out = append(out, me)
			}
		}
		return out
	}
	var me *ModelError
	require.True(t, errors.As(err, &me), "expected *ModelError, got %T", err)
	return append(out, me)
}

func TestDefineCommand_Valid(t *testing.T) {
	root, err := DefineCommand(demoRoot())
	require.NoError(t, err)

	add, ok := root.Find("add")
	require.True(t, ok)
	assert.Equal(t, []string{"myapp", "add"}, add.Path())
	assert.Same(t, root, add.Parent())

	count, ok := add.Argument("count")
	require.True(t, ok)
	assert.Equal(t, "-c/--count", count.Display())

	_, ok = root.Find("add", "nope")
	assert.False(t, ok)
}

func TestDefineCommand_Errors(t *testing.T) {
	tests := []struct {
		name string
		root *CommandSpec
		kind ModelErrorKind
	}{
		{
			name: "duplicate short alias",
			root: &CommandSpec{Name: "app", Flags: []ArgumentSpec{
				{Name: "a", Short: 'x', Arity: ArityNone},
				{Name: "b", Short: 'x', Arity: ArityNone},
			}},
			kind: DuplicateAlias,
		},
		{
			name: "duplicate long alias",
			root: &CommandSpec{Name: "app", Flags: []ArgumentSpec{
				{Name: "a", Long: "same", Arity: ArityNone},
				{Name: "b", Long: "same", Arity: ArityNone},
			}},
			kind: DuplicateAlias,
		},
		{
			name: "child shadows global alias",
			root: &CommandSpec{
				Name:  "app",
				Flags: []ArgumentSpec{{Name: "verbose", Short: 'v', Arity: ArityCounted, Global: true}},
				Subcommands: []*CommandSpec{
					{Name: "run", Flags: []ArgumentSpec{{Name: "version", Short: 'v', Arity: ArityNone}}},
				},
			},
			kind: DuplicateAlias,
		},
		{
			name: "duplicate subcommand",
			root: &CommandSpec{Name: "app", Subcommands: []*CommandSpec{{Name: "list"}, {Name: "list"}}},
			kind: DuplicateSubcommandName,
		},
		{
			name: "duplicate name on path",
			root: &CommandSpec{
				Name:        "app",
				Flags:       []ArgumentSpec{{Name: "format", Long: "format", Arity: ArityOne}},
				Subcommands: []*CommandSpec{{Name: "list", Flags: []ArgumentSpec{{Name: "format", Long: "fmt", Arity: ArityOne}}}},
			},
			kind: DuplicateName,
		},
		{
			name: "flag without alias",
			root: &CommandSpec{Name: "app", Flags: []ArgumentSpec{{Name: "lonely", Arity: ArityNone}}},
			kind: InvalidArgument,
		},
		{
			name: "digit short alias",
			root: &CommandSpec{Name: "app", Flags: []ArgumentSpec{{Name: "one", Short: '1', Arity: ArityNone}}},
			kind: InvalidArgument,
		},
		{
			name: "counted positional",
			root: &CommandSpec{Name: "app", Positionals: []ArgumentSpec{{Name: "n", Arity: ArityCounted}}},
			kind: InvalidArgument,
		},
		{
			name: "required after optional positional",
			root: &CommandSpec{Name: "app", Positionals: []ArgumentSpec{
				{Name: "first", Arity: ArityOne},
				{Name: "second", Arity: ArityOne, Required: true},
			}},
			kind: InvalidArgument,
		},
		{
			name: "default not coercible",
			root: &CommandSpec{Name: "app", Flags: []ArgumentSpec{
				{Name: "count", Long: "count", Arity: ArityOne, Type: TypeInt, Default: "many"},
			}},
			kind: InvalidArgument,
		},
		{
			name: "check does not compile",
			root: &CommandSpec{Name: "app", Flags: []ArgumentSpec{
				{Name: "count", Long: "count", Arity: ArityOne, Type: TypeInt, Check: "value >="},
			}},
			kind: InvalidCheck,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := DefineCommand(tt.root)
			errs := modelErrors(t, err)
			require.NotEmpty(t, errs)

			kinds := make([]ModelErrorKind, len(errs))
			for i, e := range errs {
				kinds[i] = e.Kind
			}
			assert.Contains(t, kinds, tt.kind)
		})
	}
}

func TestDefineCommand_ReportsAllErrors(t *testing.T) {
	root := &CommandSpec{
		Name: "app",
		Flags: []ArgumentSpec{
			{Name: "a", Short: 'x', Arity: ArityNone},
			{Name: "b", Short: 'x', Arity: ArityNone},
		},
		Subcommands: []*CommandSpec{{Name: "dup"}, {Name: "dup"}},
	}

	errs := modelErrors(t, func() error { _, err := DefineCommand(root); return err }())
	assert.Len(t, errs, 2)
}

func TestDefineCommand_SiblingsMayReuseAliases(t *testing.T) {
	// Root --config is not global, so add may use -c for itself.
	_, err := DefineCommand(demoRoot())
	assert.NoError(t, err)
}

func TestDefineCommand_Nil(t *testing.T) {
	_, err := DefineCommand(nil)
	var me *ModelError
	require.ErrorAs(t, err, &me)
	assert.Equal(t, InvalidArgument, me.Kind)
}

func TestResolveBeforeDefinePanics(t *testing.T) {
	assert.Panics(t, func() {
		Resolve(Tokenize(nil), demoRoot())
	})
}

func TestResolveAfterFailedDefinePanics(t *testing.T) {
	root := &CommandSpec{
		Name: "app",
		Flags: []ArgumentSpec{
			{Name: "a", Short: 'a', Arity: ArityNone},
			{Name: "b", Short: 'a', Arity: ArityNone},
		},
	}
	_, err := DefineCommand(root)
	require.Error(t, err)
	assert.Panics(t, func() {
		Resolve(Tokenize([]string{"-a"}), root)
	})

	// Breaking a tree that was already defined makes it unusable again.
	root = demoRoot()
	_, err = DefineCommand(root)
	require.NoError(t, err)
	root.Subcommands = append(root.Subcommands, &CommandSpec{Name: "add"})
	_, err = DefineCommand(root)
	require.Error(t, err)
	assert.Panics(t, func() {
		Resolve(Tokenize([]string{"list"}), root)
	})
}

func TestParseArityAndType(t *testing.T) {
	a, err := ParseArity("counted")
	require.NoError(t, err)
	assert.Equal(t, ArityCounted, a)

	_, err = ParseArity("many")
	assert.Error(t, err)

	vt, err := ParseValueType("integer")
	require.NoError(t, err)
	assert.Equal(t, TypeInt, vt)
	assert.Equal(t, "int", vt.String())

	_, err = ParseValueType("float")
	assert.Error(t, err)
}
