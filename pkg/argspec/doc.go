// Package argspec describes a command surface declaratively and resolves raw
// command-line arguments into validated, typed invocations.
//
// A command surface is a tree of CommandSpec values. Each command declares
// its flags and positional arguments as ArgumentSpec values and may carry
// named subcommands. The tree is checked once with DefineCommand and is
// read-only afterwards, so a single tree can serve any number of parses.
//
// # Pipeline
//
// Parsing runs in four stages:
//
//   - Tokenize splits raw arguments into long flags, short flag clusters,
//     positionals and the "--" separator.
//   - Resolve walks the tokens against the tree, selects the subcommand
//     chain and binds raw values to argument names.
//   - Validate coerces the bindings to their declared types, applies
//     defaults and reports every problem it finds in one pass.
//   - Dispatcher routes the resulting Invocation to a Handler.
//
// Parser wraps the first three stages:
//
//	root := &argspec.CommandSpec{
//	    Name: "myapp",
//	    Flags: []argspec.ArgumentSpec{
//	        {Name: "verbose", Short: 'v', Long: "verbose", Arity: argspec.ArityCounted, Global: true},
//	    },
//	    Subcommands: []*argspec.CommandSpec{
//	        {
//	            Name:        "remove",
//	            Positionals: []argspec.ArgumentSpec{{Name: "id", Arity: argspec.ArityOne, Type: argspec.TypeInt, Required: true}},
//	        },
//	    },
//	}
//
//	parser, err := argspec.NewParser(root)
//	if err != nil {
//	    log.Fatal(err) // *ModelError: the tree itself is wrong
//	}
//
//	inv, err := parser.Parse(os.Args[1:])
//	if err != nil {
//	    fmt.Fprintln(os.Stderr, err) // Diagnostics: the user input is wrong
//	    os.Exit(argspec.ExitCode(err))
//	}
//
// # Errors
//
// Definition problems are reported as *ModelError values (joined with
// errors.Join) and are programmer errors. Input problems are reported as
// Diagnostics, which aggregate every recoverable problem of a single parse.
// ExitCode maps both to the conventional process exit codes.
package argspec
