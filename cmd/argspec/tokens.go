package main

import (
	"github.com/CliForge/argspec/pkg/argspec"
	"github.com/CliForge/argspec/pkg/output"
	"github.com/spf13/cobra"
)

type tokenRow struct {
	Index int    `json:"index" yaml:"index"`
	Kind  string `json:"kind" yaml:"kind"`
	Text  string `json:"text" yaml:"text"`
	Value string `json:"value,omitempty" yaml:"value,omitempty"`
	Raw   string `json:"raw" yaml:"raw"`
}

func newTokensCmd() *cobra.Command {
	var format string

	cmd := &cobra.Command{
		Use:   "tokens [flags] -- [ARGS...]",
		Short: "Show how an argument list is tokenized",
		Long: `Show the token stream for an argument list. Tokenizing needs no
definition; it only depends on the shape of each argument.

Put the arguments after "--" so that argspec does not read them as its
own flags.`,
		Example: `  argspec tokens -- -vv add milk --count=2
  argspec tokens -f json -- cmd -- -x`,
		RunE: func(cmd *cobra.Command, args []string) error {
			var rows []tokenRow
			for tok := range argspec.Tokenize(args) {
				row := tokenRow{Index: tok.Index, Kind: tok.Kind.String(), Text: tok.Text, Raw: tok.Raw}
				if tok.HasValue {
					row.Value = tok.Value
				}
				rows = append(rows, row)
			}
			if rows == nil {
				rows = []tokenRow{}
			}
			return output.NewManager().Format(cmd.OutOrStdout(), rows, format)
		},
	}

	formatFlag(cmd, &format, "table")

	return cmd
}
