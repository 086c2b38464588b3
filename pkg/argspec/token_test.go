package argspec

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestTokenize(t *testing.T) {
	tests := []struct {
		name string
		args []string
		want []Token
	}{
		{
			name: "long flag with inline value",
			args: []string{"--config=a=b.toml"},
			want: []Token{{Kind: TokenLongFlag, Text: "config", Value: "a=b.toml", HasValue: true, Raw: "--config=a=b.toml"}},
		},
		{
			name: "long flag with empty inline value",
			args: []string{"--status="},
			want: []Token{{Kind: TokenLongFlag, Text: "status", HasValue: true, Raw: "--status="}},
		},
		{
			name: "short cluster",
			args: []string{"-vvv"},
			want: []Token{{Kind: TokenShortCluster, Text: "vvv", Raw: "-vvv"}},
		},
		{
			name: "lone dash is positional",
			args: []string{"-"},
			want: []Token{{Kind: TokenPositional, Text: "-", Raw: "-"}},
		},
		{
			name: "negative numbers are positional",
			args: []string{"-5", "-2.5", "-1a"},
			want: []Token{
				{Kind: TokenPositional, Text: "-5", Raw: "-5", Index: 0},
				{Kind: TokenPositional, Text: "-2.5", Raw: "-2.5", Index: 1},
				{Kind: TokenShortCluster, Text: "1a", Raw: "-1a", Index: 2},
			},
		},
		{
			name: "separator escapes the rest",
			args: []string{"cmd", "--", "-x", "--", "--long"},
			want: []Token{
				{Kind: TokenPositional, Text: "cmd", Raw: "cmd", Index: 0},
				{Kind: TokenSeparator, Raw: "--", Index: 1},
				{Kind: TokenPositional, Text: "-x", Raw: "-x", Index: 2},
				{Kind: TokenPositional, Text: "--", Raw: "--", Index: 3},
				{Kind: TokenPositional, Text: "--long", Raw: "--long", Index: 4},
			},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, TokenizeAll(tt.args))
		})
	}
}

func TestTokenize_Restartable(t *testing.T) {
	args := []string{"-vv", "--config", "x.yaml", "add", "--", "-n"}
	seq := Tokenize(args)

	var first, second []Token
	for tok := range seq {
		first = append(first, tok)
	}
	for tok := range seq {
		second = append(second, tok)
	}

	require.Len(t, first, len(args))
	assert.Equal(t, first, second)
	assert.Equal(t, first, TokenizeAll(args))
}

func TestTokenize_StopsEarly(t *testing.T) {
	n := 0
	for range Tokenize([]string{"a", "b", "c"}) {
		n++
		if n == 2 {
			break
		}
	}
	assert.Equal(t, 2, n)
}

func TestTokenize_Empty(t *testing.T) {
	assert.Empty(t, TokenizeAll(nil))
}

func TestTokenKindString(t *testing.T) {
	assert.Equal(t, "ShortFlagCluster", TokenShortCluster.String())
	assert.Equal(t, "Separator", TokenSeparator.String())
}
