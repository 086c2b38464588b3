package argspec

import (
	"iter"
	"slices"
	"strings"
)

// TokenKind classifies a raw argument.
type TokenKind int

const (
	TokenPositional TokenKind = iota
	TokenLongFlag
	TokenShortCluster
	TokenSeparator
)

func (k TokenKind) String() string {
	switch k {
	case TokenPositional:
		return "Positional"
	case TokenLongFlag:
		return "LongFlag"
	case TokenShortCluster:
		return "ShortFlagCluster"
	case TokenSeparator:
		return "Separator"
	default:
		return "Unknown"
	}
}

// Token is one lexical unit of the raw input.
type Token struct {
	Kind TokenKind
	// Text is the flag name for LongFlag, the characters after the dash for
	// ShortFlagCluster and the argument itself for Positional.
	Text string
	// Value is the inline value of --name=value when HasValue is set.
	Value    string
	HasValue bool
	// Raw is the untouched argument and Index its position in the input.
	Raw   string
	Index int
}

// Tokenize returns the token stream for args. The sequence is lazy and can
// be ranged over any number of times; each pass starts from the beginning
// and yields the same tokens.
func Tokenize(args []string) iter.Seq[Token] {
	return func(yield func(Token) bool) {
		escaped := false
		for i, arg := range args {
			tok := Token{Raw: arg, Index: i}
			switch {
			case escaped:
				tok.Kind, tok.Text = TokenPositional, arg
			case arg == "--":
				tok.Kind = TokenSeparator
				escaped = true
			case strings.HasPrefix(arg, "--"):
				tok.Kind = TokenLongFlag
				tok.Text, tok.Value, tok.HasValue = strings.Cut(arg[2:], "=")
			case len(arg) > 1 && arg[0] == '-' && !isNegativeNumber(arg):
				tok.Kind, tok.Text = TokenShortCluster, arg[1:]
			default:
				tok.Kind, tok.Text = TokenPositional, arg
			}
			if !yield(tok) {
				return
			}
		}
	}
}

// TokenizeAll collects the full token stream for args.
func TokenizeAll(args []string) []Token {
	return slices.Collect(Tokenize(args))
}

// isNegativeNumber reports whether s looks like -5 or -2.5. Short aliases
// cannot be digits, so such arguments are always positionals.
func isNegativeNumber(s string) bool {
	if len(s) < 2 || s[0] != '-' {
		return false
	}
	digits, dots := 0, 0
	for _, r := range s[1:] {
		switch {
		case r >= '0' && r <= '9':
			digits++
		case r == '.':
			dots++
		default:
			return false
		}
	}
	return digits > 0 && dots <= 1
}
