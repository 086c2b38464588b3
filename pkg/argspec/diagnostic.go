package argspec

import (
	"errors"
	"fmt"
	"strings"

	"github.com/agext/levenshtein"
)

// DiagnosticKind classifies a user input problem.
type DiagnosticKind int

const (
	UnknownFlag DiagnosticKind = iota + 1
	MissingValue
	UnexpectedValue
	TypeMismatch
	MissingRequired
	UnexpectedPositional
	AmbiguousShortFlag
	UnknownSubcommand
	MissingSubcommand
	ConstraintViolation
)

var diagnosticNames = map[DiagnosticKind]string{
	UnknownFlag:          "UnknownFlag",
	MissingValue:         "MissingValue",
	UnexpectedValue:      "UnexpectedValue",
	TypeMismatch:         "TypeMismatch",
	MissingRequired:      "MissingRequired",
	UnexpectedPositional: "UnexpectedPositional",
	AmbiguousShortFlag:   "AmbiguousShortFlag",
	UnknownSubcommand:    "UnknownSubcommand",
	MissingSubcommand:    "MissingSubcommand",
	ConstraintViolation:  "ConstraintViolation",
}

func (k DiagnosticKind) String() string {
	if name, ok := diagnosticNames[k]; ok {
		return name
	}
	return fmt.Sprintf("DiagnosticKind(%d)", int(k))
}

// MarshalText renders the kind by name in JSON and YAML output.
func (k DiagnosticKind) MarshalText() ([]byte, error) {
	return []byte(k.String()), nil
}

// Diagnostic is one structured parse or validation failure.
type Diagnostic struct {
	Kind DiagnosticKind `json:"kind" yaml:"kind"`
	// Token is the offending raw argument, if any.
	Token string `json:"token,omitempty" yaml:"token,omitempty"`
	// Spec is the name of the argument or command concerned, if any.
	Spec       string `json:"spec,omitempty" yaml:"spec,omitempty"`
	Detail     string `json:"detail" yaml:"detail"`
	Suggestion string `json:"suggestion,omitempty" yaml:"suggestion,omitempty"`
}

func (d Diagnostic) Error() string {
	if d.Suggestion != "" {
		return fmt.Sprintf("%s (did you mean %s?)", d.Detail, d.Suggestion)
	}
	return d.Detail
}

// Diagnostics is the aggregated set of problems found in one parse.
type Diagnostics []Diagnostic

func (d Diagnostics) Error() string {
	switch len(d) {
	case 0:
		return "no diagnostics"
	case 1:
		return d[0].Error()
	}
	lines := make([]string, len(d))
	for i, diag := range d {
		lines[i] = diag.Error()
	}
	return fmt.Sprintf("%d usage errors:\n  %s", len(d), strings.Join(lines, "\n  "))
}

// Has reports whether any diagnostic is of the given kind.
func (d Diagnostics) Has(kind DiagnosticKind) bool {
	return d.Count(kind) > 0
}

// Count returns the number of diagnostics of the given kind.
func (d Diagnostics) Count(kind DiagnosticKind) int {
	n := 0
	for _, diag := range d {
		if diag.Kind == kind {
			n++
		}
	}
	return n
}

// Err returns d as an error, or nil when it is empty.
func (d Diagnostics) Err() error {
	if len(d) == 0 {
		return nil
	}
	return d
}

// AsDiagnostics extracts Diagnostics from an error chain.
func AsDiagnostics(err error) (Diagnostics, bool) {
	var diags Diagnostics
	if errors.As(err, &diags) {
		return diags, true
	}
	return nil, false
}

// maxSuggestionDistance is the largest edit distance still offered as a
// "did you mean" hint.
const maxSuggestionDistance = 2

// suggest returns the candidate closest to input, or "" if none is close.
func suggest(input string, candidates []string) string {
	best, bestDistance := "", maxSuggestionDistance+1
	for _, candidate := range candidates {
		if distance := levenshtein.Distance(input, candidate, nil); distance < bestDistance {
			best, bestDistance = candidate, distance
		}
	}
	return best
}
