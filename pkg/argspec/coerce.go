package argspec

import (
	"fmt"
	"strconv"

	"github.com/expr-lang/expr"
	"github.com/spf13/cast"
)

// coerce converts raw text to the Go value an argument produces:
// bool for ArityNone, int for ArityCounted, and string, int64 or bool for
// ArityOne depending on Type. Integers are always decimal, so "010" is 10.
func coerce(arg *ArgumentSpec, raw string) (any, error) {
	switch arg.Arity {
	case ArityNone:
		return cast.ToBoolE(raw)
	case ArityCounted:
		return strconv.Atoi(raw)
	}

	switch arg.Type {
	case TypeInt:
		return strconv.ParseInt(raw, 10, 64)
	case TypeBool:
		return cast.ToBoolE(raw)
	default:
		return raw, nil
	}
}

// zeroValue is the implicit value of an argument, also used as the type
// witness when compiling its check.
func zeroValue(arg *ArgumentSpec) any {
	switch arg.Arity {
	case ArityNone:
		return false
	case ArityCounted:
		return 0
	}

	switch arg.Type {
	case TypeInt:
		return int64(0)
	case TypeBool:
		return false
	default:
		return ""
	}
}

// check evaluates the compiled Check expression against value.
func (a *ArgumentSpec) check(value any) (bool, error) {
	if a.program == nil {
		return true, nil
	}
	out, err := expr.Run(a.program, map[string]any{"value": value})
	if err != nil {
		return false, fmt.Errorf("evaluating check %q: %w", a.Check, err)
	}
	ok, _ := out.(bool)
	return ok, nil
}
