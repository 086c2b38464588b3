package argspec

import (
	"fmt"
	"strings"
)

// DefaultSource supplies defaults from outside the command tree, such as a
// configuration file. owner is the chain of the command declaring spec.
type DefaultSource interface {
	LookupDefault(owner []string, spec *ArgumentSpec) (string, bool)
}

// DefaultSourceFunc adapts a function to DefaultSource.
type DefaultSourceFunc func(owner []string, spec *ArgumentSpec) (string, bool)

func (f DefaultSourceFunc) LookupDefault(owner []string, spec *ArgumentSpec) (string, bool) {
	return f(owner, spec)
}

// ValidateOption configures Validate.
type ValidateOption func(*validator)

// WithDefaults consults src for unbound, non-required arguments before
// their declared defaults.
func WithDefaults(src DefaultSource) ValidateOption {
	return func(v *validator) {
		v.defaults = src
	}
}

// Validate checks the bindings of res against the selected commands,
// coerces every value to its declared type and applies defaults. It
// returns either an Invocation or every diagnostic found.
//
// Positionals of commands above the leaf are skipped: descending into a
// subcommand is only possible while none of them has been supplied.
func Validate(res *Resolution, opts ...ValidateOption) (*Invocation, Diagnostics) {
	v := &validator{
		res: res,
		inv: &Invocation{
			chain:    res.Chain(),
			command:  res.Command(),
			values:   make(map[string]any),
			explicit: make(map[string]bool),
		},
	}
	for _, opt := range opts {
		opt(v)
	}

	leaf := len(res.path) - 1
	for depth, cmd := range res.path {
		owner := v.inv.chain[:depth+1]
		for i := range cmd.Flags {
			v.argument(owner, &cmd.Flags[i])
		}
		if depth == leaf {
			for i := range cmd.Positionals {
				v.argument(owner, &cmd.Positionals[i])
			}
		}
	}

	if len(v.diags) > 0 {
		return nil, v.diags
	}
	return v.inv, nil
}

type validator struct {
	res      *Resolution
	inv      *Invocation
	defaults DefaultSource
	diags    Diagnostics
}

func (v *validator) report(kind DiagnosticKind, token string, spec *ArgumentSpec, format string, args ...any) {
	v.diags = append(v.diags, Diagnostic{
		Kind:   kind,
		Token:  token,
		Spec:   spec.Name,
		Detail: fmt.Sprintf(format, args...),
	})
}

func (v *validator) argument(owner []string, spec *ArgumentSpec) {
	b := v.res.Binding(spec.Name)
	if b.Kind == BindingAbsent {
		v.unbound(owner, spec)
		return
	}

	var value any
	switch b.Kind {
	case BindingBool:
		value = true
	case BindingCount:
		value = b.Count
	default:
		coerced, err := coerce(spec, b.Value)
		if err != nil {
			v.report(TypeMismatch, b.Value, spec,
				"invalid %s value %q for %s", spec.Type, b.Value, spec.Display())
			return
		}
		value = coerced
	}

	if v.checked(spec, value, b.Token) {
		v.inv.values[spec.Name] = value
		v.inv.explicit[spec.Name] = true
	}
}

func (v *validator) unbound(owner []string, spec *ArgumentSpec) {
	if spec.Required {
		v.report(MissingRequired, "", spec, "required %s %s not set", kindOf(spec), spec.Display())
		return
	}

	raw, source, ok := v.defaultFor(owner, spec)
	if !ok {
		if spec.Arity == ArityOne {
			return
		}
		v.inv.values[spec.Name] = zeroValue(spec)
		return
	}

	value, err := coerce(spec, raw)
	if err != nil {
		v.report(TypeMismatch, raw, spec,
			"invalid %s default %q for %s from %s", spec.Type, raw, spec.Display(), source)
		return
	}
	if v.checked(spec, value, raw) {
		v.inv.values[spec.Name] = value
	}
}

func (v *validator) defaultFor(owner []string, spec *ArgumentSpec) (raw, source string, ok bool) {
	if v.defaults != nil {
		if raw, ok := v.defaults.LookupDefault(owner, spec); ok {
			return raw, "configuration", true
		}
	}
	if spec.Default != "" {
		return spec.Default, "declaration", true
	}
	return "", "", false
}

func (v *validator) checked(spec *ArgumentSpec, value any, token string) bool {
	ok, err := spec.check(value)
	if err != nil {
		v.report(ConstraintViolation, token, spec, "%s: %v", spec.Display(), err)
		return false
	}
	if !ok {
		v.report(ConstraintViolation, token, spec,
			"value %v for %s does not satisfy %s", value, spec.Display(), strings.TrimSpace(spec.Check))
		return false
	}
	return true
}

func kindOf(spec *ArgumentSpec) string {
	if spec.Short == 0 && spec.Long == "" {
		return "argument"
	}
	return "flag"
}
