// Package definition reads command surfaces from YAML documents.
//
// A document describes one root command:
//
//	name: myapp
//	summary: A simple CLI tool demo
//	flags:
//	  - name: verbose
//	    short: v
//	    long: verbose
//	    arity: counted
//	    global: true
//	commands:
//	  - name: remove
//	    positionals:
//	      - name: id
//	        type: int
//	        required: true
//
// Unknown keys are rejected so typos surface at load time.
package definition

import (
	"bytes"
	"errors"
	"fmt"
	"io"
	"os"
	"unicode/utf8"

	"github.com/CliForge/argspec/pkg/argspec"
	"gopkg.in/yaml.v3"
)

// CommandDef is the YAML form of argspec.CommandSpec.
type CommandDef struct {
	Name        string        `yaml:"name"`
	Summary     string        `yaml:"summary,omitempty"`
	Description string        `yaml:"description,omitempty"`
	Flags       []ArgumentDef `yaml:"flags,omitempty"`
	Positionals []ArgumentDef `yaml:"positionals,omitempty"`
	Commands    []CommandDef  `yaml:"commands,omitempty"`
}

// ArgumentDef is the YAML form of argspec.ArgumentSpec. Scalars of any YAML
// type are accepted for default, so `default: 1` and `default: "1"` agree.
type ArgumentDef struct {
	Name        string   `yaml:"name"`
	Short       string   `yaml:"short,omitempty"`
	Long        string   `yaml:"long,omitempty"`
	Arity       string   `yaml:"arity,omitempty"`
	Type        string   `yaml:"type,omitempty"`
	Default     string   `yaml:"default,omitempty"`
	Required    bool     `yaml:"required,omitempty"`
	Help        string   `yaml:"help,omitempty"`
	ValueName   string   `yaml:"value_name,omitempty"`
	Global      bool     `yaml:"global,omitempty"`
	Check       string   `yaml:"check,omitempty"`
	Completions []string `yaml:"completions,omitempty"`
}

// Decode reads a single definition document from r.
func Decode(r io.Reader) (*CommandDef, error) {
	dec := yaml.NewDecoder(r)
	dec.KnownFields(true)

	var def CommandDef
	if err := dec.Decode(&def); err != nil {
		if errors.Is(err, io.EOF) {
			return nil, fmt.Errorf("definition is empty")
		}
		return nil, fmt.Errorf("failed to parse definition: %w", err)
	}
	return &def, nil
}

// Parse decodes data, converts it and defines the resulting tree.
func Parse(data []byte) (*argspec.CommandSpec, error) {
	def, err := Decode(bytes.NewReader(data))
	if err != nil {
		return nil, err
	}
	spec, err := def.Spec()
	if err != nil {
		return nil, err
	}
	if _, err := argspec.DefineCommand(spec); err != nil {
		return nil, fmt.Errorf("invalid command tree: %w", err)
	}
	return spec, nil
}

// LoadFile reads and parses the definition at path.
func LoadFile(path string) (*argspec.CommandSpec, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("failed to read definition: %w", err)
	}
	spec, err := Parse(data)
	if err != nil {
		return nil, fmt.Errorf("%s: %w", path, err)
	}
	return spec, nil
}

// Spec converts the definition to an undefined argspec tree. Field level
// problems (bad arity names, multi-character short aliases) are reported
// here; structural ones are left to argspec.DefineCommand.
func (d *CommandDef) Spec() (*argspec.CommandSpec, error) {
	return d.spec(d.Name)
}

func (d *CommandDef) spec(path string) (*argspec.CommandSpec, error) {
	cmd := &argspec.CommandSpec{
		Name:        d.Name,
		Summary:     d.Summary,
		Description: d.Description,
	}

	var errs []error
	for _, a := range d.Flags {
		arg, err := a.spec(true)
		if err != nil {
			errs = append(errs, fmt.Errorf("command %q: flag %q: %w", path, a.Name, err))
			continue
		}
		cmd.Flags = append(cmd.Flags, arg)
	}
	for _, a := range d.Positionals {
		arg, err := a.spec(false)
		if err != nil {
			errs = append(errs, fmt.Errorf("command %q: positional %q: %w", path, a.Name, err))
			continue
		}
		cmd.Positionals = append(cmd.Positionals, arg)
	}
	for i := range d.Commands {
		child, err := d.Commands[i].spec(path + " " + d.Commands[i].Name)
		if err != nil {
			errs = append(errs, err)
			continue
		}
		cmd.Subcommands = append(cmd.Subcommands, child)
	}

	if len(errs) > 0 {
		return nil, errors.Join(errs...)
	}
	return cmd, nil
}

func (a *ArgumentDef) spec(isFlag bool) (argspec.ArgumentSpec, error) {
	arg := argspec.ArgumentSpec{
		Name:        a.Name,
		Long:        a.Long,
		Default:     a.Default,
		Required:    a.Required,
		Help:        a.Help,
		ValueName:   a.ValueName,
		Global:      a.Global,
		Check:       a.Check,
		Completions: a.Completions,
	}

	if a.Short != "" {
		r, size := utf8.DecodeRuneInString(a.Short)
		if size != len(a.Short) {
			return arg, fmt.Errorf("short alias %q must be a single character", a.Short)
		}
		arg.Short = r
	}

	var err error
	if arg.Type, err = argspec.ParseValueType(a.Type); err != nil {
		return arg, err
	}

	switch {
	case a.Arity != "":
		arg.Arity, err = argspec.ParseArity(a.Arity)
	case !isFlag || a.takesValue():
		// Positionals, and flags that describe their value, take one value
		// unless told otherwise.
		arg.Arity = argspec.ArityOne
	default:
		arg.Arity = argspec.ArityNone
	}
	return arg, err
}

// takesValue reports whether a flag declaration only makes sense with a
// value: a type, a placeholder, a default, a check or value completions.
func (a *ArgumentDef) takesValue() bool {
	return a.Type != "" || a.ValueName != "" || a.Default != "" ||
		a.Check != "" || len(a.Completions) > 0
}

// FromSpec converts a command tree back into its YAML form. Arity and type
// are always written out.
func FromSpec(cmd *argspec.CommandSpec) CommandDef {
	def := CommandDef{
		Name:        cmd.Name,
		Summary:     cmd.Summary,
		Description: cmd.Description,
	}
	for i := range cmd.Flags {
		def.Flags = append(def.Flags, fromArgument(&cmd.Flags[i]))
	}
	for i := range cmd.Positionals {
		def.Positionals = append(def.Positionals, fromArgument(&cmd.Positionals[i]))
	}
	for _, child := range cmd.Subcommands {
		def.Commands = append(def.Commands, FromSpec(child))
	}
	return def
}

func fromArgument(arg *argspec.ArgumentSpec) ArgumentDef {
	def := ArgumentDef{
		Name:        arg.Name,
		Long:        arg.Long,
		Arity:       arg.Arity.String(),
		Type:        arg.Type.String(),
		Default:     arg.Default,
		Required:    arg.Required,
		Help:        arg.Help,
		ValueName:   arg.ValueName,
		Global:      arg.Global,
		Check:       arg.Check,
		Completions: arg.Completions,
	}
	if arg.Short != 0 {
		def.Short = string(arg.Short)
	}
	return def
}

// Marshal renders def as YAML.
func Marshal(def CommandDef) ([]byte, error) {
	var buf bytes.Buffer
	enc := yaml.NewEncoder(&buf)
	enc.SetIndent(2)
	if err := enc.Encode(def); err != nil {
		return nil, fmt.Errorf("failed to encode definition: %w", err)
	}
	if err := enc.Close(); err != nil {
		return nil, fmt.Errorf("failed to encode definition: %w", err)
	}
	return buf.Bytes(), nil
}
