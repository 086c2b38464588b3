package builder

import (
	"testing"

	"github.com/CliForge/argspec/pkg/argspec"
	"github.com/spf13/cobra"
)

func TestFlagBuilder_AddFlags(t *testing.T) {
	b, _ := buildTestTree(t)

	tests := []struct {
		name       string
		cmdPath    string
		flag       string
		persistent bool
		wantType   string
		wantShort  string
		wantDef    string
	}{
		{name: "string", cmdPath: "", flag: "config", wantType: "string", wantShort: "c"},
		{name: "counted", cmdPath: "", flag: "verbose", persistent: true, wantType: "count", wantShort: "v", wantDef: "0"},
		{name: "switch", cmdPath: "", flag: "debug", persistent: true, wantType: "bool", wantDef: "false"},
		{name: "int with default", cmdPath: "add", flag: "count", wantType: "int64", wantShort: "c", wantDef: "1"},
		{name: "string with default", cmdPath: "list", flag: "format", wantType: "string", wantShort: "f", wantDef: "text"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			cmd, ok := b.GetCommandByPath(tt.cmdPath)
			if !ok {
				t.Fatalf("command %q not found", tt.cmdPath)
			}

			flags := cmd.Flags()
			if tt.persistent {
				flags = cmd.PersistentFlags()
			}
			flag := flags.Lookup(tt.flag)
			if flag == nil {
				t.Fatalf("Expected flag %s", tt.flag)
			}
			if flag.Value.Type() != tt.wantType {
				t.Errorf("Expected type %s, got %s", tt.wantType, flag.Value.Type())
			}
			if flag.Shorthand != tt.wantShort {
				t.Errorf("Expected shorthand %q, got %q", tt.wantShort, flag.Shorthand)
			}
			if flag.DefValue != tt.wantDef {
				t.Errorf("Expected default %q, got %q", tt.wantDef, flag.DefValue)
			}
		})
	}

	// Local root flags are not inherited; global ones are.
	list, _ := b.GetCommandByPath("list")
	if list.InheritedFlags().Lookup("config") != nil {
		t.Error("Expected --config to stay local to the root")
	}
	if list.InheritedFlags().Lookup("verbose") == nil {
		t.Error("Expected --verbose to be inherited")
	}
}

func TestFlagBuilder_Required(t *testing.T) {
	spec := &argspec.CommandSpec{
		Name: "tool",
		Flags: []argspec.ArgumentSpec{
			{Name: "token", Long: "token", Arity: argspec.ArityOne, Required: true},
			{Name: "region", Long: "region", Arity: argspec.ArityOne, Required: true, Global: true},
		},
	}
	cmd := &cobra.Command{Use: "tool"}
	if err := NewFlagBuilder().AddFlags(cmd, spec); err != nil {
		t.Fatalf("AddFlags failed: %v", err)
	}

	token := cmd.Flags().Lookup("token")
	if _, ok := token.Annotations[cobra.BashCompOneRequiredFlag]; !ok {
		t.Error("Expected --token to be marked required")
	}
	region := cmd.PersistentFlags().Lookup("region")
	if _, ok := region.Annotations[cobra.BashCompOneRequiredFlag]; !ok {
		t.Error("Expected --region to be marked required")
	}
}

func TestFlagBuilder_ShortOnlyFlag(t *testing.T) {
	spec := &argspec.CommandSpec{
		Name:  "tool",
		Flags: []argspec.ArgumentSpec{{Name: "dry_run", Short: 'n', Arity: argspec.ArityNone}},
	}
	cmd := &cobra.Command{Use: "tool"}
	if err := NewFlagBuilder().AddFlags(cmd, spec); err != nil {
		t.Fatalf("AddFlags failed: %v", err)
	}

	flag := cmd.Flags().ShorthandLookup("n")
	if flag == nil || flag.Name != "dry-run" {
		t.Fatalf("Expected -n to map to --dry-run, got %v", flag)
	}
}

func TestFlagUsage(t *testing.T) {
	tests := []struct {
		name string
		arg  argspec.ArgumentSpec
		want string
	}{
		{
			name: "no placeholder",
			arg:  argspec.ArgumentSpec{Arity: argspec.ArityOne, Help: "Output format"},
			want: "Output format",
		},
		{
			name: "placeholder in help",
			arg:  argspec.ArgumentSpec{Arity: argspec.ArityOne, ValueName: "FILE", Help: "Read FILE first"},
			want: "Read `FILE` first",
		},
		{
			name: "placeholder appended",
			arg:  argspec.ArgumentSpec{Arity: argspec.ArityOne, ValueName: "N", Help: "How many"},
			want: "How many (`N`)",
		},
		{
			name: "switch ignores placeholder",
			arg:  argspec.ArgumentSpec{Arity: argspec.ArityNone, ValueName: "X", Help: "Use `x`"},
			want: "Use 'x'",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := flagUsage(&tt.arg); got != tt.want {
				t.Errorf("flagUsage() = %q, want %q", got, tt.want)
			}
		})
	}
}

func TestDefaultInt(t *testing.T) {
	tests := []struct {
		raw     string
		want    int64
		wantErr bool
	}{
		{raw: "", want: 0},
		{raw: "010", want: 10},
		{raw: "08", want: 8},
		{raw: "-3", want: -3},
		{raw: "0x10", wantErr: true},
		{raw: "many", wantErr: true},
	}

	for _, tt := range tests {
		t.Run(tt.raw, func(t *testing.T) {
			got, err := defaultInt(tt.raw)
			if (err != nil) != tt.wantErr {
				t.Fatalf("defaultInt(%q) error = %v, wantErr %v", tt.raw, err, tt.wantErr)
			}
			if got != tt.want {
				t.Errorf("defaultInt(%q) = %d, want %d", tt.raw, got, tt.want)
			}
		})
	}
}
