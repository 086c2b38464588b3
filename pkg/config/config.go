// Package config handles loading of CLI configuration and serves it as a
// source of argument defaults.
//
// Configuration is YAML. Argument defaults live under "defaults", keyed by
// the command path below the root and then the argument name:
//
//	defaults:
//	  verbose: 1        # root argument
//	  list:
//	    format: json    # "myapp list --format"
//	store:
//	  path: ~/items.json
//
// Every key can be overridden from the environment with the CLI name as
// prefix, for example MYAPP_DEFAULTS_LIST_FORMAT=yaml.
package config

import (
	"bytes"
	"embed"
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"github.com/CliForge/argspec/pkg/argspec"
	"github.com/CliForge/argspec/pkg/store"
	"github.com/adrg/xdg"
	"github.com/spf13/cast"
	"github.com/spf13/viper"
	"gopkg.in/yaml.v3"
)

// Well-known keys.
const (
	KeyDefaults  = "defaults"
	KeyStorePath = "store.path"
	KeyColor     = "output.color"
)

// Loader handles loading configurations from various sources.
type Loader struct {
	cliName      string
	embeddedFS   *embed.FS
	embeddedPath string
	configFile   string
	envPrefix    string
}

// NewLoader creates a new configuration loader. embeddedFS may be nil when
// the binary ships no base configuration.
func NewLoader(cliName string, embeddedFS *embed.FS, embeddedPath string) *Loader {
	return &Loader{
		cliName:      cliName,
		embeddedFS:   embeddedFS,
		embeddedPath: embeddedPath,
		envPrefix:    strings.ToUpper(strings.ReplaceAll(cliName, "-", "_")),
	}
}

// WithConfigFile makes the loader read path instead of the XDG location.
// Unlike the XDG file, an explicit file must exist.
func (l *Loader) WithConfigFile(path string) *Loader {
	l.configFile = path
	return l
}

// Load loads and merges configuration from all sources.
// Priority: ENV > user config > embedded > built-in default.
func (l *Loader) Load() (*Config, error) {
	v := viper.New()
	v.SetConfigType("yaml")
	v.SetEnvPrefix(l.envPrefix)
	v.SetEnvKeyReplacer(strings.NewReplacer(".", "_", "-", "_"))
	v.AutomaticEnv()

	v.SetDefault(KeyStorePath, store.DefaultPath(l.cliName))
	v.SetDefault(KeyColor, true)

	if l.embeddedFS != nil {
		data, err := l.embeddedFS.ReadFile(l.embeddedPath)
		if err != nil {
			return nil, fmt.Errorf("failed to read embedded config: %w", err)
		}
		if err := merge(v, data); err != nil {
			return nil, fmt.Errorf("failed to parse embedded config: %w", err)
		}
	}

	path, explicit := l.ConfigPath()
	data, err := os.ReadFile(path)
	switch {
	case err == nil:
		if err := merge(v, data); err != nil {
			return nil, fmt.Errorf("failed to parse config %s: %w", path, err)
		}
	case errors.Is(err, os.ErrNotExist) && !explicit:
		// User config is optional.
		path = ""
	default:
		return nil, fmt.Errorf("failed to read config: %w", err)
	}

	return &Config{v: v, file: path, envPrefix: l.envPrefix}, nil
}

// merge decodes YAML with yaml.v3, which reports line numbers, and merges
// the result into v.
func merge(v *viper.Viper, data []byte) error {
	if len(bytes.TrimSpace(data)) == 0 {
		return nil
	}
	var doc map[string]any
	if err := yaml.Unmarshal(data, &doc); err != nil {
		return err
	}
	return v.MergeConfigMap(doc)
}

// ConfigPath returns the config file path and whether it was set
// explicitly, by WithConfigFile or the <PREFIX>_CONFIG variable.
func (l *Loader) ConfigPath() (string, bool) {
	if l.configFile != "" {
		return l.configFile, true
	}
	if customPath := os.Getenv(l.envPrefix + "_CONFIG"); customPath != "" {
		return customPath, true
	}
	return filepath.Join(xdg.ConfigHome, l.cliName, "config.yaml"), false
}

// Config is a loaded configuration.
type Config struct {
	v         *viper.Viper
	file      string
	envPrefix string
}

// EnvPrefix returns the prefix of environment overrides, such as MYAPP.
func (c *Config) EnvPrefix() string {
	return c.envPrefix
}

// File returns the user config file that was read, or "".
func (c *Config) File() string {
	return c.file
}

// LookupDefault implements argspec.DefaultSource over the "defaults" tree.
func (c *Config) LookupDefault(owner []string, spec *argspec.ArgumentSpec) (string, bool) {
	key := DefaultKey(owner, spec.Name)
	if !c.v.IsSet(key) {
		return "", false
	}
	// A map here is a subcommand section that shares the argument's name.
	if _, isMap := c.v.Get(key).(map[string]any); isMap {
		return "", false
	}
	raw, err := cast.ToStringE(c.v.Get(key))
	if err != nil {
		return "", false
	}
	return raw, true
}

// DefaultKey returns the key holding the default for argument name of the
// command identified by owner, a chain starting at the root.
func DefaultKey(owner []string, name string) string {
	parts := []string{KeyDefaults}
	if len(owner) > 1 {
		parts = append(parts, owner[1:]...)
	}
	return strings.Join(append(parts, name), ".")
}

// StorePath returns the item store file, with a leading ~ expanded.
func (c *Config) StorePath() string {
	path := c.v.GetString(KeyStorePath)
	if rest, ok := strings.CutPrefix(path, "~/"); ok {
		if home, err := os.UserHomeDir(); err == nil {
			return filepath.Join(home, rest)
		}
	}
	return path
}

// Color reports whether colored output is enabled. NO_COLOR always wins.
func (c *Config) Color() bool {
	if _, ok := os.LookupEnv("NO_COLOR"); ok {
		return false
	}
	return c.v.GetBool(KeyColor)
}

var _ argspec.DefaultSource = (*Config)(nil)
