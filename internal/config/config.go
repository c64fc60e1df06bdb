// Package config loads the arwiki network configuration and user preferences.
//
// The configuration file is YAML. After decoding it is checked against an
// embedded CUE schema, then against rules CUE cannot express (unique network
// names, default network present).
package config

import (
	"bytes"
	_ "embed"
	"fmt"
	"os"
	"path/filepath"

	"cuelang.org/go/cue"
	"cuelang.org/go/cue/cuecontext"
	cueerrors "cuelang.org/go/cue/errors"
	"gopkg.in/yaml.v3"

	"github.com/roach88/arwiki/internal/arwiki"
)

//go:embed schema.cue
var schemaSource string

// DefaultFile is the configuration file name looked up by the CLI.
const DefaultFile = "arwiki.yaml"

// Config is the decoded configuration file.
type Config struct {
	DefaultNetwork  string                 `yaml:"default_network" json:"default_network"`
	Networks        []arwiki.NetworkConfig `yaml:"networks" json:"networks"`
	PreferencesPath string                 `yaml:"preferences_path,omitempty" json:"preferences_path,omitempty"`
}

// Default returns the built-in configuration: a single loopback dev network
// backed by a SQLite ledger in the working directory.
func Default() *Config {
	return &Config{
		DefaultNetwork: "localhost",
		Networks: []arwiki.NetworkConfig{
			{
				Name:            "localhost",
				Host:            "127.0.0.1",
				Port:            1984,
				Protocol:        "http",
				ContractAddress: "arwiki-token",
				Contracts: arwiki.Contracts{
					Languages:  "arwiki-languages",
					Admins:     "arwiki-admins",
					Categories: "arwiki-categories",
				},
				DevDatabase: "arwiki-dev.db",
			},
		},
		PreferencesPath: ".arwiki-preferences.yaml",
	}
}

// Load reads and validates the configuration at path.
// Unknown fields are rejected. Relative dev_database and preferences_path
// values are resolved against the file's directory.
func Load(path string) (*Config, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("failed to read config file: %w", err)
	}

	var cfg Config
	decoder := yaml.NewDecoder(bytes.NewReader(data))
	decoder.KnownFields(true)
	if err := decoder.Decode(&cfg); err != nil {
		return nil, arwiki.InvalidInput("config.Load", fmt.Sprintf("failed to parse YAML: %v", err))
	}

	if err := Validate(&cfg); err != nil {
		return nil, err
	}

	base := filepath.Dir(path)
	for i := range cfg.Networks {
		if db := cfg.Networks[i].DevDatabase; db != "" && !filepath.IsAbs(db) {
			cfg.Networks[i].DevDatabase = filepath.Join(base, db)
		}
	}
	if p := cfg.PreferencesPath; p != "" && !filepath.IsAbs(p) {
		cfg.PreferencesPath = filepath.Join(base, p)
	}
	return &cfg, nil
}

// Validate checks cfg against the CUE schema and the cross-field rules.
func Validate(cfg *Config) error {
	const op = "config.Validate"

	ctx := cuecontext.New()
	schema := ctx.CompileString(schemaSource, cue.Filename("schema.cue"))
	if err := schema.Err(); err != nil {
		return fmt.Errorf("compile config schema: %w", err)
	}

	v := ctx.Encode(cfg)
	if err := v.Err(); err != nil {
		return arwiki.InvalidInput(op, fmt.Sprintf("encode config: %v", err))
	}

	unified := schema.LookupPath(cue.ParsePath("#Config")).Unify(v)
	if err := unified.Validate(cue.Concrete(true)); err != nil {
		return arwiki.InvalidInput(op, cueerrors.Details(err, nil))
	}

	seen := make(map[string]bool, len(cfg.Networks))
	for _, n := range cfg.Networks {
		if seen[n.Name] {
			return arwiki.InvalidInput(op, fmt.Sprintf("duplicate network %q", n.Name))
		}
		seen[n.Name] = true
		if n.IsLoopback() && n.DevDatabase == "" {
			return arwiki.InvalidInput(op, fmt.Sprintf("loopback network %q requires dev_database", n.Name))
		}
	}
	if !seen[cfg.DefaultNetwork] {
		return arwiki.InvalidInput(op, fmt.Sprintf("default_network %q is not a configured network", cfg.DefaultNetwork))
	}
	return nil
}

// Network returns the network named name.
func (c *Config) Network(name string) (arwiki.NetworkConfig, bool) {
	for _, n := range c.Networks {
		if n.Name == name {
			return n, true
		}
	}
	return arwiki.NetworkConfig{}, false
}

// NetworkPreference is the part of the user preferences that picks a network.
type NetworkPreference interface {
	DefaultNetwork() string
}

// SelectNetwork returns the user's preferred network, or the configured
// default when no preference is stored.
func SelectNetwork(cfg *Config, prefs NetworkPreference) (arwiki.NetworkConfig, error) {
	name := cfg.DefaultNetwork
	if prefs != nil && prefs.DefaultNetwork() != "" {
		name = prefs.DefaultNetwork()
	}
	n, ok := cfg.Network(name)
	if !ok {
		return arwiki.NetworkConfig{}, arwiki.InvalidInput("config.SelectNetwork", fmt.Sprintf("unknown network %q", name))
	}
	return n, nil
}
