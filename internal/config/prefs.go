package config

import (
	"errors"
	"fmt"
	"io/fs"
	"os"
	"sync"

	"gopkg.in/yaml.v3"

	"github.com/roach88/arwiki/internal/arwiki"
)

type preferences struct {
	DefaultLanguage *arwiki.LanguageEntry `yaml:"default_language,omitempty"`
	DefaultNetwork  string                `yaml:"default_network,omitempty"`
}

// PreferencesFile persists user preferences as YAML.
// Every setter rewrites the file.
type PreferencesFile struct {
	mu   sync.Mutex
	path string
	data preferences
}

// LoadPreferences reads the preferences at path. A missing file yields empty
// preferences.
func LoadPreferences(path string) (*PreferencesFile, error) {
	p := &PreferencesFile{path: path}
	raw, err := os.ReadFile(path)
	if errors.Is(err, fs.ErrNotExist) {
		return p, nil
	}
	if err != nil {
		return nil, fmt.Errorf("failed to read preferences: %w", err)
	}
	if err := yaml.Unmarshal(raw, &p.data); err != nil {
		return nil, fmt.Errorf("failed to parse preferences: %w", err)
	}
	return p, nil
}

// DefaultLanguage returns the stored language code, "" when unset.
func (p *PreferencesFile) DefaultLanguage() string {
	p.mu.Lock()
	defer p.mu.Unlock()
	if p.data.DefaultLanguage == nil {
		return ""
	}
	return p.data.DefaultLanguage.Code
}

// SetDefaultLanguage stores entry and saves the file.
func (p *PreferencesFile) SetDefaultLanguage(entry arwiki.LanguageEntry) error {
	p.mu.Lock()
	defer p.mu.Unlock()
	p.data.DefaultLanguage = &entry
	return p.save()
}

// DefaultNetwork returns the stored network name, "" when unset.
func (p *PreferencesFile) DefaultNetwork() string {
	p.mu.Lock()
	defer p.mu.Unlock()
	return p.data.DefaultNetwork
}

// SetDefaultNetwork stores name and saves the file.
func (p *PreferencesFile) SetDefaultNetwork(name string) error {
	p.mu.Lock()
	defer p.mu.Unlock()
	p.data.DefaultNetwork = name
	return p.save()
}

func (p *PreferencesFile) save() error {
	raw, err := yaml.Marshal(p.data)
	if err != nil {
		return fmt.Errorf("encode preferences: %w", err)
	}
	if err := os.WriteFile(p.path, raw, 0o644); err != nil {
		return fmt.Errorf("write preferences: %w", err)
	}
	return nil
}
