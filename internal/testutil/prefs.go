package testutil

import (
	"sync"

	"github.com/roach88/arwiki/internal/arwiki"
)

// MemoryPreferences keeps user preferences in memory.
type MemoryPreferences struct {
	mu       sync.Mutex
	lang     *arwiki.LanguageEntry
	network  string
	SetCalls int
}

// NewMemoryPreferences creates preferences with an optional default language.
func NewMemoryPreferences(lang *arwiki.LanguageEntry) *MemoryPreferences {
	return &MemoryPreferences{lang: lang}
}

// DefaultLanguage returns the stored language code, "" when unset.
func (p *MemoryPreferences) DefaultLanguage() string {
	p.mu.Lock()
	defer p.mu.Unlock()
	if p.lang == nil {
		return ""
	}
	return p.lang.Code
}

// SetDefaultLanguage stores entry.
func (p *MemoryPreferences) SetDefaultLanguage(entry arwiki.LanguageEntry) error {
	p.mu.Lock()
	defer p.mu.Unlock()
	p.lang = &entry
	p.SetCalls++
	return nil
}

// DefaultNetwork returns the stored network name.
func (p *MemoryPreferences) DefaultNetwork() string {
	p.mu.Lock()
	defer p.mu.Unlock()
	return p.network
}

// SetDefaultNetwork stores name.
func (p *MemoryPreferences) SetDefaultNetwork(name string) error {
	p.mu.Lock()
	defer p.mu.Unlock()
	p.network = name
	return nil
}
