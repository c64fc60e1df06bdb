package bootstrap

import (
	"context"

	"github.com/roach88/arwiki/internal/arwiki"
)

// LanguageSource returns the languages contract mapping.
type LanguageSource interface {
	Languages(ctx context.Context) (map[string]arwiki.LanguageEntry, error)
}

// LanguageValidator checks route languages against the languages contract.
type LanguageValidator struct {
	source LanguageSource
}

// NewLanguageValidator creates a validator over source.
func NewLanguageValidator(source LanguageSource) *LanguageValidator {
	return &LanguageValidator{source: source}
}

// Validate returns the entry for code when it is in the mapping and active.
// An absent or inactive code yields a LanguageDenied error; a failed fetch
// yields NetworkUnavailable.
func (v *LanguageValidator) Validate(ctx context.Context, code string) (arwiki.LanguageEntry, error) {
	langs, err := v.source.Languages(ctx)
	if err != nil {
		return arwiki.LanguageEntry{}, arwiki.NetworkUnavailable("bootstrap.ValidateLanguage", err)
	}
	entry, ok := langs[code]
	if !ok || !entry.Active {
		return arwiki.LanguageEntry{}, arwiki.LanguageDenied(code)
	}
	if entry.Code == "" {
		entry.Code = code
	}
	return entry, nil
}

// IsValidLanguage reports whether code is an active language.
// Fetch failures are returned as errors, not as false.
func (v *LanguageValidator) IsValidLanguage(ctx context.Context, code string) (bool, error) {
	_, err := v.Validate(ctx, code)
	if arwiki.IsKind(err, arwiki.KindLanguageDenied) {
		return false, nil
	}
	if err != nil {
		return false, err
	}
	return true, nil
}
