package contract

import (
	"context"
	"encoding/json"
	"fmt"

	"github.com/roach88/arwiki/internal/arwiki"
)

// Token is the main arwiki token contract.
type Token struct {
	svc StateService
	id  string
}

// NewToken returns a Token view of contract id.
func NewToken(svc StateService, id string) *Token {
	return &Token{svc: svc, id: id}
}

// ID returns the contract id.
func (t *Token) ID() string { return t.id }

// Ticker returns the token ticker, "" when the state has none.
func (t *Token) Ticker(ctx context.Context) (string, error) {
	state, err := t.svc.State(ctx, t.id)
	if err != nil {
		return "", arwiki.NetworkUnavailable("contract.Token.Ticker", err)
	}
	var ticker string
	if _, err := state.Field("ticker", &ticker); err != nil {
		return "", arwiki.NetworkUnavailable("contract.Token.Ticker", err)
	}
	return ticker, nil
}

// ApprovedPages returns the page index for lang keyed by slug.
//
// With onlyActive, entries that are inactive or have no content id are left
// out. A language with no pages yields an empty map.
func (t *Token) ApprovedPages(ctx context.Context, lang string, onlyActive bool) (map[string]arwiki.PageIndexEntry, error) {
	const op = "contract.Token.ApprovedPages"
	state, err := t.svc.State(ctx, t.id)
	if err != nil {
		return nil, arwiki.NetworkUnavailable(op, err)
	}
	var pages map[string]map[string]arwiki.PageIndexEntry
	if _, err := state.Field("pages", &pages); err != nil {
		return nil, arwiki.NetworkUnavailable(op, err)
	}

	out := make(map[string]arwiki.PageIndexEntry, len(pages[lang]))
	for slug, entry := range pages[lang] {
		if onlyActive && (!entry.Active || entry.Content == "") {
			continue
		}
		out[slug] = entry
	}
	return out, nil
}

// Languages is the languages contract.
type Languages struct {
	svc StateService
	id  string
}

// NewLanguages returns a Languages view of contract id.
func NewLanguages(svc StateService, id string) *Languages {
	return &Languages{svc: svc, id: id}
}

// Languages returns the language mapping keyed by code. The state may hold the
// mapping under "languages" or be the mapping itself.
func (l *Languages) Languages(ctx context.Context) (map[string]arwiki.LanguageEntry, error) {
	const op = "contract.Languages.Languages"
	state, err := l.svc.State(ctx, l.id)
	if err != nil {
		return nil, arwiki.NetworkUnavailable(op, err)
	}
	langs, err := decodeMapping[arwiki.LanguageEntry](state, "languages")
	if err != nil {
		return nil, arwiki.NetworkUnavailable(op, err)
	}
	for code, entry := range langs {
		if entry.Code == "" {
			entry.Code = code
			langs[code] = entry
		}
	}
	return langs, nil
}

// Admins is the moderators contract.
type Admins struct {
	svc StateService
	id  string
}

// NewAdmins returns an Admins view of contract id.
func NewAdmins(svc StateService, id string) *Admins {
	return &Admins{svc: svc, id: id}
}

// AdminList returns the moderator addresses. Nothing is cached.
func (a *Admins) AdminList(ctx context.Context) (arwiki.AdminList, error) {
	const op = "contract.Admins.AdminList"
	state, err := a.svc.State(ctx, a.id)
	if err != nil {
		return nil, arwiki.NetworkUnavailable(op, err)
	}
	list := arwiki.AdminList{}
	if _, err := state.Field("admins", &list); err != nil {
		return nil, arwiki.NetworkUnavailable(op, err)
	}
	return list, nil
}

// Categories is the categories contract.
type Categories struct {
	svc StateService
	id  string
}

// NewCategories returns a Categories view of contract id.
func NewCategories(svc StateService, id string) *Categories {
	return &Categories{svc: svc, id: id}
}

// Categories returns the category mapping keyed by slug.
func (c *Categories) Categories(ctx context.Context) (map[string]arwiki.CategoryEntry, error) {
	const op = "contract.Categories.Categories"
	state, err := c.svc.State(ctx, c.id)
	if err != nil {
		return nil, arwiki.NetworkUnavailable(op, err)
	}
	cats, err := decodeMapping[arwiki.CategoryEntry](state, "categories")
	if err != nil {
		return nil, arwiki.NetworkUnavailable(op, err)
	}
	for slug, entry := range cats {
		if entry.Slug == "" {
			entry.Slug = slug
			cats[slug] = entry
		}
	}
	return cats, nil
}

// decodeMapping reads state[field] as a mapping, or the whole state when the
// field is absent.
func decodeMapping[T any](state State, field string) (map[string]T, error) {
	out := map[string]T{}
	found, err := state.Field(field, &out)
	if err != nil {
		return nil, err
	}
	if found {
		return out, nil
	}
	for key, raw := range state {
		var v T
		if err := json.Unmarshal(raw, &v); err != nil {
			return nil, fmt.Errorf("decode entry %q: %w", key, err)
		}
		out[key] = v
	}
	return out, nil
}
