// Package query lists approved arwiki pages.
//
// A listing reconciles two sources: the token contract's page index (slug to
// content transaction id plus stake data) and the ledger transactions those
// ids point to. The index is fetched once per call and every content batch is
// merged against that snapshot. A content transaction whose slug is not in the
// snapshot is an integrity failure (IndexContentMismatch), never dropped.
package query

import (
	"context"
	"log/slog"
	"sort"

	"github.com/roach88/arwiki/internal/arwiki"
	"github.com/roach88/arwiki/internal/ledger"
)

// PageIndex is the token contract's approved-page index.
type PageIndex interface {
	ApprovedPages(ctx context.Context, lang string, onlyActive bool) (map[string]arwiki.PageIndexEntry, error)
}

// CategoryProbe is used as an availability check before reading the index.
type CategoryProbe interface {
	Categories(ctx context.Context) (map[string]arwiki.CategoryEntry, error)
}

// Engine answers page listings.
type Engine struct {
	ledger     ledger.Client
	index      PageIndex
	categories CategoryProbe
	logger     *slog.Logger
	batchSize  int
}

// Option configures an Engine.
type Option func(*Engine)

// WithLogger sets the engine logger.
func WithLogger(l *slog.Logger) Option {
	return func(e *Engine) { e.logger = l }
}

// WithBatchSize sets how many ids go into one FetchByIDs call.
// Values outside 1..ledger.MaxIDsPerQuery are clamped.
func WithBatchSize(n int) Option {
	return func(e *Engine) {
		e.batchSize = min(max(n, 1), ledger.MaxIDsPerQuery)
	}
}

// New creates an Engine.
func New(l ledger.Client, index PageIndex, categories CategoryProbe, opts ...Option) *Engine {
	e := &Engine{
		ledger:     l,
		index:      index,
		categories: categories,
		logger:     slog.Default(),
		batchSize:  ledger.MaxIDsPerQuery,
	}
	for _, opt := range opts {
		opt(e)
	}
	return e
}

// ListApprovedPages returns a cursor over the approved pages of lang.
//
// The categories probe and the index fetch happen before this returns.
// Content transactions are fetched in batches as the cursor advances.
//
// With filter set, only active index entries with a content id are listed.
// Without it every indexed slug is listed; slugs whose content transaction the
// ledger does not return are yielded last, sorted by slug, carrying only the
// index data and the content id.
func (e *Engine) ListApprovedPages(ctx context.Context, lang string, filter bool) (*PageCursor, error) {
	const op = "query.ListApprovedPages"

	if _, err := e.categories.Categories(ctx); err != nil {
		return nil, arwiki.NetworkUnavailable(op, err)
	}

	index, err := e.index.ApprovedPages(ctx, lang, filter)
	if err != nil {
		return nil, arwiki.NetworkUnavailable(op, err)
	}

	ids := contentIDs(index)
	e.logger.Debug("page index loaded",
		"language", lang,
		"filter", filter,
		"slugs", len(index),
		"content_ids", len(ids))

	return &PageCursor{
		ctx:        ctx,
		ledger:     e.ledger,
		lang:       lang,
		index:      index,
		batches:    ledger.Batches(ids, e.batchSize),
		unfiltered: !filter,
		emitted:    make(map[string]bool, len(index)),
		logger:     e.logger,
	}, nil
}

// contentIDs returns the distinct, non-empty content ids of index, ordered by
// slug so batching is deterministic.
func contentIDs(index map[string]arwiki.PageIndexEntry) []string {
	slugs := make([]string, 0, len(index))
	for slug := range index {
		slugs = append(slugs, slug)
	}
	sort.Strings(slugs)

	seen := make(map[string]bool, len(index))
	ids := make([]string, 0, len(index))
	for _, slug := range slugs {
		id := index[slug].Content
		if id == "" || seen[id] {
			continue
		}
		seen[id] = true
		ids = append(ids, id)
	}
	return ids
}
