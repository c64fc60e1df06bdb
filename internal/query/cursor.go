package query

import (
	"context"
	"log/slog"
	"sort"

	"github.com/roach88/arwiki/internal/arwiki"
	"github.com/roach88/arwiki/internal/ledger"
)

// PageCursor iterates the result of one ListApprovedPages call.
//
// It is finite and not restartable; list again for a fresh snapshot. A cursor
// is not safe for concurrent use.
//
//	cur, err := engine.ListApprovedPages(ctx, "en", true)
//	for cur.Next() {
//		page := cur.Page()
//	}
//	if err := cur.Err(); err != nil { ... }
type PageCursor struct {
	ctx    context.Context
	ledger ledger.Client
	lang   string
	logger *slog.Logger

	index      map[string]arwiki.PageIndexEntry
	batches    [][]string
	unfiltered bool

	// emitted tracks slugs already resolved from the ledger.
	emitted map[string]bool

	buf      []arwiki.ResolvedPage
	current  arwiki.ResolvedPage
	tailDone bool
	done     bool
	err      error
}

// Next advances to the next page. It returns false when the listing is
// exhausted or failed; check Err.
func (c *PageCursor) Next() bool {
	if c.done {
		return false
	}
	for len(c.buf) == 0 {
		if !c.fill() {
			c.done = true
			return false
		}
	}
	c.current = c.buf[0]
	c.buf = c.buf[1:]
	return true
}

// Page returns the page at the cursor.
func (c *PageCursor) Page() arwiki.ResolvedPage {
	return c.current
}

// Err returns the error that stopped iteration, if any.
func (c *PageCursor) Err() error {
	return c.err
}

// Slugs returns the number of slugs in the index snapshot.
func (c *PageCursor) Slugs() int {
	return len(c.index)
}

// fill loads the next batch into buf. It reports false when nothing is left
// or an error occurred.
func (c *PageCursor) fill() bool {
	if len(c.batches) > 0 {
		batch := c.batches[0]
		c.batches = c.batches[1:]

		txs, err := c.ledger.FetchByIDs(c.ctx, batch)
		if err != nil {
			c.err = arwiki.NetworkUnavailable("query.ListApprovedPages", err)
			return false
		}
		pages, err := Merge(c.index, txs, c.lang)
		if err != nil {
			c.err = err
			return false
		}
		for _, p := range pages {
			c.emitted[p.Slug] = true
		}
		c.buf = append(c.buf, pages...)
		return true
	}

	if c.unfiltered && !c.tailDone {
		c.tailDone = true
		c.buf = Unresolved(c.index, c.emitted)
		if len(c.buf) > 0 {
			c.logger.Debug("index entries without content",
				"language", c.lang,
				"count", len(c.buf))
		}
		return true
	}
	return false
}

// Collect drains cur into a slice.
func Collect(cur *PageCursor) ([]arwiki.ResolvedPage, error) {
	pages := []arwiki.ResolvedPage{}
	for cur.Next() {
		pages = append(pages, cur.Page())
	}
	if err := cur.Err(); err != nil {
		return nil, err
	}
	return pages, nil
}

// BySlug keys pages by slug for order-insensitive comparison.
func BySlug(pages []arwiki.ResolvedPage) map[string]arwiki.ResolvedPage {
	out := make(map[string]arwiki.ResolvedPage, len(pages))
	for _, p := range pages {
		out[p.Slug] = p
	}
	return out
}

// Unresolved returns the index entries whose slug is not in emitted, sorted
// by slug.
func Unresolved(index map[string]arwiki.PageIndexEntry, emitted map[string]bool) []arwiki.ResolvedPage {
	out := []arwiki.ResolvedPage{}
	for slug, entry := range index {
		if emitted[slug] {
			continue
		}
		out = append(out, arwiki.ResolvedPage{
			PageTransaction: arwiki.PageTransaction{ID: entry.Content, Slug: slug},
			Start:           entry.Start,
			Sponsor:         entry.Sponsor,
			PageRewardAt:    entry.PageRewardAt,
		})
	}
	sort.Slice(out, func(i, j int) bool { return out[i].Slug < out[j].Slug })
	return out
}
