package query

import (
	"github.com/roach88/arwiki/internal/arwiki"
	"github.com/roach88/arwiki/internal/ledger"
)

// Merge joins content transactions with the index by extracted slug.
//
// Every transaction must match an index key whose content id is the
// transaction's own id; the first that does not yields an
// IndexContentMismatch error. Output order follows txs.
func Merge(index map[string]arwiki.PageIndexEntry, txs []ledger.Transaction, lang string) ([]arwiki.ResolvedPage, error) {
	pages := make([]arwiki.ResolvedPage, 0, len(txs))
	for _, tx := range txs {
		page := ledger.ExtractPage(tx)
		entry, ok := index[page.Slug]
		if !ok || entry.Content != tx.ID {
			return nil, arwiki.IndexContentMismatch(page.Slug, tx.ID, lang)
		}
		pages = append(pages, arwiki.ResolvedPage{
			PageTransaction: page,
			Start:           entry.Start,
			Sponsor:         entry.Sponsor,
			PageRewardAt:    entry.PageRewardAt,
		})
	}
	return pages, nil
}
