package ledger

import "github.com/roach88/arwiki/internal/arwiki"

// ExtractPage reads the Arwiki-Page-* tags of tx by exact name.
// Missing tags yield empty strings; extraction never fails.
func ExtractPage(tx Transaction) arwiki.PageTransaction {
	return arwiki.PageTransaction{
		ID:       tx.ID,
		Title:    tx.Tags.Get(arwiki.TagPageTitle),
		Slug:     tx.Tags.Get(arwiki.TagPageSlug),
		Category: tx.Tags.Get(arwiki.TagPageCategory),
		Language: tx.Tags.Get(arwiki.TagPageLang),
		Value:    tx.Tags.Get(arwiki.TagPageValue),
		Img:      tx.Tags.Get(arwiki.TagPageImg),
		Owner:    tx.Owner,
		Block:    tx.Block,
	}
}
