package testutil

import (
	"context"
	"fmt"
	"slices"
	"sync"

	"github.com/roach88/arwiki/internal/ledger"
)

// FakeLedger is an in-memory ledger.Client.
//
// Transactions are returned in insertion order. Each Submit or Add mines one
// block. Errors can be injected per method.
//
// Thread-safety: all methods are safe for concurrent use via internal mutex.
type FakeLedger struct {
	mu     sync.Mutex
	txs    []ledger.Transaction
	height int64

	// Submitted records every transaction passed to Submit.
	Submitted []*ledger.SignedTransaction

	// IDBatches records the id list of every FetchByIDs call.
	IDBatches [][]string

	SubmitErr error
	HeightErr error
	TagsErr   error
	IDsErr    error
}

var _ ledger.Client = (*FakeLedger)(nil)

// NewFakeLedger creates a ledger holding txs, mined in order.
func NewFakeLedger(txs ...ledger.Transaction) *FakeLedger {
	l := &FakeLedger{}
	for _, tx := range txs {
		l.Add(tx)
	}
	return l
}

// Add appends tx. A zero Block is set to the next height.
func (l *FakeLedger) Add(tx ledger.Transaction) {
	l.mu.Lock()
	defer l.mu.Unlock()
	l.height++
	if tx.Block == 0 {
		tx.Block = l.height
	}
	if tx.Tags == nil {
		tx.Tags = ledger.Tags{}
	}
	l.txs = append(l.txs, tx)
}

// Submit records tx and makes it visible to fetches.
func (l *FakeLedger) Submit(_ context.Context, tx *ledger.SignedTransaction) (string, error) {
	if l.SubmitErr != nil {
		return "", l.SubmitErr
	}
	if tx == nil {
		return "", fmt.Errorf("nil transaction")
	}
	l.mu.Lock()
	l.Submitted = append(l.Submitted, tx)
	l.mu.Unlock()
	l.Add(ledger.Transaction{
		ID:    tx.ID,
		Owner: tx.Owner,
		Tags:  slices.Clone(tx.Tags),
	})
	return tx.ID, nil
}

// NetworkHeight returns the number of mined blocks.
func (l *FakeLedger) NetworkHeight(context.Context) (int64, error) {
	if l.HeightErr != nil {
		return 0, l.HeightErr
	}
	l.mu.Lock()
	defer l.mu.Unlock()
	return l.height, nil
}

// FetchByTags matches predicates the way a gateway does.
func (l *FakeLedger) FetchByTags(_ context.Context, predicates []ledger.TagPredicate, limit int) ([]ledger.Transaction, error) {
	if l.TagsErr != nil {
		return nil, l.TagsErr
	}
	l.mu.Lock()
	defer l.mu.Unlock()
	out := []ledger.Transaction{}
	for _, tx := range l.txs {
		if limit > 0 && len(out) >= limit {
			break
		}
		if matches(tx, predicates) {
			out = append(out, tx)
		}
	}
	return out, nil
}

// FetchByIDs returns known transactions among ids.
func (l *FakeLedger) FetchByIDs(_ context.Context, ids []string) ([]ledger.Transaction, error) {
	l.mu.Lock()
	defer l.mu.Unlock()
	l.IDBatches = append(l.IDBatches, slices.Clone(ids))
	if l.IDsErr != nil {
		return nil, l.IDsErr
	}
	if len(ids) > ledger.MaxIDsPerQuery {
		return nil, fmt.Errorf("fetch by ids: %d ids exceeds limit of %d", len(ids), ledger.MaxIDsPerQuery)
	}
	out := []ledger.Transaction{}
	for _, tx := range l.txs {
		if slices.Contains(ids, tx.ID) {
			out = append(out, tx)
		}
	}
	return out, nil
}

func matches(tx ledger.Transaction, predicates []ledger.TagPredicate) bool {
	for _, p := range predicates {
		ok := false
		for _, tag := range tx.Tags {
			if tag.Name == p.Name && slices.Contains(p.Values, tag.Value) {
				ok = true
				break
			}
		}
		if !ok {
			return false
		}
	}
	return true
}
