// Package ledger defines the narrow interface the core uses to talk to the
// append-only transaction ledger, plus the transaction, tag and signing
// primitives shared by every ledger binding.
//
// Two bindings implement Client: gateway.Client (a networked HTTP gateway)
// and store.Store (a SQLite dev ledger used for loopback hosts).
package ledger

import (
	"context"
)

// MaxIDsPerQuery bounds how many transaction ids one FetchByIDs call may carry.
// Gateways reject larger id lists.
const MaxIDsPerQuery = 100

// Tag is a key/value metadata pair attached to a transaction.
type Tag struct {
	Name  string `json:"name" yaml:"name"`
	Value string `json:"value" yaml:"value"`
}

// Tags is an ordered tag set. Order is preserved on the ledger.
type Tags []Tag

// Get returns the value of the first tag named name, or "" when absent.
func (t Tags) Get(name string) string {
	for _, tag := range t {
		if tag.Name == name {
			return tag.Value
		}
	}
	return ""
}

// Has reports whether a tag named name is present.
func (t Tags) Has(name string) bool {
	for _, tag := range t {
		if tag.Name == name {
			return true
		}
	}
	return false
}

// Transaction is the metadata view of a confirmed ledger transaction.
type Transaction struct {
	ID    string `json:"id"`
	Owner string `json:"owner"`
	Tags  Tags   `json:"tags"`

	// Block is the confirming block height; 0 while pending.
	Block int64 `json:"block"`
}

// TagPredicate matches transactions carrying tag Name with any of Values.
// Predicates in a query are ANDed.
type TagPredicate struct {
	Name   string
	Values []string
}

// Client is the ledger network binding.
type Client interface {
	// Submit posts a signed transaction and returns its id.
	Submit(ctx context.Context, tx *SignedTransaction) (string, error)

	// NetworkHeight returns the current block height.
	NetworkHeight(ctx context.Context) (int64, error)

	// FetchByTags returns up to limit transactions matching every predicate.
	FetchByTags(ctx context.Context, predicates []TagPredicate, limit int) ([]Transaction, error)

	// FetchByIDs returns the transactions with the given ids in one request.
	// Missing ids are omitted. Result order is binding-defined.
	FetchByIDs(ctx context.Context, ids []string) ([]Transaction, error)
}

// Batches splits ids into chunks of at most size, preserving order.
func Batches(ids []string, size int) [][]string {
	if size <= 0 {
		size = MaxIDsPerQuery
	}
	var out [][]string
	for start := 0; start < len(ids); start += size {
		end := min(start+size, len(ids))
		out = append(out, ids[start:end])
	}
	return out
}
