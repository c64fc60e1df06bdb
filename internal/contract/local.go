package contract

import (
	"context"
	"fmt"
)

// StateStore is the snapshot source behind a Local binding.
// store.Store implements it.
type StateStore interface {
	ContractState(ctx context.Context, contractID string) ([]byte, error)
}

// Local reads contract state snapshots from the dev ledger.
type Local struct {
	store StateStore
}

var _ StateService = (*Local)(nil)

// NewLocal creates a Local binding over s.
func NewLocal(s StateStore) *Local {
	return &Local{store: s}
}

// State returns the latest snapshot of contractID.
func (l *Local) State(ctx context.Context, contractID string) (State, error) {
	raw, err := l.store.ContractState(ctx, contractID)
	if err != nil {
		return nil, fmt.Errorf("contract %s: %w", contractID, err)
	}
	return DecodeState(raw)
}
