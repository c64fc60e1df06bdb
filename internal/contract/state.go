// Package contract reads and writes the arwiki smart contracts.
//
// A StateService returns the current evaluated state of a contract as raw
// JSON fields. Typed views (Token, Languages, Admins, Categories) decode the
// fields the core needs. Two bindings exist: Remote evaluates through an HTTP
// service, Local reads snapshots from the SQLite dev ledger. NewBinding picks
// one from the network configuration.
//
// Writes are contract interactions: signed ledger transactions built by
// Interactor.
package contract

import (
	"context"
	"encoding/json"
	"fmt"
)

// State is the top-level object of an evaluated contract state.
type State map[string]json.RawMessage

// StateService evaluates contract state.
type StateService interface {
	// State returns the current state of contractID.
	State(ctx context.Context, contractID string) (State, error)
}

// DecodeState parses a JSON object into a State.
func DecodeState(raw []byte) (State, error) {
	var s State
	if err := json.Unmarshal(raw, &s); err != nil {
		return nil, fmt.Errorf("decode contract state: %w", err)
	}
	if s == nil {
		return nil, fmt.Errorf("decode contract state: state is not an object")
	}
	return s, nil
}

// Field decodes the top-level field name into v.
// It reports false when the field is absent or JSON null.
func (s State) Field(name string, v any) (bool, error) {
	raw, ok := s[name]
	if !ok || string(raw) == "null" {
		return false, nil
	}
	if err := json.Unmarshal(raw, v); err != nil {
		return true, fmt.Errorf("decode field %q: %w", name, err)
	}
	return true, nil
}
