package testutil

import (
	"context"
	"encoding/json"
	"fmt"
	"sync"

	"github.com/roach88/arwiki/internal/contract"
)

// FakeState is an in-memory contract.StateService.
//
// States are stored as JSON and decoded on every call, so each call observes
// the latest Set. Calls counts State calls per contract id.
type FakeState struct {
	mu     sync.Mutex
	states map[string][]byte
	errs   map[string]error
	calls  map[string]int

	// OnState, if set, runs before each State call returns.
	OnState func(contractID string)
}

var _ contract.StateService = (*FakeState)(nil)

// NewFakeState creates an empty FakeState.
func NewFakeState() *FakeState {
	return &FakeState{
		states: map[string][]byte{},
		errs:   map[string]error{},
		calls:  map[string]int{},
	}
}

// Set stores v (marshaled to JSON) as the state of contractID.
func (f *FakeState) Set(contractID string, v any) *FakeState {
	raw, err := json.Marshal(v)
	if err != nil {
		panic(fmt.Sprintf("FakeState.Set: %v", err))
	}
	f.mu.Lock()
	defer f.mu.Unlock()
	f.states[contractID] = raw
	return f
}

// Fail makes every State call for contractID return err. A nil err clears it.
func (f *FakeState) Fail(contractID string, err error) *FakeState {
	f.mu.Lock()
	defer f.mu.Unlock()
	if err == nil {
		delete(f.errs, contractID)
	} else {
		f.errs[contractID] = err
	}
	return f
}

// Calls returns how many times State was called for contractID.
func (f *FakeState) Calls(contractID string) int {
	f.mu.Lock()
	defer f.mu.Unlock()
	return f.calls[contractID]
}

// State implements contract.StateService.
func (f *FakeState) State(ctx context.Context, contractID string) (contract.State, error) {
	f.mu.Lock()
	f.calls[contractID]++
	raw, ok := f.states[contractID]
	err := f.errs[contractID]
	hook := f.OnState
	f.mu.Unlock()

	if hook != nil {
		hook(contractID)
	}
	if err := ctx.Err(); err != nil {
		return nil, err
	}
	if err != nil {
		return nil, err
	}
	if !ok {
		return nil, fmt.Errorf("contract %s: not found", contractID)
	}
	return contract.DecodeState(raw)
}
